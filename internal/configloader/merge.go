package configloader

import (
	"slices"

	"github.com/yaklabco/gocallout/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Booleans: only true overrides, so an unset flag never disables a feature
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.LangPrefix != "" {
		result.LangPrefix = override.LangPrefix
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.HighlightStyle != "" {
		result.HighlightStyle = override.HighlightStyle
	}
	if override.OutputDir != "" {
		result.OutputDir = override.OutputDir
	}
	if override.Extension != "" {
		result.Extension = override.Extension
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	if override.FrontMatter {
		result.FrontMatter = true
	}
	if override.UnsafeHTML {
		result.UnsafeHTML = true
	}
	if override.Highlight {
		result.Highlight = true
	}
	if override.DetectLanguage {
		result.DetectLanguage = true
	}
	if override.Standalone {
		result.Standalone = true
	}
	if override.DryRun {
		result.DryRun = true
	}

	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
