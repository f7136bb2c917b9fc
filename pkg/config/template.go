package config

import (
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template holding the
// default values. YAML templates carry a comment for every field.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON(NewConfig())
	}
	return []byte(yamlTemplate), nil
}

const yamlTemplate = `# gocallout configuration
# See: https://github.com/yaklabco/gocallout

# Markdown flavor: commonmark or gfm
flavor: gfm

# Prefix removed from fence info strings before "ad-" matching,
# e.g. "language-" when a host rewrites info strings.
lang_prefix: ""

# Maximum nesting of admonitions inside admonitions
max_depth: 16

# Parse YAML front matter (used for page titles)
front_matter: true

# Pass raw HTML and javascript: URLs through to the output
unsafe_html: false

# Syntax highlighting of fenced code blocks
highlight: false
highlight_style: github

# Guess the language of code fences without an info string
detect_language: false

# Output directory (empty = next to each source file)
output_dir: ""

# Extension of rendered files
extension: .html

# Wrap output in a complete HTML page
standalone: false

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"
`

// templateToJSON renders the default configuration as indented JSON.
func templateToJSON(cfg *Config) ([]byte, error) {
	fields := map[string]any{
		"flavor":          cfg.Flavor,
		"lang_prefix":     cfg.LangPrefix,
		"max_depth":       cfg.MaxDepth,
		"front_matter":    cfg.FrontMatter,
		"unsafe_html":     cfg.UnsafeHTML,
		"highlight":       cfg.Highlight,
		"highlight_style": cfg.HighlightStyle,
		"detect_language": cfg.DetectLanguage,
		"output_dir":      cfg.OutputDir,
		"extension":       cfg.Extension,
		"standalone":      cfg.Standalone,
		"ignore":          []string{},
	}

	jsonBytes, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}
