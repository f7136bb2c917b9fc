package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/gocallout/pkg/config"
)

// envVarPrefix is the prefix for all gocallout environment variables.
const envVarPrefix = "GOCALLOUT_"

// envBinding ties one environment variable to a configuration field.
type envBinding struct {
	suffix      string
	field       string
	description string
	apply       func(cfg *config.Config, value string) error
}

func stringEnv(set func(*config.Config, string)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		set(cfg, value)
		return nil
	}
}

func boolEnv(set func(*config.Config, bool)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
		}
		set(cfg, b)
		return nil
	}
}

func intEnv(set func(*config.Config, int)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		set(cfg, i)
		return nil
	}
}

// envBindings lists the supported variables, sorted by suffix.
//
//nolint:gochecknoglobals // read-only lookup table
var envBindings = []envBinding{
	{"DETECT_LANGUAGE", "detect_language", "Guess unlabelled fence languages",
		boolEnv(func(c *config.Config, v bool) { c.DetectLanguage = v })},
	{"EXTENSION", "extension", "Extension of rendered files",
		stringEnv(func(c *config.Config, v string) { c.Extension = v })},
	{"FLAVOR", "flavor", "Markdown flavor: commonmark or gfm",
		stringEnv(func(c *config.Config, v string) { c.Flavor = config.Flavor(v) })},
	{"FORMAT", "format", "Inspect output format: table, json or yaml",
		stringEnv(func(c *config.Config, v string) { c.Format = config.OutputFormat(v) })},
	{"FRONT_MATTER", "front_matter", "Parse YAML front matter: true or false",
		boolEnv(func(c *config.Config, v bool) { c.FrontMatter = v })},
	{"HIGHLIGHT", "highlight", "Highlight fenced code: true or false",
		boolEnv(func(c *config.Config, v bool) { c.Highlight = v })},
	{"HIGHLIGHT_STYLE", "highlight_style", "Chroma style name",
		stringEnv(func(c *config.Config, v string) { c.HighlightStyle = v })},
	{"IGNORE", "ignore", "Comma-separated list of ignore patterns",
		stringEnv(func(c *config.Config, v string) { c.Ignore = splitList(v) })},
	{"JOBS", "jobs", "Number of parallel workers (0 = auto)",
		intEnv(func(c *config.Config, v int) { c.Jobs = v })},
	{"LANG_PREFIX", "lang_prefix", "Prefix removed from fence info strings",
		stringEnv(func(c *config.Config, v string) { c.LangPrefix = v })},
	{"MAX_DEPTH", "max_depth", "Maximum admonition nesting depth",
		intEnv(func(c *config.Config, v int) { c.MaxDepth = v })},
	{"OUTPUT_DIR", "output_dir", "Directory for rendered files",
		stringEnv(func(c *config.Config, v string) { c.OutputDir = v })},
	{"STANDALONE", "standalone", "Wrap output in a full HTML page",
		boolEnv(func(c *config.Config, v bool) { c.Standalone = v })},
	{"UNSAFE_HTML", "unsafe_html", "Pass raw HTML through: true or false",
		boolEnv(func(c *config.Config, v bool) { c.UnsafeHTML = v })},
}

// LoadFromEnv applies GOCALLOUT_* environment variables to cfg. Unset and
// empty variables are skipped.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, binding := range envBindings {
		name := envVarPrefix + binding.suffix
		value, ok := os.LookupEnv(name)
		if !ok || value == "" {
			continue
		}
		if err := binding.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// splitList parses a comma-separated list, dropping empty elements.
func splitList(value string) []string {
	var result []string
	for part := range strings.SplitSeq(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// GetEnvVarName returns the environment variable for a config field, or ""
// when the field has none.
func GetEnvVarName(field string) string {
	for _, binding := range envBindings {
		if binding.field == field {
			return envVarPrefix + binding.suffix
		}
	}
	return ""
}

// EnvVar describes a supported environment variable.
type EnvVar struct {
	Name        string
	Description string
}

// ListEnvVars returns all supported environment variables sorted by name.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(envBindings))
	for _, binding := range envBindings {
		vars = append(vars, EnvVar{Name: envVarPrefix + binding.suffix, Description: binding.description})
	}
	return vars
}
