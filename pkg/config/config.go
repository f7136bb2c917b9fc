// Package config defines core configuration types for gocallout.
// These types are pure data structures; loading and merging live in
// internal/configloader.
package config

// Flavor specifies the Markdown flavor to use for parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// IsValid returns true if the flavor is known.
func (f Flavor) IsValid() bool {
	switch f {
	case FlavorCommonMark, FlavorGFM:
		return true
	default:
		return false
	}
}

// OutputFormat specifies the output format of the inspect command.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// IsValid returns true if the output format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatTable, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// Defaults.
const (
	DefaultMaxDepth       = 16
	DefaultExtension      = ".html"
	DefaultHighlightStyle = "github"
)

// Config is the root configuration structure for gocallout.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor"`

	// LangPrefix is removed from fence info strings before admonition
	// matching, for hosts that prefix code languages ("language-").
	LangPrefix string `yaml:"lang_prefix"`

	// MaxDepth bounds nested admonition bodies.
	MaxDepth int `yaml:"max_depth"`

	// FrontMatter enables YAML front matter parsing.
	FrontMatter bool `yaml:"front_matter"`

	// UnsafeHTML passes raw HTML and dangerous URLs through to the output.
	UnsafeHTML bool `yaml:"unsafe_html"`

	// Highlight enables syntax highlighting of fenced code.
	Highlight bool `yaml:"highlight"`

	// HighlightStyle is the chroma style name used when Highlight is set.
	HighlightStyle string `yaml:"highlight_style"`

	// DetectLanguage guesses the language of fences without an info string.
	DetectLanguage bool `yaml:"detect_language"`

	// OutputDir is where rendered files are written. Empty means next to
	// each source file.
	OutputDir string `yaml:"output_dir"`

	// Extension is the file extension of rendered files.
	Extension string `yaml:"extension"`

	// Standalone wraps rendered output in a complete HTML page.
	Standalone bool `yaml:"standalone"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// Format specifies the inspect output format.
	Format OutputFormat `yaml:"-"`

	// DryRun renders without writing output files.
	DryRun bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Flavor:         FlavorGFM,
		MaxDepth:       DefaultMaxDepth,
		FrontMatter:    true,
		HighlightStyle: DefaultHighlightStyle,
		Extension:      DefaultExtension,
		Format:         FormatTable,
		Jobs:           0, // 0 means use GOMAXPROCS
	}
}
