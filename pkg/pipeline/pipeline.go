// Package pipeline renders a markdown document to HTML: block parse, callout
// transform, inline expansion and rule-based rendering. Admonition bodies
// run through the same pipeline recursively, bounded by MaxDepth.
package pipeline

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/yaklabco/gocallout/pkg/callout"
	"github.com/yaklabco/gocallout/pkg/html"
	"github.com/yaklabco/gocallout/pkg/mdtoken"
	"github.com/yaklabco/gocallout/pkg/parser/goldmark"
)

// ErrParseFailure indicates the markdown source could not be parsed.
var ErrParseFailure = errors.New("markdown parse failed")

// Options configures a Pipeline.
type Options struct {
	// Flavor is the markdown flavor ("commonmark" or "gfm").
	Flavor string

	// LangPrefix is removed from fence info strings before admonition matching.
	LangPrefix string

	// MaxDepth bounds nested admonition bodies. Zero means callout.DefaultMaxDepth.
	MaxDepth int

	// FrontMatter enables YAML front matter in top-level documents.
	FrontMatter bool

	// Unsafe passes raw HTML and dangerous URLs through.
	Unsafe bool

	// Highlight enables syntax highlighting of fenced code.
	Highlight bool

	// HighlightStyle names the chroma style.
	HighlightStyle string

	// DetectLanguage guesses the language of unlabelled fences.
	DetectLanguage bool
}

// Stats counts the constructs produced by the transform in one document,
// nested admonition bodies included.
type Stats struct {
	Callouts    int `json:"callouts" yaml:"callouts"`
	Admonitions int `json:"admonitions" yaml:"admonitions"`
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Callouts += other.Callouts
	s.Admonitions += other.Admonitions
}

// Total returns the number of callouts and admonitions.
func (s Stats) Total() int {
	return s.Callouts + s.Admonitions
}

// Result is the outcome of rendering one document.
type Result struct {
	// HTML is the rendered body markup.
	HTML string

	// Meta is the front matter of the document, or nil.
	Meta map[string]any

	// Findings lists every callout and admonition in source order.
	Findings []callout.Finding

	// Stats summarizes Findings.
	Stats Stats
}

// Pipeline renders markdown documents. A Pipeline is safe for concurrent use.
type Pipeline struct {
	opts   Options
	block  *goldmark.Parser
	body   *goldmark.Parser
	inline *goldmark.InlineParser
}

// New creates a pipeline.
func New(opts Options) *Pipeline {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = callout.DefaultMaxDepth
	}

	return &Pipeline{
		opts: opts,
		block: goldmark.New(opts.Flavor,
			goldmark.WithFrontMatter(opts.FrontMatter),
			goldmark.WithUnsafe(opts.Unsafe),
		),
		// Admonition bodies never carry front matter.
		body:   goldmark.New(opts.Flavor, goldmark.WithUnsafe(opts.Unsafe)),
		inline: goldmark.NewInline(opts.Flavor),
	}
}

// Options returns the effective options.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Render renders a markdown document.
func (p *Pipeline) Render(ctx context.Context, source []byte) (*Result, error) {
	doc, err := p.block.Parse(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	result := &Result{Meta: doc.Meta}

	result.HTML, err = p.render(ctx, doc, 0, 1, result)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(result.Findings, func(a, b callout.Finding) int {
		return cmp.Compare(a.Line, b.Line)
	})
	for _, finding := range result.Findings {
		switch finding.Kind {
		case callout.FindingCallout:
			result.Stats.Callouts++
		case callout.FindingAdmonition:
			result.Stats.Admonitions++
		}
	}

	return result, nil
}

// render transforms, expands and renders a parsed document. depth is the
// admonition nesting level of doc and firstLine the line of the top-level
// document doc starts on, or 0 when unknown.
func (p *Pipeline) render(
	ctx context.Context,
	doc *goldmark.Document,
	depth, firstLine int,
	result *Result,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("render cancelled: %w", err)
	}

	transformer := callout.NewTransformer(p.bodyRenderer(ctx, depth, firstLine, result), p.transformOptions())
	if err := transformer.Transform(doc.Tokens); err != nil {
		return "", err
	}

	for _, finding := range callout.Collect(doc.Tokens) {
		finding.Depth = depth
		finding.Line = absoluteLine(finding.Line, firstLine)
		result.Findings = append(result.Findings, finding)
	}

	p.inline.Expand(doc.Tokens, doc.References)

	renderer := html.New(func(source string) []*mdtoken.Token {
		return p.inline.ParseInline(source, doc.References...)
	}, html.Options{
		Unsafe:         p.opts.Unsafe,
		Highlight:      p.opts.Highlight,
		HighlightStyle: p.opts.HighlightStyle,
		DetectLanguage: p.opts.DetectLanguage,
	})
	for kind, rule := range callout.Rules(renderer) {
		renderer.SetRule(kind, html.Rule(rule))
	}

	return renderer.Render(doc.Tokens), nil
}

// bodyRenderer returns the renderer for admonition bodies found at depth in
// a document starting on firstLine.
func (p *Pipeline) bodyRenderer(ctx context.Context, depth, firstLine int, result *Result) callout.BodyRenderer {
	return callout.BodyRendererFunc(func(source string, line int) (string, error) {
		if depth+1 > p.opts.MaxDepth {
			return "", fmt.Errorf("%w: limit is %d", callout.ErrMaxDepth, p.opts.MaxDepth)
		}

		doc, err := p.body.Parse(ctx, []byte(source))
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrParseFailure, err)
		}

		return p.render(ctx, doc, depth+1, absoluteLine(line, firstLine), result)
	})
}

// absoluteLine converts a line relative to a document starting on firstLine
// into a line of the top-level document. Unknown lines stay 0.
func absoluteLine(line, firstLine int) int {
	if line <= 0 || firstLine <= 0 {
		return 0
	}
	return line + firstLine - 1
}

func (p *Pipeline) transformOptions() callout.Options {
	return callout.Options{LangPrefix: p.opts.LangPrefix}
}
