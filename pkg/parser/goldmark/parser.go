// Package goldmark provides the block and inline parsers that turn markdown
// source into an mdtoken sequence, using the goldmark library.
package goldmark

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/gocallout/pkg/mdtoken"
)

// Flavor identifies the Markdown flavor supported by the parser.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Document is the result of block-parsing a markdown source.
type Document struct {
	// Tokens is the flat block-level token sequence. Inline tokens carry
	// raw inline source and empty children until Expand runs.
	Tokens []*mdtoken.Token

	// Meta holds the YAML front matter, or nil when there is none.
	Meta map[string]any

	// References holds the link reference definitions of the document.
	References []parser.Reference
}

// Option configures a Parser.
type Option func(*Parser)

// WithFrontMatter enables YAML front matter parsing.
func WithFrontMatter(enabled bool) Option {
	return func(p *Parser) {
		p.frontMatter = enabled
	}
}

// WithUnsafe keeps raw HTML in pre-rendered blocks.
func WithUnsafe(enabled bool) Option {
	return func(p *Parser) {
		p.unsafe = enabled
	}
}

// Parser block-parses markdown into an mdtoken sequence.
type Parser struct {
	flavor      string
	frontMatter bool
	unsafe      bool
	md          goldmark.Markdown
}

// New creates a new goldmark-based parser for the given flavor.
// Supported flavors are "commonmark" and "gfm".
// Invalid flavors default to "commonmark".
func New(flavor string, opts ...Option) *Parser {
	p := &Parser{flavor: flavorOrDefault(flavor)}
	for _, opt := range opts {
		opt(p)
	}
	p.md = newGoldmarkInstance(p.flavor, p.frontMatter, p.unsafe)
	return p
}

// Flavor returns the configured Markdown flavor.
func (p *Parser) Flavor() string {
	return p.flavor
}

// Parse converts raw Markdown bytes into a block-level token sequence.
//
// The method:
//  1. Checks for context cancellation.
//  2. Parses content with goldmark.
//  3. Extracts front matter when enabled.
//  4. Flattens the goldmark AST into tokens.
//
// Returns nil and an error if parsing fails or context is cancelled.
func (p *Parser) Parse(ctx context.Context, content []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	source := copyContent(content)
	pc := parser.NewContext()
	gmDoc := p.md.Parser().Parse(text.NewReader(source), parser.WithContext(pc))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	doc := &Document{References: pc.References()}

	if p.frontMatter {
		fm, err := meta.TryGet(pc)
		if err != nil {
			return nil, fmt.Errorf("front matter: %w", err)
		}
		if len(fm) > 0 {
			doc.Meta = fm
		}
	}

	m := newMapper(source, p.md.Renderer())
	doc.Tokens = m.mapDocument(gmDoc)

	return doc, nil
}

// flavorOrDefault returns the flavor if valid, otherwise defaults to CommonMark.
func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string, frontMatter, unsafe bool) goldmark.Markdown {
	var extensions []goldmark.Extender

	switch flavor {
	case FlavorGFM:
		extensions = append(extensions, extension.GFM)
	case FlavorCommonMark:
		// No extensions for pure CommonMark.
	}

	if frontMatter {
		extensions = append(extensions, meta.Meta)
	}

	opts := []goldmark.Option{goldmark.WithExtensions(extensions...)}
	if unsafe {
		opts = append(opts, goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
	}

	return goldmark.New(opts...)
}

// copyContent creates a copy of the content slice to ensure immutability.
func copyContent(content []byte) []byte {
	if content == nil {
		return nil
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}
