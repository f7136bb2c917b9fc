// Package html renders an mdtoken sequence to HTML.
//
// Rendering is table driven: every token kind maps to a Rule, and kinds
// without a rule fall back to a generic tag renderer. Extensions such as
// the callout transform install their own rules with SetRule.
package html

import (
	"strings"

	"github.com/yaklabco/gocallout/pkg/mdtoken"
)

// Rule renders the token at idx.
type Rule func(tokens []*mdtoken.Token, idx int) string

// InlineParseFunc parses inline markdown into inline tokens.
type InlineParseFunc func(source string) []*mdtoken.Token

// Options configures a Renderer.
type Options struct {
	// Unsafe passes raw HTML and dangerous URLs through unchanged.
	Unsafe bool

	// LangPrefix is the CSS class prefix for fenced code languages.
	LangPrefix string

	// Highlight enables chroma syntax highlighting of fenced code.
	Highlight bool

	// HighlightStyle is the chroma style name.
	HighlightStyle string

	// DetectLanguage guesses the language of fences without an info string.
	DetectLanguage bool
}

// DefaultLangPrefix is the class prefix used when Options.LangPrefix is empty.
const DefaultLangPrefix = "language-"

// Renderer converts token sequences into HTML.
type Renderer struct {
	opts   Options
	inline InlineParseFunc
	rules  map[mdtoken.Kind]Rule
}

// New creates a renderer. inline is used by RenderInline and may be nil
// when only token sequences with expanded inline children are rendered.
func New(inline InlineParseFunc, opts Options) *Renderer {
	if opts.LangPrefix == "" {
		opts.LangPrefix = DefaultLangPrefix
	}

	r := &Renderer{
		opts:   opts,
		inline: inline,
	}
	r.rules = r.defaultRules()
	return r
}

// SetRule installs or replaces the rule for a token kind.
func (r *Renderer) SetRule(kind mdtoken.Kind, rule Rule) {
	r.rules[kind] = rule
}

// Render renders a block-level token sequence. Inline tokens are rendered
// from their children.
func (r *Renderer) Render(tokens []*mdtoken.Token) string {
	var b strings.Builder
	for i, tok := range tokens {
		if tok.Kind == mdtoken.KindInline {
			b.WriteString(r.renderInline(tok.Children))
			continue
		}
		if rule, ok := r.rules[tok.Kind]; ok {
			b.WriteString(rule(tokens, i))
			continue
		}
		b.WriteString(r.renderToken(tokens, i))
	}
	return b.String()
}

// RenderInline parses and renders a string of inline markdown.
func (r *Renderer) RenderInline(source string) string {
	if r.inline == nil {
		return escapeHTML(source)
	}
	return r.renderInline(r.inline(source))
}

// renderInline renders a list of inline tokens.
func (r *Renderer) renderInline(children []*mdtoken.Token) string {
	var b strings.Builder
	for i, tok := range children {
		if rule, ok := r.rules[tok.Kind]; ok {
			b.WriteString(rule(children, i))
			continue
		}
		b.WriteString(r.renderToken(children, i))
	}
	return b.String()
}

// renderToken renders an open, close or self-closing tag for a token. Block
// tags are followed by a line break unless the next token is inline
// content, hidden, or the matching close tag.
func (r *Renderer) renderToken(tokens []*mdtoken.Token, idx int) string {
	tok := tokens[idx]
	if tok.Hidden {
		return ""
	}

	var b strings.Builder

	// Separate a block from a preceding hidden paragraph in tight lists.
	if tok.Block && tok.Nesting != mdtoken.NestingClose && idx > 0 && tokens[idx-1].Hidden {
		b.WriteByte('\n')
	}

	if tok.IsClose() {
		b.WriteString("</")
	} else {
		b.WriteByte('<')
	}
	b.WriteString(tok.Tag)
	b.WriteString(r.renderAttrs(tok))

	needLF := false
	if tok.Block {
		needLF = true
		if tok.IsOpen() && idx+1 < len(tokens) {
			next := tokens[idx+1]
			switch {
			case next.Kind == mdtoken.KindInline || next.Hidden:
				needLF = false
			case next.IsClose() && next.Tag == tok.Tag:
				needLF = false
			}
		}
	}

	if needLF {
		b.WriteString(">\n")
	} else {
		b.WriteByte('>')
	}
	return b.String()
}

// renderAttrs renders the attribute list of a token. URL attributes are
// escaped and, unless Unsafe is set, dangerous URLs are dropped.
func (r *Renderer) renderAttrs(tok *mdtoken.Token) string {
	var b strings.Builder
	for _, attr := range tok.Attrs {
		value := attr.Value
		if attr.Name == "href" || attr.Name == "src" {
			value = r.safeURL(value)
		}
		b.WriteByte(' ')
		b.WriteString(escapeHTML(attr.Name))
		b.WriteString(`="`)
		b.WriteString(escapeHTML(value))
		b.WriteByte('"')
	}
	return b.String()
}
