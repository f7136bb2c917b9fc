package callout

import (
	"errors"

	"github.com/yaklabco/gocallout/pkg/mdtoken"
)

// Transform errors.
var (
	// ErrBodyRender indicates an admonition body failed to render.
	ErrBodyRender = errors.New("admonition body render failed")

	// ErrMaxDepth indicates admonition bodies nested deeper than allowed.
	ErrMaxDepth = errors.New("admonition nesting too deep")
)

// DefaultMaxDepth bounds recursive rendering of admonition bodies.
const DefaultMaxDepth = 16

// BodyRenderer renders an admonition body through the full markdown pipeline.
type BodyRenderer interface {
	// RenderBody renders source to HTML. line is the 1-based line of the
	// outer document the body starts on, or 0 when unknown.
	RenderBody(source string, line int) (string, error)
}

// BodyRendererFunc adapts a function to BodyRenderer.
type BodyRendererFunc func(source string, line int) (string, error)

// RenderBody implements BodyRenderer.
func (f BodyRendererFunc) RenderBody(source string, line int) (string, error) {
	return f(source, line)
}

// Options configures the transform.
type Options struct {
	// LangPrefix is removed from fence info strings before admonition matching.
	LangPrefix string
}

// Transformer rewrites callout blockquotes and admonition fences in a token sequence.
type Transformer struct {
	opts Options
	body BodyRenderer
}

// NewTransformer creates a Transformer rendering admonition bodies with body.
func NewTransformer(body BodyRenderer, opts Options) *Transformer {
	return &Transformer{
		opts: opts,
		body: body,
	}
}

// Transform runs a single forward pass over tokens. Outermost blockquotes go
// to InspectBlockquote and fences to InspectFence. The sequence is mutated in
// place; a body render failure stops the pass.
func (t *Transformer) Transform(tokens []*mdtoken.Token) error {
	depth := 0

	for i, tok := range tokens {
		switch tok.Kind {
		case mdtoken.KindBlockquoteOpen:
			if depth == 0 {
				InspectBlockquote(tokens, i)
			}
			depth++
		case mdtoken.KindCalloutOpen:
			depth++
		case mdtoken.KindBlockquoteClose, mdtoken.KindCalloutClose:
			depth--
		case mdtoken.KindFence:
			if err := t.InspectFence(tokens, i); err != nil {
				return err
			}
		}
	}

	return nil
}
