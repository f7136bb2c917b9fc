package callout

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gocallout/pkg/mdtoken"
)

// InspectFence checks the fence token at tokens[idx] for an admonition info
// string and, on a match, retags it, consumes its header lines and replaces
// its content with the rendered body.
//
// A body render failure is returned wrapped in ErrBodyRender. The token is
// already retagged at that point; callers must discard the sequence.
func (t *Transformer) InspectFence(tokens []*mdtoken.Token, idx int) error {
	if idx < 0 || idx >= len(tokens) {
		return nil
	}

	tok := tokens[idx]
	if tok.Info == "" {
		return nil
	}

	info := tok.Info
	if t.opts.LangPrefix != "" {
		info = strings.Replace(info, t.opts.LangPrefix, "", 1)
	}

	calloutType, ok := MatchAdmonition(info)
	if !ok {
		return nil
	}

	tok.Kind = mdtoken.KindAdmonitionBlock
	tok.AttrPush(AttrClass, ClassCallout)
	tok.AttrPush(AttrCallout, calloutType)

	headers, body := SplitHeaders(strings.Split(tok.Content, "\n"))
	for _, header := range headers {
		if name, mapped := header.Attr(); mapped {
			tok.AttrPush(name, header.Value)
		}
	}

	if t.body == nil {
		return fmt.Errorf("%w: no body renderer for %q admonition", ErrBodyRender, calloutType)
	}

	// The body starts on the line after the fence and its consumed headers.
	bodyLine := 0
	if tok.Line > 0 {
		bodyLine = tok.Line + 1 + len(headers)
	}

	rendered, err := t.body.RenderBody(strings.Join(body, "\n"), bodyLine)
	if err != nil {
		return fmt.Errorf("%w: %q admonition: %w", ErrBodyRender, calloutType, err)
	}
	tok.Content = rendered

	return nil
}
