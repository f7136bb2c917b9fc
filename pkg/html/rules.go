package html

import (
	"strings"

	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/gocallout/pkg/mdtoken"
)

// rawHTMLOmitted replaces raw HTML when Unsafe is off.
const rawHTMLOmitted = "<!-- raw HTML omitted -->"

// defaultRules returns the rules for kinds that do not render as plain tags.
func (r *Renderer) defaultRules() map[mdtoken.Kind]Rule {
	return map[mdtoken.Kind]Rule{
		mdtoken.KindText: func(tokens []*mdtoken.Token, idx int) string {
			return escapeHTML(tokens[idx].Content)
		},
		mdtoken.KindSoftbreak: func([]*mdtoken.Token, int) string {
			return "\n"
		},
		mdtoken.KindHardbreak: func([]*mdtoken.Token, int) string {
			return "<br>\n"
		},
		mdtoken.KindCodeInline: func(tokens []*mdtoken.Token, idx int) string {
			tok := tokens[idx]
			return "<code" + r.renderAttrs(tok) + ">" + escapeHTML(tok.Content) + "</code>"
		},
		mdtoken.KindCodeBlock: func(tokens []*mdtoken.Token, idx int) string {
			tok := tokens[idx]
			return "<pre" + r.renderAttrs(tok) + "><code>" + escapeHTML(tok.Content) + "</code></pre>\n"
		},
		mdtoken.KindFence:         r.renderFence,
		mdtoken.KindImage:         r.renderImage,
		mdtoken.KindHTMLBlock:     r.renderRawHTML,
		mdtoken.KindHTMLInline:    r.renderRawHTML,
		mdtoken.KindRenderedBlock: func(tokens []*mdtoken.Token, idx int) string {
			return tokens[idx].Content
		},
		mdtoken.KindCheckbox: func(tokens []*mdtoken.Token, idx int) string {
			if _, checked := tokens[idx].AttrGet("checked"); checked {
				return `<input checked="" disabled="" type="checkbox"> `
			}
			return `<input disabled="" type="checkbox"> `
		},
	}
}

// renderFence renders a fenced code block. The first word of the info string
// selects the language class and, when enabled, the highlighter lexer.
func (r *Renderer) renderFence(tokens []*mdtoken.Token, idx int) string {
	tok := tokens[idx]

	info := string(unescape([]byte(tok.Info)))
	lang := strings.TrimSpace(info)
	if i := strings.IndexAny(lang, " \t"); i >= 0 {
		lang = lang[:i]
	}
	if lang == "" && r.opts.DetectLanguage {
		lang = detectLanguage(tok.Content)
	}

	if r.opts.Highlight {
		if highlighted, ok := highlight(tok.Content, lang, r.opts.HighlightStyle); ok {
			return highlighted + "\n"
		}
	}

	var b strings.Builder
	b.WriteString("<pre><code")
	if lang != "" {
		b.WriteString(` class="`)
		b.WriteString(escapeHTML(r.opts.LangPrefix + lang))
		b.WriteByte('"')
	}
	b.WriteString(r.renderAttrs(tok))
	b.WriteByte('>')
	b.WriteString(escapeHTML(tok.Content))
	b.WriteString("</code></pre>\n")
	return b.String()
}

// renderImage renders an image with its plain-text alt attribute.
func (r *Renderer) renderImage(tokens []*mdtoken.Token, idx int) string {
	tok := tokens[idx]

	var b strings.Builder
	b.WriteString("<img")
	for _, attr := range tok.Attrs {
		value := attr.Value
		switch attr.Name {
		case "src":
			value = r.safeURL(value)
		case "alt":
			value = tok.Content
		}
		b.WriteByte(' ')
		b.WriteString(attr.Name)
		b.WriteString(`="`)
		b.WriteString(escapeHTML(value))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

// renderRawHTML passes raw HTML through when Unsafe is set.
func (r *Renderer) renderRawHTML(tokens []*mdtoken.Token, idx int) string {
	tok := tokens[idx]
	if !r.opts.Unsafe {
		if tok.Block {
			return rawHTMLOmitted + "\n"
		}
		return rawHTMLOmitted
	}
	return tok.Content
}

// safeURL percent-encodes a URL and blanks it when it uses a dangerous scheme.
func (r *Renderer) safeURL(value string) string {
	raw := []byte(value)
	if !r.opts.Unsafe && gmhtml.IsDangerousURL(raw) {
		return ""
	}
	return string(util.URLEscape(raw, false))
}

func escapeHTML(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}

func unescape(value []byte) []byte {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	return util.ResolveEntityNames(value)
}
