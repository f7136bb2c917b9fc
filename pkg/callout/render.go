package callout

import (
	"strings"

	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/gocallout/pkg/mdtoken"
)

// classNoFold marks callouts without a fold marker.
const classNoFold = "no-fold"

// admonitionClose ends an admonition block. Admonitions are always open and
// close the prefix container with two div end tags.
const admonitionClose = "\n</div>\n</div>"

// InlineRenderer renders a string of inline markdown to HTML.
type InlineRenderer interface {
	RenderInline(source string) string
}

// RenderPrefix returns the opening markup for a retagged token, or an empty
// string when the token carries no data-callout attribute.
func RenderPrefix(tok *mdtoken.Token, inline InlineRenderer) string {
	calloutType, ok := tok.AttrGet(AttrCallout)
	if !ok || calloutType == "" {
		return ""
	}

	foldClass := ""
	if fold, _ := tok.AttrGet(AttrCalloutFold); fold == "" {
		foldClass = classNoFold
	}

	var b strings.Builder
	b.WriteString("\n<details class=\"callout ")
	b.WriteString(foldClass)
	b.WriteString("\" open data-callout=\"")
	b.WriteString(escapeHTML(calloutType))
	b.WriteString("\">\n    <summary class=\"callout-title ")
	b.WriteString(foldClass)
	b.WriteString("\">\n        ")
	b.WriteString(title(tok, inline))
	b.WriteString("\n    </summary>\n    <div class=\"callout-content\">")
	return b.String()
}

// RenderPostfix returns the closing markup for a callout_close token.
func RenderPostfix(tok *mdtoken.Token) string {
	if calloutType, ok := tok.AttrGet(AttrCallout); !ok || calloutType == "" {
		return ""
	}
	return "</div></details>"
}

// RenderAdmonition returns the full markup of an admonition_block token:
// the shared prefix, the rendered body and the closing tags.
func RenderAdmonition(tok *mdtoken.Token, inline InlineRenderer) string {
	return RenderPrefix(tok, inline) + tok.Content + admonitionClose
}

// title returns the summary text: the explicit title rendered as inline
// markdown, or the title-cased type.
func title(tok *mdtoken.Token, inline InlineRenderer) string {
	if explicit, ok := tok.AttrGet(AttrCalloutTitle); ok && explicit != "" {
		if inline == nil {
			return escapeHTML(strings.TrimSpace(explicit))
		}
		return inline.RenderInline(strings.TrimSpace(explicit))
	}
	if calloutType, ok := tok.AttrGet(AttrCallout); ok {
		return escapeHTML(TitleCase(calloutType))
	}
	return ""
}

// TitleCase upper-cases the first character of every space-separated word
// and lower-cases the rest. Acronyms and punctuation get no special handling.
func TitleCase(s string) string {
	words := strings.Split(s, " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		runes := []rune(word)
		words[i] = strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
	}
	return strings.Join(words, " ")
}

// Rule renders the token at idx.
type Rule func(tokens []*mdtoken.Token, idx int) string

// Rules returns the render rules for the three kinds produced by the
// transform, keyed by kind, for installation into a host renderer.
func Rules(inline InlineRenderer) map[mdtoken.Kind]Rule {
	return map[mdtoken.Kind]Rule{
		mdtoken.KindCalloutOpen: func(tokens []*mdtoken.Token, idx int) string {
			return RenderPrefix(tokens[idx], inline)
		},
		mdtoken.KindCalloutClose: func(tokens []*mdtoken.Token, idx int) string {
			return RenderPostfix(tokens[idx])
		},
		mdtoken.KindAdmonitionBlock: func(tokens []*mdtoken.Token, idx int) string {
			return RenderAdmonition(tokens[idx], inline)
		},
	}
}

func escapeHTML(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}
