package callout

import (
	"strings"

	"github.com/yaklabco/gocallout/pkg/mdtoken"
)

// span describes a blockquote span found by scanSpan.
type span struct {
	// end is the index of the matching close token, or -1 when the span is unterminated.
	end int

	// content is the concatenated top-level inline text, one "\n" per paragraph.
	content string

	// contentIdx is the first top-level inline token that starts with a marker,
	// or the open index when none does.
	contentIdx int

	// nested is true when the span contains another blockquote.
	nested bool

	// blockAfterFirst is true when a top-level block follows the first
	// paragraph: a fence, a table, an HTML block or any other construct.
	blockAfterFirst bool
}

// InspectBlockquote checks the blockquote opened at tokens[openIdx] for a
// callout marker and, on a match, retags the span in place.
//
// Blockquotes that contain another blockquote, unterminated spans and spans
// without a marker are left untouched.
func InspectBlockquote(tokens []*mdtoken.Token, openIdx int) {
	if openIdx < 0 || openIdx >= len(tokens) {
		return
	}

	sp := scanSpan(tokens, openIdx)
	if sp.end < 0 || sp.end == openIdx || sp.nested {
		return
	}

	marker, ok := MatchMarker(sp.content)
	if !ok {
		return
	}

	// A marker line that is the only content of the callout carries body
	// text, not a title.
	titled := marker.Title != "" && (sp.blockAfterFirst || hasBodyAfterMarker(sp.content))
	if !titled {
		marker.Title = ""
	}

	open := tokens[openIdx]
	open.Kind = mdtoken.KindCalloutOpen
	open.AttrPush(AttrClass, ClassCallout)
	open.AttrPush(AttrCallout, marker.Type)
	open.AttrPush(AttrCalloutFold, marker.Fold)
	if marker.Title != "" {
		open.AttrPush(AttrCalloutTitle, marker.Title)
	}

	closing := tokens[sp.end]
	closing.Kind = mdtoken.KindCalloutClose
	closing.AttrPush(AttrCallout, marker.Type)
	closing.AttrPush(AttrCalloutFold, marker.Fold)

	if sp.contentIdx != openIdx && tokens[sp.contentIdx].HasChildren() {
		inline := tokens[sp.contentIdx]
		inline.Content = stripMarker(inline.Content, titled)
	}
}

// scanSpan walks forward from the open token to its matching close,
// collecting the text of the outermost level only.
func scanSpan(tokens []*mdtoken.Token, openIdx int) span {
	sp := span{end: -1, contentIdx: openIdx}

	var content strings.Builder
	depth := 0
	paragraphClosed := false

	for i := openIdx; i < len(tokens); i++ {
		tok := tokens[i]

		switch tok.Kind {
		case mdtoken.KindBlockquoteOpen, mdtoken.KindCalloutOpen:
			depth++
		case mdtoken.KindBlockquoteClose, mdtoken.KindCalloutClose:
			depth--
		}

		if depth <= 0 {
			if depth == 0 {
				sp.end = i
			}
			break
		}
		if depth > 1 {
			sp.nested = true
			continue
		}

		if paragraphClosed && !tok.IsClose() {
			sp.blockAfterFirst = true
		}

		switch tok.Kind {
		case mdtoken.KindInline:
			if sp.contentIdx == openIdx && hasMarker(tok.Content) {
				sp.contentIdx = i
			}
			content.WriteString(tok.Content)
		case mdtoken.KindParagraphClose:
			content.WriteByte('\n')
			paragraphClosed = true
		}
	}

	sp.content = content.String()
	return sp
}

// hasBodyAfterMarker reports whether anything but whitespace follows the
// first line of the span content.
func hasBodyAfterMarker(content string) bool {
	_, rest, found := strings.Cut(content, "\n")
	return found && strings.TrimSpace(rest) != ""
}
