package html

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/yaklabco/gocallout/pkg/langdetect"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// highlight renders code with chroma. It reports false when no lexer
// matches lang or formatting fails, so the caller can fall back to plain
// escaped output.
func highlight(code, lang, styleName string) (string, bool) {
	if lang == "" {
		return "", false
	}

	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}
	lexer = chroma.Coalesce(lexer)

	if styleName == "" {
		styleName = DefaultHighlightStyle
	}
	style := styles.Get(styleName)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", false
	}

	formatter := chromahtml.New(chromahtml.WithClasses(false))

	var b strings.Builder
	if err := formatter.Format(&b, style, iterator); err != nil {
		return "", false
	}
	return b.String(), true
}

// detectLanguage guesses the language of unlabelled code.
func detectLanguage(code string) string {
	lang, ok := langdetect.Detect([]byte(code))
	if !ok {
		return ""
	}
	return lang
}
