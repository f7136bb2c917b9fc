// Package langdetect guesses the language of an unlabelled fenced code block
// so the highlighter can pick a lexer. It uses go-enry for shebang and
// classifier based detection and a few cheap content signatures in front.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// candidates limits the classifier to languages commonly found in notes.
//
//nolint:gochecknoglobals // read-only lookup table
var candidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// signature reports whether content looks like a given language.
type signature struct {
	lang    string
	matches func(content, trimmed []byte) bool
}

// signatures are checked in order; the first match wins.
//
//nolint:gochecknoglobals // read-only lookup table
var signatures = []signature{
	{"go", func(_, trimmed []byte) bool {
		return bytes.HasPrefix(trimmed, []byte("package "))
	}},
	{"html", func(_, trimmed []byte) bool {
		return containsAny(bytes.ToLower(trimmed), "<!doctype html", "<html", "<head>", "<body>")
	}},
	{"json", func(_, trimmed []byte) bool {
		return (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
			bytes.Contains(trimmed, []byte(`"`))
	}},
	{"dockerfile", func(content, trimmed []byte) bool {
		return bytes.HasPrefix(trimmed, []byte("FROM ")) ||
			(bytes.Contains(content, []byte("WORKDIR ")) && bytes.Contains(content, []byte("COPY ")))
	}},
	{"sql", func(_, trimmed []byte) bool {
		upper := bytes.ToUpper(trimmed)
		for _, verb := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if bytes.HasPrefix(upper, []byte(verb)) {
				return true
			}
		}
		return false
	}},
	{"python", func(content, _ []byte) bool {
		return containsAny(content, "__name__", "__main__") ||
			(bytes.Contains(content, []byte("def ")) && bytes.Contains(content, []byte("):")))
	}},
	{"rust", func(content, _ []byte) bool {
		return containsAny(content, "fn main()", "println!", "let mut ")
	}},
	{"javascript", func(content, _ []byte) bool {
		return containsAny(content, "=>", "console.log", "const ")
	}},
}

// Detect returns the fence language for content, or false when no language
// could be determined with confidence.
func Detect(content []byte) (string, bool) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return "", false
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang), true
	}

	for _, sig := range signatures {
		if sig.matches(content, trimmed) {
			return sig.lang, true
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return normalize(lang), true
	}

	return "", false
}

// normalize converts go-enry language names to fence tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}

func containsAny(content []byte, needles ...string) bool {
	for _, needle := range needles {
		if bytes.Contains(content, []byte(needle)) {
			return true
		}
	}
	return false
}
