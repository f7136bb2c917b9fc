package callout

import (
	"regexp"
	"strings"
)

// Attribute names written by the detectors and read by the renderers.
const (
	AttrClass        = "class"
	AttrCallout      = "data-callout"
	AttrCalloutFold  = "data-callout-fold"
	AttrCalloutTitle = "data-callout-title"
	AttrCalloutIcon  = "data-callout-icon"
	AttrCalloutColor = "data-callout-color"

	// ClassCallout is the class pushed on every retagged token.
	ClassCallout = "callout"
)

// Fold markers following the callout type.
const (
	FoldNone   = ""
	FoldOpen   = "+"
	FoldClosed = "-"
)

//nolint:gochecknoglobals // Compiled patterns are read-only.
var (
	// markerPattern matches the marker line of a callout. The title group
	// stops at the end of the first line.
	markerPattern = regexp.MustCompile(`^\[!(\w[^\]]*)\](\+|-|)[ \t]*(.*)`)

	// markerPrefixPattern matches only the "[!type]fold" part of the marker.
	markerPrefixPattern = regexp.MustCompile(`^\[!\w[^\]]*\](?:\+|-|)[ \t]*`)

	admonitionPattern       = regexp.MustCompile(`^ad-(\S+)`)
	admonitionHeaderPattern = regexp.MustCompile(`^(title|collapse|icon|color):(.*)`)
)

// headerAttrs maps admonition header keys to output attributes.
// "collapse" is recognized by the header grammar but intentionally absent.
//
//nolint:gochecknoglobals // Read-only lookup table.
var headerAttrs = map[string]string{
	"title": AttrCalloutTitle,
	"icon":  AttrCalloutIcon,
	"color": AttrCalloutColor,
}

// Marker is the parsed form of a callout marker line.
type Marker struct {
	// Type is the lower-cased callout type ("note", "warning").
	Type string

	// Fold is "", "+" or "-".
	Fold string

	// Title is the trimmed remainder of the marker line. Empty means the
	// title is derived from Type.
	Title string
}

// MatchMarker tests text against the callout marker grammar.
// The title is the trimmed remainder of the first line.
func MatchMarker(text string) (Marker, bool) {
	match := markerPattern.FindStringSubmatch(text)
	if match == nil {
		return Marker{}, false
	}

	return Marker{
		Type:  strings.ToLower(match[1]),
		Fold:  match[2],
		Title: strings.TrimSpace(match[3]),
	}, true
}

// hasMarker reports whether text starts with a callout marker.
func hasMarker(text string) bool {
	return markerPattern.MatchString(text)
}

// stripMarker removes the marker from text and trims the result.
// With wholeLine set the title on the marker line goes too; otherwise only
// the "[!type]fold" prefix is removed and the rest of the line stays as body.
func stripMarker(text string, wholeLine bool) string {
	pattern := markerPrefixPattern
	if wholeLine {
		pattern = markerPattern
	}
	return strings.TrimSpace(pattern.ReplaceAllLiteralString(text, ""))
}

// MatchAdmonition tests a fence info string, after the language prefix has
// been removed, and returns the lower-cased admonition type.
func MatchAdmonition(info string) (string, bool) {
	match := admonitionPattern.FindStringSubmatch(info)
	if match == nil {
		return "", false
	}
	return strings.ToLower(match[1]), true
}

// Header is a single admonition metadata line.
type Header struct {
	Key   string
	Value string
}

// Attr returns the attribute name the header maps to.
// The boolean is false for recognized keys that produce no attribute.
func (h Header) Attr() (string, bool) {
	name, ok := headerAttrs[h.Key]
	return name, ok
}

// SplitHeaders consumes leading header lines from an admonition body.
// Consumption stops at the first line that does not match the header
// grammar; the remaining lines are returned untouched and in order.
func SplitHeaders(lines []string) ([]Header, []string) {
	var headers []Header
	for len(lines) > 0 {
		match := admonitionHeaderPattern.FindStringSubmatch(lines[0])
		if match == nil {
			break
		}
		headers = append(headers, Header{
			Key:   match[1],
			Value: strings.TrimSpace(match[2]),
		})
		lines = lines[1:]
	}
	return headers, lines
}
