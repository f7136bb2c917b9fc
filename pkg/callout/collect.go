package callout

import "github.com/yaklabco/gocallout/pkg/mdtoken"

// Finding kinds.
const (
	FindingCallout    = "callout"
	FindingAdmonition = "admonition"
)

// Finding describes a callout or admonition left in a token sequence by Transform.
type Finding struct {
	Kind  string `json:"kind" yaml:"kind"`
	Type  string `json:"type" yaml:"type"`
	Fold  string `json:"fold,omitempty" yaml:"fold,omitempty"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
	Line  int    `json:"line,omitempty" yaml:"line,omitempty"`
	Depth int    `json:"depth,omitempty" yaml:"depth,omitempty"`
}

// Collect returns a Finding for every callout_open and admonition_block token, in order.
func Collect(tokens []*mdtoken.Token) []Finding {
	var findings []Finding
	for _, tok := range tokens {
		var kind string
		switch tok.Kind {
		case mdtoken.KindCalloutOpen:
			kind = FindingCallout
		case mdtoken.KindAdmonitionBlock:
			kind = FindingAdmonition
		default:
			continue
		}

		finding := Finding{Kind: kind, Line: tok.Line}
		finding.Type, _ = tok.AttrGet(AttrCallout)
		finding.Fold, _ = tok.AttrGet(AttrCalloutFold)
		finding.Title, _ = tok.AttrGet(AttrCalloutTitle)
		finding.Icon, _ = tok.AttrGet(AttrCalloutIcon)
		finding.Color, _ = tok.AttrGet(AttrCalloutColor)
		findings = append(findings, finding)
	}
	return findings
}
