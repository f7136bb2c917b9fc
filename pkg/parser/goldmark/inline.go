package goldmark

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/gocallout/pkg/mdtoken"
)

// InlineParser turns raw inline source into inline tokens.
//
// It runs after block parsing and transforms, so the children of an inline
// token reflect any edits made to its Content.
type InlineParser struct {
	flavor string
	p      parser.Parser
}

// NewInline creates an inline parser for the given flavor.
func NewInline(flavor string) *InlineParser {
	flavor = flavorOrDefault(flavor)

	inlineParsers := parser.DefaultInlineParsers()
	if flavor == FlavorGFM {
		inlineParsers = append(inlineParsers,
			util.Prioritized(extension.NewStrikethroughParser(), 500),
			util.Prioritized(extension.NewLinkifyParser(), 999),
		)
	}

	// Only the paragraph parser is registered: inline source is never
	// reinterpreted as block structure.
	p := parser.NewParser(
		parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
		parser.WithInlineParsers(inlineParsers...),
	)

	return &InlineParser{flavor: flavor, p: p}
}

// Flavor returns the configured Markdown flavor.
func (ip *InlineParser) Flavor() string {
	return ip.flavor
}

// ParseInline parses inline markdown source into a flat list of inline tokens.
func (ip *InlineParser) ParseInline(source string, refs ...parser.Reference) []*mdtoken.Token {
	if source == "" {
		return []*mdtoken.Token{}
	}

	content := []byte(source)
	pc := parser.NewContext()
	for _, ref := range refs {
		pc.AddReference(ref)
	}

	gmDoc := ip.p.Parse(text.NewReader(content), parser.WithContext(pc))

	w := &inlineWalker{content: content, tokens: []*mdtoken.Token{}}
	for block := gmDoc.FirstChild(); block != nil; block = block.NextSibling() {
		if block != gmDoc.FirstChild() {
			w.emit(mdtoken.New(mdtoken.KindSoftbreak, "br", mdtoken.NestingSelf))
		}
		w.walkChildren(block)
	}

	return w.tokens
}

// Expand fills the children of every inline token in tokens that has none.
// refs resolves reference-style links defined elsewhere in the document.
func (ip *InlineParser) Expand(tokens []*mdtoken.Token, refs []parser.Reference) {
	for _, tok := range tokens {
		if tok.Kind != mdtoken.KindInline || len(tok.Children) > 0 {
			continue
		}

		children := ip.ParseInline(tok.Content, refs...)
		if task, ok := tok.AttrGet(AttrTask); ok {
			box := mdtoken.New(mdtoken.KindCheckbox, "input", mdtoken.NestingSelf)
			if task == TaskChecked {
				box.AttrPush("checked", "")
			}
			children = append([]*mdtoken.Token{box}, children...)
		}
		tok.Children = children
	}
}

// inlineWalker flattens goldmark inline nodes into tokens.
type inlineWalker struct {
	content []byte
	tokens  []*mdtoken.Token
}

func (w *inlineWalker) emit(tok *mdtoken.Token) *mdtoken.Token {
	w.tokens = append(w.tokens, tok)
	return tok
}

func (w *inlineWalker) walkChildren(gmParent ast.Node) {
	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		w.walk(child)
	}
}

//nolint:funlen,cyclop // one case per inline node kind
func (w *inlineWalker) walk(gmNode ast.Node) {
	switch gmn := gmNode.(type) {
	case *ast.Text:
		value := gmn.Segment.Value(w.content)
		if !gmn.IsRaw() {
			value = unescape(value)
		}
		w.appendText(string(value))
		switch {
		case gmn.HardLineBreak():
			w.emit(mdtoken.New(mdtoken.KindHardbreak, "br", mdtoken.NestingSelf))
		case gmn.SoftLineBreak():
			w.emit(mdtoken.New(mdtoken.KindSoftbreak, "br", mdtoken.NestingSelf))
		}

	case *ast.String:
		value := gmn.Value
		if !gmn.IsRaw() && !gmn.IsCode() {
			value = unescape(value)
		}
		w.appendText(string(value))

	case *ast.CodeSpan:
		tok := w.emit(mdtoken.New(mdtoken.KindCodeInline, "code", mdtoken.NestingSelf))
		tok.Markup = "`"
		tok.Content = w.rawText(gmn)

	case *ast.Emphasis:
		kindOpen, kindClose, tag, markup := mdtoken.KindEmOpen, mdtoken.KindEmClose, "em", "*"
		if gmn.Level == 2 { //nolint:mnd // strong emphasis
			kindOpen, kindClose, tag, markup = mdtoken.KindStrongOpen, mdtoken.KindStrongClose, "strong", "**"
		}
		w.emit(mdtoken.New(kindOpen, tag, mdtoken.NestingOpen)).Markup = markup
		w.walkChildren(gmn)
		w.emit(mdtoken.New(kindClose, tag, mdtoken.NestingClose)).Markup = markup

	case *ast.Link:
		open := w.emit(mdtoken.New(mdtoken.KindLinkOpen, "a", mdtoken.NestingOpen))
		open.AttrPush("href", string(unescape(gmn.Destination)))
		if len(gmn.Title) > 0 {
			open.AttrPush("title", string(unescape(gmn.Title)))
		}
		w.walkChildren(gmn)
		w.emit(mdtoken.New(mdtoken.KindLinkClose, "a", mdtoken.NestingClose))

	case *ast.AutoLink:
		href := string(gmn.URL(w.content))
		if gmn.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(href), "mailto:") {
			href = "mailto:" + href
		}
		open := w.emit(mdtoken.New(mdtoken.KindLinkOpen, "a", mdtoken.NestingOpen))
		open.AttrPush("href", href)
		open.Markup = "autolink"
		w.appendText(string(gmn.Label(w.content)))
		w.emit(mdtoken.New(mdtoken.KindLinkClose, "a", mdtoken.NestingClose)).Markup = "autolink"

	case *ast.Image:
		tok := w.emit(mdtoken.New(mdtoken.KindImage, "img", mdtoken.NestingSelf))
		tok.AttrPush("src", string(unescape(gmn.Destination)))
		tok.AttrPush("alt", "")
		if len(gmn.Title) > 0 {
			tok.AttrPush("title", string(unescape(gmn.Title)))
		}
		tok.Content = w.plainText(gmn)

	case *ast.RawHTML:
		var buf strings.Builder
		for i := range gmn.Segments.Len() {
			segment := gmn.Segments.At(i)
			buf.Write(segment.Value(w.content))
		}
		w.emit(mdtoken.New(mdtoken.KindHTMLInline, "", mdtoken.NestingSelf)).Content = buf.String()

	case *extast.Strikethrough:
		w.emit(mdtoken.New(mdtoken.KindStrikeOpen, "s", mdtoken.NestingOpen)).Markup = "~~"
		w.walkChildren(gmn)
		w.emit(mdtoken.New(mdtoken.KindStrikeClose, "s", mdtoken.NestingClose)).Markup = "~~"

	case *extast.TaskCheckBox:
		box := w.emit(mdtoken.New(mdtoken.KindCheckbox, "input", mdtoken.NestingSelf))
		if gmn.IsChecked {
			box.AttrPush("checked", "")
		}

	default:
		w.walkChildren(gmNode)
	}
}

// appendText adds text to the sequence, merging it into a preceding text token.
func (w *inlineWalker) appendText(value string) {
	if value == "" {
		return
	}
	if n := len(w.tokens); n > 0 && w.tokens[n-1].Kind == mdtoken.KindText {
		w.tokens[n-1].Content += value
		return
	}
	w.emit(mdtoken.New(mdtoken.KindText, "", mdtoken.NestingSelf)).Content = value
}

// rawText concatenates the raw source of the text children of a code span.
// Line endings inside the span become spaces.
func (w *inlineWalker) rawText(gmNode ast.Node) string {
	var buf strings.Builder
	for child := gmNode.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			value := c.Segment.Value(w.content)
			if trimmed, ok := bytes.CutSuffix(value, []byte("\n")); ok {
				buf.Write(trimmed)
				buf.WriteByte(' ')
				continue
			}
			buf.Write(value)
		case *ast.String:
			buf.Write(c.Value)
		}
	}
	return buf.String()
}

// plainText returns the unescaped text content of a node's descendants.
func (w *inlineWalker) plainText(gmNode ast.Node) string {
	var buf strings.Builder
	_ = ast.Walk(gmNode, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Text:
			buf.Write(unescape(n.Segment.Value(w.content)))
		case *ast.String:
			buf.Write(n.Value)
		case *ast.CodeSpan:
			buf.WriteString(w.rawText(n))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// unescape resolves backslash escapes and character references.
func unescape(value []byte) []byte {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	return util.ResolveEntityNames(value)
}
