package goldmark

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/gocallout/pkg/mdtoken"
)

// Task list item states, carried in the AttrTask attribute of an inline token.
const (
	AttrTask      = "task"
	TaskChecked   = "checked"
	TaskUnchecked = "unchecked"
)

var taskPrefix = regexp.MustCompile(`^\[[ xX]\]`) //nolint:gochecknoglobals // compiled once

// mapper flattens a goldmark block AST into an mdtoken sequence.
type mapper struct {
	content  []byte
	lines    *mdtoken.LineIndex
	renderer renderer.Renderer
	tokens   []*mdtoken.Token
}

// newMapper creates a new mapper for the given content. The renderer
// pre-renders block nodes the mapper does not flatten.
func newMapper(content []byte, r renderer.Renderer) *mapper {
	return &mapper{
		content:  content,
		lines:    mdtoken.NewLineIndex(content),
		renderer: r,
	}
}

// mapDocument converts a goldmark document node to a token sequence.
func (m *mapper) mapDocument(gmDoc ast.Node) []*mdtoken.Token {
	m.tokens = make([]*mdtoken.Token, 0, gmDoc.ChildCount()*3)
	m.mapChildren(gmDoc, false)
	return m.tokens
}

// mapChildren maps all block children of a goldmark node.
func (m *mapper) mapChildren(gmParent ast.Node, tight bool) {
	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		m.mapNode(child, tight)
	}
}

// mapNode converts a single goldmark block node to one or more tokens.
// tight is true inside the items of a tight list.
func (m *mapper) mapNode(gmNode ast.Node, tight bool) {
	switch gmn := gmNode.(type) {
	case *ast.Paragraph:
		m.mapParagraph(gmn, tight)

	case *ast.TextBlock:
		m.mapParagraph(gmn, true)

	case *ast.Heading:
		m.mapHeading(gmn)

	case *ast.Blockquote:
		open := m.emitOpen(mdtoken.KindBlockquoteOpen, "blockquote", gmn)
		open.Markup = ">"
		m.mapChildren(gmn, false)
		m.emitClose(mdtoken.KindBlockquoteClose, "blockquote").Markup = ">"

	case *ast.List:
		m.mapList(gmn)

	case *ast.ListItem:
		open := m.emitOpen(mdtoken.KindListItemOpen, "li", gmn)
		open.Markup = markerOf(gmn.Parent())
		m.mapChildren(gmn, tight)
		m.emitClose(mdtoken.KindListItemClose, "li").Markup = open.Markup

	case *ast.FencedCodeBlock:
		m.mapFencedCodeBlock(gmn)

	case *ast.CodeBlock:
		tok := m.emitBlock(mdtoken.KindCodeBlock, "code", gmn)
		tok.Content = m.linesText(gmn.Lines())

	case *ast.ThematicBreak:
		m.emitBlock(mdtoken.KindHr, "hr", gmn)

	case *ast.HTMLBlock:
		m.mapHTMLBlock(gmn)

	default:
		m.mapRendered(gmNode)
	}
}

// mapParagraph emits paragraph_open, inline, paragraph_close.
func (m *mapper) mapParagraph(gmNode ast.Node, hidden bool) {
	open := m.emitOpen(mdtoken.KindParagraphOpen, "p", gmNode)
	open.Hidden = hidden

	m.emitInline(gmNode)

	closing := m.emitClose(mdtoken.KindParagraphClose, "p")
	closing.Hidden = hidden
}

// mapHeading emits heading_open, inline, heading_close.
func (m *mapper) mapHeading(h *ast.Heading) {
	tag := "h" + strconv.Itoa(h.Level)
	open := m.emitOpen(mdtoken.KindHeadingOpen, tag, h)
	open.Markup = strings.Repeat("#", h.Level)

	m.emitInline(h)

	m.emitClose(mdtoken.KindHeadingClose, tag).Markup = open.Markup
}

// mapList emits bullet or ordered list tokens around the items.
func (m *mapper) mapList(list *ast.List) {
	kindOpen, kindClose, tag := mdtoken.KindBulletListOpen, mdtoken.KindBulletListClose, "ul"
	if list.IsOrdered() {
		kindOpen, kindClose, tag = mdtoken.KindOrderedListOpen, mdtoken.KindOrderedListClose, "ol"
	}

	open := m.emitOpen(kindOpen, tag, list)
	open.Markup = string(list.Marker)
	if list.IsOrdered() && list.Start != 1 {
		open.AttrPush("start", strconv.Itoa(list.Start))
	}

	m.mapChildren(list, list.IsTight)

	m.emitClose(kindClose, tag).Markup = open.Markup
}

// mapFencedCodeBlock emits a fence token with info string and raw body.
func (m *mapper) mapFencedCodeBlock(codeBlock *ast.FencedCodeBlock) {
	tok := mdtoken.New(mdtoken.KindFence, "code", mdtoken.NestingSelf)
	tok.Block = true

	if codeBlock.Info != nil {
		tok.Info = strings.TrimSpace(string(codeBlock.Info.Segment.Value(m.content)))
	}

	fenceChar, fenceLength := m.detectFenceStyle(codeBlock)
	tok.Markup = strings.Repeat(string(fenceChar), fenceLength)
	tok.Content = m.linesText(codeBlock.Lines())
	tok.Line = m.fenceLine(codeBlock)

	m.tokens = append(m.tokens, tok)
}

// mapHTMLBlock emits an html_block token with the raw block markup.
func (m *mapper) mapHTMLBlock(block *ast.HTMLBlock) {
	tok := m.emitBlock(mdtoken.KindHTMLBlock, "", block)

	var buf strings.Builder
	buf.WriteString(m.linesText(block.Lines()))
	if block.HasClosure() {
		buf.Write(block.ClosureLine.Value(m.content))
	}
	tok.Content = normalizeNewlines(buf.String())
}

// mapRendered pre-renders block nodes without a token mapping (GFM tables,
// extension blocks) and emits them as a single rendered_block token.
func (m *mapper) mapRendered(gmNode ast.Node) {
	tok := m.emitBlock(mdtoken.KindRenderedBlock, "", gmNode)

	var buf bytes.Buffer
	if m.renderer != nil {
		if err := m.renderer.Render(&buf, m.content, gmNode); err != nil {
			// Rendering into a buffer only fails on node renderer errors;
			// fall back to the escaped source text.
			buf.Reset()
			buf.WriteString(m.linesText(gmNode.Lines()))
			tok.Kind = mdtoken.KindCodeBlock
		}
	}
	tok.Content = buf.String()
}

// emitInline emits an inline token holding the node's raw inline source.
// A leading GFM task checkbox is moved from the source to the task attribute.
func (m *mapper) emitInline(gmNode ast.Node) {
	source := strings.TrimSpace(m.linesText(gmNode.Lines()))

	var task string
	if box, ok := gmNode.FirstChild().(*extast.TaskCheckBox); ok {
		task = TaskUnchecked
		if box.IsChecked {
			task = TaskChecked
		}
		source = strings.TrimLeft(taskPrefix.ReplaceAllLiteralString(source, ""), " \t")
	}

	tok := mdtoken.NewInline(source)
	tok.Line = m.lineOf(gmNode)
	if task != "" {
		tok.AttrPush(AttrTask, task)
	}
	m.tokens = append(m.tokens, tok)
}

// emitOpen appends an opening block token.
func (m *mapper) emitOpen(kind mdtoken.Kind, tag string, gmNode ast.Node) *mdtoken.Token {
	tok := mdtoken.New(kind, tag, mdtoken.NestingOpen)
	tok.Block = true
	tok.Line = m.lineOf(gmNode)
	m.tokens = append(m.tokens, tok)
	return tok
}

// emitClose appends a closing block token.
func (m *mapper) emitClose(kind mdtoken.Kind, tag string) *mdtoken.Token {
	tok := mdtoken.New(kind, tag, mdtoken.NestingClose)
	tok.Block = true
	m.tokens = append(m.tokens, tok)
	return tok
}

// emitBlock appends a self-contained block token.
func (m *mapper) emitBlock(kind mdtoken.Kind, tag string, gmNode ast.Node) *mdtoken.Token {
	tok := mdtoken.New(kind, tag, mdtoken.NestingSelf)
	tok.Block = true
	tok.Line = m.lineOf(gmNode)
	m.tokens = append(m.tokens, tok)
	return tok
}

// linesText concatenates the source of the given line segments.
func (m *mapper) linesText(lines *text.Segments) string {
	if lines == nil {
		return ""
	}
	var buf strings.Builder
	for i := range lines.Len() {
		line := lines.At(i)
		buf.WriteString(strings.Repeat(" ", line.Padding))
		buf.Write(line.Value(m.content))
	}
	return normalizeNewlines(buf.String())
}

// lineOf returns the 1-based line of the first source line of a node,
// descending into children for container blocks.
func (m *mapper) lineOf(gmNode ast.Node) int {
	for node := gmNode; node != nil; node = node.FirstChild() {
		if node.Type() == ast.TypeInline {
			return 0
		}
		if lines := node.Lines(); lines != nil && lines.Len() > 0 {
			return m.lines.LineAt(lines.At(0).Start)
		}
		if fenced, ok := node.(*ast.FencedCodeBlock); ok {
			return m.fenceLine(fenced)
		}
	}
	return 0
}

// fenceLine returns the line of the opening fence of a fenced code block.
func (m *mapper) fenceLine(codeBlock *ast.FencedCodeBlock) int {
	if codeBlock.Info != nil {
		return m.lines.LineAt(codeBlock.Info.Segment.Start)
	}
	if lines := codeBlock.Lines(); lines.Len() > 0 {
		if line := m.lines.LineAt(lines.At(0).Start); line > 1 {
			return line - 1
		}
	}
	return 0
}

// detectFenceStyle extracts the fence character and length from a fenced code block
// by examining the raw content of the line before its first body line.
func (m *mapper) detectFenceStyle(codeBlock *ast.FencedCodeBlock) (byte, int) {
	lineStart := -1
	switch {
	case codeBlock.Info != nil:
		lineStart = codeBlock.Info.Segment.Start
	case codeBlock.Lines().Len() > 0:
		// The fence is on the line before the first content line.
		start := codeBlock.Lines().At(0).Start
		for start > 0 && m.content[start-1] != '\n' {
			start--
		}
		if start > 0 {
			lineStart = start - 1
		}
	}
	if lineStart < 0 {
		return '`', 3
	}

	// Find the start of the fence line.
	for lineStart > 0 && m.content[lineStart-1] != '\n' {
		lineStart--
	}

	return m.extractFenceFromLine(lineStart)
}

// extractFenceFromLine extracts fence character and length from a line.
// Blockquote markers and indentation before the fence are skipped.
func (m *mapper) extractFenceFromLine(start int) (byte, int) {
	pos := start
	for pos < len(m.content) && (m.content[pos] == ' ' || m.content[pos] == '\t' || m.content[pos] == '>') {
		pos++
	}

	if pos >= len(m.content) {
		return '`', 3
	}

	fenceChar := m.content[pos]
	if fenceChar != '`' && fenceChar != '~' {
		return '`', 3
	}

	fenceLength := 0
	for pos < len(m.content) && m.content[pos] == fenceChar {
		fenceLength++
		pos++
	}

	if fenceLength < 3 {
		fenceLength = 3
	}

	return fenceChar, fenceLength
}

// markerOf returns the list marker of a list node.
func markerOf(gmNode ast.Node) string {
	if list, ok := gmNode.(*ast.List); ok {
		return string(list.Marker)
	}
	return ""
}

// normalizeNewlines converts CRLF line endings to LF.
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
