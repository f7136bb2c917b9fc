// Package mdtoken defines the flat token sequence shared by the block parser,
// the callout transform, and the HTML renderer.
//
// A block construct is an opening token, its content tokens and a closing
// token, all at the same level of a single slice.
package mdtoken

// Kind classifies the role of a token in the sequence.
type Kind string

// Block-level token kinds produced by the parser.
const (
	KindBlockquoteOpen   Kind = "blockquote_open"
	KindBlockquoteClose  Kind = "blockquote_close"
	KindParagraphOpen    Kind = "paragraph_open"
	KindParagraphClose   Kind = "paragraph_close"
	KindHeadingOpen      Kind = "heading_open"
	KindHeadingClose     Kind = "heading_close"
	KindBulletListOpen   Kind = "bullet_list_open"
	KindBulletListClose  Kind = "bullet_list_close"
	KindOrderedListOpen  Kind = "ordered_list_open"
	KindOrderedListClose Kind = "ordered_list_close"
	KindListItemOpen     Kind = "list_item_open"
	KindListItemClose    Kind = "list_item_close"
	KindInline           Kind = "inline"
	KindFence            Kind = "fence"
	KindCodeBlock        Kind = "code_block"
	KindHr               Kind = "hr"
	KindHTMLBlock        Kind = "html_block"

	// KindRenderedBlock holds block markup already rendered by the host
	// parser, such as GFM tables.
	KindRenderedBlock Kind = "rendered_block"
)

// Inline token kinds, found in the Children of an inline token.
const (
	KindText        Kind = "text"
	KindSoftbreak   Kind = "softbreak"
	KindHardbreak   Kind = "hardbreak"
	KindCodeInline  Kind = "code_inline"
	KindEmOpen      Kind = "em_open"
	KindEmClose     Kind = "em_close"
	KindStrongOpen  Kind = "strong_open"
	KindStrongClose Kind = "strong_close"
	KindStrikeOpen  Kind = "s_open"
	KindStrikeClose Kind = "s_close"
	KindLinkOpen    Kind = "link_open"
	KindLinkClose   Kind = "link_close"
	KindImage       Kind = "image"
	KindHTMLInline  Kind = "html_inline"
	KindCheckbox    Kind = "checkbox"
)

// Kinds produced by the callout transform.
const (
	KindCalloutOpen     Kind = "callout_open"
	KindCalloutClose    Kind = "callout_close"
	KindAdmonitionBlock Kind = "admonition_block"
)

// Nesting values.
const (
	NestingClose = -1
	NestingSelf  = 0
	NestingOpen  = 1
)

// Token is a single entry in the parser's output sequence.
// Tokens are mutated in place by transforms; their order and count never change.
type Token struct {
	// Kind identifies the role of the token.
	Kind Kind

	// Tag is the HTML tag the default renderer emits ("p", "blockquote", "h2").
	Tag string

	// Nesting is 1 for opening tokens, -1 for closing tokens, 0 otherwise.
	Nesting int

	// Block is true for block-level tokens.
	Block bool

	// Hidden suppresses rendering of the token (paragraphs in tight lists).
	Hidden bool

	// Content depends on Kind: inline source for inline tokens, the code
	// body for fences, raw markup for HTML blocks.
	Content string

	// Info is the fence info string.
	Info string

	// Markup is the source marker ("```", ">", "-", "**").
	Markup string

	// Children holds nested inline tokens. It is non-nil only on inline tokens.
	Children []*Token

	// Attrs is the ordered attribute list.
	Attrs []Attr

	// Line is the 1-based source line the token starts on, or 0 if unknown.
	Line int
}

// New creates a token with the given kind, tag and nesting.
// Tokens whose kind carries no tag (inline, text) use an empty tag.
func New(kind Kind, tag string, nesting int) *Token {
	return &Token{
		Kind:    kind,
		Tag:     tag,
		Nesting: nesting,
	}
}

// NewInline creates an inline token holding raw inline source.
// Children start empty (non-nil) and are filled by the inline stage.
func NewInline(content string) *Token {
	return &Token{
		Kind:     KindInline,
		Nesting:  NestingSelf,
		Content:  content,
		Children: []*Token{},
	}
}

// IsOpen reports whether the token opens a block.
func (t *Token) IsOpen() bool {
	return t.Nesting == NestingOpen
}

// IsClose reports whether the token closes a block.
func (t *Token) IsClose() bool {
	return t.Nesting == NestingClose
}

// HasChildren reports whether the token carries a children list, even an empty one.
func (t *Token) HasChildren() bool {
	return t.Children != nil
}
