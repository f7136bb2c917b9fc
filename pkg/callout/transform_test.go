package callout_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocallout/pkg/callout"
	"github.com/yaklabco/gocallout/pkg/mdtoken"
)

// seq builds token sequences the way the block parser lays them out.
type seq struct {
	tokens []*mdtoken.Token
}

func (s *seq) open(kind mdtoken.Kind, tag string) *seq {
	tok := mdtoken.New(kind, tag, mdtoken.NestingOpen)
	tok.Block = true
	s.tokens = append(s.tokens, tok)
	return s
}

func (s *seq) close(kind mdtoken.Kind, tag string) *seq {
	tok := mdtoken.New(kind, tag, mdtoken.NestingClose)
	tok.Block = true
	s.tokens = append(s.tokens, tok)
	return s
}

func (s *seq) quote() *seq {
	return s.open(mdtoken.KindBlockquoteOpen, "blockquote")
}

func (s *seq) unquote() *seq {
	return s.close(mdtoken.KindBlockquoteClose, "blockquote")
}

func (s *seq) para(content string) *seq {
	s.open(mdtoken.KindParagraphOpen, "p")
	s.tokens = append(s.tokens, mdtoken.NewInline(content))
	return s.close(mdtoken.KindParagraphClose, "p")
}

func (s *seq) fence(info, content string, line int) *seq {
	tok := mdtoken.New(mdtoken.KindFence, "code", mdtoken.NestingSelf)
	tok.Block = true
	tok.Info = info
	tok.Content = content
	tok.Line = line
	s.tokens = append(s.tokens, tok)
	return s
}

func (s *seq) block(kind mdtoken.Kind, content string) *seq {
	tok := mdtoken.New(kind, "", mdtoken.NestingSelf)
	tok.Block = true
	tok.Content = content
	s.tokens = append(s.tokens, tok)
	return s
}

func attr(t *testing.T, tok *mdtoken.Token, name string) string {
	t.Helper()
	value, ok := tok.AttrGet(name)
	require.True(t, ok, "missing attribute %q on %s", name, tok.Kind)
	return value
}

func echoBody() callout.BodyRenderer {
	return callout.BodyRendererFunc(func(source string, _ int) (string, error) {
		return "<body>" + source + "</body>", nil
	})
}

func TestInspectBlockquote_Retags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		paragraphs  []string
		blocks      func(s *seq)
		wantType    string
		wantFold    string
		wantTitle   string
		wantContent string
	}{
		{
			name:        "marker with text only",
			paragraphs:  []string{"[!note] Remember this"},
			wantType:    "note",
			wantContent: "Remember this",
		},
		{
			name:        "fold closed",
			paragraphs:  []string{"[!warning]- Careful"},
			wantType:    "warning",
			wantFold:    callout.FoldClosed,
			wantContent: "Careful",
		},
		{
			name:        "title with body line",
			paragraphs:  []string{"[!tip] Pro tip\nUse the force"},
			wantType:    "tip",
			wantTitle:   "Pro tip",
			wantContent: "Use the force",
		},
		{
			name:        "title with body paragraph",
			paragraphs:  []string{"[!info]+ Heads up", "Second paragraph"},
			wantType:    "info",
			wantFold:    callout.FoldOpen,
			wantTitle:   "Heads up",
			wantContent: "",
		},
		{
			name:        "bare marker",
			paragraphs:  []string{"[!Danger]\nBody"},
			wantType:    "danger",
			wantContent: "Body",
		},
		{
			name:        "title with fence body",
			paragraphs:  []string{"[!warning] Danger zone"},
			blocks:      func(s *seq) { s.fence("sh", "rm -rf /\n", 2) },
			wantType:    "warning",
			wantTitle:   "Danger zone",
			wantContent: "",
		},
		{
			name:        "title with table body",
			paragraphs:  []string{"[!info] Table"},
			blocks:      func(s *seq) { s.block(mdtoken.KindRenderedBlock, "<table></table>\n") },
			wantType:    "info",
			wantTitle:   "Table",
			wantContent: "",
		},
		{
			name:        "title with indented code body",
			paragraphs:  []string{"[!example] Snippet"},
			blocks:      func(s *seq) { s.block(mdtoken.KindCodeBlock, "x := 1\n") },
			wantType:    "example",
			wantTitle:   "Snippet",
			wantContent: "",
		},
		{
			name:        "title with html body",
			paragraphs:  []string{"[!note]- Markup"},
			blocks:      func(s *seq) { s.block(mdtoken.KindHTMLBlock, "<div>raw</div>\n") },
			wantType:    "note",
			wantFold:    callout.FoldClosed,
			wantTitle:   "Markup",
			wantContent: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := (&seq{}).quote()
			for _, p := range tt.paragraphs {
				s.para(p)
			}
			if tt.blocks != nil {
				tt.blocks(s)
			}
			s.unquote()
			tokens := s.tokens

			callout.InspectBlockquote(tokens, 0)

			open, closing := tokens[0], tokens[len(tokens)-1]
			assert.Equal(t, mdtoken.KindCalloutOpen, open.Kind)
			assert.Equal(t, mdtoken.KindCalloutClose, closing.Kind)

			assert.Equal(t, callout.ClassCallout, attr(t, open, callout.AttrClass))
			assert.Equal(t, tt.wantType, attr(t, open, callout.AttrCallout))
			assert.Equal(t, tt.wantFold, attr(t, open, callout.AttrCalloutFold))
			assert.Equal(t, tt.wantType, attr(t, closing, callout.AttrCallout))
			assert.Equal(t, tt.wantFold, attr(t, closing, callout.AttrCalloutFold))

			title, hasTitle := open.AttrGet(callout.AttrCalloutTitle)
			assert.Equal(t, tt.wantTitle != "", hasTitle)
			assert.Equal(t, tt.wantTitle, title)

			assert.Equal(t, tt.wantContent, tokens[2].Content)
		})
	}
}

func TestInspectBlockquote_NoMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tokens []*mdtoken.Token
	}{
		{
			name:   "plain blockquote",
			tokens: (&seq{}).quote().para("Just a quote").unquote().tokens,
		},
		{
			name:   "marker in second paragraph",
			tokens: (&seq{}).quote().para("Intro").para("[!note] late").unquote().tokens,
		},
		{
			name:   "nested blockquote",
			tokens: (&seq{}).quote().para("[!note] outer").quote().para("inner").unquote().unquote().tokens,
		},
		{
			name:   "unterminated",
			tokens: (&seq{}).quote().para("[!note] open").tokens,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			before := make([]mdtoken.Token, len(tt.tokens))
			for i, tok := range tt.tokens {
				before[i] = *tok
			}

			callout.InspectBlockquote(tt.tokens, 0)

			for i, tok := range tt.tokens {
				assert.Equal(t, before[i], *tok, "token %d changed", i)
			}
		})
	}
}

func TestInspectBlockquote_OutOfRange(t *testing.T) {
	t.Parallel()

	tokens := (&seq{}).quote().para("[!note]").unquote().tokens

	assert.NotPanics(t, func() {
		callout.InspectBlockquote(tokens, -1)
		callout.InspectBlockquote(tokens, len(tokens))
		callout.InspectBlockquote(nil, 0)
	})
	assert.Equal(t, mdtoken.KindBlockquoteOpen, tokens[0].Kind)
}

func TestInspectBlockquote_SkipsNonInlineContentToken(t *testing.T) {
	t.Parallel()

	tokens := (&seq{}).quote().para("[!note] text").unquote().tokens
	tokens[2].Children = nil

	callout.InspectBlockquote(tokens, 0)

	assert.Equal(t, mdtoken.KindCalloutOpen, tokens[0].Kind)
	assert.Equal(t, "[!note] text", tokens[2].Content)
}

func TestTransformer_InspectFence(t *testing.T) {
	t.Parallel()

	tokens := (&seq{}).fence("ad-tip", "title:Pro tip\nicon: star\nSome body text\n", 4).tokens

	var gotLine int
	body := callout.BodyRendererFunc(func(source string, line int) (string, error) {
		gotLine = line
		return "<p>" + source + "</p>", nil
	})

	err := callout.NewTransformer(body, callout.Options{}).InspectFence(tokens, 0)
	require.NoError(t, err)

	tok := tokens[0]
	assert.Equal(t, mdtoken.KindAdmonitionBlock, tok.Kind)
	assert.Equal(t, []mdtoken.Attr{
		{Name: callout.AttrClass, Value: callout.ClassCallout},
		{Name: callout.AttrCallout, Value: "tip"},
		{Name: callout.AttrCalloutTitle, Value: "Pro tip"},
		{Name: callout.AttrCalloutIcon, Value: "star"},
	}, tok.Attrs)
	assert.Equal(t, "<p>Some body text\n</p>", tok.Content)
	assert.Equal(t, 7, gotLine)
}

func TestTransformer_InspectFence_CollapseConsumed(t *testing.T) {
	t.Parallel()

	tokens := (&seq{}).fence("ad-note", "collapse: close\nBody", 0).tokens

	err := callout.NewTransformer(echoBody(), callout.Options{}).InspectFence(tokens, 0)
	require.NoError(t, err)

	assert.Len(t, tokens[0].Attrs, 2)
	assert.Equal(t, "<body>Body</body>", tokens[0].Content)
}

func TestTransformer_InspectFence_NothingConsumed(t *testing.T) {
	t.Parallel()

	tokens := (&seq{}).fence("ad-note", "not:a:header\nBody", 0).tokens

	err := callout.NewTransformer(echoBody(), callout.Options{}).InspectFence(tokens, 0)
	require.NoError(t, err)

	assert.Equal(t, mdtoken.KindAdmonitionBlock, tokens[0].Kind)
	assert.Equal(t, "<body>not:a:header\nBody</body>", tokens[0].Content)
	_, hasTitle := tokens[0].AttrGet(callout.AttrCalloutTitle)
	assert.False(t, hasTitle)
}

func TestTransformer_InspectFence_LangPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		prefix    string
		info      string
		wantMatch bool
	}{
		{"prefix removed", "language-", "language-ad-warning", true},
		{"no prefix configured", "", "language-ad-warning", false},
		{"plain info with prefix configured", "language-", "ad-warning", true},
		{"ordinary code", "language-", "language-go", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens := (&seq{}).fence(tt.info, "x\n", 0).tokens
			err := callout.NewTransformer(echoBody(), callout.Options{LangPrefix: tt.prefix}).InspectFence(tokens, 0)
			require.NoError(t, err)

			if tt.wantMatch {
				assert.Equal(t, mdtoken.KindAdmonitionBlock, tokens[0].Kind)
				assert.Equal(t, "warning", attr(t, tokens[0], callout.AttrCallout))
			} else {
				assert.Equal(t, mdtoken.KindFence, tokens[0].Kind)
				assert.Empty(t, tokens[0].Attrs)
			}
		})
	}
}

func TestTransformer_InspectFence_Ignored(t *testing.T) {
	t.Parallel()

	for _, info := range []string{"", "go", "adnote", "ad-"} {
		tokens := (&seq{}).fence(info, "body\n", 0).tokens

		err := callout.NewTransformer(echoBody(), callout.Options{}).InspectFence(tokens, 0)
		require.NoError(t, err)
		assert.Equal(t, mdtoken.KindFence, tokens[0].Kind, "info %q", info)
		assert.Equal(t, "body\n", tokens[0].Content)
	}
}

func TestTransformer_InspectFence_BodyError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	body := callout.BodyRendererFunc(func(string, int) (string, error) {
		return "", cause
	})

	tokens := (&seq{}).fence("ad-note", "Body", 0).tokens
	err := callout.NewTransformer(body, callout.Options{}).InspectFence(tokens, 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, callout.ErrBodyRender)
	assert.ErrorIs(t, err, cause)
}

func TestTransformer_InspectFence_NoBodyRenderer(t *testing.T) {
	t.Parallel()

	tokens := (&seq{}).fence("ad-note", "Body", 0).tokens
	err := callout.NewTransformer(nil, callout.Options{}).InspectFence(tokens, 0)

	assert.ErrorIs(t, err, callout.ErrBodyRender)
}

func TestTransformer_Transform(t *testing.T) {
	t.Parallel()

	tokens := (&seq{}).
		quote().para("[!note] first").unquote().
		para("between").
		quote().para("[!bug] outer").quote().para("[!note] inner").unquote().unquote().
		fence("ad-example", "body", 0).
		fence("go", "package main", 0).
		tokens

	err := callout.NewTransformer(echoBody(), callout.Options{}).Transform(tokens)
	require.NoError(t, err)

	var got []mdtoken.Kind
	for _, tok := range tokens {
		got = append(got, tok.Kind)
	}
	assert.Equal(t, []mdtoken.Kind{
		mdtoken.KindCalloutOpen,
		mdtoken.KindParagraphOpen, mdtoken.KindInline, mdtoken.KindParagraphClose,
		mdtoken.KindCalloutClose,
		mdtoken.KindParagraphOpen, mdtoken.KindInline, mdtoken.KindParagraphClose,
		mdtoken.KindBlockquoteOpen,
		mdtoken.KindParagraphOpen, mdtoken.KindInline, mdtoken.KindParagraphClose,
		mdtoken.KindBlockquoteOpen,
		mdtoken.KindParagraphOpen, mdtoken.KindInline, mdtoken.KindParagraphClose,
		mdtoken.KindBlockquoteClose,
		mdtoken.KindBlockquoteClose,
		mdtoken.KindAdmonitionBlock,
		mdtoken.KindFence,
	}, got)
}

func TestTransformer_Transform_Idempotent(t *testing.T) {
	t.Parallel()

	tokens := (&seq{}).
		quote().para("[!warning]- Title\nBody").unquote().
		fence("ad-tip", "title: T\nBody", 0).
		tokens

	transformer := callout.NewTransformer(echoBody(), callout.Options{})
	require.NoError(t, transformer.Transform(tokens))

	snapshot := make([]string, len(tokens))
	for i, tok := range tokens {
		snapshot[i] = string(tok.Kind) + "|" + tok.Content + "|" + strconv.Itoa(len(tok.Attrs))
	}

	require.NoError(t, transformer.Transform(tokens))

	for i, tok := range tokens {
		assert.Equal(t, snapshot[i], string(tok.Kind)+"|"+tok.Content+"|"+strconv.Itoa(len(tok.Attrs)))
	}
}

func TestTransformer_Transform_StopsOnError(t *testing.T) {
	t.Parallel()

	calls := 0
	body := callout.BodyRendererFunc(func(string, int) (string, error) {
		calls++
		return "", callout.ErrMaxDepth
	})

	tokens := (&seq{}).fence("ad-a", "x", 0).fence("ad-b", "y", 0).tokens
	err := callout.NewTransformer(body, callout.Options{}).Transform(tokens)

	require.Error(t, err)
	assert.ErrorIs(t, err, callout.ErrMaxDepth)
	assert.Equal(t, 1, calls)
	assert.Equal(t, mdtoken.KindFence, tokens[1].Kind)
}
