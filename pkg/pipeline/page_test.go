package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocallout/pkg/pipeline"
)

func TestTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		meta map[string]any
		path string
		want string
	}{
		{"front matter title", map[string]any{"title": " Notes "}, "docs/a.md", "Notes"},
		{"blank title falls back", map[string]any{"title": "  "}, "docs/a.md", "a"},
		{"non string title falls back", map[string]any{"title": 3}, "b.markdown", "b"},
		{"nil meta", nil, "/tmp/c.md", "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pipeline.Title(tt.meta, tt.path))
		})
	}
}

func TestWrapPage(t *testing.T) {
	t.Parallel()

	page, err := pipeline.WrapPage("A <b> title", "<p>body</p>\n")
	require.NoError(t, err)

	doc := query(t, page)
	assert.Equal(t, "A <b> title", doc.Find("title").Text())
	assert.Equal(t, "body", doc.Find("body p").Text())
	assert.Contains(t, page, "<title>A &lt;b&gt; title</title>")
	assert.Contains(t, page, "<!DOCTYPE html>")
}
