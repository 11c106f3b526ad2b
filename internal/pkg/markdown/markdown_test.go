package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBasicMarkdown(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("# Title\n\nSome **bold** text.")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "<strong>bold</strong>")
}

func TestRenderStripsScripts(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("hello <script>alert('xss')</script> world")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert(")
}

func TestRenderStripsEventHandlers(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render(`<img src="x" onerror="alert(1)">`)
	require.NoError(t, err)
	assert.NotContains(t, out, "onerror")
}

func TestRenderKeepsFencedCodeBlocks(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("```go\nfmt.Println(\"hi\")\n```")
	require.NoError(t, err)
	assert.Contains(t, out, "<pre>")
	assert.Contains(t, out, "<code")
	assert.Contains(t, out, "fmt.Println")
}

func TestRenderGFMTables(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("| a | b |\n|---|---|\n| 1 | 2 |")
	require.NoError(t, err)
	assert.Contains(t, out, "<table>")
}

func TestRenderEmptySource(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("")
	require.NoError(t, err)
	assert.Empty(t, out)
}
