package strutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidSlug(t *testing.T) {
	valid := []string{"a", "go", "hello-world", "go-1-24", "2026-review", "x9"}
	for _, s := range valid {
		assert.True(t, IsValidSlug(s), "expected %q to be valid", s)
	}

	invalid := []string{
		"", "Hello", "hello world", "-leading", "trailing-", "double--hyphen",
		"under_score", "café", "日志", strings.Repeat("a", 121),
	}
	for _, s := range invalid {
		assert.False(t, IsValidSlug(s), "expected %q to be invalid", s)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Spaced  Out  ", "spaced-out"},
		{"Go 1.24 Release Notes!", "go-1-24-release-notes"},
		{"already-a-slug", "already-a-slug"},
		{"___", ""},
		{"MiXeD CaSe", "mixed-case"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestSlugifyOutputIsValidOrEmpty(t *testing.T) {
	inputs := []string{
		"Hello World", "123", "!!!", "a-b-c", strings.Repeat("word ", 60),
		"Emoji 🎉 Title", "Tab\tand\nnewline",
	}
	for _, in := range inputs {
		out := Slugify(in)
		if out != "" {
			assert.True(t, IsValidSlug(out), "Slugify(%q) = %q is not a valid slug", in, out)
		}
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"one", 1},
		{"one two three", 3},
		{"  leading and   trailing  ", 3},
		{"你好", 2},
		{"Go 语言 rocks", 4},
		{"line\nbreaks\ncount", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CountWords(tt.in), "CountWords(%q)", tt.in)
	}
}
