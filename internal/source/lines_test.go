package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"single line", "x = 1", []string{"x = 1"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"bare cr", "a\rb", []string{"a", "b"}},
		{"mixed", "a\r\nb\rc\nd", []string{"a", "b", "c", "d"}},
		{"blank lines kept", "a\n\n\nb", []string{"a", "", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lines := Split(tt.text)

			assert.Equal(t, tt.want, lines.All())
			assert.Equal(t, len(tt.want), lines.Len())
			assert.Equal(t, tt.text, lines.Text())
		})
	}
}

func TestLines_Snippet(t *testing.T) {
	t.Parallel()

	lines := Split("def f():\n    return 1  \n")

	assert.Equal(t, "    return 1  ", lines.Raw(2))
	assert.Equal(t, "return 1", lines.Snippet(2))
	assert.Empty(t, lines.Raw(0))
	assert.Empty(t, lines.Snippet(3))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		s     string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exact", 5, "exact"},
		{"abcdef", 3, "abc..."},
		{"héllo wörld", 4, "héll..."},
		{"日本語テキスト", 3, "日本語..."},
		{"", 0, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.s, tt.limit), tt.s)
	}
}

func TestWidth(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, Width("hello"))
	assert.Equal(t, 3, Width("日本語"))
}
