// Package source holds the line table shared by the language checkers.
package source

import "strings"

// Lines is a snippet split into physical lines.
type Lines struct {
	text  string
	lines []string
}

// Split splits text the way the checkers count lines: "\n", "\r\n" and "\r"
// all terminate a line and a trailing terminator does not open a new one.
func Split(text string) *Lines {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	var lines []string
	if normalized != "" {
		lines = strings.Split(strings.TrimSuffix(normalized, "\n"), "\n")
	}
	return &Lines{text: text, lines: lines}
}

// Text returns the original text.
func (l *Lines) Text() string { return l.text }

// Len returns the number of lines.
func (l *Lines) Len() int { return len(l.lines) }

// Raw returns line n (1-based) unmodified, or "" when out of range.
func (l *Lines) Raw(n int) string {
	if n < 1 || n > len(l.lines) {
		return ""
	}
	return l.lines[n-1]
}

// Snippet returns line n with surrounding whitespace removed.
func (l *Lines) Snippet(n int) string {
	return strings.TrimSpace(l.Raw(n))
}

// All returns the lines; callers must not modify the slice.
func (l *Lines) All() []string { return l.lines }

// Truncate cuts s to limit characters and appends "..." when anything was cut.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

// Width is the length of a line in characters.
func Width(line string) int {
	return len([]rune(line))
}
