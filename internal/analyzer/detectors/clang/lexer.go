// Package clang holds the line-oriented heuristic checks for C snippets.
// There is no C grammar here: rules look at one comment-free line at a time.
package clang

import (
	"strings"

	"coderefine/internal/source"
)

// maskChar replaces the contents of string and character literals so that
// braces, parentheses and operators inside them are not counted.
const maskChar = '_'

// CodeLine is one physical line that still has code after comments are removed.
type CodeLine struct {
	Num    int    // 1-based line number
	Raw    string // the line as written
	Code   string // comments removed, trimmed
	Masked string // like Code with literal contents replaced by maskChar
}

// File is a C snippet prepared for the detectors.
type File struct {
	Lines *source.Lines
	Code  []CodeLine
}

// Prepare splits src into lines and strips comments. Block comments are
// tracked across lines.
func Prepare(src string) *File {
	lines := source.Split(src)
	f := &File{Lines: lines}

	inBlock := false
	for i, raw := range lines.All() {
		code, masked, stillInBlock := stripLine(raw, inBlock)
		inBlock = stillInBlock
		code, masked = strings.TrimSpace(code), strings.TrimSpace(masked)
		if code == "" {
			continue
		}
		f.Code = append(f.Code, CodeLine{Num: i + 1, Raw: raw, Code: code, Masked: masked})
	}
	return f
}

// stripLine removes comments from one line. It returns the code, the masked
// code and whether a block comment is still open at the end of the line.
func stripLine(line string, inBlock bool) (string, string, bool) {
	var code, masked strings.Builder
	n := len(line)

	for i := 0; i < n; i++ {
		c := line[i]
		if inBlock {
			if c == '*' && i+1 < n && line[i+1] == '/' {
				inBlock = false
				i++
				code.WriteByte(' ')
				masked.WriteByte(' ')
			}
			continue
		}

		switch {
		case c == '/' && i+1 < n && line[i+1] == '*':
			inBlock = true
			i++
		case c == '/' && i+1 < n && line[i+1] == '/':
			return code.String(), masked.String(), false
		case c == '"' || c == '\'':
			end := literalEnd(line, i)
			code.WriteString(line[i:end])
			masked.WriteByte(c)
			for j := i + 1; j < end-1; j++ {
				masked.WriteByte(maskChar)
			}
			if end-1 > i && line[end-1] == c {
				masked.WriteByte(c)
			} else if end > i+1 {
				masked.WriteByte(maskChar)
			}
			i = end - 1
		default:
			code.WriteByte(c)
			masked.WriteByte(c)
		}
	}
	return code.String(), masked.String(), inBlock
}

// literalEnd returns the index just past the literal starting at start. An
// unterminated literal runs to the end of the line.
func literalEnd(line string, start int) int {
	quote := line[start]
	for i := start + 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
	}
	return len(line)
}
