package pyast

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// indentChecker finds the indentation errors tree-sitter recovers from
// silently: a compound statement without a body, and statements that do not
// line up with the rest of their block.
type indentChecker struct {
	lines []string
}

func newIndentChecker(src string) *indentChecker {
	return &indentChecker{lines: strings.Split(src, "\n")}
}

// indentOf returns the leading whitespace width of row, or -1 for blank and
// comment-only rows.
func (c *indentChecker) indentOf(row int) int {
	if row < 0 || row >= len(c.lines) {
		return -1
	}
	line := strings.TrimRight(c.lines[row], "\r")
	body := strings.TrimLeft(line, " \t")
	if body == "" || strings.HasPrefix(body, "#") {
		return -1
	}
	return len(line) - len(body)
}

func (c *indentChecker) check(n sitter.Node) *SyntaxError {
	if n.Type() == "module" || n.Type() == "block" {
		if serr := c.alignment(n); serr != nil {
			return serr
		}
	}

	colonRow := -1
	for i := range n.ChildCount() {
		child := n.Child(i)
		if !child.IsNamed() && child.Type() == ":" {
			colonRow = int(child.EndPoint().Row)
		}
		if child.Type() == "block" && isEmptyBlock(child) {
			line := colonRow + 2
			if colonRow < 0 {
				line = lineOf(n) + 1
			}
			return &SyntaxError{Line: line, Column: 1, Msg: "expected an indented block"}
		}
		if serr := c.check(child); serr != nil {
			return serr
		}
	}
	return nil
}

// alignment checks that every statement starting a line in a module or block
// begins at the same column. Statements sharing a line after ';' are skipped.
func (c *indentChecker) alignment(n sitter.Node) *SyntaxError {
	want := -1
	if n.Type() == "module" {
		want = 0
	}
	prevRow := -1

	for i := range n.NamedChildCount() {
		stmt := n.NamedChild(i)
		if isTrivia(stmt) {
			continue
		}
		row, col := int(stmt.StartPoint().Row), int(stmt.StartPoint().Column)
		if c.indentOf(row) != col {
			continue
		}
		if want < 0 {
			want = col
		}
		if col != want {
			msg := "unexpected indent"
			if col < c.deepest(prevRow, row) {
				msg = "unindent does not match any outer indentation level"
			}
			return &SyntaxError{Line: row + 1, Column: col + 1, Msg: msg}
		}
		prevRow = row
	}
	return nil
}

// deepest returns the widest indentation in rows [from, to).
func (c *indentChecker) deepest(from, to int) int {
	widest := 0
	for row := max(from, 0); row < to; row++ {
		widest = max(widest, c.indentOf(row))
	}
	return widest
}

func isTrivia(n sitter.Node) bool {
	switch n.Type() {
	case "comment", "line_continuation":
		return true
	}
	return false
}

func isEmptyBlock(n sitter.Node) bool {
	for i := range n.NamedChildCount() {
		if !isTrivia(n.NamedChild(i)) {
			return false
		}
	}
	return true
}
