// Package pyast builds a small, closed syntax tree for Python snippets.
//
// The concrete tree comes from tree-sitter; Parse lowers it into the handful of
// variants the detectors care about and folds everything else into Other.
package pyast

// Node is implemented by every variant in this package.
type Node interface {
	Line() int
	Children() []Node
	node()
}

type pos struct{ line int }

func (p pos) Line() int { return p.line }
func (pos) node()       {}

// Ctx tells whether a Name is read, bound by assignment, or bound as a parameter.
type Ctx int

const (
	Load Ctx = iota
	Store
	Param
)

type LoopKind int

const (
	LoopFor LoopKind = iota
	LoopWhile
)

func (k LoopKind) String() string {
	if k == LoopWhile {
		return "while"
	}
	return "for"
}

type ConstKind int

const (
	ConstNone ConstKind = iota
	ConstTrue
	ConstFalse
	ConstNumber
	ConstString
)

// Module is the root of a parsed snippet.
type Module struct {
	pos
	Body *Block
}

func (m *Module) Children() []Node { return []Node{m.Body} }

// Block is an ordered statement sequence (a suite).
type Block struct {
	pos
	Stmts []Node
}

func (b *Block) Children() []Node { return b.Stmts }

// FunctionDef is a def statement. Params holds the parameter names with Ctx
// Param; Defaults holds default-value expressions.
type FunctionDef struct {
	pos
	Name     string
	Params   []*Name
	Defaults []Node
	Extra    []Node // annotations and return type
	Body     *Block
}

func (f *FunctionDef) Children() []Node {
	out := make([]Node, 0, len(f.Params)+len(f.Defaults)+len(f.Extra)+1)
	for _, p := range f.Params {
		out = append(out, p)
	}
	out = append(out, f.Defaults...)
	out = append(out, f.Extra...)
	return append(out, f.Body)
}

// Loop is a for or while statement. Header holds the target and iterable (for)
// or the condition (while).
type Loop struct {
	pos
	Kind   LoopKind
	Header []Node
	Body   *Block
	Else   *Block
}

func (l *Loop) Children() []Node {
	out := append([]Node{}, l.Header...)
	out = append(out, l.Body)
	if l.Else != nil {
		out = append(out, l.Else)
	}
	return out
}

// Call is a call expression. Callee is set when the called expression is a
// bare name, Method when it is an attribute access.
type Call struct {
	pos
	Callee string
	Method string
	Func   Node
	Args   []Node
}

func (c *Call) Children() []Node {
	return append([]Node{c.Func}, c.Args...)
}

// Compare is a (possibly chained) comparison.
type Compare struct {
	pos
	Left        Node
	Ops         []string
	Comparators []Node
}

func (c *Compare) Children() []Node {
	return append([]Node{c.Left}, c.Comparators...)
}

type Name struct {
	pos
	ID  string
	Ctx Ctx
}

func (*Name) Children() []Node { return nil }

type Constant struct {
	pos
	Kind ConstKind
	Text string
}

func (*Constant) Children() []Node { return nil }

// IsZero reports whether the constant is a numeric literal equal to zero.
func (c *Constant) IsZero() bool {
	if c.Kind != ConstNumber {
		return false
	}
	switch c.Text {
	case "0", "0.0", "0.", ".0", "0x0", "0o0", "0b0", "00":
		return true
	}
	return false
}

// Jump is return, raise, break or continue. Anything after it in the same
// block does not run.
type Jump struct {
	pos
	Keyword string
	Kids    []Node
}

func (j *Jump) Children() []Node { return j.Kids }

// Comprehension builds a list, dict or set (or a lazy generator).
type Comprehension struct {
	pos
	Kind string
	Kids []Node
}

func (c *Comprehension) Children() []Node { return c.Kids }

// Builds reports whether the comprehension materialises a collection.
func (c *Comprehension) Builds() bool {
	return c.Kind != "generator"
}

// Other is every construct without a dedicated variant.
type Other struct {
	pos
	Type string
	Kids []Node
}

func (o *Other) Children() []Node { return o.Kids }

// Walk visits n and its descendants in source order. Returning false from fn
// skips the children of the current node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || isNilBlock(n) {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

func isNilBlock(n Node) bool {
	b, ok := n.(*Block)
	return ok && b == nil
}
