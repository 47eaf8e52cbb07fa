package pyast

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/alexaandru/go-sitter-forest/python"
)

var errPoolType = errors.New("pyast: parser pool returned unexpected type")

// SyntaxError is returned when the snippet is not valid Python.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Msg)
}

var (
	languageOnce sync.Once
	language     *sitter.Language

	parserPool = sync.Pool{
		New: func() any {
			p := sitter.NewParser()
			p.SetLanguage(pythonLanguage())
			return p
		},
	}
)

func pythonLanguage() *sitter.Language {
	languageOnce.Do(func() {
		language = sitter.NewLanguage(python.GetLanguage())
	})
	return language
}

// Parse parses Python source. A *SyntaxError is returned when tree-sitter had
// to recover from an error, the indentation is inconsistent, or the snippet
// uses Python 2 only statements.
func Parse(src string) (*Module, error) {
	p, ok := parserPool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}
	defer parserPool.Put(p)

	content := []byte(src)
	tree, err := p.ParseString(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("pyast: parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, errors.New("pyast: empty syntax tree")
	}
	if serr := firstSyntaxError(root); serr != nil {
		return nil, serr
	}
	if serr := newIndentChecker(src).check(root); serr != nil {
		return nil, serr
	}

	b := &builder{src: content}
	return &Module{pos: pos{line: 1}, Body: b.block(root)}, nil
}

func lineOf(n sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

func firstSyntaxError(n sitter.Node) *SyntaxError {
	switch {
	case n.Type() == "ERROR":
		return &SyntaxError{Line: lineOf(n), Column: int(n.StartPoint().Column) + 1, Msg: "invalid syntax"}
	case n.IsMissing():
		return &SyntaxError{Line: lineOf(n), Column: int(n.StartPoint().Column) + 1, Msg: fmt.Sprintf("invalid syntax: expected '%s'", n.Type())}
	case n.Type() == "print_statement":
		return &SyntaxError{Line: lineOf(n), Column: int(n.StartPoint().Column) + 1, Msg: "Missing parentheses in call to 'print'. Did you mean print(...)?"}
	case n.Type() == "exec_statement":
		return &SyntaxError{Line: lineOf(n), Column: int(n.StartPoint().Column) + 1, Msg: "Missing parentheses in call to 'exec'"}
	}
	for i := range n.ChildCount() {
		if serr := firstSyntaxError(n.Child(i)); serr != nil {
			return serr
		}
	}
	return nil
}

// builder lowers tree-sitter nodes into the variants of this package.
type builder struct {
	src []byte
}

func (b *builder) text(n sitter.Node) string {
	start, end := int(n.StartByte()), int(n.EndByte())
	if start < 0 || end > len(b.src) || start > end {
		return ""
	}
	return string(b.src[start:end])
}

// block lowers the statements of a module or block node.
func (b *builder) block(n sitter.Node) *Block {
	if n.IsNull() {
		return &Block{}
	}
	blk := &Block{pos: pos{line: lineOf(n)}}
	for i := range n.NamedChildCount() {
		if stmt := b.lower(n.NamedChild(i), Load); stmt != nil {
			blk.Stmts = append(blk.Stmts, stmt)
		}
	}
	return blk
}

func (b *builder) field(n sitter.Node, name string, ctx Ctx) Node {
	child := n.ChildByFieldName(name)
	if child.IsNull() {
		return nil
	}
	return b.lower(child, ctx)
}

func (b *builder) namedChildren(n sitter.Node, ctx Ctx) []Node {
	var out []Node
	for i := range n.NamedChildCount() {
		if c := b.lower(n.NamedChild(i), ctx); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func appendNode(list []Node, n Node) []Node {
	if n == nil {
		return list
	}
	return append(list, n)
}

func (b *builder) lower(n sitter.Node, ctx Ctx) Node {
	if n.IsNull() {
		return nil
	}
	at := pos{line: lineOf(n)}

	switch n.Type() {
	case "comment", "line_continuation":
		return nil

	case "block":
		return b.block(n)

	case "function_definition":
		return b.functionDef(n)

	case "class_definition":
		var kids []Node
		kids = appendNode(kids, b.field(n, "superclasses", Load))
		kids = append(kids, b.block(n.ChildByFieldName("body")))
		return &Other{pos: at, Type: "class_definition", Kids: kids}

	case "for_statement":
		loop := &Loop{pos: at, Kind: LoopFor}
		loop.Header = appendNode(loop.Header, b.field(n, "left", Store))
		loop.Header = appendNode(loop.Header, b.field(n, "right", Load))
		loop.Body = b.block(n.ChildByFieldName("body"))
		loop.Else = b.elseBlock(n)
		return loop

	case "while_statement":
		loop := &Loop{pos: at, Kind: LoopWhile}
		loop.Header = appendNode(loop.Header, b.field(n, "condition", Load))
		loop.Body = b.block(n.ChildByFieldName("body"))
		loop.Else = b.elseBlock(n)
		return loop

	case "return_statement", "raise_statement", "break_statement", "continue_statement":
		keyword := n.Type()[:len(n.Type())-len("_statement")]
		return &Jump{pos: at, Keyword: keyword, Kids: b.namedChildren(n, Load)}

	case "call":
		return b.call(n)

	case "comparison_operator":
		return b.compare(n)

	case "identifier":
		return &Name{pos: at, ID: b.text(n), Ctx: ctx}

	case "true":
		return &Constant{pos: at, Kind: ConstTrue, Text: "True"}
	case "false":
		return &Constant{pos: at, Kind: ConstFalse, Text: "False"}
	case "none":
		return &Constant{pos: at, Kind: ConstNone, Text: "None"}
	case "integer", "float":
		return &Constant{pos: at, Kind: ConstNumber, Text: b.text(n)}

	case "string", "concatenated_string":
		var kids []Node
		b.interpolations(n, &kids)
		if len(kids) > 0 {
			return &Other{pos: at, Type: "fstring", Kids: kids}
		}
		return &Constant{pos: at, Kind: ConstString, Text: b.text(n)}

	case "list_comprehension", "dictionary_comprehension", "set_comprehension", "generator_expression":
		kind := map[string]string{
			"list_comprehension":       "list",
			"dictionary_comprehension": "dict",
			"set_comprehension":        "set",
			"generator_expression":     "generator",
		}[n.Type()]
		return &Comprehension{pos: at, Kind: kind, Kids: b.namedChildren(n, Load)}

	case "for_in_clause":
		var kids []Node
		kids = appendNode(kids, b.field(n, "left", Store))
		kids = appendNode(kids, b.field(n, "right", Load))
		return &Other{pos: at, Type: n.Type(), Kids: kids}

	case "assignment", "augmented_assignment":
		var kids []Node
		kids = appendNode(kids, b.field(n, "left", Store))
		kids = appendNode(kids, b.field(n, "type", Load))
		kids = appendNode(kids, b.field(n, "right", Load))
		return &Other{pos: at, Type: n.Type(), Kids: kids}

	case "named_expression":
		var kids []Node
		kids = appendNode(kids, b.field(n, "name", Store))
		kids = appendNode(kids, b.field(n, "value", Load))
		return &Other{pos: at, Type: n.Type(), Kids: kids}

	case "except_clause", "except_group_clause":
		return &Other{pos: at, Type: n.Type(), Kids: b.exceptClause(n)}

	case "as_pattern_target":
		return &Other{pos: at, Type: n.Type(), Kids: b.namedChildren(n, Store)}

	case "attribute":
		// obj.attr: only obj is a name reference.
		return &Other{pos: at, Type: n.Type(), Kids: appendNode(nil, b.field(n, "object", Load))}

	case "keyword_argument":
		// f(key=value): key is not a name reference.
		return &Other{pos: at, Type: n.Type(), Kids: appendNode(nil, b.field(n, "value", Load))}

	case "lambda":
		return &Other{pos: at, Type: n.Type(), Kids: appendNode(nil, b.field(n, "body", Load))}

	case "import_statement", "import_from_statement", "future_import_statement",
		"global_statement", "nonlocal_statement":
		return &Other{pos: at, Type: n.Type()}
	}

	// Target patterns keep the caller's context, everything else resets to Load.
	switch n.Type() {
	case "pattern_list", "tuple_pattern", "list_pattern", "list_splat_pattern",
		"parenthesized_expression", "tuple", "list", "expression_list", "list_splat":
		return &Other{pos: at, Type: n.Type(), Kids: b.namedChildren(n, ctx)}
	}
	return &Other{pos: at, Type: n.Type(), Kids: b.namedChildren(n, Load)}
}

func (b *builder) elseBlock(n sitter.Node) *Block {
	alt := n.ChildByFieldName("alternative")
	if alt.IsNull() {
		return nil
	}
	return b.block(alt.ChildByFieldName("body"))
}

// exceptClause lowers a handler without its "as name" target, which names the
// caught exception rather than a variable.
func (b *builder) exceptClause(n sitter.Node) []Node {
	alias := n.ChildByFieldName("alias")
	var kids []Node
	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)
		if !alias.IsNull() && child.StartByte() == alias.StartByte() && child.EndByte() == alias.EndByte() {
			continue
		}
		if child.Type() == "as_pattern" && child.NamedChildCount() > 0 {
			child = child.NamedChild(0)
		}
		kids = appendNode(kids, b.lower(child, Load))
	}
	return kids
}

func (b *builder) interpolations(n sitter.Node, out *[]Node) {
	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)
		switch child.Type() {
		case "interpolation":
			*out = append(*out, b.namedChildren(child, Load)...)
		case "string":
			b.interpolations(child, out)
		}
	}
}

func (b *builder) functionDef(n sitter.Node) *FunctionDef {
	fn := &FunctionDef{
		pos:  pos{line: lineOf(n)},
		Name: b.text(n.ChildByFieldName("name")),
	}
	params := n.ChildByFieldName("parameters")
	if !params.IsNull() {
		for i := range params.NamedChildCount() {
			b.parameter(fn, params.NamedChild(i))
		}
	}
	fn.Extra = appendNode(fn.Extra, b.field(n, "return_type", Load))
	fn.Body = b.block(n.ChildByFieldName("body"))
	return fn
}

func (b *builder) parameter(fn *FunctionDef, p sitter.Node) {
	addParam := func(id sitter.Node) {
		if id.IsNull() || id.Type() != "identifier" {
			return
		}
		fn.Params = append(fn.Params, &Name{pos: pos{line: lineOf(id)}, ID: b.text(id), Ctx: Param})
	}

	switch p.Type() {
	case "identifier":
		addParam(p)
	case "default_parameter":
		addParam(p.ChildByFieldName("name"))
		fn.Defaults = appendNode(fn.Defaults, b.field(p, "value", Load))
	case "typed_default_parameter":
		addParam(p.ChildByFieldName("name"))
		fn.Extra = appendNode(fn.Extra, b.field(p, "type", Load))
		fn.Defaults = appendNode(fn.Defaults, b.field(p, "value", Load))
	case "typed_parameter":
		for i := range p.NamedChildCount() {
			if c := p.NamedChild(i); c.Type() == "identifier" {
				addParam(c)
			}
		}
		fn.Extra = appendNode(fn.Extra, b.field(p, "type", Load))
	}
	// *args, **kwargs and the bare separators are not positional bindings.
}

func (b *builder) call(n sitter.Node) *Call {
	c := &Call{pos: pos{line: lineOf(n)}}
	fnNode := n.ChildByFieldName("function")
	if !fnNode.IsNull() {
		switch fnNode.Type() {
		case "identifier":
			c.Callee = b.text(fnNode)
		case "attribute":
			c.Method = b.text(fnNode.ChildByFieldName("attribute"))
		}
		c.Func = b.lower(fnNode, Load)
	}
	args := n.ChildByFieldName("arguments")
	if !args.IsNull() {
		if args.Type() == "argument_list" {
			c.Args = b.namedChildren(args, Load)
		} else {
			c.Args = appendNode(nil, b.lower(args, Load))
		}
	}
	return c
}

func (b *builder) compare(n sitter.Node) *Compare {
	cmp := &Compare{pos: pos{line: lineOf(n)}}
	operand := 0
	for i := range n.ChildCount() {
		child := n.Child(i)
		if child.Type() == "comment" {
			continue
		}
		if !child.IsNamed() {
			cmp.Ops = append(cmp.Ops, child.Type())
			continue
		}
		lowered := b.lower(child, Load)
		if operand == 0 {
			cmp.Left = lowered
		} else {
			cmp.Comparators = append(cmp.Comparators, lowered)
		}
		operand++
	}
	return cmp
}
