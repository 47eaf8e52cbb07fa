package pyast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FunctionDef(t *testing.T) {
	t.Parallel()

	mod, err := Parse("def f(a, b=1, *args, **kw):\n    return a\n")
	require.NoError(t, err)
	require.Len(t, mod.Body.Stmts, 1)

	fn, ok := mod.Body.Stmts[0].(*FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "f", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].ID)
	assert.Equal(t, "b", fn.Params[1].ID)
	assert.Equal(t, Param, fn.Params[1].Ctx)
	assert.Len(t, fn.Defaults, 1)

	require.Len(t, fn.Body.Stmts, 1)
	jump, ok := fn.Body.Stmts[0].(*Jump)
	require.True(t, ok)
	assert.Equal(t, "return", jump.Keyword)
	assert.Equal(t, 2, jump.Line())
}

func TestParse_NameContexts(t *testing.T) {
	t.Parallel()

	mod, err := Parse("x = y\nfor i in items:\n    pass\n")
	require.NoError(t, err)

	ctx := map[string]Ctx{}
	Walk(mod, func(n Node) bool {
		if name, ok := n.(*Name); ok {
			ctx[name.ID] = name.Ctx
		}
		return true
	})

	assert.Equal(t, Store, ctx["x"])
	assert.Equal(t, Load, ctx["y"])
	assert.Equal(t, Store, ctx["i"])
	assert.Equal(t, Load, ctx["items"])
}

func TestParse_LoopsCallsCompare(t *testing.T) {
	t.Parallel()

	src := "while n > 0:\n    data.sort()\n    n = sorted(data)\n"
	mod, err := Parse(src)
	require.NoError(t, err)

	var (
		loops   []*Loop
		calls   []*Call
		compare *Compare
	)
	Walk(mod, func(n Node) bool {
		switch node := n.(type) {
		case *Loop:
			loops = append(loops, node)
		case *Call:
			calls = append(calls, node)
		case *Compare:
			compare = node
		}
		return true
	})

	require.Len(t, loops, 1)
	assert.Equal(t, LoopWhile, loops[0].Kind)
	require.Len(t, calls, 2)
	assert.Equal(t, "sort", calls[0].Method)
	assert.Equal(t, "sorted", calls[1].Callee)
	require.NotNil(t, compare)
	assert.Equal(t, []string{">"}, compare.Ops)
}

func TestParse_Comprehension(t *testing.T) {
	t.Parallel()

	mod, err := Parse("a = [x for x in xs]\nb = (x for x in xs)\n")
	require.NoError(t, err)

	var kinds []string
	Walk(mod, func(n Node) bool {
		if c, ok := n.(*Comprehension); ok {
			kinds = append(kinds, c.Kind)
		}
		return true
	})

	assert.Equal(t, []string{"list", "generator"}, kinds)
}

func TestParse_SyntaxError(t *testing.T) {
	t.Parallel()

	_, err := Parse("def f(:\n    pass\n")
	require.Error(t, err)

	var serr *SyntaxError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 1, serr.Line)
	assert.NotEmpty(t, serr.Msg)
}

func TestWalk_SkipsChildren(t *testing.T) {
	t.Parallel()

	mod, err := Parse("def f():\n    x = 1\n")
	require.NoError(t, err)

	names := 0
	Walk(mod, func(n Node) bool {
		if _, ok := n.(*Name); ok {
			names++
		}
		_, isFunc := n.(*FunctionDef)
		return !isFunc
	})

	assert.Zero(t, names)
}

func TestConstant_IsZero(t *testing.T) {
	t.Parallel()

	assert.True(t, (&Constant{Kind: ConstNumber, Text: "0"}).IsZero())
	assert.False(t, (&Constant{Kind: ConstNumber, Text: "1"}).IsZero())
	assert.False(t, (&Constant{Kind: ConstString, Text: "0"}).IsZero())
}

func TestParse_IndentationError(t *testing.T) {
	t.Parallel()

	_, err := Parse("x = 1\nif x:\nprint(x)\n")
	require.Error(t, err)

	var serr *SyntaxError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 3, serr.Line)
	assert.Equal(t, "expected an indented block", serr.Msg)
}

func TestParse_ExceptTargetNotBound(t *testing.T) {
	t.Parallel()

	mod, err := Parse("try:\n    pass\nexcept (KeyError, ValueError) as err:\n    pass\n")
	require.NoError(t, err)

	var stores []string
	Walk(mod, func(n Node) bool {
		if name, ok := n.(*Name); ok && name.Ctx == Store {
			stores = append(stores, name.ID)
		}
		return true
	})

	assert.Empty(t, stores)
}
