package corset

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corsetlang/corset/pkg/ast"
)

func sym(name string) ast.AstNode { return ast.AstNode{Tag: ast.TagSymbol, Name: name} }

func val(n int64) ast.AstNode { return ast.AstNode{Tag: ast.TagValue, Value: big.NewInt(n)} }

func flist(nodes ...ast.AstNode) ast.AstNode { return ast.AstNode{Tag: ast.TagList, List: nodes} }

func call(verb string, args ...ast.AstNode) ast.AstNode {
	return flist(append([]ast.AstNode{sym(verb)}, args...)...)
}

func defModule(name string) ast.AstNode {
	return ast.AstNode{Tag: ast.TagDefModule, ModuleName: name}
}

func defColumns(cols ...ast.AstNode) ast.AstNode {
	return ast.AstNode{Tag: ast.TagDefColumns, Columns: cols}
}

func atomicCol(name string) ast.AstNode {
	return ast.AstNode{Tag: ast.TagDefColumn, ColName: name, ColMagma: ast.MagmaInteger, ColKind: ast.ColumnAtomic}
}

func compositeCol(name string, expr ast.AstNode) ast.AstNode {
	return ast.AstNode{
		Tag: ast.TagDefColumn, ColName: name, ColMagma: ast.MagmaInteger,
		ColKind: ast.ColumnComposite, ColExpr: &expr,
	}
}

func defConstraint(name string, body ast.AstNode) ast.AstNode {
	return ast.AstNode{Tag: ast.TagDefConstraint, ConstraintName: name, Body: &body}
}

// TestCompileComposesAtomicAndCompositeColumns exercises the four-pass
// pipeline end to end: a composite column referencing two atomic siblings,
// and a constraint asserting their relationship, starting from a hand-built
// AST (no parser is in scope for this repository).
func TestCompileComposesAtomicAndCompositeColumns(t *testing.T) {
	forms := []ast.AstNode{
		defModule("m"),
		defColumns(
			atomicCol("a"),
			atomicCol("b"),
			compositeCol("c", call("add", sym("a"), sym("b"))),
		),
		defConstraint("c-is-sum", call("eq", sym("c"), call("add", sym("a"), sym("b")))),
	}

	schema, err := Compile(forms, CompileSettings{})
	require.NoError(t, err)

	assert.Len(t, schema.Columns.Columns(), 3)
	assert.Len(t, schema.Constraints, 1)
	assert.Equal(t, ConstraintVanishes, schema.Constraints[0].Tag)

	c, ok := schema.Columns.Column("m", "c")
	require.True(t, ok)
	assert.Equal(t, KindComposite, c.Kind)

	require.Len(t, schema.Columns.Computations, 1)
	assert.Equal(t, ComputationComposite, schema.Columns.Computations[0].Tag)
}

// TestCompileUnusedConstantWarns checks the finalization pass reports an
// unused-symbol warning (spec.md §7) for a constant nothing ever reads.
func TestCompileUnusedConstantWarns(t *testing.T) {
	forms := []ast.AstNode{
		defModule("m"),
		ast.AstNode{
			Tag: ast.TagDefConsts,
			Consts: []ast.ConstDef{
				{Name: "UNUSED", Expr: val(7)},
			},
		},
		defColumns(atomicCol("a")),
		defConstraint("trivial", call("eq", sym("a"), sym("a"))),
	}

	schema, err := Compile(forms, CompileSettings{})
	require.NoError(t, err)

	require.Len(t, schema.Warnings, 1)
	assert.Contains(t, schema.Warnings[0].String(), "UNUSED")
}

// TestCompileDuplicateModuleSharesScope ensures the generator pass, which
// re-walks the same defmodule forms as the definitions pass, resolves
// symbols defined under an earlier occurrence of the same module name
// (DeriveModule's memoization, see its doc comment in scope.go).
func TestCompileDuplicateModuleSharesScope(t *testing.T) {
	forms := []ast.AstNode{
		defModule("m"),
		defColumns(atomicCol("a")),
		defModule("m"),
		defConstraint("a-is-boolean", call("eq", sym("a"), call("mul", sym("a"), sym("a")))),
	}

	schema, err := Compile(forms, CompileSettings{})
	require.NoError(t, err)
	assert.Len(t, schema.Constraints, 1)
}

// TestCompilePermutationProducesSortedComputation checks a defpermutation
// form both defines its "to" columns and registers the Sorted computation
// that actually materializes them (SPEC_FULL.md §4).
func TestCompilePermutationProducesSortedComputation(t *testing.T) {
	forms := []ast.AstNode{
		defModule("m"),
		defColumns(atomicCol("a"), atomicCol("b")),
		ast.AstNode{
			Tag:      ast.TagDefPermutation,
			PermFrom: []string{"a"},
			PermTo:   []string{"a-sorted"},
			PermSigns: []bool{true},
		},
	}

	schema, err := Compile(forms, CompileSettings{})
	require.NoError(t, err)

	require.Len(t, schema.Constraints, 1)
	assert.Equal(t, ConstraintPermutation, schema.Constraints[0].Tag)

	require.Len(t, schema.Columns.Computations, 1)
	assert.Equal(t, ComputationSorted, schema.Columns.Computations[0].Tag)
}

func TestApplyBuiltinLowersNotAndEq(t *testing.T) {
	st := NewSymbolTable(false)
	r := NewReducer(st, CompileSettings{})

	one := NewConst(big.NewInt(1))

	notResult, err := r.applyBuiltin(Builtins["not"], []Node{one})
	require.NoError(t, err)
	assert.Equal(t, "sub", notResult.Builtin)

	eqResult, err := r.applyBuiltin(Builtins["eq"], []Node{one, one})
	require.NoError(t, err)
	assert.Equal(t, "mul", eqResult.Builtin, "boolean eq lowers to a squared difference")
}

func TestApplyExpDesugarsToMultiplicationChain(t *testing.T) {
	st := NewSymbolTable(false)
	r := NewReducer(st, CompileSettings{})

	base := NewColumnNode(NewHandle("m", "x"), KindAtomic, Integer, BaseDec)
	three := NewConst(big.NewInt(3))

	result, err := r.applyBuiltin(Builtins["exp"], []Node{base, three})
	require.NoError(t, err)

	// x^3 desugars to (mul (mul x x) x).
	assert.Equal(t, "mul", result.Builtin)
	assert.Equal(t, "mul", result.Args[0].Builtin)
}
