package cgen

import (
	"errors"
	"math"
	"testing"

	"github.com/nalgeon/be"
	"github.com/raymyers/pdcc/pkg/ast"
	"github.com/raymyers/pdcc/pkg/csrc"
	"github.com/raymyers/pdcc/pkg/pdtypes"
)

func v(name string) ast.Expr { return ast.VarRef{Name: name} }
func num(n int64) ast.Expr { return ast.IntLiteral{Value: n} }
func str(s string) ast.Expr { return ast.StringLiteral{Value: s} }
func idx(name string, i ast.Expr) ast.Expr {
	return ast.ArrayIndex{Name: name, Index: i}
}
func bin(op ast.BinaryOp, l, r ast.Expr) ast.Expr {
	return ast.Binary{Op: op, Left: l, Right: r}
}
func call(name string, args ...ast.Expr) ast.Expr {
	return ast.Builtin{Name: name, Args: args}
}

// testSymbols declares i: int, s: string, nums: [int; 5]
func testSymbols(t *testing.T) *SymbolTable {
	t.Helper()
	syms := NewSymbolTable()
	be.Err(t, syms.Declare(Symbol{Name: "i", Type: pdtypes.Int()}), nil)
	be.Err(t, syms.Declare(Symbol{Name: "s", Type: pdtypes.String()}), nil)
	be.Err(t, syms.Declare(Symbol{Name: "nums", Type: pdtypes.Array(pdtypes.Int(), 5)}), nil)
	return syms
}

func TestLowerExpr(t *testing.T) {
	tests := []struct {
		name     string
		expr     ast.Expr
		want     string
		wantType pdtypes.Type
	}{
		{"int literal", num(42), "42", pdtypes.Int()},
		{"large literal", num(math.MaxInt64), "9223372036854775807LL", pdtypes.Int()},
		{"string literal", str("a \"b\"\n"), `"a \"b\"\n"`, pdtypes.String()},
		{"int var", v("i"), "i", pdtypes.Int()},
		{"string var", v("s"), "s", pdtypes.String()},
		{"array index", idx("nums", num(0)), "nums[0]", pdtypes.Int()},
		{"computed index", idx("nums", bin(ast.OpSub, v("i"), num(1))), "nums[i - 1LL]", pdtypes.Int()},
		{"int + int", bin(ast.OpAdd, v("i"), num(1)), "i + 1LL", pdtypes.Int()},
		{"element sum", bin(ast.OpAdd, idx("nums", num(0)), idx("nums", num(2))), "nums[0] + nums[2]", pdtypes.Int()},
		{"mod", bin(ast.OpMod, v("i"), num(2)), "i % 2LL", pdtypes.Int()},
		{"comparison", bin(ast.OpLt, v("i"), num(5)), "i < 5LL", pdtypes.Int()},
		{"logical", bin(ast.OpAnd, bin(ast.OpGe, v("i"), num(0)), bin(ast.OpNe, v("i"), num(3))), "i >= 0LL && i != 3LL", pdtypes.Int()},
		{"precedence kept", bin(ast.OpMul, bin(ast.OpAdd, v("i"), num(1)), num(2)), "(i + 1LL) * 2LL", pdtypes.Int()},
		{"string + string", bin(ast.OpAdd, v("s"), str("!")), `__pd_string_concat(s, "!")`, pdtypes.String()},
		{"string + int", bin(ast.OpAdd, str("n="), v("i")), `__pd_string_concat("n=", __pd_int_to_string(i))`, pdtypes.String()},
		{"int + string", bin(ast.OpAdd, idx("nums", num(1)), str(" items")), `__pd_string_concat(__pd_int_to_string(nums[1]), " items")`, pdtypes.String()},
		{
			"chained concat",
			bin(ast.OpAdd, bin(ast.OpAdd, str("a"), num(1)), num(2)),
			`__pd_string_concat(__pd_string_concat("a", __pd_int_to_string(1)), __pd_int_to_string(2))`,
			pdtypes.String(),
		},
		{"arithmetic before concat", bin(ast.OpAdd, str("x"), bin(ast.OpAdd, num(1), num(2))), `__pd_string_concat("x", __pd_int_to_string(1LL + 2LL))`, pdtypes.String()},
		{"negation", ast.Unary{Op: ast.OpNeg, Arg: v("i")}, "-i", pdtypes.Int()},
		{"not", ast.Unary{Op: ast.OpNot, Arg: bin(ast.OpEq, v("i"), num(0))}, "!(i == 0LL)", pdtypes.Int()},
		{"string_len", call("string_len", v("s")), "__pd_string_len(s)", pdtypes.Int()},
		{"int_to_string", call("int_to_string", num(7)), "__pd_int_to_string(7)", pdtypes.String()},
		{"string_concat", call("string_concat", v("s"), v("s")), "__pd_string_concat(s, s)", pdtypes.String()},
		{"by C name", call("__pd_string_len", str("abc")), `__pd_string_len("abc")`, pdtypes.Int()},
		{"print is void", call("print", v("s")), "__pd_print(s)", pdtypes.Void()},
		{"len in arithmetic", bin(ast.OpMul, call("string_len", v("s")), num(2)), "__pd_string_len(s) * 2", pdtypes.Int()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syms := testSymbols(t)
			got, typ, err := LowerExpr(tt.expr, syms)
			be.Err(t, err, nil)
			be.Equal(t, csrc.FormatExpr(got), tt.want)
			be.True(t, pdtypes.Equal(typ, tt.wantType))
			be.Equal(t, syms.Len(), 3)
		})
	}
}

func TestLowerExprErrors(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expr
		want error
	}{
		{"undeclared var", v("missing"), ErrUndeclaredIdentifier},
		{"undeclared array", idx("missing", num(0)), ErrUndeclaredIdentifier},
		{"index scalar", idx("i", num(0)), ErrNotAnArray},
		{"string index", idx("nums", str("0")), ErrTypeMismatch},
		{"array as value", v("nums"), ErrTypeMismatch},
		{"string minus int", bin(ast.OpSub, v("s"), num(1)), ErrTypeMismatch},
		{"string times string", bin(ast.OpMul, v("s"), v("s")), ErrTypeMismatch},
		{"string comparison", bin(ast.OpEq, v("s"), str("x")), ErrTypeMismatch},
		{"negate string", ast.Unary{Op: ast.OpNeg, Arg: v("s")}, ErrTypeMismatch},
		{"void operand", bin(ast.OpAdd, call("print", v("s")), num(1)), ErrTypeMismatch},
		{"void in concat", bin(ast.OpAdd, v("s"), call("print_int", num(1))), ErrTypeMismatch},
		{"unknown builtin", call("printf", str("x")), ErrUndeclaredIdentifier},
		{"too few args", call("string_concat", v("s")), ErrBuiltinArity},
		{"too many args", call("print_int", num(1), num(2)), ErrBuiltinArity},
		{"wrong arg type", call("print_int", v("s")), ErrTypeMismatch},
		{"print int", call("print", num(1)), ErrTypeMismatch},
		{"bare array literal", ast.ArrayLiteral{Elems: []ast.Expr{num(1)}}, ErrMalformedArrayLiteral},
		{"bare array repeat", ast.ArrayRepeat{Value: num(0), Count: 3}, ErrMalformedArrayLiteral},
		{"nested error propagates", bin(ast.OpAdd, num(1), idx("nums", v("nope"))), ErrUndeclaredIdentifier},
		{"nil expression", nil, ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, typ, err := LowerExpr(tt.expr, testSymbols(t))
			be.True(t, errors.Is(err, tt.want))
			be.True(t, got == nil)
			be.True(t, typ == nil)
		})
	}
}

func TestLowerExprErrorPosition(t *testing.T) {
	expr := ast.Binary{
		Pos:   ast.Pos{Line: 2, Col: 5},
		Op:    ast.OpAdd,
		Left:  num(1),
		Right: ast.VarRef{Pos: ast.Pos{Line: 2, Col: 9}, Name: "ghost"},
	}
	_, _, err := LowerExpr(expr, NewSymbolTable())

	var lerr *Error
	be.True(t, errors.As(err, &lerr))
	be.Equal(t, lerr.Pos, ast.Pos{Line: 2, Col: 9})
	be.Equal(t, err.Error(), "2:9: undeclared identifier: ghost")
}

func TestLowerExprArgumentPosition(t *testing.T) {
	expr := ast.Builtin{
		Pos:  ast.Pos{Line: 4, Col: 1},
		Name: "print_int",
		Args: []ast.Expr{ast.StringLiteral{Pos: ast.Pos{Line: 4, Col: 11}, Value: "x"}},
	}
	_, _, err := LowerExpr(expr, NewSymbolTable())
	be.Equal(t, err.Error(), "4:11: type mismatch: argument 1 of print_int: expected int, got string")
}

func TestLowerExprIsPure(t *testing.T) {
	syms := testSymbols(t)
	expr := bin(ast.OpAdd, str("sum="), bin(ast.OpAdd, idx("nums", num(0)), v("i")))

	first, _, err := LowerExpr(expr, syms)
	be.Err(t, err, nil)
	second, _, err := LowerExpr(expr, syms)
	be.Err(t, err, nil)
	be.Equal(t, csrc.FormatExpr(first), csrc.FormatExpr(second))
	be.Equal(t, syms.Len(), 3)
}
