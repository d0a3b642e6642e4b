package cgen

import (
	"github.com/raymyers/pdcc/pkg/ast"
	"github.com/raymyers/pdcc/pkg/csrc"
	"github.com/raymyers/pdcc/pkg/pdtypes"
	"github.com/raymyers/pdcc/pkg/runtime"
)

var binaryOps = map[ast.BinaryOp]csrc.BinaryOp{
	ast.OpAdd: csrc.Oadd,
	ast.OpSub: csrc.Osub,
	ast.OpMul: csrc.Omul,
	ast.OpDiv: csrc.Odiv,
	ast.OpMod: csrc.Omod,
	ast.OpLt:  csrc.Olt,
	ast.OpLe:  csrc.Ole,
	ast.OpGt:  csrc.Ogt,
	ast.OpGe:  csrc.Oge,
	ast.OpEq:  csrc.Oeq,
	ast.OpNe:  csrc.One,
	ast.OpAnd: csrc.Oand,
	ast.OpOr:  csrc.Oor,
}

var unaryOps = map[ast.UnaryOp]csrc.UnaryOp{
	ast.OpNeg: csrc.Oneg,
	ast.OpNot: csrc.Onotbool,
}

// LowerExpr translates an expression against the given symbol table and
// returns the C expression with its static type. The table is not modified.
func LowerExpr(e ast.Expr, syms *SymbolTable) (csrc.Expr, pdtypes.Type, error) {
	l := newLowerer(syms, false)
	return l.lowerExpr(e)
}

func (l *lowerer) lowerExpr(expr ast.Expr) (csrc.Expr, pdtypes.Type, error) {
	switch e := expr.(type) {
	case ast.IntLiteral:
		return csrc.Econst_int{Value: e.Value}, pdtypes.Int(), nil

	case ast.StringLiteral:
		return csrc.Estring{Value: e.Value}, pdtypes.String(), nil

	case ast.VarRef:
		sym, err := l.lookup(e.Name, e.Pos)
		if err != nil {
			return nil, nil, err
		}
		if pdtypes.IsArray(sym.Type) {
			return nil, nil, errorf(ErrTypeMismatch, e.Pos, "array %s cannot be used as a value", e.Name)
		}
		return csrc.Evar{Name: e.Name}, sym.Type, nil

	case ast.ArrayIndex:
		return l.lowerIndex(e.Name, e.Index, e.Pos)

	case ast.Binary:
		return l.lowerBinary(e)

	case ast.Unary:
		arg, t, err := l.lowerExpr(e.Arg)
		if err != nil {
			return nil, nil, err
		}
		if !isInt(t) {
			return nil, nil, errorf(ErrTypeMismatch, e.Pos, "operator %s needs an int operand, got %s", e.Op, t)
		}
		op, ok := unaryOps[e.Op]
		if !ok {
			return nil, nil, errorf(ErrTypeMismatch, e.Pos, "unsupported unary operator %s", e.Op)
		}
		return csrc.Eunop{Op: op, Arg: arg}, pdtypes.Int(), nil

	case ast.Builtin:
		return l.lowerBuiltin(e)

	case ast.ArrayLiteral:
		return nil, nil, errorf(ErrMalformedArrayLiteral, e.Pos, "array literal outside a sized declaration")

	case ast.ArrayRepeat:
		return nil, nil, errorf(ErrMalformedArrayLiteral, e.Pos, "array literal outside a sized declaration")

	case nil:
		return nil, nil, errorf(ErrTypeMismatch, ast.Pos{}, "missing expression")
	}
	return nil, nil, errorf(ErrTypeMismatch, expr.Position(), "unsupported expression %T", expr)
}

// lowerIndex lowers name[index] and returns the element type
func (l *lowerer) lowerIndex(name string, index ast.Expr, pos ast.Pos) (csrc.Expr, pdtypes.Type, error) {
	sym, err := l.lookup(name, pos)
	if err != nil {
		return nil, nil, err
	}
	arr, ok := sym.Type.(pdtypes.Tarray)
	if !ok {
		return nil, nil, errorf(ErrNotAnArray, pos, "%s has type %s", name, sym.Type)
	}
	idx, t, err := l.lowerExpr(index)
	if err != nil {
		return nil, nil, err
	}
	if !isInt(t) {
		return nil, nil, errorf(ErrTypeMismatch, positionOf(index, pos), "index of %s must be int, got %s", name, t)
	}
	return csrc.Eindex{Array: csrc.Evar{Name: name}, Index: idx}, arr.Elem, nil
}

func (l *lowerer) lowerBinary(e ast.Binary) (csrc.Expr, pdtypes.Type, error) {
	left, lt, err := l.lowerExpr(e.Left)
	if err != nil {
		return nil, nil, err
	}
	right, rt, err := l.lowerExpr(e.Right)
	if err != nil {
		return nil, nil, err
	}
	if isVoid(lt) || isVoid(rt) {
		return nil, nil, errorf(ErrTypeMismatch, e.Pos, "void value used as an operand of %s", e.Op)
	}

	// + is overloaded: any string operand turns it into concatenation
	if e.Op == ast.OpAdd && (isString(lt) || isString(rt)) {
		return csrc.Ecall{
			Func: runtime.ConcatName,
			Args: []csrc.Expr{toCString(left, lt), toCString(right, rt)},
		}, pdtypes.String(), nil
	}

	if !isInt(lt) || !isInt(rt) {
		return nil, nil, errorf(ErrTypeMismatch, e.Pos, "operator %s needs int operands, got %s and %s", e.Op, lt, rt)
	}
	op, ok := binaryOps[e.Op]
	if !ok {
		return nil, nil, errorf(ErrTypeMismatch, e.Pos, "unsupported binary operator %s", e.Op)
	}
	return csrc.Ebinop{Op: op, Left: left, Right: right}, pdtypes.Int(), nil
}

func (l *lowerer) lowerBuiltin(e ast.Builtin) (csrc.Expr, pdtypes.Type, error) {
	b, ok := runtime.Lookup(e.Name)
	if !ok {
		return nil, nil, errorf(ErrUndeclaredIdentifier, e.Pos, "unknown builtin %s", e.Name)
	}
	if len(e.Args) != len(b.Params) {
		return nil, nil, errorf(ErrBuiltinArity, e.Pos, "%s expects %d argument(s), got %d", b.Name, len(b.Params), len(e.Args))
	}
	args := make([]csrc.Expr, len(e.Args))
	for i, arg := range e.Args {
		v, t, err := l.lowerExpr(arg)
		if err != nil {
			return nil, nil, err
		}
		if !pdtypes.Equal(t, b.Params[i]) {
			return nil, nil, errorf(ErrTypeMismatch, positionOf(arg, e.Pos), "argument %d of %s: expected %s, got %s", i+1, b.Name, b.Params[i], t)
		}
		args[i] = v
	}
	return csrc.Ecall{Func: b.CName, Args: args}, b.Result, nil
}

// toCString converts an int operand of string + through the runtime
func toCString(e csrc.Expr, t pdtypes.Type) csrc.Expr {
	if isInt(t) {
		return csrc.Ecall{Func: runtime.IntToStringName, Args: []csrc.Expr{e}}
	}
	return e
}

func isInt(t pdtypes.Type) bool    { return pdtypes.Equal(t, pdtypes.Int()) }
func isString(t pdtypes.Type) bool { return pdtypes.Equal(t, pdtypes.String()) }
func isVoid(t pdtypes.Type) bool   { return pdtypes.Equal(t, pdtypes.Void()) }

func isArrayLiteral(e ast.Expr) bool {
	switch e.(type) {
	case ast.ArrayLiteral, ast.ArrayRepeat:
		return true
	}
	return false
}

// positionOf prefers the node's own position, falling back to the enclosing one
func positionOf(n ast.Node, fallback ast.Pos) ast.Pos {
	if n != nil && n.Position().IsValid() {
		return n.Position()
	}
	return fallback
}
