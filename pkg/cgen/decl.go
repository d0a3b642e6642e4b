package cgen

import (
	"github.com/raymyers/pdcc/pkg/ast"
	"github.com/raymyers/pdcc/pkg/csrc"
	"github.com/raymyers/pdcc/pkg/pdtypes"
)

func (l *lowerer) lowerVarDecl(d ast.VarDecl) ([]csrc.Stmt, error) {
	if err := l.checkName(d.Name, d.Pos); err != nil {
		return nil, err
	}
	elem, ok := pdtypes.FromName(d.TypeSpec)
	if !ok {
		return nil, errorf(ErrTypeMismatch, d.Pos, "unknown type %q for %s", d.TypeSpec, d.Name)
	}
	if d.Size != nil {
		return l.lowerArrayDecl(d, elem)
	}

	var init csrc.Expr
	if d.Init == nil {
		init = zeroValue(elem)
	} else {
		if isArrayLiteral(d.Init) {
			return nil, errorf(ErrMalformedArrayLiteral, positionOf(d.Init, d.Pos), "array literal initializer for %s needs a size", d.Name)
		}
		v, t, err := l.lowerExpr(d.Init)
		if err != nil {
			return nil, err
		}
		if !pdtypes.Equal(t, elem) {
			return nil, errorf(ErrTypeMismatch, d.Pos, "cannot initialize %s of type %s with %s", d.Name, elem, t)
		}
		init = v
	}

	if err := l.syms.Declare(Symbol{Name: d.Name, Type: elem, Pos: d.Pos, Hoisted: l.depth > 0}); err != nil {
		return nil, err
	}
	if l.depth > 0 {
		l.hoist(csrc.Sdecl{Type: elem.CName(), Name: d.Name, Init: zeroValue(elem)})
		return []csrc.Stmt{csrc.Sassign{LHS: csrc.Evar{Name: d.Name}, RHS: init}}, nil
	}
	return []csrc.Stmt{csrc.Sdecl{Type: elem.CName(), Name: d.Name, Init: init}}, nil
}

// lowerArrayDecl emits a fixed-length array declaration
func (l *lowerer) lowerArrayDecl(d ast.VarDecl, elem pdtypes.Type) ([]csrc.Stmt, error) {
	n := *d.Size
	if n <= 0 {
		return nil, errorf(ErrMalformedArrayLiteral, d.Pos, "array %s must have a positive size, got %d", d.Name, n)
	}

	var elems []csrc.Expr
	if d.Init != nil {
		var err error
		elems, err = l.lowerArrayInit(d.Name, elem, n, d.Init)
		if err != nil {
			return nil, err
		}
	}

	if err := l.syms.Declare(Symbol{Name: d.Name, Type: pdtypes.Array(elem, n), Pos: d.Pos, Hoisted: l.depth > 0}); err != nil {
		return nil, err
	}
	if l.depth > 0 {
		l.hoist(csrc.Sdecl{Type: elem.CName(), Name: d.Name, ArrayLen: n})
		return elementAssigns(d.Name, elems), nil
	}
	return []csrc.Stmt{csrc.Sdecl{Type: elem.CName(), Name: d.Name, ArrayLen: n, InitList: elems}}, nil
}

// lowerArrayInit lowers an array literal that must have exactly n elements of type elem
func (l *lowerer) lowerArrayInit(name string, elem pdtypes.Type, n int64, init ast.Expr) ([]csrc.Expr, error) {
	switch e := init.(type) {
	case ast.ArrayLiteral:
		if int64(len(e.Elems)) != n {
			return nil, errorf(ErrMalformedArrayLiteral, positionOf(e, ast.Pos{}), "%s has %d elements but the literal has %d", name, n, len(e.Elems))
		}
		out := make([]csrc.Expr, len(e.Elems))
		for i, el := range e.Elems {
			v, t, err := l.lowerExpr(el)
			if err != nil {
				return nil, err
			}
			if !pdtypes.Equal(t, elem) {
				return nil, errorf(ErrTypeMismatch, positionOf(el, e.Pos), "element %d of %s: expected %s, got %s", i, name, elem, t)
			}
			out[i] = v
		}
		return out, nil

	case ast.ArrayRepeat:
		if e.Count != n {
			return nil, errorf(ErrMalformedArrayLiteral, e.Pos, "%s has %d elements but the literal repeats %d", name, n, e.Count)
		}
		v, t, err := l.lowerExpr(e.Value)
		if err != nil {
			return nil, err
		}
		if !pdtypes.Equal(t, elem) {
			return nil, errorf(ErrTypeMismatch, positionOf(e.Value, e.Pos), "element of %s: expected %s, got %s", name, elem, t)
		}
		out := make([]csrc.Expr, n)
		for i := range out {
			out[i] = v
		}
		return out, nil
	}
	return nil, errorf(ErrMalformedArrayLiteral, positionOf(init, ast.Pos{}), "initializer of array %s must be an array literal", name)
}

// lowerArrayLiteralAssign assigns a whole literal to an already declared array.
// When the literal reads the array it is staged through a temporary so that
// every element sees the old contents.
func (l *lowerer) lowerArrayLiteralAssign(name string, arr pdtypes.Tarray, lit ast.Expr) ([]csrc.Stmt, error) {
	elems, err := l.lowerArrayInit(name, arr.Elem, arr.Len, lit)
	if err != nil {
		return nil, err
	}
	if !mentions(lit, name) {
		return elementAssigns(name, elems), nil
	}

	tmp := l.tempName(name)
	l.hoist(csrc.Sdecl{Type: arr.Elem.CName(), Name: tmp, ArrayLen: arr.Len})
	out := elementAssigns(tmp, elems)
	for i := int64(0); i < arr.Len; i++ {
		out = append(out, csrc.Sassign{
			LHS: elementOf(name, i),
			RHS: elementOf(tmp, i),
		})
	}
	return out, nil
}

func elementAssigns(name string, elems []csrc.Expr) []csrc.Stmt {
	out := make([]csrc.Stmt, len(elems))
	for i, v := range elems {
		out[i] = csrc.Sassign{LHS: elementOf(name, int64(i)), RHS: v}
	}
	return out
}

func elementOf(name string, i int64) csrc.Expr {
	return csrc.Eindex{Array: csrc.Evar{Name: name}, Index: csrc.Econst_int{Value: i}}
}

func zeroValue(t pdtypes.Type) csrc.Expr {
	if isString(t) {
		return csrc.Estring{Value: ""}
	}
	return csrc.Econst_int{Value: 0}
}

// mentions reports whether expr reads the variable name
func mentions(expr ast.Expr, name string) bool {
	switch e := expr.(type) {
	case ast.VarRef:
		return e.Name == name
	case ast.ArrayIndex:
		return e.Name == name || mentions(e.Index, name)
	case ast.Binary:
		return mentions(e.Left, name) || mentions(e.Right, name)
	case ast.Unary:
		return mentions(e.Arg, name)
	case ast.Builtin:
		for _, a := range e.Args {
			if mentions(a, name) {
				return true
			}
		}
	case ast.ArrayLiteral:
		for _, el := range e.Elems {
			if mentions(el, name) {
				return true
			}
		}
	case ast.ArrayRepeat:
		return mentions(e.Value, name)
	}
	return false
}

func (l *lowerer) checkName(name string, pos ast.Pos) error {
	if err := checkIdentifier(name, pos); err != nil {
		return err
	}
	if l.inMain && (name == "argc" || name == "argv") {
		return errorf(ErrInvalidIdentifier, pos, "%s is a parameter of main", name)
	}
	return nil
}
