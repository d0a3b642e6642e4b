package cgen

import (
	"fmt"

	"github.com/raymyers/pdcc/pkg/ast"
	"github.com/raymyers/pdcc/pkg/csrc"
	"github.com/raymyers/pdcc/pkg/pdtypes"
)

// lowerer holds the state of lowering one function body.
// It is created at function entry and dropped when the function is emitted.
type lowerer struct {
	syms    *SymbolTable
	hoisted []csrc.Stmt // declarations moved to the top of the function
	depth   int         // block nesting, 0 is the function body
	loops   int         // enclosing while loops
	inMain  bool        // argc and argv are taken
}

func newLowerer(syms *SymbolTable, inMain bool) *lowerer {
	if syms == nil {
		syms = NewSymbolTable()
	}
	return &lowerer{syms: syms, inMain: inMain}
}

// LowerStmt translates one top-level statement, declaring into syms as it goes.
// Declarations made inside nested blocks come first in the result.
func LowerStmt(s ast.Stmt, syms *SymbolTable) ([]csrc.Stmt, error) {
	l := newLowerer(syms, false)
	out, err := l.lowerStmt(s)
	if err != nil {
		return nil, err
	}
	return append(l.hoisted, out...), nil
}

func (l *lowerer) lowerStmts(stmts []ast.Stmt) ([]csrc.Stmt, error) {
	var out []csrc.Stmt
	for _, s := range stmts {
		lowered, err := l.lowerStmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, lowered...)
	}
	return out, nil
}

// lowerBlock lowers a nested statement list over the same symbol table
func (l *lowerer) lowerBlock(stmts []ast.Stmt) ([]csrc.Stmt, error) {
	l.depth++
	defer func() { l.depth-- }()
	return l.lowerStmts(stmts)
}

func (l *lowerer) lowerStmt(stmt ast.Stmt) ([]csrc.Stmt, error) {
	switch s := stmt.(type) {
	case ast.VarDecl:
		return l.lowerVarDecl(s)

	case ast.ScalarAssign:
		return l.lowerScalarAssign(s)

	case ast.ArrayAssign:
		return l.lowerArrayAssign(s)

	case ast.While:
		cond, err := l.lowerCond(s.Cond, s.Pos, "while")
		if err != nil {
			return nil, err
		}
		l.loops++
		body, err := l.lowerBlock(s.Body)
		l.loops--
		if err != nil {
			return nil, err
		}
		return []csrc.Stmt{csrc.Swhile{Cond: cond, Body: body}}, nil

	case ast.If:
		cond, err := l.lowerCond(s.Cond, s.Pos, "if")
		if err != nil {
			return nil, err
		}
		then, err := l.lowerBlock(s.Then)
		if err != nil {
			return nil, err
		}
		els, err := l.lowerBlock(s.Else)
		if err != nil {
			return nil, err
		}
		return []csrc.Stmt{csrc.Sifthenelse{Cond: cond, Then: then, Else: els}}, nil

	case ast.ExprStmt:
		v, t, err := l.lowerExpr(s.X)
		if err != nil {
			return nil, err
		}
		if !isVoid(t) {
			v = csrc.Ecast{Type: "void", Arg: v}
		}
		return []csrc.Stmt{csrc.Sdo{Expr: v}}, nil

	case ast.Break:
		if l.loops == 0 {
			return nil, errorf(ErrMisplacedJump, s.Pos, "break outside a while loop")
		}
		return []csrc.Stmt{csrc.Sbreak{}}, nil

	case ast.Continue:
		if l.loops == 0 {
			return nil, errorf(ErrMisplacedJump, s.Pos, "continue outside a while loop")
		}
		return []csrc.Stmt{csrc.Scontinue{}}, nil

	case ast.Return:
		if s.Value == nil {
			return []csrc.Stmt{csrc.Sreturn{Value: csrc.Econst_int{Value: 0}}}, nil
		}
		v, t, err := l.lowerExpr(s.Value)
		if err != nil {
			return nil, err
		}
		if !isInt(t) {
			return nil, errorf(ErrTypeMismatch, positionOf(s.Value, s.Pos), "return status must be int, got %s", t)
		}
		return []csrc.Stmt{csrc.Sreturn{Value: v}}, nil

	case nil:
		return nil, errorf(ErrTypeMismatch, ast.Pos{}, "missing statement")
	}
	return nil, errorf(ErrTypeMismatch, stmt.Position(), "unsupported statement %T", stmt)
}

// lowerCond lowers a loop or branch condition, which is a C truth value
func (l *lowerer) lowerCond(e ast.Expr, pos ast.Pos, what string) (csrc.Expr, error) {
	cond, t, err := l.lowerExpr(e)
	if err != nil {
		return nil, err
	}
	if !isInt(t) {
		return nil, errorf(ErrTypeMismatch, positionOf(e, pos), "%s condition must be int, got %s", what, t)
	}
	return cond, nil
}

func (l *lowerer) lowerScalarAssign(s ast.ScalarAssign) ([]csrc.Stmt, error) {
	sym, err := l.lookup(s.Name, s.Pos)
	if err != nil {
		return nil, err
	}

	if arr, ok := sym.Type.(pdtypes.Tarray); ok {
		if isArrayLiteral(s.Value) {
			return l.lowerArrayLiteralAssign(s.Name, arr, s.Value)
		}
		return nil, errorf(ErrTypeMismatch, s.Pos, "cannot assign to array %s as a whole", s.Name)
	}
	if isArrayLiteral(s.Value) {
		return nil, errorf(ErrMalformedArrayLiteral, positionOf(s.Value, s.Pos), "array literal assigned to scalar %s", s.Name)
	}

	v, t, err := l.lowerExpr(s.Value)
	if err != nil {
		return nil, err
	}
	if !pdtypes.Equal(t, sym.Type) {
		return nil, errorf(ErrTypeMismatch, s.Pos, "cannot assign %s to %s of type %s", t, s.Name, sym.Type)
	}
	return []csrc.Stmt{csrc.Sassign{LHS: csrc.Evar{Name: s.Name}, RHS: v}}, nil
}

func (l *lowerer) lowerArrayAssign(s ast.ArrayAssign) ([]csrc.Stmt, error) {
	target, elem, err := l.lowerIndex(s.Name, s.Index, s.Pos)
	if err != nil {
		return nil, err
	}
	if isArrayLiteral(s.Value) {
		return nil, errorf(ErrMalformedArrayLiteral, positionOf(s.Value, s.Pos), "array literal assigned to element of %s", s.Name)
	}
	v, t, err := l.lowerExpr(s.Value)
	if err != nil {
		return nil, err
	}
	if !pdtypes.Equal(t, elem) {
		return nil, errorf(ErrTypeMismatch, s.Pos, "cannot assign %s to element of %s (%s)", t, s.Name, elem)
	}
	return []csrc.Stmt{csrc.Sassign{LHS: target, RHS: v}}, nil
}

func (l *lowerer) lookup(name string, pos ast.Pos) (Symbol, error) {
	sym, ok := l.syms.Lookup(name)
	if !ok {
		return Symbol{}, errorf(ErrUndeclaredIdentifier, pos, "%s", name)
	}
	return sym, nil
}

func (l *lowerer) hoist(decl csrc.Sdecl) {
	l.hoisted = append(l.hoisted, decl)
}

// tempName returns a fresh name in the runtime namespace, which user code cannot declare
func (l *lowerer) tempName(base string) string {
	l.syms.temps++
	return fmt.Sprintf("__pd_tmp%d_%s", l.syms.temps, base)
}
