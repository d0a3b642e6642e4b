package cgen

import (
	"errors"
	"fmt"

	"github.com/raymyers/pdcc/pkg/ast"
)

// Lowering errors. Every error returned by this package wraps exactly one of these.
var (
	ErrUndeclaredIdentifier  = errors.New("undeclared identifier")
	ErrDuplicateDeclaration  = errors.New("duplicate declaration")
	ErrTypeMismatch          = errors.New("type mismatch")
	ErrNotAnArray            = errors.New("not an array")
	ErrBuiltinArity          = errors.New("builtin arity error")
	ErrMalformedArrayLiteral = errors.New("malformed array literal")
	ErrInvalidIdentifier     = errors.New("invalid identifier")
	ErrMisplacedJump         = errors.New("misplaced jump")
)

// Error is a lowering failure at a source position
type Error struct {
	Kind error
	Pos  ast.Pos
	Msg  string
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Col, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func errorf(kind error, pos ast.Pos, format string, args ...any) error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
