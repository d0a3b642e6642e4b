// Package cgen lowers a Palladium AST to C.
//
// Translation is a single pure pass: each statement is lowered in source order,
// expressions are type-checked as they are lowered, and the first error aborts
// the whole translation. The result links only against the fixed runtime shim.
package cgen

import (
	"github.com/raymyers/pdcc/pkg/ast"
	"github.com/raymyers/pdcc/pkg/csrc"
	"github.com/raymyers/pdcc/pkg/runtime"
)

// DefaultEntry is the entry function used when neither the program nor the options name one
const DefaultEntry = "main"

// Options configures a translation
type Options struct {
	// Entry overrides the program's entry function name
	Entry string
}

// TranslateProgram lowers a program to a C translation unit: the runtime
// includes and shim followed by one entry function holding the program body.
func TranslateProgram(prog *ast.Program, opts Options) (*csrc.TranslationUnit, error) {
	if prog == nil {
		prog = &ast.Program{}
	}
	entry := entryName(prog, opts)
	if err := checkEntryName(entry); err != nil {
		return nil, err
	}

	fn, err := translateFunction(entry, prog.Body)
	if err != nil {
		return nil, err
	}

	return &csrc.TranslationUnit{
		Includes:  runtime.Includes(),
		Prelude:   runtime.Source(),
		Functions: []csrc.Function{fn},
	}, nil
}

// Generate lowers a program and renders it as C source text
func Generate(prog *ast.Program, opts Options) (string, error) {
	unit, err := TranslateProgram(prog, opts)
	if err != nil {
		return "", err
	}
	return csrc.Format(unit), nil
}

func entryName(prog *ast.Program, opts Options) string {
	switch {
	case opts.Entry != "":
		return opts.Entry
	case prog.Entry != "":
		return prog.Entry
	}
	return DefaultEntry
}

// translateFunction lowers a statement list into an int-returning C function.
// Declarations from nested blocks go first so every name is declared before use.
func translateFunction(name string, stmts []ast.Stmt) (csrc.Function, error) {
	isMain := name == DefaultEntry
	l := newLowerer(NewSymbolTable(), isMain)

	lowered, err := l.lowerStmts(stmts)
	if err != nil {
		return csrc.Function{}, err
	}

	body := make([]csrc.Stmt, 0, len(l.hoisted)+len(lowered)+1)
	body = append(body, l.hoisted...)
	body = append(body, lowered...)
	body = append(body, csrc.Sreturn{Value: csrc.Econst_int{Value: 0}})

	fn := csrc.Function{
		Return: "int",
		Name:   name,
		Body:   body,
	}
	if isMain {
		fn.Params = []csrc.Param{
			{Type: "int", Name: "argc"},
			{Type: "char**", Name: "argv"},
		}
	}
	return fn, nil
}
