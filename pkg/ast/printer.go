package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer outputs the AST in Palladium surface syntax
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a new AST printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, indent: 0}
}

// PrintProgram prints a complete program wrapped in its entry function
func (p *Printer) PrintProgram(prog *Program) {
	entry := prog.Entry
	if entry == "" {
		entry = "main"
	}
	fmt.Fprintf(p.w, "fn %s() {\n", entry)
	p.indent++
	p.printStmts(prog.Body)
	p.indent--
	fmt.Fprintln(p.w, "}")
}

// PrintStmt prints a single statement
func (p *Printer) PrintStmt(stmt Stmt) {
	p.printStmt(stmt)
}

// PrintExpr prints a single expression without a trailing newline
func (p *Printer) PrintExpr(expr Expr) {
	p.printExpr(expr)
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("  ", p.indent))
}

func (p *Printer) printStmts(stmts []Stmt) {
	for _, s := range stmts {
		p.printStmt(s)
	}
}

func (p *Printer) printBlock(stmts []Stmt) {
	fmt.Fprintln(p.w, "{")
	p.indent++
	p.printStmts(stmts)
	p.indent--
	p.writeIndent()
	fmt.Fprint(p.w, "}")
}

func (p *Printer) printStmt(stmt Stmt) {
	p.writeIndent()
	switch s := stmt.(type) {
	case VarDecl:
		fmt.Fprintf(p.w, "let mut %s: ", s.Name)
		if s.Size != nil {
			fmt.Fprintf(p.w, "[%s; %d]", s.TypeSpec, *s.Size)
		} else {
			fmt.Fprint(p.w, s.TypeSpec)
		}
		if s.Init != nil {
			fmt.Fprint(p.w, " = ")
			p.printExpr(s.Init)
		}
		fmt.Fprintln(p.w, ";")

	case ScalarAssign:
		fmt.Fprintf(p.w, "%s = ", s.Name)
		p.printExpr(s.Value)
		fmt.Fprintln(p.w, ";")

	case ArrayAssign:
		fmt.Fprintf(p.w, "%s[", s.Name)
		p.printExpr(s.Index)
		fmt.Fprint(p.w, "] = ")
		p.printExpr(s.Value)
		fmt.Fprintln(p.w, ";")

	case While:
		fmt.Fprint(p.w, "while ")
		p.printExpr(s.Cond)
		fmt.Fprint(p.w, " ")
		p.printBlock(s.Body)
		fmt.Fprintln(p.w)

	case If:
		fmt.Fprint(p.w, "if ")
		p.printExpr(s.Cond)
		fmt.Fprint(p.w, " ")
		p.printBlock(s.Then)
		if len(s.Else) > 0 {
			fmt.Fprint(p.w, " else ")
			p.printBlock(s.Else)
		}
		fmt.Fprintln(p.w)

	case ExprStmt:
		p.printExpr(s.X)
		fmt.Fprintln(p.w, ";")

	case Break:
		fmt.Fprintln(p.w, "break;")

	case Continue:
		fmt.Fprintln(p.w, "continue;")

	case Return:
		fmt.Fprint(p.w, "return")
		if s.Value != nil {
			fmt.Fprint(p.w, " ")
			p.printExpr(s.Value)
		}
		fmt.Fprintln(p.w, ";")

	default:
		fmt.Fprintf(p.w, "/* unknown stmt %T */\n", stmt)
	}
}

func (p *Printer) printExpr(expr Expr) {
	switch e := expr.(type) {
	case IntLiteral:
		fmt.Fprintf(p.w, "%d", e.Value)

	case StringLiteral:
		fmt.Fprintf(p.w, "%q", e.Value)

	case VarRef:
		fmt.Fprint(p.w, e.Name)

	case ArrayIndex:
		fmt.Fprintf(p.w, "%s[", e.Name)
		p.printExpr(e.Index)
		fmt.Fprint(p.w, "]")

	case Binary:
		p.printExprParen(e.Left)
		fmt.Fprintf(p.w, " %s ", e.Op)
		p.printExprParen(e.Right)

	case Unary:
		fmt.Fprint(p.w, e.Op.String())
		p.printExprParen(e.Arg)

	case Builtin:
		fmt.Fprintf(p.w, "%s(", e.Name)
		p.printExprList(e.Args)
		fmt.Fprint(p.w, ")")

	case ArrayLiteral:
		fmt.Fprint(p.w, "[")
		p.printExprList(e.Elems)
		fmt.Fprint(p.w, "]")

	case ArrayRepeat:
		fmt.Fprint(p.w, "[")
		p.printExpr(e.Value)
		fmt.Fprintf(p.w, "; %d]", e.Count)

	case nil:
		fmt.Fprint(p.w, "<nil>")

	default:
		fmt.Fprintf(p.w, "/* unknown expr %T */", expr)
	}
}

func (p *Printer) printExprList(exprs []Expr) {
	for i, e := range exprs {
		if i > 0 {
			fmt.Fprint(p.w, ", ")
		}
		p.printExpr(e)
	}
}

// printExprParen prints an expression, wrapping in parens if needed
func (p *Printer) printExprParen(expr Expr) {
	if _, ok := expr.(Binary); ok {
		fmt.Fprint(p.w, "(")
		p.printExpr(expr)
		fmt.Fprint(p.w, ")")
		return
	}
	p.printExpr(expr)
}
