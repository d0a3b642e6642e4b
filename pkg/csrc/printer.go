package csrc

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"
)

// Printer outputs the C AST as C99 source text
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a new C printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, indent: 0}
}

// Format renders a translation unit to a string
func Format(unit *TranslationUnit) string {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintUnit(unit)
	return buf.String()
}

// FormatExpr renders an expression to a string
func FormatExpr(e Expr) string {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintExpr(e)
	return buf.String()
}

// FormatStmts renders statements at indent level zero, one C statement per line
func FormatStmts(stmts []Stmt) string {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	for _, s := range stmts {
		p.PrintStmt(s)
	}
	return buf.String()
}

// PrintUnit prints a complete translation unit
func (p *Printer) PrintUnit(unit *TranslationUnit) {
	for _, inc := range unit.Includes {
		fmt.Fprintf(p.w, "#include <%s>\n", inc)
	}
	if len(unit.Includes) > 0 {
		fmt.Fprintln(p.w)
	}

	if unit.Prelude != "" {
		fmt.Fprint(p.w, unit.Prelude)
		if !strings.HasSuffix(unit.Prelude, "\n") {
			fmt.Fprintln(p.w)
		}
		fmt.Fprintln(p.w)
	}

	for i := range unit.Functions {
		if i > 0 {
			fmt.Fprintln(p.w)
		}
		p.PrintFunction(&unit.Functions[i])
	}
}

// PrintFunction prints a function definition
func (p *Printer) PrintFunction(fn *Function) {
	fmt.Fprintf(p.w, "%s %s(", fn.Return, fn.Name)
	if len(fn.Params) == 0 {
		fmt.Fprint(p.w, "void")
	}
	for i, param := range fn.Params {
		if i > 0 {
			fmt.Fprint(p.w, ", ")
		}
		fmt.Fprintf(p.w, "%s %s", param.Type, param.Name)
	}
	fmt.Fprintln(p.w, ") {")
	p.indent++
	p.printStmts(fn.Body)
	p.indent--
	fmt.Fprintln(p.w, "}")
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("    ", p.indent))
}

func (p *Printer) printStmts(stmts []Stmt) {
	for _, s := range stmts {
		p.PrintStmt(s)
	}
}

// PrintStmt prints a statement
func (p *Printer) PrintStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case Sdecl:
		p.writeIndent()
		fmt.Fprintf(p.w, "%s %s", s.Type, s.Name)
		if s.ArrayLen > 0 {
			fmt.Fprintf(p.w, "[%d]", s.ArrayLen)
			if len(s.InitList) > 0 {
				fmt.Fprint(p.w, " = {")
				p.printExprList(s.InitList)
				fmt.Fprint(p.w, "}")
			}
		} else if s.Init != nil {
			fmt.Fprint(p.w, " = ")
			p.PrintExpr(s.Init)
		}
		fmt.Fprintln(p.w, ";")

	case Sassign:
		p.writeIndent()
		p.PrintExpr(s.LHS)
		fmt.Fprint(p.w, " = ")
		p.PrintExpr(s.RHS)
		fmt.Fprintln(p.w, ";")

	case Sdo:
		p.writeIndent()
		p.PrintExpr(s.Expr)
		fmt.Fprintln(p.w, ";")

	case Swhile:
		p.writeIndent()
		fmt.Fprint(p.w, "while (")
		p.PrintExpr(s.Cond)
		fmt.Fprintln(p.w, ") {")
		p.indent++
		p.printStmts(s.Body)
		p.indent--
		p.writeIndent()
		fmt.Fprintln(p.w, "}")

	case Sifthenelse:
		p.writeIndent()
		fmt.Fprint(p.w, "if (")
		p.PrintExpr(s.Cond)
		fmt.Fprintln(p.w, ") {")
		p.indent++
		p.printStmts(s.Then)
		p.indent--
		p.writeIndent()
		if len(s.Else) > 0 {
			fmt.Fprintln(p.w, "} else {")
			p.indent++
			p.printStmts(s.Else)
			p.indent--
			p.writeIndent()
		}
		fmt.Fprintln(p.w, "}")

	case Sbreak:
		p.writeIndent()
		fmt.Fprintln(p.w, "break;")

	case Scontinue:
		p.writeIndent()
		fmt.Fprintln(p.w, "continue;")

	case Sreturn:
		p.writeIndent()
		fmt.Fprint(p.w, "return")
		if s.Value != nil {
			fmt.Fprint(p.w, " ")
			p.PrintExpr(s.Value)
		}
		fmt.Fprintln(p.w, ";")

	default:
		p.writeIndent()
		fmt.Fprintf(p.w, "/* unknown stmt %T */\n", stmt)
	}
}

// PrintExpr prints an expression with the minimal parentheses C needs
func (p *Printer) PrintExpr(expr Expr) {
	p.printExprPrec(expr, precLowest)
}

func (p *Printer) printExprPrec(expr Expr, min int) {
	if exprPrecedence(expr) < min {
		fmt.Fprint(p.w, "(")
		p.printExpr(expr)
		fmt.Fprint(p.w, ")")
		return
	}
	p.printExpr(expr)
}

func (p *Printer) printExpr(expr Expr) {
	switch e := expr.(type) {
	case Econst_int:
		fmt.Fprint(p.w, IntLiteral(e.Value))

	case Estring:
		fmt.Fprint(p.w, Quote(e.Value))

	case Evar:
		fmt.Fprint(p.w, e.Name)

	case Eindex:
		p.printExprPrec(e.Array, precPostfix)
		fmt.Fprint(p.w, "[")
		p.PrintExpr(e.Index)
		fmt.Fprint(p.w, "]")

	case Eunop:
		fmt.Fprint(p.w, e.Op.String())
		// keep "- -x" from printing as the decrement operator
		if startsWithSign(e.Arg) {
			fmt.Fprint(p.w, "(")
			p.printOperand(e.Arg, precLowest)
			fmt.Fprint(p.w, ")")
		} else {
			p.printOperand(e.Arg, precUnary)
		}

	case Ebinop:
		prec := e.Op.precedence()
		p.printOperand(e.Left, prec)
		fmt.Fprintf(p.w, " %s ", e.Op.String())
		p.printOperand(e.Right, prec+1)

	case Ecall:
		fmt.Fprintf(p.w, "%s(", e.Func)
		p.printExprList(e.Args)
		fmt.Fprint(p.w, ")")

	case Ecast:
		fmt.Fprintf(p.w, "(%s)", e.Type)
		p.printExprPrec(e.Arg, precUnary)

	default:
		fmt.Fprintf(p.w, "/* unknown expr %T */", expr)
	}
}

// printOperand prints an operand of a C operator. Constants are written as
// long long so that the operation is evaluated in 64 bits.
func (p *Printer) printOperand(expr Expr, prec int) {
	c, ok := expr.(Econst_int)
	if !ok {
		p.printExprPrec(expr, prec)
		return
	}
	if exprPrecedence(c) < prec {
		fmt.Fprintf(p.w, "(%s)", LongLiteral(c.Value))
		return
	}
	fmt.Fprint(p.w, LongLiteral(c.Value))
}

func (p *Printer) printExprList(exprs []Expr) {
	for i, e := range exprs {
		if i > 0 {
			fmt.Fprint(p.w, ", ")
		}
		p.PrintExpr(e)
	}
}

func exprPrecedence(expr Expr) int {
	switch e := expr.(type) {
	case Ebinop:
		return e.Op.precedence()
	case Eunop, Ecast:
		return precUnary
	case Econst_int:
		if e.Value < 0 && e.Value != math.MinInt64 {
			return precUnary
		}
	}
	return precPostfix
}

func startsWithSign(expr Expr) bool {
	switch e := expr.(type) {
	case Eunop:
		return e.Op == Oneg
	case Econst_int:
		return e.Value < 0 && e.Value != math.MinInt64
	}
	return false
}

// IntLiteral returns the C spelling of a long long constant.
// Values outside the int range carry an LL suffix; the minimum value
// has no literal form and is written as an expression.
func IntLiteral(v int64) string {
	switch {
	case v == math.MinInt64:
		return "(-9223372036854775807LL - 1)"
	case v > math.MaxInt32 || v < math.MinInt32:
		return fmt.Sprintf("%dLL", v)
	}
	return fmt.Sprintf("%d", v)
}

// LongLiteral returns v as a constant of type long long
func LongLiteral(v int64) string {
	if v == math.MinInt64 {
		return IntLiteral(v)
	}
	return fmt.Sprintf("%dLL", v)
}

// Quote returns s as a C string literal
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '?':
			// "??x" would be read as a trigraph
			if i > 0 && s[i-1] == '?' {
				b.WriteString(`\?`)
			} else {
				b.WriteByte(c)
			}
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, "\\%03o", c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
