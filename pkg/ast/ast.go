// Package ast defines the abstract syntax tree handed from the Palladium front end
// to the C back end. The tree is strictly single-owner: no node is shared.
package ast

// Pos is a source position supplied by the front end. The zero value means unknown.
type Pos struct {
	Line int
	Col  int
}

// Position returns the position itself so that embedding Pos gives nodes a Position method.
func (p Pos) Position() Pos { return p }

// IsValid reports whether the position carries a line number
func (p Pos) IsValid() bool { return p.Line > 0 }

// Node is the base interface for all AST nodes
type Node interface {
	Position() Pos
	implPdNode()
}

// Expr is the interface for all expression nodes
type Expr interface {
	Node
	implPdExpr()
}

// Stmt is the interface for all statement nodes
type Stmt interface {
	Node
	implPdStmt()
}

// BinaryOp represents binary operators
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpAnd // &&
	OpOr  // ||
)

var binaryOpNames = []string{"+", "-", "*", "/", "%", "<", "<=", ">", ">=", "==", "!=", "&&", "||"}

func (op BinaryOp) String() string {
	if int(op) >= 0 && int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// ParseBinaryOp returns the operator spelled s
func ParseBinaryOp(s string) (BinaryOp, bool) {
	for i, name := range binaryOpNames {
		if name == s {
			return BinaryOp(i), true
		}
	}
	return 0, false
}

// IsArithmetic reports whether op is one of + - * / %
func (op BinaryOp) IsArithmetic() bool {
	return op <= OpMod
}

// UnaryOp represents unary operators
type UnaryOp int

const (
	OpNeg UnaryOp = iota // -
	OpNot                // !
)

func (op UnaryOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpNot:
		return "!"
	}
	return "?"
}

// ParseUnaryOp returns the operator spelled s
func ParseUnaryOp(s string) (UnaryOp, bool) {
	switch s {
	case "-":
		return OpNeg, true
	case "!":
		return OpNot, true
	}
	return 0, false
}

// --- Expressions ---

// IntLiteral is a 64-bit integer constant
type IntLiteral struct {
	Pos
	Value int64
}

// StringLiteral is a string constant holding the unescaped text
type StringLiteral struct {
	Pos
	Value string
}

// VarRef is a reference to a declared variable
type VarRef struct {
	Pos
	Name string
}

// ArrayIndex is an element read: name[index]
type ArrayIndex struct {
	Pos
	Name  string
	Index Expr
}

// Binary is left op right
type Binary struct {
	Pos
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// Unary is op arg
type Unary struct {
	Pos
	Op  UnaryOp
	Arg Expr
}

// Builtin is a call to one of the runtime builtins
type Builtin struct {
	Pos
	Name string
	Args []Expr
}

// ArrayLiteral is a bracketed element list: [e0, e1, ...].
// It is only valid as the initializer of a sized declaration or as a whole-array assignment.
type ArrayLiteral struct {
	Pos
	Elems []Expr
}

// ArrayRepeat is [value; count]
type ArrayRepeat struct {
	Pos
	Value Expr
	Count int64
}

// --- Statements ---

// VarDecl declares a scalar, or an array when Size is set
type VarDecl struct {
	Pos
	Name     string
	TypeSpec string // element type for arrays
	Size     *int64 // nil for scalars
	Init     Expr   // nil when absent
}

// ScalarAssign is name = value
type ScalarAssign struct {
	Pos
	Name  string
	Value Expr
}

// ArrayAssign is name[index] = value
type ArrayAssign struct {
	Pos
	Name  string
	Index Expr
	Value Expr
}

// While loops while Cond is non-zero
type While struct {
	Pos
	Cond Expr
	Body []Stmt
}

// If is a conditional; Else may be empty
type If struct {
	Pos
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// ExprStmt evaluates an expression for its side effects
type ExprStmt struct {
	Pos
	X Expr
}

// Break leaves the innermost while loop
type Break struct {
	Pos
}

// Continue starts the next iteration of the innermost while loop
type Continue struct {
	Pos
}

// Return leaves the entry function with an integer status
type Return struct {
	Pos
	Value Expr // nil returns 0
}

// Program is an ordered sequence of top-level statements
type Program struct {
	Entry string // name of the generated entry function; empty means main
	Body  []Stmt
}

// Size is a convenience for building sized declarations
func Size(n int64) *int64 {
	return &n
}

// Marker methods for interface implementation
func (IntLiteral) implPdNode() {}
func (IntLiteral) implPdExpr() {}

func (StringLiteral) implPdNode() {}
func (StringLiteral) implPdExpr() {}

func (VarRef) implPdNode() {}
func (VarRef) implPdExpr() {}

func (ArrayIndex) implPdNode() {}
func (ArrayIndex) implPdExpr() {}

func (Binary) implPdNode() {}
func (Binary) implPdExpr() {}

func (Unary) implPdNode() {}
func (Unary) implPdExpr() {}

func (Builtin) implPdNode() {}
func (Builtin) implPdExpr() {}

func (ArrayLiteral) implPdNode() {}
func (ArrayLiteral) implPdExpr() {}

func (ArrayRepeat) implPdNode() {}
func (ArrayRepeat) implPdExpr() {}

func (VarDecl) implPdNode() {}
func (VarDecl) implPdStmt() {}

func (ScalarAssign) implPdNode() {}
func (ScalarAssign) implPdStmt() {}

func (ArrayAssign) implPdNode() {}
func (ArrayAssign) implPdStmt() {}

func (While) implPdNode() {}
func (While) implPdStmt() {}

func (If) implPdNode() {}
func (If) implPdStmt() {}

func (ExprStmt) implPdNode() {}
func (ExprStmt) implPdStmt() {}

func (Break) implPdNode() {}
func (Break) implPdStmt() {}

func (Continue) implPdNode() {}
func (Continue) implPdStmt() {}

func (Return) implPdNode() {}
func (Return) implPdStmt() {}
