// Package csrc defines the subset of C that the back end emits.
// Expressions are side-effect free except for calls; every statement maps to one C statement.
package csrc

// Node is the base interface for all C AST nodes
type Node interface {
	implCNode()
}

// Expr is the interface for C expressions
type Expr interface {
	Node
	implCExpr()
}

// Stmt is the interface for C statements
type Stmt interface {
	Node
	implCStmt()
}

// UnaryOp represents unary operators in C
type UnaryOp int

const (
	Oneg     UnaryOp = iota // integer negation (-)
	Onotbool                // boolean negation (!)
)

func (op UnaryOp) String() string {
	names := []string{"-", "!"}
	if int(op) >= 0 && int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// BinaryOp represents binary operators in C
type BinaryOp int

const (
	// Arithmetic
	Oadd BinaryOp = iota // addition
	Osub                 // subtraction
	Omul                 // multiplication
	Odiv                 // division
	Omod                 // modulo

	// Comparison
	Oeq // equal
	One // not equal
	Olt // less than
	Ogt // greater than
	Ole // less or equal
	Oge // greater or equal

	// Logical
	Oand // &&
	Oor  // ||
)

func (op BinaryOp) String() string {
	names := []string{"+", "-", "*", "/", "%", "==", "!=", "<", ">", "<=", ">=", "&&", "||"}
	if int(op) >= 0 && int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// Operator precedence levels, higher binds tighter
const (
	precLowest = iota
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

func (op BinaryOp) precedence() int {
	switch op {
	case Oadd, Osub:
		return precAdditive
	case Omul, Odiv, Omod:
		return precMultiplicative
	case Oeq, One:
		return precEquality
	case Olt, Ogt, Ole, Oge:
		return precRelational
	case Oand:
		return precAnd
	case Oor:
		return precOr
	}
	return precLowest
}

// --- Expressions ---

// Econst_int represents a long long constant
type Econst_int struct {
	Value int64
}

// Estring represents a string literal; Value holds the unescaped bytes
type Estring struct {
	Value string
}

// Evar represents a reference to a variable
type Evar struct {
	Name string
}

// Eindex represents array subscript: Array[Index]
type Eindex struct {
	Array Expr
	Index Expr
}

// Eunop represents a unary operation
type Eunop struct {
	Op  UnaryOp
	Arg Expr
}

// Ebinop represents a binary operation
type Ebinop struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// Ecall represents a call to a named function
type Ecall struct {
	Func string
	Args []Expr
}

// Ecast represents a cast: (Type)Arg
type Ecast struct {
	Type string
	Arg  Expr
}

// --- Statements ---

// Sdecl declares a local variable. ArrayLen > 0 declares an array.
// Init initializes a scalar; InitList is the brace initializer of an array.
type Sdecl struct {
	Type     string
	Name     string
	ArrayLen int64
	Init     Expr
	InitList []Expr
}

// Sassign represents assignment: LHS = RHS
type Sassign struct {
	LHS Expr
	RHS Expr
}

// Sdo evaluates an expression for its side effects
type Sdo struct {
	Expr Expr
}

// Swhile represents while (Cond) { Body }
type Swhile struct {
	Cond Expr
	Body []Stmt
}

// Sifthenelse represents if (Cond) { Then } else { Else }; an empty Else is omitted
type Sifthenelse struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// Sbreak represents break
type Sbreak struct{}

// Scontinue represents continue
type Scontinue struct{}

// Sreturn represents return; Value may be nil
type Sreturn struct {
	Value Expr
}

// --- Top level ---

// Param is a function parameter
type Param struct {
	Type string
	Name string
}

// Function is a C function definition. No params prints as (void).
type Function struct {
	Return string
	Name   string
	Params []Param
	Body   []Stmt
}

// TranslationUnit is a complete C source file
type TranslationUnit struct {
	Includes  []string // header names without brackets
	Prelude   string   // verbatim C emitted before the functions
	Functions []Function
}

// Marker methods for interface implementation
func (Econst_int) implCNode() {}
func (Econst_int) implCExpr() {}

func (Estring) implCNode() {}
func (Estring) implCExpr() {}

func (Evar) implCNode() {}
func (Evar) implCExpr() {}

func (Eindex) implCNode() {}
func (Eindex) implCExpr() {}

func (Eunop) implCNode() {}
func (Eunop) implCExpr() {}

func (Ebinop) implCNode() {}
func (Ebinop) implCExpr() {}

func (Ecall) implCNode() {}
func (Ecall) implCExpr() {}

func (Ecast) implCNode() {}
func (Ecast) implCExpr() {}

func (Sdecl) implCNode() {}
func (Sdecl) implCStmt() {}

func (Sassign) implCNode() {}
func (Sassign) implCStmt() {}

func (Sdo) implCNode() {}
func (Sdo) implCStmt() {}

func (Swhile) implCNode() {}
func (Swhile) implCStmt() {}

func (Sifthenelse) implCNode() {}
func (Sifthenelse) implCStmt() {}

func (Sbreak) implCNode() {}
func (Sbreak) implCStmt() {}

func (Scontinue) implCNode() {}
func (Scontinue) implCStmt() {}

func (Sreturn) implCNode() {}
func (Sreturn) implCStmt() {}
