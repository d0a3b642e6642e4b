// Package astyaml decodes the YAML form of a Palladium AST.
//
// The front end hands programs to the back end as a YAML document that is
// either a sequence of statements or a mapping with an entry name and a body:
//
//	entry: main
//	body:
//	  - {let: nums, type: int, size: 3, init: {array: [1, 2, 3]}}
//	  - {call: print_int, args: [{index: nums, at: 0}]}
//
// Plain integers are integer literals, quoted scalars are string literals and
// plain identifiers are variable references. Every node carries the YAML
// line and column as its source position.
package astyaml

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/raymyers/pdcc/pkg/ast"
)

// ErrMalformed is wrapped by every decoding failure
var ErrMalformed = errors.New("malformed AST document")

// Decode parses a YAML AST document
func Decode(data []byte) (*ast.Program, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	prog := &ast.Program{}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return prog, nil
	}
	root := resolve(doc.Content[0])

	switch {
	case isNull(root):
		return prog, nil
	case root.Kind == yaml.SequenceNode:
		body, err := decodeBlock(root)
		if err != nil {
			return nil, err
		}
		prog.Body = body
		return prog, nil
	case root.Kind == yaml.MappingNode:
		m, err := newMapping(root)
		if err != nil {
			return nil, err
		}
		if n, ok := m.get("entry"); ok {
			if prog.Entry, err = name(n, "entry"); err != nil {
				return nil, err
			}
		}
		if n, ok := m.get("body"); ok {
			if prog.Body, err = decodeBlock(n); err != nil {
				return nil, err
			}
		}
		if err := m.done(); err != nil {
			return nil, err
		}
		return prog, nil
	}
	return nil, malformed(root, "document must be a statement list or a mapping with entry and body")
}

// DecodeExpr parses a single YAML expression
func DecodeExpr(data []byte) (ast.Expr, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty expression", ErrMalformed)
	}
	return decodeExpr(doc.Content[0])
}

func malformed(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%d:%d: %w: %s", n.Line, n.Column, ErrMalformed, fmt.Sprintf(format, args...))
}

func pos(n *yaml.Node) ast.Pos {
	return ast.Pos{Line: n.Line, Col: n.Column}
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func isQuoted(n *yaml.Node) bool {
	const quoted = yaml.DoubleQuotedStyle | yaml.SingleQuotedStyle | yaml.LiteralStyle | yaml.FoldedStyle
	return n.Style&quoted != 0
}

// mapping gives keyed access to a YAML mapping and rejects keys nobody asked for
type mapping struct {
	node   *yaml.Node
	values map[string]*yaml.Node
	keys   map[string]*yaml.Node
	used   map[string]bool
}

func newMapping(n *yaml.Node) (*mapping, error) {
	m := &mapping{
		node:   n,
		values: make(map[string]*yaml.Node),
		keys:   make(map[string]*yaml.Node),
		used:   make(map[string]bool),
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := resolve(n.Content[i]), resolve(n.Content[i+1])
		if k.Kind != yaml.ScalarNode {
			return nil, malformed(k, "mapping keys must be scalars")
		}
		if _, dup := m.values[k.Value]; dup {
			return nil, malformed(k, "duplicate key %q", k.Value)
		}
		m.values[k.Value] = v
		m.keys[k.Value] = k
	}
	return m, nil
}

func (m *mapping) has(key string) bool {
	_, ok := m.values[key]
	return ok
}

func (m *mapping) get(key string) (*yaml.Node, bool) {
	v, ok := m.values[key]
	if ok {
		m.used[key] = true
	}
	return v, ok
}

func (m *mapping) require(key, what string) (*yaml.Node, error) {
	v, ok := m.get(key)
	if !ok {
		return nil, malformed(m.node, "%s is missing %q", what, key)
	}
	return v, nil
}

func (m *mapping) done() error {
	var extra []string
	for k := range m.values {
		if !m.used[k] {
			extra = append(extra, k)
		}
	}
	if len(extra) == 0 {
		return nil
	}
	sort.Strings(extra)
	return malformed(m.keys[extra[0]], "unexpected key %q", extra[0])
}

// head returns the single discriminating key present in m out of candidates
func (m *mapping) head(candidates []string, what string) (string, error) {
	found := ""
	for _, c := range candidates {
		if !m.has(c) {
			continue
		}
		if found != "" {
			return "", malformed(m.node, "%s has both %q and %q", what, found, c)
		}
		found = c
	}
	if found == "" {
		return "", malformed(m.node, "unrecognized %s; expected one of %s", what, strings.Join(candidates, ", "))
	}
	return found, nil
}

func name(n *yaml.Node, what string) (string, error) {
	n = resolve(n)
	if n.Kind != yaml.ScalarNode || isNull(n) || n.Value == "" {
		return "", malformed(n, "%s must be a name", what)
	}
	return n.Value, nil
}

func integer(n *yaml.Node, what string) (int64, error) {
	n = resolve(n)
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!int" {
		return 0, malformed(n, "%s must be an integer", what)
	}
	v, err := strconv.ParseInt(strings.ReplaceAll(n.Value, "_", ""), 0, 64)
	if err != nil {
		return 0, malformed(n, "%s %s is out of range", what, n.Value)
	}
	return v, nil
}

// --- Statements ---

var stmtHeads = []string{"let", "set", "while", "if", "call", "expr", "return"}

func decodeBlock(n *yaml.Node) ([]ast.Stmt, error) {
	n = resolve(n)
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, malformed(n, "statement block must be a sequence")
	}
	stmts := make([]ast.Stmt, 0, len(n.Content))
	for _, item := range n.Content {
		s, err := decodeStmt(item)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func decodeStmt(n *yaml.Node) (ast.Stmt, error) {
	n = resolve(n)
	p := pos(n)

	if n.Kind == yaml.ScalarNode && !isQuoted(n) {
		switch n.Value {
		case "break":
			return ast.Break{Pos: p}, nil
		case "continue":
			return ast.Continue{Pos: p}, nil
		case "return":
			return ast.Return{Pos: p}, nil
		}
	}
	if n.Kind != yaml.MappingNode {
		return nil, malformed(n, "statement must be a mapping, break, continue or return")
	}

	m, err := newMapping(n)
	if err != nil {
		return nil, err
	}
	head, err := m.head(stmtHeads, "statement")
	if err != nil {
		return nil, err
	}

	var s ast.Stmt
	switch head {
	case "let":
		s, err = decodeLet(m, p)
	case "set":
		s, err = decodeSet(m, p)
	case "while":
		s, err = decodeWhile(m, p)
	case "if":
		s, err = decodeIf(m, p)
	case "call":
		var call ast.Expr
		call, err = decodeCall(m, p)
		s = ast.ExprStmt{Pos: p, X: call}
	case "expr":
		s, err = decodeExprStmt(m, p)
	case "return":
		s, err = decodeReturn(m, p)
	}
	if err != nil {
		return nil, err
	}
	if err := m.done(); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeLet(m *mapping, p ast.Pos) (ast.Stmt, error) {
	d := ast.VarDecl{Pos: p}
	n, _ := m.get("let")
	var err error
	if d.Name, err = name(n, "let"); err != nil {
		return nil, err
	}
	typ, err := m.require("type", "let")
	if err != nil {
		return nil, err
	}
	if d.TypeSpec, err = name(typ, "type"); err != nil {
		return nil, err
	}
	if n, ok := m.get("size"); ok {
		size, err := integer(n, "size")
		if err != nil {
			return nil, err
		}
		d.Size = ast.Size(size)
	}
	if n, ok := m.get("init"); ok && !isNull(resolve(n)) {
		if d.Init, err = decodeExpr(n); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func decodeSet(m *mapping, p ast.Pos) (ast.Stmt, error) {
	n, _ := m.get("set")
	target, err := name(n, "set")
	if err != nil {
		return nil, err
	}
	vn, err := m.require("value", "set")
	if err != nil {
		return nil, err
	}
	value, err := decodeExpr(vn)
	if err != nil {
		return nil, err
	}
	at, ok := m.get("at")
	if !ok {
		return ast.ScalarAssign{Pos: p, Name: target, Value: value}, nil
	}
	index, err := decodeExpr(at)
	if err != nil {
		return nil, err
	}
	return ast.ArrayAssign{Pos: p, Name: target, Index: index, Value: value}, nil
}

func decodeWhile(m *mapping, p ast.Pos) (ast.Stmt, error) {
	n, _ := m.get("while")
	cond, err := decodeExpr(n)
	if err != nil {
		return nil, err
	}
	w := ast.While{Pos: p, Cond: cond}
	if body, ok := m.get("do"); ok {
		if w.Body, err = decodeBlock(body); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func decodeIf(m *mapping, p ast.Pos) (ast.Stmt, error) {
	n, _ := m.get("if")
	cond, err := decodeExpr(n)
	if err != nil {
		return nil, err
	}
	s := ast.If{Pos: p, Cond: cond}
	if then, ok := m.get("then"); ok {
		if s.Then, err = decodeBlock(then); err != nil {
			return nil, err
		}
	}
	if els, ok := m.get("else"); ok {
		if s.Else, err = decodeBlock(els); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func decodeExprStmt(m *mapping, p ast.Pos) (ast.Stmt, error) {
	n, _ := m.get("expr")
	x, err := decodeExpr(n)
	if err != nil {
		return nil, err
	}
	return ast.ExprStmt{Pos: p, X: x}, nil
}

func decodeReturn(m *mapping, p ast.Pos) (ast.Stmt, error) {
	n, _ := m.get("return")
	if isNull(resolve(n)) {
		return ast.Return{Pos: p}, nil
	}
	value, err := decodeExpr(n)
	if err != nil {
		return nil, err
	}
	return ast.Return{Pos: p, Value: value}, nil
}

// --- Expressions ---

var exprHeads = []string{"int", "str", "var", "index", "op", "call", "array", "repeat"}

func decodeExpr(n *yaml.Node) (ast.Expr, error) {
	n = resolve(n)
	p := pos(n)

	switch n.Kind {
	case yaml.ScalarNode:
		return decodeScalar(n)
	case yaml.MappingNode:
	default:
		return nil, malformed(n, "expression must be a scalar or a mapping")
	}

	m, err := newMapping(n)
	if err != nil {
		return nil, err
	}
	head, err := m.head(exprHeads, "expression")
	if err != nil {
		return nil, err
	}

	var e ast.Expr
	v, _ := m.get(head)
	switch head {
	case "int":
		var value int64
		value, err = integer(v, "int")
		e = ast.IntLiteral{Pos: p, Value: value}
	case "str":
		v = resolve(v)
		if v.Kind != yaml.ScalarNode || isNull(v) {
			err = malformed(v, "str must be a string")
		}
		e = ast.StringLiteral{Pos: p, Value: v.Value}
	case "var":
		var id string
		id, err = name(v, "var")
		e = ast.VarRef{Pos: p, Name: id}
	case "index":
		e, err = decodeIndex(m, v, p)
	case "op":
		e, err = decodeOp(m, v, p)
	case "call":
		e, err = decodeCall(m, p)
	case "array":
		e, err = decodeArray(v, p)
	case "repeat":
		e, err = decodeRepeat(m, v, p)
	}
	if err != nil {
		return nil, err
	}
	if err := m.done(); err != nil {
		return nil, err
	}
	return e, nil
}

func decodeScalar(n *yaml.Node) (ast.Expr, error) {
	p := pos(n)
	if isQuoted(n) {
		return ast.StringLiteral{Pos: p, Value: n.Value}, nil
	}
	switch n.ShortTag() {
	case "!!int":
		v, err := integer(n, "integer")
		if err != nil {
			return nil, err
		}
		return ast.IntLiteral{Pos: p, Value: v}, nil
	case "!!str":
		return ast.VarRef{Pos: p, Name: n.Value}, nil
	}
	return nil, malformed(n, "unsupported scalar %q; quote strings and use integers for numbers", n.Value)
}

func decodeIndex(m *mapping, v *yaml.Node, p ast.Pos) (ast.Expr, error) {
	array, err := name(v, "index")
	if err != nil {
		return nil, err
	}
	at, err := m.require("at", "index")
	if err != nil {
		return nil, err
	}
	index, err := decodeExpr(at)
	if err != nil {
		return nil, err
	}
	return ast.ArrayIndex{Pos: p, Name: array, Index: index}, nil
}

func decodeOp(m *mapping, v *yaml.Node, p ast.Pos) (ast.Expr, error) {
	v = resolve(v)
	if v.Kind != yaml.ScalarNode {
		return nil, malformed(v, "op must be an operator")
	}

	if arg, ok := m.get("arg"); ok {
		op, ok := ast.ParseUnaryOp(v.Value)
		if !ok {
			return nil, malformed(v, "unknown unary operator %q", v.Value)
		}
		x, err := decodeExpr(arg)
		if err != nil {
			return nil, err
		}
		return ast.Unary{Pos: p, Op: op, Arg: x}, nil
	}

	op, ok := ast.ParseBinaryOp(v.Value)
	if !ok {
		return nil, malformed(v, "unknown binary operator %q", v.Value)
	}
	ln, err := m.require("lhs", "binary operation")
	if err != nil {
		return nil, err
	}
	rn, err := m.require("rhs", "binary operation")
	if err != nil {
		return nil, err
	}
	lhs, err := decodeExpr(ln)
	if err != nil {
		return nil, err
	}
	rhs, err := decodeExpr(rn)
	if err != nil {
		return nil, err
	}
	return ast.Binary{Pos: p, Op: op, Left: lhs, Right: rhs}, nil
}

func decodeCall(m *mapping, p ast.Pos) (ast.Expr, error) {
	n, _ := m.get("call")
	fn, err := name(n, "call")
	if err != nil {
		return nil, err
	}
	call := ast.Builtin{Pos: p, Name: fn}
	if args, ok := m.get("args"); ok {
		if call.Args, err = decodeList(args, "args"); err != nil {
			return nil, err
		}
	}
	return call, nil
}

func decodeArray(v *yaml.Node, p ast.Pos) (ast.Expr, error) {
	elems, err := decodeList(v, "array")
	if err != nil {
		return nil, err
	}
	return ast.ArrayLiteral{Pos: p, Elems: elems}, nil
}

func decodeRepeat(m *mapping, v *yaml.Node, p ast.Pos) (ast.Expr, error) {
	value, err := decodeExpr(v)
	if err != nil {
		return nil, err
	}
	cn, err := m.require("count", "repeat")
	if err != nil {
		return nil, err
	}
	count, err := integer(cn, "count")
	if err != nil {
		return nil, err
	}
	return ast.ArrayRepeat{Pos: p, Value: value, Count: count}, nil
}

func decodeList(n *yaml.Node, what string) ([]ast.Expr, error) {
	n = resolve(n)
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, malformed(n, "%s must be a sequence", what)
	}
	out := make([]ast.Expr, 0, len(n.Content))
	for _, item := range n.Content {
		e, err := decodeExpr(item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
