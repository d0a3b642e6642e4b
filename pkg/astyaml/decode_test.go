package astyaml

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/raymyers/pdcc/pkg/ast"
)

func surface(prog *ast.Program) string {
	var buf bytes.Buffer
	ast.NewPrinter(&buf).PrintProgram(prog)
	return buf.String()
}

func TestDecodeArrayScenario(t *testing.T) {
	src := `
entry: main
body:
  - {let: nums, type: int, size: 5, init: {array: [10, 20, 30, 40, 50]}}
  - {call: print, args: ["array test"]}
  - set: nums
    at: 1
    value: {op: "+", lhs: {index: nums, at: 0}, rhs: {index: nums, at: 2}}
  - {let: sum, type: int, init: 0}
  - {let: i, type: int, init: 0}
  - while: {op: "<", lhs: i, rhs: 5}
    do:
      - {set: sum, value: {op: "+", lhs: sum, rhs: {index: nums, at: i}}}
      - {set: i, value: {op: "+", lhs: i, rhs: 1}}
  - {call: print_int, args: [sum]}
`
	prog, err := Decode([]byte(src))
	be.Err(t, err, nil)
	be.Equal(t, prog.Entry, "main")

	want := `fn main() {
  let mut nums: [int; 5] = [10, 20, 30, 40, 50];
  print("array test");
  nums[1] = nums[0] + nums[2];
  let mut sum: int = 0;
  let mut i: int = 0;
  while i < 5 {
    sum = sum + nums[i];
    i = i + 1;
  }
  print_int(sum);
}
`
	be.Equal(t, surface(prog), want)
}

func TestDecodeStatementList(t *testing.T) {
	src := `
- {let: s, type: string, init: "n="}
- {set: s, value: {op: "+", lhs: s, rhs: 4}}
- if: {op: "&&", lhs: {op: ">", lhs: 2, rhs: 1}, rhs: {op: "!", arg: 0}}
  then:
    - {call: print, args: [s]}
  else:
    - {expr: {call: string_len, args: [s]}}
- {let: zs, type: int, size: 3, init: {repeat: {op: "-", arg: 1}, count: 3}}
- while: 1
  do:
    - break
    - continue
- {return: {int: 0x10}}
- return
`
	prog, err := Decode([]byte(src))
	be.Err(t, err, nil)
	be.Equal(t, prog.Entry, "")

	want := `fn main() {
  let mut s: string = "n=";
  s = s + 4;
  if (2 > 1) && !0 {
    print(s);
  } else {
    string_len(s);
  }
  let mut zs: [int; 3] = [-1; 3];
  while 1 {
    break;
    continue;
  }
  return 16;
  return;
}
`
	be.Equal(t, surface(prog), want)
}

func TestDecodeScalars(t *testing.T) {
	tests := []struct {
		src  string
		want ast.Expr
	}{
		{src: `42`, want: ast.IntLiteral{Pos: ast.Pos{Line: 1, Col: 1}, Value: 42}},
		{src: `-7`, want: ast.IntLiteral{Pos: ast.Pos{Line: 1, Col: 1}, Value: -7}},
		{src: `"42"`, want: ast.StringLiteral{Pos: ast.Pos{Line: 1, Col: 1}, Value: "42"}},
		{src: `'it''s'`, want: ast.StringLiteral{Pos: ast.Pos{Line: 1, Col: 1}, Value: "it's"}},
		{src: `"tab\there"`, want: ast.StringLiteral{Pos: ast.Pos{Line: 1, Col: 1}, Value: "tab\there"}},
		{src: `count`, want: ast.VarRef{Pos: ast.Pos{Line: 1, Col: 1}, Name: "count"}},
		{src: `{var: x}`, want: ast.VarRef{Pos: ast.Pos{Line: 1, Col: 1}, Name: "x"}},
		{src: `{str: hello}`, want: ast.StringLiteral{Pos: ast.Pos{Line: 1, Col: 1}, Value: "hello"}},
		{src: `{int: 9223372036854775807}`, want: ast.IntLiteral{Pos: ast.Pos{Line: 1, Col: 1}, Value: 9223372036854775807}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := DecodeExpr([]byte(tt.src))
			be.Err(t, err, nil)
			be.Equal(t, got, tt.want)
		})
	}
}

func TestDecodePositions(t *testing.T) {
	src := "- {let: x, type: int, init: 1}\n- {call: print_int, args: [x]}\n"
	prog, err := Decode([]byte(src))
	be.Err(t, err, nil)
	be.Equal(t, len(prog.Body), 2)

	be.Equal(t, prog.Body[0].Position(), ast.Pos{Line: 1, Col: 3})
	stmt := prog.Body[1].(ast.ExprStmt)
	be.Equal(t, stmt.Position(), ast.Pos{Line: 2, Col: 3})
	call := stmt.X.(ast.Builtin)
	be.Equal(t, call.Args[0].Position(), ast.Pos{Line: 2, Col: 28})
}

func TestDecodeEmpty(t *testing.T) {
	for _, src := range []string{"", "# nothing\n", "[]", "~", "entry: run\n"} {
		prog, err := Decode([]byte(src))
		be.Err(t, err, nil)
		be.Equal(t, len(prog.Body), 0)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "syntax", src: "- {let: x", want: "malformed AST document"},
		{name: "scalar document", src: "42", want: "document must be"},
		{name: "unknown statement", src: "- {loop: 1}", want: "1:3: malformed AST document: unrecognized statement"},
		{name: "two heads", src: "- {let: x, set: y, type: int}", want: `statement has both "let" and "set"`},
		{name: "missing type", src: "- {let: x}", want: `let is missing "type"`},
		{name: "extra key", src: "- {set: x, value: 1, by: 2}", want: `unexpected key "by"`},
		{name: "bad size", src: "- {let: x, type: int, size: big}", want: "size must be an integer"},
		{name: "unknown op", src: "- {expr: {op: \"**\", lhs: 1, rhs: 2}}", want: `unknown binary operator "**"`},
		{name: "unknown unary", src: "- {expr: {op: \"~\", arg: 1}}", want: `unknown unary operator "~"`},
		{name: "missing rhs", src: "- {expr: {op: \"+\", lhs: 1}}", want: `binary operation is missing "rhs"`},
		{name: "bool scalar", src: "- {expr: true}", want: `unsupported scalar "true"`},
		{name: "quoted int", src: "- {expr: {int: \"12\"}}", want: "int must be an integer"},
		{name: "block not a list", src: "- {while: 1, do: {set: x, value: 1}}", want: "statement block must be a sequence"},
		{name: "args not a list", src: "- {call: print, args: x}", want: "args must be a sequence"},
		{name: "repeat without count", src: "- {let: a, type: int, size: 2, init: {repeat: 0}}", want: `repeat is missing "count"`},
		{name: "body not a list", src: "body: 3", want: "statement block must be a sequence"},
		{name: "stray top-level key", src: "entry: main\nbodyy: []", want: `unexpected key "bodyy"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.src))
			be.True(t, errors.Is(err, ErrMalformed))
			be.True(t, strings.Contains(err.Error(), tt.want))
		})
	}
}
