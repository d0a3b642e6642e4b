package mdcase

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

const fence = "```"

func doc(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}

func TestExtractBasic(t *testing.T) {
	src := doc(
		"# Printing",
		"",
		"Some prose that is ignored.",
		"",
		"## Test: print a string",
		fence+"pd",
		"- {call: print, args: [\"hi\"]}",
		fence,
		fence+"c",
		"__pd_print(\"hi\");",
		fence,
		fence+"stdout",
		"hi",
		fence,
		"",
		"## Test: undeclared",
		fence+"pd",
		"- {set: x, value: 1}",
		fence,
		fence+"compile-error",
		"undeclared identifier: x",
		fence,
	)

	cases, err := Extract(src)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	first := cases[0]
	be.Equal(t, first.Name, "print a string")
	be.Equal(t, first.Input, `- {call: print, args: ["hi"]}`)
	be.Equal(t, first.Line, 7)
	be.Equal(t, len(first.Assertions), 2)
	be.Equal(t, first.Assertions[0].Kind, KindC)
	be.Equal(t, first.Assertions[0].Content, `__pd_print("hi");`)
	be.Equal(t, first.Assertions[1].Kind, KindStdout)
	be.Equal(t, first.Assertions[1].Content, "hi")
	be.True(t, first.Has(KindStdout))
	be.True(t, !first.Has(KindCompileError))

	second := cases[1]
	be.Equal(t, second.Name, "undeclared")
	be.Equal(t, second.Assertions[0].Kind, KindCompileError)
	be.Equal(t, second.Assertions[0].Content, "undeclared identifier: x")
}

func TestExtractMultilineInput(t *testing.T) {
	src := doc(
		"### Test: loop",
		fence+"pd",
		"- {let: i, type: int, init: 0}",
		"- while: {op: \"<\", lhs: i, rhs: 3}",
		"  do:",
		"    - {set: i, value: {op: \"+\", lhs: i, rhs: 1}}",
		fence,
		fence+"c-not",
		"goto",
		"",
		"    for (",
		fence,
	)

	cases, err := Extract(src)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 1)
	be.True(t, strings.Contains(cases[0].Input, "\n  do:\n"))
	be.Equal(t, cases[0].Assertions[0].Lines(), []string{"goto", "for ("})
}

func TestExtractUntaggedFencesAreIgnored(t *testing.T) {
	src := doc(
		fence,
		"plain block before any test",
		fence,
		"## Test: only",
		fence+"pd",
		"[]",
		fence,
		fence,
		"another plain block",
		fence,
		fence+"c",
		"return 0;",
		fence,
	)

	cases, err := Extract(src)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 1)
	be.Equal(t, len(cases[0].Assertions), 1)
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
		want string
	}{
		{
			name: "fence outside test",
			src:  doc(fence+"pd", "[]", fence),
			want: "pd fence outside of a test case",
		},
		{
			name: "unknown language",
			src:  doc("## Test: x", fence+"pd", "[]", fence, fence+"asm", "ret", fence),
			want: `unknown fence language "asm"`,
		},
		{
			name: "two inputs",
			src:  doc("## Test: x", fence+"pd", "[]", fence, fence+"pd", "[]", fence),
			want: `test "x" has more than one pd fence`,
		},
		{
			name: "no input",
			src:  doc("## Test: x", fence+"c", "return 0;", fence),
			want: `test "x" has no pd fence`,
		},
		{
			name: "no assertions",
			src:  doc("## Test: x", fence+"pd", "[]", fence, "## Test: y", fence+"pd", "[]", fence, fence+"c", "x", fence),
			want: `test "x" has no assertion fences`,
		},
		{
			name: "error and output",
			src:  doc("## Test: x", fence+"pd", "[]", fence, fence+"compile-error", "boom", fence, fence+"stdout", "1", fence),
			want: `test "x" expects both a compile error and output`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.src)
			be.True(t, err != nil)
			be.True(t, strings.Contains(err.Error(), tt.want))
		})
	}
}
