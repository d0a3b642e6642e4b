// Package mdcase extracts compiler test cases from Markdown documents.
//
// A case starts at a heading of the form "Test: name". It holds exactly one
// pd fence with the program in its YAML form, followed by one or more
// assertion fences:
//
//	c              lines that must appear in the generated C, in order
//	c-not          lines that must not appear in the generated C
//	compile-error  text the translation error must contain
//	stdout         exact output of the compiled program
package mdcase

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputFence is the language tag of the program fence
const InputFence = "pd"

// Kind is the language tag of an assertion fence
type Kind string

const (
	KindC            Kind = "c"
	KindCNot         Kind = "c-not"
	KindCompileError Kind = "compile-error"
	KindStdout       Kind = "stdout"
)

func (k Kind) valid() bool {
	switch k {
	case KindC, KindCNot, KindCompileError, KindStdout:
		return true
	}
	return false
}

// Assertion is one expectation attached to a case
type Assertion struct {
	Kind    Kind
	Content string // fence body with trailing newlines removed
	Line    int
}

// Lines returns the non-blank lines of the assertion, trimmed
func (a Assertion) Lines() []string {
	var out []string
	for _, line := range strings.Split(a.Content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Case is a single named test from a Markdown document
type Case struct {
	Name       string
	Input      string
	Line       int // line of the input fence
	Assertions []Assertion
}

// Has reports whether the case carries an assertion of the given kind
func (c *Case) Has(kind Kind) bool {
	for _, a := range c.Assertions {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// Extract parses a Markdown document and returns its cases in document order
func Extract(source []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []Case
	var cur *Case
	finish := func() error {
		if cur == nil {
			return nil
		}
		if err := cur.validate(); err != nil {
			return err
		}
		cases = append(cases, *cur)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, source)
			name, ok := strings.CutPrefix(heading, "Test: ")
			if !ok {
				return ast.WalkContinue, nil
			}
			if err := finish(); err != nil {
				return ast.WalkStop, err
			}
			cur = &Case{Name: strings.TrimSpace(name)}

		case *ast.FencedCodeBlock:
			lang := string(n.Language(source))
			line := lineOf(n, source)
			if lang == "" {
				return ast.WalkContinue, nil
			}
			if lang != InputFence && !Kind(lang).valid() {
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language %q", line, lang)
			}
			if cur == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a test case", line, lang)
			}

			body := strings.TrimRight(fenceBody(n, source), "\n")
			if lang == InputFence {
				if cur.Input != "" {
					return ast.WalkStop, fmt.Errorf("line %d: test %q has more than one %s fence", line, cur.Name, InputFence)
				}
				cur.Input = body
				cur.Line = line
				return ast.WalkContinue, nil
			}
			cur.Assertions = append(cur.Assertions, Assertion{Kind: Kind(lang), Content: body, Line: line})
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return cases, nil
}

func (c *Case) validate() error {
	if c.Input == "" {
		return fmt.Errorf("test %q has no %s fence", c.Name, InputFence)
	}
	if len(c.Assertions) == 0 {
		return fmt.Errorf("test %q has no assertion fences", c.Name)
	}
	if c.Has(KindCompileError) && (c.Has(KindC) || c.Has(KindStdout)) {
		return fmt.Errorf("test %q expects both a compile error and output", c.Name)
	}
	return nil
}

func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceBody(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// lineOf returns the 1-based line of the first body line of a node
func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	return bytes.Count(source[:min(start, len(source))], []byte("\n")) + 1
}
