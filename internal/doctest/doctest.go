// Package doctest extracts Bloch test cases from Markdown documents and runs
// them through the full pipeline.
//
// A heading of the form "Test: <name>" opens a case. Inside a case, fenced
// code blocks are recognised by language:
//
//	bloch   the program under test (exactly one)
//	output  expected echo output, compared exactly
//	error   expected diagnostic: a code, optionally followed by text the
//	        message must contain
//	qasm    expected QASM trace, compared ignoring trailing newlines
package doctest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FenceType is the language tag of a code fence inside a case.
type FenceType string

const (
	FenceProgram FenceType = "bloch"
	FenceOutput  FenceType = "output"
	FenceError   FenceType = "error"
	FenceQasm    FenceType = "qasm"
)

// Case is one test extracted from Markdown.
type Case struct {
	Name   string
	Line   int // line of the program fence
	Source string

	// Expectations. Has* distinguishes an absent fence from an empty one.
	Output    string
	HasOutput bool
	Error     string
	Qasm      string
	HasQasm   bool
}

// Extract parses markdown and returns its test cases in document order.
func Extract(markdown string) ([]Case, error) {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var (
		cases   []Case
		current *Case
	)
	flush := func() error {
		if current == nil {
			return nil
		}
		if err := validate(current); err != nil {
			return err
		}
		cases = append(cases, *current)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, source)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkContinue, nil
			}
			if err := flush(); err != nil {
				return ast.WalkStop, err
			}
			current = &Case{Name: strings.TrimSpace(strings.TrimPrefix(heading, "Test: "))}

		case *ast.FencedCodeBlock:
			lang := FenceType(n.Language(source))
			line := lineNumber(n, source)
			if current == nil {
				if isKnownFence(lang) {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a test case", line, lang)
				}
				return ast.WalkContinue, nil
			}
			if err := current.add(lang, fenceContent(n, source), line); err != nil {
				return ast.WalkStop, err
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return cases, nil
}

func (c *Case) add(lang FenceType, content string, line int) error {
	switch lang {
	case FenceProgram:
		if c.Source != "" {
			return fmt.Errorf("line %d: test '%s' has more than one program", line, c.Name)
		}
		c.Source = content
		c.Line = line
	case FenceOutput:
		c.Output = content
		c.HasOutput = true
	case FenceError:
		c.Error = strings.TrimSpace(content)
	case FenceQasm:
		c.Qasm = strings.TrimRight(content, "\n")
		c.HasQasm = true
	case "":
		// plain fences are commentary
	default:
		return fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", line, lang, c.Name)
	}
	return nil
}

func validate(c *Case) error {
	if c.Source == "" {
		return fmt.Errorf("test '%s' has no bloch fence", c.Name)
	}
	if !c.HasOutput && c.Error == "" && !c.HasQasm {
		return fmt.Errorf("test '%s' has no expectation fences", c.Name)
	}
	if c.Error != "" && (c.HasOutput || c.HasQasm) {
		return fmt.Errorf("test '%s' expects an error and a successful run", c.Name)
	}
	return nil
}

func isKnownFence(lang FenceType) bool {
	switch lang {
	case FenceProgram, FenceOutput, FenceError, FenceQasm:
		return true
	}
	return false
}

func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

func lineNumber(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	return bytes.Count(source[:min(start, len(source))], []byte("\n")) + 1
}
