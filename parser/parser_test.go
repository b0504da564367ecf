package parser_test

import (
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/takoeight0821/rjulia/ast"
	"github.com/takoeight0821/rjulia/lexer"
	"github.com/takoeight0821/rjulia/parser"
	"github.com/takoeight0821/rjulia/utils"
)

func parse(t testing.TB, input string) (*ast.Program, error) {
	t.Helper()
	tokens, err := lexer.Lex(input)
	if err != nil {
		t.Fatalf("lex %q: %v", input, err)
	}
	return parser.NewParser(tokens).ParseProgram()
}

func TestParseFromTestData(t *testing.T) {
	t.Parallel()
	s, err := os.ReadFile("../testdata/testcase.yaml")
	if err != nil {
		panic(err)
	}
	testcases := utils.ReadTestData(s)
	for _, testcase := range testcases {
		expected, ok := testcase.Expected["parser"]
		if !ok {
			continue
		}
		t.Run(testcase.Label, func(t *testing.T) {
			t.Parallel()
			program, err := parse(t, testcase.Input)
			if err != nil {
				t.Fatalf("%s returned error: %v", testcase.Input, err)
			}
			if diff := cmp.Diff(expected, program.String()); diff != "" {
				t.Errorf("%s mismatch (-want +got):\n%s", testcase.Input, diff)
			}
		})
	}
}

func TestBlocksAreNotShared(t *testing.T) {
	t.Parallel()
	program, err := parse(t, `
if (a) { x <- 1 } else if (b) y <- 2 else { z <- 3 }
while (i < 3) i <- i + 1
for (k in 1:3) { f <- function(n) { return(n) } }
`)
	if err != nil {
		t.Fatal(err)
	}

	seen := map[*ast.Block]bool{}
	for _, node := range ast.Universe(program) {
		if b, ok := node.(*ast.Block); ok {
			if seen[b] {
				t.Errorf("block %v appears twice in the tree", b)
			}
			seen[b] = true
		}
	}
	if len(seen) != 7 {
		t.Errorf("expected 7 blocks, got %d", len(seen))
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		label string
		input string
		want  string
		check func(error) bool
	}{
		{
			label: "chained comparison",
			input: "a < b < c",
			want:  "at 1: `<`, comparison operators are non-associative: unexpected `<`",
			check: func(err error) bool {
				var nonAssoc parser.NonAssociativeError
				return errors.As(err, &nonAssoc)
			},
		},
		{
			label: "input ends mid-expression",
			input: "x <- ",
			want:  "at end: unexpected token: expected expression",
			check: func(err error) bool {
				var unexpected parser.UnexpectedTokenError
				return errors.As(err, &unexpected)
			},
		},
		{
			label: "unclosed block",
			input: "if (x) {\n  y <- 1\n",
			want:  "at end: unexpected token: expected RIGHTBRACE",
			check: func(err error) bool {
				var unexpected parser.UnexpectedTokenError
				return errors.As(err, &unexpected)
			},
		},
		{
			label: "missing paren",
			input: "while x > 1) x <- 0",
			want:  "at 1: `x`, unexpected token: expected LEFTPAREN",
			check: func(err error) bool {
				var at utils.ErrorAt
				return errors.As(err, &at) && at.Where.Lexeme == "x"
			},
		},
		{
			label: "invalid assignment target",
			input: "f(x) <- 1",
			want:  "at 1: `<-`, invalid assignment target (call f (var x))",
			check: func(err error) bool {
				var invalid parser.InvalidAssignmentError
				return errors.As(err, &invalid)
			},
		},
		{
			label: "stray closing brace",
			input: "x <- 1\n}",
			want:  "at 2: `}`, unexpected token: expected expression",
			check: func(err error) bool {
				var unexpected parser.UnexpectedTokenError
				return errors.As(err, &unexpected)
			},
		},
	}

	for _, c := range cases {
		t.Run(c.label, func(t *testing.T) {
			t.Parallel()
			program, err := parse(t, c.input)
			if err == nil {
				t.Fatalf("%q parsed as %v, expected an error", c.input, program)
			}
			if program != nil {
				t.Errorf("%q returned a partial tree %v", c.input, program)
			}
			if diff := cmp.Diff(c.want, err.Error()); diff != "" {
				t.Errorf("%q error mismatch (-want +got):\n%s", c.input, diff)
			}
			if !c.check(err) {
				t.Errorf("%q returned unexpected error type %T", c.input, err)
			}
		})
	}
}

func TestParseProgramIsRepeatable(t *testing.T) {
	t.Parallel()
	tokens, err := lexer.Lex("x <- c(1, 2)\nprint(x)")
	if err != nil {
		t.Fatal(err)
	}
	p := parser.NewParser(tokens)
	first, err := p.ParseProgram()
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.ParseProgram()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first.String(), second.String()); diff != "" {
		t.Errorf("second parse differs (-first +second):\n%s", diff)
	}
}

func BenchmarkFromTestData(b *testing.B) {
	s, err := os.ReadFile("../testdata/testcase.yaml")
	if err != nil {
		panic(err)
	}
	testcases := utils.ReadTestData(s)

	for _, testcase := range testcases {
		b.Run(testcase.Label, func(b *testing.B) {
			for range b.N {
				if _, err := parse(b, testcase.Input); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
