package lexer_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/takoeight0821/rjulia/lexer"
	"github.com/takoeight0821/rjulia/token"
	"github.com/takoeight0821/rjulia/utils"
)

func TestGolden(t *testing.T) {
	t.Parallel()

	testfiles, err := utils.FindSourceFiles("testdata")
	if err != nil {
		t.Errorf("failed to find test files: %v", err)
		return
	}

	for _, testfile := range testfiles {
		source, err := os.ReadFile(testfile)
		if err != nil {
			t.Errorf("failed to read %s: %v", testfile, err)
			return
		}

		tokens, err := lexer.Lex(string(source))
		if err != nil {
			t.Errorf("%s returned error: %v", testfile, err)
			return
		}

		var builder strings.Builder
		for _, token := range tokens {
			builder.WriteString(token.String())
			builder.WriteString("\n")
		}

		g := goldie.New(t)
		g.Assert(t, filepath.Base(testfile), []byte(builder.String()))
	}
}

func kinds(tokens []token.Token) []token.Kind {
	ks := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		ks[i] = tok.Kind
	}
	return ks
}

func TestUnexpectedCharacterIsSkipped(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Lex("x <- @1")
	if err == nil {
		t.Fatal("expected an error for `@`")
	}

	var unexpected lexer.UnexpectedCharacterError
	if !errors.As(err, &unexpected) {
		t.Fatalf("unexpected error type %T: %v", err, err)
	}
	if diff := cmp.Diff(lexer.UnexpectedCharacterError{Line: 1, Char: '@'}, unexpected); diff != "" {
		t.Errorf("error mismatch (-want +got):\n%s", diff)
	}

	want := []token.Kind{token.IDENT, token.BACKARROW, token.INTEGER, token.EOF}
	if diff := cmp.Diff(want, kinds(tokens)); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestUnterminatedString(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Lex("s <- \"abc\n")
	var unterminated lexer.UnterminatedStringError
	if !errors.As(err, &unterminated) {
		t.Fatalf("expected UnterminatedStringError, got %v", err)
	}

	want := []token.Kind{token.IDENT, token.BACKARROW, token.EOF}
	if diff := cmp.Diff(want, kinds(tokens)); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestLiterals(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input   string
		kind    token.Kind
		literal any
	}{
		{"42", token.INTEGER, "42"},
		{"7L", token.INTEGER, "7"},
		{"99999999999999999999", token.INTEGER, "99999999999999999999"},
		{"0.5", token.FLOAT, 0.5},
		{"1.5e3", token.FLOAT, 1500.0},
		{"2.0E-2", token.FLOAT, 0.02},
		{"'it\\'s'", token.STRING, "it's"},
		{`"tab\t"`, token.STRING, `tab\t`},
		{"TRUE", token.BOOL, true},
		{"false", token.BOOL, false},
		{"data.frame", token.IDENT, nil},
		{"`my var`", token.IDENT, nil},
		{"function", token.FUNCTION, nil},
	}

	for _, c := range cases {
		tokens, err := lexer.Lex(c.input)
		if err != nil {
			t.Errorf("%s returned error: %v", c.input, err)
			continue
		}
		if len(tokens) != 2 {
			t.Errorf("%s: expected one token and EOF, got %v", c.input, tokens)
			continue
		}
		if tokens[0].Kind != c.kind {
			t.Errorf("%s: expected %v, got %v", c.input, c.kind, tokens[0].Kind)
		}
		if diff := cmp.Diff(c.literal, tokens[0].Literal); diff != "" {
			t.Errorf("%s literal mismatch (-want +got):\n%s", c.input, diff)
		}
		if tokens[0].Lexeme != c.input {
			t.Errorf("%s: lexeme %q", c.input, tokens[0].Lexeme)
		}
	}
}

func TestNewlineRunsCollapse(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Lex("a\n\n\n# comment\nb")
	if err != nil {
		t.Fatal(err)
	}

	want := []token.Token{
		{Kind: token.IDENT, Lexeme: "a", Line: 1, Literal: nil},
		{Kind: token.NEWLINE, Lexeme: "\n\n\n", Line: 1, Literal: nil},
		{Kind: token.NEWLINE, Lexeme: "\n", Line: 4, Literal: nil},
		{Kind: token.IDENT, Lexeme: "b", Line: 5, Literal: nil},
		{Kind: token.EOF, Lexeme: "", Line: 5, Literal: nil},
	}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestScanIsRestartable(t *testing.T) {
	t.Parallel()

	seq := lexer.Scan("x <- c(1, 2)\nprint(x)")

	var first, second []token.Token
	for tok, err := range seq {
		if err != nil {
			t.Fatal(err)
		}
		first = append(first, tok)
	}
	for tok, err := range seq {
		if err != nil {
			t.Fatal(err)
		}
		second = append(second, tok)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second scan differs (-first +second):\n%s", diff)
	}
	if first[len(first)-1].Kind != token.EOF {
		t.Errorf("last token is %v, expected EOF", first[len(first)-1])
	}
}

func TestScanStopsEarly(t *testing.T) {
	t.Parallel()

	var got []token.Token
	for tok := range lexer.Scan("a b c") {
		got = append(got, tok)
		if len(got) == 2 {
			break
		}
	}

	if diff := cmp.Diff([]token.Kind{token.IDENT, token.IDENT}, kinds(got)); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}
