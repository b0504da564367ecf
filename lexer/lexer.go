package lexer

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/takoeight0821/rjulia/token"
)

// Lex scans the whole source and returns every token followed by an EOF token.
// Lexical errors do not stop scanning: the offending character is skipped and
// the errors are joined into the returned error.
func Lex(source string) ([]token.Token, error) {
	tokens := []token.Token{}

	var errs []error

	for tok, err := range Scan(source) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		tokens = append(tokens, tok)
	}

	return tokens, errors.Join(errs...)
}

// Scan returns a lazy token sequence over source. Each iteration starts from
// the beginning of source, so the sequence can be ranged over more than once.
// A lexical error is yielded with a zero token; the last token is always EOF.
func Scan(source string) iter.Seq2[token.Token, error] {
	return func(yield func(token.Token, error) bool) {
		l := lexer{source: source, start: 0, current: 0, line: 1}

		for !l.isAtEnd() {
			tok, ok, err := l.scanToken()
			if err != nil {
				if !yield(token.Token{}, err) {
					return
				}
				continue
			}
			if ok && !yield(tok, nil) {
				return
			}
		}

		yield(token.Token{Kind: token.EOF, Lexeme: "", Line: l.line, Literal: nil}, nil)
	}
}

type lexer struct {
	source string

	start   int // start of current lexeme
	current int // current position in source
	line    int // current line number
}

func (l lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l lexer) peek() rune {
	if l.isAtEnd() {
		return '\x00'
	}
	runeValue, _ := utf8.DecodeRuneInString(l.source[l.current:])

	return runeValue
}

func (l lexer) peekNext() rune {
	if l.isAtEnd() {
		return '\x00'
	}
	_, width := utf8.DecodeRuneInString(l.source[l.current:])
	if l.current+width >= len(l.source) {
		return '\x00'
	}
	runeValue, _ := utf8.DecodeRuneInString(l.source[l.current+width:])

	return runeValue
}

func (l *lexer) advance() rune {
	runeValue, width := utf8.DecodeRuneInString(l.source[l.current:])
	l.current += width

	return runeValue
}

func (l *lexer) match(expected rune) bool {
	if l.peek() != expected || l.isAtEnd() {
		return false
	}
	l.advance()

	return true
}

func (l *lexer) token(kind token.Kind, literal any) token.Token {
	text := l.source[l.start:l.current]
	return token.Token{Kind: kind, Lexeme: text, Line: l.line, Literal: literal}
}

type UnexpectedCharacterError struct {
	Line int
	Char rune
}

func (e UnexpectedCharacterError) Error() string {
	return fmt.Sprintf("unexpected character: %c at line %d", e.Char, e.Line)
}

type UnterminatedStringError struct {
	Line int
}

func (e UnterminatedStringError) Error() string {
	return fmt.Sprintf("unterminated string at line %d", e.Line)
}

// scanToken reads one lexeme. The boolean result is false when the lexeme
// produces no token (whitespace and comments).
func (l *lexer) scanToken() (token.Token, bool, error) {
	l.start = l.current
	char := l.advance()
	switch char {
	case ' ', '\r', '\t':
		return token.Token{}, false, nil
	case '\n':
		return l.newlines(), true, nil
	case '#':
		for l.peek() != '\n' && !l.isAtEnd() {
			l.advance()
		}
		return token.Token{}, false, nil
	case '"', '\'':
		return l.string(char)
	case '`':
		return l.quotedIdentifier()
	case '<':
		switch {
		case l.match('-'):
			return l.token(token.BACKARROW, nil), true, nil
		case l.match('='):
			return l.token(token.LESSEQUAL, nil), true, nil
		}
		return l.token(token.LESS, nil), true, nil
	case '>':
		if l.match('=') {
			return l.token(token.GREATEREQUAL, nil), true, nil
		}
		return l.token(token.GREATER, nil), true, nil
	case '=':
		if l.match('=') {
			return l.token(token.EQUALEQUAL, nil), true, nil
		}
		return l.token(token.EQUAL, nil), true, nil
	case '!':
		if l.match('=') {
			return l.token(token.BANGEQUAL, nil), true, nil
		}
		return l.token(token.BANG, nil), true, nil
	case '&':
		// `&` and `&&` share a kind; the lexeme keeps the spelling.
		l.match('&')
		return l.token(token.AND, nil), true, nil
	case '|':
		l.match('|')
		return l.token(token.OR, nil), true, nil
	default:
		if k, ok := singleCharKinds[char]; ok {
			return l.token(k, nil), true, nil
		}
		if isDigit(char) {
			return l.number()
		}
		if isAlpha(char) {
			return l.identifier(), true, nil
		}
	}

	return token.Token{}, false, UnexpectedCharacterError{Line: l.line, Char: char}
}

var singleCharKinds = map[rune]token.Kind{
	'(': token.LEFTPAREN,
	')': token.RIGHTPAREN,
	'{': token.LEFTBRACE,
	'}': token.RIGHTBRACE,
	'[': token.LEFTBRACKET,
	']': token.RIGHTBRACKET,
	',': token.COMMA,
	';': token.SEMICOLON,
	':': token.COLON,
	'$': token.DOLLAR,
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.STAR,
	'/': token.SLASH,
	'^': token.CARET,
}

// newlines folds a run of consecutive line breaks into one NEWLINE token.
func (l *lexer) newlines() token.Token {
	for l.peek() == '\n' {
		l.advance()
	}
	tok := l.token(token.NEWLINE, nil)
	l.line += l.current - l.start

	return tok
}

func (l *lexer) string(quote rune) (token.Token, bool, error) {
	var value strings.Builder
	for l.peek() != quote && !l.isAtEnd() {
		c := l.advance()
		if c == '\n' {
			l.line++
		}
		if c == '\\' {
			if l.isAtEnd() {
				break
			}
			next := l.advance()
			if next != quote {
				value.WriteRune(c)
			}
			c = next
		}
		value.WriteRune(c)
	}

	if l.isAtEnd() {
		return token.Token{}, false, UnterminatedStringError{Line: l.line}
	}

	l.advance()

	return l.token(token.STRING, value.String()), true, nil
}

// quotedIdentifier scans `...`. The backticks stay in the lexeme so that the
// parser can tell a quoted name from a plain one.
func (l *lexer) quotedIdentifier() (token.Token, bool, error) {
	end := strings.IndexAny(l.source[l.current:], "`\n")
	if end <= 0 || l.source[l.current+end] != '`' {
		return token.Token{}, false, UnexpectedCharacterError{Line: l.line, Char: '`'}
	}
	l.current += end + 1

	return l.token(token.IDENT, nil), true, nil
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

// number scans an integer or a floating point literal. A float needs a
// fractional part; an integer may carry the legacy `L` suffix. The literal of
// an integer is its digit text, so that no value is out of range.
func (l *lexer) number() (token.Token, bool, error) {
	for isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
		l.exponent()

		text := l.source[l.start:l.current]
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token.Token{}, false, fmt.Errorf("invalid float at line %d: %w", l.line, err)
		}

		return l.token(token.FLOAT, value), true, nil
	}

	digits := l.source[l.start:l.current]
	l.match('L')

	return l.token(token.INTEGER, digits), true, nil
}

func (l *lexer) exponent() {
	if l.peek() != 'e' && l.peek() != 'E' {
		return
	}
	rest := l.source[l.current+1:]
	if len(rest) > 0 && (rest[0] == '+' || rest[0] == '-') {
		rest = rest[1:]
	}
	if len(rest) == 0 || !isDigit(rune(rest[0])) {
		return
	}
	l.advance()
	if l.peek() == '+' || l.peek() == '-' {
		l.advance()
	}
	for isDigit(l.peek()) {
		l.advance()
	}
}

func (l *lexer) identifier() token.Token {
	for isAlpha(l.peek()) || isDigit(l.peek()) || l.peek() == '.' {
		l.advance()
	}

	value := l.source[l.start:l.current]

	switch strings.ToUpper(value) {
	case "TRUE":
		return l.token(token.BOOL, true)
	case "FALSE":
		return l.token(token.BOOL, false)
	}

	if k, ok := keywords[value]; ok {
		return l.token(k, nil)
	}

	return l.token(token.IDENT, nil)
}

var keywords = map[string]token.Kind{
	"if":       token.IF,
	"else":     token.ELSE,
	"for":      token.FOR,
	"in":       token.IN,
	"while":    token.WHILE,
	"function": token.FUNCTION,
	"return":   token.RETURN,
}
