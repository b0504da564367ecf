package token

import "fmt"

type Kind int

const (
	EOF Kind = iota

	// Separators.
	NEWLINE
	SEMICOLON
	COMMA

	// Brackets.
	LEFTPAREN
	RIGHTPAREN
	LEFTBRACE
	RIGHTBRACE
	LEFTBRACKET
	RIGHTBRACKET

	// Operators.
	PLUS
	MINUS
	STAR
	SLASH
	CARET
	EQUALEQUAL
	BANGEQUAL
	LESS
	LESSEQUAL
	GREATER
	GREATEREQUAL
	AND
	OR
	BANG
	COLON
	DOLLAR
	BACKARROW
	EQUAL

	// Literals and identifiers.
	IDENT
	INTEGER
	FLOAT
	STRING
	BOOL

	// Keywords.
	IF
	ELSE
	FOR
	IN
	WHILE
	FUNCTION
	RETURN
)

var kindNames = [...]string{
	EOF:          "EOF",
	NEWLINE:      "NEWLINE",
	SEMICOLON:    "SEMICOLON",
	COMMA:        "COMMA",
	LEFTPAREN:    "LEFTPAREN",
	RIGHTPAREN:   "RIGHTPAREN",
	LEFTBRACE:    "LEFTBRACE",
	RIGHTBRACE:   "RIGHTBRACE",
	LEFTBRACKET:  "LEFTBRACKET",
	RIGHTBRACKET: "RIGHTBRACKET",
	PLUS:         "PLUS",
	MINUS:        "MINUS",
	STAR:         "STAR",
	SLASH:        "SLASH",
	CARET:        "CARET",
	EQUALEQUAL:   "EQUALEQUAL",
	BANGEQUAL:    "BANGEQUAL",
	LESS:         "LESS",
	LESSEQUAL:    "LESSEQUAL",
	GREATER:      "GREATER",
	GREATEREQUAL: "GREATEREQUAL",
	AND:          "AND",
	OR:           "OR",
	BANG:         "BANG",
	COLON:        "COLON",
	DOLLAR:       "DOLLAR",
	BACKARROW:    "BACKARROW",
	EQUAL:        "EQUAL",
	IDENT:        "IDENT",
	INTEGER:      "INTEGER",
	FLOAT:        "FLOAT",
	STRING:       "STRING",
	BOOL:         "BOOL",
	IF:           "IF",
	ELSE:         "ELSE",
	FOR:          "FOR",
	IN:           "IN",
	WHILE:        "WHILE",
	FUNCTION:     "FUNCTION",
	RETURN:       "RETURN",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

type Token struct {
	Kind    Kind
	Lexeme  string
	Line    int
	Literal any
}

func (t Token) String() string {
	return fmt.Sprintf("{%v, %q, %d, %v}", t.Kind, t.Lexeme, t.Line, t.Literal)
}

// IsComparison reports whether k is one of the non-associative comparison operators.
func (k Kind) IsComparison() bool {
	switch k {
	case EQUALEQUAL, BANGEQUAL, LESS, LESSEQUAL, GREATER, GREATEREQUAL:
		return true
	default:
		return false
	}
}

// IsSeparator reports whether k terminates a statement.
func (k Kind) IsSeparator() bool {
	return k == NEWLINE || k == SEMICOLON
}
