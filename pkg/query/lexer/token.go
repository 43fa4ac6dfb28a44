package lexer

import "fmt"

type TokenKind int

const (
	EOF TokenKind = iota
	Number
	String
	Identifier

	// Grouping & Braces.
	OpenParen
	CloseParen

	// Equivalence.
	Equals
	NotEquals

	// Conditional.
	Less
	LessEquals
	Greater
	GreaterEquals

	// Symbols.
	Dot
	Comma

	// Reserved Keywords.
	In //nolint:varnamelen
	Not
	Like
	ILike
	And
)

//nolint:gochecknoglobals
var reserved = map[string]TokenKind{
	"AND":   And,
	"NOT":   Not,
	"IN":    In,
	"LIKE":  Like,
	"ILIKE": ILike,
}

//nolint:gochecknoglobals
var kindNames = map[TokenKind]string{
	EOF:           "eof",
	Number:        "number",
	String:        "string",
	Identifier:    "identifier",
	OpenParen:     "open_paren",
	CloseParen:    "close_paren",
	Equals:        "equals",
	NotEquals:     "not_equals",
	Less:          "less",
	LessEquals:    "less_equals",
	Greater:       "greater",
	GreaterEquals: "greater_equals",
	Dot:           "dot",
	Comma:         "comma",
	In:            "in",
	Not:           "not",
	Like:          "like",
	ILike:         "ilike",
	And:           "and",
}

func (kind TokenKind) String() string {
	if name, ok := kindNames[kind]; ok {
		return name
	}

	return fmt.Sprintf("unknown(%d)", int(kind))
}

type Token struct {
	Kind  TokenKind
	Value string
}

func (token Token) Debug() string {
	switch token.Kind {
	case Identifier, Number, String:
		return fmt.Sprintf("%s(%s)", token.Kind, token.Value)
	default:
		return token.Kind.String()
	}
}
