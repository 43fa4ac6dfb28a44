package lexer

import (
	"fmt"
	"regexp"
	"strings"
)

type Error struct {
	message string
}

func NewLexerError(format string, a ...any) *Error {
	return &Error{message: fmt.Sprintf(format, a...)}
}

func (e *Error) Error() string {
	return e.message
}

type regexHandler func(lex *lexer, match string)

type regexPattern struct {
	regex   *regexp.Regexp
	handler regexHandler
}

type lexer struct {
	source string
	pos    int
	tokens []Token
}

// Patterns are anchored and tried in order, so "<=" must precede "<".
//
//nolint:gochecknoglobals
var patterns = []regexPattern{
	{regexp.MustCompile(`^\s+`), skipHandler},
	{regexp.MustCompile(`^"[^"]*"`), stringHandler},
	{regexp.MustCompile(`^'[^']*'`), stringHandler},
	{regexp.MustCompile("^`[^`]*`"), stringHandler},
	{regexp.MustCompile(`^[0-9]+(\.[0-9]+)?`), numberHandler},
	{regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*`), symbolHandler},
	{regexp.MustCompile(`^\(`), defaultHandler(OpenParen)},
	{regexp.MustCompile(`^\)`), defaultHandler(CloseParen)},
	{regexp.MustCompile(`^!=`), defaultHandler(NotEquals)},
	{regexp.MustCompile(`^=`), defaultHandler(Equals)},
	{regexp.MustCompile(`^<=`), defaultHandler(LessEquals)},
	{regexp.MustCompile(`^<`), defaultHandler(Less)},
	{regexp.MustCompile(`^>=`), defaultHandler(GreaterEquals)},
	{regexp.MustCompile(`^>`), defaultHandler(Greater)},
	{regexp.MustCompile(`^\.`), defaultHandler(Dot)},
	{regexp.MustCompile(`^,`), defaultHandler(Comma)},
}

func Tokenize(source string) ([]Token, error) {
	lex := &lexer{source: source, tokens: make([]Token, 0)}

	for lex.pos < len(lex.source) {
		remainder := lex.source[lex.pos:]
		matched := false

		for _, pattern := range patterns {
			if match := pattern.regex.FindString(remainder); match != "" {
				pattern.handler(lex, match)
				lex.pos += len(match)
				matched = true

				break
			}
		}

		if !matched {
			return lex.tokens, NewLexerError("unrecognized token near '%v'", remainder)
		}
	}

	lex.tokens = append(lex.tokens, Token{Kind: EOF, Value: "EOF"})

	return lex.tokens, nil
}

func defaultHandler(kind TokenKind) regexHandler {
	return func(lex *lexer, match string) {
		lex.tokens = append(lex.tokens, Token{Kind: kind, Value: match})
	}
}

func stringHandler(lex *lexer, match string) {
	lex.tokens = append(lex.tokens, Token{Kind: String, Value: match})
}

func numberHandler(lex *lexer, match string) {
	lex.tokens = append(lex.tokens, Token{Kind: Number, Value: match})
}

func symbolHandler(lex *lexer, match string) {
	if kind, found := reserved[strings.ToUpper(match)]; found {
		lex.tokens = append(lex.tokens, Token{Kind: kind, Value: match})

		return
	}

	lex.tokens = append(lex.tokens, Token{Kind: Identifier, Value: match})
}

func skipHandler(*lexer, string) {}
