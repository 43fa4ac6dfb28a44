package parser

import (
	"fmt"
	"strconv"

	"github.com/prediction-registry/registry/pkg/query/lexer"
)

type parser struct {
	tokens []lexer.Token
	pos    int
}

type Error struct {
	message string
}

func NewParserError(format string, a ...any) *Error {
	return &Error{message: fmt.Sprintf(format, a...)}
}

func (e *Error) Error() string {
	return e.message
}

func (p *parser) current() lexer.Token {
	return p.tokens[p.pos]
}

func (p *parser) currentKind() lexer.TokenKind {
	return p.current().Kind
}

func (p *parser) hasTokens() bool {
	return p.pos < len(p.tokens) && p.currentKind() != lexer.EOF
}

func (p *parser) advance() lexer.Token {
	token := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}

	return token
}

func unquote(literal string) string {
	return literal[1 : len(literal)-1]
}

func (p *parser) parseIdentifier() (Identifier, error) {
	if p.currentKind() != lexer.Identifier {
		return Identifier{}, NewParserError("expected identifier, got %s", p.current().Debug())
	}

	identToken := p.advance()

	if p.currentKind() != lexer.Dot {
		return Identifier{Key: identToken.Value}, nil
	}

	p.advance() // Consume the DOT

	switch p.currentKind() {
	case lexer.Identifier:
		return Identifier{Identifier: identToken.Value, Key: p.advance().Value}, nil
	case lexer.String:
		return Identifier{Identifier: identToken.Value, Key: unquote(p.advance().Value)}, nil
	default:
		return Identifier{}, NewParserError("expected IDENTIFIER or STRING, got %s", p.current().Debug())
	}
}

func (p *parser) parseOperator() (OperatorKind, error) {
	token := p.advance()

	switch token.Kind {
	case lexer.Equals:
		return Equals, nil
	case lexer.NotEquals:
		return NotEquals, nil
	case lexer.Less:
		return Less, nil
	case lexer.LessEquals:
		return LessEquals, nil
	case lexer.Greater:
		return Greater, nil
	case lexer.GreaterEquals:
		return GreaterEquals, nil
	case lexer.Like:
		return Like, nil
	case lexer.ILike:
		return ILike, nil
	default:
		return -1, NewParserError("expected operator, got %s", token.Debug())
	}
}

func (p *parser) parseValue() (Value, error) {
	switch p.currentKind() {
	case lexer.Number:
		n, err := strconv.ParseFloat(p.advance().Value, 64)
		if err != nil {
			return nil, fmt.Errorf("number token could not be parsed to float: %w", err)
		}

		return NumberExpr{Value: n}, nil
	case lexer.String:
		return StringExpr{Value: unquote(p.advance().Value)}, nil
	default:
		return nil, NewParserError("expected NUMBER or STRING, got %s", p.current().Debug())
	}
}

func (p *parser) parseInSetExpr(ident Identifier, operator OperatorKind) (*CompareExpr, error) {
	if p.currentKind() != lexer.OpenParen {
		return nil, NewParserError("expected '(', got %s", p.current().Debug())
	}

	p.advance() // Consume the OPEN_PAREN

	set := make([]string, 0)
	for p.hasTokens() && p.currentKind() != lexer.CloseParen {
		if p.currentKind() != lexer.String {
			return nil, NewParserError("expected STRING, got %s", p.current().Debug())
		}

		set = append(set, unquote(p.advance().Value))

		if p.currentKind() == lexer.Comma {
			p.advance() // Consume the COMMA
		}
	}

	if p.currentKind() != lexer.CloseParen {
		return nil, NewParserError("expected ')', got %s", p.current().Debug())
	}

	p.advance() // Consume the CLOSE_PAREN

	if len(set) == 0 {
		return nil, NewParserError("expected at least one value in %s set", operator)
	}

	return &CompareExpr{Left: ident, Operator: operator, Right: StringListExpr{Values: set}}, nil
}

func (p *parser) parseExpression() (*CompareExpr, error) {
	ident, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	switch p.currentKind() {
	case lexer.In:
		p.advance() // Consume the IN

		return p.parseInSetExpr(ident, In)
	case lexer.Not:
		p.advance() // Consume the NOT

		if p.currentKind() != lexer.In {
			return nil, NewParserError("expected IN after NOT, got %s", p.current().Debug())
		}

		p.advance() // Consume the IN

		return p.parseInSetExpr(ident, NotIn)
	default:
		operator, err := p.parseOperator()
		if err != nil {
			return nil, err
		}

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		return &CompareExpr{Left: ident, Operator: operator, Right: value}, nil
	}
}

func (p *parser) parse() (*AndExpr, error) {
	first, err := p.parseExpression()
	if err != nil {
		return nil, fmt.Errorf("error while parsing initial expression: %w", err)
	}

	exprs := []*CompareExpr{first}

	for p.currentKind() == lexer.And {
		p.advance() // Consume the AND

		next, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		exprs = append(exprs, next)
	}

	if p.hasTokens() {
		return nil, NewParserError("unexpected leftover token(s) after parsing: %s", p.current().Debug())
	}

	return &AndExpr{Exprs: exprs}, nil
}

func Parse(tokens []lexer.Token) (*AndExpr, error) {
	if len(tokens) == 0 {
		return nil, NewParserError("nothing to parse")
	}

	p := &parser{tokens: tokens}

	return p.parse()
}
