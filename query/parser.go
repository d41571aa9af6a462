package query

import (
	"fmt"
	"strconv"
)

// Parser parses GQL token streams into a ParseResult. A Parser is used for
// one query only.
type Parser struct {
	tokens []Token
	pos    int
	depth  *depthCounter
}

// NewParser creates a new parser
func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens: tokens,
		depth:  newDepthCounter(),
	}
}

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return p.eof()
	}
	return p.tokens[p.pos]
}

// peek returns the next token without advancing
func (p *Parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return p.eof()
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) eof() Token {
	if n := len(p.tokens); n > 0 && p.tokens[n-1].Type == TokenEOF {
		return p.tokens[n-1]
	}
	return Token{Type: TokenEOF}
}

// advance moves to the next token
func (p *Parser) advance() {
	p.pos++
}

// expect checks if current token matches expected type and advances
func (p *Parser) expect(tokType TokenType) error {
	if p.current().Type != tokType {
		return p.errorf("expected %v", tokType)
	}
	p.advance()
	return nil
}

// errorf returns a ParseError at the current token
func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{Token: p.current(), Msg: fmt.Sprintf(format, args...)}
}

// limitError reports a resource limit hit at the current token
func (p *Parser) limitError(err error) error {
	return &ParseError{Token: p.current(), Msg: "limit exceeded", Err: err}
}

// expectEOF fails on anything left after a complete production
func (p *Parser) expectEOF() error {
	switch tok := p.current(); tok.Type {
	case TokenEOF:
		return nil
	case TokenOr:
		return p.errorf("OR is not supported, conditions can only be combined with AND")
	default:
		return p.errorf("unexpected trailing token")
	}
}

func tokenize(input string) ([]Token, error) {
	if err := ValidateQuery(input); err != nil {
		return nil, &ParseError{Token: Token{Type: TokenEOF, Pos: MaxQueryLength}, Msg: "limit exceeded", Err: err}
	}
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	if err := ValidateTokens(tokens); err != nil {
		return nil, &ParseError{Token: tokens[MaxTokens], Msg: "limit exceeded", Err: err}
	}
	return tokens, nil
}

// Parse parses a GQL query. Parsing is all-or-nothing: on error no
// partial result is returned.
func Parse(input string) (*ParseResult, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}

	parser := NewParser(tokens)
	result, err := parser.parseQuery()
	if err != nil {
		return nil, err
	}
	if err := parser.expectEOF(); err != nil {
		return nil, err
	}
	return result, nil
}

// ParseValue parses a single value such as 'abc', 10, :name or
// KEY('Person', 'Amy').
func ParseValue(input string) (Evaluator, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}

	parser := NewParser(tokens)
	value, err := parser.parseValue()
	if err != nil {
		return nil, err
	}
	if err := parser.expectEOF(); err != nil {
		return nil, err
	}
	return value, nil
}

// ParseCondition parses a single condition such as a >= 10.
func ParseCondition(input string) (Condition, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return Condition{}, err
	}

	parser := NewParser(tokens)
	cond, err := parser.parseCondition()
	if err != nil {
		return Condition{}, err
	}
	if err := parser.expectEOF(); err != nil {
		return Condition{}, err
	}
	return cond, nil
}

// parseQuery parses: SELECT (* | __key__) [FROM kind] [WHERE ...] [ORDER BY ...] [LIMIT n] [OFFSET n]
func (p *Parser) parseQuery() (*ParseResult, error) {
	if err := p.expect(TokenSelect); err != nil {
		return nil, err
	}

	sel, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	result := &ParseResult{Select: sel}

	if p.current().Type == TokenFrom {
		if result.From, err = p.parseFrom(); err != nil {
			return nil, err
		}
	}

	if p.current().Type == TokenWhere {
		p.advance()
		if result.Where, err = p.parseWhere(); err != nil {
			return nil, err
		}
	}

	if p.current().Type == TokenOrder {
		if result.OrderBy, err = p.parseOrderBy(); err != nil {
			return nil, err
		}
	}

	if p.current().Type == TokenLimit {
		n, err := p.parseCount(TokenLimit)
		if err != nil {
			return nil, err
		}
		result.Limit = &Limit{Value: n}
	}

	if p.current().Type == TokenOffset {
		n, err := p.parseCount(TokenOffset)
		if err != nil {
			return nil, err
		}
		result.Offset = &Offset{Value: n}
	}

	return result, nil
}

// parseSelect parses the projection: * or __key__
func (p *Parser) parseSelect() (*Select, error) {
	tok := p.current()
	switch {
	case tok.Type == TokenStar:
		p.advance()
		return &Select{KeysOnly: false}, nil
	case tok.Type == TokenIdent && tok.Value == "__key__":
		p.advance()
		return &Select{KeysOnly: true}, nil
	default:
		return nil, p.errorf("expected * or __key__ after SELECT")
	}
}

// parseFrom parses FROM kind
func (p *Parser) parseFrom() (*From, error) {
	if err := p.expect(TokenFrom); err != nil {
		return nil, err
	}
	if p.current().Type != TokenIdent {
		return nil, p.errorf("expected kind name after FROM")
	}

	kind := p.current().Value
	if err := ValidateKind(kind); err != nil {
		return nil, p.limitError(err)
	}
	p.advance()
	return &From{Kind: kind}, nil
}

// parseOrderBy parses ORDER BY prop [ASC|DESC], ...
func (p *Parser) parseOrderBy() (*OrderBy, error) {
	if err := p.expect(TokenOrder); err != nil {
		return nil, err
	}
	if err := p.expect(TokenBy); err != nil {
		return nil, err
	}

	var items []OrderByItem
	for {
		if p.current().Type != TokenIdent {
			return nil, p.errorf("expected property name in ORDER BY")
		}

		property := p.current().Value
		if err := ValidatePropertyName(property); err != nil {
			return nil, p.limitError(err)
		}

		item := OrderByItem{
			Property:  property,
			Ascending: true, // Default to ASC
		}
		p.advance()

		// Check for ASC/DESC modifier
		if p.current().Type == TokenAsc {
			p.advance()
		} else if p.current().Type == TokenDesc {
			item.Ascending = false
			p.advance()
		}

		items = append(items, item)

		if p.current().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}

	return &OrderBy{Items: items}, nil
}

// parseCount parses the integer argument of LIMIT or OFFSET
func (p *Parser) parseCount(keyword TokenType) (int64, error) {
	if err := p.expect(keyword); err != nil {
		return 0, err
	}

	if p.current().Type != TokenNumber {
		return 0, p.errorf("expected number after %v", keyword)
	}

	n, err := strconv.ParseInt(p.current().Value, 10, 64)
	if err != nil || n < 0 {
		return 0, p.errorf("%v must be a non-negative integer", keyword)
	}

	p.advance()
	return n, nil
}
