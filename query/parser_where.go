package query

import (
	"strconv"
	"strings"
)

// comparators maps comparison tokens to filter operators
var comparators = map[TokenType]FilterOperator{
	TokenEqual:        Equal,
	TokenLess:         LessThan,
	TokenLessEqual:    LessThanOrEqual,
	TokenGreater:      GreaterThan,
	TokenGreaterEqual: GreaterThanOrEqual,
	TokenNotEqual:     NotEqual,
	TokenIn:           In,
}

// parseWhere parses the AND-combined conditions after WHERE. At most one
// of them may be ANCESTOR IS value.
func (p *Parser) parseWhere() (*Where, error) {
	where := &Where{}

	for {
		if p.current().Type == TokenAncestor {
			if where.Ancestor != nil {
				return nil, p.errorf("only one ANCESTOR IS clause is allowed")
			}
			ancestor, err := p.parseAncestor()
			if err != nil {
				return nil, err
			}
			where.Ancestor = ancestor
		} else {
			cond, err := p.parseCondition()
			if err != nil {
				return nil, err
			}
			where.Conditions = append(where.Conditions, cond)
		}

		switch p.current().Type {
		case TokenAnd:
			p.advance()
			continue
		case TokenOr:
			return nil, p.errorf("OR is not supported, conditions can only be combined with AND")
		}
		return where, nil
	}
}

// parseAncestor parses: ANCESTOR IS value
func (p *Parser) parseAncestor() (Evaluator, error) {
	if err := p.expect(TokenAncestor); err != nil {
		return nil, err
	}
	if err := p.expect(TokenIs); err != nil {
		return nil, err
	}
	return p.parseValue()
}

// parseCondition parses: property comparator value. The value of an IN
// condition is a parenthesised list or a parameter bound to a list.
func (p *Parser) parseCondition() (Condition, error) {
	if p.current().Type != TokenIdent {
		return Condition{}, p.errorf("expected property name")
	}
	property := p.current().Value
	if err := ValidatePropertyName(property); err != nil {
		return Condition{}, p.limitError(err)
	}
	p.advance()

	op, ok := comparators[p.current().Type]
	if !ok {
		return Condition{}, p.errorf("expected comparison operator")
	}
	p.advance()

	var (
		value Evaluator
		err   error
	)
	switch {
	case op != In:
		value, err = p.parseValue()
	case p.current().Type == TokenParam:
		value, err = p.parseParam()
	default:
		value, err = p.parseList()
	}
	if err != nil {
		return Condition{}, err
	}

	return Condition{Property: property, Operator: op, Value: value}, nil
}

// parseList parses: '(' value (',' value)* ')'
func (p *Parser) parseList() (Evaluator, error) {
	if err := p.expect(TokenLeftParen); err != nil {
		return nil, err
	}

	items, err := p.parseValues()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, p.errorf("IN list must not be empty")
	}

	if err := p.expect(TokenRightParen); err != nil {
		return nil, err
	}
	return ListEvaluator{Items: items}, nil
}

// parseValues parses a possibly empty comma-separated value list, stopping
// before the closing parenthesis.
func (p *Parser) parseValues() ([]Evaluator, error) {
	var values []Evaluator
	if p.current().Type == TokenRightParen {
		return values, nil
	}

	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		values = append(values, v)

		if p.current().Type != TokenComma {
			return values, nil
		}
		p.advance()
	}
}

// parseValue parses: NULL | TRUE | FALSE | string | number | param | function_call
func (p *Parser) parseValue() (Evaluator, error) {
	tok := p.current()

	switch tok.Type {
	case TokenNull:
		p.advance()
		return NullEvaluator{}, nil
	case TokenTrue, TokenFalse:
		p.advance()
		return BooleanEvaluator{Text: strings.ToLower(tok.Value)}, nil
	case TokenString:
		p.advance()
		return StringEvaluator{Text: tok.Value}, nil
	case TokenNumber:
		p.advance()
		return DecimalEvaluator{Text: tok.Value}, nil
	case TokenParam:
		return p.parseParam()
	case TokenIdent:
		if p.peek().Type == TokenLeftParen {
			return p.parseFunctionCall()
		}
		return nil, p.errorf("expected value, found identifier (missing quotes or function call?)")
	default:
		return nil, p.errorf("expected value")
	}
}

// parseParam parses :N (positional, 1-based) or :name
func (p *Parser) parseParam() (Evaluator, error) {
	tok := p.current()
	if tok.Type != TokenParam {
		return nil, p.errorf("expected parameter")
	}

	ref := strings.TrimPrefix(tok.Value, ":")
	if ref == "" {
		return nil, p.errorf("empty parameter")
	}

	if isDigit(rune(ref[0])) {
		index, err := strconv.Atoi(ref)
		if err != nil {
			return nil, p.errorf("invalid positional parameter")
		}
		if index < 1 {
			return nil, p.errorf("positional parameters start at :1")
		}
		p.advance()
		return PositionalParam(index), nil
	}

	p.advance()
	return NamedParam(ref), nil
}

// parseFunctionCall parses: name '(' [value (',' value)*] ')'
func (p *Parser) parseFunctionCall() (Evaluator, error) {
	name := p.current().Value
	p.advance()

	if err := p.expect(TokenLeftParen); err != nil {
		return nil, err
	}

	if err := p.depth.enter(); err != nil {
		return nil, p.limitError(err)
	}
	defer p.depth.exit()

	args, err := p.parseValues()
	if err != nil {
		return nil, err
	}

	if err := p.expect(TokenRightParen); err != nil {
		return nil, err
	}
	return NewFunction(name, args...), nil
}
