package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes GQL query strings
type Lexer struct {
	input string
	pos   int  // offset of ch
	next  int  // offset after ch
	ch    rune // current character, 0 at end of input
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar reads the next character
func (l *Lexer) readChar() {
	l.pos = l.next
	if l.next >= len(l.input) {
		l.ch = 0
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.next:])
	l.ch = r
	l.next += size
}

// peekChar looks at the next character without advancing
func (l *Lexer) peekChar() rune {
	if l.next >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.next:])
	return r
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// readString reads a single-quoted string. A doubled quote is an escaped
// quote. The returned text keeps the surrounding quotes.
func (l *Lexer) readString() (string, error) {
	start := l.pos
	l.readChar() // skip opening quote

	for {
		switch {
		case l.ch == 0 && l.pos >= len(l.input):
			return "", &LexError{Pos: start, Msg: "unterminated string literal"}
		case l.ch == '\'' && l.peekChar() == '\'':
			l.readChar()
			l.readChar()
		case l.ch == '\'':
			l.readChar() // skip closing quote
			return l.input[start:l.pos], nil
		default:
			l.readChar()
		}
	}
}

// readNumber reads an integer or decimal number with an optional leading minus
func (l *Lexer) readNumber() (string, error) {
	start := l.pos
	if l.ch == '-' {
		l.readChar()
	}

	digits := 0
	for isDigit(l.ch) {
		digits++
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			digits++
			l.readChar()
		}
	}

	if digits == 0 {
		return "", &LexError{Pos: start, Msg: "invalid number"}
	}
	if isIdentStart(l.ch) {
		return "", &LexError{Pos: l.pos, Msg: "unexpected character " + quoteRune(l.ch) + " after number"}
	}
	return l.input[start:l.pos], nil
}

// readIdentifier reads an identifier or keyword. Dots are allowed after the
// first character so embedded property paths read as one identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentStart(l.ch) || isDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readParam reads a parameter marker: ':' followed by digits or an identifier
func (l *Lexer) readParam() (string, error) {
	start := l.pos
	l.readChar() // skip ':'

	switch {
	case isDigit(l.ch):
		for isDigit(l.ch) {
			l.readChar()
		}
		if isIdentStart(l.ch) {
			return "", &LexError{Pos: l.pos, Msg: "invalid positional parameter"}
		}
	case isIdentStart(l.ch):
		for isIdentStart(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
	default:
		return "", &LexError{Pos: start, Msg: "expected parameter name or position after ':'"}
	}
	return l.input[start:l.pos], nil
}

// NextToken returns the next token
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	pos := l.pos
	single := func(t TokenType) Token {
		tok := Token{Type: t, Value: string(l.ch), Pos: pos}
		l.readChar()
		return tok
	}

	switch l.ch {
	case 0:
		if l.pos < len(l.input) {
			return Token{}, &LexError{Pos: pos, Msg: "unexpected NUL character"}
		}
		return Token{Type: TokenEOF, Pos: pos}, nil
	case '=':
		return single(TokenEqual), nil
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return Token{Type: TokenNotEqual, Value: "!=", Pos: pos}, nil
		}
		return Token{}, &LexError{Pos: pos, Msg: "unexpected character '!'"}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return Token{Type: TokenLessEqual, Value: "<=", Pos: pos}, nil
		}
		return single(TokenLess), nil
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return Token{Type: TokenGreaterEqual, Value: ">=", Pos: pos}, nil
		}
		return single(TokenGreater), nil
	case ',':
		return single(TokenComma), nil
	case '(':
		return single(TokenLeftParen), nil
	case ')':
		return single(TokenRightParen), nil
	case '*':
		return single(TokenStar), nil
	case '\'':
		text, err := l.readString()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenString, Value: text, Pos: pos}, nil
	case ':':
		text, err := l.readParam()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenParam, Value: text, Pos: pos}, nil
	}

	switch {
	case isDigit(l.ch) || l.ch == '-' || (l.ch == '.' && isDigit(l.peekChar())):
		text, err := l.readNumber()
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenNumber, Value: text, Pos: pos}, nil
	case isIdentStart(l.ch):
		text := l.readIdentifier()
		return Token{Type: identifierType(text), Value: text, Pos: pos}, nil
	default:
		return Token{}, &LexError{Pos: pos, Msg: "unexpected character " + quoteRune(l.ch)}
	}
}

var keywords = map[string]TokenType{
	"select":   TokenSelect,
	"from":     TokenFrom,
	"where":    TokenWhere,
	"and":      TokenAnd,
	"or":       TokenOr,
	"order":    TokenOrder,
	"by":       TokenBy,
	"asc":      TokenAsc,
	"desc":     TokenDesc,
	"limit":    TokenLimit,
	"offset":   TokenOffset,
	"ancestor": TokenAncestor,
	"is":       TokenIs,
	"in":       TokenIn,
	"null":     TokenNull,
	"true":     TokenTrue,
	"false":    TokenFalse,
}

// identifierType determines if an identifier is a keyword (case-insensitive)
func identifierType(ident string) TokenType {
	if tokType, ok := keywords[strings.ToLower(ident)]; ok {
		return tokType
	}
	return TokenIdent
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func quoteRune(ch rune) string {
	return "'" + string(ch) + "'"
}

// Tokenize returns all tokens from the input, ending with a TokenEOF token.
func Tokenize(input string) ([]Token, error) {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok, err := lexer.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}

	return tokens, nil
}
