package query

import (
	"errors"
	"testing"
)

func TestLexer_Tokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "case insensitive keywords",
			input: "select FROM where",
			expected: []Token{
				{Type: TokenSelect, Value: "select"},
				{Type: TokenFrom, Value: "FROM"},
				{Type: TokenWhere, Value: "where"},
				{Type: TokenEOF, Value: ""},
			},
		},
		{
			name:  "operators",
			input: "= != < <= > >=",
			expected: []Token{
				{Type: TokenEqual, Value: "="},
				{Type: TokenNotEqual, Value: "!="},
				{Type: TokenLess, Value: "<"},
				{Type: TokenLessEqual, Value: "<="},
				{Type: TokenGreater, Value: ">"},
				{Type: TokenGreaterEqual, Value: ">="},
				{Type: TokenEOF, Value: ""},
			},
		},
		{
			name:  "strings keep quotes and escapes",
			input: "'abc' 'it''s' ''",
			expected: []Token{
				{Type: TokenString, Value: "'abc'"},
				{Type: TokenString, Value: "'it''s'"},
				{Type: TokenString, Value: "''"},
				{Type: TokenEOF, Value: ""},
			},
		},
		{
			name:  "numbers",
			input: "12 1.5 -3 .25",
			expected: []Token{
				{Type: TokenNumber, Value: "12"},
				{Type: TokenNumber, Value: "1.5"},
				{Type: TokenNumber, Value: "-3"},
				{Type: TokenNumber, Value: ".25"},
				{Type: TokenEOF, Value: ""},
			},
		},
		{
			name:  "parameters",
			input: ":1 :abc :a_2",
			expected: []Token{
				{Type: TokenParam, Value: ":1"},
				{Type: TokenParam, Value: ":abc"},
				{Type: TokenParam, Value: ":a_2"},
				{Type: TokenEOF, Value: ""},
			},
		},
		{
			name:  "identifiers with dots and key property",
			input: "address.city __key__ KEY(",
			expected: []Token{
				{Type: TokenIdent, Value: "address.city"},
				{Type: TokenIdent, Value: "__key__"},
				{Type: TokenIdent, Value: "KEY"},
				{Type: TokenLeftParen, Value: "("},
				{Type: TokenEOF, Value: ""},
			},
		},
		{
			name:  "delimiters",
			input: "(a, *)",
			expected: []Token{
				{Type: TokenLeftParen, Value: "("},
				{Type: TokenIdent, Value: "a"},
				{Type: TokenComma, Value: ","},
				{Type: TokenStar, Value: "*"},
				{Type: TokenRightParen, Value: ")"},
				{Type: TokenEOF, Value: ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize() error = %v", err)
			}
			if len(tokens) != len(tt.expected) {
				t.Fatalf("expected %d tokens, got %d", len(tt.expected), len(tokens))
			}
			for i, tok := range tokens {
				if tok.Type != tt.expected[i].Type {
					t.Errorf("token %d: expected type %v, got %v", i, tt.expected[i].Type, tok.Type)
				}
				if tok.Value != tt.expected[i].Value {
					t.Errorf("token %d: expected value %q, got %q", i, tt.expected[i].Value, tok.Value)
				}
			}
		})
	}
}

func TestLexer_Positions(t *testing.T) {
	tokens, err := Tokenize("SELECT * FROM a")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	want := []int{0, 7, 9, 14, 15}
	for i, tok := range tokens {
		if tok.Pos != want[i] {
			t.Errorf("token %d (%v): expected offset %d, got %d", i, tok, want[i], tok.Pos)
		}
	}
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantPos int
	}{
		{name: "unterminated string", input: "a = 'abc", wantPos: 4},
		{name: "bare bang", input: "a ! b", wantPos: 2},
		{name: "unknown character", input: "a = #", wantPos: 4},
		{name: "lone minus", input: "a = -", wantPos: 4},
		{name: "letters after number", input: "12abc", wantPos: 2},
		{name: "empty parameter", input: ": a", wantPos: 0},
		{name: "mixed positional parameter", input: ":1a", wantPos: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if !errors.Is(err, ErrLex) {
				t.Fatalf("Tokenize(%q) error = %v, want lex error", tt.input, err)
			}
			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("error %v is not a *LexError", err)
			}
			if lexErr.Pos != tt.wantPos {
				t.Errorf("error offset = %d, want %d", lexErr.Pos, tt.wantPos)
			}
		})
	}
}
