package query

import (
	"errors"
	"fmt"
)

// Validation constants to prevent DoS and resource exhaustion
const (
	// MaxQueryLength is the maximum allowed query string length (1MB)
	MaxQueryLength = 1024 * 1024

	// MaxTokens is the maximum number of tokens in a query
	MaxTokens = 100000

	// MaxValueDepth is the maximum nesting depth of function calls in a value
	MaxValueDepth = 32

	// MaxPropertyNameLength is the maximum length for a property name
	MaxPropertyNameLength = 1500

	// MaxKindLength is the maximum length for a kind name
	MaxKindLength = 1500
)

var (
	// ErrQueryTooLong is returned when query exceeds MaxQueryLength
	ErrQueryTooLong = errors.New("query too long")

	// ErrTooManyTokens is returned when query has too many tokens
	ErrTooManyTokens = errors.New("too many tokens in query")

	// ErrValueTooDeep is returned when function calls nest past MaxValueDepth
	ErrValueTooDeep = errors.New("value nesting too deep")

	// ErrPropertyNameTooLong is returned when a property name is too long
	ErrPropertyNameTooLong = errors.New("property name too long")

	// ErrKindTooLong is returned when a kind name is too long
	ErrKindTooLong = errors.New("kind name too long")
)

// ValidateQuery performs security validation on query input
func ValidateQuery(query string) error {
	if len(query) > MaxQueryLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrQueryTooLong, len(query), MaxQueryLength)
	}
	return nil
}

// ValidateKind validates kind name length
func ValidateKind(kind string) error {
	if len(kind) > MaxKindLength {
		return fmt.Errorf("%w: %d chars (max %d)", ErrKindTooLong, len(kind), MaxKindLength)
	}
	return nil
}

// ValidatePropertyName validates property name length
func ValidatePropertyName(name string) error {
	if len(name) > MaxPropertyNameLength {
		return fmt.Errorf("%w: %d chars (max %d)", ErrPropertyNameTooLong, len(name), MaxPropertyNameLength)
	}
	return nil
}

// ValidateTokens validates token count
func ValidateTokens(tokens []Token) error {
	if len(tokens) > MaxTokens {
		return fmt.Errorf("%w: %d tokens (max %d)", ErrTooManyTokens, len(tokens), MaxTokens)
	}
	return nil
}

// depthCounter tracks function call nesting while parsing a value
type depthCounter struct {
	depth    int
	maxDepth int
}

func newDepthCounter() *depthCounter {
	return &depthCounter{maxDepth: MaxValueDepth}
}

// enter increments depth and returns error if limit exceeded
func (c *depthCounter) enter() error {
	c.depth++
	if c.depth > c.maxDepth {
		return fmt.Errorf("%w: %d (max %d)", ErrValueTooDeep, c.depth, c.maxDepth)
	}
	return nil
}

func (c *depthCounter) exit() {
	c.depth--
}
