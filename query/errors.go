package query

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is. Each typed error below reports
// its sentinel through an Is method.
var (
	ErrLex              = errors.New("lex error")
	ErrParse            = errors.New("parse error")
	ErrFunctionArgument = errors.New("invalid function argument")
	ErrUnknownFunction  = errors.New("unknown function")
	ErrUnboundParameter = errors.New("unbound parameter")
	ErrInvalidAncestor  = errors.New("ancestor must be a key")
)

// LexError reports a character sequence that is not a valid token.
type LexError struct {
	Pos int // Byte offset in the query
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at offset %d: %s", e.Pos, e.Msg)
}

func (e *LexError) Is(target error) bool { return target == ErrLex }

// ParseError reports a grammar violation at a token. Err holds the
// resource limit sentinel when a limit rejected the query.
type ParseError struct {
	Token Token
	Msg   string
	Err   error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse error at offset %d near %s: %s", e.Token.Pos, e.Token, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// FunctionArgumentError reports a built-in function called with the wrong
// number or types of arguments.
type FunctionArgumentError struct {
	Function string
	Msg      string
	Err      error
}

func (e *FunctionArgumentError) Error() string {
	msg := fmt.Sprintf("%s(): %s", e.Function, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FunctionArgumentError) Unwrap() error { return e.Err }

func (e *FunctionArgumentError) Is(target error) bool { return target == ErrFunctionArgument }

// UnknownFunctionError reports a call to a function that is not built in.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

func (e *UnknownFunctionError) Is(target error) bool { return target == ErrUnknownFunction }

// UnboundParameterError reports a parameter with no bound value. Exactly
// one of Index and Name is set.
type UnboundParameterError struct {
	Index int
	Name  string
}

func (e *UnboundParameterError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unbound parameter :%s", e.Name)
	}
	return fmt.Sprintf("unbound parameter :%d", e.Index)
}

func (e *UnboundParameterError) Is(target error) bool { return target == ErrUnboundParameter }
