package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a query error.
type ErrorKind string

// Error kinds raised while lexing, parsing and evaluating queries.
const (
	KindLexError                  ErrorKind = "LexError"
	KindEndOfInput                ErrorKind = "EndOfInput"
	KindMissingClosingParenthesis ErrorKind = "MissingClosingParenthesis"
	KindMissingOpeningParenthesis ErrorKind = "MissingOpeningParenthesis"
	KindExpectedName              ErrorKind = "ExpectedName"
	KindInvalidExpression         ErrorKind = "InvalidExpression"
	KindWrongArity                ErrorKind = "WrongArity"
	KindUnknownOperator           ErrorKind = "UnknownOperator"
	KindNonBooleanOperand         ErrorKind = "NonBooleanOperand"
	KindNoSuchMethod              ErrorKind = "NoSuchMethod"
	KindTypeError                 ErrorKind = "TypeError"
	KindResourceLimit             ErrorKind = "ResourceLimit"
)

// IsParseKind reports whether errors of kind k come from Parse rather than
// from evaluation.
func (k ErrorKind) IsParseKind() bool {
	switch k {
	case KindNonBooleanOperand, KindNoSuchMethod, KindTypeError:
		return false
	}
	return true
}

// QueryError is the error type returned by every stage of the interpreter.
// Pos is the byte offset in the query text, or -1 when unknown.
type QueryError struct {
	Kind    ErrorKind
	Message string
	Pos     int
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s: %s (at position %d)", e.Kind, e.Message, e.Pos)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches sentinel errors by kind, so errors.Is(err, ErrWrongArity) works
// for any WrongArity error.
func (e *QueryError) Is(target error) bool {
	t, ok := target.(*QueryError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrLexError                  = &QueryError{Kind: KindLexError, Pos: -1}
	ErrEndOfInput                = &QueryError{Kind: KindEndOfInput, Pos: -1}
	ErrMissingClosingParenthesis = &QueryError{Kind: KindMissingClosingParenthesis, Pos: -1}
	ErrMissingOpeningParenthesis = &QueryError{Kind: KindMissingOpeningParenthesis, Pos: -1}
	ErrExpectedName              = &QueryError{Kind: KindExpectedName, Pos: -1}
	ErrInvalidExpression         = &QueryError{Kind: KindInvalidExpression, Pos: -1}
	ErrWrongArity                = &QueryError{Kind: KindWrongArity, Pos: -1}
	ErrUnknownOperator           = &QueryError{Kind: KindUnknownOperator, Pos: -1}
	ErrNonBooleanOperand         = &QueryError{Kind: KindNonBooleanOperand, Pos: -1}
	ErrNoSuchMethod              = &QueryError{Kind: KindNoSuchMethod, Pos: -1}
	ErrTypeError                 = &QueryError{Kind: KindTypeError, Pos: -1}
	ErrResourceLimit             = &QueryError{Kind: KindResourceLimit, Pos: -1}
)

// KindOf returns the kind of the first QueryError in err's chain, or "" if
// there is none.
func KindOf(err error) ErrorKind {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return ""
}

// NewError creates a QueryError at the given position.
func NewError(kind ErrorKind, pos int, format string, args ...interface{}) *QueryError {
	return &QueryError{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// Common error constructors.

// NewNonBooleanOperandError is raised when and/or/not see a non-bool operand.
func NewNonBooleanOperandError(op string, got Value) *QueryError {
	return &QueryError{
		Kind:    KindNonBooleanOperand,
		Message: fmt.Sprintf("Logical expressions must evaluate to boolean: '%s' got %s", op, got.Type()),
		Pos:     -1,
	}
}

// NewNoSuchMethodError is raised when a method call target has no such method.
func NewNoSuchMethodError(name string, target Value) *QueryError {
	return &QueryError{
		Kind:    KindNoSuchMethod,
		Message: fmt.Sprintf("%s has no method '%s'", target.Type(), name),
		Pos:     -1,
	}
}

// NewTypeError is raised for method arguments of the wrong count or type.
func NewTypeError(msg string) *QueryError {
	return &QueryError{Kind: KindTypeError, Message: msg, Pos: -1}
}
