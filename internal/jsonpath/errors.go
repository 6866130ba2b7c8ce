package jsonpath

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode identifies why a path expression was rejected.
type ErrorCode int

const (
	// ErrEmpty indicates an empty expression.
	ErrEmpty ErrorCode = iota + 1
	// ErrMissingRoot indicates the expression does not start with '$'.
	ErrMissingRoot
	// ErrEmptyProperty indicates a '.' with no identifier after it.
	ErrEmptyProperty
	// ErrBadIndex indicates a '[' segment without digits.
	ErrBadIndex
	// ErrUnclosedIndex indicates an index segment missing its closing ']'.
	ErrUnclosedIndex
	// ErrUnexpectedChar indicates a character that cannot start a segment.
	ErrUnexpectedChar
)

// Error is returned by Parse for any malformed expression.
type Error struct {
	Code ErrorCode
	// Pos is the byte offset at which parsing stopped.
	Pos     int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonpath: %s at position %d", e.Message, e.Pos)
}

// IsInvalidPath reports whether err, or any error it wraps, is a path syntax error.
func IsInvalidPath(err error) bool {
	var e *Error
	return stderrors.As(err, &e)
}

func newError(code ErrorCode, pos int, format string, args ...any) *Error {
	return &Error{Code: code, Pos: pos, Message: fmt.Sprintf(format, args...)}
}
