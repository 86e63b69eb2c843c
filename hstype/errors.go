package hstype

import "fmt"

// ErrorCode classifies a parse failure.
type ErrorCode string

const (
	// CodeUnsupportedType means a token matched neither a structural prefix
	// nor a primitive name. Error.Text carries the offending text.
	CodeUnsupportedType ErrorCode = "unsupported_hs_type"

	// CodeUnmatchedParenthesis means an open `(` has no matching `)` where
	// one was expected, or a `)` closes nothing.
	CodeUnmatchedParenthesis ErrorCode = "unmatched_parenthesis"

	// CodeFunPtrWithoutTypeArgument means a FunPtr had no element at all.
	CodeFunPtrWithoutTypeArgument ErrorCode = "funptr_without_type_argument"
)

var (
	ErrUnmatchedParenthesis      = &Error{Code: CodeUnmatchedParenthesis}
	ErrFunPtrWithoutTypeArgument = &Error{Code: CodeFunPtrWithoutTypeArgument}
)

// Error is a classified parse error.
type Error struct {
	Code ErrorCode
	Text string
}

func (e *Error) Error() string {
	switch e.Code {
	case CodeUnsupportedType:
		return fmt.Sprintf("type `%s` isn't in the list of supported Haskell C-FFI types", e.Text)
	case CodeUnmatchedParenthesis:
		return "found an open `(` without the matching closing `)`"
	case CodeFunPtrWithoutTypeArgument:
		return "FunPtr is missing type parameter"
	default:
		return string(e.Code)
	}
}

// Is matches errors of the same code. A target with empty Text matches any
// text, so errors.Is(err, &Error{Code: CodeUnsupportedType}) checks the
// class only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Text == "" || t.Text == e.Text)
}

func unsupported(text string) *Error {
	return &Error{Code: CodeUnsupportedType, Text: text}
}
