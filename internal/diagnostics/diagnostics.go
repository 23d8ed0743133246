package diagnostics

import (
	"fmt"

	"github.com/pijama-lang/pijama/internal/token"
)

// Phase represents the processing phase where an error occurred
type Phase string

const (
	PhaseLexer     Phase = "lexer"
	PhaseParser    Phase = "parser"
	PhaseLower     Phase = "lower"
	PhaseTypecheck Phase = "typecheck"
	PhaseRuntime   Phase = "runtime"
)

type ErrorCode string

const (
	// Lexer Errors
	ErrL001 ErrorCode = "L001" // Invalid character
	ErrL002 ErrorCode = "L002" // Could not parse as integer

	// Parser Errors
	ErrP001 ErrorCode = "P001" // Unexpected token
	ErrP002 ErrorCode = "P002" // Expected a specific token
	ErrP003 ErrorCode = "P003" // Generic syntax error

	// Lowering Errors
	ErrW001 ErrorCode = "W001" // Recursive function without return type
	ErrW002 ErrorCode = "W002" // Anonymous function with return type
	ErrW003 ErrorCode = "W003" // Unbound name

	// Typecheck Errors
	ErrT001 ErrorCode = "T001" // Type mismatch
	ErrT002 ErrorCode = "T002" // Infinite type
	ErrT003 ErrorCode = "T003" // Unbound name

	// Runtime Errors
	ErrR001 ErrorCode = "R001" // Integer overflow
	ErrR002 ErrorCode = "R002" // Division by zero
	ErrR003 ErrorCode = "R003" // Step budget exhausted
	ErrR004 ErrorCode = "R004" // Internal machine error
)

var errorTemplates = map[ErrorCode]string{
	ErrL001: "invalid character: '%s'",
	ErrL002: "could not parse '%s' as an integer",
	ErrP001: "unexpected token: '%s'",
	ErrP002: "expected %s, but got '%s'",
	ErrP003: "%s",
	ErrW001: "recursive functions need a return type annotation",
	ErrW002: "anonymous functions cannot have a return type annotation",
	ErrW003: "name '%s' is not bound",
	ErrT001: "type mismatch: expected %s, found %s",
	ErrT002: "infinite type: %s occurs in %s",
	ErrT003: "name '%s' is not bound",
	ErrR001: "integer overflow in '%s'",
	ErrR002: "division by zero",
	ErrR003: "step budget exhausted",
	ErrR004: "internal error: %s",
}

// Error is a located, phase-tagged error. Test assertions compare by Code
// only; the arguments are for rendering diagnostics.
type Error struct {
	Code  ErrorCode
	Phase Phase
	Args  []interface{}
	Span  token.Span
	File  string
}

func (e *Error) Error() string {
	template, ok := errorTemplates[e.Code]
	if !ok {
		return fmt.Sprintf("unknown error code: %s", e.Code)
	}

	message := fmt.Sprintf(template, e.Args...)

	prefix := ""
	if e.File != "" {
		prefix = fmt.Sprintf("%s: ", e.File)
	}

	phaseStr := ""
	if e.Phase != "" {
		phaseStr = fmt.Sprintf("[%s] ", e.Phase)
	}

	if e.Span.End > 0 {
		return fmt.Sprintf("%s%serror at %s [%s]: %s", prefix, phaseStr, e.Span, e.Code, message)
	}
	return fmt.Sprintf("%s%serror [%s]: %s", prefix, phaseStr, e.Code, message)
}

// New creates an error with phase, code and source span.
func New(phase Phase, code ErrorCode, span token.Span, args ...interface{}) *Error {
	return &Error{
		Code:  code,
		Phase: phase,
		Span:  span,
		Args:  args,
	}
}
