package mancalc

import (
	"errors"
	"strconv"
)

// ErrStackUnderflow is the error for popping an empty stack. A StackError
// matches it with errors.Is.
var ErrStackUnderflow = errors.New("stack underflow")

// ErrCanceled is returned when an operator notices that the machine was
// disabled and restored its operands instead of finishing.
var ErrCanceled = errors.New("operation canceled")

// PushError is the error for a token that a Machine could not accept. The
// stack is left as it was before the push. Err is a *StackError,
// *LiteralError, *OperandError, or ErrCanceled.
type PushError struct {
	// Token is the text that was pushed.
	Token string
	// Err is the reason the push failed.
	Err error
}

func (err *PushError) Error() string {
	return "failed to push " + strconv.Quote(err.Token) + ": " + err.Err.Error()
}

func (err *PushError) Unwrap() error {
	return err.Err
}

// StackError is an error indicating an operator applied to too few operands.
type StackError struct {
	// Op is the operator that was applied.
	Op string
	// Need is the number of operands the operator requires.
	Need int
	// Have is the number of operands that were on the stack.
	Have int
}

func (err *StackError) Error() string {
	op := err.Op
	if op == "" {
		op = "operator"
	}
	return op + " needs " + strconv.Itoa(err.Need) + " operands but the stack has " + strconv.Itoa(err.Have)
}

// Is makes every StackError match ErrStackUnderflow.
func (err *StackError) Is(target error) bool {
	return target == ErrStackUnderflow
}

// LiteralError is an error indicating text that is neither an operator nor
// a number. It implements InputError.
type LiteralError struct {
	// Text is the literal with any base prefix removed.
	Text string
	// Base is the base the literal was read in.
	Base int
	// Col is the byte offset in Text of the offending character, or -1 if
	// the literal is wrong as a whole.
	Col int
	// Reason describes the problem.
	Reason string
}

func (err *LiteralError) Error() string {
	s := "invalid base " + strconv.Itoa(err.Base) + " literal " + strconv.Quote(err.Text)
	if err.Reason == "" {
		return s
	}
	return s + ": " + err.Reason
}

func (err *LiteralError) Pos() int {
	return err.Col
}

// OperandError is an error indicating operands an operator can't use, such
// as a sequence with a step that never reaches its bound.
type OperandError struct {
	// Op is the operator.
	Op string
	// Reason describes the problem.
	Reason string
}

func (err *OperandError) Error() string {
	return err.Op + ": " + err.Reason
}

// ParseError is an error from the infix parser. It implements InputError.
type ParseError struct {
	// Offset is the byte offset at which parsing stopped.
	Offset int
	// Expected describes what the parser was looking for.
	Expected string
	// Found is the text at Offset, or empty at the end of input.
	Found string
}

func (err *ParseError) Error() string {
	found := "end of input"
	if err.Found != "" {
		found = strconv.Quote(err.Found)
	}
	return errpos(err.Offset, "expected "+err.Expected+", found "+found)
}

func (err *ParseError) Pos() int {
	return err.Offset
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information.
type InputError interface {
	error
	// Pos returns the byte offset of the error in the text that caused it.
	Pos() int
}

var (
	_ InputError = (*ParseError)(nil)
	_ InputError = (*LiteralError)(nil)
)
