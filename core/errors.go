package core

import (
	"errors"
	"fmt"
	"os"
)

// Error codes. Every error returned from the shaping packages carries one of
// these, retrievable with Code.
const (
	NOERROR   int = 0
	EMISSING  int = 122 // a font, face or resource is not registered or not on disk
	EINVALID  int = 123 // caller supplied parameters are out of range or inconsistent
	EINTERNAL int = 125 // an invariant of the layout engine does not hold
	EFONT     int = 126 // a font file cannot be parsed or a face index does not exist
	ESHAPE    int = 127 // the shaping backend did not produce glyphs
	EWRAP     int = 128 // a glyph is wider than the space left on a line
)

var codeText = map[int]string{
	NOERROR:   "OK",
	EMISSING:  "not found",
	EINVALID:  "invalid",
	EINTERNAL: "internal error",
	EFONT:     "font error",
	ESHAPE:    "shaping error",
	EWRAP:     "failed to wrap",
}

func errorText(code int) string {
	if t, ok := codeText[code]; ok {
		return t
	}
	return "undefined error"
}

// AppError is an error carrying a code and a message suitable for users,
// e.g. naming the string and font file which failed to shape.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

// codedError attaches a code and a message to an underlying error.
type codedError struct {
	error
	code int
	msg  string
}

var _ AppError = codedError{}

func (e codedError) Unwrap() error {
	return e.error
}

// Error prints as "[code] message: cause", omitting a message which repeats
// the cause.
func (e codedError) Error() string {
	if e.msg == "" || e.msg == e.error.Error() {
		return fmt.Sprintf("[%d] %v", e.code, e.error)
	}
	return fmt.Sprintf("[%d] %s: %v", e.code, e.msg, e.error)
}

func (e codedError) ErrorCode() int {
	return e.code
}

func (e codedError) UserMessage() string {
	return e.msg
}

// Error creates an error with a code and a formatted message. The cause is
// the text of the code.
func Error(code int, format string, v ...interface{}) error {
	return codedError{errors.New(errorText(code)), code, fmt.Sprintf(format, v...)}
}

// WrapError attaches a code and a formatted message to err. A nil err is
// replaced by the text of the code. Codes of errors further down the chain
// are shadowed, pass Code(err) to keep them.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return codedError{err, code, fmt.Sprintf(format, v...)}
}

// ErrorWithCode attaches a code to err, with the text of the code as
// message.
func ErrorWithCode(err error, code int) error {
	return WrapError(err, code, "%s", errorText(code))
}

// Code returns the code of the outermost coded error in err's chain,
// NOERROR for nil and EINTERNAL for errors without a code.
func Code(err error) int {
	if err == nil {
		return NOERROR
	}
	var e AppError
	if errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// UserMessage returns the message of the outermost coded error in err's
// chain, or the text of its code.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e AppError
	if errors.As(err, &e) {
		return e.UserMessage()
	}
	return errorText(Code(err))
}

// UserError prints err to stderr. Used by tools which continue after
// non-fatal errors, e.g. a font directory which cannot be scanned.
func UserError(err error) {
	if err == nil {
		return
	}
	var e AppError
	if errors.As(err, &e) {
		fmt.Fprintf(os.Stderr, "[%d] %s\n", e.ErrorCode(), e.UserMessage())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
}
