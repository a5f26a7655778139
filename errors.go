package sqli

import (
	"errors"
	"fmt"
)

/*
Error codes. You probably shouldn't use this directly; instead, use the `Err`
variables with `errors.Is`.
*/
type ErrCode string

const (
	ErrCodeUnknown         ErrCode = ""
	ErrCodeInvalidInput    ErrCode = "InvalidInput"
	ErrCodeIndexOutOfRange ErrCode = "IndexOutOfRange"
	ErrCodeDuplicateParam  ErrCode = "DuplicateParam"
	ErrCodeStaleFragment   ErrCode = "StaleFragment"
	ErrCodeInternal        ErrCode = "Internal"
)

/*
Use blank error variables to detect error types:

	if errors.Is(err, sqli.ErrIndexOutOfRange) {
		// Handle specific error.
	}

Note that errors returned by this package can't be compared via `==` because
they may include additional details about the circumstances. When compared by
`errors.Is`, they compare `.Cause` and fall back on `.Code`.

Every error in this package indicates a programming error in the calling code,
such as a placeholder referencing a missing argument. They're raised as panics.
Use `Catch` to convert them into error values.
*/
var (
	ErrInvalidInput    Err = Err{Code: ErrCodeInvalidInput, Cause: errors.New(`invalid input`)}
	ErrIndexOutOfRange Err = Err{Code: ErrCodeIndexOutOfRange, Cause: errors.New(`placeholder index out of range`)}
	ErrDuplicateParam  Err = Err{Code: ErrCodeDuplicateParam, Cause: errors.New(`duplicate parameter name`)}
	ErrStaleFragment   Err = Err{Code: ErrCodeStaleFragment, Cause: errors.New(`fragment already merged`)}
	ErrInternal        Err = Err{Code: ErrCodeInternal, Cause: errors.New(`internal error`)}
)

// Type of errors returned by this package.
type Err struct {
	Code  ErrCode
	While string
	Cause error
}

// Implement `error`.
func (self Err) Error() string {
	if self == (Err{}) {
		return ``
	}
	msg := `[sqli]`
	if self.Code != ErrCodeUnknown {
		msg += fmt.Sprintf(` %s`, self.Code)
	}
	if self.While != `` {
		msg += fmt.Sprintf(` while %v`, self.While)
	}
	if self.Cause != nil {
		msg += `: ` + self.Cause.Error()
	}
	return msg
}

// Implement a hidden interface in "errors".
func (self Err) Is(other error) bool {
	if self.Cause != nil && errors.Is(self.Cause, other) {
		return true
	}
	err, ok := other.(Err)
	return ok && err.Code == self.Code
}

// Implement a hidden interface in "errors".
func (self Err) Unwrap() error {
	return self.Cause
}

func (self Err) while(while string) Err {
	self.While = while
	return self
}

func (self Err) because(cause error) Err {
	self.Cause = cause
	return self
}

/*
Runs the function, converting a panic into an error. Since the compiler, the
merge protocol and the filter tree report caller bugs by panicking, this should
be used by apps that insist on errors-as-values:

	var stmt sqli.Stmt
	err := sqli.Catch(func() { stmt = sqli.Compile(text, args...) })

Panics with non-error values are re-raised.
*/
func Catch(fun func()) (err error) {
	defer rec(&err)
	if fun != nil {
		fun()
	}
	return
}

// Must be deferred.
func rec(ptr *error) {
	val := recover()
	if val == nil {
		return
	}

	err, _ := val.(error)
	if err != nil {
		*ptr = err
		return
	}

	panic(val)
}
