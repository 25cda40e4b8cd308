// Package assert provides lightweight runtime invariant checks.
// Failures panic immediately; they are meant to catch programmer errors
// (broken invariants), not to validate untrusted input.
package assert

import "fmt"

// Assert panics with the formatted message if cond is false.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

// IsNil panics with the formatted message if err is non-nil.
func IsNil(err error, format string, args ...any) {
	if err != nil {
		panic(fmt.Sprintf(format, args...) + ": " + err.Error())
	}
}

// IsNotNil panics with the formatted message if v is nil.
func IsNotNil(v any, format string, args ...any) {
	if v == nil {
		panic(fmt.Sprintf(format, args...))
	}
}

// Never panics unconditionally; used for branches that should be unreachable.
func Never(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}
