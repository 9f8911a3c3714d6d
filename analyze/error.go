// Copyright © 2026 The jank authors

package analyze

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jank-lang/jank-sub005/form"
)

// ErrorKind classifies analysis errors.
type ErrorKind int

const (
	// SyntaxError is a malformed special form.
	SyntaxError ErrorKind = iota
	// UnresolvedNameError is a symbol, var, foreign type or foreign scope
	// that could not be found.
	UnresolvedNameError
	// RecursionTargetError is a recur with no reachable function.
	RecursionTargetError
	// StructuralError is a form with clauses in an invalid arrangement,
	// such as two catch clauses.
	StructuralError
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "syntax error"
	case UnresolvedNameError:
		return "unresolved name"
	case RecursionTargetError:
		return "invalid recursion target"
	case StructuralError:
		return "structural error"
	default:
		return "analysis error"
	}
}

// Error is an analysis failure for one top-level form.
type Error struct {
	Kind    ErrorKind
	Message string
	// Name is the unresolved name for UnresolvedNameError.
	Name   string
	Source *form.Location
	Notes  []string
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Source != nil {
		b.WriteString(e.Source.String())
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

// IsKind reports whether err wraps an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var aerr *Error
	return errors.As(err, &aerr) && aerr.Kind == kind
}

func newError(kind ErrorKind, f *form.Form, format string, args ...interface{}) *Error {
	e := &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
	if f != nil {
		e.Source = f.Source
	}
	return e
}

func syntaxError(f *form.Form, format string, args ...interface{}) *Error {
	return newError(SyntaxError, f, format, args...)
}

func unresolved(f *form.Form, name, format string, args ...interface{}) *Error {
	e := newError(UnresolvedNameError, f, format, args...)
	e.Name = name
	return e
}

func (e *Error) note(format string, args ...interface{}) *Error {
	e.Notes = append(e.Notes, fmt.Sprintf(format, args...))
	return e
}
