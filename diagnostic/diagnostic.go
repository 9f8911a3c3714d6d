// Copyright © 2026 The jank authors

// Package diagnostic renders compiler errors as annotated source snippets.
package diagnostic

import (
	"errors"

	"github.com/jank-lang/jank-sub005/analyze"
	"github.com/jank-lang/jank-sub005/form"
	"github.com/jank-lang/jank-sub005/reader"
	"go.uber.org/multierr"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight.
type Span struct {
	File    string
	Line    int // 1-based
	Col     int // 1-based
	EndLine int // 0 when the span ends on Line
	EndCol  int // inclusive; 0 = auto-detect from source
	Label   string
}

// SpanOf returns the span covering loc.
func SpanOf(loc *form.Location, label string) Span {
	return Span{
		File:    loc.File,
		Line:    loc.Line,
		Col:     loc.Col,
		EndLine: loc.EndLine,
		EndCol:  loc.EndCol,
		Label:   label,
	}
}

// Diagnostic is a single error, warning or note with optional source
// annotations and trailing notes.
type Diagnostic struct {
	Severity Severity
	// Code is a short classification shown after the severity,
	// e.g. "unresolved name".
	Code    string
	Message string
	Spans   []Span
	Notes   []string
}

// FromError converts err into diagnostics.  Errors combined with multierr
// produce one diagnostic each.
func FromError(err error) []Diagnostic {
	if err == nil {
		return nil
	}
	var diags []Diagnostic
	for _, e := range multierr.Errors(err) {
		diags = append(diags, fromError(e))
	}
	return diags
}

func fromError(err error) Diagnostic {
	var aerr *analyze.Error
	if errors.As(err, &aerr) {
		d := Diagnostic{
			Severity: SeverityError,
			Code:     aerr.Kind.String(),
			Message:  aerr.Message,
			Notes:    aerr.Notes,
		}
		if aerr.Source != nil {
			d.Spans = []Span{SpanOf(aerr.Source, label(aerr))}
		}
		return d
	}
	var rerr *reader.Error
	if errors.As(err, &rerr) {
		d := Diagnostic{Severity: SeverityError, Code: "read error", Message: rerr.Message}
		if rerr.Source != nil {
			d.Spans = []Span{SpanOf(rerr.Source, "")}
		}
		return d
	}
	return Diagnostic{Severity: SeverityError, Message: err.Error()}
}

func label(err *analyze.Error) string {
	switch err.Kind {
	case analyze.UnresolvedNameError:
		return "not found in this scope"
	case analyze.RecursionTargetError:
		return "recur not allowed here"
	default:
		return ""
	}
}
