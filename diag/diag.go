// Package diag holds the position-carrying diagnostics unstablegen reports.
package diag

import (
	"fmt"
	"go/token"
	"sort"

	"go.uber.org/multierr"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	SevWarning Severity = iota
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// Code classifies a diagnostic.
type Code string

const (
	// Config is a malformed or unrecognized directive argument.
	Config Code = "config"
	// Unsupported is a directive on a construct outside the supported kinds.
	Unsupported Code = "unsupported"
	// Collision is a generated name that clashes with an existing one.
	Collision Code = "collision"
	// Import is an import the generator cannot carry into its output.
	Import Code = "import"
	// Source is a source file the generator cannot read or parse.
	Source Code = "source"
)

// Diagnostic is a problem tied to a source position.
type Diagnostic struct {
	Pos      token.Position
	Severity Severity
	Code     Code
	Message  string
}

// Errorf returns an error diagnostic.
func Errorf(pos token.Position, code Code, format string, args ...any) *Diagnostic {
	return &Diagnostic{Pos: pos, Severity: SevError, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Warnf returns a warning diagnostic.
func Warnf(pos token.Position, code Code, format string, args ...any) *Diagnostic {
	return &Diagnostic{Pos: pos, Severity: SevWarning, Code: code, Message: fmt.Sprintf(format, args...)}
}

func (d *Diagnostic) Error() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", d.Pos, d.Message)
	}
	return d.Message
}

// List collects diagnostics for one unit of work.
type List []*Diagnostic

// Add appends d.
func (l *List) Add(d *Diagnostic) {
	*l = append(*l, d)
}

// HasErrors reports whether any diagnostic is an error.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by file, line and column.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		a, b := l[i].Pos, l[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// Err combines the error diagnostics into a single error, or nil.
func (l List) Err() error {
	var err error
	for _, d := range l {
		if d.Severity >= SevError {
			err = multierr.Append(err, d)
		}
	}
	return err
}
