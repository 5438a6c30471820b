package diag

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestDiagnosticError(t *testing.T) {
	d := Errorf(token.Position{Filename: "a.go", Line: 3, Column: 7}, Config, "bad %s", "thing")
	assert.Equal(t, "a.go:3:7: bad thing", d.Error())
	assert.Equal(t, SevError, d.Severity)

	w := Warnf(token.Position{}, Source, "no position")
	assert.Equal(t, "no position", w.Error())
	assert.Equal(t, "warning", w.Severity.String())
}

func TestList(t *testing.T) {
	var l List
	assert.NoError(t, l.Err())
	assert.False(t, l.HasErrors())

	l.Add(Warnf(token.Position{Filename: "b.go", Line: 1, Column: 1}, Unsupported, "stray"))
	assert.False(t, l.HasErrors())
	assert.NoError(t, l.Err(), "warnings are not errors")

	l.Add(Errorf(token.Position{Filename: "b.go", Line: 9, Column: 1}, Collision, "second"))
	l.Add(Errorf(token.Position{Filename: "a.go", Line: 20, Column: 1}, Config, "first"))
	l.Add(Errorf(token.Position{Filename: "b.go", Line: 9, Column: 0}, Import, "between"))
	require.True(t, l.HasErrors())

	l.Sort()
	var msgs []string
	for _, d := range l {
		msgs = append(msgs, d.Message)
	}
	assert.Equal(t, []string{"first", "stray", "between", "second"}, msgs)

	errs := multierr.Errors(l.Err())
	require.Len(t, errs, 3)
	assert.Equal(t, "a.go:20:1: first", errs[0].Error())
}
