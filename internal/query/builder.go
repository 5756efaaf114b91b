// Package query builds and parses the audit log query strings that scope a
// search to one harvester run.
package query

import (
	"fmt"
	"strings"

	"github.com/altinukshini/harvester-reports/internal/model"
)

const (
	ActionClause = "action:record.publish"
	UserClause   = "user.id:system"

	// OpenEnd is the upper bound of a run that has not finished yet.
	OpenEnd = "*"
)

// TimestampRange is the @timestamp window of a run.
type TimestampRange struct {
	Start string
	End   string
}

// RangeOf returns the timestamp window of run. Runs without a start
// timestamp have no window.
func RangeOf(run *model.Run) (TimestampRange, bool) {
	if run == nil || run.StartedAt.IsZero() {
		return TimestampRange{}, false
	}
	end := OpenEnd
	if !run.FinishedAt.IsZero() {
		end = run.FinishedAt.String()
	}
	return TimestampRange{Start: run.StartedAt.String(), End: end}, true
}

// Matches reports whether run spans exactly this window.
func (r TimestampRange) Matches(run model.Run) bool {
	rr, ok := RangeOf(&run)
	return ok && rr == r
}

func (r TimestampRange) String() string {
	return fmt.Sprintf(`@timestamp:["%s" TO "%s"]`, r.Start, r.End)
}

// Expression carries the clauses of a harvester query separately until
// it is serialized for the backend.
type Expression struct {
	Range    TimestampRange
	HasRange bool
	Text     string
}

// New builds the expression for run with the user's free text. The text
// is trimmed but otherwise passed through as typed.
func New(run *model.Run, text string) Expression {
	r, ok := RangeOf(run)
	return Expression{Range: r, HasRange: ok, Text: strings.TrimSpace(text)}
}

// String serializes the expression to the backend query grammar.
func (e Expression) String() string {
	var b strings.Builder
	b.WriteString(ActionClause)
	b.WriteString(" AND ")
	b.WriteString(UserClause)
	if e.HasRange {
		b.WriteString(" AND ")
		b.WriteString(e.Range.String())
	}
	if e.Text != "" {
		b.WriteString(" AND (")
		b.WriteString(e.Text)
		b.WriteString(")")
	}
	return b.String()
}

// Build returns the query string for run and free text.
func Build(run *model.Run, text string) string {
	return New(run, text).String()
}
