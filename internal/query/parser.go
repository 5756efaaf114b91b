package query

import (
	"regexp"
	"strings"

	"github.com/altinukshini/harvester-reports/internal/model"
)

var (
	// Quotes around the bounds are optional.
	rangePattern = regexp.MustCompile(`@timestamp:\["?([^"\]]+)"?\s+TO\s+"?([^"\]]+|\*)"?\]`)

	actionPrefix     = regexp.MustCompile(`(?i)action:record\.publish\s+AND\s+`)
	userPrefix       = regexp.MustCompile(`(?i)user\.id:system\s+AND\s+`)
	rangeWithAnd     = regexp.MustCompile(`(?i)@timestamp:\[.*?\]\s+AND\s+`)
	rangeBare        = regexp.MustCompile(`(?i)@timestamp:\[.*?\]`)
	trailingAnd      = regexp.MustCompile(`(?i)\s+AND\s*$`)
	leadingAnd       = regexp.MustCompile(`(?i)^\s+AND\s+`)
	wrappingBrackets = regexp.MustCompile(`^\((.*)\)$`)
)

// Parsed is what a query string says about the run and the free text.
type Parsed struct {
	Run  *model.Run
	Text string
}

// Parse recovers the run and free text from a query string previously
// produced by Build. Run is nil when no run in runs spans the query's
// timestamp window.
func Parse(q string, runs []model.Run) Parsed {
	return Parsed{Run: MatchRun(q, runs), Text: ExtractText(q)}
}

// ExtractRange finds the first @timestamp window in q.
func ExtractRange(q string) (TimestampRange, bool) {
	m := rangePattern.FindStringSubmatch(q)
	if m == nil {
		return TimestampRange{}, false
	}
	return TimestampRange{Start: m[1], End: m[2]}, true
}

// MatchRun returns the run whose window equals the one in q, compared as
// strings. The returned pointer aliases runs.
func MatchRun(q string, runs []model.Run) *model.Run {
	if q == "" || len(runs) == 0 {
		return nil
	}
	r, ok := ExtractRange(q)
	if !ok {
		return nil
	}
	for i := range runs {
		if r.Matches(runs[i]) {
			return &runs[i]
		}
	}
	return nil
}

// ExtractText strips the generated clauses from q and returns what the
// user typed. This is textual: free text that itself contains the clause
// literals is not recovered faithfully.
func ExtractText(q string) string {
	if q == "" {
		return ""
	}
	cleaned := actionPrefix.ReplaceAllString(q, "")
	cleaned = userPrefix.ReplaceAllString(cleaned, "")
	cleaned = rangeWithAnd.ReplaceAllString(cleaned, "")
	cleaned = rangeBare.ReplaceAllString(cleaned, "")
	cleaned = trailingAnd.ReplaceAllString(cleaned, "")
	cleaned = leadingAnd.ReplaceAllString(cleaned, "")

	cleaned = strings.TrimSpace(cleaned)
	// Queries built without a run end on the bare user clause.
	if strings.EqualFold(cleaned, UserClause) {
		return ""
	}
	if m := wrappingBrackets.FindStringSubmatch(cleaned); m != nil {
		return strings.TrimSpace(m[1])
	}
	return cleaned
}
