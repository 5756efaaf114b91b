package search

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Query selects lines of a plain-text audit log export.
type Query struct {
	Pattern       string
	IsRegex       bool
	CaseSensitive bool
	// Action keeps only lines for this audit action, e.g. "record.publish".
	Action string
}

type Match struct {
	Line    int // 1-based
	Action  string
	Content string
}

type Results struct {
	Query        Query
	Matches      []Match
	ActionCounts map[string]int
	TotalCount   int
}

type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// Search scans an export line by line. An empty pattern matches every line.
func (e *Engine) Search(content string, query Query) (*Results, error) {
	results := &Results{
		Query:        query,
		ActionCounts: make(map[string]int),
	}

	matcher, err := buildMatcher(query)
	if err != nil {
		return results, errors.Wrapf(err, "invalid pattern %q", query.Pattern)
	}

	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		action := ActionOf(line)
		if query.Action != "" && action != query.Action {
			continue
		}
		if !matcher(line) {
			continue
		}
		results.Matches = append(results.Matches, Match{Line: i + 1, Action: action, Content: line})
		results.ActionCounts[action]++
		results.TotalCount++
	}
	return results, nil
}

// ActionOf returns the action field of an export line
// "[timestamp] action type/id user", or "".
func ActionOf(line string) string {
	if !strings.HasPrefix(line, "[") {
		return ""
	}
	end := strings.Index(line, "] ")
	if end < 0 {
		return ""
	}
	fields := strings.Fields(line[end+2:])
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func buildMatcher(query Query) (func(string) bool, error) {
	if query.IsRegex {
		flags := ""
		if !query.CaseSensitive {
			flags = "(?i)"
		}
		re, err := regexp.Compile(flags + query.Pattern)
		if err != nil {
			return nil, err
		}
		return func(line string) bool { return re.MatchString(line) }, nil
	}

	pattern := query.Pattern
	if !query.CaseSensitive {
		pattern = strings.ToLower(pattern)
	}
	return func(line string) bool {
		if !query.CaseSensitive {
			line = strings.ToLower(line)
		}
		return strings.Contains(line, pattern)
	}, nil
}

// Filter returns the matching lines of content joined back into an export.
func (e *Engine) Filter(content string, query Query) (string, error) {
	res, err := e.Search(content, query)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, m := range res.Matches {
		b.WriteString(m.Content)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
