package ui

import (
	"fmt"
	"time"

	"github.com/altinukshini/harvester-reports/internal/model"
)

const (
	RunningText = "Running..."
	dateLayout  = "Jan 2, 2006, 03:04 PM"
)

// FormatRunDuration renders the time between start and end. A run with
// either side missing (or unparsable) is still running.
func FormatRunDuration(start, end model.Timestamp) string {
	s, ok := start.Time()
	if !ok {
		return RunningText
	}
	e, ok := end.Time()
	if !ok {
		return RunningText
	}
	return FormatDuration(e.Sub(s))
}

// FormatDuration prints whole seconds as "Hh Mm Ss", "Mm Ss" or "Ss".
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := secs % 3600 / 60
	sec := secs % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, sec)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, sec)
	default:
		return fmt.Sprintf("%ds", sec)
	}
}

// FormatDate renders ts in local time, or N/A.
func FormatDate(ts model.Timestamp) string {
	t, ok := ts.Time()
	if !ok {
		if ts.IsZero() {
			return model.NotAvailable
		}
		return ts.String()
	}
	return t.Local().Format(dateLayout)
}

// RunOptionText is how a run is listed in the run selector.
func RunOptionText(r model.Run) string {
	return FormatDate(r.StartedAt)
}
