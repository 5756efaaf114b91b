package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type RunStatus string

const (
	RunStatusSuccess        RunStatus = "S"
	RunStatusFailure        RunStatus = "F"
	RunStatusRunning        RunStatus = "R"
	RunStatusCancelled      RunStatus = "C"
	RunStatusQueued         RunStatus = "Q"
	RunStatusPartialSuccess RunStatus = "P"
)

// Timestamp keeps a run boundary exactly as the backend serialized it.
// Run matching compares these strings, never parsed times. The zero value
// means "absent" and round-trips through JSON as null.
type Timestamp string

// Python's isoformat() emits naive timestamps for UTC columns.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t Timestamp) IsZero() bool {
	return t == ""
}

func (t Timestamp) String() string {
	return string(t)
}

// Time parses the timestamp. Naive values are taken as UTC.
func (t Timestamp) Time() (time.Time, bool) {
	if t == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, string(t)); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

// NewTimestamp serializes a time the way runs loaded from the database are keyed.
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return ""
	}
	return Timestamp(t.UTC().Format(time.RFC3339Nano))
}

// ISOTimestamp serializes a naive UTC column value the way the reports
// backend does: seconds precision, plus microseconds only when non-zero.
func ISOTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return ""
	}
	t = t.UTC()
	s := t.Format("2006-01-02T15:04:05")
	if us := t.Nanosecond() / 1000; us != 0 {
		s += fmt.Sprintf(".%06d", us)
	}
	return Timestamp(s)
}

// Run is one execution of the harvesting job.
type Run struct {
	ID         string    `json:"id"`
	Title      string    `json:"title,omitempty"`
	StartedAt  Timestamp `json:"started_at"`
	FinishedAt Timestamp `json:"finished_at"`
	Status     RunStatus `json:"status"`
	Message    string    `json:"message,omitempty"`
}

// InProgress reports whether the run has no end timestamp yet.
func (r Run) InProgress() bool {
	return r.FinishedAt.IsZero()
}

func (r Run) Duration() time.Duration {
	start, ok := r.StartedAt.Time()
	if !ok {
		return 0
	}
	end, ok := r.FinishedAt.Time()
	if !ok || end.Before(start) {
		return 0
	}
	return end.Sub(start)
}

// RunsPayload is what the reports page hands to the run selector.
type RunsPayload struct {
	Runs       []Run `json:"runs"`
	DefaultRun *Run  `json:"default_run"`
}

// RunByID returns a pointer into p.Runs, or nil.
func (p RunsPayload) RunByID(id string) *Run {
	for i := range p.Runs {
		if p.Runs[i].ID == id {
			return &p.Runs[i]
		}
	}
	return nil
}
