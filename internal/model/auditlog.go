package model

import "fmt"

// NotAvailable is rendered for audit log fields the backend did not return.
const NotAvailable = "N/A"

// LogEntry is one audit log hit.
type LogEntry struct {
	ID           string
	Created      string
	Action       string
	ResourceType string
	ResourceID   string
	UserID       string
	UserEmail    string
}

// Line formats the entry as one line of a plain-text export:
// [timestamp] action resource_type/resource_id user
func (e LogEntry) Line() string {
	return fmt.Sprintf("[%s] %s %s/%s %s\n",
		orNA(e.Created), orNA(e.Action), orNA(e.ResourceType), orNA(e.ResourceID), orNA(e.UserEmail))
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

// AuditLogPage is one page of audit log search results.
type AuditLogPage struct {
	Total   int
	Entries []LogEntry
}
