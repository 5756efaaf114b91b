package ui

import (
	"github.com/altinukshini/harvester-reports/internal/cache"
	"github.com/altinukshini/harvester-reports/internal/model"
)

// Data fetched messages
type RunsLoadedMsg struct {
	Payload model.RunsPayload
	Err     error
}

// RunSelectedMsg is sent by the run list when the user picks a run.
type RunSelectedMsg struct {
	RunID string
}

// QuerySubmittedMsg is sent by the search box on enter.
type QuerySubmittedMsg struct {
	Text string
}

// QueryInputMsg carries every edit of the search box.
type QueryInputMsg struct {
	Text string
}

// QueryChangedMsg follows any change of the shared query state.
type QueryChangedMsg struct {
	State model.QueryState
}

type AuditLogsLoadedMsg struct {
	Query string
	Page  model.AuditLogPage
	Err   error
}

type ExportLoadedMsg struct {
	Query   string
	Content string
	Cached  bool
	Err     error
}

type BrowserOpenedMsg struct {
	URL string
	Err error
}

type StatusMsg struct {
	Text string
}

// ExportsListedMsg carries the cached exports, newest first.
type ExportsListedMsg struct {
	Entries   []cache.Entry
	TotalSize int64
	Err       error
}

type ExportsDeletedMsg struct {
	Count int
	Err   error
}
