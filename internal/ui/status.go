package ui

import (
	"strings"

	"github.com/altinukshini/harvester-reports/internal/model"
)

type statusDisplay struct {
	color string
	icon  string
	label string
}

var unknownStatus = statusDisplay{color: "grey", icon: "circle outline", label: "UNKNOWN"}

var statusDisplays = map[model.RunStatus]statusDisplay{
	model.RunStatusSuccess:        {color: "green", icon: "check circle", label: "SUCCESS"},
	model.RunStatusFailure:        {color: "red", icon: "times circle", label: "FAILURE"},
	model.RunStatusRunning:        {color: "yellow", icon: "spinner", label: "RUNNING"},
	model.RunStatusCancelled:      {color: "orange", icon: "ban", label: "CANCELLED"},
	model.RunStatusQueued:         {color: "grey", icon: "clock outline", label: "QUEUED"},
	model.RunStatusPartialSuccess: {color: "yellow", icon: "warning sign", label: "PARTIAL SUCCESS"},
}

var statusNames = map[string]model.RunStatus{
	"SUCCESS":         model.RunStatusSuccess,
	"FAILURE":         model.RunStatusFailure,
	"RUNNING":         model.RunStatusRunning,
	"CANCELLED":       model.RunStatusCancelled,
	"QUEUED":          model.RunStatusQueued,
	"PARTIAL_SUCCESS": model.RunStatusPartialSuccess,
}

// NormalizeStatus accepts a one-letter code or a long status name in any
// case. ok is false for anything else.
func NormalizeStatus(s string) (model.RunStatus, bool) {
	up := strings.ToUpper(strings.TrimSpace(s))
	if _, ok := statusDisplays[model.RunStatus(up)]; ok {
		return model.RunStatus(up), true
	}
	code, ok := statusNames[up]
	return code, ok
}

func lookupStatus(s string) statusDisplay {
	code, ok := NormalizeStatus(s)
	if !ok {
		return unknownStatus
	}
	return statusDisplays[code]
}

// StatusColor returns the colour name for a run status.
func StatusColor(s string) string { return lookupStatus(s).color }

// StatusIcon returns the icon name for a run status.
func StatusIcon(s string) string { return lookupStatus(s).icon }

// StatusLabel returns the human label for a run status.
func StatusLabel(s string) string { return lookupStatus(s).label }
