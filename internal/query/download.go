package query

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DownloadPath is where the plain-text export of a query is served.
const DownloadPath = "/harvester-reports/download"

// ErrEmptyQuery is returned when there is no query to export.
var ErrEmptyQuery = errors.New("no query to download")

// DownloadURL returns the export location for q relative to base
// (which may be empty for a path-only URL).
func DownloadURL(base, q string) (string, error) {
	if q == "" {
		return "", ErrEmptyQuery
	}
	return strings.TrimRight(base, "/") + DownloadPath + "?q=" + EncodeURIComponent(q), nil
}

// uriMarks are left as-is by EncodeURIComponent but escaped by url.QueryEscape.
var uriMarks = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent percent-encodes s for a query parameter value.
// Unreserved characters and the marks ! ' ( ) * stay literal, and spaces
// become %20.
func EncodeURIComponent(s string) string {
	return uriMarks.Replace(url.QueryEscape(s))
}

// ExportFilename names a plain-text export taken at t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("harvester_logs_%s.txt", t.Format("20060102_150405"))
}
