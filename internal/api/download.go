package api

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/altinukshini/harvester-reports/internal/query"
)

// DownloadLogs streams the plain-text export of q. The caller closes the
// reader.
func (c *Client) DownloadLogs(ctx context.Context, q string) (io.ReadCloser, error) {
	if q == "" {
		return nil, query.ErrEmptyQuery
	}
	req, err := c.newRequest(ctx, http.MethodGet, query.DownloadPath, url.Values{"q": {q}})
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/plain")
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// DownloadURL is the export location of q on this instance, for a browser.
func (c *Client) DownloadURL(q string) (string, error) {
	return query.DownloadURL(c.BaseURL(), q)
}
