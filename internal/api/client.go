package api

import (
	"context"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	ghAPI "github.com/cli/go-gh/v2/pkg/api"
	"github.com/pkg/errors"
)

const acceptHeader = "application/vnd.inveniordm.v1+json"

// Options configures a Client. BaseURL and Token are required.
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// Log receives a verbose trace of every request when set.
	Log io.Writer
	// CacheTTL enables go-gh's on-disk response cache for GET requests.
	CacheTTL time.Duration
}

type Client struct {
	http *http.Client
	base *url.URL
}

func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("base url is required")
	}
	if opts.Token == "" {
		return nil, errors.New("api token is required (set token or HARVESTER_TOKEN)")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("base url %q must be absolute", opts.BaseURL)
	}

	httpClient, err := ghAPI.NewHTTPClient(ghAPI.ClientOptions{
		Host:               base.Hostname(),
		AuthToken:          opts.Token,
		Transport:          http.DefaultTransport,
		SkipDefaultHeaders: true,
		Headers: map[string]string{
			"Authorization": "Bearer " + opts.Token,
			"Accept":        acceptHeader,
		},
		Timeout:        opts.Timeout,
		Log:            opts.Log,
		LogIgnoreEnv:   true,
		LogVerboseHTTP: opts.Log != nil,
		EnableCache:    opts.CacheTTL > 0,
		CacheTTL:       opts.CacheTTL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create http client")
	}
	return &Client{http: httpClient, base: base}, nil
}

// BaseURL is the instance root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, path string, q url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, q), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	return req, nil
}

// do sends the request and turns any non-2xx answer into a *ghAPI.HTTPError.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, ghAPI.HandleHTTPError(resp)
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, q)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	return body, nil
}

// StatusCode extracts the HTTP status from an error returned by the client,
// or 0 when the request never got an answer.
func StatusCode(err error) int {
	var httpErr *ghAPI.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
