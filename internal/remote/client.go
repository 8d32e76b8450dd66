// Package remote talks to the GitHub REST API that hosts the traineddata
// repositories: tags, branch refs, recursive trees and raw file content.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"regexp"
	"strings"

	"tessdl/internal/observability"
	"tessdl/pkg/errors"
	"tessdl/pkg/models"
)

// DefaultBaseURL is the public GitHub API
const DefaultBaseURL = "https://api.github.com"

const (
	mediaTypeJSON = "application/vnd.github+json"
	mediaTypeRaw  = "application/vnd.github.v3.raw"
)

// Client is a small GitHub REST client. It is not safe to share a Client
// whose options are still being changed.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *observability.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another API root, e.g. a test server
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client, which carries any proxy configuration
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(logger *observability.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the public GitHub API
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    DefaultBaseURL,
		userAgent:  "tessdl",
		logger:     observability.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) repoURL(repo models.Repository, parts ...string) string {
	u := c.baseURL + "/repos/" + repo.FullName()
	if len(parts) > 0 {
		u += "/" + strings.Join(parts, "/")
	}
	return u
}

// ContentURL builds the contents API URL for a path at ref. Every path
// segment and the ref are escaped.
func (c *Client) ContentURL(repo models.Repository, ref, path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = neturl.PathEscape(s)
	}
	return c.repoURL(repo, "contents", strings.Join(segments, "/")) + "?ref=" + neturl.QueryEscape(ref)
}

func (c *Client) newRequest(ctx context.Context, method, url, accept string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "Failed to build request").
			WithContext("url", url)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	return req, nil
}

// do performs the request and fails on transport errors and non-2xx statuses
func (c *Client) do(req *http.Request) (*http.Response, error) {
	c.logger.DebugWithFields("api request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NetworkError(req.URL.String(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, errors.StatusError(req.URL.String(), resp.StatusCode)
	}
	return resp, nil
}

// getJSON fetches url and returns the raw body and the response header
func (c *Client) getJSON(ctx context.Context, url string) ([]byte, http.Header, error) {
	req, err := c.newRequest(ctx, http.MethodGet, url, mediaTypeJSON)
	if err != nil {
		return nil, nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errors.NetworkError(url, err)
	}
	return data, resp.Header, nil
}

func (c *Client) decode(url string, data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return unexpectedResponse(url, err)
	}
	return nil
}

// OpenContent starts a raw content download. The returned size is the
// Content-Length, or -1 when the server did not send one.
func (c *Client) OpenContent(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, url, mediaTypeRaw)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, 0, err
	}
	return resp.Body, resp.ContentLength, nil
}

func unexpectedResponse(url string, cause error) *errors.AppError {
	return errors.Wrap(cause, errors.ErrCodeAPIResponse, "Unexpected response structure from GitHub API").
		WithSeverity(errors.SeverityWarning).
		WithContext("url", url)
}

var nextLinkPattern = regexp.MustCompile(`<([^>]+)>\s*;\s*rel="next"`)

// nextPage extracts the rel="next" URL from a Link header
func nextPage(header http.Header) string {
	m := nextLinkPattern.FindStringSubmatch(header.Get("Link"))
	if m == nil {
		return ""
	}
	return m[1]
}

func requireKnown(repo models.Repository) error {
	if !repo.IsKnown() {
		return errors.UnknownRepositoryError(string(repo)).
			WithSuggestions(fmt.Sprintf("Choose one of: %s", models.RepositoryNames()))
	}
	return nil
}
