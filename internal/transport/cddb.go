// Package transport performs the HTTP side of the freedb CGI protocol.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"discmeta/internal/freedb"
)

const (
	DefaultServerURL = "http://gnudb.gnudb.org"
	DefaultCGIPath   = "/~cddb/cddb.cgi"
)

// Client is a freedb CGI client that implements freedb.Transport.
type Client struct {
	httpClient *http.Client
	serverURL  string
	cgiPath    string
	userAgent  string
}

// New creates a client for serverURL. Empty arguments fall back to the
// gnudb defaults; a zero timeout means 10 seconds.
func New(serverURL, cgiPath string, timeout time.Duration) *Client {
	if serverURL == "" {
		serverURL = DefaultServerURL
	}
	if cgiPath == "" {
		cgiPath = DefaultCGIPath
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		serverURL:  strings.TrimSuffix(serverURL, "/"),
		cgiPath:    cgiPath,
		userAgent:  userAgent(""),
	}
}

// Configure sets the hostname announced in the User-Agent header.
func (c *Client) Configure(hostname string) {
	c.userAgent = userAgent(hostname)
}

func (c *Client) Path() string { return c.cgiPath }

// Get requests path (CGI path plus query string) and returns the reply body verbatim.
func (c *Client) Get(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create freedb request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("freedb request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read freedb response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("freedb server returned %d: %s", resp.StatusCode, body)
	}

	return string(body), nil
}

func userAgent(hostname string) string {
	ua := freedb.ClientName + "/" + freedb.ClientVersion
	if hostname != "" {
		ua += " (" + hostname + ")"
	}
	return ua
}
