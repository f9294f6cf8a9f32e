// Package patchkit talks to the patch-distribution service: connectivity
// checks, version and app-info lookups, and chunked package downloads.
package patchkit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultAPIURL is the production distribution endpoint.
	DefaultAPIURL = "https://api2.patchkit.net"

	dialTimeout    = 10 * time.Second
	requestTimeout = 10 * time.Second
)

// DefaultTestURLs are probed in order by CheckConnection. The first one is
// the dedicated network-test endpoint and must answer with body "ok"; the
// rest only need to answer successfully.
var DefaultTestURLs = []string{
	"https://network-test.patchkit.net",
	"https://api2.patchkit.net",
	"https://google.com",
}

// Client is the distribution-service transport. There is no retry or backoff
// anywhere: every call fails fast.
type Client struct {
	http     *http.Client
	baseURL  string
	testURLs []string
	logf     func(format string, v ...any)
}

// ContentURL is one downloadable artefact for a version.
type ContentURL struct {
	Size uint64 `json:"size"`
	URL  string `json:"url"`
}

// AppInfo is the server-side application record; its patcher secret, when
// present, supersedes the one embedded in the local credential file.
type AppInfo struct {
	PatcherSecret string `json:"patcher_secret"`
	DisplayName   string `json:"display_name,omitempty"`
}

// Progress reports download state once per received chunk.
type Progress struct {
	Bytes      int64
	TotalBytes int64
	SpeedKBps  float64
}

// NewClient constructs a client. Empty baseURL and nil testURLs select the
// defaults; PK_RUNNER_API_URL overrides the base URL.
func NewClient(baseURL string, testURLs []string, logf func(format string, v ...any)) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	if env := os.Getenv("PK_RUNNER_API_URL"); env != "" {
		baseURL = env
	}
	if len(testURLs) == 0 {
		testURLs = DefaultTestURLs
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{Timeout: dialTimeout}).DialContext,
	}
	return &Client{
		http:     &http.Client{Transport: transport},
		baseURL:  strings.TrimRight(baseURL, "/"),
		testURLs: testURLs,
		logf:     logf,
	}
}

// CheckConnection probes the test URLs in order and reports whether any
// endpoint is reachable. An unreachable network is not an error; it is a
// false result.
func (c *Client) CheckConnection(ctx context.Context) bool {
	for i, url := range c.testURLs {
		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		ok := c.probe(reqCtx, url, i == 0)
		cancel()
		if ok {
			return true
		}
	}
	c.logf("all network connection attempts failed")
	return false
}

func (c *Client) probe(ctx context.Context, url string, wantOKBody bool) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logf("network test failed for %s: %v", url, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logf("network test status %s for %s", resp.Status, url)
		return false
	}
	if !wantOKBody {
		return true
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		c.logf("read network test body from %s: %v", url, err)
		return false
	}
	if strings.TrimSpace(string(body)) != "ok" {
		c.logf("unexpected network test body from %s: %q", url, body)
		return false
	}
	return true
}

// LatestVersion fetches the latest version id for the application identified
// by the patcher secret. The service reports the id as either a string or a
// number.
func (c *Client) LatestVersion(ctx context.Context, patcherSecret string) (string, error) {
	url := fmt.Sprintf("%s/1/apps/%s/versions/latest/id", c.baseURL, patcherSecret)

	var resp struct {
		ID versionID `json:"id"`
	}
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return "", fmt.Errorf("fetch latest version: %w", err)
	}
	return string(resp.ID), nil
}

// FetchAppInfo looks up the server-side application record. Callers prefer
// its patcher secret over the embedded one, which lets the service rotate
// secrets without re-issuing credential files.
func (c *Client) FetchAppInfo(ctx context.Context, patcherSecret string) (AppInfo, error) {
	url := fmt.Sprintf("%s/1/apps/%s", c.baseURL, patcherSecret)

	var info AppInfo
	if err := c.getJSON(ctx, url, &info); err != nil {
		return AppInfo{}, fmt.Errorf("fetch app info: %w", err)
	}
	return info, nil
}

// ContentURLs fetches the download locations for a specific version.
func (c *Client) ContentURLs(ctx context.Context, patcherSecret, versionID string) ([]ContentURL, error) {
	url := fmt.Sprintf("%s/1/apps/%s/versions/%s/content_urls", c.baseURL, patcherSecret, versionID)

	var urls []ContentURL
	if err := c.getJSON(ctx, url, &urls); err != nil {
		return nil, fmt.Errorf("fetch content urls: %w", err)
	}
	return urls, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Download streams the artefact at url into dest, invoking progress once per
// received chunk from the calling goroutine. The body is written to a temp
// file and renamed into place only after the stream completes. No overall
// timeout applies; only the dial timeout and ctx bound the transfer.
func (c *Client) Download(ctx context.Context, url, dest string, progress func(Progress)) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("prepare download destination: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "download-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}

	var downloaded int64
	start := time.Now()
	buf := make([]byte, 32*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := tmp.Write(buf[:n]); err != nil {
				tmp.Close()
				return fmt.Errorf("write temp file: %w", err)
			}
			downloaded += int64(n)
			if progress != nil {
				elapsed := time.Since(start).Seconds()
				speed := 0.0
				if elapsed > 0 {
					speed = float64(downloaded) / (1024.0 * elapsed)
				}
				progress(Progress{Bytes: downloaded, TotalBytes: total, SpeedKBps: speed})
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			tmp.Close()
			return fmt.Errorf("read download stream: %w", readErr)
		}
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("finalize download: %w", err)
	}
	c.logf("downloaded %d bytes to %s", downloaded, dest)
	return nil
}

// versionID accepts either a JSON string or number.
type versionID string

func (v *versionID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = versionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = versionID(n.String())
	return nil
}
