package subtitle

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/therealutkarshpriyadarshi/streamtv/pkg/models"
)

// ErrNetworkFailure is returned when a subtitle file cannot be fetched
var ErrNetworkFailure = errors.New("subtitle fetch failed")

// ErrURLNotAllowed is returned for subtitle URLs outside http(s) or the
// configured host allowlist
var ErrURLNotAllowed = errors.New("subtitle url not allowed")

// FetchError reports a non-2xx response while fetching a subtitle file
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("subtitle fetch %s returned status %d", e.URL, e.StatusCode)
}

// Unwrap lets errors.Is match ErrNetworkFailure
func (e *FetchError) Unwrap() error {
	return ErrNetworkFailure
}

// Result is a parsed subtitle document
type Result struct {
	Source      string          `json:"source"` // data, network
	Cues        []models.VTTCue `json:"cues"`
	Diagnostics []Diagnostic    `json:"diagnostics,omitempty"`
}

// Loader fetches and parses WebVTT documents from data URLs or HTTP URLs.
// Network fetches are bounded by both the caller's context and the timeout.
type Loader struct {
	client       *http.Client
	timeout      time.Duration
	maxBytes     int64
	allowedHosts map[string]struct{}
}

// NewLoader creates a loader with a hardened HTTP client
func NewLoader(timeout time.Duration, maxBytes int64) *Loader {
	return NewLoaderWithClient(NewHTTPClient(), timeout, maxBytes)
}

// NewLoaderWithClient creates a loader using the given HTTP client
func NewLoaderWithClient(client *http.Client, timeout time.Duration, maxBytes int64) *Loader {
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	return &Loader{
		client:   client,
		timeout:  timeout,
		maxBytes: maxBytes,
	}
}

// AllowHosts restricts network fetches to the given host names. An empty
// list allows any host.
func (l *Loader) AllowHosts(hosts ...string) *Loader {
	l.allowedHosts = nil
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		if l.allowedHosts == nil {
			l.allowedHosts = make(map[string]struct{}, len(hosts))
		}
		l.allowedHosts[h] = struct{}{}
	}
	return l
}

// checkURL accepts http(s) URLs whose host is allowed
func (l *Loader) checkURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrURLNotAllowed, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrURLNotAllowed, u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("%w: missing host", ErrURLNotAllowed)
	}
	if l.allowedHosts == nil {
		return nil
	}
	if _, ok := l.allowedHosts[host]; !ok {
		return fmt.Errorf("%w: host %q", ErrURLNotAllowed, host)
	}
	return nil
}

// NewHTTPClient creates an HTTP client with secure defaults. Request
// deadlines come from the loader's context, not the client.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 5,
		},
	}
}

// Fetch returns the raw VTT text behind rawURL
func (l *Loader) Fetch(ctx context.Context, rawURL string) (string, error) {
	if IsDataURL(rawURL) {
		return DecodeDataURL(rawURL)
	}
	if err := l.checkURL(rawURL); err != nil {
		return "", err
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %w", ErrNetworkFailure, err)
	}
	req.Header.Set("Accept", "text/vtt, text/plain;q=0.9, */*;q=0.5")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes))
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %w", ErrNetworkFailure, err)
	}

	return string(body), nil
}

// Load fetches and leniently parses the document behind rawURL
func (l *Loader) Load(ctx context.Context, rawURL string) ([]models.VTTCue, error) {
	text, err := l.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return Parse(text), nil
}

// LoadResult fetches and parses the document behind rawURL, including
// diagnostics for skipped timing lines when strict is set.
func (l *Loader) LoadResult(ctx context.Context, rawURL string, strict bool) (*Result, error) {
	text, err := l.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	result := &Result{Source: SourceOf(rawURL)}
	if strict {
		result.Cues, result.Diagnostics = ParseStrict(text)
	} else {
		result.Cues = Parse(text)
	}
	return result, nil
}

// SourceOf labels a subtitle URL as "data" or "network"
func SourceOf(rawURL string) string {
	if IsDataURL(rawURL) {
		return "data"
	}
	return "network"
}
