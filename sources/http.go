package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/brettbedarf/webedit"
	"github.com/brettbedarf/webedit/internal/util"
)

// MaxFetchBytes caps how much a single source may return.
const MaxFetchBytes = 4 << 20

// HTTPClient is the subset of *http.Client used by [HTTPProvider].
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPSource contains http-specific source config fields
type HTTPSource struct {
	Type    string            `json:"type"`
	URL     string            `json:"url"`
	Name    string            `json:"name,omitempty"` // Default is the last URL path segment
	Headers map[string]string `json:"headers,omitempty"`
}

// HTTPProvider builds [HTTPAdapter] sources sharing one client.
type HTTPProvider struct {
	client HTTPClient
}

// NewHTTPProvider uses http.DefaultClient when client is nil.
func NewHTTPProvider(client HTTPClient) *HTTPProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{client: client}
}

func RegisterHTTP(r *Registry) {
	r.Register(HTTPSourceType, NewHTTPProvider(nil))
}

func (p *HTTPProvider) NewSource(raw []byte) (webedit.ContentSource, error) {
	var cfg HTTPSource
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	u, err := validateURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	return &HTTPAdapter{config: cfg, url: u, client: p.client}, nil
}

func validateURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("url %q has no host", raw)
	}
	if u.User != nil {
		return nil, fmt.Errorf("url must not carry credentials")
	}
	return u, nil
}

// HTTPAdapter implements [webedit.ContentSource] with a GET request.
type HTTPAdapter struct {
	config HTTPSource
	url    *url.URL
	client HTTPClient
}

// Name is the file name the upload will carry.
func (h *HTTPAdapter) Name() string {
	if h.config.Name != "" {
		return h.config.Name
	}
	base := path.Base(h.url.Path)
	if base == "." || base == "/" || base == "" {
		return "index.html"
	}
	return base
}

func (h *HTTPAdapter) Fetch(ctx context.Context) (*webedit.Upload, error) {
	logger := util.GetLogger("HTTPAdapter.Fetch")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url.String(), nil)
	if err != nil {
		return nil, err
	}
	for k, v := range h.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s", h.url.Redacted(), resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxFetchBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", h.url.Redacted(), err)
	}
	if len(body) > MaxFetchBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", h.url.Redacted(), MaxFetchBytes)
	}
	if !utf8.Valid(body) {
		return nil, fmt.Errorf("%s is not a text document", h.url.Redacted())
	}
	logger.Debug().Str("url", h.url.Redacted()).Int("bytes", len(body)).Msg("Fetched")
	return &webedit.Upload{Name: h.Name(), Content: string(body)}, nil
}
