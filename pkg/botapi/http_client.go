package botapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// HTTPClient implements Client over the bot backend's JSON API.
type HTTPClient struct {
	mu   sync.RWMutex
	cfg  Config
	http *http.Client
}

var _ Client = &HTTPClient{}

func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("bot api: empty base URL")
	}
	return &HTTPClient{cfg: cfg, http: http.DefaultClient}, nil
}

// SetConfig swaps the backend target; in-flight requests keep the old one.
func (c *HTTPClient) SetConfig(cfg Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if strings.TrimSpace(cfg.URL) != "" {
		c.cfg.URL = cfg.URL
	}
	if cfg.Universe != "" {
		c.cfg.Universe = cfg.Universe
	}
	if cfg.Subsidiary != "" {
		c.cfg.Subsidiary = cfg.Subsidiary
	}
}

func (c *HTTPClient) config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

func (c *HTTPClient) Talk(ctx context.Context, text string, contextID string, options map[string]any) (TalkResponse, error) {
	body := map[string]any{"text": text}
	if contextID != "" {
		body["contextId"] = contextID
	}
	if len(options) > 0 {
		body["parameters"] = options
	}
	var resp TalkResponse
	if err := c.post(ctx, "/talk", body, &resp); err != nil {
		return TalkResponse{}, err
	}
	return resp, nil
}

func (c *HTTPClient) History(ctx context.Context, contextID string) ([]HistoryMessage, error) {
	if strings.TrimSpace(contextID) == "" {
		return nil, errors.New("bot api: empty context id")
	}
	var out []HistoryMessage
	if err := c.get(ctx, "/history", url.Values{"contextId": {contextID}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AutomaticMessage(ctx context.Context, universe string, subsidiary string) (HistoryMessage, error) {
	body := map[string]any{"universe": universe, "subsidiary": subsidiary}
	var out HistoryMessage
	if err := c.post(ctx, "/automatic-message", body, &out); err != nil {
		return HistoryMessage{}, err
	}
	return out, nil
}

func (c *HTTPClient) InformationBanner(ctx context.Context) (Banner, error) {
	var out Banner
	if err := c.get(ctx, "/banner", nil, &out); err != nil {
		return Banner{}, err
	}
	return out, nil
}

func (c *HTTPClient) Suggestions(ctx context.Context, partial string) ([]Suggestion, error) {
	var out []Suggestion
	if err := c.get(ctx, "/suggestions", url.Values{"text": {partial}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Feedback(ctx context.Context, contextID string, sentiment string, details string) error {
	body := map[string]any{"contextId": contextID, "sentiment": sentiment}
	if details != "" {
		body["details"] = details
	}
	return c.post(ctx, "/feedback", body, nil)
}

func (c *HTTPClient) TopKnowledge(ctx context.Context, maxKnowledge int) ([]string, error) {
	var out []string
	if err := c.get(ctx, "/top-knowledge", url.Values{"max": {strconv.Itoa(maxKnowledge)}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.config().URL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return errors.Wrapf(err, "bot api: build GET %s", path)
	}
	return c.do(req, path, out)
}

func (c *HTTPClient) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrapf(err, "bot api: encode POST %s", path)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config().URL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrapf(err, "bot api: build POST %s", path)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *HTTPClient) do(req *http.Request, path string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "bot api: %s %s", req.Method, path)
	}
	defer func() { _ = resp.Body.Close() }()
	log.Debug().Str("component", "botapi").Str("method", req.Method).Str("path", path).Int("status", resp.StatusCode).Msg("bot api call")
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("bot api: %s %s returned %d", req.Method, path, resp.StatusCode)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "bot api: decode %s response", path)
	}
	return nil
}
