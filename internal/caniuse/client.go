package caniuse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matheuskafuri/caniuse/internal/logging"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://caniuse.com"
	DefaultTimeout = 10 * time.Second

	searchPath = "/process/query.php"
	dataPath   = "/process/get_feat_data.php"

	maxBodySize = 16 << 20
)

// Repo is the GitHub owner/name of this tool, used for release checks and the User-Agent.
const Repo = "matheuskafuri/caniuse"

// UserAgent is sent with every request; cmd sets the version at startup via SetVersion.
var UserAgent = userAgent("dev")

func SetVersion(v string) {
	UserAgent = userAgent(v)
}

func userAgent(v string) string {
	return "caniuse-cli/" + v + " (+https://github.com/" + Repo + ")"
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	Logger     *logrus.Logger

	// Store, when set, serves responses younger than CacheTTL without a request.
	Store    Store
	CacheTTL time.Duration
	// Refresh skips Store reads but still records fresh responses.
	Refresh bool
}

// Client talks to the caniuse search and feature-data endpoints.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	log       *logrus.Logger
	store     Store
	cacheTTL  time.Duration
	refresh   bool
}

func New(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = UserAgent
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Client{
		baseURL:   base,
		userAgent: ua,
		http:      hc,
		log:       log,
		store:     opts.Store,
		cacheTTL:  opts.CacheTTL,
		refresh:   opts.Refresh,
	}
}

type searchResponse struct {
	FeatureIDs *[]string `json:"featureIds"`
}

// Search resolves a free-text term to feature IDs in the service's ranking order.
func (c *Client) Search(ctx context.Context, term string) ([]string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term is empty", ErrUsage)
	}

	params := url.Values{}
	params.Set("search", term)
	u := c.baseURL + searchPath + "?" + params.Encode()

	c.log.WithField("term", term).Info("searching feature IDs")

	body, cached, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding search response: %w", ErrParse, err)
	}
	if resp.FeatureIDs == nil {
		return nil, fmt.Errorf("%w: search response has no featureIds", ErrParse)
	}

	ids := dedupe(*resp.FeatureIDs)
	c.log.WithFields(logrus.Fields{"term": term, "ids": ids}).Debug("parsed search response")
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoResults, term)
	}

	c.remember(u, body, cached)
	return ids, nil
}

// Features fetches full records for exactly ids in one request and returns
// them in the order of ids. IDs the service does not know are skipped.
func (c *Client) Features(ctx context.Context, ids []string) ([]Feature, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no feature IDs to fetch", ErrNoResults)
	}

	params := url.Values{}
	params.Set("type", "support-data")
	params.Set("feat", strings.Join(ids, ","))
	u := c.baseURL + dataPath + "?" + params.Encode()

	c.log.WithField("ids", ids).Info("fetching feature data")

	body, cached, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	features, err := decodeFeatures(body, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding feature data: %w", ErrParse, err)
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: service returned no data for %s", ErrNoResults, strings.Join(ids, ", "))
	}
	c.log.WithField("count", len(features)).Debug("parsed feature data")

	c.remember(u, body, cached)
	return features, nil
}

// Lookup runs Search then Features. It never returns a partial result.
func (c *Client) Lookup(ctx context.Context, term string) (*Result, error) {
	ids, err := c.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	features, err := c.Features(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &Result{Term: strings.TrimSpace(term), IDs: ids, Features: features}, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, bool, error) {
	log := c.log.WithField("url", u)

	if c.store != nil && !c.refresh {
		if body, ok := c.store.Get(u, c.cacheTTL); ok {
			log.WithFields(logrus.Fields{"bytes": len(body), "cached": true}).Debug("response")
			return body, true, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: building request: %w", ErrNetwork, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	log.Debug("request")
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return nil, false, fmt.Errorf("%w: GET %s: %w", ErrNetwork, u, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, false, fmt.Errorf("%w: reading response: %w", ErrNetwork, err)
	}

	log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"bytes":    len(body),
		"duration": time.Since(start).Round(time.Millisecond),
		"cached":   false,
	}).Debug("response")
	log.WithField("body", truncate(string(body), 2048)).Trace("response body")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithField("status", resp.StatusCode).Debug("API request failed")
		return nil, false, fmt.Errorf("%w: GET %s: status %d: %s", ErrNetwork, u, resp.StatusCode, truncate(strings.TrimSpace(string(body)), 200))
	}
	return body, false, nil
}

// remember records a body that parsed cleanly; bad payloads are never cached.
func (c *Client) remember(u string, body []byte, cached bool) {
	if c.store == nil || cached {
		return
	}
	if err := c.store.Put(u, body); err != nil {
		c.log.WithError(err).Warn("caching response")
	}
}

func decodeFeatures(body []byte, ids []string) ([]Feature, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("empty body")
	}

	byID := make(map[string]Feature, len(ids))
	switch body[0] {
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, err
		}
		for i, raw := range list {
			if isNull(raw) {
				continue
			}
			var f Feature
			if err := json.Unmarshal(raw, &f); err != nil {
				return nil, err
			}
			// Records without an id are matched to the request by position.
			if f.ID == "" && i < len(ids) {
				f.ID = ids[i]
			}
			if _, dup := byID[f.ID]; !dup {
				byID[f.ID] = f
			}
		}
	case '{':
		var keyed map[string]json.RawMessage
		if err := json.Unmarshal(body, &keyed); err != nil {
			return nil, err
		}
		for id, raw := range keyed {
			if isNull(raw) {
				continue
			}
			var f Feature
			if err := json.Unmarshal(raw, &f); err != nil {
				return nil, fmt.Errorf("%s: %w", id, err)
			}
			if f.ID == "" {
				f.ID = id
			}
			byID[id] = f
		}
	default:
		return nil, fmt.Errorf("expected JSON array or object")
	}

	out := make([]Feature, 0, len(ids))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
