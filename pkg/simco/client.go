// Package simco provides access to the Sim Companies market data APIs.
//
// Two hosts are involved: the game itself serves the market ticker
// (exchange prices per resource at a point in time), and the community
// SimcoTools API serves VWAPs (volume-weighted average prices) and the
// resource catalog (production inputs, output rates, wages). From those
// the client derives PPHPL (profit per hour per labor), the metric the
// viewer color-codes nodes by.
//
// All responses are cached with a TTL matching the market ticker update
// cadence; pass refresh=true to bypass the cache. All methods are safe
// for concurrent use.
package simco

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/unleex/simchain/pkg/cache"
	"github.com/unleex/simchain/pkg/errors"
)

// Realm identifies a game realm.
type Realm int

// The two Sim Companies realms.
const (
	Magnates      Realm = 0
	Entrepreneurs Realm = 1
)

// TickerUpdatePeriod is how often the market ticker publishes a new
// time marker. Requests for "the last marker" step back by this much.
const TickerUpdatePeriod = 4 * time.Hour

// aerospaceEndProducts are end products that cannot be sold to the
// exchange; their profit model is undefined, so PPHPL pins them to 0.
var aerospaceEndProducts = map[int]bool{
	90: true, 91: true, 92: true, 93: true,
	94: true, 95: true, 96: true, 100: true,
}

const (
	defaultGameBaseURL  = "https://www.simcompanies.com/api/v2"
	defaultToolsBaseURL = "https://api.simcotools.app/v1"
)

// Client provides access to the Sim Companies and SimcoTools APIs.
// It handles HTTP requests with caching and automatic retries.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	ttl       time.Duration
	gameBase  string
	toolsBase string
}

// NewClient creates a market data client with the given cache backend.
// Use cache.NewNullCache() to disable caching.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		http:      &http.Client{Timeout: 30 * time.Second},
		cache:     backend,
		ttl:       cacheTTL,
		gameBase:  defaultGameBaseURL,
		toolsBase: defaultToolsBaseURL,
	}
}

// cached retrieves a value from cache or executes fetch and caches the
// result. If refresh is true, the cache is bypassed and fetch is always
// called. The fetch function should populate v; on success, v is stored
// in the cache.
func (c *Client) cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			if json.Unmarshal(data, v) == nil {
				return nil
			}
		}
	}
	if err := cache.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
	}
	return nil
}

// get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "get %s", url))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode, url); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func checkStatus(code int, url string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s", url)
	case code == http.StatusTooManyRequests:
		return errors.New(errors.ErrCodeRateLimited, "%s", url)
	case code >= 500:
		return cache.Retryable(errors.New(errors.ErrCodeNetwork, "%s: status %d", url, code))
	default:
		return errors.New(errors.ErrCodeNetwork, "%s: status %d", url, code)
	}
}

// cacheKey builds a namespaced cache key.
func cacheKey(parts ...any) string {
	key := "simco"
	for _, p := range parts {
		key += fmt.Sprintf(":%v", p)
	}
	return key
}
