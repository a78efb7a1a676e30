package simco

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// Market Ticker
// =============================================================================

// TickerEntry is one resource's exchange listing in a market ticker.
type TickerEntry struct {
	Kind  int     `json:"kind"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// MarketTicker fetches the exchange price list for a realm at a point
// in time. Tickers publish on a fixed cadence; with lastMarker set the
// requested time is stepped back one update period so the marker is
// guaranteed to exist, otherwise asking for a not-yet-published marker
// fails with NOT_FOUND.
func (c *Client) MarketTicker(ctx context.Context, realm Realm, at time.Time, lastMarker bool) ([]TickerEntry, error) {
	if lastMarker {
		at = at.Add(-TickerUpdatePeriod)
	}
	url := fmt.Sprintf("%s/market-ticker/%d/%s/", c.gameBase, realm, timeMarker(at))

	var ticker []TickerEntry
	if err := c.get(ctx, url, &ticker); err != nil {
		return nil, err
	}
	return ticker, nil
}

// timeMarker formats a timestamp the way the ticker endpoint expects:
// RFC 3339 truncated to milliseconds, with a literal trailing Z.
func timeMarker(at time.Time) string {
	return at.UTC().Format("2006-01-02T15:04:05.000") + "Z"
}

// ProductNames derives the resource ID → display name mapping for a
// realm from the latest market ticker. The API exposes no name field;
// names come from each listing's image path basename, which is the only
// place the game publishes them.
func (c *Client) ProductNames(ctx context.Context, realm Realm, refresh bool) (map[int]string, error) {
	names := make(map[int]string)
	err := c.cached(ctx, cacheKey("names", realm), refresh, &names, func() error {
		ticker, err := c.MarketTicker(ctx, realm, time.Now(), true)
		if err != nil {
			return err
		}
		for _, entry := range ticker {
			names[entry.Kind] = nameFromImage(entry.Image)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// nameFromImage extracts a product name from its image path, e.g.
// "/static/images/resources/cows.png" → "cows".
func nameFromImage(image string) string {
	base := path.Base(image)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return base
}

// =============================================================================
// VWAPs
// =============================================================================

type vwapResponse struct {
	VWAPs []struct {
		ResourceID int     `json:"resourceId"`
		VWAP       float64 `json:"vwap"`
	} `json:"vwaps"`
}

// VWAPs fetches the volume-weighted average price per resource for a
// realm.
func (c *Client) VWAPs(ctx context.Context, realm Realm, refresh bool) (map[int]float64, error) {
	vwaps := make(map[int]float64)
	err := c.cached(ctx, cacheKey("vwaps", realm), refresh, &vwaps, func() error {
		var resp vwapResponse
		if err := c.get(ctx, fmt.Sprintf("%s/realms/%d/market/vwaps", c.toolsBase, realm), &resp); err != nil {
			return err
		}
		for _, v := range resp.VWAPs {
			vwaps[v.ResourceID] = v.VWAP
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vwaps, nil
}

// =============================================================================
// Resource Catalog
// =============================================================================

// Resource describes a producible resource: what it consumes, how fast
// it is produced, and what its production labor costs.
type Resource struct {
	ID             int                      `json:"id"`
	ProducedAnHour float64                  `json:"producedAnHour"`
	Wages          float64                  `json:"wages"`
	Inputs         map[string]ResourceInput `json:"inputs"`
}

// ResourceInput is one ingredient of a resource's production recipe.
// The API keys inputs by stringified resource ID.
type ResourceInput struct {
	Quantity float64 `json:"quantity"`
}

// InputID returns the input's resource ID parsed from its map key.
func InputID(key string) (int, error) {
	id, err := strconv.Atoi(key)
	if err != nil {
		return 0, fmt.Errorf("input key %q is not numeric: %w", key, err)
	}
	return id, nil
}

type resourcesResponse struct {
	Resources []Resource     `json:"resources"`
	Metadata  map[string]any `json:"metadata"`
}

// Resources fetches the resource catalog for a realm.
func (c *Client) Resources(ctx context.Context, realm Realm, refresh bool) ([]Resource, error) {
	var resources []Resource
	err := c.cached(ctx, cacheKey("resources", realm), refresh, &resources, func() error {
		var resp resourcesResponse
		if err := c.get(ctx, fmt.Sprintf("%s/realms/%d/resources", c.toolsBase, realm), &resp); err != nil {
			return err
		}
		resources = resp.Resources
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resources, nil
}
