package simco

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/unleex/simchain/pkg/cache"
	"github.com/unleex/simchain/pkg/errors"
)

// newTestClient points both API bases at a test server.
func newTestClient(t *testing.T, backend cache.Cache, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(backend, time.Hour)
	c.gameBase = srv.URL
	c.toolsBase = srv.URL
	return c
}

func TestTimeMarker(t *testing.T) {
	at := time.Date(2026, 8, 24, 13, 5, 9, 123_000_000, time.UTC)
	want := "2026-08-24T13:05:09.123Z"
	if got := timeMarker(at); got != want {
		t.Errorf("timeMarker = %q, want %q", got, want)
	}

	// Non-UTC inputs are converted.
	loc := time.FixedZone("plus2", 2*60*60)
	if got := timeMarker(at.In(loc)); got != want {
		t.Errorf("timeMarker (zoned) = %q, want %q", got, want)
	}
}

func TestNameFromImage(t *testing.T) {
	tests := []struct {
		image string
		want  string
	}{
		{"/static/images/resources/cows.png", "cows"},
		{"/static/images/resources/crude-oil.min.svg", "crude-oil"},
		{"batteries.png", "batteries"},
		{"noextension", "noextension"},
	}
	for _, tt := range tests {
		if got := nameFromImage(tt.image); got != tt.want {
			t.Errorf("nameFromImage(%q) = %q, want %q", tt.image, got, tt.want)
		}
	}
}

func TestMarketTicker(t *testing.T) {
	at := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	var gotPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[{"kind": 46, "price": 4.2, "image": "/img/processors.png"}]`))
	})
	c := newTestClient(t, cache.NewNullCache(), handler)

	ticker, err := c.MarketTicker(context.Background(), Magnates, at, false)
	if err != nil {
		t.Fatalf("MarketTicker: %v", err)
	}
	if want := "/market-ticker/0/2026-08-24T12:00:00.000Z/"; gotPath != want {
		t.Errorf("path = %q, want %q", gotPath, want)
	}
	if len(ticker) != 1 || ticker[0].Kind != 46 || ticker[0].Price != 4.2 {
		t.Errorf("ticker = %+v", ticker)
	}

	// lastMarker steps the requested time back one update period.
	if _, err := c.MarketTicker(context.Background(), Entrepreneurs, at, true); err != nil {
		t.Fatalf("MarketTicker: %v", err)
	}
	if want := "/market-ticker/1/2026-08-24T08:00:00.000Z/"; gotPath != want {
		t.Errorf("path = %q, want %q", gotPath, want)
	}
}

func TestProductNames(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/market-ticker/") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`[
			{"kind": 46, "price": 4.2, "image": "/img/processors.png"},
			{"kind": 7, "price": 1.1, "image": "/img/batteries.min.png"}
		]`))
	})
	c := newTestClient(t, cache.NewNullCache(), handler)

	names, err := c.ProductNames(context.Background(), Magnates, false)
	if err != nil {
		t.Fatalf("ProductNames: %v", err)
	}
	if names[46] != "processors" || names[7] != "batteries" {
		t.Errorf("names = %v", names)
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status    int
		wantCode  errors.Code
		retryable bool
	}{
		{http.StatusNotFound, errors.ErrCodeNotFound, false},
		{http.StatusTooManyRequests, errors.ErrCodeRateLimited, false},
		{http.StatusInternalServerError, errors.ErrCodeNetwork, true},
		{http.StatusBadGateway, errors.ErrCodeNetwork, true},
		{http.StatusForbidden, errors.ErrCodeNetwork, false},
	}

	for _, tt := range tests {
		err := checkStatus(tt.status, "http://example.test")
		if !errors.Is(err, tt.wantCode) {
			t.Errorf("status %d: error = %v, want code %s", tt.status, err, tt.wantCode)
		}
		if got := cache.IsRetryable(err); got != tt.retryable {
			t.Errorf("status %d: retryable = %v, want %v", tt.status, got, tt.retryable)
		}
	}

	if err := checkStatus(http.StatusOK, "http://example.test"); err != nil {
		t.Errorf("status 200: %v", err)
	}
}

func TestVWAPsCaching(t *testing.T) {
	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"vwaps": [{"resourceId": 46, "vwap": 4.5}]}`))
	})
	c := newTestClient(t, backend, handler)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		vwaps, err := c.VWAPs(ctx, Magnates, false)
		if err != nil {
			t.Fatalf("VWAPs: %v", err)
		}
		if vwaps[46] != 4.5 {
			t.Errorf("vwaps = %v", vwaps)
		}
	}
	if calls != 1 {
		t.Errorf("upstream calls = %d, want 1 (second read cached)", calls)
	}

	if _, err := c.VWAPs(ctx, Magnates, true); err != nil {
		t.Fatalf("VWAPs refresh: %v", err)
	}
	if calls != 2 {
		t.Errorf("upstream calls = %d, want 2 after refresh", calls)
	}
}

// marketHandler serves a small consistent catalog for PPHPL tests.
func marketHandler(vwapJSON, resourcesJSON string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/realms/0/market/vwaps", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(vwapJSON))
	})
	mux.HandleFunc("/realms/0/resources", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(resourcesJSON))
	})
	return mux
}

func TestPPHPLs(t *testing.T) {
	vwaps := `{"vwaps": [
		{"resourceId": 115, "vwap": 10},
		{"resourceId": 46, "vwap": 4}
	]}`
	resources := `{"resources": [
		{"id": 115, "producedAnHour": 2, "wages": 3, "inputs": {"46": {"quantity": 1.5}}},
		{"id": 46, "producedAnHour": 5, "wages": 1, "inputs": {}},
		{"id": 90, "producedAnHour": 1, "wages": 100, "inputs": {}}
	]}`
	c := newTestClient(t, cache.NewNullCache(), marketHandler(vwaps, resources))

	pphpls, err := c.PPHPLs(context.Background(), Magnates, nil, 0.5, false)
	if err != nil {
		t.Fatalf("PPHPLs: %v", err)
	}

	// (10 - 4*1.5)*2 - 3*1.5 = 8 - 4.5
	if got, want := pphpls[115], 3.5; got != want {
		t.Errorf("pphpl[115] = %g, want %g", got, want)
	}
	// (4 - 0)*5 - 1*1.5
	if got, want := pphpls[46], 18.5; got != want {
		t.Errorf("pphpl[46] = %g, want %g", got, want)
	}
	// Aerospace end product: pinned to zero despite having no VWAP.
	if got := pphpls[90]; got != 0 {
		t.Errorf("pphpl[90] = %g, want 0", got)
	}
}

func TestPPHPLsFilter(t *testing.T) {
	vwaps := `{"vwaps": [
		{"resourceId": 115, "vwap": 10},
		{"resourceId": 46, "vwap": 4}
	]}`
	resources := `{"resources": [
		{"id": 115, "producedAnHour": 2, "wages": 3, "inputs": {}},
		{"id": 46, "producedAnHour": 5, "wages": 1, "inputs": {}}
	]}`

	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := newTestClient(t, backend, marketHandler(vwaps, resources))
	ctx := context.Background()

	filtered, err := c.PPHPLs(ctx, Magnates, []int{115}, 0, false)
	if err != nil {
		t.Fatalf("PPHPLs: %v", err)
	}
	if len(filtered) != 1 {
		t.Errorf("filtered = %v, want only 115", filtered)
	}

	// The cache holds the full realm map, not the filtered view.
	full, err := c.PPHPLs(ctx, Magnates, nil, 0, false)
	if err != nil {
		t.Fatalf("PPHPLs: %v", err)
	}
	if len(full) != 2 {
		t.Errorf("full = %v, want both resources", full)
	}
}

func TestPPHPLsMissingVWAP(t *testing.T) {
	t.Run("Resource", func(t *testing.T) {
		vwaps := `{"vwaps": []}`
		resources := `{"resources": [{"id": 115, "producedAnHour": 2, "wages": 3, "inputs": {}}]}`
		c := newTestClient(t, cache.NewNullCache(), marketHandler(vwaps, resources))

		_, err := c.PPHPLs(context.Background(), Magnates, nil, 0, false)
		if !errors.Is(err, errors.ErrCodeMissingProfit) {
			t.Fatalf("error = %v, want code %s", err, errors.ErrCodeMissingProfit)
		}
	})

	t.Run("Input", func(t *testing.T) {
		vwaps := `{"vwaps": [{"resourceId": 115, "vwap": 10}]}`
		resources := `{"resources": [{"id": 115, "producedAnHour": 2, "wages": 3, "inputs": {"46": {"quantity": 1}}}]}`
		c := newTestClient(t, cache.NewNullCache(), marketHandler(vwaps, resources))

		_, err := c.PPHPLs(context.Background(), Magnates, nil, 0, false)
		if !errors.Is(err, errors.ErrCodeMissingProfit) {
			t.Fatalf("error = %v, want code %s", err, errors.ErrCodeMissingProfit)
		}
	})

	t.Run("MalformedInputKey", func(t *testing.T) {
		vwaps := `{"vwaps": [{"resourceId": 115, "vwap": 10}]}`
		resources := `{"resources": [{"id": 115, "producedAnHour": 2, "wages": 3, "inputs": {"steel": {"quantity": 1}}}]}`
		c := newTestClient(t, cache.NewNullCache(), marketHandler(vwaps, resources))

		_, err := c.PPHPLs(context.Background(), Magnates, nil, 0, false)
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Fatalf("error = %v, want code %s", err, errors.ErrCodeInvalidInput)
		}
	})
}

func TestNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	c := newTestClient(t, cache.NewNullCache(), handler)

	_, err := c.MarketTicker(context.Background(), Magnates, time.Now(), false)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("error = %v, want code %s", err, errors.ErrCodeNotFound)
	}
}
