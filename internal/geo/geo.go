// Package geo is a best-effort, one-shot location lookup. A terminal has
// no GPS, so coordinates come from an IP-geolocation endpoint. Failure
// is normal (offline, VPN, blocked) and must never stall the rest of the
// client.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const (
	// LookupTimeout bounds the single request.
	LookupTimeout = 10 * time.Second
	// MaxAge is the acceptable staleness of a cached fix.
	MaxAge = 5 * time.Minute
)

type Coords struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
}

// Locator caches one fix for the session. Safe for concurrent use.
type Locator struct {
	URL  string
	HTTP *http.Client

	mu    sync.Mutex
	fix   *Coords
	fixAt time.Time
}

func NewLocator(url string) *Locator {
	return &Locator{URL: url, HTTP: &http.Client{Timeout: LookupTimeout}}
}

// Locate returns a fix no older than MaxAge, fetching one when needed.
// Callers treat any error as "no location available" and carry on.
func (l *Locator) Locate(ctx context.Context) (Coords, error) {
	l.mu.Lock()
	if l.fix != nil && time.Since(l.fixAt) < MaxAge {
		c := *l.fix
		l.mu.Unlock()
		return c, nil
	}
	l.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, LookupTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return Coords{}, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := l.HTTP.Do(req)
	if err != nil {
		return Coords{}, fmt.Errorf("locate: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Coords{}, fmt.Errorf("locate: %s", resp.Status)
	}

	var c Coords
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		return Coords{}, fmt.Errorf("locate: %w", err)
	}
	if c.Latitude == 0 && c.Longitude == 0 {
		return Coords{}, fmt.Errorf("locate: endpoint returned no coordinates")
	}

	l.mu.Lock()
	l.fix = &c
	l.fixAt = time.Now()
	l.mu.Unlock()
	return c, nil
}
