// Package netmon provides connectivity awareness for the entity store.
//
// Reachability is modeled as an injected dependency rather than a global
// singleton: anything that needs online/offline awareness takes a Monitor
// in its constructor.
package netmon

import (
	"context"
	"net/http"
	"time"
)

// Monitor reports whether the entity store is currently reachable.
type Monitor interface {
	Online(ctx context.Context) bool
}

// Pinger is a Monitor that probes an HTTP endpoint.
type Pinger struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

var _ Monitor = (*Pinger)(nil)

// NewPinger creates a Pinger for the given URL. A non-positive timeout
// defaults to 5s.
func NewPinger(url string, timeout time.Duration) *Pinger {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Pinger{
		url:     url,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// Online probes the endpoint once. Any response, including an error
// status, counts as reachable; only transport-level failure does not.
func (p *Pinger) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// Static is a Monitor with a fixed answer, for tests and local runs.
type Static bool

// Online returns the fixed answer.
func (s Static) Online(context.Context) bool { return bool(s) }
