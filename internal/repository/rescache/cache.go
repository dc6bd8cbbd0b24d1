package rescache

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/millsearch/internal/domain/search/result"
)

// Counter label values.
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

// Nop never stores anything; every lookup is a miss.
type Nop struct{}

// Get always misses.
func (Nop) Get(context.Context, string) (result.Page, bool) { return result.Page{}, false }

// Set discards the page.
func (Nop) Set(context.Context, string, result.Page) {}

func inc(c *prometheus.CounterVec, label string) {
	if c != nil {
		c.WithLabelValues(label).Inc()
	}
}
