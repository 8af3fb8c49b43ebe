package metrics

import (
	"context"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTELClient records counters and histograms on an OTEL meter, creating
// instruments on first use of a key.
type OTELClient struct {
	meter      metric.Meter
	counters   sync.Map
	histograms sync.Map
}

func NewOTELClient(meter metric.Meter) *OTELClient {
	return &OTELClient{meter: meter}
}

func (c *OTELClient) Inc(ctx context.Context, key string, value int64, attributes ...attribute.KeyValue) {
	counter, err := c.counter(key)
	if err != nil {
		return
	}

	counter.Add(ctx, value, metric.WithAttributes(attributes...))
}

func (c *OTELClient) Observe(ctx context.Context, key string, value float64, attributes ...attribute.KeyValue) {
	histogram, err := c.histogram(key)
	if err != nil {
		return
	}

	histogram.Record(ctx, value, metric.WithAttributes(attributes...))
}

func (c *OTELClient) Shutdown(_ context.Context) error {
	return nil
}

func (c *OTELClient) counter(key string) (metric.Int64Counter, error) {
	if existing, ok := c.counters.Load(key); ok {
		return existing.(metric.Int64Counter), nil
	}

	counter, err := RegisterInt64Counter(c.meter, Descriptor{Description: describe(key), Unit: "1"}, key)
	if err != nil {
		return nil, err
	}

	actual, _ := c.counters.LoadOrStore(key, counter)

	return actual.(metric.Int64Counter), nil
}

func (c *OTELClient) histogram(key string) (metric.Float64Histogram, error) {
	if existing, ok := c.histograms.Load(key); ok {
		return existing.(metric.Float64Histogram), nil
	}

	histogram, err := RegisterFloat64Histogram(c.meter, Descriptor{Description: describe(key), Unit: "ms"}, key)
	if err != nil {
		return nil, err
	}

	actual, _ := c.histograms.LoadOrStore(key, histogram)

	return actual.(metric.Float64Histogram), nil
}

func describe(key string) string {
	return strings.ReplaceAll(key, ".", " ")
}
