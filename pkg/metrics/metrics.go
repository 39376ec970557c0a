// Package metrics defines the OpenTelemetry instruments shared by the API and
// the CLI. Instruments are created from a caller-supplied meter so tests and
// commands can choose their own provider.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 30} //nolint: gochecknoglobals

// Detection outcomes used as the "outcome" attribute.
const (
	OutcomeMatch      = "match"
	OutcomeNoMatch    = "no_match"
	OutcomeBadRequest = "bad_request"
	OutcomeFetch      = "fetch_failed"
	OutcomeEmptyBody  = "empty_body"
	OutcomeInternal   = "internal"
)

// Detections records the number and latency of detection requests.
type Detections struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewDetections creates the detection instruments on meter.
func NewDetections(meter metric.Meter) (*Detections, error) {
	total, err := meter.Int64Counter("themespot.detections",
		metric.WithDescription("Number of detection requests by outcome."),
		metric.WithUnit("{detection}"))
	if err != nil {
		return nil, fmt.Errorf("could not create detections counter: %w", err)
	}

	duration, err := meter.Float64Histogram("themespot.detection.duration",
		metric.WithDescription("Time spent fetching and inspecting a page."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create detection duration histogram: %w", err)
	}

	return &Detections{total: total, duration: duration}, nil
}

// Record adds one detection with the given outcome and latency.
func (d *Detections) Record(ctx context.Context, outcome string, elapsed time.Duration) {
	if d == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	d.total.Add(ctx, 1, attrs)
	d.duration.Record(ctx, elapsed.Seconds(), attrs)
}
