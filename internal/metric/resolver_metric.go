/*
 * MIT License
 *
 * Copyright (c) 2022-2025 Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package metric

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ResolverMetric groups the instruments describing endpoint resolutions.
//
// Instruments:
//   - nodeaddr.resolutions.count           (Int64Counter)
//   - nodeaddr.resolution.failures.count   (Int64Counter)
//   - nodeaddr.endpoints.excluded.count    (Int64Counter)
//   - nodeaddr.probe.duration              (Float64Histogram, unit: ms)
type ResolverMetric struct {
	resolutions   metric.Int64Counter
	failures      metric.Int64Counter
	excluded      metric.Int64Counter
	probeDuration metric.Float64Histogram
}

// NewResolverMetric creates the resolver instruments using the provided Meter.
// It returns an error if any instrument cannot be created.
func NewResolverMetric(meter metric.Meter) (*ResolverMetric, error) {
	var instruments ResolverMetric
	var err error

	if instruments.resolutions, err = meter.Int64Counter(
		"nodeaddr.resolutions.count",
		metric.WithDescription("Total number of successful endpoint resolutions"),
	); err != nil {
		return nil, err
	}

	if instruments.failures, err = meter.Int64Counter(
		"nodeaddr.resolution.failures.count",
		metric.WithDescription("Total number of failed endpoint resolutions"),
	); err != nil {
		return nil, err
	}

	if instruments.excluded, err = meter.Int64Counter(
		"nodeaddr.endpoints.excluded.count",
		metric.WithDescription("Total number of endpoints removed by exclusion filters"),
	); err != nil {
		return nil, err
	}

	if instruments.probeDuration, err = meter.Float64Histogram(
		"nodeaddr.probe.duration",
		metric.WithDescription("Duration of reachability probes"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	return &instruments, nil
}

// RecordResolution records a successful resolution and the number of endpoints
// the exclusion filters removed
func (x *ResolverMetric) RecordResolution(ctx context.Context, probed bool, excluded int) {
	attrs := metric.WithAttributes(attribute.Bool("probed", probed))
	x.resolutions.Add(ctx, 1, attrs)
	if excluded > 0 {
		x.excluded.Add(ctx, int64(excluded))
	}
}

// RecordFailure records a failed resolution with its reason
func (x *ResolverMetric) RecordFailure(ctx context.Context, reason string) {
	x.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordProbe records the duration of a reachability probe
func (x *ResolverMetric) RecordProbe(ctx context.Context, duration time.Duration) {
	x.probeDuration.Record(ctx, float64(duration)/float64(time.Millisecond))
}
