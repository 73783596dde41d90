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

package resolver

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/nodeaddr/discovery"
	"github.com/tochemey/nodeaddr/hostid"
	"github.com/tochemey/nodeaddr/log"
	"github.com/tochemey/nodeaddr/reachability"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(r *Resolver)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(r *Resolver)

// Apply applies the Resolver's option
func (f OptionFunc) Apply(r *Resolver) {
	f(r)
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	})
}

// WithProbe sets the reachability probe used when a resolution asks for it
func WithProbe(probe reachability.Probe) Option {
	return OptionFunc(func(r *Resolver) {
		if probe != nil {
			r.probe = probe
		}
	})
}

// WithSameHost sets the check deciding whether a remote member shares the local host
func WithSameHost(sameHost hostid.SameHost) Option {
	return OptionFunc(func(r *Resolver) {
		if sameHost != nil {
			r.sameHost = sameHost
		}
	})
}

// WithLocalMember sets the local member
func WithLocalMember(member *discovery.Member) Option {
	return OptionFunc(func(r *Resolver) {
		r.local = member
	})
}

// WithLookup sets the membership lookup used by ResolveID
func WithLookup(lookup discovery.Lookup) Option {
	return OptionFunc(func(r *Resolver) {
		r.lookup = lookup
	})
}

// WithHostResolver sets the host name resolver
func WithHostResolver(hostResolver HostResolver) Option {
	return OptionFunc(func(r *Resolver) {
		if hostResolver != nil {
			r.hostResolver = hostResolver
		}
	})
}

// WithFilters sets the initial exclusion filters
func WithFilters(patterns ...string) Option {
	return OptionFunc(func(r *Resolver) {
		r.initialFilters = patterns
	})
}

// WithMeterProvider sets the OpenTelemetry MeterProvider.
// The global MeterProvider is used by default.
func WithMeterProvider(meterProvider metric.MeterProvider) Option {
	return OptionFunc(func(r *Resolver) {
		r.meterProvider = meterProvider
	})
}
