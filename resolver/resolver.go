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

// Package resolver computes, for one cluster member, the ordered list of
// endpoints an outbound connection should try.
//
// The resolution runs in stages:
//
//  1. the member's bound addresses are combined with its port, sorted so that
//     loopback addresses come first when the member shares the local host
//     and last otherwise;
//  2. the member's mapped external addresses are appended, duplicates keeping
//     their first position;
//  3. when asked, a reachability probe moves unreachable addresses behind the
//     reachable ones without disturbing the order inside each group;
//  4. endpoints whose numeric address fully matches an exclusion filter are
//     removed.
//
// A Resolver is safe for concurrent use. Exclusion filters can be replaced at
// any time; a resolution sees either the previous or the new set, never a mix.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"slices"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"

	"github.com/tochemey/nodeaddr/discovery"
	"github.com/tochemey/nodeaddr/endpoint"
	nerrors "github.com/tochemey/nodeaddr/errors"
	"github.com/tochemey/nodeaddr/hostid"
	"github.com/tochemey/nodeaddr/internal/collection"
	imetric "github.com/tochemey/nodeaddr/internal/metric"
	"github.com/tochemey/nodeaddr/log"
	"github.com/tochemey/nodeaddr/reachability"
)

// failure reasons recorded in metrics
const (
	reasonNoUsableAddresses = "no_usable_addresses"
	reasonProbeFailed       = "probe_failed"
	reasonLookupFailed      = "lookup_failed"
)

type endpointSet = collection.OrderedSet[endpoint.Key, endpoint.Endpoint]

// Resolver resolves the endpoints of cluster members
type Resolver struct {
	logger       log.Logger
	probe        reachability.Probe
	sameHost     hostid.SameHost
	hostResolver HostResolver
	lookup       discovery.Lookup
	local        *discovery.Member

	initialFilters []string
	filters        *atomic.Pointer[filterSet]

	meterProvider metric.MeterProvider
	metrics       *imetric.ResolverMetric
}

// New creates an instance of Resolver.
// It fails when the initial exclusion filters are invalid.
func New(opts ...Option) (*Resolver, error) {
	resolver := &Resolver{
		logger:       log.DiscardLogger,
		probe:        reachability.NewTCPProbe(),
		sameHost:     hostid.MACs{},
		hostResolver: NewNetResolver(nil),
		filters:      atomic.NewPointer(emptyFilters),
	}

	for _, opt := range opts {
		opt.Apply(resolver)
	}

	if len(resolver.initialFilters) > 0 {
		if err := resolver.SetFilters(resolver.initialFilters); err != nil {
			return nil, err
		}
	}

	metrics, err := imetric.NewResolverMetric(imetric.NewProvider(resolver.meterProvider).Meter())
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver metrics: %w", err)
	}
	resolver.metrics = metrics
	return resolver, nil
}

// SetFilters replaces the exclusion filters.
// Every pattern must be a non-empty regular expression; the whole textual
// numeric address of an endpoint must match a pattern for the endpoint to be
// excluded. When a pattern is rejected the current filters are kept and the
// returned error wraps a *errors.FilterSyntaxError per rejected pattern.
func (r *Resolver) SetFilters(patterns []string) error {
	next, err := compileFilters(patterns)
	if err != nil {
		return err
	}

	r.filters.Store(next)
	r.logger.Debugf("address exclusion filters set to %v", next.patterns)
	return nil
}

// Filters returns a sorted copy of the current exclusion filters
func (r *Resolver) Filters() []string {
	return slices.Clone(r.filters.Load().patterns)
}

// ResolveID looks the member up and resolves its endpoints.
// An unknown member is treated as a member advertising no address.
func (r *Resolver) ResolveID(ctx context.Context, id string, probe bool) ([]endpoint.Endpoint, error) {
	if r.lookup == nil {
		return nil, nerrors.ErrLookupNotSet
	}

	member, err := r.lookup.Member(ctx, id)
	switch {
	case errors.Is(err, nerrors.ErrMemberNotFound):
		member = &discovery.Member{ID: id}
	case err != nil:
		r.metrics.RecordFailure(ctx, reasonLookupFailed)
		return nil, fmt.Errorf("failed to look member=(%s) up: %w", id, err)
	}
	return r.Resolve(ctx, member, probe)
}

// Resolve returns the endpoints of the member in connection preference order.
//
// It returns a *errors.NoUsableAddressesError when the member advertises
// neither bound addresses with a port nor external addresses. When probe is
// true the call blocks for the duration of the reachability probe, and a
// probe failure fails the call.
func (r *Resolver) Resolve(ctx context.Context, member *discovery.Member, probe bool) ([]endpoint.Endpoint, error) {
	hasBound := member.HasBound()
	hasExternal := member.HasExternal()
	if !hasBound && !hasExternal {
		r.metrics.RecordFailure(ctx, reasonNoUsableAddresses)
		return nil, nerrors.NewNoUsableAddressesError(member.MemberID())
	}

	attrs := member.Attributes
	endpoints := collection.NewOrderedSet[endpoint.Key, endpoint.Endpoint](endpoint.Endpoint.Key,
		len(attrs.IPAddresses)+len(attrs.ExternalAddresses))

	// bound addresses are tried first
	if hasBound {
		bound := r.materialize(ctx, attrs)
		slices.SortStableFunc(bound, compareEndpoints(r.sameHost.SameHost(r.local, member)))
		endpoints.AddAll(bound...)
	}

	// then the mapped external addresses
	if hasExternal {
		endpoints.AddAll(attrs.ExternalAddresses...)
	}

	if r.logger.Enabled(log.DebugLevel) {
		r.logger.Debugf("addresses resolved from attributes [member=%s, addrs=%v, hasBound=%t]",
			member.ID, endpoints.Values(), hasBound)
	}

	if probe {
		var err error
		if endpoints, err = r.partition(ctx, member.ID, endpoints); err != nil {
			r.metrics.RecordFailure(ctx, reasonProbeFailed)
			return nil, err
		}
	}

	filters := r.filters.Load()
	before := endpoints.Len()
	endpoints = endpoints.Filter(func(e endpoint.Endpoint) bool {
		return !filters.excludes(e)
	})

	r.metrics.RecordResolution(ctx, probe, before-endpoints.Len())
	return endpoints.Values(), nil
}

// materialize turns the bound addresses and the port into endpoints.
// An address that is not an IP literal is resolved; when that fails the host
// name at the same index is tried, and the endpoint is kept unresolved when
// nothing resolves.
func (r *Resolver) materialize(ctx context.Context, attrs discovery.Attributes) []endpoint.Endpoint {
	port := *attrs.Port
	out := make([]endpoint.Endpoint, 0, len(attrs.IPAddresses))
	for index, raw := range attrs.IPAddresses {
		raw = strings.TrimSpace(raw)
		var hostName string
		if index < len(attrs.HostNames) {
			hostName = strings.TrimSpace(attrs.HostNames[index])
		}

		if raw == "" && hostName == "" {
			continue
		}
		out = append(out, r.toEndpoint(ctx, raw, hostName, port))
	}
	return out
}

func (r *Resolver) toEndpoint(ctx context.Context, raw, hostName string, port int) endpoint.Endpoint {
	if raw != "" {
		if e := endpoint.New(raw, port); !e.IsUnresolved() {
			return e
		}

		addr, err := r.hostResolver.LookupHost(ctx, raw)
		if err == nil {
			return endpoint.Resolved(raw, addr, port)
		}
		r.logger.Debugf("failed to resolve address=(%s): %v", raw, err)
	}

	if hostName == "" {
		return endpoint.Unresolved(raw, port)
	}

	addr, err := r.hostResolver.LookupHost(ctx, hostName)
	if err != nil {
		r.logger.Debugf("failed to resolve host name=(%s): %v", hostName, err)
		return endpoint.Unresolved(hostName, port)
	}
	return endpoint.Resolved(hostName, addr, port)
}

// partition probes the resolved addresses and, when at least one of them is
// not reachable, moves every endpoint whose address was not judged reachable
// (unresolved ones included) behind the reachable ones
func (r *Resolver) partition(ctx context.Context, memberID string, endpoints *endpointSet) (*endpointSet, error) {
	values := endpoints.Values()
	resolved := mapset.NewThreadUnsafeSetWithSize[netip.Addr](len(values))
	addrs := make([]netip.Addr, 0, len(values))
	for _, e := range values {
		// unresolved endpoints cannot be probed
		if e.IsUnresolved() {
			continue
		}

		if resolved.Add(e.Addr()) {
			addrs = append(addrs, e.Addr())
		}
	}

	if len(addrs) == 0 {
		return endpoints, nil
	}

	start := time.Now()
	live, err := r.probe.Reachable(ctx, addrs)
	r.metrics.RecordProbe(ctx, time.Since(start))
	if err != nil {
		return nil, nerrors.NewErrProbeFailed(memberID, err)
	}

	reachable := mapset.NewThreadUnsafeSetWithSize[netip.Addr](len(live))
	for _, addr := range live {
		if resolved.ContainsOne(addr.Unmap()) {
			reachable.Add(addr.Unmap())
		}
	}

	if reachable.Cardinality() < resolved.Cardinality() {
		endpoints = endpoints.Partition(func(e endpoint.Endpoint) bool {
			return !e.IsUnresolved() && reachable.ContainsOne(e.Addr())
		})
	}

	if r.logger.Enabled(log.DebugLevel) {
		r.logger.Debugf("addresses to connect for member [member=%s, addrs=%v]", memberID, endpoints.Values())
	}
	return endpoints, nil
}

// compareEndpoints orders resolved endpoints before unresolved ones. Among
// resolved endpoints loopback addresses come first when the remote member
// shares the local host and last otherwise.
func compareEndpoints(sameHost bool) func(a, b endpoint.Endpoint) int {
	return func(a, b endpoint.Endpoint) int {
		if a.IsUnresolved() || b.IsUnresolved() {
			switch {
			case a.IsUnresolved() == b.IsUnresolved():
				return 0
			case a.IsUnresolved():
				return 1
			default:
				return -1
			}
		}

		if a.IsLoopback() == b.IsLoopback() {
			return 0
		}

		if a.IsLoopback() == sameHost {
			return -1
		}
		return 1
	}
}
