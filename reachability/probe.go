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

// Package reachability provides liveness probes used to move unreachable
// addresses behind reachable ones.
//
// A probe receives a set of numeric addresses and returns the subset it
// judged reachable. Probes may block on network I/O; every probe in this
// package bounds its own work with a timeout and honors the context deadline.
package reachability

import (
	"context"
	"net/netip"
	"time"
)

// Probe returns the subset of addrs currently reachable
type Probe interface {
	Reachable(ctx context.Context, addrs []netip.Addr) ([]netip.Addr, error)
}

// ProbeFunc is an adapter to allow the use of ordinary functions as Probe
type ProbeFunc func(ctx context.Context, addrs []netip.Addr) ([]netip.Addr, error)

// Reachable calls f(ctx, addrs)
func (f ProbeFunc) Reachable(ctx context.Context, addrs []netip.Addr) ([]netip.Addr, error) {
	return f(ctx, addrs)
}

// All is a Probe that reports every address reachable without any I/O
var All Probe = ProbeFunc(func(_ context.Context, addrs []netip.Addr) ([]netip.Addr, error) {
	out := make([]netip.Addr, len(addrs))
	copy(out, addrs)
	return out, nil
})

// deadline returns the earliest of the context deadline and now + timeout
func deadline(ctx context.Context, start time.Time, timeout time.Duration) time.Time {
	limit := start.Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(limit) {
		return ctxDeadline
	}
	return limit
}
