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
	"context"
	"fmt"
	"net"
	"net/netip"
)

// HostResolver resolves a host name to a numeric address
type HostResolver interface {
	LookupHost(ctx context.Context, host string) (netip.Addr, error)
}

// HostResolverFunc is an adapter to allow the use of ordinary functions as HostResolver
type HostResolverFunc func(ctx context.Context, host string) (netip.Addr, error)

// LookupHost calls f(ctx, host)
func (f HostResolverFunc) LookupHost(ctx context.Context, host string) (netip.Addr, error) {
	return f(ctx, host)
}

// NetResolver resolves host names with a *net.Resolver
type NetResolver struct {
	resolver *net.Resolver
}

// enforce compilation error
var _ HostResolver = (*NetResolver)(nil)

// NewNetResolver creates a NetResolver. net.DefaultResolver is used when resolver is nil.
func NewNetResolver(resolver *net.Resolver) *NetResolver {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &NetResolver{resolver: resolver}
}

// LookupHost returns the first address the host name resolves to
func (x *NetResolver) LookupHost(ctx context.Context, host string) (netip.Addr, error) {
	addrs, err := x.resolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return netip.Addr{}, err
	}

	if len(addrs) == 0 {
		return netip.Addr{}, fmt.Errorf("host=(%s) has no address", host)
	}
	return addrs[0].Unmap(), nil
}
