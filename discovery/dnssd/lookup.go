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

// Package dnssd provides a membership Lookup where every member is known by
// a DNS name. The member's bound addresses are the A and AAAA records of the
// name, for instance the per-pod names of a headless Kubernetes service.
package dnssd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"slices"

	goset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/nodeaddr/discovery"
	nerrors "github.com/tochemey/nodeaddr/errors"
	"github.com/tochemey/nodeaddr/internal/validation"
)

// IPResolver looks up the addresses of a host name.
// *net.Resolver implements it.
type IPResolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// Config represents the DNS lookup configuration
type Config struct {
	// Port specifies the port every member listens on
	Port int
	// IPv6 states whether to fetch ipv6 addresses only.
	// When false every address is extracted.
	IPv6 bool
}

// Validate checks the configuration
func (x Config) Validate() error {
	return validation.New(validation.FailFast()).
		AddAssertion(x.Port > 0 && x.Port <= 65535, fmt.Sprintf("dns port=(%d) is out of range", x.Port)).
		Validate()
}

// Lookup resolves members by querying DNS on every call
type Lookup struct {
	config   Config
	resolver IPResolver
}

// enforce compilation error
var _ discovery.Lookup = (*Lookup)(nil)

// NewLookup creates an instance of Lookup.
// resolver is optional; net.DefaultResolver is used when nil.
func NewLookup(config Config, resolver IPResolver) (*Lookup, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &Lookup{config: config, resolver: resolver}, nil
}

// ID returns the lookup name
func (x *Lookup) ID() string {
	return "dns-sd"
}

// Member returns the member known by the given DNS name.
// An unknown name is reported as errors.ErrMemberNotFound.
func (x *Lookup) Member(ctx context.Context, id string) (*discovery.Member, error) {
	network := "ip"
	if x.config.IPv6 {
		network = "ip6"
	}

	addrs, err := x.resolver.LookupNetIP(ctx, network, id)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, nerrors.NewErrMemberNotFound(id)
		}
		return nil, fmt.Errorf("failed to look up dns name=(%s): %w", id, err)
	}

	seen := goset.NewThreadUnsafeSetWithSize[netip.Addr](len(addrs))
	addresses := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		addr = addr.Unmap()
		if seen.Add(addr) {
			addresses = append(addresses, addr.String())
		}
	}

	if len(addresses) == 0 {
		return nil, nerrors.NewErrMemberNotFound(id)
	}

	return &discovery.Member{
		ID: id,
		Attributes: discovery.Attributes{
			IPAddresses: addresses,
			HostNames:   slices.Repeat([]string{id}, len(addresses)),
			Port:        discovery.NewPort(x.config.Port),
		},
	}, nil
}
