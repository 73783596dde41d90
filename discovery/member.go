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

// Package discovery defines how the communication attributes of cluster
// members are looked up.
//
// Membership itself (how members join, and how their attributes are
// propagated) is owned by a provider. The resolver only reads a Member's
// Attributes through the Lookup interface on every call; it never mutates
// nor caches them.
package discovery

import (
	"context"
	stderrors "errors"

	"github.com/tochemey/nodeaddr/endpoint"
	"github.com/tochemey/nodeaddr/errors"
)

// Attributes are the communication attributes a member publishes
type Attributes struct {
	// IPAddresses specifies the addresses the member's communication
	// listener is bound to
	IPAddresses []string
	// HostNames specifies the host names matching IPAddresses by index.
	// It is optional and may be shorter than IPAddresses.
	HostNames []string
	// Port specifies the bound port. Nil when the member does not publish one.
	Port *int
	// ExternalAddresses specifies the mapped external endpoints, for instance
	// the addresses exposed by a NAT or a container runtime
	ExternalAddresses []endpoint.Endpoint
	// MACs specifies the hardware addresses of the member's host
	MACs []string
}

// Member represents a cluster member
type Member struct {
	// ID specifies the unique member identifier
	ID string
	// Attributes specifies the member's communication attributes
	Attributes Attributes
}

// NewPort returns a pointer to the given port
func NewPort(port int) *int {
	return &port
}

// HasBound reports whether the member publishes bound addresses together with a port
func (x *Member) HasBound() bool {
	if x == nil {
		return false
	}
	return len(x.Attributes.IPAddresses) > 0 && x.Attributes.Port != nil
}

// HasExternal reports whether the member publishes mapped external addresses
func (x *Member) HasExternal() bool {
	if x == nil {
		return false
	}
	return len(x.Attributes.ExternalAddresses) > 0
}

// MemberID returns the member identifier. It is safe to call on a nil receiver.
func (x *Member) MemberID() string {
	if x == nil {
		return ""
	}
	return x.ID
}

// Lookup returns the published attributes of a member
type Lookup interface {
	// Member returns the member with the given id.
	// It returns an error wrapping errors.ErrMemberNotFound when the member is unknown.
	Member(ctx context.Context, id string) (*Member, error)
}

// LookupFunc is an adapter to allow the use of ordinary functions as Lookup
type LookupFunc func(ctx context.Context, id string) (*Member, error)

// Member calls f(ctx, id)
func (f LookupFunc) Member(ctx context.Context, id string) (*Member, error) {
	return f(ctx, id)
}

// Lookups tries each lookup in order and returns the first member found.
// A lookup failing with anything else than errors.ErrMemberNotFound stops
// the search.
type Lookups []Lookup

// enforce compilation error
var _ Lookup = Lookups(nil)

// Member returns the member with the given id
func (x Lookups) Member(ctx context.Context, id string) (*Member, error) {
	for _, lookup := range x {
		member, err := lookup.Member(ctx, id)
		if err == nil {
			return member, nil
		}

		if !stderrors.Is(err, errors.ErrMemberNotFound) {
			return nil, err
		}
	}
	return nil, errors.NewErrMemberNotFound(id)
}
