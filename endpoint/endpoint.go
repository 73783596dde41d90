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

// Package endpoint provides the representation of a single network endpoint
// a cluster member can be reached at.
//
// An Endpoint is a host and a port. The host is either already resolved to a
// numeric address, or kept as a textual host name when resolution has been
// deferred or failed. Unresolved endpoints are still valid connection
// candidates: they are simply never probed nor matched against exclusion
// filters.
//
// Two endpoints are the same when they share their resolved address and
// port; the host name used to obtain the address does not take part in
// identity. Unresolved endpoints are identified by their host text and port.
package endpoint

import (
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/tochemey/nodeaddr/errors"
	"github.com/tochemey/nodeaddr/internal/validation"
)

// Endpoint is a (host, port) pair. The zero value is an unresolved endpoint
// with an empty host and is not valid.
type Endpoint struct {
	host string
	addr netip.Addr
	port int
}

// Key is the identity of an Endpoint. It is comparable and can be used as a map key.
type Key struct {
	addr netip.Addr
	host string
	port int
}

var _ validation.Validator = Endpoint{}

// New creates an Endpoint from a host and a port.
// When host is an IP literal the endpoint is resolved, otherwise it is kept
// unresolved. No name lookup is performed.
func New(host string, port int) Endpoint {
	host = strings.TrimSpace(host)
	if addr, err := netip.ParseAddr(strings.Trim(host, "[]")); err == nil {
		return FromAddr(addr, port)
	}
	return Unresolved(host, port)
}

// FromAddr creates a resolved Endpoint. IPv4-mapped IPv6 addresses are
// unmapped so that they compare equal to their IPv4 form.
func FromAddr(addr netip.Addr, port int) Endpoint {
	return Endpoint{addr: addr.Unmap(), port: port}
}

// Resolved creates an Endpoint for a host name that has been resolved to addr
func Resolved(host string, addr netip.Addr, port int) Endpoint {
	e := FromAddr(addr, port)
	e.host = host
	return e
}

// Unresolved creates an Endpoint whose address has not been resolved
func Unresolved(host string, port int) Endpoint {
	return Endpoint{host: host, port: port}
}

// Parse parses a "host:port" string. IPv6 literals must be bracketed.
//
// Examples:
//
//	e, _ := Parse("10.0.0.12:47100")    // resolved
//	e, _ := Parse("[::1]:47100")        // resolved
//	e, _ := Parse("node-1.local:47100") // unresolved
func Parse(text string) (Endpoint, error) {
	host, port, err := net.SplitHostPort(strings.TrimSpace(text))
	if err != nil {
		return Endpoint{}, errors.NewErrInvalidEndpoint(text, err)
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return Endpoint{}, errors.NewErrInvalidEndpoint(text, err)
	}

	e := New(host, portNum)
	if err := e.Validate(); err != nil {
		return Endpoint{}, err
	}
	return e, nil
}

// Host returns the host name when known, otherwise the textual address
func (e Endpoint) Host() string {
	if e.host != "" {
		return e.host
	}
	return e.HostAddress()
}

// Addr returns the resolved address. It is invalid when the endpoint is unresolved.
func (e Endpoint) Addr() netip.Addr {
	return e.addr
}

// Port returns the port
func (e Endpoint) Port() int {
	return e.port
}

// IsUnresolved reports whether the endpoint has no numeric address
func (e Endpoint) IsUnresolved() bool {
	return !e.addr.IsValid()
}

// IsLoopback reports whether the endpoint resolves to a loopback address
func (e Endpoint) IsLoopback() bool {
	return e.addr.IsValid() && e.addr.IsLoopback()
}

// HostAddress returns the textual numeric address, or an empty string when
// the endpoint is unresolved
func (e Endpoint) HostAddress() string {
	if !e.addr.IsValid() {
		return ""
	}
	return e.addr.String()
}

// AddrPort returns the endpoint as a netip.AddrPort.
// The result is invalid when the endpoint is unresolved.
func (e Endpoint) AddrPort() netip.AddrPort {
	if !e.addr.IsValid() {
		return netip.AddrPort{}
	}
	return netip.AddrPortFrom(e.addr, uint16(e.port))
}

// HostPort returns the "host:port" form suitable for dialing: the numeric
// address when resolved, the host name otherwise
func (e Endpoint) HostPort() string {
	host := e.host
	if e.addr.IsValid() {
		host = e.addr.String()
	}
	return net.JoinHostPort(host, strconv.Itoa(e.port))
}

// String returns the textual form of the endpoint.
// A resolved host name is rendered as "name/address:port".
func (e Endpoint) String() string {
	if e.host != "" && e.addr.IsValid() {
		return e.host + "/" + e.HostPort()
	}
	return e.HostPort()
}

// Key returns the endpoint identity
func (e Endpoint) Key() Key {
	if e.addr.IsValid() {
		return Key{addr: e.addr, port: e.port}
	}
	return Key{host: e.host, port: e.port}
}

// Equals reports whether e and o identify the same endpoint
func (e Endpoint) Equals(o Endpoint) bool {
	return e.Key() == o.Key()
}

// Validate checks that the endpoint has a host and a port in [0, 65535]
func (e Endpoint) Validate() error {
	if err := validation.NewHostPortValidator(e.Host(), e.port).Validate(); err != nil {
		return errors.NewErrInvalidEndpoint(e.HostPort(), err)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (e Endpoint) MarshalText() ([]byte, error) {
	if e.host != "" {
		return []byte(net.JoinHostPort(e.host, strconv.Itoa(e.port))), nil
	}
	return []byte(e.HostPort()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (e *Endpoint) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
