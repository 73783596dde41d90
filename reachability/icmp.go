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

package reachability

import (
	"context"
	"net"
	"net/netip"
	"os"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/nodeaddr/log"
)

const (
	protocolICMP     = 1
	protocolIPv6ICMP = 58
	echoPayload      = "nodeaddr"
)

// ICMPProbe sends one ICMP echo request per address and judges reachable
// the addresses answering within the timeout.
//
// By default it uses unprivileged datagram sockets ("udp4"/"udp6"), which
// on Linux require the process group to be allowed by
// net.ipv4.ping_group_range. Privileged raw sockets are used when the probe
// is created with WithPrivileged(true).
type ICMPProbe struct {
	timeout    time.Duration
	privileged bool
	logger     log.Logger
}

// enforce compilation error
var _ Probe = (*ICMPProbe)(nil)

// ICMPOption configures an ICMPProbe
type ICMPOption func(*ICMPProbe)

// WithICMPTimeout sets how long replies are awaited
func WithICMPTimeout(timeout time.Duration) ICMPOption {
	return func(p *ICMPProbe) {
		p.timeout = timeout
	}
}

// WithPrivileged sets whether raw sockets are used
func WithPrivileged(privileged bool) ICMPOption {
	return func(p *ICMPProbe) {
		p.privileged = privileged
	}
}

// WithICMPLogger sets the logger
func WithICMPLogger(logger log.Logger) ICMPOption {
	return func(p *ICMPProbe) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewICMPProbe creates an instance of ICMPProbe
func NewICMPProbe(opts ...ICMPOption) *ICMPProbe {
	probe := &ICMPProbe{
		timeout: DefaultTimeout,
		logger:  log.DiscardLogger,
	}
	for _, opt := range opts {
		opt(probe)
	}
	return probe
}

// Reachable pings every address and returns the ones that answered, in
// input order. It fails when an ICMP socket cannot be opened.
func (p *ICMPProbe) Reachable(ctx context.Context, addrs []netip.Addr) ([]netip.Addr, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var v4, v6 []netip.Addr
	for _, addr := range addrs {
		if addr.Unmap().Is4() {
			v4 = append(v4, addr.Unmap())
			continue
		}
		v6 = append(v6, addr)
	}

	until := deadline(ctx, time.Now(), p.timeout)
	answered := mapset.NewSet[netip.Addr]()

	eg := new(errgroup.Group)
	if len(v4) > 0 {
		eg.Go(func() error { return p.ping(false, v4, until, answered) })
	}
	if len(v6) > 0 {
		eg.Go(func() error { return p.ping(true, v6, until, answered) })
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	reachable := make([]netip.Addr, 0, answered.Cardinality())
	for _, addr := range addrs {
		if answered.ContainsOne(addr.Unmap()) {
			reachable = append(reachable, addr)
		}
	}
	return reachable, nil
}

// ping sends the echo requests of one address family and collects the replies
func (p *ICMPProbe) ping(v6 bool, addrs []netip.Addr, until time.Time, answered mapset.Set[netip.Addr]) error {
	network, listen, protocol := "udp4", "0.0.0.0", protocolICMP
	var echoType, replyType icmp.Type = ipv4.ICMPTypeEcho, ipv4.ICMPTypeEchoReply
	if v6 {
		network, listen, protocol = "udp6", "::", protocolIPv6ICMP
		echoType, replyType = ipv6.ICMPTypeEchoRequest, ipv6.ICMPTypeEchoReply
	}

	if p.privileged {
		network = "ip4:icmp"
		if v6 {
			network = "ip6:ipv6-icmp"
		}
	}

	conn, err := icmp.ListenPacket(network, listen)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.SetDeadline(until); err != nil {
		return err
	}

	pending := mapset.NewThreadUnsafeSet[netip.Addr](addrs...)
	id := os.Getpid() & 0xffff
	for seq, addr := range addrs {
		message := icmp.Message{
			Type: echoType,
			Body: &icmp.Echo{ID: id, Seq: seq, Data: []byte(echoPayload)},
		}

		bytea, err := message.Marshal(nil)
		if err != nil {
			return err
		}

		if _, err := conn.WriteTo(bytea, p.destination(addr)); err != nil {
			p.logger.Debugf("failed to send echo request to address=(%s): %v", addr, err)
			pending.Remove(addr)
		}
	}

	buffer := make([]byte, 1500)
	for !pending.IsEmpty() {
		n, peer, err := conn.ReadFrom(buffer)
		if err != nil {
			// deadline reached
			break
		}

		reply, err := icmp.ParseMessage(protocol, buffer[:n])
		if err != nil || reply.Type != replyType {
			continue
		}

		addr, ok := peerAddr(peer)
		if !ok || !pending.ContainsOne(addr) {
			continue
		}

		pending.Remove(addr)
		answered.Add(addr)
	}
	return nil
}

func (p *ICMPProbe) destination(addr netip.Addr) net.Addr {
	if p.privileged {
		return &net.IPAddr{IP: addr.AsSlice(), Zone: addr.Zone()}
	}
	return &net.UDPAddr{IP: addr.AsSlice(), Zone: addr.Zone()}
}

func peerAddr(peer net.Addr) (netip.Addr, bool) {
	var ip net.IP
	var zone string
	switch x := peer.(type) {
	case *net.UDPAddr:
		ip, zone = x.IP, x.Zone
	case *net.IPAddr:
		ip, zone = x.IP, x.Zone
	default:
		return netip.Addr{}, false
	}

	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return netip.Addr{}, false
	}
	return addr.Unmap().WithZone(zone), true
}
