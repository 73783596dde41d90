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
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travisjeffery/go-dynaport"
	"go.uber.org/goleak"

	"github.com/tochemey/nodeaddr/log"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAll(t *testing.T) {
	addrs := []netip.Addr{netip.MustParseAddr("10.0.0.12"), netip.MustParseAddr("::1")}
	actual, err := All.Reachable(context.Background(), addrs)
	require.NoError(t, err)
	assert.Equal(t, addrs, actual)
}

func TestDeadline(t *testing.T) {
	start := time.Now()
	assert.Equal(t, start.Add(time.Second), deadline(context.Background(), start, time.Second))

	ctx, cancel := context.WithDeadline(context.Background(), start.Add(100*time.Millisecond))
	defer cancel()
	assert.Equal(t, start.Add(100*time.Millisecond), deadline(ctx, start, time.Second))
}

func TestTCPProbe(t *testing.T) {
	loopback := netip.MustParseAddr("127.0.0.1")

	t.Run("With listening port", func(t *testing.T) {
		ports := dynaport.Get(1)
		listener, err := net.Listen("tcp", net.JoinHostPort(loopback.String(), strconv.Itoa(ports[0])))
		require.NoError(t, err)
		t.Cleanup(func() { _ = listener.Close() })

		probe := NewTCPProbe(WithPort(ports[0]), WithTimeout(time.Second), WithLogger(log.DiscardLogger))
		actual, err := probe.Reachable(context.Background(), []netip.Addr{loopback})
		require.NoError(t, err)
		assert.Equal(t, []netip.Addr{loopback}, actual)
	})
	t.Run("With refused connection", func(t *testing.T) {
		// nothing listens on the port: the host answered with a reset
		ports := dynaport.Get(1)
		probe := NewTCPProbe(WithPort(ports[0]), WithTimeout(time.Second))
		actual, err := probe.Reachable(context.Background(), []netip.Addr{loopback})
		require.NoError(t, err)
		assert.Equal(t, []netip.Addr{loopback}, actual)
	})
	t.Run("With unreachable address", func(t *testing.T) {
		// TEST-NET-1 is never routed
		unreachable := netip.MustParseAddr("192.0.2.1")
		probe := NewTCPProbe(WithTimeout(200*time.Millisecond), WithConcurrency(2), WithLogger(log.DiscardLogger))
		actual, err := probe.Reachable(context.Background(), []netip.Addr{unreachable, loopback})
		require.NoError(t, err)
		assert.NotContains(t, actual, unreachable)
	})
	t.Run("With input order kept", func(t *testing.T) {
		ports := dynaport.Get(1)
		probe := NewTCPProbe(WithPort(ports[0]), WithConcurrency(0))
		addrs := []netip.Addr{netip.MustParseAddr("127.0.0.3"), loopback, netip.MustParseAddr("127.0.0.2")}
		actual, err := probe.Reachable(context.Background(), addrs)
		require.NoError(t, err)
		assert.Equal(t, addrs, actual)
	})
	t.Run("With canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewTCPProbe().Reachable(ctx, []netip.Addr{loopback})
		assert.ErrorIs(t, err, context.Canceled)
	})
	t.Run("With no address", func(t *testing.T) {
		actual, err := NewTCPProbe().Reachable(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, actual)
	})
}

func TestICMPProbe(t *testing.T) {
	t.Run("With canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewICMPProbe().Reachable(ctx, []netip.Addr{netip.MustParseAddr("127.0.0.1")})
		assert.ErrorIs(t, err, context.Canceled)
	})
	t.Run("With loopback", func(t *testing.T) {
		probe := NewICMPProbe(WithICMPTimeout(time.Second), WithPrivileged(false), WithICMPLogger(log.DiscardLogger))
		loopback := netip.MustParseAddr("127.0.0.1")
		actual, err := probe.Reachable(context.Background(), []netip.Addr{loopback})
		if err != nil {
			t.Skipf("unprivileged ICMP sockets are not permitted: %v", err)
		}
		assert.Equal(t, []netip.Addr{loopback}, actual)
	})
}

func TestPeerAddr(t *testing.T) {
	addr, ok := peerAddr(&net.UDPAddr{IP: net.ParseIP("10.0.0.12")})
	require.True(t, ok)
	assert.Equal(t, netip.MustParseAddr("10.0.0.12"), addr)

	addr, ok = peerAddr(&net.IPAddr{IP: net.ParseIP("fe80::1"), Zone: "eth0"})
	require.True(t, ok)
	assert.Equal(t, netip.MustParseAddr("fe80::1%eth0"), addr)

	_, ok = peerAddr(&net.TCPAddr{IP: net.ParseIP("10.0.0.12")})
	assert.False(t, ok)
}
