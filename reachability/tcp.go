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
	"errors"
	"net"
	"net/netip"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tochemey/nodeaddr/log"
)

const (
	// DefaultEchoPort is the echo service port probed by TCPProbe
	DefaultEchoPort = 7
	// DefaultTimeout is the default probe timeout
	DefaultTimeout = 2 * time.Second
	// DefaultConcurrency is the default number of addresses probed at the same time
	DefaultConcurrency = 16
)

// TCPProbe judges an address reachable when a TCP connection to the probe
// port either succeeds or is actively refused: both prove that a host
// answered. Timeouts and network errors mean unreachable.
type TCPProbe struct {
	port        int
	timeout     time.Duration
	concurrency int
	logger      log.Logger
	dialer      *net.Dialer
}

// enforce compilation error
var _ Probe = (*TCPProbe)(nil)

// TCPOption configures a TCPProbe
type TCPOption func(*TCPProbe)

// WithPort sets the probed port
func WithPort(port int) TCPOption {
	return func(p *TCPProbe) {
		p.port = port
	}
}

// WithTimeout sets the time budget of a whole probe round
func WithTimeout(timeout time.Duration) TCPOption {
	return func(p *TCPProbe) {
		p.timeout = timeout
	}
}

// WithConcurrency sets the number of addresses probed at the same time
func WithConcurrency(concurrency int) TCPOption {
	return func(p *TCPProbe) {
		if concurrency > 0 {
			p.concurrency = concurrency
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) TCPOption {
	return func(p *TCPProbe) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewTCPProbe creates an instance of TCPProbe
func NewTCPProbe(opts ...TCPOption) *TCPProbe {
	probe := &TCPProbe{
		port:        DefaultEchoPort,
		timeout:     DefaultTimeout,
		concurrency: DefaultConcurrency,
		logger:      log.DiscardLogger,
		dialer:      &net.Dialer{},
	}

	for _, opt := range opts {
		opt(probe)
	}
	return probe
}

// Reachable dials every address concurrently and returns the reachable ones
// in input order. It only fails when ctx is already done.
func (p *TCPProbe) Reachable(ctx context.Context, addrs []netip.Addr) ([]netip.Addr, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithDeadline(ctx, deadline(ctx, time.Now(), p.timeout))
	defer cancel()

	results := make([]bool, len(addrs))
	eg := new(errgroup.Group)
	eg.SetLimit(p.concurrency)
	for index, addr := range addrs {
		eg.Go(func() error {
			results[index] = p.reachable(ctx, addr)
			return nil
		})
	}
	_ = eg.Wait()

	reachable := make([]netip.Addr, 0, len(addrs))
	for index, ok := range results {
		if ok {
			reachable = append(reachable, addrs[index])
		}
	}
	return reachable, nil
}

func (p *TCPProbe) reachable(ctx context.Context, addr netip.Addr) bool {
	target := net.JoinHostPort(addr.String(), strconv.Itoa(p.port))
	conn, err := p.dialer.DialContext(ctx, "tcp", target)
	if err == nil {
		_ = conn.Close()
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	if p.logger.Enabled(log.DebugLevel) {
		p.logger.Debugf("address=(%s) is not reachable: %v", addr, err)
	}
	return false
}
