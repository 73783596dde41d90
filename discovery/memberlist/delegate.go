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

package memberlist

import (
	"sync"

	"github.com/hashicorp/memberlist"

	"github.com/tochemey/nodeaddr/discovery"
	"github.com/tochemey/nodeaddr/log"
)

// Delegate publishes the local member attributes as memberlist node metadata
type Delegate struct {
	mu     sync.RWMutex
	attrs  discovery.Attributes
	logger log.Logger
}

// enforce compilation error
var _ memberlist.Delegate = (*Delegate)(nil)

// NewDelegate creates an instance of Delegate
func NewDelegate(attrs discovery.Attributes, logger log.Logger) *Delegate {
	if logger == nil {
		logger = log.DiscardLogger
	}
	return &Delegate{attrs: attrs, logger: logger}
}

// SetAttributes replaces the published attributes.
// Call memberlist.UpdateNode afterwards to gossip the change.
func (x *Delegate) SetAttributes(attrs discovery.Attributes) {
	x.mu.Lock()
	x.attrs = attrs
	x.mu.Unlock()
}

// NodeMeta is used to retrieve meta-data about the current node
// when broadcasting an alive message. It's length is limited to
// the given byte size. Metadata larger than limit is not published.
func (x *Delegate) NodeMeta(limit int) []byte {
	x.mu.RLock()
	bytea, err := Encode(x.attrs)
	x.mu.RUnlock()
	if err != nil {
		x.logger.Errorf("failed to encode node metadata: %v", err)
		return nil
	}

	if len(bytea) > limit {
		x.logger.Warnf("node metadata size=(%d) exceeds limit=(%d), attributes are not published", len(bytea), limit)
		return nil
	}
	return bytea
}

// NotifyMsg is called when a user-data message is received.
// nolint
func (x *Delegate) NotifyMsg([]byte) {}

// GetBroadcasts is called when user data messages can be broadcast.
// nolint
func (x *Delegate) GetBroadcasts(overhead, limit int) [][]byte { return nil }

// LocalState is used for a TCP Push/Pull.
// nolint
func (x *Delegate) LocalState(join bool) []byte { return nil }

// MergeRemoteState is invoked after a TCP Push/Pull.
// nolint
func (x *Delegate) MergeRemoteState(buf []byte, join bool) {}
