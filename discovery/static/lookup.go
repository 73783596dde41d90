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

// Package static provides a membership Lookup over a fixed list of members,
// typically loaded from a configuration file.
package static

import (
	"context"
	"sort"
	"sync"

	"github.com/tochemey/nodeaddr/discovery"
	"github.com/tochemey/nodeaddr/errors"
	"github.com/tochemey/nodeaddr/internal/validation"
	"github.com/tochemey/nodeaddr/log"
)

// Lookup serves member attributes from an in-memory list
type Lookup struct {
	mu      sync.RWMutex
	members map[string]*discovery.Member
	logger  log.Logger
}

// enforce compilation error
var _ discovery.Lookup = (*Lookup)(nil)

// NewLookup creates an instance of Lookup.
// It fails when a member is invalid or when two members share the same id.
func NewLookup(logger log.Logger, members ...*discovery.Member) (*Lookup, error) {
	if logger == nil {
		logger = log.DiscardLogger
	}

	lookup := &Lookup{logger: logger}
	if err := lookup.Replace(members...); err != nil {
		return nil, err
	}
	return lookup, nil
}

// ID returns the lookup name
func (x *Lookup) ID() string {
	return "static"
}

// Member returns the member with the given id
func (x *Lookup) Member(_ context.Context, id string) (*discovery.Member, error) {
	x.mu.RLock()
	member, ok := x.members[id]
	x.mu.RUnlock()
	if !ok {
		return nil, errors.NewErrMemberNotFound(id)
	}
	return member, nil
}

// Members returns the known members sorted by id
func (x *Lookup) Members() []*discovery.Member {
	x.mu.RLock()
	members := make([]*discovery.Member, 0, len(x.members))
	for _, member := range x.members {
		members = append(members, member)
	}
	x.mu.RUnlock()

	sort.Slice(members, func(i, j int) bool {
		return members[i].ID < members[j].ID
	})
	return members
}

// Replace swaps the whole member list. On validation failure the current
// list is kept.
func (x *Lookup) Replace(members ...*discovery.Member) error {
	next := make(map[string]*discovery.Member, len(members))
	chain := validation.New(validation.AllErrors())
	for _, member := range members {
		if member == nil {
			continue
		}

		chain.AddValidator(NewMemberValidator(member))
		_, duplicate := next[member.ID]
		chain.AddAssertion(!duplicate, "duplicate member id="+member.ID)
		next[member.ID] = member
	}

	if err := chain.Validate(); err != nil {
		return err
	}

	x.mu.Lock()
	x.members = next
	x.mu.Unlock()
	x.logger.Debugf("static lookup loaded %d members", len(next))
	return nil
}
