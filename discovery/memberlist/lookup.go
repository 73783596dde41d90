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

// Package memberlist reads member attributes published as
// github.com/hashicorp/memberlist node metadata.
//
// The local member publishes its attributes through a Delegate; every other
// member's attributes are decoded from the metadata gossiped with its node.
package memberlist

import (
	"context"
	"fmt"

	"github.com/hashicorp/memberlist"

	"github.com/tochemey/nodeaddr/discovery"
	"github.com/tochemey/nodeaddr/errors"
)

// Members lists the memberlist nodes currently known.
// *memberlist.Memberlist implements it.
type Members interface {
	Members() []*memberlist.Node
}

// Lookup serves member attributes from memberlist node metadata
type Lookup struct {
	members Members
}

// enforce compilation error
var _ discovery.Lookup = (*Lookup)(nil)

// NewLookup creates an instance of Lookup
func NewLookup(members Members) *Lookup {
	return &Lookup{members: members}
}

// ID returns the lookup name
func (x *Lookup) ID() string {
	return "memberlist"
}

// Member returns the member whose node name is id
func (x *Lookup) Member(ctx context.Context, id string) (*discovery.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, node := range x.members.Members() {
		if node == nil || node.Name != id {
			continue
		}

		attrs, err := Decode(node.Meta)
		if err != nil {
			return nil, fmt.Errorf("member=(%s): %w", id, err)
		}
		return &discovery.Member{ID: id, Attributes: attrs}, nil
	}
	return nil, errors.NewErrMemberNotFound(id)
}
