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
	"context"
	"io"
	"strings"
	"testing"

	"github.com/hashicorp/memberlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travisjeffery/go-dynaport"

	"github.com/tochemey/nodeaddr/discovery"
	"github.com/tochemey/nodeaddr/endpoint"
	"github.com/tochemey/nodeaddr/errors"
	"github.com/tochemey/nodeaddr/log"
)

type staticMembers []*memberlist.Node

func (x staticMembers) Members() []*memberlist.Node {
	return x
}

func testAttributes() discovery.Attributes {
	return discovery.Attributes{
		IPAddresses:       []string{"10.0.0.12", "127.0.0.1"},
		HostNames:         []string{"node-1.local"},
		Port:              discovery.NewPort(47100),
		ExternalAddresses: []endpoint.Endpoint{endpoint.New("203.0.113.7", 47100), endpoint.Unresolved("node-1.example.com", 47100)},
		MACs:              []string{"02:42:ac:11:00:02"},
	}
}

func TestCodec(t *testing.T) {
	t.Run("With full attributes", func(t *testing.T) {
		expected := testAttributes()
		bytea, err := Encode(expected)
		require.NoError(t, err)
		require.NotEmpty(t, bytea)

		actual, err := Decode(bytea)
		require.NoError(t, err)
		assert.Equal(t, expected.IPAddresses, actual.IPAddresses)
		assert.Equal(t, expected.HostNames, actual.HostNames)
		assert.Equal(t, expected.MACs, actual.MACs)
		require.NotNil(t, actual.Port)
		assert.Equal(t, 47100, *actual.Port)
		require.Len(t, actual.ExternalAddresses, 2)
		assert.True(t, actual.ExternalAddresses[0].Equals(expected.ExternalAddresses[0]))
		assert.True(t, actual.ExternalAddresses[1].IsUnresolved())
	})
	t.Run("With no port", func(t *testing.T) {
		bytea, err := Encode(discovery.Attributes{IPAddresses: []string{"10.0.0.12"}})
		require.NoError(t, err)
		actual, err := Decode(bytea)
		require.NoError(t, err)
		assert.Nil(t, actual.Port)
		assert.Empty(t, actual.ExternalAddresses)
	})
	t.Run("With empty metadata", func(t *testing.T) {
		actual, err := Decode(nil)
		require.NoError(t, err)
		assert.Empty(t, actual.IPAddresses)
	})
	t.Run("With corrupted metadata", func(t *testing.T) {
		_, err := Decode([]byte{0xff, 0xff, 0xff})
		assert.ErrorIs(t, err, errors.ErrInvalidMemberMeta)
	})
}

func TestDelegate(t *testing.T) {
	delegate := NewDelegate(testAttributes(), log.DiscardLogger)
	meta := delegate.NodeMeta(memberlist.MetaMaxSize)
	require.NotEmpty(t, meta)

	attrs, err := Decode(meta)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.12", "127.0.0.1"}, attrs.IPAddresses)

	// too large to be published
	assert.Nil(t, delegate.NodeMeta(8))

	delegate.SetAttributes(discovery.Attributes{
		IPAddresses: []string{strings.Repeat("a", 64)},
	})
	attrs, err = Decode(delegate.NodeMeta(memberlist.MetaMaxSize))
	require.NoError(t, err)
	assert.Nil(t, attrs.Port)

	assert.Nil(t, delegate.GetBroadcasts(0, 0))
	assert.Nil(t, delegate.LocalState(false))
	delegate.NotifyMsg(nil)
	delegate.MergeRemoteState(nil, false)
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	meta, err := Encode(testAttributes())
	require.NoError(t, err)

	lookup := NewLookup(staticMembers{
		nil,
		{Name: "node-1", Meta: meta},
		{Name: "node-2"},
		{Name: "node-3", Meta: []byte{0xff, 0xff}},
	})
	assert.Equal(t, "memberlist", lookup.ID())

	t.Run("With known member", func(t *testing.T) {
		member, err := lookup.Member(ctx, "node-1")
		require.NoError(t, err)
		assert.Equal(t, "node-1", member.ID)
		assert.True(t, member.HasBound())
		assert.True(t, member.HasExternal())
	})
	t.Run("With member publishing nothing", func(t *testing.T) {
		member, err := lookup.Member(ctx, "node-2")
		require.NoError(t, err)
		assert.False(t, member.HasBound())
		assert.False(t, member.HasExternal())
	})
	t.Run("With unknown member", func(t *testing.T) {
		_, err := lookup.Member(ctx, "node-4")
		assert.ErrorIs(t, err, errors.ErrMemberNotFound)
	})
	t.Run("With corrupted metadata", func(t *testing.T) {
		_, err := lookup.Member(ctx, "node-3")
		assert.ErrorIs(t, err, errors.ErrInvalidMemberMeta)
	})
	t.Run("With canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := lookup.Member(canceled, "node-1")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLookupWithMemberlist(t *testing.T) {
	ports := dynaport.Get(1)

	config := memberlist.DefaultLocalConfig()
	config.Name = "node-1"
	config.BindAddr = "127.0.0.1"
	config.BindPort = ports[0]
	config.AdvertisePort = ports[0]
	config.LogOutput = io.Discard
	config.Delegate = NewDelegate(testAttributes(), log.DiscardLogger)

	list, err := memberlist.Create(config)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = list.Shutdown()
	})

	member, err := NewLookup(list).Member(context.Background(), "node-1")
	require.NoError(t, err)
	require.NotNil(t, member.Attributes.Port)
	assert.Equal(t, 47100, *member.Attributes.Port)
	assert.Equal(t, []string{"02:42:ac:11:00:02"}, member.Attributes.MACs)
}
