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

package collection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lower(s string) string { return strings.ToLower(s) }

func TestOrderedSet(t *testing.T) {
	t.Run("With insertion order kept", func(t *testing.T) {
		set := NewOrderedSet[string, string](lower, 4)
		assert.True(t, set.Add("c"))
		assert.True(t, set.Add("a"))
		assert.True(t, set.Add("b"))
		assert.Equal(t, []string{"c", "a", "b"}, set.Values())
		assert.Equal(t, 3, set.Len())
	})
	t.Run("With first occurrence winning", func(t *testing.T) {
		set := NewOrderedSet[string, string](lower, 0)
		set.AddAll("a", "B", "b", "A", "c")
		assert.False(t, set.Add("C"))
		assert.Equal(t, []string{"a", "B", "c"}, set.Values())
		assert.True(t, set.Contains("b"))
		assert.False(t, set.Contains("d"))
	})
	t.Run("With values copied", func(t *testing.T) {
		set := NewOrderedSet[string, string](lower, 0)
		set.AddAll("a", "b")
		values := set.Values()
		values[0] = "z"
		assert.Equal(t, []string{"a", "b"}, set.Values())
	})
	t.Run("With stable partition", func(t *testing.T) {
		set := NewOrderedSet[string, string](lower, 0)
		set.AddAll("a1", "b1", "a2", "b2", "a3")
		out := set.Partition(func(s string) bool { return strings.HasPrefix(s, "a") })
		require.Equal(t, 5, out.Len())
		assert.Equal(t, []string{"a1", "a2", "a3", "b1", "b2"}, out.Values())
		// the source is left untouched
		assert.Equal(t, []string{"a1", "b1", "a2", "b2", "a3"}, set.Values())
	})
	t.Run("With filter", func(t *testing.T) {
		set := NewOrderedSet[string, string](lower, 0)
		set.AddAll("a1", "b1", "a2", "b2")
		out := set.Filter(func(s string) bool { return !strings.HasPrefix(s, "b") })
		assert.Equal(t, []string{"a1", "a2"}, out.Values())
		assert.True(t, out.Add("b1"))
	})
}
