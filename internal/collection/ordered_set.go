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
	mapset "github.com/deckarep/golang-set/v2"
)

// OrderedSet is a duplicate-eliminating collection that remembers insertion
// order. Identity is given by a key function; when two values share a key the
// first one inserted keeps its position and the later one is dropped.
//
// OrderedSet is not safe for concurrent use.
type OrderedSet[K comparable, V any] struct {
	keyOf  func(V) K
	keys   mapset.Set[K]
	values []V
}

// NewOrderedSet creates an OrderedSet with the given key function and capacity hint
func NewOrderedSet[K comparable, V any](keyOf func(V) K, capacity int) *OrderedSet[K, V] {
	return &OrderedSet[K, V]{
		keyOf:  keyOf,
		keys:   mapset.NewThreadUnsafeSetWithSize[K](capacity),
		values: make([]V, 0, capacity),
	}
}

// Add appends v when its key is not yet present and reports whether it was added
func (s *OrderedSet[K, V]) Add(v V) bool {
	if !s.keys.Add(s.keyOf(v)) {
		return false
	}
	s.values = append(s.values, v)
	return true
}

// AddAll appends every value in order, skipping duplicates
func (s *OrderedSet[K, V]) AddAll(values ...V) {
	for _, v := range values {
		s.Add(v)
	}
}

// Contains reports whether a value with the same key is present
func (s *OrderedSet[K, V]) Contains(v V) bool {
	return s.keys.ContainsOne(s.keyOf(v))
}

// Len returns the number of values
func (s *OrderedSet[K, V]) Len() int {
	return len(s.values)
}

// Values returns a copy of the values in insertion order
func (s *OrderedSet[K, V]) Values() []V {
	out := make([]V, len(s.values))
	copy(out, s.values)
	return out
}

// Partition returns a new set holding the values for which keep returns true
// followed by the others. Relative order inside each group is preserved.
func (s *OrderedSet[K, V]) Partition(keep func(V) bool) *OrderedSet[K, V] {
	out := NewOrderedSet[K, V](s.keyOf, len(s.values))
	rest := make([]V, 0, len(s.values))
	for _, v := range s.values {
		if keep(v) {
			out.Add(v)
			continue
		}
		rest = append(rest, v)
	}
	out.AddAll(rest...)
	return out
}

// Filter returns a new set holding only the values for which keep returns true,
// in their original order
func (s *OrderedSet[K, V]) Filter(keep func(V) bool) *OrderedSet[K, V] {
	out := NewOrderedSet[K, V](s.keyOf, len(s.values))
	for _, v := range s.values {
		if keep(v) {
			out.Add(v)
		}
	}
	return out
}
