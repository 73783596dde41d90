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

package errors

import (
	"errors"
	"regexp"
	"regexp/syntax"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoUsableAddressesError(t *testing.T) {
	err := NewNoUsableAddressesError("node-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoUsableAddresses)
	assert.Contains(t, err.Error(), "member=node-1")

	var target *NoUsableAddressesError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "node-1", target.MemberID)
}

func TestFilterSyntaxError(t *testing.T) {
	t.Run("With empty pattern", func(t *testing.T) {
		err := NewFilterSyntaxError("", nil)
		assert.ErrorIs(t, err, ErrInvalidFilter)
		assert.Contains(t, err.Error(), "must not be empty")
	})
	t.Run("With invalid pattern", func(t *testing.T) {
		_, cause := regexp.Compile("[")
		require.Error(t, cause)

		err := NewFilterSyntaxError("[", cause)
		assert.ErrorIs(t, err, ErrInvalidFilter)
		assert.Contains(t, err.Error(), `"["`)

		var target *FilterSyntaxError
		require.True(t, errors.As(err, &target))
		assert.Equal(t, "[", target.Pattern)

		var syntaxErr *syntax.Error
		require.True(t, errors.As(err, &syntaxErr))
	})
}

func TestWrappers(t *testing.T) {
	assert.ErrorIs(t, NewErrMemberNotFound("node-1"), ErrMemberNotFound)

	cause := errors.New("boom")
	err := NewErrProbeFailed("node-1", cause)
	assert.ErrorIs(t, err, ErrProbeFailed)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "member=(node-1)")

	err = NewErrInvalidEndpoint("host:abc", cause)
	assert.ErrorIs(t, err, ErrInvalidEndpoint)
	assert.ErrorIs(t, err, cause)
}
