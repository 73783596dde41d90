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

// Package errors defines the errors returned while resolving the endpoints
// of a cluster member.
//
// Sentinel errors are meant to be matched with errors.Is. The typed errors
// carry the context needed to diagnose a misconfiguration (the member
// identity, the offending pattern) and unwrap to their sentinel.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNoUsableAddresses is returned when a member advertises neither bound
	// addresses with a port nor mapped external addresses.
	ErrNoUsableAddresses = errors.New("member has no usable communication addresses")

	// ErrInvalidFilter is returned when an exclusion filter is empty or is not a valid regular expression.
	ErrInvalidFilter = errors.New("invalid address exclusion filter")

	// ErrMemberNotFound is returned by a membership lookup when the member is unknown.
	ErrMemberNotFound = errors.New("member not found")

	// ErrProbeFailed is returned when the reachability probe cannot complete.
	ErrProbeFailed = errors.New("reachability probe failed")

	// ErrInvalidEndpoint is returned when an endpoint is malformed.
	ErrInvalidEndpoint = errors.New("invalid endpoint")

	// ErrLookupNotSet is returned when resolving a member by id without a membership lookup.
	ErrLookupNotSet = errors.New("membership lookup is not set")

	// ErrInvalidMemberMeta is returned when published member metadata cannot be decoded.
	ErrInvalidMemberMeta = errors.New("invalid member metadata")
)

// NoUsableAddressesError is returned when a member cannot be reached
// through any address it advertises.
type NoUsableAddressesError struct {
	MemberID string
}

// enforce compilation error
var _ error = (*NoUsableAddressesError)(nil)

// NewNoUsableAddressesError creates an instance of NoUsableAddressesError
func NewNoUsableAddressesError(memberID string) *NoUsableAddressesError {
	return &NoUsableAddressesError{MemberID: memberID}
}

// Error implements the standard error interface
func (e *NoUsableAddressesError) Error() string {
	return fmt.Sprintf("%s: the member does not publish any bound addresses with a port nor mapped external addresses; "+
		"check the configuration and make sure all members use the same communication settings (member=%s)",
		ErrNoUsableAddresses.Error(), e.MemberID)
}

// Unwrap returns ErrNoUsableAddresses
func (e *NoUsableAddressesError) Unwrap() error {
	return ErrNoUsableAddresses
}

// FilterSyntaxError is returned when an exclusion filter is rejected
type FilterSyntaxError struct {
	Pattern string
	err     error
}

// enforce compilation error
var _ error = (*FilterSyntaxError)(nil)

// NewFilterSyntaxError creates an instance of FilterSyntaxError.
// cause may be nil when the pattern is empty.
func NewFilterSyntaxError(pattern string, cause error) *FilterSyntaxError {
	return &FilterSyntaxError{Pattern: pattern, err: cause}
}

// Error implements the standard error interface
func (e *FilterSyntaxError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("%s: pattern=(%q) must not be empty", ErrInvalidFilter.Error(), e.Pattern)
	}
	return fmt.Sprintf("%s: pattern=(%q): %v", ErrInvalidFilter.Error(), e.Pattern, e.err)
}

// Unwrap returns ErrInvalidFilter and the compilation error, if any
func (e *FilterSyntaxError) Unwrap() []error {
	if e.err == nil {
		return []error{ErrInvalidFilter}
	}
	return []error{ErrInvalidFilter, e.err}
}

// NewErrMemberNotFound formats an ErrMemberNotFound with the given member id.
func NewErrMemberNotFound(memberID string) error {
	return fmt.Errorf("member=(%s) %w", memberID, ErrMemberNotFound)
}

// NewErrProbeFailed wraps the probe error with ErrProbeFailed.
func NewErrProbeFailed(memberID string, err error) error {
	return fmt.Errorf("member=(%s): %w", memberID, errors.Join(ErrProbeFailed, err))
}

// NewErrInvalidEndpoint wraps a base error with ErrInvalidEndpoint.
func NewErrInvalidEndpoint(endpoint string, err error) error {
	return fmt.Errorf("endpoint=(%s): %w", endpoint, errors.Join(ErrInvalidEndpoint, err))
}
