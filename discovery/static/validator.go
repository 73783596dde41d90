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

package static

import (
	"fmt"

	"github.com/tochemey/nodeaddr/discovery"
	"github.com/tochemey/nodeaddr/internal/validation"
)

// MemberValidator checks a statically declared member
type MemberValidator struct {
	member *discovery.Member
}

var _ validation.Validator = (*MemberValidator)(nil)

// NewMemberValidator creates an instance of MemberValidator
func NewMemberValidator(member *discovery.Member) *MemberValidator {
	return &MemberValidator{member: member}
}

// Validate checks the member id, the port range and the external endpoints
func (x *MemberValidator) Validate() error {
	attrs := x.member.Attributes
	chain := validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("id", x.member.ID))

	if attrs.Port != nil {
		chain.AddAssertion(*attrs.Port >= 0 && *attrs.Port <= 65535,
			fmt.Sprintf("member=(%s) port=(%d) is out of range", x.member.ID, *attrs.Port))
	}

	for _, external := range attrs.ExternalAddresses {
		chain.AddValidator(external)
	}
	return chain.Validate()
}
