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

package validation

import (
	"regexp"

	"github.com/tochemey/nodeaddr/errors"
)

// RegexValidator checks that an address exclusion filter is a
// non-empty regular expression
type RegexValidator struct {
	pattern string
}

var _ Validator = (*RegexValidator)(nil)

// NewRegexValidator creates an instance of RegexValidator
func NewRegexValidator(pattern string) *RegexValidator {
	return &RegexValidator{pattern: pattern}
}

// Validate returns a *errors.FilterSyntaxError when the pattern is
// empty or does not compile
func (x *RegexValidator) Validate() error {
	if x.pattern == "" {
		return errors.NewFilterSyntaxError(x.pattern, nil)
	}

	if _, err := regexp.Compile(x.pattern); err != nil {
		return errors.NewFilterSyntaxError(x.pattern, err)
	}
	return nil
}
