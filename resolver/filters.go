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

package resolver

import (
	"regexp"
	"regexp/syntax"
	"slices"

	"github.com/tochemey/nodeaddr/endpoint"
	"github.com/tochemey/nodeaddr/errors"
	"github.com/tochemey/nodeaddr/internal/validation"
)

// filterSet is an immutable snapshot of the exclusion filters
type filterSet struct {
	patterns    []string
	expressions []*regexp.Regexp
}

var emptyFilters = &filterSet{}

// compileFilters validates and compiles the given patterns.
// Every pattern is anchored so that it must match the whole textual address.
func compileFilters(patterns []string) (*filterSet, error) {
	sorted := slices.Clone(patterns)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	chain := validation.New(validation.AllErrors())
	for _, pattern := range sorted {
		chain.AddValidator(validation.NewRegexValidator(pattern))
	}

	if err := chain.Validate(); err != nil {
		return nil, err
	}

	expressions := make([]*regexp.Regexp, 0, len(sorted))
	for _, pattern := range sorted {
		expression, err := compileAnchored(pattern)
		if err != nil {
			return nil, errors.NewFilterSyntaxError(pattern, err)
		}
		expressions = append(expressions, expression)
	}

	return &filterSet{
		patterns:    sorted,
		expressions: expressions,
	}, nil
}

// compileAnchored compiles pattern so that it only matches a whole string.
// The anchors are added to the parsed tree, never to the pattern text, so
// constructs such as \Q...\E cannot swallow them.
func compileAnchored(pattern string) (*regexp.Regexp, error) {
	tree, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, err
	}

	anchored := &syntax.Regexp{
		Op:    syntax.OpConcat,
		Flags: syntax.Perl,
		Sub: []*syntax.Regexp{
			{Op: syntax.OpBeginText},
			tree,
			{Op: syntax.OpEndText},
		},
	}
	return regexp.Compile(anchored.String())
}

// excludes reports whether the endpoint address matches any filter.
// Unresolved endpoints have no textual address and are never excluded.
func (x *filterSet) excludes(e endpoint.Endpoint) bool {
	if len(x.expressions) == 0 || e.IsUnresolved() {
		return false
	}

	address := e.HostAddress()
	for _, expression := range x.expressions {
		if expression.MatchString(address) {
			return true
		}
	}
	return false
}
