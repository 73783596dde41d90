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
	"errors"
	"fmt"
	"strings"
)

// MaxPort is the highest TCP port
const MaxPort = 65535

var (
	errMissingHost    = errors.New("host is required")
	errPortOutOfRange = fmt.Errorf("port must be in [0, %d]", MaxPort)
)

// HostPortValidator checks that a host is set and that a port is a valid TCP port
type HostPortValidator struct {
	host string
	port int
}

var _ Validator = (*HostPortValidator)(nil)

// NewHostPortValidator creates an instance of HostPortValidator
func NewHostPortValidator(host string, port int) *HostPortValidator {
	return &HostPortValidator{host: host, port: port}
}

// Validate implements Validator
func (x *HostPortValidator) Validate() error {
	if strings.TrimSpace(x.host) == "" {
		return fmt.Errorf("invalid host=(%s) port=(%d): %w", x.host, x.port, errMissingHost)
	}

	if x.port < 0 || x.port > MaxPort {
		return fmt.Errorf("invalid host=(%s) port=(%d): %w", x.host, x.port, errPortOutOfRange)
	}
	return nil
}
