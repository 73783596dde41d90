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
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tochemey/nodeaddr/discovery"
	"github.com/tochemey/nodeaddr/endpoint"
	"github.com/tochemey/nodeaddr/errors"
)

// attribute keys of the published node metadata
const (
	addrsKey     = "addrs"
	hostNamesKey = "hostNames"
	portKey      = "port"
	extAddrsKey  = "extAddrs"
	macsKey      = "macs"
)

// Encode serializes the member attributes into node metadata
func Encode(attrs discovery.Attributes) ([]byte, error) {
	fields := map[string]any{
		addrsKey:     toList(attrs.IPAddresses),
		hostNamesKey: toList(attrs.HostNames),
		macsKey:      toList(attrs.MACs),
	}

	external := make([]any, 0, len(attrs.ExternalAddresses))
	for _, e := range attrs.ExternalAddresses {
		text, err := e.MarshalText()
		if err != nil {
			return nil, err
		}
		external = append(external, string(text))
	}
	fields[extAddrsKey] = external

	if attrs.Port != nil {
		fields[portKey] = *attrs.Port
	}

	meta, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode member attributes: %w", err)
	}
	return proto.Marshal(meta)
}

// Decode deserializes node metadata into member attributes.
// Empty metadata decodes into empty attributes.
func Decode(bytea []byte) (discovery.Attributes, error) {
	var attrs discovery.Attributes
	if len(bytea) == 0 {
		return attrs, nil
	}

	meta := new(structpb.Struct)
	if err := proto.Unmarshal(bytea, meta); err != nil {
		return attrs, fmt.Errorf("%w: %w", errors.ErrInvalidMemberMeta, err)
	}

	fields := meta.GetFields()
	attrs.IPAddresses = fromList(fields[addrsKey])
	attrs.HostNames = fromList(fields[hostNamesKey])
	attrs.MACs = fromList(fields[macsKey])

	if value, ok := fields[portKey]; ok {
		attrs.Port = discovery.NewPort(int(value.GetNumberValue()))
	}

	for _, text := range fromList(fields[extAddrsKey]) {
		e, err := endpoint.Parse(text)
		if err != nil {
			return attrs, fmt.Errorf("%w: %w", errors.ErrInvalidMemberMeta, err)
		}
		attrs.ExternalAddresses = append(attrs.ExternalAddresses, e)
	}
	return attrs, nil
}

func toList(values []string) []any {
	list := make([]any, len(values))
	for i, value := range values {
		list[i] = value
	}
	return list
}

func fromList(value *structpb.Value) []string {
	items := value.GetListValue().GetValues()
	if len(items) == 0 {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.GetStringValue())
	}
	return out
}
