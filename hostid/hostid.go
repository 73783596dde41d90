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

// Package hostid decides whether two cluster members run on the same
// physical host.
//
// Members publish the hardware (MAC) addresses of their host's network
// interfaces. Two members publishing the same non-empty set of hardware
// addresses are considered to share the host.
package hostid

import (
	"net"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/hashicorp/go-sockaddr"

	"github.com/tochemey/nodeaddr/discovery"
)

// SameHost reports whether the local and the remote member share the same host
type SameHost interface {
	SameHost(local, remote *discovery.Member) bool
}

// SameHostFunc is an adapter to allow the use of ordinary functions as SameHost
type SameHostFunc func(local, remote *discovery.Member) bool

// SameHost calls f(local, remote)
func (f SameHostFunc) SameHost(local, remote *discovery.Member) bool {
	return f(local, remote)
}

// MACs compares the hardware addresses published by both members
type MACs struct{}

// enforce compilation error
var _ SameHost = MACs{}

// SameHost returns true when both members publish the same non-empty set of
// hardware addresses. Unparsable entries are ignored.
func (MACs) SameHost(local, remote *discovery.Member) bool {
	if local == nil || remote == nil {
		return false
	}

	localMACs := normalize(local.Attributes.MACs)
	remoteMACs := normalize(remote.Attributes.MACs)
	if localMACs.IsEmpty() || remoteMACs.IsEmpty() {
		return false
	}
	return localMACs.Equal(remoteMACs)
}

// LocalMACs returns the sorted hardware addresses of the local host network
// interfaces that are up, skipping loopback interfaces
func LocalMACs() ([]string, error) {
	ifAddrs, err := sockaddr.GetAllInterfaces()
	if err != nil {
		return nil, err
	}

	macs := mapset.NewThreadUnsafeSet[string]()
	for _, ifAddr := range ifAddrs {
		iface := ifAddr.Interface
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		if len(iface.HardwareAddr) == 0 {
			continue
		}
		macs.Add(iface.HardwareAddr.String())
	}

	out := macs.ToSlice()
	sort.Strings(out)
	return out, nil
}

// LocalAddresses returns the private then the public IP addresses of the local host
func LocalAddresses() ([]string, error) {
	private, err := sockaddr.GetPrivateIPs()
	if err != nil {
		return nil, err
	}

	public, err := sockaddr.GetPublicIPs()
	if err != nil {
		return nil, err
	}
	return append(strings.Fields(private), strings.Fields(public)...), nil
}

// LocalMember builds the local member publishing the local host addresses,
// the given port and the local hardware addresses
func LocalMember(id string, port int) (*discovery.Member, error) {
	addresses, err := LocalAddresses()
	if err != nil {
		return nil, err
	}

	macs, err := LocalMACs()
	if err != nil {
		return nil, err
	}

	return &discovery.Member{
		ID: id,
		Attributes: discovery.Attributes{
			IPAddresses: addresses,
			Port:        discovery.NewPort(port),
			MACs:        macs,
		},
	}, nil
}

func normalize(macs []string) mapset.Set[string] {
	set := mapset.NewThreadUnsafeSetWithSize[string](len(macs))
	for _, mac := range macs {
		hw, err := net.ParseMAC(strings.TrimSpace(mac))
		if err != nil {
			continue
		}
		set.Add(hw.String())
	}
	return set
}
