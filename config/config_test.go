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

package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	nerrors "github.com/tochemey/nodeaddr/errors"
	"github.com/tochemey/nodeaddr/log"
	"github.com/tochemey/nodeaddr/reachability"
)

const sample = `
local-member: m1
log-level: debug
filters:
  - 127[.]0[.]0[.]1
probe:
  enabled: true
  timeout: 500ms
  port: 7001
members:
  - id: m1
    addresses: [127.0.0.1, 10.0.0.12]
    port: 47100
    macs: ["02:42:ac:11:00:02"]
  - id: m2
    addresses: [10.0.0.13, node-b]
    host-names: ["", node-b.local]
    port: 47100
    external: ["203.0.113.5:9000"]
`

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLoad(t *testing.T) {
	t.Run("With defaults", func(t *testing.T) {
		config, err := Load("", nil)
		require.NoError(t, err)
		assert.Equal(t, "info", config.LogLevel)
		assert.Equal(t, ProbeTCP, config.Probe.Mode)
		assert.Equal(t, reachability.DefaultTimeout, config.Probe.Timeout)
		assert.Equal(t, reachability.DefaultEchoPort, config.Probe.Port)
		assert.False(t, config.Probe.Enabled)
		assert.Empty(t, config.Filters)
		assert.Empty(t, config.Members)
	})
	t.Run("With config file", func(t *testing.T) {
		config, err := Load(writeConfig(t, sample), nil)
		require.NoError(t, err)

		assert.Equal(t, "m1", config.LocalMember)
		assert.Equal(t, "debug", config.LogLevel)
		assert.Equal(t, []string{`127[.]0[.]0[.]1`}, config.Filters)
		assert.True(t, config.Probe.Enabled)
		assert.Equal(t, 500*time.Millisecond, config.Probe.Timeout)
		assert.Equal(t, 7001, config.Probe.Port)
		assert.Equal(t, reachability.DefaultConcurrency, config.Probe.Concurrency)

		require.Len(t, config.Members, 2)
		assert.Equal(t, []string{"", "node-b.local"}, config.Members[1].HostNames)
		require.NotNil(t, config.Members[1].Port)
		assert.Equal(t, 47100, *config.Members[1].Port)
	})
	t.Run("With environment override", func(t *testing.T) {
		t.Setenv("NODEADDR_LOG_LEVEL", "error")
		t.Setenv("NODEADDR_PROBE_MODE", "icmp")

		config, err := Load(writeConfig(t, sample), nil)
		require.NoError(t, err)
		assert.Equal(t, "error", config.LogLevel)
		assert.Equal(t, ProbeICMP, config.Probe.Mode)
	})
	t.Run("With flag override", func(t *testing.T) {
		t.Setenv("NODEADDR_LOG_LEVEL", "error")
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("log-level", "info", "")
		require.NoError(t, flags.Parse([]string{"--log-level", "warning"}))

		config, err := Load(writeConfig(t, sample), flags)
		require.NoError(t, err)
		assert.Equal(t, "warning", config.LogLevel)
	})
	t.Run("With missing file", func(t *testing.T) {
		config, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
		require.Error(t, err)
		assert.Nil(t, config)
	})
	t.Run("With invalid settings", func(t *testing.T) {
		content := `
log-level: verbose
filters: ["["]
probe:
  mode: udp
`
		config, err := Load(writeConfig(t, content), nil)
		require.Error(t, err)
		assert.Nil(t, config)
		assert.ErrorIs(t, err, nerrors.ErrInvalidFilter)
		assert.Contains(t, err.Error(), "log-level=(verbose) is invalid")
		assert.Contains(t, err.Error(), "probe.mode=(udp) is invalid")
	})
	t.Run("With invalid member", func(t *testing.T) {
		content := `
members:
  - id: m1
    port: 70000
    addresses: [10.0.0.12]
`
		_, err := Load(writeConfig(t, content), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "port=(70000) is out of range")
	})
	t.Run("With undeclared local member", func(t *testing.T) {
		content := `
local-member: m9
members:
  - id: m1
    addresses: [10.0.0.12]
    port: 47100
`
		_, err := Load(writeConfig(t, content), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "local-member=(m9) is not declared in members")
	})
	t.Run("With undeclared local member flag", func(t *testing.T) {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("local-member", "", "")
		require.NoError(t, flags.Parse([]string{"--local-member", "m2"}))

		config, err := Load(writeConfig(t, sample), flags)
		require.NoError(t, err)
		assert.Equal(t, "m2", config.LocalMember)

		flags = pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("local-member", "", "")
		require.NoError(t, flags.Parse([]string{"--local-member", "m3"}))

		_, err = Load(writeConfig(t, sample), flags)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "local-member=(m3) is not declared in members")
	})
	t.Run("With invalid dns settings", func(t *testing.T) {
		content := `
dns:
  enabled: true
`
		_, err := Load(writeConfig(t, content), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dns port=(0) is out of range")
	})
	t.Run("With dns settings", func(t *testing.T) {
		content := `
dns:
  enabled: true
  port: 47100
  ipv6: true
`
		config, err := Load(writeConfig(t, content), nil)
		require.NoError(t, err)
		assert.Equal(t, DNS{Enabled: true, Port: 47100, IPv6: true}, config.DNS)
	})
	t.Run("With invalid external address", func(t *testing.T) {
		content := `
members:
  - id: m1
    external: ["203.0.113.5"]
`
		_, err := Load(writeConfig(t, content), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, nerrors.ErrInvalidEndpoint)
	})
}

func TestDiscoveryMembers(t *testing.T) {
	config, err := Load(writeConfig(t, sample), nil)
	require.NoError(t, err)

	members, err := config.DiscoveryMembers()
	require.NoError(t, err)
	require.Len(t, members, 2)

	assert.Equal(t, "m2", members[1].ID)
	assert.True(t, members[1].HasBound())
	require.Len(t, members[1].Attributes.ExternalAddresses, 1)
	assert.Equal(t, "203.0.113.5:9000", members[1].Attributes.ExternalAddresses[0].HostPort())
}

func TestNewProbe(t *testing.T) {
	config := Default()
	assert.IsType(t, &reachability.TCPProbe{}, config.NewProbe(log.DiscardLogger))

	config.Probe.Mode = ProbeICMP
	assert.IsType(t, &reachability.ICMPProbe{}, config.NewProbe(log.DiscardLogger))
}

func TestNewLogger(t *testing.T) {
	config := Default()
	config.LogLevel = "debug"

	buffer := new(bytes.Buffer)
	logger := config.NewLogger(buffer)
	assert.Equal(t, log.DebugLevel, logger.LogLevel())

	logger.Debug("hello")
	require.NoError(t, logger.Flush())
	assert.Contains(t, buffer.String(), "hello")
}

func TestNewResolver(t *testing.T) {
	config, err := Load(writeConfig(t, sample), nil)
	require.NoError(t, err)
	config.Probe.Enabled = false

	resolver, lookup, err := config.NewResolver(log.DiscardLogger)
	require.NoError(t, err)
	require.NotNil(t, lookup)
	assert.Equal(t, []string{`127[.]0[.]0[.]1`}, resolver.Filters())

	// m1 is the local member: same host, loopback first then filtered out
	endpoints, err := resolver.ResolveID(context.Background(), "m1", false)
	require.NoError(t, err)
	require.Len(t, endpoints, 1)
	assert.Equal(t, "10.0.0.12:47100", endpoints[0].HostPort())

	t.Run("With undeclared local member", func(t *testing.T) {
		config, err := Load(writeConfig(t, sample), nil)
		require.NoError(t, err)
		config.Probe.Enabled = false
		config.LocalMember = "m9"

		buffer := new(bytes.Buffer)
		resolver, _, err := config.NewResolver(log.NewZap(log.WarningLevel, buffer))
		require.NoError(t, err)
		assert.Contains(t, buffer.String(), "local-member=(m9) is not declared")

		// without a local member m1 is not on the same host: no loopback reordering
		endpoints, err := resolver.ResolveID(context.Background(), "m1", false)
		require.NoError(t, err)
		require.Len(t, endpoints, 1)
		assert.Equal(t, "10.0.0.12:47100", endpoints[0].HostPort())
	})
}

func TestWatcher(t *testing.T) {
	path := writeConfig(t, sample)

	watcher, err := NewWatcher(path, nil, log.DiscardLogger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan *Config, 64)
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx, func(config *Config) {
			select {
			case changes <- config:
			default:
			}
		})
	}()

	// an invalid change is skipped
	require.NoError(t, os.WriteFile(path, []byte("log-level: verbose\n"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte("log-level: error\nfilters: [\"10[.].*\"]\n"), 0o600))

	require.Eventually(t, func() bool {
		select {
		case config := <-changes:
			return config.LogLevel == "error" && len(config.Filters) == 1
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nodeaddr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
