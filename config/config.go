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

// Package config loads the resolver settings from a file, the environment
// and command line flags.
//
// Settings are read with viper. Environment variables use the NODEADDR_
// prefix, with dots and dashes replaced by underscores; for instance
// NODEADDR_PROBE_TIMEOUT overrides probe.timeout. Flags bound through Load
// take precedence over the environment, which takes precedence over the file.
package config

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/tochemey/nodeaddr/discovery"
	"github.com/tochemey/nodeaddr/discovery/dnssd"
	"github.com/tochemey/nodeaddr/discovery/static"
	"github.com/tochemey/nodeaddr/endpoint"
	"github.com/tochemey/nodeaddr/internal/validation"
	"github.com/tochemey/nodeaddr/log"
	"github.com/tochemey/nodeaddr/reachability"
	"github.com/tochemey/nodeaddr/resolver"
)

const envPrefix = "nodeaddr"

// probe modes
const (
	ProbeTCP  = "tcp"
	ProbeICMP = "icmp"
)

// Config holds the resolver settings
type Config struct {
	// LocalMember is the id of the member running the resolver.
	// It must name one of Members; that member's hardware addresses decide
	// whether a remote member shares the local host.
	LocalMember string `mapstructure:"local-member"`
	// LogLevel is one of debug, info, warning or error
	LogLevel string `mapstructure:"log-level"`
	// Filters are the address exclusion filters
	Filters []string `mapstructure:"filters"`
	// Probe configures the reachability probe
	Probe Probe `mapstructure:"probe"`
	// Members lists the statically known members
	Members []Member `mapstructure:"members"`
	// DNS configures the lookup of members unknown to Members by DNS name
	DNS DNS `mapstructure:"dns"`
}

// DNS configures the DNS member lookup
type DNS struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
	IPv6    bool `mapstructure:"ipv6"`
}

// Probe configures the reachability probe
type Probe struct {
	Enabled     bool          `mapstructure:"enabled"`
	Mode        string        `mapstructure:"mode"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Port        int           `mapstructure:"port"`
	Concurrency int           `mapstructure:"concurrency"`
	Privileged  bool          `mapstructure:"privileged"`
}

// Member describes a statically known member
type Member struct {
	ID        string   `mapstructure:"id"`
	Addresses []string `mapstructure:"addresses"`
	HostNames []string `mapstructure:"host-names"`
	Port      *int     `mapstructure:"port"`
	External  []string `mapstructure:"external"`
	MACs      []string `mapstructure:"macs"`
}

// Default returns the default settings
func Default() *Config {
	return &Config{
		LogLevel: log.InfoLevel.String(),
		Probe: Probe{
			Mode:        ProbeTCP,
			Timeout:     reachability.DefaultTimeout,
			Port:        reachability.DefaultEchoPort,
			Concurrency: reachability.DefaultConcurrency,
		},
	}
}

// Load reads the settings from the given file, the environment and the
// given flags. path and flags are both optional.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file=(%s): %w", path, err)
		}
	}

	config := new(Config)
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("local-member", defaults.LocalMember)
	v.SetDefault("log-level", defaults.LogLevel)
	v.SetDefault("filters", []string{})
	v.SetDefault("probe.enabled", defaults.Probe.Enabled)
	v.SetDefault("probe.mode", defaults.Probe.Mode)
	v.SetDefault("probe.timeout", defaults.Probe.Timeout)
	v.SetDefault("probe.port", defaults.Probe.Port)
	v.SetDefault("probe.concurrency", defaults.Probe.Concurrency)
	v.SetDefault("probe.privileged", defaults.Probe.Privileged)
	v.SetDefault("dns.enabled", defaults.DNS.Enabled)
	v.SetDefault("dns.port", defaults.DNS.Port)
	v.SetDefault("dns.ipv6", defaults.DNS.IPv6)
}

// Validate checks the settings and returns every violation found
func (x *Config) Validate() error {
	chain := validation.New(validation.AllErrors()).
		AddAssertion(log.ParseLevel(x.LogLevel) != log.InvalidLevel,
			fmt.Sprintf("log-level=(%s) is invalid", x.LogLevel)).
		AddAssertion(slices.Contains([]string{ProbeTCP, ProbeICMP}, x.Probe.Mode),
			fmt.Sprintf("probe.mode=(%s) is invalid", x.Probe.Mode)).
		AddAssertion(x.Probe.Timeout > 0, "probe.timeout must be positive").
		AddAssertion(x.Probe.Concurrency > 0, "probe.concurrency must be positive").
		AddAssertion(x.Probe.Port > 0 && x.Probe.Port <= 65535,
			fmt.Sprintf("probe.port=(%d) is out of range", x.Probe.Port))

	for _, pattern := range x.Filters {
		chain.AddValidator(validation.NewRegexValidator(pattern))
	}

	if x.DNS.Enabled {
		chain.AddValidator(x.dnsConfig())
	}

	members, err := x.DiscoveryMembers()
	if err != nil {
		return multierr.Append(chain.Validate(), err)
	}

	for _, member := range members {
		chain.AddValidator(static.NewMemberValidator(member))
	}

	if x.LocalMember != "" {
		chain.AddAssertion(slices.ContainsFunc(members, func(member *discovery.Member) bool {
			return member.ID == x.LocalMember
		}), fmt.Sprintf("local-member=(%s) is not declared in members", x.LocalMember))
	}
	return chain.Validate()
}

// DiscoveryMembers converts the statically known members
func (x *Config) DiscoveryMembers() ([]*discovery.Member, error) {
	members := make([]*discovery.Member, 0, len(x.Members))
	for _, member := range x.Members {
		external := make([]endpoint.Endpoint, 0, len(member.External))
		for _, text := range member.External {
			e, err := endpoint.Parse(text)
			if err != nil {
				return nil, fmt.Errorf("member=(%s): %w", member.ID, err)
			}
			external = append(external, e)
		}

		members = append(members, &discovery.Member{
			ID: member.ID,
			Attributes: discovery.Attributes{
				IPAddresses:       slices.Clone(member.Addresses),
				HostNames:         slices.Clone(member.HostNames),
				Port:              member.Port,
				ExternalAddresses: external,
				MACs:              slices.Clone(member.MACs),
			},
		})
	}
	return members, nil
}

// NewLogger creates the logger matching the configured level.
// It writes to stderr when no writer is given.
func (x *Config) NewLogger(writers ...io.Writer) log.Logger {
	if len(writers) == 0 {
		writers = []io.Writer{os.Stderr}
	}
	return log.NewZap(log.ParseLevel(x.LogLevel), writers...)
}

// NewProbe creates the configured reachability probe
func (x *Config) NewProbe(logger log.Logger) reachability.Probe {
	if x.Probe.Mode == ProbeICMP {
		return reachability.NewICMPProbe(
			reachability.WithICMPTimeout(x.Probe.Timeout),
			reachability.WithPrivileged(x.Probe.Privileged),
			reachability.WithICMPLogger(logger))
	}

	return reachability.NewTCPProbe(
		reachability.WithPort(x.Probe.Port),
		reachability.WithTimeout(x.Probe.Timeout),
		reachability.WithConcurrency(x.Probe.Concurrency),
		reachability.WithLogger(logger))
}

// NewResolver creates a Resolver backed by a static lookup of the configured
// members, falling back to DNS names when enabled. Extra options are applied last.
func (x *Config) NewResolver(logger log.Logger, opts ...resolver.Option) (*resolver.Resolver, *static.Lookup, error) {
	declared, err := x.DiscoveryMembers()
	if err != nil {
		return nil, nil, err
	}

	lookup, err := static.NewLookup(logger, declared...)
	if err != nil {
		return nil, nil, err
	}

	var members discovery.Lookup = lookup
	if x.DNS.Enabled {
		dns, err := dnssd.NewLookup(x.dnsConfig(), nil)
		if err != nil {
			return nil, nil, err
		}
		members = discovery.Lookups{lookup, dns}
	}

	options := []resolver.Option{
		resolver.WithLogger(logger),
		resolver.WithLookup(members),
		resolver.WithProbe(x.NewProbe(logger)),
		resolver.WithFilters(x.Filters...),
	}

	if x.LocalMember != "" {
		index := slices.IndexFunc(declared, func(member *discovery.Member) bool {
			return member.ID == x.LocalMember
		})
		if index < 0 {
			logger.Warnf("local-member=(%s) is not declared; same-host ordering is disabled", x.LocalMember)
		} else {
			options = append(options, resolver.WithLocalMember(declared[index]))
		}
	}

	r, err := resolver.New(append(options, opts...)...)
	if err != nil {
		return nil, nil, err
	}
	return r, lookup, nil
}

func (x *Config) dnsConfig() dnssd.Config {
	return dnssd.Config{Port: x.DNS.Port, IPv6: x.DNS.IPv6}
}
