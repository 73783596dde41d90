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

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type resolveOptions struct {
	*rootOptions
	member   string
	probe    bool
	excludes []string
}

func newResolveCommand(root *rootOptions) *cobra.Command {
	options := &resolveOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the endpoints of a member in connection order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return options.run(cmd)
		},
	}

	cmd.Flags().StringVar(&options.member, "member", "", "the id of the member to resolve")
	cmd.Flags().BoolVar(&options.probe, "probe", false, "move unreachable addresses behind reachable ones")
	cmd.Flags().StringArrayVar(&options.excludes, "exclude", nil,
		"an address exclusion filter; replaces the configured filters when set")
	_ = cmd.MarkFlagRequired("member")
	return cmd
}

func (x *resolveOptions) run(cmd *cobra.Command) error {
	config, err := x.load()
	if err != nil {
		return err
	}

	logger := config.NewLogger(cmd.ErrOrStderr())
	defer func() {
		_ = logger.Flush()
	}()

	resolver, _, err := config.NewResolver(logger)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("exclude") {
		if err := resolver.SetFilters(x.excludes); err != nil {
			return err
		}
	}

	endpoints, err := resolver.ResolveID(cmd.Context(), x.member, x.probe || config.Probe.Enabled)
	if err != nil {
		return err
	}

	for _, e := range endpoints {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), e.HostPort()); err != nil {
			return err
		}
	}
	return nil
}
