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
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tochemey/nodeaddr/config"
)

type filtersOptions struct {
	*rootOptions
	watch bool
}

func newFiltersCommand(root *rootOptions) *cobra.Command {
	options := &filtersOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Validate and print the configured address exclusion filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return options.run(cmd)
		},
	}

	cmd.Flags().BoolVar(&options.watch, "watch", false, "keep printing the filters whenever the config file changes")
	return cmd
}

func (x *filtersOptions) run(cmd *cobra.Command) error {
	cfg, err := x.load()
	if err != nil {
		return err
	}

	logger := cfg.NewLogger(cmd.ErrOrStderr())
	defer func() {
		_ = logger.Flush()
	}()

	resolver, _, err := cfg.NewResolver(logger)
	if err != nil {
		return err
	}

	if err := printFilters(cmd.OutOrStdout(), resolver.Filters()); err != nil {
		return err
	}

	if !x.watch || x.configFile == "" {
		return nil
	}

	watcher, err := config.NewWatcher(x.configFile, x.configFlags, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return watcher.Run(ctx, func(next *config.Config) {
		if err := resolver.SetFilters(next.Filters); err != nil {
			logger.Warnf("config filters rejected: %v", err)
			return
		}
		_ = printFilters(cmd.OutOrStdout(), resolver.Filters())
	})
}

func printFilters(w io.Writer, filters []string) error {
	if len(filters) == 0 {
		_, err := fmt.Fprintln(w, "no address exclusion filter")
		return err
	}
	_, err := fmt.Fprintln(w, strings.Join(filters, "\n"))
	return err
}
