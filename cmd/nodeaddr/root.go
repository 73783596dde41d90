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
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tochemey/nodeaddr/config"
	"github.com/tochemey/nodeaddr/log"
)

// settings shared by every sub command
type rootOptions struct {
	configFile  string
	configFlags *pflag.FlagSet
}

func newRootCommand() *cobra.Command {
	options := &rootOptions{
		configFlags: pflag.NewFlagSet("", pflag.ContinueOnError),
	}

	cmd := &cobra.Command{
		Use:          "nodeaddr",
		Short:        "Resolve the connection endpoints of cluster members",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&options.configFile, "config", "", "specifies a config file to load")
	options.configFlags.String("log-level", log.InfoLevel.String(), "the log level to run at")
	options.configFlags.String("local-member", "", "the id of the local member")
	cmd.PersistentFlags().AddFlagSet(options.configFlags)

	cmd.AddCommand(newResolveCommand(options), newFiltersCommand(options))
	return cmd
}

func (x *rootOptions) load() (*config.Config, error) {
	return config.Load(x.configFile, x.configFlags)
}
