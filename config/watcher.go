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
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"

	"github.com/tochemey/nodeaddr/log"
)

// Watcher reloads a config file whenever it changes on disk
type Watcher struct {
	path    string
	flags   *pflag.FlagSet
	logger  log.Logger
	watcher *fsnotify.Watcher
}

// NewWatcher starts watching the given config file.
// The directory holding the file is watched so that editors replacing the
// file through a rename are noticed.
func NewWatcher(path string, flags *pflag.FlagSet, logger log.Logger) (*Watcher, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch config file=(%s): %w", path, err)
	}

	return &Watcher{
		path:    path,
		flags:   flags,
		logger:  logger,
		watcher: watcher,
	}, nil
}

// Run calls onChange with the reloaded settings after every change of the
// file. Changes producing invalid settings are logged and skipped.
// Run blocks until the context is done and releases the watcher on return.
func (x *Watcher) Run(ctx context.Context, onChange func(*Config)) error {
	defer func() {
		_ = x.watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-x.watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != x.path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}

			x.logger.Infof("config file=(%s) change detected", x.path)
			config, err := Load(x.path, x.flags)
			if err != nil {
				x.logger.Warnf("failed to reload config file=(%s): %v", x.path, err)
				continue
			}
			onChange(config)
		case err, ok := <-x.watcher.Errors:
			if !ok {
				return nil
			}
			x.logger.Warnf("config watcher error: %v", err)
		}
	}
}
