// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package ingest

import (
	"io"
	"log/slog"
)

// DefaultTablePath is where the table is saved when WithTablePath isn't
// given.
const DefaultTablePath = "hash_table.dat"

// Option configures Process.
type Option func(*options)

type options struct {
	tablePath string
	logger    *slog.Logger
	strict    bool
}

func defaultOptions() options {
	return options{
		tablePath: DefaultTablePath,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithTablePath sets the file the table is saved to and loaded from.
func WithTablePath(path string) Option {
	return func(opts *options) {
		if path != "" {
			opts.tablePath = path
		}
	}
}

// WithLogger sets an optional logger.
// If not provided, no logging output will be produced.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithStrictLoad makes Process rebuild the table instead of using a saved
// table that could only be partially read.
func WithStrictLoad(strict bool) Option {
	return func(opts *options) {
		opts.strict = strict
	}
}
