// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package wordtab

import (
	"io"
	"log/slog"

	"github.com/dgryski/go-farm"
)

// Option configures a Table.
type Option func(*options)

type options struct {
	logger *slog.Logger
	growth GrowthPolicy
	hasher func([]byte) uint64
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		growth: DefaultGrowth,
		hasher: farm.Hash64,
	}
}

// WithLogger sets an optional logger for resize and persistence events.
// If not provided, no logging output will be produced.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithGrowthPolicy picks how much the table grows when it fills up.
func WithGrowthPolicy(p GrowthPolicy) Option {
	return func(opts *options) {
		if p != nil {
			opts.growth = p
		}
	}
}

// WithHasher replaces the key hash.  Tables written to disk must be read
// back with the same hasher, since slot positions depend on it.
func WithHasher(h func([]byte) uint64) Option {
	return func(opts *options) {
		if h != nil {
			opts.hasher = h
		}
	}
}
