// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package ingest fills a wordtab.Table with the word counts of a text
// corpus, reusing the table saved by a previous run when the corpus is
// unchanged.
//
// Whether the corpus changed is decided by comparing the MD5 of the corpus
// against the digest recorded in a checksum file.  On a match the saved
// table is loaded; otherwise the corpus is tokenized, counted, saved, and
// only then is the new digest recorded.
package ingest
