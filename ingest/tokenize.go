// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/bpowers/wordtab"
	"github.com/bpowers/wordtab/internal/bytesutil"
)

// bufferSize bounds the scanner's buffer.  Only a single word (at most
// wordtab.MaxKeyLen bytes plus the byte that ends it) has to fit.
const bufferSize = 64 * 1024

// Counter is the subset of *wordtab.Table that word counting needs.
type Counter interface {
	Get(key string) (int32, error)
	Insert(key string, value int32) error
}

// Counts summarizes a tokenized corpus.
type Counts struct {
	// Tokens is the number of whitespace-delimited tokens.
	Tokens int
	// Words is the number of words handed to the callback.
	Words int
	// Skipped is the number of words dropped for being longer than
	// wordtab.MaxKeyLen.
	Skipped int
}

// wordSplitter is a bufio.SplitFunc that yields runs of ASCII letters and
// digits, counting whitespace-delimited tokens on the side.  Runs longer
// than wordtab.MaxKeyLen are consumed without being buffered whole.
type wordSplitter struct {
	inToken  bool
	skipping bool
	tokens   int
	skipped  int
}

func (s *wordSplitter) startToken() {
	if !s.inToken {
		s.inToken = true
		s.tokens++
	}
}

func (s *wordSplitter) split(data []byte, atEOF bool) (advance int, token []byte, err error) {
	i := 0
	for i < len(data) {
		c := data[i]
		if bytesutil.IsAlnum(c) {
			s.startToken()
			n := bytesutil.AlnumLen(data[i:])
			switch {
			case s.skipping:
				i += n
			case n > wordtab.MaxKeyLen:
				s.skipping = true
				s.skipped++
				i += n
			case i+n < len(data) || atEOF:
				return i + n, data[i : i+n], nil
			default:
				// the run may continue past what's buffered
				return i, nil, nil
			}
			continue
		}

		s.skipping = false
		if c < utf8.RuneSelf {
			if unicode.IsSpace(rune(c)) {
				s.inToken = false
			} else {
				s.startToken()
			}
			i++
			continue
		}
		if !atEOF && !utf8.FullRune(data[i:]) {
			return i, nil, nil
		}
		r, size := utf8.DecodeRune(data[i:])
		if unicode.IsSpace(r) {
			s.inToken = false
		} else {
			s.startToken()
		}
		i += size
	}
	return i, nil, nil
}

// Words splits r into whitespace-delimited tokens, splits each token
// further on runs of bytes that are not ASCII letters or digits, and calls
// fn with every resulting piece, lower-cased.  Pieces longer than
// wordtab.MaxKeyLen are skipped and counted in Counts.Skipped.  An error
// from fn stops the scan and is returned as is.
func Words(r io.Reader, fn func(word string) error) (Counts, error) {
	var sp wordSplitter
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, bufferSize), bufferSize)
	s.Split(sp.split)

	var counts Counts
	result := func() Counts {
		counts.Tokens = sp.tokens
		counts.Skipped = sp.skipped
		return counts
	}

	for s.Scan() {
		// the word lives in the scanner's buffer until the next Scan, so
		// lower-casing it in place is fine
		word := s.Bytes()
		bytesutil.LowerASCII(word)
		if err := fn(string(word)); err != nil {
			return result(), err
		}
		counts.Words++
	}
	if err := s.Err(); err != nil {
		return result(), fmt.Errorf("Scanner.Scan: %w", err)
	}
	return result(), nil
}

// CountWords adds one to c's counter for every word Words finds in r.
func CountWords(r io.Reader, c Counter) (Counts, error) {
	return Words(r, func(word string) error {
		n, err := c.Get(word)
		if err != nil && !errors.Is(err, wordtab.ErrKeyNotFound) {
			return fmt.Errorf("Get(%q): %w", word, err)
		}
		// n is 0 for a word we haven't seen
		if err := c.Insert(word, n+1); err != nil {
			return fmt.Errorf("Insert(%q): %w", word, err)
		}
		return nil
	})
}
