// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Command gen-corpus writes a synthetic text corpus to stdout: random
// words drawn from a fixed-size vocabulary, with mixed case and
// punctuation, for exercising table growth on large inputs.
package main

import (
	"bufio"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/spf13/pflag"
)

const (
	letters     = "abcdefghijklmnopqrstuvwxyz"
	punctuation = ".,;:!?'\"-()"
	lineWords   = 12
)

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		var seedBytes [8]byte
		if _, err := crand.Read(seedBytes[:]); err != nil {
			panic(err)
		}
		seed = int64(binary.LittleEndian.Uint64(seedBytes[:]))
	}
	return rand.New(rand.NewSource(seed))
}

func vocabulary(rng *rand.Rand, n int) []string {
	seen := make(map[string]struct{}, n)
	words := make([]string, 0, n)
	for len(words) < n {
		buf := make([]byte, 2+rng.Intn(10))
		for i := range buf {
			buf[i] = letters[rng.Intn(len(letters))]
		}
		w := string(buf)
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}

// noisy returns word with its case and surrounding punctuation scrambled.
// The tokenizer maps every variant back to word.
func noisy(rng *rand.Rand, word string) string {
	buf := []byte(word)
	switch rng.Intn(4) {
	case 0:
		buf[0] -= 'a' - 'A'
	case 1:
		for i := range buf {
			buf[i] -= 'a' - 'A'
		}
	}
	if rng.Intn(5) == 0 {
		buf = append(buf, punctuation[rng.Intn(len(punctuation))])
	}
	if rng.Intn(10) == 0 {
		buf = append([]byte{punctuation[rng.Intn(len(punctuation))]}, buf...)
	}
	return string(buf)
}

func generate(w io.Writer, rng *rand.Rand, nWords, nVocab int) error {
	bw := bufio.NewWriter(w)
	vocab := vocabulary(rng, nVocab)
	// a Zipf distribution gives a few very common words and a long tail,
	// like real prose
	zipf := rand.NewZipf(rng, 1.1, 1, uint64(nVocab-1))
	for i := 0; i < nWords; i++ {
		sep := " "
		if (i+1)%lineWords == 0 || i == nWords-1 {
			sep = "\n"
		}
		if _, err := fmt.Fprintf(bw, "%s%s", noisy(rng, vocab[zipf.Uint64()]), sep); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func main() {
	nWords := pflag.IntP("words", "n", 1000000, "number of words to write")
	nVocab := pflag.Int("vocab", 50000, "number of distinct words")
	seed := pflag.Int64("seed", 0, "random seed (0 picks one)")
	pflag.Parse()

	if *nWords < 0 || *nVocab < 2 {
		fmt.Fprintf(os.Stderr, "gen-corpus: need --words >= 0 and --vocab >= 2\n")
		os.Exit(2)
	}

	if err := generate(os.Stdout, newRand(*seed), *nWords, *nVocab); err != nil {
		fmt.Fprintf(os.Stderr, "gen-corpus: %s\n", err)
		os.Exit(1)
	}
}
