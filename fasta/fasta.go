// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fasta provides in-memory reference sequence sets read from
// plain or xz compressed FASTA streams.
package fasta

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/ulikunitz/xz"
)

var (
	ErrNoSequence = errors.New("fasta: no sequence")
	ErrOutOfRange = errors.New("fasta: index out of range")
)

// xzMagic is the header magic of an xz stream.
var xzMagic = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}

// Set is a collection of named sequences.
type Set map[string][]byte

// Read returns the sequences in the FASTA stream r. If r holds an xz
// compressed stream it is decompressed. Sequence bases are stored upper
// case and names are the first whitespace delimited word of each header.
func Read(r io.Reader) (Set, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(xzMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	var src io.Reader = br
	if bytes.Equal(magic, xzMagic) {
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("fasta: %w", err)
		}
		src = xr
	}
	return read(bufio.NewReader(src))
}

func read(br *bufio.Reader) (Set, error) {
	s := make(Set)
	var (
		name string
		seq  []byte
		line int
	)
	for {
		b, err := br.ReadBytes('\n')
		if len(b) != 0 {
			line++
			b = bytes.TrimSpace(b)
			switch {
			case len(b) == 0:
			case b[0] == '>':
				if name != "" {
					s[name] = seq
				}
				f := bytes.Fields(b[1:])
				if len(f) == 0 {
					return nil, fmt.Errorf("fasta: missing sequence name at line %d", line)
				}
				name = string(f[0])
				if _, exists := s[name]; exists {
					return nil, fmt.Errorf("fasta: duplicate sequence identifier %s at line %d", name, line)
				}
				seq = nil
			case b[0] == ';':
			default:
				if name == "" {
					return nil, fmt.Errorf("fasta: sequence before first header at line %d", line)
				}
				seq = append(seq, bytes.ToUpper(b)...)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	if name != "" {
		s[name] = seq
	}
	return s, nil
}

// Names returns the sorted names of the sequences in s.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Subsequence returns the bases of the named sequence in the zero-based
// half-open interval [start, end). The returned slice must not be modified.
func (s Set) Subsequence(name string, start, end int) ([]byte, error) {
	seq, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSequence, name)
	}
	if start < 0 || end < start || len(seq) < end {
		return nil, fmt.Errorf("%w: [%d,%d) of %s with length %d", ErrOutOfRange, start, end, name, len(seq))
	}
	return seq[start:end:end], nil
}
