// Copyright ©2020 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fai

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/exp/mmap"
)

var (
	ErrNoSequence = errors.New("fai: no sequence")
	ErrOutOfRange = errors.New("fai: index out of range")
)

// File is a sequence file with an FAI index. File access is implemented via mmapped
// file memory, so integer indexing limits may impact on access to large files.
// A File is safe for concurrent use until it is closed.
type File struct {
	r   *mmap.ReaderAt
	idx Index
}

// Open opens the FASTA sequence file at the given path. The index is read
// from the path with a ".fai" suffix if it exists, and is otherwise
// constructed from the sequence file.
func Open(path string) (*File, error) {
	idx, err := readIndex(path + ".fai")
	if errors.Is(err, os.ErrNotExist) {
		idx, err = buildIndex(path)
	}
	if err != nil {
		return nil, err
	}
	return OpenFile(path, idx)
}

func readIndex(path string) (Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFrom(f)
}

func buildIndex(path string) (Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewIndex(f)
}

// OpenFile opens the sequence file at the given path and associates it with
// the specified index.
func OpenFile(path string, idx Index) (*File, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	return &File{r: r, idx: idx}, nil
}

// Close closes the sequence file and releases the index.
func (f *File) Close() error {
	err := f.r.Close()
	*f = File{}
	return err
}

// Len returns the length of the named sequence.
func (f *File) Len(name string) (int, error) {
	rec, ok := f.idx[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoSequence, name)
	}
	return rec.Length, nil
}

// Subsequence returns the upper case bases of the named sequence in the
// zero-based half-open interval [start, end).
func (f *File) Subsequence(name string, start, end int) ([]byte, error) {
	rec, err := lookup(f.idx, name, start, end)
	if err != nil {
		return nil, err
	}
	b := make([]byte, end-start)
	for p, i := start, 0; p < end; {
		// Read up to the end of the line holding p.
		n := min(rec.BasesPerLine-p%rec.BasesPerLine, end-p)
		off := rec.position(p)
		if int64(int(off)) != off {
			return nil, fmt.Errorf("%w: offset %d", ErrOutOfRange, off)
		}
		_n, err := f.r.ReadAt(b[i:i+n], off)
		if _n != n {
			if err == nil {
				err = fmt.Errorf("fai: short read of %s at %d", name, p)
			}
			return nil, err
		}
		p += n
		i += n
	}
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return b, nil
}

// lookup returns the record for the named sequence if [start, end)
// lies within it.
func lookup(idx Index, name string, start, end int) (Record, error) {
	rec, ok := idx[name]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNoSequence, name)
	}
	if start < 0 || end < start || rec.Length < end {
		return Record{}, fmt.Errorf("%w: [%d,%d) of %s with length %d", ErrOutOfRange, start, end, name, rec.Length)
	}
	return rec, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
