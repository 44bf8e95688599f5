// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fai

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/biogo/hts/bgzf"
)

// GZIEntry is a single entry of a BGZF block index. It records the
// offset of the start of a block in the compressed file and the offset
// of its first byte in the uncompressed stream.
type GZIEntry struct {
	Compressed   int64
	Uncompressed int64
}

// GZI is a BGZF block index as written by bgzip -i. Entries are held
// in ascending order. The first block, at offset zero in both streams,
// is implicit.
type GZI []GZIEntry

// ReadGZI returns the block index read from r.
func ReadGZI(r io.Reader) (GZI, error) {
	br := bufio.NewReader(r)
	var n uint64
	err := binary.Read(br, binary.LittleEndian, &n)
	if err != nil {
		return nil, fmt.Errorf("fai: reading gzi entry count: %w", err)
	}
	var g GZI
	for i := uint64(0); i < n; i++ {
		var e [2]uint64
		err = binary.Read(br, binary.LittleEndian, &e)
		if err != nil {
			return nil, fmt.Errorf("fai: reading gzi entry %d: %w", i, err)
		}
		if e[0] > 1<<63-1 || e[1] > 1<<63-1 {
			return nil, fmt.Errorf("fai: gzi entry %d out of range", i)
		}
		ent := GZIEntry{Compressed: int64(e[0]), Uncompressed: int64(e[1])}
		if len(g) != 0 && ent.Uncompressed <= g[len(g)-1].Uncompressed {
			return nil, fmt.Errorf("fai: gzi entry %d out of order", i)
		}
		g = append(g, ent)
	}
	return g, nil
}

// WriteGZI writes the block index g to w.
func WriteGZI(w io.Writer, g GZI) error {
	bw := bufio.NewWriter(w)
	err := binary.Write(bw, binary.LittleEndian, uint64(len(g)))
	if err != nil {
		return err
	}
	for _, e := range g {
		err = binary.Write(bw, binary.LittleEndian, [2]uint64{uint64(e.Compressed), uint64(e.Uncompressed)})
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// block returns the entry for the last block starting at or before the
// uncompressed offset off.
func (g GZI) block(off int64) GZIEntry {
	i := sort.Search(len(g), func(i int) bool { return g[i].Uncompressed > off })
	if i == 0 {
		return GZIEntry{}
	}
	return g[i-1]
}

// BGZFFile is a BGZF compressed sequence file with an FAI index. The
// index offsets refer to the uncompressed sequence stream. A BGZFFile
// is safe for concurrent use until it is closed.
type BGZFFile struct {
	mu  sync.Mutex
	f   *os.File
	r   *bgzf.Reader
	idx Index
	gzi GZI
}

// OpenBGZF opens the BGZF compressed FASTA sequence file at the given
// path. The index is read from the path with a ".fai" suffix and the
// block index from the path with a ".gzi" suffix. Without a block index
// every access decompresses from the start of the file.
func OpenBGZF(path string) (*BGZFFile, error) {
	idx, err := readIndex(path + ".fai")
	if err != nil {
		return nil, err
	}
	var gzi GZI
	g, err := os.Open(path + ".gzi")
	switch {
	case err == nil:
		gzi, err = ReadGZI(g)
		g.Close()
		if err != nil {
			return nil, err
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}
	return OpenBGZFFile(path, idx, gzi)
}

// OpenBGZFFile opens the BGZF compressed sequence file at the given path
// and associates it with the specified index and block index.
func OpenBGZFFile(path string, idx Index, gzi GZI) (*BGZFFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := bgzf.NewReader(f, 1)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("fai: %w", err)
	}
	return &BGZFFile{f: f, r: r, idx: idx, gzi: gzi}, nil
}

// Close closes the sequence file and releases the index.
func (f *BGZFFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := f.r.Close()
	if cerr := f.f.Close(); err == nil {
		err = cerr
	}
	f.r, f.f, f.idx, f.gzi = nil, nil, nil, nil
	return err
}

// Len returns the length of the named sequence.
func (f *BGZFFile) Len(name string) (int, error) {
	rec, ok := f.idx[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoSequence, name)
	}
	return rec.Length, nil
}

// Subsequence returns the upper case bases of the named sequence in the
// zero-based half-open interval [start, end).
func (f *BGZFFile) Subsequence(name string, start, end int) ([]byte, error) {
	rec, err := lookup(f.idx, name, start, end)
	if err != nil {
		return nil, err
	}
	if start == end {
		return []byte{}, nil
	}
	off := rec.position(start)
	raw := make([]byte, rec.position(end-1)+1-off)

	f.mu.Lock()
	err = f.readAt(raw, off)
	f.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("fai: reading %s at %d: %w", name, start, err)
	}

	b := raw[:0]
	for _, c := range raw {
		switch {
		case c == '\n' || c == '\r':
			continue
		case 'a' <= c && c <= 'z':
			c -= 'a' - 'A'
		}
		b = append(b, c)
	}
	if len(b) != end-start {
		return nil, fmt.Errorf("fai: unexpected line structure in %s at %d", name, start)
	}
	return b, nil
}

// readAt fills p from the uncompressed offset off.
func (f *BGZFFile) readAt(p []byte, off int64) error {
	blk := f.gzi.block(off)
	err := f.r.Seek(bgzf.Offset{File: blk.Compressed})
	if err != nil {
		return err
	}
	_, err = io.CopyN(io.Discard, f.r, off-blk.Uncompressed)
	if err != nil {
		return err
	}
	_, err = io.ReadFull(f.r, p)
	return err
}
