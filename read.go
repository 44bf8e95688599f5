// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pairwise

import (
	"fmt"

	"github.com/biogo/pairwise/alphabet"
	"github.com/biogo/pairwise/cigar"
	"github.com/biogo/pairwise/internal/pool"
)

// ReadAlignment returns the read side of the alignment of seq described
// by c, and the offsets into seq of the end of a leading soft clip and
// the start of a trailing soft clip.
//
// Inserted bases are retained and deleted positions are gapped. Hard
// clips, skipped regions and padding produce no columns. If c holds
// more than one soft clip after the first aligned operation, skipEnd
// reflects the last of them; such CIGARs are not supported.
func ReadAlignment(c cigar.Cigar, seq string) (aln string, skipBegin, skipEnd int, err error) {
	return readAlignment(c, seq, alphabet.Gap)
}

func readAlignment(c cigar.Cigar, seq string, gap byte) (aln string, skipBegin, skipEnd int, err error) {
	buf := pool.Get(sizeHint(c, len(seq)))
	defer func() { pool.Put(buf) }()

	skipEnd = len(seq)
	var (
		cur     int
		aligned bool
	)
	for i, co := range c {
		n := co.Len()
		switch t := co.Type(); t {
		case cigar.SoftClipped:
			if cur+n > len(seq) {
				return "", 0, 0, overrun(ErrReadOverrun, c, i)
			}
			if aligned {
				skipEnd = cur
				cur += n
			} else {
				cur += n
				skipBegin = cur
			}
		case cigar.Match, cigar.Equal, cigar.Mismatch, cigar.Insertion:
			aligned = true
			if cur+n > len(seq) {
				return "", 0, 0, overrun(ErrReadOverrun, c, i)
			}
			buf = append(buf, seq[cur:cur+n]...)
			cur += n
		case cigar.Deletion:
			aligned = true
			buf = appendGaps(buf, gap, n)
		case cigar.Skipped:
			aligned = true
		case cigar.HardClipped, cigar.Padded:
		default:
			panic(fmt.Sprintf("pairwise: unexpected cigar operation %v", t))
		}
	}
	return string(buf), skipBegin, skipEnd, nil
}

// columns returns the number of alignment columns described by c.
func columns(c cigar.Cigar) int {
	var n int
	for _, co := range c {
		switch co.Type() {
		case cigar.Match, cigar.Equal, cigar.Mismatch, cigar.Insertion, cigar.Deletion:
			n += co.Len()
		}
	}
	return n
}

// sizeHint returns the number of alignment columns described by c,
// limited to n. The limit is the length of the sequence being copied,
// so malformed CIGAR lengths do not size buffers before they are
// checked against the sequence.
func sizeHint(c cigar.Cigar, n int) int {
	cols := columns(c)
	if cols > n {
		return n
	}
	return cols
}

func appendGaps(b []byte, gap byte, n int) []byte {
	for ; n > 0; n-- {
		b = append(b, gap)
	}
	return b
}

func overrun(err error, c cigar.Cigar, i int) error {
	return fmt.Errorf("%w: %v at operation %d of %v", err, c[i], i, c)
}
