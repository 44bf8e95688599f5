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

// ReferenceFromGenome returns the reference side of the alignment
// described by c, taking bases from ref starting at the 1-based
// position pos.
//
// A soft clip following the first aligned operation ends the alignment;
// any operations after it are ignored.
func ReferenceFromGenome(c cigar.Cigar, ref string, pos int) (string, error) {
	return referenceFromGenome(c, ref, pos, alphabet.Gap)
}

func referenceFromGenome(c cigar.Cigar, ref string, pos int, gap byte) (string, error) {
	if pos < 1 {
		return "", fmt.Errorf("%w: %d", ErrBadPosition, pos)
	}
	buf := pool.Get(sizeHint(c, len(ref)-(pos-1)))
	defer func() { pool.Put(buf) }()

	cur := pos - 1
	var aligned bool
loop:
	for i, co := range c {
		n := co.Len()
		switch t := co.Type(); t {
		case cigar.SoftClipped:
			if aligned {
				break loop
			}
		case cigar.Match, cigar.Equal, cigar.Mismatch, cigar.Deletion:
			aligned = true
			if cur+n > len(ref) {
				return "", overrun(ErrReferenceOverrun, c, i)
			}
			buf = append(buf, ref[cur:cur+n]...)
			cur += n
		case cigar.Insertion:
			aligned = true
			buf = appendGaps(buf, gap, n)
		case cigar.Skipped:
			aligned = true
			cur += n
		case cigar.HardClipped, cigar.Padded:
		default:
			panic(fmt.Sprintf("pairwise: unexpected cigar operation %v", t))
		}
	}
	return string(buf), nil
}
