// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pairwise

import (
	"fmt"

	"github.com/biogo/pairwise/alphabet"
	"github.com/biogo/pairwise/cigar"
	"github.com/biogo/pairwise/md"
)

// Query holds the encoded description of a single aligned read.
type Query struct {
	// Seq is the raw read sequence, including
	// soft clipped bases.
	Seq string

	// Cigar is the CIGAR string of the alignment.
	Cigar string

	// MD is the MD tag value of the alignment.
	// An empty MD is treated as absent.
	MD string

	// Ref is the reference sequence the read is
	// aligned against and Pos is the 1-based
	// position in Ref of the first aligned base.
	// Ref is only used when MD is absent. An
	// empty Ref and a zero Pos are treated
	// as absent.
	Ref string
	Pos int
}

// Aligner reconstructs pairwise alignments. The zero value is ready to use
// and parses its input strictly.
type Aligner struct {
	// Gap is the symbol used for gapped columns.
	// If Gap is zero, alphabet.Gap is used. Gap
	// may be any byte, but Alignment.Mismatches
	// and Alignment.String treat every column
	// holding it as a gap.
	Gap byte

	// Lenient specifies that malformed CIGAR and MD
	// strings are tokenized by skipping unrecognised
	// bytes, and that the CIGAR, MD and read sequence
	// are not checked for consistency before alignment.
	Lenient bool
}

// Align returns the alignment described by q using the zero Aligner.
func Align(q Query) (*Alignment, error) {
	var a Aligner
	return a.Align(q)
}

// Align returns the alignment described by q. If q has neither an MD nor
// a reference sequence, or has a reference sequence without a position,
// Align returns a nil *Alignment and ErrNoReference or ErrNoPosition.
//
// Align panics with a *LengthMismatchError if the reconstructed reference
// and read alignments differ in length.
func (a Aligner) Align(q Query) (*Alignment, error) {
	err := q.check()
	if err != nil {
		return nil, err
	}
	var c cigar.Cigar
	if a.Lenient {
		c = cigar.ParseLenient(q.Cigar)
	} else {
		c, err = cigar.Parse(q.Cigar)
		if err != nil {
			return nil, err
		}
	}
	return a.align(c, q)
}

func (q Query) check() error {
	switch {
	case q.MD == "" && q.Ref == "":
		return ErrNoReference
	case q.Ref != "" && q.Pos == 0:
		return ErrNoPosition
	}
	return nil
}

func (a Aligner) gap() byte {
	if a.Gap == 0 {
		return alphabet.Gap
	}
	return a.Gap
}

// align performs the alignment of q with the already tokenized CIGAR c.
func (a Aligner) align(c cigar.Cigar, q Query) (*Alignment, error) {
	if !a.Lenient {
		if !alphabet.Valid(q.Seq) {
			return nil, ErrBadSequence
		}
		if !c.IsValid(len(q.Seq)) {
			return nil, fmt.Errorf("%w: %v for read length %d", ErrInvalidCigar, c, len(q.Seq))
		}
	}

	gap := a.gap()
	read, skipBegin, skipEnd, err := readAlignment(c, q.Seq, gap)
	if err != nil {
		return nil, err
	}

	var ref string
	if q.MD != "" {
		var t md.Tokens
		if a.Lenient {
			t = md.ParseLenient(q.MD)
		} else {
			t, err = md.Parse(q.MD)
			if err != nil {
				return nil, err
			}
		}
		ref, err = referenceFromMD(c, t, q.Seq, gap, !a.Lenient)
	} else {
		ref, err = referenceFromGenome(c, q.Ref, q.Pos, gap)
	}
	if err != nil {
		return nil, err
	}

	if len(ref) != len(read) {
		panic(&LengthMismatchError{Reference: ref, Read: read})
	}
	return &Alignment{
		Reference: ref,
		Read:      read,
		SkipBegin: skipBegin,
		SkipEnd:   skipEnd,
		gap:       gap,
	}, nil
}
