// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pairwise reconstructs the gapped pairwise alignment of a read
// and its reference from the CIGAR and MD encodings of a SAM alignment
// record, or from the CIGAR and the reference sequence itself.
package pairwise

import (
	"errors"
	"fmt"
	"strings"

	"github.com/biogo/pairwise/alphabet"
)

var (
	ErrNoReference      = errors.New("pairwise: neither MD nor reference sequence provided")
	ErrNoPosition       = errors.New("pairwise: reference sequence provided without position")
	ErrBadPosition      = errors.New("pairwise: position out of range")
	ErrInvalidCigar     = errors.New("pairwise: cigar inconsistent with read")
	ErrBadSequence      = errors.New("pairwise: read contains invalid base")
	ErrReadOverrun      = errors.New("pairwise: cigar overruns read sequence")
	ErrMDOverrun        = errors.New("pairwise: md overruns cigar")
	ErrMDMismatch       = errors.New("pairwise: md inconsistent with cigar")
	ErrReferenceOverrun = errors.New("pairwise: cigar overruns reference sequence")
	ErrUnmapped         = errors.New("pairwise: record is not mapped")
)

// Alignment is a reconstructed pairwise alignment. Reference and Read
// are the same length, holding one column of the alignment per byte,
// with gaps marking columns absent from one side.
type Alignment struct {
	Reference string
	Read      string

	// SkipBegin is the offset into the raw read
	// sequence at which a leading soft clip ends.
	SkipBegin int
	// SkipEnd is the offset into the raw read
	// sequence at which a trailing soft clip begins.
	SkipEnd int

	gap byte
}

// Len returns the number of columns in the alignment.
func (a *Alignment) Len() int { return len(a.Read) }

func (a *Alignment) gapByte() byte {
	if a.gap == 0 {
		return alphabet.Gap
	}
	return a.gap
}

// Mismatches returns the number of columns where both the reference and
// the read hold a base and the bases differ.
func (a *Alignment) Mismatches() int {
	gap := a.gapByte()
	var n int
	for i := 0; i < len(a.Read); i++ {
		r, q := a.Reference[i], a.Read[i]
		if r != gap && q != gap && r != q {
			n++
		}
	}
	return n
}

// String returns a three line rendering of the alignment with the
// reference above the read and matching columns marked by '|'.
func (a *Alignment) String() string {
	gap := a.gapByte()
	var b strings.Builder
	b.Grow(3*len(a.Read) + 2)
	b.WriteString(a.Reference)
	b.WriteByte('\n')
	for i := 0; i < len(a.Read); i++ {
		if r := a.Reference[i]; r != gap && r == a.Read[i] {
			b.WriteByte('|')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteByte('\n')
	b.WriteString(a.Read)
	return b.String()
}

// LengthMismatchError is the panic value raised when reconstruction
// produces reference and read alignments of differing length. This
// indicates that the CIGAR, MD and read data are mutually inconsistent.
type LengthMismatchError struct {
	Reference, Read string
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("pairwise: alignment length mismatch: reference %d != read %d\n%s\n%s",
		len(e.Reference), len(e.Read), e.Reference, e.Read)
}
