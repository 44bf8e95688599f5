// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pairwise

import (
	"fmt"

	"github.com/biogo/hts/sam"

	"github.com/biogo/pairwise/cigar"
)

// Reference is a source of reference sequence.
type Reference interface {
	// Subsequence returns the bases of the named
	// sequence in the zero-based half-open
	// interval [start, end).
	Subsequence(name string, start, end int) ([]byte, error)
}

var mdTag = sam.NewTag("MD")

// AlignRecord returns the alignment of r using the zero Aligner.
func AlignRecord(r *sam.Record, ref Reference) (*Alignment, error) {
	var a Aligner
	return a.AlignRecord(r, ref)
}

// AlignRecord returns the alignment of the SAM record r. If r carries
// an MD tag the alignment is reconstructed from it, otherwise the
// reference bases spanned by r are obtained from ref. A nil ref may be
// used when all records are known to carry MD tags.
func (a Aligner) AlignRecord(r *sam.Record, ref Reference) (*Alignment, error) {
	if r.Flags&sam.Unmapped != 0 || r.Ref == nil || r.Pos < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnmapped, r.Name)
	}
	c, err := cigar.FromSAM(r.Cigar)
	if err != nil {
		return nil, err
	}
	q := Query{Seq: string(r.Seq.Expand())}
	if aux := r.AuxFields.Get(mdTag); aux != nil {
		v, ok := aux.Value().(string)
		if !ok {
			return nil, fmt.Errorf("pairwise: unexpected MD field type %q for %s", aux.Type(), r.Name)
		}
		q.MD = v
	}
	if q.MD == "" {
		if ref == nil {
			return nil, ErrNoReference
		}
		span, _ := c.Lengths()
		b, err := ref.Subsequence(r.Ref.Name(), r.Pos, r.Pos+span)
		if err != nil {
			return nil, err
		}
		q.Ref, q.Pos = string(b), 1
	}
	err = q.check()
	if err != nil {
		return nil, err
	}
	return a.align(c, q)
}
