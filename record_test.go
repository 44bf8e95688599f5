// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pairwise

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/biogo/hts/bgzf"
	"github.com/biogo/hts/sam"
	"gopkg.in/check.v1"

	"github.com/biogo/pairwise/alphabet"
	"github.com/biogo/pairwise/cigar"
	"github.com/biogo/pairwise/fai"
	"github.com/biogo/pairwise/fasta"
)

var (
	_ Reference = (*fai.File)(nil)
	_ Reference = (*fai.BGZFFile)(nil)
	_ Reference = fasta.Set(nil)
)

// gappedRecord returns a SAM record equivalent to gappedQuery aligned
// to genome, with an MD tag if withMD is true.
func gappedRecord(c *check.C, withMD bool) *sam.Record {
	ref, err := sam.NewReference("chr1", "", "", len(genome), nil, nil)
	c.Assert(err, check.Equals, nil)
	_, err = sam.NewHeader(nil, []*sam.Reference{ref})
	c.Assert(err, check.Equals, nil)

	co := []sam.CigarOp{
		sam.NewCigarOp(sam.CigarSoftClipped, 2),
		sam.NewCigarOp(sam.CigarMatch, 4),
		sam.NewCigarOp(sam.CigarInsertion, 2),
		sam.NewCigarOp(sam.CigarMatch, 3),
		sam.NewCigarOp(sam.CigarDeletion, 1),
		sam.NewCigarOp(sam.CigarMatch, 4),
		sam.NewCigarOp(sam.CigarSoftClipped, 1),
	}
	c.Assert(sam.Cigar(co).String(), check.Equals, gappedQuery.Cigar)

	var aux []sam.Aux
	if withMD {
		a, err := sam.NewAux(sam.NewTag("MD"), gappedQuery.MD)
		c.Assert(err, check.Equals, nil)
		aux = append(aux, a)
	}
	r, err := sam.NewRecord("read1", ref, nil, 4, -1, 0, 60, co, []byte(gappedQuery.Seq), nil, aux)
	c.Assert(err, check.Equals, nil)
	return r
}

func (s *S) TestAlignRecordMD(c *check.C) {
	got, err := AlignRecord(gappedRecord(c, true), nil)
	c.Assert(err, check.Equals, nil)
	gappedAlignment.gap = alphabet.Gap
	c.Check(got, check.DeepEquals, gappedAlignment)
}

func (s *S) TestAlignRecordFasta(c *check.C) {
	ref := fasta.Set{"chr1": []byte(genome)}
	got, err := AlignRecord(gappedRecord(c, false), ref)
	c.Assert(err, check.Equals, nil)
	gappedAlignment.gap = alphabet.Gap
	c.Check(got, check.DeepEquals, gappedAlignment)

	// Without a reference the record cannot be aligned.
	got, err = AlignRecord(gappedRecord(c, false), nil)
	c.Check(got, check.IsNil)
	c.Check(err, check.Equals, ErrNoReference)

	// The reference must hold the aligned sequence.
	_, err = AlignRecord(gappedRecord(c, false), fasta.Set{"chr2": []byte(genome)})
	c.Check(errors.Is(err, fasta.ErrNoSequence), check.Equals, true, check.Commentf("got %v", err))
}

func (s *S) TestAlignRecordFai(c *check.C) {
	path := filepath.Join(c.MkDir(), "ref.fa")
	err := os.WriteFile(path, []byte(">chr1\n"+genome[:8]+"\n"+genome[8:16]+"\n"+genome[16:]+"\n"), 0o644)
	c.Assert(err, check.Equals, nil)

	f, err := fai.Open(path)
	c.Assert(err, check.Equals, nil)
	defer f.Close()

	got, err := AlignRecord(gappedRecord(c, false), f)
	c.Assert(err, check.Equals, nil)
	gappedAlignment.gap = alphabet.Gap
	c.Check(got, check.DeepEquals, gappedAlignment)
}

func (s *S) TestAlignRecordBGZF(c *check.C) {
	text := ">chr1\n" + genome[:8] + "\n" + genome[8:16] + "\n" + genome[16:] + "\n"
	path := filepath.Join(c.MkDir(), "ref.fa.gz")
	f, err := os.Create(path)
	c.Assert(err, check.Equals, nil)
	w := bgzf.NewWriter(f, 1)
	_, err = w.Write([]byte(text))
	c.Assert(err, check.Equals, nil)
	c.Assert(w.Close(), check.Equals, nil)
	c.Assert(f.Close(), check.Equals, nil)

	idx, err := fai.NewIndex(strings.NewReader(text))
	c.Assert(err, check.Equals, nil)
	ref, err := fai.OpenBGZFFile(path, idx, nil)
	c.Assert(err, check.Equals, nil)
	defer ref.Close()

	got, err := AlignRecord(gappedRecord(c, false), ref)
	c.Assert(err, check.Equals, nil)
	gappedAlignment.gap = alphabet.Gap
	c.Check(got, check.DeepEquals, gappedAlignment)
}

func (s *S) TestAlignRecordErrors(c *check.C) {
	r := gappedRecord(c, true)
	r.Flags |= sam.Unmapped
	_, err := AlignRecord(r, nil)
	c.Check(errors.Is(err, ErrUnmapped), check.Equals, true, check.Commentf("got %v", err))

	r = gappedRecord(c, true)
	r.Cigar = append(r.Cigar, sam.NewCigarOp(sam.CigarBack, 2))
	_, err = AlignRecord(r, nil)
	c.Check(errors.Is(err, cigar.ErrUnknownOp), check.Equals, true, check.Commentf("got %v", err))

	r = gappedRecord(c, false)
	a, err := sam.NewAux(sam.NewTag("MD"), 3)
	c.Assert(err, check.Equals, nil)
	r.AuxFields = append(r.AuxFields, a)
	_, err = AlignRecord(r, nil)
	c.Check(err, check.ErrorMatches, `pairwise: unexpected MD field type .* for read1`)

	// An inconsistent MD tag is reported rather than aligned.
	r = gappedRecord(c, false)
	a, err = sam.NewAux(sam.NewTag("MD"), "20")
	c.Assert(err, check.Equals, nil)
	r.AuxFields = append(r.AuxFields, a)
	_, err = AlignRecord(r, nil)
	c.Check(errors.Is(err, ErrMDMismatch), check.Equals, true, check.Commentf("got %v", err))
}
