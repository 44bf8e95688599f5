// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cigar

import (
	"errors"
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/kortschak/utter"
	"gopkg.in/check.v1"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

func (s *S) TestParse(c *check.C) {
	for _, t := range []struct {
		in   string
		want Cigar
	}{
		{in: "*", want: nil},
		{in: "5M", want: Cigar{NewOp(Match, 5)}},
		{
			in: "2S3M",
			want: Cigar{
				NewOp(SoftClipped, 2),
				NewOp(Match, 3),
			},
		},
		{
			in: "3M2I3M2D10N4=1X5H6P",
			want: Cigar{
				NewOp(Match, 3),
				NewOp(Insertion, 2),
				NewOp(Match, 3),
				NewOp(Deletion, 2),
				NewOp(Skipped, 10),
				NewOp(Equal, 4),
				NewOp(Mismatch, 1),
				NewOp(HardClipped, 5),
				NewOp(Padded, 6),
			},
		},
		{in: "268435455M", want: Cigar{NewOp(Match, maxLen)}},
	} {
		got, err := Parse(t.in)
		c.Check(err, check.Equals, nil, check.Commentf("cigar %q", t.in))
		c.Check(got, check.DeepEquals, t.want, check.Commentf("cigar %q\ngot:%s", t.in, utter.Sdump(got)))
		if len(t.want) != 0 {
			c.Check(got.String(), check.Equals, t.in)
		}
	}
}

func (s *S) TestParseError(c *check.C) {
	for _, t := range []struct {
		in     string
		err    error
		offset int
	}{
		{in: "", err: ErrMissingOp, offset: 0},
		{in: "5", err: ErrMissingOp, offset: 0},
		{in: "5M3", err: ErrMissingOp, offset: 2},
		{in: "M", err: ErrMissingLength, offset: 0},
		{in: "5MM", err: ErrMissingLength, offset: 2},
		{in: "5Z", err: ErrUnknownOp, offset: 1},
		{in: "5B", err: ErrUnknownOp, offset: 1},
		{in: "3M 2I", err: ErrUnknownOp, offset: 2},
		{in: "0M", err: ErrBadLength, offset: 0},
		{in: "3M268435456I", err: ErrBadLength, offset: 2},
	} {
		got, err := Parse(t.in)
		c.Check(got, check.IsNil, check.Commentf("cigar %q", t.in))
		var perr *ParseError
		if !errors.As(err, &perr) {
			c.Errorf("expected *ParseError for %q, got %T %v", t.in, err, err)
			continue
		}
		c.Check(errors.Is(err, t.err), check.Equals, true, check.Commentf("cigar %q got %v", t.in, err))
		c.Check(perr.Offset, check.Equals, t.offset, check.Commentf("cigar %q", t.in))
		c.Check(perr.Input, check.Equals, t.in)
	}
}

func (s *S) TestParseLenient(c *check.C) {
	for _, t := range []struct {
		in   string
		want Cigar
	}{
		{in: "", want: nil},
		{in: "*", want: nil},
		{in: "5M", want: Cigar{NewOp(Match, 5)}},
		{in: "xx5M--3I", want: Cigar{NewOp(Match, 5), NewOp(Insertion, 3)}},
		{in: "5Z3M", want: Cigar{NewOp(Match, 3)}},
		{in: "0M3D", want: Cigar{NewOp(Deletion, 3)}},
		{in: "3M4", want: Cigar{NewOp(Match, 3)}},
		{in: "99999999999M2S", want: Cigar{NewOp(SoftClipped, 2)}},
	} {
		got := ParseLenient(t.in)
		c.Check(got, check.DeepEquals, t.want, check.Commentf("cigar %q\ngot:%s", t.in, utter.Sdump(got)))
	}
}

func (s *S) TestIsValid(c *check.C) {
	for _, t := range []struct {
		cigar  string
		length int
		want   bool
	}{
		{cigar: "5M", length: 5, want: true},
		{cigar: "5M", length: 6, want: false},
		{cigar: "2S3M", length: 5, want: true},
		{cigar: "3M2I3M", length: 8, want: true},
		{cigar: "3M2D3M", length: 6, want: true},
		{cigar: "5H2S3M1S4H", length: 6, want: true},
		{cigar: "3M2S3M", length: 8, want: false},
		{cigar: "3M2H3M", length: 6, want: false},
		{cigar: "3M100N3M", length: 6, want: true},
	} {
		cig, err := Parse(t.cigar)
		c.Assert(err, check.Equals, nil)
		c.Check(cig.IsValid(t.length), check.Equals, t.want, check.Commentf("cigar %q length %d", t.cigar, t.length))
	}
}

func (s *S) TestLengths(c *check.C) {
	for _, t := range []struct {
		cigar     string
		ref, read int
	}{
		{cigar: "*", ref: 0, read: 0},
		{cigar: "5M", ref: 5, read: 5},
		{cigar: "2S3M", ref: 3, read: 5},
		{cigar: "3M2I3M", ref: 6, read: 8},
		{cigar: "3M2D3M", ref: 8, read: 6},
		{cigar: "5H3M10N2=1X4P", ref: 16, read: 6},
	} {
		cig, err := Parse(t.cigar)
		c.Assert(err, check.Equals, nil)
		ref, read := cig.Lengths()
		c.Check(ref, check.Equals, t.ref, check.Commentf("cigar %q", t.cigar))
		c.Check(read, check.Equals, t.read, check.Commentf("cigar %q", t.cigar))
	}
}

func (s *S) TestTypeString(c *check.C) {
	for t, want := range "MIDNSHP=X" {
		c.Check(Type(t).String(), check.Equals, string(want))
	}
	c.Check(Type(200).String(), check.Equals, "?")
	c.Check(Cigar(nil).String(), check.Equals, "*")
}

func (s *S) TestFromSAM(c *check.C) {
	sc := sam.Cigar{
		sam.NewCigarOp(sam.CigarSoftClipped, 2),
		sam.NewCigarOp(sam.CigarMatch, 3),
		sam.NewCigarOp(sam.CigarInsertion, 1),
		sam.NewCigarOp(sam.CigarEqual, 4),
		sam.NewCigarOp(sam.CigarDeletion, 2),
		sam.NewCigarOp(sam.CigarMismatch, 1),
		sam.NewCigarOp(sam.CigarHardClipped, 7),
	}
	got, err := FromSAM(sc)
	c.Assert(err, check.Equals, nil)
	c.Check(got.String(), check.Equals, sc.String())

	got, err = FromSAM(sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 10), sam.NewCigarOp(sam.CigarBack, 3)})
	c.Check(got, check.IsNil)
	c.Check(errors.Is(err, ErrUnknownOp), check.Equals, true, check.Commentf("got %v", err))

	got, err = FromSAM(nil)
	c.Check(got, check.IsNil)
	c.Check(err, check.Equals, nil)
}
