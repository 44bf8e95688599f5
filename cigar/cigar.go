// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cigar implements tokenizing of SAM CIGAR strings into
// length and operation pairs.
package cigar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/biogo/hts/sam"
)

// Cigar is an ordered set of CIGAR operations.
type Cigar []Op

// IsValid returns whether the Cigar describes a read of the given
// sequence length. The sum of query consuming operations must equal
// length, hard clips may only be the first or last operation and
// soft clips may only be terminal or separated from the end by a
// hard clip.
func (c Cigar) IsValid(length int) bool {
	for i, co := range c {
		t := co.Type()
		if t == HardClipped && i != 0 && i != len(c)-1 {
			return false
		}
		if t == SoftClipped && i != 0 && i != len(c)-1 {
			if c[i-1].Type() != HardClipped && c[i+1].Type() != HardClipped {
				return false
			}
		}
		length -= co.Len() * t.Consumes().Query
	}
	return length == 0
}

// String returns the CIGAR string for c.
func (c Cigar) String() string {
	if len(c) == 0 {
		return "*"
	}
	var b strings.Builder
	for _, co := range c {
		fmt.Fprint(&b, co)
	}
	return b.String()
}

// Lengths returns the number of reference and read bases described by the Cigar.
func (c Cigar) Lengths() (ref, read int) {
	for _, co := range c {
		con := co.Type().Consumes()
		ref += co.Len() * con.Reference
		read += co.Len() * con.Query
	}
	return ref, read
}

// Op is a single CIGAR operation including the operation type and the
// length of the operation.
type Op uint32

// NewOp returns a CIGAR operation of the specified type with length n.
func NewOp(t Type, n int) Op {
	return Op(t) | (Op(n) << 4)
}

// Type returns the type of the CIGAR operation.
func (co Op) Type() Type { return Type(co & 0xf) }

// Len returns the number of positions affected by the operation.
func (co Op) Len() int { return int(co >> 4) }

// String returns the string representation of the Op.
func (co Op) String() string { return fmt.Sprintf("%d%s", co.Len(), co.Type()) }

// A Type represents the type of operation described by an Op.
type Type byte

const (
	Match       Type = iota // Alignment match (can be a sequence match or mismatch).
	Insertion               // Insertion to the reference.
	Deletion                // Deletion from the reference.
	Skipped                 // Skipped region from the reference.
	SoftClipped             // Soft clipping (clipped sequences present in SEQ).
	HardClipped             // Hard clipping (clipped sequences NOT present in SEQ).
	Padded                  // Padding (silent deletion from padded reference).
	Equal                   // Sequence match.
	Mismatch                // Sequence mismatch.
	lastType
)

var opLetters = []string{"M", "I", "D", "N", "S", "H", "P", "=", "X", "?"}

// String returns the CIGAR letter for the Type.
func (t Type) String() string {
	if t > lastType {
		t = lastType
	}
	return opLetters[t]
}

// Consume describes how CIGAR operations consume alignment bases.
type Consume struct {
	Query, Reference int
}

// Consumes returns the alignment consumption characteristics of the Type.
//
//                 Query  Reference
//  Match            1        1
//  Insertion        1        0
//  Deletion         0        1
//  Skipped          0        1
//  SoftClipped      1        0
//  HardClipped      0        0
//  Padded           0        0
//  Equal            1        1
//  Mismatch         1        1
//
func (t Type) Consumes() Consume {
	if t > lastType {
		t = lastType
	}
	return consume[t]
}

var consume = []Consume{
	Match:       {Query: 1, Reference: 1},
	Insertion:   {Query: 1, Reference: 0},
	Deletion:    {Query: 0, Reference: 1},
	Skipped:     {Query: 0, Reference: 1},
	SoftClipped: {Query: 1, Reference: 0},
	HardClipped: {Query: 0, Reference: 0},
	Padded:      {Query: 0, Reference: 0},
	Equal:       {Query: 1, Reference: 1},
	Mismatch:    {Query: 1, Reference: 1},
	lastType:    {},
}

var typeLookup [256]Type

func init() {
	for i := range typeLookup {
		typeLookup[i] = lastType
	}
	for op, c := range []byte(strings.Join(opLetters[:lastType], "")) {
		typeLookup[c] = Type(op)
	}
}

// maxLen is the largest operation length that can be packed into an Op.
const maxLen = 1<<28 - 1

var (
	ErrUnknownOp     = errors.New("cigar: unknown operation")
	ErrMissingLength = errors.New("cigar: operation without length")
	ErrMissingOp     = errors.New("cigar: length without operation")
	ErrBadLength     = errors.New("cigar: operation length out of range")
)

// ParseError is the error returned when a CIGAR string does not
// conform to the CIGAR grammar.
type ParseError struct {
	Input  string // The CIGAR string being parsed.
	Offset int    // Byte offset of the failure within Input.
	Err    error  // The underlying failure.
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %q at offset %d", e.Err, e.Input, e.Offset)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse returns the Cigar described by s. The string "*" is parsed as
// an empty Cigar. Any deviation from the CIGAR grammar results in a
// *ParseError.
func Parse(s string) (Cigar, error) {
	if s == "*" {
		return nil, nil
	}
	if s == "" {
		return nil, &ParseError{Input: s, Err: ErrMissingOp}
	}
	var c Cigar
	for i := 0; i < len(s); {
		j := i
		n := 0
		for ; j < len(s) && isDigit(s[j]); j++ {
			n = n*10 + int(s[j]-'0')
			if n > maxLen {
				return nil, &ParseError{Input: s, Offset: i, Err: ErrBadLength}
			}
		}
		switch {
		case j == len(s):
			return nil, &ParseError{Input: s, Offset: i, Err: ErrMissingOp}
		case typeLookup[s[j]] == lastType:
			return nil, &ParseError{Input: s, Offset: j, Err: ErrUnknownOp}
		case j == i:
			return nil, &ParseError{Input: s, Offset: j, Err: ErrMissingLength}
		case n == 0:
			return nil, &ParseError{Input: s, Offset: i, Err: ErrBadLength}
		}
		c = append(c, NewOp(typeLookup[s[j]], n))
		i = j + 1
	}
	return c, nil
}

// ParseLenient returns the operations found in s, skipping any bytes
// that do not form a length followed by an operation letter. The
// returned Cigar may be empty or describe only part of s.
func ParseLenient(s string) Cigar {
	var c Cigar
	for i := 0; i < len(s); {
		if !isDigit(s[i]) {
			i++
			continue
		}
		j := i
		n := 0
		for ; j < len(s) && isDigit(s[j]); j++ {
			if n <= maxLen {
				n = n*10 + int(s[j]-'0')
			}
		}
		if j < len(s) && typeLookup[s[j]] != lastType && 0 < n && n <= maxLen {
			c = append(c, NewOp(typeLookup[s[j]], n))
			j++
		}
		i = j
	}
	return c
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

var fromSAM = [...]Type{
	sam.CigarMatch:       Match,
	sam.CigarInsertion:   Insertion,
	sam.CigarDeletion:    Deletion,
	sam.CigarSkipped:     Skipped,
	sam.CigarSoftClipped: SoftClipped,
	sam.CigarHardClipped: HardClipped,
	sam.CigarPadded:      Padded,
	sam.CigarEqual:       Equal,
	sam.CigarMismatch:    Mismatch,
}

// FromSAM returns the Cigar equivalent of a decoded SAM record CIGAR.
// Operations without an equivalent, such as CigarBack, result in an
// error wrapping ErrUnknownOp.
func FromSAM(sc sam.Cigar) (Cigar, error) {
	if len(sc) == 0 {
		return nil, nil
	}
	c := make(Cigar, len(sc))
	for i, co := range sc {
		t := co.Type()
		if int(t) >= len(fromSAM) {
			return nil, fmt.Errorf("%w: %v at operation %d", ErrUnknownOp, t, i)
		}
		c[i] = NewOp(fromSAM[t], co.Len())
	}
	return c, nil
}
