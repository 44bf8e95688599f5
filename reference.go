// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pairwise

import (
	"fmt"

	"github.com/biogo/pairwise/alphabet"
	"github.com/biogo/pairwise/cigar"
	"github.com/biogo/pairwise/internal/pool"
	"github.com/biogo/pairwise/md"
)

// ReferenceFromMD returns the reference side of the alignment of seq
// described by c, recovering reference bases at mismatched and deleted
// positions from the MD tokens t. Tokens that do not agree with the
// column kinds of c, such as a match run over deleted bases or a
// deletion over aligned bases, result in ErrMDMismatch.
func ReferenceFromMD(c cigar.Cigar, t md.Tokens, seq string) (string, error) {
	return referenceFromMD(c, t, seq, alphabet.Gap, true)
}

func referenceFromMD(c cigar.Cigar, t md.Tokens, seq string, gap byte, strict bool) (string, error) {
	shape, kinds, err := mdShape(c, seq, gap)
	defer func() {
		pool.Put(shape)
		pool.Put(kinds)
	}()
	if err != nil {
		return "", err
	}
	m := mdWalker{shape: shape, kinds: kinds, strict: strict, out: pool.Get(len(shape))}
	defer func() { pool.Put(m.out) }()
	for i, tok := range t {
		err = m.consume(tok)
		if err != nil {
			return "", fmt.Errorf("%w: %v at token %d of %v", err, tok, i, t)
		}
	}
	return string(m.out), nil
}

// mdShape returns the reference alignment implied by c alone and the
// kind of each of its columns. Matched columns hold the read base,
// insertion columns hold gaps and deletion columns hold placeholders
// awaiting the deleted bases from the MD tokens. Both returned buffers
// are owned by the caller and should be returned to the pool.
func mdShape(c cigar.Cigar, seq string, gap byte) (shape, kinds []byte, err error) {
	hint := sizeHint(c, len(seq))
	shape = pool.Get(hint)
	kinds = pool.Get(hint)
	var cur int
	for i, co := range c {
		n := co.Len()
		switch t := co.Type(); t {
		case cigar.Match, cigar.Equal, cigar.Mismatch:
			if cur+n > len(seq) {
				return shape, kinds, overrun(ErrReadOverrun, c, i)
			}
			shape = append(shape, seq[cur:cur+n]...)
			kinds = appendKind(kinds, cigar.Match, n)
			cur += n
		case cigar.Insertion:
			shape = appendGaps(shape, gap, n)
			kinds = appendKind(kinds, cigar.Insertion, n)
			cur += n
		case cigar.Deletion:
			shape = appendGaps(shape, alphabet.Placeholder, n)
			kinds = appendKind(kinds, cigar.Deletion, n)
		case cigar.SoftClipped:
			cur += n
		case cigar.Skipped, cigar.HardClipped, cigar.Padded:
		default:
			panic(fmt.Sprintf("pairwise: unexpected cigar operation %v", t))
		}
	}
	return shape, kinds, nil
}

func appendKind(b []byte, t cigar.Type, n int) []byte {
	for ; n > 0; n-- {
		b = append(b, byte(t))
	}
	return b
}

// mdState is the state of an mdWalker while consuming a single token.
type mdState int

const (
	consumingRun mdState = iota
	consumingEdit
	copyingGaps
	done
)

// mdWalker reconciles the CIGAR derived shape, which includes insertion
// gaps, with MD tokens, which are blind to insertions.
type mdWalker struct {
	shape []byte
	// kinds holds the cigar.Type of
	// each shape column.
	kinds []byte

	// strict specifies that tokens must
	// agree with the column kinds.
	strict bool

	// matched is the number of non-gap shape
	// columns consumed by match runs.
	matched int
	// idx is the index of the next shape
	// column to be consumed.
	idx int

	out []byte
}

// consume advances the walker over a single MD token. Gap columns
// following the token are copied through to the output.
func (m *mdWalker) consume(t md.Token) error {
	state := consumingRun
	if t.Kind != md.MatchRun {
		state = consumingEdit
	}
	for state != done {
		switch state {
		case consumingRun:
			limit := m.matched + t.Count
			for m.matched < limit {
				if m.idx >= len(m.shape) {
					return ErrMDOverrun
				}
				k := cigar.Type(m.kinds[m.idx])
				if m.strict && k == cigar.Deletion {
					return ErrMDMismatch
				}
				m.out = append(m.out, m.shape[m.idx])
				if k != cigar.Insertion {
					m.matched++
				}
				m.idx++
			}
			state = copyingGaps

		case consumingEdit:
			want := cigar.Match
			if t.Kind == md.Deletion {
				want = cigar.Deletion
			}
			for i := 0; i < len(t.Bases); i++ {
				m.copyGaps()
				if m.idx >= len(m.shape) {
					return ErrMDOverrun
				}
				if m.strict && cigar.Type(m.kinds[m.idx]) != want {
					return ErrMDMismatch
				}
				m.out = append(m.out, t.Bases[i])
				m.idx++
			}
			state = copyingGaps

		case copyingGaps:
			m.copyGaps()
			state = done

		default:
			panic("pairwise: invalid md walker state")
		}
	}
	return nil
}

func (m *mdWalker) copyGaps() {
	for m.idx < len(m.shape) && cigar.Type(m.kinds[m.idx]) == cigar.Insertion {
		m.out = append(m.out, m.shape[m.idx])
		m.idx++
	}
}
