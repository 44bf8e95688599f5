// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package alphabet defines the nucleotide symbols recognised in read,
// reference and MD sequences.
package alphabet

const (
	// Bases is the set of recognised base and ambiguity letters.
	Bases = "ACGTNRY"

	// Gap is the symbol placed in an aligned string at a column
	// that has no base on that side of the alignment.
	Gap = '-'

	// Placeholder marks a reference position that is known to exist
	// but whose base has not yet been determined.
	Placeholder = 'N'
)

var (
	isBase     [256]bool
	complement [256]byte
)

func init() {
	for i := range complement {
		complement[i] = byte(i)
	}
	for _, b := range []byte(Bases) {
		isBase[b] = true
	}
	for _, p := range [...][2]byte{
		{'A', 'T'},
		{'C', 'G'},
		{'G', 'C'},
		{'T', 'A'},
		{'N', 'N'},
		{'R', 'R'},
		{'Y', 'Y'},
		{Gap, Gap},
	} {
		complement[p[0]] = p[1]
	}
}

// IsBase returns whether b is a recognised base letter.
func IsBase(b byte) bool { return isBase[b] }

// Valid returns whether every byte of s is a recognised base letter.
func Valid(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isBase[s[i]] {
			return false
		}
	}
	return true
}

// Complement returns the complement of b. Bytes without a defined
// complement are returned unaltered.
func Complement(b byte) byte { return complement[b] }

// ReverseComplement reverse complements s in place.
func ReverseComplement(s []byte) {
	for i, j := 0, len(s)-1; i <= j; i, j = i+1, j-1 {
		s[i], s[j] = complement[s[j]], complement[s[i]]
	}
}
