// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package md implements tokenizing of SAM MD tag strings.
//
// An MD string describes the reference bases at positions where an
// aligned read differs from the reference. It is a decimal match count
// followed by zero or more edits, each of which is itself followed by a
// match count:
//
//  \d+(([ACGTNRY]+|\^[ACGTNRY]+)\d+)*
//
// Match counts may be zero, so the tokens of a parsed MD string always
// alternate strictly between MatchRun and edit tokens, beginning and
// ending with a MatchRun.
package md

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/biogo/pairwise/alphabet"
)

// Kind is the kind of an MD token.
type Kind byte

const (
	MatchRun     Kind = iota // Run of reference bases matching the read.
	Substitution             // Reference bases differing from the read.
	Deletion                 // Reference bases absent from the read.
)

func (k Kind) String() string {
	switch k {
	case MatchRun:
		return "match"
	case Substitution:
		return "substitution"
	case Deletion:
		return "deletion"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// DeletionMarker is the byte prefixing the bases of a deletion edit.
const DeletionMarker = '^'

// Token is a single MD string component.
type Token struct {
	Kind Kind

	// Count is the number of matching positions
	// described by a MatchRun token.
	Count int

	// Bases holds the reference bases of a
	// Substitution or Deletion token.
	Bases string
}

// Len returns the number of reference positions described by t.
func (t Token) Len() int {
	if t.Kind == MatchRun {
		return t.Count
	}
	return len(t.Bases)
}

// String returns the MD string representation of t.
func (t Token) String() string {
	switch t.Kind {
	case MatchRun:
		return strconv.Itoa(t.Count)
	case Substitution:
		return t.Bases
	case Deletion:
		return string(DeletionMarker) + t.Bases
	default:
		panic("md: invalid token kind")
	}
}

// Tokens is an ordered set of MD tokens.
type Tokens []Token

// String returns the MD string described by ts.
func (ts Tokens) String() string {
	var b strings.Builder
	for _, t := range ts {
		b.WriteString(t.String())
	}
	return b.String()
}

// ReferenceLength returns the number of reference positions described
// by ts, including deleted positions.
func (ts Tokens) ReferenceLength() int {
	var n int
	for _, t := range ts {
		n += t.Len()
	}
	return n
}

// Edits returns the number of Substitution and Deletion tokens in ts.
func (ts Tokens) Edits() int {
	var n int
	for _, t := range ts {
		if t.Kind != MatchRun {
			n++
		}
	}
	return n
}

var (
	ErrMissingRun    = errors.New("md: expected match count")
	ErrEmptyDeletion = errors.New("md: deletion without bases")
	ErrBadBase       = errors.New("md: invalid base")
	ErrBadCount      = errors.New("md: match count out of range")
)

// ParseError is the error returned when an MD string does not conform
// to the MD grammar.
type ParseError struct {
	Input  string // The MD string being parsed.
	Offset int    // Byte offset of the failure within Input.
	Err    error  // The underlying failure.
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %q at offset %d", e.Err, e.Input, e.Offset)
}

func (e *ParseError) Unwrap() error { return e.Err }

// maxCount bounds match counts to the longest possible SAM reference.
const maxCount = 1<<31 - 1

// Parse returns the tokens described by the MD string s. Any deviation
// from the MD grammar, including bases outside the recognised alphabet,
// results in a *ParseError.
func Parse(s string) (Tokens, error) {
	var ts Tokens
	i := 0
	for {
		n, j, err := count(s, i)
		if err != nil {
			return nil, err
		}
		ts = append(ts, Token{Kind: MatchRun, Count: n})
		i = j
		if i == len(s) {
			return ts, nil
		}

		kind := Substitution
		if s[i] == DeletionMarker {
			kind = Deletion
			i++
		}
		j = i
		for j < len(s) && alphabet.IsBase(s[j]) {
			j++
		}
		if j == i {
			switch {
			case kind == Deletion && (j == len(s) || isDigit(s[j])):
				return nil, &ParseError{Input: s, Offset: i - 1, Err: ErrEmptyDeletion}
			default:
				return nil, &ParseError{Input: s, Offset: j, Err: ErrBadBase}
			}
		}
		ts = append(ts, Token{Kind: kind, Bases: s[i:j]})
		i = j
	}
}

// count parses the decimal match count starting at s[i], returning
// the count and the offset of the following byte.
func count(s string, i int) (n, j int, err error) {
	for j = i; j < len(s) && isDigit(s[j]); j++ {
		n = n*10 + int(s[j]-'0')
		if n > maxCount {
			return 0, j, &ParseError{Input: s, Offset: i, Err: ErrBadCount}
		}
	}
	if j == i {
		if j < len(s) && !alphabet.IsBase(s[j]) && s[j] != DeletionMarker {
			return 0, j, &ParseError{Input: s, Offset: j, Err: ErrBadBase}
		}
		return 0, j, &ParseError{Input: s, Offset: j, Err: ErrMissingRun}
	}
	return n, j, nil
}

// ParseLenient returns the tokens found in s, skipping bytes that do not
// form part of an edit followed by a match count. A missing leading
// match count is taken to be zero. The returned tokens preserve the
// alternation of MatchRun and edit tokens but may describe only part
// of s.
func ParseLenient(s string) Tokens {
	i := 0
	n := 0
	for ; i < len(s) && isDigit(s[i]); i++ {
		if n <= maxCount {
			n = n*10 + int(s[i]-'0')
		}
	}
	ts := Tokens{{Kind: MatchRun, Count: n}}
	for i < len(s) {
		kind := Substitution
		start := i
		if s[i] == DeletionMarker {
			kind = Deletion
			start++
		}
		end := start
		for end < len(s) && alphabet.IsBase(s[end]) {
			end++
		}
		digits := end
		n = 0
		for ; digits < len(s) && isDigit(s[digits]); digits++ {
			if n <= maxCount {
				n = n*10 + int(s[digits]-'0')
			}
		}
		if end == start || digits == end || n > maxCount {
			i++
			continue
		}
		ts = append(ts,
			Token{Kind: kind, Bases: s[start:end]},
			Token{Kind: MatchRun, Count: n},
		)
		i = digits
	}
	return ts
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }
