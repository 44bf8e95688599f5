// Copyright ©2013 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fai implements FAI fasta sequence file index handling and
// indexed random access to reference sequence.
package fai

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

const (
	nameField = iota
	lengthField
	startField
	basesField
	bytesField
	numFields
)

var ErrNonUnique = errors.New("non-unique record name")

// Index is an FAI index.
type Index map[string]Record

// NewIndex returns a new Index constructed from the FASTA sequence
// in the provided io.Reader.
func NewIndex(fasta io.Reader) (Index, error) {
	br := bufio.NewReader(fasta)
	idx := make(Index)
	var (
		rec    Record
		offset int64

		// short is set when a line shorter than the
		// first line of the sequence has been seen.
		short bool
	)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) != 0 {
			b := bytes.TrimSpace(line)
			switch {
			case len(b) == 0:
			case b[0] == '>':
				if rec.Name != "" {
					idx[rec.Name] = rec
				}
				name := bytes.Fields(b[1:])
				if len(name) == 0 {
					return nil, fmt.Errorf("fai: missing sequence name at %d", offset)
				}
				rec = Record{Name: string(name[0]), Start: offset + int64(len(line))}
				if _, exists := idx[rec.Name]; exists {
					return nil, fmt.Errorf("fai: duplicate sequence identifier %s at %d", rec.Name, offset)
				}
				short = false
			default:
				if rec.Name == "" {
					return nil, fmt.Errorf("fai: sequence before first header at %d", offset)
				}
				if short {
					return nil, fmt.Errorf("fai: unexpected short line before offset %d", offset)
				}
				switch {
				case rec.BasesPerLine == 0:
					rec.BasesPerLine = len(b)
					rec.BytesPerLine = len(line)
				case len(b) > rec.BasesPerLine, len(line) > rec.BytesPerLine:
					return nil, fmt.Errorf("fai: unexpected long line at offset %d", offset)
				case len(b) < rec.BasesPerLine:
					short = true
				}
				rec.Length += len(b)
			}
			offset += int64(len(line))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	if rec.Name != "" {
		idx[rec.Name] = rec
	}
	return idx, nil
}

// Record is a single FAI index record.
type Record struct {
	// Name is the name of the sequence.
	Name string
	// Length is the length of the sequence.
	Length int
	// Start is the starting seek offset of
	// the sequence.
	Start int64
	// BasesPerLine is the number of sequences
	// bases per line.
	BasesPerLine int
	// BytesPerLine is the number of bytes
	// used to represent each line.
	BytesPerLine int
}

// Position returns the seek offset of the sequence position p for the
// given Record.
func (r Record) Position(p int) int64 {
	if p < 0 || r.Length <= p {
		panic("fai: index out of range")
	}
	return r.position(p)
}

func (r Record) position(p int) int64 {
	return r.Start + int64(p/r.BasesPerLine)*int64(r.BytesPerLine) + int64(p%r.BasesPerLine)
}

// ReadFrom returns an Index from the stream provided by an io.Reader or an error.
// Malformed lines and non-unique record names are reported as a *csv.ParseError
// identifying the offending line and field.
func ReadFrom(r io.Reader) (Index, error) {
	idx := make(Index)
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Split(sc.Text(), "\t")
		if len(fields) != numFields {
			return nil, parseError(line, len(fields), csv.ErrFieldCount)
		}
		rec := Record{Name: fields[nameField]}
		if _, exists := idx[rec.Name]; exists {
			return nil, parseError(line, nameField, ErrNonUnique)
		}
		var err error
		for _, f := range []struct {
			col int
			dst *int
		}{
			{col: lengthField, dst: &rec.Length},
			{col: basesField, dst: &rec.BasesPerLine},
			{col: bytesField, dst: &rec.BytesPerLine},
		} {
			*f.dst, err = strconv.Atoi(fields[f.col])
			if err != nil {
				return nil, parseError(line, f.col, err)
			}
		}
		rec.Start, err = strconv.ParseInt(fields[startField], 10, 64)
		if err != nil {
			return nil, parseError(line, startField, err)
		}
		if rec.BasesPerLine <= 0 || rec.BytesPerLine < rec.BasesPerLine {
			return nil, parseError(line, basesField, errors.New("invalid line width"))
		}
		idx[rec.Name] = rec
	}
	return idx, sc.Err()
}

func parseError(line, column int, err error) *csv.ParseError {
	return &csv.ParseError{
		StartLine: line,
		Line:      line,
		Column:    column,
		Err:       err,
	}
}

// WriteTo writes the given index to w in order of ascending start position.
func WriteTo(w io.Writer, idx Index) error {
	recs := make([]Record, 0, len(idx))
	for _, r := range idx {
		recs = append(recs, r)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Start < recs[j].Start })
	bw := bufio.NewWriter(w)
	for _, r := range recs {
		_, err := fmt.Fprintf(bw, "%s\t%d\t%d\t%d\t%d\n", r.Name, r.Length, r.Start, r.BasesPerLine, r.BytesPerLine)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}
