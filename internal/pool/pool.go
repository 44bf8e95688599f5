// Copyright ©2021 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pool provides size stratified scratch byte buffers for
// building aligned sequence strings.
package pool

import (
	"math/bits"
	"sync"
)

// pool contains size stratified []byte pools. Each pool element i
// returns slices capped at 1<<i.
var pool [63]sync.Pool

func init() {
	for i := range pool {
		l := 1 << uint(i)
		pool[i].New = func() interface{} {
			return make([]byte, 0, l)
		}
	}
}

// Get returns an empty []byte with a capacity of at least n, suitable
// for appending up to n bytes without reallocation.
func Get(n int) []byte {
	if n <= 0 {
		return nil
	}
	return pool[poolFor(uint(n))].Get().([]byte)[:0]
}

// Put returns a []byte obtained from Get to the pool. Buffers whose
// capacity has grown beyond their size class are placed in the class
// they fit.
func Put(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	i := bits.Len(uint(cap(buf))) - 1
	pool[i].Put(buf[:0])
}

// poolFor returns the ceiling of base 2 log of size. It provides an index
// into a pool array to a sync.Pool that will return values able to hold
// size elements.
func poolFor(size uint) int {
	return bits.Len(size - 1)
}
