/*
 * Copyright 2019 Dgraph Labs, Inc. and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package sketch is a Count-Min sketch with 4-bit saturating counters,
// heavily based on Damian Gryski's CM4 (see
// https://github.com/dgryski/go-tinylfu/blob/master/cm4.go) and on
// ristretto's own sketch.go, generalized from one row to the Depth rows the
// TinyLFU paper calls for, with counters packed eight to a 32-bit word
// instead of two to a byte.
package sketch

import (
	"math/rand"
	"time"
)

const (
	// Depth is the number of independent counter rows.
	Depth = 4
	// MaxCount is the saturating ceiling for a single counter.
	MaxCount = 15
	// countersPerWord is how many 4-bit lanes fit in a 32-bit word.
	countersPerWord = 8
)

// row is one counter row: a slice of 32-bit words, each packing 8 counters.
type row []uint32

func newRow(width uint32) row {
	n := width / countersPerWord
	if n == 0 {
		n = 1
	}
	return make(row, n)
}

func (r row) get(n uint32) byte {
	word := r[n/countersPerWord]
	shift := (n % countersPerWord) * 4
	return byte((word >> shift) & 0xf)
}

func (r row) increment(n uint32) {
	i := n / countersPerWord
	shift := (n % countersPerWord) * 4
	v := (r[i] >> shift) & 0xf
	// only increment if not max value; overflow wrap would corrupt
	// neighboring lanes and is bad for frequency estimation anyway.
	if v < MaxCount {
		r[i] += 1 << shift
	}
}

// age halves every counter in the row. Shifting the whole word right by one
// bit shifts all 8 lanes simultaneously; ANDing with 0x77777777 clears the
// bit that would otherwise bleed down from each lane into its neighbor.
func (r row) age() {
	for i := range r {
		r[i] = (r[i] >> 1) & 0x77777777
	}
}

func (r row) clear() {
	for i := range r {
		r[i] = 0
	}
}

// Sketch is a Count-Min sketch over 32-bit key hashes.
type Sketch struct {
	rows  [Depth]row
	seeds [Depth]uint32
	mask  uint32
}

// New builds a Sketch with rows wide enough to hold width counters each
// (rounded up to the next power of two, floor-clamped to 8). Row seeds are
// drawn from a PRNG seeded at construction time so each row addresses keys
// independently.
func New(width uint32) *Sketch {
	if width == 0 {
		width = 1
	}
	width = next2Power(width)
	if width < 8 {
		width = 8
	}

	s := &Sketch{mask: width - 1}
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range s.rows {
		s.rows[i] = newRow(width)
		s.seeds[i] = rnd.Uint32()
	}
	return s
}

// Increment adds one to the counters addressed by h in every row,
// saturating at MaxCount.
func (s *Sketch) Increment(h uint32) {
	for i := range s.rows {
		s.rows[i].increment((h ^ s.seeds[i]) & s.mask)
	}
}

// Estimate returns the minimum counter value addressed by h across all
// rows: a one-sided (never-under) estimate of h's access frequency.
func (s *Sketch) Estimate(h uint32) uint8 {
	min := uint8(MaxCount)
	for i := range s.rows {
		if v := s.rows[i].get((h ^ s.seeds[i]) & s.mask); v < min {
			min = v
		}
	}
	return min
}

// Age halves every counter in every row. Called on each freshness reset so
// the sketch tracks a decaying window of recent frequency rather than
// lifetime frequency.
func (s *Sketch) Age() {
	for i := range s.rows {
		s.rows[i].age()
	}
}

// Clear zeroes every counter in every row.
func (s *Sketch) Clear() {
	for i := range s.rows {
		s.rows[i].clear()
	}
}

// next2Power rounds x up to the next power of 2. Note this omits the
// `x |= x >> 32` step present in the original reference implementation's
// next2Power: that step is undefined behavior (a shift by the full width)
// when performed on a 32-bit value, and the `>>16` step already covers every
// bit of a uint32.
func next2Power(x uint32) uint32 {
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x++
	return x
}
