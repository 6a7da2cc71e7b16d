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

// Package doorkeeper implements the Bloom filter used as the TinyLFU
// doorkeeper: it gates admission so that a key admitted into the sketch's
// frequency contest must have been seen at least once since the last
// freshness reset.
package doorkeeper

import "math"

// MaxHashes bounds the number of probes per key regardless of how the
// requested capacity and false-positive rate work out, matching the
// original reference implementation's clamp.
const MaxHashes = 30

// minBits is the floor on the bit array size; below this the filter would be
// all noise for tiny capacities.
const minBits = 32

// Filter is a single-hash-plus-rotation Bloom filter (the "re-seeding by
// delta" scheme popularized by LevelDB): one base hash produces every probe
// by repeated addition of a rotated copy of itself, avoiding the need to
// carry k independent hash functions.
type Filter struct {
	bits []uint32
	m    uint32 // number of bits
	k    uint32 // number of probes per key
}

// New sizes a Filter for capacity keys at the given false-positive rate.
//
//	m = ceil(-capacity * ln(rate) / ln(2)^2), floor-clamped to minBits
//	k = round(ln(2) * m / capacity), clamped to [1, MaxHashes]
func New(capacity uint64, falsePositiveRate float64) *Filter {
	if capacity == 0 {
		capacity = 1
	}
	n := float64(capacity)

	m := math.Ceil(-1 * n * math.Log(falsePositiveRate) / (math.Ln2 * math.Ln2))
	if m < minBits {
		m = minBits
	}

	k := math.Round(math.Ln2 * m / n)
	if k < 1 {
		k = 1
	}
	if k > MaxHashes {
		k = MaxHashes
	}

	bits := uint32(m)
	words := (bits + 31) / 32

	return &Filter{
		bits: make([]uint32, words),
		m:    bits,
		k:    uint32(k),
	}
}

// rotr17 rotates h right by 17 bits, the delta used to re-seed each
// subsequent probe.
func rotr17(h uint32) uint32 {
	return h>>17 | h<<15
}

// Put sets the k bits addressed by h, h+delta, h+2*delta, ... (mod m).
func (f *Filter) Put(h uint32) {
	delta := rotr17(h)
	for i := uint32(0); i < f.k; i++ {
		pos := h % f.m
		f.bits[pos/32] |= 1 << (pos % 32)
		h += delta
	}
}

// Contains reports whether every one of the k probe bits for h is set. A
// false result is definitive; a true result may be a false positive.
func (f *Filter) Contains(h uint32) bool {
	delta := rotr17(h)
	for i := uint32(0); i < f.k; i++ {
		pos := h % f.m
		if f.bits[pos/32]&(1<<(pos%32)) == 0 {
			return false
		}
		h += delta
	}
	return true
}

// Allow reports whether h has been seen before (since the last Clear). If
// not, it records h so the next Allow call for the same hash returns true,
// and itself returns false to signal "first sighting, suppress admission".
func (f *Filter) Allow(h uint32) bool {
	if !f.Contains(h) {
		f.Put(h)
		return false
	}
	return true
}

// Clear zeroes every bit, as done on each freshness reset.
func (f *Filter) Clear() {
	for i := range f.bits {
		f.bits[i] = 0
	}
}
