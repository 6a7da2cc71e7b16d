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

package wtinylfu

import "github.com/pkg/errors"

// Default tuning constants, carried over from the reference implementation
// this cache is modeled on.
const (
	bloomFalsePositiveRate = 0.01
	keySeed                = 0xbc9f1d34
	conflictSeed           = 0x9ae16a3b
	windowRatio            = 0.01
	protectedRatioOfMain   = 0.80
	defaultThreshold       = 100
)

// HashFunc computes a 32-bit, seed-dependent fingerprint of data. Two calls
// with distinct seeds over identical data must be statistically independent;
// this is what lets the cache derive both key_hash and conflict_hash from a
// single function.
type HashFunc func(data []byte, seed uint32) uint32

// Config holds the construction-time parameters for a Cache. Capacity is the
// only field callers must set; everything else defaults to the values this
// cache's design is tuned around.
type Config struct {
	// Capacity is the total number of entries the cache may hold across its
	// window and main stages combined. Must be at least minSplitCapacity (3):
	// 0 is rejected with ErrInvalidCapacity, and 1 or 2 with
	// ErrCapacityTooSmall.
	Capacity uint64

	// Threshold is the number of Get calls after which the sketch ages and
	// the doorkeeper clears. Leave nil to take the default of 100; a pointer
	// to zero is rejected with ErrInvalidThreshold.
	Threshold *uint64

	// FalsePositiveRate configures the doorkeeper's target false-positive
	// rate. Zero means "use the default of 0.01".
	FalsePositiveRate float64

	// Hash overrides the cache's key/conflict hash function. Nil means
	// "use the built-in Murmur2-style finalizer".
	Hash HashFunc
}

// ErrInvalidCapacity is returned by New/NewWithConfig when Capacity < 1.
var ErrInvalidCapacity = errors.New("wtinylfu: capacity must be at least 1")

// ErrCapacityTooSmall is returned when Capacity is too small to give the
// window and both main-cache segments at least one slot each without their
// combined size exceeding Capacity.
var ErrCapacityTooSmall = errors.New("wtinylfu: capacity must be at least 3")

// ErrInvalidThreshold is returned when Threshold is explicitly set to 0.
var ErrInvalidThreshold = errors.New("wtinylfu: threshold must be at least 1")

// minSplitCapacity is the smallest total capacity that can give the window
// and both main-cache segments (probation, protected) at least one slot
// each; below it there is no split satisfying spec.md §3's
// |Window| + |Main| ≤ C invariant.
const minSplitCapacity = 3

// splitCapacity derives the window, probation, and protected capacities from
// a total capacity C, per the fixed ratios: 1% to the window, then 80/20
// protected/probation of the remainder. ok is false if C is too small to
// give every stage at least one slot without the three sums exceeding C
// (see ErrCapacityTooSmall).
func splitCapacity(c uint64) (windowCap, probationCap, protectedCap uint64, ok bool) {
	if c < minSplitCapacity {
		return 0, 0, 0, false
	}

	windowCap = ceilRatio(c, windowRatio)
	if windowCap < 1 {
		windowCap = 1
	}
	// Leave at least 2 slots for the main cache (1 probation + 1
	// protected) rather than let the window's own rounding eat into them.
	if maxWindow := c - 2; windowCap > maxWindow {
		windowCap = maxWindow
	}
	remainder := c - windowCap // always >= 2

	protectedCap = ceilRatio(remainder, protectedRatioOfMain)
	// Leave at least 1 slot for probation rather than let protected's own
	// rounding claim the whole remainder.
	if protectedCap > remainder-1 {
		protectedCap = remainder - 1
	}
	probationCap = remainder - protectedCap

	return windowCap, probationCap, protectedCap, true
}

// ceilRatio computes ceil(n * ratio) without floating-point drift dominating
// small capacities.
func ceilRatio(n uint64, ratio float64) uint64 {
	v := float64(n) * ratio
	r := uint64(v)
	if float64(r) < v {
		r++
	}
	return r
}
