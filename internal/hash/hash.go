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

// Package hash provides the seeded 32-bit hash the cache uses to fingerprint
// keys. Sum ports the MurmurHash2 finalizer used by the original
// Window-TinyLFU reference: deterministic, and independent enough under two
// distinct seeds to serve as both a primary key hash and a secondary
// collision check.
package hash

// Sum computes a 32-bit hash of data seeded by seed, using the same
// finalizer as Austin Appleby's MurmurHash2 (32-bit, x86 variant). Two
// distinct seeds applied to the same bytes yield statistically independent
// outputs, which is what lets the cache use one seed for the primary
// key_hash and another for the conflict_hash without the two colliding in
// lockstep.
func Sum(data []byte, seed uint32) uint32 {
	const (
		m = 0x5bd1e995
		r = 24
	)

	h := seed ^ uint32(len(data))

	for len(data) >= 4 {
		k := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
		k *= m
		k ^= k >> r
		k *= m

		h *= m
		h ^= k

		data = data[4:]
	}

	switch len(data) {
	case 3:
		h ^= uint32(data[2]) << 16
		fallthrough
	case 2:
		h ^= uint32(data[1]) << 8
		fallthrough
	case 1:
		h ^= uint32(data[0])
		h *= m
	}

	h ^= h >> 13
	h *= m
	h ^= h >> 15

	return h
}
