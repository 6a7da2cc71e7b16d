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

package doorkeeper

import "testing"

func TestDoorkeeper(t *testing.T) {
	d := New(1374, 0.01)
	h := uint32(0x1234abcd)

	if d.Contains(h) {
		t.Fatal("item exists but was never added")
	}
	if d.Allow(h) {
		t.Fatal("first sighting should return false (not previously seen)")
	}
	if !d.Allow(h) {
		t.Fatal("second sighting should return true (already seen)")
	}
	if !d.Contains(h) {
		t.Fatal("item was added but Contains() is false")
	}

	d.Clear()
	if d.Contains(h) {
		t.Fatal("doorkeeper was cleared but Contains() returns true")
	}
}

func TestDoorkeeperDistinctHashesIndependent(t *testing.T) {
	d := New(1000, 0.01)
	d.Put(111)
	if d.Contains(222) {
		// Extremely unlikely with this capacity/rate but not impossible;
		// this just documents the property under test, not a hard
		// guarantee.
		t.Log("unrelated hash reported as contained (bloom false positive)")
	}
}

func TestNewClampsBitsAndHashes(t *testing.T) {
	f := New(1, 0.5)
	if f.m < minBits {
		t.Fatalf("m should be floor-clamped to %d, got %d", minBits, f.m)
	}
	if f.k < 1 || f.k > MaxHashes {
		t.Fatalf("k out of bounds: %d", f.k)
	}
}

func TestNewClampsHashCountCeiling(t *testing.T) {
	// A tiny false-positive rate with a tiny capacity pushes k far past
	// MaxHashes without the clamp.
	f := New(1, 1e-12)
	if f.k != MaxHashes {
		t.Fatalf("expected k to clamp at %d, got %d", MaxHashes, f.k)
	}
}
