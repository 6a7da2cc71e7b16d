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

package sketch

import "testing"

func TestIncrementEstimate(t *testing.T) {
	s := New(16)
	s.Increment(1)
	s.Increment(1)
	s.Increment(1)
	s.Increment(1)
	if got := s.Estimate(1); got != 4 {
		t.Fatalf("increment/estimate error: got %d, want 4", got)
	}
	if got := s.Estimate(2); got != 0 {
		t.Fatalf("neighbor corruption: got %d, want 0", got)
	}
}

func TestSaturation(t *testing.T) {
	s := New(16)
	for i := 0; i < MaxCount+10; i++ {
		s.Increment(5)
	}
	if got := s.Estimate(5); got != MaxCount {
		t.Fatalf("counter should saturate at %d, got %d", MaxCount, got)
	}
}

func TestAgeHalves(t *testing.T) {
	s := New(16)
	for i := 0; i < 9; i++ {
		s.Increment(3)
	}
	if got := s.Estimate(3); got != 9 {
		t.Fatalf("setup: got %d, want 9", got)
	}
	s.Age()
	if got := s.Estimate(3); got != 4 {
		t.Fatalf("age should floor-halve: got %d, want 4", got)
	}
}

func TestClear(t *testing.T) {
	s := New(16)
	s.Increment(7)
	s.Clear()
	if got := s.Estimate(7); got != 0 {
		t.Fatalf("clear should zero counters: got %d", got)
	}
}

func TestNext2Power(t *testing.T) {
	cases := map[uint32]uint32{
		1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 8: 8, 9: 16, 1000: 1024,
	}
	for in, want := range cases {
		if got := next2Power(in); got != want {
			t.Errorf("next2Power(%d) = %d, want %d", in, got, want)
		}
	}
}
