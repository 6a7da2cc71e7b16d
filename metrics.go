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

import (
	"fmt"
	"sync/atomic"
)

// Metrics is a snapshot of performance counters for the lifetime of a Cache.
// All operations are safe for concurrent use. This is a trimmed-down
// counterpart of the teacher's Metrics type: that one tracks sharded
// per-hash-bucket counters for keys added/updated/evicted/cost plus a life
// expectancy histogram, because it instruments an asynchronous, sharded
// policy. This cache runs every operation under one lock, so one atomic
// counter per event is enough — no false-sharing padding, no histogram.
type Metrics struct {
	hits       uint64
	misses     uint64
	evictions  uint64
	rejections uint64
}

func newMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) recordHit() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.hits, 1)
}

func (m *Metrics) recordMiss() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.misses, 1)
}

// recordEviction counts a main-cache probation victim removed to make room
// for an admitted candidate.
func (m *Metrics) recordEviction() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.evictions, 1)
}

// recordRejection counts a window evictee that lost the admission contest
// (suppressed by the doorkeeper or out-scored by the sketch) and was
// dropped rather than entering the main cache.
func (m *Metrics) recordRejection() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.rejections, 1)
}

// Hits is the number of Get calls that found a value.
func (m *Metrics) Hits() uint64 {
	if m == nil {
		return 0
	}
	return atomic.LoadUint64(&m.hits)
}

// Misses is the number of Get calls that did not find a value.
func (m *Metrics) Misses() uint64 {
	if m == nil {
		return 0
	}
	return atomic.LoadUint64(&m.misses)
}

// Evictions is the number of main-cache probation victims removed to admit
// a winning candidate.
func (m *Metrics) Evictions() uint64 {
	if m == nil {
		return 0
	}
	return atomic.LoadUint64(&m.evictions)
}

// Rejections is the number of window evictees the admission contest
// declined to let into the main cache.
func (m *Metrics) Rejections() uint64 {
	if m == nil {
		return 0
	}
	return atomic.LoadUint64(&m.rejections)
}

// Ratio is Hits / (Hits + Misses), or 0 if there have been no Get calls.
func (m *Metrics) Ratio() float64 {
	if m == nil {
		return 0.0
	}
	hits, misses := m.Hits(), m.Misses()
	if hits == 0 && misses == 0 {
		return 0.0
	}
	return float64(hits) / float64(hits+misses)
}

// Clear resets all counters to zero.
func (m *Metrics) Clear() {
	if m == nil {
		return
	}
	atomic.StoreUint64(&m.hits, 0)
	atomic.StoreUint64(&m.misses, 0)
	atomic.StoreUint64(&m.evictions, 0)
	atomic.StoreUint64(&m.rejections, 0)
}

// String renders a one-line summary, in the same spirit as the teacher's
// Metrics.String but scoped to the counters this cache actually tracks.
func (m *Metrics) String() string {
	if m == nil {
		return ""
	}
	return fmt.Sprintf(
		"hits: %d misses: %d evictions: %d rejections: %d hit-ratio: %.2f",
		m.Hits(), m.Misses(), m.Evictions(), m.Rejections(), m.Ratio(),
	)
}
