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

// Package wtinylfu implements a W-TinyLFU admission-controlled in-memory
// cache: a bounded key/value store fronted by a small recency window, a
// segmented probation/protected main cache, and a frequency-sketch-backed
// admission contest that decides which evictees from the window are worth
// promoting into the main cache over its current eviction candidate.
//
// The design follows Gil Einziger, Roy Friedman, and Ben Manes's W-TinyLFU
// policy. Unlike ristretto, the policy this package implements is not
// sharded and is not fed through a ring buffer of asynchronous writes: every
// Get, Put, and Del runs synchronously under one mutex, trading some
// throughput under contention for a much smaller, easier-to-audit core.
package wtinylfu

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/dgraph-io/wtinylfu/internal/doorkeeper"
	"github.com/dgraph-io/wtinylfu/internal/hash"
	"github.com/dgraph-io/wtinylfu/internal/sketch"
	"github.com/dgraph-io/wtinylfu/internal/slru"
	"github.com/dgraph-io/wtinylfu/internal/window"
)

// Cache is a bounded, concurrency-safe W-TinyLFU cache. The zero value is
// not usable; construct one with New or NewWithConfig.
type Cache struct {
	mu sync.Mutex

	hash HashFunc

	window *window.Cache
	main   *slru.Cache
	sketch *sketch.Sketch
	door   *doorkeeper.Filter

	dir map[uint32]*entry

	totalVisits uint64
	threshold   uint64

	Metrics *Metrics
}

// New creates a Cache with the given total capacity and every other
// parameter at its default.
func New(capacity uint64) (*Cache, error) {
	return NewWithConfig(Config{Capacity: capacity})
}

// NewWithConfig creates a Cache from a fully specified Config.
func NewWithConfig(cfg Config) (*Cache, error) {
	if cfg.Capacity < 1 {
		return nil, errors.Wrap(ErrInvalidCapacity, "wtinylfu.NewWithConfig")
	}

	threshold := uint64(defaultThreshold)
	if cfg.Threshold != nil {
		if *cfg.Threshold < 1 {
			return nil, errors.Wrap(ErrInvalidThreshold, "wtinylfu.NewWithConfig")
		}
		threshold = *cfg.Threshold
	}

	fpRate := cfg.FalsePositiveRate
	if fpRate <= 0 {
		fpRate = bloomFalsePositiveRate
	}

	hashFn := cfg.Hash
	if hashFn == nil {
		hashFn = hash.Sum
	}

	windowCap, probationCap, protectedCap, ok := splitCapacity(cfg.Capacity)
	if !ok {
		return nil, errors.Wrap(ErrCapacityTooSmall, "wtinylfu.NewWithConfig")
	}

	c := &Cache{
		hash:      hashFn,
		window:    window.New(int(windowCap)),
		main:      slru.New(int(probationCap), int(protectedCap)),
		sketch:    sketch.New(uint32(cfg.Capacity)),
		door:      doorkeeper.New(cfg.Capacity, fpRate),
		dir:       make(map[uint32]*entry, cfg.Capacity),
		threshold: threshold,
		Metrics:   newMetrics(),
	}
	return c, nil
}

// Get looks up key. The returned bool reports whether the key was present;
// a false return always pairs with a nil value. Get is a writer: it may
// increment the sketch, reorder LRU lists, and trigger a freshness reset,
// so it takes the same exclusive lock as Put and Del (see the concurrency
// note in DESIGN.md).
func (c *Cache) Get(key []byte) (interface{}, bool) {
	kh := c.hash(key, keySeed)
	ch := c.hash(key, conflictSeed)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.bumpVisits()
	c.sketch.Increment(kh)

	e, ok := c.dir[kh]
	if !ok || e.conflictHash != ch {
		c.Metrics.recordMiss()
		return nil, false
	}

	switch e.stage {
	case stageWindow:
		c.window.Touch(e.elem)
	case stageMain:
		newElem, newSeg, demotedElem, demoted := c.main.Hit(e.elem, e.segment)
		e.elem = newElem
		e.segment = newSeg
		if demoted {
			de := demotedElem.Value.(*entry)
			de.elem = demotedElem
			de.segment = slru.Probation
		}
	}

	c.Metrics.recordHit()
	return e.value, true
}

// Put inserts or updates key with value. An update to an already-resident
// key always succeeds and returns true. A brand-new key always enters the
// window; if that pushes the window's least recently used entry out, that
// evictee goes through the admission contest, and Put returns false when the
// evictee loses it and is dropped (the new key itself stays resident).
func (c *Cache) Put(key []byte, value interface{}) bool {
	kh := c.hash(key, keySeed)
	ch := c.hash(key, conflictSeed)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.dir[kh]; ok {
		if e.conflictHash == ch {
			// Update in place and promote, per the in-place-update contract
			// this cache resolves the source's open question with (see
			// DESIGN.md).
			e.value = value
			switch e.stage {
			case stageWindow:
				c.window.Touch(e.elem)
			case stageMain:
				newElem, newSeg, demotedElem, demoted := c.main.Hit(e.elem, e.segment)
				e.elem = newElem
				e.segment = newSeg
				if demoted {
					de := demotedElem.Value.(*entry)
					de.elem = demotedElem
					de.segment = slru.Probation
				}
			}
			return true
		}

		// A genuine key_hash collision against a different, still-resident
		// key: its directory slot is about to be reused, so evict it from
		// its own stage list first. Leaving it in place would orphan a
		// list node that len(c.dir) no longer counts, and risk a later
		// eviction deleting the wrong (newer) key's directory entry.
		c.evictStale(e)
	}

	candidate := &entry{keyHash: kh, conflictHash: ch, value: value, stage: stageWindow}
	elem, evictedVal, evictedOK := c.window.Put(candidate)
	candidate.elem = elem
	c.dir[kh] = candidate

	if !evictedOK {
		return true
	}

	evictee := evictedVal.(*entry)
	// Defensive: only erase the window evictee from the directory if it is
	// still the registered owner of its key_hash slot, so a newer claim on
	// the same hash is never clobbered.
	if cur, ok := c.dir[evictee.keyHash]; ok && cur == evictee {
		delete(c.dir, evictee.keyHash)
	}

	return c.admit(evictee)
}

// evictStale removes an entry that is still physically resident in its
// stage list but is about to lose (or has already lost) its directory slot
// to a colliding or replacing key. Callers must hold c.mu and must not
// rely on e.elem/e.stage afterward.
func (c *Cache) evictStale(e *entry) {
	switch e.stage {
	case stageWindow:
		c.window.Remove(e.elem)
	case stageMain:
		c.main.Remove(e.elem, e.segment)
	}
	if cur, ok := c.dir[e.keyHash]; ok && cur == e {
		delete(c.dir, e.keyHash)
	}
}

// admit runs the main-cache admission contest for a window evictee. It
// returns whether the evictee ended up resident in the main cache.
func (c *Cache) admit(e *entry) bool {
	e.stage = stageMain
	e.segment = slru.Probation

	victimVal, hasVictim := c.main.Victim()
	if !hasVictim {
		e.elem = c.main.PutNew(e)
		c.dir[e.keyHash] = e
		return true
	}

	victim := victimVal.(*entry)

	if !c.door.Allow(e.keyHash) {
		c.Metrics.recordRejection()
		return false
	}

	if c.sketch.Estimate(e.keyHash) < c.sketch.Estimate(victim.keyHash) {
		c.Metrics.recordRejection()
		return false
	}

	c.main.RemoveVictim()
	// The victim's directory slot may already belong to a different key by
	// the time we get here (e.g. it was itself overwritten by a key_hash
	// collision earlier in this same call chain) — only erase it if it is
	// still the registered owner.
	if cur, ok := c.dir[victim.keyHash]; ok && cur == victim {
		delete(c.dir, victim.keyHash)
	}
	c.Metrics.recordEviction()

	e.elem = c.main.PutNew(e)
	c.dir[e.keyHash] = e
	return true
}

// Del removes key, returning its value and true if it was present.
func (c *Cache) Del(key []byte) (interface{}, bool) {
	kh := c.hash(key, keySeed)
	ch := c.hash(key, conflictSeed)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.dir[kh]
	if !ok || e.conflictHash != ch {
		return nil, false
	}

	switch e.stage {
	case stageWindow:
		c.window.Remove(e.elem)
	case stageMain:
		c.main.Remove(e.elem, e.segment)
	}
	delete(c.dir, kh)
	return e.value, true
}

// Len reports the number of entries currently resident (window + main).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.dir)
}

// bumpVisits advances the freshness counter and, once it reaches threshold,
// ages the sketch and clears the doorkeeper in one step. Callers must hold
// c.mu.
func (c *Cache) bumpVisits() {
	c.totalVisits++
	if c.totalVisits >= c.threshold {
		c.sketch.Age()
		c.door.Clear()
		c.totalVisits = 0
	}
}
