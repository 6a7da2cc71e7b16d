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

// Package slru implements the two-segment main cache: a cold "probation"
// list new arrivals enter, and a hot "protected" list promoted on hit.
// Adapted from ristretto's slru package, which keeps its own key ->
// list.Element map; here that directory lives one level up (the root Cache
// owns a single directory shared with the window cache, per spec.md's data
// model), so this package only ever manipulates list.Element handles the
// caller already holds.
package slru

import "container/list"

// Segment identifies which of the two lists an entry currently occupies.
type Segment uint8

const (
	Probation Segment = iota
	Protected
)

// Cache is the segmented main cache. It is not safe for concurrent use.
type Cache struct {
	probation    *list.List
	protected    *list.List
	maxProbation int
	maxProtected int
}

// New creates a segmented cache with the given per-segment capacities. Both
// must be positive: a zero-sized segment can never be worked around and
// indicates a construction error further up the call chain.
func New(maxProbation, maxProtected int) *Cache {
	if maxProbation < 1 || maxProtected < 1 {
		panic("slru: segment capacities must be positive")
	}
	return &Cache{
		probation:    list.New(),
		protected:    list.New(),
		maxProbation: maxProbation,
		maxProtected: maxProtected,
	}
}

// Len is the total resident count across both segments.
func (c *Cache) Len() int { return c.probation.Len() + c.protected.Len() }

// Capacity is the combined probation+protected capacity.
func (c *Cache) Capacity() int { return c.maxProbation + c.maxProtected }

// Hit records an access to the entry currently at e, occupying segment seg.
//
//   - A hit in Protected just moves e to the front of Protected.
//   - A hit in Probation promotes e to Protected if there's room there.
//   - A hit in Probation when Protected is full swaps e with the Protected
//     tail: the tail demotes to the front of Probation (its segment flips to
//     Probation) while e ascends to the front of Protected.
//
// Hit returns the element's new position and segment, and — only in the
// swap case — the demoted element's new (Probation) position so the caller
// can update that entry's segment in its own directory too.
func (c *Cache) Hit(e *list.Element, seg Segment) (newElem *list.Element, newSeg Segment, demoted *list.Element, demotedOK bool) {
	switch seg {
	case Protected:
		c.protected.MoveToFront(e)
		return e, Protected, nil, false

	case Probation:
		if c.protected.Len() < c.maxProtected {
			v := e.Value
			c.probation.Remove(e)
			newElem = c.protected.PushFront(v)
			return newElem, Protected, nil, false
		}

		// Swap the accessed probation entry with the coldest protected
		// entry. Both values are re-pushed as new list nodes, so e and tail
		// are no longer valid handles afterward.
		tail := c.protected.Back()
		tailVal := tail.Value
		hitVal := e.Value

		c.protected.Remove(tail)
		c.probation.Remove(e)

		newElem = c.protected.PushFront(hitVal)
		demoted = c.probation.PushFront(tailVal)
		return newElem, Protected, demoted, true

	default:
		panic("slru: unknown segment")
	}
}

// PutNew inserts v as a brand-new Probation-segment entry. Callers are
// expected to have already consulted Victim/RemoveVictim when the cache is
// at capacity; PutNew itself never evicts.
func (c *Cache) PutNew(v interface{}) *list.Element {
	return c.probation.PushFront(v)
}

// Victim reports the current Probation-tail eviction candidate without
// removing it. ok is false while the segmented cache still has spare room
// for an unconditional insert.
func (c *Cache) Victim() (v interface{}, ok bool) {
	if c.Len() < c.Capacity() {
		return nil, false
	}
	back := c.probation.Back()
	if back == nil {
		return nil, false
	}
	return back.Value, true
}

// RemoveVictim evicts the current Probation-tail element. Used once the
// admission contest in the root Cache decides the incoming candidate wins.
func (c *Cache) RemoveVictim() {
	if back := c.probation.Back(); back != nil {
		c.probation.Remove(back)
	}
}

// Remove deletes e, which must currently occupy segment seg, outright.
func (c *Cache) Remove(e *list.Element, seg Segment) {
	switch seg {
	case Protected:
		c.protected.Remove(e)
	case Probation:
		c.probation.Remove(e)
	}
}
