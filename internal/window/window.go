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

// Package window implements the small front-stage recency list that
// absorbs every write before an entry is considered for the main cache.
// It is a thin container/list wrapper in the same style as ristretto's
// policy.go LRU type, generalized to hold arbitrary payloads so the caller
// owns the key -> position directory.
package window

import "container/list"

// Cache is a fixed-capacity, doubly-linked recency list. Front is most
// recently used; Back is the eviction target. It is not safe for
// concurrent use; callers serialize access (the root Cache does this with
// its single lock).
type Cache struct {
	l        *list.List
	capacity int
}

// New creates a window LRU with room for capacity entries. capacity must be
// at least 1.
func New(capacity int) *Cache {
	if capacity < 1 {
		panic("window: capacity must be positive")
	}
	return &Cache{l: list.New(), capacity: capacity}
}

// Len reports the number of resident entries.
func (c *Cache) Len() int { return c.l.Len() }

// Capacity reports the configured maximum size.
func (c *Cache) Capacity() int { return c.capacity }

// Touch moves an already-resident element to the front, recording a hit.
func (c *Cache) Touch(e *list.Element) {
	c.l.MoveToFront(e)
}

// Put inserts v at the front. If the window was already at capacity, the
// current back element is evicted first; its value and a true flag are
// returned so the caller can try to admit it into the main cache.
func (c *Cache) Put(v interface{}) (elem *list.Element, evicted interface{}, evictedOK bool) {
	if c.l.Len() >= c.capacity {
		back := c.l.Back()
		evicted = back.Value
		c.l.Remove(back)
		evictedOK = true
	}
	elem = c.l.PushFront(v)
	return
}

// Remove deletes e from the list outright (used by explicit deletes).
func (c *Cache) Remove(e *list.Element) {
	c.l.Remove(e)
}
