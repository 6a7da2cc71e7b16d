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
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestConcurrentAccess hammers a single Cache with concurrent Get/Put/Del
// from many goroutines, the same shape as the teacher's own stress test,
// adapted to this cache's single-lock Get/Put/Del API rather than its
// asynchronous ring-buffered Set path. It asserts no panics/races (run with
// -race) and that the capacity invariant holds once everything quiesces.
func TestConcurrentAccess(t *testing.T) {
	const (
		capacity    = 200
		goroutines  = 16
		opsPerGorou = 2000
		keySpace    = 500
	)

	c, err := New(capacity)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			for i := 0; i < opsPerGorou; i++ {
				key := []byte(fmt.Sprintf("k-%d", (i*seed+i)%keySpace))
				switch i % 3 {
				case 0:
					c.Put(key, i)
				case 1:
					c.Get(key)
				case 2:
					c.Del(key)
				}
			}
		}(g + 1)
	}
	wg.Wait()

	require.LessOrEqual(t, c.Len(), capacity)
	require.LessOrEqual(t, c.window.Len(), c.window.Capacity())
	require.LessOrEqual(t, c.main.Len(), c.main.Capacity())
}
