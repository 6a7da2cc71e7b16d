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
	"container/list"

	"github.com/dgraph-io/wtinylfu/internal/slru"
)

// stage identifies which top-level cache an entry's list.Element lives in.
type stage uint8

const (
	stageWindow stage = iota
	stageMain
)

// entry is the directory's authoritative descriptor for one live key. The
// directory (Cache.dir) is the single map key_hash -> *entry shared across
// the window and main stages; internal/window and internal/slru never see
// this type, only the opaque interface{} payload and the *list.Element
// handles they hand back.
type entry struct {
	keyHash      uint32
	conflictHash uint32
	value        interface{}

	stage   stage
	segment slru.Segment // meaningful only when stage == stageMain

	elem *list.Element
}
