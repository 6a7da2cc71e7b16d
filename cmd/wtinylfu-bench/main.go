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

// Command wtinylfu-bench fills a Cache from a Zipfian-distributed key
// stream and reports the resulting hit ratio and throughput. It is not part
// of the library's public API; it exists to exercise the cache the way
// someone evaluating it for production would, the same role the teacher's
// bench/ and contrib/memtest packages serve for ristretto.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"time"

	"github.com/dgryski/go-farm"
	"github.com/dustin/go-humanize"

	"github.com/dgraph-io/wtinylfu"
	"github.com/dgraph-io/wtinylfu/internal/hash"
)

func main() {
	capacity := flag.Uint64("capacity", 10000, "total cache capacity")
	ops := flag.Int("ops", 2_000_000, "number of Get/Put operations to run")
	keySpace := flag.Int64("keyspace", 1_000_000, "number of distinct keys")
	zipfS := flag.Float64("zipf-s", 1.05, "zipfian skew parameter (s > 1)")
	hashName := flag.String("hash", "murmur2", "key hash: murmur2, xxhash, or farm")
	flag.Parse()

	hashFn, err := resolveHash(*hashName)
	if err != nil {
		log.Fatal(err)
	}

	c, err := wtinylfu.NewWithConfig(wtinylfu.Config{
		Capacity: *capacity,
		Hash:     hashFn,
	})
	if err != nil {
		log.Fatalf("wtinylfu.NewWithConfig: %v", err)
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	zipf := rand.NewZipf(rnd, *zipfS, 1, uint64(*keySpace-1))
	if zipf == nil {
		log.Fatal("invalid zipfian parameters (s must be > 1)")
	}

	start := time.Now()
	var getCount, putCount int
	for i := 0; i < *ops; i++ {
		key := []byte(strconv.FormatUint(zipf.Uint64(), 10))
		if i%5 == 0 {
			c.Put(key, i)
			putCount++
		} else {
			c.Get(key)
			getCount++
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("hash: %s\n", *hashName)
	fmt.Printf("capacity: %s entries\n", humanize.Comma(int64(*capacity)))
	fmt.Printf("keyspace: %s entries\n", humanize.Comma(*keySpace))
	fmt.Printf("ops: %s (%s gets, %s puts) in %s\n",
		humanize.Comma(int64(*ops)), humanize.Comma(int64(getCount)), humanize.Comma(int64(putCount)), elapsed)
	fmt.Printf("throughput: %s ops/sec\n", humanize.Comma(int64(float64(*ops)/elapsed.Seconds())))
	fmt.Printf("resident: %d / %d\n", c.Len(), *capacity)
	fmt.Printf("%s\n", c.Metrics.String())
}

// resolveHash picks the HashFunc backing the cache's key/conflict hashing.
// murmur2 is the spec-mandated default (internal/hash.Sum); xxhash and farm
// trade its seed-independence guarantee for raw throughput, useful only for
// this driver's own comparisons.
func resolveHash(name string) (wtinylfu.HashFunc, error) {
	switch name {
	case "murmur2", "":
		return hash.Sum, nil
	case "xxhash":
		return hash.SumXX64, nil
	case "farm":
		return func(data []byte, seed uint32) uint32 {
			sum := farm.Fingerprint64(data) ^ uint64(seed)
			return uint32(sum) ^ uint32(sum>>32)
		}, nil
	default:
		return nil, fmt.Errorf("unknown hash %q: want murmur2, xxhash, or farm", name)
	}
}
