// Copyright (c) 2026 dotandev
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache is the content-addressed result cache: an in-memory, TTL-
// and capacity-bounded map from request fingerprint to simulation result,
// with a container/list LRU holding the eviction order.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dotandev/soroscope/internal/logger"
	"github.com/dotandev/soroscope/internal/simulate"
)

// TTL is the per-entry time-to-live.
const TTL = 3600 * time.Second

// Capacity is the maximum number of entries before LRU eviction kicks in.
const Capacity = 1000

type entry struct {
	key       string
	value     *simulate.Result
	expiresAt time.Time
}

// Manager is the result cache: many readers/writers may race a miss into a
// duplicate simulation; duplicate computations are acceptable.
type Manager struct {
	mu       sync.Mutex
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
	capacity int
	ttl      time.Duration

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewManager builds a Manager with the default capacity and TTL.
func NewManager() *Manager {
	return &Manager{
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		capacity: Capacity,
		ttl:      TTL,
	}
}

// Fingerprint computes the content-addressed cache key:
// hex(sha256(contract_id || function_name || json_encode(args))).
func Fingerprint(contractID, functionName string, args []string) (string, error) {
	encodedArgs, err := json.Marshal(args)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(contractID))
	h.Write([]byte(functionName))
	h.Write(encodedArgs)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Get returns the cached result for key, incrementing the hit or miss
// counter.
func (m *Manager) Get(key string) (*simulate.Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		m.misses.Add(1)
		return nil, false
	}
	e := el.Value.(*entry)
	if time.Now().After(e.expiresAt) {
		m.order.Remove(el)
		delete(m.entries, key)
		m.misses.Add(1)
		return nil, false
	}

	m.order.MoveToFront(el)
	m.hits.Add(1)
	return e.value, true
}

// Set stores value under key, evicting the least-recently-used entry if
// the cache is at capacity.
func (m *Manager) Set(key string, value *simulate.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[key]; ok {
		el.Value.(*entry).value = value
		el.Value.(*entry).expiresAt = time.Now().Add(m.ttl)
		m.order.MoveToFront(el)
		return
	}

	el := m.order.PushFront(&entry{key: key, value: value, expiresAt: time.Now().Add(m.ttl)})
	m.entries[key] = el

	if m.order.Len() > m.capacity {
		oldest := m.order.Back()
		if oldest != nil {
			m.order.Remove(oldest)
			delete(m.entries, oldest.Value.(*entry).key)
		}
	}
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	Entries int     `json:"entries"`
	HitRate float64 `json:"hit_rate_pct"`
}

// Snapshot returns the current cache statistics.
func (m *Manager) Snapshot() Stats {
	m.mu.Lock()
	entries := m.order.Len()
	m.mu.Unlock()

	hits := m.hits.Load()
	misses := m.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = 100 * float64(hits) / float64(total)
	}

	return Stats{Hits: hits, Misses: misses, Entries: entries, HitRate: hitRate}
}

// LogStats emits a snapshot of the cache's hit/miss counters and hit rate.
func (m *Manager) LogStats() {
	s := m.Snapshot()
	logger.Logger.Info("cache stats", "hits", s.Hits, "misses", s.Misses, "entries", s.Entries, "hit_rate_pct", s.HitRate)
}
