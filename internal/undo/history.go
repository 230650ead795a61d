/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package undo keeps an in-memory edit history per variant slot so the
// editor can step back through overwritten text.
package undo

import (
	"sync"
	"time"
)

// Snapshot is the content of one variant slot before an overwrite. Key
// addresses the slot (the editor uses the position's string form).
type Snapshot struct {
	Key       string
	SpeakerID string
	Text      string
	TS        time.Time
}

func (s Snapshot) size() int { return len(s.Key) + len(s.SpeakerID) + len(s.Text) }

// Config controls memory and depth caps and coalescing.
type Config struct {
	// MaxBytes is a soft cap; the oldest entries are pruned when exceeded.
	MaxBytes int
	// MaxPerKey limits snapshots kept per slot (0 means unlimited).
	MaxPerKey int
	// MinInterval coalesces snapshots captured within the interval for the
	// same slot, replacing the previous one instead of pushing a new entry.
	MinInterval time.Duration
}

// Manager is an undo/redo stack per variant slot. Safe for concurrent use.
type Manager struct {
	cfg Config
	mu  sync.Mutex

	undo map[string][]Snapshot
	redo map[string][]Snapshot

	totalBytes int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 4 * 1024 * 1024
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Snapshot), redo: make(map[string][]Snapshot)}
}

// Push records the state a slot had before an overwrite. Pushes within
// MinInterval of the previous one for the same slot replace it. Any push
// clears the slot's redo stack.
func (m *Manager) Push(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[s.Key]
	if n := len(stack); n > 0 {
		last := stack[n-1]
		if s.TS.Sub(last.TS) < m.cfg.MinInterval {
			m.totalBytes += s.size() - last.size()
			stack[n-1] = s
			m.undo[s.Key] = stack
			m.redo[s.Key] = nil
			m.enforceCapsLocked(s.Key)
			return
		}
	}
	m.undo[s.Key] = append(stack, s)
	m.totalBytes += s.size()
	m.redo[s.Key] = nil
	m.enforceCapsLocked(s.Key)
}

// Undo pops the most recent snapshot for a slot. current is the state being
// replaced; it moves onto the redo stack so the step can be reversed.
func (m *Manager) Undo(key string, current Snapshot) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[key]
	if len(stack) == 0 {
		return Snapshot{}, false
	}
	s := stack[len(stack)-1]
	m.undo[key] = stack[:len(stack)-1]
	m.totalBytes -= s.size()
	m.redo[key] = append(m.redo[key], current)
	return s, true
}

// Redo pops from the redo stack and moves current back onto undo.
func (m *Manager) Redo(key string, current Snapshot) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[key]
	if len(r) == 0 {
		return Snapshot{}, false
	}
	s := r[len(r)-1]
	m.redo[key] = r[:len(r)-1]
	m.undo[key] = append(m.undo[key], current)
	m.totalBytes += current.size()
	m.enforceCapsLocked(key)
	return s, true
}

// Clear drops both stacks for a slot.
func (m *Manager) Clear(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.undo[key] {
		m.totalBytes -= s.size()
	}
	delete(m.undo, key)
	delete(m.redo, key)
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes, keys, snapshots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys = len(m.undo)
	for _, v := range m.undo {
		snapshots += len(v)
	}
	return m.totalBytes, keys, snapshots
}

func (m *Manager) enforceCapsLocked(key string) {
	if m.cfg.MaxPerKey > 0 {
		stack := m.undo[key]
		if len(stack) > m.cfg.MaxPerKey {
			toDrop := len(stack) - m.cfg.MaxPerKey
			for i := 0; i < toDrop; i++ {
				m.totalBytes -= stack[i].size()
			}
			m.undo[key] = append([]Snapshot{}, stack[toDrop:]...)
		}
	}
	// global cap: prune the oldest snapshot across all slots
	for m.cfg.MaxBytes > 0 && m.totalBytes > m.cfg.MaxBytes {
		oldestKey := ""
		found := false
		var oldestTS time.Time
		for k, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if !found || stack[0].TS.Before(oldestTS) {
				oldestKey = k
				found = true
				oldestTS = stack[0].TS
			}
		}
		if !found {
			break
		}
		stack := m.undo[oldestKey]
		m.totalBytes -= stack[0].size()
		m.undo[oldestKey] = stack[1:]
		if len(m.undo[oldestKey]) == 0 {
			delete(m.undo, oldestKey)
		}
	}
}
