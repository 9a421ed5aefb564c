// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wardrobe Contributors

package notify

import "sync"

// recentSet remembers the last capacity keys added, evicting the oldest.
type recentSet struct {
	mu    sync.Mutex
	keys  map[string]struct{}
	order []string
	next  int
}

func newRecentSet(capacity int) *recentSet {
	if capacity < 1 {
		capacity = 1
	}
	return &recentSet{
		keys:  make(map[string]struct{}, capacity),
		order: make([]string, 0, capacity),
	}
}

func (s *recentSet) Contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok
}

func (s *recentSet) Add(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		return
	}
	if len(s.order) < cap(s.order) {
		s.order = append(s.order, key)
	} else {
		delete(s.keys, s.order[s.next])
		s.order[s.next] = key
		s.next = (s.next + 1) % len(s.order)
	}
	s.keys[key] = struct{}{}
}

func (s *recentSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}
