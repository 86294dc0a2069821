package service

import (
	"fmt"
	"sync"
	"time"

	"walkup-counter/internal/domain"
)

// Stats are the process-wide counters, all behind one lock.
type Stats struct {
	mu             sync.Mutex
	items          [domain.NumItems]int64
	customers      int64
	activeSessions int64
}

func NewStats() *Stats { return &Stats{} }

// RecordItem counts one prepared item. Items off the menu are refused.
func (s *Stats) RecordItem(it domain.Item) error {
	if !it.Valid() {
		return fmt.Errorf("%w: %d", domain.ErrUnknownItem, int(it))
	}
	s.mu.Lock()
	s.items[it]++
	s.mu.Unlock()
	return nil
}

func (s *Stats) CustomerServed() {
	s.mu.Lock()
	s.customers++
	s.mu.Unlock()
}

func (s *Stats) SessionStarted() {
	s.mu.Lock()
	s.activeSessions++
	s.mu.Unlock()
}

func (s *Stats) SessionEnded() {
	s.mu.Lock()
	if s.activeSessions > 0 {
		s.activeSessions--
	}
	s.mu.Unlock()
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Items          map[string]int64 `json:"items"`
	Customers      int64            `json:"customers_served"`
	ActiveSessions int64            `json:"active_sessions"`
	TakenAt        time.Time        `json:"taken_at"`
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := StatsSnapshot{
		Items:          make(map[string]int64, len(s.items)),
		Customers:      s.customers,
		ActiveSessions: s.activeSessions,
		TakenAt:        time.Now().UTC(),
	}
	for i, n := range s.items {
		snap.Items[domain.Item(i).String()] = n
	}
	return snap
}

func (s StatsSnapshot) TotalItems() int64 {
	var total int64
	for _, n := range s.Items {
		total += n
	}
	return total
}
