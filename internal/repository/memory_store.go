package repository

import (
	"sync"

	"LagScan/internal/domain/models"
)

// MemoryStore holds the latest batch outcome in memory for the HTTP read
// side. A batch rerun replaces a pair's previous entry wholesale.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]models.PairReport
	results map[string][]models.LagResult
	order   []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports: make(map[string]models.PairReport),
		results: make(map[string][]models.LagResult),
	}
}

// Put records one pair's report and result sequence.
func (s *MemoryStore) Put(report models.PairReport, results []models.LagResult) {
	key := report.Pair.Key()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.reports[key]; !seen {
		s.order = append(s.order, key)
	}
	s.reports[key] = report
	s.results[key] = results
}

// Reports returns all pair reports in first-recorded order.
func (s *MemoryStore) Reports() []models.PairReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PairReport, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.reports[key])
	}
	return out
}

// Results returns the result sequence for a pair, if the pair was processed.
func (s *MemoryStore) Results(pair models.Pair) ([]models.LagResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.results[pair.Key()]
	return res, ok
}
