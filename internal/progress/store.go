package progress

import "sync"

// Store is an in-memory mapping from job id to its latest progress record.
// All access is mutually exclusive; readers may poll while a job's runner and
// its projection workers publish updates.
type Store struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		records: make(map[string]Record),
	}
}

// Set stores the latest record for a job, replacing any previous one
func (s *Store) Set(jobID string, record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[jobID] = record
}

// Get returns the latest record for a job, if present
func (s *Store) Get(jobID string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[jobID]
	return record, ok
}

// Delete removes a job's record. Deleting an absent id is a no-op.
func (s *Store) Delete(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, jobID)
}

// Len returns the number of tracked jobs
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
