package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/vbonduro/shopupload/internal/domain"
)

// MemoryRecordStore keeps records for the lifetime of the process. Records
// are kept sorted by ID descending so List is a copy.
type MemoryRecordStore struct {
	mu      sync.RWMutex
	records []*domain.Record
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{}
}

func (s *MemoryRecordStore) Insert(_ context.Context, rec *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, found := slices.BinarySearchFunc(s.records, rec.ID, func(r *domain.Record, id int64) int {
		// descending order
		switch {
		case r.ID > id:
			return -1
		case r.ID < id:
			return 1
		}
		return 0
	})
	if found {
		return fmt.Errorf("insert record %d: %w", rec.ID, ErrDuplicateID)
	}

	s.records = slices.Insert(s.records, i, clone(rec))
	return nil
}

func (s *MemoryRecordStore) GetByID(_ context.Context, id int64) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.ID == id {
			return clone(r), nil
		}
	}
	return nil, nil
}

func (s *MemoryRecordStore) List(_ context.Context) ([]*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Record, len(s.records))
	for i, r := range s.records {
		out[i] = clone(r)
	}
	return out, nil
}

func (s *MemoryRecordStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func clone(r *domain.Record) *domain.Record {
	c := *r
	if r.Filename != nil {
		name := *r.Filename
		c.Filename = &name
	}
	return &c
}
