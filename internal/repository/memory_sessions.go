package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"runcoach/internal/models"
)

// MemorySessionsRepo DB 未启用时使用；进程退出即丢失
type MemorySessionsRepo struct {
	mu       sync.RWMutex
	sessions map[string]models.CollectionSession
}

func NewMemorySessionsRepo() *MemorySessionsRepo {
	return &MemorySessionsRepo{sessions: map[string]models.CollectionSession{}}
}

func (r *MemorySessionsRepo) Create(_ context.Context, s models.CollectionSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return nil
}

func (r *MemorySessionsRepo) Close(_ context.Context, id string, stoppedAt time.Time, sampleCount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.StoppedAt = &stoppedAt
	s.SampleCount = sampleCount
	r.sessions[id] = s
	return nil
}

func (r *MemorySessionsRepo) List(_ context.Context, page, size int) ([]models.CollectionSession, int, error) {
	r.mu.RLock()
	all := make([]models.CollectionSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].StartedAt.After(all[j].StartedAt)
	})

	out := []models.CollectionSession{}
	start := pageOffset(page, size)
	if start >= len(all) {
		return out, len(all), nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return append(out, all[start:end]...), len(all), nil
}
