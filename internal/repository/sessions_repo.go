package repository

import (
	"context"
	"errors"
	"time"

	"runcoach/internal/models"
)

var ErrNotFound = errors.New("collection session not found")

// SessionsRepository 采集会话记录（start→stop）
type SessionsRepository interface {
	Create(ctx context.Context, s models.CollectionSession) error
	Close(ctx context.Context, id string, stoppedAt time.Time, sampleCount int64) error
	// List 按 started_at 倒序分页；返回当前页和总数
	List(ctx context.Context, page, size int) ([]models.CollectionSession, int, error)
}

func pageOffset(page, size int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * size
}
