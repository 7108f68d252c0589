package outbox

import (
	"context"
	"fmt"
)

// ReplayService 把重试耗尽的事件重新交给 Dispatcher
type ReplayService struct {
	repo *Repository
}

// NewReplayService 创建新的 ReplayService
func NewReplayService(repo *Repository) *ReplayService {
	return &ReplayService{repo: repo}
}

// ReplayEvent resets a single event to pending.
func (s *ReplayService) ReplayEvent(ctx context.Context, eventID int64) error {
	return s.repo.ResetForReplay(ctx, eventID)
}

// ReplayFailedEvents resets up to limit failed events and returns how many were reset.
func (s *ReplayService) ReplayFailedEvents(ctx context.Context, limit int) (int, error) {
	events, err := s.repo.GetFailedEvents(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to get failed events: %w", err)
	}

	replayed := 0
	for _, event := range events {
		if err := s.repo.ResetForReplay(ctx, event.ID); err != nil {
			continue
		}
		replayed++
	}
	return replayed, nil
}
