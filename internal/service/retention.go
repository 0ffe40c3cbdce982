package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/peximo/slack-llm-translate/internal/biz/repo"
)

// cleanupInterval is how often the retention sweep runs.
const cleanupInterval = 6 * time.Hour

// RetentionService periodically deletes conversation turns older than the
// retention window, so the message log does not grow without bound.
type RetentionService struct {
	convRepo repo.ConversationRepo
	maxAge   time.Duration
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRetentionService creates a retention service keeping maxAge of history.
func NewRetentionService(convRepo repo.ConversationRepo, maxAge time.Duration) *RetentionService {
	return &RetentionService{
		convRepo: convRepo,
		maxAge:   maxAge,
		interval: cleanupInterval,
	}
}

// Start starts the cleanup loop
func (s *RetentionService) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.cleanupLoop()

	fmt.Printf("[Retention] Started, keeping %v of history\n", s.maxAge)
}

// Stop stops the cleanup loop and waits for a running sweep to finish
func (s *RetentionService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	fmt.Println("[Retention] Stopped")
}

// cleanupLoop is the cleanup loop
func (s *RetentionService) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup deletes messages past the retention window
func (s *RetentionService) cleanup() {
	cutoff := time.Now().Add(-s.maxAge)

	count, err := s.convRepo.CleanupBefore(context.Background(), cutoff)
	if err != nil {
		fmt.Printf("[Retention] Cleanup error: %v\n", err)
		return
	}

	if count > 0 {
		fmt.Printf("[Retention] Cleaned up %d old messages\n", count)
	}
}
