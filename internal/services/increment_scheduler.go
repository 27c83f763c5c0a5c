package services

import (
	"context"
	"interview-api/internal/logger"
	"interview-api/internal/metrics"
	"interview-api/internal/models"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// IncrementScheduler records uses of a capability after the response that earned
// them has been sent. Failures are logged and never reach the original caller.
type IncrementScheduler struct {
	usage   UsageService
	timeout time.Duration

	mu      sync.Mutex
	closing bool
	wg      sync.WaitGroup
}

func NewIncrementScheduler(usage UsageService, timeout time.Duration) *IncrementScheduler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &IncrementScheduler{usage: usage, timeout: timeout}
}

// Schedule runs the increment in the background. Once Drain has started it runs
// inline instead, so no earned increment is dropped during shutdown.
func (s *IncrementScheduler) Schedule(userID string, capability models.Capability) {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		s.run(userID, capability)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	metrics.BackgroundTasksInFlight.Inc()
	go func() {
		defer s.wg.Done()
		defer metrics.BackgroundTasksInFlight.Dec()
		s.run(userID, capability)
	}()
}

func (s *IncrementScheduler) run(userID string, capability models.Capability) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.usage.IncrementUsage(ctx, userID, capability); err != nil {
		logger.LogEvent(logrus.ErrorLevel, "Failed to increment usage", logrus.Fields{
			"user_id":    userID,
			"capability": capability,
			"error":      err.Error(),
		})
	}
}

// Drain waits for scheduled increments to finish or for ctx to end.
func (s *IncrementScheduler) Drain(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
