package services

import (
	"context"
	"interview-api/internal/models"
	"interview-api/internal/pkg/errors"
	"strings"
)

type AIService interface {
	Ask(ctx context.Context, userID, message string) (string, error)
	Stream(ctx context.Context, userID string, messages []models.ChatMessage, onDelta func(string) error) error
}

type aiService struct {
	guard      QuotaGuard
	completion CompletionService
	increments *IncrementScheduler
}

func NewAIService(guard QuotaGuard, completion CompletionService, increments *IncrementScheduler) AIService {
	return &aiService{guard: guard, completion: completion, increments: increments}
}

func (s *aiService) Ask(ctx context.Context, userID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", errors.Invalid("Invalid or missing 'message' field")
	}
	if err := s.guard.Authorize(ctx, userID, models.CapabilityAskAI); err != nil {
		return "", err
	}

	reply, err := s.completion.Complete(ctx, []models.ChatMessage{
		{Role: "assistant", Content: message},
	})
	if err != nil {
		return "", err
	}

	s.increments.Schedule(userID, models.CapabilityAskAI)
	return reply, nil
}

// Stream gates like Ask. The use is only counted when the provider stream ended
// cleanly and every fragment reached the client.
func (s *aiService) Stream(ctx context.Context, userID string, messages []models.ChatMessage, onDelta func(string) error) error {
	if len(messages) == 0 {
		return errors.Invalid("Invalid or missing 'messages' field")
	}
	for _, m := range messages {
		if m.Role == "" || m.Content == "" {
			return errors.Invalid("every message needs a role and content")
		}
	}
	if err := s.guard.Authorize(ctx, userID, models.CapabilityAskAI); err != nil {
		return err
	}

	if err := s.completion.Stream(ctx, messages, onDelta); err != nil {
		return err
	}

	s.increments.Schedule(userID, models.CapabilityAskAI)
	return nil
}
