package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	replyEmptyMessage = "Please enter a message."
	replyNoResponse   = "No response generated."
)

// CoachService answers free-form health questions with today's context.
type CoachService struct {
	gen TextGenerator
	log *zap.Logger
}

func NewCoachService(gen TextGenerator, log *zap.Logger) *CoachService {
	return &CoachService{gen: Instrument("chat", gen), log: log}
}

// Advise always returns a displayable string. Failures are rendered as
// "Error: ..." text instead of being returned.
func (s *CoachService) Advise(ctx context.Context, contextBlock, message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return replyEmptyMessage
	}

	reply, err := s.gen.Generate(ctx, CoachPrompt(contextBlock, message))
	if err != nil {
		s.log.Warn("advice request failed", zap.Error(err))
		if errors.Is(err, ErrMissingCredential) {
			return fmt.Sprintf("Error: %s. Please add it to your .env file.", strings.TrimPrefix(err.Error(), ErrMissingCredential.Error()+": "))
		}
		return "Error: " + err.Error()
	}
	if strings.TrimSpace(reply) == "" {
		return replyNoResponse
	}
	return strings.TrimSpace(reply)
}

func CoachPrompt(contextBlock, message string) string {
	return fmt.Sprintf(`You are an AI Personal Health Coach. You analyze user's daily data and provide useful advice.

Context:
%s

User Message:
%s

Respond with personalized, motivational, and practical health advice.
Keep answers under 150 words unless the user requests detailed explanation.`, strings.TrimSpace(contextBlock), message)
}
