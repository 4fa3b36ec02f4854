package advisor

import (
	"context"
	"errors"
)

var (
	ErrRateLimited  = errors.New("AI service rate limit exceeded")
	ErrUnauthorized = errors.New("AI service authentication failed")
)

const (
	defaultTopic   = "online safety"
	fallbackTip    = "Failed to generate tip"
	fallbackAnswer = "I'm unable to provide an answer right now."
)

// TipGenerator writes a short security tip about a topic.
type TipGenerator interface {
	GenerateTip(ctx context.Context, topic string) (string, error)
}

// Assistant answers free form security questions.
type Assistant interface {
	Answer(ctx context.Context, question string) (string, error)
}
