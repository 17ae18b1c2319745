package gateway

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/llm"
)

// ApologyMessage is the fixed fallback text returned when generation cannot
// produce a real answer. The gateway guarantees callers always receive text.
const ApologyMessage = "Sorry, I'm having trouble generating a response right now. Please try again in a moment."

const (
	defaultMaxAttempts = 3
	defaultBackoffBase = 1 * time.Second
)

// Gateway wraps an LLM provider with a bounded retry policy for one-shot
// generation. Only transient overload (429/503/529) is retried; everything
// else resolves to the apology immediately.
type Gateway struct {
	provider    llm.LLMProvider
	maxAttempts int
	backoffBase time.Duration
	sleep       func(time.Duration)
	logger      *log.Logger
}

func New(provider llm.LLMProvider, logger *log.Logger) *Gateway {
	return &Gateway{
		provider:    provider,
		maxAttempts: defaultMaxAttempts,
		backoffBase: defaultBackoffBase,
		sleep:       time.Sleep,
		logger:      logger,
	}
}

// Generate returns model text for the prompt, or ApologyMessage. It never
// returns an error: the retry state machine resolves every failure to text.
func (g *Gateway) Generate(ctx context.Context, prompt string, options ...llm.Option) string {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		text, err := g.provider.Generate(ctx, prompt, options...)
		if err == nil {
			if strings.TrimSpace(text) != "" {
				return text
			}
			// Empty text without an error carries no overload signal: no retry.
			g.logger.Printf("[ERROR] Generation returned an empty response")
			return ApologyMessage
		}

		if !llm.IsOverloaded(err) {
			g.logger.Printf("[ERROR] Generation failed (non-retriable): %v", err)
			return ApologyMessage
		}

		g.logger.Printf("[WARN] Generation attempt %d/%d failed: %v", attempt, g.maxAttempts, err)
		if attempt < g.maxAttempts {
			// Exponential backoff: base, 2*base, 4*base, ...
			g.sleep(g.backoffBase << (attempt - 1))
		}
	}
	return ApologyMessage
}

// GenerateStream streams fragments to onDelta while accumulating the full
// text. There is no retry: re-running a stream would duplicate partial
// output. A stream error truncates the sequence; the accumulated prefix is
// still returned.
func (g *Gateway) GenerateStream(ctx context.Context, prompt string, onDelta func(string) error, options ...llm.Option) (string, error) {
	var full strings.Builder

	err := g.provider.ChatStream(ctx, []llm.Message{{Role: "user", Content: prompt}}, func(delta string) error {
		full.WriteString(delta)
		return onDelta(delta)
	}, options...)
	if err != nil {
		g.logger.Printf("[WARN] Stream truncated after %d chars: %v", full.Len(), err)
	}

	return full.String(), err
}
