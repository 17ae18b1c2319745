package gateway

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/llm"
)

type scriptedProvider struct {
	responses []string
	errs      []error
	calls     int
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	i := p.calls
	p.calls++
	return p.responses[i], p.errs[i]
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.Generate(ctx, "")
}

func (p *scriptedProvider) ChatStream(ctx context.Context, history []llm.Message, onDelta func(string) error, options ...llm.Option) error {
	for _, fragment := range p.responses {
		if err := onDelta(fragment); err != nil {
			return err
		}
	}
	if len(p.errs) > 0 {
		return p.errs[0]
	}
	return nil
}

func newTestGateway(p llm.LLMProvider) (*Gateway, *[]time.Duration) {
	g := New(p, log.New(os.Stdout, "", 0))
	var slept []time.Duration
	g.sleep = func(d time.Duration) { slept = append(slept, d) }
	return g, &slept
}

func TestGenerateRetriesOnOverloadThenSucceeds(t *testing.T) {
	overload := &llm.StatusError{Code: 429, Body: "rate limited"}
	p := &scriptedProvider{
		responses: []string{"", "", "final answer"},
		errs:      []error{overload, overload, nil},
	}
	g, slept := newTestGateway(p)

	got := g.Generate(context.Background(), "prompt")

	assert.Equal(t, "final answer", got)
	assert.Equal(t, 3, p.calls)
	// Backoff doubles: 1s then 2s
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *slept)
}

func TestGenerateExhaustsRetriesToApology(t *testing.T) {
	overload := &llm.StatusError{Code: 503, Body: "overloaded"}
	p := &scriptedProvider{
		responses: []string{"", "", ""},
		errs:      []error{overload, overload, overload},
	}
	g, _ := newTestGateway(p)

	got := g.Generate(context.Background(), "prompt")

	assert.Equal(t, ApologyMessage, got)
	assert.Equal(t, 3, p.calls)
}

func TestGenerateDoesNotRetryHardFailures(t *testing.T) {
	p := &scriptedProvider{
		responses: []string{""},
		errs:      []error{errors.New("connection refused")},
	}
	g, slept := newTestGateway(p)

	got := g.Generate(context.Background(), "prompt")

	assert.Equal(t, ApologyMessage, got)
	assert.Equal(t, 1, p.calls)
	assert.Empty(t, *slept)
}

func TestGenerateResolvesEmptyResponseWithoutRetry(t *testing.T) {
	p := &scriptedProvider{
		responses: []string{"   \n"},
		errs:      []error{nil},
	}
	g, slept := newTestGateway(p)

	got := g.Generate(context.Background(), "prompt")

	assert.Equal(t, ApologyMessage, got)
	assert.Equal(t, 1, p.calls)
	assert.Empty(t, *slept)
}

func TestGenerateStreamAccumulatesFragments(t *testing.T) {
	p := &scriptedProvider{responses: []string{"Hello", ", ", "world"}}
	g, _ := newTestGateway(p)

	var forwarded []string
	full, err := g.GenerateStream(context.Background(), "prompt", func(d string) error {
		forwarded = append(forwarded, d)
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "Hello, world", full)
	assert.Equal(t, []string{"Hello", ", ", "world"}, forwarded)
}

func TestGenerateStreamTruncationKeepsPrefix(t *testing.T) {
	p := &scriptedProvider{
		responses: []string{"partial "},
		errs:      []error{errors.New("stream reset")},
	}
	g, _ := newTestGateway(p)

	full, err := g.GenerateStream(context.Background(), "prompt", func(string) error { return nil })

	assert.Error(t, err)
	assert.Equal(t, "partial ", full)
}
