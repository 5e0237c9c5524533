// Package provider contains the AI generation clients. Each provider
// is a typed Client registered by name at startup; the generation
// gateway resolves the client matching the provider row it loaded, so
// an unknown provider name fails in one place instead of per call.
package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/contentforge/backend/internal/transfer"
)

// Result is the normalized generation outcome. Text generations fill
// Text; media generations fill Media plus MimeType. Units is the
// billable quantity in the provider's pricing unit (thousands of
// tokens, images, or minutes).
type Result struct {
	Text     string
	Media    []byte
	MimeType string
	Units    float64
}

type Client interface {
	Name() string
	Generate(ctx context.Context, model string, req transfer.GenerationRequest) (*Result, error)
}

type Registry struct {
	clients map[string]Client
}

func NewRegistry(clients ...Client) (*Registry, error) {
	r := &Registry{clients: make(map[string]Client, len(clients))}
	for _, c := range clients {
		if c.Name() == "" {
			return nil, fmt.Errorf("provider client with empty name")
		}
		if _, ok := r.clients[c.Name()]; ok {
			return nil, fmt.Errorf("duplicate provider client: %s", c.Name())
		}
		r.clients[c.Name()] = c
	}
	return r, nil
}

func (r *Registry) Resolve(name string) (Client, error) {
	c, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("no client registered for provider %q", name)
	}
	return c, nil
}

// RetryPolicy bounds the status-poll loops of async providers. Polling
// stops on ctx cancellation, completion, or attempt exhaustion.
type RetryPolicy struct {
	MaxAttempts int
	Interval    time.Duration
}

// Poll invokes fn until it reports done, the attempts run out, or ctx
// is cancelled.
func (p RetryPolicy) Poll(ctx context.Context, fn func() (bool, error)) error {
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		done, err := fn()
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Interval):
		}
	}
	return fmt.Errorf("gave up after %d polling attempts", p.MaxAttempts)
}
