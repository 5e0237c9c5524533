package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/contentforge/backend/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedClient struct {
	name string
}

func (c *namedClient) Name() string { return c.name }

func (c *namedClient) Generate(ctx context.Context, model string, req transfer.GenerationRequest) (*Result, error) {
	return &Result{Text: "ok", Units: 1}, nil
}

func TestRegistryResolve(t *testing.T) {
	registry, err := NewRegistry(&namedClient{name: "openai"}, &namedClient{name: "replicate"})
	require.NoError(t, err)

	c, err := registry.Resolve("openai")
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())

	_, err = registry.Resolve("unknown")
	assert.Error(t, err)
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	_, err := NewRegistry(&namedClient{name: "openai"}, &namedClient{name: "openai"})
	assert.Error(t, err)
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	_, err := NewRegistry(&namedClient{name: ""})
	assert.Error(t, err)
}

func TestRetryPolicyStopsOnDone(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5, Interval: time.Millisecond}

	calls := 0
	err := policy.Poll(context.Background(), func() (bool, error) {
		calls++
		return calls == 3, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicyPropagatesError(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5, Interval: time.Millisecond}

	wantErr := errors.New("upstream said no")
	calls := 0
	err := policy.Poll(context.Background(), func() (bool, error) {
		calls++
		return false, wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicyExhaustsAttempts(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, Interval: time.Millisecond}

	calls := 0
	err := policy.Poll(context.Background(), func() (bool, error) {
		calls++
		return false, nil
	})

	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicyHonorsCancellation(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 100, Interval: 50 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := policy.Poll(ctx, func() (bool, error) {
		return false, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}
