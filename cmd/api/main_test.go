package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"blog_backend/platform/logger"

	"github.com/stretchr/testify/assert"
)

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), logger.NewNop(), "op", 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryReturnsLastError(t *testing.T) {
	err := withRetry(context.Background(), logger.NewNop(), "op", 2, time.Millisecond, func() error {
		return errors.New("down")
	})

	assert.EqualError(t, err, "op: down")
}

func TestWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, logger.NewNop(), "op", 5, time.Millisecond, func() error { return nil })

	assert.ErrorIs(t, err, context.Canceled)
}
