package retry

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/lexrank/errors"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     100 * time.Millisecond,
		Multiplier:   2.0,
		AddJitter:    false, // Disable for predictable tests
	}
}

func TestRetry_Success(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(3), func() error {
		attempts++
		if attempts < 3 {
			return errors.WrapTransient(errors.ErrNotConnected, "test", "connect", "dial")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetry_AllAttemptsFail(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(3), func() error {
		attempts++
		return stderrors.New("connection refused")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
	assert.Equal(t, 3, attempts)
}

func TestRetry_PermanentErrorsStopImmediately(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"invalid", errors.WrapInvalid(errors.ErrInvalidData, "test", "op", "decode")},
		{"fatal", errors.WrapFatal(errors.ErrInvalidConfig, "test", "op", "load")},
		{"cancelled", context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := Do(context.Background(), fastConfig(5), func() error {
				attempts++
				return tt.err
			})
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, attempts)
		})
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig(5)
	cfg.InitialDelay = 100 * time.Millisecond
	cfg.MaxDelay = time.Second

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	attempts := 0
	err := Do(ctx, cfg, func() error {
		attempts++
		return stderrors.New("unavailable")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry cancelled")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, attempts, 5)
}

func TestRetry_BackoffAndMaxDelay(t *testing.T) {
	var delays []time.Duration
	cfg := Config{
		MaxAttempts:  5,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     25 * time.Millisecond,
		Multiplier:   2.0,
		OnRetry: func(_ int, delay time.Duration, _ error) {
			delays = append(delays, delay)
		},
	}

	_ = Do(context.Background(), cfg, func() error { return stderrors.New("timeout") })

	assert.Equal(t, []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		25 * time.Millisecond,
		25 * time.Millisecond,
	}, delays)
}

func TestRetry_Jitter(t *testing.T) {
	cfg := fastConfig(2)
	cfg.AddJitter = true

	var got time.Duration
	cfg.OnRetry = func(_ int, delay time.Duration, _ error) { got = delay }

	_ = Do(context.Background(), cfg, func() error { return stderrors.New("timeout") })

	assert.GreaterOrEqual(t, got, cfg.InitialDelay)
	assert.Less(t, got, cfg.InitialDelay+cfg.InitialDelay/4)
}

func TestRetry_InvalidConfig(t *testing.T) {
	tests := []Config{
		{InitialDelay: -time.Second},
		{MaxDelay: -time.Second},
		{Multiplier: -1},
		{InitialDelay: time.Second, MaxDelay: time.Millisecond},
	}

	for _, cfg := range tests {
		called := false
		err := Do(context.Background(), cfg, func() error {
			called = true
			return nil
		})
		assert.Error(t, err)
		assert.True(t, errors.IsFatal(err))
		assert.False(t, called)
	}
}

func TestRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Config{}, func() error {
		attempts++
		return stderrors.New("boom")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetry_WithResult(t *testing.T) {
	attempts := 0
	result, err := DoWithResult(context.Background(), fastConfig(3), func() (string, error) {
		attempts++
		if attempts < 2 {
			return "", stderrors.New("temporary")
		}
		return "connected", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "connected", result)
	assert.Equal(t, 2, attempts)
}

func TestRetry_Presets(t *testing.T) {
	assert.Equal(t, 3, DefaultConfig().MaxAttempts)
	assert.Equal(t, 10, Quick().MaxAttempts)
	assert.True(t, Quick().MaxDelay >= Quick().InitialDelay)
}
