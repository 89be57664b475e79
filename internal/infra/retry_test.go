package infra_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"voice-coding/internal/infra"
)

func fastRetry() infra.RetryConfig {
	return infra.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry(t *testing.T) {
	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   bool
	}{
		{
			name:      "succeeds first time",
			errs:      []error{nil},
			wantCalls: 1,
		},
		{
			name:      "recovers from transient error",
			errs:      []error{errors.New("connection reset"), nil},
			wantCalls: 2,
		},
		{
			name: "retries server errors until exhausted",
			errs: []error{
				&infra.StatusError{Service: "whisper", StatusCode: http.StatusBadGateway},
				&infra.StatusError{Service: "whisper", StatusCode: http.StatusServiceUnavailable},
				&infra.StatusError{Service: "whisper", StatusCode: http.StatusInternalServerError},
			},
			wantCalls: 3,
			wantErr:   true,
		},
		{
			name:      "stops on client error",
			errs:      []error{&infra.StatusError{Service: "whisper", StatusCode: http.StatusUnauthorized}},
			wantCalls: 1,
			wantErr:   true,
		},
		{
			name:      "stops on context error",
			errs:      []error{context.DeadlineExceeded},
			wantCalls: 1,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := infra.WithRetry(context.Background(), fastRetry(), func() error {
				e := tt.errs[calls]
				calls++
				return e
			})

			if calls != tt.wantCalls {
				t.Errorf("calls: got %d, want %d", calls, tt.wantCalls)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("error: got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWithRetry_CancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := infra.RetryConfig{MaxAttempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1}

	calls := 0
	err := infra.WithRetry(ctx, cfg, func() error {
		calls++
		cancel()
		return errors.New("temporary")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}

func TestIsRetryableHTTPStatus(t *testing.T) {
	retryable := []int{http.StatusTooManyRequests, http.StatusRequestTimeout, http.StatusInternalServerError, http.StatusGatewayTimeout}
	permanent := []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound, http.StatusRequestEntityTooLarge}

	for _, code := range retryable {
		if !infra.IsRetryableHTTPStatus(code) {
			t.Errorf("%d should be retryable", code)
		}
	}
	for _, code := range permanent {
		if infra.IsRetryableHTTPStatus(code) {
			t.Errorf("%d should not be retryable", code)
		}
	}
}
