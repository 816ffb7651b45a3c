package browser

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExtractWithRetries_ReturnsFirstNonEmpty(t *testing.T) {
	calls := 0
	text, err := ExtractWithRetries(context.Background(), 5, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", nil
		}
		return "answer", nil
	})
	if err != nil {
		t.Fatalf("ExtractWithRetries() error = %v", err)
	}
	if text != "answer" {
		t.Errorf("text = %q, want %q", text, "answer")
	}
	if calls != 3 {
		t.Errorf("extract called %d times, want 3", calls)
	}
}

func TestExtractWithRetries_ExhaustsAttempts(t *testing.T) {
	wantErr := errors.New("node not populated")
	calls := 0
	text, err := ExtractWithRetries(context.Background(), 3, func(context.Context) (string, error) {
		calls++
		return "", wantErr
	})
	if text != "" {
		t.Errorf("text = %q, want empty", text)
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	if calls != 3 {
		t.Errorf("extract called %d times, want 3", calls)
	}
}

func TestExtractWithRetries_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ExtractWithRetries(ctx, 5, func(context.Context) (string, error) {
		return "", nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestWaitUntilReady_ProbeAlreadyTrue(t *testing.T) {
	done := make(chan error, 1)
	go func() {
		done <- WaitUntilReady(context.Background(), func(context.Context) bool { return true })
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitUntilReady() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitUntilReady did not return for an immediately-ready probe")
	}
}

func TestWaitUntilReady_CancelledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- WaitUntilReady(ctx, func(context.Context) bool { return false })
	}()
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("WaitUntilReady ignored context cancellation")
	}
}
