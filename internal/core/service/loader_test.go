package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskdesk/taskdesk/internal/core/domain"
)

func TestLoadAll_FirstErrorFailsWholeLoad(t *testing.T) {
	boom := errors.New("clients unavailable")
	var managers []string

	err := loadAll(context.Background(),
		func(ctx context.Context) error {
			managers = []string{"m1", "m2"}
			return nil
		},
		func(ctx context.Context) error { return boom },
	)
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if len(managers) != 2 {
		t.Fatalf("sibling load should still have run")
	}
}

func TestLoadAll_ErrorCancelsSiblings(t *testing.T) {
	boom := errors.New("boom")
	cancelled := make(chan struct{})

	err := loadAll(context.Background(),
		func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				close(cancelled)
				return ctx.Err()
			case <-time.After(2 * time.Second):
				return nil
			}
		},
		func(ctx context.Context) error { return boom },
	)
	if !errors.Is(err, boom) {
		t.Fatalf("expected first error to win, got %v", err)
	}
	select {
	case <-cancelled:
	default:
		t.Fatalf("slow sibling was not cancelled")
	}
}

func TestLoadAll_CallerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	err := loadAll(ctx, func(context.Context) error {
		cancel()
		return nil
	})
	if !errors.Is(err, domain.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestLoadAll_Success(t *testing.T) {
	var a, b int
	err := loadAll(context.Background(),
		func(context.Context) error { a = 1; return nil },
		func(context.Context) error { b = 2; return nil },
	)
	if err != nil || a != 1 || b != 2 {
		t.Fatalf("unexpected result: err=%v a=%d b=%d", err, a, b)
	}
}
