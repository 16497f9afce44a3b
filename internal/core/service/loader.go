package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/taskdesk/taskdesk/internal/core/domain"
)

// loadAll runs independent reads concurrently. Every load must succeed: the
// first error cancels the others and is returned alone, so callers never see
// a partially filled result. If ctx is cancelled the results are discarded
// and ErrCancelled is returned.
func loadAll(ctx context.Context, loads ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, load := range loads {
		g.Go(func() error { return load(gctx) })
	}
	err := g.Wait()
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", domain.ErrCancelled, ctx.Err())
	}
	return err
}
