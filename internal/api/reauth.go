package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/adarsh-naik-2004/bats-admin/internal/domain"
)

// refreshGate serializes silent re-authentication. Concurrent 401s share a
// single in-flight refresh call; the failure hook fires once per failed call
// no matter how many requests were waiting on it.
type refreshGate struct {
	mu        sync.Mutex
	inflight  *refreshCall
	run       func(context.Context) error
	onFailure func(error)
}

type refreshCall struct {
	done chan struct{}
	err  error
}

func newRefreshGate(run func(context.Context) error, onFailure func(error)) *refreshGate {
	return &refreshGate{run: run, onFailure: onFailure}
}

func (g *refreshGate) refresh(ctx context.Context) error {
	g.mu.Lock()
	if call := g.inflight; call != nil {
		g.mu.Unlock()
		select {
		case <-call.done:
			return call.err
		case <-ctx.Done():
			return fmt.Errorf("waiting for refresh: %w", ctx.Err())
		}
	}

	call := &refreshCall{done: make(chan struct{})}
	g.inflight = call
	g.mu.Unlock()

	err := g.run(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrRefreshFailed, err)
		if g.onFailure != nil {
			g.onFailure(err)
		}
	}

	call.err = err
	g.mu.Lock()
	g.inflight = nil
	g.mu.Unlock()
	close(call.done)

	return err
}
