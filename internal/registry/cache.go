package registry

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/appforge-dev/appforge/internal/extensions"
)

// cachedCatalog fetches the remote catalog at most once per process.
// Concurrent first callers share one request.
type cachedCatalog struct {
	next   RemoteCatalog
	logger *zap.Logger
	group  singleflight.Group

	mu    sync.Mutex
	done  bool
	specs []extensions.RemoteSpecification
	err   error
}

func cache(c RemoteCatalog, logger *zap.Logger) RemoteCatalog {
	if cc, ok := c.(*cachedCatalog); ok {
		return cc
	}
	return &cachedCatalog{next: c, logger: logger}
}

// FetchSpecifications returns the cached catalog, fetching it on first use.
// The shared fetch is detached from the caller's cancellation so one caller
// giving up does not fail the others; each caller still stops waiting when
// its own ctx is done.
func (c *cachedCatalog) FetchSpecifications(ctx context.Context) ([]extensions.RemoteSpecification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if specs, ok, err := c.cached(); ok {
		return specs, err
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("specifications", func() (any, error) {
		if specs, ok, err := c.cached(); ok {
			return specs, err
		}
		c.logger.Debug("fetching remote specifications")
		specs, err := c.next.FetchSpecifications(fetchCtx)
		if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return nil, err
		}
		c.mu.Lock()
		c.done, c.specs, c.err = true, specs, err
		c.mu.Unlock()
		if err == nil {
			c.logger.Debug("fetched remote specifications", zap.Int("count", len(specs)))
		}
		return specs, err
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return copyRemote(res.Val.([]extensions.RemoteSpecification)), nil
	}
}

func (c *cachedCatalog) cached() ([]extensions.RemoteSpecification, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.done {
		return nil, false, nil
	}
	if c.err != nil {
		return nil, true, c.err
	}
	return copyRemote(c.specs), true, nil
}

func copyRemote(specs []extensions.RemoteSpecification) []extensions.RemoteSpecification {
	return append([]extensions.RemoteSpecification(nil), specs...)
}
