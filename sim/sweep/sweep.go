// Package sweep runs one diffusion per item over a bounded worker pool and
// fans the results back in. Items are independent, so there is no ordering
// between tasks; the shared Topology is only read.
package sweep

import (
	"context"
	"errors"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/placement-sim/placement-sim/sim"
)

// Config controls a sweep.
type Config struct {
	Workers int          // concurrent diffusions; <= 0 means runtime.NumCPU()
	Items   []sim.ItemID // optional subset; nil means every item with a sink
}

// ItemResult pairs an item with the outcome of diffusing it.
// Err is non-nil only for per-item failures such as an unreachable sink.
type ItemResult struct {
	Item   sim.ItemID
	Result sim.DiffusionResult
	Err    error
}

// Sweep is the collected outcome of a Run.
type Sweep struct {
	Results []ItemResult // sorted by item
	Elapsed time.Duration
}

// Failed returns the results whose diffusion failed.
func (s *Sweep) Failed() []ItemResult {
	var out []ItemResult
	for _, r := range s.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// Stream diffuses items concurrently and delivers each result on the returned
// channel as soon as it completes. The channel is closed once every
// dispatched diffusion has finished. Cancelling ctx stops dispatching new
// items; diffusions already running are allowed to complete.
func Stream(ctx context.Context, topo *sim.Topology, cfg Config) <-chan ItemResult {
	items := cfg.Items
	if items == nil {
		items = topo.SortedItemIDs()
	}
	out := make(chan ItemResult, cfg.workers())

	go func() {
		defer close(out)
		var g errgroup.Group
		g.SetLimit(cfg.workers())
		for _, item := range items {
			if ctx.Err() != nil {
				logrus.Debugf("sweep cancelled before dispatching %q: %v", item, ctx.Err())
				break
			}
			g.Go(func() error {
				res, err := topo.Diffuse(item)
				if err != nil {
					logrus.Warnf("diffuse %q: %v", item, err)
				}
				out <- ItemResult{Item: item, Result: res, Err: err}
				return nil
			})
		}
		// Per-item failures travel in ItemResult; tasks never fail the group.
		_ = g.Wait()
	}()
	return out
}

// Run collects a Stream into a Sweep sorted by item. When ctx is cancelled
// the partial sweep is returned together with ctx's error.
func Run(ctx context.Context, topo *sim.Topology, cfg Config) (*Sweep, error) {
	start := time.Now()
	sw := &Sweep{}
	for r := range Stream(ctx, topo, cfg) {
		sw.Results = append(sw.Results, r)
	}
	slices.SortFunc(sw.Results, func(a, b ItemResult) int {
		return strings.Compare(string(a.Item), string(b.Item))
	})
	sw.Elapsed = time.Since(start)

	logrus.Debugf("sweep: %d items in %v with %d workers", len(sw.Results), sw.Elapsed, cfg.workers())
	if err := ctx.Err(); err != nil {
		return sw, err
	}
	return sw, nil
}

// Err joins the per-item errors of a sweep, or returns nil if every item succeeded.
func (s *Sweep) Err() error {
	var errs []error
	for _, r := range s.Results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}
