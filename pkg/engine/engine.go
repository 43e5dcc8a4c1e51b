// Package engine implements the acquisition reconciliation loop. Each cycle
// discovers newly announced content, searches and submits transfers for
// entities that want them, and reconciles stored state against the download
// client's view of the world.
package engine

import (
	"context"
	"time"

	"github.com/grabarr/grabarr/pkg/download"
	"github.com/grabarr/grabarr/pkg/logger"
	"github.com/grabarr/grabarr/pkg/metadata"
	"github.com/grabarr/grabarr/pkg/search"
	"github.com/grabarr/grabarr/pkg/storage"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Config is the immutable engine configuration, converted to absolute
// units (bytes, durations) before construction
type Config struct {
	MovieDir     string
	TVDir        string
	Retention    time.Duration
	MinSeeders   int32
	Language     string
	Interval     time.Duration
	StageTimeout time.Duration
}

type Engine struct {
	storage  storage.Storage
	search   search.Client
	download download.Client
	metadata metadata.Client
	clock    clockwork.Clock
	config   Config
}

func New(store storage.Storage, searcher search.Client, downloader download.Client, meta metadata.Client, clock clockwork.Clock, config Config) *Engine {
	return &Engine{
		storage:  store,
		search:   searcher,
		download: downloader,
		metadata: meta,
		clock:    clock,
		config:   config,
	}
}

// Run executes cycles on the configured interval until the context is
// cancelled. Cancellation is only observed between cycles so a running
// cycle always finishes cleanly.
func (e *Engine) Run(ctx context.Context) error {
	ticker := e.clock.NewTicker(e.config.Interval)
	defer ticker.Stop()

	for {
		e.RunCycle(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
		}
	}
}

// RunCycle runs discovery, acquisition and reconciliation once, in that
// order. A stage failure is logged and aborts only that stage; the next
// cycle retries it.
func (e *Engine) RunCycle(ctx context.Context) {
	log := logger.FromCtx(ctx)

	if err := e.runStage(ctx, e.Discover); err != nil {
		log.Error("discovery stage failed", zap.Error(err))
	}

	if err := e.runStage(ctx, e.Acquire); err != nil {
		log.Error("acquisition stage failed", zap.Error(err))
	}

	if err := e.runStage(ctx, e.Reconcile); err != nil {
		log.Error("reconciliation stage failed", zap.Error(err))
	}
}

func (e *Engine) runStage(ctx context.Context, stage func(context.Context) error) error {
	if e.config.StageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.StageTimeout)
		defer cancel()
	}

	return stage(ctx)
}
