package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"partprice/internal/adapters/observability"
	"partprice/internal/domain"
)

type Processor interface {
	Process(ctx context.Context, p domain.Part) error
}

// Dispatcher runs enrichment out-of-band. Outcomes are only logged and counted;
// nothing is reported back to the submitter.
type Dispatcher struct {
	proc    Processor
	queue   domain.TaskQueue // optional
	timeout time.Duration
	poll    time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(p Processor, q domain.TaskQueue, taskTimeout time.Duration) *Dispatcher {
	if taskTimeout <= 0 {
		taskTimeout = time.Minute
	}
	return &Dispatcher{proc: p, queue: q, timeout: taskTimeout, poll: 2 * time.Second}
}

// Submit never blocks on the enrichment itself. A failed queue push falls back
// to an in-process goroutine.
func (d *Dispatcher) Submit(p domain.Part) {
	if d.queue != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := d.queue.Push(ctx, p)
		cancel()
		if err == nil {
			return
		}
		log.Warn().Err(err).Str("part_number", p.PartNumber).Msg("queue push failed, running in-process")
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(p)
	}()
}

// Wait blocks until all in-process tasks are done.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Consume pops queued parts with n workers until ctx is cancelled.
func (d *Dispatcher) Consume(ctx context.Context, n int) error {
	if d.queue == nil {
		return nil
	}
	if n <= 0 {
		n = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			for {
				p, ok, err := d.queue.Pop(ctx, d.poll)
				if ctx.Err() != nil {
					return nil
				}
				if err != nil {
					log.Warn().Err(err).Msg("queue pop failed")
					if !sleepCtx(ctx, d.poll) {
						return nil
					}
					continue
				}
				if ok {
					d.run(p)
				}
			}
		})
	}
	return g.Wait()
}

func (d *Dispatcher) run(p domain.Part) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	err := d.safeProcess(ctx, p)
	observability.ObserveEnrichment(err)
	if err != nil {
		log.Error().Err(err).
			Str("manufacturer", p.Manufacturer).
			Str("part_number", p.PartNumber).
			Str("err_type", observability.LabelErr(err)).
			Msg("enrichment failed")
		return
	}
	log.Info().
		Str("manufacturer", p.Manufacturer).
		Str("part_number", p.PartNumber).
		Dur("duration", time.Since(start)).
		Msg("enrichment ok")
}

func (d *Dispatcher) safeProcess(ctx context.Context, p domain.Part) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("enrichment panic: %v", r)
		}
	}()
	return d.proc.Process(ctx, p)
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
