// Package batch evaluates many (context, posture) pairs concurrently. Each
// domain is independent, so the pool imposes no ordering between them, and a
// failure on one domain never aborts the rest: upstream derivation failures
// surface as per-domain errors inside the batch result.
package batch

import (
	"context"
	"sync"

	"github.com/prospectscan/prospectscan/internal/engine"
	"github.com/prospectscan/prospectscan/internal/logging"
	"github.com/prospectscan/prospectscan/internal/model"
)

// Item is one domain's input. A nil Context or Posture marks an upstream
// derivation failure for that domain: the engine must not guess at either,
// so the item fails individually.
type Item struct {
	Domain  string
	Context *model.BusinessContext
	Posture *model.SecurityPosture
}

// DomainResult is one domain's outcome inside a batch.
type DomainResult struct {
	Domain string                      `json:"domain"`
	Result *model.CrossReferenceResult `json:"result,omitempty"`
	Error  string                      `json:"error,omitempty"`
}

// EventType tags progress events.
type EventType string

const (
	EventProgress EventType = "progress"
	EventDone     EventType = "done"
)

// Event is a progress notification emitted while a batch runs.
type Event struct {
	Type      EventType `json:"type"`
	Domain    string    `json:"domain,omitempty"`
	Processed int       `json:"processed"`
	Total     int       `json:"total"`
	Failed    int       `json:"failed"`
}

// Runner fans batch items out over a fixed-size worker pool.
type Runner struct {
	engine      *engine.Engine
	logger      logging.Logger
	concurrency int
}

// NewRunner creates a Runner. concurrency < 1 falls back to 4 workers.
func NewRunner(eng *engine.Engine, logger logging.Logger, concurrency int) *Runner {
	if eng == nil {
		eng = engine.New(nil, nil, logger)
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("batch")
	}
	if concurrency < 1 {
		concurrency = 4
	}
	return &Runner{engine: eng, logger: logger, concurrency: concurrency}
}

// Run evaluates all items and returns one DomainResult per item, in input
// order. events is optional; when non-nil, progress events are sent
// non-blocking (slow consumers drop events, they never stall the batch).
// Canceling ctx stops dispatch; already-claimed items still finish.
func (r *Runner) Run(ctx context.Context, items []Item, events chan<- Event) []DomainResult {
	results := make([]DomainResult, len(items))
	if len(items) == 0 {
		return results
	}

	type job struct {
		idx  int
		item Item
	}
	jobs := make(chan job)

	var (
		wg         sync.WaitGroup
		progressMu sync.Mutex
		processed  int
		failed     int
	)

	emit := func(ev Event) {
		if events == nil {
			return
		}
		select {
		case events <- ev:
		default:
		}
	}

	for w := 0; w < r.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.idx] = r.evaluate(j.item)

				progressMu.Lock()
				processed++
				if results[j.idx].Error != "" {
					failed++
				}
				p, f := processed, failed
				progressMu.Unlock()

				emit(Event{Type: EventProgress, Domain: j.item.Domain, Processed: p, Total: len(items), Failed: f})
			}
		}()
	}

dispatch:
	for i, it := range items {
		// Cancellation wins over dispatch even when a worker is ready.
		if ctx.Err() != nil {
			for k := i; k < len(items); k++ {
				results[k] = DomainResult{Domain: items[k].Domain, Error: ctx.Err().Error()}
			}
			break dispatch
		}
		select {
		case <-ctx.Done():
			// Mark everything not yet dispatched as canceled.
			for k := i; k < len(items); k++ {
				results[k] = DomainResult{Domain: items[k].Domain, Error: ctx.Err().Error()}
			}
			break dispatch
		case jobs <- job{idx: i, item: it}:
		}
	}
	close(jobs)
	wg.Wait()

	progressMu.Lock()
	p, f := processed, failed
	progressMu.Unlock()
	emit(Event{Type: EventDone, Processed: p, Total: len(items), Failed: f})

	return results
}

func (r *Runner) evaluate(it Item) DomainResult {
	if it.Context == nil {
		r.logger.Warn("missing business context, skipping domain", logging.Field{Key: "domain", Value: it.Domain})
		return DomainResult{Domain: it.Domain, Error: "upstream context derivation failed"}
	}
	if it.Posture == nil {
		r.logger.Warn("missing security posture, skipping domain", logging.Field{Key: "domain", Value: it.Domain})
		return DomainResult{Domain: it.Domain, Error: "upstream posture analysis failed"}
	}
	res := r.engine.CrossReference(*it.Context, *it.Posture)
	return DomainResult{Domain: it.Domain, Result: &res}
}
