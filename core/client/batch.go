package client

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/leofalp/genai/providers/ai"
	"github.com/leofalp/genai/providers/observability"
)

// DefaultMaxConcurrent is the worker ceiling applied when BatchOptions does
// not set one.
const DefaultMaxConcurrent = 5

// BatchOptions controls a batch run.
type BatchOptions struct {
	// MaxConcurrent caps how many requests are in flight at once. Zero or
	// negative values fall back to DefaultMaxConcurrent.
	MaxConcurrent int

	// ReturnErrors selects per-item error isolation: a failed item records
	// its error in its result slot and the run continues. When false the
	// first failure cancels the remaining work and the run returns that
	// error.
	ReturnErrors bool
}

// BatchItem is one result slot of a batch run. Index is the position of the
// originating request; exactly one of Response and Err is set.
type BatchItem struct {
	Index    int
	ID       string
	Response *ai.Response
	Err      error
}

// BatchText runs CompleteText over every request with bounded concurrency.
func (c *Client) BatchText(ctx context.Context, requests []ai.Request, options BatchOptions) ([]BatchItem, error) {
	return c.batch(ctx, requests, options, c.CompleteText)
}

// BatchChat runs CompleteChat over every request with bounded concurrency.
func (c *Client) BatchChat(ctx context.Context, requests []ai.Request, options BatchOptions) ([]BatchItem, error) {
	return c.batch(ctx, requests, options, c.CompleteChat)
}

// batch fans requests out to a bounded worker pool. Results land in the slot
// matching each request's original index no matter which worker finishes
// first. Each item gets its own deadline from its request timeout, so one
// slow item cannot starve the others.
func (c *Client) batch(ctx context.Context, requests []ai.Request, options BatchOptions, call func(context.Context, ai.Request) (*ai.Response, error)) ([]BatchItem, error) {
	if len(requests) == 0 {
		return []BatchItem{}, nil
	}

	maxConcurrent := options.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}

	observer := observability.ObserverFromContext(ctx)
	if observer != nil {
		observer.Debug(ctx, "starting batch run",
			observability.Int(observability.AttrBatchSize, len(requests)),
			observability.Int(observability.AttrBatchMaxConcurrent, maxConcurrent),
			observability.Bool("batch.return_errors", options.ReturnErrors),
		)
	}

	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var workers sync.WaitGroup
	var firstErr error
	var errOnce sync.Once

	slots := semaphore.NewWeighted(int64(maxConcurrent))
	results := make([]BatchItem, len(requests))
	failFast := !options.ReturnErrors

	for index, request := range requests {
		// Acquire before spawning so no more than maxConcurrent goroutines
		// ever exist. A cancelled batch stops admitting new work here.
		if err := slots.Acquire(batchCtx, 1); err != nil {
			break
		}

		itemID := uuid.NewString()
		results[index] = BatchItem{Index: index, ID: itemID}

		workers.Add(1)
		go func(index int, request ai.Request, itemID string) {
			defer workers.Done()
			defer slots.Release(1)

			if request.Timeout <= 0 {
				request.Timeout = ai.DefaultBatchTimeout
			}

			response, err := call(batchCtx, request)
			if err != nil {
				if observer != nil {
					observer.Warn(batchCtx, "batch item failed",
						observability.Int(observability.AttrBatchItemIndex, index),
						observability.String(observability.AttrBatchItemID, itemID),
						observability.Error(err),
					)
				}
				results[index].Err = ai.AsError(err)
				if failFast {
					errOnce.Do(func() {
						firstErr = ai.AsError(err)
						cancel()
					})
				}
				return
			}
			results[index].Response = response
		}(index, request, itemID)
	}

	workers.Wait()

	if failFast && firstErr != nil {
		return nil, firstErr
	}

	// Items never started because the batch was cancelled get the parent
	// context error in their slot.
	if err := ctx.Err(); err != nil {
		for index := range results {
			if results[index].Response == nil && results[index].Err == nil {
				results[index] = BatchItem{Index: index, ID: results[index].ID, Err: ai.FromTransport(err)}
			}
		}
		if !options.ReturnErrors {
			return nil, ai.FromTransport(err)
		}
	}

	return results, nil
}
