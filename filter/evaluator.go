package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/listonce/listonce"
)

// DefaultBatchSize is the smallest list evaluated concurrently.
const DefaultBatchSize = 100

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*Evaluator)

// WithWorkers sets the number of concurrent chunks
func WithWorkers(workers int) EvaluatorOption {
	return func(e *Evaluator) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

// WithBatchSize sets the batch size for chunked processing
func WithBatchSize(size int) EvaluatorOption {
	return func(e *Evaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// WithStrict makes evaluation errors fatal instead of a non-match.
func WithStrict(strict bool) EvaluatorOption {
	return func(e *Evaluator) {
		e.strict = strict
	}
}

// Evaluator applies a Filter to many entities, preserving their order.
type Evaluator struct {
	workers   int
	batchSize int
	strict    bool
}

// NewEvaluator creates a new evaluator
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		workers:   runtime.GOMAXPROCS(0),
		batchSize: DefaultBatchSize,
	}

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply returns the entities of c that match f.
func (e *Evaluator) Apply(ctx context.Context, f Filter, c *listonce.Collection) ([]*listonce.Entity, error) {
	entities, err := c.Entities()
	if err != nil {
		return nil, err
	}
	return e.Evaluate(ctx, f, entities)
}

// Evaluate returns the entities that match f, in their original order.
func (e *Evaluator) Evaluate(ctx context.Context, f Filter, entities []*listonce.Entity) ([]*listonce.Entity, error) {
	if len(entities) == 0 {
		return []*listonce.Entity{}, nil
	}

	// For small lists, don't bother with concurrency
	if len(entities) < e.batchSize {
		return e.evaluateChunk(ctx, f, entities, 0)
	}

	chunkSize := max(len(entities)/e.workers, e.batchSize)
	chunks := make([][]*listonce.Entity, (len(entities)+chunkSize-1)/chunkSize)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range chunks {
		start := i * chunkSize
		end := min(start+chunkSize, len(entities))

		g.Go(func() error {
			matches, err := e.evaluateChunk(ctx, f, entities[start:end], start)
			if err != nil {
				return err
			}
			// each goroutine owns its slot
			chunks[i] = matches
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make([]*listonce.Entity, 0, len(entities)/10)
	for _, chunk := range chunks {
		matches = append(matches, chunk...)
	}
	return matches, nil
}

func (e *Evaluator) evaluateChunk(ctx context.Context, f Filter, chunk []*listonce.Entity, offset int) ([]*listonce.Entity, error) {
	matches := make([]*listonce.Entity, 0, len(chunk)/10)
	for i, entity := range chunk {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ok, err := f.Evaluate(entity)
		if err != nil {
			if e.strict {
				return nil, &EvaluationError{
					Expression: f.Expression(),
					DataType:   entity.DataType(),
					Index:      offset + i,
					Reason:     "expression failed",
					Err:        err,
				}
			}
			continue
		}
		if ok {
			matches = append(matches, entity)
		}
	}
	return matches, nil
}
