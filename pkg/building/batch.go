package building

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/buildsim/buildgen/pkg/spec"
)

// BatchResult pairs one spec's model with its generation error, in the
// order the specs were given.
type BatchResult struct {
	Model *Model
	Err   error
}

// GenerateAll runs the pipeline for many buildings concurrently. Each
// building owns its own registry and zone set, so there is no cross-task
// synchronization beyond the result slice slots. workers bounds the
// number of in-flight generations; values below 1 mean unbounded.
//
// Generation is CPU-bound and short; ctx cancellation stops launching
// new buildings but does not interrupt one mid-run.
func (g *Generator) GenerateAll(ctx context.Context, specs []*spec.BuildingSpec, workers int) []BatchResult {
	results := make([]BatchResult, len(specs))

	eg, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}

	for i, s := range specs {
		if ctx.Err() != nil {
			results[i] = BatchResult{Err: ctx.Err()}
			continue
		}
		eg.Go(func() error {
			m, err := g.Generate(s)
			results[i] = BatchResult{Model: m, Err: err}
			if err != nil {
				g.log.Warn("building generation failed",
					zap.String("building", s.Name), zap.Error(err))
			}
			// Per-building failures are carried in the result slot, not
			// propagated, so one bad spec does not cancel the batch.
			return nil
		})
	}
	_ = eg.Wait()
	return results
}
