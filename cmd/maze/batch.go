package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	maze "github.com/yalue/textmaze"
)

// The outcome of one maze in a batch.
type batchResult struct {
	seed  int64
	grid  *maze.Grid
	stats maze.Stats
	// Nil unless the batch is solved.
	route maze.Route
}

// Generates one maze per seed, using at most workers goroutines. Each maze
// gets its own RNG, so the results match generating the seeds one at a time.
func generateBatch(ctx context.Context, opts maze.Options, seeds []int64,
	workers int, solve bool) ([]batchResult, error) {
	results := make([]batchResult, len(seeds))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, seed := range seeds {
		i, seed := i, seed
		g.Go(func() error {
			if e := ctx.Err(); e != nil {
				return e
			}
			grid, stats, e := maze.GenerateWithSeed(opts, seed)
			if e != nil {
				return fmt.Errorf("Error generating maze with seed %d: %w",
					seed, e)
			}
			results[i] = batchResult{
				seed:  seed,
				grid:  grid,
				stats: stats,
			}
			if solve {
				route, e := maze.FindRoute(grid, opts.Start, opts.Finish)
				if e != nil {
					return fmt.Errorf("Error solving maze with seed %d: %w",
						seed, e)
				}
				results[i].route = route
			}
			return nil
		})
	}
	e := g.Wait()
	if e != nil {
		return nil, e
	}
	return results, nil
}

func (a *app) newBatchCmd() *cobra.Command {
	f := &mazeFlags{}
	var count, workers int
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate many mazes with consecutive seeds in parallel",
		Long: `batch generates --count mazes using the seeds S, S+1, ..., where S is
--seed (or a time-based seed), and reports the statistics of each. Mazes are
generated concurrently but each has its own random source, so every result
matches running generate with the same seed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("Invalid count: %d", count)
			}
			if workers < 1 {
				workers = runtime.NumCPU()
			}
			if workers > count {
				if cmd.Flags().Changed("workers") {
					a.printer.Warning("Only %d mazes requested; using %d "+
						"workers instead of %d", count, count, workers)
				}
				workers = count
			}
			req, e := a.request(cmd, f)
			if e != nil {
				return e
			}
			if req.erode > 0 {
				return errors.New("batch does not support erosion")
			}
			opts, resolved, e := req.options()
			if e != nil {
				a.recorder.RecordGenerationFailure(e)
				return e
			}
			seeds := make([]int64, count)
			for i := range seeds {
				seeds[i] = resolved.seed + int64(i)
			}
			a.logger.Info("Generating batch", "count", count, "workers",
				workers, "first_seed", resolved.seed)
			results, e := generateBatch(cmd.Context(), opts, seeds, workers,
				resolved.breadcrumbs)
			if e != nil {
				a.recorder.RecordGenerationFailure(e)
				return e
			}

			j, e := a.openJournal()
			if e != nil {
				return e
			}
			if j != nil {
				defer j.Close()
			}
			fmt.Fprintf(a.stdout, "%-20s %-36s %8s %-16s\n", "SEED", "STATS",
				"ROUTE", "FINGERPRINT")
			for _, r := range results {
				a.recorder.RecordGeneration(r.stats)
				if resolved.breadcrumbs {
					a.recorder.RecordRoute(r.route)
				}
				fmt.Fprintf(a.stdout, "%-20d %-36s %8d %016x\n", r.seed,
					r.stats, len(r.route), r.grid.Fingerprint())
				if j == nil {
					continue
				}
				single := *resolved
				single.seed = r.seed
				run := newRun(&single, r.stats, r.grid.Fingerprint())
				e = j.Record(cmd.Context(), run)
				if e != nil {
					return fmt.Errorf("Error recording run: %w", e)
				}
			}
			a.printer.Success("Generated %d mazes", len(results))
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().IntVarP(&count, "count", "n", 10,
		"The number of mazes to generate")
	cmd.Flags().IntVar(&workers, "workers", 0,
		"The number of mazes to generate at once; 0 uses one per CPU")
	return cmd
}
