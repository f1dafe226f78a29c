package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	maze "github.com/yalue/textmaze"
	"github.com/yalue/textmaze/internal/journal"
)

func (a *app) newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, e := a.requireJournal()
			if e != nil {
				return e
			}
			defer j.Close()
			runs, e := j.List(cmd.Context(), limit)
			if e != nil {
				return e
			}
			if len(runs) == 0 {
				a.printer.Info("No runs recorded in %s", a.cfg.JournalPath)
				return nil
			}
			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tSIZE\tSEED\tSTATS\tMASK")
			for _, run := range runs {
				stats := maze.Stats{Productive: run.Productive,
					Total: run.Total}
				fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%s\t%s\n", shortID(run),
					run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					run.Width, run.Height, run.Seed, stats, run.MaskPath)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20,
		"The maximum number of runs to list; 0 lists all of them")
	return cmd
}

// Converts a recorded run back into a request for the same maze.
func requestFromRun(run *journal.Run) *mazeRequest {
	start := run.Start
	finish := run.Finish
	return &mazeRequest{
		width:         run.Width,
		height:        run.Height,
		seed:          run.Seed,
		breadcrumbs:   run.Breadcrumbs,
		maskPath:      run.MaskPath,
		erode:         run.Erode,
		maxIterations: run.MaxIterations,
		start:         &start,
		finish:        &finish,
	}
}

// Rebuilds a recorded run. The mask, if any, is reloaded from its recorded
// path and must still have the recorded size.
func (a *app) replay(run *journal.Run) (*builtMaze, error) {
	var mask *maze.Mask
	if run.MaskPath != "" {
		t, e := maze.LoadTemplate(run.MaskPath, run.Width, run.Height)
		if e != nil {
			a.recorder.RecordGenerationFailure(e)
			return nil, e
		}
		mask = t.Mask
	}
	return a.buildWithOptions(run.Options(mask), requestFromRun(run))
}

func (a *app) newReplayCmd() *cobra.Command {
	var verifyOnly bool
	cmd := &cobra.Command{
		Use:   "replay <id>",
		Short: "Regenerate a recorded run and check it is identical",
		Long: `replay looks up a run by its id, or any unique prefix of it, generates
the maze again from the recorded seed and options, and checks that the result
has the same fingerprint as the original.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, e := a.requireJournal()
			if e != nil {
				return e
			}
			run, e := j.Find(cmd.Context(), args[0])
			j.Close()
			if e != nil {
				return e
			}
			a.logger.Debug("Replaying run", "id", run.ID, "seed", run.Seed)
			b, e := a.replay(run)
			if e != nil {
				return fmt.Errorf("Failed regenerating run %s: %w", run.ID, e)
			}
			if b.fingerprint != run.Fingerprint {
				a.printer.Warning("The mask or the generator may have changed "+
					"since run %s was recorded", shortID(run))
				return fmt.Errorf("run %s did not reproduce: fingerprint "+
					"%016x, expected %016x", run.ID, b.fingerprint,
					run.Fingerprint)
			}
			if !verifyOnly {
				renderer := maze.NewTextRenderer()
				renderer.Styler = a.printer.Palette()
				e = renderer.Write(a.stdout, b.maze.Scene())
				if e != nil {
					return e
				}
			}
			a.printer.Success("Run %s reproduced, fingerprint %016x",
				shortID(run), b.fingerprint)
			return nil
		},
	}
	cmd.Flags().BoolVar(&verifyOnly, "verify-only", false,
		"Only check the fingerprint; do not print the maze")
	return cmd
}
