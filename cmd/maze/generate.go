package main

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	maze "github.com/yalue/textmaze"
	"github.com/yalue/textmaze/internal/config"
	"github.com/yalue/textmaze/internal/journal"
)

// Flags describing a single maze, shared by the generate, image and batch
// commands.
type mazeFlags struct {
	width         int
	height        int
	seed          int64
	breadcrumbs   bool
	maskPath      string
	erode         int
	start         string
	finish        string
	maxIterations int
}

func (f *mazeFlags) register(cmd *cobra.Command) {
	defaults := config.DefaultConfig()
	fs := cmd.Flags()
	fs.IntVarP(&f.width, "width", "W", defaults.Width,
		"The width of the maze, in cells")
	fs.IntVarP(&f.height, "height", "H", defaults.Height,
		"The height of the maze, in cells")
	fs.Int64Var(&f.seed, "seed", -1,
		"If positive, the random seed to use; otherwise one is picked")
	fs.BoolVar(&f.breadcrumbs, "breadcrumbs", defaults.Breadcrumbs,
		"Mark the route from start to finish")
	fs.StringVar(&f.maskPath, "mask", "",
		"Optional mask image (PBM, PNG or GIF) the size of the maze. Black "+
			"cells are protected; green and red cells mark start and finish "+
			"candidates")
	fs.IntVar(&f.erode, "erode", defaults.Erode,
		"The number of times to erode isolated wall stubs")
	fs.StringVar(&f.start, "start", "",
		"Start cell as row,col (default top-left, or a template candidate)")
	fs.StringVar(&f.finish, "finish", "",
		"Finish cell as row,col (default bottom-right, or a template "+
			"candidate)")
	fs.IntVar(&f.maxIterations, "max-iterations", defaults.MaxIterations,
		"Give up after this many wall proposals; 0 picks a limit from the "+
			"maze size")
}

// Everything needed to build, and later rebuild, one maze.
type mazeRequest struct {
	width         int
	height        int
	seed          int64
	breadcrumbs   bool
	maskPath      string
	erode         int
	maxIterations int
	// If set, width and height are taken from the mask image.
	sizeFromMask bool
	// Nil if not given explicitly.
	start  *maze.Position
	finish *maze.Position
}

// Combines the configuration with any flags set on the command line.
func (a *app) request(cmd *cobra.Command, f *mazeFlags) (*mazeRequest, error) {
	req := &mazeRequest{
		width:         a.cfg.Width,
		height:        a.cfg.Height,
		seed:          f.seed,
		breadcrumbs:   a.cfg.Breadcrumbs,
		maskPath:      f.maskPath,
		erode:         a.cfg.Erode,
		maxIterations: a.cfg.MaxIterations,
	}
	flags := cmd.Flags()
	if flags.Changed("width") {
		req.width = f.width
	}
	if flags.Changed("height") {
		req.height = f.height
	}
	req.sizeFromMask = (f.maskPath != "") && !flags.Changed("width") &&
		!flags.Changed("height")
	if flags.Changed("breadcrumbs") {
		req.breadcrumbs = f.breadcrumbs
	}
	if flags.Changed("erode") {
		req.erode = f.erode
	}
	if flags.Changed("max-iterations") {
		req.maxIterations = f.maxIterations
	}
	if req.erode < 0 {
		return nil, fmt.Errorf("Invalid erode amount: %d", req.erode)
	}
	var e error
	if f.start != "" {
		req.start, e = parsePosition(f.start)
		if e != nil {
			return nil, fmt.Errorf("Invalid start cell: %w", e)
		}
	}
	if f.finish != "" {
		req.finish, e = parsePosition(f.finish)
		if e != nil {
			return nil, fmt.Errorf("Invalid finish cell: %w", e)
		}
	}
	return req, nil
}

// Parses a "row,col" pair.
func parsePosition(s string) (*maze.Position, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected row,col, got %q", s)
	}
	row, e := strconv.Atoi(strings.TrimSpace(parts[0]))
	if e != nil {
		return nil, fmt.Errorf("bad row in %q: %w", s, e)
	}
	col, e := strconv.Atoi(strings.TrimSpace(parts[1]))
	if e != nil {
		return nil, fmt.Errorf("bad column in %q: %w", s, e)
	}
	return &maze.Position{Row: row, Col: col}, nil
}

// Resolves the seed, the mask and the endpoints of a request into generation
// options. The returned request has its seed and endpoints filled in, so it
// describes the maze exactly.
func (r *mazeRequest) options() (maze.Options, *mazeRequest, error) {
	resolved := *r
	resolved.seed = maze.ResolveSeed(r.seed)
	var t *maze.Template
	if r.maskPath != "" {
		width, height := r.width, r.height
		if r.sizeFromMask {
			width, height = 0, 0
		}
		var e error
		t, e = maze.LoadTemplate(r.maskPath, width, height)
		if e != nil {
			return maze.Options{}, nil, e
		}
		resolved.width = t.Mask.Width()
		resolved.height = t.Mask.Height()
		resolved.sizeFromMask = false
	}
	start := maze.Position{}
	finish := maze.Position{Row: resolved.height - 1, Col: resolved.width - 1}
	var mask *maze.Mask
	if t != nil {
		mask = t.Mask
		start, finish = t.ChooseEndpoints(
			rand.New(rand.NewSource(resolved.seed)), start, finish)
	}
	if r.start != nil {
		start = *r.start
	}
	if r.finish != nil {
		finish = *r.finish
	}
	resolved.start = &start
	resolved.finish = &finish
	return maze.Options{
		Width:         resolved.width,
		Height:        resolved.height,
		Start:         start,
		Finish:        finish,
		Mask:          mask,
		MaxIterations: r.maxIterations,
	}, &resolved, nil
}

// The result of building a maze for a request.
type builtMaze struct {
	maze *maze.GridMaze
	// The fully resolved request.
	request *mazeRequest
	// The fingerprint of the grid before any erosion.
	fingerprint uint64
}

// Generates, erodes and optionally solves the requested maze, recording
// metrics along the way.
func (a *app) build(r *mazeRequest) (*builtMaze, error) {
	opts, resolved, e := r.options()
	if e != nil {
		a.recorder.RecordGenerationFailure(e)
		return nil, e
	}
	return a.buildWithOptions(opts, resolved)
}

// Like build, but with the generation options already resolved. The request
// supplies the seed, erosion and breadcrumbs settings.
func (a *app) buildWithOptions(opts maze.Options,
	resolved *mazeRequest) (*builtMaze, error) {
	m, e := maze.NewGridMaze(opts, resolved.seed)
	if e != nil {
		a.recorder.RecordGenerationFailure(e)
		return nil, e
	}
	a.recorder.RecordGeneration(m.Stats())
	info := m.GetInfo()
	a.logger.Info("Generated maze", "size",
		fmt.Sprintf("%dx%d", info.Width, info.Height), "seed", info.Seed,
		"stats", info.Stats.String(), "duration", info.Stats.Duration)
	toReturn := &builtMaze{
		maze:        m,
		request:     resolved,
		fingerprint: m.Grid().Fingerprint(),
	}
	if resolved.erode > 0 {
		a.logger.Debug("Eroding maze walls", "steps", resolved.erode)
		for i := 0; i < resolved.erode; i++ {
			e = m.ErodeWalls()
			if e != nil {
				return nil, fmt.Errorf("Error eroding walls: %w", e)
			}
		}
	}
	if resolved.breadcrumbs {
		e = m.ShowSolution(true)
		a.recorder.RecordRoute(m.Route())
		if e != nil {
			return nil, fmt.Errorf("Error finding solution: %w", e)
		}
		a.logger.Debug("Found route", "cells", len(m.Route()))
	}
	return toReturn, nil
}

// Stores the maze in the journal, if it is enabled. Returns the stored run,
// or nil if the journal is disabled.
func (a *app) record(ctx context.Context, b *builtMaze) (*journal.Run, error) {
	j, e := a.openJournal()
	if e != nil {
		return nil, e
	}
	if j == nil {
		return nil, nil
	}
	defer j.Close()
	run := newRun(b.request, b.maze.Stats(), b.fingerprint)
	e = j.Record(ctx, run)
	if e != nil {
		return nil, fmt.Errorf("Error recording run: %w", e)
	}
	a.logger.Debug("Recorded run", "id", run.ID)
	return run, nil
}

func newRun(r *mazeRequest, stats maze.Stats,
	fingerprint uint64) *journal.Run {
	return &journal.Run{
		Width:         r.width,
		Height:        r.height,
		Start:         *r.start,
		Finish:        *r.finish,
		Seed:          r.seed,
		MaskPath:      r.maskPath,
		MaxIterations: r.maxIterations,
		Erode:         r.erode,
		Breadcrumbs:   r.breadcrumbs,
		Productive:    stats.Productive,
		Total:         stats.Total,
		Fingerprint:   fingerprint,
	}
}

// Returns a command line that regenerates the maze described by r, with
// breadcrumbs set as given.
func reproduceCommand(name, subcommand string, r *mazeRequest,
	breadcrumbs bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s --width %d --height %d --breadcrumbs=%t --seed %d",
		name, subcommand, r.width, r.height, breadcrumbs, r.seed)
	if r.maskPath != "" {
		fmt.Fprintf(&sb, " --mask %s", r.maskPath)
	}
	if r.start != nil {
		fmt.Fprintf(&sb, " --start %d,%d", r.start.Row, r.start.Col)
	}
	if r.finish != nil {
		fmt.Fprintf(&sb, " --finish %d,%d", r.finish.Row, r.finish.Col)
	}
	if r.erode > 0 {
		fmt.Fprintf(&sb, " --erode %d", r.erode)
	}
	if r.maxIterations > 0 {
		fmt.Fprintf(&sb, " --max-iterations %d", r.maxIterations)
	}
	return sb.String()
}

// Returns the line printed after a maze, telling the user how to get the same
// maze again, with and without breadcrumbs.
func reproduceLine(name string, r *mazeRequest) string {
	toggled := "with"
	if r.breadcrumbs {
		toggled = "without"
	}
	return fmt.Sprintf("\tReproduce: %s ; or, %s breadcrumbs: %s",
		reproduceCommand(name, "generate", r, r.breadcrumbs), toggled,
		reproduceCommand(name, "generate", r, !r.breadcrumbs))
}

func (a *app) newGenerateCmd() *cobra.Command {
	f := &mazeFlags{}
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a maze and print it as text",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, e := a.request(cmd, f)
			if e != nil {
				return e
			}
			b, e := a.build(req)
			if e != nil {
				return fmt.Errorf("Failed generating maze: %w", e)
			}
			renderer := maze.NewTextRenderer()
			renderer.Styler = a.printer.Palette()
			e = renderer.Write(a.stdout, b.maze.Scene())
			if e != nil {
				return e
			}
			run, e := a.record(cmd.Context(), b)
			if e != nil {
				return e
			}
			fmt.Fprintln(a.stdout, reproduceLine(cmd.Root().Name(), b.request))
			if run != nil {
				fmt.Fprintf(a.stdout, "\tReplay: %s replay %s\n",
					cmd.Root().Name(), shortID(run))
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

// The first eight characters of a run's id, usually enough to pass to replay.
func shortID(run *journal.Run) string {
	return run.ID.String()[:8]
}
