package metrics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	maze "github.com/yalue/textmaze"
)

func TestRecordGeneration(t *testing.T) {
	r := NewRecorder()
	r.RecordGeneration(maze.Stats{Productive: 3, Total: 12, Duration: time.Millisecond})
	r.RecordGeneration(maze.Stats{Productive: 1, Total: 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.runs.WithLabelValues("ok")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.iterations.WithLabelValues("productive")))
	assert.Equal(t, 13.0, testutil.ToFloat64(r.iterations.WithLabelValues("total")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.productiveRatio))
}

func TestRecordGenerationFailure(t *testing.T) {
	r := NewRecorder()
	r.RecordGenerationFailure(fmt.Errorf("wrapped: %w", maze.ErrUnreachable))
	r.RecordGenerationFailure(maze.ErrIterationLimit)
	r.RecordGenerationFailure(errors.New("bad width"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues("unreachable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues("iteration_limit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues("invalid")))
	assert.Equal(t, "ok", FailureStatus(nil))
}

func TestRecordRoute(t *testing.T) {
	r := NewRecorder()
	r.RecordRoute(maze.Route{{Row: 0, Col: 0}, {Row: 0, Col: 1}})
	r.RecordRoute(nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.searches.WithLabelValues("found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.searches.WithLabelValues("no_route")))

	expected := `
# HELP textmaze_route_searches_total Route searches by result
# TYPE textmaze_route_searches_total counter
textmaze_route_searches_total{result="found"} 1
textmaze_route_searches_total{result="no_route"} 1
`
	require.NoError(t, testutil.CollectAndCompare(r.searches, strings.NewReader(expected)))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.RecordGeneration(maze.Stats{Productive: 5, Total: 9})
	path := filepath.Join(t.TempDir(), "textmaze.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, e := os.ReadFile(path)
	require.NoError(t, e)
	assert.Contains(t, string(data), `textmaze_generate_runs_total{status="ok"} 1`)
	assert.Contains(t, string(data), `textmaze_generate_iterations_total{kind="total"} 9`)
}

func TestRegistry(t *testing.T) {
	r := NewRecorder()
	r.RecordGeneration(maze.Stats{Productive: 1, Total: 2})
	r.RecordGenerationFailure(maze.ErrUnreachable)

	count, e := testutil.GatherAndCount(r.Registry(),
		"textmaze_generate_runs_total")
	require.NoError(t, e)
	assert.Equal(t, 2, count)

	// Recorders never share collectors.
	other := NewRecorder()
	count, e = testutil.GatherAndCount(other.Registry(),
		"textmaze_generate_runs_total")
	require.NoError(t, e)
	assert.Zero(t, count)
}
