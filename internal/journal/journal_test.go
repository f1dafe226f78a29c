package journal

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	maze "github.com/yalue/textmaze"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, e := Open(InMemoryConfig())
	require.NoError(t, e)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func testRun(seed int64, created time.Time) *Run {
	return &Run{
		CreatedAt:   created,
		Width:       10,
		Height:      5,
		Finish:      maze.Position{Row: 4, Col: 9},
		Seed:        seed,
		Breadcrumbs: true,
		Productive:  30,
		Total:       70,
		Fingerprint: uint64(seed) * 31,
	}
}

func TestOpenRequiresPath(t *testing.T) {
	_, e := Open(Config{})
	assert.Error(t, e)
}

func TestRecordAndGet(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	run := testRun(7, time.Time{})
	require.NoError(t, j.Record(ctx, run))
	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	got, e := j.Get(ctx, run.ID)
	require.NoError(t, e)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, int64(7), got.Seed)
	assert.Equal(t, maze.Position{Row: 4, Col: 9}, got.Finish)
	assert.Equal(t, run.Fingerprint, got.Fingerprint)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))

	_, e = j.Get(ctx, uuid.New())
	assert.ErrorIs(t, e, ErrRunNotFound)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, j.Record(ctx, testRun(int64(i+1), base.Add(time.Duration(i)*time.Minute))))
	}

	runs, e := j.List(ctx, 0)
	require.NoError(t, e)
	require.Len(t, runs, 5)
	for i, run := range runs {
		assert.Equal(t, int64(5-i), run.Seed, "newest first")
	}

	runs, e = j.List(ctx, 2)
	require.NoError(t, e)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(5), runs[0].Seed)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, e = j.List(cancelled, 0)
	assert.ErrorIs(t, e, context.Canceled)
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)
	now := time.Now().UTC()

	a := testRun(1, now)
	a.ID = uuid.MustParse("abc12345-0000-4000-8000-000000000001")
	b := testRun(2, now.Add(time.Second))
	b.ID = uuid.MustParse("abc99999-0000-4000-8000-000000000002")
	require.NoError(t, j.Record(ctx, a))
	require.NoError(t, j.Record(ctx, b))

	got, e := j.Find(ctx, "abc1")
	require.NoError(t, e)
	assert.Equal(t, a.ID, got.ID)

	got, e = j.Find(ctx, b.ID.String())
	require.NoError(t, e)
	assert.Equal(t, int64(2), got.Seed)

	_, e = j.Find(ctx, "abc")
	assert.ErrorIs(t, e, ErrAmbiguousID)

	_, e = j.Find(ctx, "ffff")
	assert.ErrorIs(t, e, ErrRunNotFound)

	_, e = j.Find(ctx, "  ")
	assert.ErrorIs(t, e, ErrRunNotFound)
}

func TestRunOptions(t *testing.T) {
	run := testRun(3, time.Now())
	run.MaxIterations = 100
	opts := run.Options(nil)
	assert.Equal(t, 10, opts.Width)
	assert.Equal(t, 5, opts.Height)
	assert.Equal(t, maze.Position{Row: 4, Col: 9}, opts.Finish)
	assert.Equal(t, 100, opts.MaxIterations)
	assert.Nil(t, opts.Mask)
}
