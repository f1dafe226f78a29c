// Package journal records generated mazes so they can be listed and replayed.
//
// Generation is a pure function of the maze options and the seed, so storing
// those (plus a fingerprint of the resulting grid) is enough to reproduce any
// past maze and to confirm that the reproduction is identical.
//
// Records live in an embedded BadgerDB under two key families:
//
//	run/<created-at nanos, zero padded>/<id> -> JSON Run
//	id/<id>                                  -> the run/ key above
//
// The first keeps runs ordered by time; the second resolves ids.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	maze "github.com/yalue/textmaze"
)

var (
	// ErrRunNotFound is returned when no run matches an id or id prefix.
	ErrRunNotFound = errors.New("run not found")
	// ErrAmbiguousID is returned when an id prefix matches more than one run.
	ErrAmbiguousID = errors.New("id prefix matches more than one run")
)

const (
	runPrefix = "run/"
	idPrefix  = "id/"
)

// Run describes one generated maze.
type Run struct {
	ID            uuid.UUID     `json:"id"`
	CreatedAt     time.Time     `json:"created_at"`
	Width         int           `json:"width"`
	Height        int           `json:"height"`
	Start         maze.Position `json:"start"`
	Finish        maze.Position `json:"finish"`
	Seed          int64         `json:"seed"`
	MaskPath      string        `json:"mask_path,omitempty"`
	MaxIterations int           `json:"max_iterations,omitempty"`
	Erode         int           `json:"erode,omitempty"`
	Breadcrumbs   bool          `json:"breadcrumbs"`
	Productive    int           `json:"productive"`
	Total         int           `json:"total"`
	// Fingerprint of the generated grid, before any erosion.
	Fingerprint uint64 `json:"fingerprint"`
}

// Options returns the generation options recorded for the run. The mask is
// not stored in the journal; callers reload it from MaskPath.
func (r *Run) Options(mask *maze.Mask) maze.Options {
	return maze.Options{
		Width:         r.Width,
		Height:        r.Height,
		Start:         r.Start,
		Finish:        r.Finish,
		Mask:          mask,
		MaxIterations: r.MaxIterations,
	}
}

// Config holds configuration for a journal database.
type Config struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence). Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives BadgerDB's internal messages. If nil they are discarded.
	Logger *slog.Logger
}

// DefaultConfig returns a persistent configuration rooted at path.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		SyncWrites: true,
	}
}

// InMemoryConfig returns configuration optimized for testing.
func InMemoryConfig() Config {
	return Config{
		InMemory: true,
	}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Journal is a store of Runs.
//
// Thread Safety: safe for concurrent use.
type Journal struct {
	db *badger.DB
}

// Open opens (creating if needed) the journal described by cfg. The caller
// must Close it.
func Open(cfg Config) (*Journal, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for a persistent journal")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if e := os.MkdirAll(cfg.Path, 0750); e != nil {
			return nil, fmt.Errorf("create journal directory %s: %w", cfg.Path, e)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, e := badger.Open(opts)
	if e != nil {
		return nil, fmt.Errorf("open journal database: %w", e)
	}
	return &Journal{db: db}, nil
}

// Close releases the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func runKey(r *Run) []byte {
	return []byte(fmt.Sprintf("%s%020d/%s", runPrefix, r.CreatedAt.UnixNano(), r.ID))
}

func idKey(id uuid.UUID) []byte {
	return []byte(idPrefix + id.String())
}

// Record stores run, assigning an ID and creation time if they are unset.
func (j *Journal) Record(ctx context.Context, run *Run) error {
	if e := ctx.Err(); e != nil {
		return e
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	value, e := json.Marshal(run)
	if e != nil {
		return fmt.Errorf("encode run %s: %w", run.ID, e)
	}
	key := runKey(run)
	e = j.db.Update(func(txn *badger.Txn) error {
		if e := txn.Set(key, value); e != nil {
			return e
		}
		return txn.Set(idKey(run.ID), key)
	})
	if e != nil {
		return fmt.Errorf("store run %s: %w", run.ID, e)
	}
	return nil
}

// Get returns the run with the given id.
func (j *Journal) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	if e := ctx.Err(); e != nil {
		return nil, e
	}
	var run *Run
	e := j.db.View(func(txn *badger.Txn) error {
		item, e := txn.Get(idKey(id))
		if e != nil {
			return e
		}
		key, e := item.ValueCopy(nil)
		if e != nil {
			return e
		}
		item, e = txn.Get(key)
		if e != nil {
			return e
		}
		return item.Value(func(val []byte) error {
			run, e = decodeRun(val)
			return e
		})
	})
	if errors.Is(e, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if e != nil {
		return nil, fmt.Errorf("load run %s: %w", id, e)
	}
	return run, nil
}

// Find returns the run whose id is, or starts with, the given string, so that
// users can refer to runs by a short prefix of their id.
func (j *Journal) Find(ctx context.Context, idOrPrefix string) (*Run, error) {
	if id, e := uuid.Parse(idOrPrefix); e == nil {
		return j.Get(ctx, id)
	}
	prefix := strings.ToLower(strings.TrimSpace(idOrPrefix))
	if prefix == "" {
		return nil, fmt.Errorf("%w: empty id", ErrRunNotFound)
	}
	var matches []uuid.UUID
	e := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		seek := []byte(idPrefix + prefix)
		for it.Seek(seek); it.ValidForPrefix(seek); it.Next() {
			id, e := uuid.Parse(strings.TrimPrefix(string(it.Item().Key()), idPrefix))
			if e != nil {
				return e
			}
			matches = append(matches, id)
		}
		return nil
	})
	if e != nil {
		return nil, fmt.Errorf("search runs: %w", e)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case 1:
		return j.Get(ctx, matches[0])
	}
	return nil, fmt.Errorf("%w: %s matches %d runs", ErrAmbiguousID, idOrPrefix, len(matches))
}

// List returns up to limit runs, newest first. A limit of 0 or less returns
// every run.
func (j *Journal) List(ctx context.Context, limit int) ([]*Run, error) {
	if e := ctx.Err(); e != nil {
		return nil, e
	}
	var runs []*Run
	e := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		prefix := []byte(runPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		// In reverse mode, seek to just past the last possible key.
		for it.Seek(append([]byte(runPrefix), 0xff)); it.ValidForPrefix(prefix); it.Next() {
			if e := ctx.Err(); e != nil {
				return e
			}
			e := it.Item().Value(func(val []byte) error {
				run, e := decodeRun(val)
				if e != nil {
					return e
				}
				runs = append(runs, run)
				return nil
			})
			if e != nil {
				return e
			}
			if limit > 0 && len(runs) >= limit {
				break
			}
		}
		return nil
	})
	if e != nil {
		return nil, fmt.Errorf("list runs: %w", e)
	}
	return runs, nil
}

func decodeRun(val []byte) (*Run, error) {
	var run Run
	if e := json.Unmarshal(val, &run); e != nil {
		return nil, fmt.Errorf("decode run: %w", e)
	}
	return &run, nil
}
