// Package storage journals emitted events in a buntdb database.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/jpillora/backoff"
	"github.com/raykavin/chartscript/pkg/event"
	"github.com/raykavin/chartscript/pkg/logger"
	"github.com/tidwall/buntdb"
)

const wallIndex = "wall_index"

// Filter selects records
type Filter func(r event.Record) bool

// WithKind selects records of the given kinds
func WithKind(kinds ...event.Kind) Filter {
	return func(r event.Record) bool {
		for _, k := range kinds {
			if r.Kind == k {
				return true
			}
		}
		return false
	}
}

// WithScript selects records emitted by script
func WithScript(script string) Filter {
	return func(r event.Record) bool { return r.Script == script }
}

// WithSymbol selects records of symbol
func WithSymbol(symbol string) Filter {
	return func(r event.Record) bool { return r.Symbol == symbol }
}

// Since selects records emitted at or after t
func Since(t time.Time) Filter {
	return func(r event.Record) bool { return !r.WallTime.Before(t) }
}

// entry is the stored form of a record, carrying the numeric wall time the
// index orders by
type entry struct {
	event.Record
	WallUnix int64 `json:"wall_unix"`
}

// Journal stores event records. It is an event.Sink: records emitted by
// scripts are written as they arrive, retrying failed writes.
type Journal struct {
	lastID   int64
	db       *buntdb.DB
	attempts int
	backoff  backoff.Backoff
	log      logger.Logger
}

var _ event.Sink = (*Journal)(nil)

// Option configures a Journal
type Option func(*Journal)

// WithLogger sets the journal logger
func WithLogger(log logger.Logger) Option {
	return func(j *Journal) {
		j.log = log
	}
}

// WithRetry sets how many times a write is attempted and the wait bounds
// between attempts
func WithRetry(attempts int, min, max time.Duration) Option {
	return func(j *Journal) {
		j.attempts = attempts
		j.backoff = backoff.Backoff{Min: min, Max: max, Factor: 2}
	}
}

// FromMemory creates an in-memory journal
func FromMemory(options ...Option) (*Journal, error) {
	return NewJournal(":memory:", options...)
}

// FromFile creates a file-based journal
func FromFile(file string, options ...Option) (*Journal, error) {
	return NewJournal(file, options...)
}

// NewJournal opens the journal at sourceFile
func NewJournal(sourceFile string, options ...Option) (*Journal, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	err = db.CreateIndex(wallIndex, "*", buntdb.IndexJSON("wall_unix"))
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	j := &Journal{
		db:       db,
		attempts: 3,
		backoff:  backoff.Backoff{Min: 10 * time.Millisecond, Max: time.Second, Factor: 2},
		log:      logger.NewNop(),
	}
	for _, option := range options {
		option(j)
	}

	err = db.View(func(tx *buntdb.Tx) error {
		n, err := tx.Len()
		j.lastID = int64(n)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	return j, nil
}

// getID generates a unique ID for records
func (j *Journal) getID() int64 {
	return atomic.AddInt64(&j.lastID, 1)
}

// Append stores r and returns its key
func (j *Journal) Append(r event.Record) (string, error) {
	content, err := json.Marshal(entry{Record: r, WallUnix: r.WallTime.UnixNano()})
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}

	id := strconv.FormatInt(j.getID(), 10)
	err = j.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(id, string(content), nil)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to store record: %w", err)
	}
	return id, nil
}

// Emit appends r, retrying with backoff. A closed journal is not retried.
func (j *Journal) Emit(r event.Record) {
	b := j.backoff
	var err error
	for attempt := 0; attempt < max(j.attempts, 1); attempt++ {
		if attempt > 0 {
			time.Sleep(b.Duration())
		}
		if _, err = j.Append(r); err == nil || errors.Is(err, buntdb.ErrDatabaseClosed) {
			break
		}
	}
	if err != nil {
		j.log.WithFields(map[string]any{"kind": r.Kind, "tag": r.Tag}).WithError(err).Error("failed to journal event")
	}
}

// Records returns the stored records matching every filter, oldest first
func (j *Journal) Records(filters ...Filter) ([]event.Record, error) {
	records := make([]event.Record, 0)

	err := j.db.View(func(tx *buntdb.Tx) error {
		return tx.Ascend(wallIndex, func(key, value string) bool {
			var e entry
			if err := json.Unmarshal([]byte(value), &e); err != nil {
				j.log.WithField("key", key).WithError(err).Warn("failed to unmarshal record")
				return true // Continue iteration
			}

			// Apply all filters
			for _, filter := range filters {
				if !filter(e.Record) {
					return true
				}
			}
			records = append(records, e.Record)
			return true
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over records: %w", err)
	}
	return records, nil
}

// Len returns the number of stored records
func (j *Journal) Len() (int, error) {
	var n int
	err := j.db.View(func(tx *buntdb.Tx) error {
		var err error
		n, err = tx.Len()
		return err
	})
	return n, err
}

// Close closes the database connection
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}
