package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/raykavin/chartscript/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func record(kind event.Kind, tag string, offset time.Duration) event.Record {
	return event.Record{
		Kind:     kind,
		Tag:      tag,
		Script:   "script",
		Symbol:   "TEST",
		BarTime:  now.Truncate(time.Hour),
		WallTime: now.Add(offset),
		Message:  tag,
	}
}

func TestJournal_OrderedByWallTime(t *testing.T) {
	journal, err := FromMemory()
	require.NoError(t, err)
	defer journal.Close()

	journal.Emit(record(event.KindSignal, "late", 2*time.Second))
	journal.Emit(record(event.KindOrderOpen, "buy", 0))
	journal.Emit(record(event.KindSignal, "early", time.Second))

	records, err := journal.Records()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "buy", records[0].Tag)
	assert.Equal(t, "early", records[1].Tag)
	assert.Equal(t, "late", records[2].Tag)
	assert.True(t, records[0].WallTime.Equal(now))

	signals, err := journal.Records(WithKind(event.KindSignal), Since(now.Add(1500*time.Millisecond)))
	require.NoError(t, err)
	require.Len(t, signals, 1)
	assert.Equal(t, "late", signals[0].Tag)

	none, err := journal.Records(WithScript("other"))
	require.NoError(t, err)
	assert.Empty(t, none)

	n, err := journal.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestJournal_ReopenKeepsRecords(t *testing.T) {
	file := filepath.Join(t.TempDir(), "events.db")

	journal, err := FromFile(file)
	require.NoError(t, err)
	_, err = journal.Append(record(event.KindSignal, "a", 0))
	require.NoError(t, err)
	require.NoError(t, journal.Close())

	journal, err = FromFile(file)
	require.NoError(t, err)
	defer journal.Close()

	id, err := journal.Append(record(event.KindSignal, "b", time.Second))
	require.NoError(t, err)
	assert.Equal(t, "2", id)

	records, err := journal.Records(WithSymbol("TEST"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].Tag)
}

func TestJournal_EmitOnClosed(t *testing.T) {
	journal, err := FromMemory(WithRetry(5, time.Hour, time.Hour))
	require.NoError(t, err)
	require.NoError(t, journal.Close())

	start := time.Now()
	journal.Emit(record(event.KindSignal, "a", 0))
	// closed journals are not retried
	assert.Less(t, time.Since(start), time.Minute)
}
