package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhyunpark/swaproute/pkg/core"
)

func openTestJournal(t *testing.T, path string) *Journal {
	t.Helper()
	j, err := OpenJournal(path)
	require.NoError(t, err)
	return j
}

func TestJournalRecordPendingDone(t *testing.T) {
	j := openTestJournal(t, t.TempDir())
	defer j.Close()

	ord := core.Order{ID: "o1", TokenIn: "USDC", TokenOut: "SOL", Amount: 100}
	require.NoError(t, j.Record(ord))

	pending, err := j.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "o1", pending[0].ID)
	assert.Equal(t, "USDC", pending[0].TokenIn)
	assert.Equal(t, 100.0, pending[0].Amount)

	require.NoError(t, j.Done("o1"))
	pending, err = j.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending, "a completed order is never redelivered")
}

func TestJournalDoneUnknownID(t *testing.T) {
	j := openTestJournal(t, t.TempDir())
	defer j.Close()
	assert.NoError(t, j.Done("never-recorded"))
}

func TestJournalSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	j := openTestJournal(t, dir)
	require.NoError(t, j.Record(core.Order{ID: "a", TokenIn: "USDC", TokenOut: "SOL", Amount: 1}))
	require.NoError(t, j.Record(core.Order{ID: "b", TokenIn: "SOL", TokenOut: "BONK", Amount: 2}))
	require.NoError(t, j.Done("a"))
	require.NoError(t, j.Close())

	j = openTestJournal(t, dir)
	defer j.Close()
	pending, err := j.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b", pending[0].ID)
}

func TestJournalRecordOverwrites(t *testing.T) {
	j := openTestJournal(t, t.TempDir())
	defer j.Close()

	require.NoError(t, j.Record(core.Order{ID: "o1", TokenIn: "USDC", TokenOut: "SOL", Amount: 1}))
	require.NoError(t, j.Record(core.Order{ID: "o1", TokenIn: "USDC", TokenOut: "SOL", Amount: 1}))

	pending, err := j.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
