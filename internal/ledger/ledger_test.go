// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	seen, err := store.Seen("b1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Record("b1", "page-1"))

	seen, err = store.Seen("b1")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = store.Seen("b2")
	require.NoError(t, err)
	assert.False(t, seen, "unrecorded blocks stay unseen")
}

func TestLedgerRecordTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Record("b1", "page-1"))
	// A retried run may record the same block again; first entry wins.
	require.NoError(t, store.Record("b1", "page-2"))

	seen, err := store.Seen("b1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestLedgerPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record("b1", "page-1"))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	seen, err := reopened.Seen("b1")
	require.NoError(t, err)
	assert.True(t, seen, "the ledger exists to survive between runs")
}

func TestLedgerCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "ledger.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Record("b1", "page-1"))
}
