package trace

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactories lets the same suite cover every Store implementation.
var storeFactories = map[string]func(t *testing.T) Store{
	"memory": func(t *testing.T) Store {
		return NewMemoryStore()
	},
	"sqlite": func(t *testing.T) Store {
		store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "traces.db"))
		require.NoError(t, err)
		return store
	},
}

func TestStore_SaveAndList(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			defer store.Close()

			recs := []Record{
				{RunID: "run-1", Seq: 1, NodeID: "a", Next: "b", State: []byte(`{"value":1}`)},
				{RunID: "run-1", Seq: 2, NodeID: "b", Next: "__end__", State: []byte(`{"value":2}`)},
				{RunID: "run-2", Seq: 1, NodeID: "a", Next: "__end__", State: []byte(`{}`)},
			}
			for _, rec := range recs {
				require.NoError(t, store.Save(rec))
			}

			got, err := store.List("run-1")
			require.NoError(t, err)
			require.Len(t, got, 2)

			assert.Equal(t, 1, got[0].Seq)
			assert.Equal(t, "a", got[0].NodeID)
			assert.Equal(t, "b", got[0].Next)
			assert.JSONEq(t, `{"value":1}`, string(got[0].State))
			assert.False(t, got[0].Timestamp.IsZero())

			assert.Equal(t, 2, got[1].Seq)
			assert.Equal(t, "__end__", got[1].Next)
		})
	}
}

func TestStore_ListUnknownRun(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			defer store.Close()

			got, err := store.List("nope")
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestStore_DeleteRun(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			defer store.Close()

			require.NoError(t, store.Save(Record{RunID: "run-1", Seq: 1, NodeID: "a", Next: "__end__", State: []byte(`{}`)}))
			require.NoError(t, store.Save(Record{RunID: "run-2", Seq: 1, NodeID: "a", Next: "__end__", State: []byte(`{}`)}))

			require.NoError(t, store.DeleteRun("run-1"))
			require.NoError(t, store.DeleteRun("run-1")) // idempotent

			got, err := store.List("run-1")
			require.NoError(t, err)
			assert.Empty(t, got)

			kept, err := store.List("run-2")
			require.NoError(t, err)
			assert.Len(t, kept, 1)
		})
	}
}

func TestStore_ClosedOperationsFail(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			require.NoError(t, store.Close())

			err := store.Save(Record{RunID: "run-1", Seq: 1, NodeID: "a", Next: "__end__", State: []byte(`{}`)})
			assert.ErrorIs(t, err, ErrStoreClosed)

			_, err = store.List("run-1")
			assert.ErrorIs(t, err, ErrStoreClosed)

			assert.ErrorIs(t, store.DeleteRun("run-1"), ErrStoreClosed)
		})
	}
}

func TestStore_TimestampPreserved(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			defer store.Close()

			require.NoError(t, store.Save(Record{
				RunID: "run-1", Seq: 1, NodeID: "a", Next: "__end__",
				State: []byte(`{}`), Timestamp: ts,
			}))

			got, err := store.List("run-1")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.True(t, got[0].Timestamp.Equal(ts))
		})
	}
}

// TestMemoryStore_CopiesState tests that later mutation of the caller's
// buffer does not corrupt stored records.
func TestMemoryStore_CopiesState(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	buf := []byte(`{"value":1}`)
	require.NoError(t, store.Save(Record{RunID: "run-1", Seq: 1, NodeID: "a", Next: "__end__", State: buf}))

	buf[2] = 'X'

	got, err := store.List("run-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":1}`, string(got[0].State))
}

func TestMemoryStore_Len(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	assert.Equal(t, 0, store.Len())
	require.NoError(t, store.Save(Record{RunID: "run-1", Seq: 1, NodeID: "a", Next: "__end__", State: []byte(`{}`)}))
	require.NoError(t, store.Save(Record{RunID: "run-2", Seq: 1, NodeID: "a", Next: "__end__", State: []byte(`{}`)}))
	assert.Equal(t, 2, store.Len())
}

// TestSQLiteStore_Reopen tests that traces survive closing and reopening
// the same database file.
func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(Record{RunID: "run-1", Seq: 1, NodeID: "a", Next: "__end__", State: []byte(`{"value":1}`)}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.List("run-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].NodeID)
}
