package benchmarks

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/mpresley/stategraph/pkg/stategraph/trace"
)

func benchRecord(runID string, seq int) trace.Record {
	state, _ := json.Marshal(map[string]any{
		"messages": []string{"one", "two", "three"},
		"value":    seq,
		"metadata": map[string]string{"source": "bench", "kind": "synthetic"},
	})
	return trace.Record{
		RunID:     runID,
		Seq:       seq,
		NodeID:    "worker",
		Next:      "worker",
		State:     state,
		Timestamp: time.Now().UTC(),
	}
}

// BenchmarkMemoryStore_Save measures in-memory step trace save.
func BenchmarkMemoryStore_Save(b *testing.B) {
	store := trace.NewMemoryStore()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Save(benchRecord("bench-run", i+1))
	}
}

// BenchmarkMemoryStore_List measures listing a 100-step run.
func BenchmarkMemoryStore_List(b *testing.B) {
	store := trace.NewMemoryStore()
	for i := 0; i < 100; i++ {
		_ = store.Save(benchRecord("bench-run", i+1))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.List("bench-run")
	}
}

// BenchmarkSQLiteStore_Save measures SQLite step trace save.
func BenchmarkSQLiteStore_Save(b *testing.B) {
	store, err := trace.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Save(benchRecord(fmt.Sprintf("run-%d", i/1000), i%1000+1))
	}
}

// BenchmarkSQLiteStore_List measures listing a 100-step run from SQLite.
func BenchmarkSQLiteStore_List(b *testing.B) {
	store, err := trace.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()

	for i := 0; i < 100; i++ {
		_ = store.Save(benchRecord("bench-run", i+1))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.List("bench-run")
	}
}
