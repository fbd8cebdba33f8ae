package store

import (
	"path/filepath"
	"testing"

	"github.com/jocelynow/travelpal/internal/corpus"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestChunkStore_SaveAndLoad(t *testing.T) {
	cs := NewChunkStore(openTestDB(t))

	chunks := []corpus.Chunk{
		{ID: "c1", Source: "doc.md", Seq: 0, Text: "first", References: []string{"https://a.example/x"}},
		{ID: "c2", Source: "doc.md", Seq: 1, Text: "second", References: nil},
	}
	vectors := [][]float32{{1, 2, 3}, {4, 5, 6}}

	if err := cs.SaveBatch(chunks, vectors, "test-model"); err != nil {
		t.Fatalf("SaveBatch() error: %v", err)
	}

	loaded, err := cs.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(loaded))
	}

	if loaded[0].Chunk.ID != "c1" || loaded[1].Chunk.ID != "c2" {
		t.Errorf("chunks not ordered by seq: %v, %v", loaded[0].Chunk.ID, loaded[1].Chunk.ID)
	}
	if got := loaded[0].Chunk.References; len(got) != 1 || got[0] != "https://a.example/x" {
		t.Errorf("references round trip failed: %v", got)
	}
	if len(loaded[1].Chunk.References) != 0 {
		t.Errorf("nil references should round trip empty, got %v", loaded[1].Chunk.References)
	}
	for i, sc := range loaded {
		if len(sc.Vector) != 3 {
			t.Errorf("chunk %d vector length = %d, want 3", i, len(sc.Vector))
		}
		if sc.Model != "test-model" {
			t.Errorf("chunk %d model = %q", i, sc.Model)
		}
	}
	if loaded[0].Vector[0] != 1 || loaded[1].Vector[2] != 6 {
		t.Errorf("vector values corrupted: %v, %v", loaded[0].Vector, loaded[1].Vector)
	}
}

func TestChunkStore_VectorsByHash(t *testing.T) {
	cs := NewChunkStore(openTestDB(t))

	chunks := []corpus.Chunk{
		{ID: "c1", Source: "doc.md", Seq: 0, Text: "stable text"},
		{ID: "c2", Source: "doc.md", Seq: 1, Text: "no vector"},
	}
	if err := cs.SaveBatch(chunks, [][]float32{{7, 8}, nil}, "m1"); err != nil {
		t.Fatalf("SaveBatch() error: %v", err)
	}

	cached, err := cs.VectorsByHash("m1")
	if err != nil {
		t.Fatalf("VectorsByHash() error: %v", err)
	}
	if len(cached) != 1 {
		t.Fatalf("expected 1 cached vector, got %d", len(cached))
	}
	if v, ok := cached[ContentHash("stable text")]; !ok || v[1] != 8 {
		t.Errorf("cached vector missing or wrong: %v", cached)
	}

	// Different model sees no cache
	other, err := cs.VectorsByHash("m2")
	if err != nil {
		t.Fatalf("VectorsByHash() error: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected empty cache for other model, got %d entries", len(other))
	}
}

func TestChunkStore_Count_And_Clear(t *testing.T) {
	db := openTestDB(t)
	cs := NewChunkStore(db)

	if err := cs.SaveBatch(
		[]corpus.Chunk{{ID: "c1", Source: "d", Seq: 0, Text: "t"}},
		[][]float32{{1}}, "m"); err != nil {
		t.Fatalf("SaveBatch() error: %v", err)
	}

	chunks, embeddings, err := cs.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if chunks != 1 || embeddings != 1 {
		t.Errorf("Count() = %d chunks, %d embeddings", chunks, embeddings)
	}

	if err := db.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	chunks, embeddings, _ = cs.Count()
	if chunks != 0 || embeddings != 0 {
		t.Errorf("after Clear(): %d chunks, %d embeddings", chunks, embeddings)
	}
}

func TestVectorBlobRoundTrip(t *testing.T) {
	in := []float32{0, -1.5, 3.25, 1e-7}
	blob, err := vectorToBlob(in)
	if err != nil {
		t.Fatalf("vectorToBlob() error: %v", err)
	}
	out, err := blobToVector(blob)
	if err != nil {
		t.Fatalf("blobToVector() error: %v", err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("round trip mismatch at %d: %v != %v", i, in[i], out[i])
		}
	}

	if _, err := blobToVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for misaligned blob")
	}
}
