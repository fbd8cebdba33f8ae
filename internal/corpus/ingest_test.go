package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test document: %v", err)
	}
	return path
}

func TestReadPassages_URLExtraction(t *testing.T) {
	path := writeDoc(t, "tips.txt",
		"Visit https://a.example/x for tips.\n\nNo link here.\n")

	passages, err := ReadPassages(path)
	if err != nil {
		t.Fatalf("ReadPassages() error: %v", err)
	}

	if len(passages) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(passages))
	}

	if got := passages[0].References; len(got) != 1 || got[0] != "https://a.example/x" {
		t.Errorf("passage 1 references = %v, want [https://a.example/x]", got)
	}
	if !strings.Contains(passages[0].Text, "https://a.example/x") {
		t.Error("URL should remain in the passage text")
	}
	if len(passages[1].References) != 0 {
		t.Errorf("passage 2 references = %v, want none", passages[1].References)
	}
}

func TestReadPassages_DropsEmptyParagraphs(t *testing.T) {
	path := writeDoc(t, "doc.txt", "First.\n\n\n\n   \n\nSecond.\n")

	passages, err := ReadPassages(path)
	if err != nil {
		t.Fatalf("ReadPassages() error: %v", err)
	}
	if len(passages) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(passages))
	}
	if passages[0].Text != "First." || passages[1].Text != "Second." {
		t.Errorf("unexpected passages: %q, %q", passages[0].Text, passages[1].Text)
	}
}

func TestReadPassages_MultipleURLsInOrder(t *testing.T) {
	path := writeDoc(t, "doc.txt",
		"See https://one.example/a then https://two.example/b for details.\n")

	passages, err := ReadPassages(path)
	if err != nil {
		t.Fatalf("ReadPassages() error: %v", err)
	}
	want := []string{"https://one.example/a", "https://two.example/b"}
	got := passages[0].References
	if len(got) != len(want) {
		t.Fatalf("references = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("references[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIngest_MissingFile(t *testing.T) {
	_, err := Ingest(filepath.Join(t.TempDir(), "nope.txt"), DefaultOptions())
	if err == nil {
		t.Fatal("expected error for missing document")
	}
	if _, ok := err.(*IngestError); !ok {
		t.Errorf("expected *IngestError, got %T", err)
	}
}

func TestIngest_ChunksInheritReferences(t *testing.T) {
	long := strings.Repeat("word ", 300) + "https://ref.example/page"
	path := writeDoc(t, "doc.txt", long+"\n")

	chunks, err := Ingest(path, Options{ChunkSize: 400, ChunkOverlap: 50})
	if err != nil {
		t.Fatalf("Ingest() error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected the passage to be split, got %d chunks", len(chunks))
	}
	for i, c := range chunks {
		if len(c.References) != 1 || c.References[0] != "https://ref.example/page" {
			t.Errorf("chunk %d references = %v, want the parent passage's URL", i, c.References)
		}
		if c.Seq != i {
			t.Errorf("chunk %d has Seq %d", i, c.Seq)
		}
		if c.ID == "" {
			t.Errorf("chunk %d has empty ID", i)
		}
	}
}

func TestIngestAll_Glob(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"a.md", "b.md"} {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("Paragraph in "+f+".\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	chunks, err := IngestAll(filepath.Join(dir, "*.md"), DefaultOptions())
	if err != nil {
		t.Fatalf("IngestAll() error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Seq != i {
			t.Errorf("chunk %d Seq = %d after renumbering", i, c.Seq)
		}
	}
}

func TestIngestAll_NoMatches(t *testing.T) {
	_, err := IngestAll(filepath.Join(t.TempDir(), "*.doc"), DefaultOptions())
	if err == nil {
		t.Fatal("expected error for empty glob")
	}
}
