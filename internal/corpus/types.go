package corpus

// Passage is one non-empty paragraph of a source document together with
// the reference URLs found in its text. Passages are immutable after
// ingestion.
type Passage struct {
	Text       string
	References []string // URLs in left-to-right order of appearance
	Source     string   // Source document name
}

// Chunk is the retrieval unit: a bounded-length slice of a Passage.
// Consecutive chunks from the same passage overlap so that no semantic
// break falls exactly on a boundary. A chunk never spans two passages.
type Chunk struct {
	ID         string
	Text       string
	References []string // Inherited from the parent passage
	Source     string
	Seq        int // Insertion order across the whole corpus
}
