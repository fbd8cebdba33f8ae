package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/jocelynow/travelpal/internal/corpus"
)

// ChunkStore persists chunks and their embedding vectors
type ChunkStore struct {
	db *DB
}

// NewChunkStore creates a new chunk store
func NewChunkStore(db *DB) *ChunkStore {
	return &ChunkStore{db: db}
}

// StoredChunk is a chunk together with its persisted vector
type StoredChunk struct {
	Chunk  corpus.Chunk
	Vector []float32
	Hash   string
	Model  string
}

// ContentHash returns the hash used to match a chunk against cached
// embeddings across re-indexing runs.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// SaveBatch inserts chunks and their vectors in one transaction.
// Chunks and vectors correspond by index; a nil vector stores the
// chunk without an embedding row.
func (s *ChunkStore) SaveBatch(chunks []corpus.Chunk, vectors [][]float32, model string) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	chunkStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO chunks (id, source, seq, text, refs, hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare chunk statement: %w", err)
	}
	defer chunkStmt.Close()

	vecStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO embeddings (chunk_id, vector, dimension, model, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare embedding statement: %w", err)
	}
	defer vecStmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)

	for i, c := range chunks {
		refs, err := json.Marshal(c.References)
		if err != nil {
			return fmt.Errorf("failed to marshal references for chunk %d: %w", i, err)
		}

		if _, err := chunkStmt.Exec(c.ID, c.Source, c.Seq, c.Text, string(refs), ContentHash(c.Text), now); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}

		if len(vectors[i]) == 0 {
			continue
		}
		blob, err := vectorToBlob(vectors[i])
		if err != nil {
			return fmt.Errorf("failed to convert vector %d to blob: %w", i, err)
		}
		if _, err := vecStmt.Exec(c.ID, blob, len(vectors[i]), model, now); err != nil {
			return fmt.Errorf("failed to insert vector %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}

// LoadAll returns every stored chunk with its vector, ordered by seq
func (s *ChunkStore) LoadAll() ([]StoredChunk, error) {
	query := `
		SELECT c.id, c.source, c.seq, c.text, c.refs, c.hash,
		       e.vector, e.dimension, e.model
		FROM chunks c
		LEFT JOIN embeddings e ON e.chunk_id = c.id
		ORDER BY c.seq
	`
	rows, err := s.db.sqlDB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var out []StoredChunk
	for rows.Next() {
		var sc StoredChunk
		var refs string
		var blob []byte
		var dimension sql.NullInt64
		var model sql.NullString

		if err := rows.Scan(&sc.Chunk.ID, &sc.Chunk.Source, &sc.Chunk.Seq, &sc.Chunk.Text,
			&refs, &sc.Hash, &blob, &dimension, &model); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}

		if err := json.Unmarshal([]byte(refs), &sc.Chunk.References); err != nil {
			return nil, fmt.Errorf("failed to unmarshal references: %w", err)
		}

		if len(blob) > 0 {
			vector, err := blobToVector(blob)
			if err != nil {
				return nil, fmt.Errorf("failed to convert blob to vector: %w", err)
			}
			if dimension.Valid && len(vector) != int(dimension.Int64) {
				return nil, fmt.Errorf("vector dimension mismatch: expected %d, got %d", dimension.Int64, len(vector))
			}
			sc.Vector = vector
		}
		if model.Valid {
			sc.Model = model.String
		}

		out = append(out, sc)
	}

	return out, rows.Err()
}

// VectorsByHash returns cached vectors for the given model keyed by
// content hash. Used to skip re-embedding unchanged chunks.
func (s *ChunkStore) VectorsByHash(model string) (map[string][]float32, error) {
	query := `
		SELECT c.hash, e.vector
		FROM chunks c
		JOIN embeddings e ON e.chunk_id = c.id
		WHERE e.model = ?
	`
	rows, err := s.db.sqlDB.Query(query, model)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached vectors: %w", err)
	}
	defer rows.Close()

	cached := make(map[string][]float32)
	for rows.Next() {
		var hash string
		var blob []byte
		if err := rows.Scan(&hash, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan cached vector: %w", err)
		}
		vector, err := blobToVector(blob)
		if err != nil {
			return nil, fmt.Errorf("failed to convert blob to vector: %w", err)
		}
		cached[hash] = vector
	}

	return cached, rows.Err()
}

// Count returns the number of stored chunks and embeddings
func (s *ChunkStore) Count() (chunks int, embeddings int, err error) {
	if err = s.db.sqlDB.QueryRow("SELECT COUNT(*) FROM chunks").Scan(&chunks); err != nil {
		return 0, 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	if err = s.db.sqlDB.QueryRow("SELECT COUNT(*) FROM embeddings").Scan(&embeddings); err != nil {
		return 0, 0, fmt.Errorf("failed to count embeddings: %w", err)
	}
	return chunks, embeddings, nil
}

// vectorToBlob converts a float32 vector to a little-endian binary blob
func vectorToBlob(vector []float32) ([]byte, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("cannot convert empty vector")
	}

	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob, nil
}

// blobToVector converts a binary blob back to a float32 vector
func blobToVector(blob []byte) ([]float32, error) {
	if len(blob) == 0 || len(blob)%4 != 0 {
		return nil, fmt.Errorf("invalid vector blob length: %d", len(blob))
	}

	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector, nil
}
