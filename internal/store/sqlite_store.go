// SQLite-backed corpus store. Uses ncruces/go-sqlite3/driver which
// provides a database/sql interface, with sqlite-vec loaded for the
// embedding index.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"

	_ "github.com/asg017/sqlite-vec-go-bindings/ncruces"
	_ "github.com/ncruces/go-sqlite3/driver"
)

// SQLiteStore is the SQLite-backed corpus store.
// Thread-safe for concurrent parser callers.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// embeddingDim matches the all-MiniLM-L6-v2 output width.
const embeddingDim = 384

const schema = `
-- Word counts per unit, accumulated from training sentences
CREATE TABLE IF NOT EXISTS word_counts (
    id TEXT PRIMARY KEY,
    unit_name TEXT NOT NULL,
    word TEXT NOT NULL,
    count INTEGER NOT NULL DEFAULT 1,
    UNIQUE (unit_name, word)
);

CREATE INDEX IF NOT EXISTS idx_word_counts_unit ON word_counts(unit_name);
CREATE INDEX IF NOT EXISTS idx_word_counts_word ON word_counts(word);

-- Unit label per embedding row; rowid pairs with context_embeddings
CREATE TABLE IF NOT EXISTS context_units (
    rowid INTEGER PRIMARY KEY,
    unit_name TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_context_units_unit ON context_units(unit_name);

-- Vector index over training-sentence embeddings
CREATE VIRTUAL TABLE IF NOT EXISTS context_embeddings USING vec0(
    embedding float[384]
);
`

// NewSQLiteStore creates a new in-memory corpus store.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithDSN(":memory:")
}

// NewSQLiteStoreWithDSN creates a store with a specific data source name.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewSQLiteStoreWithDSN(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// =============================================================================
// Word counts
// =============================================================================

// AddWordCounts accumulates counts into the corpus. An existing
// (unit, word) row has the incoming count added to it.
func (s *SQLiteStore) AddWordCounts(counts []WordCount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, wc := range counts {
		id := wc.ID
		if id == "" {
			id = uuid.NewString()
		}
		count := wc.Count
		if count == 0 {
			count = 1
		}
		_, err := tx.Exec(`
			INSERT INTO word_counts (id, unit_name, word, count)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (unit_name, word) DO UPDATE SET count = count + excluded.count
		`, id, wc.UnitName, wc.Word, count)
		if err != nil {
			return fmt.Errorf("add word count %s/%s: %w", wc.UnitName, wc.Word, err)
		}
	}

	return tx.Commit()
}

// WordCounts returns every word count recorded for one unit.
func (s *SQLiteStore) WordCounts(unitName string) ([]WordCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, unit_name, word, count FROM word_counts
		WHERE unit_name = ? ORDER BY word
	`, unitName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWordCounts(rows)
}

// WordCountsForWords returns all counts whose word is in the given set,
// across every unit. Used to score context words against candidates.
func (s *SQLiteStore) WordCountsForWords(words []string) ([]WordCount, error) {
	if len(words) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := strings.Repeat("?,", len(words))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(words))
	for i, w := range words {
		args[i] = w
	}

	rows, err := s.db.Query(`
		SELECT id, unit_name, word, count FROM word_counts
		WHERE word IN (`+placeholders+`) ORDER BY unit_name, word
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWordCounts(rows)
}

// TrainedUnits lists every unit name with at least one word count.
func (s *SQLiteStore) TrainedUnits() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT DISTINCT unit_name FROM word_counts ORDER BY unit_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		units = append(units, name)
	}
	return units, rows.Err()
}

func scanWordCounts(rows *sql.Rows) ([]WordCount, error) {
	var out []WordCount
	for rows.Next() {
		var wc WordCount
		if err := rows.Scan(&wc.ID, &wc.UnitName, &wc.Word, &wc.Count); err != nil {
			return nil, err
		}
		out = append(out, wc)
	}
	return out, rows.Err()
}

// =============================================================================
// Context embeddings
// =============================================================================

// AddContextEmbedding indexes one training-sentence embedding under the
// unit it was labeled with.
func (s *SQLiteStore) AddContextEmbedding(unitName string, embedding []float32) error {
	if len(embedding) != embeddingDim {
		return fmt.Errorf("embedding has %d dimensions, want %d", len(embedding), embeddingDim)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	vec, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("encode embedding: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO context_embeddings (embedding) VALUES (?)`, string(vec))
	if err != nil {
		return fmt.Errorf("insert embedding: %w", err)
	}
	rowid, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("embedding rowid: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO context_units (rowid, unit_name) VALUES (?, ?)`, rowid, unitName); err != nil {
		return fmt.Errorf("insert context unit: %w", err)
	}

	return tx.Commit()
}

// NearestUnits runs a KNN query against the embedding index and returns
// the unit labels of the k closest training sentences.
func (s *SQLiteStore) NearestUnits(embedding []float32, k int) ([]Neighbor, error) {
	if len(embedding) != embeddingDim {
		return nil, fmt.Errorf("embedding has %d dimensions, want %d", len(embedding), embeddingDim)
	}
	if k <= 0 {
		k = 1
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	vec, err := json.Marshal(embedding)
	if err != nil {
		return nil, fmt.Errorf("encode embedding: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT u.unit_name, e.distance
		FROM context_embeddings e
		JOIN context_units u ON u.rowid = e.rowid
		WHERE e.embedding MATCH ? AND k = ?
		ORDER BY e.distance
	`, string(vec), k)
	if err != nil {
		return nil, fmt.Errorf("knn query: %w", err)
	}
	defer rows.Close()

	var out []Neighbor
	for rows.Next() {
		var n Neighbor
		if err := rows.Scan(&n.UnitName, &n.Distance); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// CountEmbeddings returns how many training sentences are indexed.
func (s *SQLiteStore) CountEmbeddings() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM context_units`).Scan(&count)
	return count, err
}

// =============================================================================
// Export/Import
// =============================================================================

type exportData struct {
	WordCounts []WordCount       `json:"wordCounts"`
	Embeddings []exportEmbedding `json:"embeddings"`
}

type exportEmbedding struct {
	UnitName  string    `json:"unitName"`
	Embedding []float32 `json:"embedding"`
}

// Export serializes the corpus to JSON for snapshots.
func (s *SQLiteStore) Export() ([]byte, error) {
	var data exportData

	counts, err := s.allWordCounts()
	if err != nil {
		return nil, fmt.Errorf("export word counts: %w", err)
	}
	data.WordCounts = counts

	s.mu.RLock()
	rows, err := s.db.Query(`
		SELECT u.unit_name, e.embedding
		FROM context_units u
		JOIN context_embeddings e ON e.rowid = u.rowid
		ORDER BY u.rowid
	`)
	if err != nil {
		s.mu.RUnlock()
		return nil, fmt.Errorf("export embeddings: %w", err)
	}
	for rows.Next() {
		var ee exportEmbedding
		var raw []byte
		if err := rows.Scan(&ee.UnitName, &raw); err != nil {
			rows.Close()
			s.mu.RUnlock()
			return nil, fmt.Errorf("scan embedding: %w", err)
		}
		ee.Embedding = decodeVector(raw)
		data.Embeddings = append(data.Embeddings, ee)
	}
	rows.Close()
	s.mu.RUnlock()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return json.Marshal(data)
}

// Import replaces the corpus with a previously exported snapshot.
func (s *SQLiteStore) Import(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	var snapshot exportData
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("import unmarshal: %w", err)
	}

	s.mu.Lock()
	for _, table := range []string{"word_counts", "context_units", "context_embeddings"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	s.mu.Unlock()

	if err := s.AddWordCounts(snapshot.WordCounts); err != nil {
		return fmt.Errorf("import word counts: %w", err)
	}
	for _, ee := range snapshot.Embeddings {
		if err := s.AddContextEmbedding(ee.UnitName, ee.Embedding); err != nil {
			return fmt.Errorf("import embedding for %s: %w", ee.UnitName, err)
		}
	}
	return nil
}

func (s *SQLiteStore) allWordCounts() ([]WordCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, unit_name, word, count FROM word_counts ORDER BY unit_name, word`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWordCounts(rows)
}

// decodeVector reads a vec0 float[] column back into a slice. The column
// round-trips as a little-endian float32 blob.
func decodeVector(raw []byte) []float32 {
	out := make([]float32, 0, len(raw)/4)
	for i := 0; i+4 <= len(raw); i += 4 {
		bits := uint32(raw[i]) | uint32(raw[i+1])<<8 | uint32(raw[i+2])<<16 | uint32(raw[i+3])<<24
		out = append(out, math.Float32frombits(bits))
	}
	return out
}

// Verify interface compliance.
var _ Storer = (*SQLiteStore)(nil)
