// Package store provides SQLite-backed persistence for the trained
// disambiguation corpus: per-unit word counts and context embeddings.
package store

// WordCount is one (unit, word) co-occurrence count accumulated from
// training sentences.
type WordCount struct {
	ID       string `json:"id"`
	UnitName string `json:"unitName"`
	Word     string `json:"word"`
	Count    int    `json:"count"`
}

// Neighbor is one nearest-neighbor result from the embedding index.
type Neighbor struct {
	UnitName string  `json:"unitName"`
	Distance float64 `json:"distance"`
}

// Storer defines the persistence surface the disambiguation layer uses.
// SQLiteStore is the sole implementation.
type Storer interface {
	// Word-count corpus
	AddWordCounts(counts []WordCount) error
	WordCounts(unitName string) ([]WordCount, error)
	WordCountsForWords(words []string) ([]WordCount, error)
	TrainedUnits() ([]string, error)

	// Context embeddings
	AddContextEmbedding(unitName string, embedding []float32) error
	NearestUnits(embedding []float32, k int) ([]Neighbor, error)
	CountEmbeddings() (int, error)

	// Export/Import (database serialization for corpus snapshots)
	Export() ([]byte, error)
	Import(data []byte) error

	// Lifecycle
	Close() error
}
