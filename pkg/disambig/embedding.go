package disambig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/orsinium-labs/stopwords"

	"github.com/kittclouds/quantkit/internal/store"
	"github.com/kittclouds/quantkit/pkg/catalog"
)

// DefaultModelName is the sentence transformer used for context
// embeddings. It produces 384-dimensional vectors.
const DefaultModelName = "sentence-transformers/all-MiniLM-L6-v2"

// defaultNeighbors is how many trained sentences vote per choice.
const defaultNeighbors = 5

// EmbedFunc turns text into a fixed-width embedding.
type EmbedFunc func(text string) ([]float32, error)

// EmbeddingClassifier disambiguates by embedding the context sentence
// and letting the nearest trained sentences vote. Training sentences
// and their labels live in the corpus store.
type EmbeddingClassifier struct {
	embed   EmbedFunc
	store   store.Storer
	sw      *stopwords.Stopwords
	k       int
	destroy func() error
}

// NewEmbeddingClassifier loads the ONNX model at modelPath and wires
// the classifier to the given corpus store.
func NewEmbeddingClassifier(modelPath string, st store.Storer) (*EmbeddingClassifier, error) {
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("disambig: create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "context-embedder",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("disambig: create pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("disambig: create pipeline: %w", err)
	}

	embed := func(text string) ([]float32, error) {
		result, err := pipeline.RunPipeline([]string{text})
		if err != nil {
			return nil, fmt.Errorf("disambig: embed: %w", err)
		}
		if len(result.Embeddings) == 0 {
			return nil, fmt.Errorf("disambig: no embedding generated")
		}
		return result.Embeddings[0], nil
	}

	c := NewEmbeddingClassifierFunc(embed, st)
	c.destroy = session.Destroy
	return c, nil
}

// NewEmbeddingClassifierFunc wires the classifier to a caller-provided
// embedder. Useful for tests and alternative backends.
func NewEmbeddingClassifierFunc(embed EmbedFunc, st store.Storer) *EmbeddingClassifier {
	return &EmbeddingClassifier{
		embed: embed,
		store: st,
		sw:    stopwords.MustGet("en"),
		k:     defaultNeighbors,
	}
}

// PrepareModel downloads the default model into modelDir if it is not
// there yet and returns the model path.
func PrepareModel(modelDir string) (string, error) {
	modelPath := filepath.Join(modelDir, strings.ReplaceAll(DefaultModelName, "/", "_"))

	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		if err := os.MkdirAll(modelDir, 0755); err != nil {
			return "", fmt.Errorf("disambig: create model directory: %w", err)
		}
		downloadOptions := hugot.NewDownloadOptions()
		downloadOptions.OnnxFilePath = "onnx/model.onnx"
		downloadedPath, err := hugot.DownloadModel(DefaultModelName, modelDir, downloadOptions)
		if err != nil {
			return "", fmt.Errorf("disambig: download model: %w", err)
		}
		modelPath = downloadedPath
	}

	return modelPath, nil
}

// Train records one labeled sentence: its embedding goes into the
// vector index and its non-stopword tokens into the word-count corpus.
// The label may be a unit name or an entity name.
func (c *EmbeddingClassifier) Train(label, sentence string) error {
	embedding, err := c.embed(sentence)
	if err != nil {
		return err
	}
	if err := c.store.AddContextEmbedding(label, embedding); err != nil {
		return err
	}

	var counts []store.WordCount
	for _, w := range strings.Fields(strings.ToLower(sentence)) {
		if c.sw.Contains(w) {
			continue
		}
		counts = append(counts, store.WordCount{UnitName: label, Word: w, Count: 1})
	}
	return c.store.AddWordCounts(counts)
}

// ChooseUnit embeds the context and votes among the nearest trained
// sentences whose label is one of the candidates.
func (c *EmbeddingClassifier) ChooseUnit(candidates []*catalog.Unit, context string) (*catalog.Unit, error) {
	names := make([]string, len(candidates))
	for i, u := range candidates {
		names[i] = u.Name
	}
	idx, err := c.vote(names, context)
	if err != nil {
		return nil, err
	}
	return candidates[idx], nil
}

// ChooseEntity is the entity counterpart of ChooseUnit; it expects
// training sentences labeled with entity names.
func (c *EmbeddingClassifier) ChooseEntity(candidates []*catalog.Entity, context string) (*catalog.Entity, error) {
	names := make([]string, len(candidates))
	for i, e := range candidates {
		names[i] = e.Name
	}
	idx, err := c.vote(names, context)
	if err != nil {
		return nil, err
	}
	return candidates[idx], nil
}

var _ Strategy = (*EmbeddingClassifier)(nil)

// vote returns the candidate index with the most nearest-neighbor
// votes. Neighbors arrive sorted by distance, so on a tied vote count
// the candidate seen first (nearer) wins.
func (c *EmbeddingClassifier) vote(names []string, context string) (int, error) {
	embedding, err := c.embed(context)
	if err != nil {
		return 0, err
	}
	neighbors, err := c.store.NearestUnits(embedding, c.k)
	if err != nil {
		return 0, err
	}

	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}

	votes := make([]int, len(names))
	order := make([]int, len(names))
	for rank, n := range neighbors {
		i, ok := index[n.UnitName]
		if !ok {
			continue
		}
		if votes[i] == 0 {
			order[i] = rank
		}
		votes[i]++
	}

	bestIdx := -1
	for i, v := range votes {
		if v == 0 {
			continue
		}
		if bestIdx < 0 || v > votes[bestIdx] || (v == votes[bestIdx] && order[i] < order[bestIdx]) {
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return 0, ErrNoChoice
	}
	return bestIdx, nil
}

// Close releases the model session.
func (c *EmbeddingClassifier) Close() error {
	if c.destroy != nil {
		return c.destroy()
	}
	return nil
}
