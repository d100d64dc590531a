package disambig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/quantkit/internal/store"
	"github.com/kittclouds/quantkit/pkg/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	src, err := catalog.General()
	require.NoError(t, err)
	c, err := catalog.Load(src)
	require.NoError(t, err)
	return c
}

func TestDeterministicChoosesLowestName(t *testing.T) {
	c := testCatalog(t)
	candidates := []*catalog.Unit{c.Unit("pound sterling"), c.Unit("pound-mass")}
	require.NotContains(t, candidates, (*catalog.Unit)(nil))

	u, err := Deterministic{}.ChooseUnit(candidates, "no context at all")
	require.NoError(t, err)
	assert.Equal(t, "pound sterling", u.Name)
}

func TestChooseSingleCandidate(t *testing.T) {
	c := testCatalog(t)
	// A strategy that would fail must not be consulted for one candidate.
	u, err := Choose(failingStrategy{}, []*catalog.Unit{c.Unit("metre")}, "")
	require.NoError(t, err)
	assert.Equal(t, "metre", u.Name)
}

func TestChooseEmptyCandidates(t *testing.T) {
	_, err := Choose(nil, nil, "")
	assert.ErrorIs(t, err, ErrNoChoice)
}

type failingStrategy struct{}

func (failingStrategy) ChooseUnit([]*catalog.Unit, string) (*catalog.Unit, error) {
	return nil, assert.AnError
}

func (failingStrategy) ChooseEntity([]*catalog.Entity, string) (*catalog.Entity, error) {
	return nil, assert.AnError
}

func TestCorpusMatcherPound(t *testing.T) {
	c := testCatalog(t)
	m, err := NewCorpusMatcher()
	require.NoError(t, err)

	candidates := c.Candidates("pound")
	require.Len(t, candidates, 2)

	u, err := m.ChooseUnit(candidates, "he paid fifty pounds at the bank for the exchange")
	require.NoError(t, err)
	assert.Equal(t, "pound sterling", u.Name)

	u, err = m.ChooseUnit(candidates, "the baby gained two pounds of weight")
	require.NoError(t, err)
	assert.Equal(t, "pound-mass", u.Name)
}

func TestCorpusMatcherNoEvidence(t *testing.T) {
	c := testCatalog(t)
	m, err := NewCorpusMatcher()
	require.NoError(t, err)

	candidates := c.Candidates("pound")
	_, err = m.ChooseUnit(candidates, "xyzzy qwfp")
	assert.ErrorIs(t, err, ErrNoChoice)

	// Choose falls back deterministically.
	u, err := Choose(m, candidates, "xyzzy qwfp")
	require.NoError(t, err)
	assert.Equal(t, "pound sterling", u.Name)
}

func TestCorpusMatcherEntity(t *testing.T) {
	c := testCatalog(t)
	m, err := NewCorpusMatcher()
	require.NoError(t, err)

	candidates := []*catalog.Entity{c.Entity("energy"), c.Entity("torque")}
	require.NotContains(t, candidates, (*catalog.Entity)(nil))

	e, err := m.ChooseEntity(candidates, "tighten the bolt with a torque wrench on the engine shaft")
	require.NoError(t, err)
	assert.Equal(t, "torque", e.Name)

	e, err = m.ChooseEntity(candidates, "the heat released when the fuel burns")
	require.NoError(t, err)
	assert.Equal(t, "energy", e.Name)
}

func TestEmbeddingClassifierVote(t *testing.T) {
	c := testCatalog(t)
	st, err := store.NewSQLiteStore()
	require.NoError(t, err)
	defer st.Close()

	// Deterministic stand-in embedder: each known text gets its own axis.
	axes := map[string]int{
		"the rope was two metres long":     0,
		"the race track measured length":   0,
		"wait two minutes for the kettle":  1,
		"the meeting ran ten minutes late": 1,
	}
	embed := func(text string) ([]float32, error) {
		v := make([]float32, 384)
		if i, ok := axes[text]; ok {
			v[i] = 1
		}
		return v, nil
	}

	cls := NewEmbeddingClassifierFunc(embed, st)
	require.NoError(t, cls.Train("metre", "the rope was two metres long"))
	require.NoError(t, cls.Train("metre", "the race track measured length"))
	require.NoError(t, cls.Train("minute", "wait two minutes for the kettle"))
	require.NoError(t, cls.Train("minute", "the meeting ran ten minutes late"))

	candidates := c.Candidates("m")
	require.NotEmpty(t, candidates)

	// Context embeds onto the metre axis.
	axes["it stretched along the road"] = 0
	u, err := cls.ChooseUnit(candidates, "it stretched along the road")
	require.NoError(t, err)
	assert.Equal(t, "metre", u.Name)

	// A context with no trained neighbors among the candidates.
	other := []*catalog.Unit{c.Unit("mile")}
	axes["completely unrelated"] = 1
	_, err = cls.ChooseUnit(other, "completely unrelated")
	assert.ErrorIs(t, err, ErrNoChoice)
}

func TestEmbeddingClassifierTrainRecordsWords(t *testing.T) {
	st, err := store.NewSQLiteStore()
	require.NoError(t, err)
	defer st.Close()

	embed := func(string) ([]float32, error) {
		return make([]float32, 384), nil
	}
	cls := NewEmbeddingClassifierFunc(embed, st)
	require.NoError(t, cls.Train("gallon", "filled the tank with fuel"))

	counts, err := st.WordCounts("gallon")
	require.NoError(t, err)
	words := make([]string, len(counts))
	for i, wc := range counts {
		words[i] = wc.Word
	}
	assert.Contains(t, words, "tank")
	assert.Contains(t, words, "fuel")
	assert.NotContains(t, words, "the")
}
