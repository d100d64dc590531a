package words

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/quantkit/pkg/catalog"
)

func testDictionary(t *testing.T) *Dictionary {
	t.Helper()
	src, err := catalog.General()
	require.NoError(t, err)
	c, err := catalog.Load(src)
	require.NoError(t, err)
	return New(c)
}

func TestIsCommon(t *testing.T) {
	d := testDictionary(t)
	assert.True(t, d.IsCommon("about"))
	assert.True(t, d.IsCommon("About"), "lookup is case-insensitive")
	assert.True(t, d.IsCommon("words"), "plurals are indexed")
	assert.False(t, d.IsCommon("xylophone"))
}

func TestUnitSurfacesExcluded(t *testing.T) {
	d := testDictionary(t)
	// "in" is the inch symbol, "day" and "time" are unit surfaces; none
	// of them may shadow a unit reading.
	assert.False(t, d.IsCommon("in"))
	assert.False(t, d.IsCommon("day"))
	assert.False(t, d.IsCommon("time"))
}
