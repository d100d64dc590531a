package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/quantkit/pkg/catalog"
)

func testResolver(t *testing.T) (*Resolver, *catalog.Catalog) {
	t.Helper()
	src, err := catalog.General()
	require.NoError(t, err)
	c, err := catalog.Load(src)
	require.NoError(t, err)
	return New(c, nil), c
}

func TestAtomicKnownSurface(t *testing.T) {
	r, _ := testResolver(t)
	u, err := r.Atomic("km", "")
	require.NoError(t, err)
	assert.Equal(t, "kilometre", u.Name)
}

func TestAtomicUnknownSurface(t *testing.T) {
	r, _ := testResolver(t)
	_, err := r.Atomic("blorps", "")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestFromSegmentsEmpty(t *testing.T) {
	r, c := testResolver(t)
	u, err := r.FromSegments(nil, "")
	require.NoError(t, err)
	assert.Same(t, c.Dimensionless(), u)
}

func TestFromSegmentsSingle(t *testing.T) {
	r, c := testResolver(t)
	metre := c.Unit("metre")
	u, err := r.FromSegments([]Segment{{Unit: metre, Power: 1, Surface: "m"}}, "")
	require.NoError(t, err)
	assert.Same(t, metre, u)
}

func TestFromSegmentsCanonicalCompound(t *testing.T) {
	r, c := testResolver(t)
	segs := []Segment{
		{Unit: c.Unit("joule"), Power: 1, Surface: "J"},
		{Unit: c.Unit("second"), Power: -1, Surface: "s"},
	}
	u, err := r.FromSegments(segs, "")
	require.NoError(t, err)
	assert.Equal(t, "watt", u.Name)
}

func TestFromSegmentsSynthesized(t *testing.T) {
	r, c := testResolver(t)
	segs := []Segment{
		{Unit: c.Unit("metre"), Power: 1, Surface: "m"},
		{Unit: c.Unit("second"), Power: -2, Surface: "s"},
	}
	u, err := r.FromSegments(segs, "")
	require.NoError(t, err)
	assert.Equal(t, "metre per square second", u.Name)
	assert.NotNil(t, u.Entity)
	// Acceleration is not in the catalog, so the entity is synthesized.
	assert.Equal(t, "unknown", u.Entity.Name)
	assert.Nil(t, c.Unit(u.Name))
}

func TestFromSegmentsSquarePower(t *testing.T) {
	r, c := testResolver(t)
	segs := []Segment{{Unit: c.Unit("metre"), Power: 2, Surface: "m²"}}
	u, err := r.FromSegments(segs, "")
	require.NoError(t, err)
	assert.Equal(t, "square metre", u.Name)
}

func TestNameFromDimensions(t *testing.T) {
	cases := []struct {
		dims []catalog.Dimension
		want string
	}{
		{[]catalog.Dimension{{Base: "metre", Power: 2}}, "square metre"},
		{[]catalog.Dimension{{Base: "metre", Power: 3}}, "cubic metre"},
		{[]catalog.Dimension{{Base: "second", Power: 4}}, "second to the 4"},
		{[]catalog.Dimension{{Base: "metre", Power: 1}, {Base: "second", Power: -1}}, "metre per second"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NameFromDimensions(tc.dims), tc.want)
	}
}
