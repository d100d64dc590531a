package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetValuesPlain(t *testing.T) {
	values, uncertainty, err := getValues("42")
	require.NoError(t, err)
	assert.Equal(t, []float64{42}, values)
	assert.Nil(t, uncertainty)
}

func TestGetValuesDecimal(t *testing.T) {
	values, _, err := getValues("3.14")
	require.NoError(t, err)
	assert.Equal(t, []float64{3.14}, values)
}

func TestGetValuesGrouping(t *testing.T) {
	values, _, err := getValues("1,234,567")
	require.NoError(t, err)
	assert.Equal(t, []float64{1234567}, values)
}

func TestGetValuesRange(t *testing.T) {
	values, uncertainty, err := getValues("30 to 35")
	require.NoError(t, err)
	assert.Equal(t, []float64{32.5}, values)
	require.NotNil(t, uncertainty)
	assert.Equal(t, 2.5, *uncertainty)
}

func TestGetValuesDashRange(t *testing.T) {
	values, uncertainty, err := getValues("3-5")
	require.NoError(t, err)
	assert.Equal(t, []float64{4}, values)
	require.NotNil(t, uncertainty)
	assert.Equal(t, 1.0, *uncertainty)
}

func TestGetValuesBackwardsRange(t *testing.T) {
	_, _, err := getValues("5 to 3")
	assert.Error(t, err)
}

func TestGetValuesUncertainty(t *testing.T) {
	values, uncertainty, err := getValues("1.5 +/- 0.2")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5}, values)
	require.NotNil(t, uncertainty)
	assert.Equal(t, 0.2, *uncertainty)
}

func TestGetValuesPlusMinusSign(t *testing.T) {
	values, uncertainty, err := getValues("100 ± 5")
	require.NoError(t, err)
	assert.Equal(t, []float64{100}, values)
	require.NotNil(t, uncertainty)
	assert.Equal(t, 5.0, *uncertainty)
}

func TestGetValuesFraction(t *testing.T) {
	values, _, err := getValues("1/4")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25}, values)
}

func TestGetValuesMixedFraction(t *testing.T) {
	values, _, err := getValues("2 1/2")
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5}, values)
}

func TestGetValuesVulgarFraction(t *testing.T) {
	values, _, err := getValues("½")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, values)
}

func TestGetValuesZeroDenominator(t *testing.T) {
	_, _, err := getValues("1/0")
	assert.Error(t, err)
}

func TestGetValuesScientific(t *testing.T) {
	values, _, err := getValues("1.5e3")
	require.NoError(t, err)
	assert.Equal(t, []float64{1500}, values)
}

func TestGetValuesExplicitExponent(t *testing.T) {
	values, _, err := getValues("3x10^5")
	require.NoError(t, err)
	assert.Equal(t, []float64{3e5}, values)
}

func TestGetValuesNegative(t *testing.T) {
	values, _, err := getValues("-7")
	require.NoError(t, err)
	assert.Equal(t, []float64{-7}, values)
}

func TestGetValuesGarbage(t *testing.T) {
	_, _, err := getValues("not a number")
	assert.Error(t, err)
}
