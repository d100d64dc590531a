package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPluralize(t *testing.T) {
	cases := map[string]string{
		"metre":             "metres",
		"inch":              "inches",
		"foot":              "feet",
		"hertz":             "hertz",
		"henry":             "henries",
		"day":               "days",
		"metre per second":  "metres per second",
		"degree Celsius":    "degrees Celsius",
		"pound sterling":    "pound sterlings",
		"mile per hour":     "miles per hour",
		"newton metre":      "newton metres",
		"dollar per hour":   "dollars per hour",
		"square metre":      "square metres",
		"kilometre per day": "kilometres per day",
	}
	for singular, plural := range cases {
		assert.Equal(t, plural, Pluralize(singular), singular)
	}
}

func TestNumberToWords(t *testing.T) {
	cases := map[float64]string{
		0:       "zero",
		3:       "three",
		15:      "fifteen",
		42:      "forty-two",
		100:     "one hundred",
		105:     "one hundred and five",
		1000:    "one thousand",
		1105:    "one thousand one hundred and five",
		2000000: "two million",
		-7:      "minus seven",
		2.5:     "two point five",
		0.25:    "zero point two five",
	}
	for value, words := range cases {
		assert.Equal(t, words, NumberToWords(value), "%g", value)
	}
}

func TestNumberWordsTable(t *testing.T) {
	words := NumberWords()
	assert.Equal(t, NumberWord{1, 7}, words["seven"])
	assert.Equal(t, NumberWord{1, 50}, words["fifty"])
	assert.Equal(t, NumberWord{1e9, 0}, words["billion"])
	assert.Equal(t, NumberWord{0.5, 0}, words["halves"])
	_, ok := words["apple"]
	assert.False(t, ok)
}

func TestScaleWords(t *testing.T) {
	assert.True(t, IsScaleWord("thousand"))
	assert.False(t, IsScaleWord("eleven"))
	assert.Equal(t, 1e6, ScaleValue("million"))
}
