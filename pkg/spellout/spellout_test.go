package spellout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replacements(text string) []string {
	subs := Extract(text)
	if len(subs) == 0 {
		return nil
	}
	out := make([]string, 0, len(subs))
	for _, s := range subs {
		out = append(out, s.Replacement)
	}
	return out
}

func TestExtract(t *testing.T) {
	cases := []struct {
		input string
		want  []string
	}{
		{"one hundred and five", []string{"105.0"}},
		{"a million", []string{"1000000.0"}},
		{"a million and one", []string{"1000001.0"}},
		{"million", []string{"1000000.0"}},
		{"million and one", []string{"1000001.0"}},
		{"one hundred million", []string{"100000000.0"}},
		{"one hundred and five million", []string{"105000000.0"}},
		{"half", []string{"0.5"}},
		{"two and a half", []string{"2.5"}},
		{"two and a half million", []string{"2500000.0"}},
		{"twenty six million and seventy two hundred", []string{"26007200.0"}},
		{"twenty", []string{"20.0"}},
		{"zero", []string{"0.0"}},
		{"several hundred years", nil},
		{"Zero is a small number.", []string{"0.0", "1.0"}},
		{"a million and a half", []string{"1000000.5"}},
		{"one and a half million", []string{"1500000.0"}},
		{"two hundred fifty thousand and twenty two", []string{"250022.0"}},
		{"ninety nine", []string{"99.0"}},
		{"two thousand six hundred forty five", []string{"2645.0"}},
		{"seven million five hundred twenty thousand", []string{"7520000.0"}},

		// phrase splitting
		{"twenty thirty fifty hundred", []string{"20.0", "30.0", "5000.0"}},
		{"one, two, three", []string{"1.0", "2.0", "3.0"}},
		{"one, two and three", []string{"1.0", "2.0", "3.0"}},
		{"one and two and three", []string{"1.0", "2.0", "3.0"}},
		{"one two and three", []string{"1.0", "2.0", "3.0"}},
		{"twenty five and thirty six", []string{"25.0", "36.0"}},
		{"twenty five thirty six one hundred", []string{"25.0", "36.0", "100.0"}},
		{"hundred and five hundred and six", []string{"105.0", "106.0"}},
		{"hundred and five twenty two", []string{"105.0", "22.0"}},
		{"hundred and five twenty two million", []string{"105.0", "22000000.0"}},

		// negatives
		{"minus ten", []string{"-10.0"}},
		{"minus a million and a half", []string{"-1000000.5"}},
		{"negative million and a half", []string{"-1000000.5"}},
		{"minus twenty five and thirty six", []string{"-25.0", "36.0"}},
		{"twenty five and minus thirty six", []string{"25.0", "-36.0"}},
		{"negative twenty five and minus thirty six", []string{"-25.0", "-36.0"}},

		// mixed digits and words
		{"5 million", []string{"5000000.0"}},
		{"over 3 thousand people", []string{"3000.0"}},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, replacements(tc.input))
		})
	}
}

func TestRunsJoinAcrossSpacesAndHyphens(t *testing.T) {
	assert.Equal(t, []string{"25.0"}, replacements("twenty-five"))
	assert.Equal(t, []string{"105.0"}, replacements("one hundred and five"))
	// Other punctuation still separates numbers.
	assert.Equal(t, []string{"20.0", "30.0"}, replacements("twenty; thirty"))
	assert.Equal(t, []string{"7.0", "8.0"}, replacements("seven. eight"))
}

func TestExtractSpans(t *testing.T) {
	text := "It took twenty-five days, give or take."
	subs := Extract(text)
	require.Len(t, subs, 1)
	assert.Equal(t, "twenty-five", subs[0].Surface)
	assert.Equal(t, "twenty-five", string([]rune(text)[subs[0].Start:subs[0].End]))
	assert.Equal(t, 25.0, subs[0].Value)
}

func TestPureDigitsLeftAlone(t *testing.T) {
	assert.Empty(t, Extract("there are 365 days and 12 months"))
}

func TestSubstitute(t *testing.T) {
	text := "I want twenty bucks and a half hour"
	subs := Extract(text)
	out, shifts := Substitute(text, subs)
	assert.Equal(t, "I want 20.0 bucks and 0.5 hour", out)
	require.NotNil(t, shifts)

	// Positions before the first substitution map to themselves.
	s, e := shifts.Span(0, 6)
	assert.Equal(t, 0, s)
	assert.Equal(t, 6, e)
}

func TestShiftMapRoundTrip(t *testing.T) {
	text := "one hundred and five cats and twenty dogs"
	subs := Extract(text)
	require.Len(t, subs, 2)
	out, shifts := Substitute(text, subs)
	assert.Equal(t, "105.0 cats and 20.0 dogs", out)

	runes := []rune(out)
	orig := []rune(text)

	// "cats" in the substituted text maps back onto "cats" in the original.
	catStart := 6
	assert.Equal(t, "cats", string(runes[catStart:catStart+4]))
	s, e := shifts.Span(catStart, catStart+4)
	assert.Equal(t, "cats", string(orig[s:e]))

	// "dogs" sits after both substitutions.
	dogStart := len(runes) - 4
	assert.Equal(t, "dogs", string(runes[dogStart:]))
	s, e = shifts.Span(dogStart, len(runes))
	assert.Equal(t, "dogs", string(orig[s:e]))

	// A span covering a substitution maps onto the spelled-out surface.
	s, e = shifts.Span(0, 5)
	assert.Equal(t, "one hundred and five", string(orig[s:e]))
}

func TestShiftMapEmpty(t *testing.T) {
	out, shifts := Substitute("no numbers here", nil)
	assert.Equal(t, "no numbers here", out)
	assert.Equal(t, 0, shifts.At(7))
}
