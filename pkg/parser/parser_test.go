package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParser(t *testing.T) *Parser {
	t.Helper()
	p, err := New(Options{})
	require.NoError(t, err)
	return p
}

func parseOne(t *testing.T, p *Parser, text string) Quantity {
	t.Helper()
	qs, err := p.Parse(text)
	require.NoError(t, err)
	require.Len(t, qs, 1, "text: %q", text)
	return qs[0]
}

func TestParseSimpleUnit(t *testing.T) {
	p := testParser(t)
	q := parseOne(t, p, "the tower is 52 metres tall")
	assert.Equal(t, 52.0, q.Value)
	assert.Equal(t, "metre", q.Unit.Name)
	assert.Equal(t, "52 metres", q.Surface)
	assert.Equal(t, [2]int{13, 22}, q.Span)
}

func TestParseSymbolUnit(t *testing.T) {
	p := testParser(t)
	q := parseOne(t, p, "the car was going 60 mph on the highway")
	assert.Equal(t, 60.0, q.Value)
	assert.Equal(t, "mile per hour", q.Unit.Name)
}

func TestParseCurrencyPrefix(t *testing.T) {
	p := testParser(t)
	q := parseOne(t, p, "the ticket cost $20 at the door")
	assert.Equal(t, 20.0, q.Value)
	assert.Equal(t, "dollar", q.Unit.Name)
	assert.Equal(t, "$20", q.Surface)
}

func TestParseCompoundSynthesized(t *testing.T) {
	p := testParser(t)
	q := parseOne(t, p, "I want $20/h for this")
	assert.Equal(t, 20.0, q.Value)
	assert.Equal(t, "dollar per hour", q.Unit.Name)
	assert.Equal(t, "unknown", q.Unit.Entity.Name)
}

func TestParseCanonicalCompound(t *testing.T) {
	p := testParser(t)
	q := parseOne(t, p, "an area of 25 m² was cleared")
	assert.Equal(t, 25.0, q.Value)
	assert.Equal(t, "square metre", q.Unit.Name)
}

func TestParseSpellout(t *testing.T) {
	p := testParser(t)
	q := parseOne(t, p, "it took two and a half hours to finish")
	assert.Equal(t, 2.5, q.Value)
	assert.Equal(t, "hour", q.Unit.Name)
}

func TestParseSpelloutSpanMapsToOriginal(t *testing.T) {
	p := testParser(t)
	text := "I counted twenty dogs"
	q := parseOne(t, p, text)
	assert.Equal(t, 20.0, q.Value)
	assert.Equal(t, "dimensionless", q.Unit.Name)
	assert.Equal(t, "twenty", q.Surface)
	assert.Equal(t, "twenty", text[q.Span[0]:q.Span[1]])
}

func TestParseRangeValue(t *testing.T) {
	p := testParser(t)
	q := parseOne(t, p, "a hike of 3 to 5 km through the woods")
	assert.Equal(t, 4.0, q.Value)
	assert.Equal(t, "kilometre", q.Unit.Name)
	require.NotNil(t, q.Uncertainty)
	assert.Equal(t, 1.0, *q.Uncertainty)
}

func TestParseUncertainty(t *testing.T) {
	p := testParser(t)
	q := parseOne(t, p, "the plank measured 1.5 +/- 0.2 m")
	assert.Equal(t, 1.5, q.Value)
	require.NotNil(t, q.Uncertainty)
	assert.Equal(t, 0.2, *q.Uncertainty)
	assert.Equal(t, "metre", q.Unit.Name)
}

func TestParseFractionValue(t *testing.T) {
	p := testParser(t)
	q := parseOne(t, p, "add 1/2 cup of sugar")
	assert.Equal(t, 0.5, q.Value)
}

func TestParseGroupedThousands(t *testing.T) {
	p := testParser(t)
	q := parseOne(t, p, "they shipped 1,000 kg of flour")
	assert.Equal(t, 1000.0, q.Value)
	assert.Equal(t, "kilogram", q.Unit.Name)
}

func TestParseDecade(t *testing.T) {
	p := testParser(t)
	q := parseOne(t, p, "pop music of the 1990s was different")
	assert.Equal(t, 1990.0, q.Value)
	assert.Equal(t, "dimensionless", q.Unit.Name)
	assert.Equal(t, "1990", q.Surface)
}

func TestParseCurrencySuffix(t *testing.T) {
	p := testParser(t)
	q := parseOne(t, p, "the deal was worth $3T overall")
	assert.Equal(t, 3e12, q.Value)
	assert.Equal(t, "dollar", q.Unit.Name)
}

func TestParseColloquialSuffix(t *testing.T) {
	p := testParser(t)
	q := parseOne(t, p, "the odometer read 5k miles")
	assert.Equal(t, 5000.0, q.Value)
	assert.Equal(t, "mile", q.Unit.Name)
}

func TestParseASecondDiscarded(t *testing.T) {
	p := testParser(t)
	qs, err := p.Parse("wait a second before you answer")
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestParseOrdinalDiscarded(t *testing.T) {
	p := testParser(t)
	qs, err := p.Parse("she finished in 4th place")
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestParseSerialCodeDiscarded(t *testing.T) {
	p := testParser(t)
	qs, err := p.Parse("flight 3U8633 departed on time")
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestParseBetweenRangeMerge(t *testing.T) {
	p := testParser(t)
	q := parseOne(t, p, "take between 44 and 50 mg daily")
	assert.Equal(t, 47.0, q.Value)
	assert.Equal(t, "milligram", q.Unit.Name)
	require.NotNil(t, q.Uncertainty)
	assert.Equal(t, 3.0, *q.Uncertainty)
	assert.Equal(t, "44 and 50 mg", q.Surface)
}

func TestParseCoordinationBorrowsUnit(t *testing.T) {
	p := testParser(t)
	qs, err := p.Parse("doses of 45 or 50 mg were given")
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, 45.0, qs[0].Value)
	assert.Equal(t, "milligram", qs[0].Unit.Name)
	assert.Equal(t, 50.0, qs[1].Value)
	assert.Equal(t, "milligram", qs[1].Unit.Name)
}

func TestParseGenitiveNotUnit(t *testing.T) {
	p := testParser(t)
	qs, err := p.Parse("we used 5 of Peter's nails")
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "dimensionless", qs[0].Unit.Name)
}

func TestParseNoQuantities(t *testing.T) {
	p := testParser(t)
	qs, err := p.Parse("nothing numeric lives here")
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestInlineReplace(t *testing.T) {
	p := testParser(t)
	out, err := p.InlineReplace("the rope is two metres long")
	require.NoError(t, err)
	assert.Equal(t, "the rope is 2 metre long", out)
}

func TestInlineExpand(t *testing.T) {
	p := testParser(t)
	out, err := p.InlineExpand("it weighs 3 kg now")
	require.NoError(t, err)
	assert.Equal(t, "it weighs three kilograms now", out)
}

func TestCleanTextPreservesLength(t *testing.T) {
	cases := []string{
		"3 × 4 m",
		"Peter's 5 apples",
		"the girls' 7 kites",
		"a –5 °C morning",
	}
	for _, tc := range cases {
		assert.Equal(t, len([]rune(tc)), len([]rune(cleanText(tc))), tc)
	}
}

func TestParseNeverPanics(t *testing.T) {
	p := testParser(t)
	inputs := []string{
		"",
		" ",
		"-",
		"''\"\"",
		"1/0 cups",
		"3 to 1 km",
		"£$€ 5",
		"twenty twenty",
		"1,23,456 m",
		"10^ m",
		"⅞⅞⅞",
		"5 m/s/s/s/s",
		"between and",
		"9999999999999999999999 miles",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			_, _ = p.Parse(in)
		}, "input: %q", in)
	}
}

func FuzzParse(f *testing.F) {
	p, err := New(Options{})
	if err != nil {
		f.Fatal(err)
	}
	f.Add("I want $20/h for this")
	f.Add("a hike of 3 to 5 km")
	f.Add("the deal was worth $3T")
	f.Add("between 44 and 50 mg")
	f.Add("two and a half hours")
	f.Add("25 m² at -1.5e3 ⅞ °C")
	f.Fuzz(func(t *testing.T, text string) {
		quantities, _ := p.Parse(text)
		runes := []rune(text)
		for _, q := range quantities {
			if q.Span[0] < 0 || q.Span[1] > len(runes) || q.Span[0] > q.Span[1] {
				t.Fatalf("span %v outside text of length %d", q.Span, len(runes))
			}
		}
	})
}
