package answer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercase and punctuation", in: "  Can I eat MUTTON?? ", want: "can eat mutton"},
		{name: "collapses whitespace", in: "is   fish\tsafe", want: "fish safe"},
		{name: "only stopwords kept", in: "Is it?", want: "is it"},
		{name: "empty", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNewQuery_RejectsEmpty(t *testing.T) {
	_, err := NewQuery("?!", Context{}, "c1")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestCacheKey_DependsOnContext(t *testing.T) {
	q2, err := NewQuery("Can I eat dates?", Context{Trimester: TrimesterT2}, "c1")
	require.NoError(t, err)
	q3, err := NewQuery("can i eat dates", Context{Trimester: TrimesterT3}, "c1")
	require.NoError(t, err)
	q2b, err := NewQuery("can I eat dates!", Context{Trimester: TrimesterT2}, "other-client")
	require.NoError(t, err)

	assert.NotEqual(t, q2.CacheKey(), q3.CacheKey())
	assert.Equal(t, q2.CacheKey(), q2b.CacheKey())
}

func TestParseContext(t *testing.T) {
	c, err := ParseContext(RawContext{Trimester: "2", Region: "South", Diet: "veg", Condition: "anemia"})
	require.NoError(t, err)
	assert.Equal(t, Context{Trimester: TrimesterT2, Region: RegionSouth, Diet: DietVegetarian, Condition: ConditionAnemia}, c)

	empty, err := ParseContext(RawContext{})
	require.NoError(t, err)
	assert.Equal(t, Context{}, empty)
}

func TestParseContext_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		raw   RawContext
		field string
	}{
		{name: "trimester", raw: RawContext{Trimester: "T4"}, field: "trimester"},
		{name: "region", raw: RawContext{Region: "mars"}, field: "region"},
		{name: "diet", raw: RawContext{Diet: "carnivore"}, field: "diet"},
		{name: "condition", raw: RawContext{Condition: "flu"}, field: "condition"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseContext(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedContext))

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestTier_NeedsDisclaimer(t *testing.T) {
	assert.False(t, TierDataset.NeedsDisclaimer())
	assert.True(t, TierAIPrimary.NeedsDisclaimer())
	assert.True(t, TierAISecondary.NeedsDisclaimer())
	assert.True(t, TierRuleBased.NeedsDisclaimer())
}
