package domain

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
)

func TestAverageScore(t *testing.T) {
	assert.Equal(t, 0.0, AverageScore(nil))
	assert.Equal(t, 0.0, AverageScore([]Rating{}))

	ratings := []Rating{{Score: 5}, {Score: 3}, {Score: 4}}
	assert.Equal(t, 4.0, AverageScore(ratings))

	assert.Equal(t, 3.5, AverageScore([]Rating{{Score: 3}, {Score: 4}}))
}

func TestParseTargetType(t *testing.T) {
	cases := map[string]TargetType{
		"nominee":      TargetNominee,
		"nominees":     TargetNominee,
		"Institution":  TargetInstitution,
		"institutions": TargetInstitution,
		" nominee ":    TargetNominee,
	}
	for raw, want := range cases {
		got, ok := ParseTargetType(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got)
	}

	_, ok := ParseTargetType("company")
	assert.False(t, ok)
	_, ok = ParseTargetType("")
	assert.False(t, ok)
}

func TestFilterByCategory(t *testing.T) {
	catA := snowflake.ID(1)
	catB := snowflake.ID(2)
	ratings := []Rating{
		{CategoryID: catA, Score: 5},
		{CategoryID: catB, Score: 1},
		{CategoryID: catA, Score: 3},
	}

	filtered := FilterByCategory(ratings, catA)
	assert.Len(t, filtered, 2)
	for _, r := range filtered {
		assert.Equal(t, catA, r.CategoryID)
	}

	// Zero category means no filtering.
	assert.Len(t, FilterByCategory(ratings, 0), 3)
}

func TestAverageByCategory(t *testing.T) {
	categories := []RatingCategory{
		{ID: 1, Name: "Bribery"},
		{ID: 2, Name: "Nepotism"},
	}
	ratings := []Rating{
		{CategoryID: 1, Score: 5},
		{CategoryID: 1, Score: 3},
	}

	out := AverageByCategory(ratings, categories)
	assert.Len(t, out, 2)
	assert.Equal(t, 4.0, out[0].Average)
	assert.Equal(t, 2, out[0].Count)
	// Categories without ratings still appear with a zero average.
	assert.Equal(t, 0.0, out[1].Average)
	assert.Equal(t, 0, out[1].Count)
}
