package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/iliyamo/movie-rental-api/internal/pricing"
)

func TestMovie_Validate(t *testing.T) {
	valid := Movie{ImdbID: "tt0137523", Title: "Fight Club", ReleaseDate: NewDate(1999, time.October, 15)}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Movie)
	}{
		{"missing id", func(m *Movie) { m.ImdbID = "" }},
		{"blank id", func(m *Movie) { m.ImdbID = "   " }},
		{"missing title", func(m *Movie) { m.Title = "" }},
		{"missing release date", func(m *Movie) { m.ReleaseDate = Date{} }},
		{"ancient release date", func(m *Movie) { m.ReleaseDate = NewDate(999, time.January, 1) }},
		{"empty category", func(m *Movie) { m.Categories = []string{"drama", ""} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid.Clone()
			tt.mutate(&m)
			assert.ErrorIs(t, m.Validate(), ErrValidation)
		})
	}
}

func TestMovie_Reprice(t *testing.T) {
	m := Movie{ReleaseDate: NewDate(2020, time.January, 1)}

	m.Reprice(time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, pricing.TierNew, m.PriceClass)
	assert.Equal(t, "5.00", m.Price.StringFixed(2))

	m.Reprice(time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, pricing.TierRegular, m.PriceClass)
	assert.Equal(t, "3.49", m.Price.StringFixed(2))

	m.Reprice(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, pricing.TierOld, m.PriceClass)
	assert.Equal(t, "1.99", m.Price.StringFixed(2))
}

func TestMovie_HasCategory(t *testing.T) {
	m := Movie{Categories: []string{"Drama", " Thriller "}}
	assert.True(t, m.HasCategory("drama"))
	assert.True(t, m.HasCategory("THRILLER"))
	assert.True(t, m.HasCategory(" drama "))
	assert.False(t, m.HasCategory("comedy"))
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(2021, time.March, 9)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"09.03.2021"`, string(b))

	var got Date
	require.NoError(t, json.Unmarshal([]byte(`"09.03.2021"`), &got))
	assert.True(t, d.Equal(got.Time))

	require.NoError(t, json.Unmarshal([]byte(`"2021-03-09"`), &got))
	assert.True(t, d.Equal(got.Time))

	require.NoError(t, json.Unmarshal([]byte(`null`), &got))
	assert.True(t, got.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"March 9"`), &got))
}

func TestDate_ZeroMarshalsAsNull(t *testing.T) {
	b, err := json.Marshal(struct {
		D Date `json:"d"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":null}`, string(b))
}

func TestMovie_YAMLRoundTrip(t *testing.T) {
	m := Movie{
		ImdbID:      "tt1",
		Title:       "One",
		ReleaseDate: NewDate(2010, time.July, 16),
		Categories:  []string{"sci-fi"},
	}
	m.Reprice(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))

	b, err := yaml.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(b), "16.07.2010")

	var got Movie
	require.NoError(t, yaml.Unmarshal(b, &got))
	assert.Equal(t, m.ImdbID, got.ImdbID)
	assert.Equal(t, m.Title, got.Title)
	assert.True(t, m.ReleaseDate.Equal(got.ReleaseDate.Time))
	assert.Equal(t, m.Categories, got.Categories)
	assert.True(t, m.Price.Equal(got.Price))
}

func TestMovieMetadata_Found(t *testing.T) {
	assert.True(t, MovieMetadata{Response: "True"}.Found())
	assert.False(t, MovieMetadata{Response: "False"}.Found())
}
