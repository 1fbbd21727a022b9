package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/movie-rental-api/internal/pricing"
)

// earliestRelease rejects dates that cannot belong to a film.
var earliestRelease = NewDate(1888, time.January, 1)

// Movie is a catalog entry available for rent.
//
// Fields:
//
//	ImdbID      – external catalog id, assigned by the caller, unique.
//	Title       – display title, required.
//	ReleaseDate – calendar release date, may lie in the future.
//	Categories  – free-form labels compared case-insensitively.
//	PriceClass  – tier derived from ReleaseDate and the current date.
//	Price       – weekly price of PriceClass.
//	Metadata    – OMDb details attached to single lookups, never stored.
type Movie struct {
	ImdbID      string          `json:"imdbId" yaml:"imdbId"`
	Title       string          `json:"title" yaml:"title"`
	ReleaseDate Date            `json:"releaseDate" yaml:"releaseDate"`
	Categories  []string        `json:"categories" yaml:"categories"`
	PriceClass  pricing.Tier    `json:"priceClass,omitempty" yaml:"priceClass,omitempty"`
	Price       decimal.Decimal `json:"price" yaml:"price"`
	Metadata    *MovieMetadata  `json:"movieMetadata,omitempty" yaml:"-"`
}

// Reprice derives PriceClass and Price from the release date as seen at now.
func (m *Movie) Reprice(now time.Time) {
	m.PriceClass = pricing.Classify(m.ReleaseDate.Time, now)
	m.Price = pricing.UnitPrice(m.PriceClass)
}

// HasCategory reports whether the movie carries the label, ignoring case
// and surrounding whitespace.
func (m Movie) HasCategory(name string) bool {
	name = strings.TrimSpace(name)
	for _, c := range m.Categories {
		if strings.EqualFold(strings.TrimSpace(c), name) {
			return true
		}
	}
	return false
}

// Validate checks the fields a caller must supply.
func (m Movie) Validate() error {
	switch {
	case strings.TrimSpace(m.ImdbID) == "":
		return fmt.Errorf("%w: imdbId is required", ErrValidation)
	case strings.TrimSpace(m.Title) == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case m.ReleaseDate.IsZero():
		return fmt.Errorf("%w: releaseDate is required", ErrValidation)
	case m.ReleaseDate.Before(earliestRelease.Time):
		return fmt.Errorf("%w: releaseDate %s is too far in the past", ErrValidation, m.ReleaseDate)
	}
	for _, c := range m.Categories {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: categories must not contain empty values", ErrValidation)
		}
	}
	return nil
}

// Clone returns a copy that shares no slices or pointers with m.
func (m Movie) Clone() Movie {
	out := m
	if m.Categories != nil {
		out.Categories = append([]string(nil), m.Categories...)
	}
	if m.Metadata != nil {
		md := m.Metadata.Clone()
		out.Metadata = &md
	}
	return out
}

// MovieMetadata is the subset of the OMDb title record the service exposes.
type MovieMetadata struct {
	Response string        `json:"Response,omitempty"`
	Rated    string        `json:"Rated,omitempty"`
	Runtime  string        `json:"Runtime,omitempty"`
	Director string        `json:"Director,omitempty"`
	Writer   string        `json:"Writer,omitempty"`
	Actors   string        `json:"Actors,omitempty"`
	Ratings  []MovieRating `json:"Ratings,omitempty"`
}

// MovieRating is one third-party rating of a movie.
type MovieRating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// Found reports whether OMDb recognised the id.
func (md MovieMetadata) Found() bool {
	return strings.EqualFold(md.Response, "true")
}

func (md MovieMetadata) Clone() MovieMetadata {
	out := md
	if md.Ratings != nil {
		out.Ratings = append([]MovieRating(nil), md.Ratings...)
	}
	return out
}
