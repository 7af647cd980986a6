// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

/*
Package title implements the catalogue of reviewable works.

A title is a concrete work (a film, a book, an album) positioned in the
catalogue by one optional category and any number of genres. Titles carry a
derived rating: the average of their review scores, computed at read time so
it can never drift from the underlying reviews.

# Architecture

  - Entities: Title, Filter.
  - Domain: Depends on the category and genre packages for reference data.
  - Storage: Rating aggregation happens inside the SQL layer, never in Go.
*/
package title

import (
	"github.com/velkore/critiq/internal/core/category"
	"github.com/velkore/critiq/internal/core/genre"
)

// # Domain Entities

// Title represents a reviewable work in the catalogue.
type Title struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Year        int                `json:"year"`
	Description string             `json:"description,omitempty"`
	Category    *category.Category `json:"category"`
	Genres      []genre.Genre      `json:"genre"`

	// Rating is the average review score, null when the title has no scored
	// reviews. Recomputed on every read.
	Rating *float64 `json:"rating"`
}

// Filter narrows title listings. Zero values mean "no filter".
type Filter struct {
	CategorySlug string
	GenreSlugs   []string
	Name         string
	Year         *int
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldGenre       = "genre"
)
