// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

// Package category implements the category reference data for titles.
//
// Categories are coarse kinds of reviewable works ("Movies", "Books",
// "Music"). Each title belongs to at most one category. Categories are keyed
// by a unique, case-insensitive slug.
package category

// Category represents a kind of reviewable work.
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Field names for validation in the category domain.
const (
	FieldName = "name"
	FieldSlug = "slug"
)
