// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

/*
Package review implements reviews on titles and comments on reviews.

Each user may publish at most one review per title, scored 1 to 10 or left
unscored. Reviews feed the derived title rating. Comments form a flat
discussion thread under a review.

# Architecture

  - Entities: Review, Comment. Both carry an author and an immutable
    publication timestamp.
  - Authorization: Mutations are decided by the shared composite rule
    (author, moderator, or admin) before any storage call.
  - Scoping: Comments are addressed through their review AND its title, so a
    comment is unreachable through a title its review does not belong to.
*/
package review

import "time"

// # Domain Entities

// Review is a user's verdict on a title.
type Review struct {
	ID      int64     `json:"id"`
	TitleID int64     `json:"-"`
	Text    string    `json:"text"`
	Score   *int      `json:"score"`
	Author  string    `json:"author"` // Username, resolved at read time.
	PubDate time.Time `json:"pub_date"`

	// AuthorID is the owning account, used for authorization only.
	AuthorID string `json:"-"`
}

// OwnerID implements the authorization resource contract.
func (review *Review) OwnerID() string { return review.AuthorID }

// Comment is a reply in the discussion under a review.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	Text     string    `json:"text"`
	Author   string    `json:"author"`
	PubDate  time.Time `json:"pub_date"`

	AuthorID string `json:"-"`
}

// OwnerID implements the authorization resource contract.
func (comment *Comment) OwnerID() string { return comment.AuthorID }

// # Field Identifiers

const (
	FieldText  = "text"
	FieldScore = "score"
)
