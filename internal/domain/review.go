package domain

import (
	"time"
)

// Review represents a rating left by a user on a job, company, or worker
// profile. Each author may hold at most one review per target; resubmitting
// overwrites the previous rating and comment.
type Review struct {
	ID         string     `json:"id"`
	AuthorID   string     `json:"author_id"`
	TargetType TargetType `json:"target_type"`
	TargetID   string     `json:"target_id"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment,omitempty"`
	IsHidden   bool       `json:"is_hidden,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ReviewWithAuthor is a review joined with the author's display identity for
// public listings.
type ReviewWithAuthor struct {
	Review
	AuthorName    string `json:"author_name"`
	AuthorPicture string `json:"author_picture,omitempty"`
}
