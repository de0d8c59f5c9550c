package domain

import (
	"time"
)

// User represents an account resolved from the external identity provider.
// ExternalUID is the provider-issued subject; the row is created lazily on
// first authenticated request.
type User struct {
	ID          string `json:"id"`
	ExternalUID string `json:"-"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
	Picture     string `json:"picture,omitempty"`
	Admin       bool   `json:"admin,omitempty"`

	// Worker profile fields shown on the public page.
	Headline string `json:"headline,omitempty"`
	Bio      string `json:"bio,omitempty"`
	City     string `json:"city,omitempty"`

	Rating RatingAggregate `json:"rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public returns a copy stripped of contact details for the public page.
func (u User) Public() User {
	u.Email = ""
	u.Admin = false
	return u
}

// PublicProfile is the worker profile exposed on the public user page,
// stripped of contact details and joined with recent reviews.
type PublicProfile struct {
	User    User               `json:"user"`
	Reviews []ReviewWithAuthor `json:"recent_reviews"`
}
