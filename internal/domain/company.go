package domain

import (
	"time"
)

// Company represents an employer profile that jobs can be attached to.
type Company struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Website     string  `json:"website,omitempty"`
	City        string  `json:"city,omitempty"`

	Rating RatingAggregate `json:"rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
