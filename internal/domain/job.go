package domain

import (
	"time"
)

// JobStatus represents the lifecycle state of a job posting.
type JobStatus string

const (
	JobStatusActive JobStatus = "ACTIVE"
	JobStatusClosed JobStatus = "CLOSED"
	JobStatusDraft  JobStatus = "DRAFT"
)

// Valid reports whether s is a known job status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusActive, JobStatusClosed, JobStatusDraft:
		return true
	}
	return false
}

// Job represents a job posting, with denormalized review aggregates used for
// listing and ranking.
type Job struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	CompanyID   *string   `json:"company_id,omitempty"`
	CompanyName string    `json:"company_name,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	City        string    `json:"city,omitempty"`
	Remote      bool      `json:"remote"`
	SalaryMin   *int      `json:"salary_min,omitempty"`
	SalaryMax   *int      `json:"salary_max,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	Tags        []string  `json:"tags"`
	ContactURL  string    `json:"contact_url,omitempty"`
	Status      JobStatus `json:"status"`

	Rating RatingAggregate `json:"rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
