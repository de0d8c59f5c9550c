// Package repository defines filter types shared between the persistence
// layer and the services that query it.
package repository

import (
	"github.com/eternalinsky-max/proponujeprace/internal/domain"
)

// JobSortKeys is the whitelist of columns job listings may be ordered by.
// Anything else falls back to created_at.
var JobSortKeys = map[string]string{
	"created_at":  "created_at",
	"salary_min":  "salary_min",
	"salary_max":  "salary_max",
	"bayes_score": "bayes_score",
	"rating_avg":  "rating_avg",
}

// JobFilter narrows job listing queries.
type JobFilter struct {
	Status  *domain.JobStatus
	City    *string
	Remote  *bool
	Search  *string
	OwnerID *string

	Sort    string // one of JobSortKeys; empty means created_at
	Desc    bool
	Page    int
	PerPage int
}

// ContactLogFilter narrows admin contact log queries. The synthetic status
// "DELETED" selects soft-deleted rows; all other statuses exclude them.
type ContactLogFilter struct {
	Outcome *domain.ContactOutcome
	Deleted bool
	Email   *string
	Search  *string // matches ip, name, email, message and spam reason

	Page    int
	PerPage int
}
