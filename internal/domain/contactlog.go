package domain

import (
	"time"
)

// ContactOutcome classifies what happened to a contact form submission.
type ContactOutcome string

const (
	ContactOutcomeOK          ContactOutcome = "OK"
	ContactOutcomeSpam        ContactOutcome = "SPAM"
	ContactOutcomeRateLimited ContactOutcome = "RATE-LIMIT"
	ContactOutcomeError       ContactOutcome = "ERROR"
)

// Valid reports whether o is a known contact outcome.
func (o ContactOutcome) Valid() bool {
	switch o {
	case ContactOutcomeOK, ContactOutcomeSpam, ContactOutcomeRateLimited, ContactOutcomeError:
		return true
	}
	return false
}

// ContactMessageLog records every contact form submission with its anti-spam
// verdict. Soft-deleted rows keep DeletedAt set until the hard-delete sweep.
type ContactMessageLog struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Subject    string         `json:"subject,omitempty"`
	Message    string         `json:"message"`
	Outcome    ContactOutcome `json:"outcome"`
	SpamReason string         `json:"spam_reason,omitempty"`
	ClientIP   string         `json:"client_ip,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  *time.Time     `json:"deleted_at,omitempty"`
}
