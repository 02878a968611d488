package domain

import "time"

// User is an end user of the backend, distinct from admin accounts.
// Records are owned by the backend; the client only mirrors them.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	HasPremium bool      `json:"hasPremium"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// UserPage is a page of users with its pagination envelope.
type UserPage struct {
	Users      []User `json:"users"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
}

// PremiumDuration is how long a premium grant lasts, in the backend's
// wire vocabulary.
type PremiumDuration string

const (
	PremiumOneMonth PremiumDuration = "1_month"
	PremiumOneYear  PremiumDuration = "1_year"
)

// PremiumDurations lists the grantable durations in cycle order.
var PremiumDurations = []PremiumDuration{PremiumOneMonth, PremiumOneYear}

// ValidPremiumDuration returns true if d is a grantable duration.
func ValidPremiumDuration(d PremiumDuration) bool {
	return d == PremiumOneMonth || d == PremiumOneYear
}

// Label returns a human-readable form, e.g. "1 month".
func (d PremiumDuration) Label() string {
	switch d {
	case PremiumOneMonth:
		return "1 month"
	case PremiumOneYear:
		return "1 year"
	default:
		return string(d)
	}
}
