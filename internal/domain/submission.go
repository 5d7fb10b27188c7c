package domain

import (
	"time"
)

// ContactSubmission is one contact-form entry. Rows are append-only: after
// creation a submission is only ever read or deleted, never updated.
type ContactSubmission struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AdminRole enumerates the roles recognized by the admin surface. Sessions
// prove identity; a row in admin_roles with RoleAdmin grants authority.
type AdminRole string

const (
	RoleAdmin AdminRole = "admin"
)
