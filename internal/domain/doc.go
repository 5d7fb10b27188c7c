// Package domain holds the value types shared across the contact relay:
// submissions and admin roles. Nothing here talks to the database or the
// network; handlers, services, and repositories all speak these types.
package domain
