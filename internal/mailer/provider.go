// Package mailer sends transactional email for the contact pipeline.
//
// The Resend provider is the default; an AWS SES v2 provider is available
// as an alternative backend. Both implement Provider, so the dispatch
// pipeline never knows which one is wired.
package mailer

import (
	"context"
)

// Message is one outbound HTML email.
type Message struct {
	From     string `json:"from_email"`
	FromName string `json:"from_name"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTML     string `json:"html"`
}

// Provider delivers a single message. Send must return a non-nil error on
// any non-success response from the underlying provider; the caller decides
// whether the failure is fatal for the dispatch.
type Provider interface {
	Send(ctx context.Context, msg Message) error
}
