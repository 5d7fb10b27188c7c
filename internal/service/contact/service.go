package contact

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/websitemybusiness/contact-relay/internal/config"
	"github.com/websitemybusiness/contact-relay/internal/domain"
	"github.com/websitemybusiness/contact-relay/internal/mailer"
	"github.com/websitemybusiness/contact-relay/internal/ratelimit"
	"github.com/websitemybusiness/contact-relay/internal/validate"
)

// Service implements the contact-submission pipeline. All public methods
// are safe for concurrent use if the underlying repository is.
type Service struct {
	repo     Repository
	limiter  ratelimit.Counter
	sender   mailer.Provider
	renderer *mailer.Renderer
	cfg      config.ContactConfig
}

// NewService creates a contact service. The limiter counts submissions per
// address; the sender and renderer produce the two outbound emails.
func NewService(repo Repository, limiter ratelimit.Counter, sender mailer.Provider, renderer *mailer.Renderer, cfg config.ContactConfig) *Service {
	return &Service{
		repo:     repo,
		limiter:  limiter,
		sender:   sender,
		renderer: renderer,
		cfg:      cfg,
	}
}

// Submit validates the raw form input and persists a new submission.
// Returns *ValidationError when the input is malformed; any other error
// means the write failed and the submission did not happen at all.
func (s *Service) Submit(ctx context.Context, in validate.Input) (*domain.ContactSubmission, error) {
	norm, fieldErrs := validate.Submission(in)
	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	sub := &domain.ContactSubmission{
		ID:      uuid.New().String(),
		Name:    norm.Name,
		Email:   norm.Email,
		Phone:   norm.Phone,
		Message: norm.Message,
	}

	id, err := s.repo.Create(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	sub.ID = id
	return sub, nil
}

// Dispatch runs the notification pipeline for a persisted submission:
// re-validate, rate-check, send the business notification, then the
// submitter confirmation. Throttling gates only the emails, never the
// already-persisted row. A confirmation failure is logged and swallowed
// because the must-deliver leg (the business notification) already
// succeeded.
func (s *Service) Dispatch(ctx context.Context, sub *domain.ContactSubmission) error {
	// Server-side validation is the authority; never trust the caller.
	_, fieldErrs := validate.Submission(validate.Input{
		Name:    sub.Name,
		Email:   sub.Email,
		Phone:   sub.Phone,
		Message: sub.Message,
	})
	if len(fieldErrs) > 0 {
		return &ValidationError{Fields: fieldErrs}
	}

	// The count includes the row persisted by Submit, so a limit of 3
	// allows three notified submissions per window and suppresses the 4th.
	count, err := s.limiter.CountRecent(ctx, validate.NormalizeEmail(sub.Email), s.cfg.RateWindow())
	if err != nil {
		// Match the source behavior: a failed rate check is logged and the
		// dispatch proceeds rather than blocking legitimate mail.
		log.Printf("[contact.Service] rate check failed for %s: %v", sub.Email, err)
	} else if count > s.cfg.RateLimitPerHour {
		log.Printf("[contact.Service] rate limit exceeded for %s (%d in window)", sub.Email, count)
		return ErrThrottled
	}

	data := mailer.SubmissionData{
		Name:    sub.Name,
		Email:   sub.Email,
		Phone:   sub.Phone,
		Message: sub.Message,
	}

	subject, html, err := s.renderer.Notification(data)
	if err != nil {
		return &DeliveryError{Err: err}
	}
	if err := s.sender.Send(ctx, mailer.Message{
		From:     s.cfg.FromEmail,
		FromName: s.cfg.FromName,
		To:       s.cfg.NotifyEmail,
		Subject:  subject,
		HTML:     html,
	}); err != nil {
		return &DeliveryError{Err: err}
	}
	log.Printf("[contact.Service] notification sent for submission %s", sub.ID)

	subject, html, err = s.renderer.Confirmation(data)
	if err != nil {
		log.Printf("[contact.Service] confirmation render failed for %s: %v", sub.ID, err)
		return nil
	}
	if err := s.sender.Send(ctx, mailer.Message{
		From:     s.cfg.FromEmail,
		FromName: s.cfg.BusinessName,
		To:       sub.Email,
		Subject:  subject,
		HTML:     html,
	}); err != nil {
		log.Printf("[contact.Service] confirmation send failed for %s: %v", sub.ID, err)
		return nil
	}
	log.Printf("[contact.Service] confirmation sent for submission %s", sub.ID)

	return nil
}

// List returns submissions newest-first with the defensive cap applied.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.ContactSubmission, int, error) {
	if f.Limit <= 0 || f.Limit > s.cfg.ListLimit {
		f.Limit = s.cfg.ListLimit
	}
	return s.repo.List(ctx, f)
}

// Delete removes a submission. Deleting an absent id is a no-op: the caller
// observes the same end state either way.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("delete submission: %w", err)
	}
	return nil
}
