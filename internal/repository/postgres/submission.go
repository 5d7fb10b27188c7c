package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/websitemybusiness/contact-relay/internal/domain"
	"github.com/websitemybusiness/contact-relay/internal/service/contact"
)

// SubmissionRepo implements contact.Repository against PostgreSQL. It also
// satisfies ratelimit.Counter by counting stored rows, which makes the
// store itself the default rate-limit backend.
type SubmissionRepo struct{ db *sql.DB }

// NewSubmissionRepo creates a Postgres-backed submission repository.
func NewSubmissionRepo(db *sql.DB) *SubmissionRepo { return &SubmissionRepo{db: db} }

func (r *SubmissionRepo) Create(ctx context.Context, s *domain.ContactSubmission) (string, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO contact_submissions (id, name, email, phone, message, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NOW())
		RETURNING created_at
	`, s.ID, s.Name, s.Email, s.Phone, s.Message).Scan(&s.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("create submission: %w", err)
	}
	return s.ID, nil
}

func (r *SubmissionRepo) List(ctx context.Context, f contact.ListFilter) ([]domain.ContactSubmission, int, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 500
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contact_submissions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, phone, COALESCE(message, ''), created_at
		FROM contact_submissions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []domain.ContactSubmission
	for rows.Next() {
		var s domain.ContactSubmission
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Message, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}
	return out, total, nil
}

func (r *SubmissionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM contact_submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return contact.ErrNotFound
	}
	return nil
}

// CountRecent counts submissions from an address inside the trailing
// window, case-insensitively. Because the triggering row is written before
// dispatch, the count includes it.
func (r *SubmissionRepo) CountRecent(ctx context.Context, email string, window time.Duration) (int, error) {
	since := time.Now().Add(-window)
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM contact_submissions
		WHERE LOWER(email) = LOWER($1) AND created_at >= $2
	`, email, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count recent submissions: %w", err)
	}
	return n, nil
}
