package contact

import (
	"context"

	"github.com/websitemybusiness/contact-relay/internal/domain"
)

// Repository defines the data access contract for contact submissions.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Create inserts a new submission and returns its ID. A successful
	// create is the durability boundary: the row is binding even if every
	// downstream notification fails.
	Create(ctx context.Context, s *domain.ContactSubmission) (string, error)

	// List returns submissions ordered by created_at DESC, plus the total
	// row count. The source surface had no pagination; the filter's limit
	// is a defensive cap, not a UI contract.
	List(ctx context.Context, filter ListFilter) ([]domain.ContactSubmission, int, error)

	// Delete removes a submission. Returns ErrNotFound if the id is absent;
	// the service layer decides whether that is an error.
	Delete(ctx context.Context, id string) error
}

// ListFilter controls the defensive pagination for submission lists.
type ListFilter struct {
	Limit  int
	Offset int
}
