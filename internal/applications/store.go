package applications

import (
	"context"

	"licentia/pkg/domain"
	dErrors "licentia/pkg/domain-errors"
)

// ErrNotFound keeps store-level 404s consistent across implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "application not found")

// Store persists applications and answers person/category lookups.
type Store interface {
	// ListByPersonAndCategory returns the person's applications for one
	// category, restricted to the given statuses. An empty status list
	// means no restriction.
	ListByPersonAndCategory(ctx context.Context, personID domain.PersonID, category domain.LicenseCategory, statuses []domain.ApplicationStatus) ([]Application, error)

	Insert(ctx context.Context, app Application) error
	SetStatus(ctx context.Context, id domain.ApplicationID, status domain.ApplicationStatus) error
}
