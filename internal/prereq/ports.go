package prereq

import (
	"context"

	"licentia/pkg/domain"
)

// ApplicationRecord is the slice of an application the resolver consumes.
type ApplicationRecord struct {
	ID       domain.ApplicationID
	PersonID domain.PersonID
	Category domain.LicenseCategory
	Status   domain.ApplicationStatus
	Type     domain.ApplicationType
}

// ApplicationsLookup is the external applications-by-person collaborator.
// Implementations must return only applications matching the given
// statuses; the resolver never sees drafts or rejections.
type ApplicationsLookup interface {
	ListByPersonAndCategory(ctx context.Context, personID domain.PersonID, category domain.LicenseCategory, statuses []domain.ApplicationStatus) ([]ApplicationRecord, error)
}
