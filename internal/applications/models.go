// Package applications implements the applications-by-person collaborator
// and the submission sink. The core consumes it only through narrow ports;
// this package owns the persistence shape.
package applications

import (
	"time"

	"licentia/internal/eligibility"
	"licentia/pkg/domain"
)

// Application is a persisted license application.
type Application struct {
	ID        domain.ApplicationID
	PersonID  domain.PersonID
	Category  domain.LicenseCategory
	Status    domain.ApplicationStatus
	Type      domain.ApplicationType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Submission is the finalized payload handed over by the workflow on
// submit. The core does not define its persistence format.
type Submission struct {
	PersonID   domain.PersonID
	LocationID string
	Type       domain.ApplicationType
	Category   domain.LicenseCategory
	Medical    *eligibility.MedicalRecord
}
