package workflow

import (
	"context"

	"licentia/internal/applications"
	"licentia/internal/person"
	"licentia/internal/prereq"
	"licentia/pkg/domain"
)

// PersonLookup resolves applicants against the external person registry.
type PersonLookup interface {
	Get(ctx context.Context, id domain.PersonID) (person.Record, error)
}

// PrerequisiteResolver is the prereq module seen through its single
// operation, so tests can substitute a fake.
type PrerequisiteResolver interface {
	Resolve(ctx context.Context, personID domain.PersonID, category domain.LicenseCategory, appType domain.ApplicationType) (prereq.CheckResult, *prereq.LicenseVerificationState, error)
}

// SubmissionSink accepts the finalized application payload. Persistence
// format and downstream processing belong to the collaborator.
type SubmissionSink interface {
	Submit(ctx context.Context, sub applications.Submission) (domain.ApplicationID, error)
}
