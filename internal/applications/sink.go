package applications

import (
	"context"
	"log/slog"
	"time"

	"licentia/pkg/domain"
	dErrors "licentia/pkg/domain-errors"
)

// SubmissionService accepts finalized workflow payloads and applies the
// externally-assigned DRAFT -> SUBMITTED transition.
type SubmissionService struct {
	store  Store
	logger *slog.Logger
	clock  Clock
}

// NewSubmissionService wires the sink over an applications store.
func NewSubmissionService(store Store, logger *slog.Logger) *SubmissionService {
	return &SubmissionService{store: store, logger: logger, clock: time.Now}
}

// Submit persists the application as DRAFT and immediately transitions it
// to SUBMITTED. The two-step write keeps the status transition explicit
// and auditable.
func (s *SubmissionService) Submit(ctx context.Context, sub Submission) (domain.ApplicationID, error) {
	if sub.PersonID.IsZero() {
		return domain.ApplicationID{}, dErrors.New(dErrors.CodeBadRequest, "submission requires a person id")
	}
	if !sub.Type.IsValid() {
		return domain.ApplicationID{}, dErrors.New(dErrors.CodeBadRequest, "submission requires a valid application type")
	}
	if !sub.Category.IsValid() {
		return domain.ApplicationID{}, dErrors.New(dErrors.CodeBadRequest, "submission requires a valid license category")
	}

	app := Application{
		ID:       domain.NewApplicationID(),
		PersonID: sub.PersonID,
		Category: sub.Category,
		Status:   domain.StatusDraft,
		Type:     sub.Type,
	}
	if err := s.store.Insert(ctx, app); err != nil {
		return domain.ApplicationID{}, dErrors.Wrap(err, dErrors.CodeInternal, "persist application")
	}
	if err := s.store.SetStatus(ctx, app.ID, domain.StatusSubmitted); err != nil {
		return domain.ApplicationID{}, dErrors.Wrap(err, dErrors.CodeInternal, "submit application")
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "application submitted",
			"application_id", app.ID.String(),
			"person_id", sub.PersonID.String(),
			"type", sub.Type.String(),
			"category", sub.Category.String(),
			"location_id", sub.LocationID,
		)
	}
	return app.ID, nil
}
