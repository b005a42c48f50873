package adapters

import (
	"context"

	"licentia/internal/applications"
	"licentia/internal/prereq"
	"licentia/pkg/domain"
)

// ApplicationsAdapter implements prereq.ApplicationsLookup over the
// applications store, keeping the resolver free of persistence types.
type ApplicationsAdapter struct {
	store applications.Store
}

// NewApplicationsAdapter wraps an applications store as a lookup port.
func NewApplicationsAdapter(store applications.Store) prereq.ApplicationsLookup {
	return &ApplicationsAdapter{store: store}
}

func (a *ApplicationsAdapter) ListByPersonAndCategory(ctx context.Context, personID domain.PersonID, category domain.LicenseCategory, statuses []domain.ApplicationStatus) ([]prereq.ApplicationRecord, error) {
	apps, err := a.store.ListByPersonAndCategory(ctx, personID, category, statuses)
	if err != nil {
		return nil, err
	}
	records := make([]prereq.ApplicationRecord, 0, len(apps))
	for _, app := range apps {
		records = append(records, prereq.ApplicationRecord{
			ID:       app.ID,
			PersonID: app.PersonID,
			Category: app.Category,
			Status:   app.Status,
			Type:     app.Type,
		})
	}
	return records, nil
}
