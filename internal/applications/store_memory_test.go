package applications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"licentia/pkg/domain"
)

type MemoryStoreSuite struct {
	suite.Suite
	store    *InMemoryStore
	personID domain.PersonID
	now      time.Time
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.now = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewInMemoryStore().WithClock(func() time.Time { return s.now })
	s.personID = domain.PersonID{UUID: uuid.New()}
}

func (s *MemoryStoreSuite) insert(category domain.LicenseCategory, status domain.ApplicationStatus) Application {
	app := Application{
		ID:       domain.NewApplicationID(),
		PersonID: s.personID,
		Category: category,
		Status:   status,
		Type:     domain.TypeNewLicense,
	}
	s.Require().NoError(s.store.Insert(context.Background(), app))
	return app
}

func (s *MemoryStoreSuite) TestListByPersonAndCategory() {
	ctx := context.Background()
	s.insert(domain.CategoryB, domain.StatusCompleted)
	s.insert(domain.CategoryB, domain.StatusDraft)
	s.insert(domain.CategoryA, domain.StatusCompleted)

	s.Run("filters by category", func() {
		apps, err := s.store.ListByPersonAndCategory(ctx, s.personID, domain.CategoryB, nil)
		s.Require().NoError(err)
		s.Len(apps, 2)
	})

	s.Run("filters by status", func() {
		apps, err := s.store.ListByPersonAndCategory(ctx, s.personID, domain.CategoryB,
			[]domain.ApplicationStatus{domain.StatusCompleted, domain.StatusOnHold})
		s.Require().NoError(err)
		s.Require().Len(apps, 1)
		s.Equal(domain.StatusCompleted, apps[0].Status)
	})

	s.Run("other persons see nothing", func() {
		apps, err := s.store.ListByPersonAndCategory(ctx, domain.PersonID{UUID: uuid.New()}, domain.CategoryB, nil)
		s.Require().NoError(err)
		s.Empty(apps)
	})
}

func (s *MemoryStoreSuite) TestSetStatus() {
	ctx := context.Background()
	app := s.insert(domain.CategoryB, domain.StatusDraft)

	s.Require().NoError(s.store.SetStatus(ctx, app.ID, domain.StatusSubmitted))
	apps, err := s.store.ListByPersonAndCategory(ctx, s.personID, domain.CategoryB,
		[]domain.ApplicationStatus{domain.StatusSubmitted})
	s.Require().NoError(err)
	s.Require().Len(apps, 1)
	s.Equal(s.now, apps[0].UpdatedAt)

	s.Run("unknown id is not found", func() {
		err := s.store.SetStatus(ctx, domain.NewApplicationID(), domain.StatusSubmitted)
		s.ErrorIs(err, ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestSubmissionService() {
	ctx := context.Background()
	sink := NewSubmissionService(s.store, nil)

	s.Run("valid submission lands as SUBMITTED", func() {
		appID, err := sink.Submit(ctx, Submission{
			PersonID:   s.personID,
			LocationID: "office-12",
			Type:       domain.TypeNewLicense,
			Category:   domain.CategoryB,
		})
		s.Require().NoError(err)
		s.False(appID.IsZero())

		apps, err := s.store.ListByPersonAndCategory(ctx, s.personID, domain.CategoryB,
			[]domain.ApplicationStatus{domain.StatusSubmitted})
		s.Require().NoError(err)
		s.Len(apps, 1)
	})

	s.Run("missing person id is rejected", func() {
		_, err := sink.Submit(ctx, Submission{Type: domain.TypeNewLicense, Category: domain.CategoryB})
		s.Error(err)
	})

	s.Run("missing category is rejected", func() {
		_, err := sink.Submit(ctx, Submission{PersonID: s.personID, Type: domain.TypeNewLicense})
		s.Error(err)
	})
}
