package prereq

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"licentia/internal/rules"
	"licentia/pkg/domain"
	dErrors "licentia/pkg/domain-errors"
)

// fakeLookup serves canned records per category and can be told to fail.
type fakeLookup struct {
	records map[domain.LicenseCategory][]ApplicationRecord
	err     error
}

func (f *fakeLookup) ListByPersonAndCategory(_ context.Context, personID domain.PersonID, category domain.LicenseCategory, statuses []domain.ApplicationStatus) ([]ApplicationRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []ApplicationRecord
	for _, rec := range f.records[category] {
		for _, st := range statuses {
			if rec.Status == st {
				out = append(out, rec)
				break
			}
		}
	}
	return out, nil
}

type ResolverSuite struct {
	suite.Suite
	registry *rules.Registry
	lookup   *fakeLookup
	resolver *Resolver
	personID domain.PersonID
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	var err error
	s.registry, err = rules.New(rules.Default())
	s.Require().NoError(err)
	s.lookup = &fakeLookup{records: map[domain.LicenseCategory][]ApplicationRecord{}}
	s.resolver = NewResolver(s.registry, s.lookup, nil, nil)
	s.personID = domain.PersonID{}
}

func (s *ResolverSuite) completed(category domain.LicenseCategory) ApplicationRecord {
	return ApplicationRecord{Category: category, Status: domain.StatusCompleted}
}

func (s *ResolverSuite) onHold(category domain.LicenseCategory) ApplicationRecord {
	return ApplicationRecord{Category: category, Status: domain.StatusOnHold}
}

func (s *ResolverSuite) TestNoRequirementsProceeds() {
	// A1 on a renewal: learner requirement does not apply to renewals and
	// A1 has no category prerequisites.
	result, state, err := s.resolver.Resolve(context.Background(), s.personID, domain.CategoryA1, domain.TypeRenewal)
	s.Require().NoError(err)
	s.True(result.CanProceed)
	s.False(result.RequiresExternal)
	s.NotNil(state)
	s.Empty(state.ExternalLicenses)
}

func (s *ResolverSuite) TestLearnerRequirementAppliesPerApplicationType() {
	s.Run("new license demands the learner permit", func() {
		result, state, err := s.resolver.Resolve(context.Background(), s.personID, domain.CategoryA1, domain.TypeNewLicense)
		s.Require().NoError(err)
		s.False(result.CanProceed)
		s.True(result.RequiresExternal)
		s.Require().Len(state.ExternalLicenses, 1)
		s.Equal(domain.CategoryLearnerA, state.ExternalLicenses[0].Category)
		s.True(state.ExternalLicenses[0].IsRequired)
		s.False(state.ExternalLicenses[0].Verified)
	})

	s.Run("completed learner permit satisfies it", func() {
		s.lookup.records[domain.CategoryLearnerA] = []ApplicationRecord{s.completed(domain.CategoryLearnerA)}
		result, state, err := s.resolver.Resolve(context.Background(), s.personID, domain.CategoryA1, domain.TypeNewLicense)
		s.Require().NoError(err)
		s.True(result.CanProceed)
		s.True(result.HasCompleted)
		s.Contains(state.SystemLicenses, domain.CategoryLearnerA)
	})
}

func (s *ResolverSuite) TestOnHoldSatisfiesButIsFlagged() {
	s.lookup.records[domain.CategoryB] = []ApplicationRecord{s.onHold(domain.CategoryB)}
	s.lookup.records[domain.CategoryLearnerB] = []ApplicationRecord{s.completed(domain.CategoryLearnerB)}

	// BE requires B; no learner requirement for BE.
	result, state, err := s.resolver.Resolve(context.Background(), s.personID, domain.CategoryBE, domain.TypeNewLicense)
	s.Require().NoError(err)
	s.True(result.CanProceed)
	s.True(result.HasOnHold)
	s.False(result.HasCompleted)
	s.Contains(state.SystemLicenses, domain.CategoryB)
}

func (s *ResolverSuite) TestMissingPrerequisiteBecomesClaim() {
	// C requires B; person holds nothing.
	result, state, err := s.resolver.Resolve(context.Background(), s.personID, domain.CategoryC, domain.TypeNewLicense)
	s.Require().NoError(err)
	s.False(result.CanProceed)
	s.True(result.RequiresExternal)
	s.True(state.RequiresVerification)
	s.Require().Len(state.ExternalLicenses, 1)
	s.Equal(domain.CategoryB, state.ExternalLicenses[0].Category)
}

func (s *ResolverSuite) TestDraftApplicationsDoNotCount() {
	s.lookup.records[domain.CategoryB] = []ApplicationRecord{
		{Category: domain.CategoryB, Status: domain.StatusDraft},
		{Category: domain.CategoryB, Status: domain.StatusRejected},
	}
	result, _, err := s.resolver.Resolve(context.Background(), s.personID, domain.CategoryBE, domain.TypeNewLicense)
	s.Require().NoError(err)
	s.False(result.CanProceed)
}

func (s *ResolverSuite) TestLookupFailureFailsClosed() {
	s.lookup.err = errors.New("registry unreachable")

	result, state, err := s.resolver.Resolve(context.Background(), s.personID, domain.CategoryC, domain.TypeNewLicense)
	s.Require().Error(err)
	s.True(dErrors.IsCode(err, dErrors.CodeExternalLookup))

	// The degraded state is still usable: every requirement becomes an
	// unverified blocking claim.
	s.True(result.RequiresExternal)
	s.False(result.CanProceed)
	s.Require().NotNil(state)
	s.True(state.RequiresVerification)
	s.Require().Len(state.ExternalLicenses, 1)
	s.Equal(domain.CategoryB, state.ExternalLicenses[0].Category)
}

func (s *ResolverSuite) TestMarkVerifiedClearsVerification() {
	_, state, err := s.resolver.Resolve(context.Background(), s.personID, domain.CategoryC, domain.TypeNewLicense)
	s.Require().NoError(err)
	s.Require().True(state.RequiresVerification)

	s.False(state.MarkVerified(domain.CategoryD), "unrelated category has no claim")
	s.True(state.MarkVerified(domain.CategoryB))
	s.False(state.RequiresVerification)
	s.Contains(state.AllAuthorizedCategories(), domain.CategoryB)
}

func (s *ResolverSuite) TestUnknownCategoryIsConfigError() {
	_, _, err := s.resolver.Resolve(context.Background(), s.personID, "Z9", domain.TypeNewLicense)
	s.Require().Error(err)
	s.True(dErrors.IsCode(err, dErrors.CodeConfiguration))
}
