package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"licentia/internal/applications"
	"licentia/internal/eligibility"
	"licentia/internal/fees"
	"licentia/internal/person"
	"licentia/internal/prereq"
	"licentia/internal/rules"
	"licentia/pkg/domain"
	dErrors "licentia/pkg/domain-errors"
	"licentia/pkg/requestcontext"
)

// fakePersons serves a single person record.
type fakePersons struct {
	record person.Record
	err    error
}

func (f *fakePersons) Get(_ context.Context, id domain.PersonID) (person.Record, error) {
	if f.err != nil {
		return person.Record{}, f.err
	}
	if id != f.record.ID {
		return person.Record{}, person.ErrNotFound
	}
	return f.record, nil
}

// fakeResolver returns a canned prerequisite result.
type fakeResolver struct {
	result prereq.CheckResult
	state  *prereq.LicenseVerificationState
	err    error
	calls  int
}

func (f *fakeResolver) Resolve(_ context.Context, personID domain.PersonID, _ domain.LicenseCategory, _ domain.ApplicationType) (prereq.CheckResult, *prereq.LicenseVerificationState, error) {
	f.calls++
	state := f.state
	if state == nil {
		state = &prereq.LicenseVerificationState{PersonID: personID}
	}
	return f.result, state, f.err
}

// fakeSink records submissions.
type fakeSink struct {
	submissions []applications.Submission
	err         error
}

func (f *fakeSink) Submit(_ context.Context, sub applications.Submission) (domain.ApplicationID, error) {
	if f.err != nil {
		return domain.ApplicationID{}, f.err
	}
	f.submissions = append(f.submissions, sub)
	return domain.NewApplicationID(), nil
}

type WorkflowServiceSuite struct {
	suite.Suite
	service  *Service
	store    *InMemoryStore
	persons  *fakePersons
	resolver *fakeResolver
	sink     *fakeSink
	ctx      context.Context
	now      time.Time
	personID domain.PersonID
}

func TestWorkflowServiceSuite(t *testing.T) {
	suite.Run(t, new(WorkflowServiceSuite))
}

func (s *WorkflowServiceSuite) SetupTest() {
	registry, err := rules.New(rules.Default())
	s.Require().NoError(err)

	s.now = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)

	s.personID = domain.PersonID{UUID: uuid.New()}
	birth := time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC)
	s.persons = &fakePersons{record: person.Record{ID: s.personID, BirthDate: &birth}}

	s.resolver = &fakeResolver{result: prereq.CheckResult{CanProceed: true}}
	s.sink = &fakeSink{}
	s.store = NewInMemoryStore()

	s.service = NewService(
		registry,
		eligibility.New(registry),
		s.resolver,
		fees.NewMemoryProvider(fees.DefaultSchedule()),
		s.persons,
		s.sink,
		s.store,
		nil,
		nil,
	)
}

func (s *WorkflowServiceSuite) start(appType domain.ApplicationType) *State {
	state, err := s.service.Start(s.ctx, s.personID, appType, "office-12")
	s.Require().NoError(err)
	return state
}

func (s *WorkflowServiceSuite) TestStart() {
	s.Run("derives the step list from the application type", func() {
		state := s.start(domain.TypeNewLicense)
		s.Equal([]StepKind{StepApplicant, StepDetails, StepMedical, StepBiometrics, StepReview}, state.Steps)
		s.Equal(0, state.CurrentStep)
		s.Equal(s.now, state.CreatedAt)
	})

	s.Run("renewal includes the notice-of-change step", func() {
		state := s.start(domain.TypeRenewal)
		s.Equal([]StepKind{StepApplicant, StepDetails, StepNoticeOfChange, StepMedical, StepBiometrics, StepReview}, state.Steps)
	})

	s.Run("unknown person is rejected", func() {
		_, err := s.service.Start(s.ctx, domain.PersonID{UUID: uuid.New()}, domain.TypeNewLicense, "office-12")
		s.Require().Error(err)
		s.True(dErrors.IsCode(err, dErrors.CodeNotFound))
	})
}

func (s *WorkflowServiceSuite) TestSetApplicationTypeRecomputesSteps() {
	state := s.start(domain.TypeRenewal)

	// Collect notice-of-change data and declarations first.
	_, err := s.service.UpdateNoticeOfChange(s.ctx, state.ID, NoticeOfChange{PreviousLicenseNumber: "DL-99881"})
	s.Require().NoError(err)
	_, err = s.service.UpdateDeclarations(s.ctx, state.ID, eligibility.Declarations{}, "")
	s.Require().NoError(err)

	// Switching to new_license drops the step and its captured data but
	// keeps data for surviving steps.
	updated, err := s.service.SetApplicationType(s.ctx, state.ID, domain.TypeNewLicense)
	s.Require().NoError(err)
	s.Equal([]StepKind{StepApplicant, StepDetails, StepMedical, StepBiometrics, StepReview}, updated.Steps)
	s.Nil(updated.NoticeOfChange)
	s.Empty(updated.StepErrors)
}

func (s *WorkflowServiceSuite) TestSelectCategoryTriggersResolution() {
	state := s.start(domain.TypeNewLicense)
	before := s.resolver.calls

	updated, err := s.service.SelectCategory(s.ctx, state.ID, domain.CategoryB, nil)
	s.Require().NoError(err)
	s.Equal(domain.CategoryB, updated.SelectedCategory)
	s.Equal(before+1, s.resolver.calls)
	s.Require().NotNil(updated.Prerequisites)
	s.True(updated.Prerequisites.CanProceed)
}

func (s *WorkflowServiceSuite) TestSelectCategoryDegradedLookupKeepsFailClosedState() {
	s.resolver.result = prereq.CheckResult{RequiresExternal: true}
	s.resolver.state = &prereq.LicenseVerificationState{
		RequiresVerification: true,
		ExternalLicenses: []prereq.ExternalLicenseClaim{
			{Category: domain.CategoryLearnerB, IsRequired: true},
		},
	}
	s.resolver.err = dErrors.New(dErrors.CodeExternalLookup, "applications lookup failed")

	state := s.start(domain.TypeNewLicense)
	updated, err := s.service.SelectCategory(s.ctx, state.ID, domain.CategoryB, nil)
	s.Require().NoError(err, "transient lookup failures must not fail the transition")
	s.Require().NotNil(updated.Verification)
	s.True(updated.Verification.RequiresVerification)
	s.True(updated.Prerequisites.RequiresExternal)
}

func (s *WorkflowServiceSuite) TestNoticeOfChangeRejectedWhenStepAbsent() {
	state := s.start(domain.TypeNewLicense)
	_, err := s.service.UpdateNoticeOfChange(s.ctx, state.ID, NoticeOfChange{PreviousLicenseNumber: "DL-1"})
	s.Require().Error(err)
	s.True(dErrors.IsCode(err, dErrors.CodeBadRequest))
}

func (s *WorkflowServiceSuite) TestVerifyClaim() {
	s.resolver.result = prereq.CheckResult{RequiresExternal: true}
	s.resolver.state = &prereq.LicenseVerificationState{
		RequiresVerification: true,
		ExternalLicenses: []prereq.ExternalLicenseClaim{
			{Category: domain.CategoryB, IsRequired: true},
		},
	}

	state := s.start(domain.TypeNewLicense)
	_, err := s.service.SelectCategory(s.ctx, state.ID, domain.CategoryBE, nil)
	s.Require().NoError(err)

	s.Run("unknown claim is not found", func() {
		_, err := s.service.VerifyClaim(s.ctx, state.ID, domain.CategoryD)
		s.True(dErrors.IsCode(err, dErrors.CodeNotFound))
	})

	s.Run("verifying the claim unblocks the session", func() {
		updated, err := s.service.VerifyClaim(s.ctx, state.ID, domain.CategoryB)
		s.Require().NoError(err)
		s.False(updated.Verification.RequiresVerification)
		s.True(updated.Prerequisites.CanProceed)
	})
}

func (s *WorkflowServiceSuite) TestAdvanceGatesOnValidation() {
	state := s.start(domain.TypeNewLicense)

	// Applicant step only checks person existence.
	advanced, outcome, err := s.service.Advance(s.ctx, state.ID)
	s.Require().NoError(err)
	s.True(outcome.Valid())
	s.Equal(StepDetails, advanced.Current())

	// Details step fails without a category; the index must not move.
	blocked, outcome, err := s.service.Advance(s.ctx, state.ID)
	s.Require().NoError(err)
	s.False(outcome.Valid())
	s.Equal(StepDetails, blocked.Current())
	s.NotEmpty(blocked.StepErrors[StepDetails])

	// Selecting a category clears the path forward.
	_, err = s.service.SelectCategory(s.ctx, state.ID, domain.CategoryB, nil)
	s.Require().NoError(err)
	moved, outcome, err := s.service.Advance(s.ctx, state.ID)
	s.Require().NoError(err)
	s.True(outcome.Valid())
	s.Equal(StepMedical, moved.Current())
}

func (s *WorkflowServiceSuite) TestBackNeverValidates() {
	state := s.start(domain.TypeNewLicense)
	_, _, err := s.service.Advance(s.ctx, state.ID)
	s.Require().NoError(err)

	back, err := s.service.Back(s.ctx, state.ID)
	s.Require().NoError(err)
	s.Equal(StepApplicant, back.Current())

	// At the first step, back stays put.
	again, err := s.service.Back(s.ctx, state.ID)
	s.Require().NoError(err)
	s.Equal(StepApplicant, again.Current())
}

// completeSession walks a new-license session to the review step with
// every concern satisfied.
func (s *WorkflowServiceSuite) completeSession() *State {
	state := s.start(domain.TypeNewLicense)

	_, err := s.service.SelectCategory(s.ctx, state.ID, domain.CategoryB, nil)
	s.Require().NoError(err)
	_, err = s.service.UpdateBiometrics(s.ctx, state.ID, Biometrics{PhotoRef: "photo-1"})
	s.Require().NoError(err)

	quote, err := s.service.Quote(s.ctx, state.ID)
	s.Require().NoError(err)
	s.Require().NotEmpty(quote.Items)
	feeIDs := make([]string, 0, len(quote.Items))
	for _, item := range quote.Items {
		feeIDs = append(feeIDs, item.FeeID)
	}
	_, err = s.service.SelectFees(s.ctx, state.ID, feeIDs)
	s.Require().NoError(err)

	// Applicant -> details -> medical -> biometrics -> review.
	for i := 0; i < 4; i++ {
		moved, outcome, err := s.service.Advance(s.ctx, state.ID)
		s.Require().NoError(err)
		s.Require().True(outcome.Valid(), "step %s blocked: %v", moved.Current(), outcome.Reasons)
	}

	current, err := s.service.Get(s.ctx, state.ID)
	s.Require().NoError(err)
	s.Require().Equal(StepReview, current.Current())
	return current
}

func (s *WorkflowServiceSuite) TestSubmit() {
	s.Run("requires the review step", func() {
		state := s.start(domain.TypeNewLicense)
		_, _, err := s.service.Submit(s.ctx, state.ID)
		s.True(dErrors.IsCode(err, dErrors.CodeConflict))
	})

	s.Run("happy path hands the payload to the sink", func() {
		state := s.completeSession()

		submitted, outcome, err := s.service.Submit(s.ctx, state.ID)
		s.Require().NoError(err)
		s.True(outcome.Valid())
		s.True(submitted.Submitted)
		s.False(submitted.SubmittedApplication.IsZero())

		s.Require().Len(s.sink.submissions, 1)
		sub := s.sink.submissions[0]
		s.Equal(s.personID, sub.PersonID)
		s.Equal("office-12", sub.LocationID)
		s.Equal(domain.TypeNewLicense, sub.Type)
		s.Equal(domain.CategoryB, sub.Category)
	})

	s.Run("double submit conflicts", func() {
		state := s.completeSession()
		_, _, err := s.service.Submit(s.ctx, state.ID)
		s.Require().NoError(err)
		_, _, err = s.service.Submit(s.ctx, state.ID)
		s.True(dErrors.IsCode(err, dErrors.CodeConflict))
	})

	s.Run("missing fee selection blocks with a reason, not an error", func() {
		state := s.completeSession()

		// Clear the fee selection directly through the service path: select
		// an empty list.
		_, err := s.service.SelectFees(s.ctx, state.ID, nil)
		s.Require().NoError(err)

		unsubmitted, outcome, err := s.service.Submit(s.ctx, state.ID)
		s.Require().NoError(err)
		s.False(outcome.Valid())
		s.False(unsubmitted.Submitted)

		found := false
		for _, r := range outcome.Reasons {
			if r.Code == eligibility.ReasonFeeSelectionRequired {
				found = true
			}
		}
		s.True(found)
	})
}

func (s *WorkflowServiceSuite) TestSelectFeesRejectsUnknownFee() {
	state := s.start(domain.TypeNewLicense)
	_, err := s.service.SelectCategory(s.ctx, state.ID, domain.CategoryB, nil)
	s.Require().NoError(err)

	_, err = s.service.SelectFees(s.ctx, state.ID, []string{"fee-heavy-surcharge"})
	s.Require().Error(err)
	s.True(dErrors.IsCode(err, dErrors.CodeBadRequest))
}

func (s *WorkflowServiceSuite) TestQuoteFollowsTypeAndCategory() {
	state := s.start(domain.TypeNewLicense)
	_, err := s.service.SelectCategory(s.ctx, state.ID, domain.CategoryC, nil)
	s.Require().NoError(err)

	quote, err := s.service.Quote(s.ctx, state.ID)
	s.Require().NoError(err)

	ids := make([]string, 0, len(quote.Items))
	for _, item := range quote.Items {
		ids = append(ids, item.FeeID)
	}
	s.ElementsMatch([]string{"fee-new-standard", "fee-heavy-surcharge"}, ids)
	s.Equal("175", quote.Total.String())
}

func (s *WorkflowServiceSuite) TestAbandon() {
	state := s.start(domain.TypeNewLicense)
	s.Require().NoError(s.service.Abandon(s.ctx, state.ID))
	_, err := s.service.Get(s.ctx, state.ID)
	s.True(dErrors.IsCode(err, dErrors.CodeNotFound))
}

func (s *WorkflowServiceSuite) TestStepsForEveryType() {
	for _, tc := range []struct {
		appType domain.ApplicationType
		notice  bool
	}{
		{domain.TypeNewLicense, false},
		{domain.TypeLearnerPermit, false},
		{domain.TypeLearnerPermitDuplicate, true},
		{domain.TypeRenewal, true},
		{domain.TypeReplacement, false},
		{domain.TypeConversion, false},
		{domain.TypeProfessionalPermit, true},
		{domain.TypeTemporaryLicense, false},
		{domain.TypeInternationalPermit, false},
		{domain.TypeForeignConversion, false},
	} {
		steps := StepsFor(tc.appType)
		s.Equal(tc.notice, stepIndex(steps, StepNoticeOfChange) >= 0, "type %s", tc.appType)
		s.Equal(StepApplicant, steps[0])
		s.Equal(StepReview, steps[len(steps)-1])
	}
}
