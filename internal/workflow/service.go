package workflow

import (
	"context"
	"log/slog"
	"time"

	"licentia/internal/applications"
	"licentia/internal/eligibility"
	"licentia/internal/fees"
	"licentia/internal/rules"
	"licentia/internal/workflow/metrics"
	"licentia/pkg/domain"
	dErrors "licentia/pkg/domain-errors"
	"licentia/pkg/requestcontext"
)

// Service is the workflow step sequencer. It owns all state transitions;
// handlers and stores never mutate a State directly.
type Service struct {
	registry    *rules.Registry
	validator   *eligibility.Validator
	resolver    PrerequisiteResolver
	feeProvider fees.ScheduleProvider
	persons     PersonLookup
	sink        SubmissionSink
	store       Store
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// NewService wires the sequencer. Logger and metrics may be nil.
func NewService(
	registry *rules.Registry,
	validator *eligibility.Validator,
	resolver PrerequisiteResolver,
	feeProvider fees.ScheduleProvider,
	persons PersonLookup,
	sink SubmissionSink,
	store Store,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		registry:    registry,
		validator:   validator,
		resolver:    resolver,
		feeProvider: feeProvider,
		persons:     persons,
		sink:        sink,
		store:       store,
		logger:      logger,
		metrics:     m,
	}
}

// Start opens a session for an applicant. The person must exist; an
// unknown birth date is allowed and simply fails age checks later.
func (s *Service) Start(ctx context.Context, personID domain.PersonID, appType domain.ApplicationType, locationID string) (*State, error) {
	if !appType.IsValid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "unsupported application type")
	}
	if _, err := s.persons.Get(ctx, personID); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	state := &State{
		ID:              domain.NewWorkflowID(),
		PersonID:        personID,
		LocationID:      locationID,
		ApplicationType: appType,
		Steps:           StepsFor(appType),
		StepErrors:      make(map[StepKind][]eligibility.Reason),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.Save(ctx, state); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "workflow started",
			"workflow_id", state.ID.String(),
			"person_id", personID.String(),
			"application_type", appType.String(),
		)
	}
	return state, nil
}

// Get loads a session.
func (s *Service) Get(ctx context.Context, id domain.WorkflowID) (*State, error) {
	return s.store.Get(ctx, id)
}

// Abandon discards a session. No cleanup obligations exist beyond the
// store entry itself.
func (s *Service) Abandon(ctx context.Context, id domain.WorkflowID) error {
	return s.store.Delete(ctx, id)
}

// SetApplicationType switches the application type, recomputes the step
// list, discards data captured in steps that no longer apply, and
// re-triggers prerequisite resolution.
func (s *Service) SetApplicationType(ctx context.Context, id domain.WorkflowID, appType domain.ApplicationType) (*State, error) {
	return s.mutate(ctx, id, func(state *State) error {
		if !appType.IsValid() {
			return dErrors.New(dErrors.CodeBadRequest, "unsupported application type")
		}
		state.ApplicationType = appType
		state.recomputeSteps()
		return s.refreshPrerequisites(ctx, state)
	})
}

// SelectCategory records the chosen category (and professional
// endorsements where applicable), invalidates previous validation results,
// and re-triggers prerequisite resolution since the required set may
// differ.
func (s *Service) SelectCategory(ctx context.Context, id domain.WorkflowID, category domain.LicenseCategory, professional []domain.LicenseCategory) (*State, error) {
	return s.mutate(ctx, id, func(state *State) error {
		if category != "" {
			if _, err := s.registry.Rule(category); err != nil {
				return err
			}
		}
		for _, c := range professional {
			if _, err := s.registry.Rule(c); err != nil {
				return err
			}
		}
		state.SelectedCategory = category
		state.ProfessionalCategories = append([]domain.LicenseCategory(nil), professional...)
		state.StepErrors = make(map[StepKind][]eligibility.Reason)
		return s.refreshPrerequisites(ctx, state)
	})
}

// UpdateDeclarations records the applicant's declarations and the consent
// document reference.
func (s *Service) UpdateDeclarations(ctx context.Context, id domain.WorkflowID, declarations eligibility.Declarations, consentDocumentRef string) (*State, error) {
	return s.mutate(ctx, id, func(state *State) error {
		state.Declarations = declarations
		state.ConsentDocumentRef = consentDocumentRef
		return nil
	})
}

// UpdateNoticeOfChange records renewal/duplicate details. Rejected when
// the current step list does not include the step.
func (s *Service) UpdateNoticeOfChange(ctx context.Context, id domain.WorkflowID, notice NoticeOfChange) (*State, error) {
	return s.mutate(ctx, id, func(state *State) error {
		if !state.hasStep(StepNoticeOfChange) {
			return dErrors.New(dErrors.CodeBadRequest, "notice of change does not apply to this application type")
		}
		state.NoticeOfChange = &notice
		return nil
	})
}

// UpdateMedical records a medical assessment. Always allowed: the step is
// shown even when the mandate does not apply.
func (s *Service) UpdateMedical(ctx context.Context, id domain.WorkflowID, record eligibility.MedicalRecord) (*State, error) {
	return s.mutate(ctx, id, func(state *State) error {
		state.Medical = &record
		return nil
	})
}

// UpdateBiometrics records capture artifact references.
func (s *Service) UpdateBiometrics(ctx context.Context, id domain.WorkflowID, biometrics Biometrics) (*State, error) {
	return s.mutate(ctx, id, func(state *State) error {
		state.Biometrics = biometrics
		return nil
	})
}

// SelectFees records the clerk's fee selection against the current quote.
func (s *Service) SelectFees(ctx context.Context, id domain.WorkflowID, feeIDs []string) (*State, error) {
	return s.mutate(ctx, id, func(state *State) error {
		quote, err := s.quote(ctx, state)
		if err != nil {
			return err
		}
		byID := make(map[string]fees.LineItem, len(quote.Items))
		for _, item := range quote.Items {
			byID[item.FeeID] = item
		}
		selected := make([]fees.LineItem, 0, len(feeIDs))
		for _, feeID := range feeIDs {
			item, ok := byID[feeID]
			if !ok {
				return dErrors.New(dErrors.CodeBadRequest, "fee "+feeID+" is not applicable to this application")
			}
			selected = append(selected, item)
		}
		state.SelectedFees = selected
		return nil
	})
}

// VerifyClaim records a clerk's manual confirmation of an external license
// claim and refreshes the prerequisite result.
func (s *Service) VerifyClaim(ctx context.Context, id domain.WorkflowID, category domain.LicenseCategory) (*State, error) {
	return s.mutate(ctx, id, func(state *State) error {
		if state.Verification == nil {
			return dErrors.New(dErrors.CodeBadRequest, "no external claims to verify")
		}
		if !state.Verification.MarkVerified(category) {
			return dErrors.New(dErrors.CodeNotFound, "no external claim for category "+category.String())
		}
		if state.Prerequisites != nil && !state.Verification.RequiresVerification {
			state.Prerequisites.CanProceed = true
			state.Prerequisites.RequiresExternal = false
		}
		return nil
	})
}

// ValidateStep runs the checks relevant to the current step, records the
// reasons, and returns the outcome.
func (s *Service) ValidateStep(ctx context.Context, id domain.WorkflowID) (*State, eligibility.Outcome, error) {
	var outcome eligibility.Outcome
	state, err := s.mutate(ctx, id, func(state *State) error {
		var err error
		outcome, err = s.validateCurrent(ctx, state)
		return err
	})
	if err != nil {
		return nil, eligibility.Outcome{}, err
	}
	return state, outcome, nil
}

// Advance validates the current step and moves forward only when it
// passes. The outcome tells the caller why the gate held.
func (s *Service) Advance(ctx context.Context, id domain.WorkflowID) (*State, eligibility.Outcome, error) {
	var outcome eligibility.Outcome
	state, err := s.mutate(ctx, id, func(state *State) error {
		var err error
		outcome, err = s.validateCurrent(ctx, state)
		if err != nil {
			return err
		}
		if !outcome.Valid() {
			s.metrics.IncrementAdvance("blocked")
			return nil
		}
		if state.CurrentStep < len(state.Steps)-1 {
			state.CurrentStep++
		}
		s.metrics.IncrementAdvance("allowed")
		return nil
	})
	if err != nil {
		return nil, eligibility.Outcome{}, err
	}
	return state, outcome, nil
}

// Back moves one step backward. Always allowed and never re-validates.
func (s *Service) Back(ctx context.Context, id domain.WorkflowID) (*State, error) {
	return s.mutate(ctx, id, func(state *State) error {
		if state.CurrentStep > 0 {
			state.CurrentStep--
		}
		return nil
	})
}

// Submit finalizes the session: the review step must validate and an
// explicit submit action hands the payload to the submission sink.
func (s *Service) Submit(ctx context.Context, id domain.WorkflowID) (*State, eligibility.Outcome, error) {
	var outcome eligibility.Outcome
	state, err := s.mutate(ctx, id, func(state *State) error {
		if state.Submitted {
			return dErrors.New(dErrors.CodeConflict, "workflow already submitted")
		}
		if state.Current() != StepReview {
			return dErrors.New(dErrors.CodeConflict, "submission is only possible from the review step")
		}

		var err error
		outcome, err = s.validateCurrent(ctx, state)
		if err != nil {
			return err
		}
		if !outcome.Valid() {
			s.metrics.IncrementSubmission("rejected")
			return nil
		}

		appID, err := s.sink.Submit(ctx, applications.Submission{
			PersonID:   state.PersonID,
			LocationID: state.LocationID,
			Type:       state.ApplicationType,
			Category:   s.submissionCategory(state),
			Medical:    state.Medical,
		})
		if err != nil {
			s.metrics.IncrementSubmission("failed")
			return err
		}

		state.Submitted = true
		state.SubmittedApplication = appID
		s.metrics.IncrementSubmission("submitted")
		if s.logger != nil {
			s.logger.InfoContext(ctx, "workflow submitted",
				"workflow_id", state.ID.String(),
				"application_id", appID.String(),
				"clerk_id", requestcontext.ClerkID(ctx),
			)
		}
		return nil
	})
	if err != nil {
		return nil, eligibility.Outcome{}, err
	}
	return state, outcome, nil
}

// Quote computes the current fee quote for a session.
func (s *Service) Quote(ctx context.Context, id domain.WorkflowID) (fees.Quote, error) {
	state, err := s.store.Get(ctx, id)
	if err != nil {
		return fees.Quote{}, err
	}
	return s.quote(ctx, state)
}

// mutate loads, transforms, stamps, and saves a session in one place so
// every transition shares the same lifecycle handling.
func (s *Service) mutate(ctx context.Context, id domain.WorkflowID, fn func(*State) error) (*State, error) {
	state, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(state); err != nil {
		return nil, err
	}
	state.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// refreshPrerequisites re-runs the resolver for the selected category. A
// transient lookup failure keeps the fail-closed verification state and is
// logged rather than failing the transition; the clerk can retry by
// re-selecting.
func (s *Service) refreshPrerequisites(ctx context.Context, state *State) error {
	if state.SelectedCategory == "" {
		state.Verification = nil
		state.Prerequisites = nil
		return nil
	}
	result, verification, err := s.resolver.Resolve(ctx, state.PersonID, state.SelectedCategory, state.ApplicationType)
	if err != nil && !dErrors.IsCode(err, dErrors.CodeExternalLookup) {
		return err
	}
	if err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "prerequisite resolution degraded to manual verification",
			"workflow_id", state.ID.String(),
			"category", state.SelectedCategory.String(),
			"error", err,
		)
	}
	state.Prerequisites = &result
	state.Verification = verification
	return nil
}

func (s *Service) validateCurrent(ctx context.Context, state *State) (eligibility.Outcome, error) {
	step := state.Current()
	if step == "" {
		return eligibility.Outcome{}, dErrors.New(dErrors.CodeConflict, "workflow has no current step")
	}
	outcome, err := s.stepOutcome(ctx, state, step)
	if err != nil {
		return eligibility.Outcome{}, err
	}

	state.StepErrors[step] = outcome.Reasons
	result := "valid"
	if !outcome.Valid() {
		result = "invalid"
	}
	s.metrics.IncrementStepValidation(string(step), result)
	return outcome, nil
}

func (s *Service) stepOutcome(ctx context.Context, state *State, step StepKind) (eligibility.Outcome, error) {
	record, err := s.persons.Get(ctx, state.PersonID)
	if err != nil {
		return eligibility.Outcome{}, err
	}
	input := s.buildInput(state, record.BirthDate)
	now := requestcontext.Now(ctx)

	switch step {
	case StepApplicant:
		// Person existence is the only applicant-step concern; the lookup
		// above already enforced it.
		return eligibility.Outcome{}, nil
	case StepDetails:
		return s.validator.ValidateDetails(input, now)
	case StepNoticeOfChange:
		return noticeOutcome(state), nil
	case StepMedical:
		return s.validator.ValidateMedical(input, now)
	case StepBiometrics:
		return biometricsOutcome(state), nil
	case StepReview:
		return s.reviewOutcome(ctx, state, input, now)
	default:
		return eligibility.Outcome{}, dErrors.New(dErrors.CodeInternal, "unknown workflow step "+string(step))
	}
}

// reviewOutcome re-checks every concern plus the review-only ones: fee
// selection and the presence of all conditional step data.
func (s *Service) reviewOutcome(_ context.Context, state *State, input eligibility.Input, now time.Time) (eligibility.Outcome, error) {
	outcome, err := s.validator.ValidateAll(input, now)
	if err != nil {
		return eligibility.Outcome{}, err
	}
	if state.hasStep(StepNoticeOfChange) {
		outcome.Merge(noticeOutcome(state))
	}
	outcome.Merge(biometricsOutcome(state))
	if len(state.SelectedFees) == 0 {
		outcome.Reasons = append(outcome.Reasons, eligibility.Reason{
			Code:    eligibility.ReasonFeeSelectionRequired,
			Message: "select applicable fees",
		})
	}
	return outcome, nil
}

func (s *Service) buildInput(state *State, birthDate *time.Time) eligibility.Input {
	return eligibility.Input{
		ApplicationType:        state.ApplicationType,
		BirthDate:              birthDate,
		SelectedCategory:       state.SelectedCategory,
		ProfessionalCategories: state.ProfessionalCategories,
		Declarations:           state.Declarations,
		ConsentDocumentRef:     state.ConsentDocumentRef,
		Medical:                state.Medical,
		Verification:           state.Verification,
	}
}

func (s *Service) quote(ctx context.Context, state *State) (fees.Quote, error) {
	schedule, err := s.feeProvider.EffectiveSchedule(ctx)
	if err != nil {
		return fees.Quote{}, dErrors.Wrap(err, dErrors.CodeExternalLookup, "fee schedule unavailable")
	}
	categories := append([]domain.LicenseCategory(nil), state.ProfessionalCategories...)
	if c := s.submissionCategory(state); c != "" {
		categories = append(categories, c)
	}
	return fees.Calculate(state.ApplicationType, categories, schedule), nil
}

// submissionCategory is the category the finalized application carries:
// the selected one, the fallback for deferred-selection types, or the
// first professional endorsement.
func (s *Service) submissionCategory(state *State) domain.LicenseCategory {
	input := eligibility.Input{
		ApplicationType:  state.ApplicationType,
		SelectedCategory: state.SelectedCategory,
	}
	if c := input.EffectiveCategory(); c != "" {
		return c
	}
	if len(state.ProfessionalCategories) > 0 {
		return state.ProfessionalCategories[0]
	}
	return ""
}

func noticeOutcome(state *State) eligibility.Outcome {
	var out eligibility.Outcome
	if state.NoticeOfChange == nil || state.NoticeOfChange.PreviousLicenseNumber == "" {
		out.Reasons = append(out.Reasons, eligibility.Reason{
			Code:    eligibility.ReasonNoticeDetailsRequired,
			Message: "previous license details are required",
		})
	}
	return out
}

func biometricsOutcome(state *State) eligibility.Outcome {
	var out eligibility.Outcome
	// Photo is unconditionally required for card production; signature and
	// fingerprint stay optional.
	if state.Biometrics.PhotoRef == "" {
		out.Reasons = append(out.Reasons, eligibility.Reason{
			Code:    eligibility.ReasonPhotoRequired,
			Message: "applicant photo is required",
		})
	}
	return out
}
