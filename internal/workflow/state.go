package workflow

import (
	"time"

	"licentia/internal/eligibility"
	"licentia/internal/fees"
	"licentia/internal/prereq"
	"licentia/pkg/domain"
)

// NoticeOfChange carries the replacement-or-renewal details collected only
// for the application types that include that step.
type NoticeOfChange struct {
	PreviousLicenseNumber string `json:"previous_license_number"`
	Details               string `json:"details"`
}

// Biometrics records which capture artifacts are present. Only references
// are kept; bytes live with the capture collaborator.
type Biometrics struct {
	PhotoRef       string `json:"photo_ref"`
	SignatureRef   string `json:"signature_ref,omitempty"`
	FingerprintRef string `json:"fingerprint_ref,omitempty"`
}

// State is one in-progress application session. It is mutated only through
// the service's defined transitions and serialized as JSON by the session
// stores.
type State struct {
	ID              domain.WorkflowID      `json:"id"`
	PersonID        domain.PersonID        `json:"person_id"`
	LocationID      string                 `json:"location_id"`
	ApplicationType domain.ApplicationType `json:"application_type"`

	SelectedCategory       domain.LicenseCategory   `json:"selected_category,omitempty"`
	ProfessionalCategories []domain.LicenseCategory `json:"professional_categories,omitempty"`

	Declarations       eligibility.Declarations      `json:"declarations"`
	ConsentDocumentRef string                        `json:"consent_document_ref,omitempty"`
	NoticeOfChange     *NoticeOfChange               `json:"notice_of_change,omitempty"`
	Medical            *eligibility.MedicalRecord    `json:"medical,omitempty"`
	Biometrics         Biometrics                    `json:"biometrics"`
	SelectedFees       []fees.LineItem               `json:"selected_fees,omitempty"`
	Verification       *prereq.LicenseVerificationState `json:"verification,omitempty"`
	Prerequisites      *prereq.CheckResult           `json:"prerequisites,omitempty"`

	Steps       []StepKind                         `json:"steps"`
	CurrentStep int                                `json:"current_step"`
	StepErrors  map[StepKind][]eligibility.Reason `json:"step_errors"`

	Submitted            bool                 `json:"submitted"`
	SubmittedApplication domain.ApplicationID `json:"submitted_application,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Current returns the step the session is on.
func (s *State) Current() StepKind {
	if s.CurrentStep < 0 || s.CurrentStep >= len(s.Steps) {
		return ""
	}
	return s.Steps[s.CurrentStep]
}

// hasStep reports whether the derived step list includes the step.
func (s *State) hasStep(step StepKind) bool {
	return stepIndex(s.Steps, step) >= 0
}

// recomputeSteps rebuilds the step list after a type change and discards
// everything captured in steps that no longer apply. Data belonging to
// surviving steps is left intact.
func (s *State) recomputeSteps() {
	previous := s.Steps
	s.Steps = StepsFor(s.ApplicationType)

	for _, step := range previous {
		if !s.hasStep(step) {
			s.discardStepData(step)
		}
	}
	if s.CurrentStep >= len(s.Steps) {
		s.CurrentStep = len(s.Steps) - 1
	}
	s.StepErrors = make(map[StepKind][]eligibility.Reason)
}

func (s *State) discardStepData(step StepKind) {
	switch step {
	case StepNoticeOfChange:
		s.NoticeOfChange = nil
	case StepMedical:
		s.Medical = nil
	case StepBiometrics:
		s.Biometrics = Biometrics{}
	}
}

// Clone returns a deep copy so stores never hand out aliased state.
func (s *State) Clone() *State {
	out := *s

	out.ProfessionalCategories = append([]domain.LicenseCategory(nil), s.ProfessionalCategories...)
	out.Steps = append([]StepKind(nil), s.Steps...)
	out.SelectedFees = append([]fees.LineItem(nil), s.SelectedFees...)

	if s.NoticeOfChange != nil {
		noc := *s.NoticeOfChange
		out.NoticeOfChange = &noc
	}
	if s.Medical != nil {
		med := *s.Medical
		if s.Medical.Cleared != nil {
			cleared := *s.Medical.Cleared
			med.Cleared = &cleared
		}
		if s.Medical.ExamDate != nil {
			examDate := *s.Medical.ExamDate
			med.ExamDate = &examDate
		}
		out.Medical = &med
	}
	if s.Prerequisites != nil {
		result := *s.Prerequisites
		out.Prerequisites = &result
	}
	if s.Verification != nil {
		verification := *s.Verification
		verification.SystemLicenses = append([]domain.LicenseCategory(nil), s.Verification.SystemLicenses...)
		verification.ExternalLicenses = append([]prereq.ExternalLicenseClaim(nil), s.Verification.ExternalLicenses...)
		out.Verification = &verification
	}

	out.StepErrors = make(map[StepKind][]eligibility.Reason, len(s.StepErrors))
	for step, reasons := range s.StepErrors {
		out.StepErrors[step] = append([]eligibility.Reason(nil), reasons...)
	}
	return &out
}
