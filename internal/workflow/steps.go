// Package workflow sequences an application session through its steps and
// gates forward progress on validation. Each WorkflowState is private to
// one in-progress application; there is no shared mutable state across
// sessions.
package workflow

import "licentia/pkg/domain"

// StepKind is a closed tagged variant naming one workflow step.
type StepKind string

const (
	StepApplicant      StepKind = "applicant"
	StepDetails        StepKind = "application_details"
	StepNoticeOfChange StepKind = "notice_of_change"
	StepMedical        StepKind = "medical"
	StepBiometrics     StepKind = "biometrics"
	StepReview         StepKind = "review"
)

// noticeOfChangeTypes are the application types whose step list includes
// the notice-of-change / replacement-or-renewal details step.
var noticeOfChangeTypes = map[domain.ApplicationType]bool{
	domain.TypeRenewal:                true,
	domain.TypeLearnerPermitDuplicate: true,
	domain.TypeProfessionalPermit:     true,
}

// StepsFor derives the ordered step list for an application type. Pure:
// the sequencer holds only an index into this list, never per-step flags.
// The medical step is always present so an optional assessment can be
// recorded even when the mandate does not apply.
func StepsFor(appType domain.ApplicationType) []StepKind {
	steps := []StepKind{StepApplicant, StepDetails}
	if noticeOfChangeTypes[appType] {
		steps = append(steps, StepNoticeOfChange)
	}
	return append(steps, StepMedical, StepBiometrics, StepReview)
}

// stepIndex returns the position of a step in the list, or -1.
func stepIndex(steps []StepKind, step StepKind) int {
	for i, s := range steps {
		if s == step {
			return i
		}
	}
	return -1
}
