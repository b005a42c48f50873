package handler

import (
	"licentia/internal/eligibility"
	"licentia/internal/workflow"
)

// StateResponse is the wire view of a workflow session.
type StateResponse struct {
	ID              string `json:"id"`
	PersonID        string `json:"person_id"`
	ApplicationType string `json:"application_type"`

	SelectedCategory       string   `json:"selected_category,omitempty"`
	ProfessionalCategories []string `json:"professional_categories,omitempty"`

	Steps       []string                        `json:"steps"`
	CurrentStep int                             `json:"current_step"`
	StepErrors  map[string][]eligibility.Reason `json:"step_errors"`

	RequiresVerification bool            `json:"requires_verification"`
	ExternalClaims       []ClaimResponse `json:"external_claims,omitempty"`
	AuthorizedCategories []string        `json:"authorized_categories,omitempty"`
	CanProceed           *bool           `json:"can_proceed,omitempty"`

	Submitted            bool   `json:"submitted"`
	SubmittedApplication string `json:"submitted_application,omitempty"`
}

// ClaimResponse is the wire view of one external license claim.
type ClaimResponse struct {
	Category         string `json:"category"`
	IssuingAuthority string `json:"issuing_authority,omitempty"`
	Verified         bool   `json:"verified"`
	IsRequired       bool   `json:"is_required"`
}

// ValidationResponse reports a step validation or gate outcome.
type ValidationResponse struct {
	Valid   bool                 `json:"valid"`
	Reasons []eligibility.Reason `json:"reasons"`
	State   StateResponse        `json:"state"`
}

// FromState converts a session to its wire view.
func FromState(state *workflow.State) StateResponse {
	resp := StateResponse{
		ID:              state.ID.String(),
		PersonID:        state.PersonID.String(),
		ApplicationType: state.ApplicationType.String(),
		CurrentStep:     state.CurrentStep,
		StepErrors:      make(map[string][]eligibility.Reason, len(state.StepErrors)),
		Submitted:       state.Submitted,
	}
	if state.SelectedCategory != "" {
		resp.SelectedCategory = state.SelectedCategory.String()
	}
	for _, c := range state.ProfessionalCategories {
		resp.ProfessionalCategories = append(resp.ProfessionalCategories, c.String())
	}
	for _, step := range state.Steps {
		resp.Steps = append(resp.Steps, string(step))
	}
	for step, reasons := range state.StepErrors {
		resp.StepErrors[string(step)] = reasons
	}
	if state.Verification != nil {
		resp.RequiresVerification = state.Verification.RequiresVerification
		for _, claim := range state.Verification.ExternalLicenses {
			resp.ExternalClaims = append(resp.ExternalClaims, ClaimResponse{
				Category:         claim.Category.String(),
				IssuingAuthority: claim.IssuingAuthority,
				Verified:         claim.Verified,
				IsRequired:       claim.IsRequired,
			})
		}
		for _, c := range state.Verification.AllAuthorizedCategories() {
			resp.AuthorizedCategories = append(resp.AuthorizedCategories, c.String())
		}
	}
	if state.Prerequisites != nil {
		canProceed := state.Prerequisites.CanProceed
		resp.CanProceed = &canProceed
	}
	if !state.SubmittedApplication.IsZero() {
		resp.SubmittedApplication = state.SubmittedApplication.String()
	}
	return resp
}

// FromOutcome converts a validation outcome plus session to its wire view.
func FromOutcome(outcome eligibility.Outcome, state *workflow.State) ValidationResponse {
	reasons := outcome.Reasons
	if reasons == nil {
		reasons = []eligibility.Reason{}
	}
	return ValidationResponse{
		Valid:   outcome.Valid(),
		Reasons: reasons,
		State:   FromState(state),
	}
}
