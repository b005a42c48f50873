// Package eligibility computes pass/fail outcomes for workflow steps. All
// applicable checks are evaluated on every call so the clerk sees the full
// list of problems at once instead of fixing them one at a time.
package eligibility

import "time"

// ReasonCode names the violated rule in a stable, machine-readable form.
type ReasonCode string

const (
	ReasonCategoryRequired             ReasonCode = "category_selection_required"
	ReasonProfessionalCategoryRequired ReasonCode = "professional_category_required"
	ReasonCoCategoryRequired           ReasonCode = "co_category_required"
	ReasonUnderage                     ReasonCode = "minimum_age_not_met"
	ReasonConsentRequired              ReasonCode = "parental_consent_required"
	ReasonRefusalDetailsRequired       ReasonCode = "refusal_details_required"
	ReasonMedicalAcuityRequired        ReasonCode = "medical_visual_acuity_required"
	ReasonMedicalClearanceRequired     ReasonCode = "medical_clearance_required"
	ReasonMedicalExaminerRequired      ReasonCode = "medical_examiner_required"
	ReasonMedicalExamDateRequired      ReasonCode = "medical_exam_date_required"
	ReasonVerificationPending          ReasonCode = "external_verification_pending"
	ReasonFeeSelectionRequired         ReasonCode = "fee_selection_required"
	ReasonPhotoRequired                ReasonCode = "photo_required"
	ReasonNoticeDetailsRequired        ReasonCode = "notice_details_required"
)

// Reason is one named validation failure.
type Reason struct {
	Code    ReasonCode `json:"code"`
	Message string     `json:"message"`
}

// Outcome is the result of validating a step context: valid when the
// reason list is empty.
type Outcome struct {
	Reasons []Reason `json:"reasons"`
}

// Valid reports whether no check failed.
func (o Outcome) Valid() bool { return len(o.Reasons) == 0 }

func (o *Outcome) add(code ReasonCode, message string) {
	o.Reasons = append(o.Reasons, Reason{Code: code, Message: message})
}

// Merge appends the reasons of another outcome.
func (o *Outcome) Merge(other Outcome) {
	o.Reasons = append(o.Reasons, other.Reasons...)
}

// MedicalRecord is the recorded outcome of a medical assessment. Presence
// of the record does not imply the mandate is satisfied; the validator
// inspects the individual fields.
type MedicalRecord struct {
	// BinocularAcuity is the recorded binocular visual-acuity result,
	// e.g. "6/9". Empty means not measured.
	BinocularAcuity string `json:"binocular_acuity"`

	// Cleared must be an explicit decision; nil means not yet decided.
	Cleared *bool `json:"cleared"`

	ExaminerName string     `json:"examiner_name"`
	ExamDate     *time.Time `json:"exam_date"`
}

// Declarations captures the applicant's self-declared history.
type Declarations struct {
	// PriorRefusal is true when the applicant declares a previous license
	// refusal or suspension; Details are then mandatory.
	PriorRefusal bool   `json:"prior_refusal"`
	Details      string `json:"details"`
}

// Age computes whole years between birth and now using the issuing
// authority's day-count convention (floor of days / 365.25).
func Age(birthDate, now time.Time) int {
	days := now.Sub(birthDate).Hours() / 24
	if days < 0 {
		return 0
	}
	return int(days / 365.25)
}
