package eligibility

import (
	"time"

	"licentia/internal/prereq"
	"licentia/internal/rules"
	"licentia/pkg/domain"
)

// adultAge is the threshold below which parental consent is mandatory.
const adultAge = 18

// seniorAge activates the age-conditional medical mandate.
const seniorAge = 60

// FallbackCategory is assumed at submission time for application types
// that defer explicit category selection.
const FallbackCategory = domain.CategoryB

// deferredSelectionTypes do not require the applicant to pick a category;
// the fallback is applied when the application is finalized.
var deferredSelectionTypes = map[domain.ApplicationType]bool{
	domain.TypeTemporaryLicense: true,
	domain.TypeRenewal:          true,
}

// ageExemptTypes skip the minimum-age check: the applicant already holds
// or held the underlying license.
var ageExemptTypes = map[domain.ApplicationType]bool{
	domain.TypeTemporaryLicense:       true,
	domain.TypeRenewal:                true,
	domain.TypeLearnerPermitDuplicate: true,
}

// Input carries everything the validator consumes for one step context.
// BirthDate is nil when the person registry has no record of it; age
// checks then fail rather than pass.
type Input struct {
	ApplicationType        domain.ApplicationType
	BirthDate              *time.Time
	SelectedCategory       domain.LicenseCategory // zero until chosen
	ProfessionalCategories []domain.LicenseCategory
	Declarations           Declarations
	ConsentDocumentRef     string
	Medical                *MedicalRecord
	Verification           *prereq.LicenseVerificationState
}

// EffectiveCategory is the category evaluation proceeds with: the selected
// one, or the fallback for types that defer selection.
func (in Input) EffectiveCategory() domain.LicenseCategory {
	if in.SelectedCategory != "" {
		return in.SelectedCategory
	}
	if deferredSelectionTypes[in.ApplicationType] {
		return FallbackCategory
	}
	return ""
}

// Validator combines registry rules with applicant data into per-concern
// pass/fail decisions. It holds no mutable state.
type Validator struct {
	registry *rules.Registry
}

// New constructs a validator over the given rule registry.
func New(registry *rules.Registry) *Validator {
	return &Validator{registry: registry}
}

// ValidateDetails checks the application-details concerns: category
// selection, minimum age, parental consent, refusal declaration,
// professional endorsement floors, and external verification completeness.
// Every check runs; nothing short-circuits.
//
// Errors: CodeConfiguration only, when a selected category has no rule.
func (v *Validator) ValidateDetails(in Input, now time.Time) (Outcome, error) {
	var out Outcome

	if err := v.checkCategorySelection(in, &out); err != nil {
		return Outcome{}, err
	}
	if err := v.checkAge(in, now, &out); err != nil {
		return Outcome{}, err
	}
	v.checkConsent(in, now, &out)
	v.checkRefusalDeclaration(in, &out)
	if err := v.checkProfessional(in, now, &out); err != nil {
		return Outcome{}, err
	}
	v.checkVerification(in, &out)

	return out, nil
}

// ValidateMedical checks the medical mandate. The medical step is always
// shown so clerks can record an optional assessment; the mandate itself is
// conditional on category rules, age, and application type.
func (v *Validator) ValidateMedical(in Input, now time.Time) (Outcome, error) {
	var out Outcome

	required, err := v.medicalRequired(in, now)
	if err != nil {
		return Outcome{}, err
	}
	if !required {
		return out, nil
	}

	rec := in.Medical
	if rec == nil {
		rec = &MedicalRecord{}
	}
	if rec.BinocularAcuity == "" {
		out.add(ReasonMedicalAcuityRequired, "binocular visual-acuity result is required")
	}
	if rec.Cleared == nil {
		out.add(ReasonMedicalClearanceRequired, "explicit medical clearance decision is required")
	}
	if rec.ExaminerName == "" {
		out.add(ReasonMedicalExaminerRequired, "examiner name is required")
	}
	if rec.ExamDate == nil {
		out.add(ReasonMedicalExamDateRequired, "examination date is required")
	}
	return out, nil
}

// ValidateAll runs every concern; used by the review step.
func (v *Validator) ValidateAll(in Input, now time.Time) (Outcome, error) {
	out, err := v.ValidateDetails(in, now)
	if err != nil {
		return Outcome{}, err
	}
	medical, err := v.ValidateMedical(in, now)
	if err != nil {
		return Outcome{}, err
	}
	out.Merge(medical)
	return out, nil
}

func (v *Validator) checkCategorySelection(in Input, out *Outcome) error {
	if in.SelectedCategory == "" {
		if !deferredSelectionTypes[in.ApplicationType] && in.ApplicationType != domain.TypeProfessionalPermit {
			out.add(ReasonCategoryRequired, "a license category must be selected")
		}
		return nil
	}
	_, err := v.registry.Rule(in.SelectedCategory)
	return err
}

func (v *Validator) checkAge(in Input, now time.Time, out *Outcome) error {
	if ageExemptTypes[in.ApplicationType] {
		return nil
	}
	category := in.EffectiveCategory()
	if category == "" {
		return nil
	}
	rule, err := v.registry.Rule(category)
	if err != nil {
		return err
	}
	if in.BirthDate == nil {
		// Unknown birth date makes the check indeterminate; fail closed.
		out.add(ReasonUnderage, "date of birth is unknown; minimum age cannot be confirmed")
		return nil
	}
	if Age(*in.BirthDate, now) < rule.MinimumAge {
		out.add(ReasonUnderage, "applicant is below the minimum age for category "+category.String())
	}
	return nil
}

func (v *Validator) checkConsent(in Input, now time.Time, out *Outcome) {
	if in.BirthDate == nil {
		return
	}
	if Age(*in.BirthDate, now) >= adultAge {
		return
	}
	// Presence of the consent document reference is checked, never its
	// content; the document itself lives with the capture collaborator.
	if in.ConsentDocumentRef == "" {
		out.add(ReasonConsentRequired, "parental consent document is required for applicants under 18")
	}
}

func (v *Validator) checkRefusalDeclaration(in Input, out *Outcome) {
	if in.Declarations.PriorRefusal && in.Declarations.Details == "" {
		out.add(ReasonRefusalDetailsRequired, "details of the prior refusal or suspension are required")
	}
}

func (v *Validator) checkProfessional(in Input, now time.Time, out *Outcome) error {
	if in.ApplicationType != domain.TypeProfessionalPermit {
		return nil
	}
	if len(in.ProfessionalCategories) == 0 {
		out.add(ReasonProfessionalCategoryRequired, "at least one professional permit category required")
		return nil
	}

	selected := make(map[domain.LicenseCategory]bool, len(in.ProfessionalCategories))
	for _, c := range in.ProfessionalCategories {
		selected[c] = true
	}

	for _, c := range in.ProfessionalCategories {
		rule, err := v.registry.Rule(c)
		if err != nil {
			return err
		}
		// Each endorsement carries its own floor, independent of the base
		// category minimum.
		if in.BirthDate == nil {
			out.add(ReasonUnderage, "date of birth is unknown; minimum age for "+c.String()+" cannot be confirmed")
		} else if Age(*in.BirthDate, now) < rule.MinimumAge {
			out.add(ReasonUnderage, "applicant is below the minimum age for endorsement "+c.String())
		}
		if rule.RequiresCategory != "" && !selected[rule.RequiresCategory] {
			out.add(ReasonCoCategoryRequired, c.String()+" endorsement requires the "+rule.RequiresCategory.String()+" endorsement")
		}
	}
	return nil
}

func (v *Validator) checkVerification(in Input, out *Outcome) {
	if in.Verification == nil || !in.Verification.RequiresVerification {
		return
	}
	for _, claim := range in.Verification.ExternalLicenses {
		if claim.IsRequired && !claim.Verified {
			out.add(ReasonVerificationPending, "external license claim for "+claim.Category.String()+" awaits manual verification")
			return
		}
	}
}

// medicalRequired decides whether the mandate applies: unconditionally for
// the category, from 60 up for age-conditional categories, or because the
// application is for a professional permit. An unknown birth date counts
// as 60+ (fail closed).
func (v *Validator) medicalRequired(in Input, now time.Time) (bool, error) {
	if in.ApplicationType == domain.TypeProfessionalPermit {
		return true, nil
	}
	category := in.EffectiveCategory()
	if category == "" {
		return false, nil
	}
	rule, err := v.registry.Rule(category)
	if err != nil {
		return false, err
	}
	if rule.MedicalAlways {
		return true, nil
	}
	if !rule.MedicalOver60 {
		return false, nil
	}
	if in.BirthDate == nil {
		return true, nil
	}
	return Age(*in.BirthDate, now) >= seniorAge, nil
}
