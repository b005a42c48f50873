// Package prereq resolves whether an applicant already holds the licenses
// a chosen category requires, either in-system or through manually
// verified external claims. Resolution fails closed: any uncertainty ends
// in "requires external verification", never in silent eligibility.
package prereq

import (
	"time"

	"licentia/pkg/domain"
)

// ExternalLicenseClaim is a license the applicant asserts to hold but
// which is not in the system. Verified is set only by an explicit clerk
// confirmation.
type ExternalLicenseClaim struct {
	Category         domain.LicenseCategory `json:"category"`
	IssueDate        *time.Time             `json:"issue_date,omitempty"`
	ExpiryDate       *time.Time             `json:"expiry_date,omitempty"`
	IssuingAuthority string                 `json:"issuing_authority,omitempty"`
	Verified         bool                   `json:"verified"`

	// IsRequired marks claims that block progress until verified, as
	// opposed to claims recorded for information only.
	IsRequired bool `json:"is_required"`
}

// LicenseVerificationState is the resolver's view of what the applicant
// holds and what still needs clerk attention.
type LicenseVerificationState struct {
	PersonID             domain.PersonID          `json:"person_id"`
	RequiresVerification bool                     `json:"requires_verification"`
	SystemLicenses       []domain.LicenseCategory `json:"system_licenses"`
	ExternalLicenses     []ExternalLicenseClaim   `json:"external_licenses"`
}

// AllAuthorizedCategories is the union of in-system and externally claimed
// categories; it doubles as the resolver's satisfied set and the display
// list.
func (s *LicenseVerificationState) AllAuthorizedCategories() []domain.LicenseCategory {
	seen := make(map[domain.LicenseCategory]bool, len(s.SystemLicenses)+len(s.ExternalLicenses))
	out := make([]domain.LicenseCategory, 0, len(s.SystemLicenses)+len(s.ExternalLicenses))
	for _, c := range s.SystemLicenses {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, claim := range s.ExternalLicenses {
		if !seen[claim.Category] {
			seen[claim.Category] = true
			out = append(out, claim.Category)
		}
	}
	return out
}

// Recompute refreshes RequiresVerification after a claim changes.
func (s *LicenseVerificationState) Recompute() {
	s.RequiresVerification = false
	for _, claim := range s.ExternalLicenses {
		if claim.IsRequired && !claim.Verified {
			s.RequiresVerification = true
			return
		}
	}
}

// MarkVerified records a clerk's manual confirmation of a claim.
// Returns false when no claim exists for the category.
func (s *LicenseVerificationState) MarkVerified(category domain.LicenseCategory) bool {
	for i := range s.ExternalLicenses {
		if s.ExternalLicenses[i].Category == category {
			s.ExternalLicenses[i].Verified = true
			s.Recompute()
			return true
		}
	}
	return false
}

// CheckResult summarizes prerequisite resolution for a category.
type CheckResult struct {
	// HasCompleted is true when every required category is backed by a
	// COMPLETED application; HasOnHold when at least one is only ON_HOLD.
	HasCompleted bool `json:"has_completed"`
	HasOnHold    bool `json:"has_on_hold"`

	// CanProceed is true when every requirement is satisfied in-system or
	// by a verified external claim. RequiresExternal is its negation.
	CanProceed       bool `json:"can_proceed"`
	RequiresExternal bool `json:"requires_external"`
}
