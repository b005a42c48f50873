package prereq

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"licentia/internal/prereq/metrics"
	"licentia/internal/rules"
	"licentia/pkg/domain"
	dErrors "licentia/pkg/domain-errors"
)

// lookupTimeout bounds the whole gathering phase; a slow collaborator
// degrades to the fail-closed path instead of blocking the session.
const lookupTimeout = 5 * time.Second

// learnerRequiredTypes are the application types for which a category's
// learner-permit requirement actually applies.
var learnerRequiredTypes = map[domain.ApplicationType]bool{
	domain.TypeNewLicense:         true,
	domain.TypeConversion:         true,
	domain.TypeProfessionalPermit: true,
	domain.TypeForeignConversion:  true,
}

// satisfiedStatuses are the only application statuses that count toward a
// prerequisite.
var satisfiedStatuses = []domain.ApplicationStatus{
	domain.StatusCompleted,
	domain.StatusOnHold,
}

// Resolver decides whether an applicant already qualifies on prerequisites
// for a chosen category and application type.
type Resolver struct {
	registry *rules.Registry
	lookup   ApplicationsLookup
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewResolver wires the resolver with its collaborators. Logger and
// metrics may be nil.
func NewResolver(registry *rules.Registry, lookup ApplicationsLookup, logger *slog.Logger, m *metrics.Metrics) *Resolver {
	return &Resolver{registry: registry, lookup: lookup, logger: logger, metrics: m}
}

// Resolve computes the prerequisite check for (person, category, type).
//
// The returned state is always usable: when the external lookup fails the
// result is the fail-closed "requires external verification" default and
// the CodeExternalLookup error is surfaced alongside it so the caller can
// offer a retry. Eligibility is never granted on a failed lookup.
//
// Errors: CodeConfiguration for a defective rule table (fatal),
// CodeExternalLookup for a transient collaborator failure (recoverable).
func (r *Resolver) Resolve(ctx context.Context, personID domain.PersonID, category domain.LicenseCategory, appType domain.ApplicationType) (CheckResult, *LicenseVerificationState, error) {
	required, err := r.requiredCategories(category, appType)
	if err != nil {
		return CheckResult{}, nil, err
	}

	state := &LicenseVerificationState{PersonID: personID}
	if len(required) == 0 {
		// Trivially satisfied: no claims are generated.
		r.metrics.IncrementResolution("satisfied", category.String())
		return CheckResult{CanProceed: true}, state, nil
	}

	records, err := r.gatherApplications(ctx, personID, required)
	if err != nil {
		// Fail closed: uncertainty means clerk verification, not approval.
		state.ExternalLicenses = placeholderClaims(required)
		state.Recompute()
		r.metrics.IncrementResolution("lookup_failed", category.String())
		if r.logger != nil {
			r.logger.WarnContext(ctx, "prerequisite lookup failed, requiring external verification",
				"person_id", personID.String(),
				"category", category.String(),
				"error", err,
			)
		}
		result := CheckResult{RequiresExternal: true}
		return result, state, dErrors.Wrap(err, dErrors.CodeExternalLookup, "applications lookup failed")
	}

	result := r.partition(required, records, state)
	outcome := "satisfied"
	if result.RequiresExternal {
		outcome = "requires_external"
	}
	r.metrics.IncrementResolution(outcome, category.String())
	return result, state, nil
}

// requiredCategories combines rule prerequisites with the learner class
// the application type demands, deduplicated in rule order.
func (r *Resolver) requiredCategories(category domain.LicenseCategory, appType domain.ApplicationType) ([]domain.LicenseCategory, error) {
	rule, err := r.registry.Rule(category)
	if err != nil {
		return nil, err
	}

	required := append([]domain.LicenseCategory(nil), rule.PrerequisiteCategories...)
	if rule.RequiresLearnerPermit && learnerRequiredTypes[appType] {
		learnerClass, ok, err := r.registry.LearnerClassFor(category)
		if err != nil {
			return nil, err
		}
		if ok {
			required = append(required, learnerClass)
		}
	}

	seen := make(map[domain.LicenseCategory]bool, len(required))
	out := required[:0]
	for _, c := range required {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}

// gatherApplications fetches the applicant's matching applications for
// every required category in parallel under a shared timeout.
func (r *Resolver) gatherApplications(ctx context.Context, personID domain.PersonID, required []domain.LicenseCategory) ([][]ApplicationRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	records := make([][]ApplicationRecord, len(required))

	for i, category := range required {
		i, category := i, category
		g.Go(func() error {
			start := time.Now()
			matches, err := r.lookup.ListByPersonAndCategory(ctx, personID, category, satisfiedStatuses)
			r.metrics.ObserveLookupLatency(time.Since(start))
			if err != nil {
				return err
			}
			records[i] = matches
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// partition splits the lookup results into completed / on-hold / missing
// and synthesizes placeholder claims for the misses.
func (r *Resolver) partition(required []domain.LicenseCategory, records [][]ApplicationRecord, state *LicenseVerificationState) CheckResult {
	var missing []domain.LicenseCategory
	allCompleted := true
	anyOnHold := false

	for i, category := range required {
		completed, onHold := false, false
		for _, rec := range records[i] {
			switch rec.Status {
			case domain.StatusCompleted:
				completed = true
			case domain.StatusOnHold:
				onHold = true
			}
		}
		switch {
		case completed:
			state.SystemLicenses = append(state.SystemLicenses, category)
		case onHold:
			state.SystemLicenses = append(state.SystemLicenses, category)
			anyOnHold = true
			allCompleted = false
		default:
			missing = append(missing, category)
			allCompleted = false
		}
	}

	state.ExternalLicenses = placeholderClaims(missing)
	state.Recompute()

	result := CheckResult{
		HasCompleted: allCompleted && len(required) > 0,
		HasOnHold:    anyOnHold,
		CanProceed:   len(missing) == 0,
	}
	result.RequiresExternal = !result.CanProceed
	return result
}

// placeholderClaims creates one unverified, blocking claim per missing
// category so the workflow can collect manual verification.
func placeholderClaims(categories []domain.LicenseCategory) []ExternalLicenseClaim {
	claims := make([]ExternalLicenseClaim, 0, len(categories))
	for _, c := range categories {
		claims = append(claims, ExternalLicenseClaim{
			Category:   c,
			Verified:   false,
			IsRequired: true,
		})
	}
	return claims
}
