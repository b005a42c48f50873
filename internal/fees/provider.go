package fees

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"licentia/pkg/domain"
)

// ScheduleProvider supplies the currently effective fee schedule.
type ScheduleProvider interface {
	EffectiveSchedule(ctx context.Context) ([]FeeStructure, error)
}

// MemoryProvider serves a fixed schedule; the production provider sits
// behind the same interface at the service boundary.
type MemoryProvider struct {
	mu       sync.RWMutex
	schedule []FeeStructure
}

// NewMemoryProvider returns a provider over the given schedule.
func NewMemoryProvider(schedule []FeeStructure) *MemoryProvider {
	return &MemoryProvider{schedule: schedule}
}

// EffectiveSchedule returns a copy of the configured schedule.
func (p *MemoryProvider) EffectiveSchedule(_ context.Context) ([]FeeStructure, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]FeeStructure{}, p.schedule...), nil
}

// Replace swaps the schedule, for operational updates and tests.
func (p *MemoryProvider) Replace(schedule []FeeStructure) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.schedule = append([]FeeStructure{}, schedule...)
}

// DefaultSchedule is the built-in fee table used when no external fee
// service is configured.
func DefaultSchedule() []FeeStructure {
	return []FeeStructure{
		{
			ID:     "fee-new-standard",
			Label:  "New license issuance",
			Amount: decimal.NewFromInt(120),
			ApplicationTypes: []domain.ApplicationType{
				domain.TypeNewLicense, domain.TypeConversion, domain.TypeForeignConversion,
			},
		},
		{
			ID:     "fee-learner",
			Label:  "Learner permit",
			Amount: decimal.NewFromInt(40),
			ApplicationTypes: []domain.ApplicationType{
				domain.TypeLearnerPermit, domain.TypeLearnerPermitDuplicate,
			},
		},
		{
			ID:     "fee-renewal",
			Label:  "License renewal",
			Amount: decimal.NewFromInt(60),
			ApplicationTypes: []domain.ApplicationType{
				domain.TypeRenewal, domain.TypeTemporaryLicense,
			},
		},
		{
			ID:     "fee-replacement",
			Label:  "Replacement card",
			Amount: decimal.NewFromInt(35),
			ApplicationTypes: []domain.ApplicationType{
				domain.TypeReplacement,
			},
		},
		{
			ID:     "fee-professional",
			Label:  "Professional permit endorsement",
			Amount: decimal.NewFromInt(180),
			ApplicationTypes: []domain.ApplicationType{
				domain.TypeProfessionalPermit,
			},
		},
		{
			ID:     "fee-international",
			Label:  "International driving permit",
			Amount: decimal.NewFromInt(90),
			ApplicationTypes: []domain.ApplicationType{
				domain.TypeInternationalPermit,
			},
		},
		{
			ID:     "fee-heavy-surcharge",
			Label:  "Heavy vehicle surcharge",
			Amount: decimal.NewFromInt(55),
			Categories: []domain.LicenseCategory{
				domain.CategoryC, domain.CategoryD,
			},
		},
	}
}
