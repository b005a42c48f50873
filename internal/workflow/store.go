package workflow

import (
	"context"

	"licentia/pkg/domain"
	dErrors "licentia/pkg/domain-errors"
)

// ErrNotFound keeps store-level 404s consistent across implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "workflow not found")

// Store persists in-progress workflow sessions. Abandoned sessions simply
// expire; the core holds no external resources needing cleanup.
type Store interface {
	Save(ctx context.Context, state *State) error
	Get(ctx context.Context, id domain.WorkflowID) (*State, error)
	Delete(ctx context.Context, id domain.WorkflowID) error
}
