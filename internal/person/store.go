// Package person exposes the slim slice of the person registry this
// service consumes: the id and a possibly unknown birth date.
package person

import (
	"context"
	"time"

	"licentia/pkg/domain"
	dErrors "licentia/pkg/domain-errors"
)

// ErrNotFound keeps store-level 404s consistent across implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "person not found")

// Record is the consumed view of a registered person. BirthDate is nil
// when the registry holds no usable date; age-dependent checks then fail
// rather than pass.
type Record struct {
	ID        domain.PersonID
	BirthDate *time.Time
}

// Store looks up persons in the external registry.
type Store interface {
	Get(ctx context.Context, id domain.PersonID) (Record, error)
}
