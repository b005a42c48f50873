package person

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"licentia/pkg/domain"
)

// PostgresStore reads person records from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed person store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, id domain.PersonID) (Record, error) {
	var birthDate sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT birth_date FROM persons WHERE id = $1`, id.UUID,
	).Scan(&birthDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("get person: %w", err)
	}

	record := Record{ID: id}
	if birthDate.Valid {
		bd := birthDate.Time
		record.BirthDate = &bd
	}
	return record, nil
}
