package applications

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"licentia/pkg/domain"
)

// Clock abstracts time for testability.
type Clock func() time.Time

// PostgresStore persists applications in PostgreSQL.
type PostgresStore struct {
	db    *sql.DB
	clock Clock
}

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithPostgresClock sets the clock function for testability.
func WithPostgresClock(clock Clock) PostgresOption {
	return func(s *PostgresStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewPostgres constructs a PostgreSQL-backed applications store.
func NewPostgres(db *sql.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *PostgresStore) ListByPersonAndCategory(ctx context.Context, personID domain.PersonID, category domain.LicenseCategory, statuses []domain.ApplicationStatus) ([]Application, error) {
	query := `
		SELECT id, person_id, license_category, status, application_type, created_at, updated_at
		FROM applications
		WHERE person_id = $1 AND license_category = $2
	`
	args := []any{personID.UUID, category.String()}
	if len(statuses) > 0 {
		query += ` AND status = ANY($3)`
		statusStrings := make([]string, len(statuses))
		for i, st := range statuses {
			statusStrings[i] = st.String()
		}
		args = append(args, pq.Array(statusStrings))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Insert(ctx context.Context, app Application) error {
	now := s.clock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (id, person_id, license_category, status, application_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, app.ID.UUID, app.PersonID.UUID, app.Category.String(), app.Status.String(), app.Type.String(), now)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, id domain.ApplicationID, status domain.ApplicationStatus) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1
	`, id.UUID, status.String(), s.clock())
	if err != nil {
		return fmt.Errorf("set application status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set application status: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanApplication(rows *sql.Rows) (Application, error) {
	var (
		app         Application
		rawCategory string
		rawStatus   string
		rawType     string
	)
	if err := rows.Scan(&app.ID.UUID, &app.PersonID.UUID, &rawCategory, &rawStatus, &rawType, &app.CreatedAt, &app.UpdatedAt); err != nil {
		return Application{}, fmt.Errorf("scan application: %w", err)
	}

	category, err := domain.ParseLicenseCategory(rawCategory)
	if err != nil {
		return Application{}, err
	}
	status, err := domain.ParseApplicationStatus(rawStatus)
	if err != nil {
		return Application{}, err
	}
	appType, err := domain.ParseApplicationType(rawType)
	if err != nil {
		return Application{}, err
	}
	app.Category = category
	app.Status = status
	app.Type = appType
	return app, nil
}
