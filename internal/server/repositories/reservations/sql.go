package reservations

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ulmg70/internal/dbx"
	"github.com/dmitrijs2005/ulmg70/internal/server/models"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/profiles"
)

var selectQuery = `SELECT r.id, r.profile_id, r.start_at, r.end_at, r.motive, ` + profiles.JoinedColumns + `
		 FROM reservations r
		 ` + profiles.JoinClause("r.profile_id")

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

// Create stores res with Start and End in UTC, truncated to microseconds.
func (r *SQLRepository) Create(ctx context.Context, res *models.Reservation) (*models.Reservation, error) {
	query :=
		`INSERT INTO reservations (profile_id, start_at, end_at, motive)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`

	res.Start = normalize(res.Start)
	res.End = normalize(res.End)

	err := r.db.QueryRowContext(ctx, query, res.ProfileID, res.Start, res.End, res.Motive).Scan(&res.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return res, nil
}

func (r *SQLRepository) ListEndingFrom(ctx context.Context, t time.Time) ([]*models.Reservation, error) {
	return r.list(ctx, selectQuery+`
		 WHERE r.end_at >= $1
		 ORDER BY r.start_at, r.id`, normalize(t))
}

func (r *SQLRepository) ListAll(ctx context.Context) ([]*models.Reservation, error) {
	return r.list(ctx, selectQuery+`
		 ORDER BY r.start_at, r.id`)
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]*models.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Reservation{}
	for rows.Next() {
		res := &models.Reservation{}
		var j profiles.Joined
		dest := append([]any{&res.ID, &res.ProfileID, &res.Start, &res.End, &res.Motive}, j.Dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		res.Start = res.Start.UTC()
		res.End = res.End.UTC()
		res.Profile = j.Profile()
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
