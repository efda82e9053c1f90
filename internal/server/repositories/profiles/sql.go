package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ulmg70/internal/common"
	"github.com/dmitrijs2005/ulmg70/internal/dbx"
	"github.com/dmitrijs2005/ulmg70/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	query :=
		`INSERT INTO profiles (account_id, ownership_share, license_number)
		 VALUES ($1, $2, $3)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		profile.AccountID, profile.OwnershipShare, profile.LicenseNumber).Scan(&profile.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return profile, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.Profile, error) {
	query := `SELECT ` + JoinedColumns + ` FROM profiles p
		 LEFT JOIN accounts a ON a.id = p.account_id
		 WHERE p.id = $1`

	var j Joined
	if err := r.db.QueryRowContext(ctx, query, id).Scan(j.Dest()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return j.Profile(), nil
}

func (r *SQLRepository) List(ctx context.Context) ([]*models.Profile, error) {
	query := `SELECT ` + JoinedColumns + ` FROM profiles p
		 LEFT JOIN accounts a ON a.id = p.account_id
		 ORDER BY a.username, p.id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Profile{}
	for rows.Next() {
		var j Joined
		if err := rows.Scan(j.Dest()...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, j.Profile())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
