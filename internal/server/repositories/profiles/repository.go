// Package profiles stores co-owner profiles, one per account.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/ulmg70/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	// GetByID returns the profile with its account, or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Profile, error)
	// List returns every profile with its account, ordered by username.
	List(ctx context.Context) ([]*models.Profile, error)
}
