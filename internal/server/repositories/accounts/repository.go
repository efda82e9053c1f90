// Package accounts stores login identities.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/ulmg70/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	// Delete removes the account; its profile and everything the profile
	// owns go with it through ON DELETE CASCADE.
	Delete(ctx context.Context, id int64) error
}
