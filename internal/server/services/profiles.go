package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/ulmg70/internal/dbx"
	"github.com/dmitrijs2005/ulmg70/internal/server/forms"
	"github.com/dmitrijs2005/ulmg70/internal/server/models"
	"github.com/dmitrijs2005/ulmg70/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ulmg70/internal/timex"
)

type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	clock       timex.Clock
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, clock timex.Clock) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: m,
		clock:       clock,
	}
}

// Register creates the account and its profile in one transaction.
func (s *ProfileService) Register(ctx context.Context, form forms.ProfileForm) (*models.Profile, error) {
	account, profile, errs := form.Clean()
	if err := errs.Err(); err != nil {
		return nil, err
	}
	account.CreatedAt = s.clock.Now()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		a, err := s.repomanager.Accounts(tx).Create(ctx, account)
		if err != nil {
			return fmt.Errorf("error creating account: %w", err)
		}
		profile.AccountID = a.ID
		if _, err := s.repomanager.Profiles(tx).Create(ctx, profile); err != nil {
			return fmt.Errorf("error creating profile: %w", err)
		}
		profile.Account = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// List returns all profiles ordered by username. The form pages use it for
// their co-owner choices.
func (s *ProfileService) List(ctx context.Context) ([]*models.Profile, error) {
	list, err := s.repomanager.Profiles(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}
	return list, nil
}

// DeleteByUsername removes the account; its profile, reservations and log
// entries are removed with it. Returns common.ErrorNotFound for an unknown
// username.
func (s *ProfileService) DeleteByUsername(ctx context.Context, username string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)
		a, err := repo.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		return repo.Delete(ctx, a.ID)
	})
}
