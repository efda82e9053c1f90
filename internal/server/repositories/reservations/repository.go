// Package reservations stores aircraft bookings.
package reservations

import (
	"context"
	"time"

	"github.com/dmitrijs2005/ulmg70/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, r *models.Reservation) (*models.Reservation, error)
	// ListEndingFrom returns reservations whose end is at or after t,
	// ordered by start, with profile and account attached.
	ListEndingFrom(ctx context.Context, t time.Time) ([]*models.Reservation, error)
	// ListAll returns every reservation ordered by start, with profile and
	// account attached.
	ListAll(ctx context.Context) ([]*models.Reservation, error)
}
