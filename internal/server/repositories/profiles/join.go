package profiles

import (
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/ulmg70/internal/server/models"
	"github.com/shopspring/decimal"
)

// JoinedColumns selects the profile and account columns brought in by
// JoinClause.
const JoinedColumns = `p.id, p.account_id, p.ownership_share, p.license_number, a.username`

// JoinClause returns the LEFT JOINs from the given profile foreign key
// (e.g. "r.profile_id") to profiles and accounts.
func JoinClause(fk string) string {
	return fmt.Sprintf(`LEFT JOIN profiles p ON p.id = %s
		 LEFT JOIN accounts a ON a.id = p.account_id`, fk)
}

// Joined receives the nullable columns of JoinedColumns.
type Joined struct {
	ProfileID sql.NullInt64
	AccountID sql.NullInt64
	Share     decimal.NullDecimal
	License   sql.NullString
	Username  sql.NullString
}

// Dest returns scan targets in JoinedColumns order.
func (j *Joined) Dest() []any {
	return []any{&j.ProfileID, &j.AccountID, &j.Share, &j.License, &j.Username}
}

// Profile builds the joined profile, or nil when the join found none.
func (j *Joined) Profile() *models.Profile {
	if !j.ProfileID.Valid {
		return nil
	}

	p := &models.Profile{
		ID:             j.ProfileID.Int64,
		AccountID:      j.AccountID.Int64,
		OwnershipShare: j.Share.Decimal,
		LicenseNumber:  j.License,
	}
	if j.Username.Valid {
		p.Account = &models.Account{ID: j.AccountID.Int64, Username: j.Username.String}
	}
	return p
}
