package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// UnknownOwner is shown when a record's profile or account is missing.
const UnknownOwner = "Unknown"

// Profile extends an Account with co-ownership details. Exactly one profile
// exists per account.
type Profile struct {
	ID             int64
	AccountID      int64
	OwnershipShare decimal.Decimal
	LicenseNumber  sql.NullString

	// Account is populated when the profile was fetched with its account.
	Account *Account
}

// Username returns the account's username, or UnknownOwner when the account
// was not loaded.
func (p *Profile) Username() string {
	if p == nil || p.Account == nil {
		return UnknownOwner
	}
	return p.Account.Username
}
