package forms

import (
	"database/sql"

	"github.com/dmitrijs2005/ulmg70/internal/server/models"
	"github.com/shopspring/decimal"
)

const (
	usernameMaxLength = 150
	licenseMaxLength  = 50
)

var maxShare = decimal.NewFromInt(100)

// ProfileForm registers a co-owner: an account plus its profile.
type ProfileForm struct {
	Username string
	Share    string
	License  string
}

// Clean validates the form. An empty share means 0.00.
func (f ProfileForm) Clean() (*models.Account, *models.Profile, Errors) {
	errs := Errors{}

	account := &models.Account{
		Username: cleanText(errs, "username", f.Username, true, usernameMaxLength),
	}

	share := cleanDecimal(errs, "share", f.Share, false, 5, 2)
	if !errs.Has("share") {
		switch {
		case share.IsNegative():
			errs.Add("share", "Ensure this value is greater than or equal to 0.")
		case share.GreaterThan(maxShare):
			errs.Add("share", "Ensure this value is less than or equal to 100.")
		}
	}

	profile := &models.Profile{OwnershipShare: share}
	if license := cleanText(errs, "license", f.License, false, licenseMaxLength); license != "" {
		profile.LicenseNumber = sql.NullString{String: license, Valid: true}
	}

	return account, profile, errs
}
