package forms

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// dateTimeLayouts are tried in order when parsing a date/time field.
var dateTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseDateTime parses v as a local time in loc (unless v carries its own
// offset) and returns it in UTC.
func ParseDateTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date/time %q", v)
}

func cleanDateTime(errs Errors, field, raw string, loc *time.Location) time.Time {
	if strings.TrimSpace(raw) == "" {
		errs.Add(field, MsgRequired)
		return time.Time{}
	}
	t, err := ParseDateTime(raw, loc)
	if err != nil {
		errs.Add(field, MsgInvalidDate)
		return time.Time{}
	}
	return t
}

func cleanChoice(errs Errors, field, raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		errs.Add(field, MsgRequired)
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		errs.Add(field, MsgInvalidChoice)
		return 0
	}
	return id
}

func maxLengthMsg(limit, got int) string {
	return fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", limit, got)
}

// cleanText trims raw and enforces required and maximum length in runes.
func cleanText(errs Errors, field, raw string, required bool, maxLen int) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		if required {
			errs.Add(field, MsgRequired)
		}
		return ""
	}
	if n := utf8.RuneCountInString(v); maxLen > 0 && n > maxLen {
		errs.Add(field, maxLengthMsg(maxLen, n))
	}
	return v
}

// cleanDecimal parses raw and checks it fits a column of the given
// precision and scale, reporting the first violated bound.
func cleanDecimal(errs Errors, field, raw string, required bool, maxDigits, places int) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			errs.Add(field, MsgRequired)
		}
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		errs.Add(field, MsgInvalidNumber)
		return decimal.Zero
	}
	if msg := checkDigits(d, maxDigits, places); msg != "" {
		errs.Add(field, msg)
	}
	return d
}

func checkDigits(d decimal.Decimal, maxDigits, places int) string {
	coefficient := d.Coefficient()
	digitCount := len(coefficient.Abs(coefficient).String())
	exp := int(d.Exponent())

	var digits, decimals int
	switch {
	case exp >= 0:
		digits, decimals = digitCount, 0
		if coefficient.Sign() != 0 {
			digits += exp
		}
	case -exp > digitCount:
		digits, decimals = -exp, -exp
	default:
		digits, decimals = digitCount, -exp
	}

	switch {
	case digits > maxDigits:
		return fmt.Sprintf("Ensure that there are no more than %d digits in total.", maxDigits)
	case decimals > places:
		return fmt.Sprintf("Ensure that there are no more than %d decimal places.", places)
	case digits-decimals > maxDigits-places:
		return fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", maxDigits-places)
	}
	return ""
}
