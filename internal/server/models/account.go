// Package models defines the records persisted by the store and the view
// types derived from them.
package models

import "time"

// Account is the login identity a co-owner profile extends.
type Account struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}
