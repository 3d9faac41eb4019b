package reward

import (
	"database/sql"
	"time"
)

type CardState string

const (
	Unscratched CardState = "unscratched"
	Active      CardState = "active"
	Expired     CardState = "expired"
)

// StateOf is the only place where a card's expiry is derived. Expiry is never
// persisted, a scratched card becomes expired once now passes expiresAt.
func StateOf(isScratched bool, expiresAt sql.NullTime, now time.Time) CardState {
	if !isScratched {
		return Unscratched
	}

	if expiresAt.Valid && now.After(expiresAt.Time) {
		return Expired
	}

	return Active
}

// Claimable reports whether the card still has something for the customer,
// either to reveal or to redeem.
func (s CardState) Claimable() bool {
	return s == Unscratched || s == Active
}
