package models

import (
	"time"

	"github.com/mmynk/housesplit/internal/money"
)

// Settlement represents a payment between group members to clear debts.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromID is the member who paid (debtor settling up).
	FromID string

	// ToID is the member who received payment (creditor being paid).
	ToID string

	// Amount is the payment amount. Always positive.
	Amount money.Amount

	// OccurredAt is when the payment happened.
	OccurredAt time.Time

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string

	// Note is an optional description for the settlement.
	Note string
}
