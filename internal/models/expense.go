package models

import (
	"time"

	"github.com/mmynk/housesplit/internal/money"
)

// Expense is a purchase paid by one member and shared according to Split.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// PayerID is the member who paid.
	PayerID string

	// Amount is the total paid, in minor units. Always positive.
	Amount money.Amount

	// Description is free text such as "Groceries".
	Description string

	// OccurredAt is when the expense happened. Period summaries group on it.
	OccurredAt time.Time

	// Split decides how Amount is shared.
	Split Split
}

// Split is how an expense is divided. It is either EqualSplit or
// CustomSplit; no other implementations exist.
type Split interface {
	// Kind returns the storage tag of the variant.
	Kind() SplitKind
	isSplit()
}

// SplitKind tags a Split variant.
type SplitKind string

const (
	SplitEqual  SplitKind = "equal"
	SplitCustom SplitKind = "custom"
)

// EqualSplit divides the amount evenly among Participants. Leftover minor
// units go one each to the participants with the lowest member IDs.
type EqualSplit struct {
	Participants []string
}

// CustomSplit assigns an explicit share to each member. Shares must sum to
// the expense amount exactly.
type CustomSplit struct {
	Shares map[string]money.Amount
}

func (EqualSplit) Kind() SplitKind  { return SplitEqual }
func (CustomSplit) Kind() SplitKind { return SplitCustom }

func (EqualSplit) isSplit()  {}
func (CustomSplit) isSplit() {}
