package calculator

import "errors"

var (
	// ErrInvalidSplit means an expense's split cannot produce shares that
	// sum exactly to its amount.
	ErrInvalidSplit = errors.New("invalid split")

	// ErrUnknownMember means a payer, participant or settlement party is not
	// a member of the group.
	ErrUnknownMember = errors.New("unknown member")

	// ErrUnbalancedLedger means balances do not sum to zero. It always
	// indicates a bug upstream of the planner.
	ErrUnbalancedLedger = errors.New("unbalanced ledger")

	// ErrInvalidPeriod means a report period does not start before it ends.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidAmount means a settlement amount is not positive.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrSelfSettlement means a settlement names the same member on both sides.
	ErrSelfSettlement = errors.New("settlement payer and payee must differ")
)
