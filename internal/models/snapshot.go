package models

// GroupSnapshot is a point-in-time, read-only view of one group's ledger.
// Callers must not mutate the slices after handing a snapshot to the
// calculator.
type GroupSnapshot struct {
	Group       Group
	Expenses    []Expense
	Settlements []Settlement
}
