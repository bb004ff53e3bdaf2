package calculator

import (
	"fmt"
	"sort"

	"github.com/mmynk/housesplit/internal/models"
	"github.com/mmynk/housesplit/internal/money"
)

// Balances maps member ID to net position. Positive means the member is
// owed money, negative means they owe money.
type Balances map[string]money.Amount

// Sum returns the total of all balances. For any valid ledger it is zero.
func (b Balances) Sum() money.Amount {
	var total money.Amount
	for _, amt := range b {
		total += amt
	}
	return total
}

// MemberIDs returns the member IDs in ascending order.
func (b Balances) MemberIDs() []string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MemberBalance breaks a member's net balance into its two sides.
type MemberBalance struct {
	MemberID   string       `json:"member_id"`
	NetBalance money.Amount `json:"net_balance"` // Positive = owed money, Negative = owes money
	TotalPaid  money.Amount `json:"total_paid"`  // Expenses paid plus settlements sent
	TotalOwed  money.Amount `json:"total_owed"`  // Expense shares plus settlements received
}

// ComputeBalances reduces a group's ledger to one net balance per member.
// Every member of the group appears in the result, including those with a
// zero balance.
func ComputeBalances(snap models.GroupSnapshot) (Balances, error) {
	members, err := ComputeMemberBalances(snap)
	if err != nil {
		return nil, err
	}
	balances := make(Balances, len(members))
	for _, m := range members {
		balances[m.MemberID] = m.NetBalance
	}
	return balances, nil
}

// ComputeMemberBalances is ComputeBalances with paid/owed totals, sorted by
// member ID.
//
// Algorithm:
// - For each expense: payer is credited the amount, each participant is debited their share
// - For each settlement: payer is credited, receiver is debited
// - Aggregate: net_balance = total_paid - total_owed
func ComputeMemberBalances(snap models.GroupSnapshot) ([]MemberBalance, error) {
	balances := make(map[string]*MemberBalance, len(snap.Group.Members))
	for _, m := range snap.Group.Members {
		balances[m.ID] = &MemberBalance{MemberID: m.ID}
	}

	for _, e := range snap.Expenses {
		shares, err := expenseShares(balances, e)
		if err != nil {
			return nil, err
		}
		balances[e.PayerID].TotalPaid += e.Amount
		for id, share := range shares {
			balances[id].TotalOwed += share
		}
	}

	for _, s := range snap.Settlements {
		if err := settlementParties(balances, s); err != nil {
			return nil, err
		}
		balances[s.FromID].TotalPaid += s.Amount
		balances[s.ToID].TotalOwed += s.Amount
	}

	result := make([]MemberBalance, 0, len(balances))
	var sum money.Amount
	for _, bal := range balances {
		bal.NetBalance = bal.TotalPaid - bal.TotalOwed
		sum += bal.NetBalance
		result = append(result, *bal)
	}
	if sum != 0 {
		return nil, fmt.Errorf("%w: balances sum to %s", ErrUnbalancedLedger, sum)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].MemberID < result[j].MemberID })
	return result, nil
}

// ValidateExpense checks an expense against a group before it is recorded.
func ValidateExpense(group models.Group, e models.Expense) error {
	_, err := expenseShares(memberSet(group), e)
	return err
}

// ValidateSettlement checks a settlement against a group before it is
// recorded.
func ValidateSettlement(group models.Group, s models.Settlement) error {
	return settlementParties(memberSet(group), s)
}

func memberSet(group models.Group) map[string]*MemberBalance {
	set := make(map[string]*MemberBalance, len(group.Members))
	for _, m := range group.Members {
		set[m.ID] = nil
	}
	return set
}

func expenseShares(members map[string]*MemberBalance, e models.Expense) (map[string]money.Amount, error) {
	if _, ok := members[e.PayerID]; !ok {
		return nil, fmt.Errorf("%w: payer %q of expense %q", ErrUnknownMember, e.PayerID, e.ID)
	}
	shares, err := SplitShares(e)
	if err != nil {
		return nil, fmt.Errorf("expense %q: %w", e.ID, err)
	}
	for id := range shares {
		if _, ok := members[id]; !ok {
			return nil, fmt.Errorf("%w: participant %q of expense %q", ErrUnknownMember, id, e.ID)
		}
	}
	return shares, nil
}

func settlementParties(members map[string]*MemberBalance, s models.Settlement) error {
	if s.Amount <= 0 {
		return fmt.Errorf("%w: settlement %q amount %s must be positive", ErrInvalidAmount, s.ID, s.Amount)
	}
	if _, ok := members[s.FromID]; !ok {
		return fmt.Errorf("%w: payer %q of settlement %q", ErrUnknownMember, s.FromID, s.ID)
	}
	if _, ok := members[s.ToID]; !ok {
		return fmt.Errorf("%w: payee %q of settlement %q", ErrUnknownMember, s.ToID, s.ID)
	}
	if s.FromID == s.ToID {
		return fmt.Errorf("%w: settlement %q", ErrSelfSettlement, s.ID)
	}
	return nil
}
