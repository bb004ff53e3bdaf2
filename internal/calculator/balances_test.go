package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/housesplit/internal/models"
	"github.com/mmynk/housesplit/internal/money"
)

var jan = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

func household() models.Group {
	return models.Group{
		ID:   "g1",
		Name: "Flat",
		Members: []models.Member{
			{ID: "alice", Name: "Alice"},
			{ID: "bob", Name: "Bob"},
			{ID: "carol", Name: "Carol"},
		},
	}
}

func equal(id, payer string, amount money.Amount, at time.Time, participants ...string) models.Expense {
	return models.Expense{
		ID:          id,
		GroupID:     "g1",
		PayerID:     payer,
		Amount:      amount,
		Description: id,
		OccurredAt:  at,
		Split:       models.EqualSplit{Participants: participants},
	}
}

func TestComputeBalances_Grocery(t *testing.T) {
	snap := models.GroupSnapshot{
		Group:    household(),
		Expenses: []models.Expense{equal("grocery", "alice", 1200, jan, "alice", "bob", "carol")},
	}

	balances, err := ComputeBalances(snap)
	require.NoError(t, err)
	assert.Equal(t, Balances{"alice": 800, "bob": -400, "carol": -400}, balances)
	assert.Zero(t, balances.Sum())
}

func TestComputeBalances_SettlementsReduceDebt(t *testing.T) {
	snap := models.GroupSnapshot{
		Group:    household(),
		Expenses: []models.Expense{equal("grocery", "alice", 1200, jan, "alice", "bob", "carol")},
		Settlements: []models.Settlement{
			{ID: "s1", FromID: "bob", ToID: "alice", Amount: 400, OccurredAt: jan},
			{ID: "s2", FromID: "carol", ToID: "alice", Amount: 100, OccurredAt: jan},
		},
	}

	balances, err := ComputeBalances(snap)
	require.NoError(t, err)
	assert.Equal(t, Balances{"alice": 300, "bob": 0, "carol": -300}, balances)
}

func TestComputeBalances_IncludesIdleMembers(t *testing.T) {
	snap := models.GroupSnapshot{
		Group:    household(),
		Expenses: []models.Expense{equal("taxi", "bob", 50, jan, "alice", "bob")},
	}

	balances, err := ComputeBalances(snap)
	require.NoError(t, err)
	assert.Equal(t, Balances{"alice": -25, "bob": 25, "carol": 0}, balances)
}

func TestComputeBalances_Errors(t *testing.T) {
	tests := []struct {
		name    string
		snap    models.GroupSnapshot
		wantErr error
	}{
		{
			name: "custom shares do not sum to total",
			snap: models.GroupSnapshot{
				Group: household(),
				Expenses: []models.Expense{{
					ID: "e1", PayerID: "alice", Amount: 1000,
					Split: models.CustomSplit{Shares: map[string]money.Amount{"alice": 500, "bob": 499}},
				}},
			},
			wantErr: ErrInvalidSplit,
		},
		{
			name: "participant outside group",
			snap: models.GroupSnapshot{
				Group:    household(),
				Expenses: []models.Expense{equal("e1", "alice", 100, jan, "alice", "mallory")},
			},
			wantErr: ErrUnknownMember,
		},
		{
			name: "payer outside group",
			snap: models.GroupSnapshot{
				Group:    household(),
				Expenses: []models.Expense{equal("e1", "mallory", 100, jan, "alice")},
			},
			wantErr: ErrUnknownMember,
		},
		{
			name: "settlement payee outside group",
			snap: models.GroupSnapshot{
				Group:       household(),
				Settlements: []models.Settlement{{ID: "s1", FromID: "alice", ToID: "mallory", Amount: 10}},
			},
			wantErr: ErrUnknownMember,
		},
		{
			name: "non-positive settlement",
			snap: models.GroupSnapshot{
				Group:       household(),
				Settlements: []models.Settlement{{ID: "s1", FromID: "alice", ToID: "bob", Amount: 0}},
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "settlement to self",
			snap: models.GroupSnapshot{
				Group:       household(),
				Settlements: []models.Settlement{{ID: "s1", FromID: "bob", ToID: "bob", Amount: 10}},
			},
			wantErr: ErrSelfSettlement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeBalances(tt.snap)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestComputeBalances_ZeroSumAndIdempotent(t *testing.T) {
	snap := models.GroupSnapshot{
		Group: household(),
		Expenses: []models.Expense{
			equal("rent", "alice", 150001, jan, "alice", "bob", "carol"),
			equal("power", "bob", 7777, jan, "alice", "bob", "carol"),
			equal("wine", "carol", 2999, jan, "bob", "carol"),
			{
				ID: "party", PayerID: "bob", Amount: 10000, OccurredAt: jan,
				Split: models.CustomSplit{Shares: map[string]money.Amount{"alice": 6000, "carol": 4000}},
			},
		},
		Settlements: []models.Settlement{
			{ID: "s1", FromID: "carol", ToID: "alice", Amount: 12345, OccurredAt: jan},
		},
	}

	first, err := ComputeBalances(snap)
	require.NoError(t, err)
	second, err := ComputeBalances(snap)
	require.NoError(t, err)

	assert.Zero(t, first.Sum())
	assert.Equal(t, first, second)
}

func TestComputeMemberBalances_Totals(t *testing.T) {
	snap := models.GroupSnapshot{
		Group:       household(),
		Expenses:    []models.Expense{equal("grocery", "alice", 1200, jan, "alice", "bob", "carol")},
		Settlements: []models.Settlement{{ID: "s1", FromID: "bob", ToID: "alice", Amount: 400, OccurredAt: jan}},
	}

	got, err := ComputeMemberBalances(snap)
	require.NoError(t, err)
	assert.Equal(t, []MemberBalance{
		{MemberID: "alice", NetBalance: 400, TotalPaid: 1200, TotalOwed: 800},
		{MemberID: "bob", NetBalance: 0, TotalPaid: 400, TotalOwed: 400},
		{MemberID: "carol", NetBalance: -400, TotalPaid: 0, TotalOwed: 400},
	}, got)
}

func TestValidateExpenseAndSettlement(t *testing.T) {
	g := household()

	assert.NoError(t, ValidateExpense(g, equal("ok", "alice", 300, jan, "alice", "bob")))
	assert.ErrorIs(t, ValidateExpense(g, equal("bad", "alice", 300, jan, "zed")), ErrUnknownMember)

	assert.NoError(t, ValidateSettlement(g, models.Settlement{FromID: "bob", ToID: "alice", Amount: 1}))
	assert.ErrorIs(t, ValidateSettlement(g, models.Settlement{FromID: "bob", ToID: "alice", Amount: -1}), ErrInvalidAmount)
}
