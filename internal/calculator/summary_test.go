package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/housesplit/internal/models"
	"github.com/mmynk/housesplit/internal/money"
)

func TestSummarize(t *testing.T) {
	feb := time.Date(2026, time.February, 3, 9, 0, 0, 0, time.UTC)
	snap := models.GroupSnapshot{
		Group: household(),
		Expenses: []models.Expense{
			equal("grocery", "alice", 1200, jan, "alice", "bob", "carol"),
			equal("taxi", "bob", 1200, jan.Add(24*time.Hour), "bob", "carol"),
			equal("rent", "carol", 90000, feb, "alice", "bob", "carol"),
		},
		Settlements: []models.Settlement{
			{ID: "s1", FromID: "bob", ToID: "alice", Amount: 400, OccurredAt: jan},
			{ID: "s2", FromID: "bob", ToID: "alice", Amount: 100, OccurredAt: feb},
		},
	}

	start, end := MonthPeriod(jan)
	summary, err := Summarize(snap, start, end)
	require.NoError(t, err)

	assert.Equal(t, money.Amount(2400), summary.TotalSpend)
	assert.Equal(t, 2, summary.ExpenseCount)
	assert.Equal(t, map[string]money.Amount{"alice": 1200, "bob": 1200, "carol": 0}, summary.Paid)
	assert.Equal(t, map[string]money.Amount{"alice": 400, "bob": 1000, "carol": 1000}, summary.Owed)
	assert.Equal(t, "alice", summary.TopPayer, "ties resolve to the lower member ID")
	assert.Equal(t, money.Amount(400), summary.Settled)
}

func TestSummarize_BoundsAreHalfOpen(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	snap := models.GroupSnapshot{
		Group: household(),
		Expenses: []models.Expense{
			equal("at-start", "alice", 100, start, "alice"),
			equal("at-end", "bob", 100, end, "bob"),
		},
	}

	summary, err := Summarize(snap, start, end)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ExpenseCount)
	assert.Equal(t, "alice", summary.TopPayer)
}

func TestSummarize_EmptyPeriod(t *testing.T) {
	start, end := MonthPeriod(jan)
	summary, err := Summarize(models.GroupSnapshot{Group: household()}, start, end)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalSpend)
	assert.Empty(t, summary.TopPayer)
	assert.Len(t, summary.Paid, 3)
}

func TestSummarize_InvalidPeriod(t *testing.T) {
	_, err := Summarize(models.GroupSnapshot{Group: household()}, jan, jan)
	require.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = Summarize(models.GroupSnapshot{Group: household()}, jan, jan.Add(-time.Hour))
	require.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestMonthPeriod(t *testing.T) {
	start, end := MonthPeriod(time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestMonthlySummaries(t *testing.T) {
	snap := models.GroupSnapshot{
		Group: household(),
		Expenses: []models.Expense{
			equal("may", "alice", 300, time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC), "alice", "bob", "carol"),
			equal("march", "bob", 200, time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), "alice", "bob"),
		},
		Settlements: []models.Settlement{
			{ID: "s1", FromID: "alice", ToID: "bob", Amount: 100, OccurredAt: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)},
		},
	}

	summaries, err := MonthlySummaries(snap, time.UTC)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, time.March, summaries[0].PeriodStart.Month())
	assert.Equal(t, money.Amount(200), summaries[0].TotalSpend)
	assert.Equal(t, time.April, summaries[1].PeriodStart.Month())
	assert.Equal(t, money.Amount(100), summaries[1].Settled)
	assert.Zero(t, summaries[1].TotalSpend)
	assert.Equal(t, time.May, summaries[2].PeriodStart.Month())
	assert.Equal(t, "alice", summaries[2].TopPayer)
}
