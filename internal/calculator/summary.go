package calculator

import (
	"fmt"
	"sort"
	"time"

	"github.com/jinzhu/now"

	"github.com/mmynk/housesplit/internal/models"
	"github.com/mmynk/housesplit/internal/money"
)

// Summary aggregates a group's activity over [PeriodStart, PeriodEnd).
type Summary struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	// TotalSpend is the sum of expense amounts in the period.
	TotalSpend money.Amount `json:"total_spend"`

	// Paid is what each member paid for expenses in the period.
	Paid map[string]money.Amount `json:"paid"`

	// Owed is each member's share of the period's expenses.
	Owed map[string]money.Amount `json:"owed"`

	// TopPayer is the member who paid the most, lower ID on ties. Empty
	// when nothing was spent.
	TopPayer string `json:"top_payer,omitempty"`

	ExpenseCount int `json:"expense_count"`

	// Settled is the sum of settlements recorded in the period.
	Settled money.Amount `json:"settled"`
}

// Summarize aggregates expenses and settlements whose timestamps fall in
// [start, end). Every group member appears in Paid and Owed.
func Summarize(snap models.GroupSnapshot, start, end time.Time) (*Summary, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start %s is not before end %s",
			ErrInvalidPeriod, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	summary := &Summary{
		PeriodStart: start,
		PeriodEnd:   end,
		Paid:        make(map[string]money.Amount, len(snap.Group.Members)),
		Owed:        make(map[string]money.Amount, len(snap.Group.Members)),
	}
	for _, m := range snap.Group.Members {
		summary.Paid[m.ID] = 0
		summary.Owed[m.ID] = 0
	}

	for _, e := range snap.Expenses {
		if !inPeriod(e.OccurredAt, start, end) {
			continue
		}
		shares, err := SplitShares(e)
		if err != nil {
			return nil, fmt.Errorf("expense %q: %w", e.ID, err)
		}
		summary.ExpenseCount++
		summary.TotalSpend += e.Amount
		summary.Paid[e.PayerID] += e.Amount
		for id, share := range shares {
			summary.Owed[id] += share
		}
	}

	for _, s := range snap.Settlements {
		if inPeriod(s.OccurredAt, start, end) {
			summary.Settled += s.Amount
		}
	}

	var top money.Amount
	for _, id := range sortedKeys(summary.Paid) {
		if paid := summary.Paid[id]; paid > top {
			top = paid
			summary.TopPayer = id
		}
	}

	return summary, nil
}

// MonthPeriod returns the calendar month containing t, in t's location.
func MonthPeriod(t time.Time) (start, end time.Time) {
	start = now.With(t).BeginningOfMonth()
	return start, start.AddDate(0, 1, 0)
}

// MonthlySummaries returns one summary per calendar month (in loc) that
// has at least one expense or settlement, oldest first.
func MonthlySummaries(snap models.GroupSnapshot, loc *time.Location) ([]*Summary, error) {
	if loc == nil {
		loc = time.UTC
	}

	months := make(map[time.Time]struct{})
	for _, e := range snap.Expenses {
		start, _ := MonthPeriod(e.OccurredAt.In(loc))
		months[start] = struct{}{}
	}
	for _, s := range snap.Settlements {
		start, _ := MonthPeriod(s.OccurredAt.In(loc))
		months[start] = struct{}{}
	}

	starts := make([]time.Time, 0, len(months))
	for start := range months {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	summaries := make([]*Summary, 0, len(starts))
	for _, start := range starts {
		summary, err := Summarize(snap, start, start.AddDate(0, 1, 0))
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func inPeriod(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func sortedKeys(m map[string]money.Amount) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
