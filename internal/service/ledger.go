package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/housesplit/internal/calculator"
	"github.com/mmynk/housesplit/internal/models"
	"github.com/mmynk/housesplit/internal/storage"
)

// Ledger is the write path and snapshot source for group ledgers. It
// validates every record against the group before persisting it and
// serializes writes per group relative to snapshot reads.
type Ledger struct {
	store storage.Store
	locks groupLocks
}

// NewLedger creates a Ledger with the given storage backend.
func NewLedger(store storage.Store) *Ledger {
	return &Ledger{store: store}
}

// BalanceReport is a group's current balances with the plan to settle them.
type BalanceReport struct {
	GroupID   string
	Members   []calculator.MemberBalance
	Transfers []calculator.Transfer
}

// CreateGroup creates a new group with its initial members.
func (l *Ledger) CreateGroup(ctx context.Context, name, createdBy string, members []models.Member) (*models.Group, error) {
	slog.Info("CreateGroup request received",
		"name", name,
		"members_count", len(members),
	)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrInvalidInput)
	}
	if err := validateNewMembers(members); err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:      name,
		Members:   members,
		CreatedBy: createdBy,
	}
	if err := l.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID)
	return group, nil
}

// GetGroup retrieves a group by ID.
func (l *Ledger) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return l.store.GetGroup(ctx, groupID)
}

// ListGroups retrieves all groups.
func (l *Ledger) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return l.store.ListGroups(ctx)
}

// AddMembers adds members to a group and returns the updated group.
func (l *Ledger) AddMembers(ctx context.Context, groupID string, members []models.Member) (*models.Group, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: at least one member is required", ErrInvalidInput)
	}
	if err := validateNewMembers(members); err != nil {
		return nil, err
	}

	lock := l.locks.get(groupID)
	lock.Lock()
	defer lock.Unlock()

	if err := l.store.AddMembers(ctx, groupID, members); err != nil {
		slog.Error("AddMembers failed", "group_id", groupID, "error", err)
		return nil, err
	}

	slog.Info("Members added", "group_id", groupID, "count", len(members))
	return l.store.GetGroup(ctx, groupID)
}

// AddExpense validates an expense against its group and records it.
func (l *Ledger) AddExpense(ctx context.Context, expense *models.Expense) error {
	lock := l.locks.get(expense.GroupID)
	lock.Lock()
	defer lock.Unlock()

	group, err := l.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		return err
	}
	if err := calculator.ValidateExpense(*group, *expense); err != nil {
		slog.Warn("AddExpense rejected", "group_id", expense.GroupID, "error", err)
		return err
	}

	if err := l.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "group_id", expense.GroupID, "error", err)
		return err
	}
	recordsWritten.WithLabelValues("expense").Inc()

	slog.Info("Expense recorded",
		"group_id", expense.GroupID,
		"expense_id", expense.ID,
		"amount", expense.Amount.String(),
		"split", expense.Split.Kind(),
	)
	return nil
}

// RecordSettlement validates a settlement against its group and records it.
func (l *Ledger) RecordSettlement(ctx context.Context, settlement *models.Settlement) error {
	lock := l.locks.get(settlement.GroupID)
	lock.Lock()
	defer lock.Unlock()

	group, err := l.store.GetGroup(ctx, settlement.GroupID)
	if err != nil {
		return err
	}
	if err := calculator.ValidateSettlement(*group, *settlement); err != nil {
		slog.Warn("RecordSettlement rejected", "group_id", settlement.GroupID, "error", err)
		return err
	}

	if err := l.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("RecordSettlement failed", "group_id", settlement.GroupID, "error", err)
		return err
	}
	recordsWritten.WithLabelValues("settlement").Inc()

	slog.Info("Settlement recorded",
		"group_id", settlement.GroupID,
		"settlement_id", settlement.ID,
		"from", settlement.FromID,
		"to", settlement.ToID,
		"amount", settlement.Amount.String(),
	)
	return nil
}

// ListExpenses returns a group's expenses, oldest first.
func (l *Ledger) ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	if _, err := l.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return l.store.ListExpenses(ctx, groupID)
}

// ListSettlements returns a group's settlements, oldest first.
func (l *Ledger) ListSettlements(ctx context.Context, groupID string) ([]models.Settlement, error) {
	if _, err := l.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return l.store.ListSettlements(ctx, groupID)
}

// Snapshot loads a consistent view of a group's ledger. No write to the
// same group can interleave with the three reads.
func (l *Ledger) Snapshot(ctx context.Context, groupID string) (models.GroupSnapshot, error) {
	lock := l.locks.get(groupID)
	lock.RLock()
	defer lock.RUnlock()

	var snap models.GroupSnapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		group, err := l.store.GetGroup(gctx, groupID)
		if err != nil {
			return err
		}
		snap.Group = *group
		return nil
	})
	g.Go(func() error {
		expenses, err := l.store.ListExpenses(gctx, groupID)
		snap.Expenses = expenses
		return err
	})
	g.Go(func() error {
		settlements, err := l.store.ListSettlements(gctx, groupID)
		snap.Settlements = settlements
		return err
	})
	if err := g.Wait(); err != nil {
		return models.GroupSnapshot{}, err
	}
	return snap, nil
}

// Balances computes every member's balance and a plan to settle them.
func (l *Ledger) Balances(ctx context.Context, groupID string) (*BalanceReport, error) {
	snap, err := l.Snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}

	members, err := calculator.ComputeMemberBalances(snap)
	if err != nil {
		slog.Error("Balances failed - calculation error", "group_id", groupID, "error", err)
		return nil, err
	}
	balances := make(calculator.Balances, len(members))
	for _, m := range members {
		balances[m.MemberID] = m.NetBalance
	}

	transfers, err := calculator.PlanSettlement(balances)
	if err != nil {
		slog.Error("Balances failed - planning error", "group_id", groupID, "error", err)
		return nil, err
	}
	planTransfers.Observe(float64(len(transfers)))

	slog.Info("Balances computed",
		"group_id", groupID,
		"expenses_count", len(snap.Expenses),
		"settlements_count", len(snap.Settlements),
		"transfers_count", len(transfers),
	)

	return &BalanceReport{
		GroupID:   groupID,
		Members:   members,
		Transfers: transfers,
	}, nil
}

// Summary aggregates a group's activity over [start, end).
func (l *Ledger) Summary(ctx context.Context, groupID string, start, end time.Time) (*calculator.Summary, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start must be before end", calculator.ErrInvalidPeriod)
	}
	snap, err := l.Snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return calculator.Summarize(snap, start, end)
}

// MonthlySummaries returns one summary per active calendar month.
func (l *Ledger) MonthlySummaries(ctx context.Context, groupID string, loc *time.Location) ([]*calculator.Summary, error) {
	snap, err := l.Snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return calculator.MonthlySummaries(snap, loc)
}

func validateNewMembers(members []models.Member) error {
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("%w: member name is required", ErrInvalidInput)
		}
		if m.ID == "" {
			continue
		}
		if seen[m.ID] {
			return fmt.Errorf("%w: duplicate member id %q", ErrInvalidInput, m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}
