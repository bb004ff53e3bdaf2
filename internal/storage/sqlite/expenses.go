package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/mmynk/housesplit/internal/models"
	"github.com/mmynk/housesplit/internal/money"
	"github.com/mmynk/housesplit/internal/storage"
)

var expenseColumns = []string{"id", "group_id", "payer_id", "amount", "description", "occurred_at", "split_kind"}

// CreateExpense persists a new expense and its split to the database.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.OccurredAt.IsZero() {
		expense.OccurredAt = time.Now().UTC().Truncate(time.Second)
	}
	if expense.Split == nil {
		return fmt.Errorf("expense %s has no split", expense.ID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := sq.Insert("expenses").
		Columns(append(expenseColumns, "created_at")...).
		Values(expense.ID, expense.GroupID, expense.PayerID, int64(expense.Amount),
			expense.Description, expense.OccurredAt.Unix(), string(expense.Split.Kind()),
			time.Now().Unix()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build expense insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	shares := sq.Insert("expense_shares").Columns("expense_id", "member_id", "share")
	switch split := expense.Split.(type) {
	case models.EqualSplit:
		for _, id := range split.Participants {
			shares = shares.Values(expense.ID, id, nil)
		}
	case models.CustomSplit:
		for id, share := range split.Shares {
			shares = shares.Values(expense.ID, id, int64(share))
		}
	default:
		return fmt.Errorf("unsupported split %T", expense.Split)
	}

	query, args, err = shares.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build share insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert expense shares: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID, including its split.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expenses, err := s.queryExpenses(ctx, sq.Eq{"e.id": expenseID})
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return &expenses[0], nil
}

// ListExpenses retrieves all expenses for a group, oldest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	return s.queryExpenses(ctx, sq.Eq{"e.group_id": groupID})
}

// queryExpenses loads matching expenses and all of their share rows in two
// queries.
func (s *SQLiteStore) queryExpenses(ctx context.Context, where sq.Eq) ([]models.Expense, error) {
	cols := make([]string, len(expenseColumns))
	for i, c := range expenseColumns {
		cols[i] = "e." + c
	}
	query, args, err := sq.Select(cols...).
		From("expenses e").
		Where(where).
		OrderBy("e.occurred_at", "e.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build expenses query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	kinds := make(map[string]models.SplitKind)
	index := make(map[string]int)
	for rows.Next() {
		var (
			e          models.Expense
			amount     int64
			occurredAt int64
			kind       string
		)
		if err := rows.Scan(&e.ID, &e.GroupID, &e.PayerID, &amount, &e.Description, &occurredAt, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Amount = money.Amount(amount)
		e.OccurredAt = unixTime(occurredAt)
		kinds[e.ID] = models.SplitKind(kind)
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	if len(expenses) == 0 {
		return nil, nil
	}

	query, args, err = sq.Select("s.expense_id", "s.member_id", "s.share").
		From("expense_shares s").
		Join("expenses e ON e.id = s.expense_id").
		Where(where).
		OrderBy("s.expense_id", "s.member_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build shares query: %w", err)
	}

	shareRows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense shares: %w", err)
	}
	defer shareRows.Close()

	participants := make(map[string][]string)
	custom := make(map[string]map[string]money.Amount)
	for shareRows.Next() {
		var (
			expenseID, memberID string
			share               sql.NullInt64
		)
		if err := shareRows.Scan(&expenseID, &memberID, &share); err != nil {
			return nil, fmt.Errorf("failed to scan expense share: %w", err)
		}
		if kinds[expenseID] == models.SplitCustom {
			if custom[expenseID] == nil {
				custom[expenseID] = make(map[string]money.Amount)
			}
			custom[expenseID][memberID] = money.Amount(share.Int64)
			continue
		}
		participants[expenseID] = append(participants[expenseID], memberID)
	}
	if err := shareRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense shares: %w", err)
	}

	for id, i := range index {
		switch kinds[id] {
		case models.SplitCustom:
			expenses[i].Split = models.CustomSplit{Shares: custom[id]}
		default:
			ids := participants[id]
			sort.Strings(ids)
			expenses[i].Split = models.EqualSplit{Participants: ids}
		}
	}
	return expenses, nil
}
