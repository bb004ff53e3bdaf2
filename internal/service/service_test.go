package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/housesplit/internal/auth"
	"github.com/mmynk/housesplit/internal/calculator"
	"github.com/mmynk/housesplit/internal/models"
	"github.com/mmynk/housesplit/internal/money"
	"github.com/mmynk/housesplit/internal/storage"
	"github.com/mmynk/housesplit/internal/storage/sqlite"
)

func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "housesplit-service-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func newHousehold(t *testing.T, ledger *Ledger) *models.Group {
	t.Helper()

	group, err := ledger.CreateGroup(context.Background(), "Flat 4B", "", []models.Member{
		{ID: "alice", Name: "Alice"},
		{ID: "bob", Name: "Bob"},
		{ID: "carol", Name: "Carol"},
	})
	require.NoError(t, err)
	return group
}

func equalExpense(groupID, payer string, amount money.Amount, participants ...string) *models.Expense {
	return &models.Expense{
		GroupID:     groupID,
		PayerID:     payer,
		Amount:      amount,
		Description: "groceries",
		OccurredAt:  time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC),
		Split:       models.EqualSplit{Participants: participants},
	}
}

func TestLedger_CreateGroup(t *testing.T) {
	ledger := NewLedger(newTestStore(t))
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		group := newHousehold(t, ledger)
		assert.NotEmpty(t, group.ID)
		assert.Len(t, group.Members, 3)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := ledger.CreateGroup(ctx, "   ", "", nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("duplicate member id", func(t *testing.T) {
		_, err := ledger.CreateGroup(ctx, "Dupes", "", []models.Member{
			{ID: "a", Name: "A"},
			{ID: "a", Name: "Also A"},
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("blank member name", func(t *testing.T) {
		_, err := ledger.CreateGroup(ctx, "Nameless", "", []models.Member{{ID: "a"}})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestLedger_AddMembers(t *testing.T) {
	ledger := NewLedger(newTestStore(t))
	ctx := context.Background()
	group := newHousehold(t, ledger)

	updated, err := ledger.AddMembers(ctx, group.ID, []models.Member{{ID: "dave", Name: "Dave"}})
	require.NoError(t, err)
	assert.True(t, updated.HasMember("dave"))
	assert.Len(t, updated.Members, 4)

	_, err = ledger.AddMembers(ctx, group.ID, []models.Member{{ID: "bob", Name: "Robert"}})
	assert.ErrorIs(t, err, storage.ErrConflict)

	_, err = ledger.AddMembers(ctx, group.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ledger.AddMembers(ctx, "missing", []models.Member{{Name: "Eve"}})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLedger_AddExpenseValidation(t *testing.T) {
	ledger := NewLedger(newTestStore(t))
	ctx := context.Background()
	group := newHousehold(t, ledger)

	tests := []struct {
		name    string
		expense *models.Expense
		wantErr error
	}{
		{
			name:    "payer outside group",
			expense: equalExpense(group.ID, "mallory", 1200, "alice", "bob"),
			wantErr: calculator.ErrUnknownMember,
		},
		{
			name:    "participant outside group",
			expense: equalExpense(group.ID, "alice", 1200, "alice", "mallory"),
			wantErr: calculator.ErrUnknownMember,
		},
		{
			name:    "no participants",
			expense: equalExpense(group.ID, "alice", 1200),
			wantErr: calculator.ErrInvalidSplit,
		},
		{
			name: "custom shares short by one",
			expense: &models.Expense{
				GroupID: group.ID,
				PayerID: "alice",
				Amount:  1000,
				Split: models.CustomSplit{Shares: map[string]money.Amount{
					"alice": 500,
					"bob":   499,
				}},
			},
			wantErr: calculator.ErrInvalidSplit,
		},
		{
			name:    "unknown group",
			expense: equalExpense("missing", "alice", 1200, "alice"),
			wantErr: storage.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ledger.AddExpense(ctx, tt.expense)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	expenses, err := ledger.ListExpenses(ctx, group.ID)
	require.NoError(t, err)
	assert.Empty(t, expenses, "rejected expenses must not be stored")
}

func TestLedger_RecordSettlementValidation(t *testing.T) {
	ledger := NewLedger(newTestStore(t))
	ctx := context.Background()
	group := newHousehold(t, ledger)

	err := ledger.RecordSettlement(ctx, &models.Settlement{GroupID: group.ID, FromID: "bob", ToID: "bob", Amount: 100})
	assert.ErrorIs(t, err, calculator.ErrSelfSettlement)

	err = ledger.RecordSettlement(ctx, &models.Settlement{GroupID: group.ID, FromID: "bob", ToID: "mallory", Amount: 100})
	assert.ErrorIs(t, err, calculator.ErrUnknownMember)

	err = ledger.RecordSettlement(ctx, &models.Settlement{GroupID: group.ID, FromID: "bob", ToID: "alice", Amount: 0})
	assert.ErrorIs(t, err, calculator.ErrInvalidAmount)
}

func TestLedger_BalancesGroceryScenario(t *testing.T) {
	ledger := NewLedger(newTestStore(t))
	ctx := context.Background()
	group := newHousehold(t, ledger)

	require.NoError(t, ledger.AddExpense(ctx, equalExpense(group.ID, "alice", 1200, "alice", "bob", "carol")))

	report, err := ledger.Balances(ctx, group.ID)
	require.NoError(t, err)

	net := map[string]money.Amount{}
	for _, m := range report.Members {
		net[m.MemberID] = m.NetBalance
	}
	assert.Equal(t, map[string]money.Amount{"alice": 800, "bob": -400, "carol": -400}, net)
	assert.Equal(t, []calculator.Transfer{
		{From: "bob", To: "alice", Amount: 400},
		{From: "carol", To: "alice", Amount: 400},
	}, report.Transfers)

	// Confirming the plan settles everyone.
	for _, tr := range report.Transfers {
		require.NoError(t, ledger.RecordSettlement(ctx, &models.Settlement{
			GroupID: group.ID,
			FromID:  tr.From,
			ToID:    tr.To,
			Amount:  tr.Amount,
		}))
	}

	report, err = ledger.Balances(ctx, group.ID)
	require.NoError(t, err)
	for _, m := range report.Members {
		assert.Zero(t, m.NetBalance, "member %s", m.MemberID)
	}
	assert.Empty(t, report.Transfers)
}

func TestLedger_Summary(t *testing.T) {
	ledger := NewLedger(newTestStore(t))
	ctx := context.Background()
	group := newHousehold(t, ledger)

	require.NoError(t, ledger.AddExpense(ctx, equalExpense(group.ID, "alice", 1200, "alice", "bob", "carol")))
	feb := equalExpense(group.ID, "bob", 300, "bob", "carol")
	feb.OccurredAt = time.Date(2024, time.February, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, ledger.AddExpense(ctx, feb))

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	summary, err := ledger.Summary(ctx, group.ID, start, end)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(1200), summary.TotalSpend)
	assert.Equal(t, "alice", summary.TopPayer)
	assert.Equal(t, 1, summary.ExpenseCount)

	_, err = ledger.Summary(ctx, group.ID, end, start)
	assert.ErrorIs(t, err, calculator.ErrInvalidPeriod)

	monthly, err := ledger.MonthlySummaries(ctx, group.ID, time.UTC)
	require.NoError(t, err)
	require.Len(t, monthly, 2)
	assert.Equal(t, "bob", monthly[1].TopPayer)
}

func TestLedger_ConcurrentWritesKeepSnapshotsBalanced(t *testing.T) {
	ledger := NewLedger(newTestStore(t))
	ctx := context.Background()
	group := newHousehold(t, ledger)

	payers := []string{"alice", "bob", "carol"}
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e := equalExpense(group.ID, payers[i%3], money.Amount(100+i), "alice", "bob", "carol")
			assert.NoError(t, ledger.AddExpense(ctx, e))
		}(i)

		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := ledger.Snapshot(ctx, group.ID)
			if !assert.NoError(t, err) {
				return
			}
			balances, err := calculator.ComputeBalances(snap)
			if assert.NoError(t, err) {
				assert.Zero(t, balances.Sum())
			}
		}()
	}
	wg.Wait()

	expenses, err := ledger.ListExpenses(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, expenses, 30)
}

func TestLedger_SnapshotUnknownGroup(t *testing.T) {
	ledger := NewLedger(newTestStore(t))

	_, err := ledger.Snapshot(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAuthService(t *testing.T) {
	store := newTestStore(t)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewAuthService(authenticator, store, jwtManager, logger)
	ctx := context.Background()

	session, err := svc.Register(ctx, "Alice", "Alice@Example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "alice@example.com", session.User.Email)

	claims, err := jwtManager.Validate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)

	_, err = svc.Register(ctx, "Alice Again", "alice@example.com", "secret2")
	assert.ErrorIs(t, err, auth.ErrEmailExists)

	login, err := svc.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)

	_, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	user, err := svc.CurrentUser(ctx, session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.DisplayName)

	_, err = svc.CurrentUser(ctx, "")
	assert.ErrorIs(t, err, auth.ErrMissingToken)
}

func TestContactService(t *testing.T) {
	svc := NewContactService(newTestStore(t))
	ctx := context.Background()

	msg, err := svc.Submit(ctx, " Dana ", "dana@example.com", "The app double counted rent.")
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "Dana", msg.Name)

	tests := []struct {
		name, person, email, message string
	}{
		{"missing name", "", "dana@example.com", "hi"},
		{"bad email", "Dana", "dana@example", "hi"},
		{"missing message", "Dana", "dana@example.com", "  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tt.person, tt.email, tt.message)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
