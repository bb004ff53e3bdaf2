package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/housesplit/internal/models"
	"github.com/mmynk/housesplit/internal/money"
)

// YAMLLedger is the on-disk shape of an offline ledger file.
type YAMLLedger struct {
	Group       string           `yaml:"group"`
	Members     []YAMLMember     `yaml:"members"`
	Expenses    []YAMLExpense    `yaml:"expenses"`
	Settlements []YAMLSettlement `yaml:"settlements"`
}

type YAMLMember struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// YAMLExpense defaults to an equal split across every member when neither
// participants nor shares are given.
type YAMLExpense struct {
	Payer        string            `yaml:"payer"`
	Amount       string            `yaml:"amount"`
	Description  string            `yaml:"description"`
	Date         string            `yaml:"date"`
	Participants []string          `yaml:"participants"`
	Shares       map[string]string `yaml:"shares"`
}

type YAMLSettlement struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Amount string `yaml:"amount"`
	Date   string `yaml:"date"`
	Note   string `yaml:"note"`
}

// LoadLedger reads and maps a YAML ledger file into a snapshot.
func LoadLedger(path string) (models.GroupSnapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return models.GroupSnapshot{}, fmt.Errorf("read ledger %s: %w", path, err)
	}

	var dto YAMLLedger
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return models.GroupSnapshot{}, fmt.Errorf("parse ledger %s: %w", path, err)
	}

	snap, err := MapLedger(dto)
	if err != nil {
		return models.GroupSnapshot{}, fmt.Errorf("ledger %s: %w", path, err)
	}
	return snap, nil
}

// MapLedger converts the YAML DTO into domain records. Amounts and dates
// are parsed here; membership and split rules are left to the calculator.
func MapLedger(dto YAMLLedger) (models.GroupSnapshot, error) {
	if len(dto.Members) == 0 {
		return models.GroupSnapshot{}, fmt.Errorf("no members")
	}

	group := models.Group{ID: "offline", Name: dto.Group}
	for _, m := range dto.Members {
		id := strings.TrimSpace(m.ID)
		if id == "" {
			return models.GroupSnapshot{}, fmt.Errorf("member %q has no id", m.Name)
		}
		name := m.Name
		if name == "" {
			name = id
		}
		group.Members = append(group.Members, models.Member{ID: id, Name: name})
	}
	snap := models.GroupSnapshot{Group: group}

	for i, e := range dto.Expenses {
		expense, err := mapExpense(group, e)
		if err != nil {
			return models.GroupSnapshot{}, fmt.Errorf("expense %d: %w", i+1, err)
		}
		expense.ID = fmt.Sprintf("e%d", i+1)
		snap.Expenses = append(snap.Expenses, expense)
	}

	for i, s := range dto.Settlements {
		amount, err := money.Parse(s.Amount)
		if err != nil {
			return models.GroupSnapshot{}, fmt.Errorf("settlement %d: %w", i+1, err)
		}
		at, err := parseDate(s.Date)
		if err != nil {
			return models.GroupSnapshot{}, fmt.Errorf("settlement %d: %w", i+1, err)
		}
		snap.Settlements = append(snap.Settlements, models.Settlement{
			ID:         fmt.Sprintf("s%d", i+1),
			GroupID:    group.ID,
			FromID:     s.From,
			ToID:       s.To,
			Amount:     amount,
			OccurredAt: at,
			Note:       s.Note,
		})
	}

	return snap, nil
}

func mapExpense(group models.Group, e YAMLExpense) (models.Expense, error) {
	amount, err := money.Parse(e.Amount)
	if err != nil {
		return models.Expense{}, err
	}
	at, err := parseDate(e.Date)
	if err != nil {
		return models.Expense{}, err
	}

	expense := models.Expense{
		GroupID:     group.ID,
		PayerID:     e.Payer,
		Amount:      amount,
		Description: e.Description,
		OccurredAt:  at,
	}

	switch {
	case len(e.Shares) > 0 && len(e.Participants) > 0:
		return models.Expense{}, fmt.Errorf("use either participants or shares, not both")
	case len(e.Shares) > 0:
		shares := make(map[string]money.Amount, len(e.Shares))
		for id, s := range e.Shares {
			share, err := money.Parse(s)
			if err != nil {
				return models.Expense{}, fmt.Errorf("share of %s: %w", id, err)
			}
			shares[id] = share
		}
		expense.Split = models.CustomSplit{Shares: shares}
	case len(e.Participants) > 0:
		expense.Split = models.EqualSplit{Participants: e.Participants}
	default:
		expense.Split = models.EqualSplit{Participants: group.MemberIDs()}
	}
	return expense, nil
}

// parseDate accepts YYYY-MM-DD (midnight UTC) or RFC 3339.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is neither YYYY-MM-DD nor RFC 3339", s)
	}
	return t.UTC(), nil
}
