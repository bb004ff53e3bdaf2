package calculator

import (
	"fmt"
	"sort"

	"github.com/mmynk/housesplit/internal/models"
	"github.com/mmynk/housesplit/internal/money"
)

// SplitShares computes how much each participant owes for an expense.
//
// Equal splits give every participant amount/k; the amount%k leftover minor
// units go one each to the participants with the lowest member IDs, so
// 100 among {a, b, c} is {a: 34, b: 33, c: 33}. Custom splits are taken
// verbatim and must sum to the amount exactly.
func SplitShares(e models.Expense) (map[string]money.Amount, error) {
	if e.Amount <= 0 {
		return nil, fmt.Errorf("%w: expense amount %s must be positive", ErrInvalidSplit, e.Amount)
	}

	switch s := e.Split.(type) {
	case models.EqualSplit:
		return equalShares(e.Amount, s.Participants)
	case models.CustomSplit:
		return customShares(e.Amount, s.Shares)
	case nil:
		return nil, fmt.Errorf("%w: expense has no split", ErrInvalidSplit)
	default:
		return nil, fmt.Errorf("%w: unsupported split %T", ErrInvalidSplit, e.Split)
	}
}

func equalShares(total money.Amount, participants []string) (map[string]money.Amount, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: must have at least one participant", ErrInvalidSplit)
	}

	ordered := append([]string(nil), participants...)
	sort.Strings(ordered)
	for i := 1; i < len(ordered); i++ {
		if ordered[i] == ordered[i-1] {
			return nil, fmt.Errorf("%w: duplicate participant %q", ErrInvalidSplit, ordered[i])
		}
	}

	k := money.Amount(len(ordered))
	base, remainder := total/k, total%k

	shares := make(map[string]money.Amount, len(ordered))
	for i, id := range ordered {
		share := base
		if money.Amount(i) < remainder {
			share++
		}
		shares[id] = share
	}
	return shares, nil
}

func customShares(total money.Amount, custom map[string]money.Amount) (map[string]money.Amount, error) {
	if len(custom) == 0 {
		return nil, fmt.Errorf("%w: must have at least one share", ErrInvalidSplit)
	}

	shares := make(map[string]money.Amount, len(custom))
	var sum money.Amount
	for id, share := range custom {
		if share < 0 {
			return nil, fmt.Errorf("%w: share for %q is negative", ErrInvalidSplit, id)
		}
		shares[id] = share
		sum += share
	}
	if sum != total {
		return nil, fmt.Errorf("%w: shares sum to %s, expense total is %s", ErrInvalidSplit, sum, total)
	}
	return shares, nil
}
