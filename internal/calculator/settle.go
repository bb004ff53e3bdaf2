package calculator

import (
	"container/heap"
	"fmt"

	"github.com/mmynk/housesplit/internal/money"
)

// Transfer is a suggested payment from a debtor to a creditor. Transfers
// are never persisted; a Settlement is recorded once the money moves.
type Transfer struct {
	From   string       `json:"from"` // Person who owes
	To     string       `json:"to"`   // Person who is owed
	Amount money.Amount `json:"amount"`
}

// PlanSettlement returns a short list of transfers that brings every
// balance to zero.
//
// Greedy matching: repeatedly pair the largest creditor with the largest
// debtor (lower member ID first on ties) and move min(credit, debt). Each
// step clears at least one member, so N non-zero balances settle in at
// most N-1 transfers. This is not guaranteed to be the global minimum,
// which is NP-hard to find.
func PlanSettlement(balances Balances) ([]Transfer, error) {
	if sum := balances.Sum(); sum != 0 {
		return nil, fmt.Errorf("%w: balances sum to %s", ErrUnbalancedLedger, sum)
	}

	var creditors, debtors partyQueue
	for id, amt := range balances {
		switch {
		case amt > 0:
			creditors = append(creditors, party{id: id, amount: amt})
		case amt < 0:
			debtors = append(debtors, party{id: id, amount: -amt})
		}
	}
	heap.Init(&creditors)
	heap.Init(&debtors)

	var transfers []Transfer
	for creditors.Len() > 0 && debtors.Len() > 0 {
		creditor := heap.Pop(&creditors).(party)
		debtor := heap.Pop(&debtors).(party)

		amount := min(creditor.amount, debtor.amount)
		transfers = append(transfers, Transfer{
			From:   debtor.id,
			To:     creditor.id,
			Amount: amount,
		})

		creditor.amount -= amount
		debtor.amount -= amount
		if creditor.amount > 0 {
			heap.Push(&creditors, creditor)
		}
		if debtor.amount > 0 {
			heap.Push(&debtors, debtor)
		}
	}

	return transfers, nil
}

// TransferNet sums transfers per member: received minus sent. For a plan
// produced by PlanSettlement it equals the non-zero entries of the input
// balances.
func TransferNet(transfers []Transfer) Balances {
	net := make(Balances)
	for _, t := range transfers {
		net[t.To] += t.Amount
		net[t.From] -= t.Amount
	}
	return net
}

// ApplyTransfers returns the balances left after the given transfers are
// paid. Applying the output of PlanSettlement yields all zeros.
func ApplyTransfers(balances Balances, transfers []Transfer) Balances {
	out := make(Balances, len(balances))
	for id, amt := range balances {
		out[id] = amt
	}
	for id, amt := range TransferNet(transfers) {
		out[id] -= amt
	}
	return out
}

type party struct {
	id     string
	amount money.Amount // always positive
}

// partyQueue is a max-heap on amount, ties broken by ascending ID.
type partyQueue []party

func (q partyQueue) Len() int { return len(q) }

func (q partyQueue) Less(i, j int) bool {
	if q[i].amount != q[j].amount {
		return q[i].amount > q[j].amount
	}
	return q[i].id < q[j].id
}

func (q partyQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *partyQueue) Push(x any) { *q = append(*q, x.(party)) }

func (q *partyQueue) Pop() any {
	old := *q
	n := len(old)
	p := old[n-1]
	*q = old[:n-1]
	return p
}
