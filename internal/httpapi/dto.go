package httpapi

import (
	"fmt"
	"time"

	"github.com/mmynk/housesplit/internal/calculator"
	"github.com/mmynk/housesplit/internal/models"
	"github.com/mmynk/housesplit/internal/money"
	"github.com/mmynk/housesplit/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type sessionResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   time.Unix(u.CreatedAt, 0).UTC(),
	}
}

func toSessionResponse(s *service.Session) sessionResponse {
	return sessionResponse{User: toUserResponse(s.User), Token: s.Token}
}

type memberDTO struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type createGroupRequest struct {
	Name    string      `json:"name"`
	Members []memberDTO `json:"members"`
}

type addMembersRequest struct {
	Members []memberDTO `json:"members"`
}

type groupResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Members   []memberDTO `json:"members"`
	CreatedAt time.Time   `json:"created_at"`
	CreatedBy string      `json:"created_by,omitempty"`
}

func toMembers(dtos []memberDTO) []models.Member {
	members := make([]models.Member, len(dtos))
	for i, m := range dtos {
		members[i] = models.Member{ID: m.ID, Name: m.Name}
	}
	return members
}

func toGroupResponse(g *models.Group) groupResponse {
	members := make([]memberDTO, len(g.Members))
	for i, m := range g.Members {
		members[i] = memberDTO{ID: m.ID, Name: m.Name}
	}
	return groupResponse{
		ID:        g.ID,
		Name:      g.Name,
		Members:   members,
		CreatedAt: g.CreatedAt,
		CreatedBy: g.CreatedBy,
	}
}

// splitDTO is the wire form of models.Split. Kind selects which of the
// other fields applies.
type splitDTO struct {
	Kind         models.SplitKind        `json:"kind"`
	Participants []string                `json:"participants,omitempty"`
	Shares       map[string]money.Amount `json:"shares,omitempty"`
}

func (d splitDTO) toSplit() (models.Split, error) {
	switch d.Kind {
	case models.SplitEqual:
		if len(d.Shares) > 0 {
			return nil, fmt.Errorf("%w: equal split takes participants, not shares", errBadRequest)
		}
		return models.EqualSplit{Participants: d.Participants}, nil
	case models.SplitCustom:
		if len(d.Participants) > 0 {
			return nil, fmt.Errorf("%w: custom split takes shares, not participants", errBadRequest)
		}
		return models.CustomSplit{Shares: d.Shares}, nil
	default:
		return nil, fmt.Errorf("%w: unknown split kind %q", errBadRequest, d.Kind)
	}
}

type expenseRequest struct {
	PayerID     string       `json:"payer_id"`
	Amount      money.Amount `json:"amount"`
	Description string       `json:"description"`
	OccurredAt  *time.Time   `json:"occurred_at,omitempty"`
	Split       splitDTO     `json:"split"`
}

func (req expenseRequest) toExpense(groupID string) (*models.Expense, error) {
	split, err := req.Split.toSplit()
	if err != nil {
		return nil, err
	}
	e := &models.Expense{
		GroupID:     groupID,
		PayerID:     req.PayerID,
		Amount:      req.Amount,
		Description: req.Description,
		Split:       split,
	}
	if req.OccurredAt != nil {
		e.OccurredAt = req.OccurredAt.UTC().Truncate(time.Second)
	}
	return e, nil
}

type expenseResponse struct {
	ID          string                  `json:"id"`
	GroupID     string                  `json:"group_id"`
	PayerID     string                  `json:"payer_id"`
	Amount      money.Amount            `json:"amount"`
	Description string                  `json:"description"`
	OccurredAt  time.Time               `json:"occurred_at"`
	Split       splitDTO                `json:"split"`
	Shares      map[string]money.Amount `json:"shares"`
}

func toExpenseResponse(e models.Expense) (expenseResponse, error) {
	shares, err := calculator.SplitShares(e)
	if err != nil {
		return expenseResponse{}, err
	}
	resp := expenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PayerID:     e.PayerID,
		Amount:      e.Amount,
		Description: e.Description,
		OccurredAt:  e.OccurredAt,
		Split:       splitDTO{Kind: e.Split.Kind()},
		Shares:      shares,
	}
	switch split := e.Split.(type) {
	case models.EqualSplit:
		resp.Split.Participants = split.Participants
	case models.CustomSplit:
		resp.Split.Shares = split.Shares
	}
	return resp, nil
}

type settlementRequest struct {
	FromID     string       `json:"from_id"`
	ToID       string       `json:"to_id"`
	Amount     money.Amount `json:"amount"`
	Note       string       `json:"note,omitempty"`
	OccurredAt *time.Time   `json:"occurred_at,omitempty"`
}

func (req settlementRequest) toSettlement(groupID, createdBy string) *models.Settlement {
	s := &models.Settlement{
		GroupID:   groupID,
		FromID:    req.FromID,
		ToID:      req.ToID,
		Amount:    req.Amount,
		Note:      req.Note,
		CreatedBy: createdBy,
	}
	if req.OccurredAt != nil {
		s.OccurredAt = req.OccurredAt.UTC().Truncate(time.Second)
	}
	return s
}

type settlementResponse struct {
	ID         string       `json:"id"`
	GroupID    string       `json:"group_id"`
	FromID     string       `json:"from_id"`
	ToID       string       `json:"to_id"`
	Amount     money.Amount `json:"amount"`
	Note       string       `json:"note,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
	CreatedBy  string       `json:"created_by,omitempty"`
}

func toSettlementResponse(s models.Settlement) settlementResponse {
	return settlementResponse{
		ID:         s.ID,
		GroupID:    s.GroupID,
		FromID:     s.FromID,
		ToID:       s.ToID,
		Amount:     s.Amount,
		Note:       s.Note,
		OccurredAt: s.OccurredAt,
		CreatedBy:  s.CreatedBy,
	}
}

type balancesResponse struct {
	GroupID   string                     `json:"group_id"`
	Balances  []calculator.MemberBalance `json:"balances"`
	Transfers []calculator.Transfer      `json:"transfers"`
}

func toBalancesResponse(r *service.BalanceReport) balancesResponse {
	resp := balancesResponse{
		GroupID:   r.GroupID,
		Balances:  r.Members,
		Transfers: r.Transfers,
	}
	if resp.Transfers == nil {
		resp.Transfers = []calculator.Transfer{}
	}
	return resp
}
