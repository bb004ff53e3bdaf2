package httpapi

import (
	"net/http"

	"github.com/mmynk/housesplit/internal/middleware"
)

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := s.ledger.CreateGroup(r.Context(), req.Name, middleware.GetUserID(r.Context()), toMembers(req.Members))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.ledger.ListGroups(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]groupResponse, len(groups))
	for i, g := range groups {
		resp[i] = toGroupResponse(g)
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": resp})
}

func (s *Server) getGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.ledger.GetGroup(r.Context(), r.PathValue("groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (s *Server) addMembers(w http.ResponseWriter, r *http.Request) {
	var req addMembersRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	group, err := s.ledger.AddMembers(r.Context(), r.PathValue("groupID"), toMembers(req.Members))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (s *Server) addExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	expense, err := req.toExpense(r.PathValue("groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.ledger.AddExpense(r.Context(), expense); err != nil {
		writeError(w, err)
		return
	}

	resp, err := toExpenseResponse(*expense)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.ledger.ListExpenses(r.Context(), r.PathValue("groupID"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		item, err := toExpenseResponse(e)
		if err != nil {
			writeError(w, err)
			return
		}
		resp = append(resp, item)
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": resp})
}

func (s *Server) recordSettlement(w http.ResponseWriter, r *http.Request) {
	var req settlementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	settlement := req.toSettlement(r.PathValue("groupID"), middleware.GetUserID(r.Context()))
	if err := s.ledger.RecordSettlement(r.Context(), settlement); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSettlementResponse(*settlement))
}

func (s *Server) listSettlements(w http.ResponseWriter, r *http.Request) {
	settlements, err := s.ledger.ListSettlements(r.Context(), r.PathValue("groupID"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]settlementResponse, len(settlements))
	for i, st := range settlements {
		resp[i] = toSettlementResponse(st)
	}
	writeJSON(w, http.StatusOK, map[string]any{"settlements": resp})
}
