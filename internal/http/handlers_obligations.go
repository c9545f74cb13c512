package http

import (
	"net/http"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
)

type obligationRequest struct {
	Label         string `json:"label"`
	Amount        string `json:"amount"`
	DayOfMonth    int    `json:"dayOfMonth"` // ISO weekday 1-7 for weekly
	Frequency     string `json:"frequency"`
	SubCategoryID int64  `json:"subCategoryId"`
	Flow          int64  `json:"flow"`
}

type obligationResponse struct {
	ID            int64  `json:"id"`
	Label         string `json:"label"`
	Amount        string `json:"amount"`
	DayOfMonth    int    `json:"dayOfMonth"`
	Frequency     string `json:"frequency"`
	AccountID     int64  `json:"accountId"`
	SubCategoryID int64  `json:"subCategoryId"`
	SubCategory   string `json:"subCategoryLabel,omitempty"`
	Flow          int64  `json:"flow"`
	IsActive      bool   `json:"isActive"`
}

func toObligationResponse(ob core.RecurringObligation) obligationResponse {
	return obligationResponse{
		ID:            ob.ID,
		Label:         ob.Label,
		Amount:        core.FormatCents(ob.Amount.Cents),
		DayOfMonth:    ob.DayOfMonth,
		Frequency:     string(ob.Frequency),
		AccountID:     ob.AccountID,
		SubCategoryID: ob.SubCategoryID,
		SubCategory:   ob.SubCategory,
		Flow:          int64(ob.Flow),
		IsActive:      ob.IsActive,
	}
}

func parseObligation(accountID int64, req obligationRequest) (core.RecurringObligation, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.RecurringObligation{}, err
	}

	ob := core.RecurringObligation{
		Label:         req.Label,
		Amount:        core.Money{Cents: cents},
		DayOfMonth:    req.DayOfMonth,
		Frequency:     core.Frequency(req.Frequency),
		AccountID:     accountID,
		SubCategoryID: req.SubCategoryID,
		Flow:          core.Flow(req.Flow),
		IsActive:      true,
	}
	return ob, ob.Validate()
}

func (s *Server) handleCreateObligation(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var req obligationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	ob, err := parseObligation(accountID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := s.store.CreateObligation(r.Context(), ob)
	if err != nil {
		writeError(w, err)
		return
	}
	ob.ID = id

	s.publishAccountChanged(r.Context(), accountID, amqp.ReasonObligation)
	writeJSON(w, http.StatusCreated, toObligationResponse(ob))
}

func (s *Server) handleListObligations(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	onlyActive := r.URL.Query().Get("all") == ""

	obs, err := s.store.ListObligations(r.Context(), accountID, onlyActive)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]obligationResponse, 0, len(obs))
	for _, ob := range obs {
		out = append(out, toObligationResponse(ob))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateObligation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	existing, err := s.store.GetObligation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	var req obligationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	ob, err := parseObligation(existing.AccountID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	ob.ID = id
	ob.IsActive = existing.IsActive

	if err := s.store.UpdateObligation(r.Context(), ob); err != nil {
		writeError(w, err)
		return
	}

	s.publishAccountChanged(r.Context(), ob.AccountID, amqp.ReasonObligation)
	writeJSON(w, http.StatusOK, toObligationResponse(ob))
}

// handleDeactivateObligation soft-deactivates: past linked transactions
// keep their back-reference, the obligation just stops projecting.
func (s *Server) handleDeactivateObligation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	existing, err := s.store.GetObligation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.SetObligationActive(r.Context(), id, false); err != nil {
		writeError(w, err)
		return
	}

	s.publishAccountChanged(r.Context(), existing.AccountID, amqp.ReasonObligation)
	w.WriteHeader(http.StatusNoContent)
}
