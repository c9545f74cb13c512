package http

import (
	"net/http"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
)

type createAccountRequest struct {
	Name           string `json:"name"`
	InitialBalance string `json:"initialBalance"`
}

type accountResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	InitialBalance string `json:"initialBalance"`
	IsActive       bool   `json:"isActive"`
}

func toAccountResponse(a core.Account) accountResponse {
	return accountResponse{
		ID:             a.ID,
		Name:           a.Name,
		InitialBalance: core.FormatCents(a.InitialBalance.Cents),
		IsActive:       a.IsActive,
	}
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	// The initial balance is the one place a signed amount is accepted:
	// an account can start in the red.
	cents, err := core.ParseSignedDecimalToCents(req.InitialBalance)
	if err != nil {
		writeBadRequest(w, "invalid initial balance")
		return
	}

	account := core.Account{
		Name:           req.Name,
		InitialBalance: core.Money{Cents: cents},
		IsActive:       true,
	}
	if err := account.Validate(); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	id, err := s.store.CreateAccount(r.Context(), account)
	if err != nil {
		writeError(w, err)
		return
	}
	account.ID = id

	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("all") == ""
	accounts, err := s.store.ListAccounts(r.Context(), onlyActive)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	account, err := s.store.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(*account))
}

func (s *Server) handleDeactivateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.store.SetAccountActive(r.Context(), id, false); err != nil {
		writeError(w, err)
		return
	}
	s.publishAccountChanged(r.Context(), id, amqp.ReasonAccount)
	w.WriteHeader(http.StatusNoContent)
}

type subCategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handleListSubCategories(w http.ResponseWriter, r *http.Request) {
	subs, err := s.store.ListSubCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]subCategoryResponse, 0, len(subs))
	for _, sc := range subs {
		out = append(out, subCategoryResponse{ID: sc.ID, Name: sc.Name})
	}
	writeJSON(w, http.StatusOK, out)
}
