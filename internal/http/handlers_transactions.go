package http

import (
	"net/http"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
)

type createTransactionRequest struct {
	Date          string `json:"date"` // YYYY-MM-DD
	Amount        string `json:"amount"`
	Flow          int64  `json:"flow"` // 1 income, 2 expense
	SubCategoryID int64  `json:"subCategoryId"`
	ObligationID  int64  `json:"obligationId,omitempty"`
}

type transactionResponse struct {
	ID            int64  `json:"id"`
	Date          string `json:"date"`
	Amount        string `json:"amount"`
	SignedAmount  string `json:"signedAmount"`
	AccountID     int64  `json:"accountId"`
	Flow          int64  `json:"flow"`
	SubCategoryID int64  `json:"subCategoryId"`
	ObligationID  int64  `json:"obligationId,omitempty"`
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:            tx.ID,
		Date:          tx.Date.ISO(),
		Amount:        core.FormatCents(tx.Amount.Cents),
		SignedAmount:  core.FormatCents(tx.SignedCents()),
		AccountID:     tx.AccountID,
		Flow:          int64(tx.Flow),
		SubCategoryID: tx.SubCategoryID,
		ObligationID:  tx.ObligationID,
	}
}

func (s *Server) parseTransaction(accountID int64, req createTransactionRequest) (core.Transaction, error) {
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return core.Transaction{}, errInvalidDate
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		Date:          core.DateOf(day),
		Amount:        core.Money{Cents: cents},
		AccountID:     accountID,
		Flow:          core.Flow(req.Flow),
		SubCategoryID: req.SubCategoryID,
		ObligationID:  req.ObligationID,
	}
	return tx, tx.Validate()
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	tx, err := s.parseTransaction(accountID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := s.store.CreateTransaction(r.Context(), tx)
	if err != nil {
		writeError(w, err)
		return
	}
	tx.ID = id

	s.publishAccountChanged(r.Context(), accountID, amqp.ReasonTransaction)
	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	txs, err := s.store.ListTransactions(r.Context(), accountID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	txID, err := pathID(r, "txId")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	tx, err := s.parseTransaction(accountID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	tx.ID = txID

	if err := s.store.UpdateTransaction(r.Context(), tx); err != nil {
		writeError(w, err)
		return
	}

	s.publishAccountChanged(r.Context(), accountID, amqp.ReasonTransaction)
	writeJSON(w, http.StatusOK, toTransactionResponse(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	txID, err := pathID(r, "txId")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := s.store.DeleteTransaction(r.Context(), txID); err != nil {
		writeError(w, err)
		return
	}
	s.publishAccountChanged(r.Context(), accountID, amqp.ReasonTransaction)
	w.WriteHeader(http.StatusNoContent)
}
