package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerhouse/ledger-core/internal/ledger"
)

// CreateAccountRequest is the payload for creating an account.
type CreateAccountRequest struct {
	Name string `json:"name"`
}

// BalanceResponse reports an account balance in integer cents.
type BalanceResponse struct {
	AccountID    int64 `json:"account_id"`
	BalanceCents int64 `json:"balance_cents"`
}

// accountID extracts the {id} route parameter.
func accountID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// writeLedgerError maps ledger errors to HTTP responses.
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound):
		writeNotFound(w, err.Error())
	case errors.Is(err, ledger.ErrAccountExists):
		writeConflict(w, err.Error())
	case errors.Is(err, ledger.ErrEmptyName):
		writeBadRequest(w, err.Error())
	default:
		writeInternalError(w, "database error")
	}
}

// handleListAccounts returns all accounts.
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.repo.ListAccounts(r.Context())
	if err != nil {
		s.logger.Error("listing accounts", "error", err)
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

// handleCreateAccount creates a new account.
func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	account, err := s.repo.CreateAccount(r.Context(), req.Name)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

// handleGetAccount returns a single account by id.
func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := accountID(r)
	if err != nil {
		writeBadRequest(w, "invalid account id")
		return
	}

	account, err := s.repo.Account(r.Context(), id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// handleGetBalance returns an account's balance.
func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	id, err := accountID(r)
	if err != nil {
		writeBadRequest(w, "invalid account id")
		return
	}

	balance, err := s.repo.Balance(r.Context(), id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceResponse{
		AccountID:    id,
		BalanceCents: balance,
	})
}
