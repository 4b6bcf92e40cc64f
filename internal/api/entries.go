package api

import (
	"encoding/json"
	"net/http"
)

// AddEntryRequest is the payload for posting an entry against an account.
type AddEntryRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Memo        string `json:"memo"`
}

// TransferRequest is the payload for moving funds between two accounts.
type TransferRequest struct {
	FromAccountID int64  `json:"from_account_id"`
	ToAccountID   int64  `json:"to_account_id"`
	AmountCents   int64  `json:"amount_cents"`
	Memo          string `json:"memo"`
}

// handleListEntries returns an account's entries, newest first.
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	id, err := accountID(r)
	if err != nil {
		writeBadRequest(w, "invalid account id")
		return
	}

	entries, err := s.repo.Entries(r.Context(), id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleAddEntry posts an entry against an account.
func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	id, err := accountID(r)
	if err != nil {
		writeBadRequest(w, "invalid account id")
		return
	}

	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.AmountCents == 0 {
		writeBadRequest(w, "amount_cents must be non-zero")
		return
	}

	entry, err := s.repo.AddEntry(r.Context(), id, req.AmountCents, req.Memo)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// handleTransfer posts a matched debit/credit pair between two accounts.
// The pair is written in one transaction: a failure on either side leaves
// no partial rows.
func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.AmountCents <= 0 {
		writeBadRequest(w, "amount_cents must be positive")
		return
	}
	if req.FromAccountID == req.ToAccountID {
		writeBadRequest(w, "transfer requires two distinct accounts")
		return
	}

	err := s.repo.Transfer(r.Context(), req.FromAccountID, req.ToAccountID, req.AmountCents, req.Memo)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
