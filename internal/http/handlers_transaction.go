package http

import (
	"encoding/json"
	"net/http"

	"sika/internal/core"
)

// handleCreateTransaction inserts the record and responds. The stats
// update and the SMS run as background work after that; their outcome
// never changes this response, and a dispatch failure does not undo
// the already-persisted record.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := t.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	t.ID = ""
	id, err := s.store.InsertTransaction(r.Context(), t)
	if err != nil {
		s.logger.Error("failed to insert transaction", "error", err, "user_id", t.UserID)
		writeError(w, http.StatusInternalServerError, "failed to create transaction")
		return
	}
	t.ID = id

	if err := s.dispatcher.TransactionRecorded(r.Context(), t); err != nil {
		s.logger.Error("failed to schedule background work",
			"error", err,
			"transaction_id", t.ID,
			"user_id", t.UserID)
	}

	respondJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, err := s.store.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, storeErrorStatus(err), "transaction not found")
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) handleListUserTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	txs, err := s.store.ListTransactionsByUser(r.Context(), userID)
	if err != nil {
		s.logger.Error("failed to list transactions", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	respondJSON(w, http.StatusOK, txs)
}

// handleUpdateTransaction overwrites the record. Updating a transaction
// does not re-run the statistics engine; only creation triggers it.
func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := t.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	t.ID = r.PathValue("id")
	updated, err := s.store.UpdateTransaction(r.Context(), t)
	if err != nil {
		s.logger.Error("failed to update transaction", "error", err, "transaction_id", t.ID)
		writeError(w, storeErrorStatus(err), "failed to update transaction")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// handleDeleteTransaction removes the record. Like updates, deletion
// does not touch the owning user's aggregates.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := s.store.DeleteTransaction(r.Context(), id)
	if err != nil {
		writeError(w, storeErrorStatus(err), "transaction not found")
		return
	}
	respondJSON(w, http.StatusOK, removed)
}
