package http

import (
	"encoding/json"
	"net/http"

	"sika/internal/core"
)

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var u core.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := u.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// Aggregates are owned by the statistics engine; a new account
	// starts from zero regardless of what the request carried.
	u.ID = ""
	u.Balance = 0
	u.Transactions = map[string][]float64{}
	u.CreditScore = 0
	u.AverageTransactionValue = 0
	u.TotalNumberOfTransactions = 0
	u.TotalAmountTransacted = 0
	u.DateWithHighestTransaction = ""

	id, err := s.store.InsertUser(r.Context(), u)
	if err != nil {
		s.logger.Error("failed to insert user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	u.ID = id
	respondJSON(w, http.StatusCreated, u)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []core.User{}
	}
	respondJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	u, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, storeErrorStatus(err), "user not found")
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var u core.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := u.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	u.ID = r.PathValue("id")
	updated, err := s.store.UpdateUser(r.Context(), u)
	if err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", u.ID)
		writeError(w, storeErrorStatus(err), "failed to update user")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := s.store.DeleteUser(r.Context(), id)
	if err != nil {
		writeError(w, storeErrorStatus(err), "user not found")
		return
	}
	respondJSON(w, http.StatusOK, removed)
}

// handleUserAnalytics serves the persisted aggregates; nothing is
// recomputed on the read path.
func (s *Server) handleUserAnalytics(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	u, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, storeErrorStatus(err), "user not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"average_transaction_value":     u.AverageTransactionValue,
		"date_with_highest_transaction": u.DateWithHighestTransaction,
	})
}
