package core

import (
	"fmt"
	"strings"
	"time"
)

// TransactionType tags a transaction as money in or money out.
type TransactionType string

const (
	Credit TransactionType = "credit"
	Debit  TransactionType = "debit"
)

// Valid reports whether the type is one of the two accepted tags.
func (t TransactionType) Valid() bool {
	return t == Credit || t == Debit
}

// DayKeyFormat is the calendar-date key used in a user's transaction
// ledger ("YYYY-MM-DD", UTC).
const DayKeyFormat = "2006-01-02"

// User is an account holder record. The aggregate fields (balance,
// counters, average, peak date) are owned by the statistics engine and
// must not be written anywhere else.
type User struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password,omitempty"`

	Balance float64 `json:"balance"`

	// Transactions maps a calendar date to the amounts recorded that
	// day, in the order they were applied.
	Transactions map[string][]float64 `json:"transactions"`

	CreditScore                float64 `json:"credit_score"`
	AverageTransactionValue    float64 `json:"average_transaction_value"`
	TotalNumberOfTransactions  int64   `json:"total_number_of_transactions"`
	TotalAmountTransacted      float64 `json:"total_amount_transacted"`
	DateWithHighestTransaction string  `json:"date_with_highest_transaction"`
}

// Validate checks the supplied profile fields on a create/update
// request. Aggregate fields are not validated; they are derived.
func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if strings.TrimSpace(u.PhoneNumber) == "" {
		return fmt.Errorf("phone_number is required")
	}
	return nil
}

// Clone returns a deep copy; the ledger map is not shared.
func (u User) Clone() User {
	out := u
	if u.Transactions != nil {
		out.Transactions = make(map[string][]float64, len(u.Transactions))
		for day, amounts := range u.Transactions {
			out.Transactions[day] = append([]float64(nil), amounts...)
		}
	}
	return out
}

// Transaction is a single monetary movement against a user's account.
// The amount is non-negative; direction is carried by Type.
type Transaction struct {
	ID       string          `json:"id,omitempty"`
	UserID   string          `json:"user_id"`
	FullName string          `json:"full_name"`
	Date     time.Time       `json:"transaction_date"`
	Amount   float64         `json:"transaction_amount"`
	Type     TransactionType `json:"transaction_type"`
}

// Validate checks a transaction supplied on a create/update request.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return fmt.Errorf("user_id is required")
	}
	if !t.Type.Valid() {
		return fmt.Errorf("transaction_type must be %q or %q, got %q", Credit, Debit, t.Type)
	}
	if t.Amount < 0 {
		return fmt.Errorf("transaction_amount must not be negative, got %v", t.Amount)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("transaction_date is required")
	}
	return nil
}

// DayKey returns the UTC calendar date of the transaction, used as the
// ledger key on the owning user.
func (t Transaction) DayKey() string {
	return t.Date.UTC().Format(DayKeyFormat)
}
