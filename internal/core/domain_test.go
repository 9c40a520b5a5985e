package core

import (
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		UserID:   "u1",
		FullName: "Ama Mensah",
		Date:     time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC),
		Amount:   100,
		Type:     Credit,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{UserID: "", Date: good.Date, Amount: 1, Type: Credit},
		{UserID: "u1", Date: good.Date, Amount: 1, Type: "transfer"},
		{UserID: "u1", Date: good.Date, Amount: 1, Type: ""},
		{UserID: "u1", Date: good.Date, Amount: -5, Type: Debit},
		{UserID: "u1", Amount: 1, Type: Credit}, // zero date
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestUserValidate(t *testing.T) {
	good := User{Name: "Ama Mensah", Email: "ama@example.com", PhoneNumber: "+233546744163"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []User{
		{Email: "a@b.c", PhoneNumber: "1"},
		{Name: "a", PhoneNumber: "1"},
		{Name: "a", Email: "a@b.c"},
		{Name: "  ", Email: "a@b.c", PhoneNumber: "1"},
	}
	for i, u := range bads {
		if err := u.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDayKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	tx := Transaction{Date: time.Date(2024, 1, 2, 3, 0, 0, 0, loc)}
	// 03:00 at UTC+5 is 22:00 the previous day in UTC.
	if got := tx.DayKey(); got != "2024-01-01" {
		t.Fatalf("DayKey = %q, want 2024-01-01", got)
	}
}

func TestUserClone(t *testing.T) {
	u := User{
		Name:         "Ama",
		Transactions: map[string][]float64{"2024-01-01": {10, 20}},
	}
	c := u.Clone()
	c.Transactions["2024-01-01"][0] = 99
	c.Transactions["2024-01-02"] = []float64{1}

	if u.Transactions["2024-01-01"][0] != 10 {
		t.Fatalf("clone shares ledger slice with original")
	}
	if _, ok := u.Transactions["2024-01-02"]; ok {
		t.Fatalf("clone shares ledger map with original")
	}
}
