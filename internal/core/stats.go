package core

import (
	"math"
	"sort"
)

// ApplyTransaction folds one recorded transaction into the user's
// aggregate fields. The steps run in a fixed order because later
// fields read earlier ones: the balance moves first, then the ledger
// and counters, then the derived values.
//
// Note the cumulative total accumulates abs(balance) after the balance
// update, not the transaction amount. That is the formula the service
// has always shipped with; changing it changes every stored average.
func ApplyTransaction(u *User, t Transaction) {
	switch t.Type {
	case Credit:
		u.Balance += t.Amount
	case Debit:
		u.Balance -= t.Amount
	}

	if u.Transactions == nil {
		u.Transactions = make(map[string][]float64)
	}
	day := t.DayKey()
	u.Transactions[day] = append(u.Transactions[day], t.Amount)

	u.TotalNumberOfTransactions++
	u.TotalAmountTransacted += math.Abs(u.Balance)
	u.AverageTransactionValue = averageValue(u.TotalAmountTransacted, u.TotalNumberOfTransactions)
	u.DateWithHighestTransaction = PeakDate(u.Transactions)
}

// averageValue guards the zero-denominator case; a user with no
// transactions has an average of 0, never a division error.
func averageValue(total float64, count int64) float64 {
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// PeakDate returns the ledger date whose amounts sum largest. Keys are
// scanned in ascending date-string order and only a strictly larger
// daily sum displaces the current winner, so the earliest date wins
// ties. Returns "" for an empty ledger.
func PeakDate(ledger map[string][]float64) string {
	days := make([]string, 0, len(ledger))
	for day := range ledger {
		days = append(days, day)
	}
	sort.Strings(days)

	maxSum := math.Inf(-1)
	peak := ""
	for _, day := range days {
		var sum float64
		for _, amount := range ledger[day] {
			sum += amount
		}
		if sum > maxSum {
			maxSum = sum
			peak = day
		}
	}
	return peak
}
