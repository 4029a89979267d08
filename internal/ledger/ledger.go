// Package ledger derives the running-balance view of an account from its
// manual and generated transactions.
package ledger

import (
	"sort"

	"github.com/christo725/family-bank-app/internal/dateutils"
	"github.com/christo725/family-bank-app/internal/models"

	"github.com/shopspring/decimal"
)

// Row is a ledger entry together with the balance right after it.
type Row struct {
	models.Transaction
	Balance decimal.Decimal `json:"balance" yaml:"balance"`
	// ManualIndex is the position in AccountState.ManualTransactions, -1 for
	// generated deposits.
	ManualIndex int `json:"manual_index" yaml:"manual_index"`
}

// Ledger is the merged, dated view of an account.
type Ledger struct {
	Rows           []Row           `json:"transactions" yaml:"transactions"`
	CurrentBalance decimal.Decimal `json:"current_balance" yaml:"current_balance"`
}

// Merge returns every transaction of s ordered by date. On the same day manual
// transactions come before generated ones, and each stream keeps its own
// insertion order.
func Merge(s *models.AccountState) []models.Transaction {
	all := make([]models.Transaction, 0, len(s.ManualTransactions)+len(s.AutoDeposits))
	for _, tx := range s.ManualTransactions {
		tx.Kind = models.KindManual
		all = append(all, tx)
	}
	for _, tx := range s.AutoDeposits {
		tx.Kind = models.KindAuto
		all = append(all, tx)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date.Before(all[j].Date)
	})
	return all
}

// Compute builds the ledger view: every transaction with its running balance,
// starting from the initial balance.
func Compute(s *models.AccountState) Ledger {
	manualIndex := make(map[string]int, len(s.ManualTransactions))
	for i, tx := range s.ManualTransactions {
		manualIndex[tx.ID] = i
	}

	merged := Merge(s)
	rows := make([]Row, 0, len(merged))
	balance := s.InitialBalance
	for _, tx := range merged {
		balance = balance.Add(tx.Amount)
		idx := -1
		if tx.IsManual() {
			if i, ok := manualIndex[tx.ID]; ok {
				idx = i
			}
		}
		rows = append(rows, Row{Transaction: tx, Balance: balance, ManualIndex: idx})
	}
	return Ledger{Rows: rows, CurrentBalance: balance}
}

// BalanceAt is the initial balance plus every transaction dated on or before day.
func BalanceAt(s *models.AccountState, day dateutils.Date) decimal.Decimal {
	return sumWhere(s, func(d dateutils.Date) bool { return !d.After(day) })
}

// BalanceBefore is the initial balance plus every transaction dated strictly
// before day.
func BalanceBefore(s *models.AccountState, day dateutils.Date) decimal.Decimal {
	return sumWhere(s, func(d dateutils.Date) bool { return d.Before(day) })
}

func sumWhere(s *models.AccountState, include func(dateutils.Date) bool) decimal.Decimal {
	balance := s.InitialBalance
	for _, tx := range s.ManualTransactions {
		if include(tx.Date) {
			balance = balance.Add(tx.Amount)
		}
	}
	for _, tx := range s.AutoDeposits {
		if include(tx.Date) {
			balance = balance.Add(tx.Amount)
		}
	}
	return balance
}
