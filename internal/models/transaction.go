package models

import (
	"fmt"

	"github.com/christo725/family-bank-app/internal/dateutils"

	"github.com/shopspring/decimal"
)

// TransactionKind tags a ledger entry as user-authored or generated.
type TransactionKind string

const (
	KindManual TransactionKind = "manual"
	KindAuto   TransactionKind = "auto"
)

// DepositType identifies which weekly schedule produced an auto deposit.
type DepositType string

const (
	DepositAllowance DepositType = "allowance"
	DepositInterest  DepositType = "interest"
)

// Transaction is one ledger entry. Amount is signed: deposits are positive,
// withdrawals negative.
type Transaction struct {
	ID     string          `json:"id" yaml:"id"`
	Date   dateutils.Date  `json:"date" yaml:"date"`
	Label  string          `json:"label" yaml:"label"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
	Kind   TransactionKind `json:"kind" yaml:"kind"`
	Type   DepositType     `json:"type,omitempty" yaml:"type,omitempty"`
}

// IsManual reports whether the entry was entered by the user.
func (t Transaction) IsManual() bool {
	return t.Kind == KindManual
}

// AutoID is the identifier of the deposit of type dt on day. There is at most
// one such deposit, so the identifier doubles as a uniqueness key.
func AutoID(dt DepositType, day dateutils.Date) string {
	return fmt.Sprintf("%s:%s", dt, day)
}

// NewAllowance returns the allowance deposit for day.
func NewAllowance(day dateutils.Date, amount decimal.Decimal) Transaction {
	return Transaction{
		ID:     AutoID(DepositAllowance, day),
		Date:   day,
		Label:  AllowanceLabel,
		Amount: amount,
		Kind:   KindAuto,
		Type:   DepositAllowance,
	}
}

// NewInterest returns the interest deposit for day at percent.
func NewInterest(day dateutils.Date, amount, percent decimal.Decimal) Transaction {
	return Transaction{
		ID:     AutoID(DepositInterest, day),
		Date:   day,
		Label:  InterestLabel(percent),
		Amount: amount,
		Kind:   KindAuto,
		Type:   DepositInterest,
	}
}
