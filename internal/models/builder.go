package models

import (
	"strings"

	"github.com/christo725/family-bank-app/internal/bankerror"
	"github.com/christo725/family-bank-app/internal/dateutils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction of a manual transaction as entered by the user.
type Direction string

const (
	Deposit    Direction = "Deposit"
	Withdrawal Direction = "Withdrawal"
)

// ParseDirection accepts "deposit" or "withdrawal" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposit":
		return Deposit, nil
	case "withdrawal", "withdraw":
		return Withdrawal, nil
	default:
		return "", bankerror.NewValidation("type", s, "must be Deposit or Withdrawal")
	}
}

// TransactionBuilder provides a fluent API for constructing manual transactions.
// The first failing step is remembered and returned by Build.
type TransactionBuilder struct {
	tx        Transaction
	direction Direction
	err       error
}

// NewTransactionBuilder starts a manual deposit with a fresh identifier.
func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		tx: Transaction{
			ID:     uuid.NewString(),
			Kind:   KindManual,
			Amount: decimal.Zero,
		},
		direction: Deposit,
	}
}

// WithID overrides the generated identifier.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.ID = id
	return b
}

// WithDate sets the booking day.
func (b *TransactionBuilder) WithDate(day dateutils.Date) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Date = day
	return b
}

// WithLabel sets the description shown in the ledger.
func (b *TransactionBuilder) WithLabel(label string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	label = strings.TrimSpace(label)
	if label == "" {
		b.err = bankerror.NewValidation("label", "", "is required")
		return b
	}
	b.tx.Label = label
	return b
}

// WithAmount sets the unsigned amount; the sign comes from the direction.
func (b *TransactionBuilder) WithAmount(amount decimal.Decimal) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if !amount.IsPositive() {
		b.err = bankerror.NewValidation("amount", amount.String(), "must be greater than zero")
		return b
	}
	b.tx.Amount = amount
	return b
}

// WithDirection marks the transaction as a deposit or a withdrawal.
func (b *TransactionBuilder) WithDirection(d Direction) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.direction = d
	return b
}

// Build returns the transaction or the first validation error.
func (b *TransactionBuilder) Build() (Transaction, error) {
	if b.err != nil {
		return Transaction{}, b.err
	}
	if b.tx.Date.IsZero() {
		return Transaction{}, bankerror.NewValidation("date", "", "is required")
	}
	if b.tx.Label == "" {
		return Transaction{}, bankerror.NewValidation("label", "", "is required")
	}
	if !b.tx.Amount.IsPositive() {
		return Transaction{}, bankerror.NewValidation("amount", b.tx.Amount.String(), "must be greater than zero")
	}
	tx := b.tx
	if b.direction == Withdrawal {
		tx.Amount = tx.Amount.Neg()
	}
	return tx, nil
}
