package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/prospera-financas/backend/internal/types"
)

// TransactionDirection is the direction of the money flow relative to the
// user's balance.
type TransactionDirection string

const (
	DirectionIncome  TransactionDirection = "income"
	DirectionExpense TransactionDirection = "expense"
)

// Valid reports whether the direction is one of the known values.
func (d TransactionDirection) Valid() bool {
	return d == DirectionIncome || d == DirectionExpense
}

// Transaction is a single ledger entry. It is created directly by the user
// or as a byproduct of a recurrence rule firing and is immutable except by
// deletion.
type Transaction struct {
	DefaultModel
	OwnerID     uuid.UUID            `gorm:"index:transaction_owner_date;not null"`
	Date        types.Date           `gorm:"index:transaction_owner_date"`
	Description string               `gorm:"not null"`
	Category    string               `gorm:"not null"`
	Direction   TransactionDirection `gorm:"not null"`
	Amount      decimal.Decimal      `gorm:"type:DECIMAL(20,8)"`
}

var (
	ErrTransactionDirectionInvalid  = errors.New("the transaction direction must be 'income' or 'expense'")
	ErrTransactionAmountNotPositive = errors.New("transaction amounts must be larger than zero")
	ErrTransactionFieldsMissing     = errors.New("date, description, category, direction and amount must be set")
)

func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.Description = strings.TrimSpace(t.Description)
	t.Category = strings.TrimSpace(t.Category)

	if !t.Direction.Valid() {
		return ErrTransactionDirectionInvalid
	}

	if !t.Amount.IsPositive() {
		return ErrTransactionAmountNotPositive
	}

	if t.Date.IsZero() || t.Description == "" || t.Category == "" {
		return ErrTransactionFieldsMissing
	}

	return nil
}

// TransactionsSum returns the summed amount of all transactions matching the
// query, zero when none match.
func TransactionsSum(query *gorm.DB) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	err := query.
		Model(&Transaction{}).
		Select("SUM(amount)").
		Row().
		Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	if !sum.Valid {
		return decimal.Zero, nil
	}

	return sum.Decimal, nil
}
