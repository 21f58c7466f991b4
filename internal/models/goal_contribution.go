package models

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/prospera-financas/backend/internal/types"
)

// ContributionSource tags where a goal contribution came from.
type ContributionSource string

const (
	SourceManual      ContributionSource = "manual"
	SourceTransaction ContributionSource = "transaction"
	SourceRecurrence  ContributionSource = "recurrence"
)

// Valid reports whether the source is one of the known values.
func (s ContributionSource) Valid() bool {
	return s == SourceManual || s == SourceTransaction || s == SourceRecurrence
}

// GoalContribution is a signed ledger entry against a savings goal.
// Positive amounts are deposits, negative amounts are withdrawals.
//
// Contributions with source "transaction" or "recurrence" reference the
// Transaction that produced them.
type GoalContribution struct {
	DefaultModel
	OwnerID       uuid.UUID       `gorm:"not null"`
	GoalID        uuid.UUID       `gorm:"index:contribution_goal_date;not null"`
	Goal          Goal            `json:"-"`
	Date          types.Date      `gorm:"index:contribution_goal_date"`
	Amount        decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	TransactionID *uuid.UUID
	Source        ContributionSource `gorm:"not null;default:manual"`
	Note          string
}

var (
	ErrContributionAmountZero        = errors.New("contribution amounts must not be zero")
	ErrContributionSourceInvalid     = errors.New("the contribution source must be 'manual', 'transaction' or 'recurrence'")
	ErrContributionTransactionNeeded = errors.New("contributions from transactions must reference the transaction that produced them")
)

func (c *GoalContribution) BeforeSave(_ *gorm.DB) error {
	if c.Source == "" {
		c.Source = SourceManual
	}

	if !c.Source.Valid() {
		return ErrContributionSourceInvalid
	}

	if c.Amount.IsZero() {
		return ErrContributionAmountZero
	}

	if c.Source != SourceManual && c.TransactionID == nil {
		return ErrContributionTransactionNeeded
	}

	return nil
}

func (c *GoalContribution) BeforeCreate(tx *gorm.DB) error {
	_ = c.DefaultModel.BeforeCreate(tx)

	err := tx.First(&Goal{}, "id = ?", c.GoalID).Error
	if err != nil {
		return err
	}

	if c.TransactionID != nil {
		return tx.First(&Transaction{}, "id = ?", *c.TransactionID).Error
	}

	return nil
}

// SignedContribution returns the contribution amount for a transaction
// linked to a goal: an expense moves money into savings (deposit), an
// income takes money out of them (withdrawal).
func SignedContribution(direction TransactionDirection, amount decimal.Decimal) decimal.Decimal {
	if direction == DirectionExpense {
		return amount.Abs()
	}

	return amount.Abs().Neg()
}
