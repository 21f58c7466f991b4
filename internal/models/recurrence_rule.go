package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/prospera-financas/backend/internal/types"
)

// RecurrenceCadence is the recurrence unit before applying the interval
// multiplier.
type RecurrenceCadence string

const (
	CadenceDaily   RecurrenceCadence = "daily"
	CadenceWeekly  RecurrenceCadence = "weekly"
	CadenceMonthly RecurrenceCadence = "monthly"
)

// Valid reports whether the cadence is one of the known values.
func (c RecurrenceCadence) Valid() bool {
	return c == CadenceDaily || c == CadenceWeekly || c == CadenceMonthly
}

// RecurrenceRule describes a transaction that repeats on a schedule.
//
// NextDue caches the earliest due date that has not fired yet. It is
// recomputed whenever cadence, interval, start or end date change and
// advanced whenever the rule fires.
type RecurrenceRule struct {
	DefaultModel
	OwnerID     uuid.UUID            `gorm:"index:rule_owner_due;not null"`
	Description string               `gorm:"not null"`
	Category    string               `gorm:"not null"`
	Direction   TransactionDirection `gorm:"not null"`
	Amount      decimal.Decimal      `gorm:"type:DECIMAL(20,8)"`
	Cadence     RecurrenceCadence    `gorm:"not null"`
	Interval    int                  `gorm:"not null;default:1"`
	StartDate   types.Date
	EndDate     *types.Date
	NextDue     types.Date `gorm:"index:rule_owner_due"`
	Active      bool       `gorm:"index:rule_owner_due;not null"`
	GoalID      *uuid.UUID
	Goal        *Goal `json:"-"`
}

var (
	ErrRuleCadenceInvalid      = errors.New("the cadence must be 'daily', 'weekly' or 'monthly'")
	ErrRuleIntervalNotPositive = errors.New("the interval must be an integer larger than zero")
	ErrRuleAmountNotPositive   = errors.New("recurrence amounts must be larger than zero")
	ErrRuleFieldsMissing       = errors.New("description, category, direction, amount, cadence and start date must be set")
	ErrRulePaused              = errors.New("this recurrence rule is paused")
)

func (r *RecurrenceRule) BeforeSave(_ *gorm.DB) error {
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(r.Category)

	if !r.Direction.Valid() {
		return ErrTransactionDirectionInvalid
	}

	if !r.Cadence.Valid() {
		return ErrRuleCadenceInvalid
	}

	if r.Interval < 1 {
		return ErrRuleIntervalNotPositive
	}

	if !r.Amount.IsPositive() {
		return ErrRuleAmountNotPositive
	}

	if r.Description == "" || r.Category == "" || r.StartDate.IsZero() {
		return ErrRuleFieldsMissing
	}

	return nil
}

func (r *RecurrenceRule) BeforeCreate(tx *gorm.DB) error {
	_ = r.DefaultModel.BeforeCreate(tx)

	return r.checkIntegrity(tx)
}

func (r *RecurrenceRule) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("GoalID") {
		return r.checkIntegrity(tx)
	}

	return nil
}

// checkIntegrity verifies that the referenced goal exists.
func (r *RecurrenceRule) checkIntegrity(tx *gorm.DB) error {
	if r.GoalID == nil {
		return nil
	}

	return tx.First(&Goal{}, "id = ?", *r.GoalID).Error
}
