package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/prospera-financas/backend/internal/types"
)

// GoalStatus is the lifecycle state of a savings goal.
type GoalStatus string

const (
	GoalActive   GoalStatus = "active"
	GoalPaused   GoalStatus = "paused"
	GoalAchieved GoalStatus = "achieved"
	GoalArchived GoalStatus = "archived"
)

// Valid reports whether the status is one of the known values.
func (s GoalStatus) Valid() bool {
	return s == GoalActive || s == GoalPaused || s == GoalAchieved || s == GoalArchived
}

// Goal is a savings goal. The saved amount is never persisted, it is always
// the sum of the goal's contributions.
type Goal struct {
	DefaultModel
	OwnerID      uuid.UUID       `gorm:"index;not null"`
	Name         string          `gorm:"not null"`
	TargetAmount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Color        string          `gorm:"not null"`
	StartDate    types.Date
	TargetDate   *types.Date
	Status       GoalStatus `gorm:"not null;default:active"`
	Note         string
}

var (
	ErrGoalNameRequired      = errors.New("the goal name must be set")
	ErrGoalTargetNotPositive = errors.New("the goal target amount must be larger than zero")
	ErrGoalStatusInvalid     = errors.New("the goal status must be 'active', 'paused', 'achieved' or 'archived'")
)

func (g *Goal) BeforeSave(_ *gorm.DB) error {
	g.Name = strings.TrimSpace(g.Name)
	g.Note = strings.TrimSpace(g.Note)

	if g.Name == "" {
		return ErrGoalNameRequired
	}

	if !g.TargetAmount.IsPositive() {
		return ErrGoalTargetNotPositive
	}

	if g.Status == "" {
		g.Status = GoalActive
	}

	if !g.Status.Valid() {
		return ErrGoalStatusInvalid
	}

	if g.Color == "" {
		g.Color = pickColor(g.Name)
	}

	return nil
}

// GoalProjection holds the derived figures for a goal at a point in time.
type GoalProjection struct {
	Saved            decimal.Decimal  `json:"saved"`
	Missing          decimal.Decimal  `json:"missing"`
	Percent          int              `json:"percent"`
	SuggestedMonthly *decimal.Decimal `json:"suggestedMonthly"`
}

// Saved returns the sum of all contributions for the goal.
func (g Goal) Saved(db *gorm.DB) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	err := db.
		Model(&GoalContribution{}).
		Where("goal_id = ?", g.ID).
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

// Project computes the derived figures from the saved amount.
//
// The suggested monthly contribution divides the missing amount over the
// whole months left until the target date, at least one. It is nil when the
// goal has no target date.
func (g Goal) Project(saved decimal.Decimal, today types.Date) GoalProjection {
	missing := g.TargetAmount.Sub(saved)
	if missing.IsNegative() {
		missing = decimal.Zero
	}

	percent := 0
	if g.TargetAmount.IsPositive() {
		percent = int(saved.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
		if percent > 100 {
			percent = 100
		}
		if percent < 0 {
			percent = 0
		}
	}

	projection := GoalProjection{
		Saved:   saved,
		Missing: missing,
		Percent: percent,
	}

	if g.TargetDate != nil {
		suggested := decimal.Zero
		if missing.IsPositive() {
			months := types.MonthsBetween(today, *g.TargetDate)
			if months < 1 {
				months = 1
			}
			suggested = missing.Div(decimal.NewFromInt(int64(months)))
		}
		projection.SuggestedMonthly = &suggested
	}

	return projection
}

// DeleteCascading removes the goal, its contributions and every transaction
// referenced by one of them as a single unit. This is destructive on
// purpose: contributions are financial records tightly bound to the goal.
func (g Goal) DeleteCascading(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("id IN (?)", tx.
				Model(&GoalContribution{}).
				Select("transaction_id").
				Where("goal_id = ? AND transaction_id IS NOT NULL", g.ID),
			).
			Delete(&Transaction{}).Error
		if err != nil {
			return err
		}

		err = tx.Where("goal_id = ?", g.ID).Delete(&GoalContribution{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&Goal{}, "id = ?", g.ID).Error
	})
}
