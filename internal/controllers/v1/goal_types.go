package v1

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prospera-financas/backend/internal/models"
	"github.com/prospera-financas/backend/internal/types"
)

type GoalEditable struct {
	Name         string            `json:"name" example:"Reserva de emergência"`
	TargetAmount decimal.Decimal   `json:"targetAmount" example:"10000"`
	Color        string            `json:"color" example:"#22c55e"` // A "#RRGGBB" value or a known color name. Empty picks a color automatically.
	StartDate    types.Date        `json:"startDate" example:"2026-01-01"`
	TargetDate   *types.Date       `json:"targetDate" example:"2026-12-31"`
	Status       models.GoalStatus `json:"status" default:"active"`
	Note         string            `json:"note"`
}

// model returns the Goal resource for the editable fields, scoped to the
// owner.
func (editable GoalEditable) model(ownerID uuid.UUID) models.Goal {
	return models.Goal{
		OwnerID:      ownerID,
		Name:         editable.Name,
		TargetAmount: editable.TargetAmount,
		Color:        editable.Color,
		StartDate:    editable.StartDate,
		TargetDate:   editable.TargetDate,
		Status:       editable.Status,
		Note:         editable.Note,
	}
}

// Goal is the API representation of a savings goal including the figures
// derived from its contributions.
type Goal struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name" example:"Reserva de emergência"`
	TargetAmount decimal.Decimal   `json:"targetAmount" example:"10000"`
	Color        string            `json:"color" example:"#22c55e"`
	StartDate    types.Date        `json:"startDate" example:"2026-01-01"`
	TargetDate   *types.Date       `json:"targetDate" example:"2026-12-31"`
	Status       models.GoalStatus `json:"status" example:"active"`
	Note         string            `json:"note"`

	models.GoalProjection
}

func newGoal(model models.Goal, projection models.GoalProjection) Goal {
	return Goal{
		ID:             model.ID,
		Name:           model.Name,
		TargetAmount:   model.TargetAmount,
		Color:          model.Color,
		StartDate:      model.StartDate,
		TargetDate:     model.TargetDate,
		Status:         model.Status,
		Note:           model.Note,
		GoalProjection: projection,
	}
}

type GoalResponse struct {
	Data Goal `json:"data"` // The goal
}

type GoalListResponse struct {
	Data []Goal `json:"data"` // List of goals
}

type ContributionEditable struct {
	Date   types.Date      `json:"date" example:"2026-03-01"`
	Amount decimal.Decimal `json:"amount" example:"250.00"` // Positive deposits, negative withdraws
	Note   string          `json:"note"`

	// CreateTransaction also posts a ledger transaction for the
	// contribution, categorized under "Metas".
	CreateTransaction bool `json:"createTransaction"`
}

type Contribution struct {
	ID            uuid.UUID                 `json:"id"`
	GoalID        uuid.UUID                 `json:"goalId"`
	Date          types.Date                `json:"date" example:"2026-03-01"`
	Amount        decimal.Decimal           `json:"amount" example:"250.00"`
	TransactionID *uuid.UUID                `json:"transactionId"`
	Source        models.ContributionSource `json:"source" example:"manual"`
	Note          string                    `json:"note"`
}

func newContribution(model models.GoalContribution) Contribution {
	return Contribution{
		ID:            model.ID,
		GoalID:        model.GoalID,
		Date:          model.Date,
		Amount:        model.Amount,
		TransactionID: model.TransactionID,
		Source:        model.Source,
		Note:          model.Note,
	}
}

type ContributionResponse struct {
	Data Contribution `json:"data"` // The contribution
}

type ContributionListResponse struct {
	Data []Contribution `json:"data"` // List of contributions
}
