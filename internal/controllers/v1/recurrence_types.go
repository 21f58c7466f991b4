package v1

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prospera-financas/backend/internal/models"
	"github.com/prospera-financas/backend/internal/recurrence"
	"github.com/prospera-financas/backend/internal/types"
)

type RecurrenceEditable struct {
	Description string                      `json:"description" example:"Aluguel"`
	Category    string                      `json:"category" example:"Moradia"`
	Direction   models.TransactionDirection `json:"direction" example:"expense"`
	Amount      decimal.Decimal             `json:"amount" example:"1500.00"`
	Cadence     models.RecurrenceCadence    `json:"cadence" example:"monthly"`
	Interval    int                         `json:"interval" example:"1" default:"1"`
	StartDate   types.Date                  `json:"startDate" example:"2026-01-05"`
	EndDate     *types.Date                 `json:"endDate"`
	Active      bool                        `json:"active" default:"true"`
	GoalID      *uuid.UUID                  `json:"goalId"` // Cascades every firing into a contribution against this goal
}

// model returns the RecurrenceRule resource for the editable fields, scoped
// to the owner. NextDue is left unset, the caller computes it.
func (editable RecurrenceEditable) model(ownerID uuid.UUID) models.RecurrenceRule {
	return models.RecurrenceRule{
		OwnerID:     ownerID,
		Description: editable.Description,
		Category:    editable.Category,
		Direction:   editable.Direction,
		Amount:      editable.Amount,
		Cadence:     editable.Cadence,
		Interval:    editable.Interval,
		StartDate:   editable.StartDate,
		EndDate:     editable.EndDate,
		Active:      editable.Active,
		GoalID:      editable.GoalID,
	}
}

type Recurrence struct {
	ID          uuid.UUID                   `json:"id"`
	Description string                      `json:"description" example:"Aluguel"`
	Category    string                      `json:"category" example:"Moradia"`
	Direction   models.TransactionDirection `json:"direction" example:"expense"`
	Amount      decimal.Decimal             `json:"amount" example:"1500.00"`
	Cadence     models.RecurrenceCadence    `json:"cadence" example:"monthly"`
	Interval    int                         `json:"interval" example:"1"`
	StartDate   types.Date                  `json:"startDate" example:"2026-01-05"`
	EndDate     *types.Date                 `json:"endDate"`
	NextDue     types.Date                  `json:"nextDue" example:"2026-02-05"`
	Active      bool                        `json:"active"`
	GoalID      *uuid.UUID                  `json:"goalId"`
}

func newRecurrence(model models.RecurrenceRule) Recurrence {
	return Recurrence{
		ID:          model.ID,
		Description: model.Description,
		Category:    model.Category,
		Direction:   model.Direction,
		Amount:      model.Amount,
		Cadence:     model.Cadence,
		Interval:    model.Interval,
		StartDate:   model.StartDate,
		EndDate:     model.EndDate,
		NextDue:     model.NextDue,
		Active:      model.Active,
		GoalID:      model.GoalID,
	}
}

type RecurrenceResponse struct {
	Data Recurrence `json:"data"` // The recurrence rule
}

type RecurrenceListResponse struct {
	Data []Recurrence `json:"data"` // List of recurrence rules
}

type RecurrenceQueryFilter struct {
	Cadence string `form:"cadence"` // Filter by cadence
	Active  bool   `form:"active"`  // Is the rule active?
}

// model returns the rule fields usable directly in a gorm Where statement.
func (f RecurrenceQueryFilter) model() models.RecurrenceRule {
	return models.RecurrenceRule{
		Cadence: models.RecurrenceCadence(f.Cadence),
		Active:  f.Active,
	}
}

type RunResponse struct {
	Data recurrence.RunResult `json:"data"` // What the trigger did
}
