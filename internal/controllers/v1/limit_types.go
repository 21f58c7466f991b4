package v1

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prospera-financas/backend/internal/models"
	"github.com/prospera-financas/backend/internal/types"
)

type LimitEditable struct {
	Title      string             `json:"title" example:"Mercado em março"`
	StartDate  types.Date         `json:"startDate" example:"2026-03-10"`
	PeriodCode models.LimitPeriod `json:"periodCode" example:"1m"`
	Amount     decimal.Decimal    `json:"amount" example:"800.00"`
	Status     models.LimitStatus `json:"status" default:"active"`
}

// model returns the Limit resource for the editable fields, scoped to the
// owner. EndDate is derived on save.
func (editable LimitEditable) model(ownerID uuid.UUID) models.Limit {
	return models.Limit{
		OwnerID:    ownerID,
		Title:      editable.Title,
		StartDate:  editable.StartDate,
		PeriodCode: editable.PeriodCode,
		Amount:     editable.Amount,
		Status:     editable.Status,
	}
}

// Limit is the API representation of a spending limit including the figures
// derived from the matching transactions.
type Limit struct {
	ID         uuid.UUID          `json:"id"`
	Title      string             `json:"title" example:"Mercado em março"`
	StartDate  types.Date         `json:"startDate" example:"2026-03-10"`
	PeriodCode models.LimitPeriod `json:"periodCode" example:"1m"`
	EndDate    types.Date         `json:"endDate" example:"2026-04-09"`
	Amount     decimal.Decimal    `json:"amount" example:"800.00"`
	Status     models.LimitStatus `json:"status" example:"active"`

	models.LimitProjection
}

func newLimit(model models.Limit, projection models.LimitProjection) Limit {
	return Limit{
		ID:              model.ID,
		Title:           model.Title,
		StartDate:       model.StartDate,
		PeriodCode:      model.PeriodCode,
		EndDate:         model.EndDate,
		Amount:          model.Amount,
		Status:          model.Status,
		LimitProjection: projection,
	}
}

type LimitResponse struct {
	Data Limit `json:"data"` // The limit
}

type LimitListResponse struct {
	Data []Limit `json:"data"` // List of limits
}
