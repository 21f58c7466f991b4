package v1

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prospera-financas/backend/internal/models"
	"github.com/prospera-financas/backend/internal/types"
	ez_uuid "github.com/prospera-financas/backend/internal/uuid"
)

type TransactionEditable struct {
	Date        types.Date                  `json:"date" example:"2026-01-15"`
	Description string                      `json:"description" example:"Feira da semana"`
	Category    string                      `json:"category" example:"Mercado"`
	Direction   models.TransactionDirection `json:"direction" example:"expense"`
	Amount      decimal.Decimal             `json:"amount" example:"132.90"`
	GoalID      *uuid.UUID                  `json:"goalId"` // Links the transaction to a goal via a contribution
}

// model returns the Transaction resource for the editable fields, scoped to
// the owner.
func (editable TransactionEditable) model(ownerID uuid.UUID) models.Transaction {
	return models.Transaction{
		OwnerID:     ownerID,
		Date:        editable.Date,
		Description: editable.Description,
		Category:    editable.Category,
		Direction:   editable.Direction,
		Amount:      editable.Amount,
	}
}

type Transaction struct {
	ID          uuid.UUID                   `json:"id"`
	Date        types.Date                  `json:"date" example:"2026-01-15"`
	Description string                      `json:"description" example:"Feira da semana"`
	Category    string                      `json:"category" example:"Mercado"`
	Direction   models.TransactionDirection `json:"direction" example:"expense"`
	Amount      decimal.Decimal             `json:"amount" example:"132.90"`
}

func newTransaction(model models.Transaction) Transaction {
	return Transaction{
		ID:          model.ID,
		Date:        model.Date,
		Description: model.Description,
		Category:    model.Category,
		Direction:   model.Direction,
		Amount:      model.Amount,
	}
}

type TransactionResponse struct {
	Data Transaction `json:"data"` // The transaction
}

type TransactionListResponse struct {
	Data []Transaction `json:"data"` // List of transactions
}

type TransactionQueryFilter struct {
	From     string       `form:"from"`     // Earliest date to include
	To       string       `form:"to"`       // Latest date to include
	Category string       `form:"category"` // Filter by category name
	Type     string       `form:"type"`     // Filter by direction
	Goal     ez_uuid.UUID `form:"goal"`     // Filter by linked goal
}

type CategorySummary struct {
	Category string          `json:"category" example:"Mercado"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
}

type Summary struct {
	Income     decimal.Decimal   `json:"income"`
	Expense    decimal.Decimal   `json:"expense"`
	Balance    decimal.Decimal   `json:"balance"`
	Categories []CategorySummary `json:"categories"`
}

type SummaryResponse struct {
	Data Summary `json:"data"` // The aggregated figures
}
