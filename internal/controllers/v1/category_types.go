package v1

import (
	"github.com/google/uuid"

	"github.com/prospera-financas/backend/internal/models"
)

type CategoryEditable struct {
	Name  string `json:"name" example:"Mercado"`
	Color string `json:"color" example:"#3b82f6"` // A "#RRGGBB" value or a known color name. Empty picks a color automatically.
}

// model returns the Category resource for the editable fields, scoped to the
// owner.
func (editable CategoryEditable) model(ownerID uuid.UUID) models.Category {
	return models.Category{
		OwnerID: ownerID,
		Name:    editable.Name,
		Color:   editable.Color,
	}
}

type Category struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name" example:"Mercado"`
	Color string    `json:"color" example:"#3b82f6"`
}

func newCategory(model models.Category) Category {
	return Category{
		ID:    model.ID,
		Name:  model.Name,
		Color: model.Color,
	}
}

type CategoryResponse struct {
	Data Category `json:"data"` // The category
}

type CategoryListResponse struct {
	Data []Category `json:"data"` // List of categories
}
