package v1

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/prospera-financas/backend/internal/httputil"
	"github.com/prospera-financas/backend/internal/models"
)

// RegisterCategoryRoutes registers the routes for categories with
// the RouterGroup that is passed.
func RegisterCategoryRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", GetCategories)
		r.POST("", CreateCategory)
	}

	// Category with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", GetCategory)
		r.PATCH("/:id", UpdateCategory)
		r.DELETE("/:id", DeleteCategory)
	}
}

// @Summary		Create category
// @Description	Creates a new category
// @Tags			Categories
// @Produce		json
// @Success		201			{object}	CategoryResponse
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Failure		409			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			category	body		CategoryEditable	true	"Category"
// @Router			/v1/categories [post]
func CreateCategory(c *gin.Context) {
	var editable CategoryEditable
	if err := httputil.BindData(c, &editable); err != nil {
		abortError(c, err)
		return
	}

	color, err := models.ParseColor(editable.Color, editable.Name)
	if err != nil {
		abortError(c, err)
		return
	}
	editable.Color = color

	category := editable.model(owner(c))
	if err := models.DB.Create(&category).Error; err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CategoryResponse{Data: newCategory(category)})
}

// @Summary		Get categories
// @Description	Returns the categories of the authenticated account
// @Tags			Categories
// @Produce		json
// @Success		200	{object}	CategoryListResponse
// @Failure		401	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/categories [get]
func GetCategories(c *gin.Context) {
	var categories []models.Category
	err := models.DB.
		Where("owner_id = ?", owner(c)).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		abortError(c, err)
		return
	}

	data := make([]Category, 0, len(categories))
	for _, category := range categories {
		data = append(data, newCategory(category))
	}

	c.JSON(http.StatusOK, CategoryListResponse{Data: data})
}

// @Summary		Get category
// @Description	Returns a specific category
// @Tags			Categories
// @Produce		json
// @Success		200	{object}	CategoryResponse
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/categories/{id} [get]
func GetCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abortError(c, httputil.ErrInvalidUUID)
		return
	}

	var category models.Category
	err := models.DB.First(&category, "id = ? AND owner_id = ?", uri.ID, owner(c)).Error
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoryResponse{Data: newCategory(category)})
}

// @Summary		Update category
// @Description	Updates an existing category. Renaming propagates to all transactions and recurrence rules referencing the old name.
// @Tags			Categories
// @Produce		json
// @Success		200			{object}	CategoryResponse
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		409			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			id			path		URIID				true	"ID formatted as string"
// @Param			category	body		CategoryEditable	true	"Category"
// @Router			/v1/categories/{id} [patch]
func UpdateCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abortError(c, httputil.ErrInvalidUUID)
		return
	}

	var category models.Category
	err := models.DB.First(&category, "id = ? AND owner_id = ?", uri.ID, owner(c)).Error
	if err != nil {
		abortError(c, err)
		return
	}

	updateFields, err := httputil.GetBodyFields(c, CategoryEditable{})
	if err != nil {
		abortError(c, err)
		return
	}

	var editable CategoryEditable
	if err := httputil.BindData(c, &editable); err != nil {
		abortError(c, err)
		return
	}

	previousName := category.Name
	if slices.Contains(updateFields, "Name") {
		category.Name = editable.Name
	}
	if slices.Contains(updateFields, "Color") {
		color, err := models.ParseColor(editable.Color, category.Name)
		if err != nil {
			abortError(c, err)
			return
		}
		category.Color = color
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&category).Error; err != nil {
			return err
		}

		// Transactions and rules reference categories by name, a rename has
		// to follow them. UpdateColumn keeps the validation hooks, which
		// expect fully loaded models, out of the batch update.
		if category.Name != previousName {
			err := tx.Model(&models.Transaction{}).
				Where("owner_id = ? AND category = ?", category.OwnerID, previousName).
				UpdateColumn("category", category.Name).Error
			if err != nil {
				return err
			}

			err = tx.Model(&models.RecurrenceRule{}).
				Where("owner_id = ? AND category = ?", category.OwnerID, previousName).
				UpdateColumn("category", category.Name).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoryResponse{Data: newCategory(category)})
}

// @Summary		Delete category
// @Description	Deletes a category. Fails when transactions or recurrence rules still reference it.
// @Tags			Categories
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		409	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/categories/{id} [delete]
func DeleteCategory(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abortError(c, httputil.ErrInvalidUUID)
		return
	}

	var category models.Category
	err := models.DB.First(&category, "id = ? AND owner_id = ?", uri.ID, owner(c)).Error
	if err != nil {
		abortError(c, err)
		return
	}

	referenced, err := categoryReferenced(category)
	if err != nil {
		abortError(c, err)
		return
	}
	if referenced {
		abortError(c, models.ErrCategoryInUse)
		return
	}

	if err := models.DB.Delete(&category).Error; err != nil {
		abortError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// categoryReferenced reports whether any transaction or recurrence rule of
// the owner still uses the category's name.
func categoryReferenced(category models.Category) (bool, error) {
	var count int64
	err := models.DB.Model(&models.Transaction{}).
		Where("owner_id = ? AND category = ?", category.OwnerID, category.Name).
		Count(&count).Error
	if err != nil || count > 0 {
		return count > 0, err
	}

	err = models.DB.Model(&models.RecurrenceRule{}).
		Where("owner_id = ? AND category = ?", category.OwnerID, category.Name).
		Count(&count).Error

	return count > 0, err
}
