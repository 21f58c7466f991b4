package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prospera-financas/backend/internal/httputil"
	"github.com/prospera-financas/backend/internal/models"
	"github.com/prospera-financas/backend/internal/types"
)

// RegisterLimitRoutes registers the routes for spending limits with
// the RouterGroup that is passed.
func RegisterLimitRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", GetLimits)
		r.POST("", CreateLimit)
	}

	// Limit with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", GetLimit)
		r.PATCH("/:id", UpdateLimit)
		r.DELETE("/:id", DeleteLimit)
	}
}

// respondLimit projects the limit and answers the request with it.
func respondLimit(c *gin.Context, limit models.Limit, code int) {
	spent, err := limit.Spent(models.DB)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(code, LimitResponse{Data: newLimit(limit, limit.Project(spent, types.Today()))})
}

// @Summary		Create limit
// @Description	Creates a new spending limit. The window end date is derived from the start date and period code and stays fixed afterwards.
// @Tags			Limits
// @Produce		json
// @Success		201		{object}	LimitResponse
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			limit	body		LimitEditable	true	"Limit"
// @Router			/v1/limits [post]
func CreateLimit(c *gin.Context) {
	var editable LimitEditable
	if err := httputil.BindData(c, &editable); err != nil {
		abortError(c, err)
		return
	}

	limit := editable.model(owner(c))
	if limit.StartDate.IsZero() {
		limit.StartDate = types.Today()
	}

	if err := models.DB.Create(&limit).Error; err != nil {
		abortError(c, err)
		return
	}

	respondLimit(c, limit, http.StatusCreated)
}

// @Summary		Get limits
// @Description	Returns the limits of the authenticated account with their spent amount, remaining amount, completion percentage, phase and days left. The spent amount is always computed from the matching expense transactions, never cached.
// @Tags			Limits
// @Produce		json
// @Success		200	{object}	LimitListResponse
// @Failure		401	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/limits [get]
func GetLimits(c *gin.Context) {
	var limits []models.Limit
	err := models.DB.
		Where("owner_id = ?", owner(c)).
		Order("start_date DESC, title ASC").
		Find(&limits).Error
	if err != nil {
		abortError(c, err)
		return
	}

	today := types.Today()
	data := make([]Limit, 0, len(limits))
	for _, limit := range limits {
		spent, err := limit.Spent(models.DB)
		if err != nil {
			abortError(c, err)
			return
		}
		data = append(data, newLimit(limit, limit.Project(spent, today)))
	}

	c.JSON(http.StatusOK, LimitListResponse{Data: data})
}

// @Summary		Get limit
// @Description	Returns a specific limit
// @Tags			Limits
// @Produce		json
// @Success		200	{object}	LimitResponse
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/limits/{id} [get]
func GetLimit(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abortError(c, httputil.ErrInvalidUUID)
		return
	}

	var limit models.Limit
	err := models.DB.First(&limit, "id = ? AND owner_id = ?", uri.ID, owner(c)).Error
	if err != nil {
		abortError(c, err)
		return
	}

	respondLimit(c, limit, http.StatusOK)
}

// @Summary		Update limit
// @Description	Updates an existing limit. Changing the start date or period code derives a new window end date.
// @Tags			Limits
// @Produce		json
// @Success		200		{object}	LimitResponse
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID			true	"ID formatted as string"
// @Param			limit	body		LimitEditable	true	"Limit"
// @Router			/v1/limits/{id} [patch]
func UpdateLimit(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abortError(c, httputil.ErrInvalidUUID)
		return
	}

	var limit models.Limit
	err := models.DB.First(&limit, "id = ? AND owner_id = ?", uri.ID, owner(c)).Error
	if err != nil {
		abortError(c, err)
		return
	}

	bodyFields, err := httputil.GetBodyFields(c, LimitEditable{})
	if err != nil {
		abortError(c, err)
		return
	}

	var editable LimitEditable
	if err := httputil.BindData(c, &editable); err != nil {
		abortError(c, err)
		return
	}

	if len(bodyFields) == 0 {
		abortError(c, errNothingToUpdate)
		return
	}

	for _, field := range bodyFields {
		switch field {
		case "Title":
			limit.Title = editable.Title
		case "StartDate":
			limit.StartDate = editable.StartDate
		case "PeriodCode":
			limit.PeriodCode = editable.PeriodCode
		case "Amount":
			limit.Amount = editable.Amount
		case "Status":
			limit.Status = editable.Status
		}
	}

	// BeforeSave re-derives the end date from start date and period code.
	if err := models.DB.Save(&limit).Error; err != nil {
		abortError(c, err)
		return
	}

	respondLimit(c, limit, http.StatusOK)
}

// @Summary		Delete limit
// @Description	Deletes a limit. Transactions are not affected.
// @Tags			Limits
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/limits/{id} [delete]
func DeleteLimit(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abortError(c, httputil.ErrInvalidUUID)
		return
	}

	var limit models.Limit
	err := models.DB.First(&limit, "id = ? AND owner_id = ?", uri.ID, owner(c)).Error
	if err != nil {
		abortError(c, err)
		return
	}

	if err := models.DB.Delete(&limit).Error; err != nil {
		abortError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
