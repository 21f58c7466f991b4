package v1

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/prospera-financas/backend/internal/httputil"
	"github.com/prospera-financas/backend/internal/models"
	"github.com/prospera-financas/backend/internal/recurrence"
	"github.com/prospera-financas/backend/internal/types"
)

// RegisterRecurrenceRoutes registers the routes for recurrence rules with
// the RouterGroup that is passed.
func RegisterRecurrenceRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", GetRecurrences)
		r.POST("", CreateRecurrence)
	}

	// Sweep for the authenticated account
	{
		r.OPTIONS("/run", httputil.OptionsPost)
		r.POST("/run", RunRecurrences)
	}

	// Recurrence rule with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", GetRecurrence)
		r.PATCH("/:id", UpdateRecurrence)
		r.DELETE("/:id", DeleteRecurrence)

		r.OPTIONS("/:id/run", httputil.OptionsPost)
		r.POST("/:id/run", RunRecurrence)
	}
}

// @Summary		Create recurrence rule
// @Description	Creates a new recurrence rule. The first due date is the earliest occurrence on or after today; past start dates do not backfill. The category is created on the fly when it does not exist yet.
// @Tags			Recurrences
// @Produce		json
// @Success		201			{object}	RecurrenceResponse
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			recurrence	body		RecurrenceEditable	true	"Recurrence rule"
// @Router			/v1/recurrences [post]
func CreateRecurrence(c *gin.Context) {
	bodyFields, err := httputil.GetBodyFields(c, RecurrenceEditable{})
	if err != nil {
		abortError(c, err)
		return
	}

	var editable RecurrenceEditable
	if err := httputil.BindData(c, &editable); err != nil {
		abortError(c, err)
		return
	}

	// Rules start active and fire monthly unless the client says otherwise.
	if !slices.Contains(bodyFields, "Active") {
		editable.Active = true
	}
	if !slices.Contains(bodyFields, "Interval") {
		editable.Interval = 1
	}

	ownerID := owner(c)
	rule := editable.model(ownerID)
	rule.NextDue = recurrence.ComputeInitialNextDue(rule.StartDate, rule.Cadence, rule.Interval, rule.EndDate, types.Today())

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := models.EnsureCategory(tx, ownerID, editable.Category); err != nil {
			return err
		}

		return tx.Create(&rule).Error
	})
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, RecurrenceResponse{Data: newRecurrence(rule)})
}

// @Summary		Get recurrence rules
// @Description	Returns the recurrence rules of the authenticated account
// @Tags			Recurrences
// @Produce		json
// @Success		200	{object}	RecurrenceListResponse
// @Failure		401	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			cadence	query	string	false	"Filter by cadence"
// @Param			active	query	bool	false	"Is the rule active?"
// @Router			/v1/recurrences [get]
func GetRecurrences(c *gin.Context) {
	var filter RecurrenceQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	queryFields, _ := httputil.GetURLFields(c.Request.URL, filter)
	filterModel := filter.model()

	var rules []models.RecurrenceRule
	err := models.DB.
		Where("owner_id = ?", owner(c)).
		Where(&filterModel, queryFields...).
		Order("next_due ASC, description ASC").
		Find(&rules).Error
	if err != nil {
		abortError(c, err)
		return
	}

	data := make([]Recurrence, 0, len(rules))
	for _, rule := range rules {
		data = append(data, newRecurrence(rule))
	}

	c.JSON(http.StatusOK, RecurrenceListResponse{Data: data})
}

// @Summary		Get recurrence rule
// @Description	Returns a specific recurrence rule
// @Tags			Recurrences
// @Produce		json
// @Success		200	{object}	RecurrenceResponse
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/recurrences/{id} [get]
func GetRecurrence(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abortError(c, httputil.ErrInvalidUUID)
		return
	}

	var rule models.RecurrenceRule
	err := models.DB.First(&rule, "id = ? AND owner_id = ?", uri.ID, owner(c)).Error
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, RecurrenceResponse{Data: newRecurrence(rule)})
}

// @Summary		Update recurrence rule
// @Description	Updates an existing recurrence rule. Changing cadence, interval, start or end date recomputes the next due date from scratch.
// @Tags			Recurrences
// @Produce		json
// @Success		200			{object}	RecurrenceResponse
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			id			path		URIID				true	"ID formatted as string"
// @Param			recurrence	body		RecurrenceEditable	true	"Recurrence rule"
// @Router			/v1/recurrences/{id} [patch]
func UpdateRecurrence(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abortError(c, httputil.ErrInvalidUUID)
		return
	}

	ownerID := owner(c)

	var rule models.RecurrenceRule
	err := models.DB.First(&rule, "id = ? AND owner_id = ?", uri.ID, ownerID).Error
	if err != nil {
		abortError(c, err)
		return
	}

	bodyFields, err := httputil.GetBodyFields(c, RecurrenceEditable{})
	if err != nil {
		abortError(c, err)
		return
	}

	var editable RecurrenceEditable
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
		case "Description":
			rule.Description = editable.Description
		case "Category":
			rule.Category = editable.Category
		case "Direction":
			rule.Direction = editable.Direction
		case "Amount":
			rule.Amount = editable.Amount
		case "Cadence":
			rule.Cadence = editable.Cadence
		case "Interval":
			rule.Interval = editable.Interval
		case "StartDate":
			rule.StartDate = editable.StartDate
		case "EndDate":
			rule.EndDate = editable.EndDate
		case "Active":
			rule.Active = editable.Active
		case "GoalID":
			rule.GoalID = editable.GoalID
		}
	}

	// A changed schedule invalidates the cached cursor.
	if slices.Contains(bodyFields, "Cadence") ||
		slices.Contains(bodyFields, "Interval") ||
		slices.Contains(bodyFields, "StartDate") ||
		slices.Contains(bodyFields, "EndDate") {
		rule.NextDue = recurrence.ComputeInitialNextDue(rule.StartDate, rule.Cadence, rule.Interval, rule.EndDate, types.Today())
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if slices.Contains(bodyFields, "Category") {
			if err := models.EnsureCategory(tx, ownerID, rule.Category); err != nil {
				return err
			}
		}

		return tx.Save(&rule).Error
	})
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, RecurrenceResponse{Data: newRecurrence(rule)})
}

// @Summary		Delete recurrence rule
// @Description	Deletes a recurrence rule. Transactions it already generated stay in the ledger.
// @Tags			Recurrences
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/recurrences/{id} [delete]
func DeleteRecurrence(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abortError(c, httputil.ErrInvalidUUID)
		return
	}

	var rule models.RecurrenceRule
	err := models.DB.First(&rule, "id = ? AND owner_id = ?", uri.ID, owner(c)).Error
	if err != nil {
		abortError(c, err)
		return
	}

	if err := models.DB.Delete(&rule).Error; err != nil {
		abortError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Run due recurrence rules
// @Description	Catches up every due recurrence rule of the authenticated account immediately instead of waiting for the periodic sweep
// @Tags			Recurrences
// @Produce		json
// @Success		200	{object}	RunResponse
// @Failure		401	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/recurrences/run [post]
func RunRecurrences(c *gin.Context) {
	result, err := recurrence.NewEngine(models.DB).ProcessOwner(owner(c), types.Today())
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, RunResponse{Data: result})
}

// @Summary		Run recurrence rule
// @Description	Catches up a single recurrence rule. With force=true an occurrence is posted for today even when the rule is not due yet, skipped when an identical transaction already exists for today.
// @Tags			Recurrences
// @Produce		json
// @Success		200		{object}	RunResponse
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		409		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID	true	"ID formatted as string"
// @Param			force	query		bool	false	"Post an occurrence for today even when not due"
// @Router			/v1/recurrences/{id}/run [post]
func RunRecurrence(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abortError(c, httputil.ErrInvalidUUID)
		return
	}

	engine := recurrence.NewEngine(models.DB)
	today := types.Today()

	var result recurrence.RunResult
	var err error
	if c.Query("force") == "true" {
		result, err = engine.RunForced(uri.ID.UUID, owner(c), today)
	} else {
		result, err = engine.ProcessRule(uri.ID.UUID, owner(c), today)
	}
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, RunResponse{Data: result})
}
