package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/prospera-financas/backend/internal/httputil"
	"github.com/prospera-financas/backend/internal/models"
	"github.com/prospera-financas/backend/internal/types"
)

// RegisterGoalRoutes registers the routes for goals with
// the RouterGroup that is passed.
func RegisterGoalRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", GetGoals)
		r.POST("", CreateGoal)
	}

	// Goal with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetPatchDelete)
		r.GET("/:id", GetGoal)
		r.PATCH("/:id", UpdateGoal)
		r.DELETE("/:id", DeleteGoal)
	}

	// Contributions of a goal
	{
		r.OPTIONS("/:id/contributions", httputil.OptionsGetPost)
		r.GET("/:id/contributions", GetContributions)
		r.POST("/:id/contributions", CreateContribution)

		r.OPTIONS("/:id/contributions/:cid", httputil.OptionsDelete)
		r.DELETE("/:id/contributions/:cid", DeleteContribution)
	}
}

// getGoal loads a goal scoped to the authenticated account.
func getGoal(c *gin.Context, id any) (models.Goal, bool) {
	var goal models.Goal
	err := models.DB.First(&goal, "id = ? AND owner_id = ?", id, owner(c)).Error
	if err != nil {
		abortError(c, err)
		return models.Goal{}, false
	}

	return goal, true
}

// respondGoal projects the goal and answers the request with it.
func respondGoal(c *gin.Context, goal models.Goal, code int) {
	saved, err := goal.Saved(models.DB)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(code, GoalResponse{Data: newGoal(goal, goal.Project(saved, types.Today()))})
}

// @Summary		Create goal
// @Description	Creates a new savings goal
// @Tags			Goals
// @Produce		json
// @Success		201		{object}	GoalResponse
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			goal	body		GoalEditable	true	"Goal"
// @Router			/v1/goals [post]
func CreateGoal(c *gin.Context) {
	var editable GoalEditable
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

	goal := editable.model(owner(c))
	if goal.StartDate.IsZero() {
		goal.StartDate = types.Today()
	}

	if err := models.DB.Create(&goal).Error; err != nil {
		abortError(c, err)
		return
	}

	respondGoal(c, goal, http.StatusCreated)
}

// @Summary		Get goals
// @Description	Returns the goals of the authenticated account with their saved amount, missing amount, completion percentage and suggested monthly contribution. These figures are always computed from the contributions, never cached.
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	GoalListResponse
// @Failure		401	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/goals [get]
func GetGoals(c *gin.Context) {
	var goals []models.Goal
	err := models.DB.
		Where("owner_id = ?", owner(c)).
		Order("name ASC").
		Find(&goals).Error
	if err != nil {
		abortError(c, err)
		return
	}

	today := types.Today()
	data := make([]Goal, 0, len(goals))
	for _, goal := range goals {
		saved, err := goal.Saved(models.DB)
		if err != nil {
			abortError(c, err)
			return
		}
		data = append(data, newGoal(goal, goal.Project(saved, today)))
	}

	c.JSON(http.StatusOK, GoalListResponse{Data: data})
}

// @Summary		Get goal
// @Description	Returns a specific goal
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	GoalResponse
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/goals/{id} [get]
func GetGoal(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abortError(c, httputil.ErrInvalidUUID)
		return
	}

	goal, ok := getGoal(c, uri.ID)
	if !ok {
		return
	}

	respondGoal(c, goal, http.StatusOK)
}

// @Summary		Update goal
// @Description	Updates an existing goal
// @Tags			Goals
// @Produce		json
// @Success		200		{object}	GoalResponse
// @Failure		400		{object}	httpError
// @Failure		401		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		URIID			true	"ID formatted as string"
// @Param			goal	body		GoalEditable	true	"Goal"
// @Router			/v1/goals/{id} [patch]
func UpdateGoal(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abortError(c, httputil.ErrInvalidUUID)
		return
	}

	goal, ok := getGoal(c, uri.ID)
	if !ok {
		return
	}

	bodyFields, err := httputil.GetBodyFields(c, GoalEditable{})
	if err != nil {
		abortError(c, err)
		return
	}

	var editable GoalEditable
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
		case "Name":
			goal.Name = editable.Name
		case "TargetAmount":
			goal.TargetAmount = editable.TargetAmount
		case "Color":
			color, err := models.ParseColor(editable.Color, goal.Name)
			if err != nil {
				abortError(c, err)
				return
			}
			goal.Color = color
		case "StartDate":
			goal.StartDate = editable.StartDate
		case "TargetDate":
			goal.TargetDate = editable.TargetDate
		case "Status":
			goal.Status = editable.Status
		case "Note":
			goal.Note = editable.Note
		}
	}

	if err := models.DB.Save(&goal).Error; err != nil {
		abortError(c, err)
		return
	}

	respondGoal(c, goal, http.StatusOK)
}

// @Summary		Delete goal
// @Description	Deletes a goal together with all its contributions and the transactions those contributions produced
// @Tags			Goals
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/goals/{id} [delete]
func DeleteGoal(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abortError(c, httputil.ErrInvalidUUID)
		return
	}

	goal, ok := getGoal(c, uri.ID)
	if !ok {
		return
	}

	if err := goal.DeleteCascading(models.DB); err != nil {
		abortError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary		Get contributions
// @Description	Returns the contributions of a goal, newest first
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	ContributionListResponse
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/goals/{id}/contributions [get]
func GetContributions(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abortError(c, httputil.ErrInvalidUUID)
		return
	}

	goal, ok := getGoal(c, uri.ID)
	if !ok {
		return
	}

	var contributions []models.GoalContribution
	err := models.DB.
		Where("goal_id = ?", goal.ID).
		Order("date DESC, created_at DESC").
		Find(&contributions).Error
	if err != nil {
		abortError(c, err)
		return
	}

	data := make([]Contribution, 0, len(contributions))
	for _, contribution := range contributions {
		data = append(data, newContribution(contribution))
	}

	c.JSON(http.StatusOK, ContributionListResponse{Data: data})
}

// @Summary		Create contribution
// @Description	Records a contribution against a goal. Positive amounts deposit, negative amounts withdraw. With createTransaction=true a matching ledger transaction is posted under the "Metas" category in the same unit of work.
// @Tags			Goals
// @Produce		json
// @Success		201				{object}	ContributionResponse
// @Failure		400				{object}	httpError
// @Failure		401				{object}	httpError
// @Failure		404				{object}	httpError
// @Failure		500				{object}	httpError
// @Param			id				path		URIID					true	"ID formatted as string"
// @Param			contribution	body		ContributionEditable	true	"Contribution"
// @Router			/v1/goals/{id}/contributions [post]
func CreateContribution(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abortError(c, httputil.ErrInvalidUUID)
		return
	}

	goal, ok := getGoal(c, uri.ID)
	if !ok {
		return
	}

	var editable ContributionEditable
	if err := httputil.BindData(c, &editable); err != nil {
		abortError(c, err)
		return
	}

	if editable.Date.IsZero() {
		editable.Date = types.Today()
	}

	contribution := models.GoalContribution{
		OwnerID: goal.OwnerID,
		GoalID:  goal.ID,
		Date:    editable.Date,
		Amount:  editable.Amount,
		Note:    editable.Note,
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if editable.CreateTransaction {
			transaction, err := contributionTransaction(tx, goal, editable)
			if err != nil {
				return err
			}
			contribution.TransactionID = &transaction.ID
			contribution.Source = models.SourceTransaction
		}

		return tx.Create(&contribution).Error
	})
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ContributionResponse{Data: newContribution(contribution)})
}

// contributionTransaction posts the ledger side of a contribution: deposits
// become expenses, withdrawals become incomes, both under the "Metas"
// category which is created on the fly.
func contributionTransaction(tx *gorm.DB, goal models.Goal, editable ContributionEditable) (models.Transaction, error) {
	direction := models.DirectionExpense
	description := fmt.Sprintf("Aporte: %s", goal.Name)
	if editable.Amount.IsNegative() {
		direction = models.DirectionIncome
		description = fmt.Sprintf("Resgate: %s", goal.Name)
	}

	if err := models.EnsureCategory(tx, goal.OwnerID, models.GoalCategoryName); err != nil {
		return models.Transaction{}, err
	}

	transaction := models.Transaction{
		OwnerID:     goal.OwnerID,
		Date:        editable.Date,
		Description: description,
		Category:    models.GoalCategoryName,
		Direction:   direction,
		Amount:      editable.Amount.Abs(),
	}

	err := tx.Create(&transaction).Error
	return transaction, err
}

// @Summary		Delete contribution
// @Description	Deletes a contribution. With deleteTransaction=true the ledger transaction that produced it is removed as well.
// @Tags			Goals
// @Success		204
// @Failure		400					{object}	httpError
// @Failure		401					{object}	httpError
// @Failure		404					{object}	httpError
// @Failure		500					{object}	httpError
// @Param			id					path	URIContribution	true	"IDs formatted as string"
// @Param			deleteTransaction	query	bool			false	"Also delete the linked transaction"
// @Router			/v1/goals/{id}/contributions/{cid} [delete]
func DeleteContribution(c *gin.Context) {
	var uri URIContribution
	if err := c.ShouldBindUri(&uri); err != nil {
		abortError(c, httputil.ErrInvalidUUID)
		return
	}

	goal, ok := getGoal(c, uri.ID)
	if !ok {
		return
	}

	var contribution models.GoalContribution
	err := models.DB.First(&contribution, "id = ? AND goal_id = ?", uri.ContributionID, goal.ID).Error
	if err != nil {
		abortError(c, err)
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&contribution).Error; err != nil {
			return err
		}

		if c.Query("deleteTransaction") == "true" && contribution.TransactionID != nil {
			return tx.Delete(&models.Transaction{}, "id = ?", *contribution.TransactionID).Error
		}

		return nil
	})
	if err != nil {
		abortError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
