package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/prospera-financas/backend/internal/httputil"
	"github.com/prospera-financas/backend/internal/models"
	"github.com/prospera-financas/backend/internal/types"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", httputil.OptionsGetPost)
		r.GET("", GetTransactions)
		r.POST("", CreateTransaction)
	}

	{
		r.OPTIONS("/summary", httputil.OptionsGet)
		r.GET("/summary", GetSummary)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", httputil.OptionsGetDelete)
		r.GET("/:id", GetTransaction)
		r.DELETE("/:id", DeleteTransaction)
	}
}

// @Summary		Create transaction
// @Description	Creates a new transaction. The category is created on the fly when it does not exist yet. When goalId is set, a contribution against that goal is recorded in the same unit of work: expenses deposit into the goal, incomes withdraw from it.
// @Tags			Transactions
// @Produce		json
// @Success		201			{object}	TransactionResponse
// @Failure		400			{object}	httpError
// @Failure		401			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/transactions [post]
func CreateTransaction(c *gin.Context) {
	var editable TransactionEditable
	if err := httputil.BindData(c, &editable); err != nil {
		abortError(c, err)
		return
	}

	ownerID := owner(c)
	transaction := editable.model(ownerID)

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := models.EnsureCategory(tx, ownerID, editable.Category); err != nil {
			return err
		}

		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}

		if editable.GoalID == nil {
			return nil
		}

		contribution := models.GoalContribution{
			OwnerID:       ownerID,
			GoalID:        *editable.GoalID,
			Date:          transaction.Date,
			Amount:        models.SignedContribution(transaction.Direction, transaction.Amount),
			TransactionID: &transaction.ID,
			Source:        models.SourceTransaction,
		}

		return tx.Create(&contribution).Error
	})
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, TransactionResponse{Data: newTransaction(transaction)})
}

// transactionQuery applies the supported query parameters to a transaction
// query scoped to the owner.
func transactionQuery(c *gin.Context, filter TransactionQueryFilter) (*gorm.DB, error) {
	q := models.DB.Model(&models.Transaction{}).Where("owner_id = ?", owner(c))

	if filter.From != "" {
		from, err := types.ParseDate(filter.From)
		if err != nil {
			return nil, err
		}
		q = q.Where("date >= ?", from)
	}

	if filter.To != "" {
		to, err := types.ParseDate(filter.To)
		if err != nil {
			return nil, err
		}
		q = q.Where("date <= ?", to)
	}

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	if filter.Type != "" {
		direction := models.TransactionDirection(filter.Type)
		if !direction.Valid() {
			return nil, models.ErrTransactionDirectionInvalid
		}
		q = q.Where("direction = ?", direction)
	}

	if !filter.Goal.IsNil() {
		q = q.Where("id IN (?)", models.DB.
			Model(&models.GoalContribution{}).
			Select("transaction_id").
			Where("goal_id = ? AND transaction_id IS NOT NULL", filter.Goal.UUID))
	}

	return q, nil
}

// @Summary		Get transactions
// @Description	Returns the transactions of the authenticated account, newest first
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionListResponse
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			from		query	string	false	"Earliest date to include"
// @Param			to			query	string	false	"Latest date to include"
// @Param			category	query	string	false	"Filter by category name"
// @Param			type		query	string	false	"Filter by direction"
// @Param			goal		query	string	false	"Filter by linked goal ID"
// @Router			/v1/transactions [get]
func GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter
	if err := c.Bind(&filter); err != nil {
		abortError(c, httputil.ErrInvalidQueryString)
		return
	}

	q, err := transactionQuery(c, filter)
	if err != nil {
		abortError(c, err)
		return
	}

	var transactions []models.Transaction
	err = q.Order("date DESC, created_at DESC").Find(&transactions).Error
	if err != nil {
		abortError(c, err)
		return
	}

	data := make([]Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		data = append(data, newTransaction(transaction))
	}

	c.JSON(http.StatusOK, TransactionListResponse{Data: data})
}

// @Summary		Get summary
// @Description	Returns income, expense and balance plus a per-category breakdown for the matching transactions. The figures are always computed from the ledger, never cached.
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	SummaryResponse
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			from	query	string	false	"Earliest date to include"
// @Param			to		query	string	false	"Latest date to include"
// @Router			/v1/transactions/summary [get]
func GetSummary(c *gin.Context) {
	var filter TransactionQueryFilter
	if err := c.Bind(&filter); err != nil {
		abortError(c, httputil.ErrInvalidQueryString)
		return
	}

	q, err := transactionQuery(c, filter)
	if err != nil {
		abortError(c, err)
		return
	}

	var transactions []models.Transaction
	if err := q.Find(&transactions).Error; err != nil {
		abortError(c, err)
		return
	}

	summary := Summary{
		Income:     decimal.Zero,
		Expense:    decimal.Zero,
		Balance:    decimal.Zero,
		Categories: make([]CategorySummary, 0),
	}

	byCategory := make(map[string]int)
	for _, transaction := range transactions {
		i, ok := byCategory[transaction.Category]
		if !ok {
			i = len(summary.Categories)
			byCategory[transaction.Category] = i
			summary.Categories = append(summary.Categories, CategorySummary{
				Category: transaction.Category,
				Income:   decimal.Zero,
				Expense:  decimal.Zero,
			})
		}

		if transaction.Direction == models.DirectionIncome {
			summary.Income = summary.Income.Add(transaction.Amount)
			summary.Categories[i].Income = summary.Categories[i].Income.Add(transaction.Amount)
		} else {
			summary.Expense = summary.Expense.Add(transaction.Amount)
			summary.Categories[i].Expense = summary.Categories[i].Expense.Add(transaction.Amount)
		}
	}
	summary.Balance = summary.Income.Sub(summary.Expense)

	c.JSON(http.StatusOK, SummaryResponse{Data: summary})
}

// @Summary		Get transaction
// @Description	Returns a specific transaction
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/transactions/{id} [get]
func GetTransaction(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abortError(c, httputil.ErrInvalidUUID)
		return
	}

	var transaction models.Transaction
	err := models.DB.First(&transaction, "id = ? AND owner_id = ?", uri.ID, owner(c)).Error
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Data: newTransaction(transaction)})
}

// @Summary		Delete transaction
// @Description	Deletes a transaction together with the goal contributions it produced
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		401	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/transactions/{id} [delete]
func DeleteTransaction(c *gin.Context) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		abortError(c, httputil.ErrInvalidUUID)
		return
	}

	var transaction models.Transaction
	err := models.DB.First(&transaction, "id = ? AND owner_id = ?", uri.ID, owner(c)).Error
	if err != nil {
		abortError(c, err)
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("transaction_id = ?", transaction.ID).Delete(&models.GoalContribution{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&transaction).Error
	})
	if err != nil {
		abortError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
