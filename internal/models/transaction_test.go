package models_test

import (
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospera-financas/backend/internal/models"
	"github.com/prospera-financas/backend/internal/types"
)

func (suite *TestSuiteStandard) TestTransactionValidation() {
	user := suite.createTestUser("transaction-validation@example.com")

	base := models.Transaction{
		OwnerID:     user.ID,
		Date:        types.NewDate(2026, 3, 1),
		Description: "Feira",
		Category:    "Mercado",
		Direction:   models.DirectionExpense,
		Amount:      decimal.NewFromInt(100),
	}

	tests := []struct {
		name   string
		modify func(t *models.Transaction)
		err    error
	}{
		{"bad direction", func(t *models.Transaction) { t.Direction = "transfer" }, models.ErrTransactionDirectionInvalid},
		{"zero amount", func(t *models.Transaction) { t.Amount = decimal.Zero }, models.ErrTransactionAmountNotPositive},
		{"negative amount", func(t *models.Transaction) { t.Amount = decimal.NewFromInt(-5) }, models.ErrTransactionAmountNotPositive},
		{"no date", func(t *models.Transaction) { t.Date = types.Date{} }, models.ErrTransactionFieldsMissing},
		{"no description", func(t *models.Transaction) { t.Description = "  " }, models.ErrTransactionFieldsMissing},
		{"no category", func(t *models.Transaction) { t.Category = "" }, models.ErrTransactionFieldsMissing},
	}

	for _, tt := range tests {
		transaction := base
		tt.modify(&transaction)

		err := models.DB.Create(&transaction).Error
		assert.ErrorIs(suite.T(), err, tt.err, tt.name)
	}

	assert.Nil(suite.T(), models.DB.Create(&base).Error)
}

func (suite *TestSuiteStandard) TestTransactionsSum() {
	user := suite.createTestUser("transaction-sum@example.com")

	sum, err := models.TransactionsSum(models.DB.Where("owner_id = ?", user.ID))
	require.Nil(suite.T(), err)
	assert.True(suite.T(), sum.IsZero(), "the sum of no transactions is zero")

	for _, amount := range []float64{10.50, 20.25} {
		require.Nil(suite.T(), models.DB.Create(&models.Transaction{
			OwnerID:     user.ID,
			Date:        types.NewDate(2026, 3, 1),
			Description: "Sum test",
			Category:    "Mercado",
			Direction:   models.DirectionExpense,
			Amount:      decimal.NewFromFloat(amount),
		}).Error)
	}

	sum, err = models.TransactionsSum(models.DB.Where("owner_id = ?", user.ID))
	require.Nil(suite.T(), err)
	assert.True(suite.T(), sum.Equal(decimal.NewFromFloat(30.75)), "sum is %s, should be 30.75", sum)
}

// Expenses move money into savings, incomes take it back out.
func (suite *TestSuiteStandard) TestSignedContribution() {
	amount := decimal.NewFromInt(250)

	assert.True(suite.T(), models.SignedContribution(models.DirectionExpense, amount).Equal(amount))
	assert.True(suite.T(), models.SignedContribution(models.DirectionIncome, amount).Equal(amount.Neg()))
}

func (suite *TestSuiteStandard) TestContributionValidation() {
	user := suite.createTestUser("contribution-validation@example.com")
	goal := suite.createTestGoal(models.Goal{OwnerID: user.ID, Name: "Contribution validation"})

	err := models.DB.Create(&models.GoalContribution{
		OwnerID: user.ID,
		GoalID:  goal.ID,
		Date:    types.NewDate(2026, 3, 1),
		Amount:  decimal.Zero,
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrContributionAmountZero)

	err = models.DB.Create(&models.GoalContribution{
		OwnerID: user.ID,
		GoalID:  goal.ID,
		Date:    types.NewDate(2026, 3, 1),
		Amount:  decimal.NewFromInt(10),
		Source:  models.SourceRecurrence,
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrContributionTransactionNeeded)
}
