package models_test

import (
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospera-financas/backend/internal/models"
	"github.com/prospera-financas/backend/internal/types"
)

func (suite *TestSuiteStandard) createTestGoal(goal models.Goal) models.Goal {
	if goal.TargetAmount.IsZero() {
		goal.TargetAmount = decimal.NewFromInt(1000)
	}
	if goal.Name == "" {
		goal.Name = "Test Goal"
	}

	err := models.DB.Create(&goal).Error
	if err != nil {
		suite.Assert().FailNow("goal could not be created", err)
	}

	return goal
}

func (suite *TestSuiteStandard) TestGoalValidation() {
	user := suite.createTestUser("goal-validation@example.com")

	err := models.DB.Create(&models.Goal{OwnerID: user.ID, Name: "  ", TargetAmount: decimal.NewFromInt(10)}).Error
	assert.ErrorIs(suite.T(), err, models.ErrGoalNameRequired)

	err = models.DB.Create(&models.Goal{OwnerID: user.ID, Name: "Car", TargetAmount: decimal.NewFromInt(-1)}).Error
	assert.ErrorIs(suite.T(), err, models.ErrGoalTargetNotPositive)

	err = models.DB.Create(&models.Goal{OwnerID: user.ID, Name: "Car", TargetAmount: decimal.NewFromInt(1), Status: "done"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrGoalStatusInvalid)
}

func (suite *TestSuiteStandard) TestGoalDefaults() {
	user := suite.createTestUser("goal-defaults@example.com")
	goal := suite.createTestGoal(models.Goal{OwnerID: user.ID, Name: "Viagem"})

	assert.Equal(suite.T(), models.GoalActive, goal.Status)
	assert.NotEmpty(suite.T(), goal.Color, "a color must be picked automatically")
}

// The saved amount is the signed sum of the contributions and is never
// persisted on the goal itself.
func (suite *TestSuiteStandard) TestGoalSaved() {
	user := suite.createTestUser("goal-saved@example.com")
	goal := suite.createTestGoal(models.Goal{OwnerID: user.ID})

	saved, err := goal.Saved(models.DB)
	require.Nil(suite.T(), err)
	assert.True(suite.T(), saved.IsZero(), "a goal without contributions has saved zero")

	for _, amount := range []int64{300, 200, -100} {
		err = models.DB.Create(&models.GoalContribution{
			OwnerID: user.ID,
			GoalID:  goal.ID,
			Date:    types.NewDate(2026, 3, 1),
			Amount:  decimal.NewFromInt(amount),
		}).Error
		require.Nil(suite.T(), err)
	}

	saved, err = goal.Saved(models.DB)
	require.Nil(suite.T(), err)
	assert.True(suite.T(), saved.Equal(decimal.NewFromInt(400)), "saved is %s, should be 400", saved)
}

func (suite *TestSuiteStandard) TestGoalProjection() {
	targetDate := types.NewDate(2026, 8, 15)
	goal := models.Goal{
		Name:         "Reserva",
		TargetAmount: decimal.NewFromInt(1000),
		TargetDate:   &targetDate,
	}

	today := types.NewDate(2026, 3, 15)
	projection := goal.Project(decimal.NewFromInt(500), today)

	assert.True(suite.T(), projection.Missing.Equal(decimal.NewFromInt(500)))
	assert.Equal(suite.T(), 50, projection.Percent)
	require.NotNil(suite.T(), projection.SuggestedMonthly)
	assert.True(suite.T(), projection.SuggestedMonthly.Equal(decimal.NewFromInt(100)),
		"suggested monthly is %s, should be 100 (500 over 5 months)", projection.SuggestedMonthly)
}

func (suite *TestSuiteStandard) TestGoalProjectionNoTargetDate() {
	goal := models.Goal{Name: "Reserva", TargetAmount: decimal.NewFromInt(1000)}

	projection := goal.Project(decimal.NewFromInt(100), types.NewDate(2026, 3, 15))
	assert.Nil(suite.T(), projection.SuggestedMonthly, "goals without a target date have no suggested contribution")
}

func (suite *TestSuiteStandard) TestGoalProjectionOverfunded() {
	targetDate := types.NewDate(2026, 8, 15)
	goal := models.Goal{
		Name:         "Reserva",
		TargetAmount: decimal.NewFromInt(1000),
		TargetDate:   &targetDate,
	}

	projection := goal.Project(decimal.NewFromInt(1200), types.NewDate(2026, 3, 15))

	assert.True(suite.T(), projection.Missing.IsZero(), "missing clamps to zero")
	assert.Equal(suite.T(), 100, projection.Percent, "percent clamps to 100")
	require.NotNil(suite.T(), projection.SuggestedMonthly)
	assert.True(suite.T(), projection.SuggestedMonthly.IsZero(), "nothing left to contribute")
}

// The suggested contribution must divide by at least one month even when the
// target date has passed.
func (suite *TestSuiteStandard) TestGoalProjectionTargetDatePassed() {
	targetDate := types.NewDate(2026, 1, 15)
	goal := models.Goal{
		Name:         "Reserva",
		TargetAmount: decimal.NewFromInt(1000),
		TargetDate:   &targetDate,
	}

	projection := goal.Project(decimal.NewFromInt(400), types.NewDate(2026, 3, 15))

	require.NotNil(suite.T(), projection.SuggestedMonthly)
	assert.True(suite.T(), projection.SuggestedMonthly.Equal(decimal.NewFromInt(600)),
		"suggested monthly is %s, should be the whole missing amount", projection.SuggestedMonthly)
}

func (suite *TestSuiteStandard) TestGoalDeleteCascading() {
	user := suite.createTestUser("goal-cascade@example.com")
	goal := suite.createTestGoal(models.Goal{OwnerID: user.ID})

	// A transaction linked to the goal via a contribution
	linked := models.Transaction{
		OwnerID:     user.ID,
		Date:        types.NewDate(2026, 3, 1),
		Description: "Aporte: Test Goal",
		Category:    models.GoalCategoryName,
		Direction:   models.DirectionExpense,
		Amount:      decimal.NewFromInt(250),
	}
	require.Nil(suite.T(), models.DB.Create(&linked).Error)

	require.Nil(suite.T(), models.DB.Create(&models.GoalContribution{
		OwnerID:       user.ID,
		GoalID:        goal.ID,
		Date:          linked.Date,
		Amount:        decimal.NewFromInt(250),
		TransactionID: &linked.ID,
		Source:        models.SourceTransaction,
	}).Error)

	// A manual contribution without a ledger side
	require.Nil(suite.T(), models.DB.Create(&models.GoalContribution{
		OwnerID: user.ID,
		GoalID:  goal.ID,
		Date:    types.NewDate(2026, 3, 2),
		Amount:  decimal.NewFromInt(50),
	}).Error)

	// An unrelated transaction that must survive
	unrelated := models.Transaction{
		OwnerID:     user.ID,
		Date:        types.NewDate(2026, 3, 3),
		Description: "Feira",
		Category:    "Mercado",
		Direction:   models.DirectionExpense,
		Amount:      decimal.NewFromInt(80),
	}
	require.Nil(suite.T(), models.DB.Create(&unrelated).Error)

	require.Nil(suite.T(), goal.DeleteCascading(models.DB))

	var count int64
	models.DB.Model(&models.Goal{}).Where("id = ?", goal.ID).Count(&count)
	assert.Equal(suite.T(), int64(0), count, "the goal must be deleted")

	models.DB.Model(&models.GoalContribution{}).Where("goal_id = ?", goal.ID).Count(&count)
	assert.Equal(suite.T(), int64(0), count, "all contributions must be deleted")

	models.DB.Model(&models.Transaction{}).Where("id = ?", linked.ID).Count(&count)
	assert.Equal(suite.T(), int64(0), count, "the linked transaction must be deleted")

	models.DB.Model(&models.Transaction{}).Where("id = ?", unrelated.ID).Count(&count)
	assert.Equal(suite.T(), int64(1), count, "unrelated transactions must survive")
}
