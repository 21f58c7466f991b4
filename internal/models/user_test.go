package models_test

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospera-financas/backend/internal/models"
)

func (suite *TestSuiteStandard) TestUserPassword() {
	var user models.User

	assert.ErrorIs(suite.T(), user.SetPassword("short"), models.ErrPasswordTooShort)

	require.Nil(suite.T(), user.SetPassword("hunter22"))
	assert.True(suite.T(), user.CheckPassword("hunter22"))
	assert.False(suite.T(), user.CheckPassword("hunter23"))
}

// Emails are stored trimmed and lowercased so that logins are
// case-insensitive.
func (suite *TestSuiteStandard) TestUserEmailNormalized() {
	user := models.User{Name: "Maria", Email: "  Maria@Example.COM "}
	require.Nil(suite.T(), user.SetPassword("hunter22"))
	require.Nil(suite.T(), models.DB.Create(&user).Error)

	assert.Equal(suite.T(), "maria@example.com", user.Email)
}

func (suite *TestSuiteStandard) TestUserEmailUnique() {
	first := suite.createTestUser("unique@example.com")
	require.NotEmpty(suite.T(), first.ID)

	duplicate := models.User{Name: "Other", Email: "unique@example.com"}
	require.Nil(suite.T(), duplicate.SetPassword("hunter22"))

	err := models.DB.Create(&duplicate).Error
	assert.ErrorIs(suite.T(), err, models.ErrEmailNotUnique)
}
