package models_test

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospera-financas/backend/internal/models"
)

func (suite *TestSuiteStandard) TestParseColor() {
	tests := []struct {
		input string
		want  string
	}{
		{"#A1B2C3", "#A1B2C3"},
		{"azul", "#3b82f6"},
		{"  Vermelho ", "#ef4444"},
		{"Verde Água", "#14b8a6"},
		{"ROXO", "#a855f7"},
	}

	for _, tt := range tests {
		color, err := models.ParseColor(tt.input, "Mercado")
		require.Nil(suite.T(), err)
		assert.Equal(suite.T(), tt.want, color, "input %q", tt.input)
	}

	_, err := models.ParseColor("chartreuse", "Mercado")
	assert.NotNil(suite.T(), err, "unknown color names are rejected")
}

// An empty color input picks a palette color from the name, the same name
// always gets the same color.
func (suite *TestSuiteStandard) TestParseColorAutomatic() {
	first, err := models.ParseColor("", "Mercado")
	require.Nil(suite.T(), err)
	require.NotEmpty(suite.T(), first)

	second, err := models.ParseColor("", "Mercado")
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), first, second)
}

func (suite *TestSuiteStandard) TestCategoryNameUnique() {
	user := suite.createTestUser("category-unique@example.com")
	other := suite.createTestUser("category-unique-other@example.com")

	require.Nil(suite.T(), models.DB.Create(&models.Category{OwnerID: user.ID, Name: "Mercado"}).Error)

	err := models.DB.Create(&models.Category{OwnerID: user.ID, Name: "Mercado"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrCategoryNameNotUnique)

	// The name is only unique per owner
	assert.Nil(suite.T(), models.DB.Create(&models.Category{OwnerID: other.ID, Name: "Mercado"}).Error)
}

func (suite *TestSuiteStandard) TestCategoryNameRequired() {
	user := suite.createTestUser("category-name@example.com")

	err := models.DB.Create(&models.Category{OwnerID: user.ID, Name: "   "}).Error
	assert.ErrorIs(suite.T(), err, models.ErrCategoryNameRequired)
}

func (suite *TestSuiteStandard) TestEnsureCategory() {
	user := suite.createTestUser("category-ensure@example.com")

	require.Nil(suite.T(), models.EnsureCategory(models.DB, user.ID, "Metas"))
	require.Nil(suite.T(), models.EnsureCategory(models.DB, user.ID, "Metas"))

	var count int64
	models.DB.Model(&models.Category{}).Where("owner_id = ? AND name = ?", user.ID, "Metas").Count(&count)
	assert.Equal(suite.T(), int64(1), count, "EnsureCategory is idempotent")

	var category models.Category
	require.Nil(suite.T(), models.DB.First(&category, "owner_id = ? AND name = ?", user.ID, "Metas").Error)
	assert.NotEmpty(suite.T(), category.Color, "auto-created categories get a color")
}
