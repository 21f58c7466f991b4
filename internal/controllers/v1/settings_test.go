package v1_test

import (
	"net/http"

	"github.com/stretchr/testify/assert"

	v1 "github.com/prospera-financas/backend/internal/controllers/v1"
	"github.com/prospera-financas/backend/test"
)

func (suite *TestSuiteStandard) TestGetMe() {
	headers := suite.session("me@example.com")

	var me v1.UserResponse
	recorder := test.Request(suite.T(), http.MethodGet, "/v1/settings/me", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &me)

	assert.Equal(suite.T(), "me@example.com", me.Data.Email)
	assert.Equal(suite.T(), "Test", me.Data.Name)
}

func (suite *TestSuiteStandard) TestUpdateMe() {
	headers := suite.session("update-me@example.com")

	var me v1.UserResponse
	recorder := test.Request(suite.T(), http.MethodPut, "/v1/settings/me", map[string]string{"name": "Maria S."}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &me)
	assert.Equal(suite.T(), "Maria S.", me.Data.Name)

	recorder = test.Request(suite.T(), http.MethodPut, "/v1/settings/me", map[string]string{"name": "  "}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestChangePassword() {
	headers := suite.session("change-password@example.com")

	recorder := test.Request(suite.T(), http.MethodPost, "/v1/settings/change-password", map[string]string{
		"currentPassword": "wrong",
		"newPassword":     "new-password",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	recorder = test.Request(suite.T(), http.MethodPost, "/v1/settings/change-password", map[string]string{
		"currentPassword": "hunter22",
		"newPassword":     "short",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	recorder = test.Request(suite.T(), http.MethodPost, "/v1/settings/change-password", map[string]string{
		"currentPassword": "hunter22",
		"newPassword":     "new-password",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	// The old password stops working
	recorder = test.Request(suite.T(), http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    "change-password@example.com",
		"password": "hunter22",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusUnauthorized)

	recorder = test.Request(suite.T(), http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    "change-password@example.com",
		"password": "new-password",
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
}
