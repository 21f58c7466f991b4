package v1_test

import (
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	v1 "github.com/prospera-financas/backend/internal/controllers/v1"
	"github.com/prospera-financas/backend/internal/types"
	"github.com/prospera-financas/backend/test"
)

func (suite *TestSuiteStandard) TestLimitCreate() {
	headers := suite.session("limit-create@example.com")

	limit := create[v1.Limit](suite, "/v1/limits", map[string]any{
		"title":      "Mercado em março",
		"startDate":  "2026-03-10",
		"periodCode": "1m",
		"amount":     "800",
	}, headers)

	assert.True(suite.T(), limit.EndDate.Equal(types.NewDate(2026, 4, 9)), "end date is %s, should be derived from the period", limit.EndDate)
	assert.Equal(suite.T(), "active", string(limit.Status))
	assert.True(suite.T(), limit.Spent.IsZero())
	assert.True(suite.T(), limit.Remaining.Equal(decimal.NewFromInt(800)))

	recorder := test.Request(suite.T(), http.MethodPost, "/v1/limits", map[string]any{
		"title":      "Inválido",
		"startDate":  "2026-03-10",
		"periodCode": "3d",
		"amount":     "800",
	}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

// The consumed amount tracks the ledger: posting and deleting transactions
// both show up on the next read.
func (suite *TestSuiteStandard) TestLimitSpentRecomputed() {
	headers := suite.session("limit-spent@example.com")

	today := types.Today()
	limit := create[v1.Limit](suite, "/v1/limits", map[string]any{
		"title":      "Mercado",
		"startDate":  date(today),
		"periodCode": "1w",
		"amount":     "500",
	}, headers)

	transaction := create[v1.Transaction](suite, "/v1/transactions", map[string]any{
		"date":        date(today),
		"description": "Feira",
		"category":    "Mercado",
		"direction":   "expense",
		"amount":      "120",
	}, headers)

	// An income inside the window never counts
	_ = create[v1.Transaction](suite, "/v1/transactions", map[string]any{
		"date":        date(today),
		"description": "Salário",
		"category":    "Renda",
		"direction":   "income",
		"amount":      "5000",
	}, headers)

	var got v1.LimitResponse
	recorder := test.Request(suite.T(), http.MethodGet, idURL("/v1/limits", limit.ID), "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &got)
	assert.True(suite.T(), got.Data.Spent.Equal(decimal.NewFromInt(120)))
	assert.True(suite.T(), got.Data.Remaining.Equal(decimal.NewFromInt(380)))
	assert.Equal(suite.T(), "running", string(got.Data.Phase))

	// Deleting the transaction out-of-band frees the budget again
	recorder = test.Request(suite.T(), http.MethodDelete, idURL("/v1/transactions", transaction.ID), "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, idURL("/v1/limits", limit.ID), "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &got)
	assert.True(suite.T(), got.Data.Spent.IsZero(), "spent must follow the ledger")
}

func (suite *TestSuiteStandard) TestLimitPhases() {
	headers := suite.session("limit-phases@example.com")

	today := types.Today()

	scheduled := create[v1.Limit](suite, "/v1/limits", map[string]any{
		"title":      "Futuro",
		"startDate":  date(today.AddDays(10)),
		"periodCode": "1w",
		"amount":     "100",
	}, headers)
	assert.Equal(suite.T(), "scheduled", string(scheduled.Phase))

	expired := create[v1.Limit](suite, "/v1/limits", map[string]any{
		"title":      "Passado",
		"startDate":  date(today.AddDays(-30)),
		"periodCode": "1w",
		"amount":     "100",
	}, headers)
	assert.Equal(suite.T(), "expired", string(expired.Phase))

	paused := create[v1.Limit](suite, "/v1/limits", map[string]any{
		"title":      "Pausado",
		"startDate":  date(today),
		"periodCode": "1w",
		"amount":     "100",
		"status":     "paused",
	}, headers)
	assert.Equal(suite.T(), "paused", string(paused.Phase))
}

// Changing the period re-derives the window end.
func (suite *TestSuiteStandard) TestLimitUpdate() {
	headers := suite.session("limit-update@example.com")

	limit := create[v1.Limit](suite, "/v1/limits", map[string]any{
		"title":      "Mercado",
		"startDate":  "2026-03-10",
		"periodCode": "1w",
		"amount":     "500",
	}, headers)

	var got v1.LimitResponse
	recorder := test.Request(suite.T(), http.MethodPatch, idURL("/v1/limits", limit.ID), map[string]any{"periodCode": "1m"}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &got)
	assert.True(suite.T(), got.Data.EndDate.Equal(types.NewDate(2026, 4, 9)), "end date is %s, should be re-derived", got.Data.EndDate)
}

func (suite *TestSuiteStandard) TestLimitDelete() {
	headers := suite.session("limit-delete@example.com")

	limit := create[v1.Limit](suite, "/v1/limits", map[string]any{
		"title":      "Mercado",
		"startDate":  "2026-03-10",
		"periodCode": "1w",
		"amount":     "500",
	}, headers)

	recorder := test.Request(suite.T(), http.MethodDelete, idURL("/v1/limits", limit.ID), "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, idURL("/v1/limits", limit.ID), "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}
