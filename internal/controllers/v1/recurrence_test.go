package v1_test

import (
	"fmt"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/prospera-financas/backend/internal/controllers/v1"
	"github.com/prospera-financas/backend/internal/types"
	"github.com/prospera-financas/backend/test"
)

func date(d types.Date) string {
	return d.String()
}

func (suite *TestSuiteStandard) TestRecurrenceCreate() {
	headers := suite.session("recurrence-create@example.com")

	today := types.Today()
	start := today.AddDays(5)

	rule := create[v1.Recurrence](suite, "/v1/recurrences", map[string]any{
		"description": "Aluguel",
		"category":    "Moradia",
		"direction":   "expense",
		"amount":      "1500",
		"cadence":     "monthly",
		"startDate":   date(start),
	}, headers)

	assert.True(suite.T(), rule.Active, "rules start active unless the client says otherwise")
	assert.Equal(suite.T(), 1, rule.Interval, "the interval defaults to 1")
	assert.True(suite.T(), rule.NextDue.Equal(start), "a future start date is the first due date")

	// The category is created on the fly
	var categories v1.CategoryListResponse
	recorder := test.Request(suite.T(), http.MethodGet, "/v1/categories", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &categories)
	require.Len(suite.T(), categories.Data, 1)
}

func (suite *TestSuiteStandard) TestRecurrenceCreateValidation() {
	headers := suite.session("recurrence-validation@example.com")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"bad cadence", map[string]any{"description": "x", "category": "y", "direction": "expense", "amount": "1", "cadence": "hourly", "startDate": "2026-03-01"}},
		{"zero interval", map[string]any{"description": "x", "category": "y", "direction": "expense", "amount": "1", "cadence": "daily", "interval": 0, "startDate": "2026-03-01"}},
		{"no start date", map[string]any{"description": "x", "category": "y", "direction": "expense", "amount": "1", "cadence": "daily"}},
		{"zero amount", map[string]any{"description": "x", "category": "y", "direction": "expense", "amount": "0", "cadence": "daily", "startDate": "2026-03-01"}},
	}

	for _, tt := range tests {
		recorder := test.Request(suite.T(), http.MethodPost, "/v1/recurrences", tt.body, headers)
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	}
}

// A past start date catches up through the sweep endpoint, not at create
// time.
func (suite *TestSuiteStandard) TestRecurrenceRun() {
	headers := suite.session("recurrence-run@example.com")

	start := types.Today().AddDays(-4)
	rule := create[v1.Recurrence](suite, "/v1/recurrences", map[string]any{
		"description": "Café",
		"category":    "Lazer",
		"direction":   "expense",
		"amount":      "10",
		"cadence":     "daily",
		"startDate":   date(start),
	}, headers)

	assert.True(suite.T(), rule.NextDue.Equal(types.Today()), "creation does not backfill")

	var run v1.RunResponse
	recorder := test.Request(suite.T(), http.MethodPost, "/v1/recurrences/run", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &run)
	assert.Equal(suite.T(), 1, run.Data.Generated, "only today is due")

	var list v1.TransactionListResponse
	recorder = test.Request(suite.T(), http.MethodGet, "/v1/transactions", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &list)
	assert.Len(suite.T(), list.Data, 1)
}

func (suite *TestSuiteStandard) TestRecurrenceRunSingle() {
	headers := suite.session("recurrence-run-single@example.com")

	rule := create[v1.Recurrence](suite, "/v1/recurrences", map[string]any{
		"description": "Café",
		"category":    "Lazer",
		"direction":   "expense",
		"amount":      "10",
		"cadence":     "daily",
		"startDate":   date(types.Today()),
	}, headers)

	var run v1.RunResponse
	recorder := test.Request(suite.T(), http.MethodPost, idURL("/v1/recurrences", rule.ID)+"/run", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &run)
	assert.Equal(suite.T(), 1, run.Data.Generated)
}

// Forcing a rule twice on the same day posts exactly one transaction.
func (suite *TestSuiteStandard) TestRecurrenceRunForced() {
	headers := suite.session("recurrence-forced@example.com")

	start := types.Today().AddDays(10)
	rule := create[v1.Recurrence](suite, "/v1/recurrences", map[string]any{
		"description": "Aluguel",
		"category":    "Moradia",
		"direction":   "expense",
		"amount":      "1500",
		"cadence":     "monthly",
		"startDate":   date(start),
	}, headers)

	url := idURL("/v1/recurrences", rule.ID) + "/run?force=true"

	var run v1.RunResponse
	recorder := test.Request(suite.T(), http.MethodPost, url, "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &run)
	assert.Equal(suite.T(), 1, run.Data.Generated)
	assert.False(suite.T(), run.Data.Deduplicated)

	recorder = test.Request(suite.T(), http.MethodPost, url, "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &run)
	assert.Equal(suite.T(), 0, run.Data.Generated)
	assert.True(suite.T(), run.Data.Deduplicated)

	var list v1.TransactionListResponse
	recorder = test.Request(suite.T(), http.MethodGet, "/v1/transactions", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &list)
	assert.Len(suite.T(), list.Data, 1)
}

// A paused rule refuses to run.
func (suite *TestSuiteStandard) TestRecurrenceRunPaused() {
	headers := suite.session("recurrence-paused@example.com")

	rule := create[v1.Recurrence](suite, "/v1/recurrences", map[string]any{
		"description": "Café",
		"category":    "Lazer",
		"direction":   "expense",
		"amount":      "10",
		"cadence":     "daily",
		"startDate":   date(types.Today()),
		"active":      false,
	}, headers)

	assert.False(suite.T(), rule.Active)

	recorder := test.Request(suite.T(), http.MethodPost, idURL("/v1/recurrences", rule.ID)+"/run", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusConflict)
}

// Changing the schedule recomputes the next due date.
func (suite *TestSuiteStandard) TestRecurrenceUpdateRecomputesNextDue() {
	headers := suite.session("recurrence-update@example.com")

	today := types.Today()
	rule := create[v1.Recurrence](suite, "/v1/recurrences", map[string]any{
		"description": "Aluguel",
		"category":    "Moradia",
		"direction":   "expense",
		"amount":      "1500",
		"cadence":     "monthly",
		"startDate":   date(today.AddDays(3)),
	}, headers)

	newStart := today.AddDays(14)
	var got v1.RecurrenceResponse
	recorder := test.Request(suite.T(), http.MethodPatch, idURL("/v1/recurrences", rule.ID), map[string]any{"startDate": date(newStart)}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &got)
	assert.True(suite.T(), got.Data.NextDue.Equal(newStart), "next due is %s, should follow the new start date", got.Data.NextDue)

	// A non-schedule change leaves the cursor alone
	recorder = test.Request(suite.T(), http.MethodPatch, idURL("/v1/recurrences", rule.ID), map[string]any{"description": "Aluguel novo"}, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &got)
	assert.True(suite.T(), got.Data.NextDue.Equal(newStart))
	assert.Equal(suite.T(), "Aluguel novo", got.Data.Description)
}

func (suite *TestSuiteStandard) TestRecurrenceFilters() {
	headers := suite.session("recurrence-filters@example.com")

	rules := []map[string]any{
		{"description": "Aluguel", "category": "Moradia", "direction": "expense", "amount": "1500", "cadence": "monthly", "startDate": "2026-03-01"},
		{"description": "Café", "category": "Lazer", "direction": "expense", "amount": "10", "cadence": "daily", "startDate": "2026-03-01"},
		{"description": "Pausada", "category": "Lazer", "direction": "expense", "amount": "10", "cadence": "daily", "startDate": "2026-03-01", "active": false},
	}
	for _, body := range rules {
		_ = create[v1.Recurrence](suite, "/v1/recurrences", body, headers)
	}

	tests := []struct {
		query string
		count int
	}{
		{"", 3},
		{"?cadence=daily", 2},
		{"?active=false", 1},
		{"?active=true", 2},
		{fmt.Sprintf("?cadence=%s&active=true", "daily"), 1},
	}

	for _, tt := range tests {
		var list v1.RecurrenceListResponse
		recorder := test.Request(suite.T(), http.MethodGet, "/v1/recurrences"+tt.query, "", headers)
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
		test.DecodeResponse(suite.T(), &recorder, &list)
		assert.Len(suite.T(), list.Data, tt.count, "query %q", tt.query)
	}
}

// Deleting a rule keeps the transactions it generated.
func (suite *TestSuiteStandard) TestRecurrenceDelete() {
	headers := suite.session("recurrence-delete@example.com")

	rule := create[v1.Recurrence](suite, "/v1/recurrences", map[string]any{
		"description": "Café",
		"category":    "Lazer",
		"direction":   "expense",
		"amount":      "10",
		"cadence":     "daily",
		"startDate":   date(types.Today()),
	}, headers)

	recorder := test.Request(suite.T(), http.MethodPost, idURL("/v1/recurrences", rule.ID)+"/run", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), http.MethodDelete, idURL("/v1/recurrences", rule.ID), "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	var list v1.TransactionListResponse
	recorder = test.Request(suite.T(), http.MethodGet, "/v1/transactions", "", headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &list)
	assert.Len(suite.T(), list.Data, 1, "generated transactions survive the rule")
}
