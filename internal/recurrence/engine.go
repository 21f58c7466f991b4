// Package recurrence implements the scheduling core of Prospera: it decides
// which calendar occurrences of a recurrence rule are due, posts a ledger
// transaction for each of them exactly once and cascades goal-linked
// postings into goal contributions.
package recurrence

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/prospera-financas/backend/internal/models"
	"github.com/prospera-financas/backend/internal/types"
)

const (
	// initialComputeBound caps the number of cadence advances when computing
	// the first due date of a rule. Large enough for decades of daily
	// backlog, small enough to contain a misconfigured interval.
	initialComputeBound = 1000

	// catchUpBound caps the number of occurrences fired per rule and
	// invocation. A rule further behind than this is caught up across
	// multiple sweeps.
	catchUpBound = 100
)

// Advance returns the occurrence after d for the given cadence and interval.
func Advance(d types.Date, cadence models.RecurrenceCadence, interval int) types.Date {
	switch cadence {
	case models.CadenceDaily:
		return d.AddDays(interval)
	case models.CadenceWeekly:
		return d.AddDays(7 * interval)
	default:
		return d.AddMonthsClamped(interval)
	}
}

// ComputeInitialNextDue returns the first due date on or after today that is
// reachable from start by repeated cadence advances. When the rule has an
// end date and the computed date exceeds it, the end date is returned
// instead.
func ComputeInitialNextDue(start types.Date, cadence models.RecurrenceCadence, interval int, end *types.Date, today types.Date) types.Date {
	next := start
	for safety := 0; next.Before(today) && safety < initialComputeBound; safety++ {
		next = Advance(next, cadence, interval)
	}

	if end != nil && next.After(*end) {
		next = *end
	}

	return next
}

// Engine turns due recurrence rules into ledger entries.
type Engine struct {
	db *gorm.DB
}

// NewEngine returns an Engine operating on db.
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// RunResult reports what a trigger did.
type RunResult struct {
	Generated    int  `json:"generated"`        // Number of transactions created
	Deduplicated bool `json:"deduped,omitempty"` // True when a forced firing was skipped as a same-day duplicate
}

// ProcessAll catches up every active rule that is due on or before today.
//
// Each rule is processed to completion before the next one. A storage error
// aborts the sweep and is returned together with the number of transactions
// that were committed before it.
func (e *Engine) ProcessAll(today types.Date) (RunResult, error) {
	return e.process(e.db, today)
}

// ProcessOwner catches up the due rules of a single owner. This is the
// user-triggered variant of the periodic sweep.
func (e *Engine) ProcessOwner(ownerID uuid.UUID, today types.Date) (RunResult, error) {
	return e.process(e.db.Where("owner_id = ?", ownerID), today)
}

func (e *Engine) process(query *gorm.DB, today types.Date) (RunResult, error) {
	var rules []models.RecurrenceRule
	err := query.
		Where("active = ?", true).
		Where("next_due <= ?", today).
		Order("next_due ASC, id ASC").
		Find(&rules).Error
	if err != nil {
		return RunResult{}, err
	}

	var result RunResult
	for i := range rules {
		generated, err := e.catchUp(&rules[i], today)
		result.Generated += generated
		if err != nil {
			return result, err
		}
	}

	return result, nil
}

// ProcessRule catches up a single rule owned by ownerID, regardless of
// whether the periodic sweep would have picked it up yet.
func (e *Engine) ProcessRule(ruleID, ownerID uuid.UUID, today types.Date) (RunResult, error) {
	rule, err := e.loadRule(ruleID, ownerID)
	if err != nil {
		return RunResult{}, err
	}

	if !rule.Active {
		return RunResult{}, models.ErrRulePaused
	}

	generated, err := e.catchUp(&rule, today)
	return RunResult{Generated: generated}, err
}

// RunForced posts an occurrence for today even if the rule is not due yet.
//
// To protect against a user repeatedly pressing "run today", the firing is
// skipped when an identical transaction already exists for today; the rule's
// next due date still advances by one cadence step so the rule does not
// immediately fire again. Due rules are delegated to the ordinary catch-up,
// which needs no dedup because historical occurrence dates are distinct.
func (e *Engine) RunForced(ruleID, ownerID uuid.UUID, today types.Date) (RunResult, error) {
	rule, err := e.loadRule(ruleID, ownerID)
	if err != nil {
		return RunResult{}, err
	}

	if !rule.Active {
		return RunResult{}, models.ErrRulePaused
	}

	if !rule.NextDue.After(today) {
		generated, err := e.catchUp(&rule, today)
		return RunResult{Generated: generated}, err
	}

	var result RunResult
	err = e.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Transaction{}).
			Where("owner_id = ?", rule.OwnerID).
			Where("date = ?", today).
			Where("description = ?", rule.Description).
			Where("category = ?", rule.Category).
			Where("direction = ?", rule.Direction).
			Where("amount = ?", rule.Amount).
			Count(&count).Error
		if err != nil {
			return err
		}

		if count > 0 {
			result.Deduplicated = true
		} else {
			if err := fire(tx, rule, today); err != nil {
				return err
			}
			result.Generated = 1
		}

		// UpdateColumn: the validation hooks expect a fully loaded rule,
		// not the bare cursor update.
		next := Advance(today, rule.Cadence, rule.Interval)
		return tx.Model(&models.RecurrenceRule{}).
			Where("id = ?", rule.ID).
			UpdateColumn("next_due", next).Error
	})
	if err != nil {
		return RunResult{}, err
	}

	return result, nil
}

func (e *Engine) loadRule(ruleID, ownerID uuid.UUID) (models.RecurrenceRule, error) {
	var rule models.RecurrenceRule
	err := e.db.First(&rule, "id = ? AND owner_id = ?", ruleID, ownerID).Error
	return rule, err
}

// catchUp fires one occurrence per due date from the rule's next due date up
// to today and the rule's end date, then persists the final cursor as the
// new next due date.
//
// The cursor is only persisted past firings that actually committed: every
// firing is its own transactional unit, and on a storage error the loop
// stops and saves the cursor it reached, so a later sweep resumes exactly
// after the last committed occurrence.
func (e *Engine) catchUp(rule *models.RecurrenceRule, today types.Date) (int, error) {
	cursor := rule.NextDue
	generated := 0

	var fireErr error
	for safety := 0; safety < catchUpBound; safety++ {
		if cursor.After(today) {
			break
		}
		if rule.EndDate != nil && cursor.After(*rule.EndDate) {
			break
		}

		occurrence := cursor
		fireErr = e.db.Transaction(func(tx *gorm.DB) error {
			return fire(tx, *rule, occurrence)
		})
		if fireErr != nil {
			log.Error().
				Err(fireErr).
				Str("rule", rule.ID.String()).
				Str("occurrence", occurrence.String()).
				Msg("recurrence firing failed, aborting catch-up for rule")
			break
		}

		generated++
		cursor = Advance(cursor, rule.Cadence, rule.Interval)
	}

	if !cursor.Equal(rule.NextDue) {
		err := e.db.Model(&models.RecurrenceRule{}).
			Where("id = ?", rule.ID).
			UpdateColumn("next_due", cursor).Error
		if err != nil {
			return generated, err
		}
		rule.NextDue = cursor
	}

	return generated, fireErr
}

// fire posts the ledger mutation for one occurrence: the transaction itself
// and, for goal-linked rules, the signed goal contribution. Both inserts
// happen in the same unit of work, tx.
func fire(tx *gorm.DB, rule models.RecurrenceRule, occurrence types.Date) error {
	transaction := models.Transaction{
		OwnerID:     rule.OwnerID,
		Date:        occurrence,
		Description: rule.Description,
		Category:    rule.Category,
		Direction:   rule.Direction,
		Amount:      rule.Amount,
	}

	if err := tx.Create(&transaction).Error; err != nil {
		return err
	}

	if rule.GoalID == nil {
		return nil
	}

	contribution := models.GoalContribution{
		OwnerID:       rule.OwnerID,
		GoalID:        *rule.GoalID,
		Date:          occurrence,
		Amount:        models.SignedContribution(rule.Direction, rule.Amount),
		TransactionID: &transaction.ID,
		Source:        models.SourceRecurrence,
	}

	return tx.Create(&contribution).Error
}
