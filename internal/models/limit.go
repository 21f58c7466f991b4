package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/prospera-financas/backend/internal/types"
)

// LimitStatus is the lifecycle state of a spending limit.
type LimitStatus string

const (
	LimitActive   LimitStatus = "active"
	LimitPaused   LimitStatus = "paused"
	LimitArchived LimitStatus = "archived"
)

// Valid reports whether the status is one of the known values.
func (s LimitStatus) Valid() bool {
	return s == LimitActive || s == LimitPaused || s == LimitArchived
}

// LimitPhase is derived from the limit status and today's relation to the
// limit window.
type LimitPhase string

const (
	PhaseScheduled LimitPhase = "scheduled"
	PhaseRunning   LimitPhase = "running"
	PhaseExpired   LimitPhase = "expired"
)

// LimitPeriod is the duration code of a limit window.
type LimitPeriod string

const (
	PeriodDay        LimitPeriod = "1d"
	PeriodWeek       LimitPeriod = "1w"
	PeriodTwoWeeks   LimitPeriod = "2w"
	PeriodMonth      LimitPeriod = "1m"
	PeriodTwoMonths  LimitPeriod = "2m"
	PeriodFourMonths LimitPeriod = "4m"
	PeriodSixMonths  LimitPeriod = "6m"
	PeriodYear       LimitPeriod = "1y"
)

// limitPeriods maps every duration code to its window arithmetic: day based
// codes span whole days, month based codes span calendar months with
// day-of-month clamping.
var limitPeriods = map[LimitPeriod]struct {
	days   int
	months int
}{
	PeriodDay:        {days: 1},
	PeriodWeek:       {days: 7},
	PeriodTwoWeeks:   {days: 14},
	PeriodMonth:      {months: 1},
	PeriodTwoMonths:  {months: 2},
	PeriodFourMonths: {months: 4},
	PeriodSixMonths:  {months: 6},
	PeriodYear:       {months: 12},
}

// Valid reports whether the period code is one of the known values.
func (p LimitPeriod) Valid() bool {
	_, ok := limitPeriods[p]
	return ok
}

// WindowEnd returns the inclusive end date of a window starting at start.
// Day based codes add n-1 days, month based codes advance by n months with
// clamping and subtract one day.
func (p LimitPeriod) WindowEnd(start types.Date) (types.Date, error) {
	span, ok := limitPeriods[p]
	if !ok {
		return types.Date{}, ErrLimitPeriodInvalid
	}

	if span.days > 0 {
		return start.AddDays(span.days - 1), nil
	}

	return start.AddMonthsClamped(span.months).AddDays(-1), nil
}

// Limit caps expense spending over a fixed, inclusive date window.
//
// EndDate is the only derived field that is persisted: the window must stay
// fixed once created and not drift as "today" changes. Everything else is
// recomputed from the matching transactions on every read.
type Limit struct {
	DefaultModel
	OwnerID    uuid.UUID `gorm:"index;not null"`
	Title      string    `gorm:"not null"`
	StartDate  types.Date
	PeriodCode LimitPeriod `gorm:"not null"`
	EndDate    types.Date
	Amount     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Status     LimitStatus     `gorm:"not null;default:active"`
}

var (
	ErrLimitTitleRequired     = errors.New("the limit title must be set")
	ErrLimitPeriodInvalid     = errors.New("the limit period must be one of 1d, 1w, 2w, 1m, 2m, 4m, 6m, 1y")
	ErrLimitAmountNotPositive = errors.New("the limit amount must be larger than zero")
	ErrLimitStatusInvalid     = errors.New("the limit status must be 'active', 'paused' or 'archived'")
)

func (l *Limit) BeforeSave(_ *gorm.DB) error {
	l.Title = strings.TrimSpace(l.Title)
	if l.Title == "" {
		return ErrLimitTitleRequired
	}

	if !l.Amount.IsPositive() {
		return ErrLimitAmountNotPositive
	}

	if l.Status == "" {
		l.Status = LimitActive
	}

	if !l.Status.Valid() {
		return ErrLimitStatusInvalid
	}

	end, err := l.PeriodCode.WindowEnd(l.StartDate)
	if err != nil {
		return err
	}
	l.EndDate = end

	return nil
}

// LimitProjection holds the derived figures for a limit at a point in time.
type LimitProjection struct {
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Percent   int             `json:"percent"`
	Phase     LimitPhase      `json:"phase"`
	DaysLeft  int             `json:"daysLeft"`
}

// Spent returns the sum of the owner's expense transactions dated within
// the limit window. It is recomputed on every read so that transaction
// edits and deletes are reflected without invalidation bookkeeping.
func (l Limit) Spent(db *gorm.DB) (decimal.Decimal, error) {
	return TransactionsSum(db.
		Where("owner_id = ?", l.OwnerID).
		Where("direction = ?", DirectionExpense).
		Where("date >= ? AND date <= ?", l.StartDate, l.EndDate))
}

// Project computes the derived figures from the spent amount.
func (l Limit) Project(spent decimal.Decimal, today types.Date) LimitProjection {
	remaining := l.Amount.Sub(spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	percent := 0
	if l.Amount.IsPositive() {
		percent = int(spent.Div(l.Amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
		if percent > 100 {
			percent = 100
		}
		if percent < 0 {
			percent = 0
		}
	}

	phase := LimitPhase(l.Status)
	if l.Status == LimitActive {
		switch {
		case today.Before(l.StartDate):
			phase = PhaseScheduled
		case today.After(l.EndDate):
			phase = PhaseExpired
		default:
			phase = PhaseRunning
		}
	}

	daysLeft := today.DaysUntil(l.EndDate)
	if daysLeft < 0 {
		daysLeft = 0
	}

	return LimitProjection{
		Spent:     spent,
		Remaining: remaining,
		Percent:   percent,
		Phase:     phase,
		DaysLeft:  daysLeft,
	}
}
