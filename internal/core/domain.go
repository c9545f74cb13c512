package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Weekly    Frequency = "weekly"
	Monthly   Frequency = "monthly"
	Bimonthly Frequency = "bimonthly"
	Quarterly Frequency = "quarterly"
	Biannual  Frequency = "biannual"
	Yearly    Frequency = "yearly"
)

const (
	FlowIncome  Flow = 1
	FlowExpense Flow = 2
)

type (
	Frequency string

	// Flow distinguishes money coming in from money going out.
	Flow int64

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Account struct {
		ID             int64
		Name           string
		InitialBalance Money // signed, user-configured baseline
		IsActive       bool
	}

	// RecurringObligation is a template for a repeating financial event:
	// salary, rent, a subscription. It is never a ledger entry itself.
	//
	// DayOfMonth carries two meanings depending on Frequency: for weekly
	// obligations it is an ISO weekday 1-7 (7 = Sunday), for everything
	// else a day of the month 1-31.
	RecurringObligation struct {
		ID            int64
		Label         string
		Amount        Money // positive magnitude, sign derived from Flow
		DayOfMonth    int
		Frequency     Frequency
		AccountID     int64
		SubCategoryID int64
		SubCategory   string // denormalized label, filled by storage
		Flow          Flow
		IsActive      bool
	}

	// Transaction is an actual ledger entry. ObligationID is an optional
	// back-reference: non-zero when this transaction was recorded to
	// satisfy a specific obligation's occurrence, zero when unlinked.
	Transaction struct {
		ID            int64
		Date          Date
		Amount        Money // positive magnitude
		AccountID     int64
		Flow          Flow
		SubCategoryID int64
		ObligationID  int64
	}

	SubCategory struct {
		ID   int64
		Name string
	}
)

var (
	ErrInvalidDay       = errors.New("invalid day of month")
	ErrInvalidWeekday   = errors.New("invalid weekday")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidFlow      = errors.New("invalid flow")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidAccount   = errors.New("invalid account")
	ErrEmptyLabel       = errors.New("empty label")
)

// Known reports whether f is one of the supported frequency tags.
func (f Frequency) Known() bool {
	switch f {
	case Weekly, Monthly, Bimonthly, Quarterly, Biannual, Yearly:
		return true
	}
	return false
}

// Sign returns +1 for income and -1 for expense.
func (f Flow) Sign() int64 {
	if f == FlowExpense {
		return -1
	}
	return 1
}

func (f Flow) Valid() bool {
	return f == FlowIncome || f == FlowExpense
}

// NewDate creates a Date at UTC midnight for year, month (1-12), day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month, 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// SameDay reports whether two dates fall on the same calendar day,
// ignoring any time-of-day component.
func (d Date) SameDay(o Date) bool {
	return d.Year() == o.Year() && d.Month() == o.Month() && d.Day() == o.Day()
}

// BeforeDay reports whether d falls on an earlier calendar day than o.
// Strict: the same day is not before.
func (d Date) BeforeDay(o Date) bool {
	if d.Year() != o.Year() {
		return d.Year() < o.Year()
	}
	if d.Month() != o.Month() {
		return d.Month() < o.Month()
	}
	return d.Day() < o.Day()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// ISO returns the date formatted as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// SignedCents returns the transaction amount with the sign implied by
// its flow: income positive, expense negative.
func (t Transaction) SignedCents() int64 {
	return t.Flow.Sign() * t.Amount.Cents
}

// SignedCents returns the obligation amount with the sign implied by
// its flow.
func (o RecurringObligation) SignedCents() int64 {
	return o.Flow.Sign() * o.Amount.Cents
}

// Validate checks the boundary contract for obligations: the engine
// downstream assumes it only ever sees records that pass this.
func (o RecurringObligation) Validate() error {
	if len(strings.TrimSpace(o.Label)) == 0 {
		return ErrEmptyLabel
	}
	if len(o.Label) > 200 {
		return errors.New("label too long (max 200 characters)")
	}
	if err := o.Amount.Validate(); err != nil {
		return err
	}
	if !o.Frequency.Known() {
		return ErrInvalidFrequency
	}
	if o.Frequency == Weekly {
		if o.DayOfMonth < 1 || o.DayOfMonth > 7 {
			return ErrInvalidWeekday
		}
	} else if o.DayOfMonth < 1 || o.DayOfMonth > 31 {
		return ErrInvalidDay
	}
	if !o.Flow.Valid() {
		return ErrInvalidFlow
	}
	if o.AccountID <= 0 {
		return ErrInvalidAccount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Flow.Valid() {
		return ErrInvalidFlow
	}
	if t.AccountID <= 0 {
		return ErrInvalidAccount
	}
	return nil
}

func (a Account) Validate() error {
	if len(strings.TrimSpace(a.Name)) == 0 {
		return errors.New("empty account name")
	}
	return nil
}
