// Package age turns MM/dd/yyyy birthdates into whole-year ages.
//
// A birthdate that cannot be parsed never produces an error: it resolves to
// Unknown so that one bad medical record cannot fail an entire alert view.
package age

import "time"

const (
	// Layout is the birthdate format used in the data file (MM/dd/yyyy).
	Layout = "01/02/2006"

	// Unknown is returned when the birthdate is unparsable or lies after
	// the reference date. Callers must not treat it as a real age.
	Unknown = -1

	// AdultAge is the first age counted as an adult.
	AdultAge = 18
)

// Calculate returns the number of completed years between birthdate and now.
func Calculate(birthdate string, now time.Time) int {
	born, err := time.Parse(Layout, birthdate)
	if err != nil {
		return Unknown
	}

	ny, nm, nd := now.Date()
	by, bm, bd := born.Date()

	if ny < by || (ny == by && (nm < bm || (nm == bm && nd < bd))) {
		return Unknown
	}

	years := ny - by
	if nm < bm || (nm == bm && nd < bd) {
		years--
	}
	return years
}

// IsAdult reports whether age counts as an adult. Unknown is a minor.
func IsAdult(age int) bool {
	return age >= AdultAge
}

// Calculator computes ages against an injectable clock.
type Calculator struct {
	now func() time.Time
}

// NewCalculator returns a Calculator. A nil now uses time.Now.
func NewCalculator(now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{now: now}
}

// Age returns the age for birthdate relative to the calculator's clock.
func (c *Calculator) Age(birthdate string) int {
	return Calculate(birthdate, c.now())
}

// Now exposes the clock used by the calculator.
func (c *Calculator) Now() time.Time {
	return c.now()
}
