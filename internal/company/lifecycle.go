package company

import (
	"fmt"
	"math"
	"time"
)

const (
	StatusAvailable = "available"
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
	StatusSold      = "sold"
)

const dayHours = 24

// RenewalDayDelta returns the signed whole-day distance between now and the
// renewal date. Negative values mean the renewal is overdue by that many days.
func RenewalDayDelta(renewalDate, now time.Time) int {
	return int(math.Floor(renewalDate.Sub(now).Hours() / dayHours))
}

// CalculateRenewalDaysLeft returns the days remaining until the renewal date,
// clamped at zero. Overdue magnitude is deliberately not exposed here; use
// RenewalDayDelta when the caller needs it.
func CalculateRenewalDaysLeft(renewalDate, now time.Time) int {
	daysLeft := RenewalDayDelta(renewalDate, now)
	if daysLeft < 0 {
		return 0
	}
	return daysLeft
}

// CalculateExpiryDate returns the renewal date one calendar year after base.
func CalculateExpiryDate(base time.Time) time.Time {
	return base.AddDate(1, 0, 0)
}

// DetermineStatus maps a company's renewal date and current status to the
// status it should hold right now.
//
// available and pending are holding states and never change automatically.
// A renewal date at or past due always wins and marks the company expired.
// A refunded or cancelled company whose renewal date is still in the future
// is recycled back into inventory as available.
func DetermineStatus(renewalDate time.Time, currentStatus string, now time.Time) string {
	if currentStatus == StatusAvailable || currentStatus == StatusPending {
		return currentStatus
	}

	if RenewalDayDelta(renewalDate, now) <= 0 {
		return StatusExpired
	}

	if currentStatus == StatusRefunded || currentStatus == StatusCancelled {
		return StatusAvailable
	}

	return StatusActive
}

// RenewalReminder describes an upcoming or overdue renewal for one company.
type RenewalReminder struct {
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
	DaysLeft    int    `json:"days_left"`
	Overdue     bool   `json:"overdue"`
	Message     string `json:"message"`
}

// BuildRenewalReminder produces a reminder for a company whose renewal date
// falls inside the reminder window, or nil when no reminder is due.
func BuildRenewalReminder(c *Company, windowDays int, now time.Time) *RenewalReminder {
	if c.Status == StatusAvailable || c.Status == StatusPending {
		return nil
	}

	delta := RenewalDayDelta(c.RenewalDate, now)
	if delta > windowDays {
		return nil
	}

	r := &RenewalReminder{
		CompanyID:   c.ID.String(),
		CompanyName: c.Name,
		DaysLeft:    CalculateRenewalDaysLeft(c.RenewalDate, now),
	}
	if delta < 0 {
		r.Overdue = true
		r.Message = fmt.Sprintf("%s is OVERDUE by %d days", c.Name, -delta)
	} else {
		r.Message = fmt.Sprintf("%s renews in %d days", c.Name, delta)
	}
	return r
}
