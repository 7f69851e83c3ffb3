package company_test

import (
	"testing"
	"time"

	"shelfmarket/internal/company"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDetermineStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 6, 0)
	past := now.AddDate(0, -1, 0)

	t.Run("available never changes automatically", func(t *testing.T) {
		assert.Equal(t, company.StatusAvailable, company.DetermineStatus(past, company.StatusAvailable, now))
		assert.Equal(t, company.StatusAvailable, company.DetermineStatus(future, company.StatusAvailable, now))
	})

	t.Run("pending never changes automatically", func(t *testing.T) {
		assert.Equal(t, company.StatusPending, company.DetermineStatus(past, company.StatusPending, now))
		assert.Equal(t, company.StatusPending, company.DetermineStatus(future, company.StatusPending, now))
	})

	t.Run("past renewal date wins regardless of status", func(t *testing.T) {
		for _, status := range []string{
			company.StatusActive,
			company.StatusExpired,
			company.StatusCancelled,
			company.StatusRefunded,
			company.StatusSold,
		} {
			assert.Equal(t, company.StatusExpired, company.DetermineStatus(past, status, now), status)
		}
	})

	t.Run("renewal date due today means expired", func(t *testing.T) {
		assert.Equal(t, company.StatusExpired, company.DetermineStatus(now, company.StatusActive, now))
	})

	t.Run("refunded with future renewal goes back to inventory", func(t *testing.T) {
		assert.Equal(t, company.StatusAvailable, company.DetermineStatus(future, company.StatusRefunded, now))
	})

	t.Run("cancelled with future renewal goes back to inventory", func(t *testing.T) {
		assert.Equal(t, company.StatusAvailable, company.DetermineStatus(future, company.StatusCancelled, now))
	})

	t.Run("active with future renewal stays active", func(t *testing.T) {
		assert.Equal(t, company.StatusActive, company.DetermineStatus(future, company.StatusActive, now))
		assert.Equal(t, company.StatusActive, company.DetermineStatus(future, company.StatusSold, now))
	})

	t.Run("idempotent over repeated application", func(t *testing.T) {
		first := company.DetermineStatus(future, company.StatusRefunded, now)
		second := company.DetermineStatus(future, first, now)
		assert.Equal(t, company.StatusAvailable, first)
		assert.Equal(t, first, second)

		first = company.DetermineStatus(past, company.StatusActive, now)
		second = company.DetermineStatus(past, first, now)
		assert.Equal(t, company.StatusExpired, first)
		assert.Equal(t, first, second)
	})
}

func TestCalculateExpiryDate(t *testing.T) {
	base := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, 2, 10, 0, 0, 0, 0, time.UTC), company.CalculateExpiryDate(base))

	// leap day rolls forward to March 1st
	leap := time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2029, 3, 1, 0, 0, 0, 0, time.UTC), company.CalculateExpiryDate(leap))
}

func TestRenewalDayMath(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("days left counts whole days", func(t *testing.T) {
		assert.Equal(t, 10, company.CalculateRenewalDaysLeft(now.AddDate(0, 0, 10), now))
		assert.Equal(t, 0, company.CalculateRenewalDaysLeft(now, now))
	})

	t.Run("days left clamps at zero when overdue", func(t *testing.T) {
		assert.Equal(t, 0, company.CalculateRenewalDaysLeft(now.AddDate(0, 0, -30), now))
	})

	t.Run("delta keeps the overdue magnitude", func(t *testing.T) {
		assert.Equal(t, -30, company.RenewalDayDelta(now.AddDate(0, 0, -30), now))
		assert.Equal(t, 7, company.RenewalDayDelta(now.AddDate(0, 0, 7), now))
	})

	t.Run("partial days floor down", func(t *testing.T) {
		assert.Equal(t, 2, company.RenewalDayDelta(now.Add(60*time.Hour), now))
	})
}

func TestBuildRenewalReminder(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	newCompany := func(status string, renewal time.Time) *company.Company {
		return &company.Company{
			ID:          uuid.New(),
			Name:        "Acme Holdings Ltd",
			Status:      status,
			RenewalDate: renewal,
		}
	}

	t.Run("inside window", func(t *testing.T) {
		r := company.BuildRenewalReminder(newCompany(company.StatusActive, now.AddDate(0, 0, 14)), 30, now)
		assert.NotNil(t, r)
		assert.False(t, r.Overdue)
		assert.Equal(t, 14, r.DaysLeft)
		assert.Contains(t, r.Message, "renews in 14 days")
	})

	t.Run("outside window", func(t *testing.T) {
		r := company.BuildRenewalReminder(newCompany(company.StatusActive, now.AddDate(0, 0, 90)), 30, now)
		assert.Nil(t, r)
	})

	t.Run("overdue", func(t *testing.T) {
		r := company.BuildRenewalReminder(newCompany(company.StatusSold, now.AddDate(0, 0, -5)), 30, now)
		assert.NotNil(t, r)
		assert.True(t, r.Overdue)
		assert.Equal(t, 0, r.DaysLeft)
		assert.Contains(t, r.Message, "OVERDUE by 5 days")
	})

	t.Run("inventory statuses never remind", func(t *testing.T) {
		assert.Nil(t, company.BuildRenewalReminder(newCompany(company.StatusAvailable, now), 30, now))
		assert.Nil(t, company.BuildRenewalReminder(newCompany(company.StatusPending, now), 30, now))
	})
}
