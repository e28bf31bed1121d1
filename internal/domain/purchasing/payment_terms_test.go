package purchasing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentTerms_Constructors(t *testing.T) {
	t.Run("empty schedule collapses to none", func(t *testing.T) {
		terms := NewScheduleTerms(nil, "30/60")
		assert.Equal(t, PaymentTermsNone, terms.Kind)
		assert.True(t, terms.IsEmpty())
	})

	t.Run("zero parcel count collapses to none", func(t *testing.T) {
		terms := NewParcelTerms(0, time.Now(), "")
		assert.True(t, terms.IsEmpty())
	})

	t.Run("schedule keeps installments", func(t *testing.T) {
		due := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
		terms := NewScheduleTerms([]Installment{
			{Number: 1, DueDate: due, Amount: decimal.NewFromFloat(100.50)},
			{Number: 2, DueDate: due.AddDate(0, 1, 0), Amount: decimal.NewFromFloat(100.50)},
		}, "30/60")

		assert.Equal(t, PaymentTermsSchedule, terms.Kind)
		assert.Len(t, terms.Installments, 2)
		assert.False(t, terms.IsEmpty())
	})

	t.Run("parcels keep count and first due date", func(t *testing.T) {
		due := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
		terms := NewParcelTerms(3, due, "3x")

		assert.Equal(t, PaymentTermsParcels, terms.Kind)
		assert.Equal(t, 3, terms.ParcelCount)
		require.NotNil(t, terms.FirstDueDate)
		assert.True(t, terms.FirstDueDate.Equal(due))
	})
}

func TestPaymentTerms_ValueScan(t *testing.T) {
	t.Run("round trips a parcel plan through the JSON column", func(t *testing.T) {
		due := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
		original := NewParcelTerms(4, due, "4x sem juros")

		value, err := original.Value()
		require.NoError(t, err)

		var scanned PaymentTerms
		require.NoError(t, scanned.Scan(value))

		assert.Equal(t, PaymentTermsParcels, scanned.Kind)
		assert.Equal(t, 4, scanned.ParcelCount)
		assert.Equal(t, "4x sem juros", scanned.Condition)
		require.NotNil(t, scanned.FirstDueDate)
		assert.True(t, scanned.FirstDueDate.Equal(due))
	})

	t.Run("scanning nil yields the empty variant", func(t *testing.T) {
		var terms PaymentTerms
		require.NoError(t, terms.Scan(nil))
		assert.True(t, terms.IsEmpty())
	})

	t.Run("scanning an unsupported type fails", func(t *testing.T) {
		var terms PaymentTerms
		assert.Error(t, terms.Scan(42))
	})

	t.Run("zero value serializes as none", func(t *testing.T) {
		var terms PaymentTerms
		value, err := terms.Value()
		require.NoError(t, err)

		var scanned PaymentTerms
		require.NoError(t, scanned.Scan(value))
		assert.Equal(t, PaymentTermsNone, scanned.Kind)
	})
}
