package finance

import (
	"testing"
	"time"

	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/eletroerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPayable(t *testing.T) *PayableAccount {
	payable, err := NewPayableAccount(
		uuid.New(), "Eletrica Central LTDA",
		uuid.New(), "NF-1042",
		1, 3,
		time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		valueobject.NewMoneyBRL(decimal.NewFromFloat(350.75)),
	)
	require.NoError(t, err)
	return payable
}

func TestNewPayableAccount(t *testing.T) {
	t.Run("creates open installment with created event", func(t *testing.T) {
		payable := createTestPayable(t)

		assert.Equal(t, PayableStatusOpen, payable.Status)
		assert.True(t, payable.IsOpen())
		assert.Equal(t, "NF NF-1042 - Eletrica Central LTDA (1/3)", payable.Description)
		assert.True(t, payable.Amount.Equal(decimal.NewFromFloat(350.75)))

		events := payable.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePayableCreated, events[0].EventType())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewPayableAccount(uuid.New(), "S", uuid.New(), "NF-1", 1, 1, time.Now(), valueobject.ZeroBRL())
		assert.True(t, shared.HasCode(err, "INVALID_AMOUNT"))
	})

	t.Run("rejects installment number outside count", func(t *testing.T) {
		_, err := NewPayableAccount(uuid.New(), "S", uuid.New(), "NF-1", 4, 3, time.Now(), valueobject.NewMoneyBRL(decimal.NewFromInt(10)))
		assert.True(t, shared.HasCode(err, "INVALID_INSTALLMENT"))
	})

	t.Run("rejects empty invoice", func(t *testing.T) {
		_, err := NewPayableAccount(uuid.New(), "S", uuid.New(), "", 1, 1, time.Now(), valueobject.NewMoneyBRL(decimal.NewFromInt(10)))
		assert.Error(t, err)
	})
}

func TestPayableAccount_MarkPaid(t *testing.T) {
	payable := createTestPayable(t)
	payable.ClearDomainEvents()

	paidAt := time.Date(2026, 5, 8, 14, 0, 0, 0, time.UTC)
	require.NoError(t, payable.MarkPaid(paidAt))

	assert.Equal(t, PayableStatusPaid, payable.Status)
	require.NotNil(t, payable.PaidAt)
	assert.True(t, payable.PaidAt.Equal(paidAt))

	events := payable.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypePayablePaid, events[0].EventType())

	// Settling twice is rejected
	err := payable.MarkPaid(paidAt)
	assert.True(t, shared.HasCode(err, "INVALID_STATE"))
}

func TestPayableAccount_Cancel(t *testing.T) {
	payable := createTestPayable(t)
	require.NoError(t, payable.Cancel("compra estornada"))

	assert.Equal(t, PayableStatusCancelled, payable.Status)
	assert.Contains(t, payable.Notes, "Cancelled: compra estornada")

	assert.Error(t, payable.Cancel("de novo"))
	assert.Error(t, payable.MarkPaid(time.Now()))
}

func TestPayableAccount_IsOverdue(t *testing.T) {
	payable := createTestPayable(t)

	beforeDue := payable.DueDate.AddDate(0, 0, -1)
	afterDue := payable.DueDate.AddDate(0, 0, 1)

	assert.False(t, payable.IsOverdue(beforeDue))
	assert.True(t, payable.IsOverdue(afterDue))

	require.NoError(t, payable.MarkPaid(afterDue))
	assert.False(t, payable.IsOverdue(afterDue))
}
