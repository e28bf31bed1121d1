package partner

import (
	"testing"

	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSupplier(t *testing.T) {
	t.Run("creates an active supplier with trimmed fields", func(t *testing.T) {
		supplier, err := NewSupplier("  Eletrica Central LTDA  ", " 12345678000190 ", " (11) 4002-8922 ")
		require.NoError(t, err)

		assert.Equal(t, "Eletrica Central LTDA", supplier.Name)
		assert.Equal(t, "12345678000190", supplier.TaxID)
		assert.Equal(t, "(11) 4002-8922", supplier.Phone)
		assert.True(t, supplier.Active)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewSupplier("   ", "12345678000190", "")
		assert.True(t, shared.HasCode(err, "INVALID_SUPPLIER_NAME"))
	})
}

func TestSupplier_UpdateContact(t *testing.T) {
	supplier, err := NewSupplier("Eletrica Central LTDA", "12345678000190", "")
	require.NoError(t, err)
	version := supplier.Version

	supplier.UpdateContact("(11) 98765-4321", "contato@eletricacentral.com.br")

	assert.Equal(t, "(11) 98765-4321", supplier.Phone)
	assert.Equal(t, "contato@eletricacentral.com.br", supplier.Email)
	assert.Equal(t, version+1, supplier.Version)
}

func TestSupplier_Deactivate(t *testing.T) {
	supplier, err := NewSupplier("Eletrica Central LTDA", "12345678000190", "")
	require.NoError(t, err)

	supplier.Deactivate()
	assert.False(t, supplier.Active)
}
