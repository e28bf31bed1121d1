package purchasing

import (
	"context"
	"testing"
	"time"

	"github.com/eletroerp/backend/internal/application/inventory"
	"github.com/eletroerp/backend/internal/domain/catalog"
	domaininventory "github.com/eletroerp/backend/internal/domain/inventory"
	"github.com/eletroerp/backend/internal/domain/purchasing"
	"github.com/eletroerp/backend/internal/domain/shared"
	"github.com/eletroerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// capturePublisher records every published event
type capturePublisher struct {
	events []shared.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *capturePublisher) eventTypes() []string {
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

type receivingFixture struct {
	store     *memStore
	service   *ReceivingService
	publisher *capturePublisher
	purchase  *purchasing.Purchase
}

// newReceivingFixture registers the standard two-line invoice and returns the
// persisted pending purchase.
func newReceivingFixture(t *testing.T) *receivingFixture {
	t.Helper()
	store := newMemStore()

	registration := NewRegistrationService(store.scope(), zap.NewNop())
	response, err := registration.Register(context.Background(), registerRequestFixture())
	require.NoError(t, err)

	publisher := &capturePublisher{}
	service := NewReceivingService(store.scope(), inventory.NewStockLedger(), zap.NewNop())
	service.SetEventPublisher(publisher)

	return &receivingFixture{
		store:     store,
		service:   service,
		publisher: publisher,
		purchase:  store.purchases[response.ID],
	}
}

func (f *receivingFixture) onHand(t *testing.T, materialID uuid.UUID) decimal.Decimal {
	t.Helper()
	material, ok := f.store.materials[materialID]
	require.True(t, ok)
	return material.QuantityOnHand
}

func TestReceivingService_Receive(t *testing.T) {
	t.Run("credits all items and marks received", func(t *testing.T) {
		f := newReceivingFixture(t)

		response, err := f.service.Receive(context.Background(), f.purchase.ID, nil)
		require.NoError(t, err)

		assert.Equal(t, "RECEIVED", response.Status)
		assert.NotNil(t, response.ReceivedDate)

		// Cable line credits 100, screw line credits 3 packages; fractioning
		// to units happens later in reconciliation
		cable := f.purchase.Items[0]
		screws := f.purchase.Items[1]
		assert.True(t, f.onHand(t, *cable.MaterialID).Equal(decimal.NewFromInt(100)))
		assert.True(t, f.onHand(t, *screws.MaterialID).Equal(decimal.NewFromInt(3)))

		assert.Len(t, f.store.movements, 2)
		for _, m := range f.store.movements {
			assert.Equal(t, domaininventory.ReasonPurchaseReceipt, m.Reason)
			assert.Equal(t, f.purchase.ID.String(), m.ReferenceID)
		}

		assert.Contains(t, f.publisher.eventTypes(), purchasing.EventTypePurchaseReceived)
	})

	t.Run("second receive is a no-op", func(t *testing.T) {
		f := newReceivingFixture(t)

		_, err := f.service.Receive(context.Background(), f.purchase.ID, nil)
		require.NoError(t, err)

		response, err := f.service.Receive(context.Background(), f.purchase.ID, nil)
		require.NoError(t, err)

		assert.Equal(t, "RECEIVED", response.Status)
		assert.Len(t, f.store.movements, 2)
	})

	t.Run("rejects receiving a cancelled purchase", func(t *testing.T) {
		f := newReceivingFixture(t)
		_, err := f.service.Cancel(context.Background(), f.purchase.ID, "pedido errado")
		require.NoError(t, err)

		_, err = f.service.Receive(context.Background(), f.purchase.ID, nil)
		assert.True(t, shared.HasCode(err, "INVALID_STATE"))
		assert.Empty(t, f.store.movements)
	})

	t.Run("unknown purchase yields not found", func(t *testing.T) {
		f := newReceivingFixture(t)
		_, err := f.service.Receive(context.Background(), uuid.New(), nil)
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestReceivingService_ReceivePartial(t *testing.T) {
	t.Run("credits only the listed items", func(t *testing.T) {
		f := newReceivingFixture(t)
		cable := f.purchase.Items[0]

		response, err := f.service.ReceivePartial(context.Background(), f.purchase.ID, ReceivePartialRequest{
			ItemIDs: []uuid.UUID{cable.ID},
		})
		require.NoError(t, err)

		assert.Equal(t, "PENDING", response.Status)
		assert.NotNil(t, response.ReceivedDate)
		assert.Len(t, f.store.movements, 1)
		assert.True(t, f.onHand(t, *cable.MaterialID).Equal(decimal.NewFromInt(100)))

		// Received event not yet published
		assert.NotContains(t, f.publisher.eventTypes(), purchasing.EventTypePurchaseReceived)
	})

	t.Run("repeated delivery never double-credits", func(t *testing.T) {
		f := newReceivingFixture(t)
		cable := f.purchase.Items[0]

		req := ReceivePartialRequest{ItemIDs: []uuid.UUID{cable.ID}}
		_, err := f.service.ReceivePartial(context.Background(), f.purchase.ID, req)
		require.NoError(t, err)
		_, err = f.service.ReceivePartial(context.Background(), f.purchase.ID, req)
		require.NoError(t, err)

		assert.Len(t, f.store.movements, 1)
		assert.True(t, f.onHand(t, *cable.MaterialID).Equal(decimal.NewFromInt(100)))
	})

	t.Run("last delivery flips the purchase to received", func(t *testing.T) {
		f := newReceivingFixture(t)
		cable := f.purchase.Items[0]
		screws := f.purchase.Items[1]

		_, err := f.service.ReceivePartial(context.Background(), f.purchase.ID, ReceivePartialRequest{ItemIDs: []uuid.UUID{cable.ID}})
		require.NoError(t, err)

		response, err := f.service.ReceivePartial(context.Background(), f.purchase.ID, ReceivePartialRequest{ItemIDs: []uuid.UUID{screws.ID}})
		require.NoError(t, err)

		assert.Equal(t, "RECEIVED", response.Status)
		assert.Contains(t, f.publisher.eventTypes(), purchasing.EventTypePurchaseReceived)
	})

	t.Run("unknown line item aborts the delivery", func(t *testing.T) {
		f := newReceivingFixture(t)

		_, err := f.service.ReceivePartial(context.Background(), f.purchase.ID, ReceivePartialRequest{ItemIDs: []uuid.UUID{uuid.New()}})
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestReceivingService_ReceiveWithAssociations(t *testing.T) {
	// An invoice whose lines were left unbound, as an invoice parser that
	// defers material resolution to the operator would produce.
	seedUnboundPurchase := func(t *testing.T, store *memStore) *purchasing.Purchase {
		t.Helper()
		purchase, err := purchasing.NewPurchase(uuid.New(), "Eletrica Central LTDA", "12.345.678/0001-90", "", "NF-2001", time.Now(), time.Now())
		require.NoError(t, err)
		_, err = purchase.AddItem("Cabo PP 3x1.5mm", "", decimal.NewFromInt(50), valueobject.NewMoneyBRL(decimal.NewFromFloat(3.20)), nil)
		require.NoError(t, err)
		_, err = purchase.AddItem("Tomada 10A branca", "", decimal.NewFromInt(20), valueobject.NewMoneyBRL(decimal.NewFromFloat(8.50)), nil)
		require.NoError(t, err)
		purchase.ClearDomainEvents()
		store.purchases[purchase.ID] = purchase
		return purchase
	}

	t.Run("binds operator choices and receives unconditionally", func(t *testing.T) {
		store := newMemStore()
		purchase := seedUnboundPurchase(t, store)

		existing, err := catalog.NewMaterial("Cabo PP 3x1.5mm", "MAT-PP15", catalog.CategoryElectricalMaterial, "", valueobject.NewMoneyBRL(decimal.NewFromFloat(3.20)), nil)
		require.NoError(t, err)
		store.materials[existing.ID] = existing

		publisher := &capturePublisher{}
		service := NewReceivingService(store.scope(), inventory.NewStockLedger(), zap.NewNop())
		service.SetEventPublisher(publisher)

		response, err := service.ReceiveWithAssociations(context.Background(), purchase.ID, ReceiveWithAssociationsRequest{
			Associations: []ItemAssociationInput{
				{ItemID: purchase.Items[0].ID, MaterialID: &existing.ID},
				{ItemID: purchase.Items[1].ID, NewMaterialName: "Tomada 10A branca"},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "RECEIVED", response.Status)
		assert.Len(t, store.materials, 2)
		assert.True(t, existing.QuantityOnHand.Equal(decimal.NewFromInt(50)))
		assert.Len(t, store.movements, 2)
		assert.Contains(t, publisher.eventTypes(), purchasing.EventTypePurchaseReceived)
	})

	t.Run("association naming nothing is rejected", func(t *testing.T) {
		store := newMemStore()
		purchase := seedUnboundPurchase(t, store)

		service := NewReceivingService(store.scope(), inventory.NewStockLedger(), zap.NewNop())
		_, err := service.ReceiveWithAssociations(context.Background(), purchase.ID, ReceiveWithAssociationsRequest{
			Associations: []ItemAssociationInput{{ItemID: purchase.Items[0].ID}},
		})
		assert.True(t, shared.HasCode(err, "VALIDATION"))
	})

	t.Run("unbound leftovers are resolved by name", func(t *testing.T) {
		store := newMemStore()
		purchase := seedUnboundPurchase(t, store)

		service := NewReceivingService(store.scope(), inventory.NewStockLedger(), zap.NewNop())
		response, err := service.ReceiveWithAssociations(context.Background(), purchase.ID, ReceiveWithAssociationsRequest{
			Associations: []ItemAssociationInput{
				{ItemID: purchase.Items[0].ID, NewMaterialName: "Cabo PP 3x1.5mm"},
			},
		})
		require.NoError(t, err)

		// The second line had no association; receiving resolved it anyway
		assert.Equal(t, "RECEIVED", response.Status)
		assert.Len(t, store.materials, 2)
		assert.Len(t, store.movements, 2)
	})
}

func TestReceivingService_Cancel(t *testing.T) {
	t.Run("cancels a pending purchase", func(t *testing.T) {
		f := newReceivingFixture(t)

		response, err := f.service.Cancel(context.Background(), f.purchase.ID, "pedido duplicado")
		require.NoError(t, err)

		assert.Equal(t, "CANCELLED", response.Status)
		assert.Empty(t, f.store.movements)
		assert.Contains(t, f.publisher.eventTypes(), purchasing.EventTypePurchaseCancelled)
	})

	t.Run("rejects cancelling a received purchase", func(t *testing.T) {
		f := newReceivingFixture(t)
		_, err := f.service.Receive(context.Background(), f.purchase.ID, nil)
		require.NoError(t, err)

		_, err = f.service.Cancel(context.Background(), f.purchase.ID, "tarde demais")
		assert.True(t, shared.HasCode(err, "ALREADY_RECEIVED"))
	})
}

func TestReceivingService_GetByID(t *testing.T) {
	f := newReceivingFixture(t)

	response, err := f.service.GetByID(context.Background(), f.purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, f.purchase.ID, response.ID)
	assert.Len(t, response.Items, 2)

	_, err = f.service.GetByID(context.Background(), uuid.New())
	assert.True(t, shared.IsNotFound(err))
}
