package order_test

import (
	"testing"
	"time"

	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/core/domain/model/order"
	"tindo/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSnapshot(t *testing.T) order.DeliverySnapshot {
	t.Helper()

	location, err := kernel.NewGeoPoint(12.9716, 77.5946)
	require.NoError(t, err)

	snapshot, err := order.NewDeliverySnapshot(location, "221B Residency Rd", "99880-11223", "080-2244-5566")
	require.NoError(t, err)
	return snapshot
}

func validItems(t *testing.T) []order.Item {
	t.Helper()

	dosa, err := order.NewItem(11, "Masala Dosa", 9.5, 2)
	require.NoError(t, err)
	lassi, err := order.NewItem(12, "Sweet Lassi", 3.25, 1)
	require.NoError(t, err)
	return []order.Item{dosa, lassi}
}

func newWaitingOrder(t *testing.T) *order.Order {
	t.Helper()

	aggregate, err := order.NewOrder(
		kernel.NewUUID(), 1, 3, validSnapshot(t), "card", "45 min", "ring twice",
	)
	require.NoError(t, err)
	require.NoError(t, aggregate.Finalize("123456789012", validItems(t), 22.25))
	return aggregate
}

func TestNewOrder_StartsWaitingAndPending(t *testing.T) {
	aggregate, err := order.NewOrder(
		kernel.NewUUID(), 1, 3, validSnapshot(t), "card", "45 min", "",
	)
	require.NoError(t, err)

	assert.Equal(t, order.WaitingForAgent, aggregate.Status())
	assert.Equal(t, order.TrackingPending, aggregate.TrackingStatus())
	assert.Nil(t, aggregate.AgentID())
	assert.False(t, aggregate.IsFinalized())
	assert.Empty(t, aggregate.OrderNumber())
	assert.Zero(t, aggregate.Total())
}

func TestNewOrder_Validation(t *testing.T) {
	snapshot := validSnapshot(t)

	tests := []struct {
		name         string
		id           kernel.UUID
		customerID   int64
		restaurantID int64
		snapshot     order.DeliverySnapshot
	}{
		{"zero id", kernel.UUID{}, 1, 3, snapshot},
		{"non-positive customer", kernel.NewUUID(), 0, 3, snapshot},
		{"non-positive restaurant", kernel.NewUUID(), 1, -3, snapshot},
		{"unconstructed snapshot", kernel.NewUUID(), 1, 3, order.DeliverySnapshot{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := order.NewOrder(tt.id, tt.customerID, tt.restaurantID, tt.snapshot, "card", "", "")
			require.Error(t, err)
		})
	}
}

func TestFinalize_SetsNumberItemsAndTotalOnce(t *testing.T) {
	aggregate, err := order.NewOrder(
		kernel.NewUUID(), 1, 3, validSnapshot(t), "card", "", "",
	)
	require.NoError(t, err)

	require.NoError(t, aggregate.Finalize("123456789012", validItems(t), 22.25))

	assert.True(t, aggregate.IsFinalized())
	assert.Equal(t, "123456789012", aggregate.OrderNumber())
	assert.Len(t, aggregate.Items(), 2)
	assert.InDelta(t, 22.25, aggregate.Total(), 1e-9)

	err = aggregate.Finalize("210987654321", validItems(t), 22.25)
	require.ErrorIs(t, err, order.ErrOrderAlreadyFinalized)
	assert.Equal(t, "123456789012", aggregate.OrderNumber())
}

func TestFinalize_Validation(t *testing.T) {
	items := validItems(t)

	tests := []struct {
		name        string
		orderNumber string
		items       []order.Item
		total       float64
	}{
		{"short number", "12345", items, 22.25},
		{"non-digit number", "12345678901a", items, 22.25},
		{"no items", "123456789012", nil, 22.25},
		{"unconstructed item", "123456789012", []order.Item{{}}, 22.25},
		{"zero total", "123456789012", items, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aggregate, err := order.NewOrder(
				kernel.NewUUID(), 1, 3, validSnapshot(t), "card", "", "",
			)
			require.NoError(t, err)

			require.Error(t, aggregate.Finalize(tt.orderNumber, tt.items, tt.total))
			assert.False(t, aggregate.IsFinalized())
		})
	}
}

func TestLifecycle_HappyPath(t *testing.T) {
	aggregate := newWaitingOrder(t)
	start := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	require.NoError(t, aggregate.Assign(7, start))
	assert.Equal(t, order.AgentAssigned, aggregate.Status())
	assert.Equal(t, order.TrackingAccepted, aggregate.TrackingStatus())
	require.NotNil(t, aggregate.AgentID())
	assert.Equal(t, int64(7), *aggregate.AgentID())
	require.NotNil(t, aggregate.AgentAssignedAt())

	require.NoError(t, aggregate.MarkPickedUp(start.Add(10*time.Minute)))
	assert.Equal(t, order.PickedUp, aggregate.Status())
	assert.Equal(t, order.TrackingInTransit, aggregate.TrackingStatus())
	require.NotNil(t, aggregate.PickedUpAt())

	require.NoError(t, aggregate.MarkDelivered(start.Add(40*time.Minute)))
	assert.Equal(t, order.Delivered, aggregate.Status())
	assert.Equal(t, order.TrackingCompleted, aggregate.TrackingStatus())
	require.NotNil(t, aggregate.DeliveredAt())
}

func TestLifecycle_SnapshotNeverChanges(t *testing.T) {
	aggregate := newWaitingOrder(t)
	before := aggregate.Snapshot()
	now := time.Now()

	require.NoError(t, aggregate.Assign(7, now))
	require.NoError(t, aggregate.MarkPickedUp(now))
	require.NoError(t, aggregate.MarkDelivered(now))

	after := aggregate.Snapshot()
	assert.Equal(t, before.Address(), after.Address())
	assert.Equal(t, before.Location(), after.Location())
	assert.Equal(t, before.CustomerPhone(), after.CustomerPhone())
	assert.Equal(t, before.RestaurantPhone(), after.RestaurantPhone())
}

func TestAssign_IsWriteOnce(t *testing.T) {
	aggregate := newWaitingOrder(t)
	now := time.Now()

	require.NoError(t, aggregate.Assign(7, now))

	err := aggregate.Assign(8, now)
	require.ErrorIs(t, err, order.ErrAgentAlreadyAssigned)
	assert.Equal(t, int64(7), *aggregate.AgentID())

	// Same agent again is still a violation: assignment happens once.
	err = aggregate.Assign(7, now)
	require.ErrorIs(t, err, order.ErrAgentAlreadyAssigned)
}

func TestAssign_Validation(t *testing.T) {
	aggregate := newWaitingOrder(t)

	require.ErrorIs(t, aggregate.Assign(0, time.Now()), errs.ErrValueIsInvalid)
	require.ErrorIs(t, aggregate.Assign(7, time.Time{}), errs.ErrValueIsRequired)
	assert.Nil(t, aggregate.AgentID())
}

func TestTransitions_OutOfOrderAreRejected(t *testing.T) {
	now := time.Now()

	t.Run("pickup before assignment", func(t *testing.T) {
		aggregate := newWaitingOrder(t)
		require.ErrorIs(t, aggregate.MarkPickedUp(now), errs.ErrInvalidTransition)
	})

	t.Run("deliver before pickup", func(t *testing.T) {
		aggregate := newWaitingOrder(t)
		require.NoError(t, aggregate.Assign(7, now))
		require.ErrorIs(t, aggregate.MarkDelivered(now), errs.ErrInvalidTransition)
	})

	t.Run("deliver twice", func(t *testing.T) {
		aggregate := newWaitingOrder(t)
		require.NoError(t, aggregate.Assign(7, now))
		require.NoError(t, aggregate.MarkPickedUp(now))
		require.NoError(t, aggregate.MarkDelivered(now))
		require.ErrorIs(t, aggregate.MarkDelivered(now), errs.ErrInvalidTransition)
	})
}

func TestCancel_FreezesTrackingStatus(t *testing.T) {
	t.Run("before assignment", func(t *testing.T) {
		aggregate := newWaitingOrder(t)

		require.NoError(t, aggregate.Cancel())

		assert.Equal(t, order.Cancelled, aggregate.Status())
		assert.Equal(t, order.TrackingPending, aggregate.TrackingStatus())
	})

	t.Run("after assignment", func(t *testing.T) {
		aggregate := newWaitingOrder(t)
		require.NoError(t, aggregate.Assign(7, time.Now()))

		require.NoError(t, aggregate.Cancel())

		assert.Equal(t, order.Cancelled, aggregate.Status())
		assert.Equal(t, order.TrackingAccepted, aggregate.TrackingStatus())
	})

	t.Run("after pickup is rejected", func(t *testing.T) {
		aggregate := newWaitingOrder(t)
		require.NoError(t, aggregate.Assign(7, time.Now()))
		require.NoError(t, aggregate.MarkPickedUp(time.Now()))

		require.ErrorIs(t, aggregate.Cancel(), errs.ErrInvalidTransition)
		assert.Equal(t, order.PickedUp, aggregate.Status())
	})
}

func TestRestoreOrder_RevalidatesInvariants(t *testing.T) {
	id := kernel.NewUUID()
	snapshot := validSnapshot(t)
	items := validItems(t)
	agentID := int64(7)
	assignedAt := time.Now().UTC()

	t.Run("round trip", func(t *testing.T) {
		restored, err := order.RestoreOrder(
			id, "123456789012", 1, 3, &agentID, items, 22.25, snapshot,
			"card", "45 min", "", order.AgentAssigned, order.TrackingAccepted,
			&assignedAt, nil, nil,
		)
		require.NoError(t, err)

		assert.Equal(t, order.AgentAssigned, restored.Status())
		assert.Equal(t, int64(7), *restored.AgentID())
		assert.True(t, restored.IsFinalized())
	})

	t.Run("waiting order with agent", func(t *testing.T) {
		_, err := order.RestoreOrder(
			id, "123456789012", 1, 3, &agentID, items, 22.25, snapshot,
			"card", "", "", order.WaitingForAgent, order.TrackingPending,
			nil, nil, nil,
		)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("assigned order without agent", func(t *testing.T) {
		_, err := order.RestoreOrder(
			id, "123456789012", 1, 3, nil, items, 22.25, snapshot,
			"card", "", "", order.AgentAssigned, order.TrackingAccepted,
			&assignedAt, nil, nil,
		)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("cancelled tolerates either", func(t *testing.T) {
		_, err := order.RestoreOrder(
			id, "123456789012", 1, 3, nil, items, 22.25, snapshot,
			"card", "", "", order.Cancelled, order.TrackingPending,
			nil, nil, nil,
		)
		require.NoError(t, err)

		_, err = order.RestoreOrder(
			id, "123456789012", 1, 3, &agentID, items, 22.25, snapshot,
			"card", "", "", order.Cancelled, order.TrackingAccepted,
			&assignedAt, nil, nil,
		)
		require.NoError(t, err)
	})

	t.Run("unfinalized restore", func(t *testing.T) {
		restored, err := order.RestoreOrder(
			id, "", 1, 3, nil, nil, 0, snapshot,
			"card", "", "", order.WaitingForAgent, order.TrackingPending,
			nil, nil, nil,
		)
		require.NoError(t, err)
		assert.False(t, restored.IsFinalized())
	})
}

func TestValidate_RejectsZeroValueOrder(t *testing.T) {
	var aggregate order.Order
	require.ErrorIs(t, aggregate.Validate(), order.ErrOrderIsNotConstructed)

	var nilOrder *order.Order
	require.ErrorIs(t, nilOrder.Validate(), order.ErrOrderIsNotConstructed)
}
