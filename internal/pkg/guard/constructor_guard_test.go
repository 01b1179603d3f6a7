package guard_test

import (
	"errors"
	"testing"

	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/core/domain/model/order"
	"tindo/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed guard passes", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero value guard returns the custom error", func(t *testing.T) {
		var g guard.ConstructorGuard
		notConstructed := errors.New("entity not constructed")

		err := g.Validate(notConstructed)

		require.Error(t, err)
		assert.Equal(t, notConstructed, err)
	})

	t.Run("zero value guard falls back to the default error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

// The guard exists so that value objects assembled without their
// constructor are caught at the first Validate call, not deep inside a
// handler. DeliverySnapshot is the canonical user: a snapshot built as a
// struct literal carries no guard and must fail.
func TestConstructorGuard_CatchesLiteralValueObjects(t *testing.T) {
	t.Run("constructed snapshot validates", func(t *testing.T) {
		location, err := kernel.NewGeoPoint(12.9716, 77.5946)
		require.NoError(t, err)

		snapshot, err := order.NewDeliverySnapshot(
			location, "221B Residency Rd", "99880-11223", "080-2345")
		require.NoError(t, err)

		require.NoError(t, snapshot.Validate())
	})

	t.Run("zero value snapshot fails with its sentinel", func(t *testing.T) {
		var snapshot order.DeliverySnapshot

		err := snapshot.Validate()

		require.Error(t, err)
		assert.Equal(t, order.ErrSnapshotIsNotConstructed, err)
	})
}

// A guarded object stays valid when copied; the constructed bit travels
// with the value. Handlers rely on this when commands are passed around
// by value.
func TestConstructorGuard_SurvivesCopies(t *testing.T) {
	g := guard.NewConstructorGuard()
	notConstructed := errors.New("not constructed")

	copied := g

	require.NoError(t, g.Validate(notConstructed))
	require.NoError(t, copied.Validate(notConstructed))
}

func TestConstructorGuard_ConcurrentValidation(t *testing.T) {
	g := guard.NewConstructorGuard()
	notConstructed := errors.New("not constructed")

	done := make(chan struct{})
	for range 20 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 500 {
				assert.NoError(t, g.Validate(notConstructed))
			}
		}()
	}

	for range 20 {
		<-done
	}
}
