package kernel_test

import (
	"testing"

	"tindo/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	id := kernel.NewUUID()

	require.NoError(t, id.Validate())
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, id.String())

	other := kernel.NewUUID()
	assert.False(t, id.IsEqual(other))
}

func TestUUIDFromString(t *testing.T) {
	// Order ids arrive as strings from path params and tracking payloads.
	const wire = "550e8400-e29b-41d4-a716-446655440000"

	t.Run("canonical form round trips", func(t *testing.T) {
		id, err := kernel.UUIDFromString(wire)

		require.NoError(t, err)
		require.NoError(t, id.Validate())
		assert.Equal(t, wire, id.String())
	})

	t.Run("equal ids parsed twice compare equal", func(t *testing.T) {
		first, err := kernel.UUIDFromString(wire)
		require.NoError(t, err)
		second, err := kernel.UUIDFromString(wire)
		require.NoError(t, err)

		assert.True(t, first.IsEqual(second))
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		inputs := []string{
			"",
			"123456789012",
			"not-a-uuid",
			"550e8400-e29b-41d4-a716",
			"550e8400-e29b-41d4-a716-44665544000g",
		}

		for _, input := range inputs {
			_, err := kernel.UUIDFromString(input)
			require.Error(t, err, "expected error for %q", input)
			assert.Contains(t, err.Error(), "invalid UUID format")
		}
	})
}

func TestUUIDFromBytes(t *testing.T) {
	raw := []byte{
		0x55, 0x0e, 0x84, 0x00, 0xe2, 0x9b, 0x41, 0xd4,
		0xa7, 0x16, 0x44, 0x66, 0x55, 0x44, 0x00, 0x00,
	}

	t.Run("sixteen bytes round trip", func(t *testing.T) {
		id, err := kernel.UUIDFromBytes(raw)

		require.NoError(t, err)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
	})

	t.Run("rejects short input", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes(raw[:3])

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid UUID format")
	})

	t.Run("rejects the nil uuid", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes(make([]byte, 16))

		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)
	})
}

func TestUUID_Validate(t *testing.T) {
	t.Run("zero value fails", func(t *testing.T) {
		var id kernel.UUID

		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, id.Validate())
	})

	t.Run("parsed nil uuid fails", func(t *testing.T) {
		id, err := kernel.UUIDFromString("00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)

		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, id.Validate())
	})
}
