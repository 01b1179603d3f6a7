package kernel_test

import (
	"math"
	"testing"

	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("creates_point_with_valid_coordinates", func(t *testing.T) {
		// When
		point, err := kernel.NewGeoPoint(12.9716, 77.5946)

		// Then
		require.NoError(t, err)
		require.NoError(t, point.Validate())
		assert.InDelta(t, 12.9716, point.Latitude(), 1e-9)
		assert.InDelta(t, 77.5946, point.Longitude(), 1e-9)
	})

	t.Run("accepts_boundary_coordinates", func(t *testing.T) {
		testCases := []struct {
			name string
			lat  float64
			lng  float64
		}{
			{"south_pole", -90, 0},
			{"north_pole", 90, 0},
			{"antimeridian_west", 0, -180},
			{"antimeridian_east", 0, 180},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := kernel.NewGeoPoint(tc.lat, tc.lng)
				require.NoError(t, err)
			})
		}
	})

	t.Run("rejects_out_of_range_coordinates", func(t *testing.T) {
		testCases := []struct {
			name string
			lat  float64
			lng  float64
		}{
			{"latitude_too_small", -90.0001, 0},
			{"latitude_too_large", 90.0001, 0},
			{"longitude_too_small", 0, -180.0001},
			{"longitude_too_large", 0, 180.0001},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := kernel.NewGeoPoint(tc.lat, tc.lng)
				require.Error(t, err)
				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
			})
		}
	})

	t.Run("rejects_non_finite_coordinates", func(t *testing.T) {
		testCases := []struct {
			name string
			lat  float64
			lng  float64
		}{
			{"nan_latitude", math.NaN(), 77.5946},
			{"nan_longitude", 12.9716, math.NaN()},
			{"inf_latitude", math.Inf(1), 77.5946},
			{"neg_inf_longitude", 12.9716, math.Inf(-1)},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := kernel.NewGeoPoint(tc.lat, tc.lng)
				require.Error(t, err)
				require.ErrorIs(t, err, errs.ErrValueIsInvalid)
			})
		}
	})
}

func TestGeoPoint_Validate(t *testing.T) {
	t.Run("zero_value_fails_validation", func(t *testing.T) {
		// Given
		var point kernel.GeoPoint

		// Then
		require.ErrorIs(t, point.Validate(), errs.ErrValueIsRequired)
	})
}

func TestGeoPoint_IsEqual(t *testing.T) {
	t.Run("equal_points", func(t *testing.T) {
		p1, _ := kernel.NewGeoPoint(12.9716, 77.5946)
		p2, _ := kernel.NewGeoPoint(12.9716, 77.5946)

		equal, err := p1.IsEqual(p2)
		require.NoError(t, err)
		assert.True(t, equal)
	})

	t.Run("different_points", func(t *testing.T) {
		p1, _ := kernel.NewGeoPoint(12.9716, 77.5946)
		p2, _ := kernel.NewGeoPoint(12.9717, 77.5946)

		equal, err := p1.IsEqual(p2)
		require.NoError(t, err)
		assert.False(t, equal)
	})

	t.Run("unconstructed_point_fails", func(t *testing.T) {
		p1, _ := kernel.NewGeoPoint(12.9716, 77.5946)
		var p2 kernel.GeoPoint

		_, err := p1.IsEqual(p2)
		require.Error(t, err)
	})
}

func TestGeoPoint_DistanceMeters(t *testing.T) {
	t.Run("zero_distance_for_same_point", func(t *testing.T) {
		p1, _ := kernel.NewGeoPoint(12.9716, 77.5946)
		p2, _ := kernel.NewGeoPoint(12.9716, 77.5946)

		d, err := p1.DistanceMeters(p2)
		require.NoError(t, err)
		assert.InDelta(t, 0, d, 1e-6)
	})

	t.Run("distance_is_symmetric", func(t *testing.T) {
		p1, _ := kernel.NewGeoPoint(12.9716, 77.5946)
		p2, _ := kernel.NewGeoPoint(12.9816, 77.6046)

		d1, err := p1.DistanceMeters(p2)
		require.NoError(t, err)
		d2, err := p2.DistanceMeters(p1)
		require.NoError(t, err)
		assert.InDelta(t, d1, d2, 1e-9)
	})

	t.Run("small_step_is_under_five_meters", func(t *testing.T) {
		// A ~1.5 m step: the movement filter must treat this as noise.
		p1, _ := kernel.NewGeoPoint(12.9716, 77.5946)
		p2, _ := kernel.NewGeoPoint(12.97161, 77.59461)

		d, err := p1.DistanceMeters(p2)
		require.NoError(t, err)
		assert.Less(t, d, 5.0)
		assert.Greater(t, d, 0.5)
	})

	t.Run("larger_step_exceeds_five_meters", func(t *testing.T) {
		// ~11 m north along the meridian.
		p1, _ := kernel.NewGeoPoint(12.9716, 77.5946)
		p2, _ := kernel.NewGeoPoint(12.9717, 77.5946)

		d, err := p1.DistanceMeters(p2)
		require.NoError(t, err)
		assert.Greater(t, d, 5.0)
		assert.Less(t, d, 20.0)
	})

	t.Run("one_degree_of_latitude", func(t *testing.T) {
		// One degree of latitude is ~111.2 km on the 6371 km sphere.
		p1, _ := kernel.NewGeoPoint(0, 0)
		p2, _ := kernel.NewGeoPoint(1, 0)

		d, err := p1.DistanceMeters(p2)
		require.NoError(t, err)
		assert.InDelta(t, 111195, d, 50)
	})

	t.Run("unconstructed_point_fails", func(t *testing.T) {
		p1, _ := kernel.NewGeoPoint(12.9716, 77.5946)
		var p2 kernel.GeoPoint

		_, err := p1.DistanceMeters(p2)
		require.Error(t, err)
	})
}
