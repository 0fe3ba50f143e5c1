package kernel_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
)

func TestNewServiceDay(t *testing.T) {
	t.Run("truncates to midnight UTC", func(t *testing.T) {
		instant := time.Date(2025, 3, 7, 17, 42, 13, 999, time.UTC)

		day, err := kernel.NewServiceDay(instant)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), day.Time())
		assert.Equal(t, "2025-03-07", day.String())
		assert.Equal(t, "20250307", day.Compact())
	})

	t.Run("converts non-UTC instants before truncating", func(t *testing.T) {
		jakarta := time.FixedZone("WIB", 7*60*60)
		// 03:00 in Jakarta on March 8 is still March 7 in UTC.
		instant := time.Date(2025, 3, 8, 3, 0, 0, 0, jakarta)

		day, err := kernel.NewServiceDay(instant)

		require.NoError(t, err)
		assert.Equal(t, "2025-03-07", day.String())
	})

	t.Run("zero time is rejected", func(t *testing.T) {
		_, err := kernel.NewServiceDay(time.Time{})

		assert.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestServiceDayFromString(t *testing.T) {
	t.Run("parses the canonical form", func(t *testing.T) {
		day, err := kernel.ServiceDayFromString("2025-03-07")

		require.NoError(t, err)
		assert.Equal(t, "2025-03-07", day.String())
		assert.NoError(t, day.Validate())
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, s := range []string{"", "20250307", "07-03-2025", "2025-13-40", "not a day"} {
			_, err := kernel.ServiceDayFromString(s)
			assert.Error(t, err, "input %q", s)
			assert.ErrorIs(t, err, errs.ErrValueIsInvalid, "input %q", s)
		}
	})
}

func TestServiceDay_Validate(t *testing.T) {
	t.Run("constructed day is valid", func(t *testing.T) {
		day, err := kernel.NewServiceDay(time.Now())
		require.NoError(t, err)
		assert.NoError(t, day.Validate())
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var day kernel.ServiceDay
		err := day.Validate()
		assert.Error(t, err)
		assert.Equal(t, kernel.ErrServiceDayIsNotConstructed, err)
	})
}

func TestServiceDay_Comparisons(t *testing.T) {
	march7, err := kernel.ServiceDayFromString("2025-03-07")
	require.NoError(t, err)
	march8, err := kernel.ServiceDayFromString("2025-03-08")
	require.NoError(t, err)

	t.Run("same day from different instants is equal", func(t *testing.T) {
		morning, err := kernel.NewServiceDay(time.Date(2025, 3, 7, 6, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		evening, err := kernel.NewServiceDay(time.Date(2025, 3, 7, 23, 59, 59, 0, time.UTC))
		require.NoError(t, err)

		assert.True(t, morning.IsEqual(evening))
	})

	t.Run("different days are not equal", func(t *testing.T) {
		assert.False(t, march7.IsEqual(march8))
	})

	t.Run("before is strict", func(t *testing.T) {
		assert.True(t, march7.Before(march8))
		assert.False(t, march8.Before(march7))
		assert.False(t, march7.Before(march7))
	})
}
