package payroll

import (
	"testing"
	"time"

	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func createTestPeriod(t *testing.T) *Period {
	p, err := NewPeriod(day("2026-02-01"), day("2026-02-15"), uuid.New())
	require.NoError(t, err)
	return p
}

func TestNewPeriod(t *testing.T) {
	t.Run("single day period is valid", func(t *testing.T) {
		_, err := NewPeriod(day("2026-02-01"), day("2026-02-01"), uuid.New())
		assert.NoError(t, err)
	})

	t.Run("rejects reversed range", func(t *testing.T) {
		_, err := NewPeriod(day("2026-02-15"), day("2026-02-01"), uuid.New())
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects missing dates", func(t *testing.T) {
		_, err := NewPeriod(time.Time{}, day("2026-02-01"), uuid.New())
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("drops time of day", func(t *testing.T) {
		p, err := NewPeriod(time.Date(2026, 2, 1, 13, 0, 0, 0, time.UTC), day("2026-02-15"), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, day("2026-02-01"), p.StartDate)
	})
}

func TestPeriod_Overlaps(t *testing.T) {
	p := createTestPeriod(t)
	tests := []struct {
		start, end string
		want       bool
	}{
		{"2026-01-20", "2026-01-31", false},
		{"2026-02-16", "2026-02-28", false},
		{"2026-01-20", "2026-02-01", true},
		{"2026-02-15", "2026-02-28", true},
		{"2026-02-05", "2026-02-06", true},
		{"2026-01-01", "2026-03-01", true},
	}
	for _, tt := range tests {
		t.Run(tt.start+"_"+tt.end, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Overlaps(day(tt.start), day(tt.end)))
		})
	}
}

func TestPeriod_LockUnlock(t *testing.T) {
	p := createTestPeriod(t)
	admin := uuid.New()
	now := time.Now()

	require.NoError(t, p.AssertOpen())

	ev, err := p.Lock(admin, now)
	require.NoError(t, err)
	assert.Equal(t, LockActionLock, ev.Action)
	assert.Equal(t, admin, ev.ActorID)
	assert.Equal(t, p.ID, ev.PeriodID)
	assert.True(t, p.IsLocked)
	assert.Equal(t, admin, *p.LockedBy)
	assert.ErrorIs(t, p.AssertOpen(), shared.ErrPeriodLocked)

	_, err = p.Lock(admin, now)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	ev, err = p.Unlock(admin, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, LockActionUnlock, ev.Action)
	assert.False(t, p.IsLocked)
	assert.Nil(t, p.LockedAt)
	assert.Nil(t, p.LockedBy)
	assert.NoError(t, p.AssertOpen())

	_, err = p.Unlock(admin, now)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestNewItem(t *testing.T) {
	periodID := uuid.New()

	t.Run("derives totals", func(t *testing.T) {
		item, err := NewItem(periodID, uuid.New(), PayTypePiece, Inputs{PieceCount: 14, OTHours: dec(2)}, "")
		require.NoError(t, err)
		assert.True(t, dec(5880).Equal(item.WageTotal))
		assert.True(t, dec(120).Equal(item.OTTotal))
		assert.True(t, dec(6000).Equal(item.Total))
		assert.True(t, dec(25).Equal(item.ExtraRateOrDefault()))
	})

	t.Run("requires worker", func(t *testing.T) {
		_, err := NewItem(periodID, uuid.Nil, PayTypePiece, Inputs{}, "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("recompute replaces totals", func(t *testing.T) {
		item, err := NewItem(periodID, uuid.New(), PayTypePiece, Inputs{PieceCount: 10}, "")
		require.NoError(t, err)
		require.NoError(t, item.Recompute(PayTypeDaily, Inputs{DailyRate: dec(400), WorkDays: dec(22)}, "fixed"))
		assert.Equal(t, PayTypeDaily, item.PayType)
		assert.True(t, dec(8800).Equal(item.Total))
		assert.Equal(t, "fixed", item.Note)
	})
}
