package stock

import (
	"testing"
	"time"

	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMaterial() Material {
	return Material{CarModel: "Civic", CarYear: "2022", MatType: "6D", MatColor: "black", MatQty: 2}
}

func TestNewEntry(t *testing.T) {
	t.Run("creates intake entry", func(t *testing.T) {
		e, err := NewEntry(testMaterial(), "  new roll ")
		require.NoError(t, err)
		assert.Equal(t, SourceIntake, e.Source)
		assert.Equal(t, "new roll", e.Note)
		assert.Nil(t, e.OrderID)
		assert.True(t, e.InStock())
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		m := testMaterial()
		m.MatQty = 0
		_, err := NewEntry(m, "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects missing model", func(t *testing.T) {
		m := testMaterial()
		m.CarModel = " "
		_, err := NewEntry(m, "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestNewReconciliationEntry(t *testing.T) {
	orderID := uuid.New()
	e := NewReconciliationEntry(orderID, "QK-2026-0003", testMaterial())

	assert.Equal(t, testMaterial(), e.Material)
	assert.Equal(t, SourceCancellation, e.Source)
	require.NotNil(t, e.OrderID)
	assert.Equal(t, orderID, *e.OrderID)
	assert.Contains(t, e.Note, "QK-2026-0003")
}

func TestEntry_TakeOut(t *testing.T) {
	e, err := NewEntry(testMaterial(), "")
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, e.TakeOut(now))
	assert.False(t, e.InStock())
	assert.Equal(t, now, *e.StockOutDate)

	err = e.TakeOut(now)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}
