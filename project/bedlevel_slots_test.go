package project

import (
	"bedlevel/common/config"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSlots(t *testing.T) *SlotStore {
	t.Helper()
	store, err := OpenSlotStore(filepath.Join(t.TempDir(), "slots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSlotSaveLoad(t *testing.T) {
	store := openTestSlots(t)
	values := bump()
	values[0][2] = INVALID_Z
	cfg := testMeshConfig(config.StrategyUBL, 3, 3)
	cfg.AllowPartial = true
	ctx, _ := newTestContext(t, cfg, values)

	id, err := ctx.Save_slot(store, 2)
	require.NoError(t, err)
	assert.Len(t, id, 36)

	mesh, err := store.Load(2, true)
	require.NoError(t, err)
	assert.True(t, mesh.Is_compact())
	assert.False(t, mesh.Is_valid(0, 2))
	assert.InDelta(t, 1.0, mesh.Get(1, 1), 1e-3)

	other, toolhead := newTestContext(t, cfg, nil)
	toolhead.Set_position(Position{10, 10, 2, 0})
	require.NoError(t, other.Load_slot(store, 2))
	assert.Equal(t, ctx.Get_settings().Mesh, other.Get_settings().Mesh)
}

func TestSlotOverwriteAndList(t *testing.T) {
	store := openTestSlots(t)
	ctx, _ := newTestContext(t, testMeshConfig(config.StrategyBilinear, 3, 3), bump())

	first, err := ctx.Save_slot(store, 0)
	require.NoError(t, err)
	second, err := ctx.Save_slot(store, 0)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	_, err = ctx.Save_slot(store, 5)
	require.NoError(t, err)

	slots, err := store.List()
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, 0, slots[0].Slot)
	assert.Equal(t, second, slots[0].UUID)
	assert.Equal(t, "bilinear", slots[0].Strategy)
	assert.Equal(t, 3, slots[0].PointsX)
	assert.Positive(t, slots[0].SavedAt)
	assert.Equal(t, 5, slots[1].Slot)
}

func TestSlotDelete(t *testing.T) {
	store := openTestSlots(t)
	ctx, _ := newTestContext(t, testMeshConfig(config.StrategyUBL, 3, 3), bump())
	_, err := ctx.Save_slot(store, 1)
	require.NoError(t, err)

	require.NoError(t, store.Delete(1))
	require.ErrorIs(t, store.Delete(1), ErrSlotNotFound)
	_, err = store.Load(1, false)
	require.ErrorIs(t, err, ErrSlotNotFound)
	require.ErrorIs(t, ctx.Load_slot(store, 1), ErrSlotNotFound)
}

func TestSlotDimensionMismatch(t *testing.T) {
	store := openTestSlots(t)
	small, _ := newTestContext(t, testMeshConfig(config.StrategyUBL, 2, 2), [][]float64{{0, 0.1}, {0.2, 0.3}})
	_, err := small.Save_slot(store, 3)
	require.NoError(t, err)

	ctx, _ := newTestContext(t, testMeshConfig(config.StrategyUBL, 3, 3), bump())
	require.ErrorIs(t, ctx.Load_slot(store, 3), ErrMeshDimensions)
	assert.Equal(t, 1.0, ctx.Mesh().Get(1, 1))
}

func TestZValuesBlob(t *testing.T) {
	values := []float64{0, -1.25, INVALID_Z, 3e-3}
	decoded, err := decodeZValues(encodeZValues(values), len(values))
	require.NoError(t, err)
	assert.Equal(t, values[:2], decoded[:2])
	assert.True(t, Is_invalid_z(decoded[2]))
	assert.Equal(t, values[3], decoded[3])

	_, err = decodeZValues(make([]byte, 7), 1)
	require.Error(t, err)
}
