package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridGeometrySpacing(t *testing.T) {
	geom, err := NewGridGeometry(5, 3, 10, 20, 190, 120)
	require.NoError(t, err)
	assert.Equal(t, [2]float64{45, 50}, geom.Spacing)
	assert.Equal(t, [2]float64{10, 20}, geom.Origin)
	assert.Equal(t, 190.0, geom.Max_bound(X_AXIS))
	assert.Equal(t, 120.0, geom.Max_bound(Y_AXIS))
}

func TestGridGeometryRejectsBadInput(t *testing.T) {
	_, err := NewGridGeometry(1, 3, 0, 0, 10, 10)
	require.ErrorIs(t, err, ErrGridSize)
	_, err = NewGridGeometry(3, 3, 10, 0, 10, 10)
	require.Error(t, err)
}

func TestCellIndex(t *testing.T) {
	geom, err := NewGridGeometry(3, 3, 0, 0, 20, 20)
	require.NoError(t, err)

	cases := []struct {
		coord float64
		raw   int
		cell  int
	}{
		{-15, -2, 0},
		{0, 0, 0},
		{9.99, 0, 0},
		{10, 1, 1},
		{19.99, 1, 1},
		{20, 2, 1},
		{35, 3, 1},
	}
	for _, c := range cases {
		assert.Equal(t, c.raw, geom.Cell_index_raw(c.coord, X_AXIS), "raw %v", c.coord)
		assert.Equal(t, c.cell, geom.Cell_index_x(c.coord), "cell %v", c.coord)
		assert.Equal(t, c.cell, geom.Cell_index_y(c.coord), "cell %v", c.coord)
	}
}

func TestMeshIndexToPosFallsBackPastTable(t *testing.T) {
	geom, err := NewGridGeometry(3, 3, 5, 5, 25, 25)
	require.NoError(t, err)
	assert.Equal(t, 15.0, geom.Mesh_index_to_pos(1, X_AXIS))
	assert.Equal(t, 35.0, geom.Mesh_index_to_pos(3, X_AXIS))
	assert.Equal(t, -5.0, geom.Mesh_index_to_pos(-1, Y_AXIS))
}

func TestClosestIndex(t *testing.T) {
	geom, err := NewGridGeometry(3, 3, 0, 0, 20, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, geom.Closest_index(4.9, X_AXIS))
	assert.Equal(t, 1, geom.Closest_index(5, X_AXIS))
	assert.Equal(t, 2, geom.Closest_index(24.9, X_AXIS))
	assert.Equal(t, -1, geom.Closest_index(25, X_AXIS))
	assert.Equal(t, -1, geom.Closest_index(-5.1, Y_AXIS))
}

func TestContainsAndClamp(t *testing.T) {
	geom, err := NewGridGeometry(3, 3, 0, 0, 20, 20)
	require.NoError(t, err)
	assert.True(t, geom.Contains(0, 20))
	assert.False(t, geom.Contains(-0.1, 10))
	x, y := geom.Clamp(-3, 25)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 20.0, y)
}

func TestSubdivide(t *testing.T) {
	geom, err := NewGridGeometry(3, 4, 0, 0, 20, 30)
	require.NoError(t, err)
	assert.Same(t, geom, geom.Subdivide(1))

	virt := geom.Subdivide(4)
	assert.Equal(t, [2]int{9, 13}, virt.Points)
	assert.Equal(t, [2]float64{2.5, 2.5}, virt.Spacing)
	assert.Equal(t, geom.Max_bound(X_AXIS), virt.Max_bound(X_AXIS))
	assert.Equal(t, geom.Max_bound(Y_AXIS), virt.Max_bound(Y_AXIS))
}
