package project

import (
	"bedlevel/common/config"
	"bedlevel/common/logger"
	"bedlevel/common/utils/maths"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestUblCorrectionAtCenterAndQuarter(t *testing.T) {
	ubl := newTestStrategy(t, testMeshConfig(config.StrategyUBL, 3, 3), bump())
	assert.InDelta(t, 1.0, ubl.Z_correction(10, 10), 1e-12)
	assert.InDelta(t, 0.25, ubl.Z_correction(5, 5), 1e-12)
	assert.InDelta(t, 0.25, ubl.Z_correction(15, 5), 1e-12)
	assert.InDelta(t, 0.5, ubl.Z_correction(10, 5), 1e-12)
}

func TestUblRoundTripAtGridPoints(t *testing.T) {
	values := [][]float64{
		{0.11, -0.2, 0.05, 0.3},
		{-0.07, 0.12, 0.4, -0.1},
		{0.2, 0.0, -0.33, 0.08},
	}
	ubl := newTestStrategy(t, testMeshConfig(config.StrategyUBL, 3, 4), values)
	geom := ubl.Geometry()
	for x := range values {
		for y := range values[x] {
			got := ubl.Z_correction(geom.Mesh_index_to_pos(x, X_AXIS), geom.Mesh_index_to_pos(y, Y_AXIS))
			assert.InDelta(t, values[x][y], got, 1e-12, "point %d,%d", x, y)
		}
	}
}

func TestUblEdgesMatchCalcZ0(t *testing.T) {
	values := [][]float64{{0.1, 0.3}, {0.5, -0.2}}
	ubl := newTestStrategy(t, testMeshConfig(config.StrategyUBL, 2, 2), values)
	for _, x := range []float64{0, 2.5, 7, 10} {
		want := maths.CalcZ0(x, 0, 0.1, 10, 0.5)
		assert.InDelta(t, want, ubl.Z_correction(x, 0), 1e-12)
	}
}

func TestUblContinuousAcrossCellBoundaries(t *testing.T) {
	ubl := newTestStrategy(t, testMeshConfig(config.StrategyUBL, 4, 4), [][]float64{
		{0.1, 0.2, -0.1, 0.0},
		{0.3, -0.2, 0.4, 0.1},
		{0.0, 0.15, 0.2, -0.3},
		{0.2, 0.1, 0.0, 0.05},
	})
	const eps = 1e-9
	for _, line := range []float64{10, 20} {
		for _, v := range []float64{0, 3, 12.5, 27} {
			assert.InDelta(t, ubl.Z_correction(line-eps, v), ubl.Z_correction(line, v), 1e-6)
			assert.InDelta(t, ubl.Z_correction(v, line-eps), ubl.Z_correction(v, line), 1e-6)
		}
	}
}

func TestUblOffMeshPolicies(t *testing.T) {
	cfg := testMeshConfig(config.StrategyUBL, 3, 3)
	extrapolate := newTestStrategy(t, cfg, bump())
	assert.InDelta(t, -0.5, extrapolate.Z_correction(-5, 10), 1e-12)
	assert.InDelta(t, -0.5, extrapolate.Z_correction(10, -5), 1e-12)

	cfg.OffMesh = config.OffMeshEdge
	edge := newTestStrategy(t, cfg, bump())
	assert.InDelta(t, 0, edge.Z_correction(-5, 10), 1e-12)
	assert.InDelta(t, 0, edge.Z_correction(10, -40), 1e-12)
	assert.InDelta(t, 0.5, edge.Z_correction(15, 10), 1e-12)

	cfg.OffMesh = config.OffMeshRaise
	cfg.RaiseZ = 2
	raise := newTestStrategy(t, cfg, bump())
	assert.Equal(t, 2.0, raise.Z_correction(-5, 10))
	assert.InDelta(t, 1.0, raise.Z_correction(10, 10), 1e-12)
}

func TestUblInvalidCellDegradesToZero(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.SetLogger(zap.New(core))
	defer logger.SetLogger(nil)

	values := bump()
	values[2][2] = INVALID_Z
	ubl := newTestStrategy(t, testMeshConfig(config.StrategyUBL, 3, 3), values)

	assert.Equal(t, 0.0, ubl.Z_correction(15, 15))
	assert.Equal(t, 0.0, ubl.Z_correction(16, 17))
	assert.InDelta(t, 0.25, ubl.Z_correction(5, 5), 1e-12)
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "cell (1, 1)")
}

func TestUblMeshHelpers(t *testing.T) {
	strategy := newTestStrategy(t, testMeshConfig(config.StrategyUBL, 3, 3), bump())
	ubl := strategy.(*UblLeveling)
	assert.Equal(t, 1, ubl.Closest_x_index(12))
	assert.Equal(t, -1, ubl.Closest_y_index(40))

	ubl.Shift_mesh_height(-1)
	assert.InDelta(t, 0, ubl.Z_correction(10, 10), 1e-12)
	ubl.Adjust_mesh_to_mean(0.25)
	mean, _ := ubl.Mesh().Mean()
	assert.InDelta(t, 0.25, mean, 1e-12)
}

func TestMeshLevelingAddsZOffset(t *testing.T) {
	cfg := testMeshConfig(config.StrategyMesh, 3, 3)
	cfg.ZOffset = 0.1
	strategy := newTestStrategy(t, cfg, bump())
	mbl := strategy.(*MeshLeveling)
	assert.Equal(t, STRATEGY_MESH, mbl.Kind())
	assert.InDelta(t, 1.1, mbl.Z_correction(10, 10), 1e-12)
	assert.InDelta(t, 0.35, mbl.Z_correction(5, 5), 1e-12)

	mbl.Set_z_offset(0)
	assert.InDelta(t, 0.25, mbl.Z_correction(5, 5), 1e-12)
}

func TestNewLevelingStrategyRejectsUnknown(t *testing.T) {
	cfg := testMeshConfig("delta", 3, 3)
	_, err := NewLevelingStrategy(cfg)
	require.Error(t, err)

	cfg = testMeshConfig(config.StrategyUBL, 3, 3)
	cfg.OffMesh = "wrap"
	_, err = NewLevelingStrategy(cfg)
	require.Error(t, err)
}
