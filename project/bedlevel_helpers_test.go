package project

import (
	"bedlevel/common/config"
	"testing"

	"github.com/stretchr/testify/require"
)

// bump is the 3x3 grid with the center raised 1.0 on 10mm spacing.
func bump() [][]float64 {
	return [][]float64{
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 0},
	}
}

// plane fills a px by py grid on 10mm spacing with a tilted plane.
func plane(px, py int) [][]float64 {
	values := make([][]float64, px)
	for x := range values {
		values[x] = make([]float64, py)
		for y := range values[x] {
			values[x][y] = planeZ(float64(x)*10, float64(y)*10)
		}
	}
	return values
}

func planeZ(x, y float64) float64 {
	return 0.01*x + 0.02*y + 0.5
}

func testMeshConfig(strategy string, px, py int) config.MeshConfig {
	cfg := config.Default().Mesh
	cfg.Strategy = strategy
	cfg.PointsX, cfg.PointsY = px, py
	cfg.MinX, cfg.MinY = 0, 0
	cfg.MaxX, cfg.MaxY = float64(px-1)*10, float64(py-1)*10
	return cfg
}

func newTestStrategy(t *testing.T, cfg config.MeshConfig, values [][]float64) LevelingStrategy {
	t.Helper()
	strategy, err := NewLevelingStrategy(cfg)
	require.NoError(t, err)
	if values != nil {
		require.NoError(t, strategy.Mesh().Load_values(values))
		strategy.Refresh()
	}
	return strategy
}

func newTestContext(t *testing.T, cfg config.MeshConfig, values [][]float64) (*LevelingContext, *Toolhead) {
	t.Helper()
	toolhead := NewToolhead(DEFAULT_MAX_VELOCITY)
	ctx, err := NewLevelingContextFromConfig(cfg, toolhead)
	require.NoError(t, err)
	if values != nil {
		require.NoError(t, ctx.Load_mesh(values))
	}
	return ctx, toolhead
}
