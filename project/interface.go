package project

import "fmt"

type StrategyKind int

const (
	STRATEGY_UBL StrategyKind = iota
	STRATEGY_BILINEAR
	STRATEGY_MESH
)

func (self StrategyKind) String() string {
	switch self {
	case STRATEGY_UBL:
		return "ubl"
	case STRATEGY_BILINEAR:
		return "bilinear"
	case STRATEGY_MESH:
		return "mesh"
	}
	return fmt.Sprintf("strategy(%d)", int(self))
}

type OffMeshPolicy int

const (
	// Keep using the first/last grid box, continuing its slope.
	OFF_MESH_EXTRAPOLATE OffMeshPolicy = iota
	// Hold the height found at the mesh edge.
	OFF_MESH_EDGE
	// Return a fixed raise outside the mesh bounds.
	OFF_MESH_RAISE
)

// LevelingStrategy is implemented by UblLeveling, BilinearLeveling and
// MeshLeveling only; exactly one is active per LevelingContext.
type LevelingStrategy interface {
	Kind() StrategyKind
	Mesh() *Mesh
	// Geometry of the grid corrections are interpolated over. For
	// subdivided bilinear leveling this is the virtual grid.
	Geometry() *GridGeometry
	// Z_correction never returns NaN; invalid points degrade to 0.
	Z_correction(x, y float64) float64
	// Refresh rebuilds derived state after the mesh changed.
	Refresh()

	levelingStrategy()
}
