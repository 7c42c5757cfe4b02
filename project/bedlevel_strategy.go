package project

import (
	"bedlevel/common/config"
	"bedlevel/common/logger"
	"bedlevel/common/utils/maths"
	"fmt"
)

func Parse_off_mesh_policy(name string) (OffMeshPolicy, error) {
	switch name {
	case "", config.OffMeshExtrapolate:
		return OFF_MESH_EXTRAPOLATE, nil
	case config.OffMeshEdge:
		return OFF_MESH_EDGE, nil
	case config.OffMeshRaise:
		return OFF_MESH_RAISE, nil
	}
	return OFF_MESH_EXTRAPOLATE, fmt.Errorf("bed_level: unknown off mesh policy '%s'", name)
}

// offMesh decides what a query outside the probed rectangle sees.
type offMesh struct {
	policy OffMeshPolicy
	raiseZ float64
}

// resolve returns the coordinates to interpolate at, or raised=true when
// the fixed raise applies instead.
func (self offMesh) resolve(geom *GridGeometry, x, y float64) (float64, float64, bool) {
	switch self.policy {
	case OFF_MESH_EDGE:
		x, y = geom.Clamp(x, y)
	case OFF_MESH_RAISE:
		if !geom.Contains(x, y) {
			return x, y, true
		}
	}
	return x, y, false
}

// cellZ is the three calc_z0 chain over the clamped cell holding (x, y):
// bottom edge, top edge, then across Y.
func cellZ(geom *GridGeometry, at func(x, y int) float64, x, y float64) (float64, int, int) {
	cx, cy := geom.Cell_index_x(x), geom.Cell_index_y(y)
	x1, x2 := geom.Mesh_index_to_pos(cx, X_AXIS), geom.Mesh_index_to_pos(cx+1, X_AXIS)
	z1 := maths.CalcZ0(x, x1, at(cx, cy), x2, at(cx+1, cy))
	z2 := maths.CalcZ0(x, x1, at(cx, cy+1), x2, at(cx+1, cy+1))
	z0 := maths.CalcZ0(y, geom.Mesh_index_to_pos(cy, Y_AXIS), z1, geom.Mesh_index_to_pos(cy+1, Y_AXIS), z2)
	return z0, cx, cy
}

// finiteCorrection substitutes 0.0 for a NaN result, warning once per cell.
func finiteCorrection(kind StrategyKind, z float64, cx, cy int) float64 {
	if !Is_invalid_z(z) {
		return z
	}
	logger.WarnOncef(fmt.Sprintf("%s:%d:%d", kind, cx, cy),
		"bed_level: %s cell (%d, %d) touches unprobed points, correction set to 0.0", kind, cx, cy)
	return 0
}
