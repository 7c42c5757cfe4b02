package project

// UblLeveling interpolates straight over the probed grid.
type UblLeveling struct {
	mesh    *Mesh
	geom    *GridGeometry
	offMesh offMesh
}

var _ LevelingStrategy = (*UblLeveling)(nil)

func NewUblLeveling(mesh *Mesh, geom *GridGeometry, policy OffMeshPolicy, raiseZ float64) *UblLeveling {
	return &UblLeveling{
		mesh:    mesh,
		geom:    geom,
		offMesh: offMesh{policy: policy, raiseZ: raiseZ},
	}
}

func (self *UblLeveling) levelingStrategy() {}

func (self *UblLeveling) Kind() StrategyKind {
	return STRATEGY_UBL
}

func (self *UblLeveling) Mesh() *Mesh {
	return self.mesh
}

func (self *UblLeveling) Geometry() *GridGeometry {
	return self.geom
}

// Refresh has nothing to rebuild; corrections read the mesh directly.
func (self *UblLeveling) Refresh() {}

func (self *UblLeveling) Z_correction(x, y float64) float64 {
	x, y, raised := self.offMesh.resolve(self.geom, x, y)
	if raised {
		return self.offMesh.raiseZ
	}
	z0, cx, cy := cellZ(self.geom, self.mesh.Get, x, y)
	return finiteCorrection(STRATEGY_UBL, z0, cx, cy)
}

// Closest_x_index and Closest_y_index return -1 off the mesh.
func (self *UblLeveling) Closest_x_index(x float64) int {
	return self.geom.Closest_index(x, X_AXIS)
}

func (self *UblLeveling) Closest_y_index(y float64) int {
	return self.geom.Closest_index(y, Y_AXIS)
}

func (self *UblLeveling) Shift_mesh_height(offset float64) {
	self.mesh.Shift_mesh_height(offset)
}

func (self *UblLeveling) Adjust_mesh_to_mean(offset float64) {
	self.mesh.Adjust_mesh_to_mean(offset)
}
