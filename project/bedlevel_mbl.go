package project

// MeshLeveling is manual mesh bed leveling: the same cell interpolation as
// UBL with a constant z_offset on top.
type MeshLeveling struct {
	mesh    *Mesh
	geom    *GridGeometry
	offMesh offMesh
	zOffset float64
}

var _ LevelingStrategy = (*MeshLeveling)(nil)

func NewMeshLeveling(mesh *Mesh, geom *GridGeometry, policy OffMeshPolicy, raiseZ, zOffset float64) *MeshLeveling {
	return &MeshLeveling{
		mesh:    mesh,
		geom:    geom,
		offMesh: offMesh{policy: policy, raiseZ: raiseZ},
		zOffset: zOffset,
	}
}

func (self *MeshLeveling) levelingStrategy() {}

func (self *MeshLeveling) Kind() StrategyKind {
	return STRATEGY_MESH
}

func (self *MeshLeveling) Mesh() *Mesh {
	return self.mesh
}

func (self *MeshLeveling) Geometry() *GridGeometry {
	return self.geom
}

func (self *MeshLeveling) Refresh() {}

func (self *MeshLeveling) Z_offset() float64 {
	return self.zOffset
}

func (self *MeshLeveling) Set_z_offset(offset float64) {
	self.zOffset = offset
}

func (self *MeshLeveling) Z_correction(x, y float64) float64 {
	x, y, raised := self.offMesh.resolve(self.geom, x, y)
	if raised {
		return self.offMesh.raiseZ
	}
	z0, cx, cy := cellZ(self.geom, self.mesh.Get, x, y)
	return self.zOffset + finiteCorrection(STRATEGY_MESH, z0, cx, cy)
}
