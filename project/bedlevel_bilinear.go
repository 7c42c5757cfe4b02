package project

import (
	"bedlevel/common/logger"
	"bedlevel/common/utils/maths"
	"math"
)

// BilinearLeveling is auto bed leveling over a bilinear grid. With
// subdivisions > 1 corrections are read from a denser virtual grid built by
// Catmull-Rom interpolation of the probed points.
type BilinearLeveling struct {
	mesh         *Mesh
	geom         *GridGeometry
	offMesh      offMesh
	subdivisions int

	// virtual grid, rebuilt whenever the mesh version moves
	virtGeom     *GridGeometry
	virt         [][]float64
	builtVersion uint64
	built        bool

	cache bilinearCache
}

// bilinearCache keeps the last cell and ratios so scanning motion along
// one axis only recomputes the other.
type bilinearCache struct {
	valid   bool
	prev    [2]float64
	ratio   [2]float64
	thisg   [2]int
	nextg   [2]int
	lastg   [2]int
	z1, d2  float64
	z3, d4  float64
	l, d    float64
	farEdge int
}

var _ LevelingStrategy = (*BilinearLeveling)(nil)

func NewBilinearLeveling(mesh *Mesh, geom *GridGeometry, policy OffMeshPolicy, raiseZ float64, subdivisions int) *BilinearLeveling {
	if subdivisions < 1 {
		subdivisions = 1
	}
	self := &BilinearLeveling{
		mesh:         mesh,
		geom:         geom,
		offMesh:      offMesh{policy: policy, raiseZ: raiseZ},
		subdivisions: subdivisions,
	}
	self.Refresh()
	return self
}

func (self *BilinearLeveling) levelingStrategy() {}

func (self *BilinearLeveling) Kind() StrategyKind {
	return STRATEGY_BILINEAR
}

func (self *BilinearLeveling) Mesh() *Mesh {
	return self.mesh
}

func (self *BilinearLeveling) Subdivisions() int {
	return self.subdivisions
}

// Geometry is the virtual grid when subdividing.
func (self *BilinearLeveling) Geometry() *GridGeometry {
	self.ensureBuilt()
	return self.virtGeom
}

// Virtual_values returns the grid corrections are read from, [x][y].
func (self *BilinearLeveling) Virtual_values() [][]float64 {
	self.ensureBuilt()
	values := make([][]float64, len(self.virt))
	for x, column := range self.virt {
		values[x] = append([]float64(nil), column...)
	}
	return values
}

func (self *BilinearLeveling) Refresh() {
	self.virtGeom = self.geom.Subdivide(self.subdivisions)
	if self.subdivisions > 1 {
		self.subdivideMesh()
	} else {
		self.virt = self.mesh.Values()
	}
	self.builtVersion = self.mesh.Version()
	self.built = true
	self.cache = bilinearCache{}
	logger.Debugf("bed_level: bilinear grid rebuilt %dx%d (subdivisions %d)",
		self.virtGeom.Points[0], self.virtGeom.Points[1], self.subdivisions)
}

func (self *BilinearLeveling) ensureBuilt() {
	if !self.built || self.builtVersion != self.mesh.Version() {
		self.Refresh()
	}
}

// virtCoord reads the real mesh through indices shifted by one, so 0 and
// points+1 are linear extrapolations one line past each edge.
func (self *BilinearLeveling) virtCoord(x, y int) float64 {
	px, py := self.mesh.Points()
	if x > px+1 || y > py+1 {
		// only reached with a zero Catmull-Rom weight
		return 0
	}
	if x == 0 || x == px+1 {
		ep, ip := 0, 1
		if x != 0 {
			ep, ip = px-1, px-2
		}
		if y >= 1 && y <= py {
			return maths.LinearExtrapolation(self.mesh.Get(ep, y-1), self.mesh.Get(ip, y-1))
		}
		return maths.LinearExtrapolation(self.virtCoord(ep+1, y), self.virtCoord(ip+1, y))
	}
	if y == 0 || y == py+1 {
		ep, ip := 0, 1
		if y != 0 {
			ep, ip = py-1, py-2
		}
		if x >= 1 && x <= px {
			return maths.LinearExtrapolation(self.mesh.Get(x-1, ep), self.mesh.Get(x-1, ip))
		}
		return maths.LinearExtrapolation(self.virtCoord(x, ep+1), self.virtCoord(x, ip+1))
	}
	return self.mesh.Get(x-1, y-1)
}

// virt2cmr is the bicubic value inside the cell whose lower-left corner is
// shifted point (x, y), at fractions (tx, ty).
func (self *BilinearLeveling) virt2cmr(x, y int, tx, ty float64) float64 {
	var row, column [4]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			column[j] = self.virtCoord(i+x-1, j+y-1)
		}
		row[i] = maths.CatmullRom(column, ty)
	}
	return maths.CatmullRom(row, tx)
}

func (self *BilinearLeveling) subdivideMesh() {
	px, py := self.mesh.Points()
	s := self.subdivisions
	virt := make([][]float64, self.virtGeom.Points[X_AXIS])
	for x := range virt {
		virt[x] = make([]float64, self.virtGeom.Points[Y_AXIS])
	}
	for y := 0; y < py; y++ {
		for x := 0; x < px; x++ {
			for ty := 0; ty < s; ty++ {
				for tx := 0; tx < s; tx++ {
					if (ty > 0 && y == py-1) || (tx > 0 && x == px-1) {
						continue
					}
					virt[x*s+tx][y*s+ty] = self.virt2cmr(x+1, y+1, float64(tx)/float64(s), float64(ty)/float64(s))
				}
			}
		}
	}
	self.virt = virt
}

func (self *BilinearLeveling) virtAt(x, y int) float64 {
	return self.virt[x][y]
}

func (self *BilinearLeveling) Z_correction(x, y float64) float64 {
	self.ensureBuilt()
	x, y, raised := self.offMesh.resolve(self.virtGeom, x, y)
	if raised {
		return self.offMesh.raiseZ
	}
	return self.bilinearZOffset(x, y)
}

// bilinearZOffset interpolates over the built grid, reusing the cell and
// ratios of the previous query for any axis whose coordinate is unchanged.
func (self *BilinearLeveling) bilinearZOffset(x, y float64) float64 {
	g := self.virtGeom
	c := &self.cache
	if !c.valid {
		c.lastg = [2]int{-99, -99}
		c.farEdge = 2
		if self.offMesh.policy == OFF_MESH_EDGE {
			c.farEdge = 1
		}
	}
	rel := [2]float64{x - g.Origin[X_AXIS], y - g.Origin[Y_AXIS]}

	if !c.valid || c.prev[X_AXIS] != rel[X_AXIS] {
		c.prev[X_AXIS] = rel[X_AXIS]
		self.cacheAxis(X_AXIS, rel[X_AXIS])
	}
	if !c.valid || c.prev[Y_AXIS] != rel[Y_AXIS] || c.lastg[X_AXIS] != c.thisg[X_AXIS] {
		if !c.valid || c.prev[Y_AXIS] != rel[Y_AXIS] {
			c.prev[Y_AXIS] = rel[Y_AXIS]
			self.cacheAxis(Y_AXIS, rel[Y_AXIS])
		}
		if c.lastg != c.thisg {
			c.lastg = c.thisg
			c.z1 = self.virtAt(c.thisg[X_AXIS], c.thisg[Y_AXIS])
			c.d2 = self.virtAt(c.thisg[X_AXIS], c.nextg[Y_AXIS]) - c.z1
			c.z3 = self.virtAt(c.nextg[X_AXIS], c.thisg[Y_AXIS])
			c.d4 = self.virtAt(c.nextg[X_AXIS], c.nextg[Y_AXIS]) - c.z3
		}
		c.l = c.z1 + c.d2*c.ratio[Y_AXIS]
		r := c.z3 + c.d4*c.ratio[Y_AXIS]
		c.d = r - c.l
	}
	c.valid = true

	offset := c.l + c.ratio[X_AXIS]*c.d
	return finiteCorrection(STRATEGY_BILINEAR, offset, c.thisg[X_AXIS], c.thisg[Y_AXIS])
}

func (self *BilinearLeveling) cacheAxis(axis int, rel float64) {
	c := &self.cache
	points := self.virtGeom.Points[axis]
	ratio := rel / self.virtGeom.Spacing[axis]
	g := int(maths.Saturate(math.Floor(ratio), 0, float64(points-c.farEdge)))
	ratio -= float64(g)
	if c.farEdge == 1 {
		// beyond the grid hold the edge height
		ratio = math.Max(ratio, 0)
	}
	c.ratio[axis] = ratio
	c.thisg[axis] = g
	c.nextg[axis] = maths.SaturateInt(g+1, 0, points-1)
}
