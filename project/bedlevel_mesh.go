package project

import (
	"bedlevel/common/utils/maths"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	MAX_GRID_POINTS = 255

	// compact storage keeps micrometres in an int16
	FIXED_POINT_SCALE   = 1000.0
	FIXED_POINT_INVALID = math.MinInt16
)

var (
	ErrGridSize    = errors.New("bed_level: grid must have between 2 and 255 points per axis")
	ErrMeshInvalid = errors.New("bed_level: mesh has unprobed points")
	ErrZInfinite   = errors.New("bed_level: mesh height must be finite")
)

// INVALID_Z marks a mesh point that has not been probed.
var INVALID_Z = math.NaN()

func Is_invalid_z(z float64) bool {
	return math.IsNaN(z)
}

type gridStore interface {
	at(x, y int) float64
	set(x, y int, z float64)
	fill(z float64)
}

// denseStore keeps full precision; rows are X, columns are Y.
type denseStore struct {
	m *mat.Dense
}

func newDenseStore(pointsX, pointsY int) *denseStore {
	return &denseStore{m: mat.NewDense(pointsX, pointsY, nil)}
}

func (self *denseStore) at(x, y int) float64 {
	return self.m.At(x, y)
}

func (self *denseStore) set(x, y int, z float64) {
	self.m.Set(x, y, z)
}

func (self *denseStore) fill(z float64) {
	rows, cols := self.m.Dims()
	for x := 0; x < rows; x++ {
		for y := 0; y < cols; y++ {
			self.m.Set(x, y, z)
		}
	}
}

// fixedStore is the reduced storage variant: 0.001mm steps, +-32.767mm.
type fixedStore struct {
	pointsY int
	cells   []int16
}

func newFixedStore(pointsX, pointsY int) *fixedStore {
	return &fixedStore{pointsY: pointsY, cells: make([]int16, pointsX*pointsY)}
}

func (self *fixedStore) at(x, y int) float64 {
	v := self.cells[x*self.pointsY+y]
	if v == FIXED_POINT_INVALID {
		return INVALID_Z
	}
	return float64(v) / FIXED_POINT_SCALE
}

func (self *fixedStore) set(x, y int, z float64) {
	self.cells[x*self.pointsY+y] = toFixedPoint(z)
}

func (self *fixedStore) fill(z float64) {
	v := toFixedPoint(z)
	for i := range self.cells {
		self.cells[i] = v
	}
}

func toFixedPoint(z float64) int16 {
	if Is_invalid_z(z) {
		return FIXED_POINT_INVALID
	}
	scaled := maths.Saturate(math.Round(z*FIXED_POINT_SCALE), math.MinInt16+1, math.MaxInt16)
	return int16(scaled)
}

// Mesh holds one Z sample per grid point, addressed as [x][y].
type Mesh struct {
	store   gridStore
	pointsX int
	pointsY int
	compact bool
	version uint64
}

func NewMesh(pointsX, pointsY int, compact bool) (*Mesh, error) {
	if pointsX < 2 || pointsY < 2 || pointsX > MAX_GRID_POINTS || pointsY > MAX_GRID_POINTS {
		return nil, fmt.Errorf("%w: got %dx%d", ErrGridSize, pointsX, pointsY)
	}
	self := &Mesh{pointsX: pointsX, pointsY: pointsY, compact: compact}
	if compact {
		self.store = newFixedStore(pointsX, pointsY)
	} else {
		self.store = newDenseStore(pointsX, pointsY)
	}
	self.Reset()
	return self, nil
}

func (self *Mesh) Points() (int, int) {
	return self.pointsX, self.pointsY
}

func (self *Mesh) Is_compact() bool {
	return self.compact
}

// Version increases on every mutation; strategies use it to notice edits.
func (self *Mesh) Version() uint64 {
	return self.version
}

// Get returns the stored height or INVALID_Z. Indices are not clamped.
func (self *Mesh) Get(x, y int) float64 {
	return self.store.at(x, y)
}

// Lookup is Get for callers that may step off the grid.
func (self *Mesh) Lookup(x, y int) (float64, bool) {
	if x < 0 || y < 0 || x >= self.pointsX || y >= self.pointsY {
		return INVALID_Z, false
	}
	z := self.store.at(x, y)
	return z, !Is_invalid_z(z)
}

func (self *Mesh) Set(x, y int, z float64) {
	self.store.set(x, y, z)
	self.version++
}

func (self *Mesh) Is_valid(x, y int) bool {
	_, ok := self.Lookup(x, y)
	return ok
}

func (self *Mesh) Is_valid_all() bool {
	for x := 0; x < self.pointsX; x++ {
		for y := 0; y < self.pointsY; y++ {
			if Is_invalid_z(self.store.at(x, y)) {
				return false
			}
		}
	}
	return true
}

func (self *Mesh) Valid_count() int {
	count := 0
	for x := 0; x < self.pointsX; x++ {
		for y := 0; y < self.pointsY; y++ {
			if !Is_invalid_z(self.store.at(x, y)) {
				count++
			}
		}
	}
	return count
}

func (self *Mesh) Reset() {
	self.store.fill(INVALID_Z)
	self.version++
}

// Values returns a copy indexed [x][y].
func (self *Mesh) Values() [][]float64 {
	values := make([][]float64, self.pointsX)
	for x := range values {
		values[x] = make([]float64, self.pointsY)
		for y := range values[x] {
			values[x][y] = self.store.at(x, y)
		}
	}
	return values
}

func (self *Mesh) flat() []float64 {
	values := make([]float64, 0, self.pointsX*self.pointsY)
	for x := 0; x < self.pointsX; x++ {
		for y := 0; y < self.pointsY; y++ {
			values = append(values, self.store.at(x, y))
		}
	}
	return values
}

// Load_values overwrites the whole mesh from a [x][y] table. NaN marks a
// point unprobed; infinities are rejected before anything is written.
func (self *Mesh) Load_values(values [][]float64) error {
	if len(values) != self.pointsX {
		return fmt.Errorf("bed_level: expected %d columns, got %d", self.pointsX, len(values))
	}
	for x, column := range values {
		if len(column) != self.pointsY {
			return fmt.Errorf("bed_level: column %d has %d points, expected %d", x, len(column), self.pointsY)
		}
		for y, z := range column {
			if math.IsInf(z, 0) {
				return fmt.Errorf("%w: point (%d, %d)", ErrZInfinite, x, y)
			}
		}
	}
	for x, column := range values {
		for y, z := range column {
			self.store.set(x, y, z)
		}
	}
	self.version++
	return nil
}

func (self *Mesh) Copy_from(other *Mesh) error {
	return self.Load_values(other.Values())
}

func (self *Mesh) Clone() *Mesh {
	clone, _ := NewMesh(self.pointsX, self.pointsY, self.compact)
	_ = clone.Copy_from(self)
	return clone
}

// Z_range ignores invalid points; ok is false for an empty mesh.
func (self *Mesh) Z_range() (float64, float64, bool) {
	return maths.FiniteRange(self.flat())
}

func (self *Mesh) Mean() (float64, int) {
	return maths.FiniteMean(self.flat())
}

// Shift_mesh_height adds offset to every valid point.
func (self *Mesh) Shift_mesh_height(offset float64) {
	for x := 0; x < self.pointsX; x++ {
		for y := 0; y < self.pointsY; y++ {
			if z := self.store.at(x, y); !Is_invalid_z(z) {
				self.store.set(x, y, z+offset)
			}
		}
	}
	self.version++
}

// Adjust_mesh_to_mean moves the valid points so their mean equals offset.
func (self *Mesh) Adjust_mesh_to_mean(offset float64) {
	mean, count := self.Mean()
	if count == 0 {
		return
	}
	self.Shift_mesh_height(offset - mean)
}
