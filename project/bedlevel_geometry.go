package project

import (
	"bedlevel/common/utils/maths"
	"fmt"
	"math"
)

// GridGeometry maps physical X/Y onto mesh indices. Axis arguments are
// X_AXIS or Y_AXIS.
type GridGeometry struct {
	Points  [2]int
	Origin  [2]float64
	Spacing [2]float64

	index_to_pos [2][]float64
}

func NewGridGeometry(pointsX, pointsY int, minX, minY, maxX, maxY float64) (*GridGeometry, error) {
	if pointsX < 2 || pointsY < 2 || pointsX > MAX_GRID_POINTS || pointsY > MAX_GRID_POINTS {
		return nil, fmt.Errorf("%w: got %dx%d", ErrGridSize, pointsX, pointsY)
	}
	if maxX <= minX || maxY <= minY {
		return nil, fmt.Errorf("bed_level: mesh bounds min(%.3f, %.3f) max(%.3f, %.3f) are empty",
			minX, minY, maxX, maxY)
	}
	spacing := [2]float64{
		(maxX - minX) / float64(pointsX-1),
		(maxY - minY) / float64(pointsY-1),
	}
	return newGridGeometry([2]int{pointsX, pointsY}, [2]float64{minX, minY}, spacing), nil
}

func newGridGeometry(points [2]int, origin, spacing [2]float64) *GridGeometry {
	self := &GridGeometry{Points: points, Origin: origin, Spacing: spacing}
	for axis := X_AXIS; axis <= Y_AXIS; axis++ {
		table := make([]float64, points[axis])
		for i := range table {
			table[i] = origin[axis] + float64(i)*spacing[axis]
		}
		self.index_to_pos[axis] = table
	}
	return self
}

// Subdivide returns the geometry of a grid with n steps between each pair
// of real grid lines.
func (self *GridGeometry) Subdivide(n int) *GridGeometry {
	if n <= 1 {
		return self
	}
	points := [2]int{(self.Points[0]-1)*n + 1, (self.Points[1]-1)*n + 1}
	spacing := [2]float64{self.Spacing[0] / float64(n), self.Spacing[1] / float64(n)}
	return newGridGeometry(points, self.Origin, spacing)
}

// Cell_index_raw is unclamped and may be negative or past the last cell.
func (self *GridGeometry) Cell_index_raw(coord float64, axis int) int {
	return int(math.Floor((coord - self.Origin[axis]) / self.Spacing[axis]))
}

// Cell_index is the lower-left grid line of the cell holding coord,
// clamped to [0, points-2].
func (self *GridGeometry) Cell_index(coord float64, axis int) int {
	return maths.SaturateInt(self.Cell_index_raw(coord, axis), 0, self.Points[axis]-2)
}

func (self *GridGeometry) Cell_index_x(x float64) int {
	return self.Cell_index(x, X_AXIS)
}

func (self *GridGeometry) Cell_index_y(y float64) int {
	return self.Cell_index(y, Y_AXIS)
}

// Closest_index is the nearest grid line, or -1 when coord is off the mesh.
func (self *GridGeometry) Closest_index(coord float64, axis int) int {
	p := int(math.Floor((coord - self.Origin[axis] + self.Spacing[axis]*0.5) / self.Spacing[axis]))
	if p < 0 || p > self.Points[axis]-1 {
		return -1
	}
	return p
}

// Mesh_index_to_pos falls back to origin + i*spacing outside the table;
// the virtual grid builder relies on that to reach one line past the edge.
func (self *GridGeometry) Mesh_index_to_pos(i int, axis int) float64 {
	table := self.index_to_pos[axis]
	if i >= 0 && i < len(table) {
		return table[i]
	}
	return self.Origin[axis] + float64(i)*self.Spacing[axis]
}

func (self *GridGeometry) Min_bound(axis int) float64 {
	return self.Origin[axis]
}

func (self *GridGeometry) Max_bound(axis int) float64 {
	return self.Mesh_index_to_pos(self.Points[axis]-1, axis)
}

func (self *GridGeometry) Contains(x, y float64) bool {
	return x >= self.Min_bound(X_AXIS) && x <= self.Max_bound(X_AXIS) &&
		y >= self.Min_bound(Y_AXIS) && y <= self.Max_bound(Y_AXIS)
}

// Clamp pulls a point onto the mesh rectangle.
func (self *GridGeometry) Clamp(x, y float64) (float64, float64) {
	return maths.Saturate(x, self.Min_bound(X_AXIS), self.Max_bound(X_AXIS)),
		maths.Saturate(y, self.Min_bound(Y_AXIS), self.Max_bound(Y_AXIS))
}
