package project

import (
	"bedlevel/common/utils/maths"
	"math"
)

// gridLineFlags has one bit per grid line; a set bit means the line may
// still be split on.
type gridLineFlags [(MAX_GRID_POINTS + 63) / 64]uint64

func allGridLines() gridLineFlags {
	var flags gridLineFlags
	for i := range flags {
		flags[i] = ^uint64(0)
	}
	return flags
}

func (self gridLineFlags) test(i int) bool {
	return self[i/64]&(1<<(uint(i)%64)) != 0
}

func (self *gridLineFlags) clear(i int) {
	self[i/64] &^= 1 << (uint(i) % 64)
}

type moveSplitter struct {
	geom *GridGeometry
	out  []Position
}

// Split_move breaks the straight move start->dest at every grid line it
// crosses so each piece stays inside one cell. The result holds the end
// point of each piece in order; the last is always dest. Split flags are
// scoped to this one call.
func Split_move(geom *GridGeometry, start, dest Position) []Position {
	s := &moveSplitter{geom: geom}
	s.split(start, dest, allGridLines(), allGridLines())
	return s.out
}

// cellToward is the cell holding p, except that a point exactly on a grid
// line belongs to the cell on the side of toward. Split points land on grid
// lines, so a plain floor would put a head segment in the next cell.
func (self *moveSplitter) cellToward(p, toward Position) [2]int {
	g := self.geom
	var cell [2]int
	for axis := X_AXIS; axis <= Y_AXIS; axis++ {
		idx := g.Cell_index_raw(p[axis], axis)
		line := int(math.Round((p[axis] - g.Origin[axis]) / g.Spacing[axis]))
		if g.Mesh_index_to_pos(line, axis) == p[axis] {
			idx = line
			if toward[axis] < p[axis] {
				idx = line - 1
			}
		}
		cell[axis] = maths.SaturateInt(idx, 0, g.Points[axis]-2)
	}
	return cell
}

// split takes the flags by value: each recursion level sees the lines its
// ancestors already split on, siblings do not share deeper splits.
func (self *moveSplitter) split(cur, dest Position, xSplits, ySplits gridLineFlags) {
	c1, c2 := self.cellToward(cur, dest), self.cellToward(dest, cur)
	if c1 == c2 {
		self.out = append(self.out, dest)
		return
	}
	gc := [2]int{max(c1[X_AXIS], c2[X_AXIS]), max(c1[Y_AXIS], c2[Y_AXIS])}

	mid := dest
	var t float64
	if c2[X_AXIS] != c1[X_AXIS] && xSplits.test(gc[X_AXIS]) {
		xSplits.clear(gc[X_AXIS])
		mid[X_AXIS] = self.geom.Mesh_index_to_pos(gc[X_AXIS], X_AXIS)
		t = (mid[X_AXIS] - cur[X_AXIS]) / (dest[X_AXIS] - cur[X_AXIS])
		mid[Y_AXIS] = maths.Lerp(t, cur[Y_AXIS], dest[Y_AXIS])
	} else if c2[Y_AXIS] != c1[Y_AXIS] && ySplits.test(gc[Y_AXIS]) {
		ySplits.clear(gc[Y_AXIS])
		mid[Y_AXIS] = self.geom.Mesh_index_to_pos(gc[Y_AXIS], Y_AXIS)
		t = (mid[Y_AXIS] - cur[Y_AXIS]) / (dest[Y_AXIS] - cur[Y_AXIS])
		mid[X_AXIS] = maths.Lerp(t, cur[X_AXIS], dest[X_AXIS])
	} else {
		// already split on these lines; rounding left us straddling one
		self.out = append(self.out, dest)
		return
	}
	mid[Z_AXIS] = maths.Lerp(t, cur[Z_AXIS], dest[Z_AXIS])
	mid[E_AXIS] = maths.Lerp(t, cur[E_AXIS], dest[E_AXIS])

	self.split(cur, mid, xSplits, ySplits)
	self.split(mid, dest, xSplits, ySplits)
}
