package project

import "bedlevel/common/utils/maths"

// extrapolateOnePoint fills (x, y) from the two neighbors along X, Y and
// the diagonal in direction (xdir, ydir). Chains that leave the mesh at
// their near point are left out. Reports whether it wrote.
func extrapolateOnePoint(mesh *Mesh, x, y, xdir, ydir int) bool {
	if mesh.Is_valid(x, y) {
		return false
	}
	x1, y1 := x+xdir, y+ydir
	x2, y2 := x1+xdir, y1+ydir

	chains := make([]float64, 0, 3)
	for _, c := range [3][4]int{{x1, y, x2, y}, {x, y1, x, y2}, {x1, y1, x2, y2}} {
		if z, ok := extrapolateChain(mesh, c[0], c[1], c[2], c[3]); ok {
			chains = append(chains, z)
		}
	}
	if len(chains) == 0 {
		return false
	}
	// the mean, not the median, of the directions
	mesh.Set(x, y, maths.Mean(chains...))
	return true
}

// extrapolateChain continues near through far by one step. An unprobed
// far point counts as zero and an unprobed near point takes the far value.
// A far point off the mesh continues flat from near. ok is false when the
// chain has nothing on the mesh to go on.
func extrapolateChain(mesh *Mesh, nx, ny, fx, fy int) (float64, bool) {
	px, py := mesh.Points()
	if nx < 0 || ny < 0 || nx >= px || ny >= py {
		return 0, false
	}
	near, nearOk := mesh.Lookup(nx, ny)
	if fx < 0 || fy < 0 || fx >= px || fy >= py {
		return near, nearOk
	}
	far, ok := mesh.Lookup(fx, fy)
	if !ok {
		far = 0
	}
	if !nearOk {
		near = far
	}
	return maths.LinearExtrapolation(near, far), true
}

// Extrapolate_unprobed fills unprobed points working from the center lines
// outward, each quadrant pulling toward the center. With fromEdge set and a
// non-square grid, the shorter axis is treated as probed from its low edge
// only. Returns the number of points written.
func Extrapolate_unprobed(mesh *Mesh, fromEdge bool) int {
	px, py := mesh.Points()
	halfInX := fromEdge && px < py
	halfInY := fromEdge && py < px

	ctrx1, ctrx2, xend := (px-1)/2, px/2, (px-1)/2
	if halfInX {
		ctrx1, ctrx2, xend = 0, 0, px-1
	}
	ctry1, ctry2, yend := (py-1)/2, py/2, (py-1)/2
	if halfInY {
		ctry1, ctry2, yend = 0, 0, py-1
	}

	filled := 0
	fill := func(x, y, xdir, ydir int) {
		if extrapolateOnePoint(mesh, x, y, xdir, ydir) {
			filled++
		}
	}
	for xo := 0; xo <= xend; xo++ {
		for yo := 0; yo <= yend; yo++ {
			x1, x2 := ctrx1-xo, ctrx2+xo
			y1, y2 := ctry1-yo, ctry2+yo
			if !halfInY {
				if !halfInX {
					fill(x1, y1, +1, +1)
				}
				fill(x2, y1, -1, +1)
			}
			if !halfInX {
				fill(x1, y2, +1, -1)
			}
			fill(x2, y2, -1, -1)
		}
	}
	return filled
}
