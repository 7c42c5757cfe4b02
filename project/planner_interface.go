package project

const (
	X_AXIS = 0
	Y_AXIS = 1
	Z_AXIS = 2
	E_AXIS = 3
)

// Position is an X, Y, Z, E vector in millimetres.
type Position [4]float64

func (self Position) XY() (float64, float64) {
	return self[X_AXIS], self[Y_AXIS]
}

// Planner is the motion side the leveling core drives. Positions handed to
// Buffer_line are physical (already leveled); Get_position and
// Set_position work on the commanded, unleveled position.
type Planner interface {
	// Synchronize blocks until every buffered move has been executed.
	Synchronize()
	Get_position() Position
	// Set_position replaces the commanded position without moving.
	Set_position(pos Position)
	Buffer_line(pos Position, feedrate float64, extruder int) error
}
