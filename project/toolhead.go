package project

import (
	"bedlevel/common/logger"
	"bedlevel/project/queue"
	"errors"
	"fmt"
	"math"
)

/*
// Common suffixes: _d is distance (in mm), _v is velocity (in
//   mm/second), _t is time (in seconds)
*/

const (
	DEFAULT_MAX_VELOCITY = 300.
	LOOKAHEAD_DEPTH      = 16
)

type Move struct {
	Start_pos         Position
	End_pos           Position
	Axes_d            Position
	Move_d            float64
	Velocity          float64
	Min_move_t        float64
	Is_kinematic_move bool
	Extruder          int
}

func NewMove(start_pos, end_pos Position, speed, max_velocity float64, extruder int) *Move {
	self := &Move{}
	self.Start_pos = start_pos
	self.End_pos = end_pos
	self.Extruder = extruder
	self.Velocity = math.Min(speed, max_velocity)
	self.Is_kinematic_move = true
	for i := range self.Axes_d {
		self.Axes_d[i] = end_pos[i] - start_pos[i]
	}
	axes_d := self.Axes_d
	self.Move_d = math.Sqrt(axes_d[0]*axes_d[0] + axes_d[1]*axes_d[1] + axes_d[2]*axes_d[2])
	if self.Move_d < 0.000000001 {
		// Extrude-only move
		self.End_pos = Position{start_pos[0], start_pos[1], start_pos[2], end_pos[3]}
		self.Axes_d[0], self.Axes_d[1], self.Axes_d[2] = 0., 0., 0.
		self.Move_d = math.Abs(axes_d[3])
		self.Velocity = speed
		self.Is_kinematic_move = false
	}
	if self.Velocity > 0 {
		self.Min_move_t = self.Move_d / self.Velocity
	}
	return self
}

func (self *Move) Move_error(msg string) error {
	ep := self.End_pos
	m := fmt.Sprintf("%s: %.3f %.3f %.3f [%.3f]", msg, ep[0], ep[1], ep[2], ep[3])
	return errors.New(m)
}

// Toolhead is an in-process Planner. Buffered moves wait in a lookahead
// queue and are executed, in order, into the move history.
type Toolhead struct {
	Max_velocity  float64
	Commanded_pos Position
	Print_time    float64

	last_pos  Position
	lookahead *queue.Queue[*Move]
	history   []*Move
}

var _ Planner = (*Toolhead)(nil)

func NewToolhead(max_velocity float64) *Toolhead {
	if max_velocity <= 0 {
		max_velocity = DEFAULT_MAX_VELOCITY
	}
	self := &Toolhead{}
	self.Max_velocity = max_velocity
	self.lookahead = queue.NewQueue[*Move]()
	return self
}

func (self *Toolhead) Get_position() Position {
	return self.Commanded_pos
}

func (self *Toolhead) Set_position(newpos Position) {
	self.Commanded_pos = newpos
}

// Buffer_line queues a move to a physical position.
func (self *Toolhead) Buffer_line(pos Position, feedrate float64, extruder int) error {
	for _, v := range pos {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewMove(self.last_pos, pos, feedrate, self.Max_velocity, extruder).Move_error("Move out of range")
		}
	}
	if feedrate <= 0 {
		return fmt.Errorf("toolhead: feedrate must be positive, got %.3f", feedrate)
	}
	move := NewMove(self.last_pos, pos, feedrate, self.Max_velocity, extruder)
	if move.Move_d == 0.0 {
		return nil
	}
	self.last_pos = move.End_pos
	self.lookahead.Put_nowait(move)
	if self.lookahead.Len() > LOOKAHEAD_DEPTH {
		self.process_next()
	}
	return nil
}

func (self *Toolhead) process_next() bool {
	move, ok := self.lookahead.Get_nowait()
	if !ok {
		return false
	}
	self.Print_time += move.Min_move_t
	self.history = append(self.history, move)
	logger.Debugf("toolhead: move to %.3f %.3f %.3f [%.3f] at %.1f", move.End_pos[0],
		move.End_pos[1], move.End_pos[2], move.End_pos[3], move.Velocity)
	return true
}

// Synchronize polls the lookahead queue until it is empty.
func (self *Toolhead) Synchronize() {
	for !self.lookahead.Is_empty() {
		self.process_next()
	}
}

// Physical_pos is the end of the last buffered move.
func (self *Toolhead) Physical_pos() Position {
	return self.last_pos
}

// Reset_physical_pos sets where the next buffered move starts from, as
// after homing.
func (self *Toolhead) Reset_physical_pos(pos Position) {
	self.Synchronize()
	self.last_pos = pos
}

func (self *Toolhead) Pending() int {
	return self.lookahead.Len()
}

// Executed returns the moves run so far, oldest first.
func (self *Toolhead) Executed() []*Move {
	return append([]*Move(nil), self.history...)
}
