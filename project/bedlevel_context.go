package project

import (
	"bedlevel/common/logger"
	"bedlevel/common/utils/maths"
	"bedlevel/common/utils/sys"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// LevelingContext owns the active strategy and the leveling state machine.
// It is driven from a single command goroutine and does no locking; calls
// from any other goroutine are logged.
type LevelingContext struct {
	strategy LevelingStrategy
	planner  Planner

	active              bool
	fadeHeight          float64
	allowPartial        bool
	extrapolateFromEdge bool

	owner uint64
	log   *zap.SugaredLogger
}

func NewLevelingContext(strategy LevelingStrategy, planner Planner) *LevelingContext {
	self := &LevelingContext{
		strategy: strategy,
		planner:  planner,
		owner:    sys.GetGID(),
		log:      logger.Named("bed_level"),
	}
	return self
}

func (self *LevelingContext) checkOwner(op string) {
	if gid := sys.GetGID(); gid != self.owner {
		logger.WarnOncef(fmt.Sprintf("owner:%s:%d", op, gid),
			"bed_level: %s called from goroutine %d, context belongs to %d", op, gid, self.owner)
	}
}

func (self *LevelingContext) Strategy() LevelingStrategy {
	return self.strategy
}

func (self *LevelingContext) Mesh() *Mesh {
	return self.strategy.Mesh()
}

func (self *LevelingContext) Planner() Planner {
	return self.planner
}

func (self *LevelingContext) Set_allow_partial(allow bool) {
	self.allowPartial = allow
}

// Get_z_correction is the raw mesh correction at (x, y), without fade.
func (self *LevelingContext) Get_z_correction(x, y float64) float64 {
	return self.strategy.Z_correction(x, y)
}

func (self *LevelingContext) Leveling_is_active() bool {
	return self.active
}

// Leveling_is_valid requires every point probed unless partial meshes are
// allowed, in which case one valid point is enough.
func (self *LevelingContext) Leveling_is_valid() bool {
	mesh := self.strategy.Mesh()
	if self.allowPartial {
		return mesh.Valid_count() > 0
	}
	return mesh.Is_valid_all()
}

// Set_bed_leveling_enabled switches leveling on or off without moving the
// nozzle: the physical position is taken under the old state and the
// commanded position recomputed under the new one. Enabling is refused on
// an invalid mesh. Returns the resulting state.
func (self *LevelingContext) Set_bed_leveling_enabled(enable bool) bool {
	self.checkOwner("set_bed_leveling_enabled")
	canChange := !enable || self.Leveling_is_valid()
	if !canChange {
		self.log.Warnf("leveling not enabled, mesh has %d unprobed points", self.unprobedCount())
		return self.active
	}
	if enable == self.active {
		return self.active
	}
	self.planner.Synchronize()
	pos := self.planner.Get_position()
	pos = self.Apply_leveling(pos)
	self.active = enable
	pos = self.Unapply_leveling(pos)
	self.planner.Set_position(pos)
	self.log.Infof("bed leveling %s", onOff(self.active))
	return self.active
}

func (self *LevelingContext) unprobedCount() int {
	px, py := self.strategy.Mesh().Points()
	return px*py - self.strategy.Mesh().Valid_count()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (self *LevelingContext) Z_fade_height() float64 {
	return self.fadeHeight
}

// Set_z_fade_height re-baselines the commanded position under the new fade
// law by cycling leveling off and back on.
func (self *LevelingContext) Set_z_fade_height(height float64) {
	self.checkOwner("set_z_fade_height")
	if height < 0 {
		height = 0
	}
	if height == self.fadeHeight {
		return
	}
	wasActive := self.active
	self.Set_bed_leveling_enabled(false)
	self.fadeHeight = height
	if wasActive {
		self.Set_bed_leveling_enabled(true)
	}
	self.log.Debugf("fade height %.3f", height)
}

// Fade_scaling_factor_for_z is 1 - z/H clamped to [0, 1], or 1 without fade.
func (self *LevelingContext) Fade_scaling_factor_for_z(z float64) float64 {
	if self.fadeHeight == 0 {
		return 1
	}
	return maths.Saturate(1-z/self.fadeHeight, 0, 1)
}

// Apply_leveling turns a commanded position into a physical one.
func (self *LevelingContext) Apply_leveling(pos Position) Position {
	if !self.active {
		return pos
	}
	factor := self.Fade_scaling_factor_for_z(pos[Z_AXIS])
	if factor == 0 {
		return pos
	}
	x, y := pos.XY()
	pos[Z_AXIS] += factor * self.strategy.Z_correction(x, y)
	return pos
}

// Unapply_leveling is the exact inverse of Apply_leveling.
func (self *LevelingContext) Unapply_leveling(pos Position) Position {
	if !self.active {
		return pos
	}
	h := self.fadeHeight
	p := pos[Z_AXIS]
	if h != 0 && p >= h {
		return pos
	}
	x, y := pos.XY()
	m := self.strategy.Z_correction(x, y)
	l := p - m
	if h != 0 && l > 0 && m < h {
		l = (p - m) / (1 - m/h)
	}
	pos[Z_AXIS] = l
	return pos
}

// Physical_position is where the nozzle really is.
func (self *LevelingContext) Physical_position() Position {
	return self.Apply_leveling(self.planner.Get_position())
}

func (self *LevelingContext) Reset_bed_level() {
	self.checkOwner("reset_bed_level")
	self.Set_bed_leveling_enabled(false)
	self.strategy.Mesh().Reset()
	self.strategy.Refresh()
	self.log.Infof("mesh reset")
}

// Extrapolate_unprobed_bed_level fills unprobed points from their probed
// neighbors and returns how many were written.
func (self *LevelingContext) Extrapolate_unprobed_bed_level() int {
	self.checkOwner("extrapolate_unprobed_bed_level")
	filled := Extrapolate_unprobed(self.strategy.Mesh(), self.extrapolateFromEdge)
	if filled > 0 {
		self.strategy.Refresh()
		self.log.Infof("extrapolated %d unprobed points", filled)
	}
	return filled
}

func (self *LevelingContext) Refresh_bed_level() {
	self.checkOwner("refresh_bed_level")
	self.strategy.Refresh()
}

func (self *LevelingContext) Get_mesh_point(x, y int) (float64, error) {
	if !self.inBounds(x, y) {
		return INVALID_Z, fmt.Errorf("bed_level: mesh point (%d, %d) out of range", x, y)
	}
	return self.strategy.Mesh().Get(x, y), nil
}

// Set_mesh_point overwrites one point; INVALID_Z marks it unprobed and
// infinities are refused. The correction under an active leveling state
// changes with it, so callers that care about position continuity disable
// leveling first.
func (self *LevelingContext) Set_mesh_point(x, y int, z float64) error {
	self.checkOwner("set_mesh_point")
	if !self.inBounds(x, y) {
		return fmt.Errorf("bed_level: mesh point (%d, %d) out of range", x, y)
	}
	if math.IsInf(z, 0) {
		return fmt.Errorf("%w: point (%d, %d)", ErrZInfinite, x, y)
	}
	self.strategy.Mesh().Set(x, y, z)
	return nil
}

func (self *LevelingContext) inBounds(x, y int) bool {
	px, py := self.strategy.Mesh().Points()
	return x >= 0 && y >= 0 && x < px && y < py
}

// Load_mesh replaces the whole mesh, keeping the nozzle still if leveling
// was active.
func (self *LevelingContext) Load_mesh(values [][]float64) error {
	self.checkOwner("load_mesh")
	wasActive := self.active
	self.Set_bed_leveling_enabled(false)
	if err := self.strategy.Mesh().Load_values(values); err != nil {
		return err
	}
	self.strategy.Refresh()
	if wasActive {
		self.Set_bed_leveling_enabled(true)
	}
	return nil
}

// Line_to_destination moves to dest (commanded coordinates). With leveling
// active the move is split at grid lines and every piece is leveled. If the
// planner refuses a piece, the commanded position is left at the end of the
// last piece it accepted.
func (self *LevelingContext) Line_to_destination(dest Position, feedrate float64) error {
	self.checkOwner("line_to_destination")
	start := self.planner.Get_position()
	if !self.active {
		if err := self.planner.Buffer_line(dest, feedrate, 0); err != nil {
			return err
		}
		self.planner.Set_position(dest)
		return nil
	}
	queued := start
	for _, segment := range Split_move(self.strategy.Geometry(), start, dest) {
		if err := self.planner.Buffer_line(self.Apply_leveling(segment), feedrate, 0); err != nil {
			// the planner holds every piece up to queued
			self.planner.Set_position(queued)
			return fmt.Errorf("bed_level: buffer segment: %w", err)
		}
		queued = segment
	}
	self.planner.Set_position(dest)
	return nil
}
