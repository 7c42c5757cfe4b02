package project

import (
	"bedlevel/common/file"
	"bedlevel/common/logger"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

const SETTINGS_VERSION = 1

var (
	ErrSettingsVersion = errors.New("bed_level: unsupported settings version")
	ErrMeshDimensions  = errors.New("bed_level: mesh dimensions do not match")
)

// SettingsBlock is the persisted leveling state. Unprobed points are null.
type SettingsBlock struct {
	Version    int          `yaml:"version"`
	Strategy   string       `yaml:"strategy"`
	PointsX    int          `yaml:"points_x"`
	PointsY    int          `yaml:"points_y"`
	Active     bool         `yaml:"active"`
	FadeHeight float64      `yaml:"fade_height"`
	Mesh       [][]*float64 `yaml:"mesh"`
}

func (self *LevelingContext) Get_settings() SettingsBlock {
	mesh := self.strategy.Mesh()
	px, py := mesh.Points()
	block := SettingsBlock{
		Version:    SETTINGS_VERSION,
		Strategy:   self.strategy.Kind().String(),
		PointsX:    px,
		PointsY:    py,
		Active:     self.active,
		FadeHeight: self.fadeHeight,
		Mesh:       make([][]*float64, px),
	}
	for x := 0; x < px; x++ {
		block.Mesh[x] = make([]*float64, py)
		for y := 0; y < py; y++ {
			if z, ok := mesh.Lookup(x, y); ok {
				block.Mesh[x][y] = &z
			}
		}
	}
	return block
}

// Set_settings restores a block. The mesh is loaded with leveling off,
// then fade height and the active flag are applied in that order.
func (self *LevelingContext) Set_settings(block SettingsBlock) error {
	if block.Version != SETTINGS_VERSION {
		return fmt.Errorf("%w: %d", ErrSettingsVersion, block.Version)
	}
	px, py := self.strategy.Mesh().Points()
	if block.PointsX != px || block.PointsY != py || len(block.Mesh) != px {
		return fmt.Errorf("%w: settings hold %dx%d, mesh is %dx%d", ErrMeshDimensions, block.PointsX, block.PointsY, px, py)
	}
	if block.Strategy != self.strategy.Kind().String() {
		logger.Warnf("bed_level: settings were saved for %s leveling, loading into %s", block.Strategy, self.strategy.Kind())
	}
	values := make([][]float64, px)
	for x, column := range block.Mesh {
		if len(column) != py {
			return fmt.Errorf("%w: settings column %d has %d points, expected %d", ErrMeshDimensions, x, len(column), py)
		}
		values[x] = make([]float64, py)
		for y, z := range column {
			values[x][y] = INVALID_Z
			if z != nil {
				values[x][y] = *z
			}
		}
	}

	self.Set_bed_leveling_enabled(false)
	if err := self.strategy.Mesh().Load_values(values); err != nil {
		return err
	}
	self.strategy.Refresh()
	self.Set_z_fade_height(block.FadeHeight)
	if block.Active {
		self.Set_bed_leveling_enabled(true)
	}
	return nil
}

func (self *LevelingContext) Save_settings(path string) error {
	data, err := yaml.Marshal(self.Get_settings())
	if err != nil {
		return err
	}
	if err := file.WriteFileWithSync(path, data); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	self.log.Infof("settings saved to %s", path)
	return nil
}

func (self *LevelingContext) Load_settings(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read settings %s: %w", path, err)
	}
	var block SettingsBlock
	if err := yaml.Unmarshal(data, &block); err != nil {
		return fmt.Errorf("decode settings %s: %w", path, err)
	}
	if err := self.Set_settings(block); err != nil {
		return err
	}
	self.log.Infof("settings loaded from %s", path)
	return nil
}
