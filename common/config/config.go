package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
)

const (
	MaxGridPoints = 255

	StrategyUBL      = "ubl"
	StrategyBilinear = "bilinear"
	StrategyMesh     = "mesh"

	OffMeshExtrapolate = "extrapolate"
	OffMeshEdge        = "edge"
	OffMeshRaise       = "raise"
)

type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	Color      bool   `toml:"color"`
	MaxSize    int    `toml:"max_size"`
	MaxBackups int    `toml:"max_backups"`
	MaxAge     int    `toml:"max_age"`
}

type MeshConfig struct {
	Strategy            string  `toml:"strategy"`
	PointsX             int     `toml:"points_x"`
	PointsY             int     `toml:"points_y"`
	MinX                float64 `toml:"min_x"`
	MinY                float64 `toml:"min_y"`
	MaxX                float64 `toml:"max_x"`
	MaxY                float64 `toml:"max_y"`
	Subdivisions        int     `toml:"subdivisions"`
	Compact             bool    `toml:"compact"`
	OffMesh             string  `toml:"off_mesh"`
	RaiseZ              float64 `toml:"raise_z"`
	AllowPartial        bool    `toml:"allow_partial"`
	ExtrapolateFromEdge bool    `toml:"extrapolate_from_edge"`
	ZOffset             float64 `toml:"z_offset"`
	FadeHeight          float64 `toml:"fade_height"`
}

type StorageConfig struct {
	SettingsFile string `toml:"settings_file"`
	SlotsDB      string `toml:"slots_db"`
	ReportPort   string `toml:"report_port"`
	ReportBaud   int    `toml:"report_baud"`
	HeatmapFile  string `toml:"heatmap_file"`
}

type Config struct {
	Log     LogConfig     `toml:"log"`
	Mesh    MeshConfig    `toml:"mesh"`
	Storage StorageConfig `toml:"storage"`
}

// Default mirrors a 3x3 UBL mesh over a 200mm bed.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:      "info",
			Color:      true,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		},
		Mesh: MeshConfig{
			Strategy:     StrategyUBL,
			PointsX:      3,
			PointsY:      3,
			MinX:         10,
			MinY:         10,
			MaxX:         190,
			MaxY:         190,
			Subdivisions: 1,
			OffMesh:      OffMeshExtrapolate,
		},
		Storage: StorageConfig{
			ReportBaud: 115200,
		},
	}
}

// Load decodes path over the defaults. Unknown keys are returned as
// warnings rather than errors.
func Load(path string) (Config, []string, error) {
	cfg := Default()
	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(string(content), cfg)
}

func Parse(content string, cfg Config) (Config, []string, error) {
	md, err := toml.Decode(content, &cfg)
	if err != nil {
		return cfg, nil, fmt.Errorf("decode config: %w", err)
	}
	var warnings []string
	for _, key := range md.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("unknown option '%s'", key.String()))
	}
	cfg.Mesh.Strategy = strings.ToLower(strings.TrimSpace(cfg.Mesh.Strategy))
	cfg.Mesh.OffMesh = strings.ToLower(strings.TrimSpace(cfg.Mesh.OffMesh))
	if err := cfg.Validate(); err != nil {
		return cfg, warnings, err
	}
	return cfg, warnings, nil
}

// Validate reports every problem at once.
func (self Config) Validate() error {
	var err error
	m := self.Mesh
	switch m.Strategy {
	case StrategyUBL, StrategyBilinear, StrategyMesh:
	default:
		err = multierr.Append(err, fmt.Errorf("mesh.strategy '%s' must be one of ubl, bilinear, mesh", m.Strategy))
	}
	switch m.OffMesh {
	case OffMeshExtrapolate, OffMeshEdge, OffMeshRaise:
	default:
		err = multierr.Append(err, fmt.Errorf("mesh.off_mesh '%s' must be one of extrapolate, edge, raise", m.OffMesh))
	}
	if m.PointsX < 2 || m.PointsX > MaxGridPoints {
		err = multierr.Append(err, fmt.Errorf("mesh.points_x must be within [2, %d], got %d", MaxGridPoints, m.PointsX))
	}
	if m.PointsY < 2 || m.PointsY > MaxGridPoints {
		err = multierr.Append(err, fmt.Errorf("mesh.points_y must be within [2, %d], got %d", MaxGridPoints, m.PointsY))
	}
	if m.MaxX <= m.MinX {
		err = multierr.Append(err, fmt.Errorf("mesh.max_x (%.3f) must be above mesh.min_x (%.3f)", m.MaxX, m.MinX))
	}
	if m.MaxY <= m.MinY {
		err = multierr.Append(err, fmt.Errorf("mesh.max_y (%.3f) must be above mesh.min_y (%.3f)", m.MaxY, m.MinY))
	}
	if m.Subdivisions < 1 {
		err = multierr.Append(err, fmt.Errorf("mesh.subdivisions must be at least 1, got %d", m.Subdivisions))
	} else if m.Strategy == StrategyBilinear {
		if (m.PointsX-1)*m.Subdivisions+1 > MaxGridPoints || (m.PointsY-1)*m.Subdivisions+1 > MaxGridPoints {
			err = multierr.Append(err, errors.New("mesh.subdivisions produce a virtual grid above 255 lines"))
		}
	}
	if m.FadeHeight < 0 {
		err = multierr.Append(err, fmt.Errorf("mesh.fade_height must not be negative, got %.3f", m.FadeHeight))
	}
	if self.Storage.ReportPort != "" && self.Storage.ReportBaud <= 0 {
		err = multierr.Append(err, fmt.Errorf("storage.report_baud must be positive, got %d", self.Storage.ReportBaud))
	}
	return err
}
