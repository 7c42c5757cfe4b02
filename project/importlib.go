package project

import (
	"bedlevel/common/config"
	"bedlevel/common/logger"
	"fmt"
)

type strategyLoader func(mesh *Mesh, geom *GridGeometry, cfg config.MeshConfig, policy OffMeshPolicy) LevelingStrategy

// load leveling strategy by config name
func LoadLevelingStrategies() map[string]strategyLoader {
	module := map[string]strategyLoader{
		config.StrategyUBL:      Load_leveling_ubl,
		config.StrategyBilinear: Load_leveling_bilinear,
		config.StrategyMesh:     Load_leveling_mesh,
	}
	return module
}

func Load_leveling_ubl(mesh *Mesh, geom *GridGeometry, cfg config.MeshConfig, policy OffMeshPolicy) LevelingStrategy {
	return NewUblLeveling(mesh, geom, policy, cfg.RaiseZ)
}

func Load_leveling_bilinear(mesh *Mesh, geom *GridGeometry, cfg config.MeshConfig, policy OffMeshPolicy) LevelingStrategy {
	return NewBilinearLeveling(mesh, geom, policy, cfg.RaiseZ, cfg.Subdivisions)
}

func Load_leveling_mesh(mesh *Mesh, geom *GridGeometry, cfg config.MeshConfig, policy OffMeshPolicy) LevelingStrategy {
	return NewMeshLeveling(mesh, geom, policy, cfg.RaiseZ, cfg.ZOffset)
}

// NewLevelingStrategy builds the one strategy named by cfg over a fresh,
// all-unprobed mesh.
func NewLevelingStrategy(cfg config.MeshConfig) (LevelingStrategy, error) {
	loader, ok := LoadLevelingStrategies()[cfg.Strategy]
	if !ok {
		err := fmt.Errorf("bed_level: strategy '%s' not supported", cfg.Strategy)
		logger.Error(err)
		return nil, err
	}
	policy, err := Parse_off_mesh_policy(cfg.OffMesh)
	if err != nil {
		return nil, err
	}
	geom, err := NewGridGeometry(cfg.PointsX, cfg.PointsY, cfg.MinX, cfg.MinY, cfg.MaxX, cfg.MaxY)
	if err != nil {
		return nil, err
	}
	mesh, err := NewMesh(cfg.PointsX, cfg.PointsY, cfg.Compact)
	if err != nil {
		return nil, err
	}
	return loader(mesh, geom, cfg, policy), nil
}

func NewLevelingContextFromConfig(cfg config.MeshConfig, planner Planner) (*LevelingContext, error) {
	strategy, err := NewLevelingStrategy(cfg)
	if err != nil {
		return nil, err
	}
	self := NewLevelingContext(strategy, planner)
	self.allowPartial = cfg.AllowPartial
	self.extrapolateFromEdge = cfg.ExtrapolateFromEdge
	self.fadeHeight = cfg.FadeHeight
	return self, nil
}
