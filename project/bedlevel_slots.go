package project

import (
	"bedlevel/common/logger"
	"database/sql"
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var ErrSlotNotFound = errors.New("bed_level: mesh slot not found")

//go:embed bedlevel_slots.sql
var slotsSchemaSQL string

// SlotStore keeps numbered meshes in a sqlite database.
type SlotStore struct {
	*sql.DB
	log *zap.SugaredLogger
}

type SlotInfo struct {
	Slot     int
	UUID     string
	Strategy string
	PointsX  int
	PointsY  int
	SavedAt  int64
}

func OpenSlotStore(path string) (*SlotStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err = db.Exec(slotsSchemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise mesh slots schema: %w", err)
	}
	return &SlotStore{DB: db, log: logger.Named("slots")}, nil
}

// Save overwrites slot with the mesh and returns the record uuid.
func (self *SlotStore) Save(slot int, strategy StrategyKind, mesh *Mesh) (string, error) {
	px, py := mesh.Points()
	id := uuid.NewV4().String()
	query := `
		INSERT OR REPLACE INTO mesh_slots (slot, uuid, strategy, points_x, points_y, z_values)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := self.Exec(query, slot, id, strategy.String(), px, py, encodeZValues(mesh.flat())); err != nil {
		return "", fmt.Errorf("failed to save mesh slot %d: %w", slot, err)
	}
	self.log.Infof("mesh saved to slot %d (%s)", slot, id)
	return id, nil
}

// Load reads slot into a new mesh with the given storage mode.
func (self *SlotStore) Load(slot int, compact bool) (*Mesh, error) {
	var px, py int
	var blob []byte
	row := self.QueryRow(`SELECT points_x, points_y, z_values FROM mesh_slots WHERE slot = ?`, slot)
	if err := row.Scan(&px, &py, &blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", ErrSlotNotFound, slot)
		}
		return nil, fmt.Errorf("failed to load mesh slot %d: %w", slot, err)
	}
	values, err := decodeZValues(blob, px*py)
	if err != nil {
		return nil, fmt.Errorf("mesh slot %d: %w", slot, err)
	}
	mesh, err := NewMesh(px, py, compact)
	if err != nil {
		return nil, err
	}
	table := make([][]float64, px)
	for x := range table {
		table[x] = values[x*py : (x+1)*py]
	}
	if err := mesh.Load_values(table); err != nil {
		return nil, err
	}
	return mesh, nil
}

func (self *SlotStore) List() ([]SlotInfo, error) {
	rows, err := self.Query(`SELECT slot, uuid, strategy, points_x, points_y, saved_at FROM mesh_slots ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("failed to list mesh slots: %w", err)
	}
	defer rows.Close()

	var slots []SlotInfo
	for rows.Next() {
		var info SlotInfo
		if err := rows.Scan(&info.Slot, &info.UUID, &info.Strategy, &info.PointsX, &info.PointsY, &info.SavedAt); err != nil {
			return nil, err
		}
		slots = append(slots, info)
	}
	return slots, rows.Err()
}

func (self *SlotStore) Delete(slot int) error {
	result, err := self.Exec(`DELETE FROM mesh_slots WHERE slot = ?`, slot)
	if err != nil {
		return fmt.Errorf("failed to delete mesh slot %d: %w", slot, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrSlotNotFound, slot)
	}
	return nil
}

// z values are stored as little-endian float64 bits, NaN included.
func encodeZValues(values []float64) []byte {
	blob := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

func decodeZValues(blob []byte, count int) ([]float64, error) {
	if len(blob) != 8*count {
		return nil, fmt.Errorf("z_values holds %d bytes, expected %d", len(blob), 8*count)
	}
	values := make([]float64, count)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return values, nil
}

// Save_slot stores the active mesh.
func (self *LevelingContext) Save_slot(store *SlotStore, slot int) (string, error) {
	return store.Save(slot, self.strategy.Kind(), self.strategy.Mesh())
}

// Load_slot replaces the mesh with a stored one of the same dimensions.
func (self *LevelingContext) Load_slot(store *SlotStore, slot int) error {
	mesh, err := store.Load(slot, false)
	if err != nil {
		return err
	}
	px, py := self.strategy.Mesh().Points()
	if sx, sy := mesh.Points(); sx != px || sy != py {
		return fmt.Errorf("%w: slot %d is %dx%d, mesh is %dx%d", ErrMeshDimensions, slot, sx, sy, px, py)
	}
	return self.Load_mesh(mesh.Values())
}
