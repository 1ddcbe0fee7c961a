package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrDuplicateName is returned when a preset name is already taken.
var ErrDuplicateName = errors.New("preset name already exists")

// Preset is a named, recallable Control.
type Preset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Control   Control   `json:"control"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PresetRepository provides CRUD operations for presets.
type PresetRepository struct {
	db *sql.DB
}

// Presets returns the preset repository for this store.
func (s *Store) Presets() *PresetRepository {
	return &PresetRepository{db: s.db}
}

const presetColumns = `id, name, page, finger_parameters, finger_drums, sample_duration, created_at, updated_at`

// Create inserts p, assigning a new ID when p.ID is empty.
func (r *PresetRepository) Create(p *Preset) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	params, drums, err := encodeSlots(p.Control)
	if err != nil {
		return err
	}

	if _, err := r.GetByName(p.Name); err == nil {
		return fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	_, err = r.db.Exec(
		`INSERT INTO presets (`+presetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Control.Page, params, drums, p.Control.SampleDuration, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID retrieves a preset by its ID.
func (r *PresetRepository) GetByID(id string) (*Preset, error) {
	return scanPreset(r.db.QueryRow(`SELECT `+presetColumns+` FROM presets WHERE id = ?`, id))
}

// GetByName retrieves a preset by its name.
func (r *PresetRepository) GetByName(name string) (*Preset, error) {
	return scanPreset(r.db.QueryRow(`SELECT `+presetColumns+` FROM presets WHERE name = ?`, name))
}

// List retrieves all presets, most recently updated first.
func (r *PresetRepository) List() ([]*Preset, error) {
	rows, err := r.db.Query(`SELECT ` + presetColumns + ` FROM presets ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []*Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return presets, nil
}

// Update replaces the name and control of an existing preset.
func (r *PresetRepository) Update(p *Preset) error {
	params, drums, err := encodeSlots(p.Control)
	if err != nil {
		return err
	}
	p.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE presets SET name = ?, page = ?, finger_parameters = ?, finger_drums = ?, sample_duration = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Control.Page, params, drums, p.Control.SampleDuration, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a preset by its ID.
func (r *PresetRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM presets WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func encodeSlots(c Control) (string, string, error) {
	params := c.FingerParameters
	if params == nil {
		params = []string{}
	}
	drums := c.FingerDrums
	if drums == nil {
		drums = []int{}
	}

	p, err := json.Marshal(params)
	if err != nil {
		return "", "", fmt.Errorf("encode finger parameters: %w", err)
	}
	d, err := json.Marshal(drums)
	if err != nil {
		return "", "", fmt.Errorf("encode finger drums: %w", err)
	}
	return string(p), string(d), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreset(row rowScanner) (*Preset, error) {
	p := &Preset{}
	var params, drums string

	err := row.Scan(&p.ID, &p.Name, &p.Control.Page, &params, &drums, &p.Control.SampleDuration, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(params), &p.Control.FingerParameters); err != nil {
		return nil, fmt.Errorf("decode finger parameters: %w", err)
	}
	if err := json.Unmarshal([]byte(drums), &p.Control.FingerDrums); err != nil {
		return nil, fmt.Errorf("decode finger drums: %w", err)
	}
	return p, nil
}
