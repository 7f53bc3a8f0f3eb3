package store

import (
	"database/sql"
	"fmt"
)

func (s *Store) AddSystem(sys StarSystem) error {
	_, err := s.db.Exec(`
		INSERT INTO star_systems (system_id, game_id, name, star_name,
			star_spectral_type, star_grid_col, star_grid_row)
		VALUES (?,?,?,?,?,?,?)`,
		sys.ID, sys.GameID, sys.Name, sys.StarName,
		sys.SpectralType, sys.StarCol, sys.StarRow)
	return err
}

func (s *Store) System(id int64) (StarSystem, error) {
	var sys StarSystem
	err := s.db.QueryRow(`
		SELECT system_id, game_id, name, star_name, star_spectral_type,
			star_grid_col, star_grid_row
		FROM star_systems WHERE system_id = ?`, id).
		Scan(&sys.ID, &sys.GameID, &sys.Name, &sys.StarName,
			&sys.SpectralType, &sys.StarCol, &sys.StarRow)
	if err == sql.ErrNoRows {
		return sys, fmt.Errorf("system %d not found", id)
	}
	return sys, err
}

// AddLink records a bidirectional jump link between two systems.
func (s *Store) AddLink(a, b int64) error {
	_, err := s.db.Exec(
		`INSERT INTO system_links (system_a, system_b) VALUES (?,?)`, a, b)
	return err
}

// LinkedSystems returns the neighbors of a system in the jump network.
func (s *Store) LinkedSystems(id int64) ([]int64, error) {
	rows, err := s.db.Query(`
		SELECT system_b FROM system_links WHERE system_a = ?
		UNION
		SELECT system_a FROM system_links WHERE system_b = ?
		ORDER BY 1`, id, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) AddBody(b Body) error {
	_, err := s.db.Exec(`
		INSERT INTO celestial_bodies (body_id, system_id, name, body_type,
			parent_body_id, grid_col, grid_row, gravity, temperature, atmosphere,
			tectonic_activity, hydrosphere, life, map_symbol, surface_size)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.ID, b.SystemID, b.Name, b.Type, nullID(b.ParentID), b.Col, b.Row,
		b.Gravity, b.Temperature, b.Atmosphere, b.Tectonic, b.Hydrosphere,
		b.Life, b.Symbol, b.SurfaceSize)
	return err
}

func (s *Store) Body(id int64) (Body, error) {
	var b Body
	err := s.db.QueryRow(`
		SELECT body_id, system_id, name, body_type, COALESCE(parent_body_id,0),
			grid_col, grid_row, gravity, temperature, atmosphere,
			tectonic_activity, hydrosphere, life, map_symbol, surface_size
		FROM celestial_bodies WHERE body_id = ?`, id).
		Scan(&b.ID, &b.SystemID, &b.Name, &b.Type, &b.ParentID,
			&b.Col, &b.Row, &b.Gravity, &b.Temperature, &b.Atmosphere,
			&b.Tectonic, &b.Hydrosphere, &b.Life, &b.Symbol, &b.SurfaceSize)
	if err == sql.ErrNoRows {
		return b, fmt.Errorf("body %d not found", id)
	}
	return b, err
}

func (s *Store) AddBase(b Base) error {
	_, err := s.db.Exec(`
		INSERT INTO starbases (base_id, game_id, owner_prefect_id, name, base_type,
			system_id, grid_col, grid_row, orbiting_body_id, has_market, docking_capacity)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		b.ID, b.GameID, nullID(b.OwnerPrefectID), b.Name, b.Type,
		b.SystemID, b.Col, b.Row, nullID(b.OrbitingBodyID),
		boolInt(b.HasMarket), b.DockingCapacity)
	return err
}

func (s *Store) Base(id int64) (Base, error) {
	var b Base
	var hasMarket int
	err := s.db.QueryRow(`
		SELECT base_id, game_id, COALESCE(owner_prefect_id,0), name, base_type,
			system_id, grid_col, grid_row, COALESCE(orbiting_body_id,0),
			has_market, docking_capacity
		FROM starbases WHERE base_id = ?`, id).
		Scan(&b.ID, &b.GameID, &b.OwnerPrefectID, &b.Name, &b.Type,
			&b.SystemID, &b.Col, &b.Row, &b.OrbitingBodyID,
			&hasMarket, &b.DockingCapacity)
	if err == sql.ErrNoRows {
		return b, fmt.Errorf("base %d not found", id)
	}
	b.HasMarket = hasMarket != 0
	return b, err
}

func (s *Store) RenameBase(id int64, name string) error {
	res, err := s.db.Exec(`UPDATE starbases SET name = ? WHERE base_id = ?`, name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("base %d not found", id)
	}
	return nil
}

// SystemObjects collects every scannable object in a system: the star, all
// celestial bodies, bases, and active ships.
func (s *Store) SystemObjects(gameID string, systemID int64) ([]Object, error) {
	var out []Object

	sys, err := s.System(systemID)
	if err != nil {
		return nil, err
	}
	out = append(out, Object{
		Type: "star", ID: systemID, Name: sys.StarName,
		Col: sys.StarCol, Row: sys.StarRow, Symbol: "*",
	})

	rows, err := s.db.Query(`
		SELECT body_id, name, grid_col, grid_row, map_symbol, body_type
		FROM celestial_bodies WHERE system_id = ? ORDER BY body_id`, systemID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var o Object
		var bodyType string
		if err := rows.Scan(&o.ID, &o.Name, &o.Col, &o.Row, &o.Symbol, &bodyType); err != nil {
			rows.Close()
			return nil, err
		}
		o.Type = bodyType
		out = append(out, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(`
		SELECT base_id, name, grid_col, grid_row, COALESCE(owner_prefect_id,0)
		FROM starbases WHERE system_id = ? AND game_id = ? ORDER BY base_id`,
		systemID, gameID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var o Object
		if err := rows.Scan(&o.ID, &o.Name, &o.Col, &o.Row, &o.OwnerID); err != nil {
			rows.Close()
			return nil, err
		}
		o.Type = "base"
		o.Symbol = "B"
		out = append(out, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(`
		SELECT ship_id, name, grid_col, grid_row, ship_class, owner_prefect_id
		FROM ships WHERE system_id = ? AND game_id = ? ORDER BY ship_id`,
		systemID, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var o Object
		if err := rows.Scan(&o.ID, &o.Name, &o.Col, &o.Row, &o.ShipInfo, &o.OwnerID); err != nil {
			return nil, err
		}
		o.Type = "ship"
		o.Symbol = "@"
		out = append(out, o)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
