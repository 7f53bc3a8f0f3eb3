package store

import (
	"database/sql"
	"fmt"
)

const shipCols = `ship_id, game_id, owner_prefect_id, name, ship_class,
	grid_col, grid_row, system_id,
	COALESCE(docked_at_base_id,0), COALESCE(orbiting_body_id,0),
	COALESCE(landed_body_id,0), COALESCE(landed_x,0), COALESCE(landed_y,0),
	tu_per_turn, tu_remaining, sensor_rating, cargo_capacity, life_support,
	crew_count, crew_required`

func scanShip(row interface{ Scan(...any) error }) (Ship, error) {
	var sh Ship
	err := row.Scan(&sh.ID, &sh.GameID, &sh.OwnerPrefectID, &sh.Name, &sh.Class,
		&sh.Col, &sh.Row, &sh.SystemID,
		&sh.DockedAtBaseID, &sh.OrbitingBodyID,
		&sh.LandedBodyID, &sh.LandedX, &sh.LandedY,
		&sh.TUPerTurn, &sh.TURemaining, &sh.SensorRating, &sh.CargoCapacity,
		&sh.LifeSupport, &sh.CrewCount, &sh.CrewRequired)
	return sh, err
}

func (s *Store) Ship(id int64) (Ship, error) {
	sh, err := scanShip(s.db.QueryRow(
		`SELECT `+shipCols+` FROM ships WHERE ship_id = ?`, id))
	if err == sql.ErrNoRows {
		return sh, fmt.Errorf("ship %d not found", id)
	}
	return sh, err
}

func (s *Store) AddShip(sh Ship) error {
	_, err := s.db.Exec(`
		INSERT INTO ships (ship_id, game_id, owner_prefect_id, name, ship_class,
			grid_col, grid_row, system_id,
			docked_at_base_id, orbiting_body_id, landed_body_id, landed_x, landed_y,
			tu_per_turn, tu_remaining, sensor_rating, cargo_capacity, life_support,
			crew_count, crew_required)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		sh.ID, sh.GameID, sh.OwnerPrefectID, sh.Name, sh.Class,
		sh.Col, sh.Row, sh.SystemID,
		nullID(sh.DockedAtBaseID), nullID(sh.OrbitingBodyID),
		nullID(sh.LandedBodyID), sh.LandedX, sh.LandedY,
		sh.TUPerTurn, sh.TURemaining, sh.SensorRating, sh.CargoCapacity,
		sh.LifeSupport, sh.CrewCount, sh.CrewRequired)
	return err
}

// CommitShipState writes the mutable turn-state fields of a ship. Called after
// every scheduler step so other ships' scans observe movement immediately.
func (s *Store) CommitShipState(sh Ship) error {
	_, err := s.db.Exec(`
		UPDATE ships SET
			grid_col = ?, grid_row = ?, system_id = ?, tu_remaining = ?,
			docked_at_base_id = ?, orbiting_body_id = ?,
			landed_body_id = ?, landed_x = ?, landed_y = ?,
			crew_count = ?
		WHERE ship_id = ?`,
		sh.Col, sh.Row, sh.SystemID, sh.TURemaining,
		nullID(sh.DockedAtBaseID), nullID(sh.OrbitingBodyID),
		nullID(sh.LandedBodyID), sh.LandedX, sh.LandedY,
		sh.CrewCount, sh.ID)
	return err
}

// ShipsInGame lists active ships (suspended owners excluded) ordered by id for
// deterministic scheduling.
func (s *Store) ShipsInGame(gameID string) ([]Ship, error) {
	rows, err := s.db.Query(`
		SELECT `+shipCols+` FROM ships
		WHERE game_id = ?
		  AND owner_prefect_id NOT IN (
			SELECT prefect_id FROM prefects p
			JOIN players pl ON pl.player_id = p.player_id
			WHERE pl.suspended = 1)
		ORDER BY ship_id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Ship
	for rows.Next() {
		sh, err := scanShip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

// ShipsAt returns other active ships occupying the exact grid cell, for
// passive same-square detection.
func (s *Store) ShipsAt(gameID string, systemID int64, col string, row int, excludeShip int64) ([]Ship, error) {
	rows, err := s.db.Query(`
		SELECT `+shipCols+` FROM ships
		WHERE game_id = ? AND system_id = ? AND grid_col = ? AND grid_row = ?
		  AND ship_id != ?
		  AND owner_prefect_id NOT IN (
			SELECT prefect_id FROM prefects p
			JOIN players pl ON pl.player_id = p.player_id
			WHERE pl.suspended = 1)
		ORDER BY ship_id`, gameID, systemID, col, row, excludeShip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Ship
	for rows.Next() {
		sh, err := scanShip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *Store) RenameShip(id int64, name string) error {
	res, err := s.db.Exec(`UPDATE ships SET name = ? WHERE ship_id = ?`, name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("ship %d not found", id)
	}
	return nil
}

func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
