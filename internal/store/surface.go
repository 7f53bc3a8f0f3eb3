package store

// SurfaceTiles returns a body's stored terrain grid, ordered row-major.
// Empty result means the surface has not been generated yet.
func (s *Store) SurfaceTiles(bodyID int64) ([]SurfaceTile, error) {
	rows, err := s.db.Query(`
		SELECT body_id, x, y, terrain_type FROM planet_surface
		WHERE body_id = ? ORDER BY y, x`, bodyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SurfaceTile
	for rows.Next() {
		var t SurfaceTile
		if err := rows.Scan(&t.BodyID, &t.X, &t.Y, &t.Terrain); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ReplaceSurface rewrites a body's terrain grid in one transaction.
func (s *Store) ReplaceSurface(bodyID int64, tiles []SurfaceTile) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM planet_surface WHERE body_id = ?`, bodyID); err != nil {
		return err
	}
	stmt, err := tx.Prepare(
		`INSERT INTO planet_surface (body_id, x, y, terrain_type) VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, t := range tiles {
		if _, err := stmt.Exec(bodyID, t.X, t.Y, t.Terrain); err != nil {
			return err
		}
	}
	return tx.Commit()
}
