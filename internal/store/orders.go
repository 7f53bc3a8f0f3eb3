package store

// ReplaceTurnOrders replaces a ship's filed orders for the given turn;
// resubmission for the same ship and turn overwrites the previous batch.
func (s *Store) ReplaceTurnOrders(gameID string, year, week int, shipID int64, lines []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM turn_orders
		WHERE game_id = ? AND turn_year = ? AND turn_week = ? AND ship_id = ?`,
		gameID, year, week, shipID); err != nil {
		return err
	}
	for i, line := range lines {
		if _, err := tx.Exec(`
			INSERT INTO turn_orders (game_id, turn_year, turn_week, ship_id,
				order_sequence, command_line)
			VALUES (?,?,?,?,?,?)`,
			gameID, year, week, shipID, i+1, line); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// TurnOrders returns the filed command lines for one ship and turn, in
// sequence order.
func (s *Store) TurnOrders(gameID string, year, week int, shipID int64) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT command_line FROM turn_orders
		WHERE game_id = ? AND turn_year = ? AND turn_week = ? AND ship_id = ?
		ORDER BY order_sequence`, gameID, year, week, shipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

// ShipsWithOrders lists ships that filed orders for the turn, ordered by id.
func (s *Store) ShipsWithOrders(gameID string, year, week int) ([]int64, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT ship_id FROM turn_orders
		WHERE game_id = ? AND turn_year = ? AND turn_week = ?
		ORDER BY ship_id`, gameID, year, week)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ReplacePendingOrders rewrites a ship's overflow queue.
func (s *Store) ReplacePendingOrders(gameID string, shipID int64, lines []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM pending_orders WHERE game_id = ? AND ship_id = ?`,
		gameID, shipID); err != nil {
		return err
	}
	for i, line := range lines {
		if _, err := tx.Exec(`
			INSERT INTO pending_orders (game_id, ship_id, order_sequence, command_line)
			VALUES (?,?,?,?)`,
			gameID, shipID, i+1, line); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) PendingOrders(gameID string, shipID int64) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT command_line FROM pending_orders
		WHERE game_id = ? AND ship_id = ?
		ORDER BY order_sequence`, gameID, shipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

func (s *Store) ClearPendingOrders(gameID string, shipID int64) error {
	_, err := s.db.Exec(`
		DELETE FROM pending_orders WHERE game_id = ? AND ship_id = ?`,
		gameID, shipID)
	return err
}

// AppendTurnLog records one audit row per executed order.
func (s *Store) AppendTurnLog(r TurnLogRow) error {
	_, err := s.db.Exec(`
		INSERT INTO turn_log (game_id, turn_year, turn_week, ship_id,
			tu_before, tu_after, action, result)
		VALUES (?,?,?,?,?,?,?,?)`,
		r.GameID, r.Year, r.Week, r.ShipID, r.TUBefore, r.TUAfter, r.Action, r.Result)
	return err
}
