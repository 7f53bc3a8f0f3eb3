package store

import (
	"database/sql"
	"fmt"
)

func (s *Store) AddPlayer(p Player) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO players (game_id, player_name, email, account_number, suspended)
		VALUES (?,?,?,?,0)`,
		p.GameID, p.Name, p.Email, p.AccountNumber)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) PlayerByAccount(gameID, account string) (Player, error) {
	var p Player
	var susp int
	err := s.db.QueryRow(`
		SELECT player_id, game_id, player_name, email, account_number, suspended
		FROM players WHERE game_id = ? AND account_number = ?`, gameID, account).
		Scan(&p.ID, &p.GameID, &p.Name, &p.Email, &p.AccountNumber, &susp)
	if err == sql.ErrNoRows {
		return p, fmt.Errorf("account %s not found", account)
	}
	p.Suspended = susp != 0
	return p, err
}

func (s *Store) SetPlayerSuspended(playerID int64, suspended bool) error {
	res, err := s.db.Exec(`UPDATE players SET suspended = ? WHERE player_id = ?`,
		boolInt(suspended), playerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("player %d not found", playerID)
	}
	return nil
}

func (s *Store) AddPrefect(p Prefect) error {
	_, err := s.db.Exec(`
		INSERT INTO prefects (prefect_id, player_id, game_id, name, affiliation, rank, credits, influence)
		VALUES (?,?,?,?,?,?,?,?)`,
		p.ID, p.PlayerID, p.GameID, p.Name, p.Affiliation, p.Rank, p.Credits, p.Influence)
	return err
}

func (s *Store) Prefect(id int64) (Prefect, error) {
	var p Prefect
	err := s.db.QueryRow(`
		SELECT prefect_id, player_id, game_id, name, affiliation, rank, credits, influence
		FROM prefects WHERE prefect_id = ?`, id).
		Scan(&p.ID, &p.PlayerID, &p.GameID, &p.Name, &p.Affiliation, &p.Rank,
			&p.Credits, &p.Influence)
	if err == sql.ErrNoRows {
		return p, fmt.Errorf("prefect %d not found", id)
	}
	return p, err
}

func (s *Store) PrefectForPlayer(playerID int64) (Prefect, error) {
	var p Prefect
	err := s.db.QueryRow(`
		SELECT prefect_id, player_id, game_id, name, affiliation, rank, credits, influence
		FROM prefects WHERE player_id = ?`, playerID).
		Scan(&p.ID, &p.PlayerID, &p.GameID, &p.Name, &p.Affiliation, &p.Rank,
			&p.Credits, &p.Influence)
	if err == sql.ErrNoRows {
		return p, fmt.Errorf("no prefect for player %d", playerID)
	}
	return p, err
}

func (s *Store) PlayerForPrefect(prefectID int64) (Player, error) {
	var p Player
	var susp int
	err := s.db.QueryRow(`
		SELECT p.player_id, p.game_id, p.player_name, p.email, p.account_number, p.suspended
		FROM players p JOIN prefects pr ON pr.player_id = p.player_id
		WHERE pr.prefect_id = ?`, prefectID).
		Scan(&p.ID, &p.GameID, &p.Name, &p.Email, &p.AccountNumber, &susp)
	if err == sql.ErrNoRows {
		return p, fmt.Errorf("no player for prefect %d", prefectID)
	}
	p.Suspended = susp != 0
	return p, err
}

func (s *Store) SetPrefectCredits(id int64, credits int64) error {
	_, err := s.db.Exec(`UPDATE prefects SET credits = ? WHERE prefect_id = ?`, credits, id)
	return err
}

func (s *Store) RenamePrefect(id int64, name string) error {
	res, err := s.db.Exec(`UPDATE prefects SET name = ? WHERE prefect_id = ?`, name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("prefect %d not found", id)
	}
	return nil
}

func (s *Store) Officers(shipID int64) ([]Officer, error) {
	rows, err := s.db.Query(`
		SELECT officer_id, ship_id, crew_number, name, rank, specialty, crew_factors
		FROM officers WHERE ship_id = ? ORDER BY crew_number`, shipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Officer
	for rows.Next() {
		var o Officer
		if err := rows.Scan(&o.ID, &o.ShipID, &o.Number, &o.Name, &o.Rank,
			&o.Specialty, &o.CrewFactors); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) AddOfficer(o Officer) error {
	_, err := s.db.Exec(`
		INSERT INTO officers (ship_id, crew_number, name, rank, specialty, crew_factors)
		VALUES (?,?,?,?,?,?)`,
		o.ShipID, o.Number, o.Name, o.Rank, o.Specialty, o.CrewFactors)
	return err
}

func (s *Store) RenameOfficer(shipID int64, crewNumber int, name string) error {
	res, err := s.db.Exec(`
		UPDATE officers SET name = ? WHERE ship_id = ? AND crew_number = ?`,
		name, shipID, crewNumber)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("officer %d on ship %d not found", crewNumber, shipID)
	}
	return nil
}

func (s *Store) AddMessage(m Message) error {
	_, err := s.db.Exec(`
		INSERT INTO messages (game_id, from_prefect_id, to_prefect_id, from_ship_id,
			turn_year, turn_week, body)
		VALUES (?,?,?,?,?,?,?)`,
		m.GameID, m.FromID, m.ToID, nullID(m.FromShip), m.Year, m.Week, m.Text)
	return err
}

// MessagesFor returns messages delivered to a prefect on the given turn.
func (s *Store) MessagesFor(prefectID int64, year, week int) ([]Message, error) {
	rows, err := s.db.Query(`
		SELECT game_id, from_prefect_id, to_prefect_id, COALESCE(from_ship_id,0),
			turn_year, turn_week, body
		FROM messages
		WHERE to_prefect_id = ? AND turn_year = ? AND turn_week = ?
		ORDER BY message_id`, prefectID, year, week)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.GameID, &m.FromID, &m.ToID, &m.FromShip,
			&m.Year, &m.Week, &m.Text); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) AddModeratorRequest(gameID string, prefectID int64, year, week int, kind, body string) error {
	_, err := s.db.Exec(`
		INSERT INTO moderator_requests (game_id, prefect_id, turn_year, turn_week, kind, body)
		VALUES (?,?,?,?,?,?)`,
		gameID, prefectID, year, week, kind, body)
	return err
}
