package store

// UpsertContact records a sighting: insert on first discovery, update the last
// known location on re-sighting. Idempotent by (prefect, object type, object).
func (s *Store) UpsertContact(c Contact) error {
	_, err := s.db.Exec(`
		INSERT INTO known_contacts (prefect_id, object_type, object_id, object_name,
			location_system, location_col, location_row,
			discovered_turn_year, discovered_turn_week)
		VALUES (?,?,?,?,?,?,?,?,?)
		ON CONFLICT (prefect_id, object_type, object_id) DO UPDATE SET
			object_name = excluded.object_name,
			location_system = excluded.location_system,
			location_col = excluded.location_col,
			location_row = excluded.location_row`,
		c.PrefectID, c.ObjectType, c.ObjectID, c.Name,
		c.SystemID, c.Col, c.Row, c.Year, c.Week)
	return err
}

func (s *Store) ContactsForPrefect(prefectID int64) ([]Contact, error) {
	rows, err := s.db.Query(`
		SELECT prefect_id, object_type, object_id, COALESCE(object_name,''),
			COALESCE(location_system,0), COALESCE(location_col,''),
			COALESCE(location_row,0),
			COALESCE(discovered_turn_year,0), COALESCE(discovered_turn_week,0)
		FROM known_contacts WHERE prefect_id = ?
		ORDER BY object_type, object_id`, prefectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.PrefectID, &c.ObjectType, &c.ObjectID, &c.Name,
			&c.SystemID, &c.Col, &c.Row, &c.Year, &c.Week); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ContactsInSystem filters a prefect's contacts to one system, for reports.
func (s *Store) ContactsInSystem(prefectID, systemID int64) ([]Contact, error) {
	all, err := s.ContactsForPrefect(prefectID)
	if err != nil {
		return nil, err
	}
	var out []Contact
	for _, c := range all {
		if c.SystemID == systemID {
			out = append(out, c)
		}
	}
	return out, nil
}
