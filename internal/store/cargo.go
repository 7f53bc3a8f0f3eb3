package store

import (
	"database/sql"
	"fmt"
)

func (s *Store) AddItem(it Item) error {
	_, err := s.db.Exec(`
		INSERT INTO items (item_id, name, mass_per_unit, base_price, is_crew)
		VALUES (?,?,?,?,?)`,
		it.ID, it.Name, it.MassPerUnit, it.BasePrice, boolInt(it.IsCrew))
	return err
}

func (s *Store) Item(id int64) (Item, error) {
	var it Item
	var crew int
	err := s.db.QueryRow(`
		SELECT item_id, name, mass_per_unit, base_price, is_crew
		FROM items WHERE item_id = ?`, id).
		Scan(&it.ID, &it.Name, &it.MassPerUnit, &it.BasePrice, &crew)
	if err == sql.ErrNoRows {
		return it, fmt.Errorf("item %d not found", id)
	}
	it.IsCrew = crew != 0
	return it, err
}

func (s *Store) Items() ([]Item, error) {
	rows, err := s.db.Query(`
		SELECT item_id, name, mass_per_unit, base_price, is_crew
		FROM items ORDER BY item_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		var it Item
		var crew int
		if err := rows.Scan(&it.ID, &it.Name, &it.MassPerUnit, &it.BasePrice, &crew); err != nil {
			return nil, err
		}
		it.IsCrew = crew != 0
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *Store) Cargo(shipID int64) ([]CargoItem, error) {
	rows, err := s.db.Query(`
		SELECT c.ship_id, c.item_id, i.name, c.quantity, i.mass_per_unit
		FROM cargo_items c JOIN items i ON i.item_id = c.item_id
		WHERE c.ship_id = ? AND c.quantity > 0
		ORDER BY c.item_id`, shipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CargoItem
	for rows.Next() {
		var c CargoItem
		if err := rows.Scan(&c.ShipID, &c.ItemID, &c.Name, &c.Quantity, &c.MassPerUnit); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CargoMass is the total mass of a ship's hold.
func (s *Store) CargoMass(shipID int64) (int, error) {
	var mass sql.NullInt64
	err := s.db.QueryRow(`
		SELECT SUM(c.quantity * i.mass_per_unit)
		FROM cargo_items c JOIN items i ON i.item_id = c.item_id
		WHERE c.ship_id = ?`, shipID).Scan(&mass)
	if err != nil {
		return 0, err
	}
	return int(mass.Int64), nil
}

func (s *Store) CargoQuantity(shipID, itemID int64) (int, error) {
	var qty sql.NullInt64
	err := s.db.QueryRow(`
		SELECT quantity FROM cargo_items WHERE ship_id = ? AND item_id = ?`,
		shipID, itemID).Scan(&qty)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return int(qty.Int64), err
}

// AdjustCargo adds delta units of an item to a ship's hold (delta may be
// negative). The row is upserted; quantity never goes below zero.
func (s *Store) AdjustCargo(shipID, itemID int64, delta int) error {
	_, err := s.db.Exec(`
		INSERT INTO cargo_items (ship_id, item_id, quantity)
		VALUES (?,?,MAX(0,?))
		ON CONFLICT (ship_id, item_id)
		DO UPDATE SET quantity = MAX(0, quantity + ?)`,
		shipID, itemID, delta, delta)
	return err
}
