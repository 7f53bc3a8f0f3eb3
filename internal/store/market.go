package store

import (
	"database/sql"
	"fmt"
)

func (s *Store) SetMarketRole(baseID, itemID int64, role string) error {
	_, err := s.db.Exec(`
		INSERT INTO market_roles (base_id, item_id, role) VALUES (?,?,?)
		ON CONFLICT (base_id, item_id) DO UPDATE SET role = excluded.role`,
		baseID, itemID, role)
	return err
}

// MarketRoles maps item id to the base's role for it (produces/average/demands).
func (s *Store) MarketRoles(baseID int64) (map[int64]string, error) {
	rows, err := s.db.Query(
		`SELECT item_id, role FROM market_roles WHERE base_id = ?`, baseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[int64]string{}
	for rows.Next() {
		var id int64
		var role string
		if err := rows.Scan(&id, &role); err != nil {
			return nil, err
		}
		out[id] = role
	}
	return out, rows.Err()
}

func (s *Store) UpsertQuote(q Quote) error {
	_, err := s.db.Exec(`
		INSERT INTO market_prices (game_id, base_id, item_id, cycle_start,
			buy_price, sell_price, stock, demand)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT (game_id, base_id, item_id, cycle_start) DO NOTHING`,
		q.GameID, q.BaseID, q.ItemID, q.CycleStart,
		q.BuyPrice, q.SellPrice, q.Stock, q.Demand)
	return err
}

func (s *Store) Quote(gameID string, baseID, itemID int64, cycleStart int) (Quote, error) {
	q := Quote{GameID: gameID, BaseID: baseID, ItemID: itemID, CycleStart: cycleStart}
	err := s.db.QueryRow(`
		SELECT buy_price, sell_price, stock, demand
		FROM market_prices
		WHERE game_id = ? AND base_id = ? AND item_id = ? AND cycle_start = ?`,
		gameID, baseID, itemID, cycleStart).
		Scan(&q.BuyPrice, &q.SellPrice, &q.Stock, &q.Demand)
	if err == sql.ErrNoRows {
		return q, fmt.Errorf("no quote for item %d at base %d", itemID, baseID)
	}
	return q, err
}

func (s *Store) Quotes(gameID string, baseID int64, cycleStart int) ([]Quote, error) {
	rows, err := s.db.Query(`
		SELECT item_id, buy_price, sell_price, stock, demand
		FROM market_prices
		WHERE game_id = ? AND base_id = ? AND cycle_start = ?
		ORDER BY item_id`, gameID, baseID, cycleStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Quote
	for rows.Next() {
		q := Quote{GameID: gameID, BaseID: baseID, CycleStart: cycleStart}
		if err := rows.Scan(&q.ItemID, &q.BuyPrice, &q.SellPrice, &q.Stock, &q.Demand); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// DepleteStock reduces remaining stock after a BUY. Stock never goes negative;
// the handler caps the quantity before calling.
func (s *Store) DepleteStock(gameID string, baseID, itemID int64, cycleStart, qty int) error {
	_, err := s.db.Exec(`
		UPDATE market_prices SET stock = MAX(0, stock - ?)
		WHERE game_id = ? AND base_id = ? AND item_id = ? AND cycle_start = ?`,
		qty, gameID, baseID, itemID, cycleStart)
	return err
}

// DepleteDemand reduces remaining demand after a SELL.
func (s *Store) DepleteDemand(gameID string, baseID, itemID int64, cycleStart, qty int) error {
	_, err := s.db.Exec(`
		UPDATE market_prices SET demand = MAX(0, demand - ?)
		WHERE game_id = ? AND base_id = ? AND item_id = ? AND cycle_start = ?`,
		qty, gameID, baseID, itemID, cycleStart)
	return err
}
