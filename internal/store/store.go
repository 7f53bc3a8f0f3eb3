// Package store is the persistent world state: ships, systems, bodies, bases,
// prefects, markets, contacts, orders. One sqlite database per game process;
// every mutation commits immediately so a later-scheduled ship's scan observes
// earlier ships' movement within the same turn.
package store

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	log *log.Logger
}

// Open opens (creating if needed) the game database at path. Pass ":memory:"
// for an ephemeral store.
func Open(path string, logger *log.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[store] ", log.LstdFlags)
	}
	return &Store{db: db, log: logger}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func initPragmas(db *sql.DB) error {
	// WAL suits the commit-after-every-step write pattern of turn resolution.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS games (
			game_id TEXT PRIMARY KEY,
			game_name TEXT NOT NULL,
			current_year INTEGER NOT NULL DEFAULT 500,
			current_week INTEGER NOT NULL DEFAULT 1,
			rng_seed TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS star_systems (
			system_id INTEGER PRIMARY KEY,
			game_id TEXT NOT NULL,
			name TEXT NOT NULL,
			star_name TEXT NOT NULL DEFAULT 'Central Star',
			star_spectral_type TEXT DEFAULT 'G2V',
			star_grid_col TEXT NOT NULL DEFAULT 'M',
			star_grid_row INTEGER NOT NULL DEFAULT 13
		);`,
		`CREATE TABLE IF NOT EXISTS system_links (
			link_id INTEGER PRIMARY KEY AUTOINCREMENT,
			system_a INTEGER NOT NULL,
			system_b INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS celestial_bodies (
			body_id INTEGER PRIMARY KEY,
			system_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			body_type TEXT NOT NULL CHECK(body_type IN ('planet','moon','gas_giant','asteroid')),
			parent_body_id INTEGER,
			grid_col TEXT NOT NULL,
			grid_row INTEGER NOT NULL,
			gravity REAL DEFAULT 1.0,
			temperature INTEGER DEFAULT 300,
			atmosphere TEXT DEFAULT 'Standard',
			tectonic_activity INTEGER DEFAULT 0,
			hydrosphere INTEGER DEFAULT 0,
			life TEXT DEFAULT 'None',
			map_symbol TEXT NOT NULL DEFAULT 'O',
			surface_size INTEGER NOT NULL DEFAULT 31
		);`,
		`CREATE TABLE IF NOT EXISTS players (
			player_id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			player_name TEXT NOT NULL,
			email TEXT NOT NULL,
			account_number TEXT NOT NULL UNIQUE,
			suspended INTEGER NOT NULL DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS prefects (
			prefect_id INTEGER PRIMARY KEY,
			player_id INTEGER NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			name TEXT NOT NULL,
			affiliation TEXT DEFAULT 'Independent',
			rank TEXT DEFAULT 'Citizen',
			credits INTEGER NOT NULL DEFAULT 10000,
			influence INTEGER DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS ships (
			ship_id INTEGER PRIMARY KEY,
			game_id TEXT NOT NULL,
			owner_prefect_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			ship_class TEXT DEFAULT 'Scout',
			grid_col TEXT NOT NULL,
			grid_row INTEGER NOT NULL,
			system_id INTEGER NOT NULL,
			docked_at_base_id INTEGER,
			orbiting_body_id INTEGER,
			landed_body_id INTEGER,
			landed_x INTEGER,
			landed_y INTEGER,
			tu_per_turn INTEGER NOT NULL DEFAULT 300,
			tu_remaining INTEGER NOT NULL DEFAULT 300,
			sensor_rating INTEGER DEFAULT 20,
			cargo_capacity INTEGER DEFAULT 500,
			life_support INTEGER DEFAULT 50,
			crew_count INTEGER DEFAULT 10,
			crew_required INTEGER DEFAULT 10
		);`,
		`CREATE TABLE IF NOT EXISTS starbases (
			base_id INTEGER PRIMARY KEY,
			game_id TEXT NOT NULL,
			owner_prefect_id INTEGER,
			name TEXT NOT NULL,
			base_type TEXT DEFAULT 'Outpost',
			system_id INTEGER NOT NULL,
			grid_col TEXT NOT NULL,
			grid_row INTEGER NOT NULL,
			orbiting_body_id INTEGER,
			has_market INTEGER DEFAULT 0,
			docking_capacity INTEGER DEFAULT 10
		);`,
		`CREATE TABLE IF NOT EXISTS items (
			item_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			mass_per_unit INTEGER NOT NULL DEFAULT 1,
			base_price INTEGER NOT NULL DEFAULT 10,
			is_crew INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS cargo_items (
			cargo_id INTEGER PRIMARY KEY AUTOINCREMENT,
			ship_id INTEGER NOT NULL,
			item_id INTEGER NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 0,
			UNIQUE (ship_id, item_id)
		);`,
		`CREATE TABLE IF NOT EXISTS market_roles (
			base_id INTEGER NOT NULL,
			item_id INTEGER NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('produces','average','demands')),
			PRIMARY KEY (base_id, item_id)
		);`,
		`CREATE TABLE IF NOT EXISTS market_prices (
			game_id TEXT NOT NULL,
			base_id INTEGER NOT NULL,
			item_id INTEGER NOT NULL,
			cycle_start INTEGER NOT NULL,
			buy_price INTEGER NOT NULL,
			sell_price INTEGER NOT NULL,
			stock INTEGER NOT NULL,
			demand INTEGER NOT NULL,
			PRIMARY KEY (game_id, base_id, item_id, cycle_start)
		);`,
		`CREATE TABLE IF NOT EXISTS known_contacts (
			contact_id INTEGER PRIMARY KEY AUTOINCREMENT,
			prefect_id INTEGER NOT NULL,
			object_type TEXT NOT NULL,
			object_id INTEGER NOT NULL,
			object_name TEXT,
			location_system INTEGER,
			location_col TEXT,
			location_row INTEGER,
			discovered_turn_year INTEGER,
			discovered_turn_week INTEGER,
			UNIQUE (prefect_id, object_type, object_id)
		);`,
		`CREATE TABLE IF NOT EXISTS planet_surface (
			body_id INTEGER NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			terrain_type TEXT NOT NULL,
			PRIMARY KEY (body_id, x, y)
		);`,
		`CREATE TABLE IF NOT EXISTS officers (
			officer_id INTEGER PRIMARY KEY AUTOINCREMENT,
			ship_id INTEGER NOT NULL,
			crew_number INTEGER NOT NULL,
			name TEXT NOT NULL,
			rank TEXT DEFAULT 'Ensign',
			specialty TEXT DEFAULT 'General',
			crew_factors INTEGER DEFAULT 5,
			UNIQUE (ship_id, crew_number)
		);`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			from_prefect_id INTEGER NOT NULL,
			to_prefect_id INTEGER NOT NULL,
			from_ship_id INTEGER,
			turn_year INTEGER NOT NULL,
			turn_week INTEGER NOT NULL,
			body TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS moderator_requests (
			request_id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			prefect_id INTEGER NOT NULL,
			turn_year INTEGER NOT NULL,
			turn_week INTEGER NOT NULL,
			kind TEXT NOT NULL,
			body TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS turn_orders (
			order_id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			turn_year INTEGER NOT NULL,
			turn_week INTEGER NOT NULL,
			ship_id INTEGER NOT NULL,
			order_sequence INTEGER NOT NULL,
			command_line TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS pending_orders (
			pending_id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			ship_id INTEGER NOT NULL,
			order_sequence INTEGER NOT NULL,
			command_line TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS turn_log (
			log_id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			turn_year INTEGER NOT NULL,
			turn_week INTEGER NOT NULL,
			ship_id INTEGER NOT NULL,
			tu_before INTEGER,
			tu_after INTEGER,
			action TEXT NOT NULL,
			result TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_ships_location
			ON ships (game_id, system_id, grid_col, grid_row);`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_prefect
			ON known_contacts (prefect_id);`,
		`CREATE INDEX IF NOT EXISTS idx_turn_orders_turn
			ON turn_orders (game_id, turn_year, turn_week, ship_id, order_sequence);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func turnString(year, week int) string {
	return fmt.Sprintf("%d.%d", year, week)
}

// CreateGame inserts a new game row starting at turn 500.1.
func (s *Store) CreateGame(id, name, seed string) error {
	_, err := s.db.Exec(
		`INSERT INTO games (game_id, game_name, current_year, current_week, rng_seed)
		 VALUES (?, ?, 500, 1, ?)`, id, name, seed)
	return err
}

func (s *Store) Game(id string) (Game, error) {
	var g Game
	err := s.db.QueryRow(
		`SELECT game_id, game_name, current_year, current_week, COALESCE(rng_seed,'')
		 FROM games WHERE game_id = ?`, id).
		Scan(&g.ID, &g.Name, &g.Year, &g.Week, &g.RNGSeed)
	if err == sql.ErrNoRows {
		return g, fmt.Errorf("game %s not found", id)
	}
	return g, err
}

// AdvanceTurn moves the game clock one week, rolling the year at week 52.
func (s *Store) AdvanceTurn(id string) (Game, error) {
	g, err := s.Game(id)
	if err != nil {
		return g, err
	}
	if g.Week >= 52 {
		g.Year++
		g.Week = 1
	} else {
		g.Week++
	}
	_, err = s.db.Exec(
		`UPDATE games SET current_year = ?, current_week = ? WHERE game_id = ?`,
		g.Year, g.Week, g.ID)
	if err == nil {
		s.log.Printf("game %s advanced to turn %s", g.ID, g.TurnString())
	}
	return g, err
}

// AbsoluteWeek flattens year.week to a single week index for cycle math.
func AbsoluteWeek(year, week int) int {
	return year*52 + (week - 1)
}
