// Package setup creates games, seeds the demo universe and registers
// players. Registration is deterministic per (game seed, email) so re-running
// a failed registration does not mint new identities.
package setup

import (
	"fmt"
	"time"

	"stellardominion.net/internal/sim/seed"
	"stellardominion.net/internal/store"
)

// CreateGame inserts a new game. An empty rngSeed gets a generated one; pass
// a fixed seed for reproducible universes.
func CreateGame(st *store.Store, id, name, rngSeed string) error {
	if rngSeed == "" {
		rngSeed = fmt.Sprintf("012-%s-%06d", id, time.Now().UnixNano()%1_000_000)
	}
	return st.CreateGame(id, name, rngSeed)
}

// SeedHanfUniverse populates the standard opening sector: the Hanf system
// with three planets, a gas giant and its moon, three market bases, and the
// trade goods catalog.
func SeedHanfUniverse(st *store.Store, gameID string) error {
	if err := st.AddSystem(store.StarSystem{
		ID: 231, GameID: gameID, Name: "Hanf", StarName: "Hanf Prime",
		SpectralType: "G2V", StarCol: "M", StarRow: 13,
	}); err != nil {
		return err
	}

	bodies := []store.Body{
		{ID: 247985, SystemID: 231, Name: "Orion", Type: "planet", Col: "H", Row: 4,
			Gravity: 0.9, Temperature: 295, Atmosphere: "Standard",
			Tectonic: 4, Hydrosphere: 65, Life: "Animal", Symbol: "O", SurfaceSize: 31},
		{ID: 301442, SystemID: 231, Name: "Tartarus", Type: "planet", Col: "R", Row: 8,
			Gravity: 1.2, Temperature: 340, Atmosphere: "Dense",
			Tectonic: 7, Hydrosphere: 15, Life: "None", Symbol: "O", SurfaceSize: 31},
		{ID: 155230, SystemID: 231, Name: "Leviathan", Type: "gas_giant", Col: "E", Row: 18,
			Gravity: 2.5, Temperature: 120, Atmosphere: "Hydrogen", Symbol: "G", SurfaceSize: 31},
		{ID: 88341, SystemID: 231, Name: "Callyx", Type: "moon", ParentID: 155230,
			Col: "F", Row: 19, Gravity: 0.3, Temperature: 95, Atmosphere: "Thin",
			Tectonic: 2, Hydrosphere: 30, Life: "None", Symbol: "o", SurfaceSize: 31},
		{ID: 412003, SystemID: 231, Name: "Meridian", Type: "planet", Col: "T", Row: 20,
			Gravity: 0.7, Temperature: 210, Atmosphere: "Thin",
			Tectonic: 3, Hydrosphere: 40, Life: "Plant", Symbol: "O", SurfaceSize: 31},
	}
	for _, b := range bodies {
		if err := st.AddBody(b); err != nil {
			return err
		}
	}

	bases := []store.Base{
		{ID: 45687590, GameID: gameID, Name: "Citadel Station", Type: "Starbase",
			SystemID: 231, Col: "H", Row: 4, OrbitingBodyID: 247985,
			HasMarket: true, DockingCapacity: 5},
		{ID: 12340001, GameID: gameID, Name: "Tartarus Depot", Type: "Outpost",
			SystemID: 231, Col: "R", Row: 8, OrbitingBodyID: 301442,
			HasMarket: true, DockingCapacity: 3},
		{ID: 78901234, GameID: gameID, Name: "Meridian Waystation", Type: "Outpost",
			SystemID: 231, Col: "T", Row: 20, OrbitingBodyID: 412003,
			HasMarket: true, DockingCapacity: 3},
	}
	for _, b := range bases {
		if err := st.AddBase(b); err != nil {
			return err
		}
	}

	items := []store.Item{
		{ID: 5001, Name: "Rations", MassPerUnit: 1, BasePrice: 12},
		{ID: 5002, Name: "Iridium Ore", MassPerUnit: 4, BasePrice: 85},
		{ID: 5003, Name: "Ship Parts", MassPerUnit: 8, BasePrice: 140},
		{ID: 5004, Name: "Fuel Cells", MassPerUnit: 2, BasePrice: 30},
		{ID: 5005, Name: "Spacehands", MassPerUnit: 0, BasePrice: 150, IsCrew: true},
	}
	for _, it := range items {
		if err := st.AddItem(it); err != nil {
			return err
		}
	}

	roles := []struct {
		baseID, itemID int64
		role           string
	}{
		{45687590, 5003, "produces"},
		{45687590, 5002, "demands"},
		{12340001, 5002, "produces"},
		{12340001, 5001, "demands"},
		{78901234, 5001, "produces"},
		{78901234, 5004, "demands"},
	}
	for _, r := range roles {
		if err := st.SetMarketRole(r.baseID, r.itemID, r.role); err != nil {
			return err
		}
	}
	return nil
}

// Credentials are what a newly registered player is told: the secret account
// number routes reports, the ship id addresses orders.
type Credentials struct {
	PlayerID  int64
	PrefectID int64
	ShipID    int64
	Account   string
}

// RegisterPlayer creates the player, their prefect and a starting Scout.
// When the registration names a starbase the ship begins docked there;
// otherwise it starts in open space at I06.
func RegisterPlayer(st *store.Store, reg Registration) (*Credentials, error) {
	if errs := reg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid registration: %s", errs[0])
	}
	g, err := st.Game(reg.Game)
	if err != nil {
		return nil, err
	}
	rng := seed.Rand(g.RNGSeed + "-" + reg.Email)
	account := fmt.Sprintf("%08d", 10_000_000+rng.Intn(90_000_000))
	prefectID := int64(10_000 + rng.Intn(99_980_000))
	shipID := int64(10_000 + rng.Intn(99_980_000))

	playerID, err := st.AddPlayer(store.Player{
		GameID: g.ID, Name: reg.PlayerName, Email: reg.Email, AccountNumber: account,
	})
	if err != nil {
		return nil, err
	}
	if err := st.AddPrefect(store.Prefect{
		ID: prefectID, PlayerID: playerID, GameID: g.ID,
		Name: reg.PrefectName, Rank: "Prefect", Credits: 10000,
	}); err != nil {
		return nil, err
	}

	ship := store.Ship{
		ID: shipID, GameID: g.ID, OwnerPrefectID: prefectID,
		Name: reg.ShipName, Class: "Scout",
		Col: "I", Row: 6, SystemID: 231,
		TUPerTurn: 300, TURemaining: 300,
		SensorRating: 20, CargoCapacity: 500, LifeSupport: 40,
		CrewCount: 15, CrewRequired: 10,
	}
	if reg.Starbase != 0 {
		base, err := st.Base(reg.Starbase)
		if err != nil {
			return nil, fmt.Errorf("starbase %d not found", reg.Starbase)
		}
		ship.SystemID = base.SystemID
		ship.Col = base.Col
		ship.Row = base.Row
		ship.DockedAtBaseID = base.ID
	}
	if err := st.AddShip(ship); err != nil {
		return nil, err
	}
	if err := st.AddOfficer(store.Officer{
		ShipID: shipID, Number: 1, Name: reg.PrefectName,
		Rank: "Captain", Specialty: "Navigation", CrewFactors: 8,
	}); err != nil {
		return nil, err
	}

	return &Credentials{
		PlayerID: playerID, PrefectID: prefectID, ShipID: shipID, Account: account,
	}, nil
}
