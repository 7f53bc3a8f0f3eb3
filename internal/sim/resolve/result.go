package resolve

import (
	"stellardominion.net/internal/grid"
	"stellardominion.net/internal/orders"
	"stellardominion.net/internal/store"
)

// LogEntry is one record per fully or partially executed order.
type LogEntry struct {
	Command     string
	Params      string
	TUBefore    int
	TUAfter     int
	TUCost      int
	Success     bool
	TUExhausted bool
	Message     string

	// Command-specific side channels.
	Waypoints []grid.Coord   // MOVE: squares actually traversed
	Detected  []store.Object // scans and passive detection
}

// ShipResult aggregates one ship's turn: start and end state, the full log,
// contacts discovered, and the orders carried forward.
type ShipResult struct {
	ShipID   int64
	ShipName string
	SystemID int64

	StartCol string
	StartRow int
	StartTU  int

	FinalCol string
	FinalRow int
	FinalTU  int

	DockedAt int64
	Orbiting int64
	LandedOn int64

	Log      []LogEntry
	Overflow []orders.Order
	Contacts []store.Object
	SeedKey  string
	Year     int
	Week     int
}

// TurnResult is the whole turn's output, one ShipResult per resolved ship,
// in ship-id order.
type TurnResult struct {
	GameID string
	Year   int
	Week   int
	Ships  []*ShipResult
}

func (t *TurnResult) Ship(id int64) *ShipResult {
	for _, r := range t.Ships {
		if r.ShipID == id {
			return r
		}
	}
	return nil
}
