package store

// Game is the top-level campaign record. Turns are year.week, week 1..52.
type Game struct {
	ID      string
	Name    string
	Year    int
	Week    int
	RNGSeed string
}

func (g Game) TurnString() string {
	return turnString(g.Year, g.Week)
}

type StarSystem struct {
	ID           int64
	GameID       string
	Name         string
	StarName     string
	SpectralType string
	StarCol      string
	StarRow      int
}

type Body struct {
	ID          int64
	SystemID    int64
	Name        string
	Type        string // planet, moon, gas_giant, asteroid
	ParentID    int64
	Col         string
	Row         int
	Gravity     float64
	Temperature int
	Atmosphere  string
	Tectonic    int
	Hydrosphere int
	Life        string
	Symbol      string
	SurfaceSize int
}

func (b Body) IsGasGiant() bool { return b.Type == "gas_giant" }

type Base struct {
	ID              int64
	GameID          string
	OwnerPrefectID  int64
	Name            string
	Type            string
	SystemID        int64
	Col             string
	Row             int
	OrbitingBodyID  int64
	HasMarket       bool
	DockingCapacity int
}

type Player struct {
	ID            int64
	GameID        string
	Name          string
	Email         string
	AccountNumber string
	Suspended     bool
}

// Prefect is a player's persistent command position: it owns ships and holds
// credits independent of any one hull.
type Prefect struct {
	ID          int64
	PlayerID    int64
	GameID      string
	Name        string
	Affiliation string
	Rank        string
	Credits     int64
	Influence   int
}

type Ship struct {
	ID             int64
	GameID         string
	OwnerPrefectID int64
	Name           string
	Class          string
	Col            string
	Row            int
	SystemID       int64
	DockedAtBaseID int64
	OrbitingBodyID int64
	LandedBodyID   int64
	LandedX        int
	LandedY        int
	TUPerTurn      int
	TURemaining    int
	SensorRating   int
	CargoCapacity  int
	LifeSupport    int
	CrewCount      int
	CrewRequired   int
}

type Item struct {
	ID          int64
	Name        string
	MassPerUnit int
	BasePrice   int64
	IsCrew      bool
}

type CargoItem struct {
	ShipID      int64
	ItemID      int64
	Name        string
	Quantity    int
	MassPerUnit int
}

// Quote is one market price row for a (base, item, cycle) key. Stock and
// demand deplete monotonically within the cycle.
type Quote struct {
	GameID     string
	BaseID     int64
	ItemID     int64
	CycleStart int // absolute week index of the cycle start
	BuyPrice   int64
	SellPrice  int64
	Stock      int
	Demand     int
}

type Contact struct {
	PrefectID  int64
	ObjectType string
	ObjectID   int64
	Name       string
	SystemID   int64
	Col        string
	Row        int
	Year       int
	Week       int
}

// Object is a scannable entity in a system: the star, a body, a base or a
// ship, normalized for map rendering and contact recording.
type Object struct {
	Type     string
	ID       int64
	Name     string
	Col      string
	Row      int
	Symbol   string
	OwnerID  int64 // owning prefect, ships and bases only
	ShipInfo string
}

type SurfaceTile struct {
	BodyID  int64
	X, Y    int
	Terrain string
}

type Officer struct {
	ID          int64
	ShipID      int64
	Number      int
	Name        string
	Rank        string
	Specialty   string
	CrewFactors int
}

type Message struct {
	GameID    string
	FromID    int64
	ToID      int64
	Year      int
	Week      int
	Text      string
	FromShip  int64
}

// StoredOrder is a turn or overflow order persisted as its canonical command
// line; the parser reconstructs the typed form on load.
type StoredOrder struct {
	ShipID   int64
	Sequence int
	Line     string
}

type TurnLogRow struct {
	GameID   string
	Year     int
	Week     int
	ShipID   int64
	TUBefore int
	TUAfter  int
	Action   string
	Result   string
}
