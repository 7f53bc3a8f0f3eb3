package orders

// Kind is a command kind as written by players.
type Kind string

const (
	KindWait          Kind = "WAIT"
	KindMove          Kind = "MOVE"
	KindLocationScan  Kind = "LOCATIONSCAN"
	KindSystemScan    Kind = "SYSTEMSCAN"
	KindSurfaceScan   Kind = "SURFACESCAN"
	KindOrbit         Kind = "ORBIT"
	KindDock          Kind = "DOCK"
	KindUndock        Kind = "UNDOCK"
	KindLand          Kind = "LAND"
	KindTakeoff       Kind = "TAKEOFF"
	KindJump          Kind = "JUMP"
	KindBuy           Kind = "BUY"
	KindSell          Kind = "SELL"
	KindGetMarket     Kind = "GETMARKET"
	KindMessage       Kind = "MESSAGE"
	KindMakeOfficer   Kind = "MAKEOFFICER"
	KindRenameShip    Kind = "RENAMESHIP"
	KindRenameBase    Kind = "RENAMEBASE"
	KindRenamePrefect Kind = "RENAMEPREFECT"
	KindRenameOfficer Kind = "RENAMEOFFICER"
	KindChangeFaction Kind = "CHANGEFACTION"
	KindModerator     Kind = "MODERATOR"
	KindClear         Kind = "CLEAR"
)

// shape names the parameter payload a command expects.
type shape int

const (
	shapeNone shape = iota
	shapeInteger
	shapeCoordinate
	shapeBodyID
	shapeBaseID
	shapeSystemID
	shapeTrade
	shapeLand
	shapeMessage
	shapeMakeOfficer
	shapeRenameIDName
	shapeRenameOfficer
	shapeChangeFaction
	shapeModerator
)

var commandShapes = map[Kind]shape{
	KindWait:          shapeInteger,
	KindMove:          shapeCoordinate,
	KindLocationScan:  shapeNone,
	KindSystemScan:    shapeNone,
	KindSurfaceScan:   shapeNone,
	KindOrbit:         shapeBodyID,
	KindDock:          shapeBaseID,
	KindUndock:        shapeNone,
	KindLand:          shapeLand,
	KindTakeoff:       shapeNone,
	KindJump:          shapeSystemID,
	KindBuy:           shapeTrade,
	KindSell:          shapeTrade,
	KindGetMarket:     shapeBaseID,
	KindMessage:       shapeMessage,
	KindMakeOfficer:   shapeMakeOfficer,
	KindRenameShip:    shapeRenameIDName,
	KindRenameBase:    shapeRenameIDName,
	KindRenamePrefect: shapeRenameIDName,
	KindRenameOfficer: shapeRenameOfficer,
	KindChangeFaction: shapeChangeFaction,
	KindModerator:     shapeModerator,
	KindClear:         shapeNone,
}

// Known reports whether a command kind exists.
func Known(k Kind) bool {
	_, ok := commandShapes[k]
	return ok
}
