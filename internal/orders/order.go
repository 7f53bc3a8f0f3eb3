// Package orders holds the validated, typed order model and the YAML/text
// parsers that produce it. Parameters are a sum type over command kind so a
// handler never sees a payload of the wrong shape.
package orders

import (
	"encoding/json"
	"fmt"

	"stellardominion.net/internal/grid"
)

// Order is one parsed command. Immutable once constructed.
type Order struct {
	Sequence int
	Kind     Kind
	Params   Params
}

// Params is the per-kind parameter payload.
type Params interface {
	paramString() string
}

type NoParams struct{}

type WaitParams struct{ TU int }

type MoveParams struct{ Target grid.Coord }

type BodyParams struct{ BodyID int64 }

type BaseParams struct{ BaseID int64 }

type SystemParams struct{ SystemID int64 }

type TradeParams struct {
	BaseID   int64
	ItemID   int64
	Quantity int
}

type LandParams struct {
	BodyID int64
	X, Y   int
}

type MessageParams struct {
	TargetID int64
	Text     string
}

type MakeOfficerParams struct {
	ShipID     int64
	CrewTypeID int64
	Name       string
}

type RenameParams struct {
	ID   int64
	Name string
}

type RenameOfficerParams struct {
	ShipID     int64
	CrewNumber int
	Name       string
}

type ChangeFactionParams struct {
	FactionID int64
	Reason    string
}

type ModeratorParams struct{ Text string }

func (NoParams) paramString() string        { return "" }
func (p WaitParams) paramString() string    { return fmt.Sprintf("%d", p.TU) }
func (p MoveParams) paramString() string    { return p.Target.String() }
func (p BodyParams) paramString() string    { return fmt.Sprintf("%d", p.BodyID) }
func (p BaseParams) paramString() string    { return fmt.Sprintf("%d", p.BaseID) }
func (p SystemParams) paramString() string  { return fmt.Sprintf("%d", p.SystemID) }
func (p TradeParams) paramString() string   { return fmt.Sprintf("%d %d %d", p.BaseID, p.ItemID, p.Quantity) }
func (p LandParams) paramString() string    { return fmt.Sprintf("%d %d %d", p.BodyID, p.X, p.Y) }
func (p MessageParams) paramString() string { return fmt.Sprintf("%d %s", p.TargetID, p.Text) }
func (p MakeOfficerParams) paramString() string {
	if p.Name != "" {
		return fmt.Sprintf("%d %d %s", p.ShipID, p.CrewTypeID, p.Name)
	}
	return fmt.Sprintf("%d %d", p.ShipID, p.CrewTypeID)
}
func (p RenameParams) paramString() string { return fmt.Sprintf("%d %s", p.ID, p.Name) }
func (p RenameOfficerParams) paramString() string {
	return fmt.Sprintf("%d %d %s", p.ShipID, p.CrewNumber, p.Name)
}
func (p ChangeFactionParams) paramString() string {
	if p.Reason != "" {
		return fmt.Sprintf("%d %s", p.FactionID, p.Reason)
	}
	return fmt.Sprintf("%d", p.FactionID)
}
func (p ModeratorParams) paramString() string { return p.Text }

// ParamString renders the parameters the way a player would have written them,
// for log entries and receipts.
func (o Order) ParamString() string {
	if o.Params == nil {
		return ""
	}
	return o.Params.paramString()
}

func (o Order) String() string {
	ps := o.ParamString()
	if ps == "" {
		return string(o.Kind)
	}
	return fmt.Sprintf("%s %s", o.Kind, ps)
}

// Orders serialize as their canonical command line, the same form the store
// persists between turns.
func (o Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Order) UnmarshalJSON(b []byte) error {
	var line string
	if err := json.Unmarshal(b, &line); err != nil {
		return err
	}
	kind, params, err := parseLine(line)
	if err != nil {
		return err
	}
	o.Kind = kind
	o.Params = params
	return nil
}
