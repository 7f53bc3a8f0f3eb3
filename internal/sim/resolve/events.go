package resolve

// Event is a progress notification emitted while a turn resolves. Consumers
// subscribe via SetObserver; the zero observer costs nothing.
type Event struct {
	Kind    string `json:"kind"` // turn_start, move, order, ship_done, turn_done
	GameID  string `json:"game_id"`
	Turn    string `json:"turn"`
	ShipID  int64  `json:"ship_id,omitempty"`
	Ship    string `json:"ship,omitempty"`
	Col     string `json:"col,omitempty"`
	Row     int    `json:"row,omitempty"`
	TU      int    `json:"tu,omitempty"`
	Command string `json:"command,omitempty"`
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}

// SetObserver installs a callback invoked synchronously during ResolveTurn.
// The callback must not call back into the resolver.
func (r *Resolver) SetObserver(fn func(Event)) { r.observer = fn }

func (r *Resolver) emit(ev Event) {
	if r.observer != nil {
		r.observer(ev)
	}
}

func (r *Resolver) emitEntry(turn string, st *shipState, e LogEntry) {
	r.emit(Event{
		Kind: "order", GameID: st.ship.GameID, Turn: turn,
		ShipID: st.ship.ID, Ship: st.ship.Name,
		Col: st.ship.Col, Row: st.ship.Row, TU: st.ship.TURemaining,
		Command: e.Command, Success: e.Success, Message: e.Message,
	})
}
