// Package resolve is the turn resolution engine: an interleaved multi-agent
// scheduler that walks every ship's order queue for the turn, charging Time
// Units per command, committing each step to the store immediately so other
// ships' scans observe it, and carrying unfinished orders to the next turn.
package resolve

import (
	"container/heap"
	"fmt"
	"log"
	"math/rand"
	"os"

	"stellardominion.net/internal/grid"
	"stellardominion.net/internal/orders"
	"stellardominion.net/internal/sim/market"
	"stellardominion.net/internal/sim/seed"
	"stellardominion.net/internal/store"
	"stellardominion.net/internal/tuning"
)

type Resolver struct {
	store    *store.Store
	tune     tuning.Tuning
	pricer   *market.Pricer
	log      *log.Logger
	observer func(Event)
}

func New(st *store.Store, tune tuning.Tuning, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(os.Stderr, "[resolve] ", log.LstdFlags)
	}
	return &Resolver{
		store:  st,
		tune:   tune,
		pricer: market.NewPricer(st, tune, logger),
		log:    logger,
	}
}

// shipState is the scheduler-owned working copy of one ship during a turn.
// The Ship entity is only authoritative again after the final commit.
type shipState struct {
	ship       store.Ship
	startTU    int
	efficiency int
	rng        *rand.Rand
	queue      []orders.Order
	move       *moveProgress
	result     *ShipResult
	seen       map[string]bool // contact dedupe key: "type/id"
}

// moveProgress accumulates a multi-square MOVE so the whole order produces a
// single log entry no matter how many scheduler slices it spans.
type moveProgress struct {
	order     orders.Order
	target    grid.Coord
	tuBefore  int
	cost      int
	waypoints []grid.Coord
	prefix    string
	detected  []store.Object
}

type schedEntry struct {
	priority int // elapsed TU plus estimated cost of the head order
	counter  int
	st       *shipState
}

type schedQueue []*schedEntry

func (q schedQueue) Len() int { return len(q) }
func (q schedQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	if q[i].counter != q[j].counter {
		return q[i].counter < q[j].counter
	}
	return q[i].st.ship.ID < q[j].st.ship.ID
}
func (q schedQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *schedQueue) Push(x any)        { *q = append(*q, x.(*schedEntry)) }
func (q *schedQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// ResolveTurn resolves the current turn for every active ship in the game.
// Ships without orders still get their TU reset and appear in the result.
func (r *Resolver) ResolveTurn(gameID string) (*TurnResult, error) {
	g, err := r.store.Game(gameID)
	if err != nil {
		return nil, err
	}
	ships, err := r.store.ShipsInGame(gameID)
	if err != nil {
		return nil, err
	}

	r.emit(Event{Kind: "turn_start", GameID: g.ID, Turn: g.TurnString()})
	result := &TurnResult{GameID: g.ID, Year: g.Year, Week: g.Week}
	var states []*shipState
	for _, sh := range ships {
		st, err := r.newShipState(g, sh)
		if err != nil {
			return nil, fmt.Errorf("ship %d: %w", sh.ID, err)
		}
		states = append(states, st)
		result.Ships = append(result.Ships, st.result)
	}

	pq := &schedQueue{}
	counter := 0
	for _, st := range states {
		if len(st.queue) == 0 {
			continue
		}
		heap.Push(pq, &schedEntry{
			priority: estimateCost(st.queue[0], r.tune.Costs, st.efficiency, st.ship.TURemaining),
			counter:  counter,
			st:       st,
		})
		counter++
	}

	for pq.Len() > 0 {
		e := heap.Pop(pq).(*schedEntry)
		st := e.st
		if err := r.step(g, st); err != nil {
			return nil, fmt.Errorf("ship %d: %w", st.ship.ID, err)
		}
		if len(st.queue) > 0 {
			elapsed := st.startTU - st.ship.TURemaining
			heap.Push(pq, &schedEntry{
				priority: elapsed + estimateCost(st.queue[0], r.tune.Costs, st.efficiency, st.ship.TURemaining),
				counter:  counter,
				st:       st,
			})
			counter++
		}
	}

	for _, st := range states {
		if err := r.finalize(g, st); err != nil {
			return nil, fmt.Errorf("ship %d: %w", st.ship.ID, err)
		}
		r.emit(Event{
			Kind: "ship_done", GameID: g.ID, Turn: g.TurnString(),
			ShipID: st.ship.ID, Ship: st.ship.Name,
			Col: st.ship.Col, Row: st.ship.Row, TU: st.ship.TURemaining,
		})
	}
	r.emit(Event{Kind: "turn_done", GameID: g.ID, Turn: g.TurnString()})
	return result, nil
}

func (r *Resolver) newShipState(g store.Game, sh store.Ship) (*shipState, error) {
	sh.TURemaining = sh.TUPerTurn
	if err := r.store.CommitShipState(sh); err != nil {
		return nil, err
	}

	seedKey := fmt.Sprintf("%s-%d.%d-%d", g.ID, g.Year, g.Week, sh.ID)
	st := &shipState{
		ship:       sh,
		startTU:    sh.TUPerTurn,
		efficiency: Efficiency(sh.CrewCount, sh.CrewRequired),
		rng:        seed.Rand(seedKey),
		seen:       map[string]bool{},
		result: &ShipResult{
			ShipID:   sh.ID,
			ShipName: sh.Name,
			SystemID: sh.SystemID,
			StartCol: sh.Col,
			StartRow: sh.Row,
			StartTU:  sh.TUPerTurn,
			SeedKey:  seedKey,
			Year:     g.Year,
			Week:     g.Week,
		},
	}

	carried, err := r.loadOrders(r.store.PendingOrders(g.ID, sh.ID))
	if err != nil {
		return nil, err
	}
	filed, err := r.loadOrders(r.store.TurnOrders(g.ID, g.Year, g.Week, sh.ID))
	if err != nil {
		return nil, err
	}

	// A CLEAR at the head of the filed orders discards the carried-over
	// queue before anything runs.
	if len(filed) > 0 && filed[0].Kind == orders.KindClear {
		if len(carried) > 0 {
			st.result.Log = append(st.result.Log, LogEntry{
				Command: string(orders.KindClear), Success: true,
				TUBefore: sh.TUPerTurn, TUAfter: sh.TUPerTurn,
				Message: fmt.Sprintf("Discarded %d carried-over order(s).", len(carried)),
			})
		} else {
			st.result.Log = append(st.result.Log, LogEntry{
				Command: string(orders.KindClear), Success: true,
				TUBefore: sh.TUPerTurn, TUAfter: sh.TUPerTurn,
				Message: "No carried-over orders to discard.",
			})
		}
		carried = nil
		filed = filed[1:]
	}
	if err := r.store.ClearPendingOrders(g.ID, sh.ID); err != nil {
		return nil, err
	}

	st.queue = append(carried, filed...)
	for i := range st.queue {
		st.queue[i].Sequence = i + 1
	}
	return st, nil
}

func (r *Resolver) loadOrders(lines []string, err error) ([]orders.Order, error) {
	if err != nil {
		return nil, err
	}
	var out []orders.Order
	for _, line := range lines {
		kind, params, perr := orders.ParseLine(line)
		if perr != nil {
			// Stored lines were validated at submission; a bad one is a
			// store-level defect, not a player error.
			return nil, fmt.Errorf("stored order '%s': %w", line, perr)
		}
		out = append(out, orders.Order{Sequence: len(out) + 1, Kind: kind, Params: params})
	}
	return out, nil
}

// step runs one scheduler slice for a ship: a single MOVE square, or one
// whole non-MOVE order.
func (r *Resolver) step(g store.Game, st *shipState) error {
	head := st.queue[0]
	if head.Kind == orders.KindMove {
		return r.moveStep(g, st, head)
	}

	entry := r.execute(g, st, head)
	st.result.Log = append(st.result.Log, entry)
	r.emitEntry(g.TurnString(), st, entry)
	if entry.TUExhausted {
		st.result.Overflow = append(st.result.Overflow, st.queue...)
		st.queue = nil
	} else {
		st.queue = st.queue[1:]
	}
	if err := r.store.CommitShipState(st.ship); err != nil {
		return err
	}
	return r.detectSameSquare(g, st, nil)
}

// moveStep advances a MOVE by exactly one grid square, so other ships
// scheduled between squares see the transit.
func (r *Resolver) moveStep(g store.Game, st *shipState, head orders.Order) error {
	target := head.Params.(orders.MoveParams).Target

	if st.ship.DockedAtBaseID != 0 {
		st.result.Log = append(st.result.Log, LogEntry{
			Command: string(head.Kind), Params: head.ParamString(),
			TUBefore: st.ship.TURemaining, TUAfter: st.ship.TURemaining,
			Success: false,
			Message: "Cannot move while docked. UNDOCK first.",
		})
		st.queue = st.queue[1:]
		return nil
	}
	if st.ship.LandedBodyID != 0 {
		st.result.Log = append(st.result.Log, LogEntry{
			Command: string(head.Kind), Params: head.ParamString(),
			TUBefore: st.ship.TURemaining, TUAfter: st.ship.TURemaining,
			Success: false,
			Message: "Cannot move while landed. TAKEOFF first.",
		})
		st.queue = st.queue[1:]
		return nil
	}

	at := grid.Coord{Col: st.ship.Col, Row: st.ship.Row}
	if at == target && st.move == nil {
		st.result.Log = append(st.result.Log, LogEntry{
			Command: string(head.Kind), Params: head.ParamString(),
			TUBefore: st.ship.TURemaining, TUAfter: st.ship.TURemaining,
			Success: true,
			Message: fmt.Sprintf("Ship already at %s.", target),
		})
		st.queue = st.queue[1:]
		return nil
	}

	stepCost := EffectiveCost(r.tune.Costs.MovePerSquare, st.efficiency)
	if st.ship.TURemaining < stepCost {
		r.finishMove(st, head, true)
		st.result.Overflow = append(st.result.Overflow, st.queue...)
		st.queue = nil
		return nil
	}

	if st.move == nil {
		st.move = &moveProgress{order: head, target: target, tuBefore: st.ship.TURemaining}
		if st.ship.OrbitingBodyID != 0 {
			name := fmt.Sprintf("%d", st.ship.OrbitingBodyID)
			if body, err := r.store.Body(st.ship.OrbitingBodyID); err == nil {
				name = body.Name
			}
			st.move.prefix = fmt.Sprintf("Leaving orbit of %s. ", name)
			st.ship.OrbitingBodyID = 0
		}
	}

	next := grid.Step(at, target)
	st.ship.Col = next.Col
	st.ship.Row = next.Row
	st.ship.TURemaining -= stepCost
	st.move.cost += stepCost
	st.move.waypoints = append(st.move.waypoints, next)

	if err := r.store.CommitShipState(st.ship); err != nil {
		return err
	}
	r.emit(Event{
		Kind: "move", GameID: g.ID, Turn: g.TurnString(),
		ShipID: st.ship.ID, Ship: st.ship.Name,
		Col: st.ship.Col, Row: st.ship.Row, TU: st.ship.TURemaining,
		Command: string(head.Kind), Success: true,
	})
	if err := r.detectSameSquare(g, st, st.move); err != nil {
		return err
	}

	if next == target {
		r.finishMove(st, head, false)
		st.queue = st.queue[1:]
	}
	return nil
}

// finishMove folds the move accumulator into one log entry and clears it.
// exhausted means the order must overflow with its original target intact.
func (r *Resolver) finishMove(st *shipState, head orders.Order, exhausted bool) {
	loc := grid.Coord{Col: st.ship.Col, Row: st.ship.Row}
	entry := LogEntry{
		Command:     string(head.Kind),
		Params:      head.ParamString(),
		TUAfter:     st.ship.TURemaining,
		TUExhausted: exhausted,
	}
	if st.move == nil {
		// Exhausted before the first square.
		entry.TUBefore = st.ship.TURemaining
		entry.Success = false
		entry.Message = fmt.Sprintf(
			"Insufficient TU for move (%d remaining). Order queued as pending.",
			st.ship.TURemaining)
		st.result.Log = append(st.result.Log, entry)
		return
	}

	m := st.move
	entry.TUBefore = m.tuBefore
	entry.TUCost = m.cost
	entry.Waypoints = m.waypoints
	entry.Detected = m.detected
	if exhausted {
		entry.Success = true
		remaining := grid.Distance(loc, m.target)
		entry.Message = fmt.Sprintf(
			"%sShip moved to %s (%d square(s) short of %s). Insufficient TU to continue; order queued as pending.",
			m.prefix, loc, remaining, m.target)
	} else {
		entry.Success = true
		entry.Message = fmt.Sprintf("%sShip moved to %s.", m.prefix, loc)
	}
	st.result.Log = append(st.result.Log, entry)
	st.move = nil
}

// detectSameSquare records any other active ship sharing the exact grid
// square. Detection is mutual: both prefects learn of each other.
func (r *Resolver) detectSameSquare(g store.Game, st *shipState, m *moveProgress) error {
	others, err := r.store.ShipsAt(g.ID, st.ship.SystemID, st.ship.Col, st.ship.Row, st.ship.ID)
	if err != nil {
		return err
	}
	for _, o := range others {
		obj := store.Object{
			Type: "ship", ID: o.ID, Name: o.Name,
			Col: o.Col, Row: o.Row, Symbol: "@",
			OwnerID: o.OwnerPrefectID, ShipInfo: o.Class,
		}
		st.addContact(obj)
		if m != nil {
			m.detected = append(m.detected, obj)
		}
		// The observed ship's prefect sees this ship too.
		if err := r.store.UpsertContact(store.Contact{
			PrefectID: o.OwnerPrefectID, ObjectType: "ship", ObjectID: st.ship.ID,
			Name: st.ship.Name, SystemID: st.ship.SystemID,
			Col: st.ship.Col, Row: st.ship.Row, Year: g.Year, Week: g.Week,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (st *shipState) addContact(o store.Object) {
	key := fmt.Sprintf("%s/%d", o.Type, o.ID)
	if st.seen[key] {
		// Still refresh the recorded location.
		for i := range st.result.Contacts {
			c := &st.result.Contacts[i]
			if c.Type == o.Type && c.ID == o.ID {
				c.Col, c.Row = o.Col, o.Row
			}
		}
		return
	}
	st.seen[key] = true
	st.result.Contacts = append(st.result.Contacts, o)
}

// finalize flushes a ship's end-of-turn state: result fields, overflow
// persistence, contact upserts and the audit log.
func (r *Resolver) finalize(g store.Game, st *shipState) error {
	res := st.result
	res.FinalCol = st.ship.Col
	res.FinalRow = st.ship.Row
	res.FinalTU = st.ship.TURemaining
	res.SystemID = st.ship.SystemID
	res.DockedAt = st.ship.DockedAtBaseID
	res.Orbiting = st.ship.OrbitingBodyID
	res.LandedOn = st.ship.LandedBodyID

	if err := r.store.CommitShipState(st.ship); err != nil {
		return err
	}

	if len(res.Overflow) > 0 {
		lines := make([]string, len(res.Overflow))
		for i, o := range res.Overflow {
			lines[i] = o.String()
		}
		if err := r.store.ReplacePendingOrders(g.ID, st.ship.ID, lines); err != nil {
			return err
		}
	}

	for _, c := range res.Contacts {
		if err := r.store.UpsertContact(store.Contact{
			PrefectID: st.ship.OwnerPrefectID, ObjectType: c.Type, ObjectID: c.ID,
			Name: c.Name, SystemID: st.ship.SystemID,
			Col: c.Col, Row: c.Row, Year: g.Year, Week: g.Week,
		}); err != nil {
			return err
		}
	}

	for _, e := range res.Log {
		if err := r.store.AppendTurnLog(store.TurnLogRow{
			GameID: g.ID, Year: g.Year, Week: g.Week, ShipID: st.ship.ID,
			TUBefore: e.TUBefore, TUAfter: e.TUAfter,
			Action: e.Command, Result: e.Message,
		}); err != nil {
			return err
		}
	}
	return nil
}
