package resolve

import (
	"fmt"
	"strings"

	"stellardominion.net/internal/grid"
	"stellardominion.net/internal/orders"
	"stellardominion.net/internal/sim/maps"
	"stellardominion.net/internal/sim/surface"
	"stellardominion.net/internal/store"
)

func (st *shipState) at() grid.Coord {
	return grid.Coord{Col: st.ship.Col, Row: st.ship.Row}
}

func (st *shipState) entryFor(o orders.Order) LogEntry {
	return LogEntry{
		Command:  string(o.Kind),
		Params:   o.ParamString(),
		TUBefore: st.ship.TURemaining,
		TUAfter:  st.ship.TURemaining,
	}
}

// fail is a precondition or missing-entity failure: no TU charged, order
// dropped with a narrative message.
func fail(e LogEntry, format string, args ...any) LogEntry {
	e.Success = false
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// exhausted flags the order for overflow; nothing is charged.
func exhausted(e LogEntry, what string, have, need int) LogEntry {
	e.Success = false
	e.TUExhausted = true
	e.Message = fmt.Sprintf("Insufficient TU for %s (%d < %d). Order queued as pending.", what, have, need)
	return e
}

func (st *shipState) charge(e LogEntry, cost int) LogEntry {
	st.ship.TURemaining -= cost
	e.TUCost = cost
	e.TUAfter = st.ship.TURemaining
	e.Success = true
	return e
}

// execute runs one whole non-MOVE order against the working ship state.
func (r *Resolver) execute(g store.Game, st *shipState, o orders.Order) LogEntry {
	switch o.Kind {
	case orders.KindWait:
		return r.cmdWait(st, o)
	case orders.KindLocationScan:
		return r.cmdLocationScan(g, st, o)
	case orders.KindSystemScan:
		return r.cmdSystemScan(g, st, o)
	case orders.KindSurfaceScan:
		return r.cmdSurfaceScan(st, o)
	case orders.KindOrbit:
		return r.cmdOrbit(st, o)
	case orders.KindDock:
		return r.cmdDock(g, st, o)
	case orders.KindUndock:
		return r.cmdUndock(st, o)
	case orders.KindLand:
		return r.cmdLand(st, o)
	case orders.KindTakeoff:
		return r.cmdTakeoff(st, o)
	case orders.KindJump:
		return r.cmdJump(st, o)
	case orders.KindBuy:
		return r.cmdBuy(g, st, o)
	case orders.KindSell:
		return r.cmdSell(g, st, o)
	case orders.KindGetMarket:
		return r.cmdGetMarket(g, st, o)
	case orders.KindMessage:
		return r.cmdMessage(g, st, o)
	case orders.KindMakeOfficer:
		return r.cmdMakeOfficer(st, o)
	case orders.KindRenameShip, orders.KindRenameBase, orders.KindRenamePrefect:
		return r.cmdRename(st, o)
	case orders.KindRenameOfficer:
		return r.cmdRenameOfficer(st, o)
	case orders.KindChangeFaction:
		return r.cmdChangeFaction(g, st, o)
	case orders.KindModerator:
		return r.cmdModerator(g, st, o)
	case orders.KindClear:
		e := st.entryFor(o)
		e.Success = true
		e.Message = "No carried-over orders to discard."
		return e
	default:
		return fail(st.entryFor(o), "Unknown command: %s", o.Kind)
	}
}

// WAIT never overflows: a ship can always wait out whatever TU it has left.
func (r *Resolver) cmdWait(st *shipState, o orders.Order) LogEntry {
	e := st.entryFor(o)
	want := EffectiveCost(o.Params.(orders.WaitParams).TU, st.efficiency)
	if st.ship.TURemaining < want {
		have := st.ship.TURemaining
		e = st.charge(e, have)
		e.Message = fmt.Sprintf("Waiting complete (partial: %d of %d TU).", have, want)
		return e
	}
	e = st.charge(e, want)
	e.Message = "Waiting complete."
	return e
}

func (r *Resolver) cmdLocationScan(g store.Game, st *shipState, o orders.Order) LogEntry {
	e := st.entryFor(o)
	cost := EffectiveCost(r.tune.Costs.LocationScan, st.efficiency)
	if st.ship.TURemaining < cost {
		return exhausted(e, "scan", st.ship.TURemaining, cost)
	}

	objects, err := r.store.SystemObjects(g.ID, st.ship.SystemID)
	if err != nil {
		return fail(e, "Scan failed: sensor fault.")
	}
	e = st.charge(e, cost)

	at := st.at()
	for _, obj := range objects {
		if obj.Type == "ship" && obj.ID == st.ship.ID {
			continue
		}
		oc := grid.Coord{Col: obj.Col, Row: obj.Row}
		if grid.Distance(at, oc) > r.tune.ScanRadius {
			continue
		}
		e.Detected = append(e.Detected, obj)
		st.addContact(obj)
	}

	if len(e.Detected) == 0 {
		e.Message = "Scan complete. No contacts detected."
		return e
	}
	lines := []string{"Scan complete. Detected:"}
	for _, obj := range e.Detected {
		lines = append(lines, fmt.Sprintf("    %s (%d) at %s%02d", obj.Name, obj.ID, obj.Col, obj.Row))
	}
	e.Message = strings.Join(lines, "\n")
	return e
}

func (r *Resolver) cmdSystemScan(g store.Game, st *shipState, o orders.Order) LogEntry {
	e := st.entryFor(o)
	cost := EffectiveCost(r.tune.Costs.SystemScan, st.efficiency)
	if st.ship.TURemaining < cost {
		return exhausted(e, "system scan", st.ship.TURemaining, cost)
	}

	objects, err := r.store.SystemObjects(g.ID, st.ship.SystemID)
	if err != nil {
		return fail(e, "System scan failed: sensor fault.")
	}
	e = st.charge(e, cost)

	var drawn []store.Object
	for _, obj := range objects {
		if obj.Type == "ship" && obj.ID == st.ship.ID {
			continue
		}
		drawn = append(drawn, obj)
		e.Detected = append(e.Detected, obj)
		st.addContact(obj)
	}
	lines := maps.RenderSystem("", drawn, &st.ship)
	e.Message = "System scan complete.\n" + strings.Join(lines, "\n")
	return e
}

func (r *Resolver) cmdSurfaceScan(st *shipState, o orders.Order) LogEntry {
	e := st.entryFor(o)
	bodyID := st.ship.OrbitingBodyID
	if bodyID == 0 {
		bodyID = st.ship.LandedBodyID
	}
	if bodyID == 0 {
		return fail(e, "Unable to scan surface: ship is not orbiting or landed on a body.")
	}
	cost := EffectiveCost(r.tune.Costs.SurfaceScan, st.efficiency)
	if st.ship.TURemaining < cost {
		return exhausted(e, "surface scan", st.ship.TURemaining, cost)
	}

	body, err := r.store.Body(bodyID)
	if err != nil {
		return fail(e, "Unable to scan surface: body %d not found.", bodyID)
	}
	tiles, err := surface.GetOrGenerate(r.store, body)
	if err != nil {
		return fail(e, "Surface scan failed: sensor fault.")
	}
	e = st.charge(e, cost)

	var pos *surface.ShipPos
	if st.ship.LandedBodyID == bodyID {
		pos = &surface.ShipPos{X: st.ship.LandedX, Y: st.ship.LandedY}
	}
	lines := surface.Render(body, tiles, pos)
	e.Message = "Surface scan complete.\n" + strings.Join(lines, "\n")
	return e
}

func (r *Resolver) cmdOrbit(st *shipState, o orders.Order) LogEntry {
	e := st.entryFor(o)
	bodyID := o.Params.(orders.BodyParams).BodyID

	if st.ship.DockedAtBaseID != 0 {
		return fail(e, "Cannot orbit while docked. UNDOCK first.")
	}
	if st.ship.LandedBodyID != 0 {
		return fail(e, "Cannot orbit while landed. TAKEOFF first.")
	}
	cost := EffectiveCost(r.tune.Costs.Orbit, st.efficiency)
	if st.ship.TURemaining < cost {
		return exhausted(e, "orbit", st.ship.TURemaining, cost)
	}

	body, err := r.store.Body(bodyID)
	if err != nil || body.SystemID != st.ship.SystemID {
		return fail(e, "Unable to orbit: celestial body %d not found in this system.", bodyID)
	}
	if body.Col != st.ship.Col || body.Row != st.ship.Row {
		return fail(e, "Unable to orbit: ship is not at %s location (%s%02d).",
			body.Name, body.Col, body.Row)
	}

	st.ship.OrbitingBodyID = bodyID
	e = st.charge(e, cost)
	e.Message = fmt.Sprintf("Ship entered orbit of %s (%d) [%.1fg]", body.Name, bodyID, body.Gravity)
	return e
}

func (r *Resolver) cmdDock(g store.Game, st *shipState, o orders.Order) LogEntry {
	e := st.entryFor(o)
	baseID := o.Params.(orders.BaseParams).BaseID

	if st.ship.DockedAtBaseID != 0 {
		return fail(e, "Unable to dock: ship is already docked at base %d.", st.ship.DockedAtBaseID)
	}
	if st.ship.LandedBodyID != 0 {
		return fail(e, "Cannot dock while landed. TAKEOFF first.")
	}
	cost := EffectiveCost(r.tune.Costs.Dock, st.efficiency)
	if st.ship.TURemaining < cost {
		return exhausted(e, "docking", st.ship.TURemaining, cost)
	}

	base, err := r.store.Base(baseID)
	if err != nil || base.GameID != g.ID {
		return fail(e, "Unable to dock: base %d not found.", baseID)
	}
	if base.Col != st.ship.Col || base.Row != st.ship.Row {
		return fail(e, "Unable to dock: ship is not at base location (%s%02d).", base.Col, base.Row)
	}
	if base.OrbitingBodyID != 0 && st.ship.OrbitingBodyID != base.OrbitingBodyID {
		return fail(e, "Unable to dock: %s orbits body %d. ORBIT the body first.",
			base.Name, base.OrbitingBodyID)
	}

	st.ship.DockedAtBaseID = baseID
	st.ship.OrbitingBodyID = 0
	e = st.charge(e, cost)

	// Everything sharing the square is scanned as part of docking.
	var scanned []string
	if objects, err := r.store.SystemObjects(g.ID, st.ship.SystemID); err == nil {
		for _, obj := range objects {
			if obj.Type == "ship" && obj.ID == st.ship.ID {
				continue
			}
			if obj.Col != st.ship.Col || obj.Row != st.ship.Row {
				continue
			}
			e.Detected = append(e.Detected, obj)
			st.addContact(obj)
			if obj.Type == "ship" {
				scanned = append(scanned, fmt.Sprintf("        %s (%d) - {%s}", obj.Name, obj.ID, obj.ShipInfo))
			} else if obj.ID != baseID {
				scanned = append(scanned, fmt.Sprintf("        %s (%d)", obj.Name, obj.ID))
			}
		}
	}
	e.Message = fmt.Sprintf("Docking at %s %s (%d).", base.Type, base.Name, baseID)
	if len(scanned) > 0 {
		e.Message += "\n    Scanned:\n" + strings.Join(scanned, "\n")
	}
	return e
}

func (r *Resolver) cmdUndock(st *shipState, o orders.Order) LogEntry {
	e := st.entryFor(o)
	if st.ship.DockedAtBaseID == 0 {
		return fail(e, "Unable to undock: ship is not docked at any base.")
	}
	cost := EffectiveCost(r.tune.Costs.Undock, st.efficiency)
	if st.ship.TURemaining < cost {
		return exhausted(e, "undocking", st.ship.TURemaining, cost)
	}

	baseID := st.ship.DockedAtBaseID
	name := fmt.Sprintf("%d", baseID)
	if base, err := r.store.Base(baseID); err == nil {
		name = base.Name
	}
	st.ship.DockedAtBaseID = 0
	e = st.charge(e, cost)
	e.Message = fmt.Sprintf("Undocked from %s (%d).", name, baseID)
	return e
}

func (r *Resolver) cmdLand(st *shipState, o orders.Order) LogEntry {
	e := st.entryFor(o)
	p := o.Params.(orders.LandParams)

	if st.ship.OrbitingBodyID != p.BodyID {
		return fail(e, "Unable to land: ship is not orbiting body %d.", p.BodyID)
	}
	body, err := r.store.Body(p.BodyID)
	if err != nil {
		return fail(e, "Unable to land: body %d not found.", p.BodyID)
	}
	if body.IsGasGiant() {
		return fail(e, "Unable to land on %s: gas giants have no surface.", body.Name)
	}
	size := body.SurfaceSize
	if size <= 0 {
		size = 31
	}
	if p.X < 1 || p.X > size || p.Y < 1 || p.Y > size {
		return fail(e, "Unable to land: (%d,%d) is outside the surface grid (1-%d).", p.X, p.Y, size)
	}
	cost := EffectiveCost(r.tune.Costs.Land, st.efficiency)
	if st.ship.TURemaining < cost {
		return exhausted(e, "landing", st.ship.TURemaining, cost)
	}

	terrain := "Unknown"
	if tiles, err := surface.GetOrGenerate(r.store, body); err == nil {
		for _, t := range tiles {
			if t.X == p.X && t.Y == p.Y {
				terrain = t.Terrain
				break
			}
		}
	}

	st.ship.LandedBodyID = p.BodyID
	st.ship.LandedX = p.X
	st.ship.LandedY = p.Y
	st.ship.OrbitingBodyID = 0
	e = st.charge(e, cost)
	e.Message = fmt.Sprintf("Ship landed on %s at (%d,%d) - %s.", body.Name, p.X, p.Y, terrain)
	return e
}

func (r *Resolver) cmdTakeoff(st *shipState, o orders.Order) LogEntry {
	e := st.entryFor(o)
	if st.ship.LandedBodyID == 0 {
		return fail(e, "Unable to take off: ship is not landed.")
	}
	cost := EffectiveCost(r.tune.Costs.Takeoff, st.efficiency)
	if st.ship.TURemaining < cost {
		return exhausted(e, "takeoff", st.ship.TURemaining, cost)
	}

	bodyID := st.ship.LandedBodyID
	name := fmt.Sprintf("%d", bodyID)
	if body, err := r.store.Body(bodyID); err == nil {
		name = body.Name
	}
	st.ship.OrbitingBodyID = bodyID
	st.ship.LandedBodyID = 0
	st.ship.LandedX = 0
	st.ship.LandedY = 0
	e = st.charge(e, cost)
	e.Message = fmt.Sprintf("Ship lifted off from %s and entered orbit.", name)
	return e
}

func (r *Resolver) cmdJump(st *shipState, o orders.Order) LogEntry {
	e := st.entryFor(o)
	targetID := o.Params.(orders.SystemParams).SystemID

	if st.ship.DockedAtBaseID != 0 {
		return fail(e, "Cannot jump while docked. UNDOCK first.")
	}
	if st.ship.LandedBodyID != 0 {
		return fail(e, "Cannot jump while landed. TAKEOFF first.")
	}
	if st.ship.OrbitingBodyID != 0 {
		return fail(e, "Cannot jump while in orbit. Leave orbit first.")
	}
	if targetID == st.ship.SystemID {
		return fail(e, "Unable to jump: already in system %d.", targetID)
	}

	sys, err := r.store.System(st.ship.SystemID)
	if err != nil {
		return fail(e, "Unable to jump: current system unknown.")
	}
	star := grid.Coord{Col: sys.StarCol, Row: sys.StarRow}
	if d := grid.Distance(st.at(), star); d < r.tune.JumpMinStarDistance {
		return fail(e, "Unable to jump: ship is only %d squares from %s (minimum %d).",
			d, sys.StarName, r.tune.JumpMinStarDistance)
	}

	hops, ok := r.hopCount(st.ship.SystemID, targetID)
	if !ok {
		return fail(e, "Unable to jump: no route to system %d within %d hop(s).",
			targetID, r.tune.JumpMaxHops)
	}
	cost := EffectiveCost(r.tune.Costs.JumpPerHop*hops, st.efficiency)
	if st.ship.TURemaining < cost {
		return exhausted(e, "jump", st.ship.TURemaining, cost)
	}

	target, err := r.store.System(targetID)
	if err != nil {
		return fail(e, "Unable to jump: system %d not found.", targetID)
	}
	st.ship.SystemID = targetID
	e = st.charge(e, cost)
	e.Message = fmt.Sprintf("Jump complete. Arrived in %s (%d) after %d hop(s).",
		target.Name, targetID, hops)
	return e
}

// hopCount is a breadth-first search over the jump-link network, bounded by
// the configured hop limit.
func (r *Resolver) hopCount(from, to int64) (int, bool) {
	if from == to {
		return 0, true
	}
	visited := map[int64]bool{from: true}
	frontier := []int64{from}
	for hop := 1; hop <= r.tune.JumpMaxHops; hop++ {
		var next []int64
		for _, id := range frontier {
			links, err := r.store.LinkedSystems(id)
			if err != nil {
				return 0, false
			}
			for _, n := range links {
				if visited[n] {
					continue
				}
				if n == to {
					return hop, true
				}
				visited[n] = true
				next = append(next, n)
			}
		}
		frontier = next
	}
	return 0, false
}

func (r *Resolver) cmdMessage(g store.Game, st *shipState, o orders.Order) LogEntry {
	e := st.entryFor(o)
	p := o.Params.(orders.MessageParams)

	target, err := r.store.Prefect(p.TargetID)
	if err != nil {
		return fail(e, "Unable to transmit: prefect %d not known.", p.TargetID)
	}
	if err := r.store.AddMessage(store.Message{
		GameID: g.ID, FromID: st.ship.OwnerPrefectID, ToID: target.ID,
		FromShip: st.ship.ID, Year: g.Year, Week: g.Week, Text: p.Text,
	}); err != nil {
		return fail(e, "Unable to transmit: relay fault.")
	}
	e.Success = true
	e.Message = fmt.Sprintf("Message transmitted to %s (%d).", target.Name, target.ID)
	return e
}

var officerSpecialties = map[int64]string{
	1: "Navigation",
	2: "Engineering",
	3: "Gunnery",
	4: "Science",
}

func (r *Resolver) cmdMakeOfficer(st *shipState, o orders.Order) LogEntry {
	e := st.entryFor(o)
	p := o.Params.(orders.MakeOfficerParams)

	if p.ShipID != st.ship.ID {
		return fail(e, "Unable to commission: orders apply to ship %d, not %d.", st.ship.ID, p.ShipID)
	}
	existing, err := r.store.Officers(st.ship.ID)
	if err != nil {
		return fail(e, "Unable to commission: crew records unavailable.")
	}
	specialty := officerSpecialties[p.CrewTypeID]
	if specialty == "" {
		specialty = "General"
	}
	number := len(existing) + 1
	name := p.Name
	if name == "" {
		name = fmt.Sprintf("Officer %d", number)
	}
	if err := r.store.AddOfficer(store.Officer{
		ShipID: st.ship.ID, Number: number, Name: name,
		Rank: "Ensign", Specialty: specialty, CrewFactors: 5,
	}); err != nil {
		return fail(e, "Unable to commission: crew records unavailable.")
	}
	e.Success = true
	e.Message = fmt.Sprintf("%s commissioned as crew officer %d (%s).", name, number, specialty)
	return e
}

func (r *Resolver) cmdRename(st *shipState, o orders.Order) LogEntry {
	e := st.entryFor(o)
	p := o.Params.(orders.RenameParams)

	switch o.Kind {
	case orders.KindRenameShip:
		target, err := r.store.Ship(p.ID)
		if err != nil || target.OwnerPrefectID != st.ship.OwnerPrefectID {
			return fail(e, "Unable to rename: ship %d is not under your command.", p.ID)
		}
		if err := r.store.RenameShip(p.ID, p.Name); err != nil {
			return fail(e, "Unable to rename ship %d.", p.ID)
		}
		if p.ID == st.ship.ID {
			st.ship.Name = p.Name
			st.result.ShipName = p.Name
		}
		e.Message = fmt.Sprintf("Ship %d renamed to %s.", p.ID, p.Name)
	case orders.KindRenameBase:
		base, err := r.store.Base(p.ID)
		if err != nil || base.OwnerPrefectID != st.ship.OwnerPrefectID {
			return fail(e, "Unable to rename: base %d is not under your control.", p.ID)
		}
		if err := r.store.RenameBase(p.ID, p.Name); err != nil {
			return fail(e, "Unable to rename base %d.", p.ID)
		}
		e.Message = fmt.Sprintf("Base %d renamed to %s.", p.ID, p.Name)
	default: // RENAMEPREFECT
		if p.ID != st.ship.OwnerPrefectID {
			return fail(e, "Unable to rename: prefect %d is not you.", p.ID)
		}
		if err := r.store.RenamePrefect(p.ID, p.Name); err != nil {
			return fail(e, "Unable to rename prefect %d.", p.ID)
		}
		e.Message = fmt.Sprintf("Prefect %d now styled %s.", p.ID, p.Name)
	}
	e.Success = true
	return e
}

func (r *Resolver) cmdRenameOfficer(st *shipState, o orders.Order) LogEntry {
	e := st.entryFor(o)
	p := o.Params.(orders.RenameOfficerParams)

	target, err := r.store.Ship(p.ShipID)
	if err != nil || target.OwnerPrefectID != st.ship.OwnerPrefectID {
		return fail(e, "Unable to rename: ship %d is not under your command.", p.ShipID)
	}
	if err := r.store.RenameOfficer(p.ShipID, p.CrewNumber, p.Name); err != nil {
		return fail(e, "Unable to rename: officer %d on ship %d not found.", p.CrewNumber, p.ShipID)
	}
	e.Success = true
	e.Message = fmt.Sprintf("Officer %d on ship %d renamed to %s.", p.CrewNumber, p.ShipID, p.Name)
	return e
}

func (r *Resolver) cmdChangeFaction(g store.Game, st *shipState, o orders.Order) LogEntry {
	e := st.entryFor(o)
	p := o.Params.(orders.ChangeFactionParams)

	body := fmt.Sprintf("faction %d", p.FactionID)
	if p.Reason != "" {
		body += ": " + p.Reason
	}
	if err := r.store.AddModeratorRequest(g.ID, st.ship.OwnerPrefectID,
		g.Year, g.Week, "faction_change", body); err != nil {
		return fail(e, "Unable to file faction change request.")
	}
	e.Success = true
	e.Message = "Faction change request filed with the moderator."
	return e
}

func (r *Resolver) cmdModerator(g store.Game, st *shipState, o orders.Order) LogEntry {
	e := st.entryFor(o)
	p := o.Params.(orders.ModeratorParams)

	if err := r.store.AddModeratorRequest(g.ID, st.ship.OwnerPrefectID,
		g.Year, g.Week, "moderator", p.Text); err != nil {
		return fail(e, "Unable to forward request to the moderator.")
	}
	e.Success = true
	e.Message = "Request forwarded to the moderator."
	return e
}
