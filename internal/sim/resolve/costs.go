package resolve

import (
	"stellardominion.net/internal/orders"
	"stellardominion.net/internal/tuning"
)

// Efficiency is the crew manning level in [0,100], computed once per ship per
// turn. A ship with no crew requirement is always fully efficient.
func Efficiency(crewCount, crewRequired int) int {
	if crewRequired <= 0 {
		return 100
	}
	e := crewCount * 100 / crewRequired
	if e > 100 {
		return 100
	}
	if e < 0 {
		return 0
	}
	return e
}

// EffectiveCost inflates a nominal TU cost for an undermanned ship:
// ceil(nominal * (1 + (100-e)/100)). Full efficiency leaves the nominal
// cost untouched; reduced efficiency never lowers it.
func EffectiveCost(nominal, efficiency int) int {
	if efficiency >= 100 || nominal <= 0 {
		return nominal
	}
	return (nominal*(200-efficiency) + 99) / 100
}

// nominalCost is the cost table before efficiency. MOVE is priced per square;
// JUMP per hop. Trading, messaging and renames are free.
func nominalCost(k orders.Kind, c tuning.Costs) int {
	switch k {
	case orders.KindMove:
		return c.MovePerSquare
	case orders.KindLocationScan:
		return c.LocationScan
	case orders.KindSystemScan:
		return c.SystemScan
	case orders.KindSurfaceScan:
		return c.SurfaceScan
	case orders.KindOrbit:
		return c.Orbit
	case orders.KindDock:
		return c.Dock
	case orders.KindUndock:
		return c.Undock
	case orders.KindLand:
		return c.Land
	case orders.KindTakeoff:
		return c.Takeoff
	case orders.KindJump:
		return c.JumpPerHop
	default:
		return 0
	}
}

// estimateCost projects the cost of a queue-head order for scheduling
// priority. WAIT is capped at the ship's remaining TU; MOVE is one step's
// cost. This estimate orders the priority queue and is never charged.
func estimateCost(o orders.Order, c tuning.Costs, efficiency, tuRemaining int) int {
	if o.Kind == orders.KindWait {
		w, _ := o.Params.(orders.WaitParams)
		est := EffectiveCost(w.TU, efficiency)
		if est > tuRemaining {
			est = tuRemaining
		}
		return est
	}
	return EffectiveCost(nominalCost(o.Kind, c), efficiency)
}
