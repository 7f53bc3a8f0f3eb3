package resolve

import (
	"fmt"
	"strings"

	"stellardominion.net/internal/orders"
	"stellardominion.net/internal/store"
)

// marketAt validates the trading preconditions shared by BUY, SELL and
// GETMARKET: the ship must be docked at the named base and the base must run
// a market. The current cycle's quotes are materialized on first touch.
func (r *Resolver) marketAt(g store.Game, st *shipState, baseID int64) (store.Base, int, string) {
	if st.ship.DockedAtBaseID != baseID {
		return store.Base{}, 0, fmt.Sprintf("Unable to trade: ship is not docked at base %d.", baseID)
	}
	base, err := r.store.Base(baseID)
	if err != nil {
		return store.Base{}, 0, fmt.Sprintf("Unable to trade: base %d not found.", baseID)
	}
	if !base.HasMarket {
		return store.Base{}, 0, fmt.Sprintf("%s (%d) has no market.", base.Name, baseID)
	}
	absWeek := store.AbsoluteWeek(g.Year, g.Week)
	if err := r.pricer.EnsureCycle(g, baseID, absWeek); err != nil {
		return store.Base{}, 0, "Unable to trade: market records unavailable."
	}
	return base, r.pricer.CycleStart(absWeek), ""
}

// BUY quantity is capped, never rejected: the transacted amount is the
// minimum of the request, remaining stock, affordable credits, free cargo
// mass, and free life support for the crew item.
func (r *Resolver) cmdBuy(g store.Game, st *shipState, o orders.Order) LogEntry {
	e := st.entryFor(o)
	p := o.Params.(orders.TradeParams)

	base, cycle, errMsg := r.marketAt(g, st, p.BaseID)
	if errMsg != "" {
		return fail(e, "%s", errMsg)
	}
	item, err := r.store.Item(p.ItemID)
	if err != nil {
		return fail(e, "Unable to buy: item %d not traded here.", p.ItemID)
	}
	quote, err := r.store.Quote(g.ID, p.BaseID, p.ItemID, cycle)
	if err != nil {
		return fail(e, "Unable to buy: no quote for %s at %s.", item.Name, base.Name)
	}
	prefect, err := r.store.Prefect(st.ship.OwnerPrefectID)
	if err != nil {
		return fail(e, "Unable to buy: prefect records unavailable.")
	}

	qty := p.Quantity
	var reasons []string
	limit := func(n int, reason string) {
		if n < p.Quantity {
			reasons = append(reasons, reason)
		}
		if n < qty {
			qty = n
		}
	}

	limit(quote.Stock, fmt.Sprintf("stock (%d)", quote.Stock))
	if quote.BuyPrice > 0 {
		affordable := int(prefect.Credits / quote.BuyPrice)
		limit(affordable, fmt.Sprintf("credits (%d affordable)", affordable))
	}
	if item.IsCrew {
		free := st.ship.LifeSupport - st.ship.CrewCount
		if free < 0 {
			free = 0
		}
		limit(free, fmt.Sprintf("life support (%d berths free)", free))
	} else if item.MassPerUnit > 0 {
		held, err := r.store.CargoMass(st.ship.ID)
		if err != nil {
			return fail(e, "Unable to buy: cargo records unavailable.")
		}
		freeMass := st.ship.CargoCapacity - held
		if freeMass < 0 {
			freeMass = 0
		}
		limit(freeMass/item.MassPerUnit, fmt.Sprintf("cargo space (%d mass free)", freeMass))
	}

	if qty <= 0 {
		return fail(e, "Unable to buy %s: limited by %s.", item.Name, strings.Join(reasons, " and "))
	}

	total := int64(qty) * quote.BuyPrice
	if err := r.store.SetPrefectCredits(prefect.ID, prefect.Credits-total); err != nil {
		return fail(e, "Unable to buy: ledger fault.")
	}
	if item.IsCrew {
		st.ship.CrewCount += qty
	} else if err := r.store.AdjustCargo(st.ship.ID, item.ID, qty); err != nil {
		return fail(e, "Unable to buy: cargo fault.")
	}
	if err := r.store.DepleteStock(g.ID, p.BaseID, p.ItemID, cycle, qty); err != nil {
		return fail(e, "Unable to buy: market fault.")
	}

	e.Success = true
	e.Message = fmt.Sprintf("Bought %d %s at %d cr each (%d cr total).",
		qty, item.Name, quote.BuyPrice, total)
	if qty < p.Quantity {
		e.Message += fmt.Sprintf(" Quantity capped by %s.", strings.Join(reasons, " and "))
	}
	return e
}

// SELL is capped by units held and remaining market demand.
func (r *Resolver) cmdSell(g store.Game, st *shipState, o orders.Order) LogEntry {
	e := st.entryFor(o)
	p := o.Params.(orders.TradeParams)

	base, cycle, errMsg := r.marketAt(g, st, p.BaseID)
	if errMsg != "" {
		return fail(e, "%s", errMsg)
	}
	item, err := r.store.Item(p.ItemID)
	if err != nil {
		return fail(e, "Unable to sell: item %d not traded here.", p.ItemID)
	}
	quote, err := r.store.Quote(g.ID, p.BaseID, p.ItemID, cycle)
	if err != nil {
		return fail(e, "Unable to sell: no quote for %s at %s.", item.Name, base.Name)
	}
	prefect, err := r.store.Prefect(st.ship.OwnerPrefectID)
	if err != nil {
		return fail(e, "Unable to sell: prefect records unavailable.")
	}

	var held int
	if item.IsCrew {
		held = st.ship.CrewCount
	} else {
		held, err = r.store.CargoQuantity(st.ship.ID, item.ID)
		if err != nil {
			return fail(e, "Unable to sell: cargo records unavailable.")
		}
	}

	qty := p.Quantity
	var reasons []string
	limit := func(n int, reason string) {
		if n < p.Quantity {
			reasons = append(reasons, reason)
		}
		if n < qty {
			qty = n
		}
	}
	limit(held, fmt.Sprintf("units held (%d)", held))
	limit(quote.Demand, fmt.Sprintf("demand (%d)", quote.Demand))

	if qty <= 0 {
		return fail(e, "Unable to sell %s: limited by %s.", item.Name, strings.Join(reasons, " and "))
	}

	total := int64(qty) * quote.SellPrice
	if err := r.store.SetPrefectCredits(prefect.ID, prefect.Credits+total); err != nil {
		return fail(e, "Unable to sell: ledger fault.")
	}
	if item.IsCrew {
		st.ship.CrewCount -= qty
	} else if err := r.store.AdjustCargo(st.ship.ID, item.ID, -qty); err != nil {
		return fail(e, "Unable to sell: cargo fault.")
	}
	if err := r.store.DepleteDemand(g.ID, p.BaseID, p.ItemID, cycle, qty); err != nil {
		return fail(e, "Unable to sell: market fault.")
	}

	e.Success = true
	e.Message = fmt.Sprintf("Sold %d %s at %d cr each (%d cr total).",
		qty, item.Name, quote.SellPrice, total)
	if qty < p.Quantity {
		e.Message += fmt.Sprintf(" Quantity capped by %s.", strings.Join(reasons, " and "))
	}
	return e
}

func (r *Resolver) cmdGetMarket(g store.Game, st *shipState, o orders.Order) LogEntry {
	e := st.entryFor(o)
	baseID := o.Params.(orders.BaseParams).BaseID

	base, cycle, errMsg := r.marketAt(g, st, baseID)
	if errMsg != "" {
		return fail(e, "%s", errMsg)
	}
	quotes, err := r.store.Quotes(g.ID, baseID, cycle)
	if err != nil {
		return fail(e, "Unable to read market: records unavailable.")
	}

	lines := []string{fmt.Sprintf("Market report for %s (%d):", base.Name, baseID)}
	lines = append(lines, "    Item                      Buy   Sell  Stock Demand")
	for _, q := range quotes {
		name := fmt.Sprintf("%d", q.ItemID)
		if item, err := r.store.Item(q.ItemID); err == nil {
			name = fmt.Sprintf("%s (%d)", item.Name, item.ID)
		}
		lines = append(lines, fmt.Sprintf("    %-24s %5d  %5d  %5d  %5d",
			name, q.BuyPrice, q.SellPrice, q.Stock, q.Demand))
	}
	e.Success = true
	e.Message = strings.Join(lines, "\n")
	return e
}
