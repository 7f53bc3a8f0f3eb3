// Package market generates and serves starbase price cycles. Prices for a
// cycle are derived deterministically from the game seed, so regenerating a
// cycle never changes quotes, and depletion within a cycle is preserved by
// the insert-or-ignore write path.
package market

import (
	"fmt"
	"log"

	"stellardominion.net/internal/sim/seed"
	"stellardominion.net/internal/store"
	"stellardominion.net/internal/tuning"
)

type Pricer struct {
	store *store.Store
	tune  tuning.Tuning
	log   *log.Logger
}

func NewPricer(st *store.Store, tune tuning.Tuning, logger *log.Logger) *Pricer {
	return &Pricer{store: st, tune: tune, log: logger}
}

// CycleStart floors an absolute week to the start of its price cycle.
func (p *Pricer) CycleStart(absWeek int) int {
	w := p.tune.Market.CycleWeeks
	if w <= 1 {
		return absWeek
	}
	return absWeek - absWeek%w
}

// fluctuation is the cycle's global price swing for one item, shared by every
// base in the game. Range [-FluctuationPct, +FluctuationPct].
func (p *Pricer) fluctuation(gameSeed string, itemID int64, cycleStart int) float64 {
	r := seed.Rand(fmt.Sprintf("%s-item-%d-%d", gameSeed, itemID, cycleStart))
	return (r.Float64()*2 - 1) * p.tune.Market.FluctuationPct
}

func (p *Pricer) roleFactor(role string) float64 {
	switch role {
	case "produces":
		return p.tune.Market.ProducesFactor
	case "demands":
		return p.tune.Market.DemandsFactor
	default:
		return p.tune.Market.AverageFactor
	}
}

// EnsureCycle materializes quotes for every item traded at a base for the
// cycle covering absWeek. Quotes already present keep their depleted stock.
func (p *Pricer) EnsureCycle(g store.Game, baseID int64, absWeek int) error {
	cycle := p.CycleStart(absWeek)
	items, err := p.store.Items()
	if err != nil {
		return err
	}
	roles, err := p.store.MarketRoles(baseID)
	if err != nil {
		return err
	}
	for _, it := range items {
		q := p.quoteFor(g, baseID, it, roles[it.ID], cycle)
		if err := p.store.UpsertQuote(q); err != nil {
			return fmt.Errorf("quote item %d at base %d: %w", it.ID, baseID, err)
		}
	}
	return nil
}

func (p *Pricer) quoteFor(g store.Game, baseID int64, it store.Item, role string, cycle int) store.Quote {
	m := p.tune.Market

	price := float64(it.BasePrice)
	price *= 1 + p.fluctuation(g.RNGSeed, it.ID, cycle)
	price *= p.roleFactor(role)

	buy := int64(price * (1 + m.SpreadPct))
	sell := int64(price * (1 - m.SpreadPct))
	if buy < 1 {
		buy = 1
	}
	if sell >= buy {
		sell = buy - 1
	}
	if sell < 0 {
		sell = 0
	}

	r := seed.Rand(fmt.Sprintf("%s-base-%d-%d-%d", g.RNGSeed, baseID, it.ID, cycle))
	jitter := func(base int) int {
		v := int(float64(base) * (1 + (r.Float64()*2-1)*m.StockJitterPct))
		if v < 0 {
			return 0
		}
		return v
	}
	stock := jitter(m.BaseStockUnits)
	demand := jitter(m.BaseDemandUnits)
	switch role {
	case "produces":
		stock *= 2
	case "demands":
		demand *= 2
	}

	return store.Quote{
		GameID: g.ID, BaseID: baseID, ItemID: it.ID, CycleStart: cycle,
		BuyPrice: buy, SellPrice: sell, Stock: stock, Demand: demand,
	}
}
