package store

import (
	"testing"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedGame(t *testing.T, s *Store) {
	t.Helper()
	if err := s.CreateGame("hanf", "Hanf Sector", "seed-1"); err != nil {
		t.Fatalf("create game: %v", err)
	}
}

func TestGameLifecycle(t *testing.T) {
	s := openTest(t)
	seedGame(t, s)

	g, err := s.Game("hanf")
	if err != nil {
		t.Fatalf("game: %v", err)
	}
	if g.Year != 500 || g.Week != 1 {
		t.Fatalf("new game at %d.%d, want 500.1", g.Year, g.Week)
	}
	if g.TurnString() != "500.1" {
		t.Fatalf("turn string %q", g.TurnString())
	}

	g, err = s.AdvanceTurn("hanf")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if g.Year != 500 || g.Week != 2 {
		t.Fatalf("after advance at %d.%d, want 500.2", g.Year, g.Week)
	}
}

func TestAdvanceTurn_YearRollover(t *testing.T) {
	s := openTest(t)
	seedGame(t, s)
	if _, err := s.db.Exec(
		`UPDATE games SET current_week = 52 WHERE game_id = 'hanf'`); err != nil {
		t.Fatalf("setup: %v", err)
	}
	g, err := s.AdvanceTurn("hanf")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if g.Year != 501 || g.Week != 1 {
		t.Fatalf("after rollover at %d.%d, want 501.1", g.Year, g.Week)
	}
}

func TestShipRoundTrip(t *testing.T) {
	s := openTest(t)
	seedGame(t, s)

	sh := Ship{
		ID: 10101, GameID: "hanf", OwnerPrefectID: 77001, Name: "Venture",
		Class: "Scout", Col: "H", Row: 4, SystemID: 231,
		TUPerTurn: 300, TURemaining: 300, SensorRating: 20,
		CargoCapacity: 500, LifeSupport: 50, CrewCount: 10, CrewRequired: 10,
	}
	if err := s.AddShip(sh); err != nil {
		t.Fatalf("add ship: %v", err)
	}
	got, err := s.Ship(10101)
	if err != nil {
		t.Fatalf("ship: %v", err)
	}
	if got != sh {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, sh)
	}

	got.Col, got.Row, got.TURemaining = "I", 5, 298
	got.OrbitingBodyID = 247985
	if err := s.CommitShipState(got); err != nil {
		t.Fatalf("commit: %v", err)
	}
	again, err := s.Ship(10101)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Col != "I" || again.Row != 5 || again.TURemaining != 298 ||
		again.OrbitingBodyID != 247985 {
		t.Fatalf("committed state not visible: %+v", again)
	}
}

func TestShipsAt_ExcludesSelfAndSuspended(t *testing.T) {
	s := openTest(t)
	seedGame(t, s)

	p1, err := s.AddPlayer(Player{GameID: "hanf", Name: "A", Email: "a@x", AccountNumber: "AC-1"})
	if err != nil {
		t.Fatalf("add player: %v", err)
	}
	p2, err := s.AddPlayer(Player{GameID: "hanf", Name: "B", Email: "b@x", AccountNumber: "AC-2"})
	if err != nil {
		t.Fatalf("add player: %v", err)
	}
	if err := s.AddPrefect(Prefect{ID: 1, PlayerID: p1, GameID: "hanf", Name: "One"}); err != nil {
		t.Fatalf("add prefect: %v", err)
	}
	if err := s.AddPrefect(Prefect{ID: 2, PlayerID: p2, GameID: "hanf", Name: "Two"}); err != nil {
		t.Fatalf("add prefect: %v", err)
	}
	mk := func(id, owner int64) {
		t.Helper()
		if err := s.AddShip(Ship{ID: id, GameID: "hanf", OwnerPrefectID: owner,
			Name: "S", Col: "H", Row: 4, SystemID: 231,
			TUPerTurn: 300, TURemaining: 300}); err != nil {
			t.Fatalf("add ship %d: %v", id, err)
		}
	}
	mk(1, 1)
	mk(2, 1)
	mk(3, 2)

	others, err := s.ShipsAt("hanf", 231, "H", 4, 1)
	if err != nil {
		t.Fatalf("ships at: %v", err)
	}
	if len(others) != 2 {
		t.Fatalf("got %d ships, want 2", len(others))
	}

	if err := s.SetPlayerSuspended(p2, true); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	others, err = s.ShipsAt("hanf", 231, "H", 4, 1)
	if err != nil {
		t.Fatalf("ships at: %v", err)
	}
	if len(others) != 1 || others[0].ID != 2 {
		t.Fatalf("suspended owner's ship still visible: %+v", others)
	}
}

func TestContactUpsert_Idempotent(t *testing.T) {
	s := openTest(t)

	c := Contact{PrefectID: 1, ObjectType: "ship", ObjectID: 42,
		Name: "Venture", SystemID: 231, Col: "H", Row: 4, Year: 500, Week: 1}
	if err := s.UpsertContact(c); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	c.Col, c.Row, c.Week = "J", 9, 3
	if err := s.UpsertContact(c); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	all, err := s.ContactsForPrefect(1)
	if err != nil {
		t.Fatalf("contacts: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d contacts, want 1", len(all))
	}
	got := all[0]
	if got.Col != "J" || got.Row != 9 {
		t.Fatalf("location not updated: %+v", got)
	}
	if got.Week != 1 {
		t.Fatalf("discovery turn rewritten: week %d, want 1", got.Week)
	}
}

func TestCargoAdjustAndMass(t *testing.T) {
	s := openTest(t)

	if err := s.AddItem(Item{ID: 5001, Name: "Iridium Ore", MassPerUnit: 2, BasePrice: 40}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := s.AdjustCargo(1, 5001, 10); err != nil {
		t.Fatalf("adjust +10: %v", err)
	}
	if err := s.AdjustCargo(1, 5001, -3); err != nil {
		t.Fatalf("adjust -3: %v", err)
	}
	qty, err := s.CargoQuantity(1, 5001)
	if err != nil {
		t.Fatalf("quantity: %v", err)
	}
	if qty != 7 {
		t.Fatalf("quantity %d, want 7", qty)
	}
	mass, err := s.CargoMass(1)
	if err != nil {
		t.Fatalf("mass: %v", err)
	}
	if mass != 14 {
		t.Fatalf("mass %d, want 14", mass)
	}

	// Oversell clamps at zero instead of going negative.
	if err := s.AdjustCargo(1, 5001, -100); err != nil {
		t.Fatalf("adjust -100: %v", err)
	}
	qty, _ = s.CargoQuantity(1, 5001)
	if qty != 0 {
		t.Fatalf("quantity %d after clamp, want 0", qty)
	}
}

func TestMarketDepletionFloorsAtZero(t *testing.T) {
	s := openTest(t)

	q := Quote{GameID: "hanf", BaseID: 45687590, ItemID: 5001, CycleStart: 26000,
		BuyPrice: 44, SellPrice: 38, Stock: 20, Demand: 15}
	if err := s.UpsertQuote(q); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// Re-upserting the same cycle must not reset depletion state.
	if err := s.DepleteStock("hanf", 45687590, 5001, 26000, 12); err != nil {
		t.Fatalf("deplete: %v", err)
	}
	q.Stock = 999
	if err := s.UpsertQuote(q); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	got, err := s.Quote("hanf", 45687590, 5001, 26000)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got.Stock != 8 {
		t.Fatalf("stock %d, want 8", got.Stock)
	}

	if err := s.DepleteStock("hanf", 45687590, 5001, 26000, 50); err != nil {
		t.Fatalf("deplete past zero: %v", err)
	}
	got, _ = s.Quote("hanf", 45687590, 5001, 26000)
	if got.Stock != 0 {
		t.Fatalf("stock %d, want 0", got.Stock)
	}
}

func TestTurnOrdersReplaceAndPending(t *testing.T) {
	s := openTest(t)
	seedGame(t, s)

	lines := []string{"MOVE K09", "LOCATIONSCAN"}
	if err := s.ReplaceTurnOrders("hanf", 500, 1, 10101, lines); err != nil {
		t.Fatalf("replace: %v", err)
	}
	// Resubmission overwrites.
	lines2 := []string{"WAIT 50"}
	if err := s.ReplaceTurnOrders("hanf", 500, 1, 10101, lines2); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	got, err := s.TurnOrders("hanf", 500, 1, 10101)
	if err != nil {
		t.Fatalf("turn orders: %v", err)
	}
	if len(got) != 1 || got[0] != "WAIT 50" {
		t.Fatalf("got %v, want [WAIT 50]", got)
	}

	ships, err := s.ShipsWithOrders("hanf", 500, 1)
	if err != nil {
		t.Fatalf("ships with orders: %v", err)
	}
	if len(ships) != 1 || ships[0] != 10101 {
		t.Fatalf("ships %v", ships)
	}

	if err := s.ReplacePendingOrders("hanf", 10101, []string{"MOVE K09", "ORBIT 247985"}); err != nil {
		t.Fatalf("pending: %v", err)
	}
	pend, err := s.PendingOrders("hanf", 10101)
	if err != nil {
		t.Fatalf("pending read: %v", err)
	}
	if len(pend) != 2 || pend[0] != "MOVE K09" {
		t.Fatalf("pending %v", pend)
	}
	if err := s.ClearPendingOrders("hanf", 10101); err != nil {
		t.Fatalf("clear: %v", err)
	}
	pend, _ = s.PendingOrders("hanf", 10101)
	if len(pend) != 0 {
		t.Fatalf("pending not cleared: %v", pend)
	}
}

func TestLinkedSystems_BothDirections(t *testing.T) {
	s := openTest(t)
	if err := s.AddLink(231, 232); err != nil {
		t.Fatalf("link: %v", err)
	}
	if err := s.AddLink(233, 231); err != nil {
		t.Fatalf("link: %v", err)
	}
	n, err := s.LinkedSystems(231)
	if err != nil {
		t.Fatalf("linked: %v", err)
	}
	if len(n) != 2 || n[0] != 232 || n[1] != 233 {
		t.Fatalf("neighbors %v, want [232 233]", n)
	}
}

func TestAbsoluteWeek(t *testing.T) {
	if got := AbsoluteWeek(500, 1); got != 26000 {
		t.Fatalf("AbsoluteWeek(500,1) = %d", got)
	}
	if got := AbsoluteWeek(500, 52); got != 26051 {
		t.Fatalf("AbsoluteWeek(500,52) = %d", got)
	}
	if got := AbsoluteWeek(501, 1); got != 26052 {
		t.Fatalf("AbsoluteWeek(501,1) = %d", got)
	}
}
