package resolve

import (
	"io"
	"log"
	"strings"
	"testing"

	"stellardominion.net/internal/store"
	"stellardominion.net/internal/tuning"
)

const gameID = "hanf"

func quiet() *log.Logger { return log.New(io.Discard, "", 0) }

// newWorld opens an in-memory store seeded with the Hanf sector: two linked
// systems, a planet with an orbiting station, a free-floating trade base and
// two prefects.
func newWorld(t *testing.T) (*store.Store, *Resolver) {
	t.Helper()
	s, err := store.Open(":memory:", quiet())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.CreateGame(gameID, "Hanf Sector", "seed-hanf"); err != nil {
		t.Fatalf("create game: %v", err)
	}
	if err := s.AddSystem(store.StarSystem{
		ID: 231, GameID: gameID, Name: "Hanf", StarName: "Hanf",
		SpectralType: "G2V", StarCol: "M", StarRow: 13,
	}); err != nil {
		t.Fatalf("add system: %v", err)
	}
	if err := s.AddSystem(store.StarSystem{
		ID: 232, GameID: gameID, Name: "Varko", StarName: "Varko",
		SpectralType: "K4V", StarCol: "M", StarRow: 13,
	}); err != nil {
		t.Fatalf("add system: %v", err)
	}
	if err := s.AddLink(231, 232); err != nil {
		t.Fatalf("add link: %v", err)
	}
	if err := s.AddBody(store.Body{
		ID: 247985, SystemID: 231, Name: "Orion", Type: "planet",
		Col: "H", Row: 4, Gravity: 1.0, Temperature: 288,
		Atmosphere: "Standard", Tectonic: 4, Hydrosphere: 60,
		Life: "Animal", Symbol: "O", SurfaceSize: 31,
	}); err != nil {
		t.Fatalf("add body: %v", err)
	}
	if err := s.AddBody(store.Body{
		ID: 301442, SystemID: 231, Name: "Tartarus", Type: "planet",
		Col: "R", Row: 8, Gravity: 1.2, Temperature: 310,
		Atmosphere: "Thin", Tectonic: 7, Hydrosphere: 10,
		Life: "None", Symbol: "O", SurfaceSize: 31,
	}); err != nil {
		t.Fatalf("add body: %v", err)
	}
	if err := s.AddBase(store.Base{
		ID: 45687590, GameID: gameID, Name: "Citadel Station", Type: "Starbase",
		SystemID: 231, Col: "H", Row: 4, OrbitingBodyID: 247985,
		HasMarket: true, DockingCapacity: 12,
	}); err != nil {
		t.Fatalf("add base: %v", err)
	}
	if err := s.AddBase(store.Base{
		ID: 77001, GameID: gameID, Name: "Harbor Point", Type: "Outpost",
		SystemID: 231, Col: "K", Row: 9, HasMarket: true, DockingCapacity: 4,
	}); err != nil {
		t.Fatalf("add base: %v", err)
	}
	if err := s.AddItem(store.Item{ID: 5001, Name: "Iridium Ore", MassPerUnit: 2, BasePrice: 40}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := s.AddItem(store.Item{ID: 5002, Name: "Rations", MassPerUnit: 1, BasePrice: 10}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	for _, p := range []store.Prefect{
		{ID: 1, GameID: gameID, Name: "Prefect Voss", Rank: "Prefect", Credits: 10000},
		{ID: 2, GameID: gameID, Name: "Prefect Imre", Rank: "Prefect", Credits: 10000},
	} {
		if err := s.AddPrefect(p); err != nil {
			t.Fatalf("add prefect: %v", err)
		}
	}
	return s, New(s, tuning.Defaults(), quiet())
}

func addShip(t *testing.T, s *store.Store, id, prefect int64, col string, row, tu int) store.Ship {
	t.Helper()
	sh := store.Ship{
		ID: id, GameID: gameID, OwnerPrefectID: prefect,
		Name: "Test Ship", Class: "Frigate",
		Col: col, Row: row, SystemID: 231,
		TUPerTurn: tu, TURemaining: tu,
		SensorRating: 1, CargoCapacity: 500, LifeSupport: 60,
		CrewCount: 20, CrewRequired: 20,
	}
	if err := s.AddShip(sh); err != nil {
		t.Fatalf("add ship: %v", err)
	}
	return sh
}

func fileOrders(t *testing.T, s *store.Store, shipID int64, lines ...string) {
	t.Helper()
	if err := s.ReplaceTurnOrders(gameID, 500, 1, shipID, lines); err != nil {
		t.Fatalf("file orders: %v", err)
	}
}

func resolve(t *testing.T, r *Resolver) *TurnResult {
	t.Helper()
	res, err := r.ResolveTurn(gameID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return res
}

func TestResolve_MoveThenScan(t *testing.T) {
	s, r := newWorld(t)
	addShip(t, s, 9001, 1, "H", 4, 300)
	fileOrders(t, s, 9001, "MOVE K07", "LOCATIONSCAN")

	res := resolve(t, r)
	sr := res.Ship(9001)
	if sr == nil {
		t.Fatal("no result for ship 9001")
	}
	if sr.FinalCol != "K" || sr.FinalRow != 7 {
		t.Fatalf("final position %s%02d, want K07", sr.FinalCol, sr.FinalRow)
	}
	// 3 squares at 2 TU each plus a 20 TU scan.
	if sr.FinalTU != 274 {
		t.Fatalf("final TU %d, want 274", sr.FinalTU)
	}
	if len(sr.Overflow) != 0 {
		t.Fatalf("unexpected overflow: %v", sr.Overflow)
	}
	if len(sr.Log) != 2 {
		t.Fatalf("log length %d, want 2", len(sr.Log))
	}
	mv := sr.Log[0]
	if !mv.Success || mv.TUCost != 6 || len(mv.Waypoints) != 3 {
		t.Fatalf("move entry: success=%v cost=%d waypoints=%d", mv.Success, mv.TUCost, len(mv.Waypoints))
	}
	if !strings.Contains(mv.Message, "Ship moved to K07") {
		t.Fatalf("move message %q", mv.Message)
	}

	// The store must agree with the result.
	sh, err := s.Ship(9001)
	if err != nil {
		t.Fatalf("ship: %v", err)
	}
	if sh.Col != "K" || sh.Row != 7 || sh.TURemaining != 274 {
		t.Fatalf("stored ship at %s%02d with %d TU", sh.Col, sh.Row, sh.TURemaining)
	}
}

func TestResolve_MoveOverflowKeepsOriginalTarget(t *testing.T) {
	s, r := newWorld(t)
	addShip(t, s, 9001, 1, "H", 4, 5)
	fileOrders(t, s, 9001, "MOVE M04")

	res := resolve(t, r)
	sr := res.Ship(9001)
	// 5 TU buys two squares at 2 TU each.
	if sr.FinalCol != "J" || sr.FinalRow != 4 {
		t.Fatalf("final position %s%02d, want J04", sr.FinalCol, sr.FinalRow)
	}
	if sr.FinalTU != 1 {
		t.Fatalf("final TU %d, want 1", sr.FinalTU)
	}
	if len(sr.Log) != 1 {
		t.Fatalf("log length %d, want 1", len(sr.Log))
	}
	mv := sr.Log[0]
	if !mv.Success || !mv.TUExhausted || mv.TUCost != 4 {
		t.Fatalf("move entry: success=%v exhausted=%v cost=%d", mv.Success, mv.TUExhausted, mv.TUCost)
	}
	if !strings.Contains(mv.Message, "3 square(s) short of M04") {
		t.Fatalf("move message %q", mv.Message)
	}

	// The pending order keeps the original target verbatim.
	pending, err := s.PendingOrders(gameID, 9001)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0] != "MOVE M04" {
		t.Fatalf("pending orders %v, want [MOVE M04]", pending)
	}
}

func TestResolve_OverflowCarriesWholeQueue(t *testing.T) {
	s, r := newWorld(t)
	addShip(t, s, 9001, 1, "H", 4, 3)
	fileOrders(t, s, 9001, "MOVE M04", "ORBIT 247985", "WAIT 5")

	res := resolve(t, r)
	sr := res.Ship(9001)
	// One square done, then the rest of the queue overflows in order.
	if sr.FinalCol != "I" || sr.FinalRow != 4 || sr.FinalTU != 1 {
		t.Fatalf("final %s%02d with %d TU", sr.FinalCol, sr.FinalRow, sr.FinalTU)
	}
	pending, err := s.PendingOrders(gameID, 9001)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	want := []string{"MOVE M04", "ORBIT 247985", "WAIT 5"}
	if len(pending) != len(want) {
		t.Fatalf("pending %v, want %v", pending, want)
	}
	for i := range want {
		if pending[i] != want[i] {
			t.Fatalf("pending[%d] = %q, want %q", i, pending[i], want[i])
		}
	}
}

func TestResolve_BuyCapsQuantity(t *testing.T) {
	s, r := newWorld(t)
	sh := addShip(t, s, 9001, 1, "K", 9, 300)
	sh.DockedAtBaseID = 77001
	if err := s.CommitShipState(sh); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := s.SetPrefectCredits(1, 800); err != nil {
		t.Fatalf("credits: %v", err)
	}
	// A pre-seeded quote wins over cycle materialization.
	cycle := r.pricer.CycleStart(store.AbsoluteWeek(500, 1))
	if err := s.UpsertQuote(store.Quote{
		GameID: gameID, BaseID: 77001, ItemID: 5001, CycleStart: cycle,
		BuyPrice: 40, SellPrice: 38, Stock: 30, Demand: 100,
	}); err != nil {
		t.Fatalf("quote: %v", err)
	}
	fileOrders(t, s, 9001, "BUY 77001 5001 50")

	res := resolve(t, r)
	e := res.Ship(9001).Log[0]
	if !e.Success {
		t.Fatalf("buy failed: %s", e.Message)
	}
	// Stock allows 30, credits only 20: both limits cited, 20 transacted.
	if !strings.Contains(e.Message, "Bought 20 Iridium Ore at 40 cr each (800 cr total).") {
		t.Fatalf("buy message %q", e.Message)
	}
	if !strings.Contains(e.Message, "stock (30)") || !strings.Contains(e.Message, "credits (20 affordable)") {
		t.Fatalf("buy message missing cap reasons: %q", e.Message)
	}

	p, err := s.Prefect(1)
	if err != nil {
		t.Fatalf("prefect: %v", err)
	}
	if p.Credits != 0 {
		t.Fatalf("credits after buy %d, want 0", p.Credits)
	}
	qty, err := s.CargoQuantity(9001, 5001)
	if err != nil {
		t.Fatalf("cargo: %v", err)
	}
	if qty != 20 {
		t.Fatalf("cargo quantity %d, want 20", qty)
	}
	q, err := s.Quote(gameID, 77001, 5001, cycle)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Stock != 10 {
		t.Fatalf("stock after buy %d, want 10", q.Stock)
	}
}

func TestResolve_SellCapsAtUnitsHeld(t *testing.T) {
	s, r := newWorld(t)
	sh := addShip(t, s, 9001, 1, "K", 9, 300)
	sh.DockedAtBaseID = 77001
	if err := s.CommitShipState(sh); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := s.AdjustCargo(9001, 5002, 15); err != nil {
		t.Fatalf("cargo: %v", err)
	}
	cycle := r.pricer.CycleStart(store.AbsoluteWeek(500, 1))
	if err := s.UpsertQuote(store.Quote{
		GameID: gameID, BaseID: 77001, ItemID: 5002, CycleStart: cycle,
		BuyPrice: 12, SellPrice: 9, Stock: 200, Demand: 100,
	}); err != nil {
		t.Fatalf("quote: %v", err)
	}
	fileOrders(t, s, 9001, "SELL 77001 5002 40")

	res := resolve(t, r)
	e := res.Ship(9001).Log[0]
	if !e.Success {
		t.Fatalf("sell failed: %s", e.Message)
	}
	if !strings.Contains(e.Message, "Sold 15 Rations at 9 cr each (135 cr total).") {
		t.Fatalf("sell message %q", e.Message)
	}
	if !strings.Contains(e.Message, "units held (15)") {
		t.Fatalf("sell message missing cap reason: %q", e.Message)
	}
	p, _ := s.Prefect(1)
	if p.Credits != 10135 {
		t.Fatalf("credits after sell %d, want 10135", p.Credits)
	}
}

func TestResolve_JumpBlockedNearStar(t *testing.T) {
	s, r := newWorld(t)
	addShip(t, s, 9001, 1, "M", 7, 300) // 6 squares from the star at M13
	fileOrders(t, s, 9001, "JUMP 232")

	res := resolve(t, r)
	sr := res.Ship(9001)
	e := sr.Log[0]
	if e.Success {
		t.Fatal("jump should have failed")
	}
	if !strings.Contains(e.Message, "only 6 squares from Hanf (minimum 10)") {
		t.Fatalf("jump message %q", e.Message)
	}
	// Precondition failure: no charge, order dropped, system unchanged.
	if sr.FinalTU != 300 {
		t.Fatalf("final TU %d, want 300", sr.FinalTU)
	}
	if sr.SystemID != 231 {
		t.Fatalf("system %d, want 231", sr.SystemID)
	}
	pending, _ := s.PendingOrders(gameID, 9001)
	if len(pending) != 0 {
		t.Fatalf("unexpected pending orders %v", pending)
	}
}

func TestResolve_JumpSucceedsClearOfStar(t *testing.T) {
	s, r := newWorld(t)
	addShip(t, s, 9001, 1, "M", 1, 300) // 12 squares out
	fileOrders(t, s, 9001, "JUMP 232")

	res := resolve(t, r)
	sr := res.Ship(9001)
	e := sr.Log[0]
	if !e.Success || e.TUCost != 60 {
		t.Fatalf("jump entry: success=%v cost=%d: %s", e.Success, e.TUCost, e.Message)
	}
	if sr.SystemID != 232 || sr.FinalTU != 240 {
		t.Fatalf("system %d TU %d, want 232 and 240", sr.SystemID, sr.FinalTU)
	}
	sh, _ := s.Ship(9001)
	if sh.SystemID != 232 {
		t.Fatalf("stored system %d, want 232", sh.SystemID)
	}
}

func TestResolve_LocomotionStates(t *testing.T) {
	s, r := newWorld(t)
	addShip(t, s, 9001, 1, "H", 4, 300)
	fileOrders(t, s, 9001, "ORBIT 247985", "LAND 247985 10 10", "TAKEOFF", "SURFACESCAN")

	res := resolve(t, r)
	sr := res.Ship(9001)
	for i, e := range sr.Log {
		if !e.Success {
			t.Fatalf("log[%d] %s failed: %s", i, e.Command, e.Message)
		}
	}
	// Finishes back in orbit: never more than one locomotion state at once.
	if sr.Orbiting != 247985 || sr.LandedOn != 0 || sr.DockedAt != 0 {
		t.Fatalf("final state orbit=%d landed=%d docked=%d", sr.Orbiting, sr.LandedOn, sr.DockedAt)
	}
	// 10 + 20 + 20 + 20 TU.
	if sr.FinalTU != 230 {
		t.Fatalf("final TU %d, want 230", sr.FinalTU)
	}
	if !strings.Contains(sr.Log[1].Message, "Ship landed on Orion at (10,10)") {
		t.Fatalf("land message %q", sr.Log[1].Message)
	}
}

func TestResolve_DockRequiresOrbitFirst(t *testing.T) {
	s, r := newWorld(t)
	addShip(t, s, 9001, 1, "H", 4, 300)
	// Citadel Station orbits Orion: the bare DOCK is rejected without charge,
	// then ORBIT plus DOCK goes through.
	fileOrders(t, s, 9001, "DOCK 45687590", "ORBIT 247985", "DOCK 45687590")

	res := resolve(t, r)
	sr := res.Ship(9001)
	if sr.Log[0].Success {
		t.Fatal("dock without orbit should fail")
	}
	if !strings.Contains(sr.Log[0].Message, "ORBIT the body first") {
		t.Fatalf("dock message %q", sr.Log[0].Message)
	}
	if !sr.Log[1].Success || !sr.Log[2].Success {
		t.Fatalf("orbit/dock failed: %q / %q", sr.Log[1].Message, sr.Log[2].Message)
	}
	if sr.DockedAt != 45687590 || sr.Orbiting != 0 {
		t.Fatalf("final state docked=%d orbit=%d", sr.DockedAt, sr.Orbiting)
	}
	if sr.FinalTU != 260 {
		t.Fatalf("final TU %d, want 260", sr.FinalTU)
	}
}

func TestResolve_SameSquareDetectionIsMutual(t *testing.T) {
	s, r := newWorld(t)
	addShip(t, s, 9001, 1, "J", 9, 300)
	addShip(t, s, 9002, 2, "K", 9, 300)
	fileOrders(t, s, 9001, "MOVE K09")

	res := resolve(t, r)
	sr := res.Ship(9001)
	found := false
	for _, c := range sr.Contacts {
		if c.Type == "ship" && c.ID == 9002 {
			found = true
		}
	}
	if !found {
		t.Fatalf("mover did not detect the stationary ship: %v", sr.Contacts)
	}

	for _, prefect := range []int64{1, 2} {
		contacts, err := s.ContactsForPrefect(prefect)
		if err != nil {
			t.Fatalf("contacts: %v", err)
		}
		found := false
		for _, c := range contacts {
			if c.ObjectType == "ship" && c.ObjectID != 0 {
				found = true
			}
		}
		if !found {
			t.Fatalf("prefect %d has no ship contact", prefect)
		}
	}
}

func TestResolve_ScanSeesMidMovePosition(t *testing.T) {
	s, r := newWorld(t)
	addShip(t, s, 9001, 1, "H", 4, 300)
	addShip(t, s, 9002, 2, "T", 4, 300)
	fileOrders(t, s, 9001, "MOVE W04")
	fileOrders(t, s, 9002, "LOCATIONSCAN")

	res := resolve(t, r)
	scan := res.Ship(9002).Log[0]
	if !scan.Success {
		t.Fatalf("scan failed: %s", scan.Message)
	}
	// The scan fires 20 TU in, by which time the mover has crossed nine
	// squares and is inside sensor range; its start square is not.
	var at string
	for _, obj := range scan.Detected {
		if obj.Type == "ship" && obj.ID == 9001 {
			at = obj.Col
		}
	}
	if at != "Q" {
		t.Fatalf("scanned mover at column %q, want Q", at)
	}
	// The mover still reaches its target.
	if sr := res.Ship(9001); sr.FinalCol != "W" || sr.FinalRow != 4 {
		t.Fatalf("mover finished at %s%02d", sr.FinalCol, sr.FinalRow)
	}
}

func TestResolve_WaitPartialNeverOverflows(t *testing.T) {
	s, r := newWorld(t)
	addShip(t, s, 9001, 1, "H", 4, 50)
	fileOrders(t, s, 9001, "WAIT 100", "ORBIT 247985")

	res := resolve(t, r)
	sr := res.Ship(9001)
	w := sr.Log[0]
	if !w.Success || w.TUCost != 50 {
		t.Fatalf("wait entry: success=%v cost=%d", w.Success, w.TUCost)
	}
	if !strings.Contains(w.Message, "partial: 50 of 100 TU") {
		t.Fatalf("wait message %q", w.Message)
	}
	// The drained queue pushes the orbit order into next turn.
	if !sr.Log[1].TUExhausted {
		t.Fatalf("orbit entry should be TU-exhausted: %+v", sr.Log[1])
	}
	pending, _ := s.PendingOrders(gameID, 9001)
	if len(pending) != 1 || pending[0] != "ORBIT 247985" {
		t.Fatalf("pending %v, want [ORBIT 247985]", pending)
	}
}

func TestResolve_UnderCrewedShipPaysMore(t *testing.T) {
	s, r := newWorld(t)
	sh := addShip(t, s, 9001, 1, "H", 4, 300)
	sh.CrewCount = 10 // half the required 20, efficiency 50
	if err := s.CommitShipState(sh); err != nil {
		t.Fatalf("commit: %v", err)
	}
	fileOrders(t, s, 9001, "LOCATIONSCAN")

	res := resolve(t, r)
	e := res.Ship(9001).Log[0]
	if e.TUCost != 30 {
		t.Fatalf("scan cost %d at 50%% efficiency, want 30", e.TUCost)
	}
}

func TestResolve_ClearDiscardsCarriedOrders(t *testing.T) {
	s, r := newWorld(t)
	addShip(t, s, 9001, 1, "H", 4, 300)
	if err := s.ReplacePendingOrders(gameID, 9001, []string{"WAIT 10"}); err != nil {
		t.Fatalf("pending: %v", err)
	}
	fileOrders(t, s, 9001, "CLEAR", "LOCATIONSCAN")

	res := resolve(t, r)
	sr := res.Ship(9001)
	if !strings.Contains(sr.Log[0].Message, "Discarded 1 carried-over order(s).") {
		t.Fatalf("clear message %q", sr.Log[0].Message)
	}
	// Only the scan charges: the carried WAIT never ran.
	if sr.FinalTU != 280 {
		t.Fatalf("final TU %d, want 280", sr.FinalTU)
	}
	pending, _ := s.PendingOrders(gameID, 9001)
	if len(pending) != 0 {
		t.Fatalf("pending not cleared: %v", pending)
	}
}

func TestResolve_CarriedOrdersRunBeforeFiled(t *testing.T) {
	s, r := newWorld(t)
	addShip(t, s, 9001, 1, "H", 4, 300)
	if err := s.ReplacePendingOrders(gameID, 9001, []string{"WAIT 10"}); err != nil {
		t.Fatalf("pending: %v", err)
	}
	fileOrders(t, s, 9001, "LOCATIONSCAN")

	res := resolve(t, r)
	sr := res.Ship(9001)
	if sr.Log[0].Command != "WAIT" || sr.Log[1].Command != "LOCATIONSCAN" {
		t.Fatalf("order sequence %s then %s", sr.Log[0].Command, sr.Log[1].Command)
	}
	if sr.FinalTU != 270 {
		t.Fatalf("final TU %d, want 270", sr.FinalTU)
	}
}

func TestResolve_TUConservation(t *testing.T) {
	s, r := newWorld(t)
	addShip(t, s, 9001, 1, "H", 4, 300)
	fileOrders(t, s, 9001, "MOVE K07", "ORBIT 247985", "LOCATIONSCAN", "WAIT 25")

	res := resolve(t, r)
	sr := res.Ship(9001)
	spent := 0
	for _, e := range sr.Log {
		if e.TUBefore-e.TUAfter != e.TUCost {
			t.Fatalf("%s: before %d after %d cost %d", e.Command, e.TUBefore, e.TUAfter, e.TUCost)
		}
		spent += e.TUCost
	}
	if sr.StartTU-spent != sr.FinalTU {
		t.Fatalf("start %d spent %d final %d", sr.StartTU, spent, sr.FinalTU)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	run := func() *TurnResult {
		s, r := newWorld(t)
		addShip(t, s, 9001, 1, "H", 4, 300)
		addShip(t, s, 9002, 2, "K", 9, 300)
		fileOrders(t, s, 9001, "MOVE K09", "SYSTEMSCAN")
		fileOrders(t, s, 9002, "LOCATIONSCAN", "MOVE M09")
		return resolve(t, r)
	}

	a, b := run(), run()
	for _, id := range []int64{9001, 9002} {
		ra, rb := a.Ship(id), b.Ship(id)
		if ra.FinalCol != rb.FinalCol || ra.FinalRow != rb.FinalRow || ra.FinalTU != rb.FinalTU {
			t.Fatalf("ship %d diverged: %s%02d/%d vs %s%02d/%d", id,
				ra.FinalCol, ra.FinalRow, ra.FinalTU, rb.FinalCol, rb.FinalRow, rb.FinalTU)
		}
		if len(ra.Log) != len(rb.Log) {
			t.Fatalf("ship %d log length %d vs %d", id, len(ra.Log), len(rb.Log))
		}
		for i := range ra.Log {
			if ra.Log[i].Message != rb.Log[i].Message {
				t.Fatalf("ship %d log[%d] diverged:\n%s\nvs\n%s", id, i, ra.Log[i].Message, rb.Log[i].Message)
			}
		}
	}
}

func TestResolve_ShipWithoutOrdersStillResets(t *testing.T) {
	s, r := newWorld(t)
	sh := addShip(t, s, 9001, 1, "H", 4, 300)
	sh.TURemaining = 12
	if err := s.CommitShipState(sh); err != nil {
		t.Fatalf("commit: %v", err)
	}

	res := resolve(t, r)
	sr := res.Ship(9001)
	if sr == nil {
		t.Fatal("idle ship missing from result")
	}
	if sr.FinalTU != 300 || len(sr.Log) != 0 {
		t.Fatalf("idle ship TU %d log %d", sr.FinalTU, len(sr.Log))
	}
}
