// Command pbem is the moderator's console for a play-by-email game: it
// creates games, registers players, files order submissions and resolves
// turns. State lives in a single SQLite database; reports and receipts go to
// the filing tree under -out.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"

	"stellardominion.net/internal/orders"
	"stellardominion.net/internal/persistence/archive"
	"stellardominion.net/internal/report"
	"stellardominion.net/internal/setup"
	"stellardominion.net/internal/sim/maps"
	"stellardominion.net/internal/sim/resolve"
	"stellardominion.net/internal/store"
	"stellardominion.net/internal/transport/watch"
	"stellardominion.net/internal/tuning"
	"stellardominion.net/internal/turnfolders"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "create-game":
		createGameCmd(os.Args[2:])
	case "add-player":
		addPlayerCmd(os.Args[2:])
	case "suspend-player":
		suspendCmd(os.Args[2:], true)
	case "reinstate-player":
		suspendCmd(os.Args[2:], false)
	case "submit-orders":
		submitOrdersCmd(os.Args[2:])
	case "run-turn":
		runTurnCmd(os.Args[2:])
	case "advance-turn":
		advanceTurnCmd(os.Args[2:])
	case "show-map":
		showMapCmd(os.Args[2:])
	case "status":
		statusCmd(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: pbem <command> [flags]

commands:
  create-game       create a game (optionally seeded with the Hanf sector)
  add-player        register a player and print their credentials
  suspend-player    stop accepting a player's orders
  reinstate-player  resume accepting a player's orders
  submit-orders     validate and file an orders submission
  run-turn          resolve the current turn and write reports
  advance-turn      move the game clock to the next week
  show-map          print a system map
  status            show a game or ship summary

run 'pbem <command> -h' for flags.`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func openStore(path string, verbose bool) *store.Store {
	var logger *log.Logger
	if verbose {
		logger = log.New(os.Stderr, "[store] ", log.LstdFlags)
	}
	st, err := store.Open(path, logger)
	if err != nil {
		fatal("open %s: %v", path, err)
	}
	return st
}

func createGameCmd(args []string) {
	fs := flag.NewFlagSet("create-game", flag.ExitOnError)
	db := fs.String("db", "data/stellar.db", "sqlite database path")
	gameID := fs.String("game", "", "game id (required)")
	name := fs.String("name", "", "display name")
	rngSeed := fs.String("seed", "", "rng seed (generated when empty)")
	demo := fs.Bool("demo", false, "seed the Hanf sector universe")
	_ = fs.Parse(args)
	if *gameID == "" {
		fatal("create-game: -game is required")
	}

	st := openStore(*db, false)
	defer st.Close()
	if err := setup.CreateGame(st, *gameID, *name, *rngSeed); err != nil {
		fatal("create game: %v", err)
	}
	if *demo {
		if err := setup.SeedHanfUniverse(st, *gameID); err != nil {
			fatal("seed universe: %v", err)
		}
	}
	g, err := st.Game(*gameID)
	if err != nil {
		fatal("game: %v", err)
	}
	fmt.Printf("created game %s at turn %s (seed %s)\n", g.ID, g.TurnString(), g.RNGSeed)
}

func addPlayerCmd(args []string) {
	fs := flag.NewFlagSet("add-player", flag.ExitOnError)
	db := fs.String("db", "data/stellar.db", "sqlite database path")
	file := fs.String("file", "", "registration form (yaml or text)")
	gameID := fs.String("game", "", "game id")
	player := fs.String("player", "", "player name")
	email := fs.String("email", "", "player email")
	prefect := fs.String("prefect", "", "prefect name")
	shipName := fs.String("ship", "", "starting ship name")
	starbase := fs.Int64("starbase", 0, "starting starbase id (0 = open space)")
	_ = fs.Parse(args)

	var reg setup.Registration
	if *file != "" {
		content, err := os.ReadFile(*file)
		if err != nil {
			fatal("read %s: %v", *file, err)
		}
		reg, err = setup.ParseRegistration(content)
		if err != nil {
			fatal("parse registration: %v", err)
		}
	} else {
		reg = setup.Registration{
			Game: *gameID, PlayerName: *player, Email: *email,
			PrefectName: *prefect, ShipName: *shipName, Starbase: *starbase,
		}
	}
	if errs := reg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, "registration:", e)
		}
		os.Exit(1)
	}

	st := openStore(*db, false)
	defer st.Close()
	creds, err := setup.RegisterPlayer(st, reg)
	if err != nil {
		fatal("register: %v", err)
	}
	fmt.Printf("registered %s in game %s\n", reg.PlayerName, reg.Game)
	fmt.Printf("  account:  %s  (keep this secret; it routes your reports)\n", creds.Account)
	fmt.Printf("  prefect:  %s (%d)\n", reg.PrefectName, creds.PrefectID)
	fmt.Printf("  ship:     %s (%d)\n", reg.ShipName, creds.ShipID)
}

func suspendCmd(args []string, suspend bool) {
	name := "suspend-player"
	if !suspend {
		name = "reinstate-player"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	db := fs.String("db", "data/stellar.db", "sqlite database path")
	gameID := fs.String("game", "", "game id (required)")
	account := fs.String("account", "", "player account number (required)")
	_ = fs.Parse(args)
	if *gameID == "" || *account == "" {
		fatal("%s: -game and -account are required", name)
	}

	st := openStore(*db, false)
	defer st.Close()
	p, err := st.PlayerByAccount(*gameID, *account)
	if err != nil {
		fatal("%v", err)
	}
	if err := st.SetPlayerSuspended(p.ID, suspend); err != nil {
		fatal("%v", err)
	}
	state := "reinstated"
	if suspend {
		state = "suspended"
	}
	fmt.Printf("%s %s (%s)\n", state, p.Name, p.AccountNumber)
}

func submitOrdersCmd(args []string) {
	fs := flag.NewFlagSet("submit-orders", flag.ExitOnError)
	db := fs.String("db", "data/stellar.db", "sqlite database path")
	out := fs.String("out", "data/games", "filing tree base directory")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fatal("submit-orders: exactly one orders file expected")
	}
	content, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fatal("read %s: %v", fs.Arg(0), err)
	}

	var reasons []string
	if bytes.Contains(content, []byte("orders:")) {
		if err := orders.CheckSchema(content); err != nil {
			reasons = append(reasons, err.Error())
		}
	}
	sub := orders.Parse(content)
	reasons = append(reasons, sub.Errors...)

	st := openStore(*db, false)
	defer st.Close()
	g, err := st.Game(sub.Game)
	if err != nil {
		fatal("%v", err)
	}
	tree := turnfolders.New(*out, g.ID)

	player, err := st.PlayerByAccount(g.ID, sub.Account)
	if err != nil {
		fatal("%v", err)
	}
	if player.Suspended {
		reasons = append(reasons, "account is suspended")
	}
	ship, err := st.Ship(sub.ShipID)
	if err != nil {
		reasons = append(reasons, fmt.Sprintf("ship %d not found", sub.ShipID))
	} else {
		prefect, perr := st.PrefectForPlayer(player.ID)
		if perr != nil {
			reasons = append(reasons, perr.Error())
		} else if ship.OwnerPrefectID != prefect.ID || ship.GameID != g.ID {
			reasons = append(reasons, fmt.Sprintf("ship %d does not belong to this account", sub.ShipID))
		}
	}

	if len(reasons) > 0 {
		if err := tree.StoreRejected(g.TurnString(), player.Email, sub.ShipID, content, reasons); err != nil {
			fatal("file rejection: %v", err)
		}
		fmt.Fprintln(os.Stderr, "submission rejected:")
		for _, r := range reasons {
			fmt.Fprintln(os.Stderr, "  -", r)
		}
		os.Exit(1)
	}

	lines := make([]string, len(sub.Orders))
	for i, o := range sub.Orders {
		lines[i] = o.String()
	}
	if err := st.ReplaceTurnOrders(g.ID, g.Year, g.Week, sub.ShipID, lines); err != nil {
		fatal("store orders: %v", err)
	}
	if _, err := tree.StoreIncoming(g.TurnString(), player.Email, sub.ShipID, content); err != nil {
		fatal("file submission: %v", err)
	}
	if _, err := tree.StoreReceipt(g.TurnString(), player.Email, sub.ShipID,
		turnfolders.Receipt{OrderCount: len(sub.Orders)}); err != nil {
		fatal("file receipt: %v", err)
	}
	fmt.Printf("accepted %d order(s) for ship %d, turn %s\n", len(sub.Orders), sub.ShipID, g.TurnString())
}

func runTurnCmd(args []string) {
	fs := flag.NewFlagSet("run-turn", flag.ExitOnError)
	db := fs.String("db", "data/stellar.db", "sqlite database path")
	gameID := fs.String("game", "", "game id (required)")
	out := fs.String("out", "data/games", "filing tree base directory")
	archiveDir := fs.String("archive", "data/archive", "turn archive directory")
	tuningPath := fs.String("tuning", "", "tuning overrides (yaml)")
	watchAddr := fs.String("watch", "", "serve a live resolution feed on this address")
	verbose := fs.Bool("v", false, "log resolution detail")
	_ = fs.Parse(args)
	if *gameID == "" {
		fatal("run-turn: -game is required")
	}

	logger := log.New(os.Stderr, "[pbem] ", log.LstdFlags)
	st := openStore(*db, *verbose)
	defer st.Close()

	tune := tuning.Defaults()
	if *tuningPath != "" {
		var err error
		if tune, err = tuning.Load(*tuningPath); err != nil {
			fatal("tuning: %v", err)
		}
	}

	var resLogger *log.Logger
	if *verbose {
		resLogger = logger
	} else {
		resLogger = log.New(os.Stderr, "[resolve] ", 0)
	}
	r := resolve.New(st, tune, resLogger)

	if *watchAddr != "" {
		hub := watch.NewHub(logger)
		srv := watch.NewServer(hub, logger)
		mux := http.NewServeMux()
		mux.Handle("/watch", srv.Handler())
		go func() {
			if err := http.ListenAndServe(*watchAddr, mux); err != nil {
				logger.Printf("watch server: %v", err)
			}
		}()
		r.SetObserver(func(ev resolve.Event) { hub.Publish(ev) })
		logger.Printf("live feed on ws://%s/watch", *watchAddr)
	}

	g, err := st.Game(*gameID)
	if err != nil {
		fatal("%v", err)
	}
	res, err := r.ResolveTurn(g.ID)
	if err != nil {
		fatal("resolve turn %s: %v", g.TurnString(), err)
	}

	arc := archive.New(*archiveDir, g.ID)
	if err := arc.Append(res); err != nil {
		fatal("archive: %v", err)
	}
	if err := arc.Close(); err != nil {
		fatal("archive close: %v", err)
	}

	tree := turnfolders.New(*out, g.ID)
	turn := g.TurnString()
	accounts := map[int64]string{} // prefect id -> account
	for _, sr := range res.Ships {
		sh, err := st.Ship(sr.ShipID)
		if err != nil {
			fatal("ship %d: %v", sr.ShipID, err)
		}
		player, err := st.PlayerForPrefect(sh.OwnerPrefectID)
		if err != nil {
			// Unowned ship; nobody to report to.
			continue
		}
		text, err := report.ShipReport(st, g, sr)
		if err != nil {
			fatal("ship report %d: %v", sr.ShipID, err)
		}
		if _, err := tree.StoreShipReport(turn, player.AccountNumber, sr.ShipID, text); err != nil {
			fatal("file ship report: %v", err)
		}
		accounts[sh.OwnerPrefectID] = player.AccountNumber
	}
	for prefectID, account := range accounts {
		text, err := report.PrefectReport(st, g, prefectID)
		if err != nil {
			fatal("prefect report %d: %v", prefectID, err)
		}
		if _, err := tree.StorePrefectReport(turn, account, prefectID, text); err != nil {
			fatal("file prefect report: %v", err)
		}
	}
	fmt.Printf("turn %s resolved: %d ship(s), reports for %d player(s) under %s\n",
		turn, len(res.Ships), len(accounts), *out)
}

func advanceTurnCmd(args []string) {
	fs := flag.NewFlagSet("advance-turn", flag.ExitOnError)
	db := fs.String("db", "data/stellar.db", "sqlite database path")
	gameID := fs.String("game", "", "game id (required)")
	_ = fs.Parse(args)
	if *gameID == "" {
		fatal("advance-turn: -game is required")
	}

	st := openStore(*db, false)
	defer st.Close()
	g, err := st.AdvanceTurn(*gameID)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("game %s is now at turn %s\n", g.ID, g.TurnString())
}

func showMapCmd(args []string) {
	fs := flag.NewFlagSet("show-map", flag.ExitOnError)
	db := fs.String("db", "data/stellar.db", "sqlite database path")
	gameID := fs.String("game", "", "game id (required)")
	systemID := fs.Int64("system", 0, "system id (required)")
	shipID := fs.Int64("ship", 0, "mark this ship's position")
	_ = fs.Parse(args)
	if *gameID == "" || *systemID == 0 {
		fatal("show-map: -game and -system are required")
	}

	st := openStore(*db, false)
	defer st.Close()
	sys, err := st.System(*systemID)
	if err != nil {
		fatal("%v", err)
	}
	objects, err := st.SystemObjects(*gameID, *systemID)
	if err != nil {
		fatal("%v", err)
	}
	var ship *store.Ship
	if *shipID != 0 {
		sh, err := st.Ship(*shipID)
		if err != nil {
			fatal("%v", err)
		}
		ship = &sh
	}
	for _, line := range maps.RenderSystem(fmt.Sprintf("%s (%d)", sys.Name, sys.ID), objects, ship) {
		fmt.Println(line)
	}
}

func statusCmd(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	db := fs.String("db", "data/stellar.db", "sqlite database path")
	gameID := fs.String("game", "", "game id (required)")
	shipID := fs.Int64("ship", 0, "show one ship instead of the fleet list")
	_ = fs.Parse(args)
	if *gameID == "" {
		fatal("status: -game is required")
	}

	st := openStore(*db, false)
	defer st.Close()
	g, err := st.Game(*gameID)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("game %s (%s), turn %s\n", g.ID, g.Name, g.TurnString())

	if *shipID != 0 {
		sh, err := st.Ship(*shipID)
		if err != nil {
			fatal("%v", err)
		}
		prefect, _ := st.Prefect(sh.OwnerPrefectID)
		fmt.Printf("  %s (%d), %s class\n", sh.Name, sh.ID, sh.Class)
		fmt.Printf("  owner:    %s (%d), %d credits\n", prefect.Name, prefect.ID, prefect.Credits)
		fmt.Printf("  location: system %d {%s%02d}%s\n", sh.SystemID, sh.Col, sh.Row, locationSuffix(st, sh))
		fmt.Printf("  TUs:      %d / %d\n", sh.TURemaining, sh.TUPerTurn)
		fmt.Printf("  crew:     %d (requires %d)\n", sh.CrewCount, sh.CrewRequired)
		pending, err := st.PendingOrders(g.ID, sh.ID)
		if err == nil && len(pending) > 0 {
			fmt.Println("  carried-over orders:")
			for _, line := range pending {
				fmt.Println("    ", line)
			}
		}
		return
	}

	ships, err := st.ShipsInGame(*gameID)
	if err != nil {
		fatal("%v", err)
	}
	sort.Slice(ships, func(i, j int) bool { return ships[i].ID < ships[j].ID })
	for _, sh := range ships {
		fmt.Printf("  %-10d %-24s sys %-4d {%s%02d}  TU %d/%d%s\n",
			sh.ID, sh.Name, sh.SystemID, sh.Col, sh.Row,
			sh.TURemaining, sh.TUPerTurn, locationSuffix(st, sh))
	}
}

func locationSuffix(st *store.Store, sh store.Ship) string {
	switch {
	case sh.DockedAtBaseID != 0:
		if b, err := st.Base(sh.DockedAtBaseID); err == nil {
			return fmt.Sprintf("  docked at %s", b.Name)
		}
		return fmt.Sprintf("  docked at base %d", sh.DockedAtBaseID)
	case sh.LandedBodyID != 0:
		if b, err := st.Body(sh.LandedBodyID); err == nil {
			return fmt.Sprintf("  landed on %s", b.Name)
		}
		return fmt.Sprintf("  landed on body %d", sh.LandedBodyID)
	case sh.OrbitingBodyID != 0:
		if b, err := st.Body(sh.OrbitingBodyID); err == nil {
			return fmt.Sprintf("  orbiting %s", b.Name)
		}
		return fmt.Sprintf("  orbiting body %d", sh.OrbitingBodyID)
	}
	return ""
}
