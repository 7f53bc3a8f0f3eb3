// Package report renders Phoenix-style ASCII turn reports for email
// delivery: a banner, the per-order execution log, then bordered status
// sections.
package report

import (
	"fmt"
	"strings"
	"time"

	"stellardominion.net/internal/sim/resolve"
	"stellardominion.net/internal/store"
)

const reportWidth = 78

func center(text string) string {
	if len(text) >= reportWidth {
		return text
	}
	pad := (reportWidth - len(text)) / 2
	return strings.Repeat(" ", pad) + text
}

func sectionHeader(title string) string {
	inner := fmt.Sprintf("- %s ", title)
	return "|" + inner + strings.Repeat("-", reportWidth-len(inner)-1) + "|"
}

func sectionLine(content string) string {
	padded := "| " + content
	if len(padded) >= reportWidth-1 {
		return padded[:reportWidth-1] + "|"
	}
	return padded + strings.Repeat(" ", reportWidth-len(padded)-1) + "|"
}

func sectionClose() string {
	return "|" + strings.Repeat("-", reportWidth-2) + "|"
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func twoCol(left, right string) string {
	if len(left) < 38 {
		left += strings.Repeat(" ", 38-len(left))
	}
	return left + right
}

// ShipReport renders the full turn report for one resolved ship.
func ShipReport(st *store.Store, g store.Game, res *resolve.ShipResult) (string, error) {
	ship, err := st.Ship(res.ShipID)
	if err != nil {
		return "", err
	}
	system, err := st.System(res.SystemID)
	if err != nil {
		return "", err
	}
	prefect, err := st.Prefect(ship.OwnerPrefectID)
	if err != nil {
		return "", err
	}
	officers, err := st.Officers(ship.ID)
	if err != nil {
		return "", err
	}
	cargo, err := st.Cargo(ship.ID)
	if err != nil {
		return "", err
	}
	cargoUsed, err := st.CargoMass(ship.ID)
	if err != nil {
		return "", err
	}
	contacts, err := st.ContactsInSystem(ship.OwnerPrefectID, res.SystemID)
	if err != nil {
		return "", err
	}

	turnStr := fmt.Sprintf("%d.%d", res.Year, res.Week)
	startLoc := fmt.Sprintf("%s%02d", res.StartCol, res.StartRow)
	finalLoc := fmt.Sprintf("%s%02d", res.FinalCol, res.FinalRow)
	affiliation := prefect.Affiliation
	if affiliation == "" {
		affiliation = "Independent"
	}

	var lines []string
	lines = append(lines, "=== BEGIN REPORT ===", "")
	lines = append(lines, center("Stellar Dominion"))
	lines = append(lines, center("PBEM Strategy Game"), "")
	lines = append(lines, center(fmt.Sprintf("SHIP %s (%d)", res.ShipName, res.ShipID)), "")
	lines = append(lines, fmt.Sprintf("Printed on %s, Star Date %s",
		time.Now().Format("2 January 2006"), turnStr), "")

	bar := strings.Repeat("-", reportWidth)
	lines = append(lines, bar, center("TURN REPORT"), bar, "")
	lines = append(lines, "Starting Location:")
	lines = append(lines, fmt.Sprintf("    %s - %s System (%d)", startLoc, system.Name, system.ID))
	lines = append(lines, "")

	for _, e := range res.Log {
		if e.Params != "" {
			lines = append(lines, fmt.Sprintf(">TU %d: %s {%s}", e.TUBefore, e.Command, e.Params))
		} else {
			lines = append(lines, fmt.Sprintf(">TU %d: %s", e.TUBefore, e.Command))
		}
		for _, msg := range strings.Split(e.Message, "\n") {
			lines = append(lines, "    "+msg)
		}
		lines = append(lines, "")
	}

	lines = append(lines, sectionHeader("Command Report"))
	lines = append(lines, sectionLine(""))
	lines = append(lines, sectionLine(twoCol(
		fmt.Sprintf("Name: %s (%d)", res.ShipName, res.ShipID),
		"Aff: "+affiliation)))
	lines = append(lines, sectionLine(twoCol(
		fmt.Sprintf("Wealth: %d Credits", prefect.Credits),
		"Ownership: Player owned")))
	lines = append(lines, sectionLine(twoCol(
		fmt.Sprintf("Efficiency: %d%%", resolve.Efficiency(ship.CrewCount, ship.CrewRequired)),
		fmt.Sprintf("TUs left: %d tus", res.FinalTU))))
	lines = append(lines, sectionLine(""))
	lines = append(lines, sectionLine(fmt.Sprintf("Class: %s", ship.Class)))
	lines = append(lines, sectionLine(""))

	lines = append(lines, sectionHeader("Navigation Report"))
	lines = append(lines, sectionLine(""))
	lines = append(lines, sectionLine("LOCATION"))
	lines = append(lines, sectionLine(locationLine(st, system, res, finalLoc)))
	lines = append(lines, sectionLine(fmt.Sprintf("%s (%d) - {%s}", system.Name, system.ID, finalLoc)))
	lines = append(lines, sectionLine(""))
	lines = append(lines, sectionLine(twoCol(
		fmt.Sprintf("Sensor Rating: %d%%", ship.SensorRating),
		fmt.Sprintf("Cargo: %d/%d", cargoUsed, ship.CargoCapacity))))
	lines = append(lines, sectionLine(""))

	lines = append(lines, sectionHeader("Crew Report"))
	lines = append(lines, sectionLine(""))
	lines = append(lines, sectionLine("OFFICERS"))
	if len(officers) == 0 {
		lines = append(lines, sectionLine("No officers assigned."))
	}
	for _, off := range officers {
		name := off.Name
		if len(name) < 50 {
			name += strings.Repeat(" ", 50-len(name))
		}
		lines = append(lines, sectionLine(fmt.Sprintf("%s[ %s (%s) ]", name, off.Rank, off.Specialty)))
		lines = append(lines, sectionLine(fmt.Sprintf("   |-Crew Factors                +%d CF", off.CrewFactors)))
	}
	lines = append(lines, sectionLine(""))
	lines = append(lines, sectionLine(twoCol(
		fmt.Sprintf("Crew: %d", ship.CrewCount),
		fmt.Sprintf("Required: %d", ship.CrewRequired))))
	lines = append(lines, sectionLine(""))

	lines = append(lines, sectionHeader("Cargo Report"))
	lines = append(lines, sectionLine(""))
	lines = append(lines, sectionLine(fmt.Sprintf("Cargo: %d/%d", cargoUsed, ship.CargoCapacity)))
	if len(cargo) == 0 {
		lines = append(lines, sectionLine("Cargo hold empty."))
	}
	for _, item := range cargo {
		lines = append(lines, sectionLine(fmt.Sprintf("%8d  %s (%d) - %d mus",
			item.Quantity, item.Name, item.ItemID, item.MassPerUnit)))
	}
	lines = append(lines, sectionLine(""))

	lines = append(lines, sectionHeader("Contacts"))
	lines = append(lines, sectionLine(""))
	if len(contacts) == 0 {
		lines = append(lines, sectionLine("No known contacts."))
	}
	for _, c := range contacts {
		loc := fmt.Sprintf("%s%02d", c.Col, c.Row)
		lines = append(lines, sectionLine(fmt.Sprintf("- %s %s (%d) at %s",
			title(c.ObjectType), c.Name, c.ObjectID, loc)))
	}
	lines = append(lines, sectionLine(""))

	lines = append(lines, sectionHeader("Pending Orders"))
	lines = append(lines, sectionLine(""))
	if len(res.Overflow) == 0 {
		lines = append(lines, sectionLine("No pending orders."))
	}
	for i, o := range res.Overflow {
		ps := o.ParamString()
		if ps != "" {
			ps = fmt.Sprintf(" {%s}", ps)
		}
		lines = append(lines, sectionLine(fmt.Sprintf("%3d. %s%s", i+1, o.Kind, ps)))
	}
	lines = append(lines, sectionLine(""))

	lines = append(lines, sectionClose(), "", "=== END REPORT ===")
	return strings.Join(lines, "\n"), nil
}

func locationLine(st *store.Store, system store.StarSystem, res *resolve.ShipResult, finalLoc string) string {
	if res.DockedAt != 0 {
		if base, err := st.Base(res.DockedAt); err == nil {
			return fmt.Sprintf("Docked at %s %s (%d) - %s System (%d)",
				base.Type, base.Name, base.ID, system.Name, system.ID)
		}
	}
	if res.Orbiting != 0 {
		if body, err := st.Body(res.Orbiting); err == nil {
			return fmt.Sprintf("Orbiting %s (%d) [%.1fg] - %s System (%d)",
				body.Name, body.ID, body.Gravity, system.Name, system.ID)
		}
	}
	if res.LandedOn != 0 {
		if body, err := st.Body(res.LandedOn); err == nil {
			return fmt.Sprintf("Landed on %s (%d) - %s System (%d)",
				body.Name, body.ID, system.Name, system.ID)
		}
	}
	return fmt.Sprintf("%s - %s System (%d)", finalLoc, system.Name, system.ID)
}

// PrefectReport renders the position-wide summary: finances, the fleet, and
// every known contact.
func PrefectReport(st *store.Store, g store.Game, prefectID int64) (string, error) {
	prefect, err := st.Prefect(prefectID)
	if err != nil {
		return "", err
	}
	ships, err := st.ShipsInGame(g.ID)
	if err != nil {
		return "", err
	}
	var fleet []store.Ship
	for _, sh := range ships {
		if sh.OwnerPrefectID == prefectID {
			fleet = append(fleet, sh)
		}
	}
	contacts, err := st.ContactsForPrefect(prefectID)
	if err != nil {
		return "", err
	}

	var lines []string
	lines = append(lines, "=== BEGIN REPORT ===", "")
	lines = append(lines, center("Stellar Dominion"))
	lines = append(lines, center("PBEM Strategy Game"), "")
	lines = append(lines, center(fmt.Sprintf("PREFECT %s (%d)", prefect.Name, prefect.ID)), "")
	lines = append(lines, fmt.Sprintf("Printed on %s, Star Date %s",
		time.Now().Format("2 January 2006"), g.TurnString()), "")

	affiliation := prefect.Affiliation
	if affiliation == "" {
		affiliation = "Independent"
	}
	lines = append(lines, sectionHeader("Prefect Report"))
	lines = append(lines, sectionLine(""))
	lines = append(lines, sectionLine(twoCol(
		fmt.Sprintf("Name: %s (%d)", prefect.Name, prefect.ID),
		"Aff: "+affiliation)))
	lines = append(lines, sectionLine(twoCol(
		fmt.Sprintf("Rank: %s", prefect.Rank),
		fmt.Sprintf("Influence: %d", prefect.Influence))))
	lines = append(lines, sectionLine(""))

	lines = append(lines, sectionHeader("Financial Report"))
	lines = append(lines, sectionLine(""))
	lines = append(lines, sectionLine(fmt.Sprintf("Wealth: %d Credits", prefect.Credits)))
	lines = append(lines, sectionLine(""))

	lines = append(lines, sectionHeader("Ships"))
	lines = append(lines, sectionLine(""))
	if len(fleet) == 0 {
		lines = append(lines, sectionLine("No ships under command."))
	}
	for _, sh := range fleet {
		loc := fmt.Sprintf("%s%02d", sh.Col, sh.Row)
		sysName := fmt.Sprintf("%d", sh.SystemID)
		if sys, err := st.System(sh.SystemID); err == nil {
			sysName = sys.Name
		}
		dock := ""
		if sh.DockedAtBaseID != 0 {
			dock = " [Docked]"
			if base, err := st.Base(sh.DockedAtBaseID); err == nil {
				dock = fmt.Sprintf(" [Docked at %s]", base.Name)
			}
		}
		lines = append(lines, sectionLine(fmt.Sprintf("%s (%d)  %s (%d) %s%s",
			sh.Name, sh.ID, sysName, sh.SystemID, loc, dock)))
		lines = append(lines, sectionLine(fmt.Sprintf("   %s Class  TU: %d/%d",
			sh.Class, sh.TURemaining, sh.TUPerTurn)))
		lines = append(lines, sectionLine(""))
	}

	lines = append(lines, sectionHeader("Known Contacts"))
	lines = append(lines, sectionLine(""))
	if len(contacts) == 0 {
		lines = append(lines, sectionLine("No known contacts."))
	}
	currentType := ""
	for _, c := range contacts {
		if c.ObjectType != currentType {
			currentType = c.ObjectType
			lines = append(lines, sectionLine(strings.ToUpper(currentType)+"S:"))
		}
		loc := fmt.Sprintf("%s%02d", c.Col, c.Row)
		lines = append(lines, sectionLine(fmt.Sprintf("  %s (%d) at %s", c.Name, c.ObjectID, loc)))
	}
	lines = append(lines, sectionLine(""))

	lines = append(lines, sectionClose(), "", "=== END REPORT ===")
	return strings.Join(lines, "\n"), nil
}
