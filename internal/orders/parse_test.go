package orders

import (
	"strings"
	"testing"

	"stellardominion.net/internal/grid"
)

func TestParseYAML_MixedForms(t *testing.T) {
	content := []byte(`
game: HANF231
account: "35846634"
ship: 2547876
orders:
  - WAIT: 50
  - MOVE: M13
  - LOCATIONSCAN: {}
  - DOCK: 45687590
  - BUY: {base: 45687590, item: 101, qty: 10}
  - "SELL 45687590 102 3"
  - LAND: "247985 5 10"
`)
	sub, err := ParseYAML(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(sub.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", sub.Errors)
	}
	if sub.Game != "HANF231" || sub.Account != "35846634" || sub.ShipID != 2547876 {
		t.Fatalf("header = %q %q %d", sub.Game, sub.Account, sub.ShipID)
	}
	if len(sub.Orders) != 7 {
		t.Fatalf("orders = %d, want 7", len(sub.Orders))
	}

	if p, ok := sub.Orders[0].Params.(WaitParams); !ok || p.TU != 50 {
		t.Fatalf("order 1 = %#v", sub.Orders[0].Params)
	}
	if p, ok := sub.Orders[1].Params.(MoveParams); !ok || p.Target != (grid.Coord{Col: "M", Row: 13}) {
		t.Fatalf("order 2 = %#v", sub.Orders[1].Params)
	}
	if _, ok := sub.Orders[2].Params.(NoParams); !ok {
		t.Fatalf("order 3 = %#v", sub.Orders[2].Params)
	}
	if p, ok := sub.Orders[3].Params.(BaseParams); !ok || p.BaseID != 45687590 {
		t.Fatalf("order 4 = %#v", sub.Orders[3].Params)
	}
	buy, ok := sub.Orders[4].Params.(TradeParams)
	if !ok || buy.BaseID != 45687590 || buy.ItemID != 101 || buy.Quantity != 10 {
		t.Fatalf("order 5 = %#v", sub.Orders[4].Params)
	}
	// The string and mapping trade forms normalize identically.
	sell, ok := sub.Orders[5].Params.(TradeParams)
	if !ok || sell.BaseID != 45687590 || sell.ItemID != 102 || sell.Quantity != 3 {
		t.Fatalf("order 6 = %#v", sub.Orders[5].Params)
	}
	land, ok := sub.Orders[6].Params.(LandParams)
	if !ok || land.BodyID != 247985 || land.X != 5 || land.Y != 10 {
		t.Fatalf("order 7 = %#v", sub.Orders[6].Params)
	}

	for i, o := range sub.Orders {
		if o.Sequence != i+1 {
			t.Fatalf("order %d sequence = %d", i, o.Sequence)
		}
	}
}

func TestParseYAML_InvalidOrdersReported(t *testing.T) {
	content := []byte(`
game: HANF231
account: "1"
ship: 5
orders:
  - MOVE: Z99
  - WAIT: -3
  - FROBNICATE: 1
  - MOVE: D08
`)
	sub, err := ParseYAML(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(sub.Orders) != 1 {
		t.Fatalf("orders = %d, want 1 valid", len(sub.Orders))
	}
	if len(sub.Errors) != 3 {
		t.Fatalf("errors = %v, want 3", sub.Errors)
	}
	for _, e := range sub.Errors {
		if !strings.Contains(e, "order ") {
			t.Fatalf("error without position: %q", e)
		}
	}
}

func TestParseText(t *testing.T) {
	content := []byte(`
GAME HANF231
ACCOUNT 35846634
SHIP 2547876
# heading comment
WAIT 50
MOVE M13
LOCATIONSCAN
ORBIT 247985
JUMP 232
MESSAGE 75695302 Hello there captain
`)
	sub := ParseText(content)
	if len(sub.Errors) != 0 {
		t.Fatalf("errors: %v", sub.Errors)
	}
	if sub.ShipID != 2547876 {
		t.Fatalf("ship = %d", sub.ShipID)
	}
	if len(sub.Orders) != 6 {
		t.Fatalf("orders = %d, want 6", len(sub.Orders))
	}
	msg, ok := sub.Orders[5].Params.(MessageParams)
	if !ok || msg.TargetID != 75695302 || msg.Text != "Hello there captain" {
		t.Fatalf("message = %#v", sub.Orders[5].Params)
	}
	if jump, ok := sub.Orders[4].Params.(SystemParams); !ok || jump.SystemID != 232 {
		t.Fatalf("jump = %#v", sub.Orders[4].Params)
	}
}

func TestParse_AutoDetect(t *testing.T) {
	yamlSub := Parse([]byte("game: X\naccount: \"1\"\nship: 9\norders:\n  - UNDOCK: {}\n"))
	if len(yamlSub.Orders) != 1 || yamlSub.Orders[0].Kind != KindUndock {
		t.Fatalf("yaml detect failed: %#v", yamlSub)
	}
	textSub := Parse([]byte("SHIP 9\nUNDOCK\n"))
	if len(textSub.Orders) != 1 || textSub.Orders[0].Kind != KindUndock {
		t.Fatalf("text detect failed: %#v", textSub)
	}
}

func TestParamString_RoundTrips(t *testing.T) {
	cases := []string{
		"MOVE M13",
		"WAIT 50",
		"BUY 45687590 101 10",
		"LAND 247985 5 10",
		"RENAMESHIP 52589098 The Indomitable",
		"LOCATIONSCAN",
	}
	for _, line := range cases {
		kind, p, err := parseLine(line)
		if err != nil {
			t.Fatalf("parse %q: %v", line, err)
		}
		o := Order{Sequence: 1, Kind: kind, Params: p}
		if o.String() != line {
			t.Fatalf("round trip %q -> %q", line, o.String())
		}
	}
}

func TestParseOne_LandBounds(t *testing.T) {
	if _, _, err := ParseOne("LAND", "247985 0 10"); err == nil {
		t.Fatalf("x=0 accepted")
	}
	if _, _, err := ParseOne("LAND", "247985 5 32"); err == nil {
		t.Fatalf("y=32 accepted")
	}
	_, p, err := ParseOne("LAND", 247985)
	if err != nil {
		t.Fatalf("bare body id: %v", err)
	}
	if lp := p.(LandParams); lp.X != 1 || lp.Y != 1 {
		t.Fatalf("default coords = %#v", lp)
	}
}
