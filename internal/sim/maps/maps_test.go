package maps

import (
	"strings"
	"testing"

	"stellardominion.net/internal/grid"
	"stellardominion.net/internal/store"
)

func hanfObjects() []store.Object {
	return []store.Object{
		{Type: "star", ID: 231, Name: "Hanf", Col: "M", Row: 13, Symbol: "*"},
		{Type: "planet", ID: 247985, Name: "Orion", Col: "H", Row: 4, Symbol: "O"},
		{Type: "gas_giant", ID: 155230, Name: "Leviathan", Col: "E", Row: 18, Symbol: "G"},
		{Type: "base", ID: 45687590, Name: "Citadel Station", Col: "H", Row: 4, Symbol: "B"},
	}
}

func TestRenderSystem_Layout(t *testing.T) {
	ship := store.Ship{Col: "K", Row: 9}
	lines := RenderSystem("System Map: Hanf (231)", hanfObjects(), &ship)

	if lines[0] != "System Map: Hanf (231)" {
		t.Fatalf("title %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "    A  B  C") || !strings.HasSuffix(lines[1], "Y") {
		t.Fatalf("header %q", lines[1])
	}
	if len(lines) != 2+25 {
		t.Fatalf("got %d lines, want 27", len(lines))
	}

	// Row 13 carries the star at column M.
	row13 := lines[1+13]
	if !strings.HasPrefix(row13, "13  ") {
		t.Fatalf("row 13 is %q", row13)
	}
	mCol := 4 + grid.ColIndex("M")*3
	if row13[mCol] != '*' {
		t.Fatalf("no star at M13: %q", row13)
	}

	// The viewer's ship overrides the base sharing H04.
	row4 := lines[1+4]
	hCol := 4 + grid.ColIndex("H")*3
	if row4[hCol] != 'B' {
		t.Fatalf("base not drawn at H04: %q", row4)
	}
	row9 := lines[1+9]
	kCol := 4 + grid.ColIndex("K")*3
	if row9[kCol] != '@' {
		t.Fatalf("ship not drawn at K09: %q", row9)
	}
}

func TestWithinRadius(t *testing.T) {
	at := grid.Coord{Col: "H", Row: 4}
	got := WithinRadius(hanfObjects(), at, 8)

	// Star at M13 is 9 away, Leviathan at E18 is 14 away; both out of range.
	// Objects on the scanning square itself are excluded.
	if len(got) != 0 {
		t.Fatalf("detected %d objects, want 0: %+v", len(got), got)
	}

	got = WithinRadius(hanfObjects(), grid.Coord{Col: "K", Row: 9}, 8)
	names := map[string]bool{}
	for _, o := range got {
		names[o.Name] = true
	}
	if !names["Hanf"] || !names["Orion"] || !names["Citadel Station"] {
		t.Fatalf("scan from K09 missed objects: %+v", got)
	}
	if names["Leviathan"] {
		t.Fatalf("Leviathan at E18 is outside radius 8 of K09")
	}
}

func TestSymbolFor_Fallbacks(t *testing.T) {
	cases := map[string]byte{
		"star": '*', "planet": 'O', "moon": 'o', "gas_giant": 'G',
		"asteroid": '#', "base": 'B', "ship": '@', "wreck": '?',
	}
	for typ, want := range cases {
		if got := SymbolFor(store.Object{Type: typ}); got != want {
			t.Fatalf("SymbolFor(%s) = %c, want %c", typ, got, want)
		}
	}
	if got := SymbolFor(store.Object{Type: "planet", Symbol: "P"}); got != 'P' {
		t.Fatalf("explicit symbol ignored")
	}
}
