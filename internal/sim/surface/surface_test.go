package surface

import (
	"strings"
	"testing"

	"stellardominion.net/internal/store"
)

func tartarus() store.Body {
	return store.Body{
		ID: 301442, SystemID: 231, Name: "Tartarus", Type: "planet",
		Col: "R", Row: 8, Gravity: 1.1, Temperature: 288,
		Atmosphere: "Standard", Tectonic: 4, Hydrosphere: 60,
		Life: "Animal", Symbol: "O", SurfaceSize: 31,
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(tartarus())
	b := Generate(tartarus())
	if len(a) != 31*31 {
		t.Fatalf("got %d tiles, want %d", len(a), 31*31)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tile %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerate_GasGiantAllGas(t *testing.T) {
	b := tartarus()
	b.ID = 155230
	b.Name = "Leviathan"
	b.Type = "gas_giant"
	for _, tile := range Generate(b) {
		if tile.Terrain != "Gas" {
			t.Fatalf("gas giant tile (%d,%d) is %q", tile.X, tile.Y, tile.Terrain)
		}
	}
}

func TestGenerate_HydrosphereMakesWater(t *testing.T) {
	wet := tartarus()
	wet.Hydrosphere = 70
	water := 0
	for _, tile := range Generate(wet) {
		switch tile.Terrain {
		case "Sea", "Shallows", "Ice":
			water++
		}
	}
	// 70% hydrosphere should wet well over a third of the grid.
	if water < 31*31/3 {
		t.Fatalf("only %d water tiles on a 70%% hydrosphere world", water)
	}

	dry := tartarus()
	dry.ID = 88341
	dry.Hydrosphere = 0
	dry.Temperature = 400
	for _, tile := range Generate(dry) {
		if tile.Terrain == "Sea" || tile.Terrain == "Shallows" {
			t.Fatalf("dry world grew %s at (%d,%d)", tile.Terrain, tile.X, tile.Y)
		}
	}
}

func TestGenerate_FrozenWorldHasNoOpenSea(t *testing.T) {
	b := tartarus()
	b.ID = 88341
	b.Temperature = 100
	for _, tile := range Generate(b) {
		if tile.Terrain == "Sea" || tile.Terrain == "Shallows" {
			t.Fatalf("frozen world kept open water at (%d,%d)", tile.X, tile.Y)
		}
	}
}

func TestGenerate_SentientWorldHasCities(t *testing.T) {
	b := tartarus()
	b.Life = "Sentient"
	urban := 0
	for _, tile := range Generate(b) {
		if tile.Terrain == "Urban" {
			urban++
		}
	}
	if urban == 0 {
		t.Fatalf("sentient world has no urban tiles")
	}
}

func TestGetOrGenerate_PersistsOnce(t *testing.T) {
	s, err := store.Open(":memory:", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	b := tartarus()
	first, err := GetOrGenerate(s, b)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := GetOrGenerate(s, b)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("tile counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("stored surface changed at tile %d", i)
		}
	}
}

func TestRender_Layout(t *testing.T) {
	b := tartarus()
	tiles := Generate(b)
	lines := Render(b, tiles, &ShipPos{X: 5, Y: 5})

	if !strings.HasPrefix(lines[0], "Surface Map: Tartarus") {
		t.Fatalf("title line %q", lines[0])
	}
	marked := false
	for _, l := range lines {
		if strings.Contains(l, " X ") {
			marked = true
		}
	}
	if !marked {
		t.Fatalf("ship marker missing from rendered map")
	}
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "Terrain Key:") || !strings.Contains(joined, "Planetary Data:") {
		t.Fatalf("report blocks missing:\n%s", joined)
	}
	if !strings.Contains(joined, "Ship Position: (5,5)") {
		t.Fatalf("ship position line missing")
	}
}
