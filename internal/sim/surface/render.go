package surface

import (
	"fmt"
	"strings"

	"stellardominion.net/internal/store"
)

// ShipPos marks the landed ship's tile on a rendered map.
type ShipPos struct {
	X, Y int
}

// Render draws the surface map as report text: numbered axes, one glyph per
// tile, planetary data block and a terrain key. Row 1 is at the bottom.
func Render(b store.Body, tiles []store.SurfaceTile, ship *ShipPos) []string {
	size := b.SurfaceSize
	if size <= 0 {
		size = 31
	}
	grid := make(map[[2]int]string, len(tiles))
	for _, t := range tiles {
		grid[[2]int{t.X, t.Y}] = t.Terrain
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("Surface Map: %s (%d)", b.Name, b.ID), "")

	var header strings.Builder
	header.WriteString("     ")
	for x := 1; x <= size; x++ {
		fmt.Fprintf(&header, "%2d ", x)
	}
	top := strings.TrimRight(header.String(), " ")
	lines = append(lines, top)

	for y := size; y >= 1; y-- {
		var row strings.Builder
		fmt.Fprintf(&row, "%3d  ", y)
		for x := 1; x <= size; x++ {
			if ship != nil && ship.X == x && ship.Y == y {
				row.WriteString(" X ")
				continue
			}
			terrain, ok := grid[[2]int{x, y}]
			sym := byte('?')
			if ok {
				if s, known := Symbols[terrain]; known {
					sym = s
				}
			}
			row.WriteByte(' ')
			row.WriteByte(sym)
			row.WriteByte(' ')
		}
		fmt.Fprintf(&row, " %2d", y)
		lines = append(lines, row.String())
	}
	lines = append(lines, top)

	lines = append(lines, "", "Planetary Data:")
	lines = append(lines, fmt.Sprintf("  Gravity: %.2fg          Temperature: %dK      Atmosphere: %s",
		b.Gravity, b.Temperature, b.Atmosphere))
	lines = append(lines, fmt.Sprintf("  Tectonic Activity: %d    Hydrosphere: %d%%        Life: %s",
		b.Tectonic, b.Hydrosphere, b.Life))
	if ship != nil {
		terrain := grid[[2]int{ship.X, ship.Y}]
		if terrain == "" {
			terrain = "Unknown"
		}
		lines = append(lines, fmt.Sprintf("  Ship Position: (%d,%d) - %s", ship.X, ship.Y, terrain))
	}

	lines = append(lines, "", "Terrain Key:")
	for i := 0; i < len(legendOrder); i += 4 {
		end := i + 4
		if end > len(legendOrder) {
			end = len(legendOrder)
		}
		var row strings.Builder
		row.WriteString(" ")
		for _, name := range legendOrder[i:end] {
			fmt.Fprintf(&row, " %c %-12s", Symbols[name], name)
		}
		lines = append(lines, strings.TrimRight(row.String(), " "))
	}
	if ship != nil {
		lines = append(lines, "  X Ship")
	}
	return lines
}
