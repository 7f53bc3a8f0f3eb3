// Package maps renders the 25x25 system grid as report text and filters
// scan results by sensor radius.
package maps

import (
	"fmt"
	"strings"

	"stellardominion.net/internal/grid"
	"stellardominion.net/internal/store"
)

// SymbolFor falls back by object type when an object carries no glyph.
func SymbolFor(o store.Object) byte {
	if o.Symbol != "" {
		return o.Symbol[0]
	}
	switch o.Type {
	case "star":
		return '*'
	case "planet":
		return 'O'
	case "moon":
		return 'o'
	case "gas_giant":
		return 'G'
	case "asteroid":
		return '#'
	case "base":
		return 'B'
	case "ship":
		return '@'
	default:
		return '?'
	}
}

// RenderSystem draws the full system grid. The viewing ship, if any, is
// drawn last so its @ overrides whatever shares the square.
func RenderSystem(title string, objects []store.Object, ship *store.Ship) []string {
	cells := [grid.Rows][grid.Cols]byte{}
	for r := range cells {
		for c := range cells[r] {
			cells[r][c] = '.'
		}
	}
	for _, o := range objects {
		c, ok := placeIndex(o.Col, o.Row)
		if !ok {
			continue
		}
		cells[o.Row-1][c] = SymbolFor(o)
	}
	if ship != nil {
		if c, ok := placeIndex(ship.Col, ship.Row); ok {
			cells[ship.Row-1][c] = '@'
		}
	}

	var lines []string
	if title != "" {
		lines = append(lines, title)
	}
	var header strings.Builder
	header.WriteString("    ")
	for c := 0; c < grid.Cols; c++ {
		if c > 0 {
			header.WriteString("  ")
		}
		header.WriteByte(grid.IndexCol(c)[0])
	}
	lines = append(lines, header.String())

	for r := 0; r < grid.Rows; r++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%02d  ", r+1)
		for c := 0; c < grid.Cols; c++ {
			if c > 0 {
				row.WriteString("  ")
			}
			row.WriteByte(cells[r][c])
		}
		lines = append(lines, row.String())
	}
	return lines
}

// WithinRadius filters objects to those inside the scan radius of a point,
// excluding anything on the scanning square itself.
func WithinRadius(objects []store.Object, at grid.Coord, radius int) []store.Object {
	var out []store.Object
	for _, o := range objects {
		if _, ok := placeIndex(o.Col, o.Row); !ok {
			continue
		}
		oc := grid.Coord{Col: strings.ToUpper(o.Col), Row: o.Row}
		if oc == at {
			continue
		}
		if grid.Distance(at, oc) <= radius {
			out = append(out, o)
		}
	}
	return out
}

func placeIndex(col string, row int) (int, bool) {
	if row < 1 || row > grid.Rows || col == "" {
		return 0, false
	}
	c := grid.ColIndex(col)
	if c < 0 || c >= grid.Cols {
		return 0, false
	}
	return c, true
}
