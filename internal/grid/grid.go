// Package grid models the 25x25 system grid: columns A..Y, rows 1..25.
package grid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// Cols and Rows bound the system grid.
	Cols = 25
	Rows = 25
)

var coordPattern = regexp.MustCompile(`^([A-Ya-y])(\d{2})$`)

// Coord is one grid cell. Col is an upper-case letter A..Y, Row is 1..25.
type Coord struct {
	Col string
	Row int
}

func (c Coord) String() string {
	return fmt.Sprintf("%s%02d", c.Col, c.Row)
}

// ColIndex converts a column letter to a 0-based index.
func ColIndex(col string) int {
	if col == "" {
		return -1
	}
	return int(strings.ToUpper(col)[0] - 'A')
}

// IndexCol converts a 0-based index to a column letter.
func IndexCol(i int) string {
	return string(rune('A' + i))
}

// Parse validates a coordinate like "M13" or "d08".
func Parse(s string) (Coord, bool) {
	m := coordPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Coord{}, false
	}
	row, err := strconv.Atoi(m[2])
	if err != nil || row < 1 || row > Rows {
		return Coord{}, false
	}
	return Coord{Col: strings.ToUpper(m[1]), Row: row}, true
}

// Distance is the Chebyshev distance between two cells: diagonal movement
// costs the same as orthogonal.
func Distance(a, b Coord) int {
	dc := absInt(ColIndex(a.Col) - ColIndex(b.Col))
	dr := absInt(a.Row - b.Row)
	if dc > dr {
		return dc
	}
	return dr
}

// Step returns the next cell one square from `from` toward `to`, moving
// diagonally while both axes differ, then straight. from == to returns from.
func Step(from, to Coord) Coord {
	ci := ColIndex(from.Col)
	ti := ColIndex(to.Col)
	next := from
	if ti > ci {
		next.Col = IndexCol(ci + 1)
	} else if ti < ci {
		next.Col = IndexCol(ci - 1)
	}
	if to.Row > from.Row {
		next.Row = from.Row + 1
	} else if to.Row < from.Row {
		next.Row = from.Row - 1
	}
	return next
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
