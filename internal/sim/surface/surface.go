// Package surface generates planet and moon terrain grids. A body's surface
// is a square grid (31x31 by default) built in layers from its physical
// profile: water from hydrosphere, ice from temperature, mountain chains from
// tectonic activity, craters from atmosphere thinness, biomes from moisture
// and latitude, and settlement for sentient worlds. Generation is seeded by
// body id, so a body always grows the same surface.
package surface

import (
	"fmt"
	"math/rand"
	"sort"

	"stellardominion.net/internal/sim/seed"
	"stellardominion.net/internal/store"
)

// Symbols maps terrain types to their one-character map glyphs.
var Symbols = map[string]byte{
	"Shallows":   '~',
	"Sea":        'S',
	"Ice":        '#',
	"Tundra":     ':',
	"Grassland":  '"',
	"Plains":     '.',
	"Forest":     'T',
	"Jungle":     '&',
	"Swamp":      '%',
	"Marsh":      ';',
	"Hills":      '^',
	"Mountains":  'A',
	"Rock":       '_',
	"Dust":       ',',
	"Crater":     'o',
	"Volcanic":   '!',
	"Desert":     '=',
	"Cultivated": '+',
	"Ruin":       '?',
	"Urban":      '@',
	"Gas":        '*',
}

// legendOrder keeps the terrain key stable across renders.
var legendOrder = []string{
	"Shallows", "Sea", "Ice", "Tundra",
	"Grassland", "Plains", "Forest", "Jungle",
	"Swamp", "Marsh", "Hills", "Mountains",
	"Rock", "Dust", "Crater", "Volcanic",
	"Desert", "Cultivated", "Ruin", "Urban",
	"Gas",
}

type cell struct{ x, y int }

// generator carries the working grid during the layered build.
// grid indices are 1-based; empty string means not yet assigned.
type generator struct {
	size int
	rng  *rand.Rand
	grid [][]string

	frozen, cold, temperate, hot, scorching bool
	hasAtmo, hasBreathable                  bool
	hasVegetation, hasCivilisation          bool
	hydro, tectonic                         int
	thinAtmo                                bool
}

// Generate builds the full terrain grid for a body.
func Generate(b store.Body) []store.SurfaceTile {
	size := b.SurfaceSize
	if size <= 0 {
		size = 31
	}

	if b.IsGasGiant() {
		tiles := make([]store.SurfaceTile, 0, size*size)
		for y := 1; y <= size; y++ {
			for x := 1; x <= size; x++ {
				tiles = append(tiles, store.SurfaceTile{BodyID: b.ID, X: x, Y: y, Terrain: "Gas"})
			}
		}
		return tiles
	}

	g := newGenerator(b, size)
	heights := g.heightmap()
	g.placeWater(heights)
	g.placeIce()
	g.placeElevation()
	g.placeCraters()
	g.fillBiomes()
	g.placeCivilisation()

	tiles := make([]store.SurfaceTile, 0, size*size)
	for y := 1; y <= size; y++ {
		for x := 1; x <= size; x++ {
			terrain := g.grid[y][x]
			if terrain == "" {
				terrain = "Rock"
			}
			tiles = append(tiles, store.SurfaceTile{BodyID: b.ID, X: x, Y: y, Terrain: terrain})
		}
	}
	return tiles
}

func newGenerator(b store.Body, size int) *generator {
	temp := b.Temperature
	if temp == 0 {
		temp = 300
	}
	atmo := lower(b.Atmosphere)
	life := lower(b.Life)

	g := &generator{
		size:     size,
		rng:      seed.Rand(fmt.Sprintf("surface-%d", b.ID)),
		hydro:    clamp(b.Hydrosphere, 0, 100),
		tectonic: b.Tectonic,
	}
	g.grid = make([][]string, size+1)
	for y := range g.grid {
		g.grid[y] = make([]string, size+1)
	}

	g.frozen = temp < 150
	g.cold = temp >= 150 && temp < 230
	g.temperate = temp >= 230 && temp < 310
	g.hot = temp >= 310 && temp < 380
	g.scorching = temp >= 380

	switch atmo {
	case "none", "trace", "hydrogen", "helium":
	default:
		g.hasAtmo = true
	}
	switch atmo {
	case "standard", "dense", "oxygen,nitrogen":
		g.hasBreathable = true
	}
	switch atmo {
	case "none", "trace", "thin":
		g.thinAtmo = true
	}
	switch life {
	case "plant", "animal", "sentient":
		g.hasVegetation = true
	}
	g.hasCivilisation = life == "sentient"
	return g
}

var cardinal = []cell{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

func (g *generator) in(x, y int) bool {
	return x >= 1 && x <= g.size && y >= 1 && y <= g.size
}

// heightmap rolls per-cell noise then smooths it so water pools into
// continent-scale shapes instead of salt-and-pepper.
func (g *generator) heightmap() [][]float64 {
	raw := make([][]float64, g.size+1)
	for y := 1; y <= g.size; y++ {
		raw[y] = make([]float64, g.size+1)
		for x := 1; x <= g.size; x++ {
			raw[y][x] = g.rng.Float64()
		}
	}
	raw[0] = make([]float64, g.size+1)

	for pass := 0; pass < 3; pass++ {
		next := make([][]float64, g.size+1)
		for y := 0; y <= g.size; y++ {
			next[y] = make([]float64, g.size+1)
		}
		for y := 1; y <= g.size; y++ {
			for x := 1; x <= g.size; x++ {
				total := raw[y][x] * 2
				count := 2.0
				for _, d := range cardinal {
					nx, ny := x+d.x, y+d.y
					if g.in(nx, ny) {
						total += raw[ny][nx]
						count++
					}
				}
				next[y][x] = total / count
			}
		}
		raw = next
	}
	return raw
}

func (g *generator) placeWater(heights [][]float64) {
	if g.hydro <= 0 {
		return
	}
	values := make([]float64, 0, g.size*g.size)
	for y := 1; y <= g.size; y++ {
		values = append(values, heights[y][1:]...)
	}
	sort.Float64s(values)
	idx := len(values) * g.hydro / 100
	if idx >= len(values) {
		idx = len(values) - 1
	}
	threshold := values[idx]

	for y := 1; y <= g.size; y++ {
		for x := 1; x <= g.size; x++ {
			if heights[y][x] > threshold {
				continue
			}
			edge := false
			for _, d := range cardinal {
				nx, ny := x+d.x, y+d.y
				if !g.in(nx, ny) || heights[ny][nx] > threshold {
					edge = true
					break
				}
			}
			if edge {
				g.grid[y][x] = "Shallows"
			} else {
				g.grid[y][x] = "Sea"
			}
		}
	}
}

// latitude is 0 at the equator and 1 at the poles (y=1 and y=size).
func (g *generator) latitude(y int) float64 {
	mid := float64(g.size+1) / 2
	return abs(float64(y)-mid) / mid
}

func (g *generator) placeIce() {
	switch {
	case g.frozen:
		for y := 1; y <= g.size; y++ {
			for x := 1; x <= g.size; x++ {
				if t := g.grid[y][x]; t == "Sea" || t == "Shallows" {
					g.grid[y][x] = "Ice"
				}
			}
		}
	case g.cold:
		for y := 1; y <= g.size; y++ {
			lat := g.latitude(y)
			for x := 1; x <= g.size; x++ {
				if t := g.grid[y][x]; t == "Sea" || t == "Shallows" {
					if g.rng.Float64() < 0.6+lat*0.4 {
						g.grid[y][x] = "Ice"
					}
				}
			}
		}
	case g.temperate:
		for y := 1; y <= g.size; y++ {
			lat := g.latitude(y)
			if lat <= 0.8 {
				continue
			}
			for x := 1; x <= g.size; x++ {
				if t := g.grid[y][x]; t == "Sea" || t == "Shallows" {
					if g.rng.Float64() < (lat-0.8)*5 {
						g.grid[y][x] = "Ice"
					}
				}
			}
		}
	}
}

// placeElevation runs mountain chains as random walks, with hill flanks and
// volcanic spots scaled by tectonic activity.
func (g *generator) placeElevation() {
	if g.tectonic <= 0 {
		return
	}
	chains := g.tectonic/2 + 1
	for c := 0; c < chains; c++ {
		cx := g.rng.Intn(g.size) + 1
		cy := g.rng.Intn(g.size) + 1
		length := 3 + g.rng.Intn(3+g.tectonic)
		dirs := []cell{{1, 0}, {0, 1}, {1, 1}, {1, -1}}
		d := dirs[g.rng.Intn(len(dirs))]
		for step := 0; step < length; step++ {
			if g.in(cx, cy) && g.grid[cy][cx] == "" {
				g.grid[cy][cx] = "Mountains"
				for _, f := range cardinal {
					hx, hy := cx+f.x, cy+f.y
					if g.in(hx, hy) && g.grid[hy][hx] == "" && g.rng.Float64() < 0.4 {
						g.grid[hy][hx] = "Hills"
					}
				}
			}
			cx = clamp(cx+d.x+g.rng.Intn(3)-1, 1, g.size)
			cy = clamp(cy+d.y+g.rng.Intn(3)-1, 1, g.size)
		}
	}

	for v := 0; v < g.tectonic/2; v++ {
		vx := g.rng.Intn(g.size) + 1
		vy := g.rng.Intn(g.size) + 1
		if t := g.grid[vy][vx]; t == "" || t == "Mountains" {
			g.grid[vy][vx] = "Volcanic"
			for s := 0; s < 1+g.rng.Intn(3); s++ {
				sx := vx + g.rng.Intn(5) - 2
				sy := vy + g.rng.Intn(5) - 2
				if g.in(sx, sy) && g.grid[sy][sx] == "" && g.rng.Float64() < 0.5 {
					g.grid[sy][sx] = "Volcanic"
				}
			}
		}
	}
}

func (g *generator) placeCraters() {
	var craters int
	if g.thinAtmo {
		craters = 3 + g.rng.Intn(6)
	} else {
		craters = g.rng.Intn(3)
	}
	for c := 0; c < craters; c++ {
		cx := 2 + g.rng.Intn(g.size-2)
		cy := 2 + g.rng.Intn(g.size-2)
		radius := 1 + g.rng.Intn(2)
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if dx*dx+dy*dy > radius*radius {
					continue
				}
				px, py := cx+dx, cy+dy
				if !g.in(px, py) || g.grid[py][px] != "" {
					continue
				}
				rim := dx == -radius || dx == radius || dy == -radius || dy == radius
				if rim || g.rng.Float64() < 0.3 {
					g.grid[py][px] = "Crater"
				}
			}
		}
	}
}

// moisture counts water within two squares, scaled to [0,1].
func (g *generator) moisture(x, y int) float64 {
	near := 0
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			nx, ny := x+dx, y+dy
			if !g.in(nx, ny) {
				continue
			}
			switch g.grid[ny][nx] {
			case "Sea", "Shallows", "Ice":
				near++
			}
		}
	}
	m := float64(near) / 12
	if m > 1 {
		m = 1
	}
	return m
}

func (g *generator) pick(options ...string) string {
	return options[g.rng.Intn(len(options))]
}

func (g *generator) fillBiomes() {
	for y := 1; y <= g.size; y++ {
		lat := g.latitude(y)
		for x := 1; x <= g.size; x++ {
			if g.grid[y][x] != "" {
				continue
			}
			moist := g.moisture(x, y)
			switch {
			case g.frozen:
				r := g.rng.Float64()
				switch {
				case r < 0.5:
					g.grid[y][x] = "Ice"
				case r < 0.7 && g.hasAtmo:
					g.grid[y][x] = "Tundra"
				default:
					g.grid[y][x] = "Rock"
				}
			case g.cold:
				r := g.rng.Float64()
				switch {
				case lat > 0.7:
					if r < 0.5 {
						g.grid[y][x] = "Ice"
					} else {
						g.grid[y][x] = "Tundra"
					}
				case moist > 0.3 && g.hasAtmo:
					switch {
					case g.hasVegetation && r < 0.3:
						g.grid[y][x] = "Forest"
					case r < 0.5:
						g.grid[y][x] = "Tundra"
					default:
						g.grid[y][x] = "Plains"
					}
				case g.hasAtmo:
					g.grid[y][x] = g.pick("Rock", "Dust", "Tundra")
				default:
					g.grid[y][x] = g.pick("Rock", "Dust")
				}
			case g.temperate:
				switch {
				case lat > 0.85:
					if g.hasAtmo {
						g.grid[y][x] = "Tundra"
					} else {
						g.grid[y][x] = "Ice"
					}
				case moist > 0.5 && g.hasBreathable:
					if g.hasVegetation {
						g.grid[y][x] = g.pick("Forest", "Forest", "Grassland", "Swamp", "Marsh")
					} else {
						g.grid[y][x] = g.pick("Plains", "Grassland", "Marsh")
					}
				case moist > 0.2 && g.hasAtmo:
					if g.hasVegetation {
						g.grid[y][x] = g.pick("Grassland", "Plains", "Forest", "Plains")
					} else {
						g.grid[y][x] = g.pick("Plains", "Grassland", "Rock")
					}
				case g.hasAtmo:
					g.grid[y][x] = g.pick("Plains", "Dust", "Rock", "Desert")
				default:
					g.grid[y][x] = g.pick("Rock", "Dust", "Desert")
				}
			case g.hot:
				switch {
				case moist > 0.4 && g.hasBreathable:
					if g.hasVegetation {
						g.grid[y][x] = g.pick("Jungle", "Jungle", "Swamp", "Forest", "Marsh")
					} else {
						g.grid[y][x] = g.pick("Marsh", "Swamp", "Plains")
					}
				case moist > 0.1 && g.hasAtmo:
					if g.hasVegetation {
						g.grid[y][x] = g.pick("Jungle", "Grassland", "Desert", "Plains")
					} else {
						g.grid[y][x] = g.pick("Desert", "Plains", "Rock")
					}
				default:
					g.grid[y][x] = g.pick("Desert", "Desert", "Rock", "Dust")
				}
			default: // scorching
				g.grid[y][x] = g.pick("Rock", "Dust", "Volcanic", "Desert", "Crater")
			}
		}
	}
}

var habitable = map[string]bool{
	"Grassland": true, "Plains": true, "Forest": true,
	"Cultivated": true, "Hills": true,
}

func (g *generator) placeCivilisation() {
	if !g.hasCivilisation {
		return
	}
	cities := 2 + g.rng.Intn(4)
	for c := 0; c < cities; c++ {
		for attempt := 0; attempt < 50; attempt++ {
			ux := 3 + g.rng.Intn(g.size-4)
			uy := 3 + g.rng.Intn(g.size-4)
			if !habitable[g.grid[uy][ux]] {
				continue
			}
			if !g.waterNear(ux, uy, 3) && g.rng.Float64() >= 0.3 {
				continue
			}
			g.grid[uy][ux] = "Urban"
			for dy := -2; dy <= 2; dy++ {
				for dx := -2; dx <= 2; dx++ {
					cx, cy := ux+dx, uy+dy
					if g.in(cx, cy) && habitable[g.grid[cy][cx]] && g.rng.Float64() < 0.5 {
						g.grid[cy][cx] = "Cultivated"
					}
				}
			}
			break
		}
	}

	ruins := 1 + g.rng.Intn(3)
	for r := 0; r < ruins; r++ {
		rx := g.rng.Intn(g.size) + 1
		ry := g.rng.Intn(g.size) + 1
		switch t := g.grid[ry][rx]; {
		case habitable[t], t == "Desert", t == "Dust", t == "Rock":
			g.grid[ry][rx] = "Ruin"
		}
	}
}

func (g *generator) waterNear(x, y, radius int) bool {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			nx, ny := x+dx, y+dy
			if !g.in(nx, ny) {
				continue
			}
			if t := g.grid[ny][nx]; t == "Sea" || t == "Shallows" {
				return true
			}
		}
	}
	return false
}

// GetOrGenerate loads a body's surface from the store, generating and saving
// it on first access.
func GetOrGenerate(st *store.Store, b store.Body) ([]store.SurfaceTile, error) {
	tiles, err := st.SurfaceTiles(b.ID)
	if err != nil {
		return nil, err
	}
	if len(tiles) > 0 {
		return tiles, nil
	}
	tiles = Generate(b)
	if err := st.ReplaceSurface(b.ID, tiles); err != nil {
		return nil, err
	}
	return tiles, nil
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

