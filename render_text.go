package maze

import (
	"io"
	"strings"
)

// Identifies what a character in a text rendering depicts, so that a Styler
// can color it.
type Tile uint8

const (
	TileWall Tile = iota
	TileFloor
	TileStart
	TileFinish
	TileRoute
	TileMasked
)

// The strings used for each kind of tile. Every glyph should occupy a single
// terminal column.
type Glyphs struct {
	Wall   string
	Floor  string
	Start  string
	Finish string
	Route  string
	Masked string
}

// Solid blocks for walls and masked cells, S and E for the endpoints and dots
// for the route.
var DefaultGlyphs = Glyphs{
	Wall:   "█",
	Floor:  " ",
	Start:  "S",
	Finish: "E",
	Route:  ".",
	Masked: "█",
}

func (g *Glyphs) glyph(t Tile) string {
	switch t {
	case TileWall:
		return g.Wall
	case TileStart:
		return g.Start
	case TileFinish:
		return g.Finish
	case TileRoute:
		return g.Route
	case TileMasked:
		return g.Masked
	}
	return g.Floor
}

// Decorates the glyph for a single tile, for example with terminal colors.
type Styler interface {
	Style(t Tile, glyph string) string
}

// Draws a maze as text. Each cell is one character followed by its east wall,
// and each row of cells is followed by a row of south walls, giving a
// (2*width+1) x (2*height+1) picture.
type TextRenderer struct {
	Glyphs Glyphs
	// Optional.
	Styler Styler
}

// Returns a TextRenderer using DefaultGlyphs and no styling.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{
		Glyphs: DefaultGlyphs,
	}
}

// The maze to draw. Mask and Route may be nil.
type Scene struct {
	Grid   *Grid
	Mask   *Mask
	Route  Route
	Start  Position
	Finish Position
}

// Returns the kind of tile drawn for the cell at p. The start and finish take
// precedence over the route, which takes precedence over the mask.
func (s *Scene) cellTile(p Position, onRoute map[Position]struct{}) Tile {
	if p == s.Start {
		return TileStart
	}
	if p == s.Finish {
		return TileFinish
	}
	if _, ok := onRoute[p]; ok {
		return TileRoute
	}
	if s.Mask.Contains(p) {
		return TileMasked
	}
	return TileFloor
}

func (r *TextRenderer) put(sb *strings.Builder, t Tile) {
	glyph := r.Glyphs.glyph(t)
	if r.Styler != nil {
		glyph = r.Styler.Style(t, glyph)
	}
	sb.WriteString(glyph)
}

// Returns the text rendering of the scene, with a trailing newline.
func (r *TextRenderer) Render(s *Scene) string {
	g := s.Grid
	onRoute := s.Route.Set()
	var sb strings.Builder
	for i := 0; i < 2*g.width+1; i++ {
		r.put(&sb, TileWall)
	}
	sb.WriteByte('\n')

	for row := 0; row < g.height; row++ {
		r.put(&sb, TileWall)
		for col := 0; col < g.width; col++ {
			p := Position{Row: row, Col: col}
			r.put(&sb, s.cellTile(p, onRoute))
			// Print the wall, if present
			if g.Open(p, East) {
				r.put(&sb, TileFloor)
			} else {
				r.put(&sb, TileWall)
			}
		}
		sb.WriteByte('\n')
		r.put(&sb, TileWall)
		for col := 0; col < g.width; col++ {
			if g.Open(Position{Row: row, Col: col}, South) {
				r.put(&sb, TileFloor)
			} else {
				r.put(&sb, TileWall)
			}
			r.put(&sb, TileWall)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Writes the text rendering of the scene to w.
func (r *TextRenderer) Write(w io.Writer, s *Scene) error {
	_, e := io.WriteString(w, r.Render(s))
	return e
}
