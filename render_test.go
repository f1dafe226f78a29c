package maze

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoCellScene(t *testing.T) *Scene {
	t.Helper()
	g := gridWithOpenWalls(t, 2, 1, []Position{{0, 0}}, nil)
	return &Scene{
		Grid:   g,
		Route:  Route{{0, 0}, {0, 1}},
		Start:  Position{},
		Finish: Position{Col: 1},
	}
}

func TestTextRenderer(t *testing.T) {
	t.Run("two cells", func(t *testing.T) {
		out := NewTextRenderer().Render(twoCellScene(t))
		assert.Equal(t, "█████\n█S E█\n█████\n", out)
	})

	t.Run("route, mask and floor", func(t *testing.T) {
		// A 3x2 maze with a route along the top row and down the right side.
		g := gridWithOpenWalls(t, 3, 2,
			[]Position{{0, 0}, {0, 1}},
			[]Position{{0, 2}})
		mask, e := NewMask(3, 2)
		require.NoError(t, e)
		require.NoError(t, mask.Set(Position{Row: 1, Col: 0}))
		s := &Scene{
			Grid:   g,
			Mask:   mask,
			Route:  Route{{0, 0}, {0, 1}, {0, 2}, {1, 2}},
			Start:  Position{},
			Finish: Position{Row: 1, Col: 2},
		}
		expected := "" +
			"███████\n" +
			"█S . .█\n" +
			"█████ █\n" +
			"███ █E█\n" +
			"███████\n"
		assert.Equal(t, expected, NewTextRenderer().Render(s))
	})

	t.Run("styler and writer", func(t *testing.T) {
		r := NewTextRenderer()
		r.Glyphs.Wall = "#"
		r.Styler = bracketStyler{}
		var buf bytes.Buffer
		require.NoError(t, r.Write(&buf, twoCellScene(t)))
		assert.Equal(t, "#####\n#[S] [E]#\n#####\n", buf.String())
	})
}

// Brackets the start and finish glyphs.
type bracketStyler struct{}

func (bracketStyler) Style(t Tile, glyph string) string {
	if (t == TileStart) || (t == TileFinish) {
		return "[" + glyph + "]"
	}
	return glyph
}

func TestPicture(t *testing.T) {
	pic := NewPicture(twoCellScene(t))
	assert.Equal(t, image.Rect(0, 0, 2*cellPixels, cellPixels), pic.Bounds())
	assert.Equal(t, color.Transparent, pic.At(-1, 0))
	assert.Equal(t, color.Transparent, pic.At(2*cellPixels, 0))

	// Outer walls and corners.
	assert.Equal(t, color.Black, pic.At(0, 0))
	assert.Equal(t, color.Black, pic.At(4, 0))
	assert.Equal(t, color.Black, pic.At(0, 4))
	// The open wall between the two cells.
	assert.Equal(t, color.White, pic.At(cellPixels-1, 4))
	assert.Equal(t, color.White, pic.At(cellPixels, 4))
	// The centers of the start and finish cells.
	assert.Equal(t, startColor, pic.At(4, 4))
	assert.Equal(t, finishColor, pic.At(cellPixels+4, 4))
	// Just inside a wall, but not in the highlighted center.
	assert.Equal(t, color.White, pic.At(1, 4))
}

func TestPictureMarkers(t *testing.T) {
	pic := NewPicture(twoCellScene(t))
	start := pic.StartMarker()
	assert.Equal(t, image.Pt(0, 4), start.Point)
	assert.Equal(t, float32(0), start.Angle)

	finish := pic.FinishMarker()
	assert.Equal(t, image.Pt(cellPixels+4, 0), finish.Point)
	assert.Equal(t, float32(90), finish.Angle)
}

func TestAddImageBorder(t *testing.T) {
	pic := NewPicture(twoCellScene(t))
	bordered := AddImageBorder(pic, 3, color.White)
	assert.Equal(t, image.Rect(0, 0, 2*cellPixels+6, cellPixels+6),
		bordered.Bounds())
	assert.Equal(t, color.White, bordered.At(0, 0))
	assert.Equal(t, color.Black, bordered.At(3, 3))
	assert.Equal(t, startColor, bordered.At(7, 7))
	assert.Equal(t, color.White, bordered.At(2*cellPixels+3, cellPixels+5))

	t.Run("offset picture and fill color", func(t *testing.T) {
		fill := color.RGBA{10, 20, 30, 255}
		src := image.NewRGBA(image.Rect(5, 5, 7, 6))
		src.Set(5, 5, color.Black)
		src.Set(6, 5, finishColor)
		framed := AddImageBorder(src, 1, fill)
		assert.Equal(t, image.Rect(0, 0, 4, 3), framed.Bounds())
		assert.Equal(t, fill, framed.At(0, 1))
		assert.Equal(t, fill, framed.At(3, 1))
		assert.Equal(t, fill, framed.At(1, 2))
		assert.Equal(t, color.RGBA{0, 0, 0, 255}, framed.At(1, 1))
		assert.Equal(t, finishColor, framed.At(2, 1))
	})
}
