package maze

import (
	"image"
	"image/color"
)

// The number of pixels across, in a square cell. Must be at least 5.
const cellPixels = 9

var (
	routeColor  = color.RGBA{R: 230, G: 20, B: 20, A: 255}
	maskedColor = color.RGBA{R: 190, G: 190, B: 190, A: 255}
	startColor  = color.RGBA{R: 40, G: 180, B: 70, A: 255}
	finishColor = color.RGBA{R: 100, G: 120, B: 255, A: 255}
)

// Satisfies the image.Image interface, drawing a Scene with each cell as a
// cellPixels x cellPixels square.
type Picture struct {
	scene   *Scene
	onRoute map[Position]struct{}
}

func NewPicture(s *Scene) *Picture {
	return &Picture{
		scene:   s,
		onRoute: s.Route.Set(),
	}
}

func (p *Picture) ColorModel() color.Model {
	return color.RGBAModel
}

func (p *Picture) Bounds() image.Rectangle {
	g := p.scene.Grid
	return image.Rect(0, 0, g.Width()*cellPixels, g.Height()*cellPixels)
}

// The walls around a single cell, in the order left, top, right, bottom. Each
// entry is true if the wall is there.
func (p *Picture) walls(pos Position) [4]bool {
	g := p.scene.Grid
	return [4]bool{
		!g.Open(pos, West),
		!g.Open(pos, North),
		!g.Open(pos, East),
		!g.Open(pos, South),
	}
}

// Takes an integer, 0 through 3, corresponding to the top-left, top-right,
// bottom-right, and bottom-left corners. Returns false only if both walls
// adjacent to the corner are clear.
func cornerSet(walls *[4]bool, n int) bool {
	if n == 3 {
		return walls[3] || walls[0]
	}
	return walls[n] || walls[n+1]
}

// Returns the color at pixel (x, y) within the cell at pos.
func (p *Picture) cellAt(pos Position, x, y int) color.Color {
	walls := p.walls(pos)
	last := cellPixels - 1
	wall := func(present bool) color.Color {
		if present {
			return color.Black
		}
		return color.White
	}
	switch {
	case (x == 0) && (y == 0):
		return wall(cornerSet(&walls, 0))
	case (x == last) && (y == 0):
		return wall(cornerSet(&walls, 1))
	case (x == last) && (y == last):
		return wall(cornerSet(&walls, 2))
	case (x == 0) && (y == last):
		return wall(cornerSet(&walls, 3))
	case x == 0:
		return wall(walls[0])
	case y == 0:
		return wall(walls[1])
	case x == last:
		return wall(walls[2])
	case y == last:
		return wall(walls[3])
	}
	// At this point, we're not along any wall. Highlighted cells are filled
	// if more than two pixels away from an edge.
	inner := (x > 1) && (x < (cellPixels - 2)) && (y > 1) &&
		(y < (cellPixels - 2))
	switch p.scene.cellTile(pos, p.onRoute) {
	case TileStart:
		if inner {
			return startColor
		}
	case TileFinish:
		if inner {
			return finishColor
		}
	case TileRoute:
		if inner {
			return routeColor
		}
	case TileMasked:
		return maskedColor
	}
	return color.White
}

func (p *Picture) At(x, y int) color.Color {
	g := p.scene.Grid
	if (x < 0) || (y < 0) || (x >= g.Width()*cellPixels) ||
		(y >= g.Height()*cellPixels) {
		return color.Transparent
	}
	// We delegate drawing of each pixel to the cell it falls into.
	pos := Position{Row: y / cellPixels, Col: x / cellPixels}
	return p.cellAt(pos, x%cellPixels, y%cellPixels)
}

// A point on the outer edge of a Picture and the direction, in degrees
// counterclockwise from pointing right, of an arrow drawn there.
type EdgeMarker struct {
	Point image.Point
	Angle float32
}

// Returns the marker on the picture edge nearest to pos. If inward is true
// the angle points into the maze, otherwise out of it.
func (p *Picture) edgeMarker(pos Position, inward bool) EdgeMarker {
	g := p.scene.Grid
	half := cellPixels / 2
	centerX := pos.Col*cellPixels + half
	centerY := pos.Row*cellPixels + half
	// Distances, in cells, to the left, top, right and bottom edges.
	distances := [4]int{pos.Col, pos.Row, g.Width() - 1 - pos.Col,
		g.Height() - 1 - pos.Row}
	nearest := 0
	for i, d := range distances {
		if d < distances[nearest] {
			nearest = i
		}
	}
	var toReturn EdgeMarker
	var outward float32
	switch nearest {
	case 0:
		toReturn.Point = image.Pt(0, centerY)
		outward = 180
	case 1:
		toReturn.Point = image.Pt(centerX, 0)
		outward = 90
	case 2:
		toReturn.Point = image.Pt(g.Width()*cellPixels-1, centerY)
		outward = 0
	default:
		toReturn.Point = image.Pt(centerX, g.Height()*cellPixels-1)
		outward = 270
	}
	toReturn.Angle = outward
	if inward {
		toReturn.Angle = float32(int(outward+180) % 360)
	}
	return toReturn
}

// Where to draw an arrow leading into the start cell.
func (p *Picture) StartMarker() EdgeMarker {
	return p.edgeMarker(p.scene.Start, true)
}

// Where to draw an arrow leading out of the finish cell.
func (p *Picture) FinishMarker() EdgeMarker {
	return p.edgeMarker(p.scene.Finish, false)
}

// A picture drawn inside a solid frame. The output starts at (0, 0) and the
// picture occupies inner.
type framedImage struct {
	pic    image.Image
	inner  image.Rectangle
	bounds image.Rectangle
	fill   color.Color
}

func (f *framedImage) ColorModel() color.Model {
	return f.pic.ColorModel()
}

func (f *framedImage) Bounds() image.Rectangle {
	return f.bounds
}

func (f *framedImage) At(x, y int) color.Color {
	pt := image.Pt(x, y)
	if !pt.In(f.inner) {
		return f.fill
	}
	src := pt.Sub(f.inner.Min).Add(f.pic.Bounds().Min)
	return f.pic.At(src.X, src.Y)
}

// Returns pic surrounded by a frame width pixels wide, filled with the given
// color. The result's bounds start at (0, 0) regardless of pic's.
func AddImageBorder(pic image.Image, width int, fill color.Color) image.Image {
	size := pic.Bounds().Size()
	inner := image.Rectangle{Max: size}.Add(image.Pt(width, width))
	return &framedImage{
		pic:    pic,
		inner:  inner,
		bounds: image.Rectangle{Max: inner.Max.Add(image.Pt(width, width))},
		fill:   fill,
	}
}
