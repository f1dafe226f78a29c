package maze

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/png"
	"io"
	"math/rand"
	"os"
)

// Returned when a mask's dimensions do not match the grid being generated.
var ErrMaskSize = errors.New("mask size does not match the maze")

// A set of protected cells. The walls owned by a protected cell (its east and
// south walls) are never opened during generation, though a protected cell may
// still be reached through a wall owned by its north or west neighbor.
type Mask struct {
	width  int
	height int
	cells  []bool
	count  int
}

// Returns an empty width x height mask.
func NewMask(width, height int) (*Mask, error) {
	e := checkDimensions(width, height)
	if e != nil {
		return nil, e
	}
	return &Mask{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
	}, nil
}

func (m *Mask) Width() int {
	return m.width
}

func (m *Mask) Height() int {
	return m.height
}

// Marks the cell at p as protected. Returns an error if p is outside of the
// mask.
func (m *Mask) Set(p Position) error {
	if (p.Row < 0) || (p.Col < 0) || (p.Row >= m.height) ||
		(p.Col >= m.width) {
		return fmt.Errorf("%w: %s in a %dx%d mask", ErrOutOfBounds, p,
			m.width, m.height)
	}
	i := p.Row*m.width + p.Col
	if !m.cells[i] {
		m.cells[i] = true
		m.count++
	}
	return nil
}

// Returns true if p is protected. A nil mask protects nothing.
func (m *Mask) Contains(p Position) bool {
	if m == nil {
		return false
	}
	if (p.Row < 0) || (p.Col < 0) || (p.Row >= m.height) ||
		(p.Col >= m.width) {
		return false
	}
	return m.cells[p.Row*m.width+p.Col]
}

// Returns the number of protected cells.
func (m *Mask) Len() int {
	if m == nil {
		return 0
	}
	return m.count
}

// Returns every protected cell in row-major order.
func (m *Mask) Positions() []Position {
	if m == nil {
		return nil
	}
	toReturn := make([]Position, 0, m.count)
	for i, protected := range m.cells {
		if protected {
			toReturn = append(toReturn, Position{
				Row: i / m.width,
				Col: i % m.width,
			})
		}
	}
	return toReturn
}

// Returns an error wrapping ErrMaskSize unless the mask is nil or exactly
// width x height.
func (m *Mask) checkSize(width, height int) error {
	if m == nil {
		return nil
	}
	if (m.width != width) || (m.height != height) {
		return fmt.Errorf("%w: expected a %dx%d mask, got %dx%d", ErrMaskSize,
			width, height, m.width, m.height)
	}
	return nil
}

// Differentiates between the kinds of pixels in a template image.
type templateCellType uint8

const (
	templateValid templateCellType = iota
	templateProtected
	templateStartCandidate
	templateFinishCandidate
)

func (t templateCellType) String() string {
	switch t {
	case templateValid:
		return "valid"
	case templateProtected:
		return "protected"
	case templateStartCandidate:
		return "startCandidate"
	case templateFinishCandidate:
		return "finishCandidate"
	}
	return fmt.Sprintf("Invalid template cell type: %d", uint8(t))
}

// Converts an arbitrary color to what the type of cell represents. See the
// comment on TemplateFromImage for how the mapping works.
func colorToTemplateCellType(c color.Color) templateCellType {
	r, g, b, a := c.RGBA()
	r = r >> 8
	g = g >> 8
	b = b >> 8
	// Fully transparent pixels are normal cells, whatever their color.
	if a == 0 {
		return templateValid
	}
	// Black pixels are protected cells. Monochrome bitmaps decode to pure
	// black and white, so this is also how PBM masks are read.
	if (r == 0) && (g == 0) && (b == 0) {
		return templateProtected
	}
	// Green pixels are possible starting cells
	if (r == 0) && (g > 200) && (b == 0) {
		return templateStartCandidate
	}
	// Red pixels are possible finishing cells
	if (r > 200) && (g == 0) && (b == 0) {
		return templateFinishCandidate
	}
	// All other colors are treated as standard cells
	return templateValid
}

// A mask along with any start and finish cells marked in the image it was
// read from.
type Template struct {
	Mask *Mask
	// Cells marked as possible starting points. May be empty.
	StartCandidates []Position
	// Cells marked as possible finishing points. May be empty.
	FinishCandidates []Position
}

// Uses a "template" image to build a mask. Each pixel in the template
// corresponds to one cell in the maze. The template image uses the following
// format:
//   - Black pixels are protected cells.
//   - Green pixels are possible starting points (RGB = 0, >200, 0)
//   - Red pixels are possible ending points (RGB = >200, 0, 0)
//   - Any other color is a normal cell.
func TemplateFromImage(pic image.Image) (*Template, error) {
	bounds := pic.Bounds().Canon()
	mask, e := NewMask(bounds.Dx(), bounds.Dy())
	if e != nil {
		return nil, fmt.Errorf("Invalid template image: %w", e)
	}
	toReturn := &Template{
		Mask: mask,
	}
	for row := bounds.Min.Y; row < bounds.Max.Y; row++ {
		for col := bounds.Min.X; col < bounds.Max.X; col++ {
			p := Position{Row: row - bounds.Min.Y, Col: col - bounds.Min.X}
			switch colorToTemplateCellType(pic.At(col, row)) {
			case templateValid:
				// No need to do anything with standard cells
			case templateProtected:
				mask.Set(p)
			case templateStartCandidate:
				toReturn.StartCandidates = append(toReturn.StartCandidates, p)
			case templateFinishCandidate:
				toReturn.FinishCandidates = append(toReturn.FinishCandidates,
					p)
			}
		}
	}
	return toReturn, nil
}

// Returns only the protected cells of a template image.
func MaskFromImage(pic image.Image) (*Mask, error) {
	t, e := TemplateFromImage(pic)
	if e != nil {
		return nil, e
	}
	return t.Mask, nil
}

// Reads a template from an image file in any format registered with the image
// package (PNG, GIF and PBM are registered by this package). If width and
// height are positive, the image must have exactly those dimensions; a
// mismatch is reported as ErrMaskSize rather than truncating or padding. The
// dimensions are checked from the image header, before any pixels are read.
func LoadTemplate(path string, width, height int) (*Template, error) {
	f, e := os.Open(path)
	if e != nil {
		return nil, fmt.Errorf("Error opening template image %s: %w", path, e)
	}
	defer f.Close()
	header, _, e := image.DecodeConfig(f)
	if e != nil {
		return nil, fmt.Errorf("Error parsing template image %s: %w", path, e)
	}
	if (width > 0) && (height > 0) &&
		((header.Width != width) || (header.Height != height)) {
		return nil, fmt.Errorf("Cannot use template image %s: %w: image is "+
			"%dx%d, maze is %dx%d", path, ErrMaskSize, header.Width,
			header.Height, width, height)
	}
	_, e = f.Seek(0, io.SeekStart)
	if e != nil {
		return nil, fmt.Errorf("Error rereading template image %s: %w", path, e)
	}
	pic, _, e := image.Decode(f)
	if e != nil {
		return nil, fmt.Errorf("Error parsing template image %s: %w", path, e)
	}
	return TemplateFromImage(pic)
}

// Picks the start and finish cells for a maze built from this template. A
// candidate is chosen at random from each list using rng; if a list is empty
// the given default is returned instead.
func (t *Template) ChooseEndpoints(rng *rand.Rand, defaultStart,
	defaultFinish Position) (Position, Position) {
	start := defaultStart
	finish := defaultFinish
	if len(t.StartCandidates) != 0 {
		start = t.StartCandidates[rng.Intn(len(t.StartCandidates))]
	}
	if len(t.FinishCandidates) != 0 {
		finish = t.FinishCandidates[rng.Intn(len(t.FinishCandidates))]
	}
	return start, finish
}
