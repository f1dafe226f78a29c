package maze

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask(t *testing.T) {
	m, e := NewMask(3, 2)
	require.NoError(t, e)
	assert.Equal(t, 0, m.Len())

	require.NoError(t, m.Set(Position{Row: 1, Col: 2}))
	require.NoError(t, m.Set(Position{Row: 1, Col: 2}))
	require.NoError(t, m.Set(Position{Row: 0, Col: 1}))
	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Contains(Position{Row: 1, Col: 2}))
	assert.False(t, m.Contains(Position{Row: 0, Col: 0}))
	assert.False(t, m.Contains(Position{Row: 5, Col: 5}))
	assert.Equal(t, []Position{{0, 1}, {1, 2}}, m.Positions())

	assert.ErrorIs(t, m.Set(Position{Row: 2}), ErrOutOfBounds)

	var none *Mask
	assert.False(t, none.Contains(Position{}))
	assert.Equal(t, 0, none.Len())
	assert.NoError(t, none.checkSize(10, 10))
}

func templatePicture() *image.RGBA {
	pic := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			pic.Set(x, y, color.White)
		}
	}
	pic.Set(1, 0, color.Black)
	pic.Set(0, 1, color.RGBA{G: 255, A: 255})
	pic.Set(2, 1, color.RGBA{R: 255, A: 255})
	return pic
}

func TestTemplateFromImage(t *testing.T) {
	tmpl, e := TemplateFromImage(templatePicture())
	require.NoError(t, e)
	assert.Equal(t, 3, tmpl.Mask.Width())
	assert.Equal(t, 2, tmpl.Mask.Height())
	assert.Equal(t, []Position{{0, 1}}, tmpl.Mask.Positions())
	assert.Equal(t, []Position{{1, 0}}, tmpl.StartCandidates)
	assert.Equal(t, []Position{{1, 2}}, tmpl.FinishCandidates)

	start, finish := tmpl.ChooseEndpoints(rand.New(rand.NewSource(1)),
		Position{}, Position{Row: 1, Col: 2})
	assert.Equal(t, Position{Row: 1, Col: 0}, start)
	assert.Equal(t, Position{Row: 1, Col: 2}, finish)
}

func TestLoadTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, templatePicture()))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	t.Run("matching size", func(t *testing.T) {
		tmpl, e := LoadTemplate(path, 3, 2)
		require.NoError(t, e)
		assert.Equal(t, 1, tmpl.Mask.Len())
	})

	t.Run("any size", func(t *testing.T) {
		tmpl, e := LoadTemplate(path, 0, 0)
		require.NoError(t, e)
		assert.Equal(t, 3, tmpl.Mask.Width())
	})

	t.Run("mismatched size", func(t *testing.T) {
		_, e := LoadTemplate(path, 4, 4)
		assert.ErrorIs(t, e, ErrMaskSize)
	})

	t.Run("missing file", func(t *testing.T) {
		_, e := LoadTemplate(filepath.Join(t.TempDir(), "nope.png"), 3, 2)
		assert.ErrorIs(t, e, os.ErrNotExist)
	})

	t.Run("header only", func(t *testing.T) {
		// The size is rejected from the header, before the missing pixels
		// would make decoding fail.
		large := filepath.Join(t.TempDir(), "large.pbm")
		require.NoError(t, os.WriteFile(large, []byte("P4 4096 4096\n"), 0644))
		_, e := LoadTemplate(large, 50, 50)
		assert.ErrorIs(t, e, ErrMaskSize)
		_, e = LoadTemplate(large, 0, 0)
		assert.ErrorIs(t, e, errBadPBM)

		huge := filepath.Join(t.TempDir(), "huge.pbm")
		require.NoError(t, os.WriteFile(huge,
			[]byte("P4 16777216 16777216\n"), 0644))
		_, e = LoadTemplate(huge, 50, 50)
		assert.ErrorIs(t, e, errBadPBM)
	})
}

func TestDecodePBM(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		data := "P1\n# a comment\n3 2\n1 0 0\n010\n"
		pic, format, e := image.Decode(strings.NewReader(data))
		require.NoError(t, e)
		assert.Equal(t, "pbm", format)
		m, e := MaskFromImage(pic)
		require.NoError(t, e)
		assert.Equal(t, []Position{{0, 0}, {1, 1}}, m.Positions())
	})

	t.Run("raw", func(t *testing.T) {
		data := append([]byte("P4\n3 2\n"), 0x80, 0x40)
		pic, format, e := image.Decode(bytes.NewReader(data))
		require.NoError(t, e)
		assert.Equal(t, "pbm", format)
		m, e := MaskFromImage(pic)
		require.NoError(t, e)
		assert.Equal(t, []Position{{0, 0}, {1, 1}}, m.Positions())
	})

	t.Run("config", func(t *testing.T) {
		cfg, format, e := image.DecodeConfig(strings.NewReader("P1 7 5 "))
		require.NoError(t, e)
		assert.Equal(t, "pbm", format)
		assert.Equal(t, 7, cfg.Width)
		assert.Equal(t, 5, cfg.Height)
	})

	t.Run("truncated", func(t *testing.T) {
		_, _, e := image.Decode(strings.NewReader("P1\n3 2\n1 0"))
		assert.Error(t, e)
	})

	t.Run("bad pixel", func(t *testing.T) {
		_, _, e := image.Decode(strings.NewReader("P1\n1 1\n7\n"))
		assert.ErrorIs(t, e, errBadPBM)
	})

	t.Run("too many pixels", func(t *testing.T) {
		_, _, e := image.Decode(strings.NewReader("P4 16777216 16777216\n"))
		assert.ErrorIs(t, e, errBadPBM)
		_, _, e = image.DecodeConfig(strings.NewReader("P1 8192 4097\n"))
		assert.ErrorIs(t, e, errBadPBM)
		cfg, _, e := image.DecodeConfig(strings.NewReader("P1 4096 4096\n"))
		require.NoError(t, e)
		assert.Equal(t, 4096, cfg.Width)
	})
}
