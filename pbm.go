package maze

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// This file adds a decoder for netpbm bitmaps (the "plain" P1 and "raw" P4
// variants of PBM) so that image.Decode can read 1-bit mask images.

func init() {
	image.RegisterFormat("pbm", "P1", decodePBM, decodePBMConfig)
	image.RegisterFormat("pbm", "P4", decodePBM, decodePBMConfig)
}

var errBadPBM = errors.New("malformed PBM image")

// The largest image, in pixels, the decoder will allocate.
const maxPBMPixels = 1 << 24

type pbmHeader struct {
	raw    bool
	width  int
	height int
}

// Skips whitespace and '#' comments, which may appear anywhere in the header.
func skipPBMSpace(r *bufio.Reader) error {
	for {
		c, e := r.ReadByte()
		if e != nil {
			return e
		}
		if c == '#' {
			_, e = r.ReadString('\n')
			if e != nil {
				return e
			}
			continue
		}
		if (c == ' ') || (c == '\t') || (c == '\n') || (c == '\r') ||
			(c == '\v') || (c == '\f') {
			continue
		}
		return r.UnreadByte()
	}
}

func readPBMInt(r *bufio.Reader) (int, error) {
	e := skipPBMSpace(r)
	if e != nil {
		return 0, e
	}
	value := 0
	digits := 0
	for {
		c, e := r.ReadByte()
		if e == io.EOF {
			break
		}
		if e != nil {
			return 0, e
		}
		if (c < '0') || (c > '9') {
			r.UnreadByte()
			break
		}
		value = value*10 + int(c-'0')
		digits++
		if value > (1 << 24) {
			return 0, fmt.Errorf("%w: dimension too large", errBadPBM)
		}
	}
	if digits == 0 {
		return 0, fmt.Errorf("%w: expected a number", errBadPBM)
	}
	return value, nil
}

func readPBMHeader(r *bufio.Reader) (*pbmHeader, error) {
	var magic [2]byte
	_, e := io.ReadFull(r, magic[:])
	if e != nil {
		return nil, e
	}
	toReturn := &pbmHeader{}
	switch string(magic[:]) {
	case "P1":
		toReturn.raw = false
	case "P4":
		toReturn.raw = true
	default:
		return nil, fmt.Errorf("%w: bad magic number %q", errBadPBM, magic)
	}
	toReturn.width, e = readPBMInt(r)
	if e != nil {
		return nil, e
	}
	toReturn.height, e = readPBMInt(r)
	if e != nil {
		return nil, e
	}
	if (toReturn.width < 1) || (toReturn.height < 1) {
		return nil, fmt.Errorf("%w: empty image", errBadPBM)
	}
	if toReturn.width > (maxPBMPixels / toReturn.height) {
		return nil, fmt.Errorf("%w: %dx%d image is too large", errBadPBM,
			toReturn.width, toReturn.height)
	}
	// Exactly one whitespace byte separates the header from raw data.
	if toReturn.raw {
		_, e = r.ReadByte()
		if e != nil {
			return nil, e
		}
	}
	return toReturn, nil
}

func decodePBMConfig(r io.Reader) (image.Config, error) {
	h, e := readPBMHeader(bufio.NewReader(r))
	if e != nil {
		return image.Config{}, e
	}
	return image.Config{
		ColorModel: color.GrayModel,
		Width:      h.width,
		Height:     h.height,
	}, nil
}

// Decodes a PBM image into an *image.Gray, in which set bits ("1", black) are
// 0 and clear bits are 255.
func decodePBM(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	h, e := readPBMHeader(br)
	if e != nil {
		return nil, e
	}
	toReturn := image.NewGray(image.Rect(0, 0, h.width, h.height))
	for i := range toReturn.Pix {
		toReturn.Pix[i] = 0xff
	}
	if h.raw {
		rowBytes := (h.width + 7) / 8
		row := make([]byte, rowBytes)
		for y := 0; y < h.height; y++ {
			_, e = io.ReadFull(br, row)
			if e != nil {
				return nil, fmt.Errorf("%w: row %d: %w", errBadPBM, y, e)
			}
			for x := 0; x < h.width; x++ {
				if (row[x/8] & (0x80 >> uint(x%8))) != 0 {
					toReturn.SetGray(x, y, color.Gray{Y: 0})
				}
			}
		}
		return toReturn, nil
	}
	for y := 0; y < h.height; y++ {
		for x := 0; x < h.width; x++ {
			e = skipPBMSpace(br)
			if e != nil {
				return nil, fmt.Errorf("%w: pixel (%d,%d): %w", errBadPBM, x,
					y, e)
			}
			c, e := br.ReadByte()
			if e != nil {
				return nil, e
			}
			switch c {
			case '1':
				toReturn.SetGray(x, y, color.Gray{Y: 0})
			case '0':
			default:
				return nil, fmt.Errorf("%w: unexpected byte %q", errBadPBM, c)
			}
		}
	}
	return toReturn, nil
}
