package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/spf13/cobra"
	"github.com/yalue/image_utils"

	maze "github.com/yalue/textmaze"
)

const arrowLength = 16

var (
	startArrowColor  = color.RGBA{40, 180, 70, 255}
	finishArrowColor = color.RGBA{100, 120, 255, 255}
)

// Returns 0 = left, 1 = up, 2 = right, and 3 = down. The given angle must be
// between 0 and 360, if it isn't this will simply return 2.
func angleToArrowDir(angle float32) int {
	if (angle > 45) && (angle <= 135) {
		return 1
	} else if (angle > 135) && (angle <= 225) {
		return 0
	} else if (angle > 225) && (angle < 315) {
		return 3
	}
	return 2
}

func getArrowForAngle(angle float32, arrowColor color.Color) image.Image {
	switch angleToArrowDir(angle) {
	case 0:
		return image_utils.LeftArrow(arrowColor)
	case 1:
		return image_utils.UpArrow(arrowColor)
	case 3:
		return image_utils.DownArrow(arrowColor)
	}
	return image_utils.RightArrow(arrowColor)
}

// Returns an arrow pointing in the direction of the given angle, or as close
// to it as one of the four axis-aligned arrows gets.
func getOutlinedArrow(angle float32, arrowColor color.Color) (image.Image,
	error) {
	outerArrow := image_utils.ResizeImage(getArrowForAngle(angle, arrowColor),
		arrowLength, arrowLength)
	innerArrow := image_utils.ResizeImage(getArrowForAngle(angle, color.White),
		arrowLength/2, arrowLength/2)
	toReturn := image_utils.NewCompositeImage()
	e := toReturn.AddImage(outerArrow, image.Pt(0, 0))
	if e != nil {
		return nil, e
	}
	e = toReturn.AddImage(innerArrow, image.Pt(arrowLength/4, arrowLength/4))
	if e != nil {
		return nil, e
	}
	return image_utils.ToRGBA(toReturn), nil
}

// If the tip of the arrow is supposed to be at the given pt (or the tail of
// the arrow, if "away" is true), this returns the top-left where the square
// image returned by getOutlinedArrow should be drawn.
func getArrowTopLeft(pt image.Point, angle float32, away bool) image.Point {
	halfLength := arrowLength / 2
	switch angleToArrowDir(angle) {
	case 0:
		// Pointing left
		if away {
			return image.Pt(pt.X-arrowLength-1, pt.Y-halfLength)
		}
		return image.Pt(pt.X+1, pt.Y-halfLength)
	case 1:
		// Pointing up
		if away {
			return image.Pt(pt.X-halfLength, pt.Y-arrowLength-1)
		}
		return image.Pt(pt.X-halfLength, pt.Y+1)
	case 3:
		// Pointing down
		if away {
			return image.Pt(pt.X-halfLength, pt.Y+1)
		}
		return image.Pt(pt.X-halfLength, pt.Y-arrowLength-1)
	}
	// Pointing right
	if away {
		return image.Pt(pt.X+1, pt.Y-halfLength)
	}
	return image.Pt(pt.X-arrowLength-1, pt.Y-halfLength)
}

// Draws the maze with an arrow leading into the start cell and another
// leading out of the finish cell, surrounded by a border of the given width.
// Rasterizes the result to an image.RGBA.
func drawMazeDecorations(m *maze.GridMaze, border int) (*image.RGBA, error) {
	pic := maze.NewPicture(m.Scene())
	decorated := image_utils.NewCompositeImage()
	e := decorated.AddImage(image_utils.ToRGBA(pic), image.Pt(0, 0))
	if e != nil {
		return nil, fmt.Errorf("Error setting base maze image: %w", e)
	}

	start := pic.StartMarker()
	startArrow, e := getOutlinedArrow(start.Angle, startArrowColor)
	if e != nil {
		return nil, fmt.Errorf("Error drawing start arrow: %w", e)
	}
	e = decorated.AddImage(startArrow,
		getArrowTopLeft(start.Point, start.Angle, false))
	if e != nil {
		return nil, fmt.Errorf("Error adding start arrow: %w", e)
	}

	finish := pic.FinishMarker()
	finishArrow, e := getOutlinedArrow(finish.Angle, finishArrowColor)
	if e != nil {
		return nil, fmt.Errorf("Error drawing finish arrow: %w", e)
	}
	e = decorated.AddImage(finishArrow,
		getArrowTopLeft(finish.Point, finish.Angle, true))
	if e != nil {
		return nil, fmt.Errorf("Error adding finish arrow: %w", e)
	}

	var toReturn image.Image = decorated
	if border > 0 {
		toReturn = maze.AddImageBorder(toReturn, border, color.White)
	}
	return image_utils.ToRGBA(toReturn), nil
}

func writePNG(path string, pic image.Image) error {
	f, e := os.Create(path)
	if e != nil {
		return fmt.Errorf("Error creating output file %s: %w", path, e)
	}
	defer f.Close()
	e = png.Encode(f, pic)
	if e != nil {
		return fmt.Errorf("Error writing image to %s: %w", path, e)
	}
	return f.Close()
}

func (a *app) newImageCmd() *cobra.Command {
	f := &mazeFlags{}
	var outFilename string
	var border int
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Generate a maze and save it as a PNG image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outFilename == "" {
				return errors.New("an output file is required (--output)")
			}
			if border < 0 {
				return fmt.Errorf("Invalid border width: %d", border)
			}
			req, e := a.request(cmd, f)
			if e != nil {
				return e
			}
			b, e := a.build(req)
			if e != nil {
				return fmt.Errorf("Failed generating maze: %w", e)
			}
			finalPic, e := drawMazeDecorations(b.maze, border)
			if e != nil {
				return fmt.Errorf("Error adding maze decorations: %w", e)
			}
			e = writePNG(outFilename, finalPic)
			if e != nil {
				return e
			}
			run, e := a.record(cmd.Context(), b)
			if e != nil {
				return e
			}
			a.printer.Success("Generated %s", b.maze.GetInfo().DebugInfo)
			a.printer.Success("Image %s written OK", outFilename)
			if run != nil {
				a.printer.Field("Run", run.ID)
			}
			a.printer.Info("Reproduce: %s", reproduceCommand(
				cmd.Root().Name(), "image -o "+outFilename, b.request,
				b.request.breadcrumbs))
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&outFilename, "output", "o", "",
		"The name of the .png file to which the maze will be saved")
	cmd.Flags().IntVar(&border, "border", 5,
		"The width of the white border around the image, in pixels")
	return cmd
}
