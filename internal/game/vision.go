package game

import (
	"errors"
	"image"
)

var ErrTemplateNotFound = errors.New("template not found on screen")

// Surface is the window a template is searched in.
type Surface int

const (
	SurfaceClient Surface = iota
	SurfaceGame
)

func (s Surface) String() string {
	if s == SurfaceGame {
		return "game"
	}
	return "client"
}

// ImageRef is a named reference image plus its default confidence threshold.
type ImageRef struct {
	Name       string
	Path       string
	Confidence float64
	Surface    Surface
}

// ImageSet groups references that render the same concept across client themes.
// It is always queried as a whole.
type ImageSet []ImageRef

func (s ImageSet) Names() []string {
	names := make([]string, 0, len(s))
	for _, ref := range s {
		names = append(names, ref.Name)
	}
	return names
}

// Region is a search rectangle relative to the surface's top-left corner.
type Region struct {
	MinX, MinY, MaxX, MaxY int
}

func (r Region) Rect() image.Rectangle {
	return image.Rect(r.MinX, r.MinY, r.MaxX, r.MaxY)
}

// MatchResult is the position and size of a located template, relative to the
// surface it was searched in.
type MatchResult struct {
	X, Y          int
	Width, Height int
}

func (m MatchResult) Center() (int, int) {
	return m.X + m.Width/2, m.Y + m.Height/2
}

// Perception answers "is this reference image visible?". A confidence of zero
// or less means each reference's own threshold.
type Perception interface {
	Locate(ref ImageRef, confidence float64, region *Region) (MatchResult, bool)
	LocateAny(refs ImageSet, confidence float64) (ImageRef, MatchResult, bool)
}

// Screenshotter captures the whole surface, used for best-effort evidence on disk.
type Screenshotter interface {
	Screenshot(surface Surface) (image.Image, error)
}

// DigitReader extracts an integer from a fixed screen region.
type DigitReader interface {
	ReadNumber(surface Surface, region Region) (int, error)
}
