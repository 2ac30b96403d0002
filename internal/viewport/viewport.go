// Package viewport frames regions of a map's native coordinate space.
//
// Every function here is pure: inputs are values, results are values, and
// nothing is cached between calls. The package has no notion of the
// currently selected region; callers own that state.
package viewport

import (
	"errors"
	"fmt"
	"math"
)

// Tunables for the fitting policy.
const (
	// DefaultPadding is the margin added around a region, as a fraction
	// of the region's own size on each side.
	DefaultPadding = 0.15

	// MaxPadding bounds the padding accepted from configuration and
	// request parameters.
	MaxPadding = 10.0

	// MinExtentFraction is the share of the frame's width/height used in
	// place of a zero-size axis so the viewport never collapses.
	MinExtentFraction = 0.01

	// DefaultNormalized is used for an absent normalized coordinate,
	// placing the point at the centre of the frame on that axis.
	DefaultNormalized = 0.5
)

var (
	// ErrInvalidFrame reports a frame with non-positive or non-finite size.
	ErrInvalidFrame = errors.New("invalid frame")

	// ErrNotFound reports a region id that is not in the lookup set.
	ErrNotFound = errors.New("region not found")

	// ErrInvalidTarget reports a target box, padding or point whose
	// result cannot be represented as a finite viewport or position.
	ErrInvalidTarget = errors.New("invalid target")
)

// Frame is the native coordinate extent of a whole map.
type Frame struct {
	MinX   float64 `json:"minX" yaml:"minX" doc:"Left edge"`
	MinY   float64 `json:"minY" yaml:"minY" doc:"Top edge"`
	Width  float64 `json:"width" yaml:"width" doc:"Width, must be > 0"`
	Height float64 `json:"height" yaml:"height" doc:"Height, must be > 0"`
}

// Validate returns ErrInvalidFrame unless width and height are finite and positive.
func (f Frame) Validate() error {
	if !finite(f.MinX) || !finite(f.MinY) || !finite(f.Width) || !finite(f.Height) {
		return fmt.Errorf("%w: non-finite value in %v", ErrInvalidFrame, f)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: size %gx%g", ErrInvalidFrame, f.Width, f.Height)
	}
	return nil
}

// Aspect returns width/height.
func (f Frame) Aspect() float64 {
	return f.Width / f.Height
}

// Viewport returns the unzoomed view covering the whole frame.
func (f Frame) Viewport() Viewport {
	return Viewport{MinX: f.MinX, MinY: f.MinY, Width: f.Width, Height: f.Height}
}

// BoundingBox is the extent of a selectable region inside a Frame.
type BoundingBox struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Normalize re-anchors a box with negative width or height so both are
// non-negative and the covered area is unchanged.
func (b BoundingBox) Normalize() BoundingBox {
	if b.Width < 0 {
		b.X += b.Width
		b.Width = -b.Width
	}
	if b.Height < 0 {
		b.Y += b.Height
		b.Height = -b.Height
	}
	return b
}

// Pad grows the box by factor of its own size on every side.
func (b BoundingBox) Pad(factor float64) BoundingBox {
	padX := b.Width * factor
	padY := b.Height * factor
	return BoundingBox{
		X:      b.X - padX,
		Y:      b.Y - padY,
		Width:  b.Width + 2*padX,
		Height: b.Height + 2*padY,
	}
}

// Center returns the mid point of the box.
func (b BoundingBox) Center() (float64, float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Point2D is a position relative to a Frame. Nil components are absent.
type Point2D struct {
	NX *float64 `json:"nx,omitempty" doc:"Normalized x, 0..1 across the frame"`
	NY *float64 `json:"ny,omitempty" doc:"Normalized y, 0..1 down the frame"`
}

// Normalized builds a Point2D with both components present.
func Normalized(nx, ny float64) Point2D {
	return Point2D{NX: &nx, NY: &ny}
}

// Resolved returns the components with DefaultNormalized for absent ones.
func (p Point2D) Resolved() (float64, float64) {
	nx, ny := DefaultNormalized, DefaultNormalized
	if p.NX != nil {
		nx = *p.NX
	}
	if p.NY != nil {
		ny = *p.NY
	}
	return nx, ny
}

// Position is an absolute coordinate in a Frame's space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is the visible rectangle, always with the frame's aspect ratio.
type Viewport struct {
	MinX   float64 `json:"minX" yaml:"minX"`
	MinY   float64 `json:"minY" yaml:"minY"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Box returns the viewport as a BoundingBox, e.g. for refitting.
func (v Viewport) Box() BoundingBox {
	return BoundingBox{X: v.MinX, Y: v.MinY, Width: v.Width, Height: v.Height}
}

// Contains reports whether b lies entirely inside v, with a small
// tolerance for floating point error on the edges.
func (v Viewport) Contains(b BoundingBox) bool {
	eps := 1e-9 * math.Max(1, math.Max(v.Width, v.Height))
	return v.MinX <= b.X+eps &&
		v.MinY <= b.Y+eps &&
		v.MinX+v.Width >= b.X+b.Width-eps &&
		v.MinY+v.Height >= b.Y+b.Height-eps
}

// FitViewport frames target inside frame's coordinate system. The result
// keeps frame's aspect ratio exactly and contains target grown by padding
// on each side. Zero-size axes are widened to MinExtentFraction of the
// frame so the viewport always has area.
func FitViewport(frame Frame, target BoundingBox, padding float64) (Viewport, error) {
	if err := frame.Validate(); err != nil {
		return Viewport{}, err
	}
	if !target.finite() {
		return Viewport{}, fmt.Errorf("%w: non-finite value in %+v", ErrInvalidTarget, target)
	}
	if padding < 0 || !finite(padding) {
		padding = 0
	}

	box := target.Normalize().Pad(padding)
	if !box.finite() {
		return Viewport{}, fmt.Errorf("%w: padding %g overflows %+v", ErrInvalidTarget, padding, target)
	}

	cx, cy := box.Center()
	if box.Width == 0 {
		box.Width = frame.Width * MinExtentFraction
		box.X = cx - box.Width/2
	}
	if box.Height == 0 {
		box.Height = frame.Height * MinExtentFraction
		box.Y = cy - box.Height/2
	}

	var vp Viewport
	aspect := frame.Aspect()
	if box.Width/box.Height > aspect {
		h := box.Width / aspect
		vp = Viewport{
			MinX:   box.X,
			MinY:   box.Y - (h-box.Height)/2,
			Width:  box.Width,
			Height: h,
		}
	} else {
		w := box.Height * aspect
		vp = Viewport{
			MinX:   box.X - (w-box.Width)/2,
			MinY:   box.Y,
			Width:  w,
			Height: box.Height,
		}
	}
	if !vp.Box().finite() {
		return Viewport{}, fmt.Errorf("%w: %+v does not fit a finite viewport", ErrInvalidTarget, target)
	}
	return vp, nil
}

// MapNormalizedPoint converts p to absolute coordinates against the
// original frame. Values outside 0..1 extrapolate past the frame edges;
// absent components fall back to DefaultNormalized.
func MapNormalizedPoint(frame Frame, p Point2D) (Position, error) {
	if err := frame.Validate(); err != nil {
		return Position{}, err
	}
	nx, ny := p.Resolved()
	pos := Position{
		X: frame.MinX + nx*frame.Width,
		Y: frame.MinY + ny*frame.Height,
	}
	if !finite(pos.X) || !finite(pos.Y) {
		return Position{}, fmt.Errorf("%w: point (%g, %g) maps outside finite space", ErrInvalidTarget, nx, ny)
	}
	return pos, nil
}

// Region is a named subdivision of the map.
type Region struct {
	ID   string      `json:"id" yaml:"id" doc:"Region identifier" example:"karnataka"`
	Name string      `json:"name,omitempty" yaml:"name,omitempty" doc:"Display name" example:"Karnataka"`
	Box  BoundingBox `json:"box" yaml:"box" doc:"Bounding box in frame coordinates"`
}

// FindRegion returns the bounding box of the region with the given id.
// Unknown ids return an error wrapping ErrNotFound.
func FindRegion(regions []Region, id string) (BoundingBox, error) {
	for _, r := range regions {
		if r.ID == id {
			return r.Box, nil
		}
	}
	return BoundingBox{}, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// FitRegion looks up id and frames it. When the region is unknown the
// full frame is returned with zoomed=false instead of an error; only a
// malformed frame fails.
func FitRegion(frame Frame, regions []Region, id string, padding float64) (vp Viewport, zoomed bool, err error) {
	if err := frame.Validate(); err != nil {
		return Viewport{}, false, err
	}
	box, err := FindRegion(regions, id)
	if err != nil {
		return frame.Viewport(), false, nil
	}
	vp, err = FitViewport(frame, box, padding)
	if err != nil {
		return Viewport{}, false, err
	}
	return vp, true, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (b BoundingBox) finite() bool {
	return finite(b.X) && finite(b.Y) && finite(b.Width) && finite(b.Height)
}
