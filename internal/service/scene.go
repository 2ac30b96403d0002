package service

import (
	"fmt"

	"github.com/joeblew999/heritage-map/internal/nav"
	"github.com/joeblew999/heritage-map/internal/regions"
	"github.com/joeblew999/heritage-map/internal/style"
	"github.com/joeblew999/heritage-map/internal/viewport"
)

// SceneOptions tunes scene composition.
type SceneOptions struct {
	Padding float64
	Theme   style.Theme
}

// SceneService turns navigation states into drawable scenes.
type SceneService struct {
	catalog *regions.Catalog
	temples *TempleService
	opts    SceneOptions
}

// NewSceneService creates a scene service over a region catalog and temple catalog.
func NewSceneService(catalog *regions.Catalog, temples *TempleService, opts SceneOptions) *SceneService {
	if opts.Theme == (style.Theme{}) {
		opts.Theme = style.DefaultTheme()
	}
	return &SceneService{catalog: catalog, temples: temples, opts: opts}
}

// Catalog returns the region catalog.
func (s *SceneService) Catalog() *regions.Catalog {
	return s.catalog
}

// Padding returns the default region padding.
func (s *SceneService) Padding() float64 {
	return s.opts.Padding
}

// Viewport frames a region, falling back to the whole map for unknown ids.
func (s *SceneService) Viewport(regionID string, padding float64) (viewport.Viewport, bool, error) {
	return viewport.FitRegion(s.catalog.Frame, s.catalog.Regions, regionID, padding)
}

// Markers places a region's temples against the original frame.
func (s *SceneService) Markers(regionID string) ([]Marker, error) {
	temples := s.temples.ForRegion(regionID)
	markers := make([]Marker, 0, len(temples))
	for i, t := range temples {
		pos, err := viewport.MapNormalizedPoint(s.catalog.Frame, t.Point())
		if err != nil {
			return nil, fmt.Errorf("placing %q: %w", t.Name, err)
		}
		markers = append(markers, Marker{Index: i, Temple: t, Position: pos})
	}
	return markers, nil
}

// Styles computes styles of every region for a selection.
func (s *SceneService) Styles(selected string) map[string]style.RegionStyle {
	return style.Compute(s.catalog.IDs(), selected, s.opts.Theme)
}

// Build composes the scene for state. A region without a bounding box
// still shows its temples over the unzoomed map. A temple index past the
// end of the list closes the popup.
func (s *SceneService) Build(state nav.State) (Scene, error) {
	scene := Scene{
		State:   state,
		Frame:   s.catalog.Frame,
		Markers: []Marker{},
	}

	if !state.Zoomed() {
		scene.State = nav.Initial()
		scene.Viewport = s.catalog.Frame.Viewport()
		scene.ViewBox = scene.Viewport.ViewBox()
		scene.Styles = s.Styles("")
		return scene, nil
	}

	vp, zoomed, err := s.Viewport(state.Region, s.opts.Padding)
	if err != nil {
		return Scene{}, err
	}
	scene.Zoomed = zoomed
	scene.Viewport = vp
	scene.ViewBox = vp.ViewBox()
	scene.Label = regions.Label(state.Region)
	scene.Styles = s.Styles(state.Region)

	markers, err := s.Markers(state.Region)
	if err != nil {
		return Scene{}, err
	}
	scene.Markers = markers

	if state.ModalOpen() {
		if state.Temple < len(markers) {
			t := markers[state.Temple].Temple
			scene.Temple = &t
		} else {
			scene.State = nav.CloseTemple(state)
		}
	}
	return scene, nil
}
