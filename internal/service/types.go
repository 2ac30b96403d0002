// Package service contains the heritage map's catalog and scene logic.
package service

import (
	"github.com/joeblew999/heritage-map/internal/nav"
	"github.com/joeblew999/heritage-map/internal/style"
	"github.com/joeblew999/heritage-map/internal/viewport"
)

// Temple is one point of interest, as stored in temples.json.
// Coordinates are normalized against the whole map frame; absent ones
// put the pin at the frame centre on that axis.
type Temple struct {
	Name        string   `json:"name" required:"true" minLength:"1" doc:"Temple name" example:"Virupaksha Temple"`
	Location    string   `json:"location" doc:"Town or district" example:"Hampi"`
	Deity       string   `json:"deity,omitempty" doc:"Presiding deity" example:"Shiva"`
	Info        string   `json:"info,omitempty" doc:"Free-text description"`
	ImageURL    string   `json:"image_url,omitempty" doc:"Image reference"`
	NormalizedX *float64 `json:"normalized_x,omitempty" doc:"0..1 across the map frame"`
	NormalizedY *float64 `json:"normalized_y,omitempty" doc:"0..1 down the map frame"`
}

// Point returns the temple's normalized position.
func (t Temple) Point() viewport.Point2D {
	return viewport.Point2D{NX: t.NormalizedX, NY: t.NormalizedY}
}

// Marker is a temple pin placed in frame coordinates.
type Marker struct {
	Index    int               `json:"index" doc:"Position in the region's temple list"`
	Temple   Temple            `json:"temple"`
	Position viewport.Position `json:"position" doc:"Absolute position in frame coordinates"`
}

// Scene is everything a client needs to draw one navigation state.
type Scene struct {
	State    nav.State                    `json:"state"`
	Label    string                       `json:"label,omitempty" doc:"Tooltip-style label of the selected region"`
	Zoomed   bool                         `json:"zoomed" doc:"False when showing the whole map"`
	Frame    viewport.Frame               `json:"frame"`
	Viewport viewport.Viewport            `json:"viewport"`
	ViewBox  string                       `json:"viewBox" doc:"SVG viewBox attribute for the viewport" example:"590 72 120 96"`
	Styles   map[string]style.RegionStyle `json:"styles"`
	Markers  []Marker                     `json:"markers"`
	Temple   *Temple                      `json:"temple,omitempty" doc:"Open temple popup, if any"`
}
