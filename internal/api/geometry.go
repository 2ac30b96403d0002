package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/heritage-map/internal/viewport"
)

// FitRequest frames an arbitrary box, independent of the region catalog.
type FitRequest struct {
	Frame   viewport.Frame       `json:"frame"`
	Target  viewport.BoundingBox `json:"target"`
	Padding *float64             `json:"padding,omitempty" minimum:"0" maximum:"10" doc:"Padding fraction, default 0.15"`
}

type FitBody struct {
	Viewport viewport.Viewport `json:"viewport"`
	ViewBox  string            `json:"viewBox" example:"590 72 120 96"`
}

// MapRequest places normalized points in a frame.
type MapRequest struct {
	Frame  viewport.Frame     `json:"frame"`
	Points []viewport.Point2D `json:"points" maxItems:"10000"`
}

type MapBody struct {
	Positions []viewport.Position `json:"positions"`
}

// RegisterGeometry registers the raw engine routes.
func (h *APIHandler) RegisterGeometry(api huma.API) {
	huma.Post(api, "/api/v1/viewport/fit", h.FitViewport, huma.OperationTags("geometry"))
	huma.Post(api, "/api/v1/points/map", h.MapPoints, huma.OperationTags("geometry"))
}

func (h *APIHandler) FitViewport(ctx context.Context, input *struct{ Body FitRequest }) (*struct{ Body FitBody }, error) {
	padding := viewport.DefaultPadding
	if input.Body.Padding != nil {
		padding = *input.Body.Padding
	}
	vp, err := viewport.FitViewport(input.Body.Frame, input.Body.Target, padding)
	if err != nil {
		return nil, geometryError(err)
	}
	return &struct{ Body FitBody }{Body: FitBody{Viewport: vp, ViewBox: vp.ViewBox()}}, nil
}

func (h *APIHandler) MapPoints(ctx context.Context, input *struct{ Body MapRequest }) (*struct{ Body MapBody }, error) {
	if err := input.Body.Frame.Validate(); err != nil {
		return nil, geometryError(err)
	}
	out := make([]viewport.Position, len(input.Body.Points))
	for i, p := range input.Body.Points {
		pos, err := viewport.MapNormalizedPoint(input.Body.Frame, p)
		if err != nil {
			return nil, geometryError(err)
		}
		out[i] = pos
	}
	return &struct{ Body MapBody }{Body: MapBody{Positions: out}}, nil
}
