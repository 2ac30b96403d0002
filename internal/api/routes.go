// Package api defines the Huma REST routes of the heritage map.
package api

import (
	"context"
	"database/sql"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/heritage-map/internal/humastar"
	"github.com/joeblew999/heritage-map/internal/nav"
	"github.com/joeblew999/heritage-map/internal/regions"
	"github.com/joeblew999/heritage-map/internal/service"
	"github.com/joeblew999/heritage-map/internal/style"
	"github.com/joeblew999/heritage-map/internal/viewport"
)

// Services holds the service dependencies for API handlers.
type Services struct {
	Scenes  *service.SceneService
	Temples *service.TempleService
	// DB is the temple search index; nil when DuckDB is unavailable.
	DB *sql.DB
}

// Types

type RegionInput struct {
	ID string `path:"id" doc:"Region id" example:"karnataka"`
}

type ListRegionsInput struct {
	Offset int `query:"offset" default:"0" minimum:"0" doc:"Items to skip"`
	Limit  int `query:"limit" default:"50" minimum:"1" maximum:"500" doc:"Page size"`
}

type ViewportInput struct {
	RegionInput
	Padding float64 `query:"padding" default:"0.15" minimum:"0" maximum:"10" doc:"Fraction of the region size added on each side"`
}

type SceneInput struct {
	Region string `query:"region" doc:"Selected region id, empty for the whole map" example:"karnataka"`
	Temple int    `query:"temple" default:"-1" minimum:"-1" doc:"Open temple index, -1 for none"`
}

// RegionSummary is one entry of the region list.
type RegionSummary struct {
	ID      string               `json:"id" doc:"Region id" example:"karnataka"`
	Name    string               `json:"name,omitempty" doc:"Display name"`
	Label   string               `json:"label" doc:"Tooltip label" example:"KARNATAKA"`
	Box     viewport.BoundingBox `json:"box"`
	Anchor  viewport.Position    `json:"anchor" doc:"Label position: polygon centroid, else box centre"`
	Temples int                  `json:"temples" doc:"Number of temples in the region"`
}

// ViewportBody is the framing of one region.
type ViewportBody struct {
	Region   string            `json:"region"`
	Zoomed   bool              `json:"zoomed" doc:"False when the region is unknown and the whole map is shown"`
	Viewport viewport.Viewport `json:"viewport"`
	ViewBox  string            `json:"viewBox" example:"590 72 120 96"`
}

// SceneBody is a Scene plus the navigation actions available from it.
type SceneBody struct {
	service.Scene
}

var regionActions = []humastar.ActionDef{
	{Rel: "temples", Pattern: "/api/v1/regions/%s/temples", Method: "GET"},
	{Rel: "styles", Pattern: "/api/v1/regions/%s/styles", Method: "GET"},
}

// Actions offers back from a zoomed scene and close from an open popup.
func (b SceneBody) Actions() []humastar.Action {
	if !b.State.Zoomed() {
		return nil
	}
	actions := []humastar.Action{{Rel: "back", Href: "/api/v1/viewer/back", Method: "POST", Title: "Back to India"}}
	if b.Temple != nil {
		actions = append(actions, humastar.Action{Rel: "close", Href: "/api/v1/viewer/temple", Method: "POST", Title: "Close temple details"})
	}
	return append(actions, humastar.ActionsFor(b.State.Region, regionActions)...)
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

// APIHandler holds the REST handlers. Methods named Register* are
// discovered by huma.AutoRegister.
type APIHandler struct {
	svc *Services
}

func NewAPIHandler(svc *Services) *APIHandler {
	return &APIHandler{svc: svc}
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

// RegisterRegions registers region routes.
func (h *APIHandler) RegisterRegions(api huma.API) {
	huma.Get(api, "/api/v1/regions", h.ListRegions, huma.OperationTags("regions"))
	huma.Get(api, "/api/v1/regions/{id}/viewport", h.GetViewport, huma.OperationTags("regions"))
	huma.Get(api, "/api/v1/regions/{id}/temples", h.GetRegionTemples, huma.OperationTags("regions"))
	huma.Get(api, "/api/v1/regions/{id}/styles", h.GetRegionStyles, huma.OperationTags("regions"))
}

// RegisterScene registers the scene route.
func (h *APIHandler) RegisterScene(api huma.API) {
	huma.Get(api, "/api/v1/scene", h.GetScene, huma.OperationTags("scene"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "1.0.0"}}, nil
}

func (h *APIHandler) ListRegions(ctx context.Context, input *ListRegionsInput) (*struct {
	Body humastar.PageBody[RegionSummary]
}, error) {
	catalog := h.svc.Scenes.Catalog()
	ordered := regions.RevealOrder(catalog.Regions)

	items := make([]RegionSummary, 0, len(ordered))
	for _, id := range ordered {
		r, _ := catalog.Region(id)
		anchor, _ := catalog.Anchor(id)
		items = append(items, RegionSummary{
			ID:      r.ID,
			Name:    r.Name,
			Label:   regions.Label(r.ID),
			Box:     r.Box,
			Anchor:  anchor,
			Temples: len(h.svc.Temples.ForRegion(r.ID)),
		})
	}
	return &struct {
		Body humastar.PageBody[RegionSummary]
	}{Body: humastar.Page(items, input.Offset, input.Limit)}, nil
}

func (h *APIHandler) GetViewport(ctx context.Context, input *ViewportInput) (*struct{ Body ViewportBody }, error) {
	vp, zoomed, err := h.svc.Scenes.Viewport(input.ID, input.Padding)
	if err != nil {
		return nil, geometryError(err)
	}
	return &struct{ Body ViewportBody }{Body: ViewportBody{
		Region:   input.ID,
		Zoomed:   zoomed,
		Viewport: vp,
		ViewBox:  vp.ViewBox(),
	}}, nil
}

func (h *APIHandler) GetRegionTemples(ctx context.Context, input *RegionInput) (*struct{ Body []service.Marker }, error) {
	_, known := h.svc.Scenes.Catalog().Region(input.ID)
	if !known && len(h.svc.Temples.ForRegion(input.ID)) == 0 {
		return nil, huma.Error404NotFound("region not found: " + input.ID)
	}
	markers, err := h.svc.Scenes.Markers(input.ID)
	if err != nil {
		return nil, geometryError(err)
	}
	return &struct{ Body []service.Marker }{Body: markers}, nil
}

func (h *APIHandler) GetRegionStyles(ctx context.Context, input *RegionInput) (*struct {
	Body map[string]style.RegionStyle
}, error) {
	if _, ok := h.svc.Scenes.Catalog().Region(input.ID); !ok {
		return nil, huma.Error404NotFound("region not found: " + input.ID)
	}
	return &struct {
		Body map[string]style.RegionStyle
	}{Body: h.svc.Scenes.Styles(input.ID)}, nil
}

func (h *APIHandler) GetScene(ctx context.Context, input *SceneInput) (*struct{ Body SceneBody }, error) {
	state := nav.OpenTemple(nav.Select(nav.Initial(), input.Region), input.Temple)
	scene, err := h.svc.Scenes.Build(state)
	if err != nil {
		return nil, geometryError(err)
	}
	return &struct{ Body SceneBody }{Body: SceneBody{scene}}, nil
}

// geometryError maps engine errors to HTTP errors.
func geometryError(err error) error {
	switch {
	case errors.Is(err, viewport.ErrInvalidFrame), errors.Is(err, viewport.ErrInvalidTarget):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, viewport.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	}
	return huma.Error500InternalServerError("geometry failed", err)
}
