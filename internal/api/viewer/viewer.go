// Package viewer contains the Datastar SSE handlers behind the map page.
//
// Navigation state lives in the page's signals (region, temple). Every
// action posts the current signals, the handler applies one nav reducer
// and streams back the resulting scene.
package viewer

import (
	"bytes"
	"context"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/joeblew999/heritage-map/internal/humastar"
	"github.com/joeblew999/heritage-map/internal/nav"
	"github.com/joeblew999/heritage-map/internal/regions"
	"github.com/joeblew999/heritage-map/internal/service"
	"github.com/joeblew999/heritage-map/internal/templates"
)

// Handler serves the viewer SSE endpoints.
type Handler struct {
	humastar.Handler
	scenes  *service.SceneService
	temples *service.TempleService
	bus     *service.EventBus
	log     *zap.Logger
}

// New creates a viewer handler.
func New(scenes *service.SceneService, temples *service.TempleService, bus *service.EventBus, renderer *templates.Renderer, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Handler: humastar.Handler{Renderer: renderer},
		scenes:  scenes,
		temples: temples,
		bus:     bus,
		log:     log,
	}
}

func (h *Handler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/viewer/regions", h.Regions, huma.OperationTags("viewer"))
	huma.Post(api, "/api/v1/viewer/select", h.Select, huma.OperationTags("viewer"))
	huma.Post(api, "/api/v1/viewer/temple", h.Temple, huma.OperationTags("viewer"))
	huma.Post(api, "/api/v1/viewer/back", h.Back, huma.OperationTags("viewer"))
	huma.Get(api, "/api/v1/viewer/events", h.Events, huma.OperationTags("viewer"))
}

type SelectInput struct {
	Region string `query:"region" doc:"Region id or SVG path id; falls back to the region signal"`
	humastar.SignalsInput
}

type TempleInput struct {
	Index int `query:"index" default:"-1" doc:"Temple to open, -1 closes the popup"`
	humastar.SignalsInput
}

type regionItem struct {
	ID      string
	Label   string
	Temples int
}

// Regions patches the region list and sends the reveal order.
func (h *Handler) Regions(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	catalog := h.scenes.Catalog()
	order := regions.RevealOrder(catalog.Regions)

	items := make([]any, 0, len(order))
	for _, id := range order {
		items = append(items, regionItem{ID: id, Label: regions.Label(id), Temples: len(h.temples.ForRegion(id))})
	}

	return h.Stream(func(sse humastar.SSE) {
		sse.Patch(h.RenderList("region-item", items, "No regions", "The region catalog is empty"), "#region-list")
		sse.Signals(map[string]any{"reveal": order})
	}), nil
}

// Select zooms into a region.
func (h *Handler) Select(ctx context.Context, input *SelectInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	target := input.Region
	if target == "" {
		target = signals.String("region")
	}
	if target == "" {
		return nil, huma.Error400BadRequest("region is required")
	}
	id := h.scenes.Catalog().Resolve(target)
	return h.transition("select", nav.Select(stateFrom(signals), id)), nil
}

// Temple opens or closes the temple popup.
func (h *Handler) Temple(ctx context.Context, input *TempleInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	current := stateFrom(signals)
	if input.Index < 0 {
		return h.transition("close", nav.CloseTemple(current)), nil
	}
	return h.transition("open", nav.OpenTemple(current, input.Index)), nil
}

// Back returns to the whole map.
func (h *Handler) Back(ctx context.Context, input *humastar.SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	return h.transition("back", nav.Back(stateFrom(signals))), nil
}

// Events streams navigation events from every viewer until the client goes away.
func (h *Handler) Events(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			sse := humastar.NewSSE(humaCtx)
			ch := h.bus.Subscribe()
			defer h.bus.Unsubscribe(ch)

			done := humaCtx.Context().Done()
			for {
				select {
				case <-done:
					return
				case ev := <-ch:
					sse.DispatchCustomEvent("navigation", map[string]any{
						"action": ev.Action,
						"region": ev.State.Region,
						"temple": ev.State.Temple,
					})
				}
			}
		},
	}, nil
}

func (h *Handler) transition(action string, state nav.State) *huma.StreamResponse {
	return h.Stream(func(sse humastar.SSE) {
		scene, err := h.scenes.Build(state)
		if err != nil {
			h.log.Error("building scene", zap.String("action", action), zap.String("region", state.Region), zap.Error(err))
			sse.Error(err.Error())
			return
		}
		if err := h.writeScene(sse, scene); err != nil {
			h.log.Error("rendering scene", zap.String("action", action), zap.Error(err))
			sse.Error("rendering failed")
			return
		}
		h.bus.Publish(service.Event{Action: action, State: scene.State})
		h.log.Debug("viewer transition",
			zap.String("action", action),
			zap.String("region", scene.State.Region),
			zap.Int("temple", scene.State.Temple),
			zap.Bool("zoomed", scene.Zoomed))
	})
}

func (h *Handler) writeScene(sse humastar.SSE, scene service.Scene) error {
	var markers, modal, styles bytes.Buffer
	if err := h.Renderer.RenderToBuffer(&markers, "markers", map[string]any{
		"PinPath": templates.PinPath,
		"Markers": scene.Markers,
	}); err != nil {
		return err
	}
	if err := h.Renderer.RenderToBuffer(&modal, "temple-modal", scene); err != nil {
		return err
	}
	if err := h.Renderer.RenderToBuffer(&styles, "region-styles", scene.Styles); err != nil {
		return err
	}

	sse.Signals(map[string]any{
		"region":  scene.State.Region,
		"temple":  scene.State.Temple,
		"zoomed":  scene.Zoomed,
		"label":   scene.Label,
		"viewBox": scene.ViewBox,
	})
	sse.Patch(styles.String(), "#region-styles")
	sse.Patch(markers.String(), "#markers")
	sse.Patch(modal.String(), "#temple-modal")
	return nil
}

// stateFrom rebuilds the navigation state carried in the page signals.
func stateFrom(s humastar.Signals) nav.State {
	st := nav.Select(nav.Initial(), s.String("region"))
	return nav.OpenTemple(st, s.Int("temple", nav.NoTemple))
}
