package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/heritage-map/internal/humastar"
	"github.com/joeblew999/heritage-map/internal/regions"
	"github.com/joeblew999/heritage-map/internal/service"
	"github.com/joeblew999/heritage-map/internal/viewport"
)

const templesJSON = `{
  "karnataka": [
    {"name": "Virupaksha Temple", "location": "Hampi", "deity": "Shiva", "normalized_x": 0.25, "normalized_y": 0.75},
    {"name": "Udupi Sri Krishna Matha", "location": "Udupi"}
  ],
  "odisha": [
    {"name": "Jagannath Temple", "location": "Puri"}
  ]
}`

func newTestAPI(t *testing.T) humatest.TestAPI {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, service.TemplesFile), []byte(templesJSON), 0o644))

	catalog := &regions.Catalog{
		Frame: viewport.Frame{Width: 1000, Height: 800},
		Regions: []viewport.Region{
			{ID: "karnataka", Name: "Karnataka", Box: viewport.BoundingBox{X: 200, Y: 500, Width: 100, Height: 120}},
			{ID: "jammu_kashmir", Box: viewport.BoundingBox{X: 300, Y: 20, Width: 120, Height: 100}},
			{ID: "kerala", Box: viewport.BoundingBox{X: 210, Y: 640, Width: 40, Height: 100}},
		},
	}
	temples := service.NewTempleService(dir, nil)
	svc := &Services{
		Scenes:  service.NewSceneService(catalog, temples, service.SceneOptions{Padding: viewport.DefaultPadding}),
		Temples: temples,
	}

	_, api := humatest.New(t)
	NewAPIHandler(svc).RegisterHealth(api)
	NewAPIHandler(svc).RegisterRegions(api)
	NewAPIHandler(svc).RegisterScene(api)
	NewAPIHandler(svc).RegisterGeometry(api)
	NewInfoHandler(dir, svc).RegisterRoutes(api)
	NewSearchHandler(nil).RegisterRoutes(api)
	return api
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	resp := api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "ok", decode[HealthBody](t, resp.Body.Bytes()).Status)
}

func TestInfo(t *testing.T) {
	api := newTestAPI(t)
	resp := api.Get("/api/v1/info")
	require.Equal(t, http.StatusOK, resp.Code)

	info := decode[InfoBody](t, resp.Body.Bytes())
	assert.Equal(t, "heritage-map", info.Name)
	assert.Equal(t, "0 0 1000 800", info.Frame)
	assert.Equal(t, 3, info.Regions)
	assert.Equal(t, 3, info.Temples)
	assert.False(t, info.DB)
}

func TestListRegions(t *testing.T) {
	api := newTestAPI(t)
	resp := api.Get("/api/v1/regions?limit=2")
	require.Equal(t, http.StatusOK, resp.Code)

	page := decode[humastar.PageBody[RegionSummary]](t, resp.Body.Bytes())
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "jammu_kashmir", page.Data[0].ID)
	assert.Equal(t, "JAMMU KASHMIR", page.Data[0].Label)
	assert.Equal(t, "karnataka", page.Data[1].ID)
	assert.Equal(t, 2, page.Data[1].Temples)
}

func TestGetViewport(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/api/v1/regions/karnataka/viewport?padding=0")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decode[ViewportBody](t, resp.Body.Bytes())
	assert.True(t, body.Zoomed)
	assert.InDelta(t, 1.25, body.Viewport.Width/body.Viewport.Height, 1e-9)
	assert.Equal(t, 120.0, body.Viewport.Height)

	resp = api.Get("/api/v1/regions/atlantis/viewport")
	require.Equal(t, http.StatusOK, resp.Code)
	body = decode[ViewportBody](t, resp.Body.Bytes())
	assert.False(t, body.Zoomed)
	assert.Equal(t, "0 0 1000 800", body.ViewBox)

	resp = api.Get("/api/v1/regions/karnataka/viewport?padding=-1")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	resp = api.Get("/api/v1/regions/karnataka/viewport?padding=1e308")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	resp = api.Get("/api/v1/regions/karnataka/viewport?padding=10")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func TestGetRegionTemples(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/api/v1/regions/karnataka/temples")
	require.Equal(t, http.StatusOK, resp.Code)
	markers := decode[[]service.Marker](t, resp.Body.Bytes())
	require.Len(t, markers, 2)
	assert.Equal(t, viewport.Position{X: 250, Y: 600}, markers[0].Position)

	// temples without a drawable region are still listed
	resp = api.Get("/api/v1/regions/odisha/temples")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = api.Get("/api/v1/regions/kerala/temples")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decode[[]service.Marker](t, resp.Body.Bytes()))

	assert.Equal(t, http.StatusNotFound, api.Get("/api/v1/regions/atlantis/temples").Code)
}

func TestGetRegionStyles(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/api/v1/regions/kerala/styles")
	require.Equal(t, http.StatusOK, resp.Code)
	styles := decode[map[string]map[string]any](t, resp.Body.Bytes())
	assert.Len(t, styles, 3)
	assert.Equal(t, "#fff", styles["kerala"]["fill"])

	assert.Equal(t, http.StatusNotFound, api.Get("/api/v1/regions/odisha/styles").Code)
}

func TestGetScene(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/api/v1/scene?region=karnataka&temple=0")
	require.Equal(t, http.StatusOK, resp.Code)
	scene := decode[service.Scene](t, resp.Body.Bytes())
	assert.True(t, scene.Zoomed)
	require.NotNil(t, scene.Temple)
	assert.Equal(t, "Virupaksha Temple", scene.Temple.Name)

	resp = api.Get("/api/v1/scene")
	require.Equal(t, http.StatusOK, resp.Code)
	scene = decode[service.Scene](t, resp.Body.Bytes())
	assert.False(t, scene.Zoomed)
	assert.Equal(t, "0 0 1000 800", scene.ViewBox)
}

func TestSceneActions(t *testing.T) {
	body := SceneBody{}
	assert.Empty(t, body.Actions())

	body.State.Region = "kerala"
	body.State.Temple = -1
	actions := body.Actions()
	require.Len(t, actions, 3)
	assert.Equal(t, "back", actions[0].Rel)
	assert.Equal(t, "/api/v1/regions/kerala/temples", actions[1].Href)

	body.Temple = &service.Temple{Name: "Padmanabhaswamy"}
	assert.Equal(t, "close", body.Actions()[1].Rel)
}

func TestFitViewport(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Post("/api/v1/viewport/fit", map[string]any{
		"frame":   map[string]float64{"minX": 0, "minY": 0, "width": 1000, "height": 800},
		"target":  map[string]float64{"x": 590, "y": 90, "width": 120, "height": 60},
		"padding": 0,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	body := decode[FitBody](t, resp.Body.Bytes())
	assert.Equal(t, "590 72 120 96", body.ViewBox)

	resp = api.Post("/api/v1/viewport/fit", map[string]any{
		"frame":  map[string]float64{"minX": 0, "minY": 0, "width": 0, "height": 800},
		"target": map[string]float64{"x": 1, "y": 1, "width": 1, "height": 1},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestFitViewport_Overflow(t *testing.T) {
	api := newTestAPI(t)
	frame := map[string]float64{"minX": 0, "minY": 0, "width": 1000, "height": 800}

	tests := []struct {
		name string
		body map[string]any
	}{
		{"padding above maximum", map[string]any{
			"frame":   frame,
			"target":  map[string]float64{"x": 1, "y": 1, "width": 1, "height": 1},
			"padding": 1e308,
		}},
		{"target overflows", map[string]any{
			"frame":   frame,
			"target":  map[string]float64{"x": 0, "y": 0, "width": 1e308, "height": 1e308},
			"padding": 1,
		}},
		{"aspect growth overflows", map[string]any{
			"frame":   frame,
			"target":  map[string]float64{"x": 0, "y": 0, "width": 1, "height": 1.7e308},
			"padding": 0,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.Post("/api/v1/viewport/fit", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())
		})
	}
}

func TestMapPoints(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Post("/api/v1/points/map", map[string]any{
		"frame":  map[string]float64{"minX": 10, "minY": 20, "width": 100, "height": 200},
		"points": []map[string]float64{{"nx": 0, "ny": 0}, {"nx": 1, "ny": 1}, {}},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	body := decode[MapBody](t, resp.Body.Bytes())
	assert.Equal(t, []viewport.Position{{X: 10, Y: 20}, {X: 110, Y: 220}, {X: 60, Y: 120}}, body.Positions)

	resp = api.Post("/api/v1/points/map", map[string]any{
		"frame":  map[string]float64{"minX": 0, "minY": 0, "width": 1000, "height": 800},
		"points": []map[string]float64{{"nx": 1e306, "ny": 0}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestSearch_NoDatabase(t *testing.T) {
	api := newTestAPI(t)
	assert.Equal(t, http.StatusServiceUnavailable, api.Get("/api/v1/temples/search?q=shiva").Code)
}
