package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/heritage-map/internal/nav"
	"github.com/joeblew999/heritage-map/internal/regions"
	"github.com/joeblew999/heritage-map/internal/style"
	"github.com/joeblew999/heritage-map/internal/viewport"
)

const templesJSON = `{
  "karnataka": [
    {"name": "Virupaksha Temple", "location": "Hampi", "deity": "Shiva", "normalized_x": 0.25, "normalized_y": 0.75},
    {"name": "Udupi Sri Krishna Matha", "location": "Udupi"}
  ],
  "kerala": [],
  "odisha": [
    {"name": "Jagannath Temple", "location": "Puri", "normalized_x": 0.7, "normalized_y": 0.5}
  ]
}`

func newTempleService(t *testing.T) *TempleService {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TemplesFile), []byte(templesJSON), 0o644))
	return NewTempleService(dir, nil)
}

func testCatalog() *regions.Catalog {
	return &regions.Catalog{
		Frame: viewport.Frame{Width: 1000, Height: 800},
		Regions: []viewport.Region{
			{ID: "karnataka", Box: viewport.BoundingBox{X: 200, Y: 500, Width: 100, Height: 120}},
			{ID: "kerala", Box: viewport.BoundingBox{X: 210, Y: 640, Width: 40, Height: 100}},
		},
	}
}

func TestTempleService(t *testing.T) {
	s := newTempleService(t)

	assert.Len(t, s.ForRegion("karnataka"), 2)
	assert.Empty(t, s.ForRegion("kerala"))
	assert.NotNil(t, s.ForRegion("atlantis"))
	assert.Equal(t, []string{"karnataka", "odisha"}, s.Regions())
	assert.Equal(t, 3, s.Count())

	// callers get copies
	list := s.ForRegion("karnataka")
	list[0].Name = "changed"
	assert.Equal(t, "Virupaksha Temple", s.ForRegion("karnataka")[0].Name)
}

func TestTempleService_MissingFile(t *testing.T) {
	s := NewTempleService(t.TempDir(), nil)
	assert.Empty(t, s.All())
	assert.Equal(t, 0, s.Count())
}

func TestTempleService_ReloadKeepsPreviousOnError(t *testing.T) {
	s := newTempleService(t)
	require.NoError(t, os.WriteFile(s.catalogFile(), []byte("{"), 0o644))
	assert.Error(t, s.Reload())
	assert.Equal(t, 3, s.Count())
}

func TestSceneBuild_WholeMap(t *testing.T) {
	scenes := NewSceneService(testCatalog(), newTempleService(t), SceneOptions{Padding: viewport.DefaultPadding})

	scene, err := scenes.Build(nav.Initial())
	require.NoError(t, err)
	assert.False(t, scene.Zoomed)
	assert.Equal(t, "0 0 1000 800", scene.ViewBox)
	assert.Empty(t, scene.Markers)
	assert.Nil(t, scene.Temple)
	assert.Equal(t, style.DefaultTheme().Base, scene.Styles["kerala"])
}

func TestSceneBuild_Region(t *testing.T) {
	scenes := NewSceneService(testCatalog(), newTempleService(t), SceneOptions{Padding: viewport.DefaultPadding})

	state := nav.OpenTemple(nav.Select(nav.Initial(), "karnataka"), 1)
	scene, err := scenes.Build(state)
	require.NoError(t, err)

	assert.True(t, scene.Zoomed)
	assert.Equal(t, "KARNATAKA", scene.Label)
	assert.InDelta(t, 1.25, scene.Viewport.Width/scene.Viewport.Height, 1e-9)
	assert.True(t, scene.Viewport.Contains(testCatalog().Regions[0].Box))
	assert.Equal(t, style.DefaultTheme().Selected, scene.Styles["karnataka"])
	assert.Equal(t, style.DefaultTheme().Dimmed, scene.Styles["kerala"])

	require.Len(t, scene.Markers, 2)
	assert.Equal(t, viewport.Position{X: 250, Y: 600}, scene.Markers[0].Position)
	// missing coordinates fall back to the frame centre
	assert.Equal(t, viewport.Position{X: 500, Y: 400}, scene.Markers[1].Position)

	require.NotNil(t, scene.Temple)
	assert.Equal(t, "Udupi Sri Krishna Matha", scene.Temple.Name)
}

func TestSceneBuild_UnknownRegionFallsBack(t *testing.T) {
	scenes := NewSceneService(testCatalog(), newTempleService(t), SceneOptions{Padding: viewport.DefaultPadding})

	scene, err := scenes.Build(nav.Select(nav.Initial(), "odisha"))
	require.NoError(t, err)
	assert.False(t, scene.Zoomed)
	assert.Equal(t, testCatalog().Frame.Viewport(), scene.Viewport)
	require.Len(t, scene.Markers, 1)
	assert.Equal(t, viewport.Position{X: 700, Y: 400}, scene.Markers[0].Position)
	for _, st := range scene.Styles {
		assert.Equal(t, style.DefaultTheme().Base, st)
	}
}

func TestSceneBuild_TempleOutOfRangeClosesPopup(t *testing.T) {
	scenes := NewSceneService(testCatalog(), newTempleService(t), SceneOptions{})

	scene, err := scenes.Build(nav.OpenTemple(nav.Select(nav.Initial(), "kerala"), 4))
	require.NoError(t, err)
	assert.Nil(t, scene.Temple)
	assert.Equal(t, nav.NoTemple, scene.State.Temple)
}

func TestSceneBuild_InvalidFrame(t *testing.T) {
	catalog := testCatalog()
	catalog.Frame = viewport.Frame{}
	scenes := NewSceneService(catalog, newTempleService(t), SceneOptions{})

	_, err := scenes.Build(nav.Select(nav.Initial(), "karnataka"))
	assert.ErrorIs(t, err, viewport.ErrInvalidFrame)
}

func TestEventBus(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe()

	bus.Publish(Event{Action: "select", State: nav.Select(nav.Initial(), "goa")})

	select {
	case ev := <-ch:
		assert.Equal(t, "select", ev.Action)
		assert.Equal(t, "goa", ev.State.Region)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}

	bus.Unsubscribe(ch)
	bus.Unsubscribe(ch)
	_, open := <-ch
	assert.False(t, open)

	// publishing with no subscribers must not block
	bus.Publish(Event{Action: "back"})
}
