package humastar

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/heritage-map/internal/templates"
)

func TestParseSignals(t *testing.T) {
	s, err := ParseSignals([]byte(`{"region":"kerala","temple":2,"flag":true}`))
	require.NoError(t, err)
	assert.Equal(t, "kerala", s.String("region"))
	assert.Equal(t, 2, s.Int("temple", -1))
	assert.Equal(t, -1, s.Int("missing", -1))
	assert.Equal(t, "", s.String("flag"))
	assert.True(t, s.Has("flag"))

	s, err = ParseSignals(nil)
	require.NoError(t, err)
	assert.Empty(t, s)

	in := &SignalsInput{RawBody: []byte("{")}
	_, err = in.MustParse()
	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.GetStatus())
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := Page(items, 2, 2)
	assert.Equal(t, []int{3, 4}, p.Data)
	assert.Equal(t, 5, p.Total)
	assert.Equal(t, []string{
		`<x?offset=0&limit=2>; rel="first"`,
		`<x?offset=0&limit=2>; rel="prev"`,
		`<x?offset=4&limit=2>; rel="next"`,
		`<x?offset=4&limit=2>; rel="last"`,
	}, p.PaginationLinks("x"))

	assert.Empty(t, Page(items, 10, 2).Data)
	assert.Equal(t, items, Page(items, 0, 0).Data)
	assert.Nil(t, Page([]int{}, 0, 0).PaginationLinks("x"))
}

func TestActionsFor(t *testing.T) {
	actions := ActionsFor("kerala", []ActionDef{
		{Rel: "select", Pattern: "/api/v1/viewer/select?region=%s", Method: "POST", Title: "Zoom in"},
		{Rel: "temples", Pattern: "/api/v1/regions/%s/temples"},
	})
	require.Len(t, actions, 2)
	assert.Equal(t, `</api/v1/viewer/select?region=kerala>; rel="select"; method="POST"; title="Zoom in"`, actions[0].LinkHeader())
	assert.Equal(t, `</api/v1/regions/kerala/temples>; rel="temples"`, actions[1].LinkHeader())
}

type itemBody struct {
	ID string `json:"id"`
}

func TestAutoLinks(t *testing.T) {
	_, api := humatest.New(t)

	huma.Get(api, "/health", func(ctx context.Context, _ *struct{}) (*struct{ Body itemBody }, error) {
		return &struct{ Body itemBody }{}, nil
	}, huma.OperationTags("health"))
	huma.Get(api, "/api/v1/regions", func(ctx context.Context, _ *struct{}) (*struct{ Body []itemBody }, error) {
		return &struct{ Body []itemBody }{}, nil
	}, huma.OperationTags("regions"))
	huma.Get(api, "/api/v1/regions/{id}/temples", func(ctx context.Context, _ *struct {
		ID string `path:"id"`
	}) (*struct{ Body []itemBody }, error) {
		return &struct{ Body []itemBody }{}, nil
	}, huma.OperationTags("regions"))
	huma.Get(api, "/api/v1/viewer/events", func(ctx context.Context, _ *EmptyInput) (*struct{}, error) {
		return &struct{}{}, nil
	}, huma.OperationTags("viewer"))

	links := AutoLinks(api, "", "viewer")

	assert.Contains(t, links["/health"], `</api/v1/regions>; rel="regions"`)
	assert.Contains(t, links["/api/v1/regions"], `</health>; rel="up"`)
	assert.Contains(t, links["/api/v1/regions/{id}/temples"], `</api/v1/regions>; rel="collection"`)
	assert.NotContains(t, links, "/api/v1/viewer/events")
}

func TestRenderList(t *testing.T) {
	r, err := templates.New("")
	require.NoError(t, err)
	h := Handler{Renderer: r}

	html := h.RenderList("region-item", nil, "No regions", "Empty catalog")
	assert.Contains(t, html, "No regions")

	html = h.RenderList("region-item", []any{map[string]any{"ID": "goa", "Label": "GOA", "Temples": 2}}, "", "")
	assert.Contains(t, html, `data-region="goa"`)
	assert.Contains(t, html, "GOA")
}
