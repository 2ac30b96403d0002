package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

type InfoHandler struct {
	dataDir string
	svc     *Services
}

func NewInfoHandler(dataDir string, svc *Services) *InfoHandler {
	return &InfoHandler{dataDir: dataDir, svc: svc}
}

func (h *InfoHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

type InfoBody struct {
	Name     string   `json:"name" doc:"Service name"`
	Version  string   `json:"version" doc:"Service version"`
	DataDir  string   `json:"data_dir" doc:"Data directory path"`
	DB       bool     `json:"db" doc:"Whether the search index is available"`
	Frame    string   `json:"frame" doc:"Map frame as an SVG viewBox" example:"0 0 612 695"`
	Regions  int      `json:"regions" doc:"Regions in the catalog"`
	Temples  int      `json:"temples" doc:"Temples in the catalog"`
	Features []string `json:"features" doc:"Available features"`
}

func (h *InfoHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	catalog := h.svc.Scenes.Catalog()
	features := []string{"viewport", "markers", "styles", "viewer-sse"}
	if h.svc.DB != nil {
		features = append(features, "duckdb-search")
	}
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:     "heritage-map",
		Version:  "0.1.0",
		DataDir:  h.dataDir,
		DB:       h.svc.DB != nil,
		Frame:    catalog.Frame.ViewBox(),
		Regions:  len(catalog.Regions),
		Temples:  h.svc.Temples.Count(),
		Features: features,
	}}, nil
}
