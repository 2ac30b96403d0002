package api

import (
	"context"
	"database/sql"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/heritage-map/internal/db"
)

// SearchHandler serves temple search from the DuckDB index.
type SearchHandler struct {
	db *sql.DB
}

// NewSearchHandler creates a search handler. A nil conn answers 503.
func NewSearchHandler(conn *sql.DB) *SearchHandler {
	return &SearchHandler{db: conn}
}

// RegisterRoutes registers search routes with Huma.
func (h *SearchHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/temples/search", h.Search, huma.OperationTags("temples"))
}

type SearchInput struct {
	Q     string `query:"q" required:"true" minLength:"1" doc:"Text matched against name, location and deity" example:"shiva"`
	Limit int    `query:"limit" default:"20" minimum:"1" maximum:"200" doc:"Maximum hits"`
}

// Search returns temples matching q, ordered by region and list position.
func (h *SearchHandler) Search(ctx context.Context, input *SearchInput) (*struct{ Body []db.Hit }, error) {
	if h.db == nil {
		return nil, huma.Error503ServiceUnavailable("Database not available")
	}
	hits, err := db.SearchTemples(ctx, h.db, input.Q, input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("Search failed", err)
	}
	return &struct{ Body []db.Hit }{Body: hits}, nil
}
