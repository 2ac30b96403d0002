package server

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"maps"
	"net/http"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"go.uber.org/zap"

	"github.com/joeblew999/heritage-map/internal/api"
	"github.com/joeblew999/heritage-map/internal/api/viewer"
	"github.com/joeblew999/heritage-map/internal/config"
	"github.com/joeblew999/heritage-map/internal/db"
	"github.com/joeblew999/heritage-map/internal/humastar"
	"github.com/joeblew999/heritage-map/internal/regions"
	"github.com/joeblew999/heritage-map/internal/service"
	"github.com/joeblew999/heritage-map/internal/style"
	"github.com/joeblew999/heritage-map/internal/templates"
)

// Config holds the server configuration.
type Config struct {
	Host    string
	Port    string
	DataDir string
	WebDir  string // Path to web/ directory for static files and template overrides

	// Viewer is the HERITAGE_* tuning; nil loads defaults.
	Viewer *config.Config
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// NoDB skips the DuckDB search index.
	NoDB bool
}

// Server is the heritage map HTTP server.
type Server struct {
	config   Config
	log      *zap.Logger
	mux      *http.ServeMux
	handler  http.Handler
	humaAPI  huma.API
	db       *sql.DB
	services *api.Services
	bus      *service.EventBus
	renderer *templates.Renderer
	page     *template.Template
	links    humastar.Links
}

// New creates a heritage map server. It fails when the region catalog
// cannot be loaded or carries an invalid frame.
func New(cfg Config) (*Server, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Viewer == nil {
		v, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg.Viewer = v
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	log.Info("region catalog loaded",
		zap.Int("regions", len(catalog.Regions)),
		zap.String("frame", catalog.Frame.ViewBox()))

	temples := service.NewTempleService(cfg.DataDir, log)
	services := &api.Services{
		Scenes: service.NewSceneService(catalog, temples, service.SceneOptions{
			Padding: cfg.Viewer.Padding,
		}),
		Temples: temples,
	}

	var overrideDir string
	if cfg.WebDir != "" {
		overrideDir = filepath.Join(cfg.WebDir, "templates", "fragments")
	}
	renderer, err := templates.New(overrideDir)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	page, err := loadPage(cfg.WebDir, renderer)
	if err != nil {
		return nil, fmt.Errorf("loading viewer page: %w", err)
	}

	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig("heritage-map API", "1.0.0")
	humaConfig.Info.Description = "Viewport geometry and temple catalog for the India heritage map."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	// Disable $schema property in responses (cleaner JSON)
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}
	links := humastar.Links{}
	humaConfig.Transformers = append(humaConfig.Transformers, links.Transformer())

	s := &Server{
		config:   cfg,
		log:      log,
		mux:      mux,
		humaAPI:  humago.New(mux, humaConfig),
		services: services,
		bus:      service.NewEventBus(),
		renderer: renderer,
		page:     page,
		links:    links,
	}

	if !cfg.NoDB {
		s.openIndex()
	}

	s.routes()
	maps.Copy(links, humastar.AutoLinks(s.humaAPI, "/api/v1/temples/search", "viewer"))

	s.handler = middleware(log, mux)
	return s, nil
}

func loadCatalog(cfg Config) (*regions.Catalog, error) {
	frame, err := cfg.Viewer.Frame()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(cfg.DataDir, cfg.Viewer.CatalogFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		// fall back to a GeoJSON catalog next to the configured one
		alt := filepath.Join(cfg.DataDir, "regions.geojson")
		if _, err := os.Stat(alt); err == nil {
			path = alt
		}
	}
	return regions.Load(path, frame)
}

// openIndex builds the DuckDB temple index. Failure leaves search disabled.
func (s *Server) openIndex() {
	conn, err := db.Get(db.Config{DataDir: s.config.DataDir, DBName: "heritage"})
	if err != nil {
		s.log.Warn("duckdb unavailable, search disabled", zap.Error(err))
		return
	}
	n, err := db.IndexTemples(context.Background(), conn, s.services.Temples.All())
	if err != nil {
		s.log.Warn("indexing temples failed, search disabled", zap.Error(err))
		return
	}
	s.log.Info("temple index built", zap.Int("temples", n))
	s.db = conn
	s.services.DB = conn
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// OpenAPI returns the generated OpenAPI document.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// Services exposes the server's services, e.g. for CLI commands.
func (s *Server) Services() *api.Services {
	return s.services
}

// Close closes server resources.
func (s *Server) Close() error {
	if s.db == nil {
		return nil
	}
	return db.Close()
}

func (s *Server) routes() {
	huma.AutoRegister(s.humaAPI, api.NewAPIHandler(s.services))
	api.NewInfoHandler(s.config.DataDir, s.services).RegisterRoutes(s.humaAPI)
	api.NewSearchHandler(s.db).RegisterRoutes(s.humaAPI)

	viewer.New(s.services.Scenes, s.services.Temples, s.bus, s.renderer, s.log).RegisterRoutes(s.humaAPI)

	if s.config.WebDir != "" {
		staticDir := filepath.Join(s.config.WebDir, "static")
		s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}

	s.mux.HandleFunc("/viewer", s.handleViewer)
	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	for _, link := range s.links[humastar.Entry] {
		w.Header().Add("Link", link)
	}
	http.Redirect(w, r, "/viewer", http.StatusFound)
}

// loadPage parses web/templates/viewer.html; a missing page is not an error.
func loadPage(webDir string, renderer *templates.Renderer) (*template.Template, error) {
	if webDir == "" {
		return nil, nil
	}
	path := filepath.Join(webDir, "templates", viewerPage)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return renderer.Page(path)
}

const viewerPage = "viewer.html"

// pageData drives the first paint of the viewer: the whole map with
// every region in its base style.
type pageData struct {
	ViewBox string
	Shapes  []regions.Shape
	Styles  map[string]style.RegionStyle
}

func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	if s.page == nil {
		http.Error(w, "viewer page not configured (--web-dir)", http.StatusNotFound)
		return
	}
	scenes := s.services.Scenes
	data := pageData{
		ViewBox: scenes.Catalog().Frame.ViewBox(),
		Shapes:  scenes.Catalog().Shapes(),
		Styles:  scenes.Styles(""),
	}

	var buf bytes.Buffer
	if err := s.page.ExecuteTemplate(&buf, viewerPage, data); err != nil {
		s.log.Error("rendering viewer page", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
