package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/heritage-map/internal/config"
	"github.com/joeblew999/heritage-map/internal/observability"
	"github.com/joeblew999/heritage-map/internal/regions"
	"github.com/joeblew999/heritage-map/internal/server"
)

// Options defines all CLI flags and env vars for the heritage server.
// Flags: --host, --port, --data-dir, --web-dir
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_DATA_DIR, SERVICE_WEB_DIR
type Options struct {
	Host    string `doc:"Host to bind to" default:"0.0.0.0"`
	Port    int    `doc:"Port to listen on" short:"p" default:"8086"`
	DataDir string `doc:"Directory holding regions.yaml and temples.json" default:"data"`
	WebDir  string `doc:"Path to web/ directory" default:"web"`
}

// fitResult is what the fit command prints.
type fitResult struct {
	Region  string  `json:"region" yaml:"region"`
	Zoomed  bool    `json:"zoomed" yaml:"zoomed"`
	Padding float64 `json:"padding" yaml:"padding"`
	ViewBox string  `json:"viewBox" yaml:"viewBox"`
	MinX    float64 `json:"minX" yaml:"minX"`
	MinY    float64 `json:"minY" yaml:"minY"`
	Width   float64 `json:"width" yaml:"width"`
	Height  float64 `json:"height" yaml:"height"`
}

func newServer(opts *Options, log *zap.Logger, noDB bool) (*server.Server, *config.Config) {
	viewer, err := config.Load()
	if err != nil {
		fatal(err)
	}
	srv, err := server.New(server.Config{
		Host:    opts.Host,
		Port:    fmt.Sprintf("%d", opts.Port),
		DataDir: opts.DataDir,
		WebDir:  opts.WebDir,
		Viewer:  viewer,
		Logger:  log,
		NoDB:    noDB,
	})
	if err != nil {
		fatal(err)
	}
	return srv, viewer
}

func newLogger() *zap.Logger {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	log, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fatal(err)
	}
	return log
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printOut(v any, useYAML bool) {
	var output []byte
	var err error
	if useYAML {
		output, err = yaml.Marshal(v)
	} else {
		output, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		fatal(fmt.Errorf("marshaling output: %w", err))
	}
	fmt.Println(string(output))
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		log := newLogger()
		srv, _ := newServer(opts, log, false)

		hooks.OnStart(func() {
			defer log.Sync()
			defer srv.Close()

			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			log.Info("heritage-map server starting",
				zap.String("addr", addr),
				zap.String("data_dir", opts.DataDir),
				zap.String("viewer", baseURL+"/viewer"),
				zap.String("docs", baseURL+"/docs"),
				zap.String("openapi", baseURL+"/openapi.json"))

			if err := http.ListenAndServe(addr, srv); err != nil {
				log.Fatal("server error", zap.Error(err))
			}
		})
	})

	cli.Root().Use = "heritage"
	cli.Root().Short = "India temple heritage map server"
	cli.Root().Version = "0.1.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv, _ := newServer(opts, zap.NewNop(), true)
			useYAML, _ := cmd.Flags().GetBool("yaml")
			printOut(srv.OpenAPI(), useYAML)
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	// fit subcommand: print the viewport of one region
	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "Print the viewport that frames a region",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv, viewer := newServer(opts, zap.NewNop(), true)
			scenes := srv.Services().Scenes

			region, _ := cmd.Flags().GetString("region")
			padding, _ := cmd.Flags().GetFloat64("padding")
			if !cmd.Flags().Changed("padding") {
				padding = viewer.Padding
			}
			id := scenes.Catalog().Resolve(region)

			vp, zoomed, err := scenes.Viewport(id, padding)
			if err != nil {
				fatal(err)
			}
			useYAML, _ := cmd.Flags().GetBool("yaml")
			printOut(fitResult{
				Region:  id,
				Zoomed:  zoomed,
				Padding: padding,
				ViewBox: vp.ViewBox(),
				MinX:    vp.MinX,
				MinY:    vp.MinY,
				Width:   vp.Width,
				Height:  vp.Height,
			}, useYAML)
		}),
	}
	fitCmd.Flags().StringP("region", "r", "", "Region id or SVG path id")
	fitCmd.Flags().Float64("padding", 0.15, "Padding fraction (default HERITAGE_PADDING)")
	fitCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	fitCmd.MarkFlagRequired("region")
	cli.Root().AddCommand(fitCmd)

	// regions subcommand: list regions north to south
	regionsCmd := &cobra.Command{
		Use:   "regions",
		Short: "List regions in reveal order",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv, _ := newServer(opts, zap.NewNop(), true)
			svc := srv.Services()
			catalog := svc.Scenes.Catalog()
			for _, id := range regions.RevealOrder(catalog.Regions) {
				fmt.Printf("%-24s %-24s %d temples\n", id, regions.Label(id), len(svc.Temples.ForRegion(id)))
			}
			if showAliases, _ := cmd.Flags().GetBool("aliases"); showAliases {
				fmt.Println()
				for _, alias := range catalog.SortedAliases() {
					fmt.Printf("%-10s -> %s\n", alias, catalog.Aliases[alias])
				}
			}
		}),
	}
	regionsCmd.Flags().Bool("aliases", false, "Also print the SVG path id aliases")
	cli.Root().AddCommand(regionsCmd)

	cli.Run()
}
