// Package regions loads the selectable subdivisions of a map and the
// lookup tables that tie SVG path ids to data keys.
package regions

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joeblew999/heritage-map/internal/viewport"
)

// ErrUnsupportedFormat is returned for catalog files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// Catalog is the set of regions of one map, with the frame they live in.
type Catalog struct {
	Frame   viewport.Frame
	Regions []viewport.Region
	// Aliases maps upper-cased SVG path ids to region ids.
	Aliases map[string]string

	anchors map[string]viewport.Position
	paths   map[string]string
}

// catalogFile is the on-disk shape of a YAML or JSON catalog.
//
//	frame: "0 0 612 695"
//	regions:
//	  - id: karnataka
//	    name: Karnataka
//	    box: [120, 480, 95, 110]
//	    path: "M120,480 L215,480 L215,590 Z"
//	aliases:
//	  INKA: karnataka
type catalogFile struct {
	Frame   string            `json:"frame" yaml:"frame"`
	Regions []regionEntry     `json:"regions" yaml:"regions"`
	Aliases map[string]string `json:"aliases" yaml:"aliases"`
}

type regionEntry struct {
	ID   string    `json:"id" yaml:"id"`
	Name string    `json:"name" yaml:"name"`
	Box  []float64 `json:"box" yaml:"box"`
	Path string    `json:"path,omitempty" yaml:"path,omitempty"`
}

// Load reads a catalog from a .yaml, .yml, .json or .geojson file.
// GeoJSON catalogs take their frame from defaultFrame.
func Load(path string, defaultFrame viewport.Frame) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var raw catalogFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing catalog %s: %w", filepath.Base(path), err)
		}
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing catalog %s: %w", filepath.Base(path), err)
		}
	case ".geojson":
		return FromGeoJSON(data, defaultFrame)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	return raw.build(defaultFrame)
}

func (raw catalogFile) build(defaultFrame viewport.Frame) (*Catalog, error) {
	frame := defaultFrame
	if raw.Frame != "" {
		f, err := viewport.ParseViewBox(raw.Frame)
		if err != nil {
			return nil, fmt.Errorf("catalog frame: %w", err)
		}
		frame = f
	}
	if err := frame.Validate(); err != nil {
		return nil, fmt.Errorf("catalog frame: %w", err)
	}

	c := &Catalog{
		Frame:   frame,
		Aliases: make(map[string]string, len(raw.Aliases)),
		paths:   make(map[string]string),
	}
	for i, e := range raw.Regions {
		if e.ID == "" {
			return nil, fmt.Errorf("region %d: missing id", i)
		}
		if len(e.Box) != 4 {
			return nil, fmt.Errorf("region %q: box needs 4 numbers, got %d", e.ID, len(e.Box))
		}
		c.Regions = append(c.Regions, viewport.Region{
			ID:   e.ID,
			Name: e.Name,
			Box: viewport.BoundingBox{
				X: e.Box[0], Y: e.Box[1], Width: e.Box[2], Height: e.Box[3],
			}.Normalize(),
		})
		if e.Path != "" {
			c.paths[e.ID] = e.Path
		}
	}
	for k, v := range raw.Aliases {
		c.Aliases[strings.ToUpper(k)] = v
	}
	return c, nil
}

// Find returns the bounding box for id, or an error wrapping viewport.ErrNotFound.
func (c *Catalog) Find(id string) (viewport.BoundingBox, error) {
	return viewport.FindRegion(c.Regions, id)
}

// Region returns the full region record for id.
func (c *Catalog) Region(id string) (viewport.Region, bool) {
	for _, r := range c.Regions {
		if r.ID == id {
			return r, true
		}
	}
	return viewport.Region{}, false
}

// IDs returns region ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.Regions))
	for i, r := range c.Regions {
		ids[i] = r.ID
	}
	return ids
}

// Resolve maps a clicked SVG path id to a region id. Known aliases win;
// otherwise the id is lower-cased. Empty input resolves to "".
func (c *Catalog) Resolve(svgID string) string {
	svgID = strings.TrimSpace(svgID)
	if svgID == "" {
		return ""
	}
	if id, ok := c.Aliases[strings.ToUpper(svgID)]; ok {
		return id
	}
	return strings.ToLower(svgID)
}

// Label formats a region id for a hover tooltip: "tamil_nadu" → "TAMIL NADU".
func Label(id string) string {
	return strings.ToUpper(strings.ReplaceAll(id, "_", " "))
}

// SortedAliases returns alias keys in lexical order, for stable listings.
func (c *Catalog) SortedAliases() []string {
	keys := make([]string, 0, len(c.Aliases))
	for k := range c.Aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
