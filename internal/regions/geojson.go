package regions

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/joeblew999/heritage-map/internal/viewport"
)

// FromGeoJSON builds a catalog from a feature collection whose geometries
// are already in frame coordinates. Each feature needs an "id" property
// (or a feature id, or a "name" property); features without one, or
// without geometry, are skipped. An optional "svg_id" property becomes an
// alias. Polygon outlines are kept as SVG path data for the inline map.
func FromGeoJSON(data []byte, frame viewport.Frame) (*Catalog, error) {
	if err := frame.Validate(); err != nil {
		return nil, fmt.Errorf("catalog frame: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing geojson: %w", err)
	}

	c := &Catalog{
		Frame:   frame,
		Aliases: make(map[string]string),
		anchors: make(map[string]viewport.Position),
		paths:   make(map[string]string),
	}
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		id := featureID(f)
		if id == "" {
			continue
		}

		name, _ := f.Properties["name"].(string)
		c.Regions = append(c.Regions, viewport.Region{
			ID:   id,
			Name: name,
			Box:  boxFromBound(f.Geometry.Bound()),
		})

		if d := svgPath(f.Geometry); d != "" {
			c.paths[id] = d
		}
		if centroid, area := planar.CentroidArea(f.Geometry); area != 0 {
			c.anchors[id] = viewport.Position{X: centroid[0], Y: centroid[1]}
		}
		if svgID, ok := f.Properties["svg_id"].(string); ok && svgID != "" {
			c.Aliases[strings.ToUpper(svgID)] = id
		}
	}
	return c, nil
}

func featureID(f *geojson.Feature) string {
	if id, ok := f.Properties["id"].(string); ok && id != "" {
		return id
	}
	if id, ok := f.ID.(string); ok && id != "" {
		return id
	}
	if name, ok := f.Properties["name"].(string); ok {
		return name
	}
	return ""
}

func boxFromBound(b orb.Bound) viewport.BoundingBox {
	return viewport.BoundingBox{
		X:      b.Min[0],
		Y:      b.Min[1],
		Width:  b.Max[0] - b.Min[0],
		Height: b.Max[1] - b.Min[1],
	}
}

func boundFromBox(b viewport.BoundingBox) orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.X, b.Y},
		Max: orb.Point{b.X + b.Width, b.Y + b.Height},
	}
}

// Anchor returns the label anchor for a region: the area centroid when the
// region came from polygon geometry, else the centre of its box.
func (c *Catalog) Anchor(id string) (viewport.Position, bool) {
	if p, ok := c.anchors[id]; ok {
		return p, true
	}
	r, ok := c.Region(id)
	if !ok {
		return viewport.Position{}, false
	}
	centre := boundFromBox(r.Box).Center()
	return viewport.Position{X: centre[0], Y: centre[1]}, true
}

// RevealOrder returns region ids sorted north to south (increasing box
// centre y in SVG space), ties broken by id.
func RevealOrder(regions []viewport.Region) []string {
	type entry struct {
		id string
		y  float64
	}
	entries := make([]entry, len(regions))
	for i, r := range regions {
		entries[i] = entry{id: r.ID, y: boundFromBox(r.Box).Center()[1]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].y != entries[j].y {
			return entries[i].y < entries[j].y
		}
		return entries[i].id < entries[j].id
	})

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids
}
