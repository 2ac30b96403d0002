package regions

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/joeblew999/heritage-map/internal/viewport"
)

// Shape is one region as drawn on the inline map.
type Shape struct {
	ID    string
	SVGID string
	Label string
	// Path is SVG path data in frame coordinates; empty draws Box.
	Path string
	Box  viewport.BoundingBox
}

// Shapes returns every region ready for drawing, in catalog order.
func (c *Catalog) Shapes() []Shape {
	shapes := make([]Shape, len(c.Regions))
	for i, r := range c.Regions {
		shapes[i] = Shape{
			ID:    r.ID,
			SVGID: c.SVGID(r.ID),
			Label: Label(r.ID),
			Path:  c.paths[r.ID],
			Box:   r.Box,
		}
	}
	return shapes
}

// SVGID is the inverse of Resolve: the first alias, in lexical order,
// that points at id, else the upper-cased id.
func (c *Catalog) SVGID(id string) string {
	for _, alias := range c.SortedAliases() {
		if c.Aliases[alias] == id {
			return alias
		}
	}
	return strings.ToUpper(id)
}

// svgPath renders polygonal geometry as SVG path data. Points and
// collections of other types yield "".
func svgPath(g orb.Geometry) string {
	var b strings.Builder
	switch g := g.(type) {
	case orb.Polygon:
		writeRings(&b, g)
	case orb.MultiPolygon:
		for _, p := range g {
			writeRings(&b, p)
		}
	case orb.Ring:
		writeLine(&b, orb.LineString(g), true)
	case orb.LineString:
		writeLine(&b, g, false)
	case orb.MultiLineString:
		for _, ls := range g {
			writeLine(&b, ls, false)
		}
	}
	return strings.TrimSpace(b.String())
}

func writeRings(b *strings.Builder, p orb.Polygon) {
	for _, r := range p {
		writeLine(b, orb.LineString(r), true)
	}
}

func writeLine(b *strings.Builder, ls orb.LineString, closed bool) {
	if closed && len(ls) > 1 && ls[0] == ls[len(ls)-1] {
		ls = ls[:len(ls)-1]
	}
	for i, pt := range ls {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(num(pt[0]))
		b.WriteByte(',')
		b.WriteString(num(pt[1]))
	}
	if closed && len(ls) > 0 {
		b.WriteString(" Z")
	}
	b.WriteByte(' ')
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
