// Package style computes per-region presentation from the current selection.
package style

import (
	"fmt"
	"strconv"
	"strings"
)

// RegionStyle is the presentation of one region path.
type RegionStyle struct {
	Fill        string  `json:"fill" doc:"Fill color (CSS)" example:"#ffffff"`
	Stroke      string  `json:"stroke,omitempty" doc:"Stroke color (CSS)" example:"#d35400"`
	StrokeWidth float64 `json:"strokeWidth,omitempty" doc:"Stroke width in frame units"`
	Opacity     float64 `json:"opacity" minimum:"0" maximum:"1" doc:"Opacity (0-1)"`
	Shadow      string  `json:"shadow,omitempty" doc:"CSS filter applied to the path"`
	Interactive bool    `json:"interactive" doc:"Whether the path accepts pointer events"`
}

// CSS renders the style as an inline style attribute value.
func (s RegionStyle) CSS() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fill:%s;", s.Fill)
	if s.Stroke != "" {
		fmt.Fprintf(&b, "stroke:%s;", s.Stroke)
	}
	if s.StrokeWidth > 0 {
		fmt.Fprintf(&b, "stroke-width:%s;", strconv.FormatFloat(s.StrokeWidth, 'f', -1, 64))
	}
	fmt.Fprintf(&b, "opacity:%s;", strconv.FormatFloat(s.Opacity, 'f', -1, 64))
	if s.Shadow != "" {
		fmt.Fprintf(&b, "filter:%s;", s.Shadow)
	}
	if !s.Interactive {
		b.WriteString("pointer-events:none;")
	}
	return b.String()
}

// Theme groups the three states a region can be drawn in.
type Theme struct {
	Base     RegionStyle `json:"base"`
	Selected RegionStyle `json:"selected"`
	Dimmed   RegionStyle `json:"dimmed"`
}

// DefaultTheme is the heritage map palette.
func DefaultTheme() Theme {
	return Theme{
		Base: RegionStyle{
			Fill: "#f4efe6", Stroke: "#8a6d3b", StrokeWidth: 0.5,
			Opacity: 1, Interactive: true,
		},
		Selected: RegionStyle{
			Fill: "#fff", Stroke: "#d35400", StrokeWidth: 0.5,
			Opacity: 1, Shadow: "drop-shadow(0 4px 6px rgba(0,0,0,0.1))",
			Interactive: true,
		},
		Dimmed: RegionStyle{
			Fill: "#eee", Opacity: 0.3,
		},
	}
}

// Compute maps every id to its style. With no selection, or a selection
// that is not among ids, every region gets the base style.
func Compute(ids []string, selected string, theme Theme) map[string]RegionStyle {
	out := make(map[string]RegionStyle, len(ids))

	known := false
	for _, id := range ids {
		if id == selected {
			known = true
			break
		}
	}

	for _, id := range ids {
		switch {
		case !known || selected == "":
			out[id] = theme.Base
		case id == selected:
			out[id] = theme.Selected
		default:
			out[id] = theme.Dimmed
		}
	}
	return out
}
