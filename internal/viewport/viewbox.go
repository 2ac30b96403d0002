package viewport

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseViewBox parses an SVG viewBox attribute ("minX minY width height",
// separated by whitespace and/or commas) into a validated Frame.
func ParseViewBox(s string) (Frame, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return Frame{}, fmt.Errorf("%w: viewBox %q needs 4 numbers, got %d", ErrInvalidFrame, s, len(fields))
	}

	var vals [4]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Frame{}, fmt.Errorf("%w: viewBox %q: %v", ErrInvalidFrame, s, err)
		}
		vals[i] = v
	}

	frame := Frame{MinX: vals[0], MinY: vals[1], Width: vals[2], Height: vals[3]}
	if err := frame.Validate(); err != nil {
		return Frame{}, err
	}
	return frame, nil
}

// ViewBox formats the frame as an SVG viewBox attribute.
func (f Frame) ViewBox() string {
	return formatViewBox(f.MinX, f.MinY, f.Width, f.Height)
}

// ViewBox formats the viewport as an SVG viewBox attribute.
func (v Viewport) ViewBox() string {
	return formatViewBox(v.MinX, v.MinY, v.Width, v.Height)
}

func formatViewBox(vals ...float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, " ")
}
