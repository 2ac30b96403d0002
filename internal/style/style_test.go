package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	theme := DefaultTheme()
	ids := []string{"goa", "kerala", "karnataka"}

	got := Compute(ids, "kerala", theme)
	assert.Len(t, got, 3)
	assert.Equal(t, theme.Selected, got["kerala"])
	assert.Equal(t, theme.Dimmed, got["goa"])
	assert.Equal(t, theme.Dimmed, got["karnataka"])
	assert.False(t, got["goa"].Interactive)
}

func TestCompute_NoSelection(t *testing.T) {
	theme := DefaultTheme()
	for _, sel := range []string{"", "atlantis"} {
		got := Compute([]string{"goa", "kerala"}, sel, theme)
		for id, s := range got {
			assert.Equal(t, theme.Base, s, "region %s with selection %q", id, sel)
		}
	}
}

func TestCompute_DoesNotShareState(t *testing.T) {
	theme := DefaultTheme()
	a := Compute([]string{"goa"}, "goa", theme)
	a["goa"] = RegionStyle{Fill: "red"}
	b := Compute([]string{"goa"}, "goa", theme)
	assert.Equal(t, theme.Selected, b["goa"])
}

func TestCSS(t *testing.T) {
	theme := DefaultTheme()
	assert.Equal(t, "fill:#eee;opacity:0.3;pointer-events:none;", theme.Dimmed.CSS())
	assert.Equal(t,
		"fill:#fff;stroke:#d35400;stroke-width:0.5;opacity:1;filter:drop-shadow(0 4px 6px rgba(0,0,0,0.1));",
		theme.Selected.CSS())
}
