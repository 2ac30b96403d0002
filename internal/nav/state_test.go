package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitions(t *testing.T) {
	s := Initial()
	assert.False(t, s.Zoomed())
	assert.False(t, s.ModalOpen())

	s = Select(s, "kerala")
	assert.Equal(t, State{Region: "kerala", Temple: NoTemple}, s)
	assert.True(t, s.Zoomed())

	s = OpenTemple(s, 2)
	assert.True(t, s.ModalOpen())
	assert.Equal(t, 2, s.Temple)

	s = CloseTemple(s)
	assert.Equal(t, State{Region: "kerala", Temple: NoTemple}, s)

	s = Back(OpenTemple(s, 0))
	assert.Equal(t, Initial(), s)
}

func TestSelectClosesPopup(t *testing.T) {
	s := OpenTemple(Select(Initial(), "goa"), 1)
	s = Select(s, "kerala")
	assert.Equal(t, State{Region: "kerala", Temple: NoTemple}, s)
}

func TestIgnoredTransitions(t *testing.T) {
	s := Initial()
	assert.Equal(t, s, OpenTemple(s, 3), "no region selected")
	assert.Equal(t, s, Select(s, "   "), "blank region")

	z := Select(s, "goa")
	assert.Equal(t, z, OpenTemple(z, -4), "negative index")
}

func TestReducersDoNotMutateInput(t *testing.T) {
	before := Select(Initial(), "goa")
	_ = OpenTemple(before, 5)
	_ = CloseTemple(before)
	assert.Equal(t, State{Region: "goa", Temple: NoTemple}, before)
}
