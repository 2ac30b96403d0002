// Package nav holds the viewer's navigation state as an immutable value.
//
// Transitions are plain functions from one State to the next; nothing is
// mutated in place, so a State can be shared between goroutines and kept
// as history without copying.
package nav

import "strings"

// NoTemple marks a closed temple detail popup.
const NoTemple = -1

// State is what the viewer is currently showing.
type State struct {
	// Region is the selected region id, "" for the whole map.
	Region string `json:"region" doc:"Selected region id, empty for the whole map"`
	// Temple indexes the region's temple list, NoTemple when the popup is closed.
	Temple int `json:"temple" doc:"Open temple index, -1 when closed"`
}

// Initial is the whole-map view with nothing open.
func Initial() State {
	return State{Temple: NoTemple}
}

// Zoomed reports whether a region is selected.
func (s State) Zoomed() bool { return s.Region != "" }

// ModalOpen reports whether a temple popup is showing.
func (s State) ModalOpen() bool { return s.Zoomed() && s.Temple >= 0 }

// Select moves to a region. Any open popup is closed; a blank id is ignored.
func Select(s State, regionID string) State {
	regionID = strings.TrimSpace(regionID)
	if regionID == "" {
		return s
	}
	return State{Region: regionID, Temple: NoTemple}
}

// Back returns to the whole map.
func Back(State) State {
	return Initial()
}

// OpenTemple opens the popup for the idx'th temple of the current region.
// Without a selected region, or with a negative index, s is returned unchanged.
func OpenTemple(s State, idx int) State {
	if !s.Zoomed() || idx < 0 {
		return s
	}
	s.Temple = idx
	return s
}

// CloseTemple closes the popup and keeps the region.
func CloseTemple(s State) State {
	s.Temple = NoTemple
	return s
}
