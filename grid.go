package monipoll

import (
	orb "github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/maptile/tilecover"
)

// peerZoom gives cells of roughly 150m at the equator.
const peerZoom = maptile.Zoom(18)

// PeerIndex buckets placed agents by map tile so that contact checks only
// look at agents in nearby cells.
type PeerIndex struct {
	cells map[maptile.Tile][]int
}

// NewPeerIndex indexes the placed agents of the slice by position.
func NewPeerIndex(agents []Agent) *PeerIndex {
	idx := &PeerIndex{cells: make(map[maptile.Tile][]int)}
	for i, a := range agents {
		if !a.Placed {
			continue
		}
		t := maptile.At(a.Position, peerZoom)
		idx.cells[t] = append(idx.cells[t], i)
	}
	return idx
}

// Near returns the indices of agents in every cell touching the box of the
// given radius around p. It is a candidate set; callers still check distance.
func (idx *PeerIndex) Near(p orb.Point, radius float64) []int {
	var out []int
	for t := range tilecover.Bound(geo.NewBoundAroundPoint(p, radius), peerZoom) {
		out = append(out, idx.cells[t]...)
	}
	return out
}

// Len returns the number of indexed agents.
func (idx *PeerIndex) Len() int {
	n := 0
	for _, c := range idx.cells {
		n += len(c)
	}
	return n
}
