package track

import (
	"sort"

	"github.com/lixenwraith/scenekit/core"
)

// Animator advances every auto object track of the current room
type Animator struct {
	tracks map[core.TrackID]*Track
	order  []core.TrackID
}

// NewAnimator creates an empty Animator
func NewAnimator() *Animator {
	return &Animator{tracks: make(map[core.TrackID]*Track)}
}

// Init (re)starts track id at segment 0 from the config origin, discarding prior progress
func (a *Animator) Init(id core.TrackID, cfg Config) *Track {
	t := newTrack(id, cfg)
	if _, exists := a.tracks[id]; !exists {
		a.order = append(a.order, id)
		sort.Slice(a.order, func(i, j int) bool { return a.order[i] < a.order[j] })
	}
	a.tracks[id] = t
	return t
}

// Update advances all tracks one frame in id order
// onFinish is called once for each track that finished this frame
func (a *Animator) Update(onFinish func(core.TrackID)) {
	for _, id := range a.order {
		if a.tracks[id].update() && onFinish != nil {
			onFinish(id)
		}
	}
}

// Get returns the track with id
func (a *Animator) Get(id core.TrackID) (*Track, bool) {
	t, ok := a.tracks[id]
	return t, ok
}

// Finished polls the finished sentinel
// Unknown ids report finished so waits on them never hang
func (a *Animator) Finished(id core.TrackID) bool {
	t, ok := a.tracks[id]
	return !ok || t.finished
}

// HitTest reports whether p lies in the track's current bounding box
func (a *Animator) HitTest(id core.TrackID, p core.Point) bool {
	t, ok := a.tracks[id]
	return ok && t.Bounds().Contains(p)
}

// TrackAt returns the topmost track under p, later ids draw on top
func (a *Animator) TrackAt(p core.Point) (core.TrackID, bool) {
	for i := len(a.order) - 1; i >= 0; i-- {
		id := a.order[i]
		if a.tracks[id].Bounds().Contains(p) {
			return id, true
		}
	}
	return 0, false
}

// Remove destroys a track
func (a *Animator) Remove(id core.TrackID) {
	if _, ok := a.tracks[id]; !ok {
		return
	}
	delete(a.tracks, id)
	for i, v := range a.order {
		if v == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// Reset destroys every track, used on room exit
func (a *Animator) Reset() {
	clear(a.tracks)
	a.order = a.order[:0]
}

// IDs returns track ids in draw order
func (a *Animator) IDs() []core.TrackID {
	return a.order
}

// ActiveCount returns the number of unfinished tracks
func (a *Animator) ActiveCount() int {
	n := 0
	for _, t := range a.tracks {
		if !t.finished {
			n++
		}
	}
	return n
}
