package resource

import (
	"sync"

	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/event"
	"github.com/lixenwraith/scenekit/walk"
)

// Object is an entry of the room object table
type Object struct {
	ID      core.ObjectID
	Name    string
	Rect    core.Rect
	Enabled bool
	Art     []string
}

// Lan is an ambient looping animation started when the room loads
type Lan struct {
	Slot     core.SlotID
	Sequence core.SequenceID
	Position core.Point
}

// Room is the static description of a scene
type Room struct {
	ID         core.RoomID
	Name       string
	Entry      core.Point
	Facing     core.Orientation
	Boxes      []walk.Box
	Zoom       walk.ZoomHorizon
	Objects    []Object
	Lans       []Lan
	Ons        map[int]int
	Music      core.MusicID
	Background []string
	OnEnter    []event.SceneEvent // cutscene pushed after the enter hook

	areaOnce sync.Once
	area     *walk.Area
}

// Area returns the walk area, built once
func (r *Room) Area() *walk.Area {
	r.areaOnce.Do(func() {
		r.area = walk.NewArea(r.Boxes)
	})
	return r.area
}

// Object returns the table entry with id
func (r *Room) Object(id core.ObjectID) (Object, bool) {
	for _, o := range r.Objects {
		if o.ID == id {
			return o, true
		}
	}
	return Object{}, false
}
