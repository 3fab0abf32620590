package resource

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/event"
)

const roomYAML = `
sequences:
  - id: 3
    name: door
    delay: 2
    frames:
      - art: ["|  |"]
      - art: ["|/ |"]
rooms:
  - id: 1
    name: yard
    entry: [40, 150]
    facing: right
    zoom: {horizon_y: 100, base_y: 199, min_scale: 0.5, max_scale: 1.0}
    boxes:
      - rect: [0, 120, 320, 79]
      - points: [[100, 60], [140, 60], [140, 120], [100, 120]]
    objects:
      - {id: 7, name: door, rect: [110, 40, 24, 20]}
      - {id: 8, name: key, rect: [200, 150, 4, 4], disabled: true}
    lans:
      - {slot: 2, sequence: 3, at: [60, 100]}
    on_enter:
      - play_music: {music: 2}
      - walk: {x: 80, y: 160}
`

const dialogYAML = `
dialogs:
  - id: 5
    start: hello
    nodes:
      hello:
        lines: [{text: "Hi"}]
        choices:
          - {text: "Bye", next: bye}
      bye:
        lines: [{text: "Bye"}]
`

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"pack/rooms.yaml":   {Data: []byte(roomYAML)},
		"pack/dialogs.yaml": {Data: []byte(dialogYAML)},
		"pack/README.txt":   {Data: []byte("ignored")},
	}
	pack, err := LoadFS(fsys, "pack")
	if err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}

	room, err := pack.Room(1)
	if err != nil {
		t.Fatalf("Room failed: %v", err)
	}
	if room.Entry != (core.Point{X: 40, Y: 150}) || room.Facing != core.OrientRight {
		t.Errorf("Unexpected entry %v facing %v", room.Entry, room.Facing)
	}
	if len(room.Boxes) != 2 {
		t.Fatalf("Expected 2 boxes, got %d", len(room.Boxes))
	}
	if !room.Area().Contains(core.Point{X: 120, Y: 80}) {
		t.Error("Expected polygon box walkable")
	}
	if o, ok := room.Object(8); !ok || o.Enabled {
		t.Errorf("Expected disabled key object, got %+v", o)
	}
	if len(room.OnEnter) != 2 || room.OnEnter[1].Type != event.EventWalk {
		t.Errorf("Unexpected on_enter %+v", room.OnEnter)
	}
	if room.Zoom.Scale(199) != 1.0 {
		t.Errorf("Expected full scale at base, got %v", room.Zoom.Scale(199))
	}

	seq, err := pack.Sequence(3)
	if err != nil || seq.Len() != 2 || seq.Delay != 2 {
		t.Errorf("Unexpected sequence %+v (%v)", seq, err)
	}
	tree, err := pack.Dialog(5)
	if err != nil || len(tree.Nodes) != 2 {
		t.Errorf("Unexpected dialog %+v (%v)", tree, err)
	}
}

func TestMissingResources(t *testing.T) {
	pack := NewPack()
	if _, err := pack.Room(42); !errors.Is(err, ErrResourceMissing) {
		t.Errorf("Expected ErrResourceMissing for room, got %v", err)
	}
	if _, err := pack.Sequence(42); !errors.Is(err, ErrResourceMissing) {
		t.Errorf("Expected ErrResourceMissing for sequence, got %v", err)
	}
	if _, err := pack.Dialog(42); !errors.Is(err, ErrResourceMissing) {
		t.Errorf("Expected ErrResourceMissing for dialog, got %v", err)
	}
}

func TestDecodeRejectsBadBox(t *testing.T) {
	err := NewPack().Decode([]byte("rooms:\n  - id: 1\n    boxes:\n      - rect: [1, 2]\n"))
	if err == nil {
		t.Error("Expected error for malformed box")
	}
}

func TestDecodeRejectsDanglingDialog(t *testing.T) {
	err := NewPack().Decode([]byte("dialogs:\n  - id: 1\n    start: a\n    nodes:\n      a: {next: b}\n"))
	if err == nil {
		t.Error("Expected error for dangling dialog link")
	}
}
