package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/scenekit/anim"
	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/dialog"
	"github.com/lixenwraith/scenekit/event"
	"github.com/lixenwraith/scenekit/walk"
)

// ErrResourceMissing is returned for unknown sequence, room or dialog ids
var ErrResourceMissing = errors.New("resource missing")

// Loader resolves opaque ids to resources
type Loader interface {
	Sequence(id core.SequenceID) (*anim.Sequence, error)
	Room(id core.RoomID) (*Room, error)
	Dialog(id core.DialogID) (*dialog.Tree, error)
}

// Pack is an in-memory resource set decoded from YAML documents
type Pack struct {
	sequences map[core.SequenceID]*anim.Sequence
	rooms     map[core.RoomID]*Room
	dialogs   map[core.DialogID]*dialog.Tree
}

// NewPack creates an empty Pack
func NewPack() *Pack {
	return &Pack{
		sequences: make(map[core.SequenceID]*anim.Sequence),
		rooms:     make(map[core.RoomID]*Room),
		dialogs:   make(map[core.DialogID]*dialog.Tree),
	}
}

// Sequence implements Loader
func (p *Pack) Sequence(id core.SequenceID) (*anim.Sequence, error) {
	if s, ok := p.sequences[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: sequence %d", ErrResourceMissing, id)
}

// Room implements Loader
func (p *Pack) Room(id core.RoomID) (*Room, error) {
	if r, ok := p.rooms[id]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w: room %d", ErrResourceMissing, id)
}

// Dialog implements Loader
func (p *Pack) Dialog(id core.DialogID) (*dialog.Tree, error) {
	if d, ok := p.dialogs[id]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: dialog %d", ErrResourceMissing, id)
}

// AddSequence registers a sequence, replacing any with the same id
func (p *Pack) AddSequence(s *anim.Sequence) {
	p.sequences[s.ID] = s
}

// AddRoom registers a room, replacing any with the same id
func (p *Pack) AddRoom(r *Room) {
	p.rooms[r.ID] = r
}

// AddDialog registers a dialog tree
func (p *Pack) AddDialog(t *dialog.Tree) {
	p.dialogs[t.ID] = t
}

// RoomIDs returns known room ids in ascending order
func (p *Pack) RoomIDs() []core.RoomID {
	ids := make([]core.RoomID, 0, len(p.rooms))
	for id := range p.rooms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// LoadFS decodes every .yaml file under dir of fsys into one Pack
// Files are merged in lexical order, later ids override earlier ones
func LoadFS(fsys fs.FS, dir string) (*Pack, error) {
	var files []string
	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && (strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml")) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan resources %s: %w", dir, err)
	}
	sort.Strings(files)

	pack := NewPack()
	for _, f := range files {
		data, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		if err := pack.Decode(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path.Base(f), err)
		}
	}
	return pack, nil
}

// Decode merges one YAML document into the pack
func (p *Pack) Decode(data []byte) error {
	var doc packDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse resources: %w", err)
	}

	for i := range doc.Sequences {
		s := doc.Sequences[i]
		p.AddSequence(&s)
	}
	for _, rd := range doc.Rooms {
		r, err := rd.build()
		if err != nil {
			return fmt.Errorf("room %d: %w", rd.ID, err)
		}
		p.AddRoom(r)
	}
	for i := range doc.Dialogs {
		t := doc.Dialogs[i]
		if err := t.Validate(); err != nil {
			return err
		}
		p.AddDialog(&t)
	}
	return nil
}

type packDoc struct {
	Sequences []anim.Sequence `yaml:"sequences"`
	Rooms     []roomDoc       `yaml:"rooms"`
	Dialogs   []dialog.Tree   `yaml:"dialogs"`
}

type roomDoc struct {
	ID         core.RoomID      `yaml:"id"`
	Name       string           `yaml:"name"`
	Entry      [2]int           `yaml:"entry"`
	Facing     string           `yaml:"facing"`
	Boxes      []boxDoc         `yaml:"boxes"`
	Zoom       walk.ZoomHorizon `yaml:"zoom"`
	Objects    []objectDoc      `yaml:"objects"`
	Lans       []lanDoc         `yaml:"lans"`
	Ons        map[int]int      `yaml:"ons"`
	Music      core.MusicID     `yaml:"music"`
	Background []string         `yaml:"background"`
	OnEnter    yaml.Node        `yaml:"on_enter"`
}

type boxDoc struct {
	Rect   []int    `yaml:"rect"`   // x, y, w, h
	Points [][2]int `yaml:"points"` // convex polygon
}

type objectDoc struct {
	ID       core.ObjectID `yaml:"id"`
	Name     string        `yaml:"name"`
	Rect     []int         `yaml:"rect"`
	Disabled bool          `yaml:"disabled"`
	Art      []string      `yaml:"art"`
}

type lanDoc struct {
	Slot     core.SlotID     `yaml:"slot"`
	Sequence core.SequenceID `yaml:"sequence"`
	At       [2]int          `yaml:"at"`
}

func (d roomDoc) build() (*Room, error) {
	r := &Room{
		ID:         d.ID,
		Name:       d.Name,
		Entry:      core.Point{X: d.Entry[0], Y: d.Entry[1]},
		Facing:     core.ParseOrientation(d.Facing),
		Zoom:       d.Zoom,
		Ons:        d.Ons,
		Music:      d.Music,
		Background: d.Background,
	}
	if r.Ons == nil {
		r.Ons = make(map[int]int)
	}

	for i, b := range d.Boxes {
		switch {
		case len(b.Rect) == 4:
			r.Boxes = append(r.Boxes, walk.RectBox(b.Rect[0], b.Rect[1], b.Rect[2], b.Rect[3]))
		case len(b.Points) >= 3:
			pts := make([]core.Point, len(b.Points))
			for j, p := range b.Points {
				pts[j] = core.Point{X: p[0], Y: p[1]}
			}
			r.Boxes = append(r.Boxes, walk.Box{Points: pts})
		default:
			return nil, fmt.Errorf("box %d: need rect [x,y,w,h] or at least 3 points", i)
		}
	}

	for _, o := range d.Objects {
		if len(o.Rect) != 4 {
			return nil, fmt.Errorf("object %d: rect must be [x,y,w,h]", o.ID)
		}
		r.Objects = append(r.Objects, Object{
			ID:      o.ID,
			Name:    o.Name,
			Rect:    core.RectAt(o.Rect[0], o.Rect[1], o.Rect[2], o.Rect[3]),
			Enabled: !o.Disabled,
			Art:     o.Art,
		})
	}

	for _, l := range d.Lans {
		r.Lans = append(r.Lans, Lan{Slot: l.Slot, Sequence: l.Sequence, Position: core.Point{X: l.At[0], Y: l.At[1]}})
	}

	if d.OnEnter.Kind != 0 {
		data, err := yaml.Marshal(&d.OnEnter)
		if err != nil {
			return nil, fmt.Errorf("on_enter: %w", err)
		}
		evs, err := event.DecodeScript(data)
		if err != nil {
			return nil, fmt.Errorf("on_enter: %w", err)
		}
		r.OnEnter = evs
	}
	return r, nil
}
