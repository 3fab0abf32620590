package anim

import (
	"sort"

	"github.com/lixenwraith/scenekit/core"
)

// Player owns the playbacks of the current room, one per slot
type Player struct {
	slots map[core.SlotID]*Playback
	order []core.SlotID
	dirty bool
}

// NewPlayer creates an empty Player
func NewPlayer() *Player {
	return &Player{slots: make(map[core.SlotID]*Playback)}
}

// Start replaces whatever plays in slot and shows the first frame
// Sound triggers for the first frame fire immediately through onSound
func (pl *Player) Start(slot core.SlotID, seq *Sequence, opts Options, onSound func(core.SoundID)) *Playback {
	p := newPlayback(slot, seq, opts)
	if _, exists := pl.slots[slot]; !exists {
		pl.dirty = true
	}
	pl.slots[slot] = p
	if p.Running {
		p.triggers(onSound)
	}
	return p
}

// Put reinstates a playback previously taken from its slot
func (pl *Player) Put(p *Playback) {
	if p == nil {
		return
	}
	if _, exists := pl.slots[p.Slot]; !exists {
		pl.dirty = true
	}
	pl.slots[p.Slot] = p
}

// Stop halts the playback in slot, keeping its last frame visible
// Stopping an empty or stopped slot is a no-op
func (pl *Player) Stop(slot core.SlotID) {
	if p, ok := pl.slots[slot]; ok {
		p.Running = false
	}
}

// Remove clears a slot entirely
func (pl *Player) Remove(slot core.SlotID) {
	if _, ok := pl.slots[slot]; ok {
		delete(pl.slots, slot)
		pl.dirty = true
	}
}

// Get returns the playback in slot
func (pl *Player) Get(slot core.SlotID) (*Playback, bool) {
	p, ok := pl.slots[slot]
	return p, ok
}

// Running reports whether slot has an active playback
func (pl *Player) Running(slot core.SlotID) bool {
	p, ok := pl.slots[slot]
	return ok && p.Running
}

// Finished reports whether slot has nothing left to play
// An empty slot counts as finished so waits on it never hang
func (pl *Player) Finished(slot core.SlotID) bool {
	return !pl.Running(slot)
}

// AtFrame reports whether slot shows frame or has stopped
// A stopped playback cannot reach a later frame, so it releases the wait
func (pl *Player) AtFrame(slot core.SlotID, frame int) bool {
	p, ok := pl.slots[slot]
	if !ok || !p.Running {
		return true
	}
	return p.Frame == frame
}

// Update advances every running playback one tick in slot order
func (pl *Player) Update(onSound func(core.SoundID)) {
	for _, slot := range pl.Slots() {
		p := pl.slots[slot]
		if p.advance() {
			p.triggers(onSound)
		}
	}
}

// Slots returns occupied slots in ascending order
func (pl *Player) Slots() []core.SlotID {
	if pl.dirty {
		pl.order = pl.order[:0]
		for slot := range pl.slots {
			pl.order = append(pl.order, slot)
		}
		sort.Slice(pl.order, func(i, j int) bool { return pl.order[i] < pl.order[j] })
		pl.dirty = false
	}
	return pl.order
}

// ActiveCount returns the number of running playbacks
func (pl *Player) ActiveCount() int {
	n := 0
	for _, p := range pl.slots {
		if p.Running {
			n++
		}
	}
	return n
}

// Clear drops every playback, used on room switch
func (pl *Player) Clear() {
	clear(pl.slots)
	pl.order = pl.order[:0]
	pl.dirty = false
}
