package dialog

import (
	"fmt"

	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/event"
)

// Pusher enqueues scene events
type Pusher interface {
	Push(ev event.SceneEvent) uint64
}

// Sequence pushes one sync Message per line and returns the last sequence number
// Zero is returned for no lines
func Sequence(q Pusher, lines []event.MessageLine) uint64 {
	var last uint64
	for _, l := range lines {
		last = q.Push(event.SceneEvent{
			Type:    event.EventMessage,
			Payload: event.MessagePayload{Lines: []event.MessageLine{l}},
		})
	}
	return last
}

// Tree is a branching conversation loaded from the resource pack
type Tree struct {
	ID    core.DialogID   `yaml:"id"`
	Start string          `yaml:"start"`
	Nodes map[string]Node `yaml:"nodes"`
}

// Node is one step: lines spoken, then either choices or a fixed next node
// An empty Next with no choices ends the conversation
type Node struct {
	Lines   []event.MessageLine `yaml:"lines"`
	Choices []Choice            `yaml:"choices"`
	Next    string              `yaml:"next"`
	Flag    string              `yaml:"flag"` // global flag set when the node is reached
}

// Choice is a menu entry leading to another node
type Choice struct {
	Text string `yaml:"text"`
	Next string `yaml:"next"`
}

// Validate checks that every referenced node exists
func (t *Tree) Validate() error {
	if _, ok := t.Nodes[t.Start]; !ok {
		return fmt.Errorf("dialog %d: start node %q missing", t.ID, t.Start)
	}
	for name, n := range t.Nodes {
		if n.Next != "" {
			if _, ok := t.Nodes[n.Next]; !ok {
				return fmt.Errorf("dialog %d: node %q links to missing %q", t.ID, name, n.Next)
			}
		}
		for _, c := range n.Choices {
			if _, ok := t.Nodes[c.Next]; c.Next != "" && !ok {
				return fmt.Errorf("dialog %d: choice %q in %q links to missing %q", t.ID, c.Text, name, c.Next)
			}
		}
	}
	return nil
}

// ChoiceTexts returns the menu entries of a node
func (n Node) ChoiceTexts() []string {
	out := make([]string, len(n.Choices))
	for i, c := range n.Choices {
		out[i] = c.Text
	}
	return out
}
