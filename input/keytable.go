package input

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"gopkg.in/yaml.v3"
)

// Action is a semantic key binding
type Action uint8

const (
	ActionNone Action = iota
	ActionSkip        // acknowledge dialog, skip line
	ActionPause
	ActionQuit
	ActionSave
	ActionLoad
	ActionDebug
)

var actionNames = map[string]Action{
	"skip":  ActionSkip,
	"pause": ActionPause,
	"quit":  ActionQuit,
	"save":  ActionSave,
	"load":  ActionLoad,
	"debug": ActionDebug,
}

func (a Action) String() string {
	for name, v := range actionNames {
		if v == a {
			return name
		}
	}
	return "none"
}

// KeyTable maps runes and special keys to actions
type KeyTable struct {
	Runes   map[rune]Action
	Special map[tcell.Key]Action
}

// DefaultKeyTable returns the built-in bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		Runes: map[rune]Action{
			' ': ActionSkip,
			'.': ActionSkip,
			'p': ActionPause,
			'q': ActionQuit,
			'd': ActionDebug,
		},
		Special: map[tcell.Key]Action{
			tcell.KeyEnter:  ActionSkip,
			tcell.KeyEscape: ActionSkip,
			tcell.KeyCtrlC:  ActionQuit,
			tcell.KeyF5:     ActionSave,
			tcell.KeyF9:     ActionLoad,
		},
	}
}

// Lookup resolves a key event to an action
func (kt *KeyTable) Lookup(key tcell.Key, r rune) Action {
	if key == tcell.KeyRune {
		return kt.Runes[r]
	}
	return kt.Special[key]
}

var specialNames = map[string]tcell.Key{
	"enter":  tcell.KeyEnter,
	"escape": tcell.KeyEscape,
	"tab":    tcell.KeyTab,
	"ctrl-c": tcell.KeyCtrlC,
	"f1":     tcell.KeyF1,
	"f5":     tcell.KeyF5,
	"f9":     tcell.KeyF9,
}

// LoadKeyConfig overlays YAML bindings on the defaults
//
//	runes: {x: quit}
//	keys:  {f1: debug}
func LoadKeyConfig(data []byte) (*KeyTable, error) {
	var raw struct {
		Runes map[string]string `yaml:"runes"`
		Keys  map[string]string `yaml:"keys"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse key config: %w", err)
	}

	kt := DefaultKeyTable()
	for k, name := range raw.Runes {
		rs := []rune(k)
		if len(rs) != 1 {
			return nil, fmt.Errorf("key config: rune binding %q must be a single character", k)
		}
		a, ok := actionNames[name]
		if !ok {
			return nil, fmt.Errorf("key config: unknown action %q", name)
		}
		kt.Runes[rs[0]] = a
	}
	for k, name := range raw.Keys {
		key, ok := specialNames[k]
		if !ok {
			return nil, fmt.Errorf("key config: unknown key %q", k)
		}
		a, ok := actionNames[name]
		if !ok {
			return nil, fmt.Errorf("key config: unknown action %q", name)
		}
		kt.Special[key] = a
	}
	return kt, nil
}
