package event

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	registryOnce  sync.Once
	nameToType    = make(map[string]EventType)
	typeToName    = make(map[EventType]string)
	typeToPayload = make(map[EventType]reflect.Type)
)

// ErrUnknownEvent is returned when decoding an unregistered event name
var ErrUnknownEvent = errors.New("unknown event")

// RegisterType maps a name to an EventType and its payload struct type
// payloadInstance is a pointer to the payload struct, nil when the event carries none
func RegisterType(name string, et EventType, payloadInstance any) {
	nameToType[name] = et
	typeToName[et] = name
	if payloadInstance != nil {
		t := reflect.TypeOf(payloadInstance)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		typeToPayload[et] = t
	}
}

// GetEventType returns the EventType for a name
func GetEventType(name string) (EventType, bool) {
	initRegistry()
	et, ok := nameToType[name]
	return et, ok
}

// GetEventName returns the registered name of an EventType
func GetEventName(et EventType) string {
	initRegistry()
	return typeToName[et]
}

// NewPayloadStruct returns a pointer to a zero payload for the event type
// Returns nil if no payload is registered
func NewPayloadStruct(et EventType) any {
	initRegistry()
	t, ok := typeToPayload[et]
	if !ok {
		return nil
	}
	return reflect.New(t).Interface()
}

// PayloadMatches reports whether ev carries the payload type registered for its tag
func PayloadMatches(ev SceneEvent) bool {
	initRegistry()
	t, ok := typeToPayload[ev.Type]
	if !ok {
		return false
	}
	return ev.Payload != nil && reflect.TypeOf(ev.Payload) == t
}

func initRegistry() {
	registryOnce.Do(func() {
		RegisterType("walk", EventWalk, &WalkPayload{})
		RegisterType("play_animation", EventPlayAnimation, &AnimationPayload{})
		RegisterType("play_actor_animation", EventPlayActorAnimation, &AnimationPayload{})
		RegisterType("message", EventMessage, &MessagePayload{})
		RegisterType("wait_for_animation", EventWaitForAnimation, &SlotPayload{})
		RegisterType("wait_lan_animation_frame", EventWaitLanAnimationFrame, &FramePayload{})
		RegisterType("wait", EventWait, &WaitPayload{})
		RegisterType("wait_for_track", EventWaitForTrack, &TrackPayload{})
		RegisterType("load_scene", EventLoadScene, &LoadScenePayload{})
		RegisterType("set_on", EventSetOn, &SetOnPayload{})
		RegisterType("set_lan", EventSetLan, &SetLanPayload{})
		RegisterType("play_music", EventPlayMusic, &MusicPayload{})
		RegisterType("play_sound", EventPlaySound, &SoundPayload{})
		RegisterType("enable_object", EventEnableObject, &ObjectPayload{})
		RegisterType("hide_actor", EventHideActor, &HideActorPayload{})
		RegisterType("timer", EventTimer, &TimerPayload{})
		RegisterType("set_flag", EventSetFlag, &FlagPayload{})
	})
}

// Decode builds an event from its registered name and a YAML payload node
// A nil node yields the zero payload
func Decode(name string, node *yaml.Node) (SceneEvent, error) {
	et, ok := GetEventType(name)
	if !ok {
		return SceneEvent{}, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
	ptr := NewPayloadStruct(et)
	if node != nil {
		if err := node.Decode(ptr); err != nil {
			return SceneEvent{}, fmt.Errorf("decode %s payload: %w", name, err)
		}
	}
	return SceneEvent{Type: et, Payload: reflect.ValueOf(ptr).Elem().Interface()}, nil
}

// DecodeScript parses a YAML cutscene: a list of single-key mappings
//
//	- walk: {x: 120, y: 90}
//	- message: {lines: [{text: "Hello"}]}
func DecodeScript(data []byte) ([]SceneEvent, error) {
	var steps []map[string]yaml.Node
	if err := yaml.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	events := make([]SceneEvent, 0, len(steps))
	for i, step := range steps {
		if len(step) != 1 {
			return nil, fmt.Errorf("script step %d: expected one event, got %d", i, len(step))
		}
		for name, node := range step {
			var payload *yaml.Node
			if node.Kind != 0 && node.Tag != "!!null" {
				payload = &node
			}
			ev, err := Decode(name, payload)
			if err != nil {
				return nil, fmt.Errorf("script step %d: %w", i, err)
			}
			events = append(events, ev)
		}
	}
	return events, nil
}
