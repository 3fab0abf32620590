package event

import (
	"errors"
	"testing"

	"github.com/lixenwraith/scenekit/core"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()
	s1 := q.Push(Walk(1, 1, core.OrientNone))
	s2 := q.Push(Wait(3))
	s3 := q.Push(HideActor(true))

	if !(s1 < s2 && s2 < s3) {
		t.Fatalf("Expected increasing sequence numbers, got %d %d %d", s1, s2, s3)
	}

	want := []EventType{EventWalk, EventWait, EventHideActor}
	for i, et := range want {
		ev, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop %d: expected event", i)
		}
		if ev.Type != et {
			t.Errorf("Pop %d: expected %v, got %v", i, et, ev.Type)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Error("Expected empty queue")
	}
}

func TestQueueGrowsPastInitialCapacity(t *testing.T) {
	q := NewQueue()
	const n = 1000
	for i := 0; i < n; i++ {
		q.Push(Wait(i))
	}
	if q.HighWater() != n {
		t.Errorf("Expected high water %d, got %d", n, q.HighWater())
	}

	// Interleave pops and pushes across the compaction threshold
	for i := 0; i < n; i++ {
		ev, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop %d: queue empty", i)
		}
		if got := ev.Payload.(WaitPayload).Frames; got != i {
			t.Fatalf("Pop %d: expected frames %d, got %d", i, i, got)
		}
		if i%10 == 0 {
			q.Push(Wait(n + i))
		}
	}
	if q.Len() != n/10 {
		t.Errorf("Expected %d remaining, got %d", n/10, q.Len())
	}
	first, _ := q.Peek()
	if first.Payload.(WaitPayload).Frames != n {
		t.Errorf("Expected re-pushed order preserved, got %v", first.Payload)
	}
}

func TestQueueClearKeepsSequence(t *testing.T) {
	q := NewQueue()
	q.Push(Wait(1))
	q.Push(Wait(2))
	if dropped := q.Clear(); dropped != 2 {
		t.Errorf("Expected 2 dropped, got %d", dropped)
	}
	if seq := q.Push(Wait(3)); seq != 3 {
		t.Errorf("Expected sequence 3 after clear, got %d", seq)
	}
}

func TestDecodeScript(t *testing.T) {
	data := []byte(`
- walk: {x: 120, y: 90, facing: left}
- play_animation: {slot: 2, sequence: 14, async: true}
- message:
    lines:
      - {text: "Who's there?", speaker: 0}
- wait: {frames: 5}
- hide_actor:
`)
	events, err := DecodeScript(data)
	if err != nil {
		t.Fatalf("DecodeScript failed: %v", err)
	}
	if len(events) != 5 {
		t.Fatalf("Expected 5 events, got %d", len(events))
	}

	walk, ok := events[0].Payload.(WalkPayload)
	if !ok || walk.X != 120 || walk.Y != 90 || walk.FinalOrientation() != core.OrientLeft {
		t.Errorf("Unexpected walk payload %+v", events[0].Payload)
	}
	anim := events[1].Payload.(AnimationPayload)
	if anim.Slot != 2 || anim.Sequence != 14 || !anim.Async {
		t.Errorf("Unexpected animation payload %+v", anim)
	}
	msg := events[2].Payload.(MessagePayload)
	if len(msg.Lines) != 1 || msg.Lines[0].Text != "Who's there?" {
		t.Errorf("Unexpected message payload %+v", msg)
	}
	for i, ev := range events {
		if !PayloadMatches(ev) {
			t.Errorf("Event %d: payload does not match registered type", i)
		}
	}
}

func TestDecodeUnknownEvent(t *testing.T) {
	_, err := DecodeScript([]byte("- teleport: {x: 1}\n"))
	if !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("Expected ErrUnknownEvent, got %v", err)
	}
}

func TestTimerPayloadActionOverridesOp(t *testing.T) {
	p := TimerPayload{Op: TimerSet, Action: "stop"}
	if p.Operation() != TimerStop {
		t.Errorf("Expected stop, got %v", p.Operation())
	}
}

func TestEventTypeString(t *testing.T) {
	if EventWalk.String() != "walk" {
		t.Errorf("Expected walk, got %s", EventWalk.String())
	}
	if EventInvalid.String() != "invalid" {
		t.Errorf("Expected invalid, got %s", EventInvalid.String())
	}
}
