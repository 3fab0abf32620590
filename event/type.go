package event

// EventType is the tag of a SceneEvent
type EventType int

const (
	// EventInvalid is the zero value, drained as a logged no-op
	EventInvalid EventType = iota

	// === Durative Events ===

	// EventWalk steps the actor toward a destination, holds the queue until arrival
	// Trigger: Scripts, click-to-walk | Payload: WalkPayload
	EventWalk

	// EventPlayAnimation plays a sequence in a room slot
	// Sync holds the queue until the playback stops | Payload: AnimationPayload
	EventPlayAnimation

	// EventPlayActorAnimation plays a sequence on the actor slot
	// Sync holds the queue until the playback stops | Payload: AnimationPayload
	EventPlayActorAnimation

	// EventMessage shows dialog text with an optional talk animation window
	// Sync holds the queue until acknowledged or timed out | Payload: MessagePayload
	EventMessage

	// EventWaitForAnimation holds the queue until a slot stops playing
	// Payload: SlotPayload
	EventWaitForAnimation

	// EventWaitLanAnimationFrame holds the queue until a slot reaches a frame
	// Payload: FramePayload
	EventWaitLanAnimationFrame

	// EventWait holds the queue for a number of frames
	// Payload: WaitPayload
	EventWait

	// EventWaitForTrack holds the queue until an auto object track finishes
	// Payload: TrackPayload
	EventWaitForTrack

	// === One-shot Events ===

	// EventLoadScene switches rooms, tearing down room-scoped state
	// Consumer: Scheduler, then the room enter hook | Payload: LoadScenePayload
	EventLoadScene

	// EventSetOn changes a room overlay ("on") value
	// Payload: SetOnPayload
	EventSetOn

	// EventSetLan sets or clears the ambient looping animation of a slot
	// Payload: SetLanPayload
	EventSetLan

	// EventPlayMusic switches the music theme, zero stops music
	// Consumer: audio.Player | Payload: MusicPayload
	EventPlayMusic

	// EventPlaySound plays a sound effect, optionally after a frame delay
	// Consumer: audio.Player | Payload: SoundPayload
	EventPlaySound

	// EventEnableObject toggles an object in the room object table
	// Payload: ObjectPayload
	EventEnableObject

	// EventHideActor toggles actor visibility
	// Payload: HideActorPayload
	EventHideActor

	// EventTimer sets, resets, starts or stops a room timer
	// Consumer: timer.Registry | Payload: TimerPayload
	EventTimer

	// EventSetFlag writes a room or global flag
	// Payload: FlagPayload
	EventSetFlag

	eventTypeCount
)

// String returns the registered name of the event type
func (t EventType) String() string {
	if name := GetEventName(t); name != "" {
		return name
	}
	return "invalid"
}
