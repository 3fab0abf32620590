package parameter

// Actor Movement
const (
	// WalkSpeedX is the horizontal pixel step at full zoom scale
	WalkSpeedX = 8

	// WalkSpeedY is the vertical pixel step at full zoom scale
	WalkSpeedY = 4

	// MinStep guarantees progress at the smallest zoom scale
	MinStep = 1
)

// Zoom Horizon Defaults
const (
	DefaultHorizonY = 0
	DefaultBaseY    = 200
	DefaultMinScale = 1.0
	DefaultMaxScale = 1.0
)

// Room Geometry
const (
	RoomWidth  = 320
	RoomHeight = 200
)

// Dialog Timing (frames)
const (
	// DialogBaseFrames is the minimum time a line stays on screen
	DialogBaseFrames = 25

	// DialogFramesPerChar extends the timeout with text length
	DialogFramesPerChar = 1

	// DialogMaxFrames caps the computed timeout
	DialogMaxFrames = 250
)

// Animation
const (
	// DefaultFrameDelay is ticks spent on one sprite frame
	DefaultFrameDelay = 1

	// DefaultTrackDelay is ticks between track steps
	DefaultTrackDelay = 1
)

// Terminal Viewport
// One terminal cell covers CellWidth x CellHeight room pixels, 320x200 maps to 80x25
const (
	CellWidth  = 4
	CellHeight = 8
)
