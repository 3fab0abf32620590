package parameter

import "time"

// Frame Loop Timing
const (
	// FrameInterval is the fixed render/logic tick (25 FPS, classic adventure rate)
	FrameInterval = 40 * time.Millisecond

	// MaxFrameCatchUp bounds how many missed frames the clock replays after a stall
	MaxFrameCatchUp = 5
)

// Event Queue
const (
	// QueueInitialCapacity is the starting slice capacity of the scene queue
	QueueInitialCapacity = 64

	// QueueWarnDepth logs a warning once queue depth exceeds it
	// Scripts push a handful of events per frame; hundreds means a runaway loop
	QueueWarnDepth = 512

	// MaxDrainPerFrame bounds events applied in one drain so a handler that
	// keeps pushing one-shots cannot stall the frame
	MaxDrainPerFrame = 4096
)

// Script Coroutines
const (
	// MaxScripts bounds concurrently suspended scripts
	MaxScripts = 64
)
