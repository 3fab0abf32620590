package render

import "github.com/lixenwraith/scenekit/engine"

// SceneRenderer draws one layer of the room into the buffer
type SceneRenderer interface {
	Render(rc *engine.RoomContext, buf *RenderBuffer)
}

// VisibilityToggle is optionally implemented for runtime enable/disable
type VisibilityToggle interface {
	IsVisible() bool
}
