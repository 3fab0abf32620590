package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/engine"
	"github.com/lixenwraith/scenekit/event"
	"github.com/lixenwraith/scenekit/resource"
	"github.com/lixenwraith/scenekit/status"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	screen.SetSize(80, 25)
	t.Cleanup(screen.Fini)
	return screen
}

func renderPack() *resource.Pack {
	p := resource.NewPack()
	p.AddRoom(&resource.Room{
		ID:         1,
		Name:       "hall",
		Entry:      core.Point{X: 10, Y: 100},
		Facing:     core.OrientRight,
		Background: []string{"", "######"},
		Objects: []resource.Object{
			{ID: 7, Name: "lever", Rect: core.RectAt(200, 80, 16, 16), Enabled: true, Art: []string{"/"}},
			{ID: 8, Name: "key", Rect: core.RectAt(40, 80, 8, 8), Enabled: false, Art: []string{"k"}},
		},
	})
	return p
}

func rowText(screen tcell.Screen, y, from, n int) string {
	var sb strings.Builder
	for x := from; x < from+n; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		sb.WriteRune(r)
	}
	return sb.String()
}

func newRenderedScheduler(t *testing.T) (*engine.Scheduler, tcell.Screen, *DebugRenderer) {
	t.Helper()
	screen := newSimScreen(t)
	reg := status.NewRegistry()
	o := NewRenderOrchestrator(screen)
	debug := RegisterScene(o, reg)
	s := engine.NewScheduler(engine.Options{Loader: renderPack(), Renderer: o, Status: reg})
	t.Cleanup(s.Close)
	if err := s.Enter(1); err != nil {
		t.Fatalf("Enter failed: %v", err)
	}
	return s, screen, debug
}

type recordingRenderer struct {
	name  string
	order *[]string
}

func (r recordingRenderer) Render(rc *engine.RoomContext, buf *RenderBuffer) {
	*r.order = append(*r.order, r.name)
}

type hiddenRenderer struct{ recordingRenderer }

func (hiddenRenderer) IsVisible() bool { return false }

func TestOrchestratorOrdersByPriority(t *testing.T) {
	o := NewRenderOrchestrator(newSimScreen(t))
	var order []string
	o.Register(recordingRenderer{"dialog", &order}, PriorityDialog)
	o.Register(recordingRenderer{"bg", &order}, PriorityBackground)
	o.Register(hiddenRenderer{recordingRenderer{"hidden", &order}}, PriorityObjects)
	o.Register(recordingRenderer{"actor1", &order}, PriorityActor)
	o.Register(recordingRenderer{"actor2", &order}, PriorityActor)

	s := engine.NewScheduler(engine.Options{})
	defer s.Close()
	o.RenderFrame(s.Room())

	want := "bg,actor1,actor2,dialog"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestSceneLayers(t *testing.T) {
	s, screen, _ := newRenderedScheduler(t)
	s.Frame()

	if got := rowText(screen, 1, 0, 6); got != "######" {
		t.Errorf("Expected background row, got %q", got)
	}
	if r, _, _, _ := screen.GetContent(50, 10); r != '/' {
		t.Errorf("Expected enabled object art at 50,10, got %q", r)
	}
	if r, _, _, _ := screen.GetContent(10, 10); r == 'k' {
		t.Error("Expected disabled object not drawn")
	}
	if r, _, _, _ := screen.GetContent(2, 12); r != '>' {
		t.Errorf("Expected actor glyph facing right at 2,12, got %q", r)
	}

	s.Push(event.HideActor(true))
	s.Frame()
	if r, _, _, _ := screen.GetContent(2, 12); r == '>' {
		t.Error("Expected hidden actor not drawn")
	}
}

func TestDialogLineAndOptions(t *testing.T) {
	s, screen, _ := newRenderedScheduler(t)
	s.Push(event.Message("hello there"))
	s.Frame()
	if got := rowText(screen, 0, 0, 11); got != "hello there" {
		t.Errorf("Expected dialog line on top row, got %q", got)
	}

	s.Room().Dialog.Close()
	s.Room().Dialog.Choose([]string{"left", "right"}, func(int) {})
	s.Frame()
	if got := rowText(screen, 23, 0, 7); got != "1. left" {
		t.Errorf("Expected first option, got %q", got)
	}
	if got := rowText(screen, 24, 0, 8); got != "2. right" {
		t.Errorf("Expected second option, got %q", got)
	}
}

func TestDebugLineToggle(t *testing.T) {
	s, screen, debug := newRenderedScheduler(t)
	s.Frame()
	if got := rowText(screen, 24, 0, 2); got == "f:" {
		t.Fatal("Expected debug line hidden by default")
	}
	debug.Toggle()
	s.Frame()
	if got := rowText(screen, 24, 0, 4); got != "f:2 " {
		t.Errorf("Expected debug line for frame 2, got %q", got)
	}
}

func TestWrap(t *testing.T) {
	rows := wrap("the quick brown fox", 9)
	if len(rows) != 2 || rows[0] != "the quick" || rows[1] != "brown fox" {
		t.Errorf("Expected two rows split at a space, got %q", rows)
	}
	if got := wrap("abcdefgh", 3); len(got) != 3 || got[2] != "gh" {
		t.Errorf("Expected hard break, got %q", got)
	}
}
