package service

import (
	"errors"
	"testing"
)

type fakeService struct {
	name    string
	deps    []string
	log     *[]string
	initErr error
	startOK bool
	stopped int
	args    []any
}

func (f *fakeService) Name() string           { return f.name }
func (f *fakeService) Dependencies() []string { return f.deps }
func (f *fakeService) Init(args ...any) error {
	f.args = args
	*f.log = append(*f.log, "init:"+f.name)
	return f.initErr
}
func (f *fakeService) Start() error {
	*f.log = append(*f.log, "start:"+f.name)
	if !f.startOK {
		return errors.New("boom")
	}
	return nil
}
func (f *fakeService) Stop() error {
	f.stopped++
	*f.log = append(*f.log, "stop:"+f.name)
	return nil
}

func TestHubDependencyOrder(t *testing.T) {
	var log []string
	h := NewHub(nil)
	feed := &fakeService{name: "feed", deps: []string{"store"}, log: &log, startOK: true}
	store := &fakeService{name: "store", log: &log, startOK: true}
	audio := &fakeService{name: "audio", log: &log, startOK: true}
	for _, s := range []Service{feed, store, audio} {
		if err := h.Register(s); err != nil {
			t.Fatal(err)
		}
	}

	if err := h.InitAll(map[string][]any{"store": {"path.db"}}); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	if err := h.StartAll(); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if err := h.StopAll(); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	want := []string{
		"init:audio", "init:store", "init:feed",
		"start:audio", "start:store", "start:feed",
		"stop:feed", "stop:store", "stop:audio",
	}
	if len(log) != len(want) {
		t.Fatalf("Expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, log)
		}
	}
	if len(store.args) != 1 || store.args[0] != "path.db" {
		t.Errorf("Expected store args passed through, got %v", store.args)
	}
}

func TestHubStartRollback(t *testing.T) {
	var log []string
	h := NewHub(nil)
	a := &fakeService{name: "a", log: &log, startOK: true}
	b := &fakeService{name: "b", deps: []string{"a"}, log: &log}
	h.Register(a)
	h.Register(b)

	if err := h.InitAll(nil); err != nil {
		t.Fatal(err)
	}
	if err := h.StartAll(); err == nil {
		t.Fatal("Expected start failure")
	}
	if a.stopped != 1 {
		t.Errorf("Expected a rolled back once, got %d", a.stopped)
	}
}

func TestHubCycleAndMissingDependency(t *testing.T) {
	var log []string
	h := NewHub(nil)
	h.Register(&fakeService{name: "x", deps: []string{"y"}, log: &log})
	h.Register(&fakeService{name: "y", deps: []string{"x"}, log: &log})
	if err := h.InitAll(nil); err == nil {
		t.Error("Expected cycle error")
	}

	h2 := NewHub(nil)
	h2.Register(&fakeService{name: "x", deps: []string{"ghost"}, log: &log})
	if err := h2.InitAll(nil); err == nil {
		t.Error("Expected missing dependency error")
	}
}

func TestHubDuplicateAndMustGet(t *testing.T) {
	var log []string
	h := NewHub(nil)
	s := &fakeService{name: "a", log: &log}
	h.Register(s)
	if err := h.Register(&fakeService{name: "a", log: &log}); err == nil {
		t.Error("Expected duplicate registration error")
	}
	if got := MustGet[*fakeService](h, "a"); got != s {
		t.Error("Expected MustGet to return registered instance")
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for missing service")
		}
	}()
	MustGet[*fakeService](h, "missing")
}
