package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/scenekit/audio"
	"github.com/lixenwraith/scenekit/config"
	"github.com/lixenwraith/scenekit/content"
	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/engine"
	"github.com/lixenwraith/scenekit/event"
	"github.com/lixenwraith/scenekit/input"
	"github.com/lixenwraith/scenekit/logging"
	"github.com/lixenwraith/scenekit/network"
	"github.com/lixenwraith/scenekit/render"
	"github.com/lixenwraith/scenekit/save"
	"github.com/lixenwraith/scenekit/service"
	"github.com/lixenwraith/scenekit/status"
)

// game owns the running scheduler and routes player commands to it
type game struct {
	sched  *engine.Scheduler
	clock  *engine.ClockScheduler
	saves  *save.Service
	debug  *render.DebugRenderer
	log    *zap.Logger
	cancel context.CancelFunc
}

func run(ctx context.Context, cfg *config.Config, o options, stdout io.Writer) error {
	log, closer, err := logging.New(logging.Options{
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		JSON:       cfg.Log.JSON,
	})
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer closer.Close()

	reg := status.NewRegistry()
	hub := service.NewHub(log)
	audioSvc := audio.NewService(log.Named("audio"))
	saveSvc := save.NewService(log.Named("save"))
	feedSvc := network.NewService(log.Named("feed"))
	for _, svc := range []service.Service{audioSvc, saveSvc, feedSvc} {
		if err := hub.Register(svc); err != nil {
			return err
		}
	}
	err = hub.InitAll(map[string][]any{
		audioSvc.Name(): {&audio.Config{
			Enabled:      cfg.Audio.Enabled,
			MasterVolume: cfg.Audio.MasterVolume,
			SFXVolume:    cfg.Audio.SFXVolume,
			MusicVolume:  cfg.Audio.MusicVolume,
			SampleRate:   cfg.Audio.SampleRate,
		}},
		saveSvc.Name(): {cfg.Save.Path},
		feedSvc.Name(): {cfg.Feed.Addr, reg},
	})
	if err != nil {
		return err
	}
	if err := hub.StartAll(); err != nil {
		return err
	}
	defer hub.StopAll()

	if o.list {
		return listSaves(ctx, saveSvc, stdout)
	}

	pack, err := content.Load(cfg.ContentDir)
	if err != nil {
		return fmt.Errorf("content: %w", err)
	}
	hooks := engine.NewRegistry()
	content.Register(hooks)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g := &game{saves: saveSvc, log: log, cancel: cancel}

	var (
		screen tcell.Screen
		source input.Source
		poller *input.Poller
	)
	if !cfg.Headless {
		screen, err = tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("screen init: %w", err)
		}
		screen.EnableMouse()
		screen.SetStyle(render.StyleDefault)
		screen.Clear()
		poller = input.NewPoller(nil)
		source = poller
	}
	var finiOnce sync.Once
	fini := func() {
		if screen != nil {
			finiOnce.Do(screen.Fini)
		}
	}
	defer fini()
	core.SetCrashHook(func(any) {
		fini()
		log.Sync()
	})

	g.sched = engine.NewScheduler(engine.Options{
		Loader:   pack,
		Hooks:    hooks,
		Input:    source,
		Audio:    audioSvc.Player(),
		Observer: feedSvc.Observer(),
		OnAction: g.onAction,
		Status:   reg,
		Log:      log.Named("scene"),
	})
	defer g.sched.Close()

	if o.load != "" {
		if err := g.load(runCtx, o.load); err != nil {
			return err
		}
	} else if err := g.sched.Enter(core.RoomID(cfg.StartRoom)); err != nil {
		return err
	}

	// Fast-forward without a clock
	if cfg.Headless && o.frames > 0 {
		for i := 0; i < o.frames && runCtx.Err() == nil; i++ {
			g.sched.Frame()
		}
		snap := g.sched.Snapshot()
		fmt.Fprintf(stdout, "ran %s frames, room %d at (%d,%d)\n",
			humanize.Comma(snap.Frame), snap.Room, snap.Actor.X, snap.Actor.Y)
		return nil
	}

	g.clock = engine.NewClockScheduler(g.sched, nil, cfg.FrameInterval, reg, log.Named("clock"))

	var orch *render.RenderOrchestrator
	if screen != nil {
		orch = render.NewRenderOrchestrator(screen)
		g.debug = render.RegisterScene(orch, reg)
		g.sched.SetRenderer(orch)
		poller.OnImmediate(input.ActionPause, func() { g.clock.TogglePause() })
		poller.OnImmediate(input.ActionQuit, cancel)
	}

	eg, egCtx := errgroup.WithContext(runCtx)
	if poller != nil {
		eg.Go(func() error {
			defer cancel()
			poller.Run(egCtx, screen, func() { g.clock.Submit(orch.Resize) })
			return nil
		})
	}
	eg.Go(func() error {
		<-egCtx.Done()
		g.clock.Stop()
		// Unblocks the poller
		fini()
		return nil
	})

	g.clock.Start()
	log.Info("scenekit running",
		zap.Int("room", cfg.StartRoom),
		zap.Bool("headless", cfg.Headless),
		zap.Duration("frame_interval", cfg.FrameInterval))
	err = eg.Wait()
	log.Info("scenekit stopped", zap.Uint64("frames", g.clock.Frames()))
	return err
}

// onAction runs on the loop goroutine; state swaps are deferred to between frames
func (g *game) onAction(a input.Action) {
	switch a {
	case input.ActionSave:
		g.between(g.save)
	case input.ActionLoad:
		g.between(func() {
			if err := g.load(context.Background(), "latest"); err != nil {
				g.notify("Nothing to load.")
			}
		})
	case input.ActionDebug:
		if g.debug != nil {
			g.debug.Toggle()
		}
	case input.ActionPause:
		if g.clock != nil {
			g.clock.TogglePause()
		}
	case input.ActionQuit:
		g.cancel()
	}
}

func (g *game) between(fn func()) {
	if g.clock == nil || !g.clock.Submit(fn) {
		fn()
	}
}

func (g *game) save() {
	store, err := g.saves.Store()
	if err != nil {
		g.log.Warn("save skipped", zap.Error(err))
		return
	}
	label := ""
	if room := g.sched.Room().Room; room != nil {
		label = room.Name
	}
	id, err := store.Save(context.Background(), label, g.sched.Capture())
	if err != nil {
		g.log.Error("save failed", zap.Error(err))
		g.notify("Save failed.")
		return
	}
	g.log.Info("game saved", zap.String("id", id), zap.String("room", label))
	g.notify("Saved.")
}

// load restores save id, "latest" picks the newest
func (g *game) load(ctx context.Context, id string) error {
	store, err := g.saves.Store()
	if err != nil {
		return err
	}
	var st engine.SaveState
	if id == "latest" {
		st, err = store.Latest(ctx)
	} else {
		st, err = store.Load(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", id, err)
	}
	if err := g.sched.Restore(st); err != nil {
		return err
	}
	g.log.Info("game loaded", zap.String("id", id), zap.Int("room", int(st.Room)))
	return nil
}

// notify shows a short line without blocking scripts
func (g *game) notify(text string) {
	g.sched.Push(event.SceneEvent{Type: event.EventMessage, Payload: event.MessagePayload{
		Lines:  []event.MessageLine{{Text: text}},
		Frames: 30,
		Async:  true,
	}})
}

func listSaves(ctx context.Context, saves *save.Service, w io.Writer) error {
	store, err := saves.Store()
	if errors.Is(err, save.ErrDisabled) {
		fmt.Fprintln(w, "saving is disabled")
		return nil
	}
	if err != nil {
		return err
	}
	infos, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintln(w, "no saves")
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(w, "%s  room %-3d %-12s %s\n", info.ID, info.Room, info.Label, humanize.Time(info.Created))
	}
	return nil
}
