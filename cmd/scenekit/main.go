package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/lixenwraith/scenekit/config"
)

// options are the command line overrides applied over the config file
type options struct {
	configPath string
	contentDir string
	room       int
	headless   bool
	frames     int
	list       bool
	load       string
	savePath   string
	feedAddr   string
	logFile    string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("scenekit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "YAML config file")
	fs.StringVar(&o.contentDir, "content", "", "resource pack directory, empty uses the built-in demo")
	fs.IntVar(&o.room, "room", 0, "start room, overrides config")
	fs.BoolVar(&o.headless, "headless", false, "run without a terminal screen")
	fs.IntVar(&o.frames, "frames", 0, "headless: run this many frames as fast as possible, then exit")
	fs.BoolVar(&o.list, "list", false, "list saved games and exit")
	fs.StringVar(&o.load, "load", "", "save id to restore, \"latest\" for the newest")
	fs.StringVar(&o.savePath, "save", "", "save database path, overrides config")
	fs.StringVar(&o.feedAddr, "feed", "", "observer feed listen address, overrides config")
	fs.StringVar(&o.logFile, "log", "", "log file, overrides config")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

// resolveConfig loads the config file and applies flag overrides
func resolveConfig(o options) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.contentDir != "" {
		cfg.ContentDir = o.contentDir
	}
	if o.room > 0 {
		cfg.StartRoom = o.room
	}
	if o.headless {
		cfg.Headless = true
	}
	if o.savePath != "" {
		cfg.Save.Path = o.savePath
	}
	if o.feedAddr != "" {
		cfg.Feed.Addr = o.feedAddr
	}
	if o.logFile != "" {
		cfg.Log.File = o.logFile
	}
	// No speaker in headless runs
	if cfg.Headless {
		cfg.Audio.Enabled = false
	}
	return cfg, cfg.Validate()
}

func main() {
	o, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	cfg, err := resolveConfig(o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, o, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "scenekit: %v\n", err)
		os.Exit(1)
	}
}
