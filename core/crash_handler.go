package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
)

var (
	crashMu   sync.Mutex
	crashHook func(r any)
)

// SetCrashHook installs a cleanup function run before the process exits on panic
// Typically restores the terminal and syncs the logger
func SetCrashHook(fn func(r any)) {
	crashMu.Lock()
	crashHook = fn
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler that runs the hook and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	hook := crashHook
	crashMu.Unlock()
	if hook != nil {
		hook(r)
	}

	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()

	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
