package network

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/engine"
	"github.com/lixenwraith/scenekit/status"
)

// Feed streams scheduler snapshots to websocket observers
// Publish runs on the frame loop; it encodes once and enqueues without blocking
type Feed struct {
	mu      sync.RWMutex
	clients map[string]*client
	closed  bool

	every int64 // publish every n-th frame
	log   *zap.Logger

	upgrader websocket.Upgrader

	statObservers *atomic.Int64
	dropped       atomic.Int64
}

// NewFeed creates a feed publishing every n-th frame, n below one means every frame
func NewFeed(every int, reg *status.Registry, log *zap.Logger) *Feed {
	if reg == nil {
		reg = status.NewRegistry()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Feed{
		clients: make(map[string]*client),
		every:   int64(max(every, 1)),
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Local debugging tool, any origin may watch
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		statObservers: reg.Ints.Get(status.KeyObservers),
	}
}

// Publish implements engine.Observer
func (f *Feed) Publish(snap engine.Snapshot) {
	if snap.Frame%f.every != 0 {
		return
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.clients) == 0 {
		return
	}

	b, err := encode(Message{Type: MsgSnapshot, Snapshot: &snap})
	if err != nil {
		f.log.Error("snapshot encode failed", zap.Error(err))
		return
	}
	for _, c := range f.clients {
		if !c.enqueue(b) {
			f.dropped.Add(1)
		}
	}
}

// ServeHTTP upgrades the request and registers the observer
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.log.Warn("observer upgrade failed", zap.Error(err))
		return
	}

	c := newClient(uuid.NewString(), ws)
	if !f.add(c) {
		ws.Close()
		return
	}
	hello, _ := encode(Message{Type: MsgHello, ClientID: c.id})
	c.enqueue(hello)

	f.log.Info("observer connected", zap.String("client", c.id), zap.String("remote", r.RemoteAddr))
	core.Go(c.writePump)
	core.Go(func() { c.readPump(func() { f.remove(c.id) }) })
}

func (f *Feed) add(c *client) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	f.clients[c.id] = c
	f.statObservers.Store(int64(len(f.clients)))
	return true
}

func (f *Feed) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[id]
	if !ok {
		return
	}
	delete(f.clients, id)
	c.close()
	f.statObservers.Store(int64(len(f.clients)))
	f.log.Info("observer disconnected", zap.String("client", id))
}

// Count returns the number of connected observers
func (f *Feed) Count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

// Dropped returns messages discarded for lagging observers
func (f *Feed) Dropped() int64 {
	return f.dropped.Load()
}

// Close disconnects every observer and refuses new ones
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	for id, c := range f.clients {
		c.close()
		delete(f.clients, id)
	}
	f.statObservers.Store(0)
}
