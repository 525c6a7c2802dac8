package executor

import (
	"context"
	"sync"

	"github.com/specialistvlad/scripthub/internal/ctxlog"
)

// Observer receives run snapshots in the order they were produced. Publish
// is called from the run goroutine and should return quickly.
type Observer interface {
	Publish(Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

// Publish calls f(s).
func (f ObserverFunc) Publish(s Snapshot) { f(s) }

// MultiObserver fans every snapshot out to each observer in turn.
type MultiObserver []Observer

// Publish implements Observer.
func (m MultiObserver) Publish(s Snapshot) {
	for _, o := range m {
		o.Publish(s)
	}
}

// ChanObserver delivers snapshots on a buffered channel. When the buffer is
// full the oldest pending snapshot is dropped, so the newest one is always
// delivered.
type ChanObserver struct {
	mu sync.Mutex
	ch chan Snapshot
}

// NewChanObserver returns a ChanObserver with the given buffer size (at
// least one).
func NewChanObserver(size int) *ChanObserver {
	if size < 1 {
		size = 1
	}
	return &ChanObserver{ch: make(chan Snapshot, size)}
}

// C returns the delivery channel.
func (o *ChanObserver) C() <-chan Snapshot { return o.ch }

// Publish implements Observer.
func (o *ChanObserver) Publish(s Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for {
		select {
		case o.ch <- s:
			return
		default:
		}
		select {
		case <-o.ch:
		default:
		}
	}
}

// LatestObserver keeps the most recent snapshot.
type LatestObserver struct {
	mu     sync.RWMutex
	latest Snapshot
	ok     bool
}

// Publish implements Observer.
func (o *LatestObserver) Publish(s Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.latest, o.ok = s, true
}

// Latest returns the last published snapshot, if any.
func (o *LatestObserver) Latest() (Snapshot, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.latest, o.ok
}

// LogObserver writes a debug line per snapshot to the context's logger.
type LogObserver struct {
	ctx context.Context
}

// NewLogObserver returns a LogObserver logging through ctx's logger.
func NewLogObserver(ctx context.Context) *LogObserver {
	return &LogObserver{ctx: ctx}
}

// Publish implements Observer.
func (o *LogObserver) Publish(s Snapshot) {
	ctxlog.FromContext(o.ctx).Debug("Run state published.",
		"run_id", s.RunID,
		"state", s.State.String(),
		"current_node", s.CurrentNodeID,
		"outputs", len(s.Outputs),
	)
}
