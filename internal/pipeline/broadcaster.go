package pipeline

import (
	"sync"

	"github.com/catwatch/cat-tracker/internal/logger"
)

// Broadcaster fans the latest annotated JPEG frame out to stream viewers.
// One producer publishes; each viewer owns a small buffered channel and
// slow viewers lose frames rather than block the frame loop.
type Broadcaster struct {
	mu      sync.Mutex
	clients map[int]chan []byte
	nextID  int
	latest  []byte
	dropped uint64
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[int]chan []byte),
	}
}

// Subscribe registers a viewer and returns its id and frame channel. The
// most recent frame, if any, is queued immediately so new viewers see a
// picture before the next publish.
func (b *Broadcaster) Subscribe() (int, <-chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan []byte, 2)
	if b.latest != nil {
		ch <- b.latest
	}
	b.clients[id] = ch

	logger.Debug("Broadcaster", "viewer #%d subscribed (total %d)", id, len(b.clients))
	return id, ch
}

// Unsubscribe removes a viewer and closes its channel.
func (b *Broadcaster) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.clients[id]; ok {
		close(ch)
		delete(b.clients, id)
		logger.Debug("Broadcaster", "viewer #%d unsubscribed (remaining %d)", id, len(b.clients))
	}
}

// Publish hands a frame to every viewer, dropping it for viewers whose
// buffer is full. The number of drops across all viewers is returned.
func (b *Broadcaster) Publish(frame []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.latest = frame
	drops := 0
	for _, ch := range b.clients {
		select {
		case ch <- frame:
		default:
			drops++
		}
	}
	b.dropped += uint64(drops)
	return drops
}

// Latest returns the most recently published frame, or nil before the
// first publish.
func (b *Broadcaster) Latest() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest
}

// ClientCount returns the number of connected viewers.
func (b *Broadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}
