package marketdata

import (
	"sync"
	"time"
)

const EventOrderResult = "order_result"

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
	TS   int64  `json:"ts"`
}

// OrderResult is published after every order submission that reached the
// vendor, successful or not.
type OrderResult struct {
	JournalID  string `json:"journal_id,omitempty"`
	Symbol     string `json:"symbol"`
	Side       string `json:"side"`
	StatusCode int    `json:"status_code"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Bus fans events out to subscribers. Slow subscribers miss events rather
// than block publishers.
type Bus struct {
	mu     sync.RWMutex
	subs   map[chan Event]struct{}
	buffer int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[chan Event]struct{}), buffer: 64}
}

func (b *Bus) Subscribe() chan Event {
	ch := make(chan Event, b.buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Bus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus) Publish(evt Event) {
	if evt.TS == 0 {
		evt.TS = time.Now().UnixMilli()
	}
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
	b.mu.RUnlock()
}

func (b *Bus) PublishOrderResult(r OrderResult) {
	b.Publish(Event{Type: EventOrderResult, Data: r})
}
