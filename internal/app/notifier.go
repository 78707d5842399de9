package app

import (
	"sync"
	"time"
)

// Notice is a short-lived status banner. TTL tells clients how long to
// show it before clearing.
type Notice struct {
	Kind string        `json:"kind"` // "success" or "error"
	Text string        `json:"text"`
	TTL  time.Duration `json:"ttl"`
}

const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// Notifier fans transient notices out to listeners (the websocket hub,
// tests). Notices are fire-and-forget: nothing is stored.
type Notifier struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func(Notice)
}

func NewNotifier() *Notifier {
	return &Notifier{listeners: make(map[int]func(Notice))}
}

// Listen registers fn for every future notice and returns a stop
// function.
func (n *Notifier) Listen(fn func(Notice)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	id := n.nextID
	n.listeners[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

func (n *Notifier) Success(text string, ttl time.Duration) {
	n.publish(Notice{Kind: NoticeSuccess, Text: text, TTL: ttl})
}

func (n *Notifier) Error(text string) {
	n.publish(Notice{Kind: NoticeError, Text: text, TTL: 5 * time.Second})
}

func (n *Notifier) publish(notice Notice) {
	n.mu.Lock()
	fns := make([]func(Notice), 0, len(n.listeners))
	for _, fn := range n.listeners {
		fns = append(fns, fn)
	}
	n.mu.Unlock()
	for _, fn := range fns {
		fn(notice)
	}
}
