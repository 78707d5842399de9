package gateway

import "sync"

// collection names used for change notifications and the websocket feed.
const (
	ColUsers         = "users"
	ColProducts      = "products"
	ColCategories    = "categories"
	ColLocations     = "locations"
	ColPurposes      = "purposes"
	ColRegistrations = "registrations"
)

// broker fans a "collection changed" signal out to subscribers. Each
// subscriber gets a freshly fetched snapshot, pushed from the goroutine
// that committed the write.
type broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]func()
	auth   map[int]func(*Identity)
}

func newBroker() *broker {
	return &broker{
		subs: make(map[string]map[int]func()),
		auth: make(map[int]func(*Identity)),
	}
}

func (b *broker) subscribe(collection string, fire func()) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	if b.subs[collection] == nil {
		b.subs[collection] = make(map[int]func())
	}
	b.subs[collection][id] = fire
	return &Subscription{close: func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[collection], id)
	}}
}

func (b *broker) publish(collection string) {
	b.mu.Lock()
	fires := make([]func(), 0, len(b.subs[collection]))
	for _, fire := range b.subs[collection] {
		fires = append(fires, fire)
	}
	b.mu.Unlock()
	for _, fire := range fires {
		fire()
	}
}

func (b *broker) subscribeAuth(fn func(*Identity)) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.auth[id] = fn
	return &Subscription{close: func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.auth, id)
	}}
}

func (b *broker) publishAuth(identity *Identity) {
	b.mu.Lock()
	fns := make([]func(*Identity), 0, len(b.auth))
	for _, fn := range b.auth {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(identity)
	}
}
