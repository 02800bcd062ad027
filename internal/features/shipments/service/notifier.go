package service

import "sync"

// Notifier is a plain observer-list broadcast with no replay: a notification
// reaches only the subscribers registered at that moment, late subscribers
// get nothing. Used so a create/update operation can signal other parts of
// the portal to refetch without holding a reference to them.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func()
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{
		subs: make(map[int]func()),
	}
}

// Subscribe registers fn and returns a function that removes it again.
// Subscribers must not block; callbacks run on the notifying goroutine.
func (n *Notifier) Subscribe(fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.subs[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// Notify invokes every current subscriber once, fire-and-forget.
func (n *Notifier) Notify() {
	n.mu.Lock()
	callbacks := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		callbacks = append(callbacks, fn)
	}
	n.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}
