package events

import "sync"

const (
	CommandStart = "command:start"
	CommandDone  = "command:done"
)

type Handler func(data any)

type subscription struct {
	id int
	fn Handler
}

// Emitter is a synchronous in-process event bus.
type Emitter struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string][]subscription
}

func NewEmitter() *Emitter {
	return &Emitter{subs: map[string][]subscription{}}
}

// On subscribes fn to name and returns a function that removes it.
func (e *Emitter) On(name string, fn Handler) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	e.subs[name] = append(e.subs[name], subscription{id: id, fn: fn})

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		subs := e.subs[name]
		for i, sub := range subs {
			if sub.id == id {
				e.subs[name] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Emit calls every handler for name in subscription order. A nil Emitter
// drops the event.
func (e *Emitter) Emit(name string, data any) {
	if e == nil {
		return
	}
	e.mu.RLock()
	subs := append([]subscription(nil), e.subs[name]...)
	e.mu.RUnlock()

	for _, sub := range subs {
		sub.fn(data)
	}
}
