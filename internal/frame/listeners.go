package frame

import "sync"

// Listeners is a subscription list hosts use to implement OnPointerMove and
// OnResize. Emit calls every listener registered at the time of the call.
type Listeners[T any] struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func(T)
}

// Add registers fn and returns a function that removes it. Removing twice is
// harmless.
func (l *Listeners[T]) Add(fn func(T)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func(T))
	}
	l.nextID++
	id := l.nextID
	l.fns[id] = fn
	return func() {
		l.mu.Lock()
		delete(l.fns, id)
		l.mu.Unlock()
	}
}

func (l *Listeners[T]) Emit(v T) {
	l.mu.Lock()
	fns := make([]func(T), 0, len(l.fns))
	for id := range l.fns {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}

func (l *Listeners[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}
