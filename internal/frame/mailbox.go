package frame

// Mailbox holds at most one value. Put replaces whatever is waiting, so the
// reader always sees the latest value and writers never block.
type Mailbox[T any] struct {
	ch chan T
}

func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{ch: make(chan T, 1)}
}

func (m *Mailbox[T]) Put(v T) {
	for {
		select {
		case m.ch <- v:
			return
		default:
		}
		select {
		case <-m.ch:
		default:
		}
	}
}

// Take removes and returns the waiting value, if any.
func (m *Mailbox[T]) Take() (T, bool) {
	select {
	case v := <-m.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}
