package tracker

// EventKind describes why subscribers are being notified.
type EventKind int

const (
	// EventStarted follows a successful clock-in.
	EventStarted EventKind = iota + 1
	// EventStopped follows a successful clock-out.
	EventStopped
	// EventRefreshed follows a reconciliation against fetched data.
	EventRefreshed
	// EventInconsistent follows a reconciliation that saw several open entries.
	EventInconsistent
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventRefreshed:
		return "refreshed"
	case EventInconsistent:
		return "inconsistent"
	default:
		return "unknown"
	}
}

// Event is a "data changed" notification. Readers should take a fresh
// Snapshot rather than caching anything across events.
type Event struct {
	Kind  EventKind
	State State
	Err   error
}

const subscriberBuffer = 16

// Subscribe registers for change events. The returned func unsubscribes.
// The channel is closed on unsubscribe or when the tracker closes.
func (t *Tracker) Subscribe() (<-chan Event, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if t.closed {
		close(ch)
		return ch, func() {}
	}
	id := t.nextSubscriber
	t.nextSubscriber++
	t.subscribers[id] = ch

	return ch, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if existing, ok := t.subscribers[id]; ok {
			delete(t.subscribers, id)
			close(existing)
		}
	}
}

// publishLocked delivers without blocking; a full subscriber loses its
// oldest pending event.
func (t *Tracker) publishLocked(event Event) {
	for _, ch := range t.subscribers {
		select {
		case ch <- event:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- event:
		default:
		}
	}
}
