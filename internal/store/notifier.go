package store

import "sync"

// ChangeEvent announces that rows in a table were mutated locally. Subscribers
// only learn which table changed; they re-read whatever they need.
type ChangeEvent struct {
	Table string
}

// Notifier is a minimal table-change fanout. Services publish after every
// local mutation; the sync scheduler and any UI shell subscribe. The notifier
// does not know who listens or why.
type Notifier struct {
	mu   sync.RWMutex
	subs map[int]subscription
	next int
}

type subscription struct {
	tables map[string]bool // empty means all tables
	ch     chan ChangeEvent
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]subscription)}
}

// Subscribe registers interest in the given tables (all tables when none are
// named). The returned cancel func must be called to release the channel.
// The channel is buffered and Publish never blocks: a subscriber that lags
// behind misses intermediate events but always receives the latest nudge.
func (n *Notifier) Subscribe(tables ...string) (<-chan ChangeEvent, func()) {
	filter := make(map[string]bool, len(tables))
	for _, t := range tables {
		filter[t] = true
	}
	ch := make(chan ChangeEvent, 16)

	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = subscription{tables: filter, ch: ch}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		if sub, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(sub.ch)
		}
		n.mu.Unlock()
	}
	return ch, cancel
}

// Publish fans the event out to matching subscribers without blocking.
func (n *Notifier) Publish(ev ChangeEvent) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, sub := range n.subs {
		if len(sub.tables) > 0 && !sub.tables[ev.Table] {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}
