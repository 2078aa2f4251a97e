package repository

import (
	"sync"

	"apexfund/internal/models"
)

// Subscription identifies a registered listener.
type Subscription struct {
	id uint64
}

// broadcaster fans holding lists out to subscribers. Adapters embed it.
type broadcaster struct {
	mu   sync.Mutex
	next uint64
	subs map[uint64]func([]models.Holding)
}

// Subscribe registers fn and returns the handle needed to remove it.
func (b *broadcaster) Subscribe(fn func([]models.Holding)) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[uint64]func([]models.Holding))
	}
	b.next++
	b.subs[b.next] = fn
	return &Subscription{id: b.next}
}

// Unsubscribe removes the listener. Unknown or nil handles are ignored.
func (b *broadcaster) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, sub.id)
}

// active reports whether anyone is listening.
func (b *broadcaster) active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs) > 0
}

// publish calls every listener with its own copy of holdings. Listeners run
// on the caller's goroutine and must not block.
func (b *broadcaster) publish(holdings []models.Holding) {
	b.mu.Lock()
	fns := make([]func([]models.Holding), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(cloneHoldings(holdings))
	}
}

func cloneHoldings(src []models.Holding) []models.Holding {
	out := make([]models.Holding, len(src))
	for i := range src {
		out[i] = src[i].WithROI()
	}
	return out
}
