// Package ledger
package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/tokerhq/toker-backend/types"
)

// eventLog is the append-only, totally ordered record of state-changing
// operations. Height advances once per appended entry and once per
// block tick, so time-derived consumers see ledger progress even when
// nothing is being mutated.
type eventLog struct {
	mu      sync.RWMutex
	entries []*types.Event
	height  uint64

	// notify is closed and replaced on every append; streaming
	// subscribers wait on it instead of polling.
	notify chan struct{}

	subMu     sync.Mutex
	blockSubs map[uint64]chan uint64
	nextSubID uint64
	closed    bool
}

func newEventLog() *eventLog {
	return &eventLog{
		notify:    make(chan struct{}),
		blockSubs: make(map[uint64]chan uint64),
	}
}

// append commits one entry. The caller provides the payload; the log
// owns position, height, type tag and timestamp.
func (l *eventLog) append(now int64, typ types.EventType, e *types.Event) *types.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.height++
	e.Position = uint64(len(l.entries)) + 1
	e.Height = l.height
	e.Type = typ
	e.Time = now
	l.entries = append(l.entries, e)
	close(l.notify)
	l.notify = make(chan struct{})
	return e
}

func (l *eventLog) latestHeight() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.height
}

func (l *eventLog) latestPosition() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return uint64(len(l.entries))
}

// advanceBlock moves the height without an entry and wakes block
// subscribers; price decay needs ledger progress, not events.
func (l *eventLog) advanceBlock() {
	l.mu.Lock()
	l.height++
	height := l.height
	l.mu.Unlock()

	l.subMu.Lock()
	defer l.subMu.Unlock()
	for _, ch := range l.blockSubs {
		select {
		case ch <- height:
		default:
			// Slow consumer; it will catch up on the next tick.
		}
	}
}

// replay returns all entries of typ matching filter with position in
// [from, to]. to == 0 means latest. Entries are immutable once
// appended, so replaying the same range twice yields the same sequence.
func (l *eventLog) replay(typ types.EventType, filter *types.EventFilter, from, to uint64) []*types.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if from == 0 {
		from = 1
	}
	if to == 0 || to > uint64(len(l.entries)) {
		to = uint64(len(l.entries))
	}
	var out []*types.Event
	for pos := from; pos <= to; pos++ {
		e := l.entries[pos-1]
		if e.Type != typ {
			continue
		}
		if !filter.Matches(e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// collect returns matching entries with position >= cursor plus the
// next cursor and the channel to wait on for more. The next cursor
// never moves backwards: a subscription starting beyond the tail must
// not see entries appended below its requested position.
func (l *eventLog) collect(typ types.EventType, filter *types.EventFilter, cursor uint64) ([]*types.Event, uint64, chan struct{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []*types.Event
	for pos := cursor; pos <= uint64(len(l.entries)); pos++ {
		e := l.entries[pos-1]
		if e.Type == typ && filter.Matches(e) {
			out = append(out, e)
		}
	}
	next := uint64(len(l.entries)) + 1
	if next < cursor {
		next = cursor
	}
	return out, next, l.notify
}

func (l *eventLog) stream(ctx context.Context, typ types.EventType, filter *types.EventFilter, from uint64, ch chan<- *types.Event) {
	defer close(ch)
	cursor := from
	if cursor == 0 {
		cursor = 1
	}
	for {
		batch, next, wait := l.collect(typ, filter, cursor)
		for _, e := range batch {
			select {
			case <-ctx.Done():
				return
			case ch <- e:
			}
		}
		cursor = next
		select {
		case <-ctx.Done():
			return
		case <-wait:
		}
	}
}

func (l *eventLog) addBlockSub() (uint64, chan uint64) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	l.nextSubID++
	ch := make(chan uint64, 16)
	l.blockSubs[l.nextSubID] = ch
	return l.nextSubID, ch
}

func (l *eventLog) removeBlockSub(id uint64) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	if ch, ok := l.blockSubs[id]; ok {
		delete(l.blockSubs, id)
		close(ch)
	}
}

func (l *eventLog) closeSubs() {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for id, ch := range l.blockSubs {
		delete(l.blockSubs, id)
		close(ch)
	}
}

// Subscription delivers matching log entries in order. Cancel is
// side-effect free on ledger state.
type Subscription struct {
	ch     chan *types.Event
	cancel context.CancelFunc
	once   sync.Once

	mu  sync.Mutex
	err error
}

func (s *Subscription) C() <-chan *types.Event { return s.ch }

// Err reports why the stream stopped, once C is closed. A plain Cancel
// leaves it nil.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Subscription) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// BlockSubscription delivers height ticks, used solely to refresh
// time-derived fields.
type BlockSubscription struct {
	ch     chan uint64
	cancel func()
	once   sync.Once
}

func (s *BlockSubscription) C() <-chan uint64 { return s.ch }

func (s *BlockSubscription) Cancel() {
	s.once.Do(s.cancel)
}

func (n *node) ReplayEvents(ctx context.Context, eventType types.EventType, filter *types.EventFilter, from, to uint64) ([]*types.Event, error) {
	if err := callErr(ctx); err != nil {
		return nil, err
	}
	return n.log.replay(eventType, filter, from, to), nil
}

func (n *node) SubscribeEvents(ctx context.Context, eventType types.EventType, filter *types.EventFilter, from uint64) (*Subscription, error) {
	if err := callErr(ctx); err != nil {
		return nil, err
	}
	sctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		ch:     make(chan *types.Event, 64),
		cancel: cancel,
	}
	go func() {
		n.log.stream(sctx, eventType, filter, from, sub.ch)
		if err := ctx.Err(); err != nil {
			// The parent context died; cancel on the caller's part stays
			// err-free.
			sub.setErr(fmt.Errorf("%w: %v", types.ErrLedgerUnavailable, err))
		}
	}()
	return sub, nil
}

func (n *node) SubscribeBlocks(ctx context.Context) (*BlockSubscription, error) {
	if err := callErr(ctx); err != nil {
		return nil, err
	}
	id, ch := n.log.addBlockSub()
	return &BlockSubscription{
		ch:     ch,
		cancel: func() { n.log.removeBlockSub(id) },
	}, nil
}
