package server

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/ustclug/revlines/pkg/revlines"
)

// cursor is a scanner parked between two page requests.
type cursor struct {
	name    string
	scanner *revlines.Scanner
	// lastUsed is in unix nanoseconds; reap reads it while a request may
	// restore the same cursor.
	lastUsed atomic.Int64
}

func (c *cursor) touch(t time.Time) {
	c.lastUsed.Store(t.UnixNano())
}

// cursorStore holds parked scanners. A cursor is removed while a request
// uses it, so a scanner never has two consumers.
type cursorStore struct {
	items cmap.ConcurrentMap[string, *cursor]
	ttl   time.Duration
	now   func() time.Time
}

func newCursorStore(ttl time.Duration) *cursorStore {
	return &cursorStore{
		items: cmap.New[*cursor](),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (cs *cursorStore) put(name string, sc *revlines.Scanner) string {
	id := uuid.NewString()
	c := &cursor{name: name, scanner: sc}
	c.touch(cs.now())
	cs.items.Set(id, c)
	return id
}

// restore parks a cursor again under its previous id.
func (cs *cursorStore) restore(id string, c *cursor) {
	c.touch(cs.now())
	cs.items.Set(id, c)
}

func (cs *cursorStore) take(id string) (*cursor, bool) {
	return cs.items.Pop(id)
}

func (cs *cursorStore) release(id string) bool {
	c, ok := cs.items.Pop(id)
	if ok {
		_ = c.scanner.Close()
	}
	return ok
}

// reap closes the cursors that have been idle for longer than the ttl.
func (cs *cursorStore) reap() int {
	if cs.ttl <= 0 {
		return 0
	}
	deadline := cs.now().Add(-cs.ttl).UnixNano()
	n := 0
	for id, c := range cs.items.Items() {
		if c.lastUsed.Load() >= deadline {
			continue
		}
		// A cursor restored since the snapshot carries a fresh timestamp.
		removed := cs.items.RemoveCb(id, func(_ string, v *cursor, exists bool) bool {
			return exists && v == c && v.lastUsed.Load() < deadline
		})
		if removed {
			_ = c.scanner.Close()
			n++
		}
	}
	return n
}

func (cs *cursorStore) closeAll() int {
	n := 0
	for _, id := range cs.items.Keys() {
		if cs.release(id) {
			n++
		}
	}
	return n
}

func (cs *cursorStore) count() int {
	return cs.items.Count()
}
