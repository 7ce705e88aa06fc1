package effect

import "sync"

type listenerEntry struct {
	id uint64
	fn func()
}

// listenerSet keeps callbacks in registration order. It is not safe for
// concurrent use; the owner guards it with its own mutex.
type listenerSet struct {
	nextID  uint64
	entries []listenerEntry
}

func (s *listenerSet) add(fn func()) uint64 {
	s.nextID++
	s.entries = append(s.entries, listenerEntry{id: s.nextID, fn: fn})
	return s.nextID
}

func (s *listenerSet) remove(id uint64) {
	for i, e := range s.entries {
		if e.id == id {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			return
		}
	}
}

func (s *listenerSet) snapshot() []func() {
	fns := make([]func(), len(s.entries))
	for i, e := range s.entries {
		fns[i] = e.fn
	}
	return fns
}

func fire(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}

// subscribe registers fn under mu and returns an idempotent disposer.
func subscribe(mu sync.Locker, set *listenerSet, fn func()) func() {
	mu.Lock()
	id := set.add(fn)
	mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			mu.Lock()
			set.remove(id)
			mu.Unlock()
		})
	}
}
