package application

import (
	"sort"
	"sync"
)

// resourceLocks serializes scheduling work per resource (room, teacher) so
// two concurrent writes against the same resource cannot both pass conflict
// detection. Keys are acquired in sorted order to keep acquisition
// deadlock-free.
type resourceLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newResourceLocks() *resourceLocks {
	return &resourceLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *resourceLocks) lockFor(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	return lock
}

// acquire locks every key and returns the release function. Duplicate and
// empty keys are ignored.
func (l *resourceLocks) acquire(keys ...string) func() {
	unique := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}
	sort.Strings(unique)

	held := make([]*sync.Mutex, 0, len(unique))
	for _, key := range unique {
		lock := l.lockFor(key)
		lock.Lock()
		held = append(held, lock)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func roomLockKey(roomID string) string {
	return "room:" + roomID
}

func teacherLockKey(teacherID string) string {
	return "teacher:" + teacherID
}
