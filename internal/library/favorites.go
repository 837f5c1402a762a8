package library

import (
	"slices"
	"sync"
)

// Favorites is the set of favourited sound ids.
type Favorites struct {
	mu       sync.RWMutex
	ids      map[int]struct{}
	onUpdate func(ids []int) // persistence hook
}

// NewFavorites creates a set holding ids.
func NewFavorites(ids ...int) *Favorites {
	f := &Favorites{ids: make(map[int]struct{}, len(ids))}
	for _, id := range ids {
		f.ids[id] = struct{}{}
	}
	return f
}

// SetUpdateCallback sets the function called with the full sorted id list
// after every mutation that changed the set.
func (f *Favorites) SetUpdateCallback(callback func(ids []int)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onUpdate = callback
}

// Contains reports whether id is a favourite
func (f *Favorites) Contains(id int) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.ids[id]
	return ok
}

// Add marks id as favourite
func (f *Favorites) Add(id int) {
	f.mu.Lock()
	if _, ok := f.ids[id]; ok {
		f.mu.Unlock()
		return
	}
	f.ids[id] = struct{}{}
	ids, callback := f.snapshotLocked(), f.onUpdate
	f.mu.Unlock()

	notify(callback, ids)
}

// Remove unmarks id
func (f *Favorites) Remove(id int) {
	f.mu.Lock()
	if _, ok := f.ids[id]; !ok {
		f.mu.Unlock()
		return
	}
	delete(f.ids, id)
	ids, callback := f.snapshotLocked(), f.onUpdate
	f.mu.Unlock()

	notify(callback, ids)
}

// Toggle flips membership of id and returns whether it is now a favourite.
func (f *Favorites) Toggle(id int) bool {
	if f.Contains(id) {
		f.Remove(id)
		return false
	}
	f.Add(id)
	return true
}

// IDs returns the favourites in ascending order.
func (f *Favorites) IDs() []int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshotLocked()
}

// Len returns the number of favourites
func (f *Favorites) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.ids)
}

func (f *Favorites) snapshotLocked() []int {
	ids := make([]int, 0, len(f.ids))
	for id := range f.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func notify(callback func([]int), ids []int) {
	if callback != nil {
		callback(ids)
	}
}
