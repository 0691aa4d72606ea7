package cart

import (
	"sync"
)

// Listener receives every committed mutation together with the resulting items.
// Listeners run after the store lock is released and may call back into the store.
type Listener func(Notice, []Item)

type SubscriptionID uint64

// AddResult reports the outcome of Add so callers can tell "added" from "updated".
type AddResult struct {
	Quantity int
	Updated  bool
}

// Store is the session-scoped quote cart. The zero value is not usable; call NewStore.
type Store struct {
	mu        sync.RWMutex
	items     []Item
	index     map[string]int
	listeners map[SubscriptionID]Listener
	nextSub   SubscriptionID
}

func NewStore() *Store {
	return &Store{
		index:     map[string]int{},
		listeners: map[SubscriptionID]Listener{},
	}
}

// Add appends the product or, when its id is already present, increments the
// existing quantity by quantity.
func (s *Store) Add(p Product, quantity int) (AddResult, error) {
	if err := p.validate(); err != nil {
		return AddResult{}, err
	}
	if quantity < 1 {
		return AddResult{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	var notice Notice
	var result AddResult
	if pos, ok := s.index[p.ID]; ok {
		s.items[pos].Quantity += quantity
		notice = updatedNotice(s.items[pos])
		result = AddResult{Quantity: s.items[pos].Quantity, Updated: true}
	} else {
		item := newItem(p, quantity)
		s.index[p.ID] = len(s.items)
		s.items = append(s.items, item)
		notice = addedNotice(item, quantity)
		result = AddResult{Quantity: quantity}
	}
	snapshot, listeners := s.commitLocked()
	s.mu.Unlock()

	notify(listeners, notice, snapshot)
	return result, nil
}

// Remove drops the item. Unknown ids are ignored.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	item, ok := s.removeLocked(id)
	if !ok {
		s.mu.Unlock()
		return
	}
	snapshot, listeners := s.commitLocked()
	s.mu.Unlock()

	notify(listeners, removedNotice(item), snapshot)
}

// UpdateQuantity sets an absolute quantity. Zero or negative values remove the item.
func (s *Store) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 {
		s.Remove(id)
		return
	}

	s.mu.Lock()
	pos, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	s.items[pos].Quantity = max(quantity, 1)
	notice := updatedNotice(s.items[pos])
	snapshot, listeners := s.commitLocked()
	s.mu.Unlock()

	notify(listeners, notice, snapshot)
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.index = map[string]int{}
	snapshot, listeners := s.commitLocked()
	s.mu.Unlock()

	notify(listeners, clearedNotice(), snapshot)
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Get returns the line for id.
func (s *Store) Get(id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.index[id]
	if !ok {
		return Item{}, false
	}
	return s.items[pos], true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// TotalItems is the sum of all quantities, recomputed on every call.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TotalItems(s.items)
}

// Subscribe registers fn for future mutations.
func (s *Store) Subscribe(fn Listener) SubscriptionID {
	if fn == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	s.listeners[s.nextSub] = fn
	return s.nextSub
}

// Unsubscribe removes a listener; unknown ids are ignored.
func (s *Store) Unsubscribe(id SubscriptionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, id)
}

func (s *Store) removeLocked(id string) (Item, bool) {
	pos, ok := s.index[id]
	if !ok {
		return Item{}, false
	}
	item := s.items[pos]
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.items); i++ {
		s.index[s.items[i].ID] = i
	}
	return item, true
}

func (s *Store) commitLocked() ([]Item, []Listener) {
	if len(s.listeners) == 0 {
		return nil, nil
	}
	listeners := make([]Listener, 0, len(s.listeners))
	for id := SubscriptionID(1); id <= s.nextSub; id++ {
		if fn, ok := s.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	return s.snapshotLocked(), listeners
}

func (s *Store) snapshotLocked() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func notify(listeners []Listener, notice Notice, snapshot []Item) {
	for _, fn := range listeners {
		fn(notice, snapshot)
	}
}
