// Package store holds the in-memory local dataset: members, their health
// records, and the shared lab dictionary. The store is the unit of mutation;
// it is never written to durable storage directly; the sync engine moves
// snapshots of it to and from the remote record.
package store

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
)

var (
	// ErrMemberNotFound is returned for operations on unknown member ids.
	ErrMemberNotFound = errors.New("member not found")
	// ErrLastMember is returned when removing the only remaining member.
	ErrLastMember = errors.New("cannot remove the last member")
	// ErrItemNotFound is returned for operations on unknown item ids.
	ErrItemNotFound = errors.New("item not found")
	// ErrUnknownCollection is returned for an unrecognized collection name.
	ErrUnknownCollection = errors.New("unknown collection")
)

// Store is the mutable local state. All methods are safe for concurrent
// use. Every successful mutation bumps the revision and fires the change
// callback, which the sync engine uses to schedule a debounced push.
type Store struct {
	mu       sync.Mutex
	state    State
	loaded   bool
	revision uint64
	onChange func()
}

// New returns an empty, unloaded store.
func New() *Store {
	return &Store{state: State{Datasets: map[string]Dataset{}}}
}

// SetOnChange registers the callback fired after every mutation. Must be
// called before the store is shared between goroutines.
func (s *Store) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// changed must be called with the lock held; the callback itself runs
// outside the lock.
func (s *Store) changed() func() {
	s.revision++
	return s.onChange
}

func notify(fn func()) {
	if fn != nil {
		fn()
	}
}

// Revision returns the current mutation counter.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Loaded reports whether the store holds account data (from a pull or a
// defaults seed). Mutations before load never trigger pushes.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// ReplaceAll swaps in a full remote snapshot. Missing members fall back to
// the defaults so a half-empty remote record still produces a usable store.
func (s *Store) ReplaceAll(st *State) {
	s.mu.Lock()
	cp := cloneState(st)
	if len(cp.Members) == 0 {
		cp.Members = DefaultMembers()
	}
	if cp.ActiveMemberID == "" {
		cp.ActiveMemberID = cp.Members[0].ID
	}
	if cp.Datasets == nil {
		cp.Datasets = map[string]Dataset{}
	}
	if cp.Dictionary == nil {
		cp.Dictionary = DefaultDictionary()
	}
	s.state = *cp
	s.loaded = true
	s.mu.Unlock()
}

// LoadDefaults seeds the store for an account with no remote state.
func (s *Store) LoadDefaults() {
	s.ReplaceAll(DefaultState())
}

// Reset clears all data and marks the store unloaded. Used on logout.
func (s *Store) Reset() {
	s.mu.Lock()
	s.state = State{Datasets: map[string]Dataset{}}
	s.loaded = false
	s.mu.Unlock()
}

// Snapshot returns a deep copy of the current state, safe to marshal and
// push while the UI keeps mutating the store.
func (s *Store) Snapshot() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(&s.state)
}

// Members returns a copy of the member list.
func (s *Store) Members() []Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Member(nil), s.state.Members...)
}

// ActiveMember returns the currently selected member, or the first one when
// the active id is stale.
func (s *Store) ActiveMember() (Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.state.Members {
		if m.ID == s.state.ActiveMemberID {
			return m, true
		}
	}
	if len(s.state.Members) > 0 {
		return s.state.Members[0], true
	}
	return Member{}, false
}

// AddMember creates a member with an empty dataset and selects it.
func (s *Store) AddMember(name, relation, color string) Member {
	s.mu.Lock()
	m := Member{ID: newLocalID(), Name: name, Relation: relation, Color: color}
	s.state.Members = append(s.state.Members, m)
	s.state.Datasets[m.ID] = Dataset{}
	s.state.ActiveMemberID = m.ID
	fn := s.changed()
	s.mu.Unlock()
	notify(fn)
	return m
}

// UpdateMember replaces the mutable fields of an existing member.
func (s *Store) UpdateMember(id, name, relation, color string) error {
	s.mu.Lock()
	var fn func()
	for i := range s.state.Members {
		if s.state.Members[i].ID == id {
			s.state.Members[i].Name = name
			s.state.Members[i].Relation = relation
			s.state.Members[i].Color = color
			fn = s.changed()
			s.mu.Unlock()
			notify(fn)
			return nil
		}
	}
	s.mu.Unlock()
	return ErrMemberNotFound
}

// RemoveMember deletes a member and its dataset. The last member cannot be
// removed; removing the active member selects another one.
func (s *Store) RemoveMember(id string) error {
	s.mu.Lock()
	if len(s.state.Members) <= 1 {
		s.mu.Unlock()
		return ErrLastMember
	}
	idx := -1
	for i, m := range s.state.Members {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrMemberNotFound
	}
	s.state.Members = append(s.state.Members[:idx], s.state.Members[idx+1:]...)
	delete(s.state.Datasets, id)
	if s.state.ActiveMemberID == id {
		s.state.ActiveMemberID = s.state.Members[0].ID
	}
	fn := s.changed()
	s.mu.Unlock()
	notify(fn)
	return nil
}

// SetActiveMember selects the member the UI is working with.
func (s *Store) SetActiveMember(id string) error {
	s.mu.Lock()
	found := false
	for _, m := range s.state.Members {
		if m.ID == id {
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return ErrMemberNotFound
	}
	s.state.ActiveMemberID = id
	fn := s.changed()
	s.mu.Unlock()
	notify(fn)
	return nil
}

// AddItem appends a payload to one of a member's collections and returns
// the stored item with its assigned id.
func (s *Store) AddItem(memberID string, c Collection, payload json.RawMessage) (Item, error) {
	s.mu.Lock()
	ds, ok := s.state.Datasets[memberID]
	if !ok {
		if !s.hasMember(memberID) {
			s.mu.Unlock()
			return Item{}, ErrMemberNotFound
		}
		ds = Dataset{}
	}
	list := ds.list(c)
	if list == nil {
		s.mu.Unlock()
		return Item{}, fmt.Errorf("%w: %s", ErrUnknownCollection, c)
	}
	item := Item{ID: newLocalID(), Data: append(json.RawMessage(nil), payload...)}
	*list = append(*list, item)
	s.state.Datasets[memberID] = ds
	fn := s.changed()
	s.mu.Unlock()
	notify(fn)
	return item, nil
}

// UpdateItem replaces the payload of an existing item.
func (s *Store) UpdateItem(memberID string, c Collection, id string, payload json.RawMessage) error {
	s.mu.Lock()
	ds, ok := s.state.Datasets[memberID]
	if !ok {
		s.mu.Unlock()
		return ErrMemberNotFound
	}
	list := ds.list(c)
	if list == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownCollection, c)
	}
	for i := range *list {
		if (*list)[i].ID == id {
			(*list)[i].Data = append(json.RawMessage(nil), payload...)
			s.state.Datasets[memberID] = ds
			fn := s.changed()
			s.mu.Unlock()
			notify(fn)
			return nil
		}
	}
	s.mu.Unlock()
	return ErrItemNotFound
}

// RemoveItem deletes an item from a member's collection.
func (s *Store) RemoveItem(memberID string, c Collection, id string) error {
	s.mu.Lock()
	ds, ok := s.state.Datasets[memberID]
	if !ok {
		s.mu.Unlock()
		return ErrMemberNotFound
	}
	list := ds.list(c)
	if list == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownCollection, c)
	}
	for i := range *list {
		if (*list)[i].ID == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			s.state.Datasets[memberID] = ds
			fn := s.changed()
			s.mu.Unlock()
			notify(fn)
			return nil
		}
	}
	s.mu.Unlock()
	return ErrItemNotFound
}

// Items returns a copy of one collection of one member.
func (s *Store) Items(memberID string, c Collection) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds, ok := s.state.Datasets[memberID]
	if !ok {
		if !s.hasMember(memberID) {
			return nil, ErrMemberNotFound
		}
		return nil, nil
	}
	list := ds.list(c)
	if list == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, c)
	}
	return append([]Item(nil), *list...), nil
}

// SetDictionary replaces the shared lab dictionary.
func (s *Store) SetDictionary(entries []DictionaryEntry) {
	s.mu.Lock()
	s.state.Dictionary = append([]DictionaryEntry(nil), entries...)
	fn := s.changed()
	s.mu.Unlock()
	notify(fn)
}

func (s *Store) hasMember(id string) bool {
	for _, m := range s.state.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}

func cloneState(st *State) *State {
	cp := &State{
		Members:        append([]Member(nil), st.Members...),
		ActiveMemberID: st.ActiveMemberID,
		Datasets:       make(map[string]Dataset, len(st.Datasets)),
		Dictionary:     append([]DictionaryEntry(nil), st.Dictionary...),
	}
	for id, ds := range st.Datasets {
		cp.Datasets[id] = cloneDataset(ds)
	}
	return cp
}

func cloneDataset(ds Dataset) Dataset {
	out := Dataset{}
	for _, c := range Collections {
		src := ds.list(c)
		dst := out.list(c)
		for _, it := range *src {
			*dst = append(*dst, Item{ID: it.ID, Data: append(json.RawMessage(nil), it.Data...)})
		}
	}
	return out
}

// newLocalID builds a monotonic-ish unique id: unix milliseconds plus a
// short random suffix for collision tolerance within one millisecond.
func newLocalID() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + hex.EncodeToString(b[:])
}
