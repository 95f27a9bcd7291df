package weg

import (
	"fmt"
	"reflect"
	"sync"
)

// AppWindows groups the live windows of one application as reported by the
// window system. Identities are candidate match tokens such as the
// executable path and the window class.
type AppWindows struct {
	ExecutionCommand string
	Path             string
	Identities       []string
	Windows          []OpenedWindow
}

// Store owns the raw, unprojected buckets. All mutations replace whole
// buckets so readers never observe a partially applied change.
type Store struct {
	mu      sync.RWMutex
	buckets Buckets
	newID   func() string
}

// NewStore creates a store seeded with initial. newID generates ids for
// temporal apps.
func NewStore(initial Buckets, newID func() string) *Store {
	b, _ := initial.Dedupe()
	return &Store{buckets: b, newID: newID}
}

// Buckets returns a deep copy of the current buckets.
func (s *Store) Buckets() Buckets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buckets.Clone()
}

// Item looks up an item by key.
func (s *Store) Item(key string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, _, _, ok := s.buckets.Find(key)
	return it.Clone(), ok
}

// Replace swaps all three buckets at once. Duplicate keys keep their first
// occurrence; the dropped keys are returned.
func (s *Store) Replace(b Buckets) []string {
	deduped, dropped := b.Dedupe()
	s.mu.Lock()
	s.buckets = deduped
	s.mu.Unlock()
	return dropped
}

// ApplyReorder commits a drag sequence produced from a projected view.
//
// Items are rehydrated from the store by key so that windows filtered out
// by the projection are kept. Items the projection hid from the sequence are
// put back into their previous bucket right after the nearest preceding item
// they followed before, or at the front when none remains.
func (s *Store) ApplyReorder(seq []Item) (Buckets, Report) {
	next, report := Decompose(seq)

	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.buckets

	present := make(map[string]bool, next.Len())
	for _, side := range Sides {
		dst := next.Side(side)
		kept := (*dst)[:0]
		for _, it := range *dst {
			raw, _, _, ok := old.Find(it.Key())
			if !ok {
				report.UnknownItems = append(report.UnknownItems, it.Key())
				continue
			}
			present[raw.Key()] = true
			kept = append(kept, raw.Clone())
		}
		*dst = kept
	}

	for _, side := range Sides {
		prev := *old.Side(side)
		dst := next.Side(side)
		for i, it := range prev {
			if present[it.Key()] {
				continue
			}
			idx := 0
			for k := i - 1; k >= 0; k-- {
				if j := indexOfKey(*dst, prev[k].Key()); j >= 0 {
					idx = j + 1
					break
				}
			}
			*dst = insertAt(*dst, idx, it.Clone())
			present[it.Key()] = true
			report.Reattached++
		}
	}

	s.buckets = next
	return next.Clone(), report
}

// SyncWindows attributes live windows to pinned items, creates temporal
// apps for unmatched applications and drops temporal apps that no longer
// have windows. It reports whether anything changed.
func (s *Store) SyncWindows(apps []AppWindows) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.buckets.Clone()
	index := make(map[string]*Item)
	for _, side := range Sides {
		items := *next.Side(side)
		for i := range items {
			it := &items[i]
			if !it.HasOpens() {
				continue
			}
			it.Opens = nil
			for _, k := range []string{MatchKey(it.ExecutionCommand), MatchKey(it.Path)} {
				if k == "" {
					continue
				}
				// Pinned items win over temporal apps for the same key.
				if prev, ok := index[k]; ok && prev.Kind == KindPinned {
					continue
				}
				index[k] = it
			}
		}
	}

	// Capacity is fixed up front so pointers into created stay valid.
	created := make([]Item, 0, len(apps))
	for _, app := range apps {
		if len(app.Windows) == 0 {
			continue
		}
		var target *Item
		for _, id := range append([]string{app.ExecutionCommand, app.Path}, app.Identities...) {
			if t, ok := index[MatchKey(id)]; ok {
				target = t
				break
			}
		}
		if target != nil {
			target.Opens = append(target.Opens, app.Windows...)
			continue
		}
		// Apps without a known executable fall back to their first identity.
		cmd := app.ExecutionCommand
		if cmd == "" && len(app.Identities) > 0 {
			cmd = app.Identities[0]
		}
		if cmd == "" {
			continue
		}
		created = append(created, Item{
			Kind:             KindTemporalApp,
			ID:               s.newID(),
			ExecutionCommand: cmd,
			Path:             app.Path,
			Opens:            append([]OpenedWindow(nil), app.Windows...),
		})
		// Later groups for the same app join the new item.
		for _, k := range []string{MatchKey(cmd), MatchKey(app.Path)} {
			if k != "" {
				index[k] = &created[len(created)-1]
			}
		}
	}

	for _, side := range Sides {
		dst := next.Side(side)
		kept := (*dst)[:0]
		for _, it := range *dst {
			if it.Kind == KindTemporalApp && len(it.Opens) == 0 {
				continue
			}
			kept = append(kept, it)
		}
		*dst = kept
	}
	next.Center = append(next.Center, created...)

	if reflect.DeepEqual(next, s.buckets) {
		return false
	}
	s.buckets = next
	return true
}

// ReplacePinned installs buckets read from the pins file while keeping the
// runtime state: windows of pinned items and temporal apps not mentioned in
// the file.
func (s *Store) ReplacePinned(b Buckets) []string {
	next, dropped := b.Dedupe()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, side := range Sides {
		items := *next.Side(side)
		for i := range items {
			if old, _, _, ok := s.buckets.Find(items[i].Key()); ok && items[i].HasOpens() {
				items[i].Opens = old.Clone().Opens
			}
		}
	}
	for _, side := range Sides {
		for _, it := range *s.buckets.Side(side) {
			if it.Kind != KindTemporalApp {
				continue
			}
			if _, _, _, ok := next.Find(it.Key()); !ok {
				next.Center = append(next.Center, it.Clone())
			}
		}
	}
	s.buckets = next
	return dropped
}

// Pin turns a temporal app into a pinned item in place.
func (s *Store) Pin(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, side, idx, ok := s.buckets.Find(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, key)
	}
	next := s.buckets.Clone()
	items := *next.Side(side)
	switch items[idx].Kind {
	case KindPinned:
		return nil
	case KindTemporalApp:
		items[idx].Kind = KindPinned
	default:
		return fmt.Errorf("cannot pin %s item %s", items[idx].Kind, key)
	}
	s.buckets = next
	return nil
}

// Unpin removes a pinned item, or demotes it to a temporal app while it
// still has windows.
func (s *Store) Unpin(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, side, idx, ok := s.buckets.Find(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, key)
	}
	next := s.buckets.Clone()
	dst := next.Side(side)
	it := (*dst)[idx]
	switch {
	case it.Kind == KindTemporalApp:
		return nil
	case it.Kind == KindPinned && len(it.Opens) > 0:
		(*dst)[idx].Kind = KindTemporalApp
	default:
		*dst = append((*dst)[:idx], (*dst)[idx+1:]...)
	}
	s.buckets = next
	return nil
}
