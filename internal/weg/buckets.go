package weg

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Side names one of the three bucket regions.
type Side int

const (
	SideLeft Side = iota
	SideCenter
	SideRight
)

var Sides = []Side{SideLeft, SideCenter, SideRight}

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideCenter:
		return "center"
	case SideRight:
		return "right"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return SideLeft, nil
	case "center", "centre":
		return SideCenter, nil
	case "right":
		return SideRight, nil
	}
	return 0, fmt.Errorf("invalid side %q (expected left, center, right)", s)
}

// Buckets holds the three ordered regions of the bar.
type Buckets struct {
	Left   []Item `json:"left" yaml:"left"`
	Center []Item `json:"center" yaml:"center"`
	Right  []Item `json:"right" yaml:"right"`
}

// Side returns a pointer to the slice backing the given region.
func (b *Buckets) Side(s Side) *[]Item {
	switch s {
	case SideLeft:
		return &b.Left
	case SideCenter:
		return &b.Center
	default:
		return &b.Right
	}
}

func (b Buckets) Len() int {
	return len(b.Left) + len(b.Center) + len(b.Right)
}

// Clone deep-copies every bucket.
func (b Buckets) Clone() Buckets {
	return Buckets{
		Left:   cloneItems(b.Left),
		Center: cloneItems(b.Center),
		Right:  cloneItems(b.Right),
	}
}

// Find locates an item by key.
func (b Buckets) Find(key string) (Item, Side, int, bool) {
	for _, side := range Sides {
		for i, it := range *b.Side(side) {
			if it.Key() == key {
				return it, side, i, true
			}
		}
	}
	return Item{}, 0, -1, false
}

// Items returns all items in left, center, right order.
func (b Buckets) Items() []Item {
	out := make([]Item, 0, b.Len())
	out = append(out, b.Left...)
	out = append(out, b.Center...)
	return append(out, b.Right...)
}

// Dedupe drops separators and every repeated key after its first
// occurrence. The dropped keys are returned.
func (b Buckets) Dedupe() (Buckets, []string) {
	seen := make(map[string]bool, b.Len())
	var dropped []string
	var out Buckets
	for _, side := range Sides {
		dst := out.Side(side)
		for _, it := range *b.Side(side) {
			if it.IsSeparator() {
				continue
			}
			k := it.Key()
			if seen[k] {
				dropped = append(dropped, k)
				continue
			}
			seen[k] = true
			*dst = append(*dst, it.Clone())
		}
	}
	return out, dropped
}

// Persistable strips runtime-only data: temporal apps and live windows.
func (b Buckets) Persistable() Buckets {
	var out Buckets
	for _, side := range Sides {
		dst := out.Side(side)
		*dst = []Item{}
		for _, it := range *b.Side(side) {
			if it.Kind == KindTemporalApp || it.IsSeparator() {
				continue
			}
			it.Opens = nil
			*dst = append(*dst, it)
		}
	}
	return out
}

// DefaultBuckets is the layout used when no pins file exists.
func DefaultBuckets() Buckets {
	return Buckets{
		Left:   []Item{{Kind: KindStart, ID: StartID}},
		Center: []Item{},
		Right:  []Item{{Kind: KindMedia, ID: MediaID}},
	}
}

// MatchKey normalises an executable path, launcher file or window class to
// the token used to attribute windows to items.
func MatchKey(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// Drop command line flags; paths may contain spaces.
	if i := strings.Index(s, " -"); i > 0 {
		s = strings.TrimSpace(s[:i])
	}
	s = filepath.Base(strings.ReplaceAll(s, `\`, "/"))
	s = strings.ToLower(s)
	for _, ext := range []string{".exe", ".desktop", ".appimage"} {
		s = strings.TrimSuffix(s, ext)
	}
	return s
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

func indexOfKey(items []Item, key string) int {
	for i, it := range items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

func insertAt(items []Item, idx int, it Item) []Item {
	items = append(items, Item{})
	copy(items[idx+1:], items[idx:])
	items[idx] = it
	return items
}
