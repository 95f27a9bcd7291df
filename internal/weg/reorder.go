package weg

import "strings"

// Report describes irregularities found while decomposing a drag sequence.
type Report struct {
	MissingLeftMarker   bool     `json:"missing_left_marker,omitempty"`
	MissingCenterMarker bool     `json:"missing_center_marker,omitempty"`
	DroppedSeparators   int      `json:"dropped_separators,omitempty"`
	DuplicateItems      []string `json:"duplicate_items,omitempty"`
	UnknownItems        []string `json:"unknown_items,omitempty"`
	Reattached          int      `json:"reattached,omitempty"`
}

// Clean reports whether the sequence was well formed.
func (r Report) Clean() bool {
	return !r.MissingLeftMarker && !r.MissingCenterMarker && r.DroppedSeparators == 0 &&
		len(r.DuplicateItems) == 0 && len(r.UnknownItems) == 0
}

func (r Report) String() string {
	var parts []string
	if r.MissingLeftMarker {
		parts = append(parts, "separator 1 missing")
	}
	if r.MissingCenterMarker {
		parts = append(parts, "separator 2 missing")
	}
	if r.DroppedSeparators > 0 {
		parts = append(parts, "unexpected separators dropped")
	}
	if len(r.DuplicateItems) > 0 {
		parts = append(parts, "duplicates: "+strings.Join(r.DuplicateItems, ","))
	}
	if len(r.UnknownItems) > 0 {
		parts = append(parts, "unknown: "+strings.Join(r.UnknownItems, ","))
	}
	if len(parts) == 0 {
		return "ok"
	}
	return strings.Join(parts, "; ")
}

// Flatten builds the drag sequence left, separator 1, center, separator 2, right.
func Flatten(b Buckets) []Item {
	out := make([]Item, 0, b.Len()+2)
	out = append(out, b.Left...)
	out = append(out, Separator(Separator1ID))
	out = append(out, b.Center...)
	out = append(out, Separator(Separator2ID))
	return append(out, b.Right...)
}

// Boundary marker names used in textual drag sequences.
const (
	Sep1Marker = "sep1"
	Sep2Marker = "sep2"
)

// FlatKeys is Flatten expressed as item keys.
func FlatKeys(b Buckets) []string {
	return SequenceKeys(Flatten(b))
}

// SequenceKeys names every item of a drag sequence by its key, writing the
// boundaries as Sep1Marker and Sep2Marker.
func SequenceKeys(seq []Item) []string {
	out := make([]string, 0, len(seq))
	for _, it := range seq {
		switch {
		case it.IsSeparator() && it.ID == Separator1ID:
			out = append(out, Sep1Marker)
		case it.IsSeparator() && it.ID == Separator2ID:
			out = append(out, Sep2Marker)
		default:
			out = append(out, it.Key())
		}
	}
	return out
}

// Decompose splits a flat drag sequence back into buckets.
//
// Separator 1 closes the left bucket and separator 2 closes the center
// bucket; whatever follows the last boundary is the right bucket. Only the
// first occurrence of each marker counts, and separator 1 is ignored once
// separator 2 has been seen. Any other separator is dropped. A missing
// marker yields an empty bucket for the region it would have closed, and no
// item is ever lost: items that would have gone there move on to the next
// region.
func Decompose(seq []Item) (Buckets, Report) {
	var (
		b       Buckets
		r       Report
		pending []Item
		seen1   bool
		seen2   bool
	)
	for _, it := range seq {
		if !it.IsSeparator() {
			pending = append(pending, it)
			continue
		}
		switch {
		case it.ID == Separator1ID && !seen1 && !seen2:
			b.Left = pending
			pending = nil
			seen1 = true
		case it.ID == Separator2ID && !seen2:
			b.Center = pending
			pending = nil
			seen2 = true
		default:
			r.DroppedSeparators++
		}
	}
	b.Right = pending
	r.MissingLeftMarker = !seen1
	r.MissingCenterMarker = !seen2

	for _, side := range Sides {
		if *b.Side(side) == nil {
			*b.Side(side) = []Item{}
		}
	}

	deduped, dups := b.Dedupe()
	r.DuplicateItems = dups
	for _, side := range Sides {
		if *deduped.Side(side) == nil {
			*deduped.Side(side) = []Item{}
		}
	}
	return deduped, r
}
