package tui

import (
	"github.com/luriusTM/Seelen-UI/internal/weg"
)

// dragSession is the in-flight flat sequence of a drag. While a session
// is active it is the authoritative order for the bar; daemon refreshes do
// not touch it until the drop is committed.
type dragSession struct {
	seq  []weg.Item
	held int
}

// startDrag picks up the item at index i of seq. Separators cannot be
// picked up.
func startDrag(seq []weg.Item, i int) (*dragSession, bool) {
	if i < 0 || i >= len(seq) || seq[i].IsSeparator() {
		return nil, false
	}
	cp := make([]weg.Item, len(seq))
	copy(cp, seq)
	return &dragSession{seq: cp, held: i}, true
}

// move shifts the held item by delta positions, crossing separators when
// it passes one. It returns the new index.
func (d *dragSession) move(delta int) int {
	target := d.held + delta
	if target < 0 || target >= len(d.seq) {
		return d.held
	}
	d.seq[d.held], d.seq[target] = d.seq[target], d.seq[d.held]
	d.held = target
	return d.held
}

// keys returns the sequence as reorder keys.
func (d *dragSession) keys() []string {
	return weg.SequenceKeys(d.seq)
}

// layoutFor composes a flat sequence for display.
func layoutFor(seq []weg.Item, s weg.Settings, p weg.Presentation) weg.Layout {
	b, _ := weg.Decompose(seq)
	return weg.Compose(b, CellSettings(s), p)
}
