package weg

// MonitorInfo identifies the monitor a bar instance is attached to.
type MonitorInfo struct {
	Index     int  `json:"index"`
	IsPrimary bool `json:"is_primary"`
}

// Projector derives the per-monitor view of the raw buckets.
type Projector struct {
	Monitor   MonitorInfo
	Behaviour DisplayBehaviour
}

func NewProjector(m MonitorInfo, b DisplayBehaviour) Projector {
	return Projector{Monitor: m, Behaviour: b}
}

// Reduced reports whether items of kind are limited to the monitors their
// windows are presented on.
func (p Projector) Reduced(kind Kind) bool {
	switch p.Behaviour {
	case BehaviourPrimaryScreenAll:
		if p.Monitor.IsPrimary {
			return false
		}
		return kind == KindPinned || kind == KindTemporalApp
	case BehaviourMinimal:
		if p.Monitor.IsPrimary {
			return kind == KindTemporalApp
		}
		return kind == KindPinned || kind == KindTemporalApp
	default:
		return false
	}
}

// Visible reports whether the item appears on this monitor.
func (p Projector) Visible(it Item) bool {
	if !p.Reduced(it.Kind) || !it.HasOpens() {
		return true
	}
	for _, w := range it.Opens {
		if w.PresentativeMonitor == p.Monitor.Index {
			return true
		}
	}
	return false
}

// FilterOpens narrows the item's windows to the ones this bar lists.
func (p Projector) FilterOpens(it Item) Item {
	it = it.Clone()
	if !it.HasOpens() {
		return it
	}
	if p.Monitor.IsPrimary && p.Behaviour != BehaviourMinimal {
		return it
	}
	it.Opens = it.OpensOn(p.Monitor.Index)
	return it
}

// ProjectItem combines Visible and FilterOpens.
func (p Projector) ProjectItem(it Item) (Item, bool) {
	if !p.Visible(it) {
		return Item{}, false
	}
	return p.FilterOpens(it), true
}

// Project returns the filtered buckets for this monitor. The input is not
// modified.
func (p Projector) Project(b Buckets) Buckets {
	var out Buckets
	for _, side := range Sides {
		dst := out.Side(side)
		*dst = []Item{}
		for _, it := range *b.Side(side) {
			if projected, ok := p.ProjectItem(it); ok {
				*dst = append(*dst, projected)
			}
		}
	}
	return out
}
