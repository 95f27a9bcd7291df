package platform

import "testing"

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"disjoint", Rect{0, 0, 10, 10}, Rect{20, 20, 5, 5}, Rect{}},
		{"touching edge", Rect{0, 0, 10, 10}, Rect{10, 0, 10, 10}, Rect{}},
		{"partial", Rect{0, 0, 10, 10}, Rect{5, 5, 10, 10}, Rect{5, 5, 5, 5}},
		{"contained", Rect{0, 0, 100, 100}, Rect{10, 20, 30, 40}, Rect{10, 20, 30, 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Fatalf("Intersect() = %+v, want %+v", got, tt.want)
			}
			if got := tt.a.Overlaps(tt.b); got != !tt.want.Empty() {
				t.Fatalf("Overlaps() = %v", got)
			}
		})
	}
}

func TestDisplayIndexFor(t *testing.T) {
	displays := []Display{
		{ID: 0, Bounds: Rect{0, 0, 1920, 1080}, Primary: true},
		{ID: 1, Bounds: Rect{1920, 0, 1280, 1024}},
	}
	tests := []struct {
		name   string
		bounds Rect
		want   int
	}{
		{"first", Rect{100, 100, 800, 600}, 0},
		{"second", Rect{2000, 100, 800, 600}, 1},
		{"straddling, center on second", Rect{1800, 0, 600, 400}, 1},
		{"off-screen center, mostly on second", Rect{2500, 900, 500, 400}, 1},
		{"nowhere", Rect{-5000, -5000, 10, 10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayIndexFor(displays, tt.bounds); got != tt.want {
				t.Fatalf("DisplayIndexFor() = %d, want %d", got, tt.want)
			}
		})
	}
}
