package store

import "testing"

func TestClampPage(t *testing.T) {
	tests := []struct {
		name              string
		limit, offset     int
		wantLim, wantOffs int
	}{
		{"defaults", 0, 0, defaultListLimit, 0},
		{"negative offset", 10, -5, 10, 0},
		{"cap", maxListLimit + 1, 3, maxListLimit, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, o := clampPage(tt.limit, tt.offset)
			if l != tt.wantLim || o != tt.wantOffs {
				t.Errorf("clampPage(%d, %d) = (%d, %d), want (%d, %d)",
					tt.limit, tt.offset, l, o, tt.wantLim, tt.wantOffs)
			}
		})
	}
}

func TestTrimPage(t *testing.T) {
	items, more := trimPage([]int{1, 2, 3}, 2)
	if !more || len(items) != 2 {
		t.Errorf("trimPage = %v, %v; want 2 items and hasMore", items, more)
	}

	items, more = trimPage([]int{1}, 2)
	if more || len(items) != 1 {
		t.Errorf("trimPage = %v, %v; want 1 item and no more", items, more)
	}
}
