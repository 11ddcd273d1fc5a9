package services

import "testing"

func TestClampPage(t *testing.T) {
	tests := []struct {
		name                        string
		page, limit, defaultLimit   int
		wantPage, wantLimit, offset int
	}{
		{"defaults", 0, 0, 50, 1, 50, 0},
		{"negative page", -3, 10, 50, 1, 10, 0},
		{"normal", 3, 20, 50, 3, 20, 40},
		{"oversize limit clamps to max", 1, 10000, 50, 1, maxPageLimit, 0},
		{"limit at max passes through", 2, maxPageLimit, 50, 2, maxPageLimit, maxPageLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit, offset := clampPage(tt.page, tt.limit, tt.defaultLimit)
			if page != tt.wantPage || limit != tt.wantLimit || offset != tt.offset {
				t.Fatalf("clampPage(%d, %d, %d) = (%d, %d, %d), want (%d, %d, %d)",
					tt.page, tt.limit, tt.defaultLimit,
					page, limit, offset,
					tt.wantPage, tt.wantLimit, tt.offset)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	p := newPagination(2, 10, 25)
	if p.TotalPages != 3 {
		t.Fatalf("total pages = %d, want 3", p.TotalPages)
	}
	p = newPagination(1, 10, 0)
	if p.TotalPages != 0 {
		t.Fatalf("total pages of empty set = %d, want 0", p.TotalPages)
	}
}
