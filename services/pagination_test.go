package services

import "testing"

func TestResolvePagination(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", "", 1, 5},
		{"explicit", "3", "20", 3, 20},
		{"max limit kept", "1", "200", 1, 200},
		{"limit above max falls back", "1", "201", 1, 5},
		{"non numeric", "abc", "xyz", 1, 5},
		{"zero", "0", "0", 1, 5},
		{"negative", "-2", "-10", 1, 5},
		{"fractions floored", "2.7", "9.9", 2, 9},
		{"fraction below one", "0.5", "0.2", 1, 5},
		{"infinity", "Inf", "NaN", 1, 5},
		{"whitespace", " 4 ", " 7 ", 4, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := ResolvePagination(tt.page, tt.limit)
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("ResolvePagination(%q, %q) = (%d, %d), want (%d, %d)",
					tt.page, tt.limit, page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 5, 1},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{12, 5, 3},
		{400, 200, 2},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}
