package utils

import "testing"

func TestPaginate(t *testing.T) {
	testCases := []struct {
		name                          string
		page, limit                   int
		wantPage, wantLimit, wantSkip int
	}{
		{"defaults", 0, 0, 1, 10, 0},
		{"third page", 3, 20, 3, 20, 40},
		{"limit capped", 2, 500, 2, 100, 100},
		{"negative page", -4, 5, 1, 5, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page, limit, offset := Paginate(tc.page, tc.limit)
			if page != tc.wantPage || limit != tc.wantLimit || offset != tc.wantSkip {
				t.Errorf("Expected (%d, %d, %d), got (%d, %d, %d)",
					tc.wantPage, tc.wantLimit, tc.wantSkip, page, limit, offset)
			}
		})
	}
}

func TestLastPage(t *testing.T) {
	if got := LastPage(21, 10); got != 3 {
		t.Errorf("Expected 3 pages, got %d", got)
	}
	if got := LastPage(0, 10); got != 0 {
		t.Errorf("Expected 0 pages for empty set, got %d", got)
	}
}

func TestAtoiDefault(t *testing.T) {
	if got := AtoiDefault("7", 1); got != 7 {
		t.Errorf("Expected 7, got %d", got)
	}
	if got := AtoiDefault("seven", 1); got != 1 {
		t.Errorf("Expected fallback 1, got %d", got)
	}
}
