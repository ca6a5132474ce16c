package common

import "testing"

func TestWindow(t *testing.T) {
	tests := []struct {
		name       string
		req        PaginationRequest
		total      int
		start, end int
		pages      int
	}{
		{name: "defaults", req: PaginationRequest{}, total: 3, start: 0, end: 3, pages: 1},
		{name: "second page", req: PaginationRequest{Page: 2, PageSize: 2}, total: 5, start: 2, end: 4, pages: 3},
		{name: "last partial page", req: PaginationRequest{Page: 3, PageSize: 2}, total: 5, start: 4, end: 5, pages: 3},
		{name: "past the end", req: PaginationRequest{Page: 9, PageSize: 2}, total: 5, start: 5, end: 5, pages: 3},
		{name: "empty", req: PaginationRequest{Page: 1, PageSize: 10}, total: 0, start: 0, end: 0, pages: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, meta := tt.req.Window(tt.total)
			if start != tt.start || end != tt.end {
				t.Errorf("window = [%d, %d), want [%d, %d)", start, end, tt.start, tt.end)
			}
			if meta.TotalPages != tt.pages || meta.TotalItems != int64(tt.total) {
				t.Errorf("meta = %+v", meta)
			}
		})
	}
}
