package common

// PaginationRequest holds page query parameters
type PaginationRequest struct {
	Page     int `query:"page" validate:"omitempty,min=1"`
	PageSize int `query:"page_size" validate:"omitempty,min=1,max=200"`
}

// PaginationResponse represents pagination metadata
type PaginationResponse struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
}

// ListResponse represents a paginated list response
type ListResponse struct {
	Data       interface{}         `json:"data"`
	Pagination *PaginationResponse `json:"pagination,omitempty"`
}

const (
	DefaultPageSize = 50
)

// Window returns the [start, end) bounds of the requested page over total
// items and the matching metadata. Pages past the end are empty.
func (r PaginationRequest) Window(total int) (int, int, *PaginationResponse) {
	page, size := r.Page, r.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end, &PaginationResponse{
		Page:       page,
		PageSize:   size,
		TotalPages: (total + size - 1) / size,
		TotalItems: int64(total),
	}
}
