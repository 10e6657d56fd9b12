package dto

// QueryRequest replaces the dashboard query. Omitted selections mean "all".
type QueryRequest struct {
	Search  string `json:"search" binding:"max=256"`
	Status  string `json:"status"`
	Payment string `json:"payment"`
}

// SortRequest sets the sort column. An empty direction toggles the column
// the way a header click does; an empty key clears sorting.
type SortRequest struct {
	Key       string `json:"key"`
	Direction string `json:"direction" binding:"omitempty,oneof=asc desc"`
}

// PageRequest moves to a page and/or changes the page size. A page size
// change returns to page 1 before Page is applied.
type PageRequest struct {
	Page     *int `json:"page"`
	PageSize *int `json:"page_size" binding:"omitempty,gte=1,lte=500"`
}

// ThemeRequest sets the theme. An empty theme toggles it.
type ThemeRequest struct {
	Theme string `json:"theme" binding:"omitempty,oneof=light dark"`
}
