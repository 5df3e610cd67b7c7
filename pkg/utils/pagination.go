package utils

import (
	"math"
	"net/http"
	"strconv"
)

type Meta struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	Limit       int   `json:"limit"`
}

func GetPaginationDetails(r *http.Request) (int, int, int) {
	limitStr := r.URL.Query().Get("limit")
	limit := 10
	if val, err := strconv.Atoi(limitStr); err == nil && val > 0 {
		limit = val
	}
	if limit > 100 {
		limit = 100
	}

	pageStr := r.URL.Query().Get("page")
	page := 1
	if val, err := strconv.Atoi(pageStr); err == nil && val > 0 {
		page = val
	}

	offset := (page - 1) * limit
	return limit, offset, page
}

func BuildMeta(count int64, limit, page int) Meta {
	return Meta{
		TotalItems:  count,
		TotalPages:  int(math.Ceil(float64(count) / float64(limit))),
		CurrentPage: page,
		Limit:       limit,
	}
}
