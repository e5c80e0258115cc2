package utils

import (
	"math"
	"strconv"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Paginate clamps page and limit and returns them with the row offset.
func Paginate(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit, (page - 1) * limit
}

func LastPage(total int64, limit int) int {
	if limit < 1 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// AtoiDefault parses s, falling back when s is empty or malformed.
func AtoiDefault(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
