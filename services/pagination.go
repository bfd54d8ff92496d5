package services

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 200
)

// ResolvePagination turns raw page/limit query values into usable numbers.
// Values that are not finite positive numbers, and limits above MaxLimit, fall back
// to DefaultPage and DefaultLimit instead of being rejected. Fractions are floored.
func ResolvePagination(pageRaw, limitRaw string) (page, limit int) {
	page = positiveOr(pageRaw, DefaultPage)
	limit = positiveOr(limitRaw, DefaultLimit)
	if limit > MaxLimit {
		limit = DefaultLimit
	}
	return page, limit
}

func positiveOr(raw string, fallback int) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fallback
	}
	// Guard the int conversion; anything this large is out of range anyway.
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	n := int(math.Floor(v))
	if n < 1 {
		return fallback
	}
	return n
}

// TotalPages is ceil(total/limit), never less than one.
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		return 1
	}
	return pages
}
