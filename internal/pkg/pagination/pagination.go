package pagination

import (
	"math"
	"strconv"
)

// Page is a normalized page request.
type Page struct {
	Page    int
	Limit   int
	NoLimit bool
}

// Parse reads page/limit query values. Non-numeric or non-positive input
// falls back to the defaults; limit is capped at max and page is capped so
// the offset fits in an int.
func Parse(pageRaw, limitRaw string, defLimit, max int) Page {
	p := Page{Page: 1, Limit: defLimit}
	if n, err := strconv.Atoi(pageRaw); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(limitRaw); err == nil && n > 0 {
		p.Limit = n
	}
	if max > 0 && p.Limit > max {
		p.Limit = max
	}
	p.Page = p.lastPage()
	return p
}

// lastPage returns Page capped at the largest page whose offset fits in an int.
func (p Page) lastPage() int {
	if p.Limit > 0 && p.Page > math.MaxInt/p.Limit {
		return math.MaxInt / p.Limit
	}
	return p.Page
}

func (p Page) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	return (p.lastPage() - 1) * p.Limit
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
