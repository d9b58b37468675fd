// Package paginate holds the page/limit conventions shared by the list
// endpoints.
package paginate

import "strconv"

// Parse turns raw query values into a sane page and limit. Non-numeric or
// out-of-range values fall back to the defaults; limit is capped so a caller
// cannot request unbounded pages.
func Parse(pageStr, limitStr string, defaultLimit, maxLimit int) (page, limit int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// TotalPages is the page count for a total row count at the given limit.
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return pages
}
