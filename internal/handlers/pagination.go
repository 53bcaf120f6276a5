package handlers

import (
	"strconv"
	"strings"

	"github.com/arjunvsingh/CareerExchange/internal/services"
)

const maxPageLimit = 200

// parseJobFilter reads search/limit/offset. Without any of them the full feed is listed.
func parseJobFilter(rawSearch, rawLimit, rawOffset string) services.JobFilter {
	filter := services.JobFilter{Search: strings.TrimSpace(rawSearch)}

	if limit, err := strconv.Atoi(strings.TrimSpace(rawLimit)); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	if offset, err := strconv.Atoi(strings.TrimSpace(rawOffset)); err == nil && offset >= 0 {
		filter.Offset = offset
	}
	return filter
}
