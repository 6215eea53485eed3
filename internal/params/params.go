// Package params parses and canonicalizes list query parameters.
// Parsing never fails: unrecognized or malformed input falls back to defaults.
package params

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage          = 1
	TasksPerPage         = 10
	DescriptionMaxLength = 255
	NotesMaxLength       = 1000
)

// Status filters the list by completion state.
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

const DefaultStatus = StatusAll

// SortKey orders the list.
type SortKey string

const (
	SortCreated     SortKey = "created"
	SortUpdated     SortKey = "updated"
	SortActiveFirst SortKey = "active_first"
)

const DefaultSortKey = SortCreated

// ParseStatus normalizes a raw status value. Unrecognized or empty input
// yields StatusAll.
func ParseStatus(raw string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusActive:
		return StatusActive
	case StatusCompleted:
		return StatusCompleted
	case StatusAll:
		return StatusAll
	default:
		return DefaultStatus
	}
}

// ParseSortKey normalizes a raw sort key. Unrecognized or empty input
// yields SortCreated.
func ParseSortKey(raw string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(raw))) {
	case SortUpdated:
		return SortUpdated
	case SortActiveFirst:
		return SortActiveFirst
	case SortCreated:
		return SortCreated
	default:
		return DefaultSortKey
	}
}

// ParseSearchQuery trims a raw search string. Absent input yields "".
func ParseSearchQuery(raw string) string {
	return strings.TrimSpace(raw)
}

// ParsePage converts a raw page number. Parse failures and values below 1
// yield DefaultPage.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return DefaultPage
	}
	return n
}

// BuildListQuerystring encodes the list view state (search, filter, sort) as
// a query string, omitting values that match the defaults. The page number is
// appended separately by templates. Returns "" for the all-default state.
func BuildListQuerystring(query string, status Status, sort SortKey) string {
	vals := url.Values{}
	if query != "" {
		vals.Set("q", query)
	}
	if status != DefaultStatus {
		vals.Set("status", string(status))
	}
	if sort != DefaultSortKey {
		vals.Set("sort", string(sort))
	}
	return vals.Encode()
}
