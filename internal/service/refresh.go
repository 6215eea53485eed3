package service

import "github.com/mori5600/yarukoto/internal/params"

// NeedsRefreshOnToggle decides whether toggling a task's completion requires
// re-rendering the whole list. Any non-default status filter can move the
// task in or out of view; active_first reorders on completion and updated
// reorders on the refreshed timestamp.
func NeedsRefreshOnToggle(status params.Status, sort params.SortKey) bool {
	return status != params.StatusAll ||
		sort == params.SortActiveFirst ||
		sort == params.SortUpdated
}

// NeedsRefreshOnEdit decides whether an edit requires re-rendering the whole
// list. A no-op edit never does. A search query can match or stop matching
// the new description; the updated sort reorders on the refreshed timestamp.
// Edits do not reorder under active_first, which only tracks completion.
func NeedsRefreshOnEdit(changed bool, query string, sort params.SortKey) bool {
	if !changed {
		return false
	}
	return query != "" || sort == params.SortUpdated
}
