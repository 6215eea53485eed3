package params

import "testing"

func TestParseStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want Status
	}{
		{"", StatusAll},
		{"all", StatusAll},
		{"active", StatusActive},
		{"completed", StatusCompleted},
		{"  Active  ", StatusActive},
		{"COMPLETED", StatusCompleted},
		{"done", StatusAll},
		{"archived", StatusAll},
	}
	for _, c := range cases {
		if got := ParseStatus(c.raw); got != c.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestParseSortKey(t *testing.T) {
	cases := []struct {
		raw  string
		want SortKey
	}{
		{"", SortCreated},
		{"created", SortCreated},
		{"updated", SortUpdated},
		{"active_first", SortActiveFirst},
		{" UPDATED ", SortUpdated},
		{"priority", SortCreated},
	}
	for _, c := range cases {
		if got := ParseSortKey(c.raw); got != c.want {
			t.Errorf("ParseSortKey(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestParsePage(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"1", 1},
		{"7", 7},
		{"0", 1},
		{"-3", 1},
		{"abc", 1},
		{"2.5", 1},
		{" 12 ", 12},
	}
	for _, c := range cases {
		if got := ParsePage(c.raw); got != c.want {
			t.Errorf("ParsePage(%q) = %d, want %d", c.raw, got, c.want)
		}
	}
}

func TestParseSearchQuery(t *testing.T) {
	if got := ParseSearchQuery("  buy milk  "); got != "buy milk" {
		t.Errorf("ParseSearchQuery trimmed = %q", got)
	}
	if got := ParseSearchQuery(""); got != "" {
		t.Errorf("ParseSearchQuery empty = %q", got)
	}
}

func TestBuildListQuerystring(t *testing.T) {
	if got := BuildListQuerystring("", StatusAll, SortCreated); got != "" {
		t.Errorf("default state should encode to empty string, got %q", got)
	}
	if got := BuildListQuerystring("milk", StatusAll, SortCreated); got != "q=milk" {
		t.Errorf("query only = %q", got)
	}
	if got := BuildListQuerystring("", StatusActive, SortUpdated); got != "sort=updated&status=active" {
		t.Errorf("status+sort = %q", got)
	}
	if got := BuildListQuerystring("a b", StatusCompleted, SortCreated); got != "q=a+b&status=completed" {
		t.Errorf("encoded query = %q", got)
	}
}
