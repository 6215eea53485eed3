package render

import (
	"strings"
	"testing"
	"time"

	"github.com/mori5600/yarukoto/internal/models"
	"github.com/mori5600/yarukoto/internal/params"
	"github.com/mori5600/yarukoto/internal/repository"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	return r
}

func sampleTask() *models.Task {
	return &models.Task{
		ID:          "abc-123",
		OwnerID:     "alice",
		Description: "Buy milk",
		Notes:       "the 2% kind",
		CreatedAt:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func sampleListData(tasks ...models.Task) ListData {
	return ListData{
		Page: repository.Page{
			Tasks:      tasks,
			TotalCount: len(tasks),
			NumPages:   1,
			Number:     1,
			PerPage:    10,
		},
		View: ViewState{
			Page:   1,
			Status: params.StatusAll,
			Sort:   params.SortCreated,
		},
		TodayCompleted: 2,
	}
}

func TestListWithOOBFragmentOrder(t *testing.T) {
	r := newRenderer(t)
	out, err := r.ListWithOOB(sampleListData(*sampleTask()), true, false)
	if err != nil {
		t.Fatal(err)
	}

	listIdx := strings.Index(out, `id="task-item-abc-123"`)
	errIdx := strings.Index(out, `id="`+FormErrorsID+`" hx-swap-oob="true"`)
	countIdx := strings.Index(out, `id="`+TaskCountID+`" hx-swap-oob="true"`)
	pageIdx := strings.Index(out, `id="`+PaginationID+`" hx-swap-oob="true"`)
	if listIdx < 0 || errIdx < 0 || countIdx < 0 || pageIdx < 0 {
		t.Fatalf("missing fragment in:\n%s", out)
	}
	if !(listIdx < errIdx && errIdx < countIdx && countIdx < pageIdx) {
		t.Fatalf("fragment order wrong: list=%d errors=%d count=%d pagination=%d",
			listIdx, errIdx, countIdx, pageIdx)
	}
	if strings.Contains(out, `id="`+TaskListID+`" hx-swap-oob`) {
		t.Fatal("main-body list must not carry an OOB marker")
	}
}

func TestListWithOOBAsListPatch(t *testing.T) {
	r := newRenderer(t)
	out, err := r.ListWithOOB(sampleListData(*sampleTask()), false, true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<div id="`+TaskListID+`" hx-swap-oob="innerHTML">`) {
		t.Fatalf("list OOB wrapper missing in:\n%s", out)
	}
	if !strings.Contains(out, "Buy milk") {
		t.Fatal("task row missing from list patch")
	}
}

func TestListWithOOBCarriesError(t *testing.T) {
	r := newRenderer(t)
	d := sampleListData(*sampleTask())
	d.ErrorMessage = "Description is required."
	out, err := r.ListWithOOB(d, true, false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Description is required.") {
		t.Fatalf("error message missing in:\n%s", out)
	}
}

func TestListFragmentEmptyState(t *testing.T) {
	r := newRenderer(t)
	out, err := r.ListFragment(sampleListData())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "<li") {
		t.Fatalf("empty list rendered rows:\n%s", out)
	}
}

func TestItemOOBTagsOwnRow(t *testing.T) {
	r := newRenderer(t)
	out, err := r.ItemOOB(ItemData{Task: sampleTask(), View: ViewState{Page: 1}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `id="task-item-abc-123" hx-swap-oob="outerHTML"`) {
		t.Fatalf("row OOB marker missing in:\n%s", out)
	}
}

func TestItemEscapesUserContent(t *testing.T) {
	r := newRenderer(t)
	task := sampleTask()
	task.Description = `<script>alert("x")</script>`
	out, err := r.Item(ItemData{Task: task, View: ViewState{Page: 1}})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "<script>alert") {
		t.Fatalf("description not escaped:\n%s", out)
	}
}

func TestItemEditShowsDraftOnError(t *testing.T) {
	r := newRenderer(t)
	d := ItemData{
		Task:             sampleTask(),
		View:             ViewState{Page: 1},
		DraftDescription: "rejected draft",
		DraftNotes:       "draft notes",
		NotesProvided:    true,
		ErrorMessage:     "Description must be 255 characters or fewer.",
	}
	out, err := r.ItemEdit(d)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "rejected draft") || !strings.Contains(out, "draft notes") {
		t.Fatalf("draft values missing in:\n%s", out)
	}
	if !strings.Contains(out, "Description must be 255 characters or fewer.") {
		t.Fatal("validation message missing")
	}
}

func TestFocusModeDeleteOOB(t *testing.T) {
	r := newRenderer(t)
	out := r.FocusModeDeleteOOB()
	if out != `<div id="task-focus-mode" hx-swap-oob="delete"></div>` {
		t.Fatalf("delete patch = %s", out)
	}
}

func TestViewStateQuerystrings(t *testing.T) {
	v := ViewState{
		Page:        2,
		Query:       "milk",
		Status:      params.StatusActive,
		Sort:        params.SortUpdated,
		Querystring: params.BuildListQuerystring("milk", params.StatusActive, params.SortUpdated),
	}
	if got := string(v.PageQS(3)); got != "page=3&q=milk&sort=updated&status=active" {
		t.Fatalf("PageQS = %q", got)
	}
	if got := string(v.QS()); got != "page=2&q=milk&sort=updated&status=active" {
		t.Fatalf("QS = %q", got)
	}

	plain := ViewState{Page: 1, Status: params.StatusAll, Sort: params.SortCreated}
	if got := string(plain.QS()); got != "page=1" {
		t.Fatalf("default QS = %q", got)
	}
}
