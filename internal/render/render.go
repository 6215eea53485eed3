// Package render composes the HTML fragments the frontend swaps in. Each
// endpoint returns an explicit allow-list of fragments; anything that is not
// the primary response body carries an hx-swap-oob marker so the client
// patches the matching DOM node in place.
package render

import (
	"embed"
	"html/template"
	"strconv"
	"strings"

	"github.com/mori5600/yarukoto/internal/models"
	"github.com/mori5600/yarukoto/internal/params"
	"github.com/mori5600/yarukoto/internal/repository"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DOM ids the fragments target.
const (
	TaskListID   = "task-list"
	PaginationID = "pagination-info"
	TaskCountID  = "task-count"
	FormErrorsID = "task-form-errors"
	FocusModeID  = "task-focus-mode"
)

// ViewState is the list view the request was made from: page, search, filter
// and sort, plus the canonical querystring that reproduces it.
type ViewState struct {
	Page        int
	Query       string
	Status      params.Status
	Sort        params.SortKey
	Querystring string
	Focus       bool
}

// PageQS renders "page=N" plus the view querystring, for building fragment
// URLs. The value is server-built and already url-encoded.
func (v ViewState) PageQS(page int) template.URL {
	qs := "page=" + strconv.Itoa(page)
	if v.Querystring != "" {
		qs += "&" + v.Querystring
	}
	return template.URL(qs)
}

// QS renders the view querystring for the current page.
func (v ViewState) QS() template.URL {
	return v.PageQS(v.Page)
}

// ListData feeds the list, count, pagination and error fragments.
type ListData struct {
	Page           repository.Page
	View           ViewState
	TodayCompleted int
	ErrorMessage   string
}

// Items wraps each task on the page for the row template.
func (d ListData) Items() []ItemData {
	out := make([]ItemData, 0, len(d.Page.Tasks))
	for i := range d.Page.Tasks {
		out = append(out, ItemData{Task: &d.Page.Tasks[i], View: d.View})
	}
	return out
}

// ItemData feeds the row fragments. Draft values carry rejected form input
// back into the edit form.
type ItemData struct {
	Task             *models.Task
	View             ViewState
	DraftDescription string
	DraftNotes       string
	NotesProvided    bool
	ErrorMessage     string
}

// EditDescription returns the value the edit form should show: the rejected
// draft after a validation failure, the stored description otherwise.
func (d ItemData) EditDescription() string {
	if d.ErrorMessage != "" {
		return d.DraftDescription
	}
	return d.Task.Description
}

// EditNotes is EditDescription for the notes field.
func (d ItemData) EditNotes() string {
	if d.ErrorMessage != "" && d.NotesProvided {
		return d.DraftNotes
	}
	return d.Task.Notes
}

// Renderer holds the parsed template set.
type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) exec(name string, data any) (string, error) {
	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// addOOB tags the element with the given id for an out-of-band swap.
func addOOB(html, elementID, oobValue string) string {
	return strings.Replace(html,
		`id="`+elementID+`"`,
		`id="`+elementID+`" hx-swap-oob="`+oobValue+`"`,
		1)
}

// ListPage renders the full HTML page.
func (r *Renderer) ListPage(d ListData) (string, error) {
	return r.exec("task_list_page", d)
}

// ListFragment renders the bare list fragment (GET /items/).
func (r *Renderer) ListFragment(d ListData) (string, error) {
	return r.exec("task_list", d)
}

// ListWithOOB composes the standard list bundle: the list itself (as the
// primary body, an OOB innerHTML patch, or both), then the error banner,
// count badge and pagination summary as OOB fragments, in that order.
func (r *Renderer) ListWithOOB(d ListData, includeMainList, includeListOOB bool) (string, error) {
	var listHTML string
	if includeMainList || includeListOOB {
		var err error
		listHTML, err = r.exec("task_list", d)
		if err != nil {
			return "", err
		}
	}

	errorsHTML, err := r.exec("form_errors", d)
	if err != nil {
		return "", err
	}
	countHTML, err := r.exec("task_count", d)
	if err != nil {
		return "", err
	}
	paginationHTML, err := r.exec("pagination_info", d)
	if err != nil {
		return "", err
	}

	var parts []string
	if includeMainList {
		parts = append(parts, listHTML)
	}
	if includeListOOB {
		parts = append(parts, `<div id="`+TaskListID+`" hx-swap-oob="innerHTML">`+listHTML+`</div>`)
	}
	parts = append(parts,
		addOOB(errorsHTML, FormErrorsID, "true"),
		addOOB(countHTML, TaskCountID, "true"),
		addOOB(paginationHTML, PaginationID, "true"),
	)
	return strings.Join(parts, ""), nil
}

// Item renders one task row.
func (r *Renderer) Item(d ItemData) (string, error) {
	return r.exec("task_item", d)
}

// ItemOOB renders one task row tagged to replace its existing DOM node.
func (r *Renderer) ItemOOB(d ItemData) (string, error) {
	html, err := r.exec("task_item", d)
	if err != nil {
		return "", err
	}
	return addOOB(html, "task-item-"+d.Task.ID, "outerHTML"), nil
}

// ItemEdit renders the inline edit form row.
func (r *Renderer) ItemEdit(d ItemData) (string, error) {
	return r.exec("task_item_edit", d)
}

// CountOOB renders the count badge as an OOB fragment.
func (r *Renderer) CountOOB(d ListData) (string, error) {
	html, err := r.exec("task_count", d)
	if err != nil {
		return "", err
	}
	return addOOB(html, TaskCountID, "true"), nil
}

// FocusMode renders the focus overlay for one task.
func (r *Renderer) FocusMode(d ItemData) (string, error) {
	return r.exec("focus_mode", d)
}

// FocusItem renders the task body inside the focus overlay.
func (r *Renderer) FocusItem(d ItemData) (string, error) {
	return r.exec("focus_item", d)
}

// FocusItemEdit renders the edit form inside the focus overlay.
func (r *Renderer) FocusItemEdit(d ItemData) (string, error) {
	return r.exec("focus_item_edit", d)
}

// FocusModeDeleteOOB removes the focus overlay from the DOM.
func (r *Renderer) FocusModeDeleteOOB() string {
	return `<div id="` + FocusModeID + `" hx-swap-oob="delete"></div>`
}
