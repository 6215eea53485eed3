package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mori5600/yarukoto/internal/render"
)

// ListPage serves the full task list page (GET /).
func (ct *TaskController) ListPage(c *gin.Context) {
	view := viewState(c)
	data, err := ct.listData(c, owner(c), view, view.Page, "")
	if err != nil {
		ct.serverError(c, "List page load failed", err)
		return
	}
	body, err := ct.renderer.ListPage(data)
	if err != nil {
		ct.serverError(c, "List page render failed", err)
		return
	}
	html(c, http.StatusOK, body)
}

// ListItems serves the bare list fragment for partial updates (GET /items/).
func (ct *TaskController) ListItems(c *gin.Context) {
	view := viewState(c)
	data, err := ct.listData(c, owner(c), view, view.Page, "")
	if err != nil {
		ct.serverError(c, "List fragment load failed", err)
		return
	}
	body, err := ct.renderer.ListFragment(data)
	if err != nil {
		ct.serverError(c, "List fragment render failed", err)
		return
	}
	html(c, http.StatusOK, body)
}

// ItemPartial serves a single row fragment, e.g. to restore a row after a
// cancelled inline edit (GET /item/:id/). With focus=1 the focus-panel
// variant is returned instead.
func (ct *TaskController) ItemPartial(c *gin.Context) {
	view := viewState(c)
	task, ok := ct.getOwnedTask(c)
	if !ok {
		return
	}
	data := render.ItemData{Task: task, View: view}
	var body string
	var err error
	if view.Focus {
		body, err = ct.renderer.FocusItem(data)
	} else {
		body, err = ct.renderer.Item(data)
	}
	if err != nil {
		ct.serverError(c, "Item fragment render failed", err)
		return
	}
	html(c, http.StatusOK, body)
}
