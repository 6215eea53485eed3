package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mori5600/yarukoto/internal/render"
)

// FocusMode opens the single-task overlay (GET /focus/:id/).
func (ct *TaskController) FocusMode(c *gin.Context) {
	view := viewState(c)
	task, ok := ct.getOwnedTask(c)
	if !ok {
		return
	}
	body, err := ct.renderer.FocusMode(render.ItemData{Task: task, View: view})
	if err != nil {
		ct.serverError(c, "Focus mode render failed", err)
		return
	}
	html(c, http.StatusOK, body)
}

// ExitFocus closes the overlay (GET /focus/close/). The empty body replaces
// the overlay element, removing it from the DOM.
func (ct *TaskController) ExitFocus(c *gin.Context) {
	html(c, http.StatusOK, "")
}
