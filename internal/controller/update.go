package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mori5600/yarukoto/internal/render"
	"github.com/mori5600/yarukoto/internal/service"
	"github.com/mori5600/yarukoto/pkg/logger"
)

// ToggleTask flips a task's completion state (POST /update/:id/). The
// response is the re-rendered row; when the toggle can change what the list
// shows, the list bundle rides along out-of-band.
func (ct *TaskController) ToggleTask(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := owner(c)
	view := viewState(c)

	task, ok := ct.getOwnedTask(c)
	if !ok {
		return
	}

	result, err := ct.svc.ToggleCompletion(ctx, task)
	if err != nil {
		ct.serverError(c, "Task toggle failed", err)
		return
	}
	logger.Info(ctx, "Task toggled", "owner_id", ownerID, "id", task.ID,
		"completed_was", result.WasCompleted, "completed_now", task.Completed)

	needsRefresh := service.NeedsRefreshOnToggle(view.Status, view.Sort)
	item := render.ItemData{Task: task, View: view}

	if view.Focus {
		ct.focusToggleResponse(c, ownerID, view, item, needsRefresh)
		return
	}

	itemHTML, err := ct.renderer.Item(item)
	if err != nil {
		ct.serverError(c, "Row render failed", err)
		return
	}

	if !needsRefresh {
		// The row stays where it is, but the progress badge still moves.
		data, err := ct.listData(c, ownerID, view, view.Page, "")
		if err != nil {
			ct.serverError(c, "Count badge load failed", err)
			return
		}
		countOOB, err := ct.renderer.CountOOB(data)
		if err != nil {
			ct.serverError(c, "Count badge render failed", err)
			return
		}
		html(c, http.StatusOK, itemHTML+countOOB)
		return
	}

	data, err := ct.listData(c, ownerID, view, view.Page, "")
	if err != nil {
		ct.serverError(c, "List refresh load failed", err)
		return
	}
	oob, err := ct.renderer.ListWithOOB(data, false, true)
	if err != nil {
		ct.serverError(c, "List refresh render failed", err)
		return
	}
	html(c, http.StatusOK, itemHTML+oob)
}

func (ct *TaskController) focusToggleResponse(c *gin.Context, ownerID string, view render.ViewState, item render.ItemData, needsRefresh bool) {
	focusHTML, err := ct.renderer.FocusItem(item)
	if err != nil {
		ct.serverError(c, "Focus item render failed", err)
		return
	}

	if needsRefresh {
		data, err := ct.listData(c, ownerID, view, view.Page, "")
		if err != nil {
			ct.serverError(c, "List refresh load failed", err)
			return
		}
		oob, err := ct.renderer.ListWithOOB(data, false, true)
		if err != nil {
			ct.serverError(c, "List refresh render failed", err)
			return
		}
		html(c, http.StatusOK, focusHTML+oob)
		return
	}

	// No list refresh needed: still patch the row behind the overlay and
	// the progress badge.
	itemOOB, err := ct.renderer.ItemOOB(item)
	if err != nil {
		ct.serverError(c, "Row patch render failed", err)
		return
	}
	data, err := ct.listData(c, ownerID, view, view.Page, "")
	if err != nil {
		ct.serverError(c, "Count badge load failed", err)
		return
	}
	countOOB, err := ct.renderer.CountOOB(data)
	if err != nil {
		ct.serverError(c, "Count badge render failed", err)
		return
	}
	html(c, http.StatusOK, focusHTML+itemOOB+countOOB)
}

// EditTask handles inline editing (GET/POST /edit/:id/). GET returns the
// edit form row; POST applies the change and returns the display row, with
// the list bundle out-of-band when the edit can affect the list.
func (ct *TaskController) EditTask(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := owner(c)
	view := viewState(c)

	task, ok := ct.getOwnedTask(c)
	if !ok {
		return
	}

	if c.Request.Method == http.MethodGet {
		body, err := ct.renderEditForm(render.ItemData{Task: task, View: view}, view.Focus)
		if err != nil {
			ct.serverError(c, "Edit form render failed", err)
			return
		}
		html(c, http.StatusOK, body)
		return
	}

	rawDescription := c.PostForm("description")
	newDescription := strings.TrimSpace(rawDescription)
	rawNotes, notesProvided := c.GetPostForm("notes")
	newNotes := strings.TrimSpace(rawNotes)

	result, err := ct.svc.UpdateContent(ctx, task, newDescription, newNotes, notesProvided)
	if err != nil {
		if service.IsValidation(err) {
			item := render.ItemData{
				Task:             task,
				View:             view,
				DraftDescription: rawDescription,
				DraftNotes:       rawNotes,
				NotesProvided:    notesProvided,
				ErrorMessage:     err.Error(),
			}
			body, rerr := ct.renderEditForm(item, view.Focus)
			if rerr != nil {
				ct.serverError(c, "Edit form render failed", rerr)
				return
			}
			html(c, http.StatusBadRequest, body)
			return
		}
		ct.serverError(c, "Task edit failed", err)
		return
	}

	if result.Changed {
		logger.Info(ctx, "Task edited", "owner_id", ownerID, "id", task.ID)
	}

	needsRefresh := service.NeedsRefreshOnEdit(result.Changed, view.Query, view.Sort)
	item := render.ItemData{Task: task, View: view}

	if view.Focus {
		ct.focusEditResponse(c, ownerID, view, item, needsRefresh)
		return
	}

	itemHTML, err := ct.renderer.Item(item)
	if err != nil {
		ct.serverError(c, "Row render failed", err)
		return
	}
	if !needsRefresh {
		html(c, http.StatusOK, itemHTML)
		return
	}

	data, err := ct.listData(c, ownerID, view, view.Page, "")
	if err != nil {
		ct.serverError(c, "List refresh load failed", err)
		return
	}
	oob, err := ct.renderer.ListWithOOB(data, false, true)
	if err != nil {
		ct.serverError(c, "List refresh render failed", err)
		return
	}
	html(c, http.StatusOK, itemHTML+oob)
}

func (ct *TaskController) renderEditForm(item render.ItemData, focus bool) (string, error) {
	if focus {
		return ct.renderer.FocusItemEdit(item)
	}
	return ct.renderer.ItemEdit(item)
}

func (ct *TaskController) focusEditResponse(c *gin.Context, ownerID string, view render.ViewState, item render.ItemData, needsRefresh bool) {
	focusHTML, err := ct.renderer.FocusItem(item)
	if err != nil {
		ct.serverError(c, "Focus item render failed", err)
		return
	}

	if needsRefresh {
		data, err := ct.listData(c, ownerID, view, view.Page, "")
		if err != nil {
			ct.serverError(c, "List refresh load failed", err)
			return
		}
		oob, err := ct.renderer.ListWithOOB(data, false, true)
		if err != nil {
			ct.serverError(c, "List refresh render failed", err)
			return
		}
		html(c, http.StatusOK, focusHTML+oob)
		return
	}

	itemOOB, err := ct.renderer.ItemOOB(item)
	if err != nil {
		ct.serverError(c, "Row patch render failed", err)
		return
	}
	html(c, http.StatusOK, focusHTML+itemOOB)
}
