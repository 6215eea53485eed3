package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mori5600/yarukoto/pkg/logger"
)

// DeleteTask removes one task (DELETE /delete/:id/) and answers with the
// refreshed list bundle for the current page. From focus mode the overlay is
// removed out-of-band and the list is patched in place.
func (ct *TaskController) DeleteTask(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := owner(c)
	view := viewState(c)

	task, ok := ct.getOwnedTask(c)
	if !ok {
		return
	}

	result, err := ct.svc.Delete(ctx, task)
	if err != nil {
		ct.serverError(c, "Task delete failed", err)
		return
	}
	logger.Info(ctx, "Task deleted", "owner_id", ownerID, "id", task.ID, "description", result.Description)

	data, err := ct.listData(c, ownerID, view, view.Page, "")
	if err != nil {
		ct.serverError(c, "List refresh load failed", err)
		return
	}

	if view.Focus {
		oob, err := ct.renderer.ListWithOOB(data, false, true)
		if err != nil {
			ct.serverError(c, "List refresh render failed", err)
			return
		}
		html(c, http.StatusOK, ct.renderer.FocusModeDeleteOOB()+oob)
		return
	}

	body, err := ct.renderer.ListWithOOB(data, true, false)
	if err != nil {
		ct.serverError(c, "List refresh render failed", err)
		return
	}
	html(c, http.StatusOK, body)
}

// DeleteAll removes every task the owner has (DELETE /delete-all/).
func (ct *TaskController) DeleteAll(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := owner(c)
	view := viewState(c)

	result, err := ct.svc.DeleteAll(ctx, ownerID)
	if err != nil {
		ct.serverError(c, "Delete all failed", err)
		return
	}
	logger.Info(ctx, "All tasks deleted", "owner_id", ownerID, "count", result.Count)

	ct.renderListBundle(c, ownerID, view, http.StatusOK, "")
}

// DeleteCompleted removes the owner's completed tasks regardless of the
// current search/filter/sort view (DELETE /delete-completed/).
func (ct *TaskController) DeleteCompleted(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := owner(c)
	view := viewState(c)

	result, err := ct.svc.DeleteCompleted(ctx, ownerID)
	if err != nil {
		ct.serverError(c, "Delete completed failed", err)
		return
	}
	logger.Info(ctx, "Completed tasks deleted", "owner_id", ownerID, "count", result.Count)

	ct.renderListBundle(c, ownerID, view, http.StatusOK, "")
}
