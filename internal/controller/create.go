package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mori5600/yarukoto/internal/params"
	"github.com/mori5600/yarukoto/internal/render"
	"github.com/mori5600/yarukoto/internal/service"
	"github.com/mori5600/yarukoto/pkg/logger"
)

// CreateTask creates a new task from the submitted form (POST /create/).
// Success and failure both answer with the full list bundle rendered for
// page 1; failures carry the message in the error banner fragment.
func (ct *TaskController) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := owner(c)
	view := viewState(c)

	description := strings.TrimSpace(c.PostForm("description"))
	result, err := ct.svc.Create(ctx, ownerID, description)
	if err != nil {
		var limitErr *service.LimitExceededError
		switch {
		case service.IsValidation(err):
			logger.Warn(ctx, "Task create rejected", "owner_id", ownerID, "reason", err.Error())
			ct.renderListBundle(c, ownerID, view, http.StatusBadRequest, err.Error())
		case errors.As(err, &limitErr):
			ct.renderListBundle(c, ownerID, view, http.StatusConflict, err.Error())
		default:
			ct.serverError(c, "Task create failed", err)
		}
		return
	}

	logger.Info(ctx, "Task created", "owner_id", ownerID, "id", result.Task.ID, "description", result.Task.Description)
	ct.renderListBundle(c, ownerID, view, http.StatusOK, "")
}

// renderListBundle answers with list+errors+count+pagination rendered for
// page 1 under the current view state.
func (ct *TaskController) renderListBundle(c *gin.Context, ownerID string, view render.ViewState, status int, errorMessage string) {
	data, err := ct.listData(c, ownerID, view, params.DefaultPage, errorMessage)
	if err != nil {
		ct.serverError(c, "List bundle load failed", err)
		return
	}
	body, err := ct.renderer.ListWithOOB(data, true, false)
	if err != nil {
		ct.serverError(c, "List bundle render failed", err)
		return
	}
	html(c, status, body)
}
