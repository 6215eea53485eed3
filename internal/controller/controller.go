// Package controller holds one request handler per endpoint. Handlers parse
// view state, call the query/mutation layers and compose fragment responses.
package controller

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mori5600/yarukoto/internal/middleware"
	"github.com/mori5600/yarukoto/internal/models"
	"github.com/mori5600/yarukoto/internal/params"
	"github.com/mori5600/yarukoto/internal/render"
	"github.com/mori5600/yarukoto/internal/repository"
	"github.com/mori5600/yarukoto/internal/service"
	"github.com/mori5600/yarukoto/pkg/logger"
)

// TodayCounter serves the completed-today badge value, cache-first.
type TodayCounter interface {
	CompletedToday(ctx context.Context, ownerID string) (int, error)
}

// TaskController wires the repository, mutation service and renderer behind
// the HTTP surface.
type TaskController struct {
	repo     *repository.TaskRepository
	svc      *service.TaskService
	renderer *render.Renderer
	counts   TodayCounter
	pageSize int
	ready    func(ctx context.Context) error
}

// NewTaskController builds the controller. ready reports backing-store
// readiness for the /ready probe and may be nil.
func NewTaskController(repo *repository.TaskRepository, svc *service.TaskService, renderer *render.Renderer, counts TodayCounter, pageSize int, ready func(ctx context.Context) error) *TaskController {
	if pageSize < 1 {
		pageSize = params.TasksPerPage
	}
	return &TaskController{
		repo:     repo,
		svc:      svc,
		renderer: renderer,
		counts:   counts,
		pageSize: pageSize,
		ready:    ready,
	}
}

// viewState reads the recognized list query parameters, falling back to
// defaults for anything malformed.
func viewState(c *gin.Context) render.ViewState {
	query := params.ParseSearchQuery(c.Query("q"))
	status := params.ParseStatus(c.Query("status"))
	sort := params.ParseSortKey(c.Query("sort"))
	return render.ViewState{
		Page:        params.ParsePage(c.Query("page")),
		Query:       query,
		Status:      status,
		Sort:        sort,
		Querystring: params.BuildListQuerystring(query, status, sort),
		Focus:       c.Query("focus") == "1",
	}
}

func owner(c *gin.Context) string {
	return c.GetString(middleware.OwnerKey)
}

func html(c *gin.Context, status int, body string) {
	c.Data(status, "text/html; charset=utf-8", []byte(body))
}

// listData loads the requested page and the today badge for the list bundle.
// The view page number is replaced with the post-clamp value.
func (ct *TaskController) listData(c *gin.Context, ownerID string, view render.ViewState, pageNumber int, errorMessage string) (render.ListData, error) {
	ctx := c.Request.Context()
	page, err := ct.repo.List(ctx, ownerID, pageNumber, ct.pageSize, view.Query, view.Status, view.Sort)
	if err != nil {
		return render.ListData{}, err
	}
	today, err := ct.counts.CompletedToday(ctx, ownerID)
	if err != nil {
		return render.ListData{}, err
	}
	view.Page = page.Number
	return render.ListData{
		Page:           page,
		View:           view,
		TodayCompleted: today,
		ErrorMessage:   errorMessage,
	}, nil
}

// getOwnedTask loads the task or answers 404. Absent ids and other owners'
// ids produce the same response.
func (ct *TaskController) getOwnedTask(c *gin.Context) (*models.Task, bool) {
	ctx := c.Request.Context()
	id := strings.TrimSpace(c.Param("id"))
	t, err := ct.repo.GetByID(ctx, id, owner(c))
	if errors.Is(err, repository.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		logger.Error(ctx, "Task lookup failed", "error", err, "id", id)
		c.Status(http.StatusInternalServerError)
		return nil, false
	}
	return t, true
}

func (ct *TaskController) serverError(c *gin.Context, message string, err error) {
	logger.Error(c.Request.Context(), message, "error", err)
	c.Status(http.StatusInternalServerError)
}
