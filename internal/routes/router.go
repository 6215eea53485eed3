package routes

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mori5600/yarukoto/internal/controller"
	"github.com/mori5600/yarukoto/internal/middleware"
)

//go:embed static
var staticFS embed.FS

// Router wires every endpoint. Requests with an unsupported verb on a known
// path answer 405.
func Router(ctrl *controller.TaskController) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID())
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.Status(http.StatusMethodNotAllowed)
	})

	// Health for load balancers and probes
	router.GET("/health", ctrl.Health)
	router.GET("/ready", ctrl.Ready)

	assets, _ := fs.Sub(staticFS, "static")
	router.StaticFS("/static", http.FS(assets))

	// Browser page: unauthenticated callers are redirected to login
	page := router.Group("")
	page.Use(middleware.Auth(true))
	page.GET("/", ctrl.ListPage)

	// Fragment and mutation endpoints: unauthenticated callers get 401
	api := router.Group("")
	api.Use(middleware.Auth(false))
	{
		api.GET("/items/", ctrl.ListItems)
		api.POST("/create/", ctrl.CreateTask)
		api.POST("/update/:id/", ctrl.ToggleTask)
		api.GET("/edit/:id/", ctrl.EditTask)
		api.POST("/edit/:id/", ctrl.EditTask)
		api.GET("/item/:id/", ctrl.ItemPartial)
		api.GET("/focus/close/", ctrl.ExitFocus)
		api.GET("/focus/:id/", ctrl.FocusMode)
		api.DELETE("/delete/:id/", ctrl.DeleteTask)
		api.DELETE("/delete-all/", ctrl.DeleteAll)
		api.DELETE("/delete-completed/", ctrl.DeleteCompleted)
	}

	return router
}
