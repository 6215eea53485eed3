package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health returns 200 if the process is alive. Used by load balancers.
func (ct *TaskController) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Ready returns 200 if the backing store is reachable.
func (ct *TaskController) Ready(c *gin.Context) {
	if ct.ready == nil {
		c.String(http.StatusOK, "OK")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := ct.ready(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": err.Error()})
		return
	}
	c.String(http.StatusOK, "OK")
}
