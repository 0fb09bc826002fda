package controllers

import (
	"context"
	"net/http"
	"time"

	"yarn_inventory/app"
	"yarn_inventory/db"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const rootBanner = "Yarn Inventory API"

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(conn *gorm.DB) *HealthController {
	return &HealthController{DB: conn}
}

// Root answers GET / with a plain liveness banner.
func (hc *HealthController) Root(c *gin.Context) {
	c.String(http.StatusOK, rootBanner)
}

// Healthz reports 503 when the database cannot be pinged.
func (hc *HealthController) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := db.Ping(ctx, hc.DB); err != nil {
		c.JSON(http.StatusServiceUnavailable, app.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, app.H{"status": "ok"})
}
