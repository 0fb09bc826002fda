package routes

import (
	"yarn_inventory/app"
	"yarn_inventory/controllers"
	"yarn_inventory/db"
	"yarn_inventory/service"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	svc := service.NewYarnService(db.NewRepo(a.DB), a.Logger.Named("svc.yarn"))
	yarnCtl := controllers.NewYarnController(svc)
	healthCtl := controllers.NewHealthController(a.DB)

	r.GET("/", healthCtl.Root)
	r.GET("/healthz", healthCtl.Healthz)

	yarn := r.Group("/api/yarn")
	{
		yarn.GET("", yarnCtl.List)
		yarn.GET("/:id", yarnCtl.Get)
		yarn.POST("", yarnCtl.Create)
		yarn.PUT("/:id", yarnCtl.Update)
		yarn.DELETE("/:id", yarnCtl.Delete)
	}
}
