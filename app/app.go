package app

import (
	"context"

	"yarn_inventory/config"
	"yarn_inventory/db"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Short aliases so handlers don't need to import gin for these.
type Ctx = gin.Context
type H = gin.H

// App bundles the API's dependencies.
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Logger *zap.Logger
}

// New builds the engine and its middlewares around an already opened
// connection. Routes are registered separately.
func New(cfg *config.Config, conn *gorm.DB, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(RequestLogger(logger.Named("http")))
	r.Use(Recovery(logger.Named("panic")))
	useCORS(r, cfg.Server.CORSOrigins)
	r.NoRoute(notFound)

	return &App{Router: r, DB: conn, Config: cfg, Logger: logger}
}

// MustNew opens the record store, ensures the table exists and builds the
// App. Any failure is fatal.
func MustNew(cfg *config.Config, logger *zap.Logger) *App {
	conn, err := db.Open(context.Background(), cfg.DB)
	if err != nil {
		logger.Fatal("database unavailable", zap.String("driver", cfg.DB.Driver), zap.Error(err))
	}
	if err := db.Migrate(conn); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	logger.Info("database ready",
		zap.String("driver", cfg.DB.Driver),
		zap.String("name", cfg.DB.Name),
		zap.Int("max_conns", cfg.DB.MaxOpenConns))

	return New(cfg, conn, logger)
}

func (a *App) Close() {
	if a.DB == nil {
		return
	}
	if err := db.Close(a.DB); err != nil {
		a.Logger.Error("closing database", zap.Error(err))
	}
}
