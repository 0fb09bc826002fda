package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yarn_inventory/app"
	"yarn_inventory/client"
	"yarn_inventory/config"
	"yarn_inventory/logger"
	"yarn_inventory/routes"
	"yarn_inventory/web"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const usage = `usage: yarn_inventory [api|web]

  api  serve the JSON API (default)
  web  serve the HTML frontend`

func main() {
	cmd := "api"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	if cmd != "api" && cmd != "web" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// lengths and weights go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	if cmd == "web" {
		runWeb(cfg, logger.Named(baseLogger, "web"))
		return
	}
	runAPI(cfg, logger.Named(baseLogger, "api"))
}

func runAPI(cfg *config.Config, log *zap.Logger) {
	application := app.MustNew(cfg, log)
	defer application.Close()

	routes.RegisterRoutes(application.Router, application)

	serve(log, cfg.Server.Port, application.Router)
}

func runWeb(cfg *config.Config, log *zap.Logger) {
	apiBase, err := url.Parse(cfg.Web.APIBaseURL)
	if err != nil {
		log.Fatal("invalid API_URL", zap.String("url", cfg.Web.APIBaseURL), zap.Error(err))
	}

	api := client.NewClient(cfg.Web.APIBaseURL, cfg.Web.APITimeout)
	r, err := web.NewRouter(web.NewServer(api, log.Named("views")), apiBase, log)
	if err != nil {
		log.Fatal("loading templates", zap.Error(err))
	}

	log.Info("using API", zap.String("url", cfg.Web.APIBaseURL), zap.Duration("timeout", cfg.Web.APITimeout))
	serve(log, cfg.Web.Port, r)
}

// serve runs handler until SIGINT or SIGTERM, then drains for up to 10s.
func serve(log *zap.Logger, port string, handler *gin.Engine) {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
