// Package bootstrap assembles the application's dependency graph.
package bootstrap

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfconvert-backend/internal/convert"
	"pdfconvert-backend/internal/graph"
	"pdfconvert-backend/internal/shared/config"
	"pdfconvert-backend/internal/shared/server"
)

// App holds shared dependencies.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	Tokens         *graph.TokenProvider
	Drive          *graph.DriveClient
	ConvertService *convert.Service
	ConvertHandler *convert.Handler
}

// Build prepares shared dependencies and wires the router.
//
// Missing Graph credentials fail the build in production. Elsewhere they
// only log a warning, preserving lazy failure on first request for local
// runs against partial configuration.
func Build(cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		if cfg.IsProduction() {
			return nil, err
		}
		log.Printf("bootstrap: %v; conversion requests will fail until configured", err)
	}

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}

	tokens := graph.NewTokenProvider(cfg.LoginBaseURL, cfg.TenantID, cfg.ClientID, cfg.ClientSecret, httpClient)
	drive := graph.NewDriveClient(cfg.GraphBaseURL, cfg.DriveUserID, httpClient)

	svc := &convert.Service{Tokens: tokens, Drive: drive}
	handler := convert.NewHandler(svc, cfg.MaxUploadBytes)

	app := &App{
		Config:         cfg,
		Tokens:         tokens,
		Drive:          drive,
		ConvertService: svc,
		ConvertHandler: handler,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         cfg,
		ConvertHandler: handler,
	})

	return app, nil
}
