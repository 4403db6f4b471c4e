package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"

	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkgconfig"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkglog"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkgrouter"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkgroutine"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkguid"
)

//nolint:gochecknoglobals // read once at startup
var defaults = map[string]any{
	"tz":                      "UTC",
	"log.level":               "info",
	"server.address.http":     ":8080",
	"cors.allowed_origins":    []string{"*"},
	"modules.invoice.enabled": true,
	"invoice.column":          "Invoice Amount",
	"invoice.currency_symbol": "$",
	"invoice.strict_column":   false,
	"invoice.session_ttl":     "30m",
	"invoice.sweep_interval":  "1m",
	"invoice.session_key":     "",
	"events.buffer":           512,
	"events.workers":          2,
	"events.max_retries":      3,
}

func (a *App) initConfig() {
	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"
	}

	cfg, err := pkgconfig.NewViper(path,
		pkgconfig.WithDotEnv(".env"),
		pkgconfig.WithDefaults(defaults),
	)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	pkglog.InitLogging(cfg.GetString("log.level"))

	a.config = cfg
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(100)
	a.uuid = pkguid.NewUUID()

	sf, err := pkguid.NewSnowflake()
	if err != nil {
		slog.Error("failed to init snowflake", "error", err)
		os.Exit(1)
	}
	a.snowflake = sf
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid)

	origins := a.config.GetArray("cors.allowed_origins")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{pkgrouter.HeaderCorrelationID},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

//nolint:unparam // is always nil
func (a *App) initClosers() {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}

	a.closerFn["HTTP Server"] = func(ctx context.Context) error {
		return a.httpServer.Shutdown(ctx)
	}
	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}
}
