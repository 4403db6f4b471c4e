package app

import (
	"context"
	"io/fs"
	"log/slog"
	"os"

	"github.com/phoenixsheppard28/vendorcafe-csv/internal/invoice"
	"github.com/phoenixsheppard28/vendorcafe-csv/web"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.invoice.enabled") {
		static, err := fs.Sub(web.StaticFS, "static")
		if err != nil {
			slog.Error("failed to mount static assets", "error", err)
			os.Exit(1)
		}

		closer, err := invoice.New(invoice.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.uuid,
			RunID:     a.snowflake,
			Templates: web.TemplatesFS,
			Static:    static,
		})
		if err != nil {
			slog.Error("failed to init module invoice", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["Invoice"] = closer
		}
	}
}
