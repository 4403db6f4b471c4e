package inbound

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkgrouter"
)

const pageTitle = "VendorCafe Invoice Amount Owed"

type PageConfig struct {
	Templates fs.FS
	Static    fs.FS
	Column    string
}

type pageData struct {
	Title  string
	Column string
	Widget WidgetResponse
}

// RegisterPage serves the widget page at "/" and its assets under /static.
func RegisterPage(r *pkgrouter.Router, uc uc, sess *Sessions, cfg PageConfig) error {
	tmpl, err := template.ParseFS(cfg.Templates, "templates/*.html")
	if err != nil {
		return err
	}

	page := &pageHandler{uc: uc, tmpl: tmpl, column: cfg.Column}
	r.Handle(http.MethodGet, "/", page, sess.Middleware())

	if cfg.Static != nil {
		r.ServeFS("/static", cfg.Static)
	}

	return nil
}

type pageHandler struct {
	uc     uc
	tmpl   *template.Template
	column string
}

func (p *pageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap, err := p.uc.State(ctx, sessionID(ctx))
	if err != nil {
		slog.ErrorContext(ctx, "failed to load widget state", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	data := pageData{
		Title:  pageTitle,
		Column: p.column,
		Widget: toWidgetResponse(snap, ""),
	}
	if err := p.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(ctx, "index template execution failed", "error", err)
	}
}
