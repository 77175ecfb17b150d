package handler

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dukerupert/grocerybuddy/internal/auth"
	"github.com/dukerupert/grocerybuddy/internal/grocery"
	"github.com/dukerupert/grocerybuddy/internal/model"
	"github.com/dukerupert/grocerybuddy/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages renders the server-side HTML views.
type Pages struct {
	templates map[string]*template.Template
	logger    *slog.Logger
}

func NewPages(logger *slog.Logger) *Pages {
	pages := &Pages{templates: make(map[string]*template.Template), logger: logger}
	for _, name := range []string{"login.html", "register.html", "dashboard.html"} {
		pages.templates[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name))
	}
	return pages
}

// render executes into a buffer first so a template error never leaves a
// half-written page behind a 200.
func (p *Pages) render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := p.templates[name]
	if !ok {
		p.logger.Error("unknown template", "name", name)
		http.Error(w, genericErrorMessage, http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		p.logger.Error("template error", "name", name, "error", err)
		http.Error(w, genericErrorMessage, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

type DashboardHandler struct {
	items  *service.GroceryService
	pages  *Pages
	logger *slog.Logger
}

func NewDashboardHandler(items *service.GroceryService, pages *Pages, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{items: items, pages: pages, logger: logger}
}

type dashboardData struct {
	Title      string
	User       auth.Identity
	Items      []model.GroceryItem
	Stats      grocery.Stats
	Filter     grocery.Filter
	Filters    []grocery.Filter
	Categories []model.Category
}

// Dashboard renders the caller's list. An unknown ?filter= falls back to all.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	filter, err := grocery.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		filter = grocery.FilterAll
	}

	items, stats, err := h.items.View(r.Context(), id, filter)
	if err != nil {
		h.logger.Error("load dashboard", "error", err, "user_id", id.UserID)
		http.Error(w, genericErrorMessage, http.StatusInternalServerError)
		return
	}

	h.pages.render(w, http.StatusOK, "dashboard.html", dashboardData{
		Title:      "Dashboard",
		User:       id,
		Items:      items,
		Stats:      stats,
		Filter:     filter,
		Filters:    []grocery.Filter{grocery.FilterAll, grocery.FilterActive, grocery.FilterCompleted},
		Categories: model.Categories,
	})
}

// Root sends signed-in users to the dashboard and everyone else to login.
// Any other unmatched path is a 404.
func Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}
	if _, ok := auth.FromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
