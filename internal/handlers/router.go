package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cafe-pos/internal/ai"
	"cafe-pos/internal/audit"
	"cafe-pos/internal/auth"
	"cafe-pos/internal/catalog"
	"cafe-pos/internal/events"
	"cafe-pos/internal/expenses"
	"cafe-pos/internal/inventory"
	"cafe-pos/internal/middleware"
	"cafe-pos/internal/models"
	"cafe-pos/internal/orders"
	"cafe-pos/internal/reports"
	"cafe-pos/internal/settings"
	"cafe-pos/internal/staff"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Deps is everything the HTTP layer needs. Assistant may be nil.
type Deps struct {
	Log       zerolog.Logger
	Tokens    *auth.TokenManager
	Audit     *audit.Log
	Hub       *events.Hub
	Orders    *orders.Service
	Reports   *reports.Engine
	Catalog   *catalog.Store
	Inventory *inventory.Store
	Expenses  *expenses.Store
	Staff     *staff.Store
	Settings  *settings.Store
	Assistant *ai.Agent

	CORSOrigins  []string
	UploadDir    string
	WebDir       string // built frontend; skipped when empty or missing
	StrictStatus bool
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// NewRouter wires every route. Reads of the menu, stock and settings and order
// creation are public; the rest needs a token, and a few need the admin role.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log), cors.New(corsConfig(d.CORSOrigins)))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "online"}) })
	if d.UploadDir != "" {
		r.Static("/uploads", d.UploadDir)
	}

	authH := &AuthHandler{Staff: d.Staff, Tokens: d.Tokens}
	orderH := &OrderHandler{Orders: d.Orders, StrictStatus: d.StrictStatus}
	catalogH := &CatalogHandler{Catalog: d.Catalog}
	stockH := &StockHandler{Inventory: d.Inventory}
	expenseH := &ExpenseHandler{Expenses: d.Expenses}
	userH := &UserHandler{Staff: d.Staff}
	reportH := &ReportHandler{Reports: d.Reports, Settings: d.Settings}
	settingsH := &SettingsHandler{Settings: d.Settings}
	logH := &LogHandler{Audit: d.Audit}
	uploadH := &UploadHandler{Dir: d.UploadDir, Audit: d.Audit}
	eventsH := &EventsHandler{Hub: d.Hub}
	aiH := &AIHandler{Agent: d.Assistant}

	requireAuth := middleware.AuthMiddleware(d.Tokens)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// --- PUBLIC ROUTES ---
	api := r.Group("/api")
	{
		api.POST("/auth", authH.Login)
		api.GET("/products", catalogH.ListProducts)
		api.GET("/categories", catalogH.ListCategories)
		api.GET("/stock", stockH.List)
		api.GET("/settings", settingsH.Get)
		api.GET("/order-statuses", orderH.Statuses)
		// Customer-facing; a staff token, when sent, is used for the audit trail
		api.POST("/orders", middleware.OptionalAuth(d.Tokens), orderH.Create)
		// EventSource cannot send headers, so the stream also takes ?token=
		api.GET("/events", middleware.StreamAuth(d.Tokens), eventsH.Stream)
	}

	// --- PROTECTED ROUTES ---
	staffAPI := api.Group("/", requireAuth)
	{
		staffAPI.POST("/products", catalogH.SaveProduct)
		staffAPI.DELETE("/products/:id", catalogH.DeleteProduct)
		staffAPI.POST("/categories", catalogH.SaveCategory)
		staffAPI.DELETE("/categories/:id", catalogH.DeleteCategory)

		staffAPI.GET("/stock/low", stockH.Low)
		staffAPI.POST("/stock", stockH.Save)
		staffAPI.DELETE("/stock/:id", stockH.Delete)

		staffAPI.GET("/expenses", expenseH.List)
		staffAPI.GET("/expenses/archived", expenseH.Archived)
		staffAPI.POST("/expenses", expenseH.Save)
		staffAPI.POST("/expenses/:id/archive", expenseH.Archive)
		staffAPI.POST("/expenses/:id/unarchive", expenseH.Unarchive)
		staffAPI.DELETE("/expenses/:id", expenseH.Delete)

		staffAPI.GET("/orders", orderH.List)
		staffAPI.GET("/orders/archived", orderH.Archived)
		staffAPI.GET("/orders/active", orderH.Active)
		staffAPI.GET("/orders/:id", orderH.Get)
		staffAPI.POST("/orders/update", orderH.Update)
		staffAPI.POST("/orders/bulk-archive", orderH.BulkArchive)
		staffAPI.POST("/orders/archive-all", orderH.ArchiveAll)
		staffAPI.POST("/orders/:id/status", orderH.SetStatus)
		staffAPI.POST("/orders/:id/payment", orderH.SetPayment)
		staffAPI.POST("/orders/:id/archive", orderH.Archive)
		staffAPI.POST("/orders/:id/unarchive", orderH.Unarchive)
		staffAPI.DELETE("/orders/:id", orderH.Delete)

		staffAPI.GET("/stats", reportH.Stats)
		staffAPI.GET("/stats/export", reportH.Export)

		staffAPI.POST("/settings", settingsH.Set)
		staffAPI.POST("/upload", uploadH.Upload)
		staffAPI.GET("/logs", logH.List)

		// ADMIN ONLY
		admin := staffAPI.Group("/", adminOnly)
		{
			admin.GET("/users", userH.List)
			admin.POST("/users", userH.Save)
			admin.DELETE("/users/:id", userH.Delete)
			admin.DELETE("/orders/clear", orderH.Clear)
			admin.DELETE("/logs/clear", logH.Clear)
			admin.POST("/ask", aiH.Ask)
		}
	}

	serveFrontend(r, d.WebDir)
	return r
}

// serveFrontend serves the built single-page app and falls back to index.html so
// client-side routes survive a refresh.
func serveFrontend(r *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		return
	}
	r.Static("/assets", filepath.Join(dir, "assets"))
	r.NoRoute(func(c *gin.Context) {
		p := c.Request.URL.Path
		if strings.HasPrefix(p, "/api") || strings.HasPrefix(p, "/uploads") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(index)
	})
}
