package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/kth-biblioteket/fragematning/internal/config"
	"github.com/kth-biblioteket/fragematning/internal/handler"
	"github.com/kth-biblioteket/fragematning/internal/middleware"
	"github.com/kth-biblioteket/fragematning/internal/realtime"
	"github.com/kth-biblioteket/fragematning/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine: API routes under the app path and
// the static client shell for everything else.
func SetupRouter(cfg *config.Config, db *gorm.DB, hub *realtime.Hub) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	entryStore := store.NewEntryStore(db)
	categoryStore := store.NewCategoryStore(db)
	questionStore := store.NewQuestionStore(db)

	authHandler := handler.NewAuthHandler(cfg)
	entryHandler := handler.NewEntryHandler(entryStore, questionStore, hub, cfg)
	categoryHandler := handler.NewCategoryHandler(categoryStore)
	questionHandler := handler.NewQuestionHandler(questionStore)
	reportHandler := handler.NewReportHandler(entryStore, cfg)
	logHandler := handler.NewLogHandler(db)
	backupHandler := handler.NewBackupHandler(db, cfg.Backup.Dir)

	base := r.Group(cfg.App.Path)

	// exempt from the auth gates: login, logout and the read-only
	// entries listing
	base.POST("/api/v1/login", authHandler.Login)
	base.POST("/api/v1/logout", authHandler.Logout)
	base.GET("/entries", entryHandler.List)

	// authorize handles its own token semantics (redirect to login on a
	// missing cookie), so it sits outside the gate as well
	base.GET("/authorize", authHandler.Authorize)

	authed := base.Group("")
	authed.Use(middleware.AuthRequired(cfg), middleware.AuditMiddleware(db))

	authed.GET("/categories", categoryHandler.List)
	authed.GET("/questions", questionHandler.List)
	authed.PUT("/questions", questionHandler.Upsert)
	authed.DELETE("/questions/:id", questionHandler.Delete)
	authed.POST("/add", entryHandler.Create)
	authed.GET("/undo/:id", entryHandler.Undo)
	authed.GET("/events", handler.Events(hub))
	authed.GET("/reports/results", reportHandler.Results)
	authed.GET("/reports/today", reportHandler.Today)

	admin := base.Group("")
	admin.Use(middleware.AdminRequired(cfg), middleware.AuditMiddleware(db))

	admin.PUT("/categories", categoryHandler.Upsert)
	admin.DELETE("/categories/:id", categoryHandler.Delete)
	admin.GET("/logs", logHandler.List)
	admin.POST("/backups", backupHandler.Create)
	admin.GET("/backups", backupHandler.List)
	admin.GET("/backups/:name/download", backupHandler.Download)
	admin.DELETE("/backups/:name", backupHandler.Delete)

	// static client shell; unrecognized sub-paths fall back to index.html
	// for client-side routing
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || !strings.HasPrefix(c.Request.URL.Path, cfg.App.Path) {
			c.Status(http.StatusNotFound)
			return
		}
		rel := strings.TrimPrefix(c.Request.URL.Path, cfg.App.Path)
		full := filepath.Join(cfg.App.StaticDir, filepath.Clean("/"+rel))
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			c.File(full)
			return
		}
		c.File(filepath.Join(cfg.App.StaticDir, "index.html"))
	})

	return r
}
