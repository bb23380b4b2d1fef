package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/shotboard/internal/config"
	"github.com/ignatzorin/shotboard/internal/http/handlers"
	"github.com/ignatzorin/shotboard/internal/http/middleware"
	"github.com/ignatzorin/shotboard/internal/service"
	"github.com/ignatzorin/shotboard/internal/validation"
)

// Handlers собирает хэндлеры API.
type Handlers struct {
	Health   *handlers.HealthHandler
	Session  *handlers.SessionHandler
	User     *handlers.UserHandler
	Folder   *handlers.FolderHandler
	Shot     *handlers.ShotHandler
	Tag      *handlers.TagHandler
	Playlist *handlers.PlaylistHandler
	Settings *handlers.SettingsHandler
	State    *handlers.StateHandler
	Backup   *handlers.BackupHandler
	WS       *handlers.WSHandler
}

// SetupRouter регистрирует маршруты API.
func SetupRouter(cfg *config.Config, h Handlers, tokens *service.TokenManager, users middleware.UserLookup) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.MaxMultipartMemory = 32 << 20

	if h.Health != nil {
		r.GET("/health", h.Health.Health)
	}
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")
	api.GET("/ws", h.WS.Handle)

	sessionGroup := api.Group("/session")
	sessionGroup.POST("", middleware.RateLimitMiddleware(20, cfg.RateLimitPeriod), h.Session.Create)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokens, users))
	protected.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		protected.GET("/session", h.Session.Current)
		protected.GET("/users", h.User.List)

		protected.GET("/folders", h.Folder.List)
		protected.POST("/folders/upload", h.Folder.Upload)
		protected.DELETE("/folders/:name", middleware.ParamValidator("name", validation.ValidateFolderName), h.Folder.Delete)

		protected.GET("/shots", h.Shot.List)
		protected.GET("/shots/one", h.Shot.Get)
		protected.GET("/shots/prompt", h.Shot.Prompt)
		protected.PUT("/shots/cover", h.Shot.SetCover)

		protected.GET("/tags", h.Tag.List)
		protected.POST("/tags/shot", h.Tag.AddToShot)
		protected.DELETE("/tags/shot", h.Tag.RemoveFromShot)
		protected.POST("/tags/bulk", h.Tag.Bulk)
		protected.POST("/tags/global", h.Tag.AddGlobal)
		protected.PUT("/tags/global", h.Tag.RenameGlobal)
		protected.DELETE("/tags/global", h.Tag.DeleteGlobal)

		protected.GET("/playlists", h.Playlist.List)
		protected.POST("/playlists", h.Playlist.Create)
		protected.GET("/playlists/:id", h.Playlist.Get)
		protected.PUT("/playlists/:id", h.Playlist.Rename)
		protected.DELETE("/playlists/:id", h.Playlist.Delete)
		protected.POST("/playlists/:id/duplicate", h.Playlist.Duplicate)
		protected.POST("/playlists/:id/toggle", h.Playlist.Toggle)
		protected.POST("/playlists/:id/bulk", h.Playlist.BulkAdd)
		protected.PUT("/playlists/:id/share", h.Playlist.Share)

		protected.GET("/settings", h.Settings.Get)
		protected.PUT("/settings", h.Settings.Patch)
		protected.PATCH("/settings", h.Settings.Patch)

		protected.GET("/state/:doc", h.State.Get)
		protected.GET("/backup", h.Backup.Export)
	}

	admin := api.Group("/")
	admin.Use(middleware.AuthMiddleware(tokens, users), middleware.AdminOnly())
	{
		admin.POST("/users", h.User.Create)
		admin.DELETE("/users/:email", middleware.ParamValidator("email", validation.ValidateEmail), h.User.Delete)
		admin.POST("/folders/scan", h.Folder.Scan)
		admin.PUT("/state/:doc", h.State.Put)
		admin.POST("/backup/restore", h.Backup.Restore)
		admin.POST("/backup/snapshot", h.Backup.Snapshot)
	}

	return r
}
