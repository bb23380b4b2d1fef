package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/shotboard/internal/config"
	"github.com/ignatzorin/shotboard/internal/db"
	"github.com/ignatzorin/shotboard/internal/db/migrations"
	"github.com/ignatzorin/shotboard/internal/goroutine"
	httpHandlers "github.com/ignatzorin/shotboard/internal/http/handlers"
	httpRouter "github.com/ignatzorin/shotboard/internal/http/router"
	"github.com/ignatzorin/shotboard/internal/logger"
	"github.com/ignatzorin/shotboard/internal/repository"
	"github.com/ignatzorin/shotboard/internal/service"
	"github.com/ignatzorin/shotboard/internal/storage"
	"github.com/ignatzorin/shotboard/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Подключение к базе и миграции.
	dbConn, err := db.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, migrations.FS); err != nil {
		logger.Log.Fatalf("main: ошибка миграций: %v", err)
	}

	mediaStorage, err := storage.NewMediaStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		logger.Log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	repos := repository.New(dbConn)

	// Вебсокеты.
	hub := ws.NewHub()
	goroutine.SafeGoWithContext(ctx, "ws.hub", hub.Run)

	// Сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	cache := service.NewCacheService(ctx)

	userService := service.NewUserService(repos.Users, repos.State, hub)
	if err := userService.Load(ctx); err != nil {
		logger.Log.Fatalf("main: не удалось загрузить пользователей: %v", err)
	}

	catalogService := service.NewCatalogService(service.CatalogDeps{
		Files:       mediaStorage,
		Directories: repos.Directories,
		Tags:        repos.Tags,
		Playlists:   repos.Playlists,
		State:       repos.State,
		Events:      hub,
		Cache:       cache,
		Workers:     cfg.AggregateWorkers,
	})
	// Каталог восстанавливается до начала приёма запросов.
	if err := catalogService.Restore(ctx); err != nil {
		logger.Entry(logrus.Fields{"error": err}).Error("main: каталог не восстановлен")
	}

	backupService := service.NewBackupService(catalogService, userService, cfg.BackupPath)

	// HTTP хэндлеры.
	engine := httpRouter.SetupRouter(cfg, httpRouter.Handlers{
		Health:   httpHandlers.NewHealthHandler(dbConn, catalogService, mediaStorage.Root(), hub),
		Session:  httpHandlers.NewSessionHandler(userService, tokenManager),
		User:     httpHandlers.NewUserHandler(userService),
		Folder:   httpHandlers.NewFolderHandler(catalogService),
		Shot:     httpHandlers.NewShotHandler(catalogService),
		Tag:      httpHandlers.NewTagHandler(catalogService),
		Playlist: httpHandlers.NewPlaylistHandler(catalogService),
		Settings: httpHandlers.NewSettingsHandler(catalogService),
		State:    httpHandlers.NewStateHandler(catalogService, userService),
		Backup:   httpHandlers.NewBackupHandler(backupService),
		WS:       httpHandlers.NewWSHandler(hub, tokenManager, userService),
	}, tokenManager, userService)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала и сохраняем резервную копию.
	shutdownDone := make(chan struct{})
	goroutine.SafeGo("http.shutdown", func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Entry(logrus.Fields{"error": err}).Error("main: ошибка остановки http сервера")
		}
		if _, err := backupService.Snapshot(); err != nil {
			logger.Entry(logrus.Fields{"error": err}).Warn("main: резервная копия не сохранена")
		}
	})

	logger.Entry(logrus.Fields{"port": cfg.HTTPPort, "driver": cfg.DatabaseDriver}).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
	<-shutdownDone
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Entry(logrus.Fields{"error": err}).Error("main: ошибка закрытия базы")
	}
}
