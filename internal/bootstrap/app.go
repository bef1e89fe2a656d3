package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	backend "github.com/redis/go-redis/v9"

	"resume-dashboard/internal/dashboard"
	"resume-dashboard/internal/documents"
	"resume-dashboard/internal/scores"
	"resume-dashboard/internal/services/health"
	"resume-dashboard/internal/shared/auth"
	"resume-dashboard/internal/shared/config"
	"resume-dashboard/internal/shared/server"
	"resume-dashboard/internal/shared/storage/db"
	"resume-dashboard/internal/shared/storage/object"
	localstore "resume-dashboard/internal/shared/storage/object/local"
	s3store "resume-dashboard/internal/shared/storage/object/s3"
)

// App holds shared dependencies and the router built from them.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Redis            *backend.Client
	Store            object.ObjectStore
	Verifier         *auth.Verifier
	Health           *health.Service
	ScoresService    *scores.Service
	DocumentsService *documents.Service
	Registry         *dashboard.Registry
	DashboardHandler *dashboard.Handler
	DocumentsHandler *documents.Handler
	ScoresHandler    *scores.Handler
}

// Build connects the configured backends and wires services, handlers and routes.
// Without DATABASE_URL in dev, repositories are in memory; without REDIS_ADDR,
// dashboard sessions are not persisted.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	verifier, err := auth.NewVerifier(cfg.JWTSecret, cfg.Env)
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Redis:    buildRedis(cfg),
		Store:    store,
		Verifier: verifier,
		Health:   health.NewService(),
	}
	if err := buildServices(app); err != nil {
		return nil, err
	}
	registerHealthChecks(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		Verifier:         app.Verifier,
		Health:           app.Health,
		DashboardHandler: app.DashboardHandler,
		DocumentHandler:  app.DocumentsHandler,
		ScoreHandler:     app.ScoresHandler,
	})
	return app, nil
}

// Close releases backend connections.
func (a *App) Close() error {
	var firstErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			firstErr = err
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildRedis(cfg config.Config) *backend.Client {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		log.Printf("bootstrap: REDIS_ADDR empty; dashboard sessions are memory only")
		return nil
	}
	return backend.NewClient(&backend.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

func buildServices(app *App) error {
	var scoreRepo scores.Repo
	var docRepo documents.DocumentsRepo
	if app.DB != nil {
		scoreRepo = &scores.PGRepo{DB: app.DB}
		docRepo = &documents.PGRepo{DB: app.DB}
	} else {
		scoreRepo = scores.NewMemoryRepo()
		docRepo = documents.NewMemoryRepo()
	}

	app.ScoresService = scores.NewService(scoreRepo)
	app.DocumentsService = &documents.Service{
		Store:           app.Store,
		Repo:            docRepo,
		StorageProvider: app.Config.ObjectStoreType,
	}

	scoreSvc := app.ScoresService
	opts := []dashboard.RegistryOption{
		dashboard.WithLoaderOptions(dashboard.WithTimeout(app.Config.DashboardLoadTimeout)),
	}
	if app.Redis != nil {
		opts = append(opts, dashboard.WithSnapshots(dashboard.NewRedisSnapshotsFromClient(
			app.Redis,
			dashboard.WithTTL(app.Config.SessionTTL),
		)))
	}
	registry, err := dashboard.NewRegistry(app.Config.SessionCacheSize, func(userID string) dashboard.Actions {
		return dashboard.ScoreActions{Scores: scoreSvc, UserID: userID}
	}, opts...)
	if err != nil {
		return err
	}
	app.Registry = registry

	app.DashboardHandler = dashboard.NewHandler(registry)

	app.ScoresHandler = scores.NewHandler(scoreSvc)
	app.ScoresHandler.OnRecorded = func(userID string) {
		registry.Invalidate(context.Background(), userID)
	}

	app.DocumentsHandler = documents.NewHandler(app.DocumentsService)
	app.DocumentsHandler.OnUploaded = func(c *gin.Context, doc documents.Document) {
		id := doc.ID
		registry.SetCurrentResume(c.Request.Context(), doc.UserID, &id)
	}
	return nil
}

func registerHealthChecks(app *App) {
	if app.DB != nil {
		app.Health.Register("database", func(ctx context.Context) error {
			return db.Ping(ctx, app.DB, 0)
		})
	}
	if app.Redis != nil {
		app.Health.Register("redis", func(ctx context.Context) error {
			return app.Redis.Ping(ctx).Err()
		})
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
