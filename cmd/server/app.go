package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/inkwell-cms/inkwell/internal/app/task"
	"github.com/inkwell-cms/inkwell/internal/infra/persistence/database"
	"github.com/inkwell-cms/inkwell/internal/infra/persistence/sqldb"
	"github.com/inkwell-cms/inkwell/internal/infra/router"
	"github.com/inkwell-cms/inkwell/internal/infra/storage"
	"github.com/inkwell-cms/inkwell/internal/pkg/markdown"
	"github.com/inkwell-cms/inkwell/pkg/config"
	"github.com/inkwell-cms/inkwell/pkg/domain/repository"
	articlehdl "github.com/inkwell-cms/inkwell/pkg/handler/article"
	authhdl "github.com/inkwell-cms/inkwell/pkg/handler/auth"
	categoryhdl "github.com/inkwell-cms/inkwell/pkg/handler/category"
	projecthdl "github.com/inkwell-cms/inkwell/pkg/handler/project"
	publichdl "github.com/inkwell-cms/inkwell/pkg/handler/public"
	taghdl "github.com/inkwell-cms/inkwell/pkg/handler/tag"
	techstackhdl "github.com/inkwell-cms/inkwell/pkg/handler/techstack"
	thoughthdl "github.com/inkwell-cms/inkwell/pkg/handler/thought"
	travelhdl "github.com/inkwell-cms/inkwell/pkg/handler/travel"
	userhdl "github.com/inkwell-cms/inkwell/pkg/handler/user"
	articlesvc "github.com/inkwell-cms/inkwell/pkg/service/article"
	authsvc "github.com/inkwell-cms/inkwell/pkg/service/auth"
	categorysvc "github.com/inkwell-cms/inkwell/pkg/service/category"
	projectsvc "github.com/inkwell-cms/inkwell/pkg/service/project"
	sitesvc "github.com/inkwell-cms/inkwell/pkg/service/site"
	tagsvc "github.com/inkwell-cms/inkwell/pkg/service/tag"
	techstacksvc "github.com/inkwell-cms/inkwell/pkg/service/techstack"
	thoughtsvc "github.com/inkwell-cms/inkwell/pkg/service/thought"
	travelsvc "github.com/inkwell-cms/inkwell/pkg/service/travel"
	uploadsvc "github.com/inkwell-cms/inkwell/pkg/service/upload"
	usersvc "github.com/inkwell-cms/inkwell/pkg/service/user"
	viewcountsvc "github.com/inkwell-cms/inkwell/pkg/service/viewcount"
)

// App holds the assembled application.
type App struct {
	cfg       *config.Config
	logger    zerolog.Logger
	db        *sqlx.DB
	redis     *redis.Client
	server    *http.Server
	scheduler *task.Scheduler
}

// NewApp wires configuration, storage, repositories, services, handlers and
// background jobs into a runnable server.
func NewApp(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	db, err := database.NewSQLDB(cfg)
	if err != nil {
		return nil, err
	}
	driver, err := database.DriverName(cfg.GetString(config.KeyDBType))
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, driver); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	if redisClient == nil {
		logger.Info().Msg("redis not configured, using in-process fallbacks")
	}

	secret, err := jwtSecret(cfg)
	if err != nil {
		return nil, err
	}

	// Repositories.
	articleRepo := sqldb.NewArticleRepository(db, driver)
	categoryRepo := sqldb.NewCategoryRepository(db, driver)
	tagRepo := sqldb.NewTagRepository(db, driver)
	techStackRepo := sqldb.NewTechStackRepository(db, driver)
	thoughtRepo := sqldb.NewThoughtRepository(db, driver)
	travelRepo := sqldb.NewTravelRepository(db, driver)
	projectRepo := sqldb.NewProjectRepository(db, driver)
	userRepo := sqldb.NewUserRepository(db, driver)

	if err := seedAdmin(cfg, logger, userRepo); err != nil {
		return nil, err
	}

	// Storage and rendering.
	provider, err := storage.NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	renderer := markdown.NewRenderer()

	// Services.
	articleSvc := articlesvc.NewService(articleRepo, categoryRepo, userRepo, renderer, logger)
	categorySvc := categorysvc.NewService(categoryRepo)
	tagSvc := tagsvc.NewService(tagRepo)
	techStackSvc := techstacksvc.NewService(techStackRepo)
	thoughtSvc := thoughtsvc.NewService(thoughtRepo)
	travelSvc := travelsvc.NewService(travelRepo)
	projectSvc := projectsvc.NewService(projectRepo)
	userSvc := usersvc.NewService(userRepo)
	authSvc := authsvc.NewService(userRepo, secret, redisClient, logger)
	uploadSvc := uploadsvc.NewService(provider, cfg, logger)
	viewSvc := viewcountsvc.NewService(articleRepo, redisClient, logger)
	siteSvc := sitesvc.NewService(articleRepo, categoryRepo, tagRepo, thoughtRepo, travelRepo, projectRepo)

	// Handlers.
	handlers := &router.Handlers{
		Auth:      authhdl.NewHandler(authSvc),
		Article:   articlehdl.NewHandler(articleSvc, uploadSvc),
		Category:  categoryhdl.NewHandler(categorySvc, uploadSvc),
		Tag:       taghdl.NewHandler(tagSvc, uploadSvc),
		TechStack: techstackhdl.NewHandler(techStackSvc, uploadSvc),
		Thought:   thoughthdl.NewHandler(thoughtSvc, uploadSvc),
		Travel:    travelhdl.NewHandler(travelSvc, uploadSvc),
		Project:   projecthdl.NewHandler(projectSvc, uploadSvc),
		User:      userhdl.NewHandler(userSvc, uploadSvc),
		Public: publichdl.NewHandler(articleSvc, categorySvc, tagSvc, techStackSvc,
			thoughtSvc, travelSvc, projectSvc, siteSvc, viewSvc),
	}

	uploadsDir := ""
	if local, ok := provider.(*storage.LocalProvider); ok {
		uploadsDir = local.Dir()
	}

	debug := cfg.GetBool(config.KeyServerDebug)
	engine := router.New(debug, logger, secret, handlers, uploadsDir)

	port := cfg.GetInt(config.KeyServerPort)
	if port == 0 {
		port = 8080
	}

	scheduler := task.NewScheduler(
		slog.Default().With("component", "scheduler"),
		articleSvc,
		viewSvc,
		[]repository.Purger{
			articleRepo, categoryRepo, tagRepo, techStackRepo,
			thoughtRepo, travelRepo, projectRepo, userRepo,
		},
	)

	return &App{
		cfg:    cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		scheduler: scheduler,
	}, nil
}

// Run starts the background jobs and serves HTTP until the server is shut
// down.
func (a *App) Run() error {
	if err := a.scheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info().Str("addr", a.server.Addr).Msg("server listening")
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, drains in-flight ones, flushes the
// background jobs and closes the connections.
func (a *App) Shutdown(ctx context.Context) {
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown failed")
	}
	a.scheduler.Stop(ctx)
	if a.redis != nil {
		a.redis.Close()
	}
	a.db.Close()
}

// jwtSecret reads the configured secret, generating a random one when the
// config leaves it empty. Sessions then reset on restart; set Auth.JWTSecret
// to keep them.
func jwtSecret(cfg *config.Config) ([]byte, error) {
	if s := cfg.GetString(config.KeyJWTSecret); s != "" {
		return []byte(s), nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generate jwt secret: %w", err)
	}
	secret := hex.EncodeToString(buf)
	cfg.Set(config.KeyJWTSecret, secret)
	return []byte(secret), nil
}
