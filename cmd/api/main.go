package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"foodgram-go/internal/api/handler"
	"foodgram-go/internal/api/middleware"
	"foodgram-go/internal/api/router"
	"foodgram-go/internal/config"
	"foodgram-go/internal/infra/database"
	infraES "foodgram-go/internal/infra/elasticsearch"
	infraKafka "foodgram-go/internal/infra/kafka"
	infraMinio "foodgram-go/internal/infra/minio"
	infraRedis "foodgram-go/internal/infra/redis"
	"foodgram-go/internal/repository"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"
	"foodgram-go/pkg/utils"

	_ "foodgram-go/api/openapi"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// @title Foodgram API
// @version 1.0
// @description 菜谱分享平台 API 服务

// @BasePath /api

// @securityDefinitions.apikey TokenAuth
// @in header
// @name Authorization
// @description 输入格式: Token {token}

func main() {
	app := &cli.App{
		Name:  "foodgram-api",
		Usage: "Foodgram HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "configs/config.yaml",
				Usage:   "配置文件路径",
				EnvVars: []string{"FOODGRAM_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start http server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update database tables",
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	return cfg, nil
}

func migrate(c *cli.Context) error {
	if _, err := setup(c); err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	if err := database.Migrate(database.Get()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("Database migrated")
	return nil
}

func serve(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	db := database.Get()
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := infraRedis.Init(&cfg.Redis); err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	defer infraRedis.Close()

	if err := infraMinio.Init(&cfg.MinIO); err != nil {
		return fmt.Errorf("init minio: %w", err)
	}

	if err := middleware.RegisterValidators(); err != nil {
		return err
	}

	// 未启用 Kafka 时不发送菜谱变更事件
	var events service.EventPublisher
	if cfg.Kafka.Enabled {
		producer := infraKafka.NewProducer(&cfg.Kafka)
		defer producer.Close()
		events = producer
	}

	// Elasticsearch 可选，不可用时搜索降级到 DB
	var searcher service.RecipeSearcher
	if es, err := infraES.NewClient(c.Context, &cfg.Elasticsearch); err != nil {
		logger.Warn("Elasticsearch init failed, search will fallback to DB", zap.Error(err))
	} else {
		index := infraES.NewRecipeIndex(es, cfg.Elasticsearch.RecipesIndex())
		ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
		if err := index.EnsureIndex(ctx); err != nil {
			logger.Warn("Elasticsearch index init failed", zap.Error(err))
		}
		cancel()
		searcher = index
	}

	// 初始化依赖（Repository -> Service -> Handler）
	userRepo := repository.NewUserRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	cartRepo := repository.NewShoppingCartRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	shortLinkRepo := repository.NewShortLinkRepository(db)

	images := infraMinio.NewImageStore(infraMinio.Get(), &cfg.MinIO)
	tokens := utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpireDuration(), cfg.App.Name)

	authService := service.NewAuthService(userRepo, tokens, infraRedis.NewTokenBlacklist(infraRedis.Get()))
	userService := service.NewUserService(userRepo, subscriptionRepo, images)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, userRepo, recipeRepo)
	catalogService := service.NewCatalogService(catalogRepo)
	recipeService := service.NewRecipeService(recipeRepo, catalogRepo, favoriteRepo, cartRepo, subscriptionRepo, images, events)
	cartService := service.NewCartService(cartRepo)
	shortLinkService := service.NewShortLinkService(shortLinkRepo, recipeRepo, cfg.ShortLink.Length, cfg.ShortLink.MaxAttempts, nil)
	searchService := service.NewSearchService(recipeRepo, searcher, recipeService)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.LoginPerMinute > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.LoginPerMinute, time.Minute)
		cleanupCtx, stopCleanup := context.WithCancel(c.Context)
		defer stopCleanup()
		go limiter.RunCleanup(cleanupCtx, 10*time.Minute)
	}

	r := router.New(cfg.App.Mode)
	router.Setup(r, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Relation: handler.NewRelationHandler(subscriptionService),
		Catalog:  handler.NewCatalogHandler(catalogService),
		Recipe:   handler.NewRecipeHandler(recipeService, shortLinkService),
		Favorite: handler.NewFavoriteHandler(recipeService, cartService),
		Search:   handler.NewSearchHandler(searchService),
	}, authService, limiter)

	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.Int("port", cfg.App.Port),
		zap.Bool("kafka", cfg.Kafka.Enabled),
		zap.Bool("elasticsearch", searcher != nil),
	)

	return run(c.Context, fmt.Sprintf(":%d", cfg.App.Port), r)
}
