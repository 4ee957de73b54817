package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"foodgram-go/internal/config"
	"foodgram-go/internal/infra/database"
	infraES "foodgram-go/internal/infra/elasticsearch"
	infraKafka "foodgram-go/internal/infra/kafka"
	"foodgram-go/internal/repository"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "foodgram-worker",
		Usage: "sync recipes into the search index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "configs/config.yaml",
				EnvVars: []string{"FOODGRAM_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "consume",
				Usage:  "consume recipe events from kafka",
				Action: consume,
			},
			{
				Name:  "reindex",
				Usage: "rebuild the recipes index from the database",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "batch", Value: 200, Usage: "每批写入的菜谱数"},
				},
				Action: reindex,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup 加载配置并连接数据库与 Elasticsearch
func setup(c *cli.Context) (*config.Config, *service.RecipeIndexer, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("init database: %w", err)
	}
	es, err := infraES.NewClient(c.Context, &cfg.Elasticsearch)
	if err != nil {
		return nil, nil, fmt.Errorf("init elasticsearch: %w", err)
	}

	index := infraES.NewRecipeIndex(es, cfg.Elasticsearch.RecipesIndex())
	indexer := service.NewRecipeIndexer(repository.NewRecipeRepository(database.Get()), index)
	return cfg, indexer, nil
}

func consume(c *cli.Context) error {
	cfg, indexer, err := setup(c)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	if !cfg.Kafka.Enabled {
		return fmt.Errorf("kafka is disabled in config")
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	logger.Info("Search sync worker started",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("index", cfg.Elasticsearch.RecipesIndex()),
	)

	infraKafka.ConsumeRecipeEvents(ctx, &cfg.Kafka, indexer.HandleEvent)
	return nil
}

func reindex(c *cli.Context) error {
	_, indexer, err := setup(c)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	batch := c.Int("batch")
	if batch <= 0 {
		batch = 200
	}

	success, failed, err := indexer.Reindex(c.Context, batch)
	logger.Info("Reindex finished", zap.Int("success", success), zap.Int("failed", failed))
	return err
}
